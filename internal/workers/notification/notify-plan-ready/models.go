// internal/workers/notification/notify-plan-ready/models.go
package notifyplanready

type Input struct {
	SessionID string `json:"sessionId"`
	// Contact details ride on the payload; this worker stores no PII.
	RecipientName  string                 `json:"recipientName,omitempty"`
	RecipientEmail string                 `json:"recipientEmail,omitempty"`
	RecipientPhone string                 `json:"recipientPhone,omitempty"`
	NoMatch        bool                   `json:"noMatch"`
	ReadinessScore int                    `json:"readinessScore,omitempty"`
	TopPathway     string                 `json:"topPathway,omitempty"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
}

type Output struct {
	NotificationID string `json:"notificationId"`
	Status         string `json:"status"` // "sent", "failed", "disabled"
	SentAt         string `json:"sentAt"` // ISO 8601
}

// Template keys, selected by evaluation outcome
const (
	TypeShortlistReady = "shortlist_ready"
	TypeRecoveryReady  = "recovery_ready"
)

// Statuses
const (
	StatusSent     = "sent"
	StatusFailed   = "failed"
	StatusDisabled = "disabled"
)
