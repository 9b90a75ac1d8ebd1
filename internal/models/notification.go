// internal/models/notification.go
package models

type Notification struct {
	ID        string                 `json:"id"`
	Recipient string                 `json:"recipient"` // email address or phone number
	Outcome   string                 `json:"outcome"`   // "shortlist" or "recovery"
	Channel   string                 `json:"channel"`   // "email", "sms"
	Status    string                 `json:"status"`    // "sent", "failed", "disabled"
	Payload   map[string]interface{} `json:"payload"`
	SentAt    string                 `json:"sentAt"`
	CreatedAt string                 `json:"createdAt"`
}

type NotificationTemplate struct {
	ID      string `json:"id"`
	Outcome string `json:"outcome"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	Version string `json:"version"`
}
