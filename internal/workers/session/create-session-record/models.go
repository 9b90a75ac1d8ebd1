// internal/workers/session/create-session-record/models.go
package createsessionrecord

type Input struct {
	// SessionID is optional; the process supplies it when the id was
	// allocated earlier in the flow, otherwise one is generated here.
	SessionID     string                 `json:"sessionId"`
	UserID        string                 `json:"userId"`
	OrgID         string                 `json:"orgId"`
	Mode          string                 `json:"mode"` // student | counselor
	Language      string                 `json:"language"`
	Profile       map[string]interface{} `json:"profile"`
	Result        map[string]interface{} `json:"result"`
	ConsentToSave bool                   `json:"consentToSave"`
}

type Output struct {
	SessionRecordID  string `json:"sessionRecordId"`
	RecommendationID string `json:"recommendationId"`
	Saved            bool   `json:"saved"`
	SavedAt          string `json:"savedAt"` // ISO 8601
}

// Session modes
const (
	ModeStudent   = "student"
	ModeCounselor = "counselor"
)
