// internal/models/session.go
package models

// EvaluationSession is one persisted evaluation run.
type EvaluationSession struct {
	ID             string `json:"id"`
	UserID         string `json:"user_id,omitempty"`
	OrganizationID string `json:"organization_id,omitempty"`
	Mode           string `json:"mode"` // student | counselor
	Language       string `json:"language"`
	CreatedAt      string `json:"created_at"`
}

// SessionInputRecord stores the raw profile that produced a session.
type SessionInputRecord struct {
	SessionID string                 `json:"session_id"`
	Inputs    map[string]interface{} `json:"inputs"`
	CreatedAt string                 `json:"created_at"`
}

// RecommendationRecord stores the serialized evaluation result of a session.
type RecommendationRecord struct {
	ID            string                 `json:"id"`
	SessionID     string                 `json:"session_id"`
	Results       map[string]interface{} `json:"results"`
	SchemaVersion string                 `json:"schema_version"`
	CreatedAt     string                 `json:"created_at"`
}

// AuditLogEntry is one row in the audit trail.
type AuditLogEntry struct {
	ID        string                 `json:"id"`
	UserID    string                 `json:"user_id,omitempty"`
	Action    string                 `json:"action"`
	Details   map[string]interface{} `json:"details"`
	CreatedAt string                 `json:"created_at"`
}
