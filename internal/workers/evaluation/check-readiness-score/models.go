// internal/workers/evaluation/check-readiness-score/models.go
package checkreadinessscore

import "pathway-workers/internal/models"

type Input struct {
	SessionID string                 `json:"sessionId,omitempty"`
	Profile   map[string]interface{} `json:"profile,omitempty"`
	// ReadinessScore carries a score already computed upstream; when set it
	// wins over recomputation so gateway decisions match the saved result.
	ReadinessScore *int `json:"readinessScore,omitempty"`
}

type Output struct {
	ReadinessScore int                       `json:"readinessScore"`
	ReadinessBand  string                    `json:"readinessBand"`
	Breakdown      models.ReadinessBreakdown `json:"readinessBreakdown"`
}

// Readiness bands consumed by workflow gateways
const (
	BandHigh   = "high"
	BandMedium = "medium"
	BandLow    = "low"
)
