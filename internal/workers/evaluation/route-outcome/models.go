// internal/workers/evaluation/route-outcome/models.go
package routeoutcome

type Input struct {
	SessionID       string `json:"sessionId"`
	OrgID           string `json:"orgId"`
	NoMatch         bool   `json:"noMatch"`
	ReadinessScore  int    `json:"readinessScore"`
	ReadinessBand   string `json:"readinessBand"`
	TimelineUrgency string `json:"timelineUrgency"`
}

type Output struct {
	RoutingPriority     string `json:"routingPriority"`
	EscalateToCounselor bool   `json:"escalateToCounselor"`
	OrgTier             string `json:"orgTier"`
	ReadinessBand       string `json:"readinessBand"`
}

// Organization account tiers
const (
	TierPremium  = "premium"
	TierVerified = "verified"
	TierStandard = "standard"
)

// Priority levels
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// Readiness bands as emitted by the readiness scoring worker
const (
	BandHigh   = "high"
	BandMedium = "medium"
	BandLow    = "low"
)

const TimelineUrgent = "urgent"
