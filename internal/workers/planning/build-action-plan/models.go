// internal/workers/planning/build-action-plan/models.go
package buildactionplan

import "pathway-workers/internal/models"

type Input struct {
	SessionID string                 `json:"sessionId,omitempty"`
	Profile   map[string]interface{} `json:"profile"`
	// MissingConditions are the aggregated gaps across shortlisted pathways.
	MissingConditions []string `json:"missingConditions,omitempty"`
	// NoMatch switches the worker into recovery mode: the plan is rebuilt
	// from rejection reasons and a recovery plan is attached.
	NoMatch          bool                     `json:"noMatch,omitempty"`
	RejectionReasons []string                 `json:"rejectionReasons,omitempty"`
	FallbackRules    []map[string]interface{} `json:"fallbackRules,omitempty"`
}

type Output struct {
	SevenDayActions []string             `json:"sevenDayActions"`
	ThirtyDayPlan   []string             `json:"thirtyDayPlan"`
	RecoveryPlan    *models.RecoveryPlan `json:"recoveryPlan,omitempty"`
}
