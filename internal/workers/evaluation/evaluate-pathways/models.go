// internal/workers/evaluation/evaluate-pathways/models.go
package evaluatepathways

import "pathway-workers/internal/models"

type Input struct {
	SessionID string                 `json:"sessionId,omitempty"`
	Profile   map[string]interface{} `json:"profile"`
	TopN      int                    `json:"topN,omitempty"`

	// Rules and UniversityPrograms let the process carry its own catalog
	// snapshot; when absent the worker loads the active catalog itself.
	Rules              []map[string]interface{} `json:"rules,omitempty"`
	UniversityPrograms []map[string]interface{} `json:"universityPrograms,omitempty"`
}

type Output struct {
	Result              *models.EvaluationResult `json:"result"`
	NoMatch             bool                     `json:"noMatch"`
	ReadinessScore      int                      `json:"readinessScore"`
	RecommendationCount int                      `json:"recommendationCount"`
	EvaluationTimeMs    int64                    `json:"evaluationTimeMs"`
	CacheHit            bool                     `json:"cacheHit"`
}
