// pkg/registry/schema.go
package registry

// Categories mirror the worker package layout under internal/workers.
const (
	CategoryEvaluation   = "evaluation"
	CategoryCatalog      = "catalog"
	CategoryPlanning     = "planning"
	CategorySession      = "session"
	CategoryNotification = "notification"
)

type ActivityRegistry struct {
	Version     string     `json:"version"`
	LastUpdated string     `json:"lastUpdated"`
	Activities  []Activity `json:"activities"`
}

type Activity struct {
	ID                   string                 `json:"id"`
	DisplayName          string                 `json:"displayName"`
	Description          string                 `json:"description"`
	Category             string                 `json:"category"`
	Version              string                 `json:"version"`
	TaskType             string                 `json:"taskType"`
	ImplementationStatus string                 `json:"implementationStatus"`
	InputSchema          map[string]interface{} `json:"inputSchema"`
	OutputSchema         map[string]interface{} `json:"outputSchema"`
	ErrorCodes           []string               `json:"errorCodes"`
	Timeout              string                 `json:"timeout"`
	Retries              int                    `json:"retries"`
	Workflows            []string               `json:"workflows"`
	Tags                 []string               `json:"tags"`
}

// documentSchema is the JSON Schema every registry document must satisfy.
// Field-level structure lives here; cross-item rules (unique ids) live in
// Validate because JSON Schema cannot express them.
func documentSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":     "object",
		"required": []string{"version", "lastUpdated", "activities"},
		"properties": map[string]interface{}{
			"version":     map[string]interface{}{"type": "string", "minLength": 1},
			"lastUpdated": map[string]interface{}{"type": "string", "minLength": 1},
			"activities": map[string]interface{}{
				"type":     "array",
				"minItems": 1,
				"items": map[string]interface{}{
					"type":     "object",
					"required": []string{"id", "displayName", "category", "taskType", "implementationStatus"},
					"properties": map[string]interface{}{
						"id":          map[string]interface{}{"type": "string", "minLength": 1},
						"displayName": map[string]interface{}{"type": "string", "minLength": 1},
						"description": map[string]interface{}{"type": "string"},
						"category": map[string]interface{}{
							"enum": []string{
								CategoryEvaluation,
								CategoryCatalog,
								CategoryPlanning,
								CategorySession,
								CategoryNotification,
							},
						},
						"taskType": map[string]interface{}{"type": "string", "minLength": 1},
						"implementationStatus": map[string]interface{}{
							"enum": []string{"planned", "in-progress", "completed", "verified"},
						},
						"errorCodes": map[string]interface{}{
							"type":  "array",
							"items": map[string]interface{}{"type": "string"},
						},
						"retries": map[string]interface{}{"type": "integer", "minimum": 0},
					},
				},
			},
		},
	}
}
