// internal/workers/catalog/query-catalog/models.go
package querycatalog

import "pathway-workers/internal/models"

type Input struct {
	QueryType   string                 `json:"queryType"`
	Level       string                 `json:"level,omitempty"`
	RuleID      string                 `json:"ruleId,omitempty"`
	ProgramCode string                 `json:"programCode,omitempty"`
	SessionID   string                 `json:"sessionId,omitempty"`
	Filters     map[string]interface{} `json:"filters,omitempty"`
}

type Output struct {
	Data               interface{} `json:"data"`
	RowCount           int         `json:"rowCount"`
	QueryExecutionTime int64       `json:"queryExecutionTime"` // milliseconds
}

type QueryType = models.QueryType

// Export constants for external use
var (
	QueryTypeRulesByLevel   = models.QueryTypeRulesByLevel
	QueryTypeRuleDetails    = models.QueryTypeRuleDetails
	QueryTypeActivePrograms = models.QueryTypeActivePrograms
	QueryTypeProgramDetails = models.QueryTypeProgramDetails
	QueryTypeSessionResults = models.QueryTypeSessionResults
)
