// internal/workers/catalog/search-programs/models.go
package searchprograms

type Input struct {
	// IndexName overrides the configured index; normally left empty.
	IndexName  string                 `json:"indexName,omitempty"`
	QueryType  string                 `json:"queryType,omitempty"`
	Filters    map[string]interface{} `json:"filters"`
	ProgramID  string                 `json:"programId,omitempty"`
	Pagination Pagination             `json:"pagination"`
}

type Pagination struct {
	From int `json:"from"`
	Size int `json:"size"`
}

type Output struct {
	Data      []map[string]interface{} `json:"data"`
	TotalHits int64                    `json:"totalHits"`
	MaxScore  float64                  `json:"maxScore"`
	Took      int64                    `json:"took"` // milliseconds
}

// Query types
const (
	QueryTypeProgramSearch   = "program_search"
	QueryTypeRelatedPrograms = "related_programs"
)
