// internal/workers/catalog/verify-sources/models.go
package verifysources

type Input struct {
	// SourceURLs are ad-hoc URLs to verify, typically a program's listed
	// source pages. They are checked but never written back to the registry.
	SourceURLs []string `json:"sourceUrls,omitempty"`
	// SkipRegistry limits the sweep to the payload URLs.
	SkipRegistry bool `json:"skipRegistry,omitempty"`
}

type Output struct {
	SourcesChecked int            `json:"sourcesChecked"`
	SourcesOK      int            `json:"sourcesOk"`
	SourcesFailed  int            `json:"sourcesFailed"`
	Results        []SourceResult `json:"results"`
	CheckedAt      string         `json:"checkedAt"`
}

type SourceResult struct {
	SourceCode string `json:"sourceCode,omitempty"`
	Name       string `json:"name,omitempty"`
	URL        string `json:"url"`
	Status     string `json:"status"`
	HTTPStatus int    `json:"httpStatus,omitempty"`
	LatencyMs  int64  `json:"latencyMs"`
	Error      string `json:"error,omitempty"`
}

const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)
