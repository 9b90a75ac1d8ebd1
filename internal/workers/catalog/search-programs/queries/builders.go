package queries

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

var (
	ErrUnknownQueryType = errors.New("unknown query type")
	ErrMissingIndex     = errors.New("index name is required")
)

// ProgramQuery defines the structure of a catalog search request
type ProgramQuery struct {
	Index      string
	QueryType  string
	Filters    map[string]interface{}
	ProgramID  string
	Pagination struct {
		From int
		Size int
	}
}

// BuildQuery builds an Elasticsearch search request based on query type and filters
func BuildQuery(esClient *elasticsearch.Client, pq ProgramQuery) (*esapi.SearchRequest, error) {
	if pq.Index == "" {
		return nil, ErrMissingIndex
	}

	var queryBody map[string]interface{}

	switch pq.QueryType {
	case "program_search":
		queryBody = buildProgramSearchQuery(pq)
	case "related_programs":
		queryBody = buildRelatedProgramsQuery(pq)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownQueryType, pq.QueryType)
	}

	body, _ := json.Marshal(queryBody)

	req := esapi.SearchRequest{
		Index:  []string{pq.Index},
		Body:   strings.NewReader(string(body)),
		From:   &pq.Pagination.From,
		Size:   &pq.Pagination.Size,
		Pretty: true,
	}

	return &req, nil
}

// buildProgramSearchQuery builds the main program search query dynamically
func buildProgramSearchQuery(pq ProgramQuery) map[string]interface{} {
	boolQuery := make(map[string]interface{})
	mustClauses := []interface{}{}
	filterClauses := []interface{}{}

	// Keyword search across program, university and field text
	if keywords, ok := pq.Filters["keywords"].(string); ok && keywords != "" {
		mustClauses = append(mustClauses, map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  keywords,
				"fields": []string{"program_name^2", "university_name", "field_tags"},
				"type":   "best_fields",
			},
		})
	}

	// Country filter
	if country, ok := pq.Filters["country"].(string); ok && country != "" {
		filterClauses = append(filterClauses, map[string]interface{}{
			"term": map[string]interface{}{"country": country},
		})
	}

	// Program level filter (Foundation, Diploma, Degree)
	if level, ok := pq.Filters["programLevel"].(string); ok && level != "" {
		filterClauses = append(filterClauses, map[string]interface{}{
			"term": map[string]interface{}{"program_level": level},
		})
	}

	// PTPTN eligibility filter; false is a valid filter value
	if ptptn, ok := pq.Filters["ptptnEligible"].(bool); ok {
		filterClauses = append(filterClauses, map[string]interface{}{
			"term": map[string]interface{}{"ptptn_eligible": ptptn},
		})
	}

	// Field tags filter
	if tags, ok := pq.Filters["fieldTags"].([]interface{}); ok && len(tags) > 0 {
		terms := make([]string, 0, len(tags))
		for _, tag := range tags {
			if s, ok := tag.(string); ok {
				terms = append(terms, s)
			}
		}
		if len(terms) > 0 {
			filterClauses = append(filterClauses, map[string]interface{}{
				"terms": map[string]interface{}{"field_tags": terms},
			})
		}
	}

	// Intake month filter
	if month, ok := pq.Filters["intakeMonth"].(string); ok && month != "" {
		filterClauses = append(filterClauses, map[string]interface{}{
			"term": map[string]interface{}{"intake_months": month},
		})
	}

	// Yearly tuition range filter
	if tuitionRange, ok := pq.Filters["tuitionRange"].(map[string]interface{}); ok {
		minRaw, minExists := tuitionRange["min"]
		maxRaw, maxExists := tuitionRange["max"]

		minVal := toFloat(minRaw)
		maxVal := toFloat(maxRaw)

		switch {
		// Both bounds: the program's whole tuition band must fit the range
		case minExists && maxExists && minVal > 0 && maxVal > 0 && minVal <= maxVal:
			filterClauses = append(filterClauses, map[string]interface{}{
				"bool": map[string]interface{}{
					"must": []interface{}{
						map[string]interface{}{
							"range": map[string]interface{}{
								"tuition_yearly_min": map[string]interface{}{"gte": minVal},
							},
						},
						map[string]interface{}{
							"range": map[string]interface{}{
								"tuition_yearly_max": map[string]interface{}{"lte": maxVal},
							},
						},
					},
				},
			})

		// Only max: keep programs whose cheapest band is affordable
		case maxExists && maxVal > 0:
			filterClauses = append(filterClauses, map[string]interface{}{
				"range": map[string]interface{}{
					"tuition_yearly_min": map[string]interface{}{"lte": maxVal},
				},
			})

		// Only min: keep programs reaching at least the floor
		case minExists && minVal > 0:
			filterClauses = append(filterClauses, map[string]interface{}{
				"range": map[string]interface{}{
					"tuition_yearly_max": map[string]interface{}{"gte": minVal},
				},
			})
		}
	}

	// Default match_all if no keyword
	if len(mustClauses) == 0 {
		mustClauses = append(mustClauses, map[string]interface{}{"match_all": map[string]interface{}{}})
	}

	boolQuery["must"] = mustClauses
	if len(filterClauses) > 0 {
		boolQuery["filter"] = filterClauses
	}

	query := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": boolQuery,
		},
	}

	// Sorting logic
	if sortBy, ok := pq.Filters["sortBy"].(string); ok {
		switch sortBy {
		case "tuition":
			query["sort"] = []map[string]interface{}{{"tuition_yearly_min": "asc"}}
		case "program_name":
			query["sort"] = []map[string]interface{}{{"program_name.keyword": "asc"}}
		}
	}

	return query
}

// buildRelatedProgramsQuery builds a "similar programs" query
func buildRelatedProgramsQuery(pq ProgramQuery) map[string]interface{} {
	if pq.ProgramID == "" {
		return map[string]interface{}{
			"query": map[string]interface{}{
				"match_none": map[string]interface{}{},
			},
		}
	}

	return map[string]interface{}{
		"query": map[string]interface{}{
			"more_like_this": map[string]interface{}{
				"fields": []string{"program_name", "university_name", "field_tags"},
				"like": []map[string]interface{}{
					{"_index": pq.Index, "_id": pq.ProgramID},
				},
				"min_term_freq":   1,
				"max_query_terms": 12,
				"min_doc_freq":    1,
				"min_word_length": 3,
			},
		},
	}
}

func toFloat(raw interface{}) float64 {
	switch v := raw.(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return 0
}
