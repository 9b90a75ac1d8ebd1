// internal/workers/catalog/query-catalog/queries/registry.go
package queries

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"pathway-workers/internal/models"
)

var (
	ErrMissingParam     = errors.New("missing required parameter")
	ErrUnknownQueryType = errors.New("unknown query type")
)

// QueryFunc returns: data, rowCount, executionTime (ms), error
type QueryFunc func(ctx context.Context, db *sql.DB, params map[string]interface{}) (interface{}, int, int64, error)

var Registry = map[models.QueryType]QueryFunc{
	models.QueryTypeRulesByLevel:   RulesByLevel,
	models.QueryTypeRuleDetails:    RuleDetails,
	models.QueryTypeActivePrograms: ActivePrograms,
	models.QueryTypeProgramDetails: ProgramDetails,
	models.QueryTypeSessionResults: SessionResults,
}

func Execute(ctx context.Context, db *sql.DB, queryType models.QueryType, params map[string]interface{}) (interface{}, int, int64, error) {
	fn, exists := Registry[queryType]
	if !exists {
		return nil, 0, 0, fmt.Errorf("%w: %s", ErrUnknownQueryType, queryType)
	}
	return fn(ctx, db, params)
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows, so single-row and
// multi-row queries can share the scan helpers below.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func nullableInt(v sql.NullInt64) interface{} {
	if !v.Valid {
		return nil
	}
	return int(v.Int64)
}

func nullableFloat(v sql.NullFloat64) interface{} {
	if !v.Valid {
		return nil
	}
	return v.Float64
}

// jsonObject decodes a JSONB column. The column is validated by postgres, so
// a decode failure only happens on NULL or empty payloads.
func jsonObject(raw []byte) map[string]interface{} {
	if len(raw) == 0 {
		return nil
	}
	var m map[string]interface{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil
	}
	return m
}
