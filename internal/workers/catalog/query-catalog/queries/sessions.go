// internal/workers/catalog/query-catalog/queries/sessions.go
package queries

import (
	"context"
	"database/sql"
	"time"
)

// SessionResults returns one saved session with its profile inputs and the
// most recent recommendation payload. Inputs and recommendation come from
// LEFT JOINs, so a session saved without consent-to-save inputs still
// resolves.
func SessionResults(ctx context.Context, db *sql.DB, params map[string]interface{}) (interface{}, int, int64, error) {
	sessionID, ok := params["sessionId"].(string)
	if !ok {
		return nil, 0, 0, ErrMissingParam
	}

	start := time.Now()

	var (
		id, mode, language, createdAt string
		inputsJSON, resultsJSON       []byte
		recommendationID, recordedAt  sql.NullString
	)

	err := db.QueryRowContext(ctx, `
		SELECT s.id, s.mode, s.language, s.created_at,
		       si.inputs_json, r.id, r.results_json, r.created_at
		FROM sessions s
		LEFT JOIN session_inputs si ON si.session_id = s.id
		LEFT JOIN recommendations r ON r.session_id = s.id
		WHERE s.id = $1
		ORDER BY r.created_at DESC
		LIMIT 1`, sessionID).Scan(
		&id, &mode, &language, &createdAt,
		&inputsJSON, &recommendationID, &resultsJSON, &recordedAt,
	)
	if err != nil {
		return nil, 0, 0, err
	}

	result := map[string]interface{}{
		"session_id":         id,
		"mode":               mode,
		"language":           language,
		"created_at":         createdAt,
		"profile":            jsonObject(inputsJSON),
		"recommendation_id":  recommendationID.String,
		"results":            jsonObject(resultsJSON),
		"results_created_at": recordedAt.String,
	}

	execTime := time.Since(start).Milliseconds()
	return result, 1, execTime, nil
}
