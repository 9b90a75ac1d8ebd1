// internal/workers/session/create-session-record/handler.go
package createsessionrecord

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"pathway-workers/internal/common/logger"
	"pathway-workers/internal/common/metrics"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const (
	TaskType = "create-session-record"
)

var (
	ErrSessionWriteFailed = errors.New("SESSION_WRITE_FAILED")
	ErrDuplicateSession   = errors.New("DUPLICATE_SESSION")
)

type Handler struct {
	db     *sql.DB
	logger logger.Logger
}

func NewHandler(config *Config, db *sql.DB, log logger.Logger) *Handler {
	return &Handler{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, "PARSE_ERROR").Inc()
		h.failJob(client, job, "PARSE_ERROR", fmt.Sprintf("parse input: %v", err), 0)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	output, err := h.Execute(ctx, &input)
	if err != nil {
		errorCode, retries := errorCodeFor(err)
		h.failJob(client, job, errorCode, err.Error(), retries)
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	// Nothing is written without explicit consent; the job still completes
	// so the process can continue to notification.
	if !input.ConsentToSave {
		h.logger.Info("consent not given, skipping session persistence", map[string]interface{}{
			"sessionId": input.SessionID,
		})
		return &Output{Saved: false}, nil
	}

	sessionID := input.SessionID
	if sessionID == "" {
		sessionID = uuid.New().String()
	} else {
		var exists bool
		err := h.db.QueryRowContext(ctx, `
			SELECT EXISTS(
				SELECT 1 FROM sessions
				WHERE id = $1
			)`, sessionID).Scan(&exists)
		if err != nil {
			return nil, fmt.Errorf("%w: duplicate check failed: %v", ErrSessionWriteFailed, err)
		}
		if exists {
			return nil, fmt.Errorf("%w: session %s already recorded", ErrDuplicateSession, sessionID)
		}
	}

	mode := input.Mode
	if mode != ModeStudent && mode != ModeCounselor {
		mode = ModeStudent
	}
	language := input.Language
	if language == "" {
		language = "en"
	}

	savedAt := time.Now().UTC().Format(time.RFC3339)

	profileJSON, err := json.Marshal(input.Profile)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to marshal profile: %v", ErrSessionWriteFailed, err)
	}

	results := make(map[string]interface{}, len(input.Result)+1)
	for k, v := range input.Result {
		results[k] = v
	}
	if _, ok := results["schema_version"]; !ok {
		results["schema_version"] = "1.0"
	}
	resultsJSON, err := json.Marshal(results)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to marshal results: %v", ErrSessionWriteFailed, err)
	}

	// user and org are nullable; blank means anonymous self-service.
	var userID, orgID interface{}
	if input.UserID != "" {
		userID = input.UserID
	}
	if input.OrgID != "" {
		orgID = input.OrgID
	}

	recommendationID := uuid.New().String()

	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: begin transaction: %v", ErrSessionWriteFailed, err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO sessions (id, user_id, organization_id, mode, language, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		sessionID,
		userID,
		orgID,
		mode,
		language,
		savedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: insert session: %v", ErrSessionWriteFailed, err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO session_inputs (session_id, inputs_json, created_at)
		VALUES ($1, $2, $3)`,
		sessionID,
		profileJSON,
		savedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: insert session inputs: %v", ErrSessionWriteFailed, err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO recommendations (id, session_id, results_json, created_at)
		VALUES ($1, $2, $3, $4)`,
		recommendationID,
		sessionID,
		resultsJSON,
		savedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: insert recommendations: %v", ErrSessionWriteFailed, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%w: commit failed: %v", ErrSessionWriteFailed, err)
	}

	// Audit entry is non-critical; log errors but don't fail the job.
	auditDetailsJSON, err := json.Marshal(map[string]interface{}{
		"sessionId":        sessionID,
		"recommendationId": recommendationID,
		"mode":             mode,
	})
	if err != nil {
		h.logger.Warn("failed to marshal audit log details", map[string]interface{}{
			"error": err,
		})
		auditDetailsJSON = []byte("{}")
	}

	_, err = h.db.ExecContext(ctx, `
		INSERT INTO audit_log (event_type, resource_type, resource_id, details, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		"results_saved",
		"session",
		sessionID,
		auditDetailsJSON,
		savedAt,
	)
	if err != nil {
		h.logger.Warn("audit log insert failed", map[string]interface{}{
			"error":     err,
			"sessionId": sessionID,
		})
	}

	h.logger.Info("session record created", map[string]interface{}{
		"sessionId":        sessionID,
		"recommendationId": recommendationID,
		"mode":             mode,
		"language":         language,
	})

	return &Output{
		SessionRecordID:  sessionID,
		RecommendationID: recommendationID,
		Saved:            true,
		SavedAt:          savedAt,
	}, nil
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	_, err = cmd.Send(context.Background())
	if err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
	} else {
		h.logger.Info("job completed successfully", map[string]interface{}{
			"jobKey": job.Key,
		})
	}
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, errorCode, errorMessage string, retries int32) {
	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":       job.Key,
		"errorCode":    errorCode,
		"errorMessage": errorMessage,
		"retries":      retries,
	})

	_, err := client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(errorCode).
		ErrorMessage(errorMessage).
		Send(context.Background())
	if err != nil {
		h.logger.Error("failed to throw error", map[string]interface{}{
			"error": err,
		})
	}
}

// errorCodeFor maps an execution error onto its BPMN error code and retry
// budget.
func errorCodeFor(err error) (string, int32) {
	switch {
	case errors.Is(err, ErrSessionWriteFailed):
		return "SESSION_WRITE_FAILED", 3
	case errors.Is(err, ErrDuplicateSession):
		return "DUPLICATE_SESSION", 0
	default:
		return "UNKNOWN_ERROR", 0
	}
}

// Execute runs the task body and records the shared job outcome counters.
// Handle and the tests both come through here, so the counters reflect every
// execution path.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	output, err := h.execute(ctx, input)
	if err != nil {
		errorCode, _ := errorCodeFor(err)
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, errorCode).Inc()
		return nil, err
	}
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	return output, nil
}
