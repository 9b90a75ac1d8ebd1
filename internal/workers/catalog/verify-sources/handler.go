// internal/workers/catalog/verify-sources/handler.go
package verifysources

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	commonhttp "pathway-workers/internal/common/http"
	"pathway-workers/internal/common/logger"
	"pathway-workers/internal/common/metrics"
)

const (
	TaskType = "verify-catalog-sources"
)

var (
	ErrSourceCheckFailed = errors.New("SOURCE_CHECK_FAILED")
	ErrSourceTimeout     = errors.New("SOURCE_TIMEOUT")
)

type Handler struct {
	config     *Config
	db         *sql.DB
	httpClient *commonhttp.Client
	logger     logger.Logger
}

// sourceCheck is one URL to probe. code is empty for ad-hoc payload URLs,
// which have no registry row to update.
type sourceCheck struct {
	code string
	name string
	url  string
}

func NewHandler(config *Config, db *sql.DB, log logger.Logger) *Handler {
	return &Handler{
		config:     config,
		db:         db,
		httpClient: commonhttp.NewClient(config.RequestTimeout),
		logger:     log.WithFields(map[string]interface{}{"taskType": TaskType}),
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

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.Execute(ctx, &input)
	if err != nil {
		h.failJob(client, job, h.mapErrorToCode(err), err.Error(), h.getRetryCount(err))
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	checks := make([]sourceCheck, 0, len(input.SourceURLs))
	for _, u := range input.SourceURLs {
		checks = append(checks, sourceCheck{url: u})
	}

	if !input.SkipRegistry {
		registered, err := h.loadSources(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: load sources: %v", ErrSourceCheckFailed, err)
		}
		checks = append(checks, registered...)
	}

	results := make([]SourceResult, 0, len(checks))
	okCount, failedCount := 0, 0
	for _, check := range checks {
		if ctxErr := ctx.Err(); ctxErr != nil {
			if errors.Is(ctxErr, context.DeadlineExceeded) {
				return nil, fmt.Errorf("%w: aborted after %d of %d sources", ErrSourceTimeout, len(results), len(checks))
			}
			return nil, fmt.Errorf("%w: %v", ErrSourceCheckFailed, ctxErr)
		}

		status, latency, err := h.checkSource(ctx, check.url)
		result := SourceResult{
			SourceCode: check.code,
			Name:       check.name,
			URL:        check.url,
			HTTPStatus: status,
			LatencyMs:  latency,
		}
		if err != nil {
			// One unreachable source is a result, not a job failure.
			result.Status = StatusFailed
			result.Error = err.Error()
			failedCount++
			h.logger.Warn("source check failed", map[string]interface{}{
				"url":   check.url,
				"error": err.Error(),
			})
		} else {
			result.Status = StatusOK
			okCount++
		}
		results = append(results, result)

		if check.code != "" {
			h.recordStatus(ctx, check.code, result.Status)
		}
	}

	h.logger.Info("source check complete", map[string]interface{}{
		"checked": len(results),
		"ok":      okCount,
		"failed":  failedCount,
	})

	return &Output{
		SourcesChecked: len(results),
		SourcesOK:      okCount,
		SourcesFailed:  failedCount,
		Results:        results,
		CheckedAt:      time.Now().UTC().Format(time.RFC3339),
	}, nil
}

func (h *Handler) loadSources(ctx context.Context) ([]sourceCheck, error) {
	query := `
		SELECT source_code, name, base_url
		FROM external_sources
		WHERE active = TRUE
		ORDER BY source_code
		LIMIT $1`

	rows, err := h.db.QueryContext(ctx, query, h.config.MaxSources)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sources []sourceCheck
	for rows.Next() {
		var s sourceCheck
		if err := rows.Scan(&s.code, &s.name, &s.url); err != nil {
			return nil, err
		}
		sources = append(sources, s)
	}
	return sources, rows.Err()
}

func (h *Handler) checkSource(ctx context.Context, url string) (int, int64, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", h.config.UserAgent)

	start := time.Now()
	resp, err := h.httpClient.DoWithContext(ctx, req)
	latency := time.Since(start).Milliseconds()
	if err != nil {
		return 0, latency, err
	}
	defer resp.Body.Close()

	// Sources are content pages, not APIs; anything below 400 counts as reachable.
	if resp.StatusCode >= http.StatusBadRequest {
		return resp.StatusCode, latency, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return resp.StatusCode, latency, nil
}

// recordStatus writes the check outcome back to the registry row. Best
// effort: a failed write must not fail the sweep.
func (h *Handler) recordStatus(ctx context.Context, sourceCode, status string) {
	query := `
		UPDATE external_sources
		SET last_checked_at = $1, last_status = $2
		WHERE source_code = $3`

	if _, err := h.db.ExecContext(ctx, query, time.Now().UTC(), status, sourceCode); err != nil {
		h.logger.Warn("failed to record source status", map[string]interface{}{
			"sourceCode": sourceCode,
			"error":      err.Error(),
		})
	}
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

func (h *Handler) mapErrorToCode(err error) string {
	if errors.Is(err, ErrSourceTimeout) {
		return "SOURCE_TIMEOUT"
	} else if errors.Is(err, ErrSourceCheckFailed) {
		return "SOURCE_CHECK_FAILED"
	}
	return "UNKNOWN_ERROR"
}

func (h *Handler) getRetryCount(err error) int32 {
	if errors.Is(err, ErrSourceCheckFailed) {
		return 3
	} else if errors.Is(err, ErrSourceTimeout) {
		return 2
	}
	return 0
}

// Execute runs the task body and records the shared job outcome counters.
// Handle and the tests both come through here, so the counters reflect every
// execution path.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	output, err := h.execute(ctx, input)
	if err != nil {
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, h.mapErrorToCode(err)).Inc()
		return nil, err
	}
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	return output, nil
}
