// internal/workers/evaluation/check-readiness-score/handler.go
package checkreadinessscore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"pathway-workers/internal/common/logger"
	"pathway-workers/internal/common/metrics"
	"pathway-workers/internal/engine"
	"pathway-workers/internal/models"
)

const (
	TaskType = "check-readiness-score"
)

var (
	ErrProfileParseFailed = errors.New("PROFILE_PARSE_FAILED")
)

type Handler struct {
	config *Config
	logger logger.Logger
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	return &Handler{
		config: config,
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

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.Execute(ctx, &input)
	if err != nil {
		h.failJob(client, job, "PROFILE_PARSE_FAILED", err.Error(), 0)
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}
	if input.ReadinessScore == nil && len(input.Profile) == 0 {
		return nil, fmt.Errorf("%w: profile or readinessScore is required", ErrProfileParseFailed)
	}

	var readiness models.Readiness
	if len(input.Profile) > 0 {
		readiness = engine.ScoreReadiness(engine.NormalizeProfile(input.Profile))
	}

	score := readiness.ReadinessScore
	if input.ReadinessScore != nil {
		score = *input.ReadinessScore
	}
	band := h.classifyBand(score)

	h.logger.Info("readiness scored", map[string]interface{}{
		"sessionId":      input.SessionID,
		"readinessScore": score,
		"readinessBand":  band,
	})

	return &Output{
		ReadinessScore: score,
		ReadinessBand:  band,
		Breakdown:      readiness.Breakdown,
	}, nil
}

func (h *Handler) classifyBand(score int) string {
	switch {
	case score >= h.config.HighBandMin:
		return BandHigh
	case score >= h.config.MediumBandMin:
		return BandMedium
	default:
		return BandLow
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

// Execute runs the task body and records the shared job outcome counters.
// Handle and the tests both come through here, so the counters reflect every
// execution path.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	output, err := h.execute(ctx, input)
	if err != nil {
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, "PROFILE_PARSE_FAILED").Inc()
		return nil, err
	}
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	return output, nil
}
