// internal/workers/evaluation/route-outcome/handler.go
package routeoutcome

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/redis/go-redis/v9"

	"pathway-workers/internal/common/logger"
	"pathway-workers/internal/common/metrics"
)

const (
	TaskType = "route-evaluation-outcome"
)

type Handler struct {
	config *Config
	db     *sql.DB
	redis  *redis.Client
	logger logger.Logger
}

func NewHandler(config *Config, db *sql.DB, redis *redis.Client, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		db:     db,
		redis:  redis,
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
		h.failJob(client, job, "ROUTING_CHECK_FAILED", err.Error(), 3)
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	orgTier, err := h.getOrgTier(ctx, input.OrgID)
	if err != nil {
		h.logger.Warn("failed to fetch organization tier, defaulting to standard", map[string]interface{}{
			"orgId": input.OrgID,
			"error": err,
		})
		orgTier = TierStandard
	}

	band := h.readinessBand(input)
	priority := h.determinePriority(input, band, orgTier)
	escalate := input.NoMatch || input.TimelineUrgency == TimelineUrgent || band == BandLow

	h.logger.Info("outcome routing determined", map[string]interface{}{
		"sessionId":           input.SessionID,
		"orgTier":             orgTier,
		"readinessBand":       band,
		"routingPriority":     priority,
		"escalateToCounselor": escalate,
	})

	return &Output{
		RoutingPriority:     priority,
		EscalateToCounselor: escalate,
		OrgTier:             orgTier,
		ReadinessBand:       band,
	}, nil
}

// getOrgTier resolves the organization's account tier, cache first. Student
// self-service sessions carry no org id and route as standard.
func (h *Handler) getOrgTier(ctx context.Context, orgID string) (string, error) {
	if orgID == "" {
		return TierStandard, nil
	}

	cacheKey := "org:tier:" + orgID
	if val, err := h.redis.Get(ctx, cacheKey).Result(); err == nil {
		return val, nil
	}

	row := h.db.QueryRowContext(ctx, `
		SELECT account_tier
		FROM organizations
		WHERE id = $1`, orgID)

	var tier string
	err := row.Scan(&tier)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", fmt.Errorf("organization not found for org %s", orgID)
		}
		return "", fmt.Errorf("database error: %w", err)
	}

	switch tier {
	case TierPremium, TierVerified, TierStandard:
		// valid
	default:
		tier = TierStandard
	}

	h.redis.Set(ctx, cacheKey, tier, h.config.OrgTierTTL)
	return tier, nil
}

func (h *Handler) readinessBand(input *Input) string {
	if input.ReadinessBand != "" {
		return input.ReadinessBand
	}
	switch {
	case input.ReadinessScore >= 70:
		return BandHigh
	case input.ReadinessScore >= 40:
		return BandMedium
	default:
		return BandLow
	}
}

func (h *Handler) determinePriority(input *Input, band, orgTier string) string {
	if input.NoMatch && input.TimelineUrgency == TimelineUrgent {
		return PriorityHigh
	}
	if orgTier == TierPremium {
		return PriorityHigh
	}
	if input.NoMatch || input.TimelineUrgency == TimelineUrgent || band == BandLow {
		return PriorityMedium
	}
	if orgTier == TierVerified {
		return PriorityMedium
	}
	return PriorityLow
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
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, "ROUTING_CHECK_FAILED").Inc()
		return nil, err
	}
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	return output, nil
}
