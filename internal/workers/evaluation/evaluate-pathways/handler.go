package evaluatepathways

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"pathway-workers/internal/common/logger"
	"pathway-workers/internal/common/metrics"
	"pathway-workers/internal/engine"
	"pathway-workers/internal/workers/catalog/query-catalog/queries"
)

const (
	TaskType = "evaluate-pathways"
)

var (
	ErrProfileParseFailed = errors.New("PROFILE_PARSE_FAILED")
	ErrCatalogEmpty       = errors.New("CATALOG_EMPTY")
	ErrEvaluationFailed   = errors.New("EVALUATION_FAILED")
)

// EvaluationRecorder is the slice of the observability bundle this worker
// records through, narrowed to an interface so tests can fake it.
type EvaluationRecorder interface {
	RecordEvaluation(ctx context.Context, studentLevel, outcome string)
	RecordEvaluationDuration(ctx context.Context, duration time.Duration, outcome string)
}

type Handler struct {
	config *Config
	db     *sql.DB
	redis  *redis.Client
	obs    EvaluationRecorder
	logger logger.Logger
}

func NewHandler(config *Config, db *sql.DB, redisClient *redis.Client, obs EvaluationRecorder, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		db:     db,
		redis:  redisClient,
		obs:    obs,
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
		errorCode, retries := errorCodeFor(err)
		h.failJob(client, job, errorCode, err.Error(), retries)
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, fmt.Errorf("input cannot be nil")
	}
	if len(input.Profile) == 0 {
		return nil, fmt.Errorf("%w: profile is required", ErrProfileParseFailed)
	}

	cacheKey := ""
	if input.SessionID != "" && h.redis != nil {
		cacheKey = "evaluation:result:" + input.SessionID
		if cached, err := h.redis.Get(ctx, cacheKey).Result(); err == nil {
			var output Output
			if err := json.Unmarshal([]byte(cached), &output); err == nil {
				output.CacheHit = true
				h.logger.Info("evaluation served from cache", map[string]interface{}{
					"sessionId": input.SessionID,
				})
				return &output, nil
			}
		}
	}

	profile := engine.NormalizeProfile(input.Profile)

	ruleMaps := input.Rules
	if len(ruleMaps) == 0 && h.db != nil {
		loaded, err := h.loadRules(ctx, profile.StudentLevel)
		if err != nil {
			return nil, fmt.Errorf("%w: load rules: %v", ErrEvaluationFailed, err)
		}
		ruleMaps = loaded
	}
	if len(ruleMaps) == 0 {
		return nil, fmt.Errorf("%w: no active rules for level %s", ErrCatalogEmpty, profile.StudentLevel)
	}

	programMaps := input.UniversityPrograms
	if len(programMaps) == 0 && h.db != nil {
		loaded, err := h.loadPrograms(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: load programs: %v", ErrEvaluationFailed, err)
		}
		programMaps = loaded
	}

	topN := input.TopN
	if topN <= 0 {
		topN = h.config.DefaultTopN
	}

	tracer := otel.Tracer("pathway-workers/evaluation")
	_, span := tracer.Start(ctx, "engine.evaluate",
		trace.WithAttributes(
			attribute.String("student_level", profile.StudentLevel),
			attribute.Int("rule_count", len(ruleMaps)),
			attribute.Int("program_count", len(programMaps)),
		))

	evalStart := time.Now()
	result := engine.Evaluate(engine.Request{
		Rules:    engine.RulesFromMaps(ruleMaps),
		Programs: engine.ProgramsFromMaps(programMaps),
		Profile:  profile,
		TopN:     topN,
	})
	evalElapsed := time.Since(evalStart)

	span.SetAttributes(attribute.Bool("no_match", result.NoMatch))
	span.End()

	outcome := "shortlist"
	if result.NoMatch {
		outcome = "no_match"
	}
	metrics.EvaluationsTotal.WithLabelValues(profile.StudentLevel, outcome).Inc()
	metrics.EvaluationDuration.Observe(evalElapsed.Seconds())
	metrics.RecommendationCount.Observe(float64(len(result.Recommendations)))
	metrics.UniversityOptionsCount.Observe(float64(len(result.TopUniversityOptions)))
	if h.obs != nil {
		h.obs.RecordEvaluation(ctx, profile.StudentLevel, outcome)
		h.obs.RecordEvaluationDuration(ctx, evalElapsed, outcome)
	}

	output := &Output{
		Result:              result,
		NoMatch:             result.NoMatch,
		ReadinessScore:      result.Readiness.ReadinessScore,
		RecommendationCount: len(result.Recommendations),
		EvaluationTimeMs:    evalElapsed.Milliseconds(),
	}

	if cacheKey != "" {
		if payload, err := json.Marshal(output); err == nil {
			if err := h.redis.Set(ctx, cacheKey, payload, h.config.ResultCacheTTL).Err(); err != nil {
				h.logger.Warn("failed to cache evaluation result", map[string]interface{}{
					"sessionId": input.SessionID,
					"error":     err,
				})
			}
		}
	}

	h.logger.Info("evaluation completed", map[string]interface{}{
		"sessionId":           input.SessionID,
		"studentLevel":        profile.StudentLevel,
		"noMatch":             result.NoMatch,
		"recommendationCount": len(result.Recommendations),
		"readinessScore":      result.Readiness.ReadinessScore,
		"evaluationTimeMs":    output.EvaluationTimeMs,
	})

	return output, nil
}

func (h *Handler) loadRules(ctx context.Context, level string) ([]map[string]interface{}, error) {
	data, _, _, err := queries.RulesByLevel(ctx, h.db, map[string]interface{}{"level": level})
	if err != nil {
		return nil, err
	}
	maps, _ := data.([]map[string]interface{})
	return maps, nil
}

func (h *Handler) loadPrograms(ctx context.Context) ([]map[string]interface{}, error) {
	data, _, _, err := queries.ActivePrograms(ctx, h.db, map[string]interface{}{})
	if err != nil {
		return nil, err
	}
	maps, _ := data.([]map[string]interface{})
	return maps, nil
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

// errorCodeFor maps an execution error onto its BPMN error code and retry
// budget.
func errorCodeFor(err error) (string, int32) {
	switch {
	case errors.Is(err, ErrCatalogEmpty):
		return "CATALOG_EMPTY", 1
	case errors.Is(err, ErrProfileParseFailed):
		return "PROFILE_PARSE_FAILED", 0
	default:
		return "EVALUATION_FAILED", 0
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
