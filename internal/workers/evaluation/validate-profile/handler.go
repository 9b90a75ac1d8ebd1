// internal/workers/evaluation/validate-profile/handler.go
package validateprofile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/xeipuuv/gojsonschema"

	"pathway-workers/internal/common/logger"
	"pathway-workers/internal/common/metrics"
	"pathway-workers/internal/engine"
)

const (
	TaskType = "validate-student-profile"
)

var (
	ErrProfileValidationFailed = errors.New("PROFILE_VALIDATION_FAILED")
	ErrProfileParseFailed      = errors.New("PROFILE_PARSE_FAILED")
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
		h.failJob(client, job, errorCodeFor(err), err.Error(), 0)
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	if input == nil || len(input.Profile) == 0 {
		return nil, fmt.Errorf("%w: profile is required", ErrProfileParseFailed)
	}

	validationErrors, err := h.validateProfile(input.Profile)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProfileParseFailed, err)
	}

	isValid := len(validationErrors) == 0
	h.logger.Info("validation completed", map[string]interface{}{
		"sessionId":  input.SessionID,
		"isValid":    isValid,
		"errorCount": len(validationErrors),
	})

	if !isValid {
		return nil, fmt.Errorf("%w: %d validation errors", ErrProfileValidationFailed, len(validationErrors))
	}

	return &Output{
		ProfileValid:      true,
		ValidationErrors:  []string{},
		NormalizedProfile: engine.NormalizeProfile(input.Profile),
	}, nil
}

// validateProfile runs the schema check plus the level-specific requirements
// a flat schema cannot express. The returned strings are wizard-facing.
func (h *Handler) validateProfile(profile map[string]interface{}) ([]string, error) {
	schemaLoader := gojsonschema.NewGoLoader(profileSchema())
	documentLoader := gojsonschema.NewGoLoader(profile)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return nil, fmt.Errorf("schema validation: %w", err)
	}

	validationErrors := []string{}
	for _, desc := range result.Errors() {
		validationErrors = append(validationErrors, desc.String())
	}

	switch profile["student_level"] {
	case "SPM":
		if _, ok := profile["spm_credits"]; !ok {
			validationErrors = append(validationErrors, "spm_credits: required when student_level is SPM")
		}
	case "Diploma":
		if _, ok := profile["cgpa"]; !ok {
			validationErrors = append(validationErrors, "cgpa: required when student_level is Diploma")
		}
	}

	return validationErrors, nil
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

// errorCodeFor maps an execution error onto its BPMN error code.
func errorCodeFor(err error) string {
	if errors.Is(err, ErrProfileParseFailed) {
		return "PROFILE_PARSE_FAILED"
	}
	return "PROFILE_VALIDATION_FAILED"
}

// Execute runs the task body and records the shared job outcome counters.
// Handle and the tests both come through here, so the counters reflect every
// execution path.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	output, err := h.execute(ctx, input)
	if err != nil {
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, errorCodeFor(err)).Inc()
		return nil, err
	}
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	return output, nil
}

// ValidateProfile exposes the schema check for callers that want the error
// list without the throw-on-invalid contract, such as the wizard preflight.
func (h *Handler) ValidateProfile(profile map[string]interface{}) ([]string, error) {
	return h.validateProfile(profile)
}
