// internal/workers/evaluation/check-readiness-score/handler_test.go
package checkreadinessscore

import (
	"context"
	"errors"
	"testing"

	"pathway-workers/internal/common/logger"
	"pathway-workers/internal/common/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig() *Config {
	return LoadConfig()
}

func createTestInput() *Input {
	return &Input{
		SessionID: "session-001",
		Profile: map[string]interface{}{
			"student_level": "SPM",
			"spm_credits":   6,
			"subjects": map[string]interface{}{
				"math":    "B",
				"english": "B",
			},
			"budget_monthly":         1500,
			"english_self":           "Intermediate",
			"english_test_score":     70,
			"preparedness_checklist": []interface{}{"CV drafted"},
			"interest_tags":          []interface{}{"IT"},
			"destination_preference": "malaysia_only",
			"destination_tags":       []interface{}{"malaysia"},
			"need_work_part_time":    true,
			"scholarship_needed":     false,
			"timeline_urgency":       "normal",
		},
	}
}

type testLogger struct {
	t *testing.T
}

func (tl *testLogger) Debug(msg string, fields map[string]interface{}) {
	tl.t.Logf("DEBUG: %s %v", msg, fields)
}

func (tl *testLogger) Info(msg string, fields map[string]interface{}) {
	tl.t.Logf("INFO: %s %v", msg, fields)
}

func (tl *testLogger) Warn(msg string, fields map[string]interface{}) {
	tl.t.Logf("WARN: %s %v", msg, fields)
}

func (tl *testLogger) Error(msg string, fields map[string]interface{}) {
	tl.t.Logf("ERROR: %s %v", msg, fields)
}

func (tl *testLogger) WithFields(fields map[string]interface{}) logger.Logger {
	return tl
}

func (tl *testLogger) WithError(err error) logger.Logger {
	return tl.WithFields(map[string]interface{}{"error": err})
}

func newTestLogger(t *testing.T) logger.Logger {
	return &testLogger{t: t}
}

func intPtr(v int) *int { return &v }

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_ScoresProfile(t *testing.T) {
	handler := NewHandler(createTestConfig(), newTestLogger(t))

	output, err := handler.Execute(context.Background(), createTestInput())

	assert.NoError(t, err)
	assert.NotNil(t, output)
	assert.Equal(t, 71, output.ReadinessScore)
	assert.Equal(t, BandHigh, output.ReadinessBand)
	assert.Equal(t, 30.0, output.Breakdown.Academic)
	assert.Equal(t, 18.0, output.Breakdown.English)
	assert.Equal(t, 20.0, output.Breakdown.Budget)
	assert.Equal(t, 3.0, output.Breakdown.Preparedness)
}

func TestHandler_Execute_ProvidedScoreWins(t *testing.T) {
	handler := NewHandler(createTestConfig(), newTestLogger(t))

	input := createTestInput()
	input.ReadinessScore = intPtr(35)

	output, err := handler.Execute(context.Background(), input)

	assert.NoError(t, err)
	assert.Equal(t, 35, output.ReadinessScore)
	assert.Equal(t, BandLow, output.ReadinessBand)
	// Breakdown still reflects the profile when one was supplied.
	assert.Equal(t, 30.0, output.Breakdown.Academic)
}

func TestHandler_Execute_ScoreOnlyInput(t *testing.T) {
	handler := NewHandler(createTestConfig(), newTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{
		SessionID:      "session-002",
		ReadinessScore: intPtr(80),
	})

	assert.NoError(t, err)
	assert.Equal(t, 80, output.ReadinessScore)
	assert.Equal(t, BandHigh, output.ReadinessBand)
	assert.Equal(t, 0.0, output.Breakdown.Academic)
}

func TestHandler_Execute_DiplomaProfile(t *testing.T) {
	handler := NewHandler(createTestConfig(), newTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{
		Profile: map[string]interface{}{
			"student_level":  "Diploma",
			"cgpa":           3.2,
			"english_self":   "Intermediate",
			"budget_monthly": 900,
		},
	})

	assert.NoError(t, err)
	// 32 academic + 18 english + 12 budget, no preparedness items.
	assert.Equal(t, 62, output.ReadinessScore)
	assert.Equal(t, BandMedium, output.ReadinessBand)
	assert.Equal(t, 32.0, output.Breakdown.Academic)
	assert.Equal(t, 12.0, output.Breakdown.Budget)
}

// ==========================
// Band Classification Tests
// ==========================

func TestHandler_Execute_BandBoundaries(t *testing.T) {
	tests := []struct {
		name  string
		score int
		band  string
	}{
		{name: "exactly high threshold", score: 70, band: BandHigh},
		{name: "just below high", score: 69, band: BandMedium},
		{name: "exactly medium threshold", score: 40, band: BandMedium},
		{name: "just below medium", score: 39, band: BandLow},
		{name: "zero", score: 0, band: BandLow},
		{name: "full score", score: 100, band: BandHigh},
	}

	handler := NewHandler(createTestConfig(), newTestLogger(t))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := handler.Execute(context.Background(), &Input{
				ReadinessScore: intPtr(tt.score),
			})

			assert.NoError(t, err)
			assert.Equal(t, tt.band, output.ReadinessBand)
		})
	}
}

// ==========================
// Edge Cases
// ==========================

func TestHandler_Execute_EmptyInput(t *testing.T) {
	handler := NewHandler(createTestConfig(), newTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{})

	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrProfileParseFailed))
	assert.Nil(t, output)
}

func TestHandler_Execute_NilInput(t *testing.T) {
	handler := NewHandler(createTestConfig(), newTestLogger(t))

	output, err := handler.Execute(context.Background(), nil)

	assert.Error(t, err)
	assert.Nil(t, output)
}

func TestHandler_Execute_RecordsJobOutcomeCounters(t *testing.T) {
	handler := NewHandler(createTestConfig(), newTestLogger(t))

	completedBefore := testutil.ToFloat64(metrics.WorkerJobsCompleted.WithLabelValues(TaskType))
	failedBefore := testutil.ToFloat64(metrics.WorkerJobsFailed.WithLabelValues(TaskType, "PROFILE_PARSE_FAILED"))

	_, err := handler.Execute(context.Background(), createTestInput())
	assert.NoError(t, err)
	assert.Equal(t, completedBefore+1, testutil.ToFloat64(metrics.WorkerJobsCompleted.WithLabelValues(TaskType)))

	_, err = handler.Execute(context.Background(), &Input{})
	assert.Error(t, err)
	assert.Equal(t, failedBefore+1, testutil.ToFloat64(metrics.WorkerJobsFailed.WithLabelValues(TaskType, "PROFILE_PARSE_FAILED")))
}
