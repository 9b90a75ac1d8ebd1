// internal/workers/planning/build-action-plan/handler_test.go
package buildactionplan

import (
	"context"
	"errors"
	"testing"

	"pathway-workers/internal/common/logger"

	"github.com/stretchr/testify/assert"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig() *Config {
	return LoadConfig()
}

func createTestProfile() map[string]interface{} {
	return map[string]interface{}{
		"student_level":       "SPM",
		"spm_credits":         6,
		"budget_monthly":      1200,
		"english_self":        "Intermediate",
		"interest_tags":       []interface{}{"IT"},
		"scholarship_needed":  false,
		"need_work_part_time": false,
	}
}

func createTestInput() *Input {
	return &Input{
		SessionID: "session-001",
		Profile:   createTestProfile(),
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

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_BaselinePlan(t *testing.T) {
	handler := NewHandler(createTestConfig(), newTestLogger(t))

	output, err := handler.Execute(context.Background(), createTestInput())

	assert.NoError(t, err)
	assert.NotNil(t, output)
	assert.Len(t, output.SevenDayActions, 3)
	assert.Len(t, output.ThirtyDayPlan, 4)
	assert.Equal(t, "Shortlist two realistic pathways and discuss with a counselor/mentor.", output.SevenDayActions[0])
	assert.Nil(t, output.RecoveryPlan)
}

func TestHandler_Execute_EnglishGapAddsPlacementTest(t *testing.T) {
	handler := NewHandler(createTestConfig(), newTestLogger(t))

	input := createTestInput()
	input.MissingConditions = []string{"Strengthen English proficiency"}

	output, err := handler.Execute(context.Background(), input)

	assert.NoError(t, err)
	assert.Contains(t, output.SevenDayActions, "Take a free English placement test and set a target score.")
}

func TestHandler_Execute_ProfileFlagsExtendThirtyDayPlan(t *testing.T) {
	handler := NewHandler(createTestConfig(), newTestLogger(t))

	input := createTestInput()
	input.Profile["scholarship_needed"] = true
	input.Profile["need_work_part_time"] = true

	output, err := handler.Execute(context.Background(), input)

	assert.NoError(t, err)
	assert.Len(t, output.ThirtyDayPlan, 6)
	assert.Contains(t, output.ThirtyDayPlan, "Prepare scholarship narrative and referee contact list.")
	assert.Contains(t, output.ThirtyDayPlan, "Map study schedule with legal and institution work limits.")
}

// ==========================
// Recovery Mode Tests
// ==========================

func TestHandler_Execute_NoMatchAttachesRecoveryPlan(t *testing.T) {
	handler := NewHandler(createTestConfig(), newTestLogger(t))

	input := createTestInput()
	input.NoMatch = true
	input.RejectionReasons = []string{
		"SPM credits 6 < 9",
		"Budget below pathway minimum",
	}
	input.FallbackRules = []map[string]interface{}{
		{
			"rule_id":          "LOCAL_DIP",
			"active":           true,
			"student_level":    "SPM",
			"destination_tags": []interface{}{"malaysia"},
			"pathway_title":    "Diploma in IT (Local)",
			"pathway_summary":  "Two-year local diploma.",
			"priority_weight":  5,
		},
		{
			"rule_id":          "UK_FOUNDATION",
			"active":           true,
			"student_level":    "SPM",
			"destination_tags": []interface{}{"uk"},
			"pathway_title":    "UK Foundation",
			"priority_weight":  9,
		},
	}

	output, err := handler.Execute(context.Background(), input)

	assert.NoError(t, err)
	assert.NotNil(t, output.RecoveryPlan)
	assert.Contains(t, output.RecoveryPlan.BlockedInputs, "SPM credits 6 < 9")
	assert.GreaterOrEqual(t, len(output.RecoveryPlan.UnlockSteps), 3)

	// Only the Malaysia-friendly rule qualifies as an alternative.
	assert.Len(t, output.RecoveryPlan.AlternativeLocalPathways, 1)
	assert.Equal(t, "Diploma in IT (Local)", output.RecoveryPlan.AlternativeLocalPathways[0].PathwayTitle)
}

func TestHandler_Execute_NoMatchBuildsPlanFromRejections(t *testing.T) {
	handler := NewHandler(createTestConfig(), newTestLogger(t))

	input := createTestInput()
	input.NoMatch = true
	input.RejectionReasons = []string{"English level significantly below requirement"}

	output, err := handler.Execute(context.Background(), input)

	assert.NoError(t, err)
	assert.Contains(t, output.SevenDayActions, "Take a free English placement test and set a target score.")
	assert.NotNil(t, output.RecoveryPlan)
	assert.Empty(t, output.RecoveryPlan.AlternativeLocalPathways)
}

// ==========================
// Edge Cases
// ==========================

func TestHandler_Execute_MissingProfile(t *testing.T) {
	handler := NewHandler(createTestConfig(), newTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{SessionID: "session-002"})

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
