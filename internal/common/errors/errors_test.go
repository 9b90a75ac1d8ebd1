package errors

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetRetryCount(t *testing.T) {
	tests := []struct {
		name string
		code ErrorCode
		want int
	}{
		{"database connection", ErrCodeDatabaseConnectionFailed, 3},
		{"query execution", ErrCodeQueryExecutionFailed, 3},
		{"search query", ErrCodeSearchQueryFailed, 3},
		{"search connection", ErrCodeSearchConnectionFailed, 3},
		{"session write", ErrCodeSessionWriteFailed, 3},
		{"notification send", ErrCodeNotificationSendFailed, 3},
		{"routing check", ErrCodeRoutingCheckFailed, 3},
		{"source check", ErrCodeSourceCheckFailed, 3},
		{"query timeout", ErrCodeQueryTimeout, 2},
		{"search timeout", ErrCodeSearchTimeout, 2},
		{"source timeout", ErrCodeSourceTimeout, 2},
		{"catalog empty", ErrCodeCatalogEmpty, 1},
		{"profile validation", ErrCodeProfileValidationFailed, 0},
		{"profile parse", ErrCodeProfileParseFailed, 0},
		{"evaluation failed", ErrCodeEvaluationFailed, 0},
		{"invalid query type", ErrCodeInvalidQueryType, 0},
		{"index not found", ErrCodeIndexNotFound, 0},
		{"duplicate session", ErrCodeDuplicateSession, 0},
		{"unknown code", ErrorCode("SOMETHING_ELSE"), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetRetryCount(tt.code))
		})
	}
}

func TestIsRetryableErrorCode(t *testing.T) {
	assert.True(t, IsRetryableErrorCode(ErrCodeDatabaseConnectionFailed))
	assert.True(t, IsRetryableErrorCode(ErrCodeCatalogEmpty))
	assert.False(t, IsRetryableErrorCode(ErrCodeProfileValidationFailed))
	assert.False(t, IsRetryableErrorCode(ErrorCode("SOMETHING_ELSE")))
}

func TestGetErrorCategory(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want string
	}{
		{ErrCodeProfileValidationFailed, "PROFILE"},
		{ErrCodeProfileParseFailed, "PROFILE"},
		{ErrCodeEvaluationFailed, "EVALUATION"},
		{ErrCodeCatalogEmpty, "EVALUATION"},
		{ErrCodeRoutingCheckFailed, "EVALUATION"},
		{ErrCodeDatabaseConnectionFailed, "DATABASE"},
		{ErrCodeQueryTimeout, "DATABASE"},
		{ErrCodeSessionWriteFailed, "DATABASE"},
		{ErrCodeSearchQueryFailed, "SEARCH"},
		{ErrCodeIndexNotFound, "SEARCH"},
		{ErrCodeNotificationSendFailed, "NOTIFICATION"},
		{ErrCodeSourceCheckFailed, "SOURCES"},
		{ErrCodeSourceTimeout, "SOURCES"},
		{ErrorCode("SOMETHING_ELSE"), "OTHER"},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, GetErrorCategory(tt.code))
		})
	}
}

func TestConvertToBPMNError_Retryable(t *testing.T) {
	stdErr := NewSessionWriteFailedError(fmt.Errorf("connection reset"))

	bpmnErr := ConvertToBPMNError(stdErr)

	require.NotNil(t, bpmnErr)
	assert.Equal(t, "SESSION_WRITE_FAILED", bpmnErr.Code)
	assert.Equal(t, stdErr.Message, bpmnErr.Message)
	assert.Equal(t, stdErr.Details, bpmnErr.Details)
	assert.True(t, bpmnErr.Retryable)
	assert.Equal(t, 3, bpmnErr.Retries)
	assert.Equal(t, "SESSION_WRITE_FAILED", bpmnErr.ErrorVariables["originalErrorCode"])
	assert.Equal(t, stdErr.Timestamp.Format(time.RFC3339), bpmnErr.ErrorVariables["timestamp"])
}

func TestConvertToBPMNError_NonRetryableForcesZeroRetries(t *testing.T) {
	// A caller may mark an instance non-retryable even when its code sits in
	// a retry band; the conversion must honor the instance flag.
	stdErr := &StandardError{
		Code:      ErrCodeQueryTimeout,
		Message:   "Database query timeout",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}

	bpmnErr := ConvertToBPMNError(stdErr)

	assert.Equal(t, "QUERY_TIMEOUT", bpmnErr.Code)
	assert.False(t, bpmnErr.Retryable)
	assert.Equal(t, 0, bpmnErr.Retries)
}

func TestConvertToBPMNError_UnknownCodePassesThrough(t *testing.T) {
	stdErr := NewBusinessRuleError("budget below program minimum", "budget_monthly: 200")

	bpmnErr := ConvertToBPMNError(stdErr)

	assert.Equal(t, "BUSINESS_RULE_VIOLATION", bpmnErr.Code)
	assert.False(t, bpmnErr.Retryable)
	assert.Equal(t, 0, bpmnErr.Retries)
	assert.Equal(t, "BUSINESS_RULE_VIOLATION", bpmnErr.ErrorVariables["originalErrorCode"])
}

func TestBPMNError_ToErrorVariables(t *testing.T) {
	bpmnErr := &BPMNError{
		Code:      "CATALOG_EMPTY",
		Message:   "No active rules found for student level",
		Details:   "studentLevel: SPM",
		Retryable: true,
		Retries:   1,
		ErrorVariables: map[string]interface{}{
			"originalErrorCode": "CATALOG_EMPTY",
			"studentLevel":      "SPM",
		},
	}

	vars := bpmnErr.ToErrorVariables()

	assert.Equal(t, "CATALOG_EMPTY", vars["errorCode"])
	assert.Equal(t, "No active rules found for student level", vars["errorMessage"])
	assert.Equal(t, "studentLevel: SPM", vars["errorDetails"])
	assert.Equal(t, true, vars["retryable"])
	assert.Equal(t, "SPM", vars["studentLevel"])
}

func TestBPMNError_ToErrorVariables_NoExtras(t *testing.T) {
	bpmnErr := &BPMNError{Code: "EVALUATION_FAILED", Message: "Pathway evaluation failed"}

	vars := bpmnErr.ToErrorVariables()

	assert.Len(t, vars, 4)
	assert.Equal(t, "EVALUATION_FAILED", vars["errorCode"])
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name      string
		err       *StandardError
		wantCode  ErrorCode
		retryable bool
	}{
		{"profile validation", NewProfileValidationFailedError("spm_credits out of range"), ErrCodeProfileValidationFailed, false},
		{"profile parse", NewProfileParseFailedError(fmt.Errorf("unexpected end of JSON input")), ErrCodeProfileParseFailed, false},
		{"evaluation failed", NewEvaluationFailedError(fmt.Errorf("rule R1 malformed")), ErrCodeEvaluationFailed, false},
		{"catalog empty", NewCatalogEmptyError("SPM"), ErrCodeCatalogEmpty, true},
		{"routing check", NewRoutingCheckFailedError(fmt.Errorf("dial tcp: refused")), ErrCodeRoutingCheckFailed, true},
		{"database connection", NewDatabaseConnectionFailedError(fmt.Errorf("dial tcp: refused")), ErrCodeDatabaseConnectionFailed, true},
		{"query execution", NewQueryExecutionFailedError("rules_by_level", fmt.Errorf("syntax error")), ErrCodeQueryExecutionFailed, true},
		{"query timeout", NewQueryTimeoutError("rules_by_level"), ErrCodeQueryTimeout, true},
		{"invalid query type", NewInvalidQueryTypeError("unknown_query"), ErrCodeInvalidQueryType, false},
		{"search query", NewSearchQueryFailedError(fmt.Errorf("bad request")), ErrCodeSearchQueryFailed, true},
		{"search timeout", NewSearchTimeoutError(), ErrCodeSearchTimeout, true},
		{"index not found", NewIndexNotFoundError("programs"), ErrCodeIndexNotFound, false},
		{"session write", NewSessionWriteFailedError(fmt.Errorf("connection reset")), ErrCodeSessionWriteFailed, true},
		{"duplicate session", NewDuplicateSessionError("sess-001"), ErrCodeDuplicateSession, false},
		{"notification send", NewNotificationSendFailedError("email", fmt.Errorf("throttled")), ErrCodeNotificationSendFailed, true},
		{"source check", NewSourceCheckFailedError("SRC-MOHE", fmt.Errorf("status 500")), ErrCodeSourceCheckFailed, true},
		{"source timeout", NewSourceTimeoutError("SRC-MOHE"), ErrCodeSourceTimeout, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NotNil(t, tt.err)
			assert.Equal(t, tt.wantCode, tt.err.Code)
			assert.Equal(t, tt.retryable, tt.err.Retryable)
			assert.NotEmpty(t, tt.err.Message)
			assert.False(t, tt.err.Timestamp.IsZero())
		})
	}
}

func TestStandardError_Error(t *testing.T) {
	err := NewCatalogEmptyError("Diploma")
	assert.Equal(t, "StandardError[CATALOG_EMPTY]: No active rules found for student level", err.Error())
}

func TestBPMNErrorMapping_CoversAllCodes(t *testing.T) {
	codes := []ErrorCode{
		ErrCodeProfileValidationFailed, ErrCodeProfileParseFailed,
		ErrCodeEvaluationFailed, ErrCodeCatalogEmpty, ErrCodeRoutingCheckFailed,
		ErrCodeDatabaseConnectionFailed, ErrCodeQueryExecutionFailed, ErrCodeQueryTimeout, ErrCodeInvalidQueryType,
		ErrCodeSearchQueryFailed, ErrCodeSearchConnectionFailed, ErrCodeSearchTimeout, ErrCodeIndexNotFound,
		ErrCodeSessionWriteFailed, ErrCodeDuplicateSession,
		ErrCodeNotificationSendFailed,
		ErrCodeSourceCheckFailed, ErrCodeSourceTimeout,
	}

	for _, code := range codes {
		mapped, ok := BPMNErrorMapping[code]
		assert.True(t, ok, "missing BPMN mapping for %s", code)
		assert.Equal(t, string(code), mapped)
	}
}
