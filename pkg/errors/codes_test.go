package errors

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorCode_String(t *testing.T) {
	assert.Equal(t, "COMMON_001", ErrCodeInternal.String())
}

func TestHTTPStatusForCode(t *testing.T) {
	tests := []struct {
		code     ErrorCode
		expected int
	}{
		{ErrCodeInternal, 500},
		{ErrCodeBadRequest, 400},
		{ErrCodeNotFound, 404},
		{ErrCodeConflict, 409},
		{ErrCodeValidation, 422},
		{ErrCodeResolutionEmptyName, 400},
		{ErrCodeAllocationBudgetNegative, 400},
		{ErrCodeUpstreamBadStatus, 502},
		{ErrorCode("UNKNOWN"), 500},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, HTTPStatusForCode(tt.code))
	}
}

func TestDefaultMessageForCode(t *testing.T) {
	assert.Equal(t, "internal server error", DefaultMessageForCode(ErrCodeInternal))
	assert.Equal(t, "total budget must not be negative", DefaultMessageForCode(ErrCodeAllocationBudgetNegative))
	assert.Equal(t, "unknown error", DefaultMessageForCode(ErrorCode("UNKNOWN")))
}

func TestIsClientError(t *testing.T) {
	assert.True(t, IsClientError(ErrCodeBadRequest))
	assert.True(t, IsClientError(ErrCodeResolutionDomainUnknown))
	assert.False(t, IsClientError(ErrCodeInternal))
}

func TestIsServerError(t *testing.T) {
	assert.True(t, IsServerError(ErrCodeInternal))
	assert.True(t, IsServerError(ErrCodeUpstreamBadStatus))
	assert.False(t, IsServerError(ErrCodeBadRequest))
}

func TestModuleForCode(t *testing.T) {
	assert.Equal(t, "COMMON", ModuleForCode(ErrCodeInternal))
	assert.Equal(t, "RES", ModuleForCode(ErrCodeResolutionEmptyName))
	assert.Equal(t, "IDX", ModuleForCode(ErrCodeDictionaryNotFound))
	assert.Equal(t, "ALC", ModuleForCode(ErrCodeAllocationBudgetNegative))
	assert.Equal(t, "QRY", ModuleForCode(ErrCodeQueryFetchFailed))
	assert.Equal(t, "UPS", ModuleForCode(ErrCodeUpstreamUnavailable))
	assert.Equal(t, "UNKNOWN", ModuleForCode(ErrorCode("")))
}

func TestErrorCodeFormat_Convention(t *testing.T) {
	re := regexp.MustCompile(`^[A-Z]+_\d{3}$`)
	allCodes := []ErrorCode{
		ErrCodeInternal, ErrCodeBadRequest, ErrCodeResolutionEmptyName,
		ErrCodeResolutionDomainUnknown, ErrCodeDictionaryNotFound,
		ErrCodeIndexBuildFailed, ErrCodeAllocationBudgetNegative,
		ErrCodeAllocationCountNegative, ErrCodeQueryFetchFailed,
		ErrCodeUpstreamUnavailable,
	}
	for _, code := range allCodes {
		assert.Regexp(t, re, string(code))
	}
}

func TestErrorCodeMappings_Completeness(t *testing.T) {
	// Every domain code must be in both maps so handlers never fall back to
	// the generic 500 / "unknown error" pair by accident.
	allCodes := []ErrorCode{
		ErrCodeResolutionEmptyName, ErrCodeResolutionDomainUnknown,
		ErrCodeResolutionFailed, ErrCodeResolutionBelowThreshold,
		ErrCodeThresholdInvalid, ErrCodeDictionaryNotFound,
		ErrCodeDictionaryParseError, ErrCodeDictionaryEmpty,
		ErrCodeIndexBuildFailed, ErrCodeAliasStoreUnavailable,
		ErrCodeAllocationBudgetNegative, ErrCodeAllocationCountNegative,
		ErrCodeQueryNoNames, ErrCodeQueryBudgetInvalid, ErrCodeQueryFetchFailed,
		ErrCodeQueryEmptyResult, ErrCodeQueryDomainMismatch,
		ErrCodeUpstreamUnavailable, ErrCodeUpstreamBadStatus,
		ErrCodeUpstreamDecodeError, ErrCodeUpstreamTimeout,
	}
	for _, code := range allCodes {
		_, hasStatus := ErrorCodeHTTPStatus[code]
		_, hasMessage := ErrorCodeMessage[code]
		assert.True(t, hasStatus, "missing status for %s", code)
		assert.True(t, hasMessage, "missing message for %s", code)
	}
}

//Personal.AI order the ending
