package errors

import (
	"net/http"
	"strings"
)

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common Error Codes
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeUnauthorized       ErrorCode = "COMMON_003"
	ErrCodeForbidden          ErrorCode = "COMMON_004"
	ErrCodeNotFound           ErrorCode = "COMMON_005"
	ErrCodeConflict           ErrorCode = "COMMON_006"
	ErrCodeTooManyRequests    ErrorCode = "COMMON_007"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_008"
	ErrCodeTimeout            ErrorCode = "COMMON_009"
	ErrCodeValidation         ErrorCode = "COMMON_010"
	ErrCodeSerialization      ErrorCode = "COMMON_011"
	ErrCodeDatabaseError      ErrorCode = "COMMON_012"
	ErrCodeCacheError         ErrorCode = "COMMON_013"
	ErrCodeExternalService    ErrorCode = "COMMON_014"
	ErrCodeFeatureDisabled    ErrorCode = "COMMON_015"
	ErrCodeNotImplemented     ErrorCode = "COMMON_016"
)

// Sentinel codes used by chain inspection helpers.
const (
	CodeOK      = ErrorCode("OK")
	CodeUnknown = ErrorCode("UNKNOWN")
)

// Aliases kept so call sites read naturally.
const (
	CodeInternal       = ErrCodeInternal
	CodeInvalidParam   = ErrCodeBadRequest
	CodeUnauthorized   = ErrCodeUnauthorized
	CodeForbidden      = ErrCodeForbidden
	CodeNotFound       = ErrCodeNotFound
	CodeConflict       = ErrCodeConflict
	CodeRateLimit      = ErrCodeTooManyRequests
	CodeNotImplemented = ErrCodeNotImplemented

	// Domain specific aliases
	CodeDomainUnknown     = ErrCodeResolutionDomainUnknown
	CodeDictionaryMissing = ErrCodeDictionaryNotFound
	CodeBudgetInvalid     = ErrCodeAllocationBudgetNegative
)

// Resolution Module Error Codes
const (
	ErrCodeResolutionEmptyName     ErrorCode = "RES_001"
	ErrCodeResolutionDomainUnknown ErrorCode = "RES_002"
	ErrCodeResolutionFailed        ErrorCode = "RES_003"
	ErrCodeResolutionBelowThreshold ErrorCode = "RES_004"
	ErrCodeThresholdInvalid        ErrorCode = "RES_005"
)

// Alias Index Module Error Codes
const (
	ErrCodeDictionaryNotFound   ErrorCode = "IDX_001"
	ErrCodeDictionaryParseError ErrorCode = "IDX_002"
	ErrCodeDictionaryEmpty      ErrorCode = "IDX_003"
	ErrCodeIndexBuildFailed     ErrorCode = "IDX_004"
	ErrCodeAliasStoreUnavailable ErrorCode = "IDX_005"
)

// Allocation Module Error Codes
const (
	ErrCodeAllocationBudgetNegative ErrorCode = "ALC_001"
	ErrCodeAllocationCountNegative  ErrorCode = "ALC_002"
)

// Interaction Query Module Error Codes
const (
	ErrCodeQueryNoNames        ErrorCode = "QRY_001"
	ErrCodeQueryBudgetInvalid  ErrorCode = "QRY_002"
	ErrCodeQueryFetchFailed    ErrorCode = "QRY_003"
	ErrCodeQueryEmptyResult    ErrorCode = "QRY_004"
	ErrCodeQueryDomainMismatch ErrorCode = "QRY_005"
)

// Upstream Client Error Codes
const (
	ErrCodeUpstreamUnavailable ErrorCode = "UPS_001"
	ErrCodeUpstreamBadStatus   ErrorCode = "UPS_002"
	ErrCodeUpstreamDecodeError ErrorCode = "UPS_003"
	ErrCodeUpstreamTimeout     ErrorCode = "UPS_004"
)

// Infrastructure aliases (mapped from old names)
const (
	CodeDBConnectionError = ErrCodeDatabaseError
	CodeDatabaseError     = ErrCodeDatabaseError
	CodeDBQueryError      = ErrCodeDatabaseError
	CodeCacheError        = ErrCodeCacheError
	CodeMessageQueueError = ErrCodeInternal
)

// ErrorCodeHTTPStatus maps ErrorCodes to HTTP status codes.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeUnauthorized:       http.StatusUnauthorized,
	ErrCodeForbidden:          http.StatusForbidden,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeConflict:           http.StatusConflict,
	ErrCodeTooManyRequests:    http.StatusTooManyRequests,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeTimeout:            http.StatusGatewayTimeout,
	ErrCodeValidation:         http.StatusUnprocessableEntity,
	ErrCodeSerialization:      http.StatusInternalServerError,
	ErrCodeDatabaseError:      http.StatusInternalServerError,
	ErrCodeCacheError:         http.StatusInternalServerError,
	ErrCodeExternalService:    http.StatusInternalServerError,
	ErrCodeFeatureDisabled:    http.StatusForbidden,
	ErrCodeNotImplemented:     http.StatusNotImplemented,

	ErrCodeResolutionEmptyName:      http.StatusBadRequest,
	ErrCodeResolutionDomainUnknown:  http.StatusBadRequest,
	ErrCodeResolutionFailed:         http.StatusInternalServerError,
	ErrCodeResolutionBelowThreshold: http.StatusNotFound,
	ErrCodeThresholdInvalid:         http.StatusBadRequest,

	ErrCodeDictionaryNotFound:    http.StatusInternalServerError,
	ErrCodeDictionaryParseError:  http.StatusInternalServerError,
	ErrCodeDictionaryEmpty:       http.StatusInternalServerError,
	ErrCodeIndexBuildFailed:      http.StatusInternalServerError,
	ErrCodeAliasStoreUnavailable: http.StatusServiceUnavailable,

	ErrCodeAllocationBudgetNegative: http.StatusBadRequest,
	ErrCodeAllocationCountNegative:  http.StatusInternalServerError,

	ErrCodeQueryNoNames:        http.StatusBadRequest,
	ErrCodeQueryBudgetInvalid:  http.StatusBadRequest,
	ErrCodeQueryFetchFailed:    http.StatusBadGateway,
	ErrCodeQueryEmptyResult:    http.StatusNotFound,
	ErrCodeQueryDomainMismatch: http.StatusBadRequest,

	ErrCodeUpstreamUnavailable: http.StatusServiceUnavailable,
	ErrCodeUpstreamBadStatus:   http.StatusBadGateway,
	ErrCodeUpstreamDecodeError: http.StatusBadGateway,
	ErrCodeUpstreamTimeout:     http.StatusGatewayTimeout,
}

// ErrorCodeMessage maps ErrorCodes to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:           "internal server error",
	ErrCodeBadRequest:         "bad request",
	ErrCodeUnauthorized:       "unauthorized",
	ErrCodeForbidden:          "forbidden",
	ErrCodeNotFound:           "resource not found",
	ErrCodeConflict:           "resource conflict",
	ErrCodeTooManyRequests:    "too many requests",
	ErrCodeServiceUnavailable: "service unavailable",
	ErrCodeTimeout:            "request timeout",
	ErrCodeValidation:         "validation failed",
	ErrCodeSerialization:      "serialization failed",
	ErrCodeDatabaseError:      "database error",
	ErrCodeCacheError:         "cache error",
	ErrCodeExternalService:    "external service error",
	ErrCodeFeatureDisabled:    "feature disabled",
	ErrCodeNotImplemented:     "not implemented",

	ErrCodeResolutionEmptyName:      "entity name must not be empty",
	ErrCodeResolutionDomainUnknown:  "unknown entity domain",
	ErrCodeResolutionFailed:         "entity resolution failed",
	ErrCodeResolutionBelowThreshold: "no candidate cleared the similarity threshold",
	ErrCodeThresholdInvalid:         "similarity threshold out of range",

	ErrCodeDictionaryNotFound:    "alias dictionary not found",
	ErrCodeDictionaryParseError:  "failed to parse alias dictionary",
	ErrCodeDictionaryEmpty:       "alias dictionary is empty",
	ErrCodeIndexBuildFailed:      "alias index build failed",
	ErrCodeAliasStoreUnavailable: "alias store unavailable",

	ErrCodeAllocationBudgetNegative: "total budget must not be negative",
	ErrCodeAllocationCountNegative:  "available count must not be negative",

	ErrCodeQueryNoNames:        "at least one entity name is required",
	ErrCodeQueryBudgetInvalid:  "result budget out of range",
	ErrCodeQueryFetchFailed:    "failed to fetch interaction records",
	ErrCodeQueryEmptyResult:    "no interactions found",
	ErrCodeQueryDomainMismatch: "entity domain mismatch",

	ErrCodeUpstreamUnavailable: "interaction database unavailable",
	ErrCodeUpstreamBadStatus:   "interaction database returned an error status",
	ErrCodeUpstreamDecodeError: "failed to decode interaction database response",
	ErrCodeUpstreamTimeout:     "interaction database request timed out",
}

// HTTPStatusForCode returns the HTTP status code for an ErrorCode.
func HTTPStatusForCode(code ErrorCode) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DefaultMessageForCode returns the default message for an ErrorCode.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// IsClientError returns true if the ErrorCode corresponds to a 4xx HTTP status.
func IsClientError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 400 && status < 500
}

// IsServerError returns true if the ErrorCode corresponds to a 5xx HTTP status.
func IsServerError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 500 && status < 600
}

// ModuleForCode returns the module prefix of an ErrorCode.
func ModuleForCode(code ErrorCode) string {
	parts := strings.Split(string(code), "_")
	if len(parts) > 0 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}

//Personal.AI order the ending
