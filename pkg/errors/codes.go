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
	ErrCodeNotFound           ErrorCode = "COMMON_003"
	ErrCodeConflict           ErrorCode = "COMMON_004"
	ErrCodeTooManyRequests    ErrorCode = "COMMON_005"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_006"
	ErrCodeTimeout            ErrorCode = "COMMON_007"
	ErrCodeValidation         ErrorCode = "COMMON_008"
	ErrCodeSerialization      ErrorCode = "COMMON_009"
	ErrCodeCacheError         ErrorCode = "COMMON_010"
	ErrCodeNotImplemented     ErrorCode = "COMMON_011"
)

// Aliases kept so call sites read naturally across layers.
const (
	CodeInternal     = ErrCodeInternal
	CodeInvalidParam = ErrCodeBadRequest
	CodeNotFound     = ErrCodeNotFound
	CodeConflict     = ErrCodeConflict
	CodeRateLimit    = ErrCodeTooManyRequests
	CodeUnknown      = ErrorCode("UNKNOWN")
	CodeOK           = ErrorCode("OK")
)

// Query Module Error Codes (condition model, assembly, normalization)
const (
	ErrCodeQueryEmptyCondition    ErrorCode = "QUERY_001"
	ErrCodeQueryInvalidScope      ErrorCode = "QUERY_002"
	ErrCodeQueryInvalidOperator   ErrorCode = "QUERY_003"
	ErrCodeQueryInvalidDate       ErrorCode = "QUERY_004"
	ErrCodeQueryInvalidDateType   ErrorCode = "QUERY_005"
	ErrCodeQueryInvalidLitigation ErrorCode = "QUERY_006"
	ErrCodeQuerySyntax            ErrorCode = "QUERY_007"
	ErrCodeQueryAssemblyFailed    ErrorCode = "QUERY_008"
)

// Format Detection Error Codes
const (
	ErrCodeDetectUnknownDialect ErrorCode = "DETECT_001"
)

// Parser Module Error Codes
const (
	ErrCodeParseFailed             ErrorCode = "PARSE_001"
	ErrCodeParseUnsupportedDialect ErrorCode = "PARSE_002"
	ErrCodeParseEmptyInput         ErrorCode = "PARSE_003"
)

// Converter Module Error Codes
const (
	ErrCodeConvertFailed        ErrorCode = "CONVERT_001"
	ErrCodeConvertSameDialect   ErrorCode = "CONVERT_002"
	ErrCodeConvertUnsupported   ErrorCode = "CONVERT_003"
	ErrCodeConvertPartialResult ErrorCode = "CONVERT_004"
)

// Remote Collaborator Error Codes (generate/parse/convert service calls)
const (
	ErrCodeRemoteUnavailable ErrorCode = "REMOTE_001"
	ErrCodeRemoteBadResponse ErrorCode = "REMOTE_002"
	ErrCodeRemoteTimeout     ErrorCode = "REMOTE_003"
	ErrCodeRemoteAPIError    ErrorCode = "REMOTE_004"
)

// ErrorCodeHTTPStatus maps ErrorCodes to HTTP status codes.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeConflict:           http.StatusConflict,
	ErrCodeTooManyRequests:    http.StatusTooManyRequests,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeTimeout:            http.StatusGatewayTimeout,
	ErrCodeValidation:         http.StatusUnprocessableEntity,
	ErrCodeSerialization:      http.StatusInternalServerError,
	ErrCodeCacheError:         http.StatusInternalServerError,
	ErrCodeNotImplemented:     http.StatusNotImplemented,

	ErrCodeQueryEmptyCondition:    http.StatusBadRequest,
	ErrCodeQueryInvalidScope:      http.StatusBadRequest,
	ErrCodeQueryInvalidOperator:   http.StatusBadRequest,
	ErrCodeQueryInvalidDate:       http.StatusBadRequest,
	ErrCodeQueryInvalidDateType:   http.StatusBadRequest,
	ErrCodeQueryInvalidLitigation: http.StatusBadRequest,
	ErrCodeQuerySyntax:            http.StatusUnprocessableEntity,
	ErrCodeQueryAssemblyFailed:    http.StatusInternalServerError,

	ErrCodeDetectUnknownDialect: http.StatusUnprocessableEntity,

	ErrCodeParseFailed:             http.StatusUnprocessableEntity,
	ErrCodeParseUnsupportedDialect: http.StatusBadRequest,
	ErrCodeParseEmptyInput:         http.StatusBadRequest,

	ErrCodeConvertFailed:        http.StatusUnprocessableEntity,
	ErrCodeConvertSameDialect:   http.StatusBadRequest,
	ErrCodeConvertUnsupported:   http.StatusBadRequest,
	ErrCodeConvertPartialResult: http.StatusOK,

	ErrCodeRemoteUnavailable: http.StatusBadGateway,
	ErrCodeRemoteBadResponse: http.StatusBadGateway,
	ErrCodeRemoteTimeout:     http.StatusGatewayTimeout,
	ErrCodeRemoteAPIError:    http.StatusBadGateway,
}

// ErrorCodeMessage maps ErrorCodes to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:           "internal server error",
	ErrCodeBadRequest:         "bad request",
	ErrCodeNotFound:           "resource not found",
	ErrCodeConflict:           "resource conflict",
	ErrCodeTooManyRequests:    "too many requests",
	ErrCodeServiceUnavailable: "service unavailable",
	ErrCodeTimeout:            "request timeout",
	ErrCodeValidation:         "validation failed",
	ErrCodeSerialization:      "serialization failed",
	ErrCodeCacheError:         "cache error",
	ErrCodeNotImplemented:     "not implemented",

	ErrCodeQueryEmptyCondition:    "search condition is empty",
	ErrCodeQueryInvalidScope:      "invalid text search scope",
	ErrCodeQueryInvalidOperator:   "invalid term operator",
	ErrCodeQueryInvalidDate:       "date must be in YYYY-MM-DD or YYYYMMDD format",
	ErrCodeQueryInvalidDateType:   "date type must be one of priority, filing, publication",
	ErrCodeQueryInvalidLitigation: "litigation filter must be YES or NO",
	ErrCodeQuerySyntax:            "query syntax error",
	ErrCodeQueryAssemblyFailed:    "failed to assemble query string",

	ErrCodeDetectUnknownDialect: "unable to detect query dialect",

	ErrCodeParseFailed:             "failed to parse query string",
	ErrCodeParseUnsupportedDialect: "unsupported query dialect",
	ErrCodeParseEmptyInput:         "query string is empty",

	ErrCodeConvertFailed:        "query conversion failed",
	ErrCodeConvertSameDialect:   "source and target dialect are identical",
	ErrCodeConvertUnsupported:   "unsupported conversion direction",
	ErrCodeConvertPartialResult: "query converted with warnings",

	ErrCodeRemoteUnavailable: "query service unavailable",
	ErrCodeRemoteBadResponse: "malformed response from query service",
	ErrCodeRemoteTimeout:     "query service timed out",
	ErrCodeRemoteAPIError:    "query service returned an error",
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
