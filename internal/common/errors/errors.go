// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"esg-retrofit-workers/internal/esg"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

// Scoring / model errors
const (
	ErrCodeMissingMetric       ErrorCode = "MISSING_METRIC"
	ErrCodeDivisionUndefined   ErrorCode = "DIVISION_UNDEFINED"
	ErrCodeInvalidInput        ErrorCode = "INVALID_INPUT"
	ErrCodePropertyNotFound    ErrorCode = "PROPERTY_NOT_FOUND"
	ErrCodeUnknownRetrofit     ErrorCode = "UNKNOWN_RETROFIT_ACTION"
	ErrCodeBudgetOutOfRange    ErrorCode = "BUDGET_OUT_OF_RANGE"
	ErrCodeInvalidSessionEvent ErrorCode = "INVALID_SESSION_EVENT"
	ErrCodeUnknownFramework    ErrorCode = "UNKNOWN_REPORT_FRAMEWORK"
)

// Infrastructure errors
const (
	ErrCodeDatabaseQueryFailed    ErrorCode = "DATABASE_QUERY_FAILED"
	ErrCodeCacheFailure           ErrorCode = "CACHE_FAILURE"
	ErrCodeSearchQueryFailed      ErrorCode = "SEARCH_QUERY_FAILED"
	ErrCodeSearchTimeout          ErrorCode = "SEARCH_TIMEOUT"
	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"
	ErrCodeSessionStoreFailed     ErrorCode = "SESSION_STORE_FAILED"
	ErrCodeInternal               ErrorCode = "INTERNAL_ERROR"
	ErrCodeExternalService        ErrorCode = "EXTERNAL_SERVICE_ERROR"
	ErrCodeTimeout                ErrorCode = "TIMEOUT_ERROR"
	ErrCodeResourceNotFound       ErrorCode = "RESOURCE_NOT_FOUND"
	ErrCodeBusinessRuleViolation  ErrorCode = "BUSINESS_RULE_VIOLATION"
	ErrCodeAuthenticationFailed   ErrorCode = "AUTHENTICATION_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("StandardError[%s]: %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// WithMetadata attaches a key/value pair and returns the same error.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}

	for k, v := range e.ErrorVariables {
		vars[k] = v
	}

	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

func newError(code ErrorCode, message, details string, retryable bool) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
	}
}

// NewMissingMetricError creates a non-retryable error for an absent raw metric.
func NewMissingMetricError(field string) *StandardError {
	return newError(ErrCodeMissingMetric, "Required raw metric is missing", fmt.Sprintf("field: %s", field), false).
		WithMetadata("field", field)
}

// NewDivisionUndefinedError creates a non-retryable error for a zero target value.
func NewDivisionUndefinedError(details string) *StandardError {
	return newError(ErrCodeDivisionUndefined, "Progress is undefined for a zero target value", details, false)
}

// NewInvalidInputError creates a non-retryable input validation error.
func NewInvalidInputError(details string) *StandardError {
	return newError(ErrCodeInvalidInput, "Job input validation failed", details, false)
}

// NewPropertyNotFoundError creates a non-retryable lookup error.
func NewPropertyNotFoundError(propertyID string) *StandardError {
	return newError(ErrCodePropertyNotFound, "Property not found", fmt.Sprintf("propertyId: %s", propertyID), false).
		WithMetadata("propertyId", propertyID)
}

// NewUnknownRetrofitError creates a non-retryable catalog lookup error.
func NewUnknownRetrofitError(actionID string) *StandardError {
	return newError(ErrCodeUnknownRetrofit, "Retrofit action not in catalog", fmt.Sprintf("actionId: %s", actionID), false).
		WithMetadata("actionId", actionID)
}

// NewBudgetOutOfRangeError creates a non-retryable budget error.
func NewBudgetOutOfRangeError(budget, min, max float64) *StandardError {
	return newError(ErrCodeBudgetOutOfRange, "Budget outside accepted range",
		fmt.Sprintf("budget: %.2f, range: [%.2f, %.2f]", budget, min, max), false)
}

// NewInvalidSessionEventError creates a non-retryable session event error.
func NewInvalidSessionEventError(event string) *StandardError {
	return newError(ErrCodeInvalidSessionEvent, "Unsupported session event", fmt.Sprintf("event: %s", event), false)
}

// NewUnknownFrameworkError creates a non-retryable report framework error.
func NewUnknownFrameworkError(framework string) *StandardError {
	return newError(ErrCodeUnknownFramework, "Unsupported reporting framework", fmt.Sprintf("framework: %s", framework), false)
}

// NewDatabaseQueryFailedError creates a retryable database error.
func NewDatabaseQueryFailedError(err error) *StandardError {
	return newError(ErrCodeDatabaseQueryFailed, "Database query execution error", err.Error(), true)
}

// NewCacheFailureError creates a retryable cache error.
func NewCacheFailureError(err error) *StandardError {
	return newError(ErrCodeCacheFailure, "Cache operation failed", err.Error(), true)
}

// NewSearchQueryFailedError creates a retryable search query error.
func NewSearchQueryFailedError(err error) *StandardError {
	return newError(ErrCodeSearchQueryFailed, "Elasticsearch query error", err.Error(), true)
}

// NewSearchTimeoutError creates a retryable search timeout error.
func NewSearchTimeoutError(index string) *StandardError {
	return newError(ErrCodeSearchTimeout, "Elasticsearch query timeout", fmt.Sprintf("index: %s", index), true)
}

// NewNotificationSendFailedError creates a retryable notification send error.
func NewNotificationSendFailedError(channel string, err error) *StandardError {
	return newError(ErrCodeNotificationSendFailed, "Notification delivery failed",
		fmt.Sprintf("channel: %s, error: %s", channel, err.Error()), true)
}

// NewSessionStoreFailedError creates a retryable session store error.
func NewSessionStoreFailedError(err error) *StandardError {
	return newError(ErrCodeSessionStoreFailed, "Session store operation failed", err.Error(), true)
}

// Generic constructors

func NewBusinessRuleError(message, details string) *StandardError {
	return newError(ErrCodeBusinessRuleViolation, message, details, false)
}

func NewExternalServiceError(service string, err error) *StandardError {
	return newError(ErrCodeExternalService, fmt.Sprintf("External service '%s' error", service), err.Error(), true)
}

func NewTimeoutError(service string, err error) *StandardError {
	return newError(ErrCodeTimeout, fmt.Sprintf("Service '%s' timeout", service), err.Error(), true)
}

func NewResourceNotFoundError(service, details string) *StandardError {
	return newError(ErrCodeResourceNotFound, fmt.Sprintf("Resource not found in %s", service), details, false)
}

func NewAuthenticationError(details string) *StandardError {
	return newError(ErrCodeAuthenticationFailed, "Authentication failed", details, false)
}

// FromError normalizes any error into a StandardError. Model sentinels map to
// their business codes, deadlines to timeouts, everything else to INTERNAL_ERROR.
func FromError(err error) *StandardError {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}

	var missing *esg.MissingMetricError
	switch {
	case stderrors.As(err, &missing):
		return NewMissingMetricError(missing.Field)
	case stderrors.Is(err, esg.ErrMissingMetric):
		return NewMissingMetricError("unknown")
	case stderrors.Is(err, esg.ErrDivisionUndefined):
		return NewDivisionUndefinedError(err.Error())
	case stderrors.Is(err, context.DeadlineExceeded):
		return NewTimeoutError("worker", err)
	}

	return newError(ErrCodeInternal, "Unexpected error", err.Error(), false)
}

// ==========================
// 4. BPMN Mapping & Retries
// ==========================

var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeMissingMetric:          "MISSING_METRIC",
	ErrCodeDivisionUndefined:      "DIVISION_UNDEFINED",
	ErrCodeInvalidInput:           "INVALID_INPUT",
	ErrCodePropertyNotFound:       "PROPERTY_NOT_FOUND",
	ErrCodeUnknownRetrofit:        "UNKNOWN_RETROFIT_ACTION",
	ErrCodeBudgetOutOfRange:       "BUDGET_OUT_OF_RANGE",
	ErrCodeInvalidSessionEvent:    "INVALID_SESSION_EVENT",
	ErrCodeUnknownFramework:       "UNKNOWN_REPORT_FRAMEWORK",
	ErrCodeDatabaseQueryFailed:    "DATABASE_QUERY_FAILED",
	ErrCodeCacheFailure:           "CACHE_FAILURE",
	ErrCodeSearchQueryFailed:      "SEARCH_QUERY_FAILED",
	ErrCodeSearchTimeout:          "SEARCH_TIMEOUT",
	ErrCodeNotificationSendFailed: "NOTIFICATION_SEND_FAILED",
	ErrCodeSessionStoreFailed:     "SESSION_STORE_FAILED",
}

func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeDatabaseQueryFailed,
		ErrCodeSearchQueryFailed,
		ErrCodeNotificationSendFailed,
		ErrCodeSessionStoreFailed,
		ErrCodeExternalService:
		return 3 // Retryable technical errors

	case ErrCodeSearchTimeout,
		ErrCodeTimeout:
		return 2

	case ErrCodeCacheFailure:
		return 1

	default:
		return 0 // Business errors: no retry
	}
}

func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code)
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	vars := map[string]interface{}{
		"originalErrorCode": string(stdErr.Code),
		"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
	}
	for k, v := range stdErr.Metadata {
		vars[k] = v
	}

	return &BPMNError{
		Code:           bpmnCode,
		Message:        stdErr.Message,
		Details:        stdErr.Details,
		Retryable:      stdErr.Retryable,
		Retries:        retries,
		ErrorVariables: vars,
	}
}

func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "METRIC") || strings.Contains(codeStr, "DIVISION"):
		return "MODEL"
	case strings.HasPrefix(codeStr, "INVALID") || strings.Contains(codeStr, "RANGE"):
		return "VALIDATION"
	case strings.Contains(codeStr, "SEARCH"):
		return "SEARCH"
	case strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "QUERY"):
		return "DATABASE"
	case strings.Contains(codeStr, "CACHE") || strings.Contains(codeStr, "SESSION"):
		return "CACHE"
	case strings.Contains(codeStr, "NOTIFICATION"):
		return "NOTIFICATION"
	case strings.Contains(codeStr, "NOT_FOUND") || strings.Contains(codeStr, "UNKNOWN"):
		return "LOOKUP"
	default:
		return "OTHER"
	}
}
