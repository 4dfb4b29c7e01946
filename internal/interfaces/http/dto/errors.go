package dto

import (
	"net/http"
	"strings"
)

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation error codes
const (
	// ErrCodeValidation is the base code for validation errors
	ErrCodeValidation = "ERR_VALIDATION"
)

// Authentication error codes
const (
	// ErrCodeUnauthorized is used when authentication is required but missing/invalid
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	// ErrCodeForbidden is used when the user lacks permission
	ErrCodeForbidden = "ERR_FORBIDDEN"
	// ErrCodeTokenExpired is used when the auth token has expired
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
	// ErrCodeTokenInvalid is used when the auth token is invalid
	ErrCodeTokenInvalid = "ERR_TOKEN_INVALID"
	// ErrCodeAccountLocked is used when the account is locked after failed logins
	ErrCodeAccountLocked = "ERR_ACCOUNT_LOCKED"
	// ErrCodeTenantSuspended is used when the tenant account is suspended
	ErrCodeTenantSuspended = "ERR_TENANT_SUSPENDED"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeAlreadyExists is used when trying to create a duplicate resource
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	// ErrCodeConflict is used for general resource conflicts
	ErrCodeConflict = "ERR_CONFLICT"
	// ErrCodeConcurrencyConflict is used when optimistic locking fails
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
	// ErrCodeAlreadyProcessed is used when a one-shot operation is retried
	ErrCodeAlreadyProcessed = "ERR_ALREADY_PROCESSED"
)

// Business rule error codes
const (
	// ErrCodeInvalidState is used when an operation is invalid for current state
	ErrCodeInvalidState = "ERR_INVALID_STATE"
	// ErrCodeBusinessRule is used for generic business rule violations
	ErrCodeBusinessRule = "ERR_BUSINESS_RULE"
	// ErrCodeInsufficientStock is used when branch stock cannot cover a sale
	ErrCodeInsufficientStock = "ERR_INSUFFICIENT_STOCK"
	// ErrCodePlanLimitReached is used when the tenant's plan quota is exhausted
	ErrCodePlanLimitReached = "ERR_PLAN_LIMIT_REACHED"
	// ErrCodeFeatureNotAvailable is used when the tenant's plan lacks a feature
	ErrCodeFeatureNotAvailable = "ERR_FEATURE_NOT_AVAILABLE"
)

// Input error codes
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	// ErrCodeInvalidJSON is used when JSON parsing fails
	ErrCodeInvalidJSON = "ERR_INVALID_JSON"
)

// Rate limiting error codes
const (
	// ErrCodeRateLimited is used when rate limit is exceeded
	ErrCodeRateLimited = "ERR_RATE_LIMITED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeValidation: http.StatusBadRequest,

	ErrCodeUnauthorized:    http.StatusUnauthorized,
	ErrCodeTokenExpired:    http.StatusUnauthorized,
	ErrCodeTokenInvalid:    http.StatusUnauthorized,
	ErrCodeAccountLocked:   http.StatusUnauthorized,
	ErrCodeForbidden:       http.StatusForbidden,
	ErrCodeTenantSuspended: http.StatusForbidden,

	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConflict:            http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,
	ErrCodeAlreadyProcessed:    http.StatusConflict,

	ErrCodeInvalidState:        http.StatusUnprocessableEntity,
	ErrCodeBusinessRule:        http.StatusUnprocessableEntity,
	ErrCodeInsufficientStock:   http.StatusUnprocessableEntity,
	ErrCodePlanLimitReached:    http.StatusUnprocessableEntity,
	ErrCodeFeatureNotAvailable: http.StatusForbidden,

	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeInvalidJSON:  http.StatusBadRequest,

	ErrCodeRateLimited: http.StatusTooManyRequests,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// domainErrorCodeMapping maps domain error codes to standardized API codes.
// Domain codes not listed here fall through to the suffix/prefix rules in
// NormalizeErrorCode.
var domainErrorCodeMapping = map[string]string{
	"NOT_FOUND":            ErrCodeNotFound,
	"USER_NOT_FOUND":       ErrCodeNotFound,
	"BRANCH_NOT_FOUND":     ErrCodeNotFound,
	"ITEM_NOT_FOUND":       ErrCodeNotFound,
	"ALREADY_EXISTS":       ErrCodeAlreadyExists,
	"CONCURRENCY_CONFLICT": ErrCodeConcurrencyConflict,
	"ALREADY_PROCESSED":    ErrCodeAlreadyProcessed,

	"UNAUTHORIZED":        ErrCodeUnauthorized,
	"UNAUTHENTICATED":     ErrCodeUnauthorized,
	"INVALID_CREDENTIALS": ErrCodeUnauthorized,
	"ACCOUNT_LOCKED":      ErrCodeAccountLocked,
	"ACCOUNT_INACTIVE":    ErrCodeUnauthorized,
	"ACCOUNT_DEACTIVATED": ErrCodeUnauthorized,
	"TOKEN_EXPIRED":       ErrCodeTokenExpired,
	"TOKEN_INVALID":       ErrCodeTokenInvalid,
	"TOKEN_REVOKED":       ErrCodeTokenInvalid,
	"TOKEN_MAX_REFRESH":   ErrCodeTokenInvalid,
	"TOKEN_ERROR":         ErrCodeInternal,
	"FORBIDDEN":           ErrCodeForbidden,
	"TENANT_SUSPENDED":    ErrCodeTenantSuspended,
	"TRIAL_EXPIRED":       ErrCodeTenantSuspended,

	"INVALID_STATE":         ErrCodeInvalidState,
	"INVALID_OPERATION":     ErrCodeInvalidState,
	"INVALID_ACTION":        ErrCodeInvalidState,
	"ALREADY_PAID":          ErrCodeInvalidState,
	"ALREADY_ACTIVE":        ErrCodeInvalidState,
	"ALREADY_DISABLED":      ErrCodeInvalidState,
	"PRODUCT_DISABLED":      ErrCodeBusinessRule,
	"INACTIVE_SUPPLIER":     ErrCodeBusinessRule,
	"DUPLICATE_PRODUCT":     ErrCodeBusinessRule,
	"NO_ITEMS":              ErrCodeBusinessRule,
	"NO_RECEIPT":            ErrCodeBusinessRule,
	"INSUFFICIENT_STOCK":    ErrCodeInsufficientStock,
	"PLAN_LIMIT_REACHED":    ErrCodePlanLimitReached,
	"FEATURE_NOT_AVAILABLE": ErrCodeFeatureNotAvailable,

	"INVALID_INPUT":            ErrCodeInvalidInput,
	"UNSUPPORTED_CONTENT_TYPE": ErrCodeInvalidInput,
	"VALIDATION_ERROR":         ErrCodeValidation,
	"BAD_REQUEST":              ErrCodeBadRequest,

	"INTERNAL_ERROR":      ErrCodeInternal,
	"PASSWORD_HASH_ERROR": ErrCodeInternal,
	"STORAGE_UNAVAILABLE": ErrCodeInternal,
}

// NormalizeErrorCode converts a domain error code to the standardized API
// format. Unlisted codes are classified by shape: INVALID_* codes are input
// errors, *_EXISTS codes are conflicts. Anything already in the ERR_ format
// passes through.
func NormalizeErrorCode(code string) string {
	if apiCode, ok := domainErrorCodeMapping[code]; ok {
		return apiCode
	}
	if strings.HasPrefix(code, "ERR_") {
		return code
	}
	if strings.HasSuffix(code, "_EXISTS") {
		return ErrCodeAlreadyExists
	}
	if strings.HasPrefix(code, "INVALID_") {
		return ErrCodeInvalidInput
	}
	return ErrCodeUnknown
}
