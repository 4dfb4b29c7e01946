package handler

import "github.com/retailpos/backend/internal/interfaces/http/dto"

// The three envelope shapes below exist only so swag can generate
// typed schemas; at runtime handlers respond through dto.Response.

// APIResponse wraps a typed payload.
// @Description Standard API response wrapper with typed data field
type APIResponse[T any] struct {
	Success bool           `json:"success"`
	Data    T              `json:"data,omitempty"`
	Error   *dto.ErrorInfo `json:"error,omitempty"`
	Meta    *dto.Meta      `json:"meta,omitempty"`
}

// ErrorResponse is the error envelope.
// @Description Standard error response
type ErrorResponse struct {
	Success bool           `json:"success" example:"false"`
	Error   *dto.ErrorInfo `json:"error,omitempty"`
}

// SuccessResponse acknowledges an operation with no payload, such as
// a void or a delete.
// @Description Simple success response without data
type SuccessResponse struct {
	Success bool `json:"success" example:"true"`
}
