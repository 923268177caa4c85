package handler

import "github.com/growops/backend/internal/interfaces/http/dto"

// APIResponse mirrors the envelope dto.Success produces, with a typed
// data field so swag can document concrete payloads
// @Description Standard API response wrapper with typed data field
type APIResponse[T any] struct {
	Success bool           `json:"success"`
	Data    T              `json:"data,omitempty"`
	Error   *dto.ErrorInfo `json:"error,omitempty"`
	Meta    *dto.Meta      `json:"meta,omitempty"`
}

// ErrorResponse documents the envelope of a failed request
// @Description Standard error response
type ErrorResponse struct {
	Success bool           `json:"success" example:"false"`
	Error   *dto.ErrorInfo `json:"error,omitempty"`
}

// SuccessResponse documents an acknowledgement with no payload
// @Description Simple success response without data
type SuccessResponse struct {
	Success bool `json:"success" example:"true"`
}

// CountData wraps a bare count payload
// @Description Count data
type CountData struct {
	Count int64 `json:"count"`
}
