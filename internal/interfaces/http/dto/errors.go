package dto

import (
	"net/http"
	"strings"
)

// API error codes, ERR_<CATEGORY>_<DESCRIPTION>. Domain errors carry
// shorter internal codes; NormalizeErrorCode translates before the
// code reaches a client.

const (
	ErrCodeUnknown  = "ERR_UNKNOWN"
	ErrCodeInternal = "ERR_INTERNAL"
)

const (
	ErrCodeValidation         = "ERR_VALIDATION"
	ErrCodeValidationRequired = "ERR_VALIDATION_REQUIRED"
	ErrCodeValidationFormat   = "ERR_VALIDATION_FORMAT"
	ErrCodeValidationRange    = "ERR_VALIDATION_RANGE"
)

const (
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	ErrCodeForbidden    = "ERR_FORBIDDEN"
)

const (
	ErrCodeNotFound            = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists       = "ERR_ALREADY_EXISTS"
	ErrCodeConflict            = "ERR_CONFLICT"
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
)

// Codes for ledger and catalog rule violations.
const (
	ErrCodeInvalidState            = "ERR_INVALID_STATE"
	ErrCodeBusinessRule            = "ERR_BUSINESS_RULE"
	ErrCodeInsufficientStock       = "ERR_INSUFFICIENT_STOCK"
	ErrCodeInvalidOperation        = "ERR_INVALID_OPERATION"
	ErrCodeUnsupportedMovementType = "ERR_UNSUPPORTED_MOVEMENT_TYPE"
	ErrCodeDuplicateSKU            = "ERR_DUPLICATE_SKU"
)

const (
	ErrCodeBadRequest   = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	ErrCodeInvalidJSON  = "ERR_INVALID_JSON"
)

// ErrorCodeHTTPStatus decides the response status for each API code.
// Validation and malformed input are 400, rule violations that depend
// on current state are 422, conflicts are 409.
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeValidation:         http.StatusBadRequest,
	ErrCodeValidationRequired: http.StatusBadRequest,
	ErrCodeValidationFormat:   http.StatusBadRequest,
	ErrCodeValidationRange:    http.StatusBadRequest,

	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,

	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConflict:            http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,
	ErrCodeDuplicateSKU:        http.StatusConflict,

	ErrCodeInvalidState:      http.StatusUnprocessableEntity,
	ErrCodeBusinessRule:      http.StatusUnprocessableEntity,
	ErrCodeInsufficientStock: http.StatusUnprocessableEntity,

	ErrCodeInvalidOperation:        http.StatusBadRequest,
	ErrCodeUnsupportedMovementType: http.StatusBadRequest,

	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeInvalidJSON:  http.StatusBadRequest,
}

// GetHTTPStatus resolves an API error code to a status, defaulting to
// 500 for codes it does not recognize.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// domainCodeMapping translates the internal codes that need an exact
// mapping. Codes not listed here are handled by prefix in
// NormalizeErrorCode.
var domainCodeMapping = map[string]string{
	"NOT_FOUND":                 ErrCodeNotFound,
	"ALREADY_EXISTS":            ErrCodeAlreadyExists,
	"INVALID_INPUT":             ErrCodeInvalidInput,
	"INVALID_STATE":             ErrCodeInvalidState,
	"INVALID_OPERATION":         ErrCodeInvalidOperation,
	"UNSUPPORTED_MOVEMENT_TYPE": ErrCodeUnsupportedMovementType,
	"UNAUTHORIZED":              ErrCodeUnauthorized,
	"FORBIDDEN":                 ErrCodeForbidden,
	"CONCURRENCY_CONFLICT":      ErrCodeConcurrencyConflict,
	"INSUFFICIENT_STOCK":        ErrCodeInsufficientStock,
	"DUPLICATE_SKU":             ErrCodeDuplicateSKU,
	"VALIDATION_ERROR":          ErrCodeValidation,
	"BAD_REQUEST":               ErrCodeBadRequest,
	"INTERNAL_ERROR":            ErrCodeInternal,
}

// NormalizeErrorCode maps an internal domain code onto its API code.
// Field-level INVALID_* codes collapse into ERR_VALIDATION and
// ALREADY_*/CANNOT_* lifecycle codes into ERR_INVALID_STATE, so new
// domain validations get a sensible status without touching this
// package. Codes already in ERR_ form pass through untouched.
func NormalizeErrorCode(code string) string {
	if mapped, ok := domainCodeMapping[code]; ok {
		return mapped
	}
	if strings.HasPrefix(code, "ERR_") {
		return code
	}
	switch {
	case strings.HasPrefix(code, "INVALID_"):
		return ErrCodeValidation
	case strings.HasPrefix(code, "ALREADY_"), strings.HasPrefix(code, "CANNOT_"):
		return ErrCodeInvalidState
	}
	return code
}
