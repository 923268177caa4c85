package handler

import (
	"errors"
	"fmt"

	"github.com/growops/backend/internal/domain/inventory"
	"github.com/growops/backend/internal/interfaces/http/dto"
)

// ledgerErrorResponse maps the typed ledger errors to HTTP responses.
// These carry structured quantities, so the message is built here rather
// than relying on Error() text alone
func ledgerErrorResponse(err error, requestID string) (dto.Response, int, bool) {
	var insufficientErr *inventory.InsufficientStockError
	if errors.As(err, &insufficientErr) {
		resp := dto.NewErrorResponseWithRequestID(
			dto.ErrCodeInsufficientStock,
			fmt.Sprintf("Insufficient stock: available %s, required %s",
				insufficientErr.Available.String(), insufficientErr.Required.String()),
			requestID,
		)
		return resp, dto.GetHTTPStatus(dto.ErrCodeInsufficientStock), true
	}

	var unsupportedErr *inventory.UnsupportedMovementTypeError
	if errors.As(err, &unsupportedErr) {
		resp := dto.NewErrorResponseWithRequestID(
			dto.ErrCodeUnsupportedMovementType,
			fmt.Sprintf("Unsupported movement type: %s", unsupportedErr.MovementType),
			requestID,
		)
		return resp, dto.GetHTTPStatus(dto.ErrCodeUnsupportedMovementType), true
	}

	return dto.Response{}, 0, false
}
