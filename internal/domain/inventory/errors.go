package inventory

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// InsufficientStockError is raised when a decrease movement asks for
// more than the lots can cover. It carries the quantities so callers
// can act on them instead of parsing the message.
type InsufficientStockError struct {
	Available decimal.Decimal
	Required  decimal.Decimal
}

// Error implements the error interface
func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock: available %s, required %s",
		e.Available.String(), e.Required.String())
}

// Code returns the machine-readable error code
func (e *InsufficientStockError) Code() string {
	return "INSUFFICIENT_STOCK"
}

// NewInsufficientStockError creates an insufficient stock error
func NewInsufficientStockError(available, required decimal.Decimal) *InsufficientStockError {
	return &InsufficientStockError{
		Available: available,
		Required:  required,
	}
}

// UnsupportedMovementTypeError is raised when a movement request names
// a movement type the ledger does not implement.
type UnsupportedMovementTypeError struct {
	MovementType string
}

// Error implements the error interface
func (e *UnsupportedMovementTypeError) Error() string {
	return fmt.Sprintf("unsupported movement type: %s", e.MovementType)
}

// Code returns the machine-readable error code
func (e *UnsupportedMovementTypeError) Code() string {
	return "UNSUPPORTED_MOVEMENT_TYPE"
}

// NewUnsupportedMovementTypeError creates an unsupported movement type error
func NewUnsupportedMovementTypeError(movementType string) *UnsupportedMovementTypeError {
	return &UnsupportedMovementTypeError{MovementType: movementType}
}
