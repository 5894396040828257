package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// InsufficientStockError is returned when an OUT movement would take an
// ingredient balance below zero. It carries enough detail for callers to route
// the operator to the correct remediation screen by ingredient type.
type InsufficientStockError struct {
	IngredientId   int             `json:"ingredient_id"`
	IngredientName string          `json:"ingredient_name"`
	IngredientType IngredientType  `json:"ingredient_type"`
	Available      decimal.Decimal `json:"available"`
	Requested      decimal.Decimal `json:"requested"`
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: available %s, requested %s",
		e.IngredientName, e.Available.String(), e.Requested.String())
}

// RemediationHint maps the shortfall to the operator action that fixes it.
func (e *InsufficientStockError) RemediationHint() string {
	switch e.IngredientType {
	case IngredientTypeMerchandise:
		return "restock via direct-sale inventory"
	case IngredientTypeProcessed:
		return "schedule a production run"
	default:
		return "purchase raw supply"
	}
}

// StateConflictError is returned for stale or invalid order transitions.
// The caller should re-fetch the order and re-decide; never retry blindly.
type StateConflictError struct {
	OrderId   int    `json:"order_id"`
	Current   string `json:"current"`
	Requested string `json:"requested"`
}

func (e *StateConflictError) Error() string {
	return fmt.Sprintf("order %d: cannot apply %q in state %q", e.OrderId, e.Requested, e.Current)
}

type PermissionDeniedError struct {
	Code string `json:"code"`
}

func (e *PermissionDeniedError) Error() string {
	return fmt.Sprintf("permission denied: %s", e.Code)
}

type ValidationError struct {
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return e.Message
}

func newValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

func newStateConflict(orderId int, current string, requested string) *StateConflictError {
	return &StateConflictError{OrderId: orderId, Current: current, Requested: requested}
}
