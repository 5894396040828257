package config

import (
	"os"
	"strings"
)

// AutoRestockOnCancellation controls whether approving an order cancellation
// posts compensating IN movements for the stock the order already consumed.
//
// Default is OFF: an approved cancellation leaves the ledger untouched and
// operators reconcile via an explicit purchase/adjustment. Kitchens that throw
// nothing away on cancel can opt in.
//
// Set via env:
// - AUTO_RESTOCK_ON_CANCEL=true
func AutoRestockOnCancellation() bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("AUTO_RESTOCK_ON_CANCEL")))
	return v == "1" || v == "true" || v == "yes" || v == "y"
}

// StrictOrderImmutability freezes an order's line items once it is confirmed:
// additions and removals are only accepted while the order is still pending,
// anything later goes through a new order.
//
// Set via env:
// - STRICT_ORDER_IMMUTABLE=true
func StrictOrderImmutability() bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("STRICT_ORDER_IMMUTABLE")))
	return v == "1" || v == "true" || v == "yes" || v == "y"
}
