package models

import "fmt"

type IngredientType string

const (
	IngredientTypeRaw         IngredientType = "RAW"
	IngredientTypeProcessed   IngredientType = "PROCESSED"
	IngredientTypeMerchandise IngredientType = "MERCHANDISE"
)

func ParseIngredientType(str string) (IngredientType, error) {
	ingredientType := map[string]IngredientType{
		"RAW":         IngredientTypeRaw,
		"PROCESSED":   IngredientTypeProcessed,
		"MERCHANDISE": IngredientTypeMerchandise,
	}
	t, ok := ingredientType[str]
	if !ok {
		return "", fmt.Errorf("%s is not a valid IngredientType", str)
	}
	return t, nil
}

type MovementDirection string

const (
	MovementDirectionIn  MovementDirection = "IN"
	MovementDirectionOut MovementDirection = "OUT"
)

type MovementReason string

const (
	MovementReasonPurchase            MovementReason = "Purchase"
	MovementReasonOrderConsumption    MovementReason = "Order Consumption"
	MovementReasonOrderItemRemoval    MovementReason = "Order Item Removal"
	MovementReasonCancellationRestock MovementReason = "Cancellation Restock"
	MovementReasonAdjustment          MovementReason = "Adjustment"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "Pending"
	OrderStatusConfirmed OrderStatus = "Confirmed"
	OrderStatusPreparing OrderStatus = "Preparing"
	OrderStatusReady     OrderStatus = "Ready"
	OrderStatusCompleted OrderStatus = "Completed"
	OrderStatusCancelled OrderStatus = "Cancelled"
)

func ParseOrderStatus(str string) (OrderStatus, error) {
	orderStatus := map[string]OrderStatus{
		"Pending":   OrderStatusPending,
		"Confirmed": OrderStatusConfirmed,
		"Preparing": OrderStatusPreparing,
		"Ready":     OrderStatusReady,
		"Completed": OrderStatusCompleted,
		"Cancelled": OrderStatusCancelled,
	}
	s, ok := orderStatus[str]
	if !ok {
		return "", fmt.Errorf("%s is not a valid OrderStatus", str)
	}
	return s, nil
}

// orderStatusRank orders the forward lifecycle. Cancelled is terminal and is
// only reachable through the cancellation sub-protocol, never via AdvanceOrderStatus.
var orderStatusRank = map[OrderStatus]int{
	OrderStatusPending:   0,
	OrderStatusConfirmed: 1,
	OrderStatusPreparing: 2,
	OrderStatusReady:     3,
	OrderStatusCompleted: 4,
}

func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

type CancellationStatus string

const (
	CancellationStatusNone      CancellationStatus = "None"
	CancellationStatusRequested CancellationStatus = "Requested"
	CancellationStatusApproved  CancellationStatus = "Approved"
	CancellationStatusRejected  CancellationStatus = "Rejected"
)

type CancellationDecision string

const (
	CancellationDecisionApprove CancellationDecision = "approve"
	CancellationDecisionReject  CancellationDecision = "reject"
)

type CostBasis string

const (
	// CostBasisReal means the costing used the ledger's live weighted average cost.
	CostBasisReal CostBasis = "Real"
	// CostBasisReference means the costing used a manually entered standalone cost.
	CostBasisReference CostBasis = "Reference"
)

// Permission codes consumed from the principal's capability set. Role-to-code
// evaluation lives in the auth service; the core only re-enforces each gated
// transition server-side.
const (
	PermissionCreateOrder     = "ORD_CREATE"
	PermissionAcceptOrder     = "ORD_ACCEPT"
	PermissionAdvanceOrder    = "ORD_ADVANCE"
	PermissionAddOrderItems   = "ORD_ADD_ITEMS"
	PermissionRemoveOrderItem = "ORD_REMOVE_ITEM"
	PermissionRequestCancel   = "ORD_CANCEL_REQUEST"
	PermissionApproveCancel   = "ORD_CANCEL_APPROVE"
	PermissionPostPurchase    = "STK_PURCHASE"
	PermissionViewStock       = "STK_VIEW"
	PermissionRebuildStock    = "STK_REBUILD"
)

// TransitionConfirm keys the one consumption commit every order gets at
// confirmation. Late additions are keyed per batch (see AddOrderItems).
const TransitionConfirm = "Confirm"
