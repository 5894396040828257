package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bitbucket.org/mmdatafocus/resto_backend/config"
	"bitbucket.org/mmdatafocus/resto_backend/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Order is owned exclusively by the branch that created it; every query is
// scoped by company_id + branch_id. Status only moves forward; Cancelled is
// reachable solely through the two-party cancellation sub-protocol.
type Order struct {
	ID                      int                `gorm:"primary_key" json:"id"`
	CompanyId               string             `gorm:"index;not null" json:"company_id" binding:"required"`
	BranchId                int                `gorm:"index;not null" json:"branch_id" binding:"required"`
	OrderNumber             string             `gorm:"size:50;not null" json:"order_number"`
	Status                  OrderStatus        `gorm:"type:enum('Pending','Confirmed','Preparing','Ready','Completed','Cancelled');not null;default:Pending" json:"status"`
	CancellationStatus      CancellationStatus `gorm:"type:enum('None','Requested','Approved','Rejected');not null;default:None" json:"cancellation_status"`
	CancellationReason      string             `gorm:"type:text" json:"cancellation_reason"`
	CancellationRequestedBy int                `json:"cancellation_requested_by"`
	DeliveryContext         string             `gorm:"type:text" json:"delivery_context"`
	Total                   decimal.Decimal    `gorm:"type:decimal(20,4);default:0" json:"total"`
	Items                   []OrderItem        `gorm:"foreignKey:OrderId" json:"items"`
	CreatedAt               time.Time          `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt               time.Time          `gorm:"autoUpdateTime" json:"updated_at"`
}

type OrderItem struct {
	ID        int             `gorm:"primary_key" json:"id"`
	OrderId   int             `gorm:"index;not null" json:"order_id"`
	ProductId int             `gorm:"index;not null" json:"product_id" binding:"required"`
	Name      string          `gorm:"size:100" json:"name"`
	Qty       int             `gorm:"not null" json:"qty" binding:"required"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"unit_price"`
	// Comment is a preparation note for the kitchen. It is documented to
	// operators as display-only and never affects stock consumption.
	Comment            string                       `gorm:"size:255" json:"comment"`
	Subtotal           decimal.Decimal              `gorm:"type:decimal(20,4);default:0" json:"subtotal"`
	RemovedIngredients []OrderItemRemovedIngredient `gorm:"foreignKey:OrderItemId" json:"removed_ingredients"`
	Modifiers          []OrderItemModifier          `gorm:"foreignKey:OrderItemId" json:"modifiers"`
}

// OrderItemRemovedIngredient marks a recipe line the guest asked to leave out.
// The matching recipe consumption is skipped entirely.
type OrderItemRemovedIngredient struct {
	ID           int `gorm:"primary_key" json:"id"`
	OrderItemId  int `gorm:"index;not null" json:"order_item_id"`
	IngredientId int `gorm:"not null" json:"ingredient_id"`
}

// OrderItemModifier rows repeat when the same modifier is selected twice;
// repeated selections price and consume repeatedly.
type OrderItemModifier struct {
	ID          int `gorm:"primary_key" json:"id"`
	OrderItemId int `gorm:"index;not null" json:"order_item_id"`
	ModifierId  int `gorm:"not null" json:"modifier_id"`
}

type NewOrderItem struct {
	ProductId            int    `json:"product_id" binding:"required"`
	Qty                  int    `json:"qty" binding:"required"`
	RemovedIngredientIds []int  `json:"removed_ingredient_ids"`
	ModifierIds          []int  `json:"modifier_ids"`
	Comment              string `json:"comment"`
}

type NewOrder struct {
	DeliveryContext string         `json:"delivery_context"`
	Confirm         bool           `json:"confirm"`
	Items           []NewOrderItem `json:"items" binding:"required"`
}

type NewOrderItems struct {
	// RequestId keys the whole batch: a client retry carrying the same id is
	// dropped entirely, no duplicate items, billing, or consumption.
	// Generated when absent.
	RequestId string         `json:"request_id"`
	Items     []NewOrderItem `json:"items" binding:"required"`
}

// ValidateOrderStatusTransition enforces the forward-only lifecycle:
// Pending -> Confirmed -> Preparing -> Ready -> Completed, one step at a time.
// Cancelled is never a valid advance target.
func ValidateOrderStatusTransition(orderId int, current, target OrderStatus) error {
	if current.IsTerminal() {
		return newStateConflict(orderId, string(current), string(target))
	}
	currentRank, ok := orderStatusRank[current]
	if !ok {
		return newStateConflict(orderId, string(current), string(target))
	}
	targetRank, ok := orderStatusRank[target]
	if !ok || targetRank != currentRank+1 {
		return newStateConflict(orderId, string(current), string(target))
	}
	return nil
}

// lockOrder fetches the order FOR UPDATE, serializing transitions per order.
// Concurrent attempts queue on the row lock and re-validate against the
// committed state, so stale intents fail with StateConflict instead of
// silently overwriting.
func lockOrder(tx *gorm.DB, companyId string, branchId int, orderId int) (*Order, error) {
	var order Order
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("company_id = ? AND branch_id = ? AND id = ?", companyId, branchId, orderId).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, err
	}
	// children are immutable under the order lock; load them separately
	if err := tx.Preload("RemovedIngredients").Preload("Modifiers").
		Where("order_id = ?", orderId).
		Find(&order.Items).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func orderPrincipal(ctx context.Context) (companyId string, branchId int, userId int, err error) {
	companyId, ok := utils.GetCompanyIdFromContext(ctx)
	if !ok || companyId == "" {
		return "", 0, 0, errors.New("company id is required")
	}
	branchId, ok = utils.GetBranchIdFromContext(ctx)
	if !ok || branchId <= 0 {
		return "", 0, 0, errors.New("branch id is required")
	}
	userId, _ = utils.GetUserIdFromContext(ctx)
	return companyId, branchId, userId, nil
}

// buildOrderItems validates inputs and computes per-item subtotals:
// (unit price + selected modifier surcharges) x qty.
func buildOrderItems(ctx context.Context, companyId string, inputs []NewOrderItem) ([]OrderItem, error) {
	if len(inputs) == 0 {
		return nil, newValidationError("order needs at least one item")
	}
	modifierCatalog, err := fetchModifierCatalog(ctx, companyId)
	if err != nil {
		return nil, err
	}

	items := make([]OrderItem, 0, len(inputs))
	for _, input := range inputs {
		if input.Qty <= 0 {
			return nil, newValidationError("item qty must be positive")
		}
		product, err := utils.FetchModel[Product](ctx, companyId, input.ProductId)
		if err != nil {
			return nil, newValidationError("product %d not found", input.ProductId)
		}
		if len(input.RemovedIngredientIds) > 0 {
			if err := utils.ValidateResourcesId[Ingredient](ctx, companyId, input.RemovedIngredientIds); err != nil {
				return nil, newValidationError("removed ingredient not found")
			}
		}

		item := OrderItem{
			ProductId: product.ID,
			Name:      product.Name,
			Qty:       input.Qty,
			UnitPrice: product.Price,
			Comment:   input.Comment,
		}
		extras := decimal.Zero
		for _, modifierId := range input.ModifierIds {
			modifier, ok := modifierCatalog[modifierId]
			if !ok {
				return nil, newValidationError("modifier %d not found", modifierId)
			}
			extras = extras.Add(modifier.ExtraPrice)
			item.Modifiers = append(item.Modifiers, OrderItemModifier{ModifierId: modifierId})
		}
		for _, ingredientId := range utils.UniqueSlice(input.RemovedIngredientIds) {
			item.RemovedIngredients = append(item.RemovedIngredients, OrderItemRemovedIngredient{IngredientId: ingredientId})
		}

		item.Subtotal = item.UnitPrice.Add(extras).Mul(decimal.NewFromInt(int64(input.Qty)))
		items = append(items, item)
	}
	return items, nil
}

func computeOrderTotal(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal)
	}
	return total
}

// CreateOrder creates the order in Pending with no stock effect. When Confirm
// is requested on create, the Pending -> Confirmed transition (and its
// consumption commit) runs inside the same transaction, so the caller either
// gets a confirmed order with stock consumed or nothing at all.
func CreateOrder(ctx context.Context, input *NewOrder) (*Order, error) {
	companyId, branchId, _, err := orderPrincipal(ctx)
	if err != nil {
		return nil, err
	}
	if !utils.HasPermission(ctx, PermissionCreateOrder) {
		return nil, &PermissionDeniedError{Code: PermissionCreateOrder}
	}
	if err := utils.ValidateResourceId[Branch](ctx, companyId, branchId); err != nil {
		return nil, newValidationError("branch not found")
	}

	items, err := buildOrderItems(ctx, companyId, input.Items)
	if err != nil {
		return nil, err
	}
	if input.Confirm {
		if err := utils.CompanyLock(ctx, companyId, "stockLock", "order.go", "CreateOrder"); err != nil {
			return nil, err
		}
	}

	order := Order{
		CompanyId:          companyId,
		BranchId:           branchId,
		Status:             OrderStatusPending,
		CancellationStatus: CancellationStatusNone,
		DeliveryContext:    input.DeliveryContext,
		Items:              items,
		Total:              computeOrderTotal(items),
	}

	db := config.GetDB()
	tx := db.Begin()

	if err := tx.WithContext(ctx).Create(&order).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	order.OrderNumber = fmt.Sprintf("ORD-%06d", order.ID)
	if err := tx.WithContext(ctx).Model(&order).Update("OrderNumber", order.OrderNumber).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if input.Confirm {
		if !utils.HasPermission(ctx, PermissionAcceptOrder) {
			tx.Rollback()
			return nil, &PermissionDeniedError{Code: PermissionAcceptOrder}
		}
		if err := confirmOrderTx(ctx, tx, &order); err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// confirmOrderTx commits the order's consumption, snapshots it per item, and
// flips the status, all inside the caller's transaction.
func confirmOrderTx(ctx context.Context, tx *gorm.DB, order *Order) error {
	vectors, merged, err := resolvePerItemConsumption(ctx, order.CompanyId, order.Items)
	if err != nil {
		return err
	}
	applied, err := consumeOrderStockTx(tx.WithContext(ctx), order, merged, TransitionConfirm)
	if err != nil {
		return err
	}
	if applied {
		if err := snapshotItemConsumptionTx(tx.WithContext(ctx), order, order.Items, vectors); err != nil {
			return err
		}
	}
	if err := tx.WithContext(ctx).Model(order).Update("Status", OrderStatusConfirmed).Error; err != nil {
		return err
	}
	order.Status = OrderStatusConfirmed
	return nil
}

// AdvanceOrderStatus applies one forward lifecycle step. Confirmation commits
// the full order's consumption atomically with the status write; every later
// step has no stock effect. Insufficient stock aborts the whole transition and
// leaves the order in Pending.
func AdvanceOrderStatus(ctx context.Context, orderId int, target OrderStatus) (*Order, error) {
	companyId, branchId, _, err := orderPrincipal(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := ParseOrderStatus(string(target)); err != nil {
		return nil, newValidationError("invalid target status %q", target)
	}

	permission := PermissionAdvanceOrder
	if target == OrderStatusConfirmed {
		permission = PermissionAcceptOrder
	}
	if !utils.HasPermission(ctx, permission) {
		return nil, &PermissionDeniedError{Code: permission}
	}
	if target == OrderStatusConfirmed {
		if err := utils.CompanyLock(ctx, companyId, "stockLock", "order.go", "AdvanceOrderStatus"); err != nil {
			return nil, err
		}
	}

	db := config.GetDB()
	tx := db.Begin()

	order, err := lockOrder(tx.WithContext(ctx), companyId, branchId, orderId)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := ValidateOrderStatusTransition(order.ID, order.Status, target); err != nil {
		tx.Rollback()
		return nil, err
	}

	if target == OrderStatusConfirmed {
		if err := confirmOrderTx(ctx, tx, order); err != nil {
			tx.Rollback()
			return nil, err
		}
	} else {
		if err := tx.WithContext(ctx).Model(order).Update("Status", target).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
		order.Status = target
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return order, nil
}

// AddOrderItems appends items to an open order. For an order whose
// confirmation consumption is already committed, only the new items' vector is
// consumed; consumption is always scoped to the delta being committed, never
// re-derived for the whole order.
func AddOrderItems(ctx context.Context, orderId int, input *NewOrderItems) (*Order, error) {
	companyId, branchId, _, err := orderPrincipal(ctx)
	if err != nil {
		return nil, err
	}
	if !utils.HasPermission(ctx, PermissionAddOrderItems) {
		return nil, &PermissionDeniedError{Code: PermissionAddOrderItems}
	}

	newItems, err := buildOrderItems(ctx, companyId, input.Items)
	if err != nil {
		return nil, err
	}
	if err := utils.CompanyLock(ctx, companyId, "stockLock", "order.go", "AddOrderItems"); err != nil {
		return nil, err
	}

	db := config.GetDB()
	tx := db.Begin()

	order, err := lockOrder(tx.WithContext(ctx), companyId, branchId, orderId)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	switch order.Status {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusPreparing:
		// late additions allowed until the kitchen marks Ready
	default:
		tx.Rollback()
		return nil, newStateConflict(order.ID, string(order.Status), "add items")
	}
	if config.StrictOrderImmutability() && order.Status != OrderStatusPending {
		tx.Rollback()
		return nil, newStateConflict(order.ID, string(order.Status), "add items")
	}

	// claim the batch key before touching any rows: a replayed request hits
	// the duplicate claim and is dropped wholesale, items and total included
	requestId := input.RequestId
	if requestId == "" {
		requestId = uuid.NewString()
	}
	claimed, err := claimStockCommit(tx.WithContext(ctx), order, "AddItems:"+requestId)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	if !claimed {
		tx.Rollback()
		return GetOrder(ctx, orderId)
	}

	for i := range newItems {
		newItems[i].OrderId = order.ID
		if err := tx.WithContext(ctx).Create(&newItems[i]).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	// consumption already committed for this order: consume the delta only
	if order.Status != OrderStatusPending {
		vectors, merged, err := resolvePerItemConsumption(ctx, companyId, newItems)
		if err != nil {
			tx.Rollback()
			return nil, err
		}
		if err := postOrderConsumptionTx(tx.WithContext(ctx), order, merged); err != nil {
			tx.Rollback()
			return nil, err
		}
		if err := snapshotItemConsumptionTx(tx.WithContext(ctx), order, newItems, vectors); err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	order.Items = append(order.Items, newItems...)
	order.Total = computeOrderTotal(order.Items)
	if err := tx.WithContext(ctx).Model(order).Update("Total", order.Total).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return order, nil
}

// RemoveOrderItem deletes one line pre-completion. When the line's consumption
// was already committed, it is reversed first with IN movements tagged with
// the order reference, keeping the ledger balanced.
func RemoveOrderItem(ctx context.Context, orderId int, itemId int) (*Order, error) {
	companyId, branchId, _, err := orderPrincipal(ctx)
	if err != nil {
		return nil, err
	}
	if !utils.HasPermission(ctx, PermissionRemoveOrderItem) {
		return nil, &PermissionDeniedError{Code: PermissionRemoveOrderItem}
	}
	if err := utils.CompanyLock(ctx, companyId, "stockLock", "order.go", "RemoveOrderItem"); err != nil {
		return nil, err
	}

	db := config.GetDB()
	tx := db.Begin()

	order, err := lockOrder(tx.WithContext(ctx), companyId, branchId, orderId)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	if order.Status.IsTerminal() {
		tx.Rollback()
		return nil, newStateConflict(order.ID, string(order.Status), "remove item")
	}
	if config.StrictOrderImmutability() && order.Status != OrderStatusPending {
		tx.Rollback()
		return nil, newStateConflict(order.ID, string(order.Status), "remove item")
	}

	var target *OrderItem
	remaining := make([]OrderItem, 0, len(order.Items))
	for i := range order.Items {
		if order.Items[i].ID == itemId {
			target = &order.Items[i]
			continue
		}
		remaining = append(remaining, order.Items[i])
	}
	if target == nil {
		tx.Rollback()
		return nil, utils.ErrorRecordNotFound
	}

	// compensate committed consumption before the line disappears; the
	// snapshot holds what the item actually consumed, so a recipe edited
	// since confirmation cannot skew the re-credit
	vector, err := itemConsumptionVectorTx(tx.WithContext(ctx), order, target.ID)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	if len(vector) > 0 {
		if err := reverseOrderStockTx(tx.WithContext(ctx), order, vector, MovementReasonOrderItemRemoval); err != nil {
			tx.Rollback()
			return nil, err
		}
		err = tx.WithContext(ctx).
			Where("company_id = ? AND order_id = ? AND order_item_id = ?", order.CompanyId, order.ID, target.ID).
			Delete(&OrderItemConsumption{}).Error
		if err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if err := tx.WithContext(ctx).Where("order_item_id = ?", target.ID).Delete(&OrderItemRemovedIngredient{}).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.WithContext(ctx).Where("order_item_id = ?", target.ID).Delete(&OrderItemModifier{}).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.WithContext(ctx).Where("id = ? AND order_id = ?", target.ID, order.ID).Delete(&OrderItem{}).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	order.Items = remaining
	order.Total = computeOrderTotal(order.Items)
	if err := tx.WithContext(ctx).Model(order).Update("Total", order.Total).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return order, nil
}

// RequestOrderCancellation opens the two-party cancellation sub-protocol.
func RequestOrderCancellation(ctx context.Context, orderId int, reason string) (*Order, error) {
	companyId, branchId, userId, err := orderPrincipal(ctx)
	if err != nil {
		return nil, err
	}
	if !utils.HasPermission(ctx, PermissionRequestCancel) {
		return nil, &PermissionDeniedError{Code: PermissionRequestCancel}
	}
	if reason == "" {
		return nil, newValidationError("cancellation reason is required")
	}

	db := config.GetDB()
	tx := db.Begin()

	order, err := lockOrder(tx.WithContext(ctx), companyId, branchId, orderId)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	// re-check under lock: the order may have completed while the request was in flight
	if order.Status.IsTerminal() {
		tx.Rollback()
		return nil, newStateConflict(order.ID, string(order.Status), "request cancellation")
	}
	if order.CancellationStatus != CancellationStatusNone {
		tx.Rollback()
		return nil, newStateConflict(order.ID, string(order.CancellationStatus), "request cancellation")
	}

	if err := tx.WithContext(ctx).Model(order).Updates(map[string]interface{}{
		"CancellationStatus":      CancellationStatusRequested,
		"CancellationReason":      reason,
		"CancellationRequestedBy": userId,
	}).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	order.CancellationStatus = CancellationStatusRequested
	order.CancellationReason = reason
	order.CancellationRequestedBy = userId

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return order, nil
}

// ResolveOrderCancellation approves or rejects a pending cancellation request.
// Approval must come from a different user than the requester, re-validates
// the request under the order lock, and sets status=Cancelled together with
// cancellation_status=Approved in one write. Stock consumed by the order is
// not re-credited unless AUTO_RESTOCK_ON_CANCEL is enabled.
func ResolveOrderCancellation(ctx context.Context, orderId int, decision CancellationDecision) (*Order, error) {
	companyId, branchId, userId, err := orderPrincipal(ctx)
	if err != nil {
		return nil, err
	}
	if !utils.HasPermission(ctx, PermissionApproveCancel) {
		return nil, &PermissionDeniedError{Code: PermissionApproveCancel}
	}
	if decision != CancellationDecisionApprove && decision != CancellationDecisionReject {
		return nil, newValidationError("invalid cancellation decision %q", decision)
	}

	db := config.GetDB()
	tx := db.Begin()

	order, err := lockOrder(tx.WithContext(ctx), companyId, branchId, orderId)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	// stale approvals fail instead of applying blindly
	if order.CancellationStatus != CancellationStatusRequested {
		tx.Rollback()
		return nil, newStateConflict(order.ID, string(order.CancellationStatus), string(decision))
	}
	if order.Status.IsTerminal() {
		tx.Rollback()
		return nil, newStateConflict(order.ID, string(order.Status), string(decision))
	}

	if decision == CancellationDecisionApprove {
		if userId != 0 && userId == order.CancellationRequestedBy {
			tx.Rollback()
			return nil, &PermissionDeniedError{Code: PermissionApproveCancel}
		}
		if err := tx.WithContext(ctx).Model(order).Updates(map[string]interface{}{
			"Status":             OrderStatusCancelled,
			"CancellationStatus": CancellationStatusApproved,
		}).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
		order.Status = OrderStatusCancelled
		order.CancellationStatus = CancellationStatusApproved

		if config.AutoRestockOnCancellation() {
			if err := restockCancelledOrderTx(tx.WithContext(ctx), order); err != nil {
				tx.Rollback()
				return nil, err
			}
		}
	} else {
		// rejection resumes the prior status untouched
		if err := tx.WithContext(ctx).Model(order).Updates(map[string]interface{}{
			"CancellationStatus":      CancellationStatusNone,
			"CancellationReason":      "",
			"CancellationRequestedBy": 0,
		}).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
		order.CancellationStatus = CancellationStatusNone
		order.CancellationReason = ""
		order.CancellationRequestedBy = 0
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return order, nil
}

func GetOrder(ctx context.Context, orderId int) (*Order, error) {
	companyId, branchId, _, err := orderPrincipal(ctx)
	if err != nil {
		return nil, err
	}
	db := config.GetDB()
	var order Order
	err = db.WithContext(ctx).
		Preload("Items").Preload("Items.RemovedIngredients").Preload("Items.Modifiers").
		Where("company_id = ? AND branch_id = ?", companyId, branchId).
		First(&order, orderId).Error
	if err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	return &order, nil
}

func ListOrders(ctx context.Context) ([]*Order, error) {
	companyId, branchId, _, err := orderPrincipal(ctx)
	if err != nil {
		return nil, err
	}
	db := config.GetDB()
	var orders []*Order
	err = db.WithContext(ctx).
		Preload("Items").
		Where("company_id = ? AND branch_id = ?", companyId, branchId).
		Order("id DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}
