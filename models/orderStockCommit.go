package models

import (
	"errors"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderStockCommit records that the consumption for one (order, transition)
// key has been applied. The unique index makes the claim race-free: the first
// transaction to insert the row owns the commit, a retry of the same key hits
// a duplicate entry and becomes a no-op.
type OrderStockCommit struct {
	ID         int       `gorm:"primary_key" json:"id"`
	CompanyId  string    `gorm:"size:36;not null;uniqueIndex:uniq_order_stock_commit" json:"company_id"`
	OrderId    int       `gorm:"not null;uniqueIndex:uniq_order_stock_commit" json:"order_id"`
	Transition string    `gorm:"size:100;not null;uniqueIndex:uniq_order_stock_commit" json:"transition"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// OrderItemConsumption snapshots the exact quantities one order item consumed
// when its commit posted. Reversals read the snapshot, never the live catalog:
// a recipe edited between confirmation and a removal or cancel-restock must not
// skew the re-credit.
type OrderItemConsumption struct {
	ID           int             `gorm:"primary_key" json:"id"`
	CompanyId    string          `gorm:"size:36;index;not null" json:"company_id"`
	OrderId      int             `gorm:"index;not null" json:"order_id"`
	OrderItemId  int             `gorm:"index;not null" json:"order_item_id"`
	IngredientId int             `gorm:"not null" json:"ingredient_id"`
	Qty          decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"qty"`
	CreatedAt    time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

// TransitionCancelRestock keys the optional re-credit applied when an
// approved cancellation restocks the order's consumed ingredients.
const TransitionCancelRestock = "CancelRestock"

const mysqlDuplicateEntry = 1062

func isDuplicateEntry(err error) bool {
	var mysqlErr *mysqldriver.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry
}

// claimStockCommit inserts the idempotency row for (order, transition).
// Returns false without error when the key was already claimed.
func claimStockCommit(tx *gorm.DB, order *Order, transition string) (bool, error) {
	commit := OrderStockCommit{
		CompanyId:  order.CompanyId,
		OrderId:    order.ID,
		Transition: transition,
	}
	if err := tx.Create(&commit).Error; err != nil {
		if isDuplicateEntry(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// consumeOrderStockTx claims the transition key and applies its consumption
// vector as OUT movements inside the caller's transaction. Returns false when
// the key was already committed, in which case nothing is posted.
func consumeOrderStockTx(tx *gorm.DB, order *Order, vector ConsumptionVector, transition string) (bool, error) {
	claimed, err := claimStockCommit(tx, order, transition)
	if err != nil {
		return false, err
	}
	if !claimed {
		return false, nil
	}
	if err := postOrderConsumptionTx(tx, order, vector); err != nil {
		return false, err
	}
	return true, nil
}

// postOrderConsumptionTx posts one OUT movement per ingredient. Ingredients
// are posted in ascending id order so concurrent commits acquire row locks in
// the same sequence and cannot deadlock each other. The first shortfall aborts
// with InsufficientStockError and the caller's rollback discards every
// movement already posted, so a multi-ingredient commit is all-or-nothing.
func postOrderConsumptionTx(tx *gorm.DB, order *Order, vector ConsumptionVector) error {
	referenceId := order.ID
	for _, ingredientId := range vector.IngredientIds() {
		qty := vector[ingredientId]
		if qty.IsZero() {
			continue
		}
		_, err := PostStockMovement(tx, order.CompanyId, &NewStockMovement{
			IngredientId:     ingredientId,
			Direction:        MovementDirectionOut,
			Qty:              qty,
			Reason:           MovementReasonOrderConsumption,
			ReferenceOrderId: &referenceId,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// snapshotItemConsumptionTx persists each item's resolved vector so later
// reversals can re-credit exactly what was consumed.
func snapshotItemConsumptionTx(tx *gorm.DB, order *Order, items []OrderItem, vectors []ConsumptionVector) error {
	rows := make([]OrderItemConsumption, 0, len(items))
	for i := range items {
		for _, ingredientId := range vectors[i].IngredientIds() {
			qty := vectors[i][ingredientId]
			if qty.IsZero() {
				continue
			}
			rows = append(rows, OrderItemConsumption{
				CompanyId:    order.CompanyId,
				OrderId:      order.ID,
				OrderItemId:  items[i].ID,
				IngredientId: ingredientId,
				Qty:          qty,
			})
		}
	}
	if len(rows) == 0 {
		return nil
	}
	return tx.Create(&rows).Error
}

// itemConsumptionVectorTx loads the committed consumption snapshot for one
// order item. Empty when the item's consumption was never committed.
func itemConsumptionVectorTx(tx *gorm.DB, order *Order, orderItemId int) (ConsumptionVector, error) {
	var rows []OrderItemConsumption
	err := tx.Where("company_id = ? AND order_id = ? AND order_item_id = ?", order.CompanyId, order.ID, orderItemId).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	vector := ConsumptionVector{}
	for _, row := range rows {
		vector.Add(row.IngredientId, row.Qty)
	}
	return vector, nil
}

// orderConsumptionVectorTx sums the remaining snapshots for the whole order,
// which equals its net committed consumption: removals delete their snapshot
// rows when they reverse.
func orderConsumptionVectorTx(tx *gorm.DB, order *Order) (ConsumptionVector, error) {
	var rows []OrderItemConsumption
	err := tx.Where("company_id = ? AND order_id = ?", order.CompanyId, order.ID).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	vector := ConsumptionVector{}
	for _, row := range rows {
		vector.Add(row.IngredientId, row.Qty)
	}
	return vector, nil
}

// reverseOrderStockTx re-credits a consumption vector as IN movements valued
// at each ingredient's current weighted average cost, which leaves the WAC
// unchanged while restoring the balance.
func reverseOrderStockTx(tx *gorm.DB, order *Order, vector ConsumptionVector, reason MovementReason) error {
	referenceId := order.ID
	for _, ingredientId := range vector.IngredientIds() {
		qty := vector[ingredientId]
		if qty.IsZero() {
			continue
		}
		ingredient, err := LockIngredient(tx, order.CompanyId, ingredientId)
		if err != nil {
			return err
		}
		_, err = PostStockMovement(tx, order.CompanyId, &NewStockMovement{
			IngredientId:     ingredientId,
			Direction:        MovementDirectionIn,
			Qty:              qty,
			UnitCost:         ingredient.WeightedAvgCost,
			Reason:           reason,
			ReferenceOrderId: &referenceId,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// restockCancelledOrderTx re-credits everything an approved-cancelled order
// still holds, read from its consumption snapshots. An order cancelled before
// confirmation has no snapshot rows and nothing to restock.
func restockCancelledOrderTx(tx *gorm.DB, order *Order) error {
	vector, err := orderConsumptionVectorTx(tx, order)
	if err != nil {
		return err
	}
	if len(vector) == 0 {
		return nil
	}

	claimed, err := claimStockCommit(tx, order, TransitionCancelRestock)
	if err != nil {
		return err
	}
	if !claimed {
		return nil
	}
	return reverseOrderStockTx(tx, order, vector, MovementReasonCancellationRestock)
}
