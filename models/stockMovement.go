package models

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/mmdatafocus/resto_backend/config"
	"bitbucket.org/mmdatafocus/resto_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// wacScale matches the decimal(20,4) columns the ledger persists into.
const wacScale = 4

// StockMovement is the append-only ledger of ingredient stock. Rows are
// immutable once written; balances and weighted average costs are folds over
// this table and nothing else.
type StockMovement struct {
	ID               int               `gorm:"primary_key" json:"id"`
	CompanyId        string            `gorm:"index;not null" json:"company_id"`
	IngredientId     int               `gorm:"index;not null" json:"ingredient_id"`
	Direction        MovementDirection `gorm:"type:enum('IN','OUT');not null" json:"direction"`
	Qty              decimal.Decimal   `gorm:"type:decimal(20,4);not null" json:"qty"`
	UnitCost         decimal.Decimal   `gorm:"type:decimal(20,4);default:0" json:"unit_cost"`
	ResultingBalance decimal.Decimal   `gorm:"type:decimal(20,4);default:0" json:"resulting_balance"`
	ResultingWac     decimal.Decimal   `gorm:"type:decimal(20,4);default:0" json:"resulting_wac"`
	Reason           MovementReason    `gorm:"size:50;not null" json:"reason"`
	ReferenceOrderId *int              `gorm:"index" json:"reference_order_id"`
	Supplier         string            `gorm:"size:100" json:"supplier"`
	CreatedAt        time.Time         `gorm:"autoCreateTime" json:"created_at"`
}

// NewStockMovement is the posting request handed to PostStockMovement.
type NewStockMovement struct {
	IngredientId     int               `json:"ingredient_id" binding:"required"`
	Direction        MovementDirection `json:"direction" binding:"required"`
	Qty              decimal.Decimal   `json:"qty" binding:"required"`
	UnitCost         decimal.Decimal   `json:"unit_cost"`
	Reason           MovementReason    `json:"reason"`
	ReferenceOrderId *int              `json:"reference_order_id"`
	Supplier         string            `json:"supplier"`
}

// NextWeightedAverageCost applies the moving-average formula for an IN movement:
//
//	wac' = (balance*wac + qty*unitCost) / (balance + qty)
//
// OUT movements never change the WAC.
func NextWeightedAverageCost(balance, wac, qty, unitCost decimal.Decimal) decimal.Decimal {
	newBalance := balance.Add(qty)
	if newBalance.IsZero() {
		return wac
	}
	total := balance.Mul(wac).Add(qty.Mul(unitCost))
	return total.Div(newBalance).Round(wacScale)
}

// FoldStockMovements replays a movement sequence from zero and returns the
// resulting balance and WAC. This is the authoritative fold the cached
// ingredient columns must agree with.
func FoldStockMovements(movements []*StockMovement) (balance, wac decimal.Decimal) {
	for _, m := range movements {
		if m == nil {
			continue
		}
		switch m.Direction {
		case MovementDirectionIn:
			wac = NextWeightedAverageCost(balance, wac, m.Qty, m.UnitCost)
			balance = balance.Add(m.Qty)
		case MovementDirectionOut:
			balance = balance.Sub(m.Qty)
		}
	}
	return balance, wac
}

// LockIngredient fetches the ingredient row FOR UPDATE inside tx, serializing
// balance mutation per ingredient for the life of the transaction.
func LockIngredient(tx *gorm.DB, companyId string, ingredientId int) (*Ingredient, error) {
	var ingredient Ingredient
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("company_id = ? AND id = ?", companyId, ingredientId).
		First(&ingredient).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, err
	}
	return &ingredient, nil
}

// PostStockMovement validates and appends one ledger movement inside the
// caller's transaction, then refreshes the ingredient's cached balance/WAC.
//
// IN: qty > 0, unit cost >= 0; recomputes the moving average.
// OUT: qty > 0 and qty <= balance; WAC unchanged. A shortfall returns
// InsufficientStockError with zero rows written.
func PostStockMovement(tx *gorm.DB, companyId string, input *NewStockMovement) (*StockMovement, error) {
	if input.Qty.IsZero() || input.Qty.IsNegative() {
		return nil, newValidationError("movement qty must be positive")
	}

	ingredient, err := LockIngredient(tx, companyId, input.IngredientId)
	if err != nil {
		return nil, err
	}

	movement := StockMovement{
		CompanyId:        companyId,
		IngredientId:     ingredient.ID,
		Direction:        input.Direction,
		Qty:              input.Qty,
		Reason:           input.Reason,
		ReferenceOrderId: input.ReferenceOrderId,
		Supplier:         input.Supplier,
	}

	switch input.Direction {
	case MovementDirectionIn:
		if input.UnitCost.IsNegative() {
			return nil, newValidationError("unit cost must not be negative")
		}
		movement.UnitCost = input.UnitCost
		movement.ResultingWac = NextWeightedAverageCost(ingredient.Balance, ingredient.WeightedAvgCost, input.Qty, input.UnitCost)
		movement.ResultingBalance = ingredient.Balance.Add(input.Qty)
	case MovementDirectionOut:
		if input.Qty.GreaterThan(ingredient.Balance) {
			return nil, &InsufficientStockError{
				IngredientId:   ingredient.ID,
				IngredientName: ingredient.Name,
				IngredientType: ingredient.Type,
				Available:      ingredient.Balance,
				Requested:      input.Qty,
			}
		}
		movement.ResultingWac = ingredient.WeightedAvgCost
		movement.ResultingBalance = ingredient.Balance.Sub(input.Qty)
	default:
		return nil, newValidationError("invalid movement direction %q", input.Direction)
	}

	if err := tx.Create(&movement).Error; err != nil {
		return nil, err
	}
	if err := tx.Model(&Ingredient{}).
		Where("company_id = ? AND id = ?", companyId, ingredient.ID).
		Updates(map[string]interface{}{
			"Balance":         movement.ResultingBalance,
			"WeightedAvgCost": movement.ResultingWac,
		}).Error; err != nil {
		return nil, err
	}
	// drop cached catalog entries carrying the old balance
	_ = utils.InvalidateRedisModel[Ingredient](companyId, ingredient.ID)

	return &movement, nil
}

// NewPurchase is the operator-facing purchase input.
type NewPurchase struct {
	IngredientId int             `json:"ingredient_id" binding:"required"`
	Qty          decimal.Decimal `json:"qty" binding:"required"`
	UnitCost     decimal.Decimal `json:"unit_cost"`
	Supplier     string          `json:"supplier"`
}

// PostPurchase records a purchase batch as an IN movement.
func PostPurchase(ctx context.Context, input *NewPurchase) (*StockMovement, error) {
	companyId, ok := utils.GetCompanyIdFromContext(ctx)
	if !ok || companyId == "" {
		return nil, errors.New("company id is required")
	}
	if !utils.HasPermission(ctx, PermissionPostPurchase) {
		return nil, &PermissionDeniedError{Code: PermissionPostPurchase}
	}
	if err := utils.ValidateResourceId[Ingredient](ctx, companyId, input.IngredientId); err != nil {
		return nil, err
	}
	if err := utils.CompanyLock(ctx, companyId, "stockLock", "stockMovement.go", "PostPurchase"); err != nil {
		return nil, err
	}

	db := config.GetDB()
	tx := db.Begin()

	movement, err := PostStockMovement(tx.WithContext(ctx), companyId, &NewStockMovement{
		IngredientId: input.IngredientId,
		Direction:    MovementDirectionIn,
		Qty:          input.Qty,
		UnitCost:     input.UnitCost,
		Reason:       MovementReasonPurchase,
		Supplier:     input.Supplier,
	})
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return movement, nil
}

// ListStockMovements returns the full ledger for one ingredient, oldest first.
func ListStockMovements(ctx context.Context, ingredientId int) ([]*StockMovement, error) {
	companyId, ok := utils.GetCompanyIdFromContext(ctx)
	if !ok || companyId == "" {
		return nil, errors.New("company id is required")
	}
	db := config.GetDB()
	var movements []*StockMovement
	err := db.WithContext(ctx).
		Where("company_id = ? AND ingredient_id = ?", companyId, ingredientId).
		Order("id").
		Find(&movements).Error
	if err != nil {
		return nil, err
	}
	return movements, nil
}

// ListPurchaseBatches is the display/audit projection of IN movements.
// Batches carry no independent consumption order; depletion is a scalar
// balance under a single moving-average cost model, not lot costing.
func ListPurchaseBatches(ctx context.Context, ingredientId int) ([]*StockMovement, error) {
	companyId, ok := utils.GetCompanyIdFromContext(ctx)
	if !ok || companyId == "" {
		return nil, errors.New("company id is required")
	}
	db := config.GetDB()
	var movements []*StockMovement
	err := db.WithContext(ctx).
		Where("company_id = ? AND ingredient_id = ? AND direction = ?", companyId, ingredientId, MovementDirectionIn).
		Order("id").
		Find(&movements).Error
	if err != nil {
		return nil, err
	}
	return movements, nil
}

// RebuildIngredientStock replays the ledger for one ingredient and rewrites
// the cached balance/WAC columns. Run via cmd/inventory-rebuild when the cache
// is suspected stale; the ledger itself is never touched.
func RebuildIngredientStock(tx *gorm.DB, companyId string, ingredientId int) (*IngredientStock, error) {
	if _, err := LockIngredient(tx, companyId, ingredientId); err != nil {
		return nil, err
	}

	var movements []*StockMovement
	if err := tx.
		Where("company_id = ? AND ingredient_id = ?", companyId, ingredientId).
		Order("id").
		Find(&movements).Error; err != nil {
		return nil, err
	}

	balance, wac := FoldStockMovements(movements)
	if err := tx.Model(&Ingredient{}).
		Where("company_id = ? AND id = ?", companyId, ingredientId).
		Updates(map[string]interface{}{
			"Balance":         balance,
			"WeightedAvgCost": wac,
		}).Error; err != nil {
		return nil, err
	}
	_ = utils.InvalidateRedisModel[Ingredient](companyId, ingredientId)

	return &IngredientStock{IngredientId: ingredientId, Balance: balance, WeightedAvgCost: wac}, nil
}
