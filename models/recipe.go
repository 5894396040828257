package models

import (
	"context"
	"errors"
	"sort"
	"time"

	"bitbucket.org/mmdatafocus/resto_backend/config"
	"bitbucket.org/mmdatafocus/resto_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Recipe maps a product to the ingredient quantities it consumes. A product
// has zero or one recipe. Recipes are maintained by catalog management and
// read-only to the order pipeline.
type Recipe struct {
	ID        int          `gorm:"primary_key" json:"id"`
	CompanyId string       `gorm:"index;not null" json:"company_id" binding:"required"`
	ProductId int          `gorm:"uniqueIndex;not null" json:"product_id" binding:"required"`
	Items     []RecipeItem `gorm:"foreignKey:RecipeId" json:"items"`
	CreatedAt time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time    `gorm:"autoUpdateTime" json:"updated_at"`
}

type RecipeItem struct {
	ID           int             `gorm:"primary_key" json:"id"`
	RecipeId     int             `gorm:"index;not null" json:"recipe_id"`
	IngredientId int             `gorm:"index;not null" json:"ingredient_id" binding:"required"`
	GrossQty     decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"gross_qty"`
	// NetQty = GrossQty x the ingredient's yield factor, captured at recipe
	// save time. Consumption always uses the net quantity.
	NetQty      decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"net_qty"`
	MeasureUnit string          `gorm:"size:20" json:"measure_unit"`
}

type NewRecipeItem struct {
	IngredientId int             `json:"ingredient_id" binding:"required"`
	GrossQty     decimal.Decimal `json:"gross_qty" binding:"required"`
	MeasureUnit  string          `json:"measure_unit"`
}

type NewRecipe struct {
	ProductId int             `json:"product_id" binding:"required"`
	Items     []NewRecipeItem `json:"items" binding:"required"`
}

// UpsertRecipe replaces the product's recipe. Net quantities are derived from
// each ingredient's yield factor at save time.
func UpsertRecipe(ctx context.Context, input *NewRecipe) (*Recipe, error) {
	companyId, ok := utils.GetCompanyIdFromContext(ctx)
	if !ok || companyId == "" {
		return nil, errors.New("company id is required")
	}
	if err := utils.ValidateResourceId[Product](ctx, companyId, input.ProductId); err != nil {
		return nil, errors.New("product not found")
	}

	items := make([]RecipeItem, 0, len(input.Items))
	for _, line := range input.Items {
		if line.GrossQty.IsZero() || line.GrossQty.IsNegative() {
			return nil, newValidationError("recipe quantity must be positive")
		}
		ingredient, err := utils.FetchModel[Ingredient](ctx, companyId, line.IngredientId)
		if err != nil {
			return nil, errors.New("recipe ingredient not found")
		}
		items = append(items, RecipeItem{
			IngredientId: line.IngredientId,
			GrossQty:     line.GrossQty,
			NetQty:       line.GrossQty.Mul(ingredient.YieldFactor),
			MeasureUnit:  line.MeasureUnit,
		})
	}

	db := config.GetDB()
	tx := db.Begin()

	var existing Recipe
	err := tx.WithContext(ctx).Where("company_id = ? AND product_id = ?", companyId, input.ProductId).
		First(&existing).Error
	if err == nil {
		if err := tx.WithContext(ctx).Where("recipe_id = ?", existing.ID).Delete(&RecipeItem{}).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
		if err := tx.WithContext(ctx).Where("id = ?", existing.ID).Delete(&Recipe{}).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		tx.Rollback()
		return nil, err
	}

	recipe := Recipe{
		CompanyId: companyId,
		ProductId: input.ProductId,
		Items:     items,
	}
	if err := tx.WithContext(ctx).Create(&recipe).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	_ = utils.InvalidateRedisModel[Recipe](companyId, recipe.ID)

	return &recipe, nil
}

// GetRecipeByProduct returns the product's recipe, or nil when it has none.
func GetRecipeByProduct(ctx context.Context, productId int) (*Recipe, error) {
	companyId, ok := utils.GetCompanyIdFromContext(ctx)
	if !ok || companyId == "" {
		return nil, errors.New("company id is required")
	}
	db := config.GetDB()
	var recipe Recipe
	err := db.WithContext(ctx).Preload("Items").
		Where("company_id = ? AND product_id = ?", companyId, productId).
		First(&recipe).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &recipe, nil
}

/* consumption resolution */

// ConsumptionVector maps ingredient id -> required quantity.
type ConsumptionVector map[int]decimal.Decimal

func (v ConsumptionVector) Add(ingredientId int, qty decimal.Decimal) {
	v[ingredientId] = v[ingredientId].Add(qty)
}

func (v ConsumptionVector) Merge(other ConsumptionVector) {
	for id, qty := range other {
		v.Add(id, qty)
	}
}

// IngredientIds returns the vector's keys in ascending order. Deterministic
// ordering keeps lock acquisition order stable across concurrent consumers.
func (v ConsumptionVector) IngredientIds() []int {
	ids := make([]int, 0, len(v))
	for id := range v {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// ResolveOrderItemConsumption computes the net ingredient consumption for one
// order item:
//
//   - recipe lines scale by the item quantity, skipping removed ingredients
//     entirely ("quitar" means skip consumption, not consume-and-discard)
//   - each selected modifier that declares an ingredient adds its quantity,
//     and repeated modifiers consume repeatedly
//   - a recipe-less merchandise product decrements its own linked
//     MERCHANDISE ingredient 1:1
//   - free-text comments are preparation notes only and never reach the vector
func ResolveOrderItemConsumption(item *OrderItem, product *Product, recipe *Recipe, modifierCatalog map[int]*Modifier) (ConsumptionVector, error) {
	vector := ConsumptionVector{}
	itemQty := decimal.NewFromInt(int64(item.Qty))

	removed := make(map[int]bool, len(item.RemovedIngredients))
	for _, r := range item.RemovedIngredients {
		removed[r.IngredientId] = true
	}

	if recipe != nil {
		for _, line := range recipe.Items {
			if removed[line.IngredientId] {
				continue
			}
			vector.Add(line.IngredientId, line.NetQty.Mul(itemQty))
		}
	} else if product != nil && product.MerchandiseIngredientId != nil {
		vector.Add(*product.MerchandiseIngredientId, itemQty)
	}

	for _, im := range item.Modifiers {
		modifier, ok := modifierCatalog[im.ModifierId]
		if !ok {
			return nil, newValidationError("modifier %d not found", im.ModifierId)
		}
		if modifier.IngredientId == nil {
			continue
		}
		vector.Add(*modifier.IngredientId, modifier.Quantity.Mul(itemQty))
	}

	return vector, nil
}

// resolvePerItemConsumption resolves each order item separately, returning the
// per-item vectors (parallel to items) alongside the merged order vector. The
// per-item split is what gets snapshotted at commit time.
func resolvePerItemConsumption(ctx context.Context, companyId string, items []OrderItem) ([]ConsumptionVector, ConsumptionVector, error) {
	modifierCatalog, err := fetchModifierCatalog(ctx, companyId)
	if err != nil {
		return nil, nil, err
	}

	vectors := make([]ConsumptionVector, len(items))
	merged := ConsumptionVector{}
	for i := range items {
		item := &items[i]
		product, err := utils.FetchModel[Product](ctx, companyId, item.ProductId)
		if err != nil {
			return nil, nil, errors.New("product not found")
		}
		recipe, err := GetRecipeByProduct(ctx, item.ProductId)
		if err != nil {
			return nil, nil, err
		}
		itemVector, err := ResolveOrderItemConsumption(item, product, recipe, modifierCatalog)
		if err != nil {
			return nil, nil, err
		}
		vectors[i] = itemVector
		merged.Merge(itemVector)
	}
	return vectors, merged, nil
}
