package models

import (
	"context"
	"errors"

	"bitbucket.org/mmdatafocus/resto_backend/config"
	"bitbucket.org/mmdatafocus/resto_backend/utils"
	"github.com/shopspring/decimal"
)

// CostingLine breaks a product's cost down per recipe ingredient. Qty is the
// net quantity, UnitCost the ingredient's current weighted average cost.
type CostingLine struct {
	IngredientId   int             `json:"ingredient_id"`
	IngredientName string          `json:"ingredient_name"`
	Qty            decimal.Decimal `json:"qty"`
	UnitCost       decimal.Decimal `json:"unit_cost"`
	LineCost       decimal.Decimal `json:"line_cost"`
}

// ProductCosting is a point-in-time snapshot: it reads the current WAC and is
// recomputed on demand, never stored.
type ProductCosting struct {
	ProductId      int             `json:"product_id"`
	ProductName    string          `json:"product_name"`
	Price          decimal.Decimal `json:"price"`
	IngredientCost decimal.Decimal `json:"ingredient_cost"`
	Margin         decimal.Decimal `json:"margin"`
	MarginPercent  decimal.Decimal `json:"margin_percent"`
	FoodCostPct    decimal.Decimal `json:"food_cost_pct"`
	CostBasis      CostBasis       `json:"cost_basis"`
	Lines          []CostingLine   `json:"lines"`
}

// ComputeProductCosting derives cost and margin for one product.
//
// Recipe products cost net qty x WAC per line. Merchandise products cost the
// linked ingredient's WAC directly. A product with neither falls back to its
// reference unit cost and is flagged CostBasisReference so readers know the
// figure did not come from the ledger.
func ComputeProductCosting(product *Product, recipe *Recipe, ingredients map[int]*Ingredient) (*ProductCosting, error) {
	costing := ProductCosting{
		ProductId:   product.ID,
		ProductName: product.Name,
		Price:       product.Price,
		CostBasis:   CostBasisReal,
	}

	switch {
	case recipe != nil && len(recipe.Items) > 0:
		for _, item := range recipe.Items {
			ingredient, ok := ingredients[item.IngredientId]
			if !ok {
				return nil, errors.New("costing references an unknown ingredient")
			}
			line := CostingLine{
				IngredientId:   ingredient.ID,
				IngredientName: ingredient.Name,
				Qty:            item.NetQty,
				UnitCost:       ingredient.WeightedAvgCost,
				LineCost:       item.NetQty.Mul(ingredient.WeightedAvgCost),
			}
			costing.Lines = append(costing.Lines, line)
			costing.IngredientCost = costing.IngredientCost.Add(line.LineCost)
		}
	case product.MerchandiseIngredientId != nil:
		ingredient, ok := ingredients[*product.MerchandiseIngredientId]
		if !ok {
			return nil, errors.New("costing references an unknown ingredient")
		}
		line := CostingLine{
			IngredientId:   ingredient.ID,
			IngredientName: ingredient.Name,
			Qty:            decimal.NewFromInt(1),
			UnitCost:       ingredient.WeightedAvgCost,
			LineCost:       ingredient.WeightedAvgCost,
		}
		costing.Lines = append(costing.Lines, line)
		costing.IngredientCost = line.LineCost
	default:
		costing.CostBasis = CostBasisReference
		if product.ReferenceUnitCost != nil {
			costing.IngredientCost = *product.ReferenceUnitCost
		}
	}

	costing.Margin = costing.Price.Sub(costing.IngredientCost)
	if !costing.Price.IsZero() {
		costing.MarginPercent = costing.Margin.Div(costing.Price).Mul(decimal.NewFromInt(100)).Round(2)
		costing.FoodCostPct = costing.IngredientCost.Div(costing.Price).Mul(decimal.NewFromInt(100)).Round(2)
	}
	return &costing, nil
}

// GetProductCosting loads the product, recipe and ingredient WACs and
// computes the snapshot.
func GetProductCosting(ctx context.Context, productId int) (*ProductCosting, error) {
	companyId, ok := utils.GetCompanyIdFromContext(ctx)
	if !ok || companyId == "" {
		return nil, errors.New("company id is required")
	}

	product, err := utils.FetchModel[Product](ctx, companyId, productId)
	if err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	recipe, err := GetRecipeByProduct(ctx, productId)
	if err != nil {
		return nil, err
	}

	ingredientIds := make([]int, 0)
	if recipe != nil {
		for _, item := range recipe.Items {
			ingredientIds = append(ingredientIds, item.IngredientId)
		}
	}
	if product.MerchandiseIngredientId != nil {
		ingredientIds = append(ingredientIds, *product.MerchandiseIngredientId)
	}

	ingredients := make(map[int]*Ingredient, len(ingredientIds))
	if len(ingredientIds) > 0 {
		db := config.GetDB()
		var rows []*Ingredient
		err := db.WithContext(ctx).
			Where("company_id = ? AND id IN ?", companyId, utils.UniqueSlice(ingredientIds)).
			Find(&rows).Error
		if err != nil {
			return nil, err
		}
		for _, row := range rows {
			ingredients[row.ID] = row
		}
	}

	return ComputeProductCosting(product, recipe, ingredients)
}

// ListProductCostings computes the snapshot for every active product, for the
// menu margin overview.
func ListProductCostings(ctx context.Context) ([]*ProductCosting, error) {
	products, err := ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	costings := make([]*ProductCosting, 0, len(products))
	for _, product := range products {
		if product.IsActive != nil && !*product.IsActive {
			continue
		}
		costing, err := GetProductCosting(ctx, product.ID)
		if err != nil {
			return nil, err
		}
		costings = append(costings, costing)
	}
	return costings, nil
}
