package models_test

import (
	"testing"

	"bitbucket.org/mmdatafocus/resto_backend/models"
	"github.com/shopspring/decimal"
)

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestComputeProductCosting_RecipeUsesNetQtyTimesWac(t *testing.T) {
	product := &models.Product{ID: 1, Name: "Cheese Sandwich", Price: decimal.NewFromInt(3000)}
	recipe := &models.Recipe{Items: []models.RecipeItem{
		{IngredientId: 10, NetQty: decimal.RequireFromString("0.1")},
		{IngredientId: 11, NetQty: decimal.NewFromInt(2)},
	}}
	ingredients := map[int]*models.Ingredient{
		10: {ID: 10, Name: "Cheese", WeightedAvgCost: decimal.RequireFromString("533.3333")},
		11: {ID: 11, Name: "Bread", WeightedAvgCost: decimal.NewFromInt(200)},
	}

	costing, err := models.ComputeProductCosting(product, recipe, ingredients)
	if err != nil {
		t.Fatal(err)
	}
	if costing.CostBasis != models.CostBasisReal {
		t.Fatalf("cost basis = %s, want Real", costing.CostBasis)
	}
	// 0.1*533.3333 + 2*200 = 53.33333 + 400
	wantCost := decimal.RequireFromString("453.33333")
	if !costing.IngredientCost.Equal(wantCost) {
		t.Fatalf("ingredient cost = %s, want %s", costing.IngredientCost, wantCost)
	}
	if !costing.Margin.Equal(decimal.NewFromInt(3000).Sub(wantCost)) {
		t.Fatalf("margin = %s", costing.Margin)
	}
	if len(costing.Lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(costing.Lines))
	}
}

func TestComputeProductCosting_MerchandiseUsesLinkedWac(t *testing.T) {
	product := &models.Product{
		ID: 2, Name: "Cola Can", Price: decimal.NewFromInt(1500),
		MerchandiseIngredientId: intPtr(20),
	}
	ingredients := map[int]*models.Ingredient{
		20: {ID: 20, Name: "Cola Can", WeightedAvgCost: decimal.NewFromInt(700)},
	}

	costing, err := models.ComputeProductCosting(product, nil, ingredients)
	if err != nil {
		t.Fatal(err)
	}
	if costing.CostBasis != models.CostBasisReal {
		t.Fatalf("cost basis = %s, want Real", costing.CostBasis)
	}
	if !costing.IngredientCost.Equal(decimal.NewFromInt(700)) {
		t.Fatalf("ingredient cost = %s, want 700", costing.IngredientCost)
	}
}

func TestComputeProductCosting_ReferenceFallbackIsFlagged(t *testing.T) {
	product := &models.Product{
		ID: 3, Name: "Outsourced Cake", Price: decimal.NewFromInt(5000),
		ReferenceUnitCost: decPtr("2100"),
	}

	costing, err := models.ComputeProductCosting(product, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if costing.CostBasis != models.CostBasisReference {
		t.Fatalf("cost basis = %s, want Reference", costing.CostBasis)
	}
	if !costing.IngredientCost.Equal(decimal.NewFromInt(2100)) {
		t.Fatalf("ingredient cost = %s, want 2100", costing.IngredientCost)
	}
	if !costing.Margin.Equal(decimal.NewFromInt(2900)) {
		t.Fatalf("margin = %s, want 2900", costing.Margin)
	}
}

func TestComputeProductCosting_MarginPercentRounded(t *testing.T) {
	product := &models.Product{ID: 4, Name: "Tea", Price: decimal.NewFromInt(300)}
	recipe := &models.Recipe{Items: []models.RecipeItem{
		{IngredientId: 30, NetQty: decimal.NewFromInt(1)},
	}}
	ingredients := map[int]*models.Ingredient{
		30: {ID: 30, Name: "Tea Bag", WeightedAvgCost: decimal.NewFromInt(100)},
	}

	costing, err := models.ComputeProductCosting(product, recipe, ingredients)
	if err != nil {
		t.Fatal(err)
	}
	// (300-100)/300 = 66.67%
	if !costing.MarginPercent.Equal(decimal.RequireFromString("66.67")) {
		t.Fatalf("margin pct = %s, want 66.67", costing.MarginPercent)
	}
}

func TestComputeProductCosting_ZeroPriceSkipsPercent(t *testing.T) {
	product := &models.Product{ID: 5, Name: "Staff Meal"}

	costing, err := models.ComputeProductCosting(product, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !costing.MarginPercent.IsZero() {
		t.Fatalf("margin pct = %s, want 0", costing.MarginPercent)
	}
}
