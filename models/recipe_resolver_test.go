package models_test

import (
	"testing"

	"bitbucket.org/mmdatafocus/resto_backend/models"
	"github.com/shopspring/decimal"
)

func intPtr(i int) *int { return &i }

func assertVector(t *testing.T, got models.ConsumptionVector, want map[int]string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("vector has %d entries, want %d: %v", len(got), len(want), got)
	}
	for id, qty := range want {
		if !got[id].Equal(decimal.RequireFromString(qty)) {
			t.Fatalf("ingredient %d = %s, want %s", id, got[id], qty)
		}
	}
}

func TestResolveOrderItemConsumption_RemovedIngredientSkipsConsumption(t *testing.T) {
	// burger = {A:1, B:1}; guest removes A and adds modifier C.
	// A is skipped entirely, not consumed-and-discarded.
	recipe := &models.Recipe{Items: []models.RecipeItem{
		{IngredientId: 1, NetQty: decimal.NewFromInt(1)},
		{IngredientId: 2, NetQty: decimal.NewFromInt(1)},
	}}
	catalog := map[int]*models.Modifier{
		7: {ID: 7, IngredientId: intPtr(3), Quantity: decimal.NewFromInt(1)},
	}
	item := &models.OrderItem{
		Qty:                1,
		RemovedIngredients: []models.OrderItemRemovedIngredient{{IngredientId: 1}},
		Modifiers:          []models.OrderItemModifier{{ModifierId: 7}},
	}

	vector, err := models.ResolveOrderItemConsumption(item, &models.Product{}, recipe, catalog)
	if err != nil {
		t.Fatal(err)
	}
	assertVector(t, vector, map[int]string{2: "1", 3: "1"})
}

func TestResolveOrderItemConsumption_RepeatedModifiersConsumeRepeatedly(t *testing.T) {
	recipe := &models.Recipe{Items: []models.RecipeItem{
		{IngredientId: 5, NetQty: decimal.RequireFromString("0.2")},
	}}
	catalog := map[int]*models.Modifier{
		9: {ID: 9, IngredientId: intPtr(5), Quantity: decimal.RequireFromString("0.05")},
	}
	// double extra cheese
	item := &models.OrderItem{
		Qty:       1,
		Modifiers: []models.OrderItemModifier{{ModifierId: 9}, {ModifierId: 9}},
	}

	vector, err := models.ResolveOrderItemConsumption(item, &models.Product{}, recipe, catalog)
	if err != nil {
		t.Fatal(err)
	}
	assertVector(t, vector, map[int]string{5: "0.3"})
}

func TestResolveOrderItemConsumption_ScalesByItemQuantity(t *testing.T) {
	recipe := &models.Recipe{Items: []models.RecipeItem{
		{IngredientId: 1, NetQty: decimal.RequireFromString("0.15")},
		{IngredientId: 2, NetQty: decimal.NewFromInt(2)},
	}}
	item := &models.OrderItem{Qty: 3}

	vector, err := models.ResolveOrderItemConsumption(item, &models.Product{}, recipe, nil)
	if err != nil {
		t.Fatal(err)
	}
	assertVector(t, vector, map[int]string{1: "0.45", 2: "6"})
}

func TestResolveOrderItemConsumption_MerchandiseDecrementsOwnStock(t *testing.T) {
	product := &models.Product{MerchandiseIngredientId: intPtr(42)}
	item := &models.OrderItem{Qty: 2}

	vector, err := models.ResolveOrderItemConsumption(item, product, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	assertVector(t, vector, map[int]string{42: "2"})
}

func TestResolveOrderItemConsumption_CommentNeverTouchesStock(t *testing.T) {
	recipe := &models.Recipe{Items: []models.RecipeItem{
		{IngredientId: 1, NetQty: decimal.NewFromInt(1)},
	}}
	item := &models.OrderItem{Qty: 1, Comment: "well done, no salt"}

	vector, err := models.ResolveOrderItemConsumption(item, &models.Product{}, recipe, nil)
	if err != nil {
		t.Fatal(err)
	}
	assertVector(t, vector, map[int]string{1: "1"})
}

func TestResolveOrderItemConsumption_DisplayOnlyModifierHasNoVector(t *testing.T) {
	catalog := map[int]*models.Modifier{
		4: {ID: 4, IngredientId: nil}, // e.g. "serve cold"
	}
	item := &models.OrderItem{
		Qty:       1,
		Modifiers: []models.OrderItemModifier{{ModifierId: 4}},
	}

	vector, err := models.ResolveOrderItemConsumption(item, &models.Product{}, nil, catalog)
	if err != nil {
		t.Fatal(err)
	}
	if len(vector) != 0 {
		t.Fatalf("vector = %v, want empty", vector)
	}
}

func TestConsumptionVector_MergeAndStableOrdering(t *testing.T) {
	a := models.ConsumptionVector{3: decimal.NewFromInt(1), 1: decimal.NewFromInt(2)}
	b := models.ConsumptionVector{3: decimal.NewFromInt(4), 2: decimal.NewFromInt(5)}
	a.Merge(b)

	assertVector(t, a, map[int]string{1: "2", 2: "5", 3: "5"})

	ids := a.IngredientIds()
	for i := 1; i < len(ids); i++ {
		if ids[i-1] >= ids[i] {
			t.Fatalf("ids not ascending: %v", ids)
		}
	}
}
