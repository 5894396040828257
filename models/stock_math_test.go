package models_test

import (
	"testing"

	"bitbucket.org/mmdatafocus/resto_backend/models"
	"github.com/shopspring/decimal"
)

func TestNextWeightedAverageCost_BlendsPurchaseBatches(t *testing.T) {
	// 10 kg at 500, then 5 kg at 600 -> (10*500 + 5*600) / 15 = 533.3333
	wac := models.NextWeightedAverageCost(decimal.Zero, decimal.Zero, decimal.NewFromInt(10), decimal.NewFromInt(500))
	if !wac.Equal(decimal.NewFromInt(500)) {
		t.Fatalf("first purchase wac = %s, want 500", wac)
	}

	wac = models.NextWeightedAverageCost(decimal.NewFromInt(10), wac, decimal.NewFromInt(5), decimal.NewFromInt(600))
	want := decimal.RequireFromString("533.3333")
	if !wac.Equal(want) {
		t.Fatalf("blended wac = %s, want %s", wac, want)
	}
}

func TestNextWeightedAverageCost_FirstPurchaseSetsCost(t *testing.T) {
	wac := models.NextWeightedAverageCost(decimal.Zero, decimal.Zero, decimal.NewFromInt(3), decimal.RequireFromString("123.4567"))
	if !wac.Equal(decimal.RequireFromString("123.4567")) {
		t.Fatalf("wac = %s, want 123.4567", wac)
	}
}

func TestFoldStockMovements_OutLeavesWacUnchanged(t *testing.T) {
	movements := []*models.StockMovement{
		{Direction: models.MovementDirectionIn, Qty: decimal.NewFromInt(10), UnitCost: decimal.NewFromInt(500)},
		{Direction: models.MovementDirectionIn, Qty: decimal.NewFromInt(5), UnitCost: decimal.NewFromInt(600)},
		{Direction: models.MovementDirectionOut, Qty: decimal.NewFromInt(12)},
	}

	balance, wac := models.FoldStockMovements(movements)
	if !balance.Equal(decimal.NewFromInt(3)) {
		t.Fatalf("balance = %s, want 3", balance)
	}
	if !wac.Equal(decimal.RequireFromString("533.3333")) {
		t.Fatalf("wac = %s, want 533.3333 (OUT must not move the average)", wac)
	}
}

func TestFoldStockMovements_ReplayMatchesIncremental(t *testing.T) {
	movements := []*models.StockMovement{
		{Direction: models.MovementDirectionIn, Qty: decimal.RequireFromString("2.5"), UnitCost: decimal.NewFromInt(1000)},
		{Direction: models.MovementDirectionOut, Qty: decimal.RequireFromString("0.7")},
		{Direction: models.MovementDirectionIn, Qty: decimal.RequireFromString("4.2"), UnitCost: decimal.RequireFromString("850.50")},
		{Direction: models.MovementDirectionOut, Qty: decimal.NewFromInt(1)},
	}

	// incremental application as PostStockMovement would do it
	balance, wac := decimal.Zero, decimal.Zero
	for _, m := range movements {
		if m.Direction == models.MovementDirectionIn {
			wac = models.NextWeightedAverageCost(balance, wac, m.Qty, m.UnitCost)
			balance = balance.Add(m.Qty)
		} else {
			balance = balance.Sub(m.Qty)
		}
	}

	foldBalance, foldWac := models.FoldStockMovements(movements)
	if !foldBalance.Equal(balance) || !foldWac.Equal(wac) {
		t.Fatalf("fold = (%s, %s), incremental = (%s, %s)", foldBalance, foldWac, balance, wac)
	}
}
