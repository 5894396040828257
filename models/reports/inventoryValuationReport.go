package reports

import (
	"context"
	"errors"

	"bitbucket.org/mmdatafocus/resto_backend/config"
	"bitbucket.org/mmdatafocus/resto_backend/models"
	"bitbucket.org/mmdatafocus/resto_backend/utils"
	"github.com/shopspring/decimal"
)

type InventoryValuationResponse struct {
	IngredientName  string          `json:"ingredientName"`
	IngredientType  string          `json:"ingredientType"`
	BaseUnit        string          `json:"baseUnit"`
	Balance         decimal.Decimal `json:"balance"`
	WeightedAvgCost decimal.Decimal `json:"weightedAvgCost"`
	StockValue      decimal.Decimal `json:"stockValue"`
}

// GetInventoryValuationReport prices on-hand stock at the current weighted
// average cost per ingredient.
func GetInventoryValuationReport(ctx context.Context) ([]*InventoryValuationResponse, error) {

	sql := `
SELECT
    i.name AS ingredient_name,
    i.type AS ingredient_type,
    i.base_unit,
    i.balance,
    i.weighted_avg_cost,
    i.balance * i.weighted_avg_cost AS stock_value
FROM ingredients i
WHERE i.company_id = @companyId
  AND i.is_active = 1
ORDER BY i.name;
`
	companyId, ok := utils.GetCompanyIdFromContext(ctx)
	if !ok || companyId == "" {
		return nil, errors.New("company id is required")
	}
	if !utils.HasPermission(ctx, models.PermissionViewStock) {
		return nil, &models.PermissionDeniedError{Code: models.PermissionViewStock}
	}

	var results []*InventoryValuationResponse
	db := config.GetDB()
	err := db.WithContext(ctx).Raw(sql, map[string]interface{}{
		"companyId": companyId,
	}).Scan(&results).Error
	if err != nil {
		return nil, err
	}

	return results, nil
}
