package reports

import (
	"context"
	"errors"

	"bitbucket.org/mmdatafocus/resto_backend/config"
	"bitbucket.org/mmdatafocus/resto_backend/models"
	"bitbucket.org/mmdatafocus/resto_backend/utils"
	"github.com/shopspring/decimal"
)

type StockLedgerReportResponse struct {
	IngredientName   string          `json:"ingredientName"`
	IngredientType   string          `json:"ingredientType"`
	Direction        string          `json:"direction"`
	Qty              decimal.Decimal `json:"qty"`
	UnitCost         decimal.Decimal `json:"unitCost"`
	ResultingBalance decimal.Decimal `json:"resultingBalance"`
	ResultingWac     decimal.Decimal `json:"resultingWac"`
	Reason           string          `json:"reason"`
	ReferenceOrderId *int            `json:"referenceOrderId"`
	Supplier         string          `json:"supplier"`
	MovementDate     string          `json:"movementDate"`
}

// GetStockLedgerReport returns the movement trail oldest-first, optionally
// narrowed to one ingredient. Each row carries the resulting balance and WAC
// captured at posting time, so the report replays without recomputation.
func GetStockLedgerReport(ctx context.Context, ingredientId *int) ([]*StockLedgerReportResponse, error) {

	sqlT := `
SELECT
    i.name AS ingredient_name,
    i.type AS ingredient_type,
    sm.direction,
    sm.qty,
    sm.unit_cost,
    sm.resulting_balance,
    sm.resulting_wac,
    sm.reason,
    sm.reference_order_id,
    sm.supplier,
    DATE_FORMAT(sm.created_at, '%Y-%m-%d %H:%i:%s') AS movement_date
FROM stock_movements sm
JOIN ingredients i ON i.id = sm.ingredient_id AND i.company_id = sm.company_id
WHERE sm.company_id = @companyId
  {{- if .ingredientId }} AND sm.ingredient_id = @ingredientId {{- end }}
ORDER BY sm.id ASC;
`
	companyId, ok := utils.GetCompanyIdFromContext(ctx)
	if !ok || companyId == "" {
		return nil, errors.New("company id is required")
	}
	if !utils.HasPermission(ctx, models.PermissionViewStock) {
		return nil, &models.PermissionDeniedError{Code: models.PermissionViewStock}
	}

	if ingredientId != nil && *ingredientId > 0 {
		if err := utils.ValidateResourceId[models.Ingredient](ctx, companyId, *ingredientId); err != nil {
			return nil, errors.New("ingredient not found")
		}
	}

	sql, err := utils.ExecTemplate(sqlT, map[string]interface{}{
		"ingredientId": utils.DereferencePtr(ingredientId),
	})
	if err != nil {
		return nil, err
	}

	// only bind named params that survived the template, GORM errors on extras
	args := map[string]interface{}{
		"companyId": companyId,
	}
	if ingredientId != nil && *ingredientId != 0 {
		args["ingredientId"] = ingredientId
	}

	var results []*StockLedgerReportResponse
	db := config.GetDB()
	if err := db.WithContext(ctx).Raw(sql, args).Scan(&results).Error; err != nil {
		return nil, err
	}

	return results, nil
}
