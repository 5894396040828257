package reports

import (
	"context"
	"fmt"

	"bitbucket.org/mmdatafocus/resto_backend/utils"
	"github.com/xuri/excelize/v2"
)

// ExportStockLedgerExcel renders the stock ledger report as an xlsx workbook.
func ExportStockLedgerExcel(ctx context.Context, ingredientId *int) (*excelize.File, error) {
	rows, err := GetStockLedgerReport(ctx, ingredientId)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	sheet := "Stock Ledger"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"Ingredient", "Type", "Direction", "Qty", "Unit Cost", "Balance", "WAC", "Reason", "Order Ref", "Supplier", "Date"}
	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, err
		}
	}

	for i, row := range rows {
		rowNo := i + 2
		values := []interface{}{
			row.IngredientName,
			row.IngredientType,
			row.Direction,
			row.Qty.String(),
			row.UnitCost.String(),
			row.ResultingBalance.String(),
			row.ResultingWac.String(),
			row.Reason,
			utils.DereferencePtr(row.ReferenceOrderId),
			row.Supplier,
			row.MovementDate,
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, rowNo)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, err
			}
		}
	}

	return f, nil
}

// StockLedgerExportFilename builds the attachment name for the download.
func StockLedgerExportFilename(ingredientId *int) string {
	if ingredientId != nil && *ingredientId > 0 {
		return fmt.Sprintf("stock-ledger-%d.xlsx", *ingredientId)
	}
	return "stock-ledger.xlsx"
}
