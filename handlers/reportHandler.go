package handlers

import (
	"net/http"
	"strconv"

	"bitbucket.org/mmdatafocus/resto_backend/models/reports"
	"github.com/gin-gonic/gin"
)

const reportModule = "handlers"

func ingredientIdQuery(c *gin.Context) (*int, bool) {
	raw := c.Query("ingredient_id")
	if raw == "" {
		return nil, true
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ingredient id"})
		return nil, false
	}
	return &id, true
}

func StockLedgerReport(c *gin.Context) {
	ingredientId, ok := ingredientIdQuery(c)
	if !ok {
		return
	}
	rows, err := reports.GetStockLedgerReport(c.Request.Context(), ingredientId)
	if err != nil {
		respondError(c, reportModule, "StockLedgerReport", err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func InventoryValuationReport(c *gin.Context) {
	rows, err := reports.GetInventoryValuationReport(c.Request.Context())
	if err != nil {
		respondError(c, reportModule, "InventoryValuationReport", err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func ExportStockLedger(c *gin.Context) {
	ingredientId, ok := ingredientIdQuery(c)
	if !ok {
		return
	}
	f, err := reports.ExportStockLedgerExcel(c.Request.Context(), ingredientId)
	if err != nil {
		respondError(c, reportModule, "ExportStockLedger", err)
		return
	}
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename="+reports.StockLedgerExportFilename(ingredientId))
	if err := f.Write(c.Writer); err != nil {
		respondError(c, reportModule, "ExportStockLedger", err)
	}
}
