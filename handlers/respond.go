package handlers

import (
	"errors"
	"net/http"

	"bitbucket.org/mmdatafocus/resto_backend/config"
	"bitbucket.org/mmdatafocus/resto_backend/models"
	"bitbucket.org/mmdatafocus/resto_backend/utils"
	"github.com/gin-gonic/gin"
)

// respondBindError surfaces binding tag failures per field.
func respondBindError(c *gin.Context, err error) {
	if fields := utils.ProcessValidationErrors(err); fields != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": fields})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

// respondError maps domain errors onto HTTP statuses. Insufficient stock and
// state conflicts are 409: the request was well-formed but lost against the
// current state. The stock payload carries the shortfall detail the POS shows
// to the waiter, including the remediation hint by ingredient type.
func respondError(c *gin.Context, moduleName string, funcName string, err error) {
	var insufficientStock *models.InsufficientStockError
	if errors.As(err, &insufficientStock) {
		payload := gin.H{
			"error":           "insufficient stock",
			"detail_message":  insufficientStock.Error(),
			"ingredient_name": insufficientStock.IngredientName,
			"ingredient_type": insufficientStock.IngredientType,
			"available":       insufficientStock.Available,
			"requested":       insufficientStock.Requested,
		}
		if hint := insufficientStock.RemediationHint(); hint != "" {
			payload["remediation"] = hint
		}
		c.JSON(http.StatusConflict, payload)
		return
	}

	var stateConflict *models.StateConflictError
	if errors.As(err, &stateConflict) {
		c.JSON(http.StatusConflict, gin.H{"error": stateConflict.Error()})
		return
	}

	var permissionDenied *models.PermissionDeniedError
	if errors.As(err, &permissionDenied) {
		c.JSON(http.StatusForbidden, gin.H{"error": permissionDenied.Error()})
		return
	}

	var validation *models.ValidationError
	if errors.As(err, &validation) {
		c.JSON(http.StatusBadRequest, gin.H{"error": validation.Error()})
		return
	}

	if errors.Is(err, utils.ErrorRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
		return
	}

	logger := config.GetLogger()
	correlationId, _ := utils.GetCorrelationIdFromContext(c.Request.Context())
	config.LogError(logger, moduleName, funcName, correlationId, c.Request.URL.Path, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}
