package handlers

import (
	"net/http"
	"strconv"

	"bitbucket.org/mmdatafocus/resto_backend/models"
	"github.com/gin-gonic/gin"
)

const orderModule = "handlers"

func orderIdParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return 0, false
	}
	return id, true
}

func CreateOrder(c *gin.Context) {
	var input models.NewOrder
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	order, err := models.CreateOrder(c.Request.Context(), &input)
	if err != nil {
		respondError(c, orderModule, "CreateOrder", err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

func GetOrder(c *gin.Context) {
	id, ok := orderIdParam(c)
	if !ok {
		return
	}
	order, err := models.GetOrder(c.Request.Context(), id)
	if err != nil {
		respondError(c, orderModule, "GetOrder", err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func ListOrders(c *gin.Context) {
	orders, err := models.ListOrders(c.Request.Context())
	if err != nil {
		respondError(c, orderModule, "ListOrders", err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

type advanceOrderRequest struct {
	Status string `json:"status" binding:"required"`
}

func AdvanceOrder(c *gin.Context) {
	id, ok := orderIdParam(c)
	if !ok {
		return
	}
	var input advanceOrderRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	target, err := models.ParseOrderStatus(input.Status)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	order, err := models.AdvanceOrderStatus(c.Request.Context(), id, target)
	if err != nil {
		respondError(c, orderModule, "AdvanceOrder", err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func AddOrderItems(c *gin.Context) {
	id, ok := orderIdParam(c)
	if !ok {
		return
	}
	var input models.NewOrderItems
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	order, err := models.AddOrderItems(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, orderModule, "AddOrderItems", err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func RemoveOrderItem(c *gin.Context) {
	id, ok := orderIdParam(c)
	if !ok {
		return
	}
	itemId, err := strconv.Atoi(c.Param("itemId"))
	if err != nil || itemId <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order item id"})
		return
	}
	order, err := models.RemoveOrderItem(c.Request.Context(), id, itemId)
	if err != nil {
		respondError(c, orderModule, "RemoveOrderItem", err)
		return
	}
	c.JSON(http.StatusOK, order)
}

type cancellationRequest struct {
	Reason string `json:"reason" binding:"required"`
}

func RequestCancellation(c *gin.Context) {
	id, ok := orderIdParam(c)
	if !ok {
		return
	}
	var input cancellationRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	order, err := models.RequestOrderCancellation(c.Request.Context(), id, input.Reason)
	if err != nil {
		respondError(c, orderModule, "RequestCancellation", err)
		return
	}
	c.JSON(http.StatusOK, order)
}

type cancellationDecisionRequest struct {
	Decision string `json:"decision" binding:"required"`
}

func ResolveCancellation(c *gin.Context) {
	id, ok := orderIdParam(c)
	if !ok {
		return
	}
	var input cancellationDecisionRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	order, err := models.ResolveOrderCancellation(c.Request.Context(), id, models.CancellationDecision(input.Decision))
	if err != nil {
		respondError(c, orderModule, "ResolveCancellation", err)
		return
	}
	c.JSON(http.StatusOK, order)
}
