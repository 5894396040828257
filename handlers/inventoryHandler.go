package handlers

import (
	"net/http"
	"strconv"

	"bitbucket.org/mmdatafocus/resto_backend/models"
	"github.com/gin-gonic/gin"
)

const inventoryModule = "handlers"

func ingredientIdParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ingredient id"})
		return 0, false
	}
	return id, true
}

func CreateIngredient(c *gin.Context) {
	var input models.NewIngredient
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	ingredient, err := models.CreateIngredient(c.Request.Context(), &input)
	if err != nil {
		respondError(c, inventoryModule, "CreateIngredient", err)
		return
	}
	c.JSON(http.StatusCreated, ingredient)
}

func UpdateIngredient(c *gin.Context) {
	id, ok := ingredientIdParam(c)
	if !ok {
		return
	}
	var input models.NewIngredient
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	ingredient, err := models.UpdateIngredient(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, inventoryModule, "UpdateIngredient", err)
		return
	}
	c.JSON(http.StatusOK, ingredient)
}

func GetIngredient(c *gin.Context) {
	id, ok := ingredientIdParam(c)
	if !ok {
		return
	}
	ingredient, err := models.GetIngredient(c.Request.Context(), id)
	if err != nil {
		respondError(c, inventoryModule, "GetIngredient", err)
		return
	}
	c.JSON(http.StatusOK, ingredient)
}

func ListIngredients(c *gin.Context) {
	ingredients, err := models.ListIngredients(c.Request.Context())
	if err != nil {
		respondError(c, inventoryModule, "ListIngredients", err)
		return
	}
	c.JSON(http.StatusOK, ingredients)
}

func GetIngredientStock(c *gin.Context) {
	id, ok := ingredientIdParam(c)
	if !ok {
		return
	}
	stock, err := models.GetIngredientStock(c.Request.Context(), id)
	if err != nil {
		respondError(c, inventoryModule, "GetIngredientStock", err)
		return
	}
	c.JSON(http.StatusOK, stock)
}

func PostPurchase(c *gin.Context) {
	var input models.NewPurchase
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	movement, err := models.PostPurchase(c.Request.Context(), &input)
	if err != nil {
		respondError(c, inventoryModule, "PostPurchase", err)
		return
	}
	c.JSON(http.StatusCreated, movement)
}

func ListStockMovements(c *gin.Context) {
	id, ok := ingredientIdParam(c)
	if !ok {
		return
	}
	movements, err := models.ListStockMovements(c.Request.Context(), id)
	if err != nil {
		respondError(c, inventoryModule, "ListStockMovements", err)
		return
	}
	c.JSON(http.StatusOK, movements)
}

func ListPurchaseBatches(c *gin.Context) {
	id, ok := ingredientIdParam(c)
	if !ok {
		return
	}
	batches, err := models.ListPurchaseBatches(c.Request.Context(), id)
	if err != nil {
		respondError(c, inventoryModule, "ListPurchaseBatches", err)
		return
	}
	c.JSON(http.StatusOK, batches)
}
