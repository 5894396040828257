package handlers

import (
	"net/http"
	"strconv"

	"bitbucket.org/mmdatafocus/resto_backend/models"
	"github.com/gin-gonic/gin"
)

const catalogModule = "handlers"

func CreateProduct(c *gin.Context) {
	var input models.NewProduct
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	product, err := models.CreateProduct(c.Request.Context(), &input)
	if err != nil {
		respondError(c, catalogModule, "CreateProduct", err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

func GetProduct(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}
	product, err := models.GetProduct(c.Request.Context(), id)
	if err != nil {
		respondError(c, catalogModule, "GetProduct", err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func ListProducts(c *gin.Context) {
	products, err := models.ListProducts(c.Request.Context())
	if err != nil {
		respondError(c, catalogModule, "ListProducts", err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func CreateModifier(c *gin.Context) {
	var input models.NewModifier
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	modifier, err := models.CreateModifier(c.Request.Context(), &input)
	if err != nil {
		respondError(c, catalogModule, "CreateModifier", err)
		return
	}
	c.JSON(http.StatusCreated, modifier)
}

func ListModifiers(c *gin.Context) {
	modifiers, err := models.ListModifiers(c.Request.Context())
	if err != nil {
		respondError(c, catalogModule, "ListModifiers", err)
		return
	}
	c.JSON(http.StatusOK, modifiers)
}

func UpsertRecipe(c *gin.Context) {
	var input models.NewRecipe
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	recipe, err := models.UpsertRecipe(c.Request.Context(), &input)
	if err != nil {
		respondError(c, catalogModule, "UpsertRecipe", err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func GetProductRecipe(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}
	recipe, err := models.GetRecipeByProduct(c.Request.Context(), id)
	if err != nil {
		respondError(c, catalogModule, "GetProductRecipe", err)
		return
	}
	if recipe == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "product has no recipe"})
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func GetProductCosting(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}
	costing, err := models.GetProductCosting(c.Request.Context(), id)
	if err != nil {
		respondError(c, catalogModule, "GetProductCosting", err)
		return
	}
	c.JSON(http.StatusOK, costing)
}

func ListProductCostings(c *gin.Context) {
	costings, err := models.ListProductCostings(c.Request.Context())
	if err != nil {
		respondError(c, catalogModule, "ListProductCostings", err)
		return
	}
	c.JSON(http.StatusOK, costings)
}
