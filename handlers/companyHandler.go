package handlers

import (
	"net/http"

	"bitbucket.org/mmdatafocus/resto_backend/models"
	"github.com/gin-gonic/gin"
)

const companyModule = "handlers"

func CreateCompany(c *gin.Context) {
	var input models.NewCompany
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	company, err := models.CreateCompany(c.Request.Context(), &input)
	if err != nil {
		respondError(c, companyModule, "CreateCompany", err)
		return
	}
	c.JSON(http.StatusCreated, company)
}

func CreateBranch(c *gin.Context) {
	var input models.NewBranch
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	branch, err := models.CreateBranch(c.Request.Context(), &input)
	if err != nil {
		respondError(c, companyModule, "CreateBranch", err)
		return
	}
	c.JSON(http.StatusCreated, branch)
}

func GetBranches(c *gin.Context) {
	branches, err := models.GetBranches(c.Request.Context())
	if err != nil {
		respondError(c, companyModule, "GetBranches", err)
		return
	}
	c.JSON(http.StatusOK, branches)
}
