package handlers

import (
	"net/http"

	"bitbucket.org/mmdatafocus/store_backend/models"
	"bitbucket.org/mmdatafocus/store_backend/workflow"
	"github.com/gin-gonic/gin"
)

func GetPurchases(c *gin.Context) {
	purchases, err := models.GetPurchases(c.Request.Context())
	if err != nil {
		serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, purchases)
}

func CreatePurchase(c *gin.Context) {
	var input models.NewPurchase
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}
	input.ID = ""

	purchase, err := workflow.SubmitPurchase(c.Request.Context(), &input)
	if err != nil {
		// the purchase was saved but some stock propagations failed
		if purchase != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"purchase": purchase, "error": err.Error()})
			return
		}
		workflowError(c, err)
		return
	}
	c.JSON(http.StatusCreated, purchase)
}

func UpdatePurchase(c *gin.Context) {
	var input models.NewPurchase
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}
	input.ID = c.Param("id")

	purchase, err := workflow.SubmitPurchase(c.Request.Context(), &input)
	if err != nil {
		if purchase != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"purchase": purchase, "error": err.Error()})
			return
		}
		workflowError(c, err)
		return
	}
	c.JSON(http.StatusOK, purchase)
}

func SetPurchaseArchived(c *gin.Context) {
	var input archivedInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	purchase, err := models.SetPurchaseArchived(c.Request.Context(), c.Param("id"), *input.Archived)
	if err != nil {
		workflowError(c, err)
		return
	}
	c.JSON(http.StatusOK, purchase)
}
