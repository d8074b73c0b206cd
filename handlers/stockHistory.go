package handlers

import (
	"net/http"

	"bitbucket.org/mmdatafocus/store_backend/models"
	"github.com/gin-gonic/gin"
)

func GetStockHistories(c *gin.Context) {
	entries, err := models.GetStockHistories(c.Request.Context())
	if err != nil {
		serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

func SetStockHistoryArchived(c *gin.Context) {
	var input archivedInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	entry, err := models.SetStockHistoryArchived(c.Request.Context(), c.Param("id"), *input.Archived)
	if err != nil {
		notFound(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, entry)
}
