package handlers

import (
	"net/http"

	"bitbucket.org/mmdatafocus/store_backend/models"
	"github.com/gin-gonic/gin"
)

func GetDashboardMetrics(c *gin.Context) {
	metrics, err := models.GetDashboardMetrics(c.Request.Context())
	if err != nil {
		serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, metrics)
}
