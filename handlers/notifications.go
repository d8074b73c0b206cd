package handlers

import (
	"net/http"

	"bitbucket.org/mmdatafocus/store_backend/models"
	"github.com/gin-gonic/gin"
)

func GetNotifications(c *gin.Context) {
	notifications, err := models.GetNotifications(c.Request.Context())
	if err != nil {
		serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, notifications)
}

func MarkNotificationRead(c *gin.Context) {
	notification, err := models.MarkNotificationRead(c.Request.Context(), c.Param("id"))
	if err != nil {
		notFound(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, notification)
}

func DeleteNotification(c *gin.Context) {
	if err := models.DeleteNotification(c.Request.Context(), c.Param("id")); err != nil {
		notFound(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}
