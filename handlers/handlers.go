// Package handlers contains the gin HTTP handlers. They bind and validate
// request bodies, delegate to the models and workflow packages, and shape
// JSON responses. No business rules live here.
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"bitbucket.org/mmdatafocus/store_backend/utils"
	"github.com/gin-gonic/gin"
)

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

func notFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, gin.H{"error": message})
}

func serverError(c *gin.Context, err error) {
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

// workflowError maps a workflow failure with no saved record to a status:
// input rejections are 400, missing records 404, anything else 500.
func workflowError(c *gin.Context, err error) {
	switch {
	case utils.IsValidationError(err):
		badRequest(c, err)
	case errors.Is(err, utils.ErrorRecordNotFound):
		notFound(c, err.Error())
	default:
		serverError(c, err)
	}
}

func intParam(c *gin.Context, name string) (int, bool) {
	value, err := strconv.Atoi(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return value, true
}

type archivedInput struct {
	Archived *bool `json:"archived" binding:"required"`
}
