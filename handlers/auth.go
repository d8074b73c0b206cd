package handlers

import (
	"net/http"

	"bitbucket.org/mmdatafocus/store_backend/models"
	"bitbucket.org/mmdatafocus/store_backend/utils"
	"github.com/gin-gonic/gin"
)

func Signin(c *gin.Context) {
	var input models.SigninInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	info, err := models.Signin(c.Request.Context(), &input)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, info)
}

func Signout(c *gin.Context) {
	if err := models.Signout(c.Request.Context()); err != nil {
		serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "signed out"})
}

func GetProfile(c *gin.Context) {
	ctx := c.Request.Context()
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not signed in"})
		return
	}

	user, err := models.GetUserByID(ctx, userId)
	if err != nil {
		notFound(c, "user not found")
		return
	}
	c.JSON(http.StatusOK, user)
}

func UpdateProfile(c *gin.Context) {
	ctx := c.Request.Context()
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not signed in"})
		return
	}

	var input models.UpdateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	user, err := models.UpdateProfile(ctx, userId, &input)
	if err != nil {
		badRequest(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func ChangePassword(c *gin.Context) {
	ctx := c.Request.Context()
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not signed in"})
		return
	}

	var input models.ChangePasswordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	if err := models.ChangePassword(ctx, userId, &input); err != nil {
		badRequest(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "password updated"})
}
