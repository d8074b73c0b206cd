package handlers

import (
	"net/http"

	"bitbucket.org/mmdatafocus/store_backend/models"
	"github.com/gin-gonic/gin"
)

func GetSuppliers(c *gin.Context) {
	suppliers, err := models.GetSuppliers(c.Request.Context())
	if err != nil {
		serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, suppliers)
}

func CreateSupplier(c *gin.Context) {
	var input models.NewSupplier
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	supplier, err := models.CreateSupplier(c.Request.Context(), &input)
	if err != nil {
		badRequest(c, err)
		return
	}
	c.JSON(http.StatusCreated, supplier)
}

func UpdateSupplier(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}

	var input models.UpdateSupplierInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	supplier, err := models.UpdateSupplier(c.Request.Context(), id, &input)
	if err != nil {
		badRequest(c, err)
		return
	}
	c.JSON(http.StatusOK, supplier)
}

func SetSupplierArchived(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}

	var input archivedInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	supplier, err := models.SetSupplierArchived(c.Request.Context(), id, *input.Archived)
	if err != nil {
		notFound(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, supplier)
}
