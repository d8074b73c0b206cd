package handlers

import (
	"net/http"

	"bitbucket.org/mmdatafocus/store_backend/models"
	"github.com/gin-gonic/gin"
)

func GetProducts(c *gin.Context) {
	products, err := models.GetProducts(c.Request.Context())
	if err != nil {
		serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func CreateProduct(c *gin.Context) {
	var input models.NewProduct
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	product, err := models.CreateProduct(c.Request.Context(), &input)
	if err != nil {
		badRequest(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

func UpdateProduct(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}

	var input models.UpdateProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	product, err := models.UpdateProduct(c.Request.Context(), id, &input)
	if err != nil {
		badRequest(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func SetProductArchived(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}

	var input archivedInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	product, err := models.SetProductArchived(c.Request.Context(), id, *input.Archived)
	if err != nil {
		notFound(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, product)
}
