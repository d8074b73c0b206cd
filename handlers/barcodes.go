package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"bitbucket.org/mmdatafocus/store_backend/models"
	"bitbucket.org/mmdatafocus/store_backend/utils"
	"github.com/gin-gonic/gin"
)

const maxBarcodeCopies = 100

func queryInt(c *gin.Context, name string, fallback int) int {
	value, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return fallback
	}
	return value
}

// GetProductBarcode renders the product's id as a Code 128 PNG.
func GetProductBarcode(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}

	product, err := models.GetProduct(c.Request.Context(), id)
	if err != nil {
		notFound(c, "product not found")
		return
	}

	img, err := utils.BarcodePNG(strconv.Itoa(product.ID), queryInt(c, "width", 0), queryInt(c, "height", 0))
	if err != nil {
		workflowError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", img)
}

type barcodeSheetInput struct {
	ProductIds []int `json:"product_ids" binding:"required,min=1"`
	Copies     int   `json:"copies"`
	Columns    int   `json:"columns"`
	CellWidth  int   `json:"cell_width"`
	CellHeight int   `json:"cell_height"`
}

// CreateBarcodeSheet renders a printable label sheet for the given products,
// each repeated `copies` times.
func CreateBarcodeSheet(c *gin.Context) {
	var input barcodeSheetInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}
	if input.Copies <= 0 {
		input.Copies = 1
	}
	if input.Copies > maxBarcodeCopies {
		badRequest(c, utils.NewValidationError(fmt.Sprintf("copies must not exceed %d", maxBarcodeCopies)))
		return
	}

	var values []string
	for _, id := range input.ProductIds {
		product, err := models.GetProduct(c.Request.Context(), id)
		if err != nil {
			notFound(c, "product "+strconv.Itoa(id)+" not found")
			return
		}
		for i := 0; i < input.Copies; i++ {
			values = append(values, strconv.Itoa(product.ID))
		}
	}

	img, err := utils.BarcodeSheetPNG(values, input.Columns, input.CellWidth, input.CellHeight)
	if err != nil {
		workflowError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", img)
}
