package handlers

import (
	"fmt"
	"net/http"
	"time"

	"bitbucket.org/mmdatafocus/store_backend/models"
	"bitbucket.org/mmdatafocus/store_backend/workflow"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

func GetSales(c *gin.Context) {
	sales, err := models.GetSales(c.Request.Context())
	if err != nil {
		serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, sales)
}

func CheckoutSale(c *gin.Context) {
	var input models.NewSale
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	sale, err := workflow.CheckoutSale(c.Request.Context(), &input)
	if err != nil {
		// the sale was saved but some stock propagations failed
		if sale != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"sale": sale, "error": err.Error()})
			return
		}
		workflowError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sale)
}

func SetSaleArchived(c *gin.Context) {
	var input archivedInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	sale, err := models.SetSaleArchived(c.Request.Context(), c.Param("id"), *input.Archived)
	if err != nil {
		workflowError(c, err)
		return
	}
	c.JSON(http.StatusOK, sale)
}

// ExportSales streams the sales report as an xlsx workbook, one row per
// line item.
func ExportSales(c *gin.Context) {
	sales, err := models.GetSales(c.Request.Context())
	if err != nil {
		serverError(c, err)
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Sales"
	index, err := f.NewSheet(sheet)
	if err != nil {
		serverError(c, err)
		return
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"Date", "Customer", "Product", "Price", "Quantity", "Line Total", "Sale Total"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, sale := range sales {
		for _, line := range sale.Details {
			lineTotal := line.ProductPrice.Mul(decimal.NewFromInt(int64(line.Qty)))
			values := []interface{}{
				sale.Date.Format("2006-01-02 15:04"),
				sale.Customer,
				line.ProductName,
				line.ProductPrice.StringFixed(2),
				line.Qty,
				lineTotal.StringFixed(2),
				sale.Amount.StringFixed(2),
			}
			for i, v := range values {
				cell, _ := excelize.CoordinatesToCellName(i+1, row)
				f.SetCellValue(sheet, cell, v)
			}
			row++
		}
	}

	filename := fmt.Sprintf("sales-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := f.Write(c.Writer); err != nil {
		serverError(c, err)
	}
}
