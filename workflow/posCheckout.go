package workflow

import (
	"context"
	"errors"
	"fmt"

	"bitbucket.org/mmdatafocus/store_backend/config"
	"bitbucket.org/mmdatafocus/store_backend/models"
	"bitbucket.org/mmdatafocus/store_backend/utils"
)

const checkoutModule = "posCheckout.go"

// validateCart checks every cart line against current stock before anything
// is written. The check is advisory (stock can still change between check
// and decrement) but catches the common oversell at the counter.
func validateCart(ctx context.Context, input *models.NewSale) error {
	if input.Customer == "" {
		return utils.NewValidationError("customer name is required")
	}
	if len(input.Details) == 0 {
		return utils.NewValidationError("cart is empty")
	}
	for _, line := range input.Details {
		if line.Qty <= 0 {
			return utils.NewValidationError(fmt.Sprintf("quantity for %s must be greater than 0", line.ProductName))
		}
		stock, err := models.GetStockOf(ctx, line.ProductId)
		if err != nil {
			if errors.Is(err, utils.ErrorRecordNotFound) {
				return utils.NewValidationError(fmt.Sprintf("product %s not found", line.ProductName))
			}
			return err
		}
		if stock < line.Qty {
			return utils.NewValidationError(fmt.Sprintf("insufficient stock for %s (have %d, need %d)", line.ProductName, stock, line.Qty))
		}
	}
	return nil
}

// CheckoutSale records a point-of-sale transaction: the sale itself, a
// negative stock delta and a journal entry per cart line, and a
// notification. As with purchase receiving, propagation after the sale
// record is best effort and the sale is never rolled back.
func CheckoutSale(ctx context.Context, input *models.NewSale) (*models.Sale, error) {
	ctx, span := tracer.Start(ctx, "CheckoutSale")
	defer span.End()

	if err := validateCart(ctx, input); err != nil {
		return nil, err
	}

	sale, err := models.CreateSale(ctx, input)
	if err != nil {
		return nil, err
	}

	adjustments := make([]LineAdjustment, 0, len(input.Details))
	for _, line := range input.Details {
		adjustments = append(adjustments, LineAdjustment{
			ProductId:   line.ProductId,
			ProductName: line.ProductName,
			Diff:        -line.Qty,
		})
	}

	propErr := utils.StoreLock(ctx, "stockLock", checkoutModule, "CheckoutSale", func() error {
		return propagateAdjustments(ctx, "CheckoutSale", adjustments)
	})

	message := fmt.Sprintf("Sale of %s completed for %s", sale.Amount.StringFixed(2), sale.Customer)
	if _, err := models.CreateNotification(ctx, "Sale completed", message); err != nil {
		config.LogError(config.GetLogger(), checkoutModule, "CheckoutSale", "CreateNotification", sale.ID, err)
	}

	return sale, propErr
}
