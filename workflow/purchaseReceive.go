// Package workflow implements the multi-step business flows that span more
// than one ledger: purchase receiving and point-of-sale checkout. Each flow
// persists its primary record first and then propagates stock effects
// line by line, so a mid-flight failure leaves the record in place and the
// error reports which propagations were missed.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"bitbucket.org/mmdatafocus/store_backend/config"
	"bitbucket.org/mmdatafocus/store_backend/models"
	"bitbucket.org/mmdatafocus/store_backend/utils"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const moduleName = "purchaseReceive.go"

var tracer trace.Tracer = otel.Tracer("store-backend/workflow")

// LineAdjustment is the stock effect of one purchase line: the signed
// difference between what is now received and what was received before.
type LineAdjustment struct {
	ProductId   int
	ProductName string
	Diff        int
}

// ComputeReceiptAdjustments diffs a received submission against the
// previously persisted purchase. For each line the effective quantity is
// received ?? ordered; the previous effective quantity is the persisted
// line's received ?? 0, so re-submitting an unchanged receipt yields no
// adjustments. Lines whose diff is zero are dropped.
func ComputeReceiptAdjustments(previous *models.Purchase, details []models.NewPurchaseDetail) []LineAdjustment {
	var adjustments []LineAdjustment
	for _, line := range details {
		newQty := line.Qty
		if line.ReceivedQty != nil {
			newQty = *line.ReceivedQty
		}

		oldQty := 0
		if previous != nil {
			for i := range previous.Details {
				if previous.Details[i].ProductId == line.ProductId {
					if previous.Details[i].ReceivedQty != nil {
						oldQty = *previous.Details[i].ReceivedQty
					}
					break
				}
			}
		}

		if diff := newQty - oldQty; diff != 0 {
			adjustments = append(adjustments, LineAdjustment{
				ProductId:   line.ProductId,
				ProductName: line.Name,
				Diff:        diff,
			})
		}
	}
	return adjustments
}

// propagateAdjustments applies each adjustment as an atomic stock increment
// plus one movement journal entry. Lines run concurrently; failures are
// collected, not fatal to the others.
func propagateAdjustments(ctx context.Context, functionName string, adjustments []LineAdjustment) error {
	logger := config.GetLogger()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		failures []string
	)
	for _, adj := range adjustments {
		wg.Add(1)
		go func(adj LineAdjustment) {
			defer wg.Done()

			if err := models.ApplyStockDelta(ctx, adj.ProductId, adj.ProductName, adj.Diff); err != nil {
				config.LogError(logger, moduleName, functionName, "ApplyStockDelta", adj, err)
				mu.Lock()
				failures = append(failures, fmt.Sprintf("%s: %v", adj.ProductName, err))
				mu.Unlock()
				return
			}
			if _, err := models.AppendStockHistory(ctx, &models.NewStockHistory{
				ProductName:     adj.ProductName,
				StockAdjustment: adj.Diff,
			}); err != nil {
				config.LogError(logger, moduleName, functionName, "AppendStockHistory", adj, err)
				mu.Lock()
				failures = append(failures, fmt.Sprintf("%s: %v", adj.ProductName, err))
				mu.Unlock()
			}
		}(adj)
	}
	wg.Wait()

	if len(failures) > 0 {
		return errors.New("stock update failed for " + strings.Join(failures, "; "))
	}
	return nil
}

// SubmitPurchase creates or updates a purchase order. When the submitted
// status is Received, the received quantities are propagated to product
// stock and the movement journal. Propagation is best effort: the purchase
// itself is never rolled back, and a partial propagation failure is
// returned alongside the saved purchase.
func SubmitPurchase(ctx context.Context, input *models.NewPurchase) (*models.Purchase, error) {
	ctx, span := tracer.Start(ctx, "SubmitPurchase")
	defer span.End()

	input.Normalize()

	var previous *models.Purchase
	if input.ID != "" {
		var err error
		previous, err = models.GetPurchase(ctx, input.ID)
		if err != nil {
			return nil, err
		}
	}

	if err := input.Validate(previous); err != nil {
		return nil, err
	}

	var (
		purchase *models.Purchase
		err      error
	)
	if previous == nil {
		purchase, err = models.CreatePurchase(ctx, input)
	} else {
		purchase, err = models.UpdatePurchase(ctx, previous, input)
	}
	if err != nil {
		return nil, err
	}

	if input.Status != models.PurchaseStatusReceived {
		return purchase, nil
	}

	adjustments := ComputeReceiptAdjustments(previous, input.Details)
	if len(adjustments) == 0 {
		return purchase, nil
	}

	propErr := utils.StoreLock(ctx, "stockLock", moduleName, "SubmitPurchase", func() error {
		return propagateAdjustments(ctx, "SubmitPurchase", adjustments)
	})
	return purchase, propErr
}
