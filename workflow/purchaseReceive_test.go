package workflow_test

import (
	"testing"

	"bitbucket.org/mmdatafocus/store_backend/models"
	"bitbucket.org/mmdatafocus/store_backend/utils"
	"bitbucket.org/mmdatafocus/store_backend/workflow"
)

func adjustmentFor(adjustments []workflow.LineAdjustment, productId int) *workflow.LineAdjustment {
	for i := range adjustments {
		if adjustments[i].ProductId == productId {
			return &adjustments[i]
		}
	}
	return nil
}

func TestComputeReceiptAdjustmentsFirstReceipt(t *testing.T) {
	details := []models.NewPurchaseDetail{
		{ProductId: 80000001, Name: "Frame A", Qty: 10, ReceivedQty: utils.NewInt(10)},
		{ProductId: 80000002, Name: "Frame B", Qty: 8, ReceivedQty: utils.NewInt(3)},
	}

	adjustments := workflow.ComputeReceiptAdjustments(nil, details)
	if len(adjustments) != 2 {
		t.Fatalf("got %d adjustments, want 2", len(adjustments))
	}
	if adj := adjustmentFor(adjustments, 80000001); adj == nil || adj.Diff != 10 {
		t.Fatalf("Frame A adjustment = %+v, want diff 10", adj)
	}
	if adj := adjustmentFor(adjustments, 80000002); adj == nil || adj.Diff != 3 {
		t.Fatalf("Frame B adjustment = %+v, want diff 3", adj)
	}
}

func TestComputeReceiptAdjustmentsNilReceivedFallsBackToOrdered(t *testing.T) {
	details := []models.NewPurchaseDetail{
		{ProductId: 80000001, Name: "Frame A", Qty: 6},
	}

	adjustments := workflow.ComputeReceiptAdjustments(nil, details)
	if len(adjustments) != 1 || adjustments[0].Diff != 6 {
		t.Fatalf("adjustments = %+v, want single diff 6", adjustments)
	}
}

func TestComputeReceiptAdjustmentsResubmitIsIdempotent(t *testing.T) {
	previous := &models.Purchase{
		Status: models.PurchaseStatusReceived,
		Details: []models.PurchaseDetail{
			{ProductId: 80000001, Name: "Frame A", Qty: 10, ReceivedQty: utils.NewInt(10)},
			{ProductId: 80000002, Name: "Frame B", Qty: 8, ReceivedQty: utils.NewInt(3)},
		},
	}
	details := []models.NewPurchaseDetail{
		{ProductId: 80000001, Name: "Frame A", Qty: 10, ReceivedQty: utils.NewInt(10)},
		{ProductId: 80000002, Name: "Frame B", Qty: 8, ReceivedQty: utils.NewInt(3)},
	}

	adjustments := workflow.ComputeReceiptAdjustments(previous, details)
	if len(adjustments) != 0 {
		t.Fatalf("resubmit produced %d adjustments, want none: %+v", len(adjustments), adjustments)
	}
}

func TestComputeReceiptAdjustmentsTopUpShortReceipt(t *testing.T) {
	previous := &models.Purchase{
		Status: models.PurchaseStatusReceived,
		Details: []models.PurchaseDetail{
			{ProductId: 80000001, Name: "Frame A", Qty: 10, ReceivedQty: utils.NewInt(4)},
		},
	}
	details := []models.NewPurchaseDetail{
		{ProductId: 80000001, Name: "Frame A", Qty: 10, ReceivedQty: utils.NewInt(9)},
	}

	adjustments := workflow.ComputeReceiptAdjustments(previous, details)
	if len(adjustments) != 1 || adjustments[0].Diff != 5 {
		t.Fatalf("adjustments = %+v, want single diff 5", adjustments)
	}
}

func TestComputeReceiptAdjustmentsCorrectionCanGoNegative(t *testing.T) {
	previous := &models.Purchase{
		Status: models.PurchaseStatusReceived,
		Details: []models.PurchaseDetail{
			{ProductId: 80000001, Name: "Frame A", Qty: 10, ReceivedQty: utils.NewInt(10)},
		},
	}
	details := []models.NewPurchaseDetail{
		{ProductId: 80000001, Name: "Frame A", Qty: 10, ReceivedQty: utils.NewInt(7)},
	}

	adjustments := workflow.ComputeReceiptAdjustments(previous, details)
	if len(adjustments) != 1 || adjustments[0].Diff != -3 {
		t.Fatalf("adjustments = %+v, want single diff -3", adjustments)
	}
}

func TestComputeReceiptAdjustmentsPreviousWithoutReceiptCountsAsZero(t *testing.T) {
	// a purchase edited while still Pending has lines with no receipt yet
	previous := &models.Purchase{
		Status: models.PurchaseStatusSent,
		Details: []models.PurchaseDetail{
			{ProductId: 80000001, Name: "Frame A", Qty: 10},
		},
	}
	details := []models.NewPurchaseDetail{
		{ProductId: 80000001, Name: "Frame A", Qty: 10, ReceivedQty: utils.NewInt(10)},
	}

	adjustments := workflow.ComputeReceiptAdjustments(previous, details)
	if len(adjustments) != 1 || adjustments[0].Diff != 10 {
		t.Fatalf("adjustments = %+v, want single diff 10", adjustments)
	}
}
