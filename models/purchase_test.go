package models_test

import (
	"testing"

	"bitbucket.org/mmdatafocus/store_backend/models"
	"bitbucket.org/mmdatafocus/store_backend/utils"
	"github.com/shopspring/decimal"
)

// NOTE: These tests are intentionally DB-free. They validate the submission
// rules and amount arithmetic as pure functions; end-to-end stock propagation
// is covered by the docker-gated regression tests in workflow/.

func TestClampReceivedQty(t *testing.T) {
	cases := []struct {
		name     string
		qty      int
		received *int
		want     *int
	}{
		{"nil passes through", 10, nil, nil},
		{"negative clamps to zero", 10, utils.NewInt(-5), utils.NewInt(0)},
		{"over-receipt clamps to ordered", 10, utils.NewInt(15), utils.NewInt(10)},
		{"in range untouched", 10, utils.NewInt(7), utils.NewInt(7)},
		{"exact boundary", 10, utils.NewInt(10), utils.NewInt(10)},
		{"zero boundary", 10, utils.NewInt(0), utils.NewInt(0)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := models.ClampReceivedQty(tc.qty, tc.received)
			if (got == nil) != (tc.want == nil) {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
			if got != nil && *got != *tc.want {
				t.Fatalf("got %d, want %d", *got, *tc.want)
			}
		})
	}
}

func TestPurchaseValidateNewSubmission(t *testing.T) {
	base := func() *models.NewPurchase {
		return &models.NewPurchase{
			Supplier: "Acme Trading",
			Status:   models.PurchaseStatusPending,
			Details: []models.NewPurchaseDetail{
				{ProductId: 80000001, Name: "Frame A", Qty: 5, Price: decimal.NewFromInt(100)},
			},
		}
	}

	if err := base().Validate(nil); err != nil {
		t.Fatalf("valid submission rejected: %v", err)
	}

	input := base()
	input.Supplier = ""
	if err := input.Validate(nil); err == nil {
		t.Fatal("expected error for missing supplier")
	}

	input = base()
	input.Details = nil
	if err := input.Validate(nil); err == nil {
		t.Fatal("expected error for empty line items")
	}

	input = base()
	input.Details[0].Name = ""
	if err := input.Validate(nil); err == nil {
		t.Fatal("expected error for missing product name")
	}

	input = base()
	input.Details[0].Qty = 0
	if err := input.Validate(nil); err == nil {
		t.Fatal("expected error for zero quantity")
	}

	input = base()
	input.Status = "Shipped"
	if err := input.Validate(nil); err == nil {
		t.Fatal("expected error for unknown status")
	}
}

func TestPurchaseValidateReceivedRequiresPriceAndReceipt(t *testing.T) {
	input := &models.NewPurchase{
		Supplier: "Acme Trading",
		Status:   models.PurchaseStatusReceived,
		Details: []models.NewPurchaseDetail{
			{ProductId: 80000001, Name: "Frame A", Qty: 5, Price: decimal.NewFromInt(100)},
		},
	}
	if err := input.Validate(nil); err == nil {
		t.Fatal("expected error: received submission without received quantity")
	}

	input.Details[0].ReceivedQty = utils.NewInt(5)
	if err := input.Validate(nil); err != nil {
		t.Fatalf("valid received submission rejected: %v", err)
	}

	input.Details[0].Price = decimal.NewFromInt(-1)
	if err := input.Validate(nil); err == nil {
		t.Fatal("expected error for negative price on received submission")
	}
}

func TestPurchaseValidateCompletedIsFrozen(t *testing.T) {
	previous := &models.Purchase{
		ID:       "p-1",
		Supplier: "Acme Trading",
		Status:   models.PurchaseStatusReceived,
		Details: []models.PurchaseDetail{
			{ProductId: 80000001, Name: "Frame A", Qty: 5, Price: decimal.NewFromInt(100), ReceivedQty: utils.NewInt(3)},
		},
	}

	edit := func() *models.NewPurchase {
		return &models.NewPurchase{
			ID:       "p-1",
			Supplier: "Acme Trading",
			Status:   models.PurchaseStatusReceived,
			Details: []models.NewPurchaseDetail{
				{ProductId: 80000001, Name: "Frame A", Qty: 5, Price: decimal.NewFromInt(120), ReceivedQty: utils.NewInt(5)},
			},
		}
	}

	// price and received quantity stay editable
	if err := edit().Validate(previous); err != nil {
		t.Fatalf("price/received edit rejected: %v", err)
	}

	input := edit()
	input.Status = models.PurchaseStatusPending
	if err := input.Validate(previous); err == nil {
		t.Fatal("expected error: completed purchase cannot leave Received")
	}

	input = edit()
	input.Details[0].Qty = 9
	if err := input.Validate(previous); err == nil {
		t.Fatal("expected error: ordered quantity frozen after receipt")
	}

	input = edit()
	input.Details[0].Name = "Frame B"
	if err := input.Validate(previous); err == nil {
		t.Fatal("expected error: product name frozen after receipt")
	}

	input = edit()
	input.Details = append(input.Details, models.NewPurchaseDetail{
		ProductId: 80000002, Name: "Frame B", Qty: 2, Price: decimal.NewFromInt(50), ReceivedQty: utils.NewInt(2),
	})
	if err := input.Validate(previous); err == nil {
		t.Fatal("expected error: line items frozen after receipt")
	}

	input = edit()
	input.Details[0].Qty = 9
	if err := input.Validate(previous); !utils.IsValidationError(err) {
		t.Fatalf("frozen-line rejection should be a validation error, got %v", err)
	}
}

func TestPurchaseValidateCompletedRejectsDuplicateLines(t *testing.T) {
	previous := &models.Purchase{
		ID:       "p-1",
		Supplier: "Acme Trading",
		Status:   models.PurchaseStatusReceived,
		Details: []models.PurchaseDetail{
			{ProductId: 80000001, Name: "Frame A", Qty: 5, Price: decimal.NewFromInt(100), ReceivedQty: utils.NewInt(3)},
			{ProductId: 80000002, Name: "Frame B", Qty: 2, Price: decimal.NewFromInt(50), ReceivedQty: utils.NewInt(2)},
		},
	}

	// Same line count, but Frame A appears twice and Frame B is gone. Each
	// duplicate matches the frozen Frame A line, so a per-line lookup alone
	// would let this through and silently drop Frame B.
	input := &models.NewPurchase{
		ID:       "p-1",
		Supplier: "Acme Trading",
		Status:   models.PurchaseStatusReceived,
		Details: []models.NewPurchaseDetail{
			{ProductId: 80000001, Name: "Frame A", Qty: 5, Price: decimal.NewFromInt(100), ReceivedQty: utils.NewInt(5)},
			{ProductId: 80000001, Name: "Frame A", Qty: 5, Price: decimal.NewFromInt(100), ReceivedQty: utils.NewInt(5)},
		},
	}
	if err := input.Validate(previous); err == nil {
		t.Fatal("expected error: duplicated line must not replace another frozen line")
	} else if !utils.IsValidationError(err) {
		t.Fatalf("duplicate-line rejection should be a validation error, got %v", err)
	}
}

func TestPurchaseAmountUsesReceivedOverOrdered(t *testing.T) {
	input := &models.NewPurchase{
		Supplier: "Acme Trading",
		Status:   models.PurchaseStatusReceived,
		Details: []models.NewPurchaseDetail{
			// full receipt: 10 x 100
			{ProductId: 80000001, Name: "Frame A", Qty: 10, Price: decimal.NewFromInt(100), ReceivedQty: utils.NewInt(10)},
			// short receipt: 3 of 8 x 50
			{ProductId: 80000002, Name: "Frame B", Qty: 8, Price: decimal.NewFromInt(50), ReceivedQty: utils.NewInt(3)},
			// no receipt recorded yet: falls back to ordered, 2 x 25
			{ProductId: 80000003, Name: "Lens C", Qty: 2, Price: decimal.NewFromInt(25)},
		},
	}

	want := decimal.NewFromInt(10*100 + 3*50 + 2*25)
	if got := input.Amount(); !got.Equal(want) {
		t.Fatalf("amount = %s, want %s", got, want)
	}
}

func TestPurchaseAmountNormalizedOverReceipt(t *testing.T) {
	input := &models.NewPurchase{
		Supplier: "Acme Trading",
		Status:   models.PurchaseStatusReceived,
		Details: []models.NewPurchaseDetail{
			{ProductId: 80000001, Name: "Frame A", Qty: 5, Price: decimal.NewFromInt(100), ReceivedQty: utils.NewInt(12)},
		},
	}
	input.Normalize()

	if got := *input.Details[0].ReceivedQty; got != 5 {
		t.Fatalf("received quantity after normalize = %d, want 5", got)
	}
	want := decimal.NewFromInt(500)
	if got := input.Amount(); !got.Equal(want) {
		t.Fatalf("amount = %s, want %s", got, want)
	}
}

func TestSaleAmount(t *testing.T) {
	input := &models.NewSale{
		Customer: "Walk-in",
		Details: []models.NewSaleDetail{
			{ProductId: 80000001, ProductName: "Frame A", ProductPrice: decimal.NewFromFloat(19.99), Qty: 2},
			{ProductId: 80000002, ProductName: "Frame B", ProductPrice: decimal.NewFromInt(5), Qty: 3},
		},
	}
	want := decimal.NewFromFloat(19.99).Mul(decimal.NewFromInt(2)).Add(decimal.NewFromInt(15))
	if got := input.Amount(); !got.Equal(want) {
		t.Fatalf("amount = %s, want %s", got, want)
	}
}
