package models

import (
	"context"
	"fmt"
	"time"

	"bitbucket.org/mmdatafocus/store_backend/config"
	"bitbucket.org/mmdatafocus/store_backend/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PurchaseStatus string

const (
	PurchaseStatusPending  PurchaseStatus = "Pending"
	PurchaseStatusSent     PurchaseStatus = "Sent"
	PurchaseStatusReceived PurchaseStatus = "Received"
)

func (s PurchaseStatus) Valid() bool {
	switch s {
	case PurchaseStatusPending, PurchaseStatusSent, PurchaseStatusReceived:
		return true
	}
	return false
}

type Purchase struct {
	ID        string           `gorm:"primaryKey;size:36" json:"id"`
	Date      time.Time        `gorm:"not null;index" json:"date"`
	Supplier  string           `gorm:"size:100;not null" json:"supplier"`
	Status    PurchaseStatus   `gorm:"type:enum('Pending','Sent','Received');not null;default:'Pending'" json:"status"`
	Amount    decimal.Decimal  `gorm:"type:decimal(20,4);default:0" json:"amount"`
	Archived  *bool            `gorm:"not null;default:false" json:"archived"`
	Details   []PurchaseDetail `gorm:"foreignKey:PurchaseId" json:"products"`
	CreatedAt time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
}

// PurchaseDetail is a line item embedded in a purchase; it has no lifecycle
// of its own.
type PurchaseDetail struct {
	ID          int             `gorm:"primary_key" json:"-"`
	PurchaseId  string          `gorm:"index;size:36;not null" json:"-"`
	ProductId   int             `gorm:"index" json:"product_id"`
	Name        string          `gorm:"size:100;not null" json:"name"`
	Qty         int             `gorm:"not null" json:"quantity"`
	Price       decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"price"`
	ReceivedQty *int            `gorm:"default:null" json:"received_quantity"`
}

type NewPurchase struct {
	ID       string              `json:"id"`
	Supplier string              `json:"supplier"`
	Status   PurchaseStatus      `json:"status" binding:"required,purchase_status"`
	Details  []NewPurchaseDetail `json:"products"`
}

type NewPurchaseDetail struct {
	ProductId   int             `json:"product_id"`
	Name        string          `json:"name"`
	Qty         int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	ReceivedQty *int            `json:"received_quantity"`
}

// ClampReceivedQty forces a received quantity into [0, qty]. Applied on every
// edit of a line, not only at submit, so an out-of-range value can never be
// persisted.
func ClampReceivedQty(qty int, received *int) *int {
	if received == nil {
		return nil
	}
	v := *received
	if v < 0 {
		v = 0
	}
	if v > qty {
		v = qty
	}
	return &v
}

// Normalize clamps every line's received quantity against its ordered
// quantity.
func (input *NewPurchase) Normalize() {
	for i := range input.Details {
		input.Details[i].ReceivedQty = ClampReceivedQty(input.Details[i].Qty, input.Details[i].ReceivedQty)
	}
}

// previousLine finds the persisted line for a product id, nil when the line
// is new.
func previousLine(previous *Purchase, productId int) *PurchaseDetail {
	if previous == nil {
		return nil
	}
	for i := range previous.Details {
		if previous.Details[i].ProductId == productId {
			return &previous.Details[i]
		}
	}
	return nil
}

// Validate checks a submission against its previously persisted state.
// It is pure: no reads, no writes, so a failed submission leaves nothing
// behind.
func (input *NewPurchase) Validate(previous *Purchase) error {
	if !input.Status.Valid() {
		return utils.NewValidationError("invalid purchase status")
	}

	alreadyReceived := previous != nil && previous.Status == PurchaseStatusReceived

	if alreadyReceived && config.StrictReceiptImmutability() {
		return utils.NewValidationError("cannot modify a completed purchase")
	}

	if !alreadyReceived && input.Supplier == "" {
		return utils.NewValidationError("supplier is required")
	}
	if len(input.Details) == 0 {
		return utils.NewValidationError("please add at least one product")
	}

	if alreadyReceived {
		// Once received, quantity, product id and name are frozen; only price
		// and received quantity may still change, and only while the status
		// stays Received.
		if input.Status != PurchaseStatusReceived {
			return utils.NewValidationError("cannot modify a completed purchase")
		}
		if len(input.Details) != len(previous.Details) {
			return utils.NewValidationError("cannot modify a completed purchase")
		}
		// The input lines must consume the previous line set exactly, one
		// input line per previous line. Counting per product id rejects a
		// duplicated id sneaking in at the expense of another frozen line.
		remaining := make(map[int]int, len(previous.Details))
		for i := range previous.Details {
			remaining[previous.Details[i].ProductId]++
		}
		for _, line := range input.Details {
			if remaining[line.ProductId] == 0 {
				return utils.NewValidationError("cannot modify a completed purchase")
			}
			remaining[line.ProductId]--
			old := previousLine(previous, line.ProductId)
			if old == nil || old.Name != line.Name || old.Qty != line.Qty {
				return utils.NewValidationError("cannot modify a completed purchase")
			}
		}
	}

	for _, line := range input.Details {
		if !alreadyReceived {
			if line.Name == "" {
				return utils.NewValidationError("product name is required")
			}
			if line.Qty <= 0 {
				return utils.NewValidationError(fmt.Sprintf("quantity for %s must be greater than 0", line.Name))
			}
		}
		if input.Status == PurchaseStatusReceived {
			if line.Price.IsNegative() {
				return utils.NewValidationError(fmt.Sprintf("price for %s is required", line.Name))
			}
			if line.ReceivedQty == nil || *line.ReceivedQty < 0 {
				return utils.NewValidationError(fmt.Sprintf("received quantity for %s is required", line.Name))
			}
		}
	}

	return nil
}

// Amount recomputes the purchase total from the submitted lines:
// sum of price * (received ?? ordered).
func (input *NewPurchase) Amount() decimal.Decimal {
	total := decimal.Zero
	for _, line := range input.Details {
		qty := line.Qty
		if line.ReceivedQty != nil {
			qty = *line.ReceivedQty
		}
		total = total.Add(line.Price.Mul(decimal.NewFromInt(int64(qty))))
	}
	return total
}

func (input *NewPurchase) details() []PurchaseDetail {
	details := make([]PurchaseDetail, 0, len(input.Details))
	for _, line := range input.Details {
		details = append(details, PurchaseDetail{
			ProductId:   line.ProductId,
			Name:        line.Name,
			Qty:         line.Qty,
			Price:       line.Price,
			ReceivedQty: line.ReceivedQty,
		})
	}
	return details
}

// CreatePurchase persists a validated submission as a new purchase with a
// generated id and date = now. Callers go through workflow.SubmitPurchase.
func CreatePurchase(ctx context.Context, input *NewPurchase) (*Purchase, error) {
	db := config.GetDB()

	purchase := Purchase{
		ID:       uuid.New().String(),
		Date:     time.Now(),
		Supplier: input.Supplier,
		Status:   input.Status,
		Amount:   input.Amount(),
		Archived: utils.NewFalse(),
		Details:  input.details(),
	}

	if err := db.WithContext(ctx).Create(&purchase).Error; err != nil {
		return nil, err
	}
	if err := utils.InvalidateList[Purchase](); err != nil {
		config.LogError(config.GetLogger(), "purchase.go", "CreatePurchase", "InvalidateList", purchase.ID, err)
	}
	return &purchase, nil
}

// UpdatePurchase replaces a purchase's mutable fields and its line items.
// The original date is preserved on edit.
func UpdatePurchase(ctx context.Context, previous *Purchase, input *NewPurchase) (*Purchase, error) {
	db := config.GetDB()

	updated := Purchase{
		ID:       previous.ID,
		Date:     previous.Date,
		Supplier: input.Supplier,
		Status:   input.Status,
		Amount:   input.Amount(),
		Archived: previous.Archived,
		Details:  input.details(),
	}
	for i := range updated.Details {
		updated.Details[i].PurchaseId = previous.ID
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&Purchase{}).Where("id = ?", previous.ID).Updates(map[string]interface{}{
			"supplier": updated.Supplier,
			"status":   updated.Status,
			"amount":   updated.Amount,
		}).Error; err != nil {
			return err
		}
		// line items are owned rows: replace rather than diff
		if err := tx.Where("purchase_id = ?", previous.ID).Delete(&PurchaseDetail{}).Error; err != nil {
			return err
		}
		return tx.Create(&updated.Details).Error
	})
	if err != nil {
		return nil, err
	}

	if err := utils.InvalidateList[Purchase](); err != nil {
		config.LogError(config.GetLogger(), "purchase.go", "UpdatePurchase", "InvalidateList", previous.ID, err)
	}
	return GetPurchase(ctx, previous.ID)
}

func SetPurchaseArchived(ctx context.Context, id string, archived bool) (*Purchase, error) {
	db := config.GetDB()

	if err := utils.ValidateResourceId[Purchase](ctx, id); err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	if err := db.WithContext(ctx).Model(&Purchase{}).Where("id = ?", id).Update("archived", archived).Error; err != nil {
		return nil, err
	}
	if err := utils.InvalidateList[Purchase](); err != nil {
		config.LogError(config.GetLogger(), "purchase.go", "SetPurchaseArchived", "InvalidateList", id, err)
	}
	return GetPurchase(ctx, id)
}

func GetPurchase(ctx context.Context, id string) (*Purchase, error) {
	return utils.FetchModel[Purchase](ctx, id, "Details")
}

func GetPurchases(ctx context.Context) ([]*Purchase, error) {
	return utils.ListModels[Purchase](ctx, "Details")
}

// TotalPurchased sums every purchase amount, the dashboard figure.
func TotalPurchased(ctx context.Context) (decimal.Decimal, error) {
	db := config.GetDB()
	var total decimal.NullDecimal
	err := db.WithContext(ctx).Model(&Purchase{}).Select("SUM(amount)").Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}
