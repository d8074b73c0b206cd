package models

import (
	"context"
	"time"

	"bitbucket.org/mmdatafocus/store_backend/config"
	"bitbucket.org/mmdatafocus/store_backend/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Sale struct {
	ID        string          `gorm:"primaryKey;size:36" json:"id"`
	Date      time.Time       `gorm:"not null;index" json:"date"`
	Customer  string          `gorm:"size:100;not null" json:"customer"`
	Amount    decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"amount"`
	Archived  *bool           `gorm:"not null;default:false" json:"archived"`
	Details   []SaleDetail    `gorm:"foreignKey:SaleId" json:"products"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type SaleDetail struct {
	ID           int             `gorm:"primary_key" json:"-"`
	SaleId       string          `gorm:"index;size:36;not null" json:"-"`
	ProductId    int             `gorm:"index" json:"product_id"`
	ProductName  string          `gorm:"size:100;not null" json:"product_name"`
	ProductPrice decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"product_price"`
	Qty          int             `gorm:"not null" json:"quantity"`
	ImgSrc       string          `gorm:"size:255" json:"img_src"`
}

type NewSale struct {
	Customer string          `json:"customer" binding:"required"`
	Details  []NewSaleDetail `json:"products" binding:"required,min=1,dive"`
}

type NewSaleDetail struct {
	ProductId    int             `json:"product_id" binding:"required"`
	ProductName  string          `json:"product_name" binding:"required"`
	ProductPrice decimal.Decimal `json:"product_price"`
	Qty          int             `json:"quantity" binding:"required,gt=0"`
	ImgSrc       string          `json:"img_src"`
}

// Amount is the cart total: sum of price * quantity across lines.
func (input *NewSale) Amount() decimal.Decimal {
	total := decimal.Zero
	for _, line := range input.Details {
		total = total.Add(line.ProductPrice.Mul(decimal.NewFromInt(int64(line.Qty))))
	}
	return total
}

// CreateSale persists the sale record only. Stock deltas and history entries
// are the checkout workflow's job.
func CreateSale(ctx context.Context, input *NewSale) (*Sale, error) {
	db := config.GetDB()

	sale := Sale{
		ID:       uuid.New().String(),
		Date:     time.Now(),
		Customer: input.Customer,
		Amount:   input.Amount(),
		Archived: utils.NewFalse(),
	}
	for _, line := range input.Details {
		sale.Details = append(sale.Details, SaleDetail{
			ProductId:    line.ProductId,
			ProductName:  line.ProductName,
			ProductPrice: line.ProductPrice,
			Qty:          line.Qty,
			ImgSrc:       line.ImgSrc,
		})
	}

	if err := db.WithContext(ctx).Create(&sale).Error; err != nil {
		return nil, err
	}
	if err := utils.InvalidateList[Sale](); err != nil {
		config.LogError(config.GetLogger(), "sale.go", "CreateSale", "InvalidateList", sale.ID, err)
	}
	return &sale, nil
}

func SetSaleArchived(ctx context.Context, id string, archived bool) (*Sale, error) {
	db := config.GetDB()

	if err := utils.ValidateResourceId[Sale](ctx, id); err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	if err := db.WithContext(ctx).Model(&Sale{}).Where("id = ?", id).Update("archived", archived).Error; err != nil {
		return nil, err
	}
	if err := utils.InvalidateList[Sale](); err != nil {
		config.LogError(config.GetLogger(), "sale.go", "SetSaleArchived", "InvalidateList", id, err)
	}
	return GetSale(ctx, id)
}

func GetSale(ctx context.Context, id string) (*Sale, error) {
	return utils.FetchModel[Sale](ctx, id, "Details")
}

func GetSales(ctx context.Context) ([]*Sale, error) {
	return utils.ListModels[Sale](ctx, "Details")
}

// TotalSales sums every sale amount.
func TotalSales(ctx context.Context) (decimal.Decimal, error) {
	db := config.GetDB()
	var total decimal.NullDecimal
	err := db.WithContext(ctx).Model(&Sale{}).Select("SUM(amount)").Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}
