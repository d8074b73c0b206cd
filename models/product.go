package models

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/mmdatafocus/store_backend/config"
	"bitbucket.org/mmdatafocus/store_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product ids are assigned sequentially above this base so they are long
// enough to encode as retail barcodes.
const ProductIdBase = 80000000

type Product struct {
	ID        int             `gorm:"primary_key" json:"id"`
	Name      string          `gorm:"size:100;not null;index" json:"name" binding:"required"`
	Category  string          `gorm:"size:100;index" json:"category"`
	Type      string          `gorm:"size:100" json:"type"`
	Brand     string          `gorm:"size:100" json:"brand"`
	Stock     int             `gorm:"not null;default:0" json:"stock"`
	Expiry    *string         `gorm:"size:20;default:null" json:"expiry"`
	CostPrice decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"cost_price"`
	SellPrice decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"sell_price"`
	ImgSrc    string          `gorm:"size:500" json:"img_src"`
	Archived  *bool           `gorm:"not null;default:false" json:"archived"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"created"`
	UpdatedAt time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewProduct struct {
	Name      string          `json:"name" binding:"required"`
	Category  string          `json:"category"`
	Type      string          `json:"type"`
	Brand     string          `json:"brand"`
	Stock     int             `json:"stock"`
	Expiry    *string         `json:"expiry"`
	CostPrice decimal.Decimal `json:"cost_price"`
	SellPrice decimal.Decimal `json:"sell_price"`
	ImgSrc    string          `json:"img_src"`
}

// partial update; nil fields are left untouched
type UpdateProductInput struct {
	Name      *string          `json:"name"`
	Category  *string          `json:"category"`
	Type      *string          `json:"type"`
	Brand     *string          `json:"brand"`
	Expiry    *string          `json:"expiry"`
	CostPrice *decimal.Decimal `json:"cost_price"`
	SellPrice *decimal.Decimal `json:"sell_price"`
	ImgSrc    *string          `json:"img_src"`
}

func (input *NewProduct) validate() error {
	if input.Name == "" {
		return errors.New("product name is required")
	}
	if input.Stock < 0 {
		return errors.New("stock cannot be negative")
	}
	if input.CostPrice.IsNegative() || input.SellPrice.IsNegative() {
		return errors.New("price cannot be negative")
	}
	return nil
}

// CreateProduct assigns id = max(existing, base) + 1 inside the insert
// transaction and stamps created = now.
func CreateProduct(ctx context.Context, input *NewProduct) (*Product, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	db := config.GetDB()
	product := Product{
		Name:      input.Name,
		Category:  input.Category,
		Type:      input.Type,
		Brand:     input.Brand,
		Stock:     input.Stock,
		Expiry:    input.Expiry,
		CostPrice: input.CostPrice,
		SellPrice: input.SellPrice,
		ImgSrc:    input.ImgSrc,
		Archived:  utils.NewFalse(),
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var nextId int
		if err := tx.Raw("SELECT COALESCE(MAX(id), ?) + 1 FROM products", ProductIdBase).Scan(&nextId).Error; err != nil {
			return err
		}
		product.ID = nextId
		return tx.Create(&product).Error
	})
	if err != nil {
		return nil, err
	}

	if err := utils.InvalidateList[Product](); err != nil {
		config.LogError(config.GetLogger(), "product.go", "CreateProduct", "InvalidateList", product.ID, err)
	}
	return &product, nil
}

func UpdateProduct(ctx context.Context, id int, input *UpdateProductInput) (*Product, error) {
	db := config.GetDB()

	product, err := utils.FetchModel[Product](ctx, id)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if input.Name != nil {
		if *input.Name == "" {
			return nil, errors.New("product name is required")
		}
		fields["name"] = *input.Name
	}
	if input.Category != nil {
		fields["category"] = *input.Category
	}
	if input.Type != nil {
		fields["type"] = *input.Type
	}
	if input.Brand != nil {
		fields["brand"] = *input.Brand
	}
	if input.Expiry != nil {
		fields["expiry"] = *input.Expiry
	}
	if input.CostPrice != nil {
		if input.CostPrice.IsNegative() {
			return nil, errors.New("price cannot be negative")
		}
		fields["cost_price"] = *input.CostPrice
	}
	if input.SellPrice != nil {
		if input.SellPrice.IsNegative() {
			return nil, errors.New("price cannot be negative")
		}
		fields["sell_price"] = *input.SellPrice
	}
	if len(fields) == 0 {
		return product, nil
	}

	if err := db.WithContext(ctx).Model(&Product{}).Where("id = ?", id).Updates(fields).Error; err != nil {
		return nil, err
	}

	if err := utils.InvalidateList[Product](); err != nil {
		config.LogError(config.GetLogger(), "product.go", "UpdateProduct", "InvalidateList", id, err)
	}
	return utils.FetchModel[Product](ctx, id)
}

func SetProductArchived(ctx context.Context, id int, archived bool) (*Product, error) {
	db := config.GetDB()

	if err := utils.ValidateResourceId[Product](ctx, id); err != nil {
		return nil, errors.New("product not found")
	}
	if err := db.WithContext(ctx).Model(&Product{}).Where("id = ?", id).Update("archived", archived).Error; err != nil {
		return nil, err
	}

	if err := utils.InvalidateList[Product](); err != nil {
		config.LogError(config.GetLogger(), "product.go", "SetProductArchived", "InvalidateList", id, err)
	}
	return utils.FetchModel[Product](ctx, id)
}

// ApplyStockDelta mutates the stock counter with a single atomic UPDATE.
// Stock is never overwritten wholesale: concurrent POS decrements and
// purchase receipts both go through this statement, so no update is lost.
//
// The ledger accepts any signed delta; callers pre-check availability where
// a floor matters. When the product id does not exist yet (a received
// purchase line for an unknown product), a placeholder row is created
// carrying the delta as its opening stock.
func ApplyStockDelta(ctx context.Context, id int, name string, delta int) error {
	if id <= 0 {
		return errors.New("invalid product id")
	}

	db := config.GetDB()
	result := db.WithContext(ctx).Model(&Product{}).
		Where("id = ?", id).
		UpdateColumn("stock", gorm.Expr("stock + ?", delta))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		if err := utils.InvalidateList[Product](); err != nil {
			config.LogError(config.GetLogger(), "product.go", "ApplyStockDelta", "InvalidateList", id, err)
		}
		return nil
	}

	placeholder := Product{
		ID:       id,
		Name:     name,
		Stock:    delta,
		Archived: utils.NewFalse(),
	}
	if err := db.WithContext(ctx).Create(&placeholder).Error; err != nil {
		return err
	}
	if err := utils.InvalidateList[Product](); err != nil {
		config.LogError(config.GetLogger(), "product.go", "ApplyStockDelta", "InvalidateList", id, err)
	}
	return nil
}

func GetProduct(ctx context.Context, id int) (*Product, error) {
	return utils.FetchModel[Product](ctx, id)
}

func GetProducts(ctx context.Context) ([]*Product, error) {
	return utils.ListModels[Product](ctx)
}

// GetStockOf returns the live stock counter for one product, or
// ErrorRecordNotFound when no such product exists.
func GetStockOf(ctx context.Context, id int) (int, error) {
	product, err := utils.FetchModel[Product](ctx, id)
	if err != nil {
		return 0, err
	}
	return product.Stock, nil
}

// TotalStock sums every product's counter, the dashboard "total stocks" figure.
func TotalStock(ctx context.Context) (int, error) {
	db := config.GetDB()
	var total *int
	err := db.WithContext(ctx).Model(&Product{}).Select("SUM(stock)").Scan(&total).Error
	if err != nil {
		return 0, err
	}
	if total == nil {
		return 0, nil
	}
	return *total, nil
}
