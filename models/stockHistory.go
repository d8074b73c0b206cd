package models

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/mmdatafocus/store_backend/config"
	"bitbucket.org/mmdatafocus/store_backend/utils"
	"github.com/google/uuid"
)

// StockHistory is an append-only movement ledger. Entries record the signed
// adjustment applied to a product's stock, never the resulting level.
type StockHistory struct {
	ID              string    `gorm:"primaryKey;size:36" json:"id"`
	ProductName     string    `gorm:"size:100;not null;index" json:"product_name"`
	StockAdjustment int       `gorm:"not null" json:"stock_adjustment"`
	Date            time.Time `gorm:"not null;index" json:"date"`
	Archived        *bool     `gorm:"not null;default:false" json:"archived"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
}

type NewStockHistory struct {
	ProductName     string `json:"product_name"`
	StockAdjustment int    `json:"stock_adjustment"`
}

func AppendStockHistory(ctx context.Context, input *NewStockHistory) (*StockHistory, error) {
	db := config.GetDB()

	entry := StockHistory{
		ID:              uuid.New().String(),
		ProductName:     input.ProductName,
		StockAdjustment: input.StockAdjustment,
		Date:            time.Now(),
		Archived:        utils.NewFalse(),
	}
	if err := db.WithContext(ctx).Create(&entry).Error; err != nil {
		return nil, err
	}
	if err := utils.InvalidateList[StockHistory](); err != nil {
		config.LogError(config.GetLogger(), "stockHistory.go", "AppendStockHistory", "InvalidateList", entry.ID, err)
	}
	return &entry, nil
}

func SetStockHistoryArchived(ctx context.Context, id string, archived bool) (*StockHistory, error) {
	db := config.GetDB()

	if err := utils.ValidateResourceId[StockHistory](ctx, id); err != nil {
		return nil, errors.New("stock history entry not found")
	}
	if err := db.WithContext(ctx).Model(&StockHistory{}).Where("id = ?", id).Update("archived", archived).Error; err != nil {
		return nil, err
	}
	if err := utils.InvalidateList[StockHistory](); err != nil {
		config.LogError(config.GetLogger(), "stockHistory.go", "SetStockHistoryArchived", "InvalidateList", id, err)
	}
	return utils.FetchModel[StockHistory](ctx, id)
}

// GetStockHistories returns the ledger newest first.
func GetStockHistories(ctx context.Context) ([]*StockHistory, error) {
	db := config.GetDB()
	var entries []*StockHistory
	err := db.WithContext(ctx).Order("date DESC").Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// StockInTotal sums positive adjustments, the dashboard's stock-in figure.
func StockInTotal(ctx context.Context) (int, error) {
	db := config.GetDB()
	var total *int
	err := db.WithContext(ctx).Model(&StockHistory{}).
		Select("SUM(stock_adjustment)").
		Where("stock_adjustment > 0").
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	if total == nil {
		return 0, nil
	}
	return *total, nil
}

// RecentMovement sums absolute adjustments over the trailing window.
func RecentMovement(ctx context.Context, since time.Time) (int, error) {
	db := config.GetDB()
	var total *int
	err := db.WithContext(ctx).Model(&StockHistory{}).
		Select("SUM(ABS(stock_adjustment))").
		Where("date >= ?", since).
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	if total == nil {
		return 0, nil
	}
	return *total, nil
}
