package models

import (
	"context"
	"time"

	"bitbucket.org/mmdatafocus/store_backend/config"
	"bitbucket.org/mmdatafocus/store_backend/utils"
	"github.com/shopspring/decimal"
)

// LowStockThreshold marks a product as running low on the dashboard.
const LowStockThreshold = 10

type DashboardMetrics struct {
	ProductCount     int64           `json:"product_count"`
	LowStockCount    int64           `json:"low_stock_count"`
	TotalStock       int             `json:"total_stock"`
	TotalStockIn     int             `json:"total_stock_in"`
	TotalSales       decimal.Decimal `json:"total_sales"`
	TotalPurchased   decimal.Decimal `json:"total_purchased"`
	PendingPurchases int64           `json:"pending_purchases"`
	TopProducts      []*Product      `json:"top_products"`
	RecentMovement   int             `json:"recent_movement"`
}

// GetDashboardMetrics assembles the overview figures. Queries run
// sequentially; the dashboard is read rarely enough that fan-out is not
// worth the complexity.
func GetDashboardMetrics(ctx context.Context) (*DashboardMetrics, error) {
	db := config.GetDB()
	metrics := &DashboardMetrics{}

	var err error
	if metrics.ProductCount, err = utils.ResourceCountWhere[Product](ctx, "archived = ?", false); err != nil {
		return nil, err
	}
	if metrics.LowStockCount, err = utils.ResourceCountWhere[Product](ctx, "archived = ? AND stock <= ?", false, LowStockThreshold); err != nil {
		return nil, err
	}
	if metrics.PendingPurchases, err = utils.ResourceCountWhere[Purchase](ctx, "status = ?", PurchaseStatusPending); err != nil {
		return nil, err
	}
	if err := db.WithContext(ctx).Model(&Product{}).
		Where("archived = ?", false).
		Order("stock DESC").
		Limit(5).
		Find(&metrics.TopProducts).Error; err != nil {
		return nil, err
	}

	if metrics.TotalStock, err = TotalStock(ctx); err != nil {
		return nil, err
	}
	if metrics.TotalStockIn, err = StockInTotal(ctx); err != nil {
		return nil, err
	}
	if metrics.TotalSales, err = TotalSales(ctx); err != nil {
		return nil, err
	}
	if metrics.TotalPurchased, err = TotalPurchased(ctx); err != nil {
		return nil, err
	}
	if metrics.RecentMovement, err = RecentMovement(ctx, time.Now().AddDate(0, 0, -30)); err != nil {
		return nil, err
	}

	return metrics, nil
}
