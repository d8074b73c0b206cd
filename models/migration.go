package models

import (
	"bitbucket.org/mmdatafocus/store_backend/config"
)

// MigrateTable brings the schema up to date. Called from main() after the
// database connection is established.
func MigrateTable() error {
	db := config.GetDB()
	return db.AutoMigrate(
		&User{},
		&Product{},
		&Supplier{},
		&Purchase{},
		&PurchaseDetail{},
		&StockHistory{},
		&Sale{},
		&SaleDetail{},
		&Notification{},
	)
}
