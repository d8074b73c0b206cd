// seed-admin creates or updates the store console user.
//
// Usage (from backend directory):
//   DB_USER=... DB_PASSWORD=... DB_HOST=... DB_PORT=... DB_NAME=... go run ./cmd/seed-admin
//
// Override the defaults with ADMIN_EMAIL / ADMIN_PASSWORD / ADMIN_NAME.
package main

import (
	"context"
	"fmt"
	"os"

	"bitbucket.org/mmdatafocus/store_backend/config"
	"bitbucket.org/mmdatafocus/store_backend/models"
	"bitbucket.org/mmdatafocus/store_backend/utils"
	"gorm.io/gorm"
)

const (
	defaultAdminEmail    = "admin@store.local"
	defaultAdminPassword = "St0re@dmin"
	defaultAdminName     = "Store Admin"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	ctx := context.Background()
	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil). Set DB_* env vars.")
		os.Exit(1)
	}

	if err := models.MigrateTable(); err != nil {
		fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
		os.Exit(1)
	}

	adminEmail := envOr("ADMIN_EMAIL", defaultAdminEmail)
	adminPassword := envOr("ADMIN_PASSWORD", defaultAdminPassword)
	adminName := envOr("ADMIN_NAME", defaultAdminName)

	hashed, err := utils.HashPassword(adminPassword)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to hash password: %v\n", err)
		os.Exit(1)
	}

	var existing models.User
	err = db.WithContext(ctx).Model(&models.User{}).Where("email = ?", adminEmail).First(&existing).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			fmt.Fprintf(os.Stderr, "failed to lookup user: %v\n", err)
			os.Exit(1)
		}
		u := models.User{
			Name:     adminName,
			Email:    adminEmail,
			Password: string(hashed),
		}
		if err := db.WithContext(ctx).Create(&u).Error; err != nil {
			fmt.Fprintf(os.Stderr, "failed to create admin user: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Created admin user: email=%q\n", adminEmail)
		return
	}

	if err := db.WithContext(ctx).Model(&models.User{}).Where("email = ?", adminEmail).Updates(map[string]any{
		"password": string(hashed),
		"name":     adminName,
	}).Error; err != nil {
		fmt.Fprintf(os.Stderr, "failed to update admin user: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Updated admin user: email=%q\n", adminEmail)
}
