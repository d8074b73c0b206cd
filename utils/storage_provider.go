package utils

import (
	"os"
	"strings"

	"bitbucket.org/mmdatafocus/store_backend/config"
)

const (
	StorageProviderGCS   = "gcs"
	StorageProviderLocal = "local"
)

func GetStorageProvider() string {
	provider := strings.TrimSpace(strings.ToLower(os.Getenv("STORAGE_PROVIDER")))
	if provider == "" {
		if config.UseLocalEmulator() {
			return StorageProviderLocal
		}
		return StorageProviderGCS
	}
	return provider
}
