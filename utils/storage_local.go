package utils

import (
	"os"
	"path"
	"path/filepath"
)

const localUploadURLPrefix = "/uploads/"

func localUploadDir() string {
	dir := os.Getenv("UPLOAD_DIR")
	if dir == "" {
		dir = "uploads"
	}
	return dir
}

// SaveBytesToLocal writes data under UPLOAD_DIR and returns the URL path the
// server serves it from.
func SaveBytesToLocal(objectName string, data []byte) (string, error) {
	dir := localUploadDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(dir, objectName), data, 0o644); err != nil {
		return "", err
	}
	return path.Join(localUploadURLPrefix, objectName), nil
}

// LocalUploadDir is the directory the static /uploads route serves.
func LocalUploadDir() string {
	return localUploadDir()
}
