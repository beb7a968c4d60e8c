package util

import (
	"os"
	"path/filepath"
)

// GetDataDirectory returns where progress blobs and profiles live.
// Defaults to ./data next to the binary when DATA_DIR isn't set.
func GetDataDirectory() string {
	if dir := os.Getenv("DATA_DIR"); dir != "" {
		return filepath.Clean(dir)
	}
	return "data"
}

// GetCatalogDirectory returns where the course metadata JSON files live.
// Defaults to ./catalog when CATALOG_DIR isn't set.
func GetCatalogDirectory() string {
	if dir := os.Getenv("CATALOG_DIR"); dir != "" {
		return filepath.Clean(dir)
	}
	return "catalog"
}
