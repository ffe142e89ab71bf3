package config

import (
	"os"
	"path/filepath"
	"strconv"
)

type Config struct {
	// Server
	Port string

	// Storage
	DataDir      string
	UploadsDir   string
	MetadataPath string
	IndexPath    string

	// Upload limits
	MaxUploadBytes int64
}

func New() *Config {
	dataDir := getEnv("DATA_DIR", ".")

	return &Config{
		Port: getEnv("PORT", "8080"),

		DataDir:      dataDir,
		UploadsDir:   getEnv("UPLOADS_DIR", filepath.Join(dataDir, "uploads")),
		MetadataPath: getEnv("METADATA_PATH", filepath.Join(dataDir, "data.json")),
		IndexPath:    getEnv("INDEX_PATH", "./web/index.html"),

		MaxUploadBytes: getEnvAsInt64("MAX_UPLOAD_BYTES", 10<<20),
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		if parsed, err := strconv.ParseInt(value, 10, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}
