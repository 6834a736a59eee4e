package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const (
	StoreFile     = "file"
	StoreDynamoDB = "dynamodb"
)

// Config holds process-level configuration read from the environment.
type Config struct {
	AppName      string
	Environment  string
	LogLevel     string
	DataDir      string
	Store        string
	DynamoTable  string
	SettingsFile string
	TimeZone     string
}

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		AppName:      getenv("APP_NAME", "quotedesk"),
		Environment:  getenv("ENVIRONMENT", "development"),
		LogLevel:     strings.ToLower(getenv("LOG_LEVEL", "info")),
		DataDir:      getenv("QUOTEDESK_DATA_DIR", "data"),
		Store:        normalizeStore(getenv("QUOTEDESK_STORE", StoreFile)),
		DynamoTable:  getenv("QUOTEDESK_TABLE", "quotedesk_records"),
		SettingsFile: strings.TrimSpace(getenv("QUOTEDESK_SETTINGS", "")),
		TimeZone:     getenv("QUOTEDESK_TZ", "Asia/Tokyo"),
	}
}

func normalizeStore(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case StoreDynamoDB, "dynamo", "ddb":
		return StoreDynamoDB
	default:
		return StoreFile
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
