package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

// Config represents the full application configuration surface.
type Config struct {
	Store     StoreConfig
	Log       LogConfig
	Server    ServerConfig
	Reporting ReportingConfig
	MongoDB   MongoDBConfig
	Sheets    SheetsConfig
	Webhook   WebhookConfig
}

// StoreConfig locates the JSON files backing each collection.
type StoreConfig struct {
	InventoryPath string
	CatalogPath   string
}

// LogConfig holds logger options.
type LogConfig struct {
	Level string
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// ReportingConfig holds report and scheduler settings.
type ReportingConfig struct {
	LowStockThreshold int
	FilePath          string
	CronSchedule      string
	Timezone          string
}

// MongoDBConfig holds settings for the report archive. An empty URI disables it.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// SheetsConfig contains configuration required to interact with Google Sheets.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
}

// WebhookConfig points at an HTTP endpoint receiving published reports.
type WebhookConfig struct {
	URL string
}

// Enabled reports whether the MongoDB archive is configured.
func (c MongoDBConfig) Enabled() bool { return c.URI != "" }

// Enabled reports whether the Google Sheets sink is configured.
func (c SheetsConfig) Enabled() bool { return c.CredentialsPath != "" && c.SpreadsheetID != "" }

// Enabled reports whether the webhook sink is configured.
func (c WebhookConfig) Enabled() bool { return c.URL != "" }

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Missing .env files are fine; the environment may carry everything.
		_ = godotenv.Load()
	}

	threshold, err := getenvInt("LOW_STOCK_THRESHOLD", 3)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Store: StoreConfig{
			InventoryPath: getenvWithDefault("INVENTORY_FILE", "inventory.json"),
			CatalogPath:   getenvWithDefault("CATALOG_FILE", "library.json"),
		},
		Log: LogConfig{
			Level: getenvWithDefault("LOG_LEVEL", "info"),
		},
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		Reporting: ReportingConfig{
			LowStockThreshold: threshold,
			FilePath:          getenvWithDefault("REPORT_FILE", "report.txt"),
			CronSchedule:      getenvWithDefault("REPORT_CRON_SCHEDULE", "0 20 * * *"),
			Timezone:          getenvWithDefault("TIMEZONE", "UTC"),
		},
		MongoDB: MongoDBConfig{
			URI:    os.Getenv("MONGODB_URI"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "stockbook"),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_DATABASE_ID"),
		},
		Webhook: WebhookConfig{
			URL: os.Getenv("REPORT_WEBHOOK_URL"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	switch {
	case c.Store.InventoryPath == "":
		return errors.New("INVENTORY_FILE must not be empty")
	case c.Store.CatalogPath == "":
		return errors.New("CATALOG_FILE must not be empty")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	if c.Reporting.LowStockThreshold < 0 {
		return errors.New("LOW_STOCK_THRESHOLD must not be negative")
	}

	if c.Reporting.FilePath == "" {
		return errors.New("REPORT_FILE must not be empty")
	}

	if _, err := cron.ParseStandard(c.Reporting.CronSchedule); err != nil {
		return fmt.Errorf("REPORT_CRON_SCHEDULE is invalid: %w", err)
	}

	if _, err := c.Location(); err != nil {
		return fmt.Errorf("TIMEZONE is invalid: %w", err)
	}

	if c.MongoDB.URI != "" && c.MongoDB.DBName == "" {
		return errors.New("MONGODB_DB_NAME must be provided when MONGODB_URI is set")
	}

	if (c.Sheets.CredentialsPath == "") != (c.Sheets.SpreadsheetID == "") {
		return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH and GOOGLE_SHEET_DATABASE_ID must be provided together")
	}

	return nil
}

// Location resolves the reporting timezone.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Reporting.Timezone)
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getenvInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}
