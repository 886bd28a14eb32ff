package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"INVENTORY_FILE", "CATALOG_FILE", "LOG_LEVEL", "APP_PORT",
		"LOW_STOCK_THRESHOLD", "REPORT_FILE", "REPORT_CRON_SCHEDULE", "TIMEZONE",
		"MONGODB_URI", "MONGODB_DB_NAME",
		"GOOGLE_SHEETS_CREDENTIALS_PATH", "GOOGLE_SHEET_DATABASE_ID",
		"REPORT_WEBHOOK_URL",
	} {
		// Setenv registers the restore; Unsetenv lets godotenv fill the key.
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "inventory.json", cfg.Store.InventoryPath)
	assert.Equal(t, "library.json", cfg.Store.CatalogPath)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 3, cfg.Reporting.LowStockThreshold)
	assert.Equal(t, "0 20 * * *", cfg.Reporting.CronSchedule)
	assert.Equal(t, "stockbook", cfg.MongoDB.DBName)
	assert.False(t, cfg.MongoDB.Enabled())
	assert.False(t, cfg.Sheets.Enabled())
	assert.False(t, cfg.Webhook.Enabled())
}

func TestLoadFromEnvFile(t *testing.T) {
	clearEnv(t)

	envFile := filepath.Join(t.TempDir(), "test.env")
	content := "INVENTORY_FILE=/data/inv.json\nLOW_STOCK_THRESHOLD=7\nREPORT_WEBHOOK_URL=http://hooks.local/report\n"
	require.NoError(t, os.WriteFile(envFile, []byte(content), 0o644))

	cfg, err := Load(envFile)
	require.NoError(t, err)

	assert.Equal(t, "/data/inv.json", cfg.Store.InventoryPath)
	assert.Equal(t, 7, cfg.Reporting.LowStockThreshold)
	assert.True(t, cfg.Webhook.Enabled())
}

func TestLoadRejectsBadThreshold(t *testing.T) {
	clearEnv(t)
	t.Setenv("LOW_STOCK_THRESHOLD", "few")

	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.ErrorContains(t, err, "LOW_STOCK_THRESHOLD")
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Store:  StoreConfig{InventoryPath: "inv.json", CatalogPath: "lib.json"},
			Server: ServerConfig{Port: "8080"},
			Reporting: ReportingConfig{
				FilePath:     "report.txt",
				CronSchedule: "0 20 * * *",
				Timezone:     "UTC",
			},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "empty inventory path", mutate: func(c *Config) { c.Store.InventoryPath = "" }, wantErr: "INVENTORY_FILE"},
		{name: "empty catalog path", mutate: func(c *Config) { c.Store.CatalogPath = "" }, wantErr: "CATALOG_FILE"},
		{name: "negative threshold", mutate: func(c *Config) { c.Reporting.LowStockThreshold = -1 }, wantErr: "LOW_STOCK_THRESHOLD"},
		{name: "bad cron", mutate: func(c *Config) { c.Reporting.CronSchedule = "every friday" }, wantErr: "REPORT_CRON_SCHEDULE"},
		{name: "bad timezone", mutate: func(c *Config) { c.Reporting.Timezone = "Mars/Olympus" }, wantErr: "TIMEZONE"},
		{name: "half sheets config", mutate: func(c *Config) { c.Sheets.SpreadsheetID = "sheet" }, wantErr: "GOOGLE_SHEETS"},
		{name: "mongo without db", mutate: func(c *Config) { c.MongoDB.URI = "mongodb://localhost" }, wantErr: "MONGODB_DB_NAME"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestValidateNil(t *testing.T) {
	var cfg *Config
	assert.Error(t, cfg.Validate())
}
