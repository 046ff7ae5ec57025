package app

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"pvc_catalog_bot/internal/bot"
	"pvc_catalog_bot/internal/catalog"
	"pvc_catalog_bot/internal/config"
	"pvc_catalog_bot/internal/xlsxstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var configKeys = []string{
	"BOT_TOKEN", "STORE_BACKEND", "SPREADSHEET_ID", "WORKSHEET_NAME",
	"GOOGLE_CREDENTIALS_JSON", "SERVICE_ACCOUNT_FILE", "XLSX_PATH", "ADMIN_IDS",
	"WEBHOOK_URL", "PORT", "BOT_WORKERS", "BOT_SEND_RATE", "RETRY_FOREVER",
	"NTFY_ENABLED", "NTFY_URL", "NTFY_TOPIC", "NTFY_PRIORITY",
}

func setEnv(t *testing.T, values map[string]string) {
	t.Helper()
	for _, key := range configKeys {
		t.Setenv(key, values[key])
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	setEnv(t, map[string]string{
		"BOT_TOKEN":      "123:abc",
		"SPREADSHEET_ID": "1Hj",
		"WORKSHEET_NAME": "для Вадима",
		"ADMIN_IDS":      "934606635, 1076176066",
	})

	cfg, err := LoadConfig(true)

	require.NoError(t, err)
	assert.Equal(t, "123:abc", cfg.BotToken)
	assert.Equal(t, BackendSheets, cfg.Backend)
	assert.Equal(t, "1Hj", cfg.SpreadsheetID)
	assert.Equal(t, "для Вадима", cfg.WorksheetName)
	assert.Equal(t, "credentials.json", cfg.CredentialsFile)
	assert.Equal(t, []int64{934606635, 1076176066}, cfg.AdminIDs)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, float64(25), cfg.SendRate)
	assert.False(t, cfg.Notifications.Enabled)
	assert.Equal(t, "https://ntfy.sh", cfg.Notifications.BaseURL)
	assert.Equal(t, config.DefaultResilienceConfig.Notification, cfg.Notifications.Retry)
	assert.Equal(t, "ntfy publish", cfg.Notifications.Retry.Name)
	assert.Equal(t, config.DefaultResilienceConfig, cfg.Resilience())
}

func TestLoadConfigReportsAllProblems(t *testing.T) {
	setEnv(t, map[string]string{
		"ADMIN_IDS":    "934606635,vadim",
		"BOT_WORKERS":  "0",
		"NTFY_ENABLED": "sometimes",
	})

	_, err := LoadConfig(true)

	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.ElementsMatch(t, []string{
		"WORKSHEET_NAME environment variable is required",
		"BOT_TOKEN environment variable is required",
		"SPREADSHEET_ID environment variable is required",
		`ADMIN_IDS contains invalid user id "vadim"`,
		`BOT_WORKERS must be a positive integer, got "0"`,
		`NTFY_ENABLED must be a boolean, got "sometimes"`,
	}, cfgErr.Problems)
}

func TestLoadConfigWithoutBot(t *testing.T) {
	setEnv(t, map[string]string{
		"STORE_BACKEND":  "XLSX",
		"XLSX_PATH":      "catalog.xlsx",
		"WORKSHEET_NAME": "Лист1",
		"RETRY_FOREVER":  "true",
	})

	cfg, err := LoadConfig(false)

	require.NoError(t, err)
	assert.Equal(t, BackendXLSX, cfg.Backend)
	assert.Equal(t, "catalog.xlsx", cfg.XLSXPath)
	assert.Empty(t, cfg.BotToken)
	assert.Empty(t, cfg.AdminIDs)
	assert.Equal(t, config.InfiniteResilienceConfig, cfg.Resilience())
}

func TestLoadConfigUnknownBackend(t *testing.T) {
	setEnv(t, map[string]string{
		"STORE_BACKEND":  "postgres",
		"WORKSHEET_NAME": "Лист1",
	})

	_, err := LoadConfig(false)

	require.Error(t, err)
	assert.Contains(t, err.Error(), `STORE_BACKEND must be "sheets" or "xlsx", got "postgres"`)
}

func newCatalogWorkbook(t *testing.T, sheet string, rows ...catalog.Row) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.xlsx")
	f := excelize.NewFile()
	defer f.Close()
	_, err := f.NewSheet(sheet)
	require.NoError(t, err)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		values := row.Values()
		require.NoError(t, f.SetSheetRow(sheet, cell, &values))
	}
	require.NoError(t, f.SaveAs(path))
	return path
}

func xlsxConfig(path string) Config {
	return Config{
		Backend:       BackendXLSX,
		XLSXPath:      path,
		WorksheetName: "для Вадима",
		AdminIDs:      []int64{934606635},
	}
}

func TestOpenStoreXLSX(t *testing.T) {
	store, err := OpenStore(context.Background(), xlsxConfig("catalog.xlsx"))

	require.NoError(t, err)
	assert.IsType(t, &xlsxstore.Store{}, store)
	assert.Equal(t, "для Вадима", store.Title())
}

func TestOpenStoreUnknownBackend(t *testing.T) {
	_, err := OpenStore(context.Background(), Config{Backend: "csv"})
	assert.Error(t, err)
}

func TestSearchAndCheck(t *testing.T) {
	path := newCatalogWorkbook(t, "для Вадима",
		catalog.Row{"Пленка А", "Эконом", "100"},
		catalog.Row{"Пленка Б", "Премиум", "200"},
	)
	cfg := xlsxConfig(path)
	ctx := context.Background()

	replies, err := Search(ctx, cfg, "пленка а")
	require.NoError(t, err)
	assert.Equal(t, []string{"Пленка А | 100 | категория | Эконом"}, replies)

	count, err := Check(ctx, cfg)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestCheckMissingWorksheet(t *testing.T) {
	cfg := xlsxConfig(newCatalogWorkbook(t, "Архив"))

	_, err := Check(context.Background(), cfg)

	var notFound *catalog.WorksheetNotFoundError
	assert.True(t, errors.As(err, &notFound))
}

func TestRouterIsWiredToStore(t *testing.T) {
	path := newCatalogWorkbook(t, "для Вадима", catalog.Row{"Пленка А", "Эконом", "100"})
	cfg := xlsxConfig(path)
	store, err := OpenStore(context.Background(), cfg)
	require.NoError(t, err)

	router := NewRouter(store, cfg, NewNotificationClient(cfg))
	ctx := context.Background()

	assert.True(t, router.IsAdmin(934606635))
	assert.False(t, router.IsAdmin(555))

	reply := router.Handle(ctx, bot.Event{UserID: 934606635, Command: bot.CommandAddRow, Args: "Плёнка В, Стандарт, 150"})
	require.Len(t, reply, 1)

	count, err := Check(ctx, cfg)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
