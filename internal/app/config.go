package app

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"pvc_catalog_bot/internal/config"
	"pvc_catalog_bot/internal/notifications"
)

// Store backends selected by STORE_BACKEND.
const (
	BackendSheets = "sheets"
	BackendXLSX   = "xlsx"
)

const (
	defaultCredentialsFile = "credentials.json"
	defaultPort            = 8080
	defaultWorkers         = 4
	defaultSendRate        = 25
	defaultNtfyURL         = "https://ntfy.sh"
	defaultNtfyTopic       = "pvc-catalog"
)

type Config struct {
	BotToken string

	Backend         string
	SpreadsheetID   string
	WorksheetName   string
	CredentialsJSON string
	CredentialsFile string
	XLSXPath        string

	AdminIDs []int64

	WebhookURL    string
	Port          int
	Workers       int
	SendRate      float64
	RetryForever  bool
	Notifications notifications.Config
}

// ConfigError lists every problem found while loading configuration.
type ConfigError struct {
	Problems []string
}

func (e *ConfigError) Error() string {
	return "invalid configuration: " + strings.Join(e.Problems, "; ")
}

// LoadConfig reads configuration from the environment. BOT_TOKEN is only
// required when needBot is set.
func LoadConfig(needBot bool) (Config, error) {
	var problems []string
	required := func(key string) string {
		value := os.Getenv(key)
		if value == "" {
			problems = append(problems, key+" environment variable is required")
		}
		return value
	}
	integer := func(key string, def int) int {
		raw := os.Getenv(key)
		if raw == "" {
			return def
		}
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil || n < 1 {
			problems = append(problems, fmt.Sprintf("%s must be a positive integer, got %q", key, raw))
			return def
		}
		return n
	}
	boolean := func(key string) bool {
		raw := os.Getenv(key)
		if raw == "" {
			return false
		}
		b, err := strconv.ParseBool(raw)
		if err != nil {
			problems = append(problems, fmt.Sprintf("%s must be a boolean, got %q", key, raw))
		}
		return b
	}

	cfg := Config{
		Backend:         strings.ToLower(getEnvWithDefault("STORE_BACKEND", BackendSheets)),
		WorksheetName:   required("WORKSHEET_NAME"),
		CredentialsJSON: os.Getenv("GOOGLE_CREDENTIALS_JSON"),
		CredentialsFile: getEnvWithDefault("SERVICE_ACCOUNT_FILE", defaultCredentialsFile),
		WebhookURL:      os.Getenv("WEBHOOK_URL"),
		Port:            integer("PORT", defaultPort),
		Workers:         integer("BOT_WORKERS", defaultWorkers),
		SendRate:        float64(integer("BOT_SEND_RATE", defaultSendRate)),
		RetryForever:    boolean("RETRY_FOREVER"),
	}
	if needBot {
		cfg.BotToken = required("BOT_TOKEN")
	}

	switch cfg.Backend {
	case BackendSheets:
		cfg.SpreadsheetID = required("SPREADSHEET_ID")
	case BackendXLSX:
		cfg.XLSXPath = required("XLSX_PATH")
	default:
		problems = append(problems, fmt.Sprintf("STORE_BACKEND must be %q or %q, got %q", BackendSheets, BackendXLSX, cfg.Backend))
	}

	admins, err := parseAdminIDs(os.Getenv("ADMIN_IDS"))
	if err != nil {
		problems = append(problems, err.Error())
	}
	cfg.AdminIDs = admins

	cfg.Notifications = notifications.Config{
		BaseURL:  getEnvWithDefault("NTFY_URL", defaultNtfyURL),
		Topic:    getEnvWithDefault("NTFY_TOPIC", defaultNtfyTopic),
		Enabled:  boolean("NTFY_ENABLED"),
		Priority: os.Getenv("NTFY_PRIORITY"),
		Retry:    cfg.Resilience().Notification,
	}

	if len(problems) > 0 {
		return cfg, &ConfigError{Problems: problems}
	}
	return cfg, nil
}

// Resilience picks the retry presets for start-up calls.
func (c Config) Resilience() config.ResilienceConfig {
	if c.RetryForever {
		return config.InfiniteResilienceConfig
	}
	return config.DefaultResilienceConfig
}

// parseAdminIDs reads a comma-separated list of Telegram user ids.
func parseAdminIDs(raw string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("ADMIN_IDS contains invalid user id %q", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// getEnvWithDefault fetches an environment variable with a default fallback.
func getEnvWithDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
