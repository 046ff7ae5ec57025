package app

import (
	"context"
	"fmt"

	"pvc_catalog_bot/internal/bot"
	"pvc_catalog_bot/internal/notifications"
	"pvc_catalog_bot/internal/sheets"
	"pvc_catalog_bot/internal/telegram"
	"pvc_catalog_bot/internal/xlsxstore"

	"github.com/rs/zerolog/log"
)

// Store is a catalog row store that knows which worksheet it serves.
type Store interface {
	bot.RowStore
	Title() string
}

// OpenStore creates the row store for the configured backend.
func OpenStore(ctx context.Context, cfg Config) (Store, error) {
	log.Debug().
		Str("backend", cfg.Backend).
		Str("worksheet", cfg.WorksheetName).
		Msg("Opening catalog store")

	switch cfg.Backend {
	case BackendXLSX:
		return xlsxstore.New(cfg.XLSXPath, cfg.WorksheetName), nil
	case BackendSheets:
		client, err := sheets.NewClient(ctx,
			sheets.CredentialsOption(cfg.CredentialsJSON, cfg.CredentialsFile),
			sheets.ScopesOption(),
		)
		if err != nil {
			return nil, err
		}
		return sheets.NewWorksheet(client, cfg.SpreadsheetID, cfg.WorksheetName), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}

// NewNotificationClient creates the mutation audit client.
func NewNotificationClient(cfg Config) *notifications.Client {
	client := notifications.NewClient(cfg.Notifications)
	if client.Enabled() {
		log.Info().Str("topic", cfg.Notifications.Topic).Msg("Notifications enabled")
	} else {
		log.Debug().Msg("Notifications disabled")
	}
	return client
}

// NewRouter wires the catalog router. notifier may be nil.
func NewRouter(store bot.RowStore, cfg Config, notifier *notifications.Client) *bot.Router {
	opts := []bot.Option{bot.WithMaxMessageLength(telegram.MaxMessageLength)}
	if notifier != nil && notifier.Enabled() {
		opts = append(opts, bot.WithNotifier(notifier))
	}
	if len(cfg.AdminIDs) == 0 {
		log.Warn().Msg("ADMIN_IDS is empty; catalog changes are disabled")
	}
	return bot.NewRouter(store, bot.NewAdmins(cfg.AdminIDs...), opts...)
}

// Serve runs the Telegram bot until ctx is done.
func Serve(ctx context.Context, cfg Config) error {
	store, err := OpenStore(ctx, cfg)
	if err != nil {
		return err
	}
	notifier := NewNotificationClient(cfg)
	defer notifier.Close()
	router := NewRouter(store, cfg, notifier)

	resilience := cfg.Resilience()
	api, err := telegram.Login(ctx, cfg.BotToken, resilience.BotLogin)
	if err != nil {
		return err
	}

	log.Info().
		Str("backend", cfg.Backend).
		Str("worksheet", store.Title()).
		Int("admins", len(cfg.AdminIDs)).
		Bool("webhook", cfg.WebhookURL != "").
		Msg("Starting catalog bot")

	return telegram.Serve(ctx, api, router, telegram.ServeConfig{
		WebhookURL: cfg.WebhookURL,
		Port:       cfg.Port,
		Workers:    cfg.Workers,
		SendRate:   cfg.SendRate,
		Setup:      resilience.WebhookSetup,
	})
}

// Search runs one catalog search the way the bot would answer it.
func Search(ctx context.Context, cfg Config, query string) ([]string, error) {
	store, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return NewRouter(store, cfg, nil).Handle(ctx, bot.Event{Text: query}), nil
}

// Check reads the worksheet once and returns its row count.
func Check(ctx context.Context, cfg Config) (int, error) {
	store, err := OpenStore(ctx, cfg)
	if err != nil {
		return 0, err
	}
	rows, err := store.ReadAll(ctx)
	if err != nil {
		return 0, err
	}
	return len(rows), nil
}
