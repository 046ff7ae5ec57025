package telegram

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"pvc_catalog_bot/internal/retry"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const (
	pollTimeoutSeconds = 60
	shutdownTimeout    = 10 * time.Second
)

type ServeConfig struct {
	// WebhookURL switches to webhook mode when set; otherwise long polling.
	WebhookURL string
	Port       int
	Workers    int
	SendRate   float64
	Setup      retry.Config
}

// Login connects to the Bot API, retrying transient failures. A rejected
// token is reported immediately.
func Login(ctx context.Context, token string, cfg retry.Config) (*tgbotapi.BotAPI, error) {
	api, err := retry.WithRetry(ctx, cfg, func(ctx context.Context) (*tgbotapi.BotAPI, error) {
		api, err := tgbotapi.NewBotAPI(token)
		return api, permanentIfRejected(err)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to log in to telegram: %w", err)
	}
	log.Info().Str("username", api.Self.UserName).Msg("Authorized on Telegram")
	return api, nil
}

// Serve runs the bot until ctx is done.
func Serve(ctx context.Context, api *tgbotapi.BotAPI, handler Handler, cfg ServeConfig) error {
	dispatcher := NewDispatcher(handler, NewSender(api, cfg.SendRate), cfg.Workers)
	if cfg.WebhookURL == "" {
		return servePolling(ctx, api, dispatcher, cfg)
	}
	return serveWebhook(ctx, api, dispatcher, cfg)
}

func servePolling(ctx context.Context, api *tgbotapi.BotAPI, dispatcher *Dispatcher, cfg ServeConfig) error {
	if err := request(ctx, api, tgbotapi.DeleteWebhookConfig{}, cfg.Setup); err != nil {
		return fmt.Errorf("failed to delete webhook: %w", err)
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = pollTimeoutSeconds
	updates := api.GetUpdatesChan(u)

	stopped := make(chan struct{})
	defer close(stopped)
	go func() {
		select {
		case <-ctx.Done():
			api.StopReceivingUpdates()
		case <-stopped:
		}
	}()

	log.Info().Msg("Polling for updates")
	return dispatcher.Run(ctx, updates)
}

func serveWebhook(ctx context.Context, api *tgbotapi.BotAPI, dispatcher *Dispatcher, cfg ServeConfig) error {
	wh, err := tgbotapi.NewWebhook(cfg.WebhookURL)
	if err != nil {
		return fmt.Errorf("invalid webhook url: %w", err)
	}
	if err := request(ctx, api, wh, cfg.Setup); err != nil {
		return fmt.Errorf("failed to register webhook: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	updates := make(chan tgbotapi.Update, api.Buffer)

	mux := http.NewServeMux()
	mux.Handle(webhookPath(wh.URL), WebhookHandler(gctx, api, updates))
	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g.Go(func() error {
		log.Info().
			Str("addr", srv.Addr).
			Str("path", webhookPath(wh.URL)).
			Msg("Listening for webhook updates")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("webhook server: %w", err)
		}
		return nil
	})
	// The dispatcher outlives the server: it stops only after Shutdown has
	// returned, so every update acknowledged with 200 is still in the channel
	// and gets drained.
	dispatchCtx, stopDispatch := context.WithCancel(context.WithoutCancel(ctx))
	defer stopDispatch()

	g.Go(func() error {
		<-gctx.Done()
		defer stopDispatch()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		return dispatcher.Run(dispatchCtx, updates)
	})
	return g.Wait()
}

func request(ctx context.Context, api *tgbotapi.BotAPI, c tgbotapi.Chattable, cfg retry.Config) error {
	_, err := retry.WithRetry(ctx, cfg, func(ctx context.Context) (*tgbotapi.APIResponse, error) {
		resp, err := api.Request(c)
		return resp, permanentIfRejected(err)
	})
	return err
}

// webhookPath is the path Telegram will POST to, "/" when the URL has none.
func webhookPath(u *url.URL) string {
	if u == nil || u.Path == "" {
		return "/"
	}
	return u.Path
}

// permanentIfRejected stops retries for answers that will not change, such
// as an invalid token or a malformed request.
func permanentIfRejected(err error) error {
	var apiErr *tgbotapi.Error
	if errors.As(err, &apiErr) && apiErr.Code >= 400 && apiErr.Code < 500 && apiErr.Code != http.StatusTooManyRequests {
		return retry.Permanent(err)
	}
	return err
}
