package config

import (
	"time"

	"pvc_catalog_bot/internal/retry"
)

// ResilienceConfig holds retry presets for start-up calls. Catalog reads and
// writes made while handling messages are never retried.
type ResilienceConfig struct {
	BotLogin     retry.Config
	WebhookSetup retry.Config
	Notification retry.Config
}

var DefaultResilienceConfig = ResilienceConfig{
	BotLogin: retry.Config{
		Name:       "telegram getMe",
		MaxRetries: 5,
		BaseDelay:  1 * time.Second,
		MaxDelay:   30 * time.Second,
		Timeout:    15 * time.Second,
	},
	WebhookSetup: retry.Config{
		Name:       "telegram setWebhook",
		MaxRetries: 3,
		BaseDelay:  2 * time.Second,
		MaxDelay:   30 * time.Second,
		Timeout:    15 * time.Second,
	},
	Notification: retry.Config{
		Name:       "ntfy publish",
		MaxRetries: 3,
		BaseDelay:  500 * time.Millisecond,
		MaxDelay:   10 * time.Second,
	},
}

// InfiniteResilienceConfig keeps retrying start-up calls until they succeed
// or the process is stopped. Used when the bot runs under a supervisor that
// should not see crash loops during network outages.
var InfiniteResilienceConfig = ResilienceConfig{
	BotLogin: retry.Config{
		Name:          "telegram getMe",
		BaseDelay:     1 * time.Second,
		MaxDelay:      60 * time.Second,
		Timeout:       15 * time.Second,
		InfiniteRetry: true,
	},
	WebhookSetup: retry.Config{
		Name:          "telegram setWebhook",
		BaseDelay:     2 * time.Second,
		MaxDelay:      60 * time.Second,
		Timeout:       15 * time.Second,
		InfiniteRetry: true,
	},
	Notification: DefaultResilienceConfig.Notification,
}
