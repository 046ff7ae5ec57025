package notifications

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"pvc_catalog_bot/internal/retry"

	"github.com/rs/zerolog/log"
)

const (
	circuitThreshold = 5
	circuitCooldown  = 30 * time.Second
)

// Config configures the ntfy client.
type Config struct {
	BaseURL  string
	Topic    string
	Enabled  bool
	Priority string
	Retry    retry.Config
}

// Client pushes catalog audit messages to an ntfy topic.
type Client struct {
	httpClient *http.Client
	baseURL    string
	topic      string
	enabled    bool
	priority   string
	retry      retry.Config

	// Circuit breaker state
	mutex       sync.Mutex
	failures    int
	lastFailure time.Time
	circuitOpen bool

	// Metrics
	totalSent    int64
	totalFailed  int64
	totalRetries int64

	pending sync.WaitGroup
}

// MutationInfo describes a catalog change made by an admin.
type MutationInfo struct {
	ID      string
	UserID  int64
	Command string
	Detail  string
}

type NotificationError struct {
	Type       string
	StatusCode int
	Attempt    int
	Underlying error
}

func (e *NotificationError) Error() string {
	return fmt.Sprintf("notification failed [%s] attempt %d: %v", e.Type, e.Attempt, e.Underlying)
}

func (e *NotificationError) Unwrap() error {
	return e.Underlying
}

func (e *NotificationError) IsRetryable() bool {
	switch e.Type {
	case "network", "server", "timeout", "rate_limit":
		return true
	case "auth", "client", "circuit_open":
		return false
	default:
		return e.StatusCode >= 500
	}
}

func NewClient(cfg Config) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		topic:      cfg.Topic,
		enabled:    cfg.Enabled,
		priority:   cfg.Priority,
		retry:      cfg.Retry,
	}
}

func (c *Client) Enabled() bool {
	return c.enabled
}

// SendNotification posts message to the topic, retrying retryable failures.
func (c *Client) SendNotification(ctx context.Context, message string) error {
	if !c.enabled {
		log.Debug().Msg("Notifications disabled, skipping")
		return nil
	}

	if c.isCircuitOpen() {
		log.Warn().Msg("Circuit breaker open, skipping notification")
		return &NotificationError{
			Type:       "circuit_open",
			Underlying: errors.New("circuit breaker is open"),
		}
	}

	attempts := 0
	_, err := retry.WithRetry(ctx, c.retry, func(ctx context.Context) (struct{}, error) {
		attempts++
		err := c.sendSingleNotification(ctx, message, attempts)
		var notifErr *NotificationError
		if errors.As(err, &notifErr) && !notifErr.IsRetryable() {
			return struct{}{}, retry.Permanent(err)
		}
		return struct{}{}, err
	})
	c.addRetries(attempts - 1)

	if err == nil {
		c.recordSuccess()
		return nil
	}
	if ctx.Err() != nil {
		return err
	}
	c.recordFailure()

	var notifErr *NotificationError
	if errors.As(err, &notifErr) && !notifErr.IsRetryable() {
		log.Warn().
			Err(err).
			Int("attempt", attempts).
			Msg("Non-retryable error, giving up")
		return err
	}
	return &NotificationError{
		Type:       "max_retries_exceeded",
		Attempt:    attempts,
		Underlying: err,
	}
}

func (c *Client) sendSingleNotification(ctx context.Context, message string, attempt int) error {
	url := fmt.Sprintf("%s/%s", c.baseURL, c.topic)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBufferString(message))
	if err != nil {
		return &NotificationError{Type: "client", Attempt: attempt, Underlying: err}
	}
	req.Header.Set("Content-Type", "text/plain")
	req.Header.Set("Title", "Catalog change")
	if c.priority != "" {
		req.Header.Set("Priority", c.priority)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NotificationError{Type: "network", Attempt: attempt, Underlying: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return &NotificationError{
			Type:       categorizeHTTPError(resp.StatusCode),
			StatusCode: resp.StatusCode,
			Attempt:    attempt,
			Underlying: fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status),
		}
	}

	log.Debug().
		Int("status_code", resp.StatusCode).
		Int("attempt", attempt).
		Msg("Notification sent successfully")
	return nil
}

// NotifyMutation sends an audit message for m in the background.
func (c *Client) NotifyMutation(ctx context.Context, m MutationInfo) {
	if !c.enabled {
		return
	}

	message := formatMutationMessage(m)
	ctx = context.WithoutCancel(ctx)

	c.pending.Add(1)
	go func() {
		defer c.pending.Done()
		if err := c.SendNotification(ctx, message); err != nil {
			log.Warn().Err(err).Str("op_id", m.ID).Msg("Async notification failed")
		}
	}()
}

// Wait blocks until background notifications have finished.
func (c *Client) Wait() {
	c.pending.Wait()
}

// Close waits for background notifications and logs the delivery totals.
func (c *Client) Close() {
	c.Wait()
	if !c.enabled {
		return
	}
	sent, failed, retries := c.GetMetrics()
	log.Info().
		Int64("sent", sent).
		Int64("failed", failed).
		Int64("retries", retries).
		Msg("Notification client stopped")
}

func formatMutationMessage(m MutationInfo) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "/%s от пользователя %d\n", m.Command, m.UserID)
	if m.Detail != "" {
		sb.WriteString(m.Detail)
		sb.WriteString("\n")
	}
	fmt.Fprintf(&sb, "op: %s", m.ID)
	return sb.String()
}

func (c *Client) isCircuitOpen() bool {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.circuitOpen && time.Since(c.lastFailure) > circuitCooldown {
		c.circuitOpen = false
		c.failures = 0
		log.Info().Msg("Circuit breaker moving to half-open state")
	}
	return c.circuitOpen
}

func (c *Client) recordSuccess() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.totalSent++
	c.failures = 0
	if c.circuitOpen {
		c.circuitOpen = false
		log.Info().Msg("Circuit breaker closed after successful notification")
	}
}

func (c *Client) recordFailure() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.totalFailed++
	c.failures++
	c.lastFailure = time.Now()

	if c.failures >= circuitThreshold && !c.circuitOpen {
		c.circuitOpen = true
		log.Warn().
			Int("failures", c.failures).
			Msg("Circuit breaker opened due to consecutive failures")
	}
}

func (c *Client) addRetries(n int) {
	if n <= 0 {
		return
	}
	c.mutex.Lock()
	c.totalRetries += int64(n)
	c.mutex.Unlock()
}

func categorizeHTTPError(statusCode int) string {
	switch {
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		return "auth"
	case statusCode == http.StatusTooManyRequests:
		return "rate_limit"
	case statusCode >= 400 && statusCode < 500:
		return "client"
	case statusCode >= 500:
		return "server"
	default:
		return "unknown"
	}
}

// GetMetrics returns current notification metrics.
func (c *Client) GetMetrics() (sent, failed, retries int64) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.totalSent, c.totalFailed, c.totalRetries
}
