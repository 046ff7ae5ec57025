package telegram

import (
	"context"

	"pvc_catalog_bot/internal/chunk"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// API is the part of *tgbotapi.BotAPI used for replies.
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Sender delivers replies as plain-text messages under a global rate limit.
type Sender struct {
	api     API
	limiter *rate.Limiter
}

// NewSender allows perSecond messages per second across all chats. A
// non-positive rate disables limiting.
func NewSender(api API, perSecond float64) *Sender {
	limit := rate.Inf
	if perSecond > 0 {
		limit = rate.Limit(perSecond)
	}
	return &Sender{
		api:     api,
		limiter: rate.NewLimiter(limit, 1),
	}
}

// Reply sends texts to chatID in order. A text over MaxMessageLength UTF-16
// units goes out as several messages. Failed sends are logged and the
// remaining texts are still attempted.
func (s *Sender) Reply(ctx context.Context, chatID int64, texts []string) {
	texts = fitMessages(texts)
	for i, text := range texts {
		if text == "" {
			continue
		}
		if err := s.limiter.Wait(ctx); err != nil {
			log.Warn().
				Err(err).
				Int64("chat_id", chatID).
				Int("dropped", len(texts)-i).
				Msg("Stopped sending replies")
			return
		}

		if _, err := s.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
			log.Error().
				Err(err).
				Int64("chat_id", chatID).
				Int("part", i+1).
				Int("parts", len(texts)).
				Msg("Failed to send reply")
		}
	}
}

func fitMessages(texts []string) []string {
	var out []string
	for i, text := range texts {
		if chunk.UTF16Len(text) <= MaxMessageLength {
			if out != nil {
				out = append(out, text)
			}
			continue
		}
		if out == nil {
			out = append(make([]string, 0, len(texts)+1), texts[:i]...)
		}
		out = append(out, chunk.SplitUTF16(text, MaxMessageLength)...)
	}
	if out == nil {
		return texts
	}
	return out
}
