// Package telegram connects the catalog router to the Telegram Bot API.
package telegram

import (
	"strings"

	"pvc_catalog_bot/internal/bot"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// MaxMessageLength is the Telegram limit for one text message. Telegram counts
// it in UTF-16 code units, while the router chunks by runes; Sender re-splits
// any reply that is still too long once emoji count as two units.
const MaxMessageLength = 4096

// EventFromUpdate converts an update into a router event. Only new text
// messages are handled; everything else reports false.
func EventFromUpdate(u tgbotapi.Update) (bot.Event, bool) {
	msg := u.Message
	if msg == nil || msg.Chat == nil || msg.Text == "" {
		return bot.Event{}, false
	}

	ev := bot.Event{
		ChatID: msg.Chat.ID,
		Text:   msg.Text,
	}
	if msg.From != nil {
		ev.UserID = msg.From.ID
	}
	if msg.IsCommand() {
		ev.Command = strings.ToLower(msg.Command())
		ev.Args = strings.TrimSpace(msg.CommandArguments())
		ev.Text = ""
	}
	return ev, true
}
