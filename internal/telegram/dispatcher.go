package telegram

import (
	"context"
	"runtime/debug"

	"pvc_catalog_bot/internal/bot"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Handler turns an event into replies. *bot.Router implements it.
type Handler interface {
	Handle(ctx context.Context, ev bot.Event) []string
}

// Dispatcher reads updates and handles each one on a bounded worker pool.
// Replies to one update are sent in order; there is no ordering between
// updates.
type Dispatcher struct {
	handler Handler
	sender  *Sender
	workers int
}

func NewDispatcher(handler Handler, sender *Sender, workers int) *Dispatcher {
	if workers < 1 {
		workers = 1
	}
	return &Dispatcher{
		handler: handler,
		sender:  sender,
		workers: workers,
	}
}

// Run consumes updates until ctx is done or the channel is closed. On
// cancellation the updates already queued in the channel are still handled,
// then Run waits for every handler to finish.
func (d *Dispatcher) Run(ctx context.Context, updates <-chan tgbotapi.Update) error {
	var g errgroup.Group
	g.SetLimit(d.workers)
	handlerCtx := context.WithoutCancel(ctx)

	log.Info().Int("workers", d.workers).Msg("Dispatcher started")
	defer log.Info().Msg("Dispatcher stopped")

	for {
		select {
		case <-ctx.Done():
			drained := d.drain(handlerCtx, &g, updates)
			log.Info().Int("drained", drained).Msg("Dispatcher stopping, handled queued updates")
			return g.Wait()
		case u, ok := <-updates:
			if !ok {
				return g.Wait()
			}
			d.dispatch(handlerCtx, &g, u)
		}
	}
}

// drain dispatches the updates already buffered in the channel without
// waiting for new ones and reports how many it took.
func (d *Dispatcher) drain(ctx context.Context, g *errgroup.Group, updates <-chan tgbotapi.Update) int {
	n := 0
	for {
		select {
		case u, ok := <-updates:
			if !ok {
				return n
			}
			d.dispatch(ctx, g, u)
			n++
		default:
			return n
		}
	}
}

func (d *Dispatcher) dispatch(ctx context.Context, g *errgroup.Group, u tgbotapi.Update) {
	ev, ok := EventFromUpdate(u)
	if !ok {
		log.Debug().Int("update_id", u.UpdateID).Msg("Ignoring non-message update")
		return
	}
	g.Go(func() error {
		d.handle(ctx, u.UpdateID, ev)
		return nil
	})
}

func (d *Dispatcher) handle(ctx context.Context, updateID int, ev bot.Event) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().
				Interface("panic", r).
				Int("update_id", updateID).
				Int64("user_id", ev.UserID).
				Str("command", ev.Command).
				Bytes("stack", debug.Stack()).
				Msg("Handler panicked")
		}
	}()

	replies := d.handler.Handle(ctx, ev)
	d.sender.Reply(ctx, ev.ChatID, replies)
}
