// Package bot routes inbound chat events to catalog search and admin
// commands. It knows nothing about the messaging transport: Handle takes a
// transport-neutral Event and returns the replies to send, in order.
package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"pvc_catalog_bot/internal/catalog"
	"pvc_catalog_bot/internal/chunk"
	"pvc_catalog_bot/internal/notifications"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Commands understood by the router, without the leading slash.
const (
	CommandStart      = "start"
	CommandHelp       = "help"
	CommandAddRow     = "addrow"
	CommandUpdateCell = "updatecell"
	CommandDeleteRow  = "deleterow"
)

// DefaultMaxMessageLength is the Telegram limit for a single text message.
const DefaultMaxMessageLength = 4096

// RowStore is the spreadsheet-backed catalog. Row and column numbers are 1-based.
type RowStore interface {
	ReadAll(ctx context.Context) ([]catalog.Row, error)
	AppendRow(ctx context.Context, row catalog.Row) error
	UpdateCell(ctx context.Context, row, col int, value string) error
	DeleteRow(ctx context.Context, row int) error
}

// Notifier receives an audit record for every applied catalog change.
type Notifier interface {
	NotifyMutation(ctx context.Context, m notifications.MutationInfo)
}

// Event is one inbound message. Command is empty for plain text.
type Event struct {
	UserID  int64
	ChatID  int64
	Command string
	Args    string
	Text    string
}

type Router struct {
	store            RowStore
	admins           Admins
	notifier         Notifier
	maxMessageLength int
}

type Option func(*Router)

func WithNotifier(n Notifier) Option {
	return func(r *Router) {
		r.notifier = n
	}
}

func WithMaxMessageLength(n int) Option {
	return func(r *Router) {
		r.maxMessageLength = n
	}
}

func NewRouter(store RowStore, admins Admins, opts ...Option) *Router {
	r := &Router{
		store:            store,
		admins:           admins,
		maxMessageLength: DefaultMaxMessageLength,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Router) IsAdmin(userID int64) bool {
	return r.admins.Contains(userID)
}

// Handle processes ev and returns the replies for the originating chat.
// A nil result means nothing should be sent.
func (r *Router) Handle(ctx context.Context, ev Event) []string {
	switch ev.Command {
	case "":
		return r.search(ctx, ev)
	case CommandStart, CommandHelp:
		return []string{msgWelcome}
	case CommandAddRow:
		return r.addRow(ctx, ev)
	case CommandUpdateCell:
		return r.updateCell(ctx, ev)
	case CommandDeleteRow:
		return r.deleteRow(ctx, ev)
	default:
		log.Debug().
			Str("command", ev.Command).
			Int64("user_id", ev.UserID).
			Msg("Ignoring unknown command")
		return nil
	}
}

func (r *Router) search(ctx context.Context, ev Event) []string {
	query := catalog.NormalizeQuery(ev.Text)
	if query == "" {
		return []string{msgEmptyQuery}
	}

	rows, err := r.store.ReadAll(ctx)
	if err != nil {
		var notFound *catalog.WorksheetNotFoundError
		if errors.As(err, &notFound) {
			log.Warn().Str("worksheet", notFound.Name).Msg("Catalog worksheet not found")
			return []string{fmt.Sprintf(msgSheetNotFound, notFound.Name)}
		}
		log.Error().Err(err).Int64("user_id", ev.UserID).Msg("Failed to read catalog")
		return []string{msgSearchFailed}
	}

	lines := catalog.Search(rows, query)
	log.Debug().
		Str("query", query).
		Int("rows", len(rows)).
		Int("matches", len(lines)).
		Int64("user_id", ev.UserID).
		Msg("Catalog search")

	if len(lines) == 0 {
		return []string{msgNothingFound}
	}
	return chunk.Split(strings.Join(lines, "\n"), r.maxMessageLength)
}

func (r *Router) addRow(ctx context.Context, ev Event) []string {
	if !r.IsAdmin(ev.UserID) {
		return r.denied(ev)
	}
	args, err := ParseAddRowArgs(ev.Args)
	if err != nil {
		return r.usage(ev, err, msgAddRowFailed)
	}

	return r.mutate(ctx, ev, mutation{
		detail: fmt.Sprintf("%s, %s, %s", args.Title, args.Category, args.Price),
		done:   msgAddRowDone,
		failed: msgAddRowFailed,
		apply: func(ctx context.Context) error {
			return r.store.AppendRow(ctx, catalog.NewRow(args.Title, args.Category, args.Price))
		},
	})
}

func (r *Router) updateCell(ctx context.Context, ev Event) []string {
	if !r.IsAdmin(ev.UserID) {
		return r.denied(ev)
	}
	args, err := ParseUpdateCellArgs(ev.Args)
	if err != nil {
		return r.usage(ev, err, msgUpdateCellFailed)
	}

	return r.mutate(ctx, ev, mutation{
		detail: fmt.Sprintf("row=%d col=%d value=%q", args.Row, args.Col, args.Value),
		done:   msgUpdateCellDone,
		failed: msgUpdateCellFailed,
		apply: func(ctx context.Context) error {
			return r.store.UpdateCell(ctx, args.Row, args.Col, args.Value)
		},
	})
}

func (r *Router) deleteRow(ctx context.Context, ev Event) []string {
	if !r.IsAdmin(ev.UserID) {
		return r.denied(ev)
	}
	args, err := ParseDeleteRowArgs(ev.Args)
	if err != nil {
		return r.usage(ev, err, msgDeleteRowFailed)
	}

	return r.mutate(ctx, ev, mutation{
		detail: fmt.Sprintf("row=%d", args.Row),
		done:   msgDeleteRowDone,
		failed: msgDeleteRowFailed,
		apply: func(ctx context.Context) error {
			return r.store.DeleteRow(ctx, args.Row)
		},
	})
}

type mutation struct {
	detail string
	done   string
	failed string
	apply  func(ctx context.Context) error
}

// mutate applies a catalog change exactly once. Failures are logged and
// answered with the command's generic apology.
func (r *Router) mutate(ctx context.Context, ev Event, m mutation) []string {
	opID := uuid.NewString()
	logger := log.With().
		Str("op_id", opID).
		Str("command", ev.Command).
		Int64("user_id", ev.UserID).
		Str("detail", m.detail).
		Logger()

	if err := m.apply(ctx); err != nil {
		logger.Error().Err(err).Msg("Catalog change failed")
		return []string{m.failed}
	}
	logger.Info().Msg("Catalog change applied")

	if r.notifier != nil {
		r.notifier.NotifyMutation(ctx, notifications.MutationInfo{
			ID:      opID,
			UserID:  ev.UserID,
			Command: ev.Command,
			Detail:  m.detail,
		})
	}
	return []string{m.done}
}

func (r *Router) denied(ev Event) []string {
	log.Debug().
		Str("command", ev.Command).
		Int64("user_id", ev.UserID).
		Msg("Rejected command from non-admin")
	return []string{msgNoPermission}
}

// usage answers an argument error with the command's usage text. Errors
// that carry no usage text get the command's failure reply.
func (r *Router) usage(ev Event, err error, failed string) []string {
	var usageErr *UsageError
	if errors.As(err, &usageErr) {
		log.Debug().Err(err).Int64("user_id", ev.UserID).Msg("Invalid command arguments")
		return []string{usageErr.Usage}
	}
	log.Error().
		Err(err).
		Str("command", ev.Command).
		Int64("user_id", ev.UserID).
		Msg("Failed to parse command arguments")
	return []string{failed}
}
