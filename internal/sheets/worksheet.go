package sheets

import (
	"context"
	"fmt"
	"strings"

	"pvc_catalog_bot/internal/catalog"

	"github.com/rs/zerolog/log"
)

// Worksheet is the catalog row store backed by one tab of a spreadsheet.
// The tab is looked up by title on every call, so renaming or removing it
// is noticed immediately.
type Worksheet struct {
	client        *Client
	spreadsheetID string
	title         string
}

func NewWorksheet(client *Client, spreadsheetID, title string) *Worksheet {
	return &Worksheet{
		client:        client,
		spreadsheetID: spreadsheetID,
		title:         title,
	}
}

func (w *Worksheet) Title() string {
	return w.title
}

func (w *Worksheet) ReadAll(ctx context.Context) ([]catalog.Row, error) {
	if _, err := w.client.SheetID(ctx, w.spreadsheetID, w.title); err != nil {
		return nil, err
	}

	values, err := w.client.ReadSheet(ctx, w.spreadsheetID, quoteTitle(w.title))
	if err != nil {
		return nil, err
	}

	rows := make([]catalog.Row, 0, len(values))
	for _, v := range values {
		rows = append(rows, catalog.RowFromValues(v))
	}
	log.Debug().
		Str("worksheet", w.title).
		Int("rows", len(rows)).
		Msg("Read catalog worksheet")
	return rows, nil
}

func (w *Worksheet) AppendRow(ctx context.Context, row catalog.Row) error {
	if _, err := w.client.SheetID(ctx, w.spreadsheetID, w.title); err != nil {
		return err
	}
	return w.client.AppendRows(ctx, w.spreadsheetID, quoteTitle(w.title)+"!A1", [][]interface{}{row.Values()})
}

func (w *Worksheet) UpdateCell(ctx context.Context, row, col int, value string) error {
	if _, err := w.client.SheetID(ctx, w.spreadsheetID, w.title); err != nil {
		return err
	}
	return w.client.UpdateRange(ctx, w.spreadsheetID, cellRange(w.title, row, col), [][]interface{}{{value}})
}

func (w *Worksheet) DeleteRow(ctx context.Context, row int) error {
	if row < 1 {
		return fmt.Errorf("row index %d out of range", row)
	}
	sheetID, err := w.client.SheetID(ctx, w.spreadsheetID, w.title)
	if err != nil {
		return err
	}
	return w.client.DeleteRows(ctx, w.spreadsheetID, sheetID, int64(row-1), int64(row))
}

// quoteTitle renders a worksheet title for A1 notation.
func quoteTitle(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}

// cellRange is the A1 reference of a single 1-based cell.
func cellRange(title string, row, col int) string {
	return fmt.Sprintf("%s!%s%d", quoteTitle(title), columnName(col), row)
}

// columnName converts a 1-based column number to its letter form (1 -> A, 27 -> AA).
func columnName(col int) string {
	var name []byte
	for col > 0 {
		col--
		name = append([]byte{byte('A' + col%26)}, name...)
		col /= 26
	}
	return string(name)
}
