// Package xlsxstore keeps the catalog in a local Excel workbook. It mirrors
// the Google Sheets worksheet and is used for development and offline runs.
package xlsxstore

import (
	"context"
	"fmt"
	"sync"

	"pvc_catalog_bot/internal/catalog"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
)

// Store reopens the workbook on every call so edits made in Excel while the
// bot runs are picked up.
type Store struct {
	mu    sync.Mutex
	path  string
	sheet string
}

func New(path, sheet string) *Store {
	return &Store{path: path, sheet: sheet}
}

func (s *Store) Title() string {
	return s.sheet
}

func (s *Store) ReadAll(ctx context.Context) ([]catalog.Row, error) {
	var rows []catalog.Row
	err := s.withFile(false, func(f *excelize.File) error {
		values, err := f.GetRows(s.sheet)
		if err != nil {
			return fmt.Errorf("failed to read rows: %w", err)
		}
		rows = make([]catalog.Row, 0, len(values))
		for _, v := range values {
			rows = append(rows, catalog.Row(v))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Debug().
		Str("workbook", s.path).
		Str("worksheet", s.sheet).
		Int("rows", len(rows)).
		Msg("Read catalog workbook")
	return rows, nil
}

func (s *Store) AppendRow(ctx context.Context, row catalog.Row) error {
	return s.withFile(true, func(f *excelize.File) error {
		existing, err := f.GetRows(s.sheet)
		if err != nil {
			return fmt.Errorf("failed to read rows: %w", err)
		}
		cell, err := excelize.CoordinatesToCellName(1, len(existing)+1)
		if err != nil {
			return err
		}
		values := row.Values()
		if err := f.SetSheetRow(s.sheet, cell, &values); err != nil {
			return fmt.Errorf("failed to append row: %w", err)
		}
		return nil
	})
}

func (s *Store) UpdateCell(ctx context.Context, row, col int, value string) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return fmt.Errorf("invalid cell (%d, %d): %w", row, col, err)
	}
	return s.withFile(true, func(f *excelize.File) error {
		if err := f.SetCellValue(s.sheet, cell, value); err != nil {
			return fmt.Errorf("failed to update cell %s: %w", cell, err)
		}
		return nil
	})
}

func (s *Store) DeleteRow(ctx context.Context, row int) error {
	if row < 1 {
		return fmt.Errorf("row index %d out of range", row)
	}
	return s.withFile(true, func(f *excelize.File) error {
		if err := f.RemoveRow(s.sheet, row); err != nil {
			return fmt.Errorf("failed to delete row %d: %w", row, err)
		}
		return nil
	})
}

// withFile opens the workbook, checks the worksheet exists and runs fn.
// When save is set the workbook is written back after fn succeeds.
func (s *Store) withFile(save bool, fn func(f *excelize.File) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return fmt.Errorf("failed to open workbook: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Warn().Err(err).Str("workbook", s.path).Msg("Failed to close workbook")
		}
	}()

	idx, err := f.GetSheetIndex(s.sheet)
	if err != nil {
		return fmt.Errorf("failed to look up worksheet: %w", err)
	}
	if idx == -1 {
		return &catalog.WorksheetNotFoundError{Name: s.sheet}
	}

	if err := fn(f); err != nil {
		return err
	}
	if !save {
		return nil
	}
	if err := f.Save(); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}
