package xlsxstore

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"pvc_catalog_bot/internal/catalog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const testSheet = "для Вадима"

func newWorkbook(t *testing.T, rows ...[]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.xlsx")

	f := excelize.NewFile()
	defer f.Close()
	_, err := f.NewSheet(testSheet)
	require.NoError(t, err)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		values := catalog.Row(row).Values()
		require.NoError(t, f.SetSheetRow(testSheet, cell, &values))
	}
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestReadAll(t *testing.T) {
	path := newWorkbook(t,
		[]string{"Пленка А", "Эконом", "100"},
		[]string{"Пленка Б", "Премиум", "200"},
	)
	store := New(path, testSheet)

	rows, err := store.ReadAll(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []catalog.Row{
		{"Пленка А", "Эконом", "100"},
		{"Пленка Б", "Премиум", "200"},
	}, rows)
	assert.Equal(t, testSheet, store.Title())
}

func TestMissingWorksheet(t *testing.T) {
	path := newWorkbook(t)
	store := New(path, "Архив")

	_, err := store.ReadAll(context.Background())
	var notFound *catalog.WorksheetNotFoundError
	require.True(t, errors.As(err, &notFound), "got %v", err)
	assert.Equal(t, "Архив", notFound.Name)

	assert.True(t, errors.As(store.AppendRow(context.Background(), catalog.NewRow("a", "b", "c")), &notFound))
}

func TestMissingWorkbook(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "absent.xlsx"), testSheet)

	_, err := store.ReadAll(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open workbook")
}

func TestAppendRow(t *testing.T) {
	path := newWorkbook(t, []string{"Пленка А", "Эконом", "100"})
	store := New(path, testSheet)
	ctx := context.Background()

	require.NoError(t, store.AppendRow(ctx, catalog.NewRow("Плёнка В", "Стандарт", "150")))

	rows, err := store.ReadAll(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, catalog.Row{"Плёнка В", "Стандарт", "150"}, rows[1])
}

func TestUpdateCell(t *testing.T) {
	path := newWorkbook(t,
		[]string{"Пленка А", "Эконом", "100"},
		[]string{"Пленка Б", "Премиум", "200"},
	)
	store := New(path, testSheet)
	ctx := context.Background()

	require.NoError(t, store.UpdateCell(ctx, 2, 3, "170"))

	rows, err := store.ReadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, catalog.Row{"Пленка Б", "Премиум", "170"}, rows[1])
}

func TestUpdateCellRejectsZeroIndex(t *testing.T) {
	store := New(newWorkbook(t), testSheet)
	assert.Error(t, store.UpdateCell(context.Background(), 0, 1, "x"))
}

func TestDeleteRow(t *testing.T) {
	path := newWorkbook(t,
		[]string{"Пленка А", "Эконом", "100"},
		[]string{"Пленка Б", "Премиум", "200"},
		[]string{"Пленка В", "Стандарт", "150"},
	)
	store := New(path, testSheet)
	ctx := context.Background()

	require.NoError(t, store.DeleteRow(ctx, 2))

	rows, err := store.ReadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []catalog.Row{
		{"Пленка А", "Эконом", "100"},
		{"Пленка В", "Стандарт", "150"},
	}, rows)

	assert.Error(t, store.DeleteRow(ctx, 0))
}

func TestConcurrentAppends(t *testing.T) {
	store := New(newWorkbook(t), testSheet)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, store.AppendRow(ctx, catalog.NewRow(fmt.Sprintf("Плёнка %d", i), "Стандарт", "150")))
		}(i)
	}
	wg.Wait()

	rows, err := store.ReadAll(ctx)
	require.NoError(t, err)
	assert.Len(t, rows, 8)
}
