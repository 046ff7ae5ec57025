package catalog

import (
	"fmt"
	"strings"
)

// Column positions fixed by the catalog sheet layout.
const (
	ColumnName     = 0
	ColumnCategory = 1
	ColumnPrice    = 2

	// searchColumns is how many leading cells take part in matching.
	searchColumns = 3
)

// CategoryLabel is printed between the price and the category of a result line.
const CategoryLabel = "категория"

// Row is one catalog entry as read from the sheet.
type Row []string

// Cell returns the cell at index, or "" when the row is shorter.
func (r Row) Cell(index int) string {
	if index < 0 || index >= len(r) {
		return ""
	}
	return r[index]
}

// NewRow builds a catalog row in sheet column order.
func NewRow(name, category, price string) Row {
	return Row{name, category, price}
}

// RowFromValues converts raw cell values returned by a spreadsheet API.
func RowFromValues(values []interface{}) Row {
	row := make(Row, len(values))
	for i, v := range values {
		if v == nil {
			continue
		}
		row[i] = fmt.Sprintf("%v", v)
	}
	return row
}

// Values converts the row for spreadsheet write APIs.
func (r Row) Values() []interface{} {
	values := make([]interface{}, len(r))
	for i, cell := range r {
		values[i] = cell
	}
	return values
}

// Format renders a search result line: name | price | категория | category.
func (r Row) Format() string {
	return strings.Join([]string{
		r.Cell(ColumnName),
		r.Cell(ColumnPrice),
		CategoryLabel,
		r.Cell(ColumnCategory),
	}, " | ")
}
