package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

var films = []Row{
	{"Пленка А", "Эконом", "100"},
	{"Пленка Б", "Премиум", "200"},
}

func TestSearchFormatsMatches(t *testing.T) {
	got := Search(films, "пленка")
	assert.Equal(t, []string{
		"Пленка А | 100 | категория | Эконом",
		"Пленка Б | 200 | категория | Премиум",
	}, got)
}

func TestSearchNoMatches(t *testing.T) {
	assert.Empty(t, Search(films, "зелёный"))
}

func TestSearchNormalizesQueryAndCells(t *testing.T) {
	rows := []Row{{"  ДУБ Сонома  ", "Стандарт", "150"}}

	assert.Len(t, Search(rows, "  дуб СОНОМА "), 1)
	assert.Len(t, Search(rows, "станд"), 1)
	assert.Len(t, Search(rows, "150"), 1)
}

func TestSearchIgnoresColumnsAfterPrice(t *testing.T) {
	rows := []Row{{"Пленка", "Эконом", "100", "артикул-777"}}
	assert.Empty(t, Search(rows, "777"))
}

func TestSearchShortRows(t *testing.T) {
	rows := []Row{
		{"Только имя"},
		{},
		{"Имя", "Категория"},
	}

	assert.Equal(t, []string{"Только имя |  | категория | "}, Search(rows, "только"))
	assert.Equal(t, []string{"Имя |  | категория | Категория"}, Search(rows, "катег"))
}

func TestSearchKeepsDuplicatesAndOrder(t *testing.T) {
	rows := []Row{
		{"Белый глянец", "Премиум", "300"},
		{"Серый", "Эконом", "90"},
		{"Белый глянец", "Премиум", "300"},
		{"Белый мат", "Стандарт", "210"},
	}

	got := Search(rows, "белый")
	assert.Equal(t, []string{
		"Белый глянец | 300 | категория | Премиум",
		"Белый глянец | 300 | категория | Премиум",
		"Белый мат | 210 | категория | Стандарт",
	}, got)
}

func TestSearchEmptyQueryMatchesEveryNonEmptyRow(t *testing.T) {
	rows := append([]Row{{}}, films...)
	assert.Len(t, Search(rows, "   "), len(films))
}

func TestSearchSoundAndComplete(t *testing.T) {
	rows := []Row{
		{"Орех", "Эконом", "110"},
		{"Орех темный", "Премиум", "250"},
		{"Ясень", "Орех-серия", "180"},
		{"Венге", "Стандарт", "1100"},
		{"Клен"},
	}

	for _, query := range []string{"орех", "11", "ен", "премиум", "нет такого", "клен"} {
		t.Run(query, func(t *testing.T) {
			var want []string
			for _, row := range rows {
				hit := false
				for i := 0; i < len(row) && i < 3; i++ {
					if strings.Contains(strings.ToLower(strings.TrimSpace(row[i])), query) {
						hit = true
					}
				}
				if hit {
					want = append(want, row.Format())
				}
			}
			assert.Equal(t, want, Search(rows, query))
		})
	}
}

func TestRowFromValues(t *testing.T) {
	row := RowFromValues([]interface{}{"Пленка", nil, 150})
	assert.Equal(t, Row{"Пленка", "", "150"}, row)
	assert.Equal(t, []interface{}{"Пленка", "", "150"}, row.Values())
}
