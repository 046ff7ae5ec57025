package catalog

import (
	"strings"
)

// NormalizeQuery lowercases and trims text the same way cells are compared.
func NormalizeQuery(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Matches reports whether query is a substring of one of the first three
// normalized cells. The query must already be normalized.
func (r Row) Matches(query string) bool {
	n := min(len(r), searchColumns)
	for i := 0; i < n; i++ {
		if strings.Contains(NormalizeQuery(r[i]), query) {
			return true
		}
	}
	return false
}

// Search returns one formatted line per matching row, in row order.
// An empty query matches every row; callers that want to refuse it must
// check before calling.
func Search(rows []Row, query string) []string {
	query = NormalizeQuery(query)

	var result []string
	for _, row := range rows {
		if row.Matches(query) {
			result = append(result, row.Format())
		}
	}
	return result
}
