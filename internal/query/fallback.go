package query

import (
	"strings"

	"alchemist-backend/internal/entity"
)

const fallbackExplanation = "No pattern matched; used fallback text search."

// fallbackSearch is the last resort: a case-insensitive substring scan of
// the whole query text against the string form of every field in every row
// of every dataset. Matches across kinds are concatenated in dataset order.
func fallbackSearch(text string, datasets []*entity.Entity) *Result {
	needle := strings.ToLower(strings.TrimSpace(text))
	rows := []ResultRow{}

	if needle != "" {
		for _, e := range datasets {
			rows = append(rows, collect(e, func(row entity.Row) bool {
				for field := range row {
					if strings.Contains(strings.ToLower(row.String(field)), needle) {
						return true
					}
				}
				return false
			})...)
		}
	}

	return &Result{Rows: rows, Explanation: fallbackExplanation}
}
