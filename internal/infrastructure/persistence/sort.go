package persistence

import "strings"

// sortColumns whitelists the order_by values a list accepts. Anything else falls back,
// so request input never reaches an ORDER BY clause verbatim.
type sortColumns struct {
	columns  map[string]string
	fallback string
}

var documentSort = sortColumns{
	columns: map[string]string{
		"created_at":    "created_at",
		"updated_at":    "updated_at",
		"document_date": "document_date",
		"date":          "document_date",
		"reference_no":  "reference_no",
		"total":         "total",
	},
	fallback: "created_at",
}

func (s sortColumns) column(field string) string {
	if col, ok := s.columns[strings.ToLower(strings.TrimSpace(field))]; ok {
		return col
	}
	return s.fallback
}

const (
	ascending  = "ASC"
	descending = "DESC"
)

// sortDirection honours an explicit asc or desc and falls back to def for anything else
func sortDirection(dir, def string) string {
	switch strings.ToLower(strings.TrimSpace(dir)) {
	case "asc":
		return ascending
	case "desc":
		return descending
	}
	return def
}
