package repository

import (
	"strings"

	"student-records/models"
)

// Filter is a case-insensitive substring search over displayed columns.
// A blank Column searches every column.
type Filter struct {
	Query  string
	Column string
}

type columnar interface {
	Columns() []models.Column
}

// applyFilter runs in Go rather than SQL: SQLite's LOWER only folds ASCII and
// names are mostly Cyrillic.
func applyFilter[T columnar](items []T, f Filter) ([]T, error) {
	column := strings.TrimSpace(f.Column)
	if column != "" {
		var zero T
		if !hasColumn(zero.Columns(), column) {
			return nil, &models.ValidationError{Field: column, Rule: models.RuleUnknownColumn}
		}
	}

	query := strings.ToLower(strings.TrimSpace(f.Query))
	if query == "" {
		return items, nil
	}

	matched := make([]T, 0, len(items))
	for _, item := range items {
		for _, c := range item.Columns() {
			if column != "" && c.Name != column {
				continue
			}
			if strings.Contains(strings.ToLower(c.Value), query) {
				matched = append(matched, item)
				break
			}
		}
	}
	return matched, nil
}

func hasColumn(columns []models.Column, name string) bool {
	for _, c := range columns {
		if c.Name == name {
			return true
		}
	}
	return false
}
