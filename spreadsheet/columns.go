package spreadsheet

import (
	"strings"

	"student-records/models"
)

// StudentColumns is the student sheet header in display order.
var StudentColumns = []string{"last_name", "first_name", "middle_name", "birth_date", "phone", "email", "address", "group_name"}

// PeriodColumns is the education period sheet header.
var PeriodColumns = []string{"student_email", "start_date", "end_date", "group_name"}

// aliases maps the labels people type into sheet headers onto field names.
var aliases = map[string]string{
	"фамилия":        "last_name",
	"имя":            "first_name",
	"отчество":       "middle_name",
	"дата рождения":  "birth_date",
	"телефон":        "phone",
	"e-mail":         "email",
	"почта":          "email",
	"адрес":          "address",
	"группа":         "group_name",
	"email студента": "student_email",
	"дата начала":    "start_date",
	"дата окончания": "end_date",
}

func canonical(label string) string {
	label = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(label, "\uFEFF")))
	if name, ok := aliases[label]; ok {
		return name
	}
	return label
}

// header maps field names to column positions.
type header map[string]int

// parseHeader indexes the header row and fails on the first required field
// that has no column.
func parseHeader(row []string, required []string) (header, error) {
	h := header{}
	for i, label := range row {
		name := canonical(label)
		if _, seen := h[name]; !seen && name != "" {
			h[name] = i
		}
	}
	for _, name := range required {
		if _, ok := h[name]; !ok {
			return nil, &models.ValidationError{Field: name, Rule: models.RuleMissingColumn}
		}
	}
	return h, nil
}

func (h header) get(row []string, name string) string {
	i, ok := h[name]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

func blankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
