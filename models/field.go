package models

import "strconv"

// FieldKind selects which pattern rule applies to a field.
type FieldKind int

const (
	FieldText FieldKind = iota
	FieldEmail
	FieldPhone
	FieldDate
	// FieldOptional may be blank; it carries no pattern.
	FieldOptional
)

// Field is one named raw value of a proposed record, in form order.
type Field struct {
	Name  string
	Value string
	Kind  FieldKind
}

// Column is one displayed column of a stored record.
type Column struct {
	Name  string
	Value string
}

// FormatID renders an id the way it appears in tables and search.
func FormatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
