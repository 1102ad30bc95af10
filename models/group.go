package models

import "strings"

type Group struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

func (g Group) Columns() []Column {
	return []Column{
		{Name: "id", Value: FormatID(g.ID)},
		{Name: "name", Value: g.Name},
	}
}

type GroupInput struct {
	Name string `json:"name"`
}

func (in GroupInput) Fields() []Field {
	return []Field{{Name: "name", Value: in.Name}}
}

// GroupRef is the outcome of resolving a group name typed by the user.
// A blank name means no group was selected; a non-blank name without an ID
// did not match any stored group.
type GroupRef struct {
	Name string
	ID   *int64
}

// Selected reports whether a group name was given at all.
func (r GroupRef) Selected() bool {
	return strings.TrimSpace(r.Name) != ""
}

// Matched reports whether the name resolved to a stored group.
func (r GroupRef) Matched() bool {
	return r.ID != nil
}

// Unmatched reports a non-blank name that resolved to nothing (usually a typo).
func (r GroupRef) Unmatched() bool {
	return r.Selected() && !r.Matched()
}
