package models

import (
	"errors"
	"fmt"
)

// Error kinds, usable with errors.Is.
var (
	ErrValidation  = errors.New("validation error")
	ErrNotFound    = errors.New("not found")
	ErrReferential = errors.New("referential integrity violation")
	ErrStorage     = errors.New("storage error")
)

// Validation rule identifiers.
const (
	RuleRequired       = "required"
	RuleEmailFormat    = "email_format"
	RulePhoneFormat    = "phone_format"
	RuleDateFormat     = "date_format"
	RuleDateRange      = "date_range"
	RuleDuplicateEmail = "duplicate_email"
	RuleDuplicatePhone = "duplicate_phone"
	RuleDuplicateName  = "duplicate_name"
	RuleUnknownColumn  = "unknown_column"
	RuleMissingColumn  = "missing_column"
	RuleUnknownEmail   = "unknown_email"
	RuleFileFormat     = "file_format"
)

// ValidationError names the field and the rule it violated.
type ValidationError struct {
	Field string
	Rule  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s: %s", e.Field, ruleMessages[e.Rule])
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Message is the actionable text shown to the user.
func (e *ValidationError) Message() string {
	msg, ok := ruleMessages[e.Rule]
	if !ok {
		msg = e.Rule
	}
	return fmt.Sprintf("%s: %s", e.Field, msg)
}

var ruleMessages = map[string]string{
	RuleRequired:       "please fill in this field",
	RuleEmailFormat:    "please enter a valid email",
	RulePhoneFormat:    "please enter a valid phone number",
	RuleDateFormat:     "please enter a date as dd.MM.yyyy",
	RuleDateRange:      "end date is before start date",
	RuleDuplicateEmail: "email already exists",
	RuleDuplicatePhone: "phone already exists",
	RuleDuplicateName:  "name already exists",
	RuleUnknownColumn:  "unknown column",
	RuleMissingColumn:  "column is missing from the header",
	RuleUnknownEmail:   "no student with this email",
	RuleFileFormat:     "use a .xlsx or .csv file",
}

// NotFoundError is returned for lookups and mutations on a missing id.
type NotFoundError struct {
	Entity string
	ID     int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// ReferentialError is returned when the store rejects a dangling reference.
type ReferentialError struct {
	Entity string
	Field  string
	Err    error
}

func (e *ReferentialError) Error() string {
	return fmt.Sprintf("%s: %s references a missing record: %v", e.Entity, e.Field, e.Err)
}

func (e *ReferentialError) Unwrap() []error { return []error{ErrReferential, e.Err} }

// StorageError wraps any driver or I/O failure.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() []error { return []error{ErrStorage, e.Err} }

// AsValidation is a shorthand for errors.As with *ValidationError.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	ok := errors.As(err, &ve)
	return ve, ok
}
