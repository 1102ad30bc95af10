// Package validation checks proposed records before they are written.
//
// Rules run in a fixed order and the first failure wins:
//  1. required: every non-optional field is non-blank after trimming
//  2. patterns: email, then phone, then date fields
//  3. uniqueness against the store: email, phone, group name
//
// Steps 1 and 2 are pure; step 3 reads the store through a Lookup and never writes.
package validation

import (
	"context"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"student-records/models"
)

var (
	emailPattern = regexp.MustCompile(`^[^@]+@[^@]+\.[^@]+`)
	phonePattern = regexp.MustCompile(`^\+?\d{10,15}$`)
)

// Custom validator tags.
const (
	tagEmail = "student_email"
	tagPhone = "student_phone"
	tagDate  = "display_date"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	mustRegister(v, tagEmail, func(fl validator.FieldLevel) bool {
		return validEmail(fl.Field().String())
	})
	mustRegister(v, tagPhone, func(fl validator.FieldLevel) bool {
		return validPhone(fl.Field().String())
	})
	mustRegister(v, tagDate, func(fl validator.FieldLevel) bool {
		_, err := models.ParseDate(fl.Field().String())
		return err == nil
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

// patternOrder is the order pattern rules are applied across a form.
var patternOrder = []struct {
	kind models.FieldKind
	tag  string
	rule string
}{
	{models.FieldEmail, tagEmail, models.RuleEmailFormat},
	{models.FieldPhone, tagPhone, models.RulePhoneFormat},
	{models.FieldDate, tagDate, models.RuleDateFormat},
}

// Fields applies the required and pattern rules to a form.
func Fields(fields []models.Field) error {
	for _, f := range fields {
		if f.Kind == models.FieldOptional {
			continue
		}
		if validate.Var(strings.TrimSpace(f.Value), "required") != nil {
			return &models.ValidationError{Field: f.Name, Rule: models.RuleRequired}
		}
	}

	for _, p := range patternOrder {
		for _, f := range fields {
			if f.Kind != p.kind {
				continue
			}
			if validate.Var(f.Value, p.tag) != nil {
				return &models.ValidationError{Field: f.Name, Rule: p.rule}
			}
		}
	}
	return nil
}

func validEmail(s string) bool { return emailPattern.MatchString(s) }

func validPhone(s string) bool { return phonePattern.MatchString(s) }

// Lookup answers uniqueness questions. exceptID excludes the record being
// updated; 0 excludes nothing.
type Lookup interface {
	EmailTaken(ctx context.Context, email string, exceptID int64) (bool, error)
	PhoneTaken(ctx context.Context, phone string, exceptID int64) (bool, error)
	GroupNameTaken(ctx context.Context, name string, exceptID int64) (bool, error)
}

// Engine runs all rules, including the ones that need the store.
type Engine struct {
	lookup Lookup
}

func New(lookup Lookup) *Engine {
	return &Engine{lookup: lookup}
}

// Student validates a student form. selfID is the id being updated, or 0 on create.
func (e *Engine) Student(ctx context.Context, in models.StudentInput, selfID int64) error {
	if err := Fields(in.Fields()); err != nil {
		return err
	}

	taken, err := e.lookup.EmailTaken(ctx, in.Email, selfID)
	if err != nil {
		return err
	}
	if taken {
		return &models.ValidationError{Field: "email", Rule: models.RuleDuplicateEmail}
	}

	taken, err = e.lookup.PhoneTaken(ctx, in.Phone, selfID)
	if err != nil {
		return err
	}
	if taken {
		return &models.ValidationError{Field: "phone", Rule: models.RuleDuplicatePhone}
	}
	return nil
}

// Group validates a group form. selfID is the id being updated, or 0 on create.
func (e *Engine) Group(ctx context.Context, in models.GroupInput, selfID int64) error {
	if err := Fields(in.Fields()); err != nil {
		return err
	}

	taken, err := e.lookup.GroupNameTaken(ctx, in.Name, selfID)
	if err != nil {
		return err
	}
	if taken {
		return &models.ValidationError{Field: "name", Rule: models.RuleDuplicateName}
	}
	return nil
}

func (e *Engine) Event(in models.EventInput) error {
	return Fields(in.Fields())
}

// Period also rejects a window that ends before it starts.
func (e *Engine) Period(in models.EducationPeriodInput) error {
	if err := Fields(in.Fields()); err != nil {
		return err
	}
	return DateRange(in.StartDate, in.EndDate)
}

// DateRange checks two already well-formed dates for start <= end.
func DateRange(start, end string) error {
	from, err := models.ParseDate(start)
	if err != nil {
		return &models.ValidationError{Field: "start_date", Rule: models.RuleDateFormat}
	}
	to, err := models.ParseDate(end)
	if err != nil {
		return &models.ValidationError{Field: "end_date", Rule: models.RuleDateFormat}
	}
	if to.Before(from.Time) {
		return &models.ValidationError{Field: "end_date", Rule: models.RuleDateRange}
	}
	return nil
}
