package repository

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"

	"student-records/models"
)

// PostgreSQL SQLSTATE codes.
const (
	pqForeignKeyViolation = "23503"
	pqUniqueViolation     = "23505"
)

// refFields names the referencing column each entity can violate.
var refFields = map[string]string{
	"student": "group_id",
	"event":   "student_id",
	"period":  "student_id",
}

// classify maps a driver error onto the models error kinds. id is used for
// not-found results and may be 0.
func classify(entity, op string, id int64, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return &models.NotFoundError{Entity: entity, ID: id}
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.ExtendedCode {
		case sqlite3.ErrConstraintForeignKey:
			return &models.ReferentialError{Entity: entity, Field: refFields[entity], Err: err}
		case sqlite3.ErrConstraintUnique:
			return uniqueViolation(sqliteErr.Error())
		}
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case pqForeignKeyViolation:
			return &models.ReferentialError{Entity: entity, Field: refFields[entity], Err: err}
		case pqUniqueViolation:
			return uniqueViolation(pqErr.Message + " " + pqErr.Constraint)
		}
	}

	return &models.StorageError{Op: entity + " " + op, Err: err}
}

// uniqueViolation covers the race where two writers pass validation at once
// and the store's UNIQUE constraint catches the second.
func uniqueViolation(msg string) error {
	msg = strings.ToLower(msg)
	switch {
	case strings.Contains(msg, "email"):
		return &models.ValidationError{Field: "email", Rule: models.RuleDuplicateEmail}
	case strings.Contains(msg, "phone"):
		return &models.ValidationError{Field: "phone", Rule: models.RuleDuplicatePhone}
	default:
		return &models.ValidationError{Field: "name", Rule: models.RuleDuplicateName}
	}
}

// notFoundUnlessChanged turns a zero-row UPDATE or DELETE into NotFoundError.
func notFoundUnlessChanged(entity, op string, id int64, res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return &models.StorageError{Op: entity + " " + op, Err: err}
	}
	if n == 0 {
		return &models.NotFoundError{Entity: entity, ID: id}
	}
	return nil
}
