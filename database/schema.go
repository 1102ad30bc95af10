package database

import (
	"fmt"
	"log/slog"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"student-records/config"
)

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS student_groups (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS students (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		last_name TEXT NOT NULL,
		first_name TEXT NOT NULL,
		middle_name TEXT NOT NULL,
		birth_date TEXT NOT NULL,
		phone TEXT NOT NULL UNIQUE,
		email TEXT NOT NULL UNIQUE,
		address TEXT NOT NULL,
		group_id INTEGER REFERENCES student_groups(id) ON DELETE SET NULL
	)`,
	`CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		student_id INTEGER NOT NULL REFERENCES students(id) ON DELETE CASCADE,
		date TEXT NOT NULL,
		title TEXT NOT NULL,
		description TEXT NOT NULL,
		category TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS education_periods (
		student_id INTEGER NOT NULL REFERENCES students(id) ON DELETE CASCADE,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		group_name TEXT NOT NULL
	)`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS student_groups (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS students (
		id BIGSERIAL PRIMARY KEY,
		last_name TEXT NOT NULL,
		first_name TEXT NOT NULL,
		middle_name TEXT NOT NULL,
		birth_date TEXT NOT NULL,
		phone TEXT NOT NULL UNIQUE,
		email TEXT NOT NULL UNIQUE,
		address TEXT NOT NULL,
		group_id BIGINT REFERENCES student_groups(id) ON DELETE SET NULL
	)`,
	`CREATE TABLE IF NOT EXISTS events (
		id BIGSERIAL PRIMARY KEY,
		student_id BIGINT NOT NULL REFERENCES students(id) ON DELETE CASCADE,
		date TEXT NOT NULL,
		title TEXT NOT NULL,
		description TEXT NOT NULL,
		category TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS education_periods (
		student_id BIGINT NOT NULL REFERENCES students(id) ON DELETE CASCADE,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		group_name TEXT NOT NULL
	)`,
}

var indexes = []string{
	"CREATE INDEX IF NOT EXISTS idx_students_group_id ON students(group_id)",
	"CREATE INDEX IF NOT EXISTS idx_events_student_id ON events(student_id)",
	"CREATE INDEX IF NOT EXISTS idx_events_date ON events(date)",
	"CREATE INDEX IF NOT EXISTS idx_education_periods_student_id ON education_periods(student_id)",
}

// CreateSchema creates the four tables and their indexes. Safe to call repeatedly.
func CreateSchema(db *sqlx.DB) error {
	statements := sqliteSchema
	if db.DriverName() == config.DriverPostgres {
		statements = postgresSchema
	}

	for _, stmt := range append(statements, indexes...) {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("error creating schema: %w", err)
		}
	}

	slog.Debug("schema verified", "tables", []string{"student_groups", "students", "events", "education_periods"})
	return nil
}

// Placeholder returns the squirrel placeholder format for the handle's driver.
func Placeholder(db *sqlx.DB) sq.PlaceholderFormat {
	if db.DriverName() == config.DriverPostgres {
		return sq.Dollar
	}
	return sq.Question
}
