package database

import (
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"           // PostgreSQL driver
	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"student-records/config"
)

// InitDB opens the configured store and makes sure the schema exists.
func InitDB(cfg *config.Config) (*sqlx.DB, error) {
	var (
		db  *sqlx.DB
		err error
	)

	switch cfg.DBDriver {
	case config.DriverPostgres:
		db, err = Open(config.DriverPostgres, cfg.PostgresDSN())
	default:
		db, err = Open(config.DriverSQLite, SQLiteDSN(cfg.DBPath))
	}
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(cfg.DBMaxOpenConns)

	if err := CreateSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	slog.Info("database ready", "driver", cfg.DBDriver, "path", cfg.DBPath)
	return db, nil
}

// OpenSQLite opens (or creates) a SQLite file and its schema.
func OpenSQLite(path string) (*sqlx.DB, error) {
	db, err := Open(config.DriverSQLite, SQLiteDSN(path))
	if err != nil {
		return nil, err
	}
	if err := CreateSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// SQLiteDSN turns on foreign keys for every pooled connection, WAL so the
// mirror's reads do not block writers, and a busy timeout so concurrent writes
// wait for the lock instead of failing.
func SQLiteDSN(path string) string {
	return path + "?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000"
}

// Open connects and verifies the connection.
func Open(driver, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("error pinging database: %w", err)
	}

	if driver == config.DriverSQLite {
		if err := checkForeignKeys(db); err != nil {
			db.Close()
			return nil, err
		}
	}
	return db, nil
}

// checkForeignKeys fails when cascade rules would only be declared, not enforced.
func checkForeignKeys(db *sqlx.DB) error {
	var enabled int
	if err := db.Get(&enabled, "PRAGMA foreign_keys"); err != nil {
		return fmt.Errorf("error reading foreign_keys pragma: %w", err)
	}
	if enabled != 1 {
		return fmt.Errorf("foreign key enforcement is off")
	}
	return nil
}
