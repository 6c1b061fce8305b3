package data

import (
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

const (
	// DataFileName is the default sqlite file created next to the CLI.
	DataFileName = "godscore.db"

	schemaVersion = 1
)

var (
	//go:embed sql/*
	f embed.FS

	errDBNotInitialized = errors.New("database not initialized")
)

func init() {
	// modernc's driver name is not in sqlx's bind table.
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

// driverFor derives the driver from the DSN shape. Anything that is not
// a postgres URL is treated as a sqlite file path.
func driverFor(dsn string) string {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return "postgres"
	}
	return "sqlite"
}

// GetDB opens a connection for the given DSN. The schema is not touched,
// call Init first on a fresh store.
func GetDB(dsn string) (*sqlx.DB, error) {
	if dsn == "" {
		return nil, errors.New("dsn not specified")
	}
	db, err := sqlx.Open(driverFor(dsn), dsn)
	if err != nil {
		return nil, fmt.Errorf("error opening database %s: %w", dsn, err)
	}
	return db, nil
}

// Init opens the store and applies the schema. The DDL is idempotent so
// Init can run on every start.
func Init(dsn string) error {
	db, err := GetDB(dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	slog.Debug("applying db schema", "driver", db.DriverName())
	b, err := f.ReadFile("sql/ddl.sql")
	if err != nil {
		return fmt.Errorf("failed to read the schema creation file: %w", err)
	}
	if _, err := db.Exec(string(b)); err != nil {
		return fmt.Errorf("failed to create database schema: %w", err)
	}

	var n int
	if err := db.Get(&n, db.Rebind(
		`SELECT COUNT(*) FROM schema_version WHERE version = ?`), schemaVersion); err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if n == 0 {
		if _, err := db.Exec(db.Rebind(
			`INSERT INTO schema_version (version, applied_at) VALUES (?, ?)`),
			schemaVersion, timeNow()); err != nil {
			return fmt.Errorf("failed to record schema version: %w", err)
		}
	}

	return nil
}

// timeNow formats timestamps the way every table stores them.
func timeNow() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// boolToInt maps bool onto the INTEGER columns both drivers accept.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Contains checks for val in list.
func Contains[T comparable](list []T, val T) bool {
	for _, item := range list {
		if item == val {
			return true
		}
	}
	return false
}
