// Package storage opens bun database handles for the supported SQL drivers.
// Hosts that already manage their own pool can bypass this and hand the
// container a *bun.DB directly.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

// ErrDriverUnknown indicates a driver outside the supported set.
var ErrDriverUnknown = errors.New("storage: driver must be sqlite3 or postgres")

// ErrDSNRequired indicates a missing connection string.
var ErrDSNRequired = errors.New("storage: dsn is required")

// Open connects to the database and wraps it with the matching bun dialect.
func Open(driver, dsn string) (*bun.DB, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, ErrDSNRequired
	}

	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "sqlite", "sqlite3":
		sqlDB, err := sql.Open("sqlite3", dsn)
		if err != nil {
			return nil, fmt.Errorf("storage: opening sqlite: %w", err)
		}
		return bun.NewDB(sqlDB, sqlitedialect.New()), nil
	case "postgres", "pg", "postgresql":
		sqlDB, err := sql.Open("postgres", dsn)
		if err != nil {
			return nil, fmt.Errorf("storage: opening postgres: %w", err)
		}
		return bun.NewDB(sqlDB, pgdialect.New()), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrDriverUnknown, driver)
	}
}
