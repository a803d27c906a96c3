package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/schema"

	"github.com/goliatone/go-slugless/internal/posts"
	"github.com/goliatone/go-slugless/internal/posttypes"
	"github.com/goliatone/go-slugless/internal/runtimeconfig"
)

var (
	ErrDriverUnsupported = errors.New("storage: driver is not supported")
	ErrDSNRequired       = errors.New("storage: dsn is required")
)

// Models lists the tables EnsureSchema creates.
func Models() []any {
	return []any{
		(*posttypes.PostType)(nil),
		(*posts.Post)(nil),
	}
}

// Open connects to cfg.DSN with the bun dialect matching cfg.Driver.
// The returned DB has not been migrated; call EnsureSchema.
func Open(cfg runtimeconfig.StorageConfig) (*bun.DB, error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, ErrDSNRequired
	}
	driver := strings.ToLower(strings.TrimSpace(cfg.Driver))
	if driver == "" {
		driver = runtimeconfig.DriverSQLite
	}

	var dialect schema.Dialect
	switch driver {
	case runtimeconfig.DriverSQLite:
		dialect = sqlitedialect.New()
	case runtimeconfig.DriverPostgres:
		dialect = pgdialect.New()
	default:
		return nil, fmt.Errorf("%w: %q", ErrDriverUnsupported, cfg.Driver)
	}

	sqlDB, err := sql.Open(driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("storage: open %s: %w", driver, err)
	}
	db := bun.NewDB(sqlDB, dialect)
	if driver == runtimeconfig.DriverSQLite {
		// sqlite in-memory databases are per connection.
		db.SetMaxOpenConns(1)
	}
	return db, nil
}

// EnsureSchema creates the post type and post tables when missing.
func EnsureSchema(ctx context.Context, db *bun.DB) error {
	if db == nil {
		return errors.New("storage: db is nil")
	}
	for _, model := range Models() {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("storage: create table for %T: %w", model, err)
		}
	}
	return nil
}
