package testsupport

import (
	"context"
	"database/sql"
	"fmt"
	"sync/atomic"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

var dbCounter atomic.Int64

// NewSQLiteMemoryDB opens a private shared-cache in-memory sqlite database.
func NewSQLiteMemoryDB() (*sql.DB, error) {
	name := fmt.Sprintf("slugless_%d", dbCounter.Add(1))
	return sql.Open("sqlite3", "file:"+name+"?mode=memory&cache=shared")
}

// NewBunDB opens an in-memory sqlite database through bun, creates tables for
// models and closes the database when the test ends.
func NewBunDB(t testing.TB, models ...any) *bun.DB {
	t.Helper()

	sqlDB, err := NewSQLiteMemoryDB()
	if err != nil {
		t.Fatalf("new sqlite db: %v", err)
	}
	db := bun.NewDB(sqlDB, sqlitedialect.New())
	db.SetMaxOpenConns(1)
	t.Cleanup(func() {
		_ = db.Close()
	})

	ctx := context.Background()
	for _, model := range models {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			t.Fatalf("create table %T: %v", model, err)
		}
	}
	return db
}
