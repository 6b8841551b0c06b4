// Package migrations embeds the goose migrations of the two local databases:
// the record store (records/) and the session area (session/).
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"sync"

	"github.com/pressly/goose/v3"
)

//go:embed records/*.sql session/*.sql
var FS embed.FS

const (
	RecordsDir = "records"
	SessionDir = "session"
)

// goose keeps its base FS and dialect in package state.
var mu sync.Mutex

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// Up applies the migrations found in dir (RecordsDir or SessionDir) to db.
// Applying them again is a no-op.
func Up(ctx context.Context, db *sql.DB, dir string) error {
	mu.Lock()
	defer mu.Unlock()

	goose.SetBaseFS(FS)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}
	if err := gooseUpContext(ctx, db, dir); err != nil {
		return fmt.Errorf("failed to migrate %s: %w", dir, err)
	}
	return nil
}
