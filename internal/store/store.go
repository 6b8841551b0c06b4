// Package store opens the two local SQLite files used by the tracker and
// vends repositories bound to them.
//
// The record store holds the accounts, deposits, funds and session
// collections. The session area is a separate file with a single key/value
// table; it has its own lifecycle and is never written in the same
// transaction as the record store.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/licai/internal/dbx"
	"github.com/dmitrijs2005/licai/internal/filex"
	"github.com/dmitrijs2005/licai/internal/migrations"
	"github.com/dmitrijs2005/licai/internal/repositories/accounts"
	"github.com/dmitrijs2005/licai/internal/repositories/deposits"
	"github.com/dmitrijs2005/licai/internal/repositories/funds"
	"github.com/dmitrijs2005/licai/internal/repositories/metadata"

	_ "modernc.org/sqlite"
)

// Open opens (creating if needed) the SQLite file at path and its
// directory. The pool is
// limited to one connection: SQLite has a single writer.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	if _, err := filex.EnsureParentDir(path); err != nil {
		return nil, fmt.Errorf("failed to prepare %s: %w", path, err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s: %w", path, err)
	}
	return db, nil
}

// Records is the opened record store.
type Records struct {
	db *sql.DB
}

// OpenRecords opens the record store at path and brings its collections and
// indexes up to date without touching existing rows.
func OpenRecords(ctx context.Context, path string) (*Records, error) {
	db, err := Open(ctx, path)
	if err != nil {
		return nil, err
	}
	if err := migrations.Up(ctx, db, migrations.RecordsDir); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Records{db: db}, nil
}

// DB returns the underlying handle. Inside WithTx use the tx argument instead.
func (r *Records) DB() *sql.DB {
	return r.db
}

// Accounts returns an accounts.Repository bound to the provided DBTX.
func (r *Records) Accounts(db dbx.DBTX) accounts.Repository {
	return accounts.NewSQLiteRepository(db)
}

// Deposits returns a deposits.Repository bound to the provided DBTX.
func (r *Records) Deposits(db dbx.DBTX) deposits.Repository {
	return deposits.NewSQLiteRepository(db)
}

// Funds returns a funds.Repository bound to the provided DBTX.
func (r *Records) Funds(db dbx.DBTX) funds.Repository {
	return funds.NewSQLiteRepository(db)
}

// Session returns the record store's session collection.
func (r *Records) Session(db dbx.DBTX) metadata.Repository {
	return metadata.NewSQLiteRepository(db, metadata.RecordStoreTable)
}

// WithTx runs fn in a transaction on the record store.
func (r *Records) WithTx(ctx context.Context, fn func(ctx context.Context, tx dbx.DBTX) error) error {
	return dbx.WithTx(ctx, r.db, nil, fn)
}

// Clear empties all four collections in one transaction.
func (r *Records) Clear(ctx context.Context) error {
	return r.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		if err := r.Deposits(tx).Clear(ctx); err != nil {
			return err
		}
		if err := r.Funds(tx).Clear(ctx); err != nil {
			return err
		}
		if err := r.Session(tx).Clear(ctx); err != nil {
			return err
		}
		return r.Accounts(tx).Clear(ctx)
	})
}

func (r *Records) Close() error {
	return r.db.Close()
}

// SessionArea is the opened key/value file backing the login session.
type SessionArea struct {
	db *sql.DB
	kv metadata.Repository
}

// OpenSessionArea opens the session file at path.
func OpenSessionArea(ctx context.Context, path string) (*SessionArea, error) {
	db, err := Open(ctx, path)
	if err != nil {
		return nil, err
	}
	if err := migrations.Up(ctx, db, migrations.SessionDir); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SessionArea{db: db, kv: metadata.NewSQLiteRepository(db, metadata.SessionAreaTable)}, nil
}

// KV returns the key/value table of the session area.
func (s *SessionArea) KV() metadata.Repository {
	return s.kv
}

func (s *SessionArea) Close() error {
	return s.db.Close()
}
