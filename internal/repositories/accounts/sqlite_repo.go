package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/licai/internal/common"
	"github.com/dmitrijs2005/licai/internal/dbx"
	"github.com/dmitrijs2005/licai/internal/models"
)

const selectColumns = `SELECT username, password_hash, salt, role, created_at FROM accounts`

var indexColumns = map[string]string{
	"role": "role",
}

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Save inserts the account or replaces the stored one with the same username.
func (r *SQLiteRepository) Save(ctx context.Context, a *models.Account) (string, error) {
	query := `
		INSERT INTO accounts (username, password_hash, salt, role, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(username) DO UPDATE SET
			password_hash = excluded.password_hash,
			salt = excluded.salt,
			role = excluded.role,
			created_at = excluded.created_at
	`
	_, err := r.db.ExecContext(ctx, query,
		a.Username, a.PasswordHash, a.Salt, string(a.Role), a.CreatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return "", fmt.Errorf("failed to save account: %w", err)
	}
	return a.Username, nil
}

func (r *SQLiteRepository) Get(ctx context.Context, username string) (*models.Account, error) {
	row := r.db.QueryRowContext(ctx, selectColumns+` WHERE username = ?`, username)
	a, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("account %q: %w", username, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return a, nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.Account, error) {
	return r.query(ctx, selectColumns+` ORDER BY created_at, username`)
}

func (r *SQLiteRepository) GetAllByIndex(ctx context.Context, index, value string) ([]models.Account, error) {
	col, ok := indexColumns[index]
	if !ok {
		return nil, fmt.Errorf("accounts index %q: %w", index, common.ErrUnknownIndex)
	}
	return r.query(ctx, selectColumns+` WHERE `+col+` = ? ORDER BY created_at, username`, value)
}

func (r *SQLiteRepository) Delete(ctx context.Context, username string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM accounts WHERE username = ?`, username)
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM accounts`)
	if err != nil {
		return fmt.Errorf("failed to clear accounts: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) query(ctx context.Context, query string, args ...any) ([]models.Account, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select accounts: %w", err)
	}
	defer rows.Close()

	var result []models.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		result = append(result, *a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate accounts: %w", err)
	}

	return result, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAccount(s scanner) (*models.Account, error) {
	var a models.Account
	var role, created string
	if err := s.Scan(&a.Username, &a.PasswordHash, &a.Salt, &role, &created); err != nil {
		return nil, err
	}
	a.Role = models.Role(role)
	t, err := time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return nil, fmt.Errorf("bad created_at %q: %w", created, err)
	}
	a.CreatedAt = t
	return &a, nil
}
