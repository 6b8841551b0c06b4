package funds

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/licai/internal/common"
	"github.com/dmitrijs2005/licai/internal/dbx"
	"github.com/dmitrijs2005/licai/internal/models"
	"github.com/dmitrijs2005/licai/internal/timex"
)

const selectColumns = `SELECT id, username, platform, name, date, amount FROM funds`

var indexColumns = map[string]string{
	"username": "username",
	"platform": "platform",
	"date":     "date",
}

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Save(ctx context.Context, f *models.Fund) (string, error) {
	query := `
		INSERT INTO funds (id, username, platform, name, date, amount)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			username = excluded.username,
			platform = excluded.platform,
			name = excluded.name,
			date = excluded.date,
			amount = excluded.amount
	`
	_, err := r.db.ExecContext(ctx, query,
		f.ID, f.Username, f.Platform, f.Name, timex.FormatDate(f.Date), f.Amount.String())
	if err != nil {
		return "", fmt.Errorf("failed to save fund: %w", err)
	}
	return f.ID, nil
}

func (r *SQLiteRepository) Get(ctx context.Context, id string) (*models.Fund, error) {
	f, err := scanFund(r.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("fund %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get fund: %w", err)
	}
	return f, nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.Fund, error) {
	return r.query(ctx, selectColumns+` ORDER BY date, id`)
}

func (r *SQLiteRepository) GetAllByIndex(ctx context.Context, index, value string) ([]models.Fund, error) {
	col, ok := indexColumns[index]
	if !ok {
		return nil, fmt.Errorf("funds index %q: %w", index, common.ErrUnknownIndex)
	}
	return r.query(ctx, selectColumns+` WHERE `+col+` = ? ORDER BY date, id`, value)
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM funds WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete fund: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteByIndex(ctx context.Context, index, value string) (int64, error) {
	col, ok := indexColumns[index]
	if !ok {
		return 0, fmt.Errorf("funds index %q: %w", index, common.ErrUnknownIndex)
	}
	result, err := r.db.ExecContext(ctx, `DELETE FROM funds WHERE `+col+` = ?`, value)
	if err != nil {
		return 0, fmt.Errorf("failed to delete funds: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n, nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM funds`); err != nil {
		return fmt.Errorf("failed to clear funds: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) query(ctx context.Context, query string, args ...any) ([]models.Fund, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select funds: %w", err)
	}
	defer rows.Close()

	var result []models.Fund
	for rows.Next() {
		f, err := scanFund(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fund: %w", err)
		}
		result = append(result, *f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate funds: %w", err)
	}
	return result, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanFund(s scanner) (*models.Fund, error) {
	var f models.Fund
	var date string
	if err := s.Scan(&f.ID, &f.Username, &f.Platform, &f.Name, &date, &f.Amount); err != nil {
		return nil, err
	}
	d, err := timex.ParseDate(date)
	if err != nil {
		return nil, err
	}
	f.Date = d
	return &f, nil
}
