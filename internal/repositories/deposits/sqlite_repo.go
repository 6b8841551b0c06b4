package deposits

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

const selectColumns = `
	SELECT id, username, bank, rate, term_months, amount, date, expiry_date, interest, remarks, highlight
	FROM deposits`

var indexColumns = map[string]string{
	"username":   "username",
	"bank":       "bank",
	"date":       "date",
	"expiryDate": "expiry_date",
}

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Save(ctx context.Context, d *models.Deposit) (int64, error) {
	query := `
		INSERT INTO deposits (id, username, bank, rate, term_months, amount, date, expiry_date, interest, remarks, highlight)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			username = excluded.username,
			bank = excluded.bank,
			rate = excluded.rate,
			term_months = excluded.term_months,
			amount = excluded.amount,
			date = excluded.date,
			expiry_date = excluded.expiry_date,
			interest = excluded.interest,
			remarks = excluded.remarks,
			highlight = excluded.highlight
	`
	highlight := 0
	if d.Highlight {
		highlight = 1
	}
	_, err := r.db.ExecContext(ctx, query,
		d.ID, d.Username, d.Bank, d.Rate.String(), d.TermMonths, d.Amount.String(),
		timex.FormatDate(d.Date), timex.FormatDate(d.ExpiryDate), d.Interest.String(), d.Remarks, highlight)
	if err != nil {
		return 0, fmt.Errorf("failed to save deposit: %w", err)
	}
	return d.ID, nil
}

func (r *SQLiteRepository) Get(ctx context.Context, id int64) (*models.Deposit, error) {
	row := r.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id)
	d, err := scanDeposit(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("deposit %d: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get deposit: %w", err)
	}
	return d, nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.Deposit, error) {
	return r.query(ctx, selectColumns+` ORDER BY id`)
}

func (r *SQLiteRepository) GetAllByIndex(ctx context.Context, index, value string) ([]models.Deposit, error) {
	col, ok := indexColumns[index]
	if !ok {
		return nil, fmt.Errorf("deposits index %q: %w", index, common.ErrUnknownIndex)
	}
	return r.query(ctx, selectColumns+` WHERE `+col+` = ? ORDER BY id`, value)
}

func (r *SQLiteRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM deposits WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete deposit: %w", err)
	}
	return nil
}

// DeleteByIndex removes every deposit whose index column equals value and
// reports how many rows went away.
func (r *SQLiteRepository) DeleteByIndex(ctx context.Context, index, value string) (int64, error) {
	col, ok := indexColumns[index]
	if !ok {
		return 0, fmt.Errorf("deposits index %q: %w", index, common.ErrUnknownIndex)
	}
	result, err := r.db.ExecContext(ctx, `DELETE FROM deposits WHERE `+col+` = ?`, value)
	if err != nil {
		return 0, fmt.Errorf("failed to delete deposits: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n, nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM deposits`)
	if err != nil {
		return fmt.Errorf("failed to clear deposits: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) query(ctx context.Context, query string, args ...any) ([]models.Deposit, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select deposits: %w", err)
	}
	defer rows.Close()

	var result []models.Deposit
	for rows.Next() {
		d, err := scanDeposit(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan deposit: %w", err)
		}
		result = append(result, *d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate deposits: %w", err)
	}

	return result, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDeposit(s scanner) (*models.Deposit, error) {
	var d models.Deposit
	var date, expiry string
	var highlight int
	err := s.Scan(&d.ID, &d.Username, &d.Bank, &d.Rate, &d.TermMonths, &d.Amount,
		&date, &expiry, &d.Interest, &d.Remarks, &highlight)
	if err != nil {
		return nil, err
	}
	if d.Date, err = timex.ParseDate(date); err != nil {
		return nil, err
	}
	if d.ExpiryDate, err = timex.ParseDate(expiry); err != nil {
		return nil, err
	}
	d.Highlight = highlight != 0
	return &d, nil
}
