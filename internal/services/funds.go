package services

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dmitrijs2005/licai/internal/common"
	"github.com/dmitrijs2005/licai/internal/dbx"
	"github.com/dmitrijs2005/licai/internal/logging"
	"github.com/dmitrijs2005/licai/internal/models"
	"github.com/dmitrijs2005/licai/internal/store"
	"github.com/dmitrijs2005/licai/internal/timex"
)

// FundInput is a fund purchase as entered. All fields are required.
type FundInput struct {
	Platform string
	Name     string
	Date     string
	Amount   decimal.Decimal
}

// FundLedger is the in-memory working set of one account's funds.
type FundLedger struct {
	mu       sync.Mutex
	records  *store.Records
	username string
	log      logging.Logger

	items []models.Fund
}

func NewFundLedger(records *store.Records, username string, log logging.Logger) *FundLedger {
	return &FundLedger{records: records, username: username, log: log.With("username", username)}
}

func (l *FundLedger) Load(ctx context.Context) error {
	items, err := l.records.Funds(l.records.DB()).GetAllByIndex(ctx, "username", l.username)
	if err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = items
	return nil
}

// List returns the account's funds in insertion order.
func (l *FundLedger) List() []models.Fund {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.items)
}

// Platforms returns the distinct platforms in order of first appearance.
func (l *FundLedger) Platforms() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	var result []string
	for _, f := range l.items {
		if !slices.Contains(result, f.Platform) {
			result = append(result, f.Platform)
		}
	}
	return result
}

// Total is the sum of all fund amounts.
func (l *FundLedger) Total() decimal.Decimal {
	l.mu.Lock()
	defer l.mu.Unlock()
	var total decimal.Decimal
	for _, f := range l.items {
		total = total.Add(f.Amount)
	}
	return total
}

func (l *FundLedger) Create(ctx context.Context, in FundInput) (models.Fund, error) {
	platform := strings.TrimSpace(in.Platform)
	name := strings.TrimSpace(in.Name)
	switch {
	case platform == "":
		return models.Fund{}, common.NewValidationError("platform", "required")
	case name == "":
		return models.Fund{}, common.NewValidationError("name", "required")
	case strings.TrimSpace(in.Date) == "":
		return models.Fund{}, common.NewValidationError("date", "required")
	case !in.Amount.IsPositive():
		return models.Fund{}, common.NewValidationError("amount", "must be positive")
	}
	date, err := timex.ParseDate(in.Date)
	if err != nil {
		return models.Fund{}, common.NewValidationError("date", err.Error())
	}

	id, err := uuid.NewV7()
	if err != nil {
		return models.Fund{}, fmt.Errorf("failed to generate fund id: %w", err)
	}
	f := models.Fund{
		ID:       id.String(),
		Username: l.username,
		Platform: platform,
		Name:     name,
		Date:     date,
		Amount:   in.Amount,
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	next := append(slices.Clone(l.items), f)
	if err := l.persist(ctx, next); err != nil {
		l.log.Error(ctx, "failed to create fund", "error", err)
		return models.Fund{}, err
	}
	l.items = next

	l.log.Info(ctx, "fund created", "id", f.ID)
	return f, nil
}

// Delete removes one fund. confirm must be DeleteConfirmation.
func (l *FundLedger) Delete(ctx context.Context, id, confirm string) error {
	if confirm != DeleteConfirmation {
		return common.ErrNotConfirmed
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	i := slices.IndexFunc(l.items, func(f models.Fund) bool { return f.ID == id })
	if i < 0 {
		return fmt.Errorf("fund %s: %w", id, common.ErrNotFound)
	}
	next := slices.Delete(slices.Clone(l.items), i, i+1)
	if err := l.persist(ctx, next); err != nil {
		l.log.Error(ctx, "failed to delete fund", "id", id, "error", err)
		return err
	}
	l.items = next

	l.log.Info(ctx, "fund deleted", "id", id)
	return nil
}

// DeleteAll removes every fund of the account. confirm must be
// DeleteConfirmation.
func (l *FundLedger) DeleteAll(ctx context.Context, confirm string) (int, error) {
	if confirm != DeleteConfirmation {
		return 0, common.ErrNotConfirmed
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	var removed int64
	err := l.records.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		n, err := l.records.Funds(tx).DeleteByIndex(ctx, "username", l.username)
		removed = n
		return err
	})
	if err != nil {
		l.log.Error(ctx, "failed to delete funds", "error", err)
		return 0, err
	}
	l.items = nil

	l.log.Info(ctx, "funds deleted", "count", removed)
	return int(removed), nil
}

func (l *FundLedger) persist(ctx context.Context, items []models.Fund) error {
	return l.records.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		repo := l.records.Funds(tx)
		if _, err := repo.DeleteByIndex(ctx, "username", l.username); err != nil {
			return err
		}
		for i := range items {
			if _, err := repo.Save(ctx, &items[i]); err != nil {
				return err
			}
		}
		return nil
	})
}
