package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dmitrijs2005/licai/internal/common"
	"github.com/dmitrijs2005/licai/internal/dbx"
	"github.com/dmitrijs2005/licai/internal/finance"
	"github.com/dmitrijs2005/licai/internal/logging"
	"github.com/dmitrijs2005/licai/internal/models"
	"github.com/dmitrijs2005/licai/internal/sheets"
	"github.com/dmitrijs2005/licai/internal/store"
	"github.com/dmitrijs2005/licai/internal/timex"
)

// DeleteConfirmation must be typed to delete deposits or funds.
const DeleteConfirmation = "确认删除"

// DefaultHighlightDelay is how long a new deposit stays highlighted after it
// is first shown.
const DefaultHighlightDelay = 10 * time.Second

// DepositInput is a deposit as entered in the form or read from a sheet.
// Either Term or Maturity must be set; Term wins when both are.
type DepositInput struct {
	Bank   string
	Rate   decimal.Decimal
	Amount decimal.Decimal
	// Date and Maturity accept the spellings of timex.ParseDate.
	Date     string
	Term     *finance.Term
	Maturity string
	// Interest overrides the computed simple interest when set.
	Interest *decimal.Decimal
	Remarks  string
}

// DepositEngine is the in-memory working set of one account's deposits. It is
// loaded on login and written back in full after each change.
type DepositEngine struct {
	mu       sync.Mutex
	records  *store.Records
	username string
	log      logging.Logger
	now      func() time.Time

	items []models.Deposit

	highlightDelay time.Duration
	timers         map[int64]*time.Timer
	onChange       func()
	closed         bool
}

// NewDepositEngine returns an empty engine for username; call Load to fill it.
func NewDepositEngine(records *store.Records, username string, log logging.Logger, opts ...Option) *DepositEngine {
	o := applyOptions(opts)
	return &DepositEngine{
		records:        records,
		username:       username,
		log:            log.With("username", username),
		now:            o.now,
		highlightDelay: o.highlightDelay,
		onChange:       o.onChange,
		timers:         make(map[int64]*time.Timer),
	}
}

// Load replaces the working set with the account's stored deposits.
func (e *DepositEngine) Load(ctx context.Context) error {
	items, err := e.records.Deposits(e.records.DB()).GetAllByIndex(ctx, "username", e.username)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.items = items
	return nil
}

// List returns a copy of the working set in insertion order.
func (e *DepositEngine) List() []models.Deposit {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.items)
}

// Get returns the deposit with id from the working set.
func (e *DepositEngine) Get(id int64) (models.Deposit, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	i := e.indexOf(id)
	if i < 0 {
		return models.Deposit{}, fmt.Errorf("deposit %d: %w", id, common.ErrNotFound)
	}
	return e.items[i], nil
}

func (e *DepositEngine) indexOf(id int64) int {
	return slices.IndexFunc(e.items, func(d models.Deposit) bool { return d.ID == id })
}

// Build validates in and derives the missing term or maturity date and the
// interest. The result has no ID or owner yet.
func Build(in DepositInput) (models.Deposit, error) {
	bank := strings.TrimSpace(in.Bank)
	if bank == "" {
		return models.Deposit{}, common.NewValidationError("bank", "required")
	}
	if !in.Rate.IsPositive() {
		return models.Deposit{}, common.NewValidationError("rate", "must be positive")
	}
	if !in.Amount.IsPositive() {
		return models.Deposit{}, common.NewValidationError("amount", "must be positive")
	}
	if strings.TrimSpace(in.Date) == "" {
		return models.Deposit{}, common.NewValidationError("date", "required")
	}
	date, err := timex.ParseDate(in.Date)
	if err != nil {
		return models.Deposit{}, common.NewValidationError("date", err.Error())
	}

	var months int
	var maturity time.Time
	switch {
	case in.Term != nil && in.Term.Value != 0:
		months = in.Term.Months()
		maturity = finance.MaturityDate(date, months)
	case strings.TrimSpace(in.Maturity) != "":
		maturity, err = timex.ParseDate(in.Maturity)
		if err != nil {
			return models.Deposit{}, common.NewValidationError("maturity", err.Error())
		}
		months = finance.TermFromMaturity(date, maturity)
	default:
		return models.Deposit{}, common.NewValidationError("term", "term or maturity date required")
	}
	if months <= 0 {
		return models.Deposit{}, common.NewValidationError("term", "must be at least one month")
	}

	interest := finance.SimpleInterest(in.Amount, in.Rate, months)
	if in.Interest != nil {
		interest = *in.Interest
	}

	return models.Deposit{
		Bank:       bank,
		Rate:       in.Rate,
		TermMonths: months,
		Amount:     in.Amount,
		Date:       date,
		ExpiryDate: maturity,
		Interest:   interest,
		Remarks:    strings.TrimSpace(in.Remarks),
		Highlight:  true,
	}, nil
}

// Create validates in, appends the deposit and persists the working set.
func (e *DepositEngine) Create(ctx context.Context, in DepositInput) (models.Deposit, error) {
	d, err := Build(in)
	if err != nil {
		return models.Deposit{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	d.Username = e.username
	if d.ID, err = e.nextID(ctx, e.items); err != nil {
		return models.Deposit{}, err
	}

	next := append(slices.Clone(e.items), d)
	if err := e.persist(ctx, next); err != nil {
		e.log.Error(ctx, "failed to create deposit", "error", err)
		return models.Deposit{}, err
	}
	e.items = next

	e.log.Info(ctx, "deposit created", "id", d.ID, "bank", d.Bank)
	return d, nil
}

// Import creates a deposit for every complete row and returns how many were
// created. Incomplete or invalid rows are skipped without error.
func (e *DepositEngine) Import(ctx context.Context, rows []sheets.ImportRow) (int, error) {
	var built []models.Deposit
	for _, row := range rows {
		in, ok := inputFromRow(row)
		if !ok {
			e.log.Debug(ctx, "import row skipped", "line", row.Line)
			continue
		}
		d, err := Build(in)
		if err != nil {
			e.log.Debug(ctx, "import row skipped", "line", row.Line, "error", err)
			continue
		}
		built = append(built, d)
	}
	if len(built) == 0 {
		return 0, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	next := slices.Clone(e.items)
	for _, d := range built {
		id, err := e.nextID(ctx, next)
		if err != nil {
			return 0, err
		}
		d.ID = id
		d.Username = e.username
		next = append(next, d)
	}

	if err := e.persist(ctx, next); err != nil {
		e.log.Error(ctx, "failed to import deposits", "error", err)
		return 0, err
	}
	e.items = next

	e.log.Info(ctx, "deposits imported", "count", len(built))
	return len(built), nil
}

// inputFromRow applies the import rules: bank, rate, amount, date and one of
// term or maturity must be present and non-zero; the term unit defaults to
// months; a rate below 1 is a fraction of a percent; an interest cell
// overrides the computed interest.
func inputFromRow(row sheets.ImportRow) (DepositInput, bool) {
	if row.Bank == "" || row.Amount == "" || row.Date == "" {
		return DepositInput{}, false
	}

	rate, err := importNumber(row.Rate)
	if err != nil || rate.IsZero() {
		return DepositInput{}, false
	}
	amount, err := importNumber(row.Amount)
	if err != nil || amount.IsZero() {
		return DepositInput{}, false
	}

	in := DepositInput{
		Bank:     row.Bank,
		Rate:     finance.NormalizeImportedRate(rate),
		Amount:   amount,
		Date:     row.Date,
		Maturity: row.Maturity,
		Remarks:  row.Remarks,
	}

	if v, err := decimal.NewFromString(row.TermValue); err == nil && !v.IsZero() {
		in.Term = &finance.Term{Value: v.InexactFloat64(), Unit: finance.ParseUnit(row.TermUnit)}
	}
	if in.Term == nil && in.Maturity == "" {
		return DepositInput{}, false
	}

	if row.Interest != "" {
		if v, err := importNumber(row.Interest); err == nil && !v.IsZero() {
			in.Interest = &v
		}
	}
	return in, true
}

var importNoise = strings.NewReplacer(",", "", "，", "", "¥", "", "￥", "")

// importNumber reads a text cell such as "10,000", "¥500" or "3.25%".
func importNumber(s string) (decimal.Decimal, error) {
	s = strings.TrimSuffix(strings.TrimSpace(importNoise.Replace(s)), "%")
	return decimal.NewFromString(strings.TrimSpace(s))
}

// Delete removes one deposit. confirm must be DeleteConfirmation.
func (e *DepositEngine) Delete(ctx context.Context, id int64, confirm string) error {
	if confirm != DeleteConfirmation {
		return common.ErrNotConfirmed
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	i := e.indexOf(id)
	if i < 0 {
		return fmt.Errorf("deposit %d: %w", id, common.ErrNotFound)
	}

	next := slices.Delete(slices.Clone(e.items), i, i+1)
	if err := e.persist(ctx, next); err != nil {
		e.log.Error(ctx, "failed to delete deposit", "id", id, "error", err)
		return err
	}
	e.items = next
	e.cancelTimer(id)

	e.log.Info(ctx, "deposit deleted", "id", id)
	return nil
}

// DeleteAll removes every deposit of the account and returns how many were
// removed. confirm must be DeleteConfirmation.
func (e *DepositEngine) DeleteAll(ctx context.Context, confirm string) (int, error) {
	if confirm != DeleteConfirmation {
		return 0, common.ErrNotConfirmed
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	var removed int64
	err := e.records.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		n, err := e.records.Deposits(tx).DeleteByIndex(ctx, "username", e.username)
		removed = n
		return err
	})
	if err != nil {
		e.log.Error(ctx, "failed to delete deposits", "error", err)
		return 0, err
	}

	for id := range e.timers {
		e.cancelTimer(id)
	}
	e.items = nil

	e.log.Info(ctx, "deposits deleted", "count", removed)
	return int(removed), nil
}

// persist replaces the account's stored deposits with items in one
// transaction. The caller holds e.mu.
func (e *DepositEngine) persist(ctx context.Context, items []models.Deposit) error {
	return e.records.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		repo := e.records.Deposits(tx)
		if _, err := repo.DeleteByIndex(ctx, "username", e.username); err != nil {
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

// nextID derives an ID from the current time in milliseconds and moves past
// the IDs in pending and those stored for any account. The caller holds e.mu.
func (e *DepositEngine) nextID(ctx context.Context, pending []models.Deposit) (int64, error) {
	id := e.now().UnixMilli()
	for _, d := range pending {
		if d.ID >= id {
			id = d.ID + 1
		}
	}

	repo := e.records.Deposits(e.records.DB())
	for {
		_, err := repo.Get(ctx, id)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return id, nil
			}
			return 0, err
		}
		id++
	}
}
