package services

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dmitrijs2005/licai/internal/finance"
	"github.com/dmitrijs2005/licai/internal/models"
	"github.com/dmitrijs2005/licai/internal/sheets"
	"github.com/dmitrijs2005/licai/internal/timex"
)

// SortColumn names a deposit table column.
type SortColumn string

const (
	SortBank          SortColumn = "bank"
	SortRate          SortColumn = "rate"
	SortTerm          SortColumn = "period"
	SortAmount        SortColumn = "amount"
	SortDate          SortColumn = "date"
	SortExpiryDate    SortColumn = "expiryDate"
	SortInterest      SortColumn = "interest"
	SortRemainingDays SortColumn = "remainingDays"
	SortExpiredDays   SortColumn = "expiredDays"
	SortRemarks       SortColumn = "remarks"
)

var sortColumns = []SortColumn{
	SortBank, SortRate, SortTerm, SortAmount, SortDate, SortExpiryDate,
	SortInterest, SortRemainingDays, SortExpiredDays, SortRemarks,
}

// ParseSort reads "<column>[:asc|:desc]".
func ParseSort(s string) (SortColumn, bool, error) {
	name, dir, _ := strings.Cut(s, ":")
	col := SortColumn(name)
	if !slices.Contains(sortColumns, col) {
		return "", false, fmt.Errorf("unknown sort column %q", name)
	}
	switch strings.ToLower(dir) {
	case "", "asc":
		return col, false, nil
	case "desc":
		return col, true, nil
	default:
		return "", false, fmt.Errorf("unknown sort direction %q", dir)
	}
}

// ViewOptions filter and order the deposit tables. The zero value shows
// everything by maturity date ascending.
type ViewOptions struct {
	Query string
	Sort  SortColumn
	Desc  bool
}

// DepositRow is a deposit with its day counts at view time.
type DepositRow struct {
	models.Deposit
	RemainingDays int
	ExpiredDays   int
}

// DepositView splits the working set at view time.
type DepositView struct {
	Active  []DepositRow
	Expired []DepositRow
}

// View filters, sorts and partitions the working set. Showing highlighted
// deposits starts their highlight timers.
func (e *DepositEngine) View(opts ViewOptions) DepositView {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()
	query := strings.ToLower(strings.TrimSpace(opts.Query))

	rows := make([]DepositRow, 0, len(e.items))
	for _, d := range e.items {
		if query != "" && !matches(d, query) {
			continue
		}
		rows = append(rows, DepositRow{
			Deposit:       d,
			RemainingDays: finance.RemainingDays(d.ExpiryDate, now),
			ExpiredDays:   finance.ExpiredDays(d.ExpiryDate, now),
		})
	}

	col := opts.Sort
	if col == "" {
		col = SortExpiryDate
	}
	slices.SortStableFunc(rows, func(a, b DepositRow) int {
		c := compareBy(col, a, b)
		if opts.Desc {
			return -c
		}
		return c
	})

	var v DepositView
	for _, r := range rows {
		if finance.IsActive(r.ExpiryDate, now) {
			v.Active = append(v.Active, r)
		} else {
			v.Expired = append(v.Expired, r)
		}
	}

	e.scheduleHighlights()
	return v
}

func matches(d models.Deposit, query string) bool {
	return strings.Contains(strings.ToLower(d.Bank), query) ||
		strings.Contains(d.Rate.String(), query) ||
		strings.Contains(d.Amount.String(), query) ||
		strings.Contains(timex.FormatDate(d.Date), query) ||
		strings.Contains(timex.FormatDate(d.ExpiryDate), query) ||
		strings.Contains(strings.ToLower(d.Remarks), query)
}

func compareBy(col SortColumn, a, b DepositRow) int {
	switch col {
	case SortBank:
		return strings.Compare(strings.ToLower(a.Bank), strings.ToLower(b.Bank))
	case SortRate:
		return a.Rate.Cmp(b.Rate)
	case SortTerm:
		return cmp.Compare(a.TermMonths, b.TermMonths)
	case SortAmount:
		return a.Amount.Cmp(b.Amount)
	case SortDate:
		return a.Date.Compare(b.Date)
	case SortInterest:
		return a.Interest.Cmp(b.Interest)
	case SortRemainingDays:
		return cmp.Compare(a.RemainingDays, b.RemainingDays)
	case SortExpiredDays:
		return cmp.Compare(a.ExpiredDays, b.ExpiredDays)
	case SortRemarks:
		return strings.Compare(strings.ToLower(a.Remarks), strings.ToLower(b.Remarks))
	default:
		return a.ExpiryDate.Compare(b.ExpiryDate)
	}
}

// BankShare is one bank's part of the active principal.
type BankShare struct {
	Bank   string
	Amount decimal.Decimal
	// Percent of the active total, one decimal place.
	Percent decimal.Decimal
}

// DepositSummary totals the working set at view time.
type DepositSummary struct {
	// ActiveTotal is the principal of deposits that have not matured.
	ActiveTotal decimal.Decimal
	// EarnedInterest is the interest of matured deposits.
	EarnedInterest decimal.Decimal
	// Banks lists active principal per bank in order of first appearance.
	Banks []BankShare
}

func (e *DepositEngine) Summary() DepositSummary {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()
	var s DepositSummary
	byBank := map[string]int{}
	for _, d := range e.items {
		if !finance.IsActive(d.ExpiryDate, now) {
			s.EarnedInterest = s.EarnedInterest.Add(d.Interest)
			continue
		}
		s.ActiveTotal = s.ActiveTotal.Add(d.Amount)
		i, ok := byBank[d.Bank]
		if !ok {
			i = len(s.Banks)
			byBank[d.Bank] = i
			s.Banks = append(s.Banks, BankShare{Bank: d.Bank})
		}
		s.Banks[i].Amount = s.Banks[i].Amount.Add(d.Amount)
	}

	for i := range s.Banks {
		if s.ActiveTotal.IsPositive() {
			s.Banks[i].Percent = s.Banks[i].Amount.Mul(decimal.NewFromInt(100)).Div(s.ActiveTotal).Round(1)
		}
	}
	return s
}

// Banks returns the distinct bank names of the working set in order of first
// appearance.
func (e *DepositEngine) Banks() []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	var banks []string
	for _, d := range e.items {
		if !slices.Contains(banks, d.Bank) {
			banks = append(banks, d.Bank)
		}
	}
	return banks
}

// ExportRows maps the working set to export rows, with remaining days
// counted from now.
func (e *DepositEngine) ExportRows() []sheets.ExportRow {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()
	rows := make([]sheets.ExportRow, 0, len(e.items))
	for _, d := range e.items {
		rows = append(rows, sheets.ExportRow{
			Bank:          d.Bank,
			Rate:          d.Rate,
			TermMonths:    d.TermMonths,
			Amount:        d.Amount,
			Date:          timex.FormatDate(d.Date),
			Maturity:      timex.FormatDate(d.ExpiryDate),
			RemainingDays: finance.RemainingDays(d.ExpiryDate, now),
			Interest:      d.Interest,
			Remarks:       d.Remarks,
		})
	}
	return rows
}
