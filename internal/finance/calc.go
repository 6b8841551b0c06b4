// Package finance holds the deposit arithmetic: maturity dates, terms,
// simple interest and the day counts shown next to each deposit.
package finance

import (
	"math"
	"strings"
	"time"

	"github.com/dmitrijs2005/licai/internal/timex"
	"github.com/shopspring/decimal"
)

// Unit is the unit a term was entered in.
type Unit string

const (
	Month Unit = "month"
	Year  Unit = "year"
)

// ParseUnit accepts the English and the spreadsheet spelling of a unit.
// Anything that is not a year is a month, as the import template defaults to 月.
func ParseUnit(s string) Unit {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "year", "years", "y", "年":
		return Year
	default:
		return Month
	}
}

// Term is a deposit duration as entered by the user.
type Term struct {
	Value float64
	Unit  Unit
}

// Months normalizes the term to whole months. Fractional results are rounded
// to the nearest month.
func (t Term) Months() int {
	v := t.Value
	if t.Unit == Year {
		v *= 12
	}
	return int(math.Round(v))
}

var (
	hundred = decimal.NewFromInt(100)
	twelve  = decimal.NewFromInt(12)
)

// MaturityDate adds months to the deposit date using calendar month
// arithmetic.
func MaturityDate(depositDate time.Time, months int) time.Time {
	return timex.AddMonths(depositDate, months)
}

// TermFromMaturity derives the term in months from year and month of both
// dates. The day of month is ignored.
func TermFromMaturity(depositDate, maturity time.Time) int {
	return timex.MonthsBetween(depositDate, maturity)
}

// SimpleInterest is principal × rate% × months / 12, rounded to cents.
func SimpleInterest(amount, ratePercent decimal.Decimal, months int) decimal.Decimal {
	return amount.
		Mul(ratePercent).
		Mul(decimal.NewFromInt(int64(months))).
		Div(twelve.Mul(hundred)).
		Round(2)
}

// NormalizeImportedRate undoes the percent cell format of spreadsheets: a
// value below 1 is read as a fraction (0.0325 becomes 3.25). The result is
// rounded to two places.
//
// Legitimate rates below 1% cannot be told apart from fractions, so they are
// scaled as well.
func NormalizeImportedRate(rate decimal.Decimal) decimal.Decimal {
	if rate.LessThan(decimal.NewFromInt(1)) {
		rate = rate.Mul(hundred)
	}
	return rate.Round(2)
}

// RemainingDays is the number of days, rounded up, until maturity.
func RemainingDays(maturity, now time.Time) int {
	return timex.CeilDays(maturity.Sub(now))
}

// ExpiredDays is the number of days, rounded up, since maturity.
func ExpiredDays(maturity, now time.Time) int {
	return timex.CeilDays(now.Sub(maturity))
}

// IsActive reports whether the deposit has not matured yet at now.
func IsActive(maturity, now time.Time) bool {
	return !maturity.Before(now)
}
