package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Deposit is a fixed-term bank deposit owned by one account.
type Deposit struct {
	// ID is unique across accounts and derived from the creation time.
	ID       int64
	Username string
	Bank     string
	// Rate is the annual interest rate in percent (3.25 means 3.25%).
	Rate       decimal.Decimal
	TermMonths int
	Amount     decimal.Decimal
	// Date and ExpiryDate are calendar dates at midnight UTC.
	Date       time.Time
	ExpiryDate time.Time
	Interest   decimal.Decimal
	Remarks    string
	// Highlight marks a freshly created or imported record until it is first
	// cleared after being shown.
	Highlight bool
}

// Fund is an investment or fund purchase owned by one account.
type Fund struct {
	ID       string
	Username string
	Platform string
	Name     string
	Date     time.Time
	Amount   decimal.Decimal
}
