package cli

import (
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/shopspring/decimal"

	"github.com/dmitrijs2005/licai/internal/finance"
	"github.com/dmitrijs2005/licai/internal/models"
	"github.com/dmitrijs2005/licai/internal/services"
	"github.com/dmitrijs2005/licai/internal/timex"
)

func (a *App) money(v decimal.Decimal) string {
	return finance.FormatMoney(v, a.config.Currency)
}

// renderTable writes a bordered table. Column widths follow the display
// width of the cells, so CJK bank names stay aligned.
func renderTable(w io.Writer, headers []string, rows [][]string) {
	tb := tablewriter.NewWriter(w)
	tb.SetHeader(headers)
	tb.SetAutoWrapText(false)
	tb.AppendBulk(rows)
	tb.Render()
}

// highlightMark flags records that were just created or imported.
func highlightMark(d models.Deposit) string {
	if d.Highlight {
		return "*"
	}
	return ""
}

func (a *App) depositRow(r services.DepositRow, days int) []string {
	return []string{
		highlightMark(r.Deposit), strconv.FormatInt(r.ID, 10), r.Bank, r.Rate.String(),
		strconv.Itoa(r.TermMonths), a.money(r.Amount), timex.FormatDate(r.Date),
		timex.FormatDate(r.ExpiryDate), strconv.Itoa(days), a.money(r.Interest), r.Remarks,
	}
}

func (a *App) writeActive(w io.Writer, rows []services.DepositRow) {
	values := make([][]string, 0, len(rows))
	for _, r := range rows {
		values = append(values, a.depositRow(r, r.RemainingDays))
	}
	renderTable(w, []string{"", "ID", "Bank", "Rate %", "Term (m)", "Amount", "Date", "Maturity",
		"Remaining", "Interest", "Remarks"}, values)
}

func (a *App) writeExpired(w io.Writer, rows []services.DepositRow) {
	values := make([][]string, 0, len(rows))
	for _, r := range rows {
		values = append(values, a.depositRow(r, r.ExpiredDays))
	}
	renderTable(w, []string{"", "ID", "Bank", "Rate %", "Term (m)", "Amount", "Date", "Maturity",
		"Expired", "Interest", "Remarks"}, values)
}

func (a *App) writeFunds(w io.Writer, funds []models.Fund) {
	values := make([][]string, 0, len(funds))
	for _, f := range funds {
		values = append(values, []string{f.ID, f.Platform, f.Name, timex.FormatDate(f.Date), a.money(f.Amount)})
	}
	renderTable(w, []string{"ID", "Platform", "Name", "Date", "Amount"}, values)
}
