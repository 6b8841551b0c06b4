// Package sheets maps deposits to and from xlsx workbooks: the import
// format, the export format and the blank import template.
//
// Column headers are the wire format and keep their Chinese labels.
package sheets

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/dmitrijs2005/licai/internal/filex"
	"github.com/dmitrijs2005/licai/internal/timex"
)

// Import headers.
const (
	HeaderBank      = "存款银行"
	HeaderRate      = "利率"
	HeaderTermValue = "存期时长"
	HeaderTermUnit  = "存期单位"
	HeaderAmount    = "存入金额"
	HeaderDate      = "存入日期"
	HeaderMaturity  = "到期日"
	HeaderInterest  = "利息"
	HeaderRemarks   = "备注"
)

const (
	ExportSheet   = "定期存款数据"
	TemplateSheet = "定期存款模板"
)

var (
	importHeaders = []string{
		HeaderBank, HeaderRate, HeaderTermValue, HeaderTermUnit, HeaderAmount,
		HeaderDate, HeaderMaturity, HeaderInterest, HeaderRemarks,
	}
	templateWidths = []float64{15, 8, 10, 8, 12, 12, 12, 10, 20}

	exportHeaders = []string{
		"存款银行", "利率 (%)", "存期 (月)", "存入金额", "存入日期", "到期日", "剩余天数", "利息", "备注",
	}
	exportWidths = []float64{15, 10, 10, 12, 12, 12, 10, 12, 20}
)

// ImportRow holds the cells of one data row as text. Date cells are already
// in timex.DateLayout when the workbook stored them as date serials.
// Missing cells are empty strings.
type ImportRow struct {
	// Line is the 1-based row number in the sheet.
	Line      int
	Bank      string
	Rate      string
	TermValue string
	TermUnit  string
	Amount    string
	Date      string
	Maturity  string
	Interest  string
	Remarks   string
}

// ExportRow is one deposit as written to the export sheet.
type ExportRow struct {
	Bank          string
	Rate          decimal.Decimal
	TermMonths    int
	Amount        decimal.Decimal
	Date          string
	Maturity      string
	RemainingDays int
	Interest      decimal.Decimal
	Remarks       string
}

// ReadDeposits reads the first sheet of the workbook at path.
func ReadDeposits(path string) ([]ImportRow, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()
	return readDeposits(f)
}

// ReadDepositsFrom is ReadDeposits for an in-memory workbook.
func ReadDepositsFrom(r io.Reader) ([]ImportRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()
	return readDeposits(f)
}

func readDeposits(f *excelize.File) ([]ImportRow, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	columns := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		columns[strings.TrimSpace(h)] = i
	}
	cell := func(row []string, header string) string {
		i, ok := columns[header]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var result []ImportRow
	for n, row := range rows[1:] {
		if isBlank(row) {
			continue
		}
		result = append(result, ImportRow{
			Line:      n + 2,
			Bank:      cell(row, HeaderBank),
			Rate:      cell(row, HeaderRate),
			TermValue: cell(row, HeaderTermValue),
			TermUnit:  cell(row, HeaderTermUnit),
			Amount:    cell(row, HeaderAmount),
			Date:      dateCell(cell(row, HeaderDate)),
			Maturity:  dateCell(cell(row, HeaderMaturity)),
			Interest:  cell(row, HeaderInterest),
			Remarks:   cell(row, HeaderRemarks),
		})
	}
	return result, nil
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// dateCell turns a raw date serial into timex.DateLayout. Text dates,
// including 8-digit ones such as 20240115, are returned unchanged.
func dateCell(v string) string {
	if v == "" {
		return v
	}
	if _, err := timex.ParseDate(v); err == nil {
		return v
	}
	serial, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return v
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return v
	}
	return timex.FormatDate(timex.Truncate(t))
}

// WriteDeposits writes rows to a new workbook at path.
func WriteDeposits(path string, rows []ExportRow) error {
	f, err := newSheet(ExportSheet, exportHeaders, exportWidths)
	if err != nil {
		return err
	}
	defer f.Close()

	for i, r := range rows {
		values := []any{
			r.Bank,
			r.Rate.InexactFloat64(),
			r.TermMonths,
			r.Amount.InexactFloat64(),
			r.Date,
			r.Maturity,
			r.RemainingDays,
			r.Interest.InexactFloat64(),
			r.Remarks,
		}
		if err := setRow(f, ExportSheet, i+2, values); err != nil {
			return err
		}
	}

	return save(f, path)
}

// WriteTemplate writes an import template holding the header row only.
func WriteTemplate(path string) error {
	f, err := newSheet(TemplateSheet, importHeaders, templateWidths)
	if err != nil {
		return err
	}
	defer f.Close()

	return save(f, path)
}

func save(f *excelize.File, path string) error {
	if _, err := filex.EnsureParentDir(path); err != nil {
		return err
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func newSheet(name string, headers []string, widths []float64) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	values := make([]any, len(headers))
	for i, h := range headers {
		values[i] = h
	}
	if err := setRow(f, name, 1, values); err != nil {
		_ = f.Close()
		return nil, err
	}

	for i, w := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			_ = f.Close()
			return nil, err
		}
		if err := f.SetColWidth(name, col, col, w); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("failed to set column width: %w", err)
		}
	}
	return f, nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	axis, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, axis, &values); err != nil {
		return fmt.Errorf("failed to write row %d: %w", row, err)
	}
	return nil
}
