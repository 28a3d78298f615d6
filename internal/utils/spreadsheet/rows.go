// Package spreadsheet decodes the positional import sheets into typed rows.
// Decoding works on pre-extracted cell strings so the validation rules can be
// tested without an actual workbook; reading the .xlsx itself is the import
// service's job.
package spreadsheet

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Positional columns of the transactions sheet, header row excluded.
const (
	colTxnDate = iota
	colTxnDocumentRef
	colTxnDebitNumber
	colTxnCreditNumber
	colTxnDescription
	colTxnAmount
	txnColumnCount
)

// Positional columns of the account-plan sheet, header row excluded.
const (
	colAccNumber = iota
	colAccName
	colAccParentGroup
	colAccType
	colAccSystemCode
	colAccLinkedAccount
	colAccVATType
	accColumnCount
)

// TransactionRow is one valid booking row of the transactions sheet.
type TransactionRow struct {
	Line         int // 1-based worksheet line, including the header
	Date         time.Time
	DocumentRef  string
	DebitNumber  string
	CreditNumber string
	Description  string
	Amount       decimal.Decimal
}

// AccountRow is one valid row of the account-plan sheet. ParentGroup is the
// group number the account hangs off; empty for "Komplett" leaf accounts that
// stand on their own.
type AccountRow struct {
	Line          int
	Number        string
	Name          string
	ParentGroup   string
	TypeName      string // Aktiven, Passiven, Aufwand, Ertrag
	SystemCode    string
	LinkedAccount string
	VATType       string
}

// RowError describes why a row was rejected.
type RowError struct {
	Line   int
	Reason string
}

func (e RowError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}

// TransactionRowResult is the tagged outcome of decoding one row: either a
// valid record or the rejection reason. Invalid rows are counted, never
// silently skipped.
type TransactionRowResult struct {
	Row     TransactionRow
	Invalid *RowError
}

// Ok reports whether the row decoded successfully.
func (r TransactionRowResult) Ok() bool { return r.Invalid == nil }

// DecodeTransactionRow validates one positional row of the transactions
// sheet. A row is invalid when the date cell does not parse to a calendar
// date within [2000,2100], the amount is not a finite positive number, or
// either account-number cell is empty.
func DecodeTransactionRow(line int, cells []string) TransactionRowResult {
	reject := func(reason string) TransactionRowResult {
		return TransactionRowResult{Invalid: &RowError{Line: line, Reason: reason}}
	}

	if len(cells) < txnColumnCount {
		return reject(fmt.Sprintf("expected %d columns, got %d", txnColumnCount, len(cells)))
	}

	date, err := ParseDate(cells[colTxnDate])
	if err != nil {
		return reject(fmt.Sprintf("invalid date %q: %v", cells[colTxnDate], err))
	}

	debit := strings.TrimSpace(cells[colTxnDebitNumber])
	credit := strings.TrimSpace(cells[colTxnCreditNumber])
	if debit == "" {
		return reject("debit account number is empty")
	}
	if credit == "" {
		return reject("credit account number is empty")
	}

	amount, err := ParseAmount(cells[colTxnAmount])
	if err != nil {
		return reject(fmt.Sprintf("invalid amount %q: %v", cells[colTxnAmount], err))
	}

	return TransactionRowResult{Row: TransactionRow{
		Line:         line,
		Date:         date,
		DocumentRef:  strings.TrimSpace(cells[colTxnDocumentRef]),
		DebitNumber:  debit,
		CreditNumber: credit,
		Description:  strings.TrimSpace(cells[colTxnDescription]),
		Amount:       amount,
	}}
}

// AccountRowResult is the tagged decode outcome for an account-plan row.
type AccountRowResult struct {
	Row     AccountRow
	Invalid *RowError
}

// Ok reports whether the row decoded successfully.
func (r AccountRowResult) Ok() bool { return r.Invalid == nil }

// DecodeAccountRow validates one positional row of the account-plan sheet.
func DecodeAccountRow(line int, cells []string) AccountRowResult {
	reject := func(reason string) AccountRowResult {
		return AccountRowResult{Invalid: &RowError{Line: line, Reason: reason}}
	}

	if len(cells) < accColumnCount {
		return reject(fmt.Sprintf("expected %d columns, got %d", accColumnCount, len(cells)))
	}

	number := strings.TrimSpace(cells[colAccNumber])
	if number == "" {
		return reject("account number is empty")
	}
	name := strings.TrimSpace(cells[colAccName])
	if name == "" {
		return reject("account name is empty")
	}

	return AccountRowResult{Row: AccountRow{
		Line:          line,
		Number:        number,
		Name:          name,
		ParentGroup:   strings.TrimSpace(cells[colAccParentGroup]),
		TypeName:      strings.TrimSpace(cells[colAccType]),
		SystemCode:    strings.TrimSpace(cells[colAccSystemCode]),
		LinkedAccount: strings.TrimSpace(cells[colAccLinkedAccount]),
		VATType:       strings.TrimSpace(cells[colAccVATType]),
	}}
}

// minYear/maxYear bound plausible booking dates; anything outside is a typo
// or a misread Excel serial.
const (
	minYear = 2000
	maxYear = 2100
)

// ParseDate accepts dd.mm.yyyy (the Swiss convention the sheets use), ISO
// yyyy-mm-dd, and raw Excel serial numbers. The parsed date must be a real
// calendar day within [2000,2100].
func ParseDate(cell string) (time.Time, error) {
	s := strings.TrimSpace(cell)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date cell")
	}

	for _, layout := range []string{"02.01.2006", "2.1.2006", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return boundsCheck(t)
		}
	}

	// Excel stores dates as days since 1899-12-30.
	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		epoch := time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)
		t := epoch.AddDate(0, 0, int(serial))
		return boundsCheck(t)
	}

	return time.Time{}, fmt.Errorf("unrecognized date format")
}

func boundsCheck(t time.Time) (time.Time, error) {
	if t.Year() < minYear || t.Year() > maxYear {
		return time.Time{}, fmt.Errorf("year %d outside [%d,%d]", t.Year(), minYear, maxYear)
	}
	return t, nil
}

// ParseAmount parses a positive decimal amount. Swiss thousands separators
// (1'234.50) and comma decimals are tolerated.
func ParseAmount(cell string) (decimal.Decimal, error) {
	s := strings.TrimSpace(cell)
	if s == "" {
		return decimal.Zero, fmt.Errorf("empty amount cell")
	}
	s = strings.ReplaceAll(s, "'", "")
	s = strings.ReplaceAll(s, "’", "")
	if strings.Contains(s, ",") && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("not a number")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, fmt.Errorf("amount must be positive")
	}
	return amount, nil
}

// TransactionGroup is a month bucket of decoded rows, keyed YYYY-MM. Selected
// defaults to true; the client may deselect groups before executing.
type TransactionGroup struct {
	Month    string           `json:"month"`
	Rows     []TransactionRow `json:"rows"`
	Selected bool             `json:"selected"`
}

// GroupByMonth buckets valid rows by calendar month, sorted by month key.
func GroupByMonth(rows []TransactionRow) []TransactionGroup {
	byMonth := make(map[string][]TransactionRow)
	for _, row := range rows {
		key := row.Date.Format("2006-01")
		byMonth[key] = append(byMonth[key], row)
	}

	keys := make([]string, 0, len(byMonth))
	for k := range byMonth {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	groups := make([]TransactionGroup, 0, len(keys))
	for _, key := range keys {
		groups = append(groups, TransactionGroup{Month: key, Rows: byMonth[key], Selected: true})
	}
	return groups
}
