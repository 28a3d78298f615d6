package spreadsheet

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name string
		cell string
		want time.Time
	}{
		{"swiss format", "15.03.2025", time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)},
		{"swiss without leading zeros", "5.3.2025", time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC)},
		{"iso format", "2025-03-15", time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)},
		{"excel serial", "45731", time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)},
		{"padded", "  15.03.2025  ", time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.cell)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDateInvalid(t *testing.T) {
	for _, cell := range []string{
		"",
		"not a date",
		"32.01.2025", // no such day
		"15.13.2025", // no such month
		"15.03.1999", // below year bound
		"15.03.2101", // above year bound
		"999999",     // serial far outside bounds
	} {
		t.Run(cell, func(t *testing.T) {
			_, err := ParseDate(cell)
			assert.Error(t, err, "cell %q should be rejected", cell)
		})
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		cell string
		want string
	}{
		{"1250.50", "1250.50"},
		{"1'250.50", "1250.50"},
		{"1’250.50", "1250.50"},
		{"1250,50", "1250.50"},
		{"12'345'678.90", "12345678.90"},
		{" 42 ", "42"},
	}
	for _, tt := range tests {
		t.Run(tt.cell, func(t *testing.T) {
			got, err := ParseAmount(tt.cell)
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s", got)
		})
	}
}

func TestParseAmountInvalid(t *testing.T) {
	for _, cell := range []string{"", "abc", "0", "-10", "-0.01"} {
		t.Run(cell, func(t *testing.T) {
			_, err := ParseAmount(cell)
			assert.Error(t, err, "cell %q should be rejected", cell)
		})
	}
}

func validTxnCells() []string {
	return []string{"15.03.2025", "RE-2025-017", "6000", "1020", "Miete April", "1'800.00"}
}

func TestDecodeTransactionRow(t *testing.T) {
	res := DecodeTransactionRow(2, validTxnCells())
	require.True(t, res.Ok(), "row should decode: %v", res.Invalid)

	assert.Equal(t, 2, res.Row.Line)
	assert.Equal(t, time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC), res.Row.Date)
	assert.Equal(t, "RE-2025-017", res.Row.DocumentRef)
	assert.Equal(t, "6000", res.Row.DebitNumber)
	assert.Equal(t, "1020", res.Row.CreditNumber)
	assert.Equal(t, "Miete April", res.Row.Description)
	assert.True(t, decimal.RequireFromString("1800").Equal(res.Row.Amount))
}

func TestDecodeTransactionRowRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func([]string) []string
		reason string
	}{
		{"too few columns", func(c []string) []string { return c[:3] }, "expected 6 columns"},
		{"bad date", func(c []string) []string { c[0] = "yesterday"; return c }, "invalid date"},
		{"empty debit", func(c []string) []string { c[2] = "  "; return c }, "debit account number is empty"},
		{"empty credit", func(c []string) []string { c[3] = ""; return c }, "credit account number is empty"},
		{"zero amount", func(c []string) []string { c[5] = "0"; return c }, "invalid amount"},
		{"negative amount", func(c []string) []string { c[5] = "-5"; return c }, "invalid amount"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := DecodeTransactionRow(7, tt.mutate(validTxnCells()))
			require.False(t, res.Ok())
			assert.Equal(t, 7, res.Invalid.Line)
			assert.Contains(t, res.Invalid.Reason, tt.reason)
		})
	}
}

func TestDecodeAccountRow(t *testing.T) {
	res := DecodeAccountRow(3, []string{"1020", "Bank", "10", "Aktiven", "", "", "UN"})
	require.True(t, res.Ok(), "row should decode: %v", res.Invalid)
	assert.Equal(t, "1020", res.Row.Number)
	assert.Equal(t, "Bank", res.Row.Name)
	assert.Equal(t, "10", res.Row.ParentGroup)
	assert.Equal(t, "Aktiven", res.Row.TypeName)
	assert.Equal(t, "UN", res.Row.VATType)

	missing := DecodeAccountRow(4, []string{"", "Bank", "10", "Aktiven", "", "", ""})
	require.False(t, missing.Ok())
	assert.Contains(t, missing.Invalid.Reason, "account number is empty")

	noName := DecodeAccountRow(5, []string{"1020", " ", "10", "Aktiven", "", "", ""})
	require.False(t, noName.Ok())
	assert.Contains(t, noName.Invalid.Reason, "account name is empty")
}

func TestGroupByMonth(t *testing.T) {
	rows := []TransactionRow{
		{Line: 2, Date: time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)},
		{Line: 3, Date: time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)},
		{Line: 4, Date: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)},
	}

	groups := GroupByMonth(rows)
	require.Len(t, groups, 2)

	assert.Equal(t, "2025-01", groups[0].Month)
	assert.Len(t, groups[0].Rows, 1)
	assert.True(t, groups[0].Selected, "groups start selected")

	assert.Equal(t, "2025-03", groups[1].Month)
	assert.Len(t, groups[1].Rows, 2)

	assert.Empty(t, GroupByMonth(nil))
}
