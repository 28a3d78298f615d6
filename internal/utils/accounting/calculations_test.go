package accounting

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swisscockpit/kmu-cockpit/internal/core/domain"
)

func amt(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestSignedAmount(t *testing.T) {
	hundred := amt("100")

	tests := []struct {
		name        string
		accountType domain.AccountType
		side        domain.EntrySide
		want        string
	}{
		{"debit to asset grows", domain.Asset, domain.DebitSide, "100"},
		{"credit to asset shrinks", domain.Asset, domain.CreditSide, "-100"},
		{"debit to expense grows", domain.Expense, domain.DebitSide, "100"},
		{"credit to expense shrinks", domain.Expense, domain.CreditSide, "-100"},
		{"debit to liability shrinks", domain.Liability, domain.DebitSide, "-100"},
		{"credit to liability grows", domain.Liability, domain.CreditSide, "100"},
		{"debit to revenue shrinks", domain.Revenue, domain.DebitSide, "-100"},
		{"credit to revenue grows", domain.Revenue, domain.CreditSide, "100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SignedAmount(tt.accountType, tt.side, hundred)
			require.NoError(t, err)
			assert.True(t, amt(tt.want).Equal(got), "expected %s, got %s", tt.want, got)
		})
	}
}

func TestSignedAmountUnknownType(t *testing.T) {
	_, err := SignedAmount(domain.AccountType("EQUITY"), domain.DebitSide, amt("50"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown account type")
}

func testAccounts() []domain.Account {
	return []domain.Account{
		{AccountID: "bank", Number: "1020", Name: "Bank", AccountType: domain.Asset},
		{AccountID: "recv", Number: "1100", Name: "Debitoren", AccountType: domain.Asset},
		{AccountID: "loan", Number: "2400", Name: "Darlehen", AccountType: domain.Liability},
		{AccountID: "sales", Number: "3200", Name: "Warenertrag", AccountType: domain.Revenue},
		{AccountID: "rent", Number: "6000", Name: "Miete", AccountType: domain.Expense},
	}
}

func TestComputeBalances(t *testing.T) {
	accounts := testAccounts()
	txns := []domain.Transaction{
		// Cash sale: bank grows, revenue grows
		{TransactionID: "t1", DebitAccountID: "bank", CreditAccountID: "sales", Amount: amt("500")},
		// Rent paid from bank: expense grows, bank shrinks
		{TransactionID: "t2", DebitAccountID: "rent", CreditAccountID: "bank", Amount: amt("200")},
		// Loan received
		{TransactionID: "t3", DebitAccountID: "bank", CreditAccountID: "loan", Amount: amt("1000")},
	}

	balances, err := ComputeBalances(accounts, txns)
	require.NoError(t, err)

	assert.True(t, amt("1300").Equal(balances["bank"]), "bank: got %s", balances["bank"])
	assert.True(t, amt("500").Equal(balances["sales"]), "sales: got %s", balances["sales"])
	assert.True(t, amt("200").Equal(balances["rent"]), "rent: got %s", balances["rent"])
	assert.True(t, amt("1000").Equal(balances["loan"]), "loan: got %s", balances["loan"])
	assert.True(t, balances["recv"].IsZero(), "untouched account stays zero")
}

func TestComputeBalancesOrderIndependent(t *testing.T) {
	accounts := testAccounts()
	txns := []domain.Transaction{
		{TransactionID: "t1", DebitAccountID: "bank", CreditAccountID: "sales", Amount: amt("500")},
		{TransactionID: "t2", DebitAccountID: "rent", CreditAccountID: "bank", Amount: amt("200")},
		{TransactionID: "t3", DebitAccountID: "bank", CreditAccountID: "loan", Amount: amt("1000")},
	}
	reversed := []domain.Transaction{txns[2], txns[1], txns[0]}

	forward, err := ComputeBalances(accounts, txns)
	require.NoError(t, err)
	backward, err := ComputeBalances(accounts, reversed)
	require.NoError(t, err)

	for id, bal := range forward {
		assert.True(t, bal.Equal(backward[id]), "account %s differs by order", id)
	}
}

func TestComputeBalancesIgnoresUntracked(t *testing.T) {
	accounts := testAccounts()[:1] // only bank
	txns := []domain.Transaction{
		{TransactionID: "t1", DebitAccountID: "bank", CreditAccountID: "sales", Amount: amt("500")},
	}

	balances, err := ComputeBalances(accounts, txns)
	require.NoError(t, err)
	assert.True(t, amt("500").Equal(balances["bank"]))
	_, ok := balances["sales"]
	assert.False(t, ok, "untracked leg must not appear")
}

func TestSumByType(t *testing.T) {
	accounts := testAccounts()
	balances := map[string]decimal.Decimal{
		"bank":  amt("1300"),
		"recv":  amt("250"),
		"loan":  amt("1000"),
		"sales": amt("500"),
		"rent":  amt("200"),
	}

	assert.True(t, amt("1550").Equal(SumByType(accounts, balances, domain.Asset)))
	assert.True(t, amt("1000").Equal(SumByType(accounts, balances, domain.Liability)))
	assert.True(t, amt("500").Equal(SumByType(accounts, balances, domain.Revenue)))
	assert.True(t, amt("200").Equal(SumByType(accounts, balances, domain.Expense)))
}

func TestCashFlow(t *testing.T) {
	accounts := testAccounts()
	txns := []domain.Transaction{
		// Into bank (liquid, number 1020)
		{TransactionID: "t1", DebitAccountID: "bank", CreditAccountID: "sales", Amount: amt("500")},
		// Out of bank
		{TransactionID: "t2", DebitAccountID: "rent", CreditAccountID: "bank", Amount: amt("200")},
		// Debitoren (1100) is not liquid, no effect
		{TransactionID: "t3", DebitAccountID: "recv", CreditAccountID: "sales", Amount: amt("900")},
	}

	flow := CashFlow(accounts, txns)
	assert.True(t, amt("300").Equal(flow), "got %s", flow)
}

func TestMonthlySeries(t *testing.T) {
	accounts := testAccounts()
	jan := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	mar := time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC)

	txns := []domain.Transaction{
		{TransactionID: "t1", Date: mar, DebitAccountID: "bank", CreditAccountID: "sales", Amount: amt("500")},
		{TransactionID: "t2", Date: jan, DebitAccountID: "rent", CreditAccountID: "bank", Amount: amt("200")},
		{TransactionID: "t3", Date: jan, DebitAccountID: "bank", CreditAccountID: "sales", Amount: amt("300")},
	}

	series, err := MonthlySeries(accounts, txns)
	require.NoError(t, err)
	require.Len(t, series, 2, "two distinct months")

	assert.Equal(t, "2025-01", series[0].Month)
	assert.True(t, amt("300").Equal(series[0].Revenue))
	assert.True(t, amt("200").Equal(series[0].Expenses))
	assert.True(t, amt("100").Equal(series[0].CashFlow))

	assert.Equal(t, "2025-03", series[1].Month)
	assert.True(t, amt("500").Equal(series[1].Revenue))
	assert.True(t, series[1].Expenses.IsZero())
	assert.True(t, amt("500").Equal(series[1].CashFlow))
}
