package accounting

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/swisscockpit/kmu-cockpit/internal/core/domain"
)

// SignedAmount applies the double-entry sign convention to one leg of a
// transaction:
//
//	DEBIT  to ASSET/EXPENSE     -> +
//	CREDIT to ASSET/EXPENSE     -> -
//	DEBIT  to LIABILITY/REVENUE -> -
//	CREDIT to LIABILITY/REVENUE -> +
//
// Asset and expense accounts grow on the debit side, liability and revenue
// accounts grow on the credit side.
func SignedAmount(accountType domain.AccountType, side domain.EntrySide, amount decimal.Decimal) (decimal.Decimal, error) {
	isDebit := side == domain.DebitSide
	switch accountType {
	case domain.Asset, domain.Expense:
		if !isDebit {
			return amount.Neg(), nil
		}
		return amount, nil
	case domain.Liability, domain.Revenue:
		if isDebit {
			return amount.Neg(), nil
		}
		return amount, nil
	default:
		return decimal.Zero, fmt.Errorf("unknown account type '%s'", accountType)
	}
}

// ComputeBalances folds a set of transactions into a per-account signed
// balance. Every tracked account starts at zero; each transaction contributes
// its signed amount to whichever of its two legs is tracked. The fold is
// additive and order independent.
func ComputeBalances(accounts []domain.Account, transactions []domain.Transaction) (map[string]decimal.Decimal, error) {
	balances := make(map[string]decimal.Decimal, len(accounts))
	types := make(map[string]domain.AccountType, len(accounts))
	for _, acc := range accounts {
		balances[acc.AccountID] = decimal.Zero
		types[acc.AccountID] = acc.AccountType
	}

	for _, txn := range transactions {
		if t, ok := types[txn.DebitAccountID]; ok {
			signed, err := SignedAmount(t, domain.DebitSide, txn.Amount)
			if err != nil {
				return nil, fmt.Errorf("transaction %s debit leg: %w", txn.TransactionID, err)
			}
			balances[txn.DebitAccountID] = balances[txn.DebitAccountID].Add(signed)
		}
		if t, ok := types[txn.CreditAccountID]; ok {
			signed, err := SignedAmount(t, domain.CreditSide, txn.Amount)
			if err != nil {
				return nil, fmt.Errorf("transaction %s credit leg: %w", txn.TransactionID, err)
			}
			balances[txn.CreditAccountID] = balances[txn.CreditAccountID].Add(signed)
		}
	}

	return balances, nil
}

// SumByType totals the balances of all accounts of the given type.
func SumByType(accounts []domain.Account, balances map[string]decimal.Decimal, accountType domain.AccountType) decimal.Decimal {
	total := decimal.Zero
	for _, acc := range accounts {
		if acc.AccountType != accountType {
			continue
		}
		if b, ok := balances[acc.AccountID]; ok {
			total = total.Add(b)
		}
	}
	return total
}

// liquidPrefix marks cash-like asset accounts (Kasse, Post, Bank) in the KMU
// numbering scheme.
const liquidPrefix = "10"

// CashFlow computes the net change over liquid asset accounts for a
// transaction set. A debit into a liquid account is an inflow, a credit out
// of it an outflow.
func CashFlow(accounts []domain.Account, transactions []domain.Transaction) decimal.Decimal {
	liquid := make(map[string]bool)
	for _, acc := range accounts {
		if acc.AccountType == domain.Asset && strings.HasPrefix(acc.Number, liquidPrefix) {
			liquid[acc.AccountID] = true
		}
	}

	flow := decimal.Zero
	for _, txn := range transactions {
		if liquid[txn.DebitAccountID] {
			flow = flow.Add(txn.Amount)
		}
		if liquid[txn.CreditAccountID] {
			flow = flow.Sub(txn.Amount)
		}
	}
	return flow
}

// MonthKey buckets a transaction date as YYYY-MM.
func MonthKey(txn domain.Transaction) string {
	return txn.Date.Format("2006-01")
}

// MonthlySeries buckets transactions by calendar month and computes revenue,
// expenses and cash flow per bucket. Buckets are returned sorted by month key.
func MonthlySeries(accounts []domain.Account, transactions []domain.Transaction) ([]domain.MonthBucket, error) {
	byMonth := make(map[string][]domain.Transaction)
	for _, txn := range transactions {
		key := MonthKey(txn)
		byMonth[key] = append(byMonth[key], txn)
	}

	keys := make([]string, 0, len(byMonth))
	for k := range byMonth {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	series := make([]domain.MonthBucket, 0, len(keys))
	for _, key := range keys {
		monthTxns := byMonth[key]
		balances, err := ComputeBalances(accounts, monthTxns)
		if err != nil {
			return nil, err
		}
		series = append(series, domain.MonthBucket{
			Month:    key,
			Revenue:  SumByType(accounts, balances, domain.Revenue),
			Expenses: SumByType(accounts, balances, domain.Expense),
			CashFlow: CashFlow(accounts, monthTxns),
		})
	}
	return series, nil
}
