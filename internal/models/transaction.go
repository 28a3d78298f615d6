package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is the transactions table row. One row is one double-entry
// booking between a debit and a credit account.
type Transaction struct {
	TransactionID   string          `db:"transaction_id"`
	CompanyID       string          `db:"company_id"`
	Date            time.Time       `db:"date"`
	Amount          decimal.Decimal `db:"amount"`
	DebitAccountID  string          `db:"debit_account_id"`
	CreditAccountID string          `db:"credit_account_id"`
	Description     string          `db:"description"`
	DocumentRef     string          `db:"document_ref"`
	IssuerName      string          `db:"issuer_name"`
	IssuerStreet    string          `db:"issuer_street"`
	IssuerZIP       string          `db:"issuer_zip"`
	IssuerCity      string          `db:"issuer_city"`
	IssuerCountry   string          `db:"issuer_country"`
	DueDate         *time.Time      `db:"due_date"`
	ServiceFrom     *time.Time      `db:"service_from"`
	ServiceTo       *time.Time      `db:"service_to"`
	ReceiptID       *string         `db:"receipt_id"`
	AuditFields
}
