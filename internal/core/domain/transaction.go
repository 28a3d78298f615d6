package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntrySide names the leg of a transaction an account sits on.
type EntrySide string

const (
	DebitSide  EntrySide = "DEBIT"
	CreditSide EntrySide = "CREDIT"
)

// Transaction is a single double-entry booking: a positive amount moved
// between exactly one debit and one credit account. Created once and treated
// as immutable; corrections are made by deleting and re-booking.
type Transaction struct {
	TransactionID   string          `json:"transactionID"`
	CompanyID       string          `json:"companyID"`
	Date            time.Time       `json:"date"`
	Amount          decimal.Decimal `json:"amount"` // Always positive
	DebitAccountID  string          `json:"debitAccountID"`
	CreditAccountID string          `json:"creditAccountID"`
	Description     string          `json:"description"`
	DocumentRef     string          `json:"documentRef"`
	IssuerName      string          `json:"issuerName"`
	IssuerStreet    string          `json:"issuerStreet"`
	IssuerZIP       string          `json:"issuerZip"`
	IssuerCity      string          `json:"issuerCity"`
	IssuerCountry   string          `json:"issuerCountry"`
	DueDate         *time.Time      `json:"dueDate"`
	ServiceFrom     *time.Time      `json:"serviceFrom"`
	ServiceTo       *time.Time      `json:"serviceTo"`
	ReceiptID       *string         `json:"receiptID"` // Nullable FK -> receipts
	AuditFields
}
