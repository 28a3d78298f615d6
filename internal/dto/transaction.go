package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/swisscockpit/kmu-cockpit/internal/core/domain"
)

// CreateTransactionRequest defines the data needed to book a transaction.
type CreateTransactionRequest struct {
	Date            time.Time       `json:"date" binding:"required" time_format:"2006-01-02"`
	Amount          decimal.Decimal `json:"amount" binding:"required"`
	DebitAccountID  string          `json:"debitAccountID" binding:"required"`
	CreditAccountID string          `json:"creditAccountID" binding:"required"`
	Description     string          `json:"description" binding:"required"`
	DocumentRef     string          `json:"documentRef"`
	IssuerName      string          `json:"issuerName"`
	IssuerStreet    string          `json:"issuerStreet"`
	IssuerZIP       string          `json:"issuerZip"`
	IssuerCity      string          `json:"issuerCity"`
	IssuerCountry   string          `json:"issuerCountry"`
	DueDate         *time.Time      `json:"dueDate"`
	ServiceFrom     *time.Time      `json:"serviceFrom"`
	ServiceTo       *time.Time      `json:"serviceTo"`
	ReceiptID       *string         `json:"receiptID"`
}

// UpdateTransactionRequest defines the updatable booking fields. Nil fields
// are left unchanged.
type UpdateTransactionRequest struct {
	Date            *time.Time       `json:"date" time_format:"2006-01-02"`
	Amount          *decimal.Decimal `json:"amount"`
	DebitAccountID  *string          `json:"debitAccountID"`
	CreditAccountID *string          `json:"creditAccountID"`
	Description     *string          `json:"description"`
	DocumentRef     *string          `json:"documentRef"`
	IssuerName      *string          `json:"issuerName"`
	IssuerStreet    *string          `json:"issuerStreet"`
	IssuerZIP       *string          `json:"issuerZip"`
	IssuerCity      *string          `json:"issuerCity"`
	IssuerCountry   *string          `json:"issuerCountry"`
	DueDate         *time.Time       `json:"dueDate"`
	ServiceFrom     *time.Time       `json:"serviceFrom"`
	ServiceTo       *time.Time       `json:"serviceTo"`
	ReceiptID       *string          `json:"receiptID"`
}

// TransactionResponse is the API view of a booking. Debit and credit legs are
// echoed with number and name so the journal table renders without extra
// lookups.
type TransactionResponse struct {
	TransactionID string          `json:"transactionID"`
	Date          time.Time       `json:"date"`
	Amount        decimal.Decimal `json:"amount"`
	DebitAccount  AccountRef      `json:"debitAccount"`
	CreditAccount AccountRef      `json:"creditAccount"`
	Description   string          `json:"description"`
	DocumentRef   string          `json:"documentRef,omitempty"`
	IssuerName    string          `json:"issuerName,omitempty"`
	IssuerStreet  string          `json:"issuerStreet,omitempty"`
	IssuerZIP     string          `json:"issuerZip,omitempty"`
	IssuerCity    string          `json:"issuerCity,omitempty"`
	IssuerCountry string          `json:"issuerCountry,omitempty"`
	DueDate       *time.Time      `json:"dueDate,omitempty"`
	ServiceFrom   *time.Time      `json:"serviceFrom,omitempty"`
	ServiceTo     *time.Time      `json:"serviceTo,omitempty"`
	ReceiptID     *string         `json:"receiptID,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// AccountRef is a slim account reference embedded in responses.
type AccountRef struct {
	AccountID string `json:"accountID"`
	Number    string `json:"number"`
	Name      string `json:"name"`
}

// ToTransactionResponse converts a domain transaction, resolving the two legs
// against the provided account lookup (keyed by account ID).
func ToTransactionResponse(t *domain.Transaction, accounts map[string]domain.Account) TransactionResponse {
	resp := TransactionResponse{
		TransactionID: t.TransactionID,
		Date:          t.Date,
		Amount:        t.Amount,
		Description:   t.Description,
		DocumentRef:   t.DocumentRef,
		IssuerName:    t.IssuerName,
		IssuerStreet:  t.IssuerStreet,
		IssuerZIP:     t.IssuerZIP,
		IssuerCity:    t.IssuerCity,
		IssuerCountry: t.IssuerCountry,
		DueDate:       t.DueDate,
		ServiceFrom:   t.ServiceFrom,
		ServiceTo:     t.ServiceTo,
		ReceiptID:     t.ReceiptID,
		CreatedAt:     t.CreatedAt,
	}
	resp.DebitAccount = toAccountRef(t.DebitAccountID, accounts)
	resp.CreditAccount = toAccountRef(t.CreditAccountID, accounts)
	return resp
}

func toAccountRef(accountID string, accounts map[string]domain.Account) AccountRef {
	ref := AccountRef{AccountID: accountID}
	if acc, ok := accounts[accountID]; ok {
		ref.Number = acc.Number
		ref.Name = acc.Name
	}
	return ref
}

// ListTransactionsParams defines the journal listing query parameters.
type ListTransactionsParams struct {
	From      *time.Time `form:"from" time_format:"2006-01-02"`
	To        *time.Time `form:"to" time_format:"2006-01-02"`
	AccountID *string    `form:"accountID"`
	Search    *string    `form:"q"`
	Limit     int        `form:"limit,default=50" binding:"omitempty,min=1,max=200"`
	NextToken *string    `form:"nextToken"`
}

// ListTransactionsResponse wraps a journal page.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}
