package dto

import (
	"github.com/swisscockpit/kmu-cockpit/internal/utils/spreadsheet"
)

// InvalidRowResponse describes a spreadsheet row that failed validation.
type InvalidRowResponse struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

// TransactionRowResponse is one parsed booking row from an upload.
type TransactionRowResponse struct {
	Date         string `json:"date"`
	DocumentRef  string `json:"documentRef,omitempty"`
	DebitNumber  string `json:"debitNumber"`
	CreditNumber string `json:"creditNumber"`
	Description  string `json:"description"`
	Amount       string `json:"amount"`
}

// TransactionGroupResponse groups parsed rows by calendar month.
type TransactionGroupResponse struct {
	Month string                   `json:"month"`
	Rows  []TransactionRowResponse `json:"rows"`
}

// ParseImportResponse is the preview returned before an import runs.
type ParseImportResponse struct {
	UploadID     string                     `json:"uploadID"`
	Groups       []TransactionGroupResponse `json:"groups"`
	ValidCount   int                        `json:"validCount"`
	InvalidCount int                        `json:"invalidCount"`
	InvalidRows  []InvalidRowResponse       `json:"invalidRows,omitempty"`
}

// ExecuteImportRequest selects which month groups of a parsed upload to book.
type ExecuteImportRequest struct {
	UploadID string   `json:"uploadID" binding:"required"`
	Months   []string `json:"months" binding:"required,min=1"`
}

// ImportOutcomeResponse reports how an import run ended.
type ImportOutcomeResponse struct {
	Outcome string `json:"outcome"`
	Created int    `json:"created"`
	Error   string `json:"error,omitempty"`
}

// ImportProgressEvent is one server-sent update of a running import. Events
// without done carry the running count; the final event carries the outcome.
type ImportProgressEvent struct {
	Created int    `json:"created"`
	Total   int    `json:"total,omitempty"`
	Outcome string `json:"outcome,omitempty"`
	Error   string `json:"error,omitempty"`
	Done    bool   `json:"done,omitempty"`
}

// AccountImportResponse reports the result of a chart-of-accounts import.
type AccountImportResponse struct {
	GroupsCreated   int                  `json:"groupsCreated"`
	AccountsCreated int                  `json:"accountsCreated"`
	InvalidRows     []InvalidRowResponse `json:"invalidRows,omitempty"`
}

// ToTransactionGroupResponses converts parsed month groups for preview.
func ToTransactionGroupResponses(groups []spreadsheet.TransactionGroup) []TransactionGroupResponse {
	out := make([]TransactionGroupResponse, len(groups))
	for i, g := range groups {
		rows := make([]TransactionRowResponse, len(g.Rows))
		for j, r := range g.Rows {
			rows[j] = TransactionRowResponse{
				Date:         r.Date.Format("2006-01-02"),
				DocumentRef:  r.DocumentRef,
				DebitNumber:  r.DebitNumber,
				CreditNumber: r.CreditNumber,
				Description:  r.Description,
				Amount:       r.Amount.StringFixed(2),
			}
		}
		out[i] = TransactionGroupResponse{Month: g.Month, Rows: rows}
	}
	return out
}

// ToInvalidRowResponses converts row errors for the preview payload.
func ToInvalidRowResponses(errs []spreadsheet.RowError) []InvalidRowResponse {
	out := make([]InvalidRowResponse, len(errs))
	for i, e := range errs {
		out[i] = InvalidRowResponse{Line: e.Line, Reason: e.Reason}
	}
	return out
}
