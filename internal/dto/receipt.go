package dto

import (
	"time"

	"github.com/swisscockpit/kmu-cockpit/internal/core/domain"
)

// ReceiptResponse is the API view of a stored receipt file.
type ReceiptResponse struct {
	ReceiptID   string    `json:"receiptID"`
	FileName    string    `json:"fileName"`
	ContentType string    `json:"contentType"`
	SizeBytes   int64     `json:"sizeBytes"`
	URL         string    `json:"url,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ToReceiptResponse converts a domain receipt. The signed URL is attached
// by the service since it depends on the request time.
func ToReceiptResponse(r *domain.Receipt, url string) ReceiptResponse {
	return ReceiptResponse{
		ReceiptID:   r.ReceiptID,
		FileName:    r.FileName,
		ContentType: r.ContentType,
		SizeBytes:   r.SizeBytes,
		URL:         url,
		CreatedAt:   r.CreatedAt,
	}
}

// ReceiptExtractionResponse is the structured result of reading a receipt.
type ReceiptExtractionResponse struct {
	Date          string  `json:"date"`
	Amount        string  `json:"amount"`
	Description   string  `json:"description"`
	DocumentRef   string  `json:"documentRef,omitempty"`
	IssuerName    string  `json:"issuerName,omitempty"`
	IssuerStreet  string  `json:"issuerStreet,omitempty"`
	IssuerZIP     string  `json:"issuerZip,omitempty"`
	IssuerCity    string  `json:"issuerCity,omitempty"`
	IssuerCountry string  `json:"issuerCountry,omitempty"`
	DueDate       *string `json:"dueDate,omitempty"`
	DebitNumber   string  `json:"debitNumber,omitempty"`
	CreditNumber  string  `json:"creditNumber,omitempty"`
	ReceiptID     string  `json:"receiptID"`
}

// ContractAnalysisResponse is the structured result of reading a contract.
type ContractAnalysisResponse struct {
	PartnerName   string  `json:"partnerName"`
	Subject       string  `json:"subject"`
	Amount        *string `json:"amount,omitempty"`
	ServiceFrom   *string `json:"serviceFrom,omitempty"`
	ServiceTo     *string `json:"serviceTo,omitempty"`
	NoticePeriod  string  `json:"noticePeriod,omitempty"`
	RenewalClause string  `json:"renewalClause,omitempty"`
	Risks         string  `json:"risks,omitempty"`
	Summary       string  `json:"summary"`
}
