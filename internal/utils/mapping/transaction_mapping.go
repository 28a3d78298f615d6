package mapping

import (
	"github.com/swisscockpit/kmu-cockpit/internal/core/domain"
	"github.com/swisscockpit/kmu-cockpit/internal/models"
)

// ToModelTransaction converts a domain transaction to its table row form.
func ToModelTransaction(t domain.Transaction) models.Transaction {
	return models.Transaction{
		TransactionID:   t.TransactionID,
		CompanyID:       t.CompanyID,
		Date:            t.Date,
		Amount:          t.Amount,
		DebitAccountID:  t.DebitAccountID,
		CreditAccountID: t.CreditAccountID,
		Description:     t.Description,
		DocumentRef:     t.DocumentRef,
		IssuerName:      t.IssuerName,
		IssuerStreet:    t.IssuerStreet,
		IssuerZIP:       t.IssuerZIP,
		IssuerCity:      t.IssuerCity,
		IssuerCountry:   t.IssuerCountry,
		DueDate:         t.DueDate,
		ServiceFrom:     t.ServiceFrom,
		ServiceTo:       t.ServiceTo,
		ReceiptID:       t.ReceiptID,
		AuditFields:     ToModelAuditFields(t.AuditFields),
	}
}

// ToDomainTransaction converts a transactions table row to the domain form.
func ToDomainTransaction(m models.Transaction) domain.Transaction {
	return domain.Transaction{
		TransactionID:   m.TransactionID,
		CompanyID:       m.CompanyID,
		Date:            m.Date,
		Amount:          m.Amount,
		DebitAccountID:  m.DebitAccountID,
		CreditAccountID: m.CreditAccountID,
		Description:     m.Description,
		DocumentRef:     m.DocumentRef,
		IssuerName:      m.IssuerName,
		IssuerStreet:    m.IssuerStreet,
		IssuerZIP:       m.IssuerZIP,
		IssuerCity:      m.IssuerCity,
		IssuerCountry:   m.IssuerCountry,
		DueDate:         m.DueDate,
		ServiceFrom:     m.ServiceFrom,
		ServiceTo:       m.ServiceTo,
		ReceiptID:       m.ReceiptID,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainTransactionSlice converts a slice of transaction rows.
func ToDomainTransactionSlice(ms []models.Transaction) []domain.Transaction {
	out := make([]domain.Transaction, len(ms))
	for i, m := range ms {
		out[i] = ToDomainTransaction(m)
	}
	return out
}
