package mapping

import (
	"github.com/swisscockpit/kmu-cockpit/internal/core/domain"
	"github.com/swisscockpit/kmu-cockpit/internal/models"
)

// ToModelAccount converts a domain account to its table row form.
func ToModelAccount(a domain.Account) models.Account {
	return models.Account{
		AccountID:       a.AccountID,
		CompanyID:       a.CompanyID,
		Number:          a.Number,
		Name:            a.Name,
		AccountType:     models.AccountType(a.AccountType),
		GroupID:         a.GroupID,
		IsSystem:        a.IsSystem,
		SystemCode:      a.SystemCode,
		VATCode:         a.VATCode,
		LinkedAccountID: a.LinkedAccountID,
		IsActive:        a.IsActive,
		AuditFields:     ToModelAuditFields(a.AuditFields),
	}
}

// ToDomainAccount converts an accounts table row to the domain form.
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:       m.AccountID,
		CompanyID:       m.CompanyID,
		Number:          m.Number,
		Name:            m.Name,
		AccountType:     domain.AccountType(m.AccountType),
		GroupID:         m.GroupID,
		IsSystem:        m.IsSystem,
		SystemCode:      m.SystemCode,
		VATCode:         m.VATCode,
		LinkedAccountID: m.LinkedAccountID,
		IsActive:        m.IsActive,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainAccountSlice converts a slice of account rows.
func ToDomainAccountSlice(ms []models.Account) []domain.Account {
	out := make([]domain.Account, len(ms))
	for i, m := range ms {
		out[i] = ToDomainAccount(m)
	}
	return out
}

// ToModelAccountGroup converts a domain account group to its table row form.
func ToModelAccountGroup(g domain.AccountGroup) models.AccountGroup {
	return models.AccountGroup{
		GroupID:     g.GroupID,
		CompanyID:   g.CompanyID,
		Number:      g.Number,
		Name:        g.Name,
		ParentID:    g.ParentID,
		AuditFields: ToModelAuditFields(g.AuditFields),
	}
}

// ToDomainAccountGroup converts an account_groups table row to the domain form.
func ToDomainAccountGroup(m models.AccountGroup) domain.AccountGroup {
	return domain.AccountGroup{
		GroupID:     m.GroupID,
		CompanyID:   m.CompanyID,
		Number:      m.Number,
		Name:        m.Name,
		ParentID:    m.ParentID,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainAccountGroupSlice converts a slice of account group rows.
func ToDomainAccountGroupSlice(ms []models.AccountGroup) []domain.AccountGroup {
	out := make([]domain.AccountGroup, len(ms))
	for i, m := range ms {
		out[i] = ToDomainAccountGroup(m)
	}
	return out
}
