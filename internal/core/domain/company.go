package domain

import "time"

// Company is the tenant boundary: accounts, transactions, tasks, receipts and
// conversations all belong to exactly one company and are never visible
// across it.
type Company struct {
	CompanyID string `json:"companyID"`
	Name      string `json:"name"`
	LegalForm string `json:"legalForm"` // e.g. Einzelfirma, GmbH, AG
	VATNumber string `json:"vatNumber"`
	Street    string `json:"street"`
	ZIP       string `json:"zip"`
	City      string `json:"city"`
	Canton    string `json:"canton"`
	IsActive  bool   `json:"isActive"`
	AuditFields
}

// CompanyRole defines the possible roles a user can have within a company.
type CompanyRole string

const (
	RoleOwner    CompanyRole = "OWNER"
	RoleMember   CompanyRole = "MEMBER"
	RoleReadOnly CompanyRole = "READONLY"
	RoleRemoved  CompanyRole = "REMOVED"
)

// UserCompany represents the membership of a User in a Company.
type UserCompany struct {
	UserID    string      `json:"userID"`
	UserName  string      `json:"userName"`
	CompanyID string      `json:"companyID"`
	Role      CompanyRole `json:"role"`
	JoinedAt  time.Time   `json:"joinedAt"`
}
