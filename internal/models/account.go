package models

// AccountType mirrors the account_type column values.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Expense   AccountType = "EXPENSE"
	Revenue   AccountType = "REVENUE"
)

// Account is the accounts table row.
type Account struct {
	AccountID       string      `db:"account_id"`
	CompanyID       string      `db:"company_id"`
	Number          string      `db:"number"`
	Name            string      `db:"name"`
	AccountType     AccountType `db:"account_type"`
	GroupID         *string     `db:"group_id"`
	IsSystem        bool        `db:"is_system"`
	SystemCode      string      `db:"system_code"`
	VATCode         string      `db:"vat_code"`
	LinkedAccountID *string     `db:"linked_account_id"`
	IsActive        bool        `db:"is_active"`
	AuditFields
}

// AccountGroup is the account_groups table row.
type AccountGroup struct {
	GroupID   string  `db:"group_id"`
	CompanyID string  `db:"company_id"`
	Number    string  `db:"number"`
	Name      string  `db:"name"`
	ParentID  *string `db:"parent_id"`
	AuditFields
}
