package domain

// AccountType defines the fundamental accounting type of an account.
// The German names mirror the KMU chart of accounts the import files use:
// Aktiven, Passiven, Aufwand, Ertrag.
type AccountType string

const (
	Asset     AccountType = "ASSET"     // Aktiven
	Liability AccountType = "LIABILITY" // Passiven
	Expense   AccountType = "EXPENSE"   // Aufwand
	Revenue   AccountType = "REVENUE"   // Ertrag
)

// ParseAccountType maps the German type names found in import files onto
// AccountType. The English constants are accepted too.
func ParseAccountType(s string) (AccountType, bool) {
	switch s {
	case "Aktiven", "ASSET":
		return Asset, true
	case "Passiven", "LIABILITY":
		return Liability, true
	case "Aufwand", "EXPENSE":
		return Expense, true
	case "Ertrag", "REVENUE":
		return Revenue, true
	}
	return "", false
}

// Account represents one position of the chart of accounts.
// Number is a company-unique string of digits; its prefix places the account
// in the KMU numbering scheme (1xxx assets, 2xxx liabilities, ...).
type Account struct {
	AccountID       string      `json:"accountID"`
	CompanyID       string      `json:"companyID"`
	Number          string      `json:"number"`
	Name            string      `json:"name"`
	AccountType     AccountType `json:"accountType"`
	GroupID         *string     `json:"groupID"`         // Nullable FK -> account_groups
	IsSystem        bool        `json:"isSystem"`        // Seeded system account, not user-deletable
	SystemCode      string      `json:"systemCode"`      // Optional system account code from the import file
	VATCode         string      `json:"vatCode"`         // Optional VAT treatment
	LinkedAccountID *string     `json:"linkedAccountID"` // Optional counterpart account
	IsActive        bool        `json:"isActive"`
	AuditFields
}

// AccountGroup is a display rollup node of the chart of accounts.
// Groups form a forest via ParentID; accounts optionally hang off a group.
type AccountGroup struct {
	GroupID   string  `json:"groupID"`
	CompanyID string  `json:"companyID"`
	Number    string  `json:"number"`
	Name      string  `json:"name"`
	ParentID  *string `json:"parentID"` // Nullable FK -> account_groups (self)
	AuditFields
}
