package models

import "time"

// Company is the companies table row.
type Company struct {
	CompanyID string `db:"company_id"`
	Name      string `db:"name"`
	LegalForm string `db:"legal_form"`
	VATNumber string `db:"vat_number"`
	Street    string `db:"street"`
	ZIP       string `db:"zip"`
	City      string `db:"city"`
	Canton    string `db:"canton"`
	IsActive  bool   `db:"is_active"`
	AuditFields
}

// UserCompany is the user_companies membership row.
type UserCompany struct {
	UserID    string    `db:"user_id"`
	CompanyID string    `db:"company_id"`
	Role      string    `db:"role"`
	JoinedAt  time.Time `db:"joined_at"`
}
