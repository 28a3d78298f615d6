package dto

import (
	"time"

	"github.com/swisscockpit/kmu-cockpit/internal/core/domain"
)

// CreateCompanyRequest defines the data needed to create a company.
type CreateCompanyRequest struct {
	Name      string `json:"name" binding:"required"`
	LegalForm string `json:"legalForm"`
	VATNumber string `json:"vatNumber"`
	Street    string `json:"street"`
	ZIP       string `json:"zip"`
	City      string `json:"city"`
	Canton    string `json:"canton"`
}

// UpdateCompanyRequest defines the updatable company fields.
type UpdateCompanyRequest struct {
	Name      *string `json:"name"`
	LegalForm *string `json:"legalForm"`
	VATNumber *string `json:"vatNumber"`
	Street    *string `json:"street"`
	ZIP       *string `json:"zip"`
	City      *string `json:"city"`
	Canton    *string `json:"canton"`
}

// CompanyResponse is the API view of a company.
type CompanyResponse struct {
	CompanyID string    `json:"companyID"`
	Name      string    `json:"name"`
	LegalForm string    `json:"legalForm"`
	VATNumber string    `json:"vatNumber"`
	Street    string    `json:"street"`
	ZIP       string    `json:"zip"`
	City      string    `json:"city"`
	Canton    string    `json:"canton"`
	CreatedAt time.Time `json:"createdAt"`
}

// ToCompanyResponse converts a domain company.
func ToCompanyResponse(c *domain.Company) CompanyResponse {
	return CompanyResponse{
		CompanyID: c.CompanyID,
		Name:      c.Name,
		LegalForm: c.LegalForm,
		VATNumber: c.VATNumber,
		Street:    c.Street,
		ZIP:       c.ZIP,
		City:      c.City,
		Canton:    c.Canton,
		CreatedAt: c.CreatedAt,
	}
}

// ToCompanyResponses converts a slice of domain companies.
func ToCompanyResponses(companies []domain.Company) []CompanyResponse {
	out := make([]CompanyResponse, len(companies))
	for i := range companies {
		out[i] = ToCompanyResponse(&companies[i])
	}
	return out
}

// AddMemberRequest adds a user to a company with a role.
type AddMemberRequest struct {
	UserID string             `json:"userID" binding:"required"`
	Role   domain.CompanyRole `json:"role" binding:"required,oneof=OWNER MEMBER READONLY"`
}

// MemberResponse is the API view of a company membership.
type MemberResponse struct {
	UserID   string             `json:"userID"`
	UserName string             `json:"userName"`
	Role     domain.CompanyRole `json:"role"`
	JoinedAt time.Time          `json:"joinedAt"`
}

// ToMemberResponses converts domain memberships.
func ToMemberResponses(members []domain.UserCompany) []MemberResponse {
	out := make([]MemberResponse, len(members))
	for i, m := range members {
		out[i] = MemberResponse{UserID: m.UserID, UserName: m.UserName, Role: m.Role, JoinedAt: m.JoinedAt}
	}
	return out
}
