package services

import (
	"context"

	"github.com/swisscockpit/kmu-cockpit/internal/core/domain"
	"github.com/swisscockpit/kmu-cockpit/internal/dto"
)

// CompanyReaderSvc defines read operations for company data
type CompanyReaderSvc interface {
	// FindCompanyByID retrieves a specific company by its ID.
	FindCompanyByID(ctx context.Context, companyID string, requestingUserID string) (*domain.Company, error)

	// ListUserCompanies retrieves the companies a user belongs to.
	ListUserCompanies(ctx context.Context, userID string) ([]domain.Company, error)

	// ListCompanyMembers retrieves all users and their roles for a company.
	ListCompanyMembers(ctx context.Context, companyID string, requestingUserID string) ([]domain.UserCompany, error)
}

// CompanyWriterSvc defines write operations for company data
type CompanyWriterSvc interface {
	// CreateCompany persists a new company and makes the creator its owner.
	CreateCompany(ctx context.Context, req dto.CreateCompanyRequest, creatorUserID string) (*domain.Company, error)

	// UpdateCompany updates company master data.
	UpdateCompany(ctx context.Context, companyID string, req dto.UpdateCompanyRequest, requestingUserID string) (*domain.Company, error)
}

// CompanyMembershipSvc defines operations for managing company membership
type CompanyMembershipSvc interface {
	// AddUserToCompany adds a user to a company with a specific role.
	AddUserToCompany(ctx context.Context, requestingUserID, targetUserID, companyID string, role domain.CompanyRole) error

	// RemoveUserFromCompany marks a user's membership as removed.
	RemoveUserFromCompany(ctx context.Context, requestingUserID, targetUserID, companyID string) error

	// UpdateUserCompanyRole changes a member's role.
	UpdateUserCompanyRole(ctx context.Context, requestingUserID, targetUserID, companyID string, newRole domain.CompanyRole) error
}

// CompanyAuthorizerSvc defines operations for company authorization
type CompanyAuthorizerSvc interface {
	// AuthorizeUserAction checks that a user holds at least the required role in a company.
	AuthorizeUserAction(ctx context.Context, userID, companyID string, requiredRole domain.CompanyRole) error
}

// CompanySvcFacade combines all company-related service interfaces
type CompanySvcFacade interface {
	CompanyReaderSvc
	CompanyWriterSvc
	CompanyMembershipSvc
	CompanyAuthorizerSvc
}
