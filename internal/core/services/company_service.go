package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/swisscockpit/kmu-cockpit/internal/apperrors"
	"github.com/swisscockpit/kmu-cockpit/internal/core/domain"
	portsrepo "github.com/swisscockpit/kmu-cockpit/internal/core/ports/repositories"
	portssvc "github.com/swisscockpit/kmu-cockpit/internal/core/ports/services"
	"github.com/swisscockpit/kmu-cockpit/internal/dto"
)

// companyService implements the CompanySvcFacade interface
type companyService struct {
	BaseService
	companyRepo portsrepo.CompanyRepository
}

// NewCompanyService creates a new company service with the provided dependencies
func NewCompanyService(companyRepo portsrepo.CompanyRepository) portssvc.CompanySvcFacade {
	return &companyService{
		companyRepo: companyRepo,
	}
}

// Ensure companyService implements the CompanySvcFacade interface
var _ portssvc.CompanySvcFacade = (*companyService)(nil)

// FindCompanyByID retrieves a company the requesting user is a member of
func (s *companyService) FindCompanyByID(ctx context.Context, companyID string, requestingUserID string) (*domain.Company, error) {
	if err := s.AuthorizeUserAction(ctx, requestingUserID, companyID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	company, err := s.companyRepo.FindCompanyByID(ctx, companyID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find company by ID",
				slog.String("company_id", companyID))
		}
		return nil, err
	}

	return company, nil
}

// ListUserCompanies retrieves all companies a user belongs to
func (s *companyService) ListUserCompanies(ctx context.Context, userID string) ([]domain.Company, error) {
	companies, err := s.companyRepo.ListCompaniesByUser(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list companies for user",
			slog.String("user_id", userID))
		return nil, err
	}

	if companies == nil {
		return []domain.Company{}, nil
	}
	return companies, nil
}

// ListCompanyMembers retrieves all members of a company
func (s *companyService) ListCompanyMembers(ctx context.Context, companyID string, requestingUserID string) ([]domain.UserCompany, error) {
	if err := s.AuthorizeUserAction(ctx, requestingUserID, companyID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	members, err := s.companyRepo.ListCompanyMembers(ctx, companyID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list company members",
			slog.String("company_id", companyID))
		return nil, err
	}
	return members, nil
}

// CreateCompany creates a new company and makes the creator its owner
func (s *companyService) CreateCompany(ctx context.Context, req dto.CreateCompanyRequest, creatorUserID string) (*domain.Company, error) {
	now := time.Now()
	company := domain.Company{
		CompanyID: uuid.NewString(),
		Name:      req.Name,
		LegalForm: req.LegalForm,
		VATNumber: req.VATNumber,
		Street:    req.Street,
		ZIP:       req.ZIP,
		City:      req.City,
		Canton:    req.Canton,
		IsActive:  true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.companyRepo.SaveCompany(ctx, company, creatorUserID); err != nil {
		s.LogError(ctx, err, "Failed to save company",
			slog.String("company_name", req.Name))
		return nil, err
	}

	s.LogInfo(ctx, "Company created successfully",
		slog.String("company_id", company.CompanyID),
		slog.String("creator_id", creatorUserID))
	return &company, nil
}

// UpdateCompany updates company master data
func (s *companyService) UpdateCompany(ctx context.Context, companyID string, req dto.UpdateCompanyRequest, requestingUserID string) (*domain.Company, error) {
	if err := s.AuthorizeUserAction(ctx, requestingUserID, companyID, domain.RoleOwner); err != nil {
		return nil, err
	}

	company, err := s.companyRepo.FindCompanyByID(ctx, companyID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		company.Name = *req.Name
	}
	if req.LegalForm != nil {
		company.LegalForm = *req.LegalForm
	}
	if req.VATNumber != nil {
		company.VATNumber = *req.VATNumber
	}
	if req.Street != nil {
		company.Street = *req.Street
	}
	if req.ZIP != nil {
		company.ZIP = *req.ZIP
	}
	if req.City != nil {
		company.City = *req.City
	}
	if req.Canton != nil {
		company.Canton = *req.Canton
	}
	company.LastUpdatedAt = time.Now()
	company.LastUpdatedBy = requestingUserID

	if err := s.companyRepo.UpdateCompany(ctx, *company); err != nil {
		s.LogError(ctx, err, "Failed to update company",
			slog.String("company_id", companyID))
		return nil, err
	}

	return company, nil
}

// AddUserToCompany adds a user to a company with a specific role
func (s *companyService) AddUserToCompany(ctx context.Context, requestingUserID, targetUserID, companyID string, role domain.CompanyRole) error {
	// Self-assignment happens only through company creation
	if err := s.AuthorizeUserAction(ctx, requestingUserID, companyID, domain.RoleOwner); err != nil {
		s.LogError(ctx, err, "User not authorized to add members",
			slog.String("requesting_user_id", requestingUserID),
			slog.String("company_id", companyID))
		return err
	}

	if role == domain.RoleRemoved {
		return apperrors.NewAppError(400, "cannot add a member with the removed role", apperrors.ErrValidation)
	}

	membership := domain.UserCompany{
		UserID:    targetUserID,
		CompanyID: companyID,
		Role:      role,
		JoinedAt:  time.Now(),
	}

	if err := s.companyRepo.AddUserToCompany(ctx, membership); err != nil {
		s.LogError(ctx, err, "Failed to add user to company",
			slog.String("target_user_id", targetUserID),
			slog.String("company_id", companyID))
		return err
	}

	s.LogInfo(ctx, "User added to company",
		slog.String("target_user_id", targetUserID),
		slog.String("company_id", companyID),
		slog.String("role", string(role)))
	return nil
}

// RemoveUserFromCompany marks a user's membership as removed
func (s *companyService) RemoveUserFromCompany(ctx context.Context, requestingUserID, targetUserID, companyID string) error {
	if err := s.AuthorizeUserAction(ctx, requestingUserID, companyID, domain.RoleOwner); err != nil {
		return err
	}

	if requestingUserID == targetUserID {
		return apperrors.NewAppError(400, "owners cannot remove themselves", apperrors.ErrValidation)
	}

	if err := s.companyRepo.UpdateUserCompanyRole(ctx, targetUserID, companyID, domain.RoleRemoved); err != nil {
		s.LogError(ctx, err, "Failed to remove user from company",
			slog.String("target_user_id", targetUserID),
			slog.String("company_id", companyID))
		return err
	}

	s.LogInfo(ctx, "User removed from company",
		slog.String("target_user_id", targetUserID),
		slog.String("company_id", companyID))
	return nil
}

// UpdateUserCompanyRole changes a member's role
func (s *companyService) UpdateUserCompanyRole(ctx context.Context, requestingUserID, targetUserID, companyID string, newRole domain.CompanyRole) error {
	if err := s.AuthorizeUserAction(ctx, requestingUserID, companyID, domain.RoleOwner); err != nil {
		return err
	}

	if requestingUserID == targetUserID && newRole != domain.RoleOwner {
		return apperrors.NewAppError(400, "owners cannot demote themselves", apperrors.ErrValidation)
	}

	if err := s.companyRepo.UpdateUserCompanyRole(ctx, targetUserID, companyID, newRole); err != nil {
		s.LogError(ctx, err, "Failed to update member role",
			slog.String("target_user_id", targetUserID),
			slog.String("company_id", companyID))
		return err
	}
	return nil
}

// AuthorizeUserAction checks if a user has required permissions for a company
func (s *companyService) AuthorizeUserAction(ctx context.Context, userID, companyID string, requiredRole domain.CompanyRole) error {
	role, err := s.companyRepo.GetUserCompanyRole(ctx, userID, companyID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.LogDebug(ctx, "User not a member of company",
				slog.String("user_id", userID),
				slog.String("company_id", companyID))
			return apperrors.ErrForbidden
		}
		s.LogError(ctx, err, "Failed to find user company role",
			slog.String("user_id", userID),
			slog.String("company_id", companyID))
		return err
	}

	if !hasRequiredRole(role, requiredRole) {
		s.LogDebug(ctx, "User does not have required role",
			slog.String("user_id", userID),
			slog.String("company_id", companyID),
			slog.String("user_role", string(role)),
			slog.String("required_role", string(requiredRole)))
		return apperrors.ErrForbidden
	}

	return nil
}

// hasRequiredRole checks if the user's role meets or exceeds the required role
func hasRequiredRole(userRole, requiredRole domain.CompanyRole) bool {
	rank := func(r domain.CompanyRole) int {
		switch r {
		case domain.RoleOwner:
			return 3
		case domain.RoleMember:
			return 2
		case domain.RoleReadOnly:
			return 1
		default: // RoleRemoved and unknown roles carry no access
			return 0
		}
	}
	return rank(userRole) >= rank(requiredRole) && rank(userRole) > 0
}
