package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/swisscockpit/kmu-cockpit/internal/apperrors"
	"github.com/swisscockpit/kmu-cockpit/internal/core/domain"
	portssvc "github.com/swisscockpit/kmu-cockpit/internal/core/ports/services"
	"github.com/swisscockpit/kmu-cockpit/internal/core/services"
	"github.com/swisscockpit/kmu-cockpit/internal/dto"
)

// MockCompanyRepository is a mock type for the CompanyRepository interface
type MockCompanyRepository struct {
	mock.Mock
}

func (m *MockCompanyRepository) SaveCompany(ctx context.Context, company domain.Company, creatorUserID string) error {
	args := m.Called(ctx, company, creatorUserID)
	return args.Error(0)
}

func (m *MockCompanyRepository) FindCompanyByID(ctx context.Context, companyID string) (*domain.Company, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Company), args.Error(1)
}

func (m *MockCompanyRepository) ListCompaniesByUser(ctx context.Context, userID string) ([]domain.Company, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Company), args.Error(1)
}

func (m *MockCompanyRepository) UpdateCompany(ctx context.Context, company domain.Company) error {
	args := m.Called(ctx, company)
	return args.Error(0)
}

func (m *MockCompanyRepository) GetUserCompanyRole(ctx context.Context, userID string, companyID string) (domain.CompanyRole, error) {
	args := m.Called(ctx, userID, companyID)
	return args.Get(0).(domain.CompanyRole), args.Error(1)
}

func (m *MockCompanyRepository) AddUserToCompany(ctx context.Context, membership domain.UserCompany) error {
	args := m.Called(ctx, membership)
	return args.Error(0)
}

func (m *MockCompanyRepository) UpdateUserCompanyRole(ctx context.Context, userID string, companyID string, role domain.CompanyRole) error {
	args := m.Called(ctx, userID, companyID, role)
	return args.Error(0)
}

func (m *MockCompanyRepository) ListCompanyMembers(ctx context.Context, companyID string) ([]domain.UserCompany, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.UserCompany), args.Error(1)
}

// --- Test Suite Setup ---

type CompanyServiceTestSuite struct {
	suite.Suite
	mockRepo *MockCompanyRepository
	service  portssvc.CompanySvcFacade
}

func (suite *CompanyServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockCompanyRepository)
	suite.service = services.NewCompanyService(suite.mockRepo)
}

// --- Test Cases ---

func (suite *CompanyServiceTestSuite) TestCreateCompany_Success() {
	ctx := context.Background()
	creatorUserID := uuid.NewString()
	req := dto.CreateCompanyRequest{
		Name:      "Muster Treuhand GmbH",
		LegalForm: "GmbH",
		City:      "Zuerich",
		Canton:    "ZH",
	}

	suite.mockRepo.On("SaveCompany", ctx, mock.AnythingOfType("domain.Company"), creatorUserID).Return(nil).Once()

	company, err := suite.service.CreateCompany(ctx, req, creatorUserID)

	suite.Require().NoError(err)
	suite.Require().NotNil(company)
	suite.NotEmpty(company.CompanyID)
	suite.Equal(req.Name, company.Name)
	suite.Equal(req.LegalForm, company.LegalForm)
	suite.True(company.IsActive)
	suite.Equal(creatorUserID, company.CreatedBy)
	suite.WithinDuration(time.Now(), company.CreatedAt, time.Second)

	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *CompanyServiceTestSuite) TestFindCompanyByID_RequiresMembership() {
	ctx := context.Background()
	userID := uuid.NewString()
	companyID := uuid.NewString()

	suite.mockRepo.On("GetUserCompanyRole", ctx, userID, companyID).
		Return(domain.CompanyRole(""), apperrors.ErrNotFound).Once()

	_, err := suite.service.FindCompanyByID(ctx, companyID, userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockRepo.AssertNotCalled(suite.T(), "FindCompanyByID", mock.Anything, mock.Anything)
}

func (suite *CompanyServiceTestSuite) TestFindCompanyByID_ReadOnlyIsEnough() {
	ctx := context.Background()
	userID := uuid.NewString()
	companyID := uuid.NewString()
	company := &domain.Company{CompanyID: companyID, Name: "Muster AG"}

	suite.mockRepo.On("GetUserCompanyRole", ctx, userID, companyID).Return(domain.RoleReadOnly, nil).Once()
	suite.mockRepo.On("FindCompanyByID", ctx, companyID).Return(company, nil).Once()

	got, err := suite.service.FindCompanyByID(ctx, companyID, userID)

	suite.Require().NoError(err)
	suite.Equal(company, got)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *CompanyServiceTestSuite) TestUpdateCompany_MemberForbidden() {
	ctx := context.Background()
	userID := uuid.NewString()
	companyID := uuid.NewString()

	suite.mockRepo.On("GetUserCompanyRole", ctx, userID, companyID).Return(domain.RoleMember, nil).Once()

	name := "New Name"
	_, err := suite.service.UpdateCompany(ctx, companyID, dto.UpdateCompanyRequest{Name: &name}, userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateCompany", mock.Anything, mock.Anything)
}

func (suite *CompanyServiceTestSuite) TestAddUserToCompany_Success() {
	ctx := context.Background()
	ownerID := uuid.NewString()
	targetID := uuid.NewString()
	companyID := uuid.NewString()

	suite.mockRepo.On("GetUserCompanyRole", ctx, ownerID, companyID).Return(domain.RoleOwner, nil).Once()
	suite.mockRepo.On("AddUserToCompany", ctx, mock.MatchedBy(func(m domain.UserCompany) bool {
		return m.UserID == targetID && m.CompanyID == companyID && m.Role == domain.RoleMember
	})).Return(nil).Once()

	err := suite.service.AddUserToCompany(ctx, ownerID, targetID, companyID, domain.RoleMember)

	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *CompanyServiceTestSuite) TestAddUserToCompany_RemovedRoleRejected() {
	ctx := context.Background()
	ownerID := uuid.NewString()
	companyID := uuid.NewString()

	suite.mockRepo.On("GetUserCompanyRole", ctx, ownerID, companyID).Return(domain.RoleOwner, nil).Once()

	err := suite.service.AddUserToCompany(ctx, ownerID, uuid.NewString(), companyID, domain.RoleRemoved)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "AddUserToCompany", mock.Anything, mock.Anything)
}

func (suite *CompanyServiceTestSuite) TestRemoveUserFromCompany_SelfRemovalRejected() {
	ctx := context.Background()
	ownerID := uuid.NewString()
	companyID := uuid.NewString()

	suite.mockRepo.On("GetUserCompanyRole", ctx, ownerID, companyID).Return(domain.RoleOwner, nil).Once()

	err := suite.service.RemoveUserFromCompany(ctx, ownerID, ownerID, companyID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *CompanyServiceTestSuite) TestRemoveUserFromCompany_MarksRemoved() {
	ctx := context.Background()
	ownerID := uuid.NewString()
	targetID := uuid.NewString()
	companyID := uuid.NewString()

	suite.mockRepo.On("GetUserCompanyRole", ctx, ownerID, companyID).Return(domain.RoleOwner, nil).Once()
	suite.mockRepo.On("UpdateUserCompanyRole", ctx, targetID, companyID, domain.RoleRemoved).Return(nil).Once()

	err := suite.service.RemoveUserFromCompany(ctx, ownerID, targetID, companyID)

	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *CompanyServiceTestSuite) TestUpdateUserCompanyRole_SelfDemotionRejected() {
	ctx := context.Background()
	ownerID := uuid.NewString()
	companyID := uuid.NewString()

	suite.mockRepo.On("GetUserCompanyRole", ctx, ownerID, companyID).Return(domain.RoleOwner, nil).Once()

	err := suite.service.UpdateUserCompanyRole(ctx, ownerID, ownerID, companyID, domain.RoleMember)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *CompanyServiceTestSuite) TestAuthorizeUserAction_RoleHierarchy() {
	ctx := context.Background()
	companyID := uuid.NewString()

	tests := []struct {
		name    string
		have    domain.CompanyRole
		need    domain.CompanyRole
		allowed bool
	}{
		{"owner can do owner things", domain.RoleOwner, domain.RoleOwner, true},
		{"owner can do member things", domain.RoleOwner, domain.RoleMember, true},
		{"member cannot do owner things", domain.RoleMember, domain.RoleOwner, false},
		{"member can read", domain.RoleMember, domain.RoleReadOnly, true},
		{"readonly cannot write", domain.RoleReadOnly, domain.RoleMember, false},
		{"readonly can read", domain.RoleReadOnly, domain.RoleReadOnly, true},
		{"removed has no access at all", domain.RoleRemoved, domain.RoleReadOnly, false},
	}

	authorizer := suite.service.(portssvc.CompanyAuthorizerSvc)
	for _, tt := range tests {
		suite.Run(tt.name, func() {
			userID := uuid.NewString()
			suite.mockRepo.On("GetUserCompanyRole", ctx, userID, companyID).Return(tt.have, nil).Once()

			err := authorizer.AuthorizeUserAction(ctx, userID, companyID, tt.need)
			if tt.allowed {
				suite.NoError(err)
			} else {
				suite.ErrorIs(err, apperrors.ErrForbidden)
			}
		})
	}
}

func TestCompanyServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CompanyServiceTestSuite))
}
