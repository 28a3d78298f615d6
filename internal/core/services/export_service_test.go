package services_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/swisscockpit/kmu-cockpit/internal/apperrors"
	"github.com/swisscockpit/kmu-cockpit/internal/core/domain"
	portssvc "github.com/swisscockpit/kmu-cockpit/internal/core/ports/services"
	"github.com/swisscockpit/kmu-cockpit/internal/core/services"
)

type ExportServiceTestSuite struct {
	suite.Suite
	mockTxnRepo     *MockTransactionRepository
	mockAccountRepo *MockAccountRepository
	mockAuthorizer  *MockAuthorizer
	service         portssvc.ExportService
}

func (suite *ExportServiceTestSuite) SetupTest() {
	suite.mockTxnRepo = new(MockTransactionRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockAuthorizer = new(MockAuthorizer)
	suite.service = services.NewExportService(suite.mockTxnRepo, suite.mockAccountRepo, suite.mockAuthorizer)
}

func (suite *ExportServiceTestSuite) TestExportTransactionsCSV() {
	ctx := context.Background()
	userID := uuid.NewString()
	companyID := uuid.NewString()
	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)

	accounts := []domain.Account{
		{AccountID: "acc-bank", Number: "1020", Name: "Bank"},
		{AccountID: "acc-rent", Number: "6000", Name: "Miete"},
	}
	txns := []domain.Transaction{
		{
			TransactionID:   uuid.NewString(),
			Date:            time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC),
			Amount:          decimal.RequireFromString("1800"),
			DebitAccountID:  "acc-rent",
			CreditAccountID: "acc-bank",
			Description:     "Miete April",
			DocumentRef:     "RE-2025-017",
		},
		{
			TransactionID:   uuid.NewString(),
			Date:            time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
			Amount:          decimal.RequireFromString("12345.5"),
			DebitAccountID:  "acc-bank",
			CreditAccountID: "acc-rent",
			Description:     "Rueckerstattung",
		},
	}

	suite.mockAuthorizer.On("AuthorizeUserAction", ctx, userID, companyID, domain.RoleReadOnly).Return(nil).Once()
	suite.mockTxnRepo.On("ListTransactionsByDateRange", ctx, companyID, from, to).Return(txns, nil).Once()
	suite.mockAccountRepo.On("ListAccounts", ctx, companyID).Return(accounts, nil).Once()

	data, err := suite.service.ExportTransactionsCSV(ctx, companyID, from, to, userID)

	suite.Require().NoError(err)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	suite.Require().Len(lines, 3)

	suite.Equal("Datum,Beleg,Soll,Haben,Beschreibung,Betrag", lines[0])
	suite.Equal("15.03.2025,RE-2025-017,6000,1020,Miete April,1'800.00", lines[1])
	suite.Equal("01.04.2025,,1020,6000,Rueckerstattung,12'345.50", lines[2])

	suite.mockTxnRepo.AssertExpectations(suite.T())
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *ExportServiceTestSuite) TestExportTransactionsCSV_FormulaCellsEscaped() {
	ctx := context.Background()
	userID := uuid.NewString()
	companyID := uuid.NewString()
	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)

	txns := []domain.Transaction{
		{
			TransactionID:   uuid.NewString(),
			Date:            time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC),
			Amount:          decimal.RequireFromString("10"),
			DebitAccountID:  "acc-a",
			CreditAccountID: "acc-b",
			Description:     "=HYPERLINK(\"http://evil\")",
			DocumentRef:     "+123",
		},
	}

	suite.mockAuthorizer.On("AuthorizeUserAction", ctx, userID, companyID, domain.RoleReadOnly).Return(nil).Once()
	suite.mockTxnRepo.On("ListTransactionsByDateRange", ctx, companyID, from, to).Return(txns, nil).Once()
	suite.mockAccountRepo.On("ListAccounts", ctx, companyID).Return([]domain.Account{}, nil).Once()

	data, err := suite.service.ExportTransactionsCSV(ctx, companyID, from, to, userID)

	suite.Require().NoError(err)
	out := string(data)
	suite.Contains(out, "'+123", "document ref starting with + gets the quote prefix")
	suite.Contains(out, "'=HYPERLINK", "description starting with = gets the quote prefix")
	suite.NotContains(out, ",=HYPERLINK", "raw formula must not survive as a cell start")
}

func (suite *ExportServiceTestSuite) TestExportTransactionsCSV_Forbidden() {
	ctx := context.Background()
	userID := uuid.NewString()
	companyID := uuid.NewString()

	suite.mockAuthorizer.On("AuthorizeUserAction", ctx, userID, companyID, domain.RoleReadOnly).
		Return(apperrors.ErrForbidden).Once()

	_, err := suite.service.ExportTransactionsCSV(ctx, companyID, time.Now().AddDate(0, -1, 0), time.Now(), userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "ListTransactionsByDateRange", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestExportServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ExportServiceTestSuite))
}
