package services_test

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/xuri/excelize/v2"

	"github.com/swisscockpit/kmu-cockpit/internal/apperrors"
	"github.com/swisscockpit/kmu-cockpit/internal/core/domain"
	portssvc "github.com/swisscockpit/kmu-cockpit/internal/core/ports/services"
	"github.com/swisscockpit/kmu-cockpit/internal/core/services"
	"github.com/swisscockpit/kmu-cockpit/internal/dto"
)

type ImportServiceTestSuite struct {
	suite.Suite
	mockAccountRepo *MockAccountRepository
	mockGroupRepo   *MockAccountGroupRepository
	mockTxnRepo     *MockTransactionRepository
	mockAuthorizer  *MockAuthorizer
	service         portssvc.ImportSvcFacade

	ctx       context.Context
	userID    string
	companyID string
}

func (suite *ImportServiceTestSuite) SetupTest() {
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockGroupRepo = new(MockAccountGroupRepository)
	suite.mockTxnRepo = new(MockTransactionRepository)
	suite.mockAuthorizer = new(MockAuthorizer)
	suite.service = services.NewImportService(suite.mockAccountRepo, suite.mockGroupRepo, suite.mockTxnRepo, suite.mockAuthorizer)

	suite.ctx = context.Background()
	suite.userID = uuid.NewString()
	suite.companyID = uuid.NewString()
	suite.mockAuthorizer.On("AuthorizeUserAction", suite.ctx, suite.userID, suite.companyID, domain.RoleMember).Return(nil)
}

// buildWorkbook renders a single-sheet workbook from string rows, header
// included.
func buildWorkbook(t *testing.T, rows [][]string) *bytes.Reader {
	t.Helper()
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		for j, cell := range row {
			axis, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				t.Fatalf("cell name: %v", err)
			}
			if err := f.SetCellStr(sheet, axis, cell); err != nil {
				t.Fatalf("set cell: %v", err)
			}
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return bytes.NewReader(buf.Bytes())
}

var txnHeader = []string{"Datum", "Beleg", "Soll", "Haben", "Beschreibung", "Betrag"}

func (suite *ImportServiceTestSuite) parseWorkbook(dataRows [][]string) *dto.ParseImportResponse {
	rows := append([][]string{txnHeader}, dataRows...)
	resp, err := suite.service.ParseTransactionWorkbook(suite.ctx, suite.companyID, suite.userID, buildWorkbook(suite.T(), rows))
	suite.Require().NoError(err)
	return resp
}

func (suite *ImportServiceTestSuite) TestParse_GroupsByMonthAndCountsInvalid() {
	resp := suite.parseWorkbook([][]string{
		{"15.03.2025", "RE-1", "6000", "1020", "Miete", "1'800.00"},
		{"10.01.2025", "", "1020", "3200", "Barverkauf", "250.50"},
		{"kein datum", "RE-2", "6000", "1020", "Kaputt", "100"},
		{"20.03.2025", "RE-3", "6000", "", "Fehlt Haben", "100"},
		{"01.03.2025", "RE-4", "4200", "1020", "Wareneinkauf", "920,00"},
	})

	suite.NotEmpty(resp.UploadID)
	suite.Equal(3, resp.ValidCount)
	suite.Equal(2, resp.InvalidCount)
	suite.Require().Len(resp.InvalidRows, 2)
	suite.Equal(4, resp.InvalidRows[0].Line, "line numbers count from the worksheet header")
	suite.Contains(resp.InvalidRows[0].Reason, "invalid date")
	suite.Equal(5, resp.InvalidRows[1].Line)

	suite.Require().Len(resp.Groups, 2, "rows bucket by month")
	suite.Equal("2025-01", resp.Groups[0].Month)
	suite.Equal("2025-03", resp.Groups[1].Month)
	suite.Len(resp.Groups[1].Rows, 2)
	suite.Equal("920.00", resp.Groups[1].Rows[1].Amount, "comma decimal parsed")
}

func (suite *ImportServiceTestSuite) TestParse_RejectsNonWorkbook() {
	_, err := suite.service.ParseTransactionWorkbook(suite.ctx, suite.companyID, suite.userID, bytes.NewReader([]byte("not a workbook")))
	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func knownAccounts() map[string]domain.Account {
	return map[string]domain.Account{
		"1020": {AccountID: "acc-bank", Number: "1020", IsActive: true},
		"3200": {AccountID: "acc-sales", Number: "3200", IsActive: true},
		"6000": {AccountID: "acc-rent", Number: "6000", IsActive: true},
	}
}

func (suite *ImportServiceTestSuite) TestExecute_BooksSelectedMonths() {
	resp := suite.parseWorkbook([][]string{
		{"15.03.2025", "RE-1", "6000", "1020", "Miete", "1800"},
		{"10.01.2025", "", "1020", "3200", "Barverkauf", "250.50"},
		{"20.03.2025", "RE-3", "6000", "1020", "Miete NK", "120"},
	})

	suite.mockAccountRepo.On("FindAccountsByNumbers", suite.ctx, suite.companyID, mock.Anything).
		Return(knownAccounts(), nil).Once()
	suite.mockTxnRepo.On("SaveTransaction", suite.ctx, mock.MatchedBy(func(txn domain.Transaction) bool {
		return txn.CompanyID == suite.companyID && txn.DebitAccountID == "acc-rent" && txn.CreditAccountID == "acc-bank"
	})).Return(nil).Twice()

	result, err := suite.service.ExecuteImport(suite.ctx, suite.companyID, suite.userID, dto.ExecuteImportRequest{
		UploadID: resp.UploadID,
		Months:   []string{"2025-03"},
	}, nil)

	suite.Require().NoError(err)
	suite.Equal(portssvc.ImportCompleted, result.Outcome)
	suite.Equal(2, result.Created, "only the selected month is booked")
	suite.mockTxnRepo.AssertExpectations(suite.T())

	// The upload is consumed; running it again fails
	_, err = suite.service.ExecuteImport(suite.ctx, suite.companyID, suite.userID, dto.ExecuteImportRequest{
		UploadID: resp.UploadID,
		Months:   []string{"2025-03"},
	}, nil)
	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *ImportServiceTestSuite) TestExecute_UnknownAccountNumberFailsUpFront() {
	resp := suite.parseWorkbook([][]string{
		{"15.03.2025", "RE-1", "9999", "1020", "Unbekanntes Konto", "100"},
	})

	// 9999 is absent from the resolved map
	suite.mockAccountRepo.On("FindAccountsByNumbers", suite.ctx, suite.companyID, mock.Anything).
		Return(knownAccounts(), nil).Once()

	_, err := suite.service.ExecuteImport(suite.ctx, suite.companyID, suite.userID, dto.ExecuteImportRequest{
		UploadID: resp.UploadID,
		Months:   []string{"2025-03"},
	}, nil)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Contains(err.Error(), "9999", "the message names the missing number")
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "SaveTransaction", mock.Anything, mock.Anything)
}

func (suite *ImportServiceTestSuite) TestExecute_InactiveAccountConflicts() {
	resp := suite.parseWorkbook([][]string{
		{"15.03.2025", "RE-1", "6000", "1020", "Miete", "100"},
	})

	accounts := knownAccounts()
	stale := accounts["6000"]
	stale.IsActive = false
	accounts["6000"] = stale

	suite.mockAccountRepo.On("FindAccountsByNumbers", suite.ctx, suite.companyID, mock.Anything).
		Return(accounts, nil).Once()

	_, err := suite.service.ExecuteImport(suite.ctx, suite.companyID, suite.userID, dto.ExecuteImportRequest{
		UploadID: resp.UploadID,
		Months:   []string{"2025-03"},
	}, nil)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *ImportServiceTestSuite) TestExecute_CancelStopsBetweenRows() {
	var dataRows [][]string
	for i := 0; i < 10; i++ {
		dataRows = append(dataRows, []string{"15.03.2025", fmt.Sprintf("RE-%d", i), "6000", "1020", "Miete", "100"})
	}
	resp := suite.parseWorkbook(dataRows)

	suite.mockAccountRepo.On("FindAccountsByNumbers", suite.ctx, suite.companyID, mock.Anything).
		Return(knownAccounts(), nil).Once()

	// Cancel after the third booking lands; the run must stop before the
	// fourth row and report exactly three created.
	saved := 0
	suite.mockTxnRepo.On("SaveTransaction", suite.ctx, mock.Anything).
		Run(func(args mock.Arguments) {
			saved++
			if saved == 3 {
				suite.Require().NoError(suite.service.CancelImport(suite.ctx, suite.companyID, suite.userID, resp.UploadID))
			}
		}).Return(nil).Times(3)

	result, err := suite.service.ExecuteImport(suite.ctx, suite.companyID, suite.userID, dto.ExecuteImportRequest{
		UploadID: resp.UploadID,
		Months:   []string{"2025-03"},
	}, nil)

	suite.Require().NoError(err)
	suite.Equal(portssvc.ImportCancelled, result.Outcome)
	suite.Equal(3, result.Created)
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *ImportServiceTestSuite) TestExecute_SaveFailureReportsPartialCount() {
	resp := suite.parseWorkbook([][]string{
		{"15.03.2025", "RE-1", "6000", "1020", "Erste", "100"},
		{"16.03.2025", "RE-2", "6000", "1020", "Zweite", "100"},
	})

	suite.mockAccountRepo.On("FindAccountsByNumbers", suite.ctx, suite.companyID, mock.Anything).
		Return(knownAccounts(), nil).Once()
	suite.mockTxnRepo.On("SaveTransaction", suite.ctx, mock.Anything).Return(nil).Once()
	suite.mockTxnRepo.On("SaveTransaction", suite.ctx, mock.Anything).Return(apperrors.ErrInternal).Once()

	result, err := suite.service.ExecuteImport(suite.ctx, suite.companyID, suite.userID, dto.ExecuteImportRequest{
		UploadID: resp.UploadID,
		Months:   []string{"2025-03"},
	}, nil)

	suite.Require().NoError(err)
	suite.Equal(portssvc.ImportFailed, result.Outcome)
	suite.Equal(1, result.Created)
	suite.ErrorIs(result.Err, apperrors.ErrInternal)
}

func (suite *ImportServiceTestSuite) TestExecute_ReportsProgressPerRow() {
	resp := suite.parseWorkbook([][]string{
		{"15.03.2025", "RE-1", "6000", "1020", "Erste", "100"},
		{"16.03.2025", "RE-2", "6000", "1020", "Zweite", "100"},
		{"17.03.2025", "RE-3", "6000", "1020", "Dritte", "100"},
	})

	suite.mockAccountRepo.On("FindAccountsByNumbers", suite.ctx, suite.companyID, mock.Anything).
		Return(knownAccounts(), nil).Once()
	suite.mockTxnRepo.On("SaveTransaction", suite.ctx, mock.Anything).Return(nil).Times(3)

	var progress [][2]int
	result, err := suite.service.ExecuteImport(suite.ctx, suite.companyID, suite.userID, dto.ExecuteImportRequest{
		UploadID: resp.UploadID,
		Months:   []string{"2025-03"},
	}, func(created, total int) error {
		progress = append(progress, [2]int{created, total})
		return nil
	})

	suite.Require().NoError(err)
	suite.Equal(portssvc.ImportCompleted, result.Outcome)
	suite.Equal([][2]int{{1, 3}, {2, 3}, {3, 3}}, progress, "one update per booked row")
}

func (suite *ImportServiceTestSuite) TestExecute_ProgressListenerFailureDoesNotStopRun() {
	resp := suite.parseWorkbook([][]string{
		{"15.03.2025", "RE-1", "6000", "1020", "Erste", "100"},
		{"16.03.2025", "RE-2", "6000", "1020", "Zweite", "100"},
	})

	suite.mockAccountRepo.On("FindAccountsByNumbers", suite.ctx, suite.companyID, mock.Anything).
		Return(knownAccounts(), nil).Once()
	suite.mockTxnRepo.On("SaveTransaction", suite.ctx, mock.Anything).Return(nil).Times(2)

	calls := 0
	result, err := suite.service.ExecuteImport(suite.ctx, suite.companyID, suite.userID, dto.ExecuteImportRequest{
		UploadID: resp.UploadID,
		Months:   []string{"2025-03"},
	}, func(created, total int) error {
		calls++
		return fmt.Errorf("listener gone")
	})

	suite.Require().NoError(err)
	suite.Equal(portssvc.ImportCompleted, result.Outcome)
	suite.Equal(2, result.Created, "a lost listener must not abort the booking run")
	suite.Equal(1, calls, "reporting stops after the first failure")
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *ImportServiceTestSuite) TestExecute_RoundTripsThroughCSVExport() {
	resp := suite.parseWorkbook([][]string{
		{"15.03.2025", "RE-1", "6000", "1020", "Miete", "1'800.00"},
		{"20.03.2025", "", "1020", "3200", "Barverkauf", "250.50"},
	})

	suite.mockAccountRepo.On("FindAccountsByNumbers", suite.ctx, suite.companyID, mock.Anything).
		Return(knownAccounts(), nil).Once()

	var booked []domain.Transaction
	suite.mockTxnRepo.On("SaveTransaction", suite.ctx, mock.Anything).
		Run(func(args mock.Arguments) {
			booked = append(booked, args.Get(1).(domain.Transaction))
		}).Return(nil).Twice()

	result, err := suite.service.ExecuteImport(suite.ctx, suite.companyID, suite.userID, dto.ExecuteImportRequest{
		UploadID: resp.UploadID,
		Months:   []string{"2025-03"},
	}, nil)
	suite.Require().NoError(err)
	suite.Equal(2, result.Created)

	// Exporting the booked rows reproduces the workbook tuples exactly
	from := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)
	accounts := []domain.Account{
		{AccountID: "acc-bank", Number: "1020", Name: "Bank"},
		{AccountID: "acc-sales", Number: "3200", Name: "Warenertrag"},
		{AccountID: "acc-rent", Number: "6000", Name: "Miete"},
	}
	suite.mockAuthorizer.On("AuthorizeUserAction", suite.ctx, suite.userID, suite.companyID, domain.RoleReadOnly).Return(nil).Once()
	suite.mockTxnRepo.On("ListTransactionsByDateRange", suite.ctx, suite.companyID, from, to).Return(booked, nil).Once()
	suite.mockAccountRepo.On("ListAccounts", suite.ctx, suite.companyID).Return(accounts, nil).Once()

	exporter := services.NewExportService(suite.mockTxnRepo, suite.mockAccountRepo, suite.mockAuthorizer)
	data, err := exporter.ExportTransactionsCSV(suite.ctx, suite.companyID, from, to, suite.userID)
	suite.Require().NoError(err)

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	suite.Require().Len(lines, 3)
	suite.Equal("15.03.2025,RE-1,6000,1020,Miete,1'800.00", lines[1])
	suite.Equal("20.03.2025,,1020,3200,Barverkauf,250.50", lines[2])
}

func (suite *ImportServiceTestSuite) TestCancel_UnknownUploadNotFound() {
	err := suite.service.CancelImport(suite.ctx, suite.companyID, suite.userID, uuid.NewString())
	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *ImportServiceTestSuite) TestImportAccountWorkbook() {
	rows := [][]string{
		{"Nummer", "Bezeichnung", "Gruppe", "Typ", "Systemcode", "Verknuepft", "MWST"},
		{"1", "Aktiven", "", "", "", "", ""},
		{"10", "Umlaufvermoegen", "1", "", "", "", ""},
		{"1020", "Bank", "10", "Aktiven", "", "", ""},
		{"3200", "Warenertrag", "", "Ertrag", "", "", "UN"},
	}

	suite.mockGroupRepo.On("SaveGroups", suite.ctx, mock.MatchedBy(func(groups []domain.AccountGroup) bool {
		return len(groups) == 2 && groups[0].ParentID == nil && groups[1].ParentID == nil
	})).Return(nil).Once()
	suite.mockGroupRepo.On("UpdateGroupParent", suite.ctx, suite.companyID, mock.Anything, mock.Anything, suite.userID, mock.Anything).
		Return(nil).Once()
	suite.mockAccountRepo.On("SaveAccounts", suite.ctx, mock.MatchedBy(func(accounts []domain.Account) bool {
		if len(accounts) != 2 {
			return false
		}
		bank, sales := accounts[0], accounts[1]
		return bank.Number == "1020" && bank.AccountType == domain.Asset && bank.GroupID != nil &&
			sales.Number == "3200" && sales.AccountType == domain.Revenue && sales.GroupID == nil
	})).Return(nil).Once()

	resp, err := suite.service.ImportAccountWorkbook(suite.ctx, suite.companyID, suite.userID, buildWorkbook(suite.T(), rows))

	suite.Require().NoError(err)
	suite.Equal(2, resp.GroupsCreated)
	suite.Equal(2, resp.AccountsCreated)
	suite.mockGroupRepo.AssertExpectations(suite.T())
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *ImportServiceTestSuite) TestImportAccountWorkbook_ParentCycleRejected() {
	rows := [][]string{
		{"Nummer", "Bezeichnung", "Gruppe", "Typ", "Systemcode", "Verknuepft", "MWST"},
		{"10", "Umlaufvermoegen", "100", "", "", "", ""},
		{"100", "Fluessige Mittel", "10", "", "", "", ""},
	}

	_, err := suite.service.ImportAccountWorkbook(suite.ctx, suite.companyID, suite.userID, buildWorkbook(suite.T(), rows))

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Contains(err.Error(), "parent cycle")
	suite.mockGroupRepo.AssertNotCalled(suite.T(), "SaveGroups", mock.Anything, mock.Anything)
}

func (suite *ImportServiceTestSuite) TestImportAccountWorkbook_MissingParentGroup() {
	rows := [][]string{
		{"Nummer", "Bezeichnung", "Gruppe", "Typ", "Systemcode", "Verknuepft", "MWST"},
		{"1020", "Bank", "10", "Aktiven", "", "", ""},
	}

	suite.mockGroupRepo.On("SaveGroups", suite.ctx, mock.Anything).Return(nil).Once()

	_, err := suite.service.ImportAccountWorkbook(suite.ctx, suite.companyID, suite.userID, buildWorkbook(suite.T(), rows))

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Contains(err.Error(), "group 10")
}

func TestImportServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ImportServiceTestSuite))
}
