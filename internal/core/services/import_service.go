package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/swisscockpit/kmu-cockpit/internal/apperrors"
	"github.com/swisscockpit/kmu-cockpit/internal/core/domain"
	portsrepo "github.com/swisscockpit/kmu-cockpit/internal/core/ports/repositories"
	portssvc "github.com/swisscockpit/kmu-cockpit/internal/core/ports/services"
	"github.com/swisscockpit/kmu-cockpit/internal/dto"
	"github.com/swisscockpit/kmu-cockpit/internal/utils/spreadsheet"
)

// maxWorkbookBytes caps uploads so a bad file cannot exhaust memory.
const maxWorkbookBytes = 10 << 20

// uploadTTL is how long a parsed upload waits for its execute call.
const uploadTTL = 30 * time.Minute

// parsedUpload is a parsed workbook waiting to be executed.
type parsedUpload struct {
	companyID string
	userID    string
	groups    []spreadsheet.TransactionGroup
	parsedAt  time.Time
	cancelled bool
}

// importService implements the ImportSvcFacade interface. Parsed uploads are
// held in memory between the parse and execute calls; they do not survive a
// restart, which matches the interactive two-step flow.
type importService struct {
	BaseService
	accountRepo portsrepo.AccountRepository
	groupRepo   portsrepo.AccountGroupRepository
	txnRepo     portsrepo.TransactionRepository

	mu      sync.Mutex
	uploads map[string]*parsedUpload
}

// NewImportService creates a new import service with the provided dependencies
func NewImportService(
	accountRepo portsrepo.AccountRepository,
	groupRepo portsrepo.AccountGroupRepository,
	txnRepo portsrepo.TransactionRepository,
	authorizer portssvc.CompanyAuthorizerSvc,
) portssvc.ImportSvcFacade {
	return &importService{
		BaseService: BaseService{CompanyAuthorizer: authorizer},
		accountRepo: accountRepo,
		groupRepo:   groupRepo,
		txnRepo:     txnRepo,
		uploads:     make(map[string]*parsedUpload),
	}
}

// Ensure importService implements the ImportSvcFacade interface
var _ portssvc.ImportSvcFacade = (*importService)(nil)

// readRows opens a workbook and returns the cell rows of its first sheet,
// header row excluded.
func readRows(r io.Reader) ([][]string, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxWorkbookBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if len(data) > maxWorkbookBytes {
		return nil, apperrors.NewAppError(400, "workbook exceeds the 10 MB upload limit", apperrors.ErrValidation)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, apperrors.NewAppError(400, "file is not a readable workbook", apperrors.ErrValidation)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperrors.NewAppError(400, "workbook contains no sheets", apperrors.ErrValidation)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, apperrors.NewAppError(400, "failed to read workbook rows", apperrors.ErrValidation)
	}
	if len(rows) <= 1 {
		return nil, apperrors.NewAppError(400, "workbook has no data rows", apperrors.ErrValidation)
	}
	return rows, nil
}

// ParseTransactionWorkbook reads an uploaded workbook, validates every row
// and returns the preview grouped by month.
func (s *importService) ParseTransactionWorkbook(ctx context.Context, companyID string, userID string, r io.Reader) (*dto.ParseImportResponse, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.RoleMember); err != nil {
		return nil, err
	}

	rows, err := readRows(r)
	if err != nil {
		return nil, err
	}

	var valid []spreadsheet.TransactionRow
	var invalid []spreadsheet.RowError
	for i, cells := range rows[1:] {
		line := i + 2 // 1-based, after the header
		if isBlankRow(cells) {
			continue
		}
		result := spreadsheet.DecodeTransactionRow(line, cells)
		if result.Ok() {
			valid = append(valid, result.Row)
		} else {
			invalid = append(invalid, *result.Invalid)
		}
	}

	groups := spreadsheet.GroupByMonth(valid)

	uploadID := uuid.NewString()
	s.mu.Lock()
	s.pruneExpiredLocked()
	s.uploads[uploadID] = &parsedUpload{
		companyID: companyID,
		userID:    userID,
		groups:    groups,
		parsedAt:  time.Now(),
	}
	s.mu.Unlock()

	s.LogInfo(ctx, "Workbook parsed",
		slog.String("upload_id", uploadID),
		slog.Int("valid_rows", len(valid)),
		slog.Int("invalid_rows", len(invalid)))

	return &dto.ParseImportResponse{
		UploadID:     uploadID,
		Groups:       dto.ToTransactionGroupResponses(groups),
		ValidCount:   len(valid),
		InvalidCount: len(invalid),
		InvalidRows:  dto.ToInvalidRowResponses(invalid),
	}, nil
}

// ExecuteImport books the valid rows of the selected month groups. Rows are
// saved one at a time so a cancel request takes effect between rows and the
// created count stays exact.
func (s *importService) ExecuteImport(ctx context.Context, companyID string, userID string, req dto.ExecuteImportRequest, onProgress portssvc.ImportProgressFunc) (*portssvc.ImportResult, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.RoleMember); err != nil {
		return nil, err
	}

	upload, err := s.takeUpload(companyID, req.UploadID)
	if err != nil {
		return nil, err
	}

	selected := make(map[string]bool, len(req.Months))
	for _, m := range req.Months {
		selected[m] = true
	}

	var rows []spreadsheet.TransactionRow
	for _, group := range upload.groups {
		if selected[group.Month] {
			rows = append(rows, group.Rows...)
		}
	}
	if len(rows) == 0 {
		return nil, apperrors.NewAppError(400, "selected months contain no rows", apperrors.ErrValidation)
	}

	accounts, err := s.resolveAccounts(ctx, companyID, rows)
	if err != nil {
		return nil, err
	}

	created := 0
	now := time.Now()
	for _, row := range rows {
		if s.isCancelled(req.UploadID) {
			s.LogInfo(ctx, "Import cancelled",
				slog.String("upload_id", req.UploadID),
				slog.Int("created", created))
			s.dropUpload(req.UploadID)
			return &portssvc.ImportResult{Outcome: portssvc.ImportCancelled, Created: created}, nil
		}

		txn := domain.Transaction{
			TransactionID:   uuid.NewString(),
			CompanyID:       companyID,
			Date:            row.Date,
			Amount:          row.Amount,
			DebitAccountID:  accounts[row.DebitNumber].AccountID,
			CreditAccountID: accounts[row.CreditNumber].AccountID,
			Description:     row.Description,
			DocumentRef:     row.DocumentRef,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		}
		if err := s.txnRepo.SaveTransaction(ctx, txn); err != nil {
			s.LogError(ctx, err, "Import failed mid-run",
				slog.String("upload_id", req.UploadID),
				slog.Int("created", created),
				slog.Int("line", row.Line))
			s.dropUpload(req.UploadID)
			return &portssvc.ImportResult{Outcome: portssvc.ImportFailed, Created: created, Err: err}, nil
		}
		created++

		if onProgress != nil {
			if err := onProgress(created, len(rows)); err != nil {
				// The booking run outlives a lost listener; stop
				// reporting and keep going.
				s.LogDebug(ctx, "Import progress listener gone",
					slog.String("upload_id", req.UploadID),
					slog.String("error", err.Error()))
				onProgress = nil
			}
		}
	}

	s.dropUpload(req.UploadID)
	s.LogInfo(ctx, "Import completed",
		slog.String("upload_id", req.UploadID),
		slog.Int("created", created))
	return &portssvc.ImportResult{Outcome: portssvc.ImportCompleted, Created: created}, nil
}

// CancelImport requests cancellation of a running import.
func (s *importService) CancelImport(ctx context.Context, companyID string, userID string, uploadID string) error {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.RoleMember); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	upload, ok := s.uploads[uploadID]
	if !ok || upload.companyID != companyID {
		return apperrors.NewNotFoundError("upload not found")
	}
	upload.cancelled = true
	return nil
}

// resolveAccounts maps every account number referenced by the rows to its
// account. An unknown or inactive number fails the whole import up front,
// naming the number.
func (s *importService) resolveAccounts(ctx context.Context, companyID string, rows []spreadsheet.TransactionRow) (map[string]domain.Account, error) {
	seen := make(map[string]bool)
	var numbers []string
	for _, row := range rows {
		for _, n := range []string{row.DebitNumber, row.CreditNumber} {
			if !seen[n] {
				seen[n] = true
				numbers = append(numbers, n)
			}
		}
	}

	accounts, err := s.accountRepo.FindAccountsByNumbers(ctx, companyID, numbers)
	if err != nil {
		s.LogError(ctx, err, "Failed to resolve import account numbers")
		return nil, err
	}

	for _, n := range numbers {
		account, ok := accounts[n]
		if !ok {
			return nil, apperrors.NewAppError(400, fmt.Sprintf("account number %s does not exist in the chart of accounts", n), apperrors.ErrValidation)
		}
		if !account.IsActive {
			return nil, apperrors.NewAppError(409, fmt.Sprintf("account number %s is inactive", n), apperrors.ErrConflict)
		}
	}
	return accounts, nil
}

// ImportAccountWorkbook reads an account plan workbook and creates the groups
// and accounts it describes. Creation runs in two phases: all groups first,
// then the parent links, so forward references between groups resolve.
func (s *importService) ImportAccountWorkbook(ctx context.Context, companyID string, userID string, r io.Reader) (*dto.AccountImportResponse, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.RoleMember); err != nil {
		return nil, err
	}

	rows, err := readRows(r)
	if err != nil {
		return nil, err
	}

	var valid []spreadsheet.AccountRow
	var invalid []spreadsheet.RowError
	for i, cells := range rows[1:] {
		line := i + 2
		if isBlankRow(cells) {
			continue
		}
		result := spreadsheet.DecodeAccountRow(line, cells)
		if result.Ok() {
			valid = append(valid, result.Row)
		} else {
			invalid = append(invalid, *result.Invalid)
		}
	}
	if len(valid) == 0 {
		return nil, apperrors.NewAppError(400, "workbook contains no valid account rows", apperrors.ErrValidation)
	}

	// Rows whose type parses are accounts; the rest are group headers.
	var accountRows, groupRows []spreadsheet.AccountRow
	for _, row := range valid {
		if _, ok := domain.ParseAccountType(row.TypeName); ok {
			accountRows = append(accountRows, row)
		} else {
			groupRows = append(groupRows, row)
		}
	}

	if err := groupCycleError(groupRows); err != nil {
		return nil, err
	}

	now := time.Now()
	audit := domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     userID,
		LastUpdatedAt: now,
		LastUpdatedBy: userID,
	}

	// Phase one: create every group without its parent link.
	groupIDs := make(map[string]string, len(groupRows))
	groups := make([]domain.AccountGroup, 0, len(groupRows))
	for _, row := range groupRows {
		id := uuid.NewString()
		groupIDs[row.Number] = id
		groups = append(groups, domain.AccountGroup{
			GroupID:     id,
			CompanyID:   companyID,
			Number:      row.Number,
			Name:        row.Name,
			AuditFields: audit,
		})
	}
	if err := s.groupRepo.SaveGroups(ctx, groups); err != nil {
		s.LogError(ctx, err, "Failed to save imported groups")
		return nil, err
	}

	// Phase two: wire the parent links now that every group exists.
	for _, row := range groupRows {
		if row.ParentGroup == "" {
			continue
		}
		parentID, ok := groupIDs[row.ParentGroup]
		if !ok {
			return nil, apperrors.NewAppError(400, fmt.Sprintf("line %d: parent group %s not present in the workbook", row.Line, row.ParentGroup), apperrors.ErrValidation)
		}
		if err := s.groupRepo.UpdateGroupParent(ctx, companyID, groupIDs[row.Number], &parentID, userID, now); err != nil {
			s.LogError(ctx, err, "Failed to link imported group parent",
				slog.String("group_number", row.Number))
			return nil, err
		}
	}

	accounts := make([]domain.Account, 0, len(accountRows))
	for _, row := range accountRows {
		accountType, _ := domain.ParseAccountType(row.TypeName)
		account := domain.Account{
			AccountID:   uuid.NewString(),
			CompanyID:   companyID,
			Number:      row.Number,
			Name:        row.Name,
			AccountType: accountType,
			VATCode:     row.VATType,
			IsActive:    true,
			AuditFields: audit,
		}
		if row.SystemCode != "" {
			account.IsSystem = true
			account.SystemCode = row.SystemCode
		}
		if row.ParentGroup != "" {
			groupID, ok := groupIDs[row.ParentGroup]
			if !ok {
				return nil, apperrors.NewAppError(400, fmt.Sprintf("line %d: group %s not present in the workbook", row.Line, row.ParentGroup), apperrors.ErrValidation)
			}
			account.GroupID = &groupID
		}
		accounts = append(accounts, account)
	}
	if err := s.accountRepo.SaveAccounts(ctx, accounts); err != nil {
		s.LogError(ctx, err, "Failed to save imported accounts")
		return nil, err
	}

	s.LogInfo(ctx, "Account plan imported",
		slog.Int("groups", len(groups)),
		slog.Int("accounts", len(accounts)))

	return &dto.AccountImportResponse{
		GroupsCreated:   len(groups),
		AccountsCreated: len(accounts),
		InvalidRows:     dto.ToInvalidRowResponses(invalid),
	}, nil
}

// groupCycleError walks every group's parent chain and rejects a workbook
// whose chains loop back on themselves before anything is written.
func groupCycleError(groupRows []spreadsheet.AccountRow) error {
	rowByNumber := make(map[string]spreadsheet.AccountRow, len(groupRows))
	for _, row := range groupRows {
		rowByNumber[row.Number] = row
	}
	for _, row := range groupRows {
		seen := make(map[string]bool)
		current := row
		for current.ParentGroup != "" {
			if seen[current.Number] {
				return apperrors.NewAppError(400, fmt.Sprintf("line %d: group %s is part of a parent cycle", row.Line, row.Number), apperrors.ErrValidation)
			}
			seen[current.Number] = true
			next, ok := rowByNumber[current.ParentGroup]
			if !ok {
				// Missing parents get their own line-numbered error later.
				break
			}
			current = next
		}
	}
	return nil
}

// takeUpload fetches a parsed upload, checking company ownership and TTL.
// The upload stays registered so CancelImport can reach it during the run.
func (s *importService) takeUpload(companyID string, uploadID string) (*parsedUpload, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	upload, ok := s.uploads[uploadID]
	if !ok || upload.companyID != companyID {
		return nil, apperrors.NewNotFoundError("upload not found or expired")
	}
	if time.Since(upload.parsedAt) > uploadTTL {
		delete(s.uploads, uploadID)
		return nil, apperrors.NewNotFoundError("upload not found or expired")
	}
	return upload, nil
}

func (s *importService) isCancelled(uploadID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	upload, ok := s.uploads[uploadID]
	return ok && upload.cancelled
}

func (s *importService) dropUpload(uploadID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.uploads, uploadID)
}

// pruneExpiredLocked drops uploads past their TTL. Caller holds mu.
func (s *importService) pruneExpiredLocked() {
	for id, upload := range s.uploads {
		if time.Since(upload.parsedAt) > uploadTTL {
			delete(s.uploads, id)
		}
	}
}

func isBlankRow(cells []string) bool {
	for _, c := range cells {
		if c != "" {
			return false
		}
	}
	return true
}
