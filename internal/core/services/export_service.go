package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"time"

	"github.com/swisscockpit/kmu-cockpit/internal/core/domain"
	portsrepo "github.com/swisscockpit/kmu-cockpit/internal/core/ports/repositories"
	portssvc "github.com/swisscockpit/kmu-cockpit/internal/core/ports/services"
	"github.com/swisscockpit/kmu-cockpit/internal/utils"
)

// exportService renders the journal as CSV with Swiss formatting.
type exportService struct {
	BaseService
	txnRepo     portsrepo.TransactionRepository
	accountRepo portsrepo.AccountRepository
}

// NewExportService creates a new export service with the provided dependencies
func NewExportService(
	txnRepo portsrepo.TransactionRepository,
	accountRepo portsrepo.AccountRepository,
	authorizer portssvc.CompanyAuthorizerSvc,
) portssvc.ExportService {
	return &exportService{
		BaseService: BaseService{CompanyAuthorizer: authorizer},
		txnRepo:     txnRepo,
		accountRepo: accountRepo,
	}
}

// Ensure exportService implements the ExportService interface
var _ portssvc.ExportService = (*exportService)(nil)

var exportHeader = []string{"Datum", "Beleg", "Soll", "Haben", "Beschreibung", "Betrag"}

// ExportTransactionsCSV writes the company journal for a period as CSV.
// Numbers use the Swiss apostrophe thousands separator and dates the
// dd.mm.yyyy form so the file opens cleanly in a de-CH spreadsheet.
func (s *exportService) ExportTransactionsCSV(ctx context.Context, companyID string, from, to time.Time, userID string) ([]byte, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	txns, err := s.txnRepo.ListTransactionsByDateRange(ctx, companyID, from, to)
	if err != nil {
		s.LogError(ctx, err, "Failed to load transactions for export")
		return nil, err
	}

	accounts, err := s.accountRepo.ListAccounts(ctx, companyID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load accounts for export")
		return nil, err
	}
	numberByID := make(map[string]string, len(accounts))
	for _, acc := range accounts {
		numberByID[acc.AccountID] = acc.Number
	}

	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	if err := cw.Write(exportHeader); err != nil {
		return nil, err
	}
	for _, txn := range txns {
		record := []string{
			utils.FormatSwissDate(txn.Date),
			csvSafe(txn.DocumentRef),
			numberByID[txn.DebitAccountID],
			numberByID[txn.CreditAccountID],
			csvSafe(txn.Description),
			utils.FormatSwissAmount(txn.Amount),
		}
		if err := cw.Write(record); err != nil {
			return nil, err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		s.LogError(ctx, err, "Failed to write CSV export")
		return nil, err
	}

	return buf.Bytes(), nil
}

// csvSafe prevents CSV formula injection by prefixing cells that begin with a
// formula-triggering character with a single quote.
func csvSafe(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r':
		return "'" + s
	}
	return s
}
