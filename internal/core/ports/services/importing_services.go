package services

import (
	"context"
	"io"

	"github.com/swisscockpit/kmu-cockpit/internal/dto"
)

// ImportOutcome reports how an import run ended.
type ImportOutcome string

const (
	ImportCompleted ImportOutcome = "COMPLETED"
	ImportCancelled ImportOutcome = "CANCELLED"
	ImportFailed    ImportOutcome = "FAILED"
)

// ImportProgressFunc receives the running booking count after each created
// row. A nil func disables progress reporting.
type ImportProgressFunc func(created, total int) error

// ImportResult carries the outcome of an executed import together with the
// number of bookings created before it finished, was cancelled or failed.
type ImportResult struct {
	Outcome ImportOutcome
	Created int
	Err     error
}

// TransactionImportSvc defines the two-step journal import flow: parse and
// preview a workbook first, then execute the selected month groups.
type TransactionImportSvc interface {
	// ParseTransactionWorkbook reads an uploaded workbook, validates every
	// row and returns the parse preview grouped by month. The parsed upload
	// is retained so ExecuteImport can run it later.
	ParseTransactionWorkbook(ctx context.Context, companyID string, userID string, r io.Reader) (*dto.ParseImportResponse, error)

	// ExecuteImport books the valid rows of the selected month groups,
	// invoking onProgress after each created booking. A cancel request
	// observed between rows stops the run after the current row and
	// reports how many bookings were created.
	ExecuteImport(ctx context.Context, companyID string, userID string, req dto.ExecuteImportRequest, onProgress ImportProgressFunc) (*ImportResult, error)

	// CancelImport requests cancellation of a running import.
	CancelImport(ctx context.Context, companyID string, userID string, uploadID string) error
}

// AccountImportSvc defines the chart-of-accounts workbook import.
type AccountImportSvc interface {
	// ImportAccountWorkbook reads an account plan workbook and creates the
	// groups and accounts it describes. Groups are created before the
	// accounts that reference them.
	ImportAccountWorkbook(ctx context.Context, companyID string, userID string, r io.Reader) (*dto.AccountImportResponse, error)
}

// ImportSvcFacade combines the import service interfaces
type ImportSvcFacade interface {
	TransactionImportSvc
	AccountImportSvc
}
