package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/swisscockpit/kmu-cockpit/internal/ai"
	"github.com/swisscockpit/kmu-cockpit/internal/core/domain"
	portsrepo "github.com/swisscockpit/kmu-cockpit/internal/core/ports/repositories"
	portssvc "github.com/swisscockpit/kmu-cockpit/internal/core/ports/services"
	"github.com/swisscockpit/kmu-cockpit/internal/dto"
)

// extractionService implements the ExtractionSvc interface. Receipts are
// stored before extraction so a failed model call never loses the upload.
type extractionService struct {
	BaseService
	assistant   ai.Assistant
	receiptSvc  portssvc.ReceiptSvc
	accountRepo portsrepo.AccountRepository
}

// NewExtractionService creates a new extraction service with the provided dependencies
func NewExtractionService(
	assistant ai.Assistant,
	receiptSvc portssvc.ReceiptSvc,
	accountRepo portsrepo.AccountRepository,
	authorizer portssvc.CompanyAuthorizerSvc,
) portssvc.ExtractionSvc {
	return &extractionService{
		BaseService: BaseService{CompanyAuthorizer: authorizer},
		assistant:   assistant,
		receiptSvc:  receiptSvc,
		accountRepo: accountRepo,
	}
}

// Ensure extractionService implements the ExtractionSvc interface
var _ portssvc.ExtractionSvc = (*extractionService)(nil)

// ExtractReceipt stores an uploaded receipt and reads the booking fields out of it
func (s *extractionService) ExtractReceipt(ctx context.Context, companyID string, userID string, fileName string, contentType string, data []byte) (*dto.ReceiptExtractionResponse, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.RoleMember); err != nil {
		return nil, err
	}

	receipt, err := s.receiptSvc.StoreReceipt(ctx, companyID, userID, fileName, contentType, data)
	if err != nil {
		return nil, err
	}

	chart, err := s.chartListing(ctx, companyID)
	if err != nil {
		return nil, err
	}

	fields, err := s.assistant.ExtractReceipt(ctx, contentType, data, chart)
	if err != nil {
		s.LogError(ctx, err, "Receipt extraction failed")
		return nil, err
	}

	resp := &dto.ReceiptExtractionResponse{
		Date:          fields.Date,
		Amount:        fields.Amount,
		Description:   fields.Description,
		DocumentRef:   fields.DocumentRef,
		IssuerName:    fields.IssuerName,
		IssuerStreet:  fields.IssuerStreet,
		IssuerZIP:     fields.IssuerZIP,
		IssuerCity:    fields.IssuerCity,
		IssuerCountry: fields.IssuerCountry,
		DebitNumber:   fields.DebitNumber,
		CreditNumber:  fields.CreditNumber,
		ReceiptID:     receipt.ReceiptID,
	}
	if fields.DueDate != "" {
		due := fields.DueDate
		resp.DueDate = &due
	}
	return resp, nil
}

// AnalyzeContract reads the key terms out of an uploaded contract
func (s *extractionService) AnalyzeContract(ctx context.Context, companyID string, userID string, fileName string, contentType string, data []byte) (*dto.ContractAnalysisResponse, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.RoleMember); err != nil {
		return nil, err
	}

	fields, err := s.assistant.AnalyzeContract(ctx, contentType, data)
	if err != nil {
		s.LogError(ctx, err, "Contract analysis failed")
		return nil, err
	}

	resp := &dto.ContractAnalysisResponse{
		PartnerName:   fields.PartnerName,
		Subject:       fields.Subject,
		NoticePeriod:  fields.NoticePeriod,
		RenewalClause: fields.RenewalClause,
		Risks:         fields.Risks,
		Summary:       fields.Summary,
	}
	if fields.Amount != "" {
		amount := fields.Amount
		resp.Amount = &amount
	}
	if fields.ServiceFrom != "" {
		from := fields.ServiceFrom
		resp.ServiceFrom = &from
	}
	if fields.ServiceTo != "" {
		to := fields.ServiceTo
		resp.ServiceTo = &to
	}
	return resp, nil
}

// chartListing renders the active accounts as "number name" lines for the
// extraction prompt.
func (s *extractionService) chartListing(ctx context.Context, companyID string) (string, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx, companyID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load chart for extraction")
		return "", err
	}

	var b strings.Builder
	for _, acc := range accounts {
		if !acc.IsActive {
			continue
		}
		fmt.Fprintf(&b, "%s %s\n", acc.Number, acc.Name)
	}
	return b.String(), nil
}
