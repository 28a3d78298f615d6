package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/swisscockpit/kmu-cockpit/internal/apperrors"
	"github.com/swisscockpit/kmu-cockpit/internal/core/domain"
	portsrepo "github.com/swisscockpit/kmu-cockpit/internal/core/ports/repositories"
	portssvc "github.com/swisscockpit/kmu-cockpit/internal/core/ports/services"
	"github.com/swisscockpit/kmu-cockpit/internal/storage"
)

// maxReceiptBytes caps receipt uploads.
const maxReceiptBytes = 15 << 20

// allowedReceiptTypes are the content types the extraction models can read.
var allowedReceiptTypes = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/webp":      ".webp",
	"application/pdf": ".pdf",
}

// receiptService implements the ReceiptSvc interface
type receiptService struct {
	BaseService
	receiptRepo portsrepo.ReceiptRepository
	store       *storage.LocalStore
}

// NewReceiptService creates a new receipt service with the provided dependencies
func NewReceiptService(
	receiptRepo portsrepo.ReceiptRepository,
	store *storage.LocalStore,
	authorizer portssvc.CompanyAuthorizerSvc,
) portssvc.ReceiptSvc {
	return &receiptService{
		BaseService: BaseService{CompanyAuthorizer: authorizer},
		receiptRepo: receiptRepo,
		store:       store,
	}
}

// Ensure receiptService implements the ReceiptSvc interface
var _ portssvc.ReceiptSvc = (*receiptService)(nil)

// StoreReceipt saves an uploaded receipt file and records its metadata
func (s *receiptService) StoreReceipt(ctx context.Context, companyID string, userID string, fileName string, contentType string, data []byte) (*domain.Receipt, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.RoleMember); err != nil {
		return nil, err
	}

	ext, ok := allowedReceiptTypes[contentType]
	if !ok {
		return nil, apperrors.NewAppError(400, fmt.Sprintf("unsupported receipt type %s", contentType), apperrors.ErrValidation)
	}
	if len(data) == 0 {
		return nil, apperrors.NewAppError(400, "empty upload", apperrors.ErrValidation)
	}
	if len(data) > maxReceiptBytes {
		return nil, apperrors.NewAppError(400, "receipt exceeds the 15 MB upload limit", apperrors.ErrValidation)
	}

	receiptID := uuid.NewString()
	objectKey := path.Join(companyID, "receipts", receiptID+ext)

	if err := s.store.Put(objectKey, data); err != nil {
		s.LogError(ctx, err, "Failed to store receipt file",
			slog.String("receipt_id", receiptID))
		return nil, err
	}

	receipt := domain.Receipt{
		ReceiptID:   receiptID,
		CompanyID:   companyID,
		ObjectKey:   objectKey,
		FileName:    sanitizeFileName(fileName),
		ContentType: contentType,
		SizeBytes:   int64(len(data)),
		UploadedBy:  userID,
		CreatedAt:   time.Now(),
	}

	if err := s.receiptRepo.SaveReceipt(ctx, receipt); err != nil {
		// Best effort: do not leave an orphan file behind.
		_ = s.store.Delete(objectKey)
		s.LogError(ctx, err, "Failed to save receipt metadata",
			slog.String("receipt_id", receiptID))
		return nil, err
	}

	s.LogInfo(ctx, "Receipt stored",
		slog.String("receipt_id", receiptID),
		slog.Int64("size_bytes", receipt.SizeBytes))
	return &receipt, nil
}

// GetReceiptByID retrieves receipt metadata
func (s *receiptService) GetReceiptByID(ctx context.Context, companyID string, receiptID string, userID string) (*domain.Receipt, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	receipt, err := s.receiptRepo.FindReceiptByID(ctx, companyID, receiptID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find receipt",
				slog.String("receipt_id", receiptID))
		}
		return nil, err
	}
	return receipt, nil
}

// ListReceipts retrieves a company's receipts, newest first
func (s *receiptService) ListReceipts(ctx context.Context, companyID string, userID string) ([]domain.Receipt, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	receipts, err := s.receiptRepo.ListReceipts(ctx, companyID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list receipts",
			slog.String("company_id", companyID))
		return nil, err
	}
	return receipts, nil
}

// SignedURL returns a time-limited download URL for a receipt
func (s *receiptService) SignedURL(ctx context.Context, companyID string, receiptID string, userID string) (string, error) {
	receipt, err := s.GetReceiptByID(ctx, companyID, receiptID, userID)
	if err != nil {
		return "", err
	}

	expires, signature := s.store.SignKey(receipt.ObjectKey, time.Now())
	q := url.Values{}
	q.Set("key", receipt.ObjectKey)
	q.Set("expires", fmt.Sprintf("%d", expires))
	q.Set("sig", signature)
	return "/files/download?" + q.Encode(), nil
}

// OpenReceipt opens the stored file for a verified signed request
func (s *receiptService) OpenReceipt(ctx context.Context, objectKey string) (io.ReadCloser, error) {
	return s.store.Open(objectKey)
}

// VerifySignedKey checks the signature and expiry of a download request
func (s *receiptService) VerifySignedKey(objectKey string, expires int64, signature string) error {
	return s.store.VerifyKey(objectKey, expires, signature)
}

// sanitizeFileName keeps only the base name of the uploaded file.
func sanitizeFileName(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		return "upload"
	}
	return name
}
