package services

import (
	"context"
	"io"

	"github.com/swisscockpit/kmu-cockpit/internal/core/domain"
)

// ReceiptSvc defines operations for stored receipt files
type ReceiptSvc interface {
	// StoreReceipt saves an uploaded receipt file and records its metadata.
	StoreReceipt(ctx context.Context, companyID string, userID string, fileName string, contentType string, data []byte) (*domain.Receipt, error)

	// GetReceiptByID retrieves receipt metadata.
	GetReceiptByID(ctx context.Context, companyID string, receiptID string, userID string) (*domain.Receipt, error)

	// ListReceipts retrieves a company's receipts, newest first.
	ListReceipts(ctx context.Context, companyID string, userID string) ([]domain.Receipt, error)

	// SignedURL returns a time-limited download URL for a receipt.
	SignedURL(ctx context.Context, companyID string, receiptID string, userID string) (string, error)

	// OpenReceipt opens the stored file for a verified signed request.
	// The caller must close the reader.
	OpenReceipt(ctx context.Context, objectKey string) (io.ReadCloser, error)

	// VerifySignedKey checks the signature and expiry of a download request.
	VerifySignedKey(objectKey string, expires int64, signature string) error
}
