package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/swisscockpit/kmu-cockpit/internal/apperrors"
	"github.com/swisscockpit/kmu-cockpit/internal/core/domain"
	portsrepo "github.com/swisscockpit/kmu-cockpit/internal/core/ports/repositories"
	"github.com/swisscockpit/kmu-cockpit/internal/models"
	"github.com/swisscockpit/kmu-cockpit/internal/utils/mapping"
)

const receiptColumns = `receipt_id, company_id, object_key, file_name, content_type, size_bytes, uploaded_by, created_at`

type PgxReceiptRepository struct {
	BaseRepository
}

// newPgxReceiptRepository creates a new repository for receipt metadata.
func newPgxReceiptRepository(pool *pgxpool.Pool) portsrepo.ReceiptRepository {
	return &PgxReceiptRepository{BaseRepository{Pool: pool}}
}

// Ensure PgxReceiptRepository implements portsrepo.ReceiptRepository
var _ portsrepo.ReceiptRepository = (*PgxReceiptRepository)(nil)

func scanReceipt(row pgx.Row) (models.Receipt, error) {
	var m models.Receipt
	err := row.Scan(
		&m.ReceiptID,
		&m.CompanyID,
		&m.ObjectKey,
		&m.FileName,
		&m.ContentType,
		&m.SizeBytes,
		&m.UploadedBy,
		&m.CreatedAt,
	)
	return m, err
}

// SaveReceipt persists a receipt metadata row.
func (r *PgxReceiptRepository) SaveReceipt(ctx context.Context, receipt domain.Receipt) error {
	query := `
		INSERT INTO receipts (` + receiptColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.Pool.Exec(ctx, query,
		receipt.ReceiptID, receipt.CompanyID, receipt.ObjectKey,
		receipt.FileName, receipt.ContentType, receipt.SizeBytes,
		receipt.UploadedBy, receipt.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save receipt %s: %w", receipt.ReceiptID, err)
	}
	return nil
}

// FindReceiptByID retrieves a receipt within a company.
func (r *PgxReceiptRepository) FindReceiptByID(ctx context.Context, companyID string, receiptID string) (*domain.Receipt, error) {
	query := `
		SELECT ` + receiptColumns + `
		FROM receipts
		WHERE company_id = $1 AND receipt_id = $2;
	`
	m, err := scanReceipt(r.Pool.QueryRow(ctx, query, companyID, receiptID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find receipt by ID %s: %w", receiptID, err)
	}

	receipt := mapping.ToDomainReceipt(m)
	return &receipt, nil
}

// ListReceipts retrieves a company's receipts, newest first.
func (r *PgxReceiptRepository) ListReceipts(ctx context.Context, companyID string) ([]domain.Receipt, error) {
	query := `
		SELECT ` + receiptColumns + `
		FROM receipts
		WHERE company_id = $1
		ORDER BY created_at DESC;
	`
	rows, err := r.Pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query receipts for company %s: %w", companyID, err)
	}
	defer rows.Close()

	receipts := []domain.Receipt{}
	for rows.Next() {
		m, err := scanReceipt(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan receipt row: %w", err)
		}
		receipts = append(receipts, mapping.ToDomainReceipt(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating receipt rows: %w", err)
	}

	return receipts, nil
}
