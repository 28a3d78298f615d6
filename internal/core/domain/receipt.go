package domain

import "time"

// Receipt is the metadata row for an uploaded document image or PDF.
// The binary lives in the object store under ObjectKey, which follows the
// convention receipts/{userID}/receipts/{uuid}.{ext}.
type Receipt struct {
	ReceiptID   string    `json:"receiptID"`
	CompanyID   string    `json:"companyID"`
	ObjectKey   string    `json:"objectKey"`
	FileName    string    `json:"fileName"`
	ContentType string    `json:"contentType"`
	SizeBytes   int64     `json:"sizeBytes"`
	UploadedBy  string    `json:"uploadedBy"`
	CreatedAt   time.Time `json:"createdAt"`
}
