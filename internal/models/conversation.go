package models

import "time"

// Conversation is the conversations table row. Topics is stored as a text
// array column.
type Conversation struct {
	ConversationID string    `db:"conversation_id"`
	CompanyID      string    `db:"company_id"`
	UserID         string    `db:"user_id"`
	Title          string    `db:"title"`
	Summary        string    `db:"summary"`
	Topics         []string  `db:"topics"`
	CreatedAt      time.Time `db:"created_at"`
	LastUpdatedAt  time.Time `db:"last_updated_at"`
}

// Message is the messages table row.
type Message struct {
	MessageID      string    `db:"message_id"`
	ConversationID string    `db:"conversation_id"`
	Role           string    `db:"role"`
	Content        string    `db:"content"`
	CreatedAt      time.Time `db:"created_at"`
}

// Receipt is the receipts table row.
type Receipt struct {
	ReceiptID   string    `db:"receipt_id"`
	CompanyID   string    `db:"company_id"`
	ObjectKey   string    `db:"object_key"`
	FileName    string    `db:"file_name"`
	ContentType string    `db:"content_type"`
	SizeBytes   int64     `db:"size_bytes"`
	UploadedBy  string    `db:"uploaded_by"`
	CreatedAt   time.Time `db:"created_at"`
}
