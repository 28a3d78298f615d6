package repositories

import (
	"context"
	"time"

	"github.com/swisscockpit/kmu-cockpit/internal/core/domain"
)

// ConversationRepository defines persistence for the append-only chat log.
type ConversationRepository interface {
	SaveConversation(ctx context.Context, conversation domain.Conversation) error
	FindConversationByID(ctx context.Context, companyID string, conversationID string) (*domain.Conversation, error)
	ListConversations(ctx context.Context, companyID string, userID string) ([]domain.Conversation, error)

	// UpdateConversationMeta back-fills the asynchronously generated summary
	// and topics.
	UpdateConversationMeta(ctx context.Context, conversationID string, summary string, topics []string, updatedAt time.Time) error

	SaveMessage(ctx context.Context, message domain.Message) error

	// ListMessages returns the messages of a conversation in chronological
	// order, newest last. limit <= 0 returns all.
	ListMessages(ctx context.Context, conversationID string, limit int) ([]domain.Message, error)
}

// ReceiptRepository defines persistence for receipt metadata rows.
type ReceiptRepository interface {
	SaveReceipt(ctx context.Context, receipt domain.Receipt) error
	FindReceiptByID(ctx context.Context, companyID string, receiptID string) (*domain.Receipt, error)
	ListReceipts(ctx context.Context, companyID string) ([]domain.Receipt, error)
}
