package services

import (
	"context"

	"github.com/swisscockpit/kmu-cockpit/internal/core/domain"
	"github.com/swisscockpit/kmu-cockpit/internal/dto"
)

// ChatDeltaFunc receives one chunk of a streamed assistant reply.
type ChatDeltaFunc func(delta string) error

// ConversationReaderSvc defines read operations for conversation data
type ConversationReaderSvc interface {
	// ListConversations retrieves the user's conversations in a company.
	ListConversations(ctx context.Context, companyID string, userID string) ([]domain.Conversation, error)

	// ListMessages retrieves the messages of a conversation.
	ListMessages(ctx context.Context, companyID string, conversationID string, userID string) ([]domain.Message, error)
}

// ChatSvc defines the assistant chat operation
type ChatSvc interface {
	// Chat sends a user message, streams the assistant reply through onDelta
	// and persists both messages. A new conversation is created when
	// req.ConversationID is nil. The conversation summary is refreshed in
	// the background after the reply completes.
	Chat(ctx context.Context, companyID string, userID string, req dto.ChatRequest, onDelta ChatDeltaFunc) (*domain.Conversation, error)
}

// ConversationSvcFacade combines all conversation-related service interfaces
type ConversationSvcFacade interface {
	ConversationReaderSvc
	ChatSvc
}

// ExtractionSvc defines document understanding operations
type ExtractionSvc interface {
	// ExtractReceipt stores an uploaded receipt and reads the booking fields
	// out of it.
	ExtractReceipt(ctx context.Context, companyID string, userID string, fileName string, contentType string, data []byte) (*dto.ReceiptExtractionResponse, error)

	// AnalyzeContract reads the key terms out of an uploaded contract.
	AnalyzeContract(ctx context.Context, companyID string, userID string, fileName string, contentType string, data []byte) (*dto.ContractAnalysisResponse, error)
}
