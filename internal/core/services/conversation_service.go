package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/swisscockpit/kmu-cockpit/internal/ai"
	"github.com/swisscockpit/kmu-cockpit/internal/apperrors"
	"github.com/swisscockpit/kmu-cockpit/internal/core/domain"
	portsrepo "github.com/swisscockpit/kmu-cockpit/internal/core/ports/repositories"
	portssvc "github.com/swisscockpit/kmu-cockpit/internal/core/ports/services"
	"github.com/swisscockpit/kmu-cockpit/internal/dto"
)

// historyLimit bounds how many stored messages travel to the model per turn.
const historyLimit = 20

// titleLimit bounds the conversation title derived from the first message.
const titleLimit = 80

const conciergePrompt = `You are the assistant of a Swiss small-business
cockpit that covers bookkeeping, the chart of accounts, reports and tasks.
Answer briefly and concretely, in the language the user writes in. When a
question concerns amounts or bookings, remind the user you cannot see figures
you were not given. Company: %s.`

// conversationService implements the ConversationSvcFacade interface
type conversationService struct {
	BaseService
	conversationRepo portsrepo.ConversationRepository
	companyRepo      portsrepo.CompanyRepository
	assistant        ai.Assistant
}

// NewConversationService creates a new conversation service with the provided dependencies
func NewConversationService(
	conversationRepo portsrepo.ConversationRepository,
	companyRepo portsrepo.CompanyRepository,
	assistant ai.Assistant,
	authorizer portssvc.CompanyAuthorizerSvc,
) portssvc.ConversationSvcFacade {
	return &conversationService{
		BaseService:      BaseService{CompanyAuthorizer: authorizer},
		conversationRepo: conversationRepo,
		companyRepo:      companyRepo,
		assistant:        assistant,
	}
}

// Ensure conversationService implements the ConversationSvcFacade interface
var _ portssvc.ConversationSvcFacade = (*conversationService)(nil)

// ListConversations retrieves the user's conversations in a company
func (s *conversationService) ListConversations(ctx context.Context, companyID string, userID string) ([]domain.Conversation, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	conversations, err := s.conversationRepo.ListConversations(ctx, companyID, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list conversations",
			slog.String("company_id", companyID))
		return nil, err
	}

	if conversations == nil {
		return []domain.Conversation{}, nil
	}
	return conversations, nil
}

// ListMessages retrieves the messages of a conversation
func (s *conversationService) ListMessages(ctx context.Context, companyID string, conversationID string, userID string) ([]domain.Message, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	conversation, err := s.conversationRepo.FindConversationByID(ctx, companyID, conversationID)
	if err != nil {
		return nil, err
	}
	if conversation.UserID != userID {
		return nil, apperrors.ErrForbidden
	}

	messages, err := s.conversationRepo.ListMessages(ctx, conversationID, 0)
	if err != nil {
		s.LogError(ctx, err, "Failed to list messages",
			slog.String("conversation_id", conversationID))
		return nil, err
	}

	if messages == nil {
		return []domain.Message{}, nil
	}
	return messages, nil
}

// Chat sends a user message, streams the assistant reply through onDelta and
// persists both messages.
func (s *conversationService) Chat(ctx context.Context, companyID string, userID string, req dto.ChatRequest, onDelta portssvc.ChatDeltaFunc) (*domain.Conversation, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.RoleMember); err != nil {
		return nil, err
	}

	conversation, err := s.resolveConversation(ctx, companyID, userID, req)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	userMessage := domain.Message{
		MessageID:      uuid.NewString(),
		ConversationID: conversation.ConversationID,
		Role:           domain.RoleUser,
		Content:        req.Message,
		CreatedAt:      now,
	}
	if err := s.conversationRepo.SaveMessage(ctx, userMessage); err != nil {
		s.LogError(ctx, err, "Failed to save user message",
			slog.String("conversation_id", conversation.ConversationID))
		return nil, err
	}

	history, err := s.conversationRepo.ListMessages(ctx, conversation.ConversationID, historyLimit)
	if err != nil {
		s.LogError(ctx, err, "Failed to load chat history",
			slog.String("conversation_id", conversation.ConversationID))
		return nil, err
	}

	company, err := s.companyRepo.FindCompanyByID(ctx, companyID)
	if err != nil {
		return nil, err
	}

	chatHistory := make([]ai.ChatMessage, 0, len(history))
	for _, m := range history {
		chatHistory = append(chatHistory, ai.ChatMessage{Role: string(m.Role), Content: m.Content})
	}

	reply, err := s.assistant.StreamChat(ctx, fmt.Sprintf(conciergePrompt, company.Name), chatHistory, onDelta)
	if err != nil {
		s.LogError(ctx, err, "Assistant reply failed",
			slog.String("conversation_id", conversation.ConversationID))
		return nil, err
	}

	assistantMessage := domain.Message{
		MessageID:      uuid.NewString(),
		ConversationID: conversation.ConversationID,
		Role:           domain.RoleAssistant,
		Content:        reply,
		CreatedAt:      time.Now(),
	}
	if err := s.conversationRepo.SaveMessage(ctx, assistantMessage); err != nil {
		s.LogError(ctx, err, "Failed to save assistant message",
			slog.String("conversation_id", conversation.ConversationID))
		return nil, err
	}

	// Summary back-fill runs detached from the request; the SSE stream is
	// already closed by the time it finishes.
	go s.backfillSummary(context.WithoutCancel(ctx), conversation.ConversationID, append(history, assistantMessage))

	return conversation, nil
}

// resolveConversation loads the addressed conversation or starts a new one.
func (s *conversationService) resolveConversation(ctx context.Context, companyID string, userID string, req dto.ChatRequest) (*domain.Conversation, error) {
	if req.ConversationID != nil {
		conversation, err := s.conversationRepo.FindConversationByID(ctx, companyID, *req.ConversationID)
		if err != nil {
			return nil, err
		}
		if conversation.UserID != userID {
			return nil, apperrors.ErrForbidden
		}
		return conversation, nil
	}

	now := time.Now()
	conversation := domain.Conversation{
		ConversationID: uuid.NewString(),
		CompanyID:      companyID,
		UserID:         userID,
		Title:          deriveTitle(req.Message),
		CreatedAt:      now,
		LastUpdatedAt:  now,
	}
	if err := s.conversationRepo.SaveConversation(ctx, conversation); err != nil {
		s.LogError(ctx, err, "Failed to create conversation")
		return nil, err
	}
	return &conversation, nil
}

// backfillSummary asks the model for a summary of the exchange and stores it.
// Failures are logged and dropped; the summary is cosmetic.
func (s *conversationService) backfillSummary(ctx context.Context, conversationID string, messages []domain.Message) {
	var transcript strings.Builder
	for _, m := range messages {
		fmt.Fprintf(&transcript, "%s: %s\n", m.Role, m.Content)
	}

	meta, err := s.assistant.SummarizeConversation(ctx, transcript.String())
	if err != nil {
		s.LogDebug(ctx, "Conversation summary failed",
			slog.String("conversation_id", conversationID),
			slog.String("error", err.Error()))
		return
	}

	if err := s.conversationRepo.UpdateConversationMeta(ctx, conversationID, meta.Summary, meta.Topics, time.Now()); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogDebug(ctx, "Failed to store conversation summary",
				slog.String("conversation_id", conversationID),
				slog.String("error", err.Error()))
		}
	}
}

// deriveTitle trims the first user message into a list label. Truncation
// counts runes so a multi-byte character is never split.
func deriveTitle(message string) string {
	title := strings.Join(strings.Fields(message), " ")
	if runes := []rune(title); len(runes) > titleLimit {
		title = string(runes[:titleLimit]) + "…"
	}
	if title == "" {
		title = "Neue Unterhaltung"
	}
	return title
}
