package dto

import (
	"time"

	"github.com/swisscockpit/kmu-cockpit/internal/core/domain"
)

// ChatRequest starts or continues an assistant conversation.
type ChatRequest struct {
	ConversationID *string `json:"conversationID"`
	Message        string  `json:"message" binding:"required"`
}

// ChatEvent is one server-sent chunk of an assistant reply.
type ChatEvent struct {
	ConversationID string `json:"conversationID"`
	Delta          string `json:"delta,omitempty"`
	Done           bool   `json:"done,omitempty"`
}

// ConversationResponse is the API view of a conversation.
type ConversationResponse struct {
	ConversationID string    `json:"conversationID"`
	Title          string    `json:"title"`
	Summary        string    `json:"summary,omitempty"`
	Topics         []string  `json:"topics,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// MessageResponse is one stored chat message.
type MessageResponse struct {
	MessageID string             `json:"messageID"`
	Role      domain.MessageRole `json:"role"`
	Content   string             `json:"content"`
	CreatedAt time.Time          `json:"createdAt"`
}

// ToConversationResponse converts a domain conversation.
func ToConversationResponse(c *domain.Conversation) ConversationResponse {
	return ConversationResponse{
		ConversationID: c.ConversationID,
		Title:          c.Title,
		Summary:        c.Summary,
		Topics:         c.Topics,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.LastUpdatedAt,
	}
}

// ToConversationResponses converts a slice of conversations.
func ToConversationResponses(convs []domain.Conversation) []ConversationResponse {
	out := make([]ConversationResponse, len(convs))
	for i := range convs {
		out[i] = ToConversationResponse(&convs[i])
	}
	return out
}

// ToMessageResponses converts stored messages.
func ToMessageResponses(msgs []domain.Message) []MessageResponse {
	out := make([]MessageResponse, len(msgs))
	for i, m := range msgs {
		out[i] = MessageResponse{
			MessageID: m.MessageID,
			Role:      m.Role,
			Content:   m.Content,
			CreatedAt: m.CreatedAt,
		}
	}
	return out
}
