package domain

import "time"

// MessageRole is the author of a chat message.
type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// Conversation is an append-only chat thread between a user and the AI
// concierge. Summary and Topics are back-filled asynchronously after each
// exchange; both may lag behind the message log.
type Conversation struct {
	ConversationID string    `json:"conversationID"`
	CompanyID      string    `json:"companyID"`
	UserID         string    `json:"userID"`
	Title          string    `json:"title"`
	Summary        string    `json:"summary"`
	Topics         []string  `json:"topics"`
	CreatedAt      time.Time `json:"createdAt"`
	LastUpdatedAt  time.Time `json:"lastUpdatedAt"`
}

// Message is one entry of a conversation log.
type Message struct {
	MessageID      string      `json:"messageID"`
	ConversationID string      `json:"conversationID"`
	Role           MessageRole `json:"role"`
	Content        string      `json:"content"`
	CreatedAt      time.Time   `json:"createdAt"`
}
