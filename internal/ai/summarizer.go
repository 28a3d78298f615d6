package ai

import (
	"context"

	"github.com/openai/openai-go"
)

// ConversationMeta is the generated summary of a finished chat exchange.
type ConversationMeta struct {
	Summary string   `json:"summary" jsonschema_description:"What was discussed and decided, two sentences at most"`
	Topics  []string `json:"topics" jsonschema_description:"Up to five short topic labels"`
}

const summaryPrompt = `Summarize the following conversation between a small
business owner and their bookkeeping assistant. Write the summary in the
language of the conversation.`

// SummarizeConversation produces a short summary and topic list for a
// finished exchange. Runs on the chat deployment.
func (c *Client) SummarizeConversation(ctx context.Context, transcript string) (*ConversationMeta, error) {
	messages := []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(summaryPrompt),
		openai.UserMessage(transcript),
	}

	var meta ConversationMeta
	if err := c.completeJSON(ctx, c.chatModel, "conversation_meta", messages, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}
