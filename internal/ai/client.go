// Package ai wraps the OpenAI client behind the small surface the cockpit
// needs: streamed chat replies and strict JSON extraction from documents.
package ai

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/azure"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"github.com/swisscockpit/kmu-cockpit/internal/platform/config"
)

// ChatMessage is one turn of a conversation handed to the model.
type ChatMessage struct {
	Role    string // "user" or "assistant"
	Content string
}

// Assistant is the model surface the services depend on. Tests substitute it
// with a canned implementation.
type Assistant interface {
	// StreamChat streams a reply to the conversation, calling onDelta for
	// each chunk, and returns the full reply text.
	StreamChat(ctx context.Context, system string, history []ChatMessage, onDelta func(string) error) (string, error)

	// ExtractReceipt reads booking fields out of a receipt image or PDF,
	// suggesting booking legs from the given chart of accounts listing.
	ExtractReceipt(ctx context.Context, contentType string, data []byte, chartOfAccounts string) (*ReceiptFields, error)

	// AnalyzeContract reads the key terms out of a contract document.
	AnalyzeContract(ctx context.Context, contentType string, data []byte) (*ContractFields, error)

	// SummarizeConversation produces a short summary and topic list for a
	// finished exchange.
	SummarizeConversation(ctx context.Context, transcript string) (*ConversationMeta, error)
}

// Client talks to OpenAI or an Azure OpenAI deployment, depending on config.
type Client struct {
	client       *openai.Client
	chatModel    string
	extractModel string
	maxTokens    int64
}

// NewClient builds the client. When an Azure endpoint is configured the
// deployment names act as model names.
func NewClient(cfg *config.Config) *Client {
	var opts []option.RequestOption
	if cfg.AzureEndpoint != "" {
		opts = append(opts,
			azure.WithEndpoint(cfg.AzureEndpoint, cfg.AzureAPIVersion),
			azure.WithAPIKey(cfg.OpenAIAPIKey),
		)
	} else {
		opts = append(opts, option.WithAPIKey(cfg.OpenAIAPIKey))
	}
	client := openai.NewClient(opts...)
	return &Client{
		client:       &client,
		chatModel:    cfg.ChatDeployment,
		extractModel: cfg.ExtractDeployment,
		maxTokens:    int64(cfg.AIRequestMaxTokens),
	}
}

var _ Assistant = (*Client)(nil)

// StreamChat streams a reply to the conversation and returns the full text.
func (c *Client) StreamChat(ctx context.Context, system string, history []ChatMessage, onDelta func(string) error) (string, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(history)+1)
	messages = append(messages, openai.SystemMessage(system))
	for _, m := range history {
		switch m.Role {
		case "assistant":
			messages = append(messages, openai.AssistantMessage(m.Content))
		default:
			messages = append(messages, openai.UserMessage(m.Content))
		}
	}

	stream := c.client.Chat.Completions.NewStreaming(ctx, openai.ChatCompletionNewParams{
		Model:               c.chatModel,
		Messages:            messages,
		MaxCompletionTokens: openai.Int(c.maxTokens),
	})

	acc := openai.ChatCompletionAccumulator{}
	for stream.Next() {
		chunk := stream.Current()
		acc.AddChunk(chunk)
		if len(chunk.Choices) > 0 {
			delta := chunk.Choices[0].Delta.Content
			if delta != "" {
				if err := onDelta(delta); err != nil {
					_ = stream.Close()
					return "", err
				}
			}
		}
	}
	if err := stream.Err(); err != nil {
		return "", fmt.Errorf("chat stream: %w", err)
	}

	if len(acc.Choices) == 0 {
		return "", fmt.Errorf("empty chat completion")
	}
	return acc.Choices[0].Message.Content, nil
}

// completeJSON runs a completion constrained to the JSON schema of out and
// unmarshals the reply into it.
func (c *Client) completeJSON(ctx context.Context, model string, name string, messages []openai.ChatCompletionMessageParamUnion, out any) error {
	schemaMap, err := schemaFor(out)
	if err != nil {
		return err
	}

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:               model,
		Messages:            messages,
		MaxCompletionTokens: openai.Int(c.maxTokens),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &shared.ResponseFormatJSONSchemaParam{
				JSONSchema: shared.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:   name,
					Strict: openai.Bool(true),
					Schema: schemaMap,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("openai completion: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return fmt.Errorf("empty completion content")
	}

	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), out); err != nil {
		return fmt.Errorf("failed to parse completion: %w", err)
	}
	return nil
}

// schemaFor generates the strict JSON schema of a result struct.
func schemaFor(v any) (map[string]any, error) {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	raw, err := json.Marshal(reflector.Reflect(v))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	var schemaMap map[string]any
	if err := json.Unmarshal(raw, &schemaMap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal schema to map: %w", err)
	}
	return schemaMap, nil
}
