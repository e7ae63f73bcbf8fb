// Package groq adapts the Groq OpenAI-compatible completion API to eino's ChatModel.
package groq

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// DefaultBaseURL is Groq's OpenAI-compatible endpoint.
const DefaultBaseURL = "https://api.groq.com/openai/v1"

var (
	ErrStreamingDisabled = errors.New("groq: streaming is disabled")
	ErrToolsUnsupported  = errors.New("groq: tool calling is not supported")
)

// Config carries the credential, endpoint and fixed generation parameters.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	TopP        float32
	MaxTokens   int
	HTTPClient  *http.Client
}

// ChatModel issues one non-streaming completion per Generate call.
type ChatModel struct {
	client openai.Client
	cfg    Config
}

// NewChatModel validates cfg and returns a ready ChatModel.
func NewChatModel(cfg Config) (*ChatModel, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("groq: api key is required")
	}
	if strings.TrimSpace(cfg.Model) == "" {
		return nil, fmt.Errorf("groq: model is required")
	}

	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(baseURL),
		// provider failures surface to the caller as-is
		option.WithMaxRetries(0),
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}

	return &ChatModel{
		client: openai.NewClient(opts...),
		cfg:    cfg,
	}, nil
}

// Generate sends the message list and returns the first choice as an assistant message.
// An empty choice list yields an assistant message with empty content.
func (m *ChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	options := model.GetCommonOptions(&model.Options{
		Model:       &m.cfg.Model,
		Temperature: &m.cfg.Temperature,
		TopP:        &m.cfg.TopP,
		MaxTokens:   &m.cfg.MaxTokens,
	}, opts...)

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(derefString(options.Model, m.cfg.Model)),
		Messages: toOpenAIMessages(input),
	}
	if options.Temperature != nil {
		params.Temperature = openai.Float(float64(*options.Temperature))
	}
	if options.TopP != nil {
		params.TopP = openai.Float(float64(*options.TopP))
	}
	if options.MaxTokens != nil && *options.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(*options.MaxTokens))
	}

	completion, err := m.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("groq completion failed: %w", err)
	}

	if completion == nil || len(completion.Choices) == 0 {
		return schema.AssistantMessage("", nil), nil
	}
	return schema.AssistantMessage(completion.Choices[0].Message.Content, nil), nil
}

// Stream is not offered; replies are always produced in one piece.
func (m *ChatModel) Stream(_ context.Context, _ []*schema.Message, _ ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, ErrStreamingDisabled
}

// BindTools is not offered by this provider adapter.
func (m *ChatModel) BindTools(_ []*schema.ToolInfo) error {
	return ErrToolsUnsupported
}

func toOpenAIMessages(input []*schema.Message) []openai.ChatCompletionMessageParamUnion {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(input))
	for _, msg := range input {
		if msg == nil {
			continue
		}
		switch msg.Role {
		case schema.System:
			messages = append(messages, openai.SystemMessage(msg.Content))
		case schema.Assistant:
			messages = append(messages, openai.AssistantMessage(msg.Content))
		default:
			messages = append(messages, openai.UserMessage(msg.Content))
		}
	}
	return messages
}

func derefString(v *string, fallback string) string {
	if v == nil || *v == "" {
		return fallback
	}
	return *v
}
