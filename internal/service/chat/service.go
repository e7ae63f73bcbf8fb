package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"
	"go.uber.org/zap"

	"github.com/dagimaynadis/portfolio/backend/internal/analysis/intent"
	"github.com/dagimaynadis/portfolio/backend/internal/service/ai"
	"github.com/dagimaynadis/portfolio/backend/internal/service/knowledge"
)

// MessageRequired is the client-facing text for an empty chat message.
const MessageRequired = "Message is required"

// FallbackResponse replaces an empty completion.
const FallbackResponse = "I couldn't generate a response."

const defaultMissingCredential = "API key not configured. Please add GROQ_API_KEY to your environment."

var (
	ErrMessageRequired       = errors.New("message is required")
	ErrProviderNotConfigured = errors.New("completion provider not configured")
)

// ConfigError carries the operator-facing message for a missing provider credential.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string { return e.Message }

// Is lets errors.Is match ErrProviderNotConfigured.
func (e *ConfigError) Is(target error) bool { return target == ErrProviderNotConfigured }

// Generator performs one completion over a composed request.
type Generator interface {
	Generate(ctx context.Context, messages []*schema.Message) (*schema.Message, error)
}

// Options tunes a Service.
type Options struct {
	// KnowledgeLabel prefixes the knowledge text inside its system message.
	KnowledgeLabel string
	// ResponseLimit caps the reply length. Zero means DefaultLimit.
	ResponseLimit int
	// MissingCredentialMessage is returned while no generator is configured.
	MissingCredentialMessage string
}

// Reply is the outcome of one chat turn.
type Reply struct {
	Intent intent.Label
	Text   string
}

// Service runs a single stateless chat turn: classify, compose, generate, truncate.
type Service struct {
	generator Generator
	knowledge knowledge.Loader
	opts      Options
	logger    *zap.Logger
}

// NewService wires the orchestrator. A nil generator means the provider
// credential is missing; such a service still validates input but rejects
// every valid message with ErrProviderNotConfigured.
func NewService(generator Generator, loader knowledge.Loader, opts Options, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.ResponseLimit <= 0 {
		opts.ResponseLimit = DefaultLimit
	}
	if opts.MissingCredentialMessage == "" {
		opts.MissingCredentialMessage = defaultMissingCredential
	}

	return &Service{
		generator: generator,
		knowledge: loader,
		opts:      opts,
		logger:    logger.With(zap.String("component", "chat")),
	}
}

// Configured reports whether a completion provider is available.
func (s *Service) Configured() bool {
	return s.generator != nil
}

// Compose builds the provider request for message. The result always starts
// with the system prompt for label and ends with the raw user message. A
// knowledge system message sits between them for non-greeting labels when
// the knowledge document could be loaded.
func (s *Service) Compose(ctx context.Context, label intent.Label, message string) []*schema.Message {
	messages := make([]*schema.Message, 0, 3)
	messages = append(messages, schema.SystemMessage(ai.BuildSystemPrompt(label)))

	if label != intent.Greeting {
		if text, ok := s.loadKnowledge(ctx); ok {
			content := text
			if s.opts.KnowledgeLabel != "" {
				content = s.opts.KnowledgeLabel + "\n" + text
			}
			messages = append(messages, schema.SystemMessage(content))
		}
	}

	return append(messages, schema.UserMessage(message))
}

func (s *Service) loadKnowledge(ctx context.Context) (string, bool) {
	if s.knowledge == nil {
		s.logger.Warn("knowledge base unavailable", zap.String("reason", "no loader configured"))
		return "", false
	}

	text, err := s.knowledge.Load(ctx)
	if err != nil {
		s.logger.Warn("knowledge base unavailable", zap.Error(err))
		return "", false
	}
	return text, true
}

// Reply answers one user message.
func (s *Service) Reply(ctx context.Context, message string) (reply Reply, err error) {
	if strings.TrimSpace(message) == "" {
		return Reply{}, ErrMessageRequired
	}
	if s.generator == nil {
		return Reply{}, &ConfigError{Message: s.opts.MissingCredentialMessage}
	}

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("chat pipeline panicked", zap.Any("panic", r))
			reply = Reply{}
			err = fmt.Errorf("chat pipeline panicked: %v", r)
		}
	}()

	label := intent.Classify(message)
	messages := s.Compose(ctx, label, message)

	response, err := s.generator.Generate(ctx, messages)
	if err != nil {
		s.logger.Error("completion failed", zap.String("intent", label.String()), zap.Error(err))
		return Reply{}, err
	}

	var text string
	if response != nil {
		text = strings.TrimSpace(response.Content)
	}
	if text == "" {
		text = FallbackResponse
	}
	text = Truncate(text, s.opts.ResponseLimit)

	s.logger.Info("chat reply generated",
		zap.String("intent", label.String()),
		zap.Int("request_messages", len(messages)),
		zap.Int("response_length", len([]rune(text))),
	)

	return Reply{Intent: label, Text: text}, nil
}
