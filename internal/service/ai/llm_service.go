package ai

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"go.uber.org/zap"
)

// ErrNoChatModel is returned when the service is built without a provider.
var ErrNoChatModel = errors.New("chat model is required")

// Service runs a composed message list through the completion provider.
type Service struct {
	chain  compose.Runnable[[]*schema.Message, *schema.Message]
	logger *zap.Logger
}

// NewService compiles a single-node chain around chatModel.
func NewService(ctx context.Context, chatModel model.ChatModel, logger *zap.Logger) (*Service, error) {
	if chatModel == nil {
		return nil, ErrNoChatModel
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	chain := compose.NewChain[[]*schema.Message, *schema.Message]()
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile chat chain: %w", err)
	}

	return &Service{
		chain:  runnable,
		logger: logger.With(zap.String("component", "ai")),
	}, nil
}

// Generate performs one synchronous completion for messages.
func (s *Service) Generate(ctx context.Context, messages []*schema.Message) (*schema.Message, error) {
	response, err := s.chain.Invoke(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("failed to run AI chain: %w", err)
	}

	if response == nil {
		s.logger.Debug("provider returned no message", zap.Int("messages", len(messages)))
		return nil, nil
	}

	s.logger.Debug("generated response",
		zap.Int("messages", len(messages)),
		zap.Int("length", len(response.Content)),
	)
	return response, nil
}
