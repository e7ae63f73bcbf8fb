package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/dagimaynadis/portfolio/backend/internal/config"
	"github.com/dagimaynadis/portfolio/backend/internal/handler"
	"github.com/dagimaynadis/portfolio/backend/internal/service/ai"
	"github.com/dagimaynadis/portfolio/backend/internal/service/chat"
	"github.com/dagimaynadis/portfolio/backend/internal/service/knowledge"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	if err := godotenv.Load(); err != nil {
		logger.Info("no .env file loaded, continuing with system environment variables only", zap.Error(err))
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	loader := knowledge.NewFileLoader(cfg.Knowledge.Path)
	if _, err := loader.Load(ctx); err != nil {
		logger.Warn("knowledge base not readable yet, replies will omit it until it is", zap.String("path", cfg.Knowledge.Path), zap.Error(err))
	}

	// A nil generator keeps the server up and answers every chat with the
	// missing-credential message.
	var generator chat.Generator
	if cfg.AI.Enabled() {
		generator, err = newGenerator(ctx, cfg.AI, logger)
		if err != nil {
			logger.Warn("failed to initialize AI service, continuing without a completion provider", zap.Error(err))
		}
	} else {
		logger.Warn("provider credential not configured", zap.String("provider", cfg.AI.Provider), zap.String("hint", cfg.AI.MissingCredentialMessage()))
	}

	chatService := chat.NewService(generator, loader, chat.Options{
		KnowledgeLabel:           cfg.Knowledge.Label,
		ResponseLimit:            cfg.Chat.ResponseLimit,
		MissingCredentialMessage: cfg.AI.MissingCredentialMessage(),
	}, logger)

	router := handler.NewRouter(chatService, handler.Options{AllowedOrigins: cfg.Server.AllowedOrigins}, logger)

	startServer(ctx, cfg.Server, router, logger)
}

func newGenerator(ctx context.Context, cfg config.AIConfig, logger *zap.Logger) (chat.Generator, error) {
	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		return nil, err
	}
	aiService, err := ai.NewService(ctx, chatModel, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("AI service initialized", zap.String("provider", cfg.Provider), zap.String("model", cfg.ModelName()))
	return aiService, nil
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler, logger *zap.Logger) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	logger.Info("portfolio assistant backend listening", zap.String("addr", addr))
	if err := runServer(ctx, srv); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
