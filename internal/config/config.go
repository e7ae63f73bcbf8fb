package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"

	"github.com/dagimaynadis/portfolio/backend/internal/service/ai/groq"
)

// Supported completion providers.
const (
	ProviderGroq = "groq"
	ProviderArk  = "ark"
)

// Config aggregates every setting the service reads at startup.
type Config struct {
	Server    ServerConfig
	AI        AIConfig
	Knowledge KnowledgeConfig
	Chat      ChatConfig
}

// Load reads configuration from the process environment.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	ai, err := loadAIConfig()
	if err != nil {
		return nil, err
	}

	var knowledge KnowledgeConfig
	if err := env.Parse(&knowledge); err != nil {
		return nil, fmt.Errorf("invalid knowledge configuration: %w", err)
	}

	var chat ChatConfig
	if err := env.Parse(&chat); err != nil {
		return nil, fmt.Errorf("invalid chat configuration: %w", err)
	}
	if chat.ResponseLimit <= 0 {
		return nil, fmt.Errorf("invalid RESPONSE_LIMIT value %d: must be positive", chat.ResponseLimit)
	}

	return &Config{Server: server, AI: ai, Knowledge: knowledge, Chat: chat}, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Port           string   `env:"PORT" envDefault:"8080"`
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
	Addr           string
}

func loadServerConfig() (ServerConfig, error) {
	var cfg ServerConfig
	if err := env.Parse(&cfg); err != nil {
		return ServerConfig{}, fmt.Errorf("invalid server configuration: %w", err)
	}

	port := strings.TrimSpace(cfg.Port)
	if port == "" {
		port = "8080"
	}

	switch {
	case strings.Contains(port, " "):
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	case strings.Contains(port, ":"):
		// ":8080" and "127.0.0.1:8080" are used as-is.
		cfg.Addr = port
	default:
		cfg.Addr = ":" + port
	}

	origins := make([]string, 0, len(cfg.AllowedOrigins))
	for _, origin := range cfg.AllowedOrigins {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	cfg.AllowedOrigins = origins

	return cfg, nil
}

// AIConfig describes the completion provider and its fixed generation parameters.
type AIConfig struct {
	Provider string `env:"AI_PROVIDER" envDefault:"groq"`

	GroqAPIKey  string `env:"GROQ_API_KEY"`
	GroqBaseURL string `env:"GROQ_BASE_URL" envDefault:"https://api.groq.com/openai/v1"`
	GroqModel   string `env:"GROQ_MODEL" envDefault:"llama-3.1-8b-instant"`

	ArkAPIKey    string `env:"ARK_API_KEY"`
	ArkAccessKey string `env:"ARK_ACCESS_KEY"`
	ArkSecretKey string `env:"ARK_SECRET_KEY"`
	ArkModel     string `env:"ARK_MODEL"`
	ArkBaseURL   string `env:"ARK_BASE_URL" envDefault:"https://ark.cn-beijing.volces.com/api/v3"`
	ArkRegion    string `env:"ARK_REGION" envDefault:"cn-beijing"`

	Temperature float64 `env:"AI_TEMPERATURE" envDefault:"0.2"`
	TopP        float64 `env:"AI_TOP_P" envDefault:"0.7"`
	MaxTokens   int     `env:"AI_MAX_TOKENS" envDefault:"300"`
}

func loadAIConfig() (AIConfig, error) {
	var cfg AIConfig
	if err := env.Parse(&cfg); err != nil {
		return AIConfig{}, fmt.Errorf("invalid AI configuration: %w", err)
	}

	cfg.Provider = strings.ToLower(strings.TrimSpace(cfg.Provider))
	switch cfg.Provider {
	case ProviderGroq, ProviderArk:
	default:
		return AIConfig{}, fmt.Errorf("invalid AI_PROVIDER value %q: expected %q or %q", cfg.Provider, ProviderGroq, ProviderArk)
	}

	if cfg.Temperature < 0 || cfg.Temperature > 2 {
		return AIConfig{}, fmt.Errorf("invalid AI_TEMPERATURE value %v: must be within [0, 2]", cfg.Temperature)
	}
	if cfg.TopP <= 0 || cfg.TopP > 1 {
		return AIConfig{}, fmt.Errorf("invalid AI_TOP_P value %v: must be within (0, 1]", cfg.TopP)
	}
	if cfg.MaxTokens <= 0 {
		return AIConfig{}, fmt.Errorf("invalid AI_MAX_TOKENS value %d: must be positive", cfg.MaxTokens)
	}

	return cfg, nil
}

// Enabled reports whether the credential required by the selected provider is present.
func (c AIConfig) Enabled() bool {
	switch c.Provider {
	case ProviderArk:
		return c.ArkModel != "" && (c.ArkAPIKey != "" || (c.ArkAccessKey != "" && c.ArkSecretKey != ""))
	default:
		return strings.TrimSpace(c.GroqAPIKey) != ""
	}
}

// MissingCredentialMessage is reported to callers while the provider is unconfigured.
func (c AIConfig) MissingCredentialMessage() string {
	if c.Provider == ProviderArk {
		return "API key not configured. Please add ARK_API_KEY and ARK_MODEL to your environment."
	}
	return "API key not configured. Please add GROQ_API_KEY to your environment."
}

// NewChatModel builds the completion provider with the fixed generation parameters.
func (c AIConfig) NewChatModel(ctx context.Context) (model.ChatModel, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("%s", c.MissingCredentialMessage())
	}

	temperature := float32(c.Temperature)
	topP := float32(c.TopP)
	maxTokens := c.MaxTokens

	if c.Provider == ProviderArk {
		return ark.NewChatModel(ctx, &ark.ChatModelConfig{
			BaseURL:     c.ArkBaseURL,
			Region:      c.ArkRegion,
			APIKey:      c.ArkAPIKey,
			AccessKey:   c.ArkAccessKey,
			SecretKey:   c.ArkSecretKey,
			Model:       c.ArkModel,
			MaxTokens:   &maxTokens,
			Temperature: &temperature,
			TopP:        &topP,
		})
	}

	return groq.NewChatModel(groq.Config{
		APIKey:      c.GroqAPIKey,
		BaseURL:     c.GroqBaseURL,
		Model:       c.GroqModel,
		Temperature: temperature,
		TopP:        topP,
		MaxTokens:   maxTokens,
	})
}

// ModelName returns the model identifier of the selected provider.
func (c AIConfig) ModelName() string {
	if c.Provider == ProviderArk {
		return c.ArkModel
	}
	return c.GroqModel
}

// KnowledgeConfig locates the static knowledge document.
type KnowledgeConfig struct {
	Path  string `env:"KNOWLEDGE_PATH" envDefault:"data/knowledge.txt"`
	Label string `env:"KNOWLEDGE_LABEL" envDefault:"Knowledge base about Dagim Aynadis:"`
}

// ChatConfig holds response post-processing settings.
type ChatConfig struct {
	ResponseLimit int `env:"RESPONSE_LIMIT" envDefault:"800"`
}
