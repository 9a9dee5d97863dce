package config

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"
)

const defaultEndpoint = "http://127.0.0.1:8000/chat"

const (
	defaultLogFile    = "chatwidget.log"
	defaultServerAddr = "127.0.0.1:8000"
	defaultDBFile     = "chatlog.db"

	defaultArkBaseURL = "https://ark.cn-beijing.volces.com/api/v3"
	defaultArkRegion  = "cn-beijing"
)

type Config struct {
	// Endpoint is the backend URL chat queries are posted to.
	Endpoint string `env:"ENDPOINT"`
	// Timeout bounds a single request. Zero means no application timeout.
	Timeout time.Duration `env:"TIMEOUT"`
	// StrictStatus treats a non-2xx reply as a failed request.
	StrictStatus bool `env:"STRICT_STATUS"`
	// OrderedReplies delivers bot replies in send order instead of arrival order.
	OrderedReplies bool `env:"ORDERED_REPLIES"`
	StartVisible   bool `env:"START_VISIBLE"`

	LogFile  string `env:"LOG_FILE"`
	LogLevel string `env:"LOG_LEVEL"`

	ServerAddr string `env:"SERVER_ADDR"`
	DBFile     string `env:"DB_FILE"`
	// DocsDir holds the .txt and .md files served by /doc-chat.
	DocsDir string `env:"DOCS_DIR"`

	AI AIConfig `envPrefix:"ARK_"`
}

// AIConfig selects the model the backend answers with. Without an API key
// and a model the backend echoes queries instead.
type AIConfig struct {
	APIKey  string `env:"API_KEY"`
	Model   string `env:"MODEL"`
	BaseURL string `env:"BASE_URL"`
	Region  string `env:"REGION"`
}

func (c AIConfig) Enabled() bool {
	return c.APIKey != "" && c.Model != ""
}

func (c AIConfig) NewChatModel(ctx context.Context) (model.BaseChatModel, error) {
	return ark.NewChatModel(ctx, &ark.ChatModelConfig{
		BaseURL: c.BaseURL,
		Region:  c.Region,
		APIKey:  c.APIKey,
		Model:   c.Model,
	})
}

func NewConfig() *Config {
	return &Config{
		Endpoint:   defaultEndpoint,
		LogFile:    defaultLogFile,
		LogLevel:   "info",
		ServerAddr: defaultServerAddr,
		DBFile:     defaultDBFile,
		AI: AIConfig{
			BaseURL: defaultArkBaseURL,
			Region:  defaultArkRegion,
		},
	}
}

// Load overlays CHATWIDGET_* environment variables on top of the defaults.
func Load() (*Config, error) {
	cfg := NewConfig()
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: "CHATWIDGET_"}); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg, nil
}

func (c *Config) Level() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}
