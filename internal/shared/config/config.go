package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/reshetovitsme/newsletter-digest/internal/modules/feed/domain"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

type Config struct {
	GroqAPIKey          string          `koanf:"groq_api_key"`
	GroqAPIURL          string          `koanf:"groq_api_url"`
	HTTPPort            string          `koanf:"http_port"`
	FetchTimeoutSecs    int             `koanf:"fetch_timeout_secs"`
	ClassifyTimeoutSecs int             `koanf:"classify_timeout_secs"`
	BudgetSecs          int             `koanf:"budget_secs"`
	MaxRetries          int             `koanf:"max_retries"`
	RetryDelaySecs      int             `koanf:"retry_delay_secs"`
	Models              []string        `koanf:"models"`
	Temperature         float64         `koanf:"temperature"`
	MaxItems            int             `koanf:"max_items"`
	MaxEntriesPerFeed   int             `koanf:"max_entries_per_feed"`
	CacheBust           bool            `koanf:"cache_bust"`
	Sources             []domain.Source `koanf:"sources"`
	TelegramBotToken    string          `koanf:"telegram_bot_token"`
	TelegramChatID      int64           `koanf:"telegram_chat_id"`
	AppEnv              AppEnv          `koanf:"app_env"`
}

func Load() (*Config, error) {
	k := koanf.New(".")

	// Try to load config file from various formats
	configFiles := []string{
		"config.yaml",
		"config.yml",
		"config.json",
		"config.toml",
	}

	// Use lo.Find to find the first existing config file
	configFile, found := lo.Find(configFiles, func(file string) bool {
		_, err := os.Stat(file)
		return err == nil
	})

	if found {
		var parser koanf.Parser
		ext := filepath.Ext(configFile)

		switch ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		case ".toml":
			parser = toml.Parser()
		default:
			return nil, oops.Errorf("unsupported config file extension: %s", ext)
		}

		if err := k.Load(file.Provider(configFile), parser); err != nil {
			return nil, oops.With("config_file", configFile).Wrap(err)
		}
	}

	// Load environment variables (they override config file values)
	if err := k.Load(env.Provider("", ".", func(s string) string {
		return strings.ToLower(s)
	}), nil); err != nil {
		return nil, oops.With("context", "loading environment variables").Wrap(err)
	}

	// Set defaults
	if !k.Exists("groq_api_url") {
		k.Set("groq_api_url", "https://api.groq.com/openai/v1/chat/completions")
	}
	if !k.Exists("http_port") {
		k.Set("http_port", "8080")
	}
	if !k.Exists("fetch_timeout_secs") {
		k.Set("fetch_timeout_secs", 10)
	}
	if !k.Exists("classify_timeout_secs") {
		k.Set("classify_timeout_secs", 25)
	}
	if !k.Exists("budget_secs") {
		k.Set("budget_secs", 20)
	}
	if !k.Exists("max_retries") {
		k.Set("max_retries", 2)
	}
	if !k.Exists("retry_delay_secs") {
		k.Set("retry_delay_secs", 2)
	}
	if !k.Exists("temperature") {
		k.Set("temperature", 0.3)
	}
	if !k.Exists("max_items") {
		k.Set("max_items", 25)
	}
	if !k.Exists("max_entries_per_feed") {
		k.Set("max_entries_per_feed", 8)
	}
	if !k.Exists("cache_bust") {
		k.Set("cache_bust", true)
	}
	if !k.Exists("app_env") {
		k.Set("app_env", "production")
	}

	// Unmarshal into struct
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.With("context", "unmarshaling config").Wrap(err)
	}

	// Fastest model first, larger model second
	if len(cfg.Models) == 0 {
		cfg.Models = []string{"llama-3.1-8b-instant", "llama-3.3-70b-versatile"}
	}

	if len(cfg.Sources) == 0 {
		cfg.Sources = domain.DefaultSources()
	}

	// Parse AppEnv from string if needed
	if appEnvStr := k.String("app_env"); appEnvStr != "" {
		if env, err := ParseAppEnv(appEnvStr); err == nil {
			cfg.AppEnv = env
		} else {
			cfg.AppEnv = AppEnvProduction
		}
	} else {
		cfg.AppEnv = AppEnvProduction
	}

	return &cfg, nil
}
