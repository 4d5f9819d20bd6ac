package config

import (
	"os"
	"testing"

	"github.com/reshetovitsme/newsletter-digest/internal/modules/feed/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"GROQ_API_KEY", "GROQ_API_URL", "HTTP_PORT",
		"FETCH_TIMEOUT_SECS", "CLASSIFY_TIMEOUT_SECS", "BUDGET_SECS",
		"MAX_RETRIES", "RETRY_DELAY_SECS", "MAX_ITEMS",
		"MAX_ENTRIES_PER_FEED", "APP_ENV",
	} {
		os.Unsetenv(key)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://api.groq.com/openai/v1/chat/completions", cfg.GroqAPIURL)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, 10, cfg.FetchTimeoutSecs)
	assert.Equal(t, 25, cfg.ClassifyTimeoutSecs)
	assert.Equal(t, 20, cfg.BudgetSecs)
	assert.Equal(t, 2, cfg.MaxRetries)
	assert.Equal(t, 2, cfg.RetryDelaySecs)
	assert.Equal(t, 0.3, cfg.Temperature)
	assert.Equal(t, 25, cfg.MaxItems)
	assert.Equal(t, 8, cfg.MaxEntriesPerFeed)
	assert.True(t, cfg.CacheBust)
	assert.Equal(t, AppEnvProduction, cfg.AppEnv)

	// Fastest model first
	require.Len(t, cfg.Models, 2)
	assert.Equal(t, "llama-3.1-8b-instant", cfg.Models[0])

	assert.Equal(t, domain.DefaultSources(), cfg.Sources)
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("HTTP_PORT", "9999")
	t.Setenv("BUDGET_SECS", "5")
	t.Setenv("GROQ_API_KEY", "gsk_test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9999", cfg.HTTPPort)
	assert.Equal(t, 5, cfg.BudgetSecs)
	assert.Equal(t, "gsk_test", cfg.GroqAPIKey)
}

func TestLoad_InvalidAppEnvFallsBackToProduction(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "weird")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, AppEnvProduction, cfg.AppEnv)
}

func TestParseAppEnv(t *testing.T) {
	env, err := ParseAppEnv("testing")
	require.NoError(t, err)
	assert.Equal(t, AppEnvTesting, env)

	env, err = ParseAppEnv("PRODUCTION")
	require.NoError(t, err)
	assert.Equal(t, AppEnvProduction, env)

	_, err = ParseAppEnv("nope")
	assert.Error(t, err)
}
