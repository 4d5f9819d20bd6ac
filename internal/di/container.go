package di

import (
	"time"

	"github.com/reshetovitsme/newsletter-digest/internal/modules/digest/classifier"
	digestService "github.com/reshetovitsme/newsletter-digest/internal/modules/digest/service"
	"github.com/reshetovitsme/newsletter-digest/internal/modules/feed/fetcher"
	"github.com/reshetovitsme/newsletter-digest/internal/modules/feed/parser"
	feedService "github.com/reshetovitsme/newsletter-digest/internal/modules/feed/service"
	"github.com/reshetovitsme/newsletter-digest/internal/shared/config"
	httpServer "github.com/reshetovitsme/newsletter-digest/internal/transport/http"
	"github.com/reshetovitsme/newsletter-digest/internal/transport/telegram"
	"github.com/samber/do/v2"
	"github.com/samber/oops"
)

// Setup initializes the dependency injection container
func Setup() (do.Injector, error) {
	injector := do.New()

	// Register Config
	do.Provide(injector, func(i do.Injector) (*config.Config, error) {
		cfg, err := config.Load()
		if err != nil {
			return nil, oops.With("context", "failed to load config").Wrap(err)
		}
		return cfg, nil
	})

	// Register Fetcher
	do.Provide(injector, func(i do.Injector) (*fetcher.Fetcher, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return fetcher.New(time.Duration(cfg.FetchTimeoutSecs)*time.Second, cfg.CacheBust), nil
	})

	// Register Parser
	do.Provide(injector, func(i do.Injector) (*parser.Parser, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return parser.New(cfg.MaxEntriesPerFeed, nil), nil
	})

	// Register Aggregation Service
	do.Provide(injector, func(i do.Injector) (*feedService.Service, error) {
		cfg := do.MustInvoke[*config.Config](i)
		f := do.MustInvoke[*fetcher.Fetcher](i)
		p := do.MustInvoke[*parser.Parser](i)
		return feedService.New(f, p, cfg.MaxItems), nil
	})

	// Register Groq Client (created once, reused read-only across calls)
	do.Provide(injector, func(i do.Injector) (*classifier.Client, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return classifier.NewClient(cfg.GroqAPIKey, cfg.GroqAPIURL), nil
	})

	// Register Classifier
	do.Provide(injector, func(i do.Injector) (*classifier.Classifier, error) {
		cfg := do.MustInvoke[*config.Config](i)
		client := do.MustInvoke[*classifier.Client](i)
		return classifier.New(
			client,
			cfg.Models,
			cfg.MaxRetries,
			time.Duration(cfg.RetryDelaySecs)*time.Second,
			time.Duration(cfg.ClassifyTimeoutSecs)*time.Second,
			cfg.Temperature,
		), nil
	})

	// Register Digest Service
	do.Provide(injector, func(i do.Injector) (*digestService.Service, error) {
		cfg := do.MustInvoke[*config.Config](i)
		aggregator := do.MustInvoke[*feedService.Service](i)
		cls := do.MustInvoke[*classifier.Classifier](i)
		return digestService.New(aggregator, cls, cfg.Sources, time.Duration(cfg.BudgetSecs)*time.Second), nil
	})

	// Register Telegram Notifier (optional, nil when not configured)
	do.Provide(injector, func(i do.Injector) (*telegram.Notifier, error) {
		cfg := do.MustInvoke[*config.Config](i)
		if cfg.TelegramBotToken == "" || cfg.TelegramChatID == 0 {
			return nil, nil
		}
		notifier, err := telegram.New(cfg.TelegramBotToken, cfg.TelegramChatID)
		if err != nil {
			return nil, oops.With("context", "failed to initialize telegram notifier").Wrap(err)
		}
		return notifier, nil
	})

	// Register HTTP Server
	do.Provide(injector, func(i do.Injector) (*httpServer.Server, error) {
		cfg := do.MustInvoke[*config.Config](i)
		ds := do.MustInvoke[*digestService.Service](i)
		notifier := do.MustInvoke[*telegram.Notifier](i)
		return httpServer.New(cfg, ds, notifier), nil
	})

	return injector, nil
}

// Shutdown gracefully shuts down all services
func Shutdown(injector do.Injector) error {
	// All components are stateless per request; nothing holds resources
	// that outlive the process
	return nil
}
