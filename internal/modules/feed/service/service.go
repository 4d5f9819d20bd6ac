package service

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/reshetovitsme/newsletter-digest/internal/modules/feed/domain"
	"github.com/reshetovitsme/newsletter-digest/internal/modules/feed/fetcher"
	"github.com/reshetovitsme/newsletter-digest/internal/modules/feed/parser"
	"github.com/samber/lo"
)

// Service aggregates items from many feed sources into one time-ordered batch
type Service struct {
	fetcher  *fetcher.Fetcher
	parser   *parser.Parser
	maxItems int
	logger   *slog.Logger
}

// New creates a new aggregation service
func New(fetcher *fetcher.Fetcher, parser *parser.Parser, maxItems int) *Service {
	return &Service{
		fetcher:  fetcher,
		parser:   parser,
		maxItems: maxItems,
		logger:   slog.Default(),
	}
}

// SetLogger sets the logger
func (s *Service) SetLogger(logger *slog.Logger) {
	s.logger = logger
}

// Aggregate fetches and parses every source concurrently, tolerating
// per-source failures, then merges, sorts descending by publication time
// and truncates to the processing cap.
func (s *Service) Aggregate(ctx context.Context, sources []domain.Source) []domain.FeedItem {
	results := make([][]domain.FeedItem, len(sources))

	var wg sync.WaitGroup
	for i, src := range sources {
		wg.Add(1)
		go func(i int, src domain.Source) {
			defer wg.Done()
			results[i] = s.fetchSource(ctx, src)
		}(i, src)
	}
	wg.Wait()

	all := lo.Flatten(results)

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Published.After(all[j].Published)
	})

	if len(all) > s.maxItems {
		all = all[:s.maxItems]
	}

	// Freshness is advisory only, it never changes control flow
	fresh := lo.CountBy(all, func(item domain.FeedItem) bool {
		return time.Since(item.Published) < 24*time.Hour
	})
	s.logger.Info("Aggregated feed items",
		"sources", len(sources),
		"items", len(all),
		"fresh_24h", fresh)

	return all
}

func (s *Service) fetchSource(ctx context.Context, src domain.Source) []domain.FeedItem {
	raw, err := s.fetcher.Fetch(ctx, src.RSSURL)
	if err != nil {
		s.logger.Warn("Feed source failed", "source", src.Name, "url", src.RSSURL, "error", err)
		return []domain.FeedItem{}
	}
	return s.parser.Parse(raw, src.Name)
}
