package service

import (
	"context"
	stderrors "errors"
	"log/slog"
	"strings"
	"time"

	"github.com/reshetovitsme/newsletter-digest/internal/modules/digest/classifier"
	"github.com/reshetovitsme/newsletter-digest/internal/modules/digest/domain"
	"github.com/reshetovitsme/newsletter-digest/internal/modules/digest/fallback"
	feedDomain "github.com/reshetovitsme/newsletter-digest/internal/modules/feed/domain"
	feedService "github.com/reshetovitsme/newsletter-digest/internal/modules/feed/service"
)

// Request is one digest generation request
type Request struct {
	FocusArea string
	Sources   []feedDomain.Source
}

// Service orchestrates the pipeline: aggregate, check the time budget,
// classify, and fall back so a well-formed digest is always produced when
// any content exists.
type Service struct {
	aggregator     *feedService.Service
	classifier     *classifier.Classifier
	defaultSources []feedDomain.Source
	budget         time.Duration
	logger         *slog.Logger
}

// New creates a new digest service
func New(aggregator *feedService.Service, classifier *classifier.Classifier, defaultSources []feedDomain.Source, budget time.Duration) *Service {
	return &Service{
		aggregator:     aggregator,
		classifier:     classifier,
		defaultSources: defaultSources,
		budget:         budget,
		logger:         slog.Default(),
	}
}

// SetLogger sets the logger
func (s *Service) SetLogger(logger *slog.Logger) {
	s.logger = logger
}

// GenerateDigest runs the full pipeline. Classifier failure is never fatal:
// any aggregated content is categorized deterministically instead. A panic
// past aggregation still yields an emergency fallback digest.
func (s *Service) GenerateDigest(ctx context.Context, req Request) (result domain.Result) {
	start := time.Now()
	var batch []feedDomain.FeedItem

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Pipeline panicked", "panic", r)
			result = s.emergencyResult(batch, start)
		}
	}()

	sources := req.Sources
	if len(sources) == 0 {
		sources = s.defaultSources
	}

	s.logger.Info("Generating digest", "sources", len(sources), "focus_area", req.FocusArea)

	batch = s.aggregator.Aggregate(ctx, sources)

	if len(batch) == 0 {
		s.logger.Warn("No feed content aggregated, returning empty fallback digest")
		return s.fallbackResult(batch, start, domain.FallbackReasonNoContent)
	}

	// Proactive budget guard: with too little headroom left under the
	// host execution limit, skip the model entirely
	if elapsed := time.Since(start); elapsed > s.budget {
		s.logger.Warn("Time budget exceeded before classification", "elapsed", elapsed, "budget", s.budget)
		return s.fallbackResult(batch, start, domain.FallbackReasonTimeout)
	}

	digest, err := s.classifier.Classify(ctx, batch, req.FocusArea)
	if err != nil {
		s.logger.Warn("Classification failed, using fallback digest", "error", err)
		return s.fallbackResult(batch, start, reasonFor(err))
	}

	total := digest.TotalItems()
	return domain.Result{
		Success:          true,
		Digest:           digest,
		ProcessedAt:      time.Now(),
		TotalItems:       total,
		ProcessingTimeMs: time.Since(start).Milliseconds(),
		UsedFallback:     total == 0,
	}
}

func (s *Service) fallbackResult(batch []feedDomain.FeedItem, start time.Time, reason domain.FallbackReason) domain.Result {
	digest := fallback.Build(batch)
	return domain.Result{
		Success:          true,
		Digest:           digest,
		ProcessedAt:      time.Now(),
		TotalItems:       digest.TotalItems(),
		ProcessingTimeMs: time.Since(start).Milliseconds(),
		UsedFallback:     true,
		FallbackReason:   reason,
	}
}

// emergencyResult salvages whatever was aggregated before an unexpected
// failure. Only a run with no content at all reports failure.
func (s *Service) emergencyResult(batch []feedDomain.FeedItem, start time.Time) domain.Result {
	if len(batch) > 0 {
		s.logger.Info("Built emergency fallback digest", "items", len(batch))
		return s.fallbackResult(batch, start, domain.FallbackReasonAiUnavailable)
	}
	return domain.Result{
		Success:          false,
		ProcessedAt:      time.Now(),
		ProcessingTimeMs: time.Since(start).Milliseconds(),
		UsedFallback:     true,
		FallbackReason:   domain.FallbackReasonNoContent,
		Error:            "Failed to generate digest",
	}
}

func reasonFor(err error) domain.FallbackReason {
	if stderrors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "timeout") {
		return domain.FallbackReasonTimeout
	}
	return domain.FallbackReasonAiUnavailable
}
