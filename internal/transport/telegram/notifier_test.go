package telegram

import (
	"testing"

	"github.com/reshetovitsme/newsletter-digest/internal/modules/digest/domain"
	"github.com/stretchr/testify/assert"
)

func TestFormatSummary(t *testing.T) {
	digest := domain.Empty()
	digest["latestNews"] = []domain.DigestItem{
		{Title: "One", Priority: domain.PriorityHigh},
		{Title: "Two", Priority: domain.PriorityHigh},
		{Title: "Three", Priority: domain.PriorityMedium},
		{Title: "Four", Priority: domain.PriorityLow},
	}
	digest["newAITools"] = []domain.DigestItem{
		{Title: "Tool", Priority: domain.PriorityHigh},
	}

	result := domain.Result{
		Success:    true,
		Digest:     digest,
		TotalItems: 5,
	}

	text := formatSummary(result)

	assert.Contains(t, text, "5 items")
	assert.Contains(t, text, "latestNews (4):")
	assert.Contains(t, text, "newAITools (1):")
	assert.Contains(t, text, "• One")
	// Only the top headlines per category are included
	assert.NotContains(t, text, "• Four")
	// Empty categories are skipped
	assert.NotContains(t, text, "freeTrials")
}

func TestFormatSummary_FallbackAnnotated(t *testing.T) {
	result := domain.Result{
		Success:        true,
		Digest:         domain.Empty(),
		TotalItems:     0,
		UsedFallback:   true,
		FallbackReason: domain.FallbackReasonTimeout,
	}

	text := formatSummary(result)
	assert.Contains(t, text, "fallback: timeout")
}
