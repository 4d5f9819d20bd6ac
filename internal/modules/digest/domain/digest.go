package domain

import "time"

// CategoryKeys lists the seven fixed digest categories, in the order used
// for round-robin distribution.
var CategoryKeys = []string{
	"latestNews",
	"helpfulArticles",
	"fullArticleLinks",
	"freeResources",
	"freeTrials",
	"newAITools",
	"promptSection",
}

// DigestItem is one categorized entry of the digest
type DigestItem struct {
	Title    string   `json:"title"`
	Summary  string   `json:"summary"`
	Link     string   `json:"link"`
	Source   string   `json:"source"`
	Priority Priority `json:"priority"`
}

// CategoryDigest maps each of the seven category keys to its items
type CategoryDigest map[string][]DigestItem

// Empty returns a digest with all seven categories present and empty
func Empty() CategoryDigest {
	digest := make(CategoryDigest, len(CategoryKeys))
	for _, key := range CategoryKeys {
		digest[key] = []DigestItem{}
	}
	return digest
}

// TotalItems counts items across all categories
func (d CategoryDigest) TotalItems() int {
	total := 0
	for _, items := range d {
		total += len(items)
	}
	return total
}

// Result is the sole output contract to the presentation layer
type Result struct {
	Success          bool           `json:"success"`
	Digest           CategoryDigest `json:"digest"`
	ProcessedAt      time.Time      `json:"processedAt"`
	TotalItems       int            `json:"totalItems"`
	ProcessingTimeMs int64          `json:"processingTimeMs"`
	UsedFallback     bool           `json:"usedFallback"`
	FallbackReason   FallbackReason `json:"fallbackReason,omitempty"`
	Error            string         `json:"error,omitempty"`
	Message          string         `json:"message,omitempty"`
}
