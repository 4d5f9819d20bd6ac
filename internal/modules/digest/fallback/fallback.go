package fallback

import (
	"github.com/reshetovitsme/newsletter-digest/internal/modules/digest/domain"
	feedDomain "github.com/reshetovitsme/newsletter-digest/internal/modules/feed/domain"
)

// Build distributes batch items round-robin across the seven categories.
// Deterministic and total: the user always gets a structured digest even
// without model assistance. Item i lands in category i mod 7; priority is
// high for the first ten items, medium through twenty, low after that.
func Build(batch []feedDomain.FeedItem) domain.CategoryDigest {
	digest := domain.Empty()

	for i, item := range batch {
		key := domain.CategoryKeys[i%len(domain.CategoryKeys)]
		digest[key] = append(digest[key], domain.DigestItem{
			Title:    item.Title,
			Summary:  item.Summary,
			Link:     item.Link,
			Source:   item.Source,
			Priority: priorityFor(i),
		})
	}

	return digest
}

func priorityFor(index int) domain.Priority {
	switch {
	case index < 10:
		return domain.PriorityHigh
	case index < 20:
		return domain.PriorityMedium
	default:
		return domain.PriorityLow
	}
}
