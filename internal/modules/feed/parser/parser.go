package parser

import (
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
	"github.com/reshetovitsme/newsletter-digest/internal/modules/feed/domain"
)

const (
	placeholderTitle   = "No title"
	placeholderSummary = "No summary available"
	placeholderLink    = "#"
	summaryMaxLen      = 300
)

// Parser turns raw feed documents into normalized items. It never fails:
// newsletters piped through feed bridges produce malformed or
// error-substituted XML, so every anomaly degrades to zero items for that
// source instead of aborting the batch.
type Parser struct {
	maxEntries int
	logger     *slog.Logger
}

// New creates a parser that keeps at most maxEntries items per feed
func New(maxEntries int, logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{
		maxEntries: maxEntries,
		logger:     logger,
	}
}

// Parse extracts up to maxEntries items from raw, in document order.
// Missing fields get fixed placeholders; unparsable dates are coerced to
// the current instant so downstream sorting always has a usable value.
func (p *Parser) Parse(raw string, sourceName string) []domain.FeedItem {
	if isServiceError(raw) {
		p.logger.Warn("Feed service returned an error body", "source", sourceName)
		return []domain.FeedItem{}
	}

	if !looksLikeFeed(raw) {
		p.logger.Warn("Response is not an Atom or RSS document", "source", sourceName)
		return []domain.FeedItem{}
	}

	feed, err := gofeed.NewParser().ParseString(raw)
	if err != nil {
		p.logger.Warn("Failed to parse feed document", "source", sourceName, "error", err)
		return []domain.FeedItem{}
	}

	entries := feed.Items
	if len(entries) > p.maxEntries {
		entries = entries[:p.maxEntries]
	}

	items := make([]domain.FeedItem, 0, len(entries))
	for _, entry := range entries {
		items = append(items, p.normalize(entry, sourceName))
	}
	return items
}

func (p *Parser) normalize(entry *gofeed.Item, sourceName string) domain.FeedItem {
	title := stripMarkup(entry.Title)
	if title == "" {
		title = placeholderTitle
	}

	// Atom summary maps to Description; content is the fallback
	summary := stripMarkup(entry.Description)
	if summary == "" {
		summary = stripMarkup(entry.Content)
	}
	if summary == "" {
		summary = placeholderSummary
	} else {
		summary = truncate(summary, summaryMaxLen)
	}

	link := entry.Link
	if link == "" {
		link = placeholderLink
	}

	published := time.Now()
	if entry.PublishedParsed != nil {
		published = *entry.PublishedParsed
	} else if entry.UpdatedParsed != nil {
		published = *entry.UpdatedParsed
	}

	return domain.FeedItem{
		Title:     title,
		Summary:   summary,
		Link:      link,
		Published: published,
		Source:    sourceName,
	}
}

// isServiceError reports whether the body is a JSON error substitute from
// an upstream feed bridge
func isServiceError(raw string) bool {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "{") && !strings.HasPrefix(trimmed, "[") {
		return false
	}
	var body map[string]any
	if err := json.Unmarshal([]byte(trimmed), &body); err != nil {
		return false
	}
	_, hasError := body["error"]
	_, hasMessage := body["message"]
	return hasError || hasMessage
}

func looksLikeFeed(raw string) bool {
	if !strings.Contains(raw, "<") {
		return false
	}
	return strings.Contains(raw, "<entry") || strings.Contains(raw, "<item")
}

// stripMarkup removes nested tags and CDATA wrappers from a field value
func stripMarkup(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if !strings.Contains(s, "<") {
		return s
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}
	return strings.TrimSpace(doc.Text())
}

func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}
