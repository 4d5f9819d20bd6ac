package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/reshetovitsme/newsletter-digest/internal/modules/digest/domain"
	feedDomain "github.com/reshetovitsme/newsletter-digest/internal/modules/feed/domain"
	"github.com/reshetovitsme/newsletter-digest/internal/shared/errors"
	"github.com/samber/oops"
)

const promptItemCap = 20

// ChatCaller is the model API surface the classifier needs
type ChatCaller interface {
	Available() bool
	ChatCompletion(ctx context.Context, model, prompt string, temperature float64, maxTokens int) (string, error)
}

// Classifier asks a model to sort aggregated items into the seven digest
// categories. Models are tried fastest first; the whole list is retried
// with a short linear pause between attempts.
type Classifier struct {
	client      ChatCaller
	models      []string
	maxRetries  int
	retryDelay  time.Duration
	callTimeout time.Duration
	temperature float64
	logger      *slog.Logger
}

// New creates a new classifier
func New(client ChatCaller, models []string, maxRetries int, retryDelay, callTimeout time.Duration, temperature float64) *Classifier {
	return &Classifier{
		client:      client,
		models:      models,
		maxRetries:  maxRetries,
		retryDelay:  retryDelay,
		callTimeout: callTimeout,
		temperature: temperature,
		logger:      slog.Default(),
	}
}

// SetLogger sets the logger
func (c *Classifier) SetLogger(logger *slog.Logger) {
	c.logger = logger
}

// Classify sends the batch to the model and returns the parsed digest.
// A call that succeeds but yields unusable JSON is not re-prompted; the
// caller falls back instead.
func (c *Classifier) Classify(ctx context.Context, batch []feedDomain.FeedItem, focusArea string) (domain.CategoryDigest, error) {
	if !c.client.Available() {
		return nil, oops.Wrap(errors.ErrMissingAPIKey)
	}

	prompt, err := c.buildPrompt(batch, focusArea)
	if err != nil {
		return nil, oops.With("context", "building prompt").Wrap(err)
	}

	content, err := c.callWithRetry(ctx, prompt)
	if err != nil {
		return nil, err
	}

	return c.parseResponse(content)
}

// callWithRetry iterates (attempt, model) pairs: every model in order per
// attempt, a linear pause between exhausted attempts, failure only after
// the final model of the final attempt.
func (c *Classifier) callWithRetry(ctx context.Context, prompt string) (string, error) {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		for i, model := range c.models {
			// Fewer tokens for the faster model
			maxTokens := 4000
			if i == 0 {
				maxTokens = 3000
			}

			c.logger.Info("Calling model",
				"attempt", attempt+1,
				"max_attempts", c.maxRetries+1,
				"model", model)

			callCtx, cancel := context.WithTimeout(ctx, c.callTimeout)
			content, err := c.client.ChatCompletion(callCtx, model, prompt, c.temperature, maxTokens)
			cancel()

			if err == nil {
				c.logger.Info("Model call succeeded", "model", model, "attempt", attempt+1)
				return content, nil
			}

			lastErr = err
			c.logger.Warn("Model call failed", "model", model, "attempt", attempt+1, "error", err)

			if ctx.Err() != nil {
				return "", oops.With("context", "classification cancelled").Wrap(ctx.Err())
			}
		}

		if attempt < c.maxRetries {
			c.logger.Info("All models failed, pausing before retry", "delay", c.retryDelay)
			select {
			case <-time.After(c.retryDelay):
			case <-ctx.Done():
				return "", oops.With("context", "classification cancelled").Wrap(ctx.Err())
			}
		}
	}

	return "", oops.With("last_error", fmt.Sprint(lastErr)).Wrap(errors.ErrClassificationExhausted)
}

func (c *Classifier) buildPrompt(batch []feedDomain.FeedItem, focusArea string) (string, error) {
	items := batch
	if len(items) > promptItemCap {
		items = items[:promptItemCap]
	}

	serialized, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return "", err
	}

	return fmt.Sprintf(`You are an expert AI newsletter editor. Analyze the following RSS feed content and organize it into exactly 7 categories.

Focus Area: %s

Categorize content into these 7 fields:
1. "latestNews" - Breaking AI news, company announcements, major releases
2. "helpfulArticles" - Educational content, tutorials, how-to guides
3. "fullArticleLinks" - Extract and verify all article URLs for "read more"
4. "freeResources" - PDFs, templates, downloads, free tools, resources
5. "freeTrials" - Beta access, free trials, limited-time offers
6. "newAITools" - New AI tools, product launches, software releases
7. "promptSection" - AI prompts, prompt engineering tips, prompt libraries

For each category, create an array of items with:
- title: Clear, engaging title
- summary: 2-3 sentence summary
- link: Direct URL to article/resource
- source: Which newsletter this came from
- priority: "high", "medium", or "low"

RSS CONTENT TO PROCESS:
%s

IMPORTANT: Respond ONLY with valid JSON. Do not wrap in code blocks or add any other text. Return ONLY the JSON object in this exact format:
{
  "latestNews": [{"title": "...", "summary": "...", "link": "...", "source": "...", "priority": "..."}],
  "helpfulArticles": [{"title": "...", "summary": "...", "link": "...", "source": "...", "priority": "..."}],
  "fullArticleLinks": [{"title": "...", "summary": "...", "link": "...", "source": "...", "priority": "..."}],
  "freeResources": [{"title": "...", "summary": "...", "link": "...", "source": "...", "priority": "..."}],
  "freeTrials": [{"title": "...", "summary": "...", "link": "...", "source": "...", "priority": "..."}],
  "newAITools": [{"title": "...", "summary": "...", "link": "...", "source": "...", "priority": "..."}],
  "promptSection": [{"title": "...", "summary": "...", "link": "...", "source": "...", "priority": "..."}]
}`, focusArea, string(serialized)), nil
}

// parseResponse cleans fences and surrounding prose, parses the JSON and
// normalizes it to the seven-key digest shape.
func (c *Classifier) parseResponse(content string) (domain.CategoryDigest, error) {
	cleaned := cleanResponse(content)

	var raw map[string][]responseItem
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return nil, oops.With("context", "cleaning model output").Wrap(errors.ErrResponseParse)
	}

	digest := domain.Empty()
	matched := false
	for _, key := range domain.CategoryKeys {
		items, ok := raw[key]
		if !ok {
			continue
		}
		matched = true
		for _, item := range items {
			if strings.TrimSpace(item.Title) == "" {
				continue
			}
			digest[key] = append(digest[key], item.toDomain())
		}
	}

	// A JSON object sharing none of the seven keys is no better than prose
	if !matched {
		return nil, oops.With("context", "response shape").Wrap(errors.ErrResponseParse)
	}

	return digest, nil
}

type responseItem struct {
	Title    string `json:"title"`
	Summary  string `json:"summary"`
	Link     string `json:"link"`
	Source   string `json:"source"`
	Priority string `json:"priority"`
}

func (r responseItem) toDomain() domain.DigestItem {
	priority, err := domain.ParsePriority(r.Priority)
	if err != nil {
		priority = domain.PriorityMedium
	}
	link := r.Link
	if link == "" {
		link = "#"
	}
	return domain.DigestItem{
		Title:    r.Title,
		Summary:  r.Summary,
		Link:     link,
		Source:   r.Source,
		Priority: priority,
	}
}

// cleanResponse strips markdown fences and anything outside the outermost
// braces
func cleanResponse(content string) string {
	cleaned := strings.TrimSpace(content)
	cleaned = strings.ReplaceAll(cleaned, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")

	first := strings.Index(cleaned, "{")
	last := strings.LastIndex(cleaned, "}")
	if first != -1 && last != -1 && last > first {
		cleaned = cleaned[first : last+1]
	}
	return cleaned
}
