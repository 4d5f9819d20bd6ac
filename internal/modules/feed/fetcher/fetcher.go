package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/samber/oops"
)

// Fetcher performs bounded HTTP GETs against feed URLs. Each call is
// cancelled after the configured timeout; retrying is the caller's job.
type Fetcher struct {
	client    *http.Client
	timeout   time.Duration
	cacheBust bool
}

// New creates a fetcher with the given per-request timeout
func New(timeout time.Duration, cacheBust bool) *Fetcher {
	return &Fetcher{
		client:    &http.Client{},
		timeout:   timeout,
		cacheBust: cacheBust,
	}
}

// Fetch retrieves the raw body of the given URL. A timeout is reported as
// an error carrying the elapsed budget; other transport errors propagate
// unchanged.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	reqURL := rawURL
	if f.cacheBust {
		reqURL = bustCache(rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", oops.With("url", rawURL).Wrap(err)
	}
	if f.cacheBust {
		req.Header.Set("Cache-Control", "no-cache")
		req.Header.Set("Pragma", "no-cache")
	}

	resp, err := f.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", oops.With("url", rawURL).Errorf("request timeout after %dms", f.timeout.Milliseconds())
		}
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", oops.With("url", rawURL).Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", oops.With("url", rawURL).Errorf("request timeout after %dms", f.timeout.Milliseconds())
		}
		return "", oops.With("url", rawURL).Wrap(err)
	}

	return string(body), nil
}

// bustCache appends a timestamp query parameter so feed bridges don't serve
// a stale cached document
func bustCache(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	q := u.Query()
	q.Set("_t", fmt.Sprintf("%d", time.Now().UnixMilli()))
	u.RawQuery = q.Encode()
	return u.String()
}
