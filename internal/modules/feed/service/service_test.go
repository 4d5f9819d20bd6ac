package service

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/reshetovitsme/newsletter-digest/internal/modules/feed/domain"
	"github.com/reshetovitsme/newsletter-digest/internal/modules/feed/fetcher"
	"github.com/reshetovitsme/newsletter-digest/internal/modules/feed/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rssBody(count int, base time.Time) string {
	body := `<?xml version="1.0" encoding="utf-8"?><rss version="2.0"><channel><title>T</title>`
	for i := 0; i < count; i++ {
		body += fmt.Sprintf(`<item><title>Item %d</title><description>d</description><link>https://example.com/%d</link><pubDate>%s</pubDate></item>`,
			i, i, base.Add(-time.Duration(i)*time.Hour).Format(time.RFC1123Z))
	}
	return body + `</channel></rss>`
}

func feedServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newService(maxItems int) *Service {
	f := fetcher.New(2*time.Second, false)
	p := parser.New(8, nil)
	return New(f, p, maxItems)
}

func TestAggregate_MergesAndSortsDescending(t *testing.T) {
	base := time.Now().Truncate(time.Second)
	srvA := feedServer(t, rssBody(3, base))
	srvB := feedServer(t, rssBody(3, base.Add(-30*time.Minute)))

	s := newService(25)
	items := s.Aggregate(context.Background(), []domain.Source{
		{Name: "A", RSSURL: srvA.URL},
		{Name: "B", RSSURL: srvB.URL},
	})

	require.Len(t, items, 6)
	for i := 1; i < len(items); i++ {
		assert.False(t, items[i].Published.After(items[i-1].Published),
			"items must be sorted non-increasing by published time")
	}
}

func TestAggregate_ToleratesFailingSource(t *testing.T) {
	good := feedServer(t, rssBody(4, time.Now()))
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(bad.Close)

	s := newService(25)
	items := s.Aggregate(context.Background(), []domain.Source{
		{Name: "Good", RSSURL: good.URL},
		{Name: "Bad", RSSURL: bad.URL},
		{Name: "Unreachable", RSSURL: "http://127.0.0.1:1/feed.xml"},
	})

	require.Len(t, items, 4)
	for _, item := range items {
		assert.Equal(t, "Good", item.Source)
	}
}

func TestAggregate_TruncatesToCap(t *testing.T) {
	srvA := feedServer(t, rssBody(5, time.Now()))
	srvB := feedServer(t, rssBody(5, time.Now()))

	s := newService(6)
	items := s.Aggregate(context.Background(), []domain.Source{
		{Name: "A", RSSURL: srvA.URL},
		{Name: "B", RSSURL: srvB.URL},
	})

	assert.Len(t, items, 6)
}

func TestAggregate_AllSourcesFail(t *testing.T) {
	s := newService(25)
	items := s.Aggregate(context.Background(), []domain.Source{
		{Name: "Down", RSSURL: "http://127.0.0.1:1/feed.xml"},
	})

	assert.Empty(t, items)
}
