package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetch_ReturnsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<feed>ok</feed>"))
	}))
	defer srv.Close()

	f := New(2*time.Second, false)
	body, err := f.Fetch(context.Background(), srv.URL)

	require.NoError(t, err)
	assert.Equal(t, "<feed>ok</feed>", body)
}

func TestFetch_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
		w.Write([]byte("too late"))
	}))
	defer srv.Close()

	f := New(50*time.Millisecond, false)
	_, err := f.Fetch(context.Background(), srv.URL)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "timeout")
}

func TestFetch_HTTPErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	f := New(2*time.Second, false)
	_, err := f.Fetch(context.Background(), srv.URL)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 404")
}

func TestFetch_CacheBusting(t *testing.T) {
	var gotParam, gotHeader string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotParam = r.URL.Query().Get("_t")
		gotHeader = r.Header.Get("Cache-Control")
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	f := New(2*time.Second, true)
	_, err := f.Fetch(context.Background(), srv.URL)

	require.NoError(t, err)
	assert.NotEmpty(t, gotParam)
	assert.Equal(t, "no-cache", gotHeader)
}

func TestFetch_NoCacheBustingByDefault(t *testing.T) {
	var gotParam string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotParam = r.URL.Query().Get("_t")
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	f := New(2*time.Second, false)
	_, err := f.Fetch(context.Background(), srv.URL)

	require.NoError(t, err)
	assert.Empty(t, gotParam)
}

func TestFetch_UnreachableHost(t *testing.T) {
	f := New(2*time.Second, false)
	_, err := f.Fetch(context.Background(), "http://127.0.0.1:1/feed.xml")
	assert.Error(t, err)
}
