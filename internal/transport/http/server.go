package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/feeds"
	digestDomain "github.com/reshetovitsme/newsletter-digest/internal/modules/digest/domain"
	digestService "github.com/reshetovitsme/newsletter-digest/internal/modules/digest/service"
	feedDomain "github.com/reshetovitsme/newsletter-digest/internal/modules/feed/domain"
	"github.com/reshetovitsme/newsletter-digest/internal/shared/config"
	"github.com/reshetovitsme/newsletter-digest/internal/transport/telegram"
	sloghttp "github.com/samber/slog-http"
)

// Server handles HTTP requests for digest generation
type Server struct {
	cfg           *config.Config
	digestService *digestService.Service
	notifier      *telegram.Notifier
	logger        *slog.Logger
}

// New creates a new HTTP server
func New(cfg *config.Config, digestService *digestService.Service, notifier *telegram.Notifier) *Server {
	return &Server{
		cfg:           cfg,
		digestService: digestService,
		notifier:      notifier,
		logger:        slog.Default(),
	}
}

// SetLogger sets the logger
func (s *Server) SetLogger(logger *slog.Logger) {
	s.logger = logger
}

// Start starts the HTTP server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%s", s.cfg.HTTPPort)
	s.logger.Info("Digest server starting", "addr", addr)

	// Use slog-http middleware with recovery
	handler := sloghttp.Recovery(s.routes())
	handler = sloghttp.New(s.logger)(handler)

	server := &http.Server{
		Addr:        addr,
		Handler:     handler,
		ReadTimeout: 15 * time.Second,
		// Generation can spend the whole pipeline budget plus model retries
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return server.ListenAndServe()
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()

	// The digest endpoint routes methods itself to serve CORS preflight
	mux.HandleFunc("/api/digest", s.handleDigest)

	// Digest rendered as an RSS feed
	mux.HandleFunc("GET /api/digest/rss", s.handleDigestRSS)

	// Health check endpoint
	mux.HandleFunc("GET /health", s.handleHealth)

	// Root endpoint with instructions
	mux.HandleFunc("GET /", s.handleRoot)

	return mux
}

type digestRequest struct {
	FocusArea string              `json:"focusArea"`
	Sources   []feedDomain.Source `json:"sources"`
}

func (s *Server) handleDigest(w http.ResponseWriter, r *http.Request) {
	setCORSHeaders(w)

	switch r.Method {
	case http.MethodOptions:
		w.WriteHeader(http.StatusOK)
		return
	case http.MethodPost:
	default:
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusMethodNotAllowed)
		json.NewEncoder(w).Encode(map[string]string{"error": "Method not allowed"})
		return
	}

	var req digestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.logger.Warn("Malformed digest request body", "error", err)
		s.writeResult(w, digestDomain.Result{
			Success:        false,
			ProcessedAt:    time.Now(),
			UsedFallback:   true,
			FallbackReason: digestDomain.FallbackReasonNoContent,
			Error:          "Failed to generate digest",
			Message:        err.Error(),
		})
		return
	}

	result := s.digestService.GenerateDigest(r.Context(), digestService.Request{
		FocusArea: req.FocusArea,
		Sources:   req.Sources,
	})

	if s.notifier != nil && result.Success {
		go s.notifier.Notify(result)
	}

	s.writeResult(w, result)
}

func (s *Server) handleDigestRSS(w http.ResponseWriter, r *http.Request) {
	focus := r.URL.Query().Get("focus")
	if focus == "" {
		focus = "general AI news"
	}

	result := s.digestService.GenerateDigest(r.Context(), digestService.Request{FocusArea: focus})
	if !result.Success {
		http.Error(w, "Failed to generate digest", http.StatusInternalServerError)
		return
	}

	feed := &feeds.Feed{
		Title:       "AI Newsletter Digest",
		Link:        &feeds.Link{Href: fmt.Sprintf("%s://%s/api/digest/rss", getScheme(r), r.Host)},
		Description: fmt.Sprintf("Categorized digest of AI newsletters, focus: %s", focus),
		Created:     result.ProcessedAt,
	}

	for _, key := range digestDomain.CategoryKeys {
		for _, item := range result.Digest[key] {
			feed.Items = append(feed.Items, &feeds.Item{
				Title:       fmt.Sprintf("[%s] %s", key, item.Title),
				Link:        &feeds.Link{Href: item.Link},
				Description: item.Summary,
				Author:      &feeds.Author{Name: item.Source},
				Created:     result.ProcessedAt,
				Id:          item.Link,
			})
		}
	}

	rss, err := feed.ToRss()
	if err != nil {
		s.logger.Error("Error converting digest to RSS", "error", err)
		http.Error(w, "Failed to generate RSS", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(rss))
}

func (s *Server) writeResult(w http.ResponseWriter, result digestDomain.Result) {
	w.Header().Set("Content-Type", "application/json")
	if result.Success {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusInternalServerError)
	}
	if err := json.NewEncoder(w).Encode(result); err != nil {
		s.logger.Error("Error encoding digest result", "error", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	html := `<!DOCTYPE html>
<html>
<head>
    <title>AI Newsletter Digest</title>
    <style>
        body { font-family: Arial, sans-serif; max-width: 800px; margin: 50px auto; padding: 20px; }
        h1 { color: #333; }
        .info { background: #f5f5f5; padding: 15px; border-radius: 5px; margin: 20px 0; }
        code { background: #e8e8e8; padding: 2px 6px; border-radius: 3px; }
    </style>
</head>
<body>
    <h1>AI Newsletter Digest Service</h1>
    <div class="info">
        <p>This service aggregates AI newsletter feeds into a categorized digest.</p>
        <p>To generate a digest: <code>POST /api/digest</code> with body <code>{"focusArea": "...", "sources": [...]}</code></p>
        <p>RSS rendering: <code>GET /api/digest/rss?focus=...</code></p>
    </div>
    <p><a href="/health">Health Check</a></p>
</body>
</html>`
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(html))
}

func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
}

func getScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if scheme := r.Header.Get("X-Forwarded-Proto"); scheme != "" {
		return scheme
	}
	return "http"
}
