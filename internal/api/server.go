package api

import (
	"log/slog"
	"net/http"

	"github.com/dgallion1/docsum/internal/config"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server serves the generated summary artifacts over HTTP: a JSON listing
// of summaries, their metadata, and an HTML rendering of the Markdown
// summaries. It reads the output directory directly and holds no state of
// its own.
type Server struct {
	router    chi.Router
	outputDir string
	log       *slog.Logger
	cfg       config.Config
}

// NewServer creates and configures the HTTP server over an output
// directory produced by a summarization run.
func NewServer(outputDir string, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		outputDir: outputDir,
		log:       log,
		cfg:       cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// Authenticated endpoints. With no API key configured the group is
	// open, which suits local browsing.
	r.Group(func(r chi.Router) {
		if s.cfg.ServeAPIKey != "" {
			r.Use(AuthMiddleware(s.cfg.ServeAPIKey, s.log))
		}

		r.Get("/api/summaries", s.handleListSummaries)
		r.Get("/api/summaries/meta", s.handleSummaryMeta)
		r.Get("/view/*", s.handleView)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
