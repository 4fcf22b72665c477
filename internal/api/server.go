package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joshuasparkes/transcription-to-stories/internal/config"
	"github.com/joshuasparkes/transcription-to-stories/internal/extract"
	"github.com/joshuasparkes/transcription-to-stories/internal/library"
	"github.com/joshuasparkes/transcription-to-stories/internal/web"
)

// Server is the HTTP surface: the browser page, transcript
// normalization, the three model transformations, and TSV export.
type Server struct {
	router  chi.Router
	claude  *extract.ClaudeClient
	library *library.Library
	log     *slog.Logger
	cfg     config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(claude *extract.ClaudeClient, lib *library.Library, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		claude:  claude,
		library: lib,
		log:     log,
		cfg:     cfg,
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

	r.Get("/", s.handleIndex)
	r.Get("/health", s.handleHealth)

	r.Post("/api/normalize", s.handleNormalize)
	r.Post("/api/stories", s.handleStories)
	r.Post("/api/question", s.handleQuestion)
	r.Post("/api/rewrite", s.handleRewrite)
	r.Post("/api/export", s.handleExport)

	r.Get("/api/library", s.handleLibrary)
	r.Get("/api/library/{name}", s.handleLibraryFile)

	r.Get("/api/stats/llm", s.handleLLMStats)

	s.router = r
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(web.Index)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
