package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/lifedash/docintel/internal/async"
	"github.com/lifedash/docintel/internal/extract"
	"github.com/lifedash/docintel/internal/ingest"
	"github.com/lifedash/docintel/internal/repository"
)

// Extractor runs the synchronous extraction pipeline on raw bytes.
type Extractor interface {
	Extract(ctx context.Context, data []byte, contentType string) (extract.Result, error)
}

// Handler serves the HTTP API.
type Handler struct {
	Extractor      Extractor
	Docs           repository.DocumentRepository
	Jobs           repository.ExtractJobRepository
	Ingestor       ingest.Ingestor
	Queue          async.Queue
	SpoolDir       string
	MaxUploadBytes int64
	Logger         *slog.Logger
}

// NewRouter builds the chi router with middleware and all routes attached.
func NewRouter(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	h.Attach(r)
	return r
}

// Attach registers all routes on the given router.
func (h *Handler) Attach(r chi.Router) {
	r.Get("/healthz", h.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/extract", h.handleExtract)
		r.Post("/documents", h.handleUpload)
		r.Get("/documents", h.handleListDocuments)
		r.Get("/documents/{id}", h.handleGetDocument)
		r.Get("/export", h.handleExport)
	})
}

func (h *Handler) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
