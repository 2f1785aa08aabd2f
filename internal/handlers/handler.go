// Package handlers exposes the pipeline over a JSON HTTP API.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mbarranco/clipmill/internal/ingest"
	"github.com/mbarranco/clipmill/internal/logger"
	"github.com/mbarranco/clipmill/internal/pipeline"
	"github.com/mbarranco/clipmill/internal/store"
	"github.com/mbarranco/clipmill/internal/topics"
)

// TopicGenerator is the slice of the topics service the API needs.
type TopicGenerator interface {
	GenerateAndStore(ctx context.Context, in ingest.Input, count int) (topics.Result, error)
}

// ProcessRunner is the slice of the scheduler the API needs.
type ProcessRunner interface {
	Run(ctx context.Context, budget int) (pipeline.RunReport, error)
}

type Handler struct {
	Store  *store.DB
	Topics TopicGenerator
	Runner ProcessRunner
	Log    *logger.Logger
}

func NewHandler(db *store.DB, tg TopicGenerator, runner ProcessRunner, log *logger.Logger) *Handler {
	return &Handler{
		Store:  db,
		Topics: tg,
		Runner: runner,
		Log:    log.WithComponent("http"),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/api/items", h.ListItems)
	r.Get("/api/items/{topic}/script", h.GetScript)
	r.Delete("/api/items/{topic}", h.DeleteItem)

	r.Post("/api/topics", h.GenerateTopics)
	r.Post("/api/process", h.RunProcessing)
}

func (h *Handler) respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.Log.Error("Failed to encode response", "error", err)
	}
}

func (h *Handler) respondError(w http.ResponseWriter, status int, msg string) {
	h.respondJSON(w, status, map[string]string{"error": msg})
}
