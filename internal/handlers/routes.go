package handlers

import (
	"encoding/json"
	"net/http"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mbarranco/clipmill/internal/constants"
	"github.com/mbarranco/clipmill/internal/ingest"
)

func (h *Handler) ListItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.Store.ListItems()
	if err != nil {
		h.Log.Error("Failed to list items", "error", err)
		h.respondError(w, http.StatusInternalServerError, "failed to list items")
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]any{"items": items, "count": len(items)})
}

func (h *Handler) GetScript(w http.ResponseWriter, r *http.Request) {
	topic := chi.URLParam(r, "topic")
	item, err := h.Store.GetItem(topic)
	if err != nil {
		h.Log.Error("Failed to load item", "topic", topic, "error", err)
		h.respondError(w, http.StatusInternalServerError, "failed to load item")
		return
	}
	if item == nil {
		h.respondError(w, http.StatusNotFound, "topic not found")
		return
	}
	if item.ScriptPath == nil || *item.ScriptPath == "" {
		h.respondError(w, http.StatusNotFound, "no script generated yet")
		return
	}

	data, err := os.ReadFile(*item.ScriptPath)
	if err != nil {
		h.respondError(w, http.StatusNotFound, "script file missing on disk")
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]string{"topic": topic, "script": string(data)})
}

func (h *Handler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	topic := chi.URLParam(r, "topic")
	deleted, err := h.Store.DeleteItem(topic)
	if err != nil {
		h.Log.Error("Failed to delete item", "topic", topic, "error", err)
		h.respondError(w, http.StatusInternalServerError, "failed to delete item")
		return
	}
	if !deleted {
		h.respondError(w, http.StatusNotFound, "topic not found")
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]string{"deleted": topic})
}

type topicsRequest struct {
	InputType string   `json:"input_type"`
	Text      string   `json:"text"`
	Samples   []string `json:"samples"`
	Path      string   `json:"path"`
	Count     int      `json:"count"`
}

func (h *Handler) GenerateTopics(w http.ResponseWriter, r *http.Request) {
	var req topicsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	kind := ingest.Kind(strings.TrimSpace(req.InputType))
	switch kind {
	case ingest.KindScript, ingest.KindSamples, ingest.KindURL, ingest.KindAudio:
	default:
		h.respondError(w, http.StatusBadRequest, "input_type must be one of script, samples, url, audio_path")
		return
	}
	if req.Count <= 0 {
		req.Count = 3
	}

	in := ingest.Input{Kind: kind, Text: req.Text, Samples: req.Samples, Path: req.Path}
	res, err := h.Topics.GenerateAndStore(r.Context(), in, req.Count)
	if err != nil {
		h.Log.Error("Topic generation failed", "error", err)
		h.respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	h.respondJSON(w, http.StatusOK, res)
}

type processRequest struct {
	MaxItems int `json:"max_items"`
}

func (h *Handler) RunProcessing(w http.ResponseWriter, r *http.Request) {
	req := processRequest{MaxItems: constants.DefaultItemsPerRun}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.respondError(w, http.StatusBadRequest, "invalid json body")
			return
		}
	}

	report, err := h.Runner.Run(r.Context(), req.MaxItems)
	if err != nil {
		h.Log.Error("Processing run failed", "error", err)
		h.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]any{
		"report":  report,
		"summary": report.Summary(),
	})
}
