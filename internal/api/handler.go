// Package api serves the topic editor over HTTP.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/p-n-ai/pai-topics/internal/curriculum"
	"github.com/p-n-ai/pai-topics/internal/editor"
	"github.com/p-n-ai/pai-topics/internal/export"
	"github.com/p-n-ai/pai-topics/internal/topic"
)

const (
	maxBodyBytes = 1 << 20
	readyTimeout = 2 * time.Second
	xlsxType     = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// HealthChecker is a dependency that /readyz pings.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Handler holds the dependencies of the HTTP API.
type Handler struct {
	store    editor.TopicStore
	factory  *topic.Factory
	events   editor.EventLogger
	notifier *Notifier
	checks   map[string]HealthChecker
}

// NewHandler creates the API handler. events receives every saved topic;
// notifier may be nil to disable websocket streaming.
func NewHandler(store editor.TopicStore, events editor.EventLogger, notifier *Notifier) *Handler {
	return &Handler{
		store:    store,
		factory:  topic.DefaultFactory(),
		events:   events,
		notifier: notifier,
		checks:   make(map[string]HealthChecker),
	}
}

// AddCheck registers a readiness dependency.
func (h *Handler) AddCheck(name string, c HealthChecker) {
	h.checks[name] = c
}

// Mux creates the HTTP router.
func (h *Handler) Mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handleHealthz)
	mux.HandleFunc("GET /readyz", h.handleReadyz)
	mux.HandleFunc("GET /api/topics", h.handleListTopics)
	mux.HandleFunc("GET /api/topics/{id}", h.handleGetTopic)
	mux.HandleFunc("PUT /api/topics/{id}", h.handlePutTopic)
	mux.HandleFunc("GET /api/topics/{id}/export", h.handleExportTopic)
	if h.notifier != nil {
		mux.Handle("GET /ws/topics", h.notifier)
	}
	return mux
}

// TopicResponse is the body of GET and PUT /api/topics/{id}.
type TopicResponse struct {
	Topic             topic.Record      `json:"topic"`
	SkillDescriptions map[string]string `json:"skill_descriptions"`
	Issues            []string          `json:"issues"`
}

// SaveRequest is the body of PUT /api/topics/{id}.
type SaveRequest struct {
	Topic             json.RawMessage   `json:"topic"`
	SkillDescriptions map[string]string `json:"skill_descriptions"`
}

type errorResponse struct {
	Error    string   `json:"error"`
	Problems []string `json:"problems,omitempty"`
	Issues   []string `json:"issues,omitempty"`
}

func handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func (h *Handler) handleReadyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	for name, c := range h.checks {
		if err := c.HealthCheck(ctx); err != nil {
			slog.Warn("readiness check failed", "dependency", name, "error", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status":     "unavailable",
				"dependency": name,
			})
			return
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}

func (h *Handler) handleListTopics(w http.ResponseWriter, r *http.Request) {
	topics, err := h.store.ListTopics()
	if err != nil {
		h.internalError(w, "list topics", err)
		return
	}
	writeJSON(w, http.StatusOK, topics)
}

func (h *Handler) handleGetTopic(w http.ResponseWriter, r *http.Request) {
	s, ok := h.loadSession(w, r.PathValue("id"))
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, topicResponse(s))
}

func (h *Handler) handlePutTopic(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req SaveRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("decode request: %v", err)})
		return
	}
	if err := curriculum.ValidateRecordJSON(req.Topic); err != nil {
		resp := errorResponse{Error: "topic does not match the record schema"}
		var schemaErr *curriculum.SchemaError
		if errors.As(err, &schemaErr) {
			resp.Problems = schemaErr.Problems
		} else {
			resp.Error = err.Error()
		}
		writeJSON(w, http.StatusBadRequest, resp)
		return
	}
	var rec topic.Record
	if err := json.Unmarshal(req.Topic, &rec); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("decode topic: %v", err)})
		return
	}
	if rec.RecordID() != id {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("topic id %q does not match path id %q", rec.RecordID(), id)})
		return
	}

	s, ok := h.loadSession(w, id)
	if !ok {
		return
	}
	if err := s.Apply(rec, req.SkillDescriptions); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	_, err := s.Save()
	var invalid *editor.InvalidTopicError
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, topicResponse(s))
	case errors.As(err, &invalid):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "topic is invalid", Issues: invalid.Issues})
	case errors.Is(err, editor.ErrVersionConflict):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	default:
		h.internalError(w, "save topic", err)
	}
}

func (h *Handler) handleExportTopic(w http.ResponseWriter, r *http.Request) {
	s, ok := h.loadSession(w, r.PathValue("id"))
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := export.WriteWorkbook(s.Topic(), &buf); err != nil {
		h.internalError(w, "export topic", err)
		return
	}
	w.Header().Set("Content-Type", xlsxType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", s.Topic().ID()+".xlsx"))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// loadSession opens a session on the stored topic id, writing the error
// response itself when it fails.
func (h *Handler) loadSession(w http.ResponseWriter, id string) (*editor.Session, bool) {
	s := editor.NewSession(h.store, h.factory, h.events)
	if err := s.Load(id); err != nil {
		if errors.Is(err, editor.ErrTopicNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
		} else {
			h.internalError(w, "load topic", err)
		}
		return nil, false
	}
	return s, true
}

func (h *Handler) internalError(w http.ResponseWriter, op string, err error) {
	slog.Error("request failed", "op", op, "error", err)
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
}

func topicResponse(s *editor.Session) TopicResponse {
	issues := s.Issues()
	if issues == nil {
		issues = []string{}
	}
	return TopicResponse{
		Topic:             s.Topic().ToRecord(),
		SkillDescriptions: s.Topic().SkillDescriptions(),
		Issues:            issues,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("failed to write response", "error", err)
	}
}
