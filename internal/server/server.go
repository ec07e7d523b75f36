package server

import (
	"context"
	"encoding/json"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/ngavu2004/TIPQIC-RAG-chatbot/internal/helper"
	"github.com/ngavu2004/TIPQIC-RAG-chatbot/internal/history"
	"github.com/ngavu2004/TIPQIC-RAG-chatbot/internal/models"
)

const (
	apiVersion        = "1.0.0"
	defaultMaxResults = 5
	previewLength     = 200
)

// Responder answers chat questions; satisfied by rag.RAG
type Responder interface {
	Answer(ctx context.Context, query string) (*models.PromptResponse, error)
}

type Server struct {
	responder Responder
	store     *history.Store
	sessionID string
	count     func() int
}

// New builds the HTTP API. count reports the number of indexed chunks;
// store may be nil when history is disabled.
func New(responder Responder, store *history.Store, sessionID string, count func() int) *Server {
	return &Server{responder: responder, store: store, sessionID: sessionID, count: count}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)

	r.Get("/", s.handleRoot)
	r.Get("/api/health", s.handleHealth)
	r.Get("/api/stats", s.handleStats)
	r.Post("/api/chat", s.handleChat)
	return r
}

type ChatRequest struct {
	Message        string `json:"message"`
	MaxResults     int    `json:"max_results,omitempty"`
	IncludeSources *bool  `json:"include_sources,omitempty"`
}

type SourceInfo struct {
	Filename string  `json:"filename"`
	Page     string  `json:"page"`
	Score    float32 `json:"score"`
	Preview  string  `json:"preview"`
}

type ChatResponse struct {
	Response     string       `json:"response"`
	Sources      []SourceInfo `json:"sources"`
	Timestamp    string       `json:"timestamp"`
	Success      bool         `json:"success"`
	ErrorMessage string       `json:"error_message,omitempty"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "TIPQIC RAG Chatbot API",
		"version": apiVersion,
		"endpoints": map[string]string{
			"chat":   "/api/chat",
			"health": "/api/health",
			"stats":  "/api/stats",
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().Format(time.RFC3339),
		Version:   apiVersion,
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "available",
		"timestamp": time.Now().Format(time.RFC3339),
		"chunks":    s.count(),
	})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Message == "" {
		writeJSON(w, http.StatusBadRequest, ChatResponse{
			Response:     "",
			Sources:      []SourceInfo{},
			Timestamp:    time.Now().Format(time.RFC3339),
			Success:      false,
			ErrorMessage: "message is required",
		})
		return
	}
	if req.MaxResults <= 0 {
		req.MaxResults = defaultMaxResults
	}
	includeSources := req.IncludeSources == nil || *req.IncludeSources

	resp, err := s.responder.Answer(r.Context(), req.Message)
	if err != nil {
		log.Error().Err(err).Msg("Error in chat endpoint")
		// pipeline failures keep the 200 envelope with success=false
		writeJSON(w, http.StatusOK, ChatResponse{
			Response:     "I'm sorry, I encountered an error while processing your request. Please try again.",
			Sources:      []SourceInfo{},
			Timestamp:    time.Now().Format(time.RFC3339),
			Success:      false,
			ErrorMessage: err.Error(),
		})
		return
	}

	sources := []SourceInfo{}
	if includeSources {
		for i, res := range resp.Sources {
			if i >= req.MaxResults {
				break
			}
			sources = append(sources, SourceInfo{
				Filename: filepath.Base(res.Chunk.SourceFile),
				Page:     strconv.Itoa(res.Chunk.PageNumber),
				Score:    res.Score,
				Preview:  helper.FormatPreview(res.Chunk.Content, previewLength),
			})
		}
	}

	if err := s.store.AppendMessage(r.Context(), s.sessionID, "user", req.Message, nil); err != nil {
		log.Warn().Err(err).Msg("Failed to persist user message")
	}
	if err := s.store.AppendMessage(r.Context(), s.sessionID, "assistant", resp.Content, resp.Sources); err != nil {
		log.Warn().Err(err).Msg("Failed to persist assistant message")
	}

	writeJSON(w, http.StatusOK, ChatResponse{
		Response:  resp.Content,
		Sources:   sources,
		Timestamp: time.Now().Format(time.RFC3339),
		Success:   true,
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("Request")
	})
}
