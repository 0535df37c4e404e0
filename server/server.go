// Package server exposes the agent backend over HTTP: a chat endpoint backed
// by the conversation graph and session management backed by the checkpoint
// store.
package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/kumusha/remitflow/checkpoint"
	"github.com/kumusha/remitflow/config"
	"github.com/kumusha/remitflow/graph"
)

// Server wires the conversation graph and checkpoint store into HTTP routes.
type Server struct {
	graph  *graph.Graph
	store  checkpoint.Store
	logger zerolog.Logger
}

// New creates the HTTP server.
func New(g *graph.Graph, store checkpoint.Store, logger zerolog.Logger) *Server {
	return &Server{
		graph:  g,
		store:  store,
		logger: logger.With().Str("component", "server").Logger(),
	}
}

// Handler builds the router with middleware and all routes.
func (s *Server) Handler(cfg config.ServerConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(s.requestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/healthz", s.health)
	r.Route("/api", func(r chi.Router) {
		r.Post("/chat", s.chat)
		r.Get("/sessions", s.listSessions)
		r.Delete("/sessions/{threadID}", s.deleteSession)
	})

	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Msg("request")
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "remitflow-agent",
	})
}

type chatRequest struct {
	ThreadID string `json:"thread_id"`
	Message  string `json:"message"`
}

// chat runs one conversation turn. A missing thread_id starts a new session;
// the Authorization header, when present, is forwarded to the tools as the
// caller's gateway token.
func (s *Server) chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.ThreadID == "" {
		req.ThreadID = uuid.New().String()
	}

	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")

	result, err := s.graph.Run(r.Context(), req.ThreadID, req.Message, token)
	if err != nil {
		s.logger.Error().Err(err).Str("thread", req.ThreadID).Msg("chat turn failed")
		respondError(w, http.StatusInternalServerError, "conversation failed")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

func (s *Server) listSessions(w http.ResponseWriter, r *http.Request) {
	threads, err := s.store.Threads(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if threads == nil {
		threads = []checkpoint.ThreadInfo{}
	}
	respondJSON(w, http.StatusOK, threads)
}

func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	threadID := chi.URLParam(r, "threadID")
	if err := s.store.Delete(r.Context(), threadID); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"deleted": threadID})
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
