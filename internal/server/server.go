// Package server is a small chat backend speaking the widget's wire
// protocol, for running the widget locally.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/gennadis/chatwidget/internal/chat"
	"github.com/gennadis/chatwidget/storage"
)

const welcomeMessage = "Welcome to the AI-Powered Mental Health Chatbot!"

type SessionWriter interface {
	Write(session storage.Session) error
}

type ChatLogWriter interface {
	Write(entry storage.ChatLog) error
}

type Server struct {
	responder Responder
	docs      DocSearcher
	sessions  SessionWriter
	logs      ChatLogWriter
}

func New(responder Responder, docs DocSearcher, sessions SessionWriter, logs ChatLogWriter) *Server {
	if docs == nil {
		docs = UnavailableDocs{}
	}
	return &Server{
		responder: responder,
		docs:      docs,
		sessions:  sessions,
		logs:      logs,
	}
}

// chatRequest mirrors chat.ChatRequest but tells a missing field from an empty one.
type chatRequest struct {
	SessionID *string `json:"session_id"`
	Query     *string `json:"query"`
}

func decodeChatRequest(w http.ResponseWriter, r *http.Request) (chat.ChatRequest, bool) {
	var payload chatRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return chat.ChatRequest{}, false
	}
	if payload.SessionID == nil || payload.Query == nil {
		respondError(w, http.StatusUnprocessableEntity, "session_id and query are required")
		return chat.ChatRequest{}, false
	}
	return chat.ChatRequest{SessionID: *payload.SessionID, Query: *payload.Query}, true
}

// Router wires HTTP routes to the server.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:       []string{"*"},
		AllowedMethods:       []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:       []string{"*"},
		OptionsSuccessStatus: http.StatusNoContent,
	}))

	r.Get("/", s.handleRoot)
	r.Post("/chat", s.handleChat)
	r.Post("/doc-chat", s.handleDocChat)

	return r
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"message": welcomeMessage})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeChatRequest(w, r)
	if !ok {
		return
	}

	if err := s.sessions.Write(storage.Session{ID: req.SessionID}); err != nil {
		slog.Error("Failed to record session", "session_id", req.SessionID, "error", err)
	}

	if ContainsCrisisKeywords(req.Query) {
		s.log(req, SafetyMessage, true)
		respondJSON(w, http.StatusOK, map[string]string{"response": SafetyMessage})
		return
	}

	reply, err := s.responder.Respond(r.Context(), req.SessionID, req.Query)
	if err != nil {
		slog.Error("Failed to generate reply", "session_id", req.SessionID, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to generate reply")
		return
	}

	s.log(req, reply, false)
	respondJSON(w, http.StatusOK, map[string]string{"response": reply})
}

// handleDocChat answers from the document index only: no crisis check, no chat log.
func (s *Server) handleDocChat(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeChatRequest(w, r)
	if !ok {
		return
	}

	reply, err := s.docs.Search(r.Context(), req.Query)
	if err != nil {
		slog.Error("Failed to search documents", "session_id", req.SessionID, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to search documents")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"response": reply})
}

func (s *Server) log(req chat.ChatRequest, response string, crisis bool) {
	err := s.logs.Write(storage.ChatLog{
		SessionID: req.SessionID,
		Query:     req.Query,
		Response:  response,
		IsCrisis:  crisis,
	})
	if err != nil {
		slog.Error("Failed to log chat", "session_id", req.SessionID, "error", err)
	}
}

// shutdownTimeout bounds how long in-flight requests may run after ctx is done.
var shutdownTimeout = 10 * time.Second

// Run serves handler on addr until ctx is done, then shuts down gracefully.
func Run(ctx context.Context, addr string, handler http.Handler) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return Serve(ctx, ln, handler)
}

// Serve is Run on an existing listener.
func Serve(ctx context.Context, ln net.Listener, handler http.Handler) error {
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	slog.Info("chat backend listening", "addr", ln.Addr().String())

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Failed to shut down server", "error", err)
		}
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
