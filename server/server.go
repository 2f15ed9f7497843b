// Package server exposes MysticCastle sessions over HTTP and serves the
// browser front end.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/nathoo/mysticcastle/engine"
	"github.com/nathoo/mysticcastle/engine/events"
	"github.com/nathoo/mysticcastle/engine/state"
	"github.com/nathoo/mysticcastle/logger"
	"github.com/nathoo/mysticcastle/types"
)

const (
	appName      = "mysticcastle"
	maxInputSize = 4 << 10
	sessionTTL   = 2 * time.Hour
)

type HealthResponse struct {
	Status    string    `json:"status"`
	App       string    `json:"app"`
	Timestamp time.Time `json:"timestamp"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// SessionResponse is returned when a session is created or inspected.
type SessionResponse struct {
	ID     string      `json:"id"`
	Room   string      `json:"room"`
	Output []string    `json:"output,omitempty"`
	Stats  types.Stats `json:"stats"`
}

type CommandRequest struct {
	Input string `json:"input"`
}

type CommandResponse struct {
	Output []string    `json:"output"`
	Room   string      `json:"room"`
	Stats  types.Stats `json:"stats"`
}

// Server routes API requests to per-session engines.
type Server struct {
	defs   *state.Defs
	store  *Store
	static fs.FS
	log    *slog.Logger
	now    func() time.Time
}

// New creates a server for the given world. static holds the browser
// front end; a nil static disables it.
func New(defs *state.Defs, static fs.FS, log *slog.Logger) *Server {
	return &Server{
		defs:   defs,
		store:  NewStore(sessionTTL),
		static: static,
		log:    log,
		now:    time.Now,
	}
}

// Handler returns the full HTTP handler, including request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("POST /api/sessions", s.handleCreate)
	mux.HandleFunc("GET /api/sessions/{id}", s.handleGet)
	mux.HandleFunc("DELETE /api/sessions/{id}", s.handleDelete)
	mux.HandleFunc("POST /api/sessions/{id}/commands", s.handleCommand)
	mux.HandleFunc("/api/", func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, http.StatusNotFound, "Not found")
	})
	if s.static != nil {
		mux.Handle("/", spaHandler(s.static))
	}
	return requestLogger(s.log, mux)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("Server starting", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	go s.pruneLoop(ctx)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen on %s: %w", addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Info("Server is shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.log.Info("Server exited")
	return nil
}

func (s *Server) pruneLoop(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.store.Prune(s.now()); n > 0 {
				s.log.Info("Pruned idle sessions", "count", n, "remaining", s.store.Len())
			}
		}
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		App:       appName,
		Timestamp: s.now().UTC(),
	})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	eng := engine.NewWithClock(s.defs, s.now)
	sess := s.store.Create(eng, s.now())

	// The id is live once stored; commands may arrive before the opening look.
	sess.mu.Lock()
	defer sess.mu.Unlock()

	log := logger.WithSession(s.log, sess.id)
	eng.Subscribe("", func(e types.Event) {
		log.Debug("Game event", "type", e.Type, "data", e.Data)
	})
	eng.Subscribe(events.GameWon, func(e types.Event) {
		log.Info("Game won", "moves", e.Data["moves"])
	})

	var output []string
	if intro := s.defs.Game.Intro; intro != "" {
		output = append(output, intro, "")
	}
	output = append(output, eng.Step("look").Output...)

	log.Info("Session created", "sessions", s.store.Len())
	s.writeJSON(w, http.StatusCreated, SessionResponse{
		ID:     sess.id,
		Room:   s.roomName(eng.State.CurrentRoom),
		Output: output,
		Stats:  eng.Stats(),
	})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}

	sess.mu.Lock()
	resp := SessionResponse{
		ID:    sess.id,
		Room:  s.roomName(sess.engine.State.CurrentRoom),
		Stats: sess.engine.Stats(),
	}
	sess.mu.Unlock()

	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !s.validID(w, id) {
		return
	}
	if !s.store.Delete(id) {
		s.writeError(w, http.StatusNotFound, "Session not found")
		return
	}
	logger.WithSession(s.log, id).Info("Session deleted")
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}

	var req CommandRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxInputSize)).Decode(&req); err != nil {
		logger.WithError(s.log, err).Warn("Invalid command body", "session_id", sess.id)
		s.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	sess.mu.Lock()
	result := sess.engine.Step(req.Input)
	resp := CommandResponse{
		Output: result.Output,
		Room:   s.roomName(sess.engine.State.CurrentRoom),
		Stats:  sess.engine.Stats(),
	}
	sess.mu.Unlock()

	if resp.Output == nil {
		resp.Output = []string{}
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// lookup resolves the {id} path value to a live session, writing an error
// response when it cannot.
func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*session, bool) {
	id := r.PathValue("id")
	if !s.validID(w, id) {
		return nil, false
	}
	sess, ok := s.store.Get(id, s.now())
	if !ok {
		s.writeError(w, http.StatusNotFound, "Session not found")
		return nil, false
	}
	return sess, true
}

func (s *Server) validID(w http.ResponseWriter, id string) bool {
	if _, err := uuid.Parse(id); err != nil {
		s.log.Warn("Invalid session ID", "id", id, "error", err)
		s.writeError(w, http.StatusBadRequest, "Invalid session ID format")
		return false
	}
	return true
}

func (s *Server) roomName(id string) string {
	if room, ok := s.defs.Room(id); ok {
		return room.Name
	}
	return id
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("Failed to encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, ErrorResponse{Error: msg})
}
