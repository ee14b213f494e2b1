// Package web is the thin JSON adapter standing in for the original DOM UI:
// it owns one engine per browser session and translates engine events into
// JSON responses.
package web

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/avalight/herobook/internal/config"
	"github.com/avalight/herobook/internal/content"
	"github.com/avalight/herobook/internal/game/engine"
)

const cookieName = "herobook_sid"

// BookInfo carries the loaded book presentation data shared by every
// session: the title and the display label tables from the content files.
type BookInfo struct {
	Title      string
	StatLabels []content.StatLabel
	MenuLabels map[string]string
}

// EngineFactory builds a ready engine for a new session: storage wired,
// catalog installed, snapshot restored. The save id doubles as the session
// id.
type EngineFactory func(ctx context.Context, saveID string) *engine.Engine

// sessionEntry serializes access to one session's engine. The engine is a
// single-writer state machine, so each dispatch holds the session lock for
// its full synchronous run.
type sessionEntry struct {
	mu  sync.Mutex
	eng *engine.Engine
}

// Server is the HTTP front of the gamebook engine.
type Server struct {
	logger  *zap.Logger
	cfg     config.ServerConfig
	factory EngineFactory
	book    bookJSON

	mu       sync.Mutex
	sessions map[string]*sessionEntry

	httpServer *http.Server
}

// NewServer creates a Server. The factory is invoked once per new session
// cookie; book is the shared presentation data surfaced on /api/state.
//
// Precondition: logger and factory must be non-nil.
func NewServer(cfg config.ServerConfig, factory EngineFactory, book BookInfo, logger *zap.Logger) *Server {
	return &Server{
		logger:   logger,
		cfg:      cfg,
		factory:  factory,
		book:     encodeBook(book),
		sessions: make(map[string]*sessionEntry),
	}
}

// Routes builds the HTTP handler with all API endpoints registered.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /api/state", s.isolated(s.handleState))
	mux.HandleFunc("POST /api/action", s.isolated(s.handleAction))
	mux.HandleFunc("POST /api/battle/turn", s.isolated(s.handleBattleTurn))
	mux.HandleFunc("POST /api/battle/target", s.isolated(s.handleBattleTarget))
	mux.HandleFunc("POST /api/battle/finish", s.isolated(s.handleBattleFinish))
	return mux
}

// Start begins serving and blocks until Stop or a listener error. Implements
// the lifecycle Service interface.
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         s.cfg.Addr(),
		Handler:      s.Routes(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}
	s.logger.Info("http server listening", zap.String("addr", s.cfg.Addr()))
	err := s.httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Stop shuts the server down gracefully within the configured timeout.
func (s *Server) Stop() {
	if s.httpServer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Warn("http shutdown incomplete", zap.Error(err))
	}
}

// isolated wraps a handler so one failing dispatch cannot corrupt subsequent
// input handling: programming defects are caught, logged, and answered with
// a 500 instead of tearing the process down.
func (s *Server) isolated(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error("dispatch panicked",
					zap.String("path", r.URL.Path),
					zap.Any("panic", rec),
				)
				http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
			}
		}()
		h(w, r)
	}
}

// session returns the engine for the request's cookie, creating a new
// session (and setting the cookie) when none exists.
func (s *Server) session(w http.ResponseWriter, r *http.Request) *sessionEntry {
	id := ""
	if c, err := r.Cookie(cookieName); err == nil {
		if _, err := uuid.Parse(c.Value); err == nil {
			id = c.Value
		}
	}
	if id == "" {
		id = uuid.New().String()
		http.SetCookie(w, &http.Cookie{
			Name:     cookieName,
			Value:    id,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.sessions[id]
	if !ok {
		entry = &sessionEntry{eng: s.factory(r.Context(), id)}
		s.sessions[id] = entry
		s.logger.Info("session created", zap.String("session_id", id))
	}
	return entry
}
