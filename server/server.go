// Package server implements the local REST surface: the TMDB proxy, the
// watchlist endpoints and session authentication.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/s0up4200/cinestream/movies"
	"github.com/s0up4200/cinestream/session"
	"github.com/s0up4200/cinestream/store"
)

// Upstream forwards TMDB requests.
type Upstream interface {
	Get(ctx context.Context, endpoint string, params url.Values) ([]byte, error)
}

// UserStore persists accounts.
type UserStore interface {
	CreateUser(ctx context.Context, username, passwordHash string) (*store.User, error)
	GetUserByUsername(ctx context.Context, username string) (*store.User, error)
	GetUserByID(ctx context.Context, id int64) (*store.User, error)
}

// WatchlistStore persists watchlist rows.
type WatchlistStore interface {
	ListWatchlist(ctx context.Context, userID int64) ([]movies.WatchlistEntry, error)
	GetWatchlistEntry(ctx context.Context, userID, movieID int64) (*movies.WatchlistEntry, error)
	AddToWatchlist(ctx context.Context, userID, movieID int64) (*movies.WatchlistEntry, error)
	RemoveFromWatchlist(ctx context.Context, userID, movieID int64) error
}

// Pinger reports backend health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the collaborators of the server.
type Deps struct {
	TMDB      Upstream
	Users     UserStore
	Watchlist WatchlistStore
	Sessions  *session.Manager
	Health    Pinger
}

// Config holds HTTP server settings.
type Config struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// Server serves the REST surface.
type Server struct {
	cfg       Config
	tmdb      Upstream
	users     UserStore
	watchlist WatchlistStore
	sessions  *session.Manager
	health    Pinger
	logger    zerolog.Logger
}

// New creates a server.
func New(cfg Config, deps Deps, logger zerolog.Logger) (*Server, error) {
	if deps.TMDB == nil {
		return nil, fmt.Errorf("TMDB upstream is required")
	}
	if deps.Users == nil || deps.Watchlist == nil {
		return nil, fmt.Errorf("user and watchlist stores are required")
	}
	if deps.Sessions == nil {
		return nil, fmt.Errorf("session manager is required")
	}

	return &Server{
		cfg:       cfg,
		tmdb:      deps.TMDB,
		users:     deps.Users,
		watchlist: deps.Watchlist,
		sessions:  deps.Sessions,
		health:    deps.Health,
		logger:    logger.With().Str("component", "server").Logger(),
	}, nil
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, s.accessLog, instrument, middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Get("/api/tmdb", s.handleTMDB)
	r.Get("/api/tmdb/*", s.handleTMDB)

	r.Post("/api/register", s.handleRegister)
	r.Post("/api/login", s.handleLogin)
	r.Post("/api/logout", s.handleLogout)
	r.Post("/logout", s.handleLogout)
	r.With(s.identify).Get("/api/user", s.handleUser)

	r.Route("/api/watchlist", func(r chi.Router) {
		r.Use(s.identify)
		r.Get("/", s.handleListWatchlist)
		r.Post("/", s.handleAddToWatchlistBody)
		r.Get("/{movieId}", s.handleGetWatchlistEntry)
		r.Post("/{movieId}", s.handleAddToWatchlist)
		r.Delete("/{movieId}", s.handleRemoveFromWatchlist)
	})

	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.cfg.Addr).Msg("Server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	s.logger.Info().Msg("Shutting down server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.health != nil {
		if err := s.health.Ping(r.Context()); err != nil {
			s.logger.Warn().Err(err).Msg("Health check failed")
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
