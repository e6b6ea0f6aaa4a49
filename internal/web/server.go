package web

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	spotifyauth "github.com/zmb3/spotify/v2/auth"

	"github.com/ratifyhq/ratify/internal/db"
	"github.com/ratifyhq/ratify/internal/feed"
	"github.com/ratifyhq/ratify/internal/review"
)

const (
	// DefaultAddr is the default server address.
	DefaultAddr = "127.0.0.1:8080"

	// DefaultRedirectURI must match the Spotify app configuration.
	DefaultRedirectURI = "http://127.0.0.1:8080/callback"
)

// ServerConfig holds server configuration.
type ServerConfig struct {
	Addr         string
	ClientID     string
	ClientSecret string
	RedirectURI  string
	Database     *db.DB
	Sessions     SessionManager
	Logger       *slog.Logger
}

// Server is the HTTP server for the JSON API.
type Server struct {
	router   chi.Router
	server   *http.Server
	sessions SessionManager
	sweeper  SessionSweeper
	handlers *Handlers
	logger   *slog.Logger
}

// NewServer wires the repositories, services, and handlers and returns a
// server ready to run.
func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Database == nil {
		return nil, fmt.Errorf("database is required")
	}
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.RedirectURI == "" {
		cfg.RedirectURI = DefaultRedirectURI
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	auth := spotifyauth.New(
		spotifyauth.WithClientID(cfg.ClientID),
		spotifyauth.WithClientSecret(cfg.ClientSecret),
		spotifyauth.WithRedirectURL(cfg.RedirectURI),
		spotifyauth.WithScopes(
			spotifyauth.ScopeUserReadPrivate,
			spotifyauth.ScopeUserReadEmail,
			spotifyauth.ScopeUserReadRecentlyPlayed,
		),
	)

	sessions := cfg.Sessions
	if sessions == nil {
		sessions = NewDBSessionStore(cfg.Database, auth)
	}

	database := cfg.Database
	songRatings := database.SongRatings()
	albumRatings := database.AlbumRatings()

	handlers := NewHandlers(HandlersConfig{
		Auth:         auth,
		Sessions:     sessions,
		Users:        database.Users(),
		Songs:        database.Songs(),
		Albums:       database.Albums(),
		SongRatings:  songRatings,
		AlbumRatings: albumRatings,
		SongReviews:  review.New(songRatings),
		AlbumReviews: review.New(albumRatings),
		SongLikes:    database.SongLikes(),
		AlbumLikes:   database.AlbumLikes(),
		Feed:         feed.New(database.Users(), database.Activity(), logger),
		Activity:     database.Activity(),
		Catalogue:    SpotifyCatalogue(auth),
		Logger:       logger,
	})

	router := chi.NewRouter()

	s := &Server{
		router:   router,
		sessions: sessions,
		sweeper:  database.Sessions(),
		handlers: handlers,
		logger:   logger,
	}

	s.setupMiddleware()
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// setupMiddleware configures middleware for the router.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
}

// setupRoutes configures routes for the application.
func (s *Server) setupRoutes() {
	h := s.handlers

	// Auth routes
	s.router.Get("/auth/login", h.Login)
	s.router.Get("/callback", h.Callback)
	s.router.Post("/auth/logout", h.Logout)

	// API routes require a session
	s.router.Route("/api", func(r chi.Router) {
		r.Use(RequireAuth(s.sessions))

		r.Get("/me", h.Me)

		r.Route("/songs/{id}", func(r chi.Router) {
			r.Get("/", h.SongDetail)
			r.Post("/like", h.like(h.songLikes, h.ensureSong))
			r.Delete("/like", h.unlike(h.songLikes))
			r.Get("/like", h.checkLike(h.songLikes))
			r.Post("/reviews", h.submitReview(h.songReviews))
			r.Put("/reviews", h.updateReview(h.songRatings))
			r.Get("/reviews", h.listItemReviews(h.songRatings))
			r.Get("/reviews/me", h.myReview(h.songRatings))
			r.Get("/reviews/form", h.reviewForm(h.songReviews))
		})

		r.Route("/albums/{id}", func(r chi.Router) {
			r.Get("/", h.AlbumDetail)
			r.Post("/like", h.like(h.albumLikes, h.ensureAlbum))
			r.Delete("/like", h.unlike(h.albumLikes))
			r.Get("/like", h.checkLike(h.albumLikes))
			r.Post("/reviews", h.submitReview(h.albumReviews))
			r.Put("/reviews", h.updateReview(h.albumRatings))
			r.Get("/reviews", h.listItemReviews(h.albumRatings))
			r.Get("/reviews/me", h.myReview(h.albumRatings))
			r.Get("/reviews/form", h.reviewForm(h.albumReviews))
		})

		r.Get("/likes/songs", h.ListLikedSongs)
		r.Get("/likes/albums", h.ListLikedAlbums)

		r.Post("/friends", h.AddFriend)
		r.Delete("/friends/{id}", h.RemoveFriend)
		r.Get("/friends", h.ListFriends)

		r.Get("/feed", h.Feed)
		r.Get("/users/search", h.SearchUsers)
		r.Get("/users/{id}/activity", h.UserActivity)

		r.Get("/catalog/search", h.SearchCatalogue)
		r.Get("/catalog/tracks/{id}", h.CatalogueTrack)
		r.Get("/catalog/albums/{id}", h.CatalogueAlbum)
		r.Get("/catalog/recent", h.RecentlyPlayed)
	})
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.logger.Info("starting server", slog.String("addr", s.server.Addr))
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Run starts the server and handles graceful shutdown on interrupt signals.
// Expired session rows are swept in the background while the server runs.
func (s *Server) Run() error {
	sweepCtx, cancelSweep := context.WithCancel(context.Background())
	defer cancelSweep()
	go sweepSessions(sweepCtx, s.sweeper, sessionSweepInterval, s.logger)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		if err := s.Start(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-stop:
		s.logger.Info("shutting down server")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	s.logger.Info("server stopped")
	return nil
}
