package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/audioryx/backend/internal/auth"
	"github.com/audioryx/backend/internal/config"
	"github.com/audioryx/backend/internal/http/handlers"
	"github.com/audioryx/backend/internal/middleware"
	"github.com/audioryx/backend/internal/storage"
	"github.com/audioryx/backend/internal/uploads"
)

// Server wraps an http.Server with configured routes.
type Server struct {
	inner *http.Server
}

// New wires up middleware, routes, and returns a ready server.
func New(cfg config.Config, store storage.Store, blobs uploads.BlobStore, log *zap.Logger) *Server {
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer)

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           Router(cfg, store, blobs, tokens, log),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return &Server{inner: httpServer}
}

// Router assembles the middleware chain and all routes. Split out from New so
// tests can drive the full stack through httptest without binding a listener.
func Router(cfg config.Config, store storage.Store, blobs uploads.BlobStore, tokens *auth.TokenManager, log *zap.Logger) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestLogger(log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	intake := uploads.NewIntake(store, blobs)

	health := handlers.NewHealthHandler(time.Now())
	authHandler := handlers.NewAuthHandler(store, tokens, &cfg, log)
	tracksHandler := handlers.NewTracksHandler(store, intake, blobs, log)
	playlistsHandler := handlers.NewPlaylistsHandler(store, log)
	settingsHandler := handlers.NewSettingsHandler(store, log)

	health.Routes(r)
	authHandler.Routes(r)

	// Every owned-resource route sits behind the guard.
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(tokens))
		tracksHandler.Routes(r)
		playlistsHandler.Routes(r)
		settingsHandler.Routes(r)
	})

	return r
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
