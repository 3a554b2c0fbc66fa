// Package api provides the HTTP API server and handlers for the Recite application.
package api

import (
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/reciteapp/recite-server/internal/sse"
	"github.com/reciteapp/recite-server/internal/store"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	store      *store.Store
	services   *Services
	sseHandler *sse.Handler
	sseManager *sse.Manager
	audio      AudioLocator
	router     *chi.Mux
	api        huma.API
	logger     *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(st *store.Store, services *Services, sseHandler *sse.Handler, sseManager *sse.Manager, audio AudioLocator, logger *slog.Logger) *Server {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(cors.Handler(cors.Options{
		// Local single-user app; the UI may be served from any dev origin.
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "Last-Event-ID"},
		MaxAge:         300,
	}))

	humaConfig := huma.DefaultConfig("Recite API", "1.0.0")
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)

	humaAPI := humachi.New(router, humaConfig)
	RegisterErrorHandler()

	s := &Server{
		store:      st,
		services:   services,
		sseHandler: sseHandler,
		sseManager: sseManager,
		audio:      audio,
		router:     router,
		api:        humaAPI,
		logger:     logger,
	}

	s.registerHealthRoutes()
	s.registerLibraryRoutes()
	s.registerReadingRoutes()
	s.registerSettingsRoutes()
	s.registerPlaybackRoutes()
	s.registerPrayerRoutes()

	// The event stream is a long-lived connection and the audio redirect
	// is not JSON; both mount straight on the router.
	router.Get("/api/v1/events/stream", s.sseHandler.ServeHTTP)
	router.Get("/api/v1/audio/{verseID}", s.handleVerseAudio)

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
