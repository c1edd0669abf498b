// internal/server/server.go

package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/nats-io/nats.go"

	"github.com/feileberlin/krwl-hof/internal/config"
	"github.com/feileberlin/krwl-hof/internal/server/handlers"
)

// Server represents the HTTP server
type Server struct {
	server *http.Server
	router *chi.Mux
}

// NewServer creates a new HTTP server. natsConn may be nil, in which
// case the WebSocket relay endpoint is not mounted.
func NewServer(
	cfg config.ServerConfig,
	natsConn *nats.Conn,
	natsSubject string,
	eventHandler *handlers.EventHandler,
	bookmarkHandler *handlers.BookmarkHandler,
) *Server {
	router := chi.NewRouter()

	// Middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	// CORS configuration
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CorsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Routes
	router.Route("/api", func(r chi.Router) {
		// Health check
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("OK"))
		})

		// API version
		r.Route("/v1", func(r chi.Router) {
			// Events API
			r.Route("/events", func(r chi.Router) {
				r.Get("/", eventHandler.ListEvents)
				r.Post("/", eventHandler.CreateEvent)
				r.Get("/counts", eventHandler.CountByCategory)
				r.Get("/groups", eventHandler.ListGroups)
				r.Post("/import/ics", eventHandler.ImportICS)
				r.Get("/{id}", eventHandler.GetEvent)
			})

			// Bookmarks API
			r.Route("/bookmarks", func(r chi.Router) {
				r.Get("/", bookmarkHandler.ListBookmarks)
				r.Get("/{id}", bookmarkHandler.GetBookmark)
				r.Put("/{id}", bookmarkHandler.PutBookmark)
				r.Delete("/{id}", bookmarkHandler.DeleteBookmark)
			})
		})
	})

	// WebSocket endpoint for event-change notifications
	if natsConn != nil {
		router.Get("/ws/events", handlers.EventsWebSocketHandler(natsConn, natsSubject))
	}

	// Create HTTP server
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return &Server{
		server: httpServer,
		router: router,
	}
}

// Router returns the underlying handler, used by tests
func (s *Server) Router() http.Handler {
	return s.router
}

// ListenAndServe starts the HTTP server
func (s *Server) ListenAndServe() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
