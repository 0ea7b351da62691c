package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ziadkadry99/sidenav/internal/script"
	"github.com/ziadkadry99/sidenav/internal/variant"
)

// Config holds server configuration.
type Config struct {
	Port        int
	AllowAll    bool           // allow all CORS origins (dev mode)
	Script      script.Options // parameters of the served browser scripts
	SessionIdle time.Duration  // drop session views unused for this long; zero keeps them
}

// Server is the headless sidebar navigator service.
type Server struct {
	cfg        Config
	registry   *variant.Registry
	sessions   *sessions
	logger     *log.Logger
	router     chi.Router
	httpServer *http.Server
	stop       chan struct{}
	stopOnce   sync.Once
}

// New creates a server over the given variants.
func New(cfg Config, registry *variant.Registry, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		cfg:      cfg,
		registry: registry,
		sessions: newSessions(),
		logger:   logger,
		stop:     make(chan struct{}),
	}

	s.router = s.buildRouter()
	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS
	corsOpts := cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", SessionHeader},
		ExposedHeaders:   []string{SessionHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	// Health check
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))
		s.registerRoutes(r)
	})

	// Long-lived connections stay outside the request timeout.
	r.Get("/ws/sidebar/{variant}", s.handleWebSocket)

	return r
}

// Router returns the chi router for registering additional routes.
func (s *Server) Router() chi.Router { return s.router }

// Start begins listening on the configured port. After Shutdown it returns
// http.ErrServerClosed.
func (s *Server) Start() error {
	if s.cfg.SessionIdle > 0 {
		go s.pruneSessions(s.cfg.SessionIdle, s.stop)
	}

	s.logger.Info("sidenav server listening", "addr", s.httpServer.Addr, "variants", s.registry.Names())
	return s.httpServer.ListenAndServe()
}

func (s *Server) pruneSessions(idle time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(idle / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if n := s.sessions.prune(idle); n > 0 {
				s.logger.Debug("pruned idle sessions", "count", n)
			}
		case <-stop:
			return
		}
	}
}

// Shutdown gracefully shuts down the server. It is safe to call before or during
// Start, and more than once.
func (s *Server) Shutdown(ctx context.Context) error {
	s.stopOnce.Do(func() { close(s.stop) })
	return s.httpServer.Shutdown(ctx)
}
