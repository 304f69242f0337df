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
	"github.com/rs/zerolog"

	"leadscout/internal/config"
	"leadscout/internal/domain/chat"
	"leadscout/internal/server/handlers"
)

// Server represents the HTTP server
type Server struct {
	server *http.Server
	router *chi.Mux
}

// NewServer creates a new HTTP server
func NewServer(
	cfg config.ServerConfig,
	eventsTopic string,
	runner handlers.AnalysisRunner,
	trendReader handlers.TrendReader,
	memberScorer handlers.MemberScorer,
	chatSource chat.MessageSource,
	mentionSource chat.MessageSource,
	natsConn *nats.Conn,
	logger zerolog.Logger,
) *Server {
	router := chi.NewRouter()

	// Middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	// CORS configuration
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CorsOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Create handler dependencies
	analysisHandler := handlers.NewAnalysisHandler(runner, chatSource, mentionSource, logger)
	trendHandler := handlers.NewTrendHandler(trendReader)
	memberHandler := handlers.NewMemberHandler(memberScorer)

	// Routes
	router.Route("/api", func(r chi.Router) {
		// Health check
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("OK"))
		})

		r.Route("/v1", func(r chi.Router) {
			r.Route("/tenants/{tenantID}", func(r chi.Router) {
				r.Post("/analysis", analysisHandler.Run)
				r.Get("/trends", trendHandler.GetTrends)
				r.Get("/members", memberHandler.ScoreMembers)
			})
		})
	})

	// WebSocket endpoint for the live trend feed
	if natsConn != nil {
		router.Get("/ws/tenants/{tenantID}/trends", handlers.TrendFeedHandler(natsConn, eventsTopic, logger))
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

// ListenAndServe starts the HTTP server
func (s *Server) ListenAndServe() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
