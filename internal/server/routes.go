package server

import (
	"github.com/nulzo/hub-proxy/internal/server/handlers"
	"github.com/nulzo/hub-proxy/internal/server/middleware"
)

func (s *Server) SetupRoutes() {
	s.router.Use(middleware.CORS())
	s.router.Use(middleware.ErrorHandler(s.logger))

	if s.config.Tracing.Enabled {
		s.router.Use(middleware.Tracing("hub-proxy"))
	}

	// Liveness must stay independent of upstream reachability, and is exempt
	// from rate limiting so tight probe intervals never trip it.
	healthHandler := handlers.NewHealthHandler()
	s.router.GET("/", healthHandler.Health)
	s.router.GET("/health", healthHandler.Health)
	s.router.GET("/healthz", healthHandler.Health)

	outputsHandler := handlers.NewOutputsHandler(s.client)
	group := s.router.Group("/outputs")
	if s.config.RateLimit.RequestsPerSecond > 0 {
		limiter := middleware.NewRateLimiter(
			s.config.RateLimit.RequestsPerSecond,
			s.config.RateLimit.Burst,
			s.logger,
		)
		group.Use(limiter.Middleware())
	}
	group.GET("", outputsHandler.List)
	// Wildcard, not :param — repository ids contain a namespace slash.
	group.GET("/*repo_id", outputsHandler.Detail)
}
