package server

import (
	"net/http"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/nulzo/hub-proxy/internal/config"
	"github.com/nulzo/hub-proxy/internal/server/handlers"
	"github.com/nulzo/hub-proxy/internal/server/middleware"
	"github.com/nulzo/hub-proxy/internal/server/validator"
	"go.uber.org/zap"
)

type Server struct {
	router *gin.Engine
	config *config.Config
	logger *zap.Logger
	client handlers.CatalogClient
}

func New(cfg *config.Config, logger *zap.Logger, client handlers.CatalogClient) *Server {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	validator.Init()

	engine := gin.New()
	engine.Use(ginzap.RecoveryWithZap(logger, true))
	engine.Use(middleware.RequestID())
	engine.Use(middleware.Logger(logger))

	s := &Server{
		router: engine,
		config: cfg,
		logger: logger,
		client: client,
	}

	s.SetupRoutes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}
