package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"engagement-tracker/internal/config"
	"engagement-tracker/internal/handler"
	"engagement-tracker/internal/middleware"
	"engagement-tracker/internal/repository"
	"engagement-tracker/internal/tracking"
)

type Server struct {
	router       *gin.Engine
	cfg          *config.Config
	sessions     *tracking.Manager
	restrictions repository.RestrictionRepository
	tokens       middleware.TokenParser
	logger       *zap.Logger
}

// NewServer builds the operator API. restrictions may be nil when the audit log is disabled.
func NewServer(cfg *config.Config, sessions *tracking.Manager, restrictions repository.RestrictionRepository, tokens middleware.TokenParser, logger *zap.Logger) *Server {
	router := gin.New()
	router.Use(gin.Recovery())

	s := &Server{
		router:       router,
		cfg:          cfg,
		sessions:     sessions,
		restrictions: restrictions,
		tokens:       tokens,
		logger:       logger,
	}

	s.setupRoutes()

	return s
}

// Handler exposes the router for tests and custom listeners.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupRoutes() {
	sessionHandler := handler.NewSessionHandler(s.sessions, s.logger)
	restrictionHandler := handler.NewRestrictionHandler(s.restrictions, s.logger)
	settingsHandler := handler.NewSettingsHandler(s.cfg, s.logger)

	// Ping route for health check
	s.router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	authRequired := s.router.Group("/api")
	authRequired.Use(middleware.AuthMiddleware(s.tokens, s.logger))
	{
		authRequired.GET("/sessions", sessionHandler.ListSessions)
		authRequired.GET("/sessions/:chat_id", sessionHandler.GetSession)
		authRequired.GET("/restrictions", restrictionHandler.ListRestrictions)
		authRequired.GET("/settings", settingsHandler.GetSettings)
	}
}

// Run serves on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Server starting", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("Server shutting down...")
		return srv.Shutdown(shutdownCtx)
	}
}
