package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/pageza/foodwise/backend/config"
	"github.com/pageza/foodwise/backend/internal/api"
	"github.com/pageza/foodwise/backend/internal/database"
	"github.com/pageza/foodwise/backend/internal/middleware"
	"github.com/pageza/foodwise/backend/internal/router"
	"github.com/pageza/foodwise/backend/internal/service"
)

// Dependencies are the long-lived clients built once at startup and shared
// read-only by every request
type Dependencies struct {
	DB          *gorm.DB
	Redis       *redis.Client
	Profiles    service.IProfileStore
	Recipes     service.IRecipeService
	Recommender service.IRecommender
	Analyzer    service.IFoodAnalyzer
}

// Server represents the HTTP server
type Server struct {
	router *gin.Engine
	http   *http.Server
	cfg    *config.Config
}

// New creates a new server instance
func New(cfg *config.Config, deps Dependencies) *Server {
	timeout := cfg.Server.UpstreamTimeout

	var dbCheck api.HealthChecker
	if deps.DB != nil {
		db := deps.DB
		dbCheck = func(ctx context.Context) error { return database.HealthCheck(ctx, db) }
	}

	var limiter *middleware.RateLimiter
	if cfg.RateLimit.Enabled && deps.Redis != nil {
		limiter = middleware.NewRateLimiter(deps.Redis, middleware.RateLimitConfig{
			Window: cfg.RateLimit.Window,
			Limit:  cfg.RateLimit.Limit,
		})
	}

	engine := router.SetupRouter(router.Handlers{
		Health:         api.NewHealthHandler(deps.Profiles.Len, dbCheck),
		Recipes:        api.NewRecipeHandler(deps.Recipes, timeout),
		Recommendation: api.NewRecommendationHandler(deps.Profiles, deps.Recommender, timeout),
		Analyzer:       api.NewFoodAnalyzerHandler(deps.Profiles, deps.Analyzer, timeout),
	}, router.Options{
		CORSOrigins: cfg.Server.CORSOrigins,
		RateLimiter: limiter,
	})
	engine.MaxMultipartMemory = api.MaxUploadBytes

	return &Server{
		router: engine,
		cfg:    cfg,
		http: &http.Server{
			Addr:              cfg.Server.Addr(),
			Handler:           engine,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until ctx is cancelled, then shuts down gracefully within the
// configured shutdown timeout
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		logrus.WithField("addr", s.http.Addr).Info("server listening")
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logrus.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
	defer cancel()
	return s.Stop(shutdownCtx)
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	if err := s.http.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}
