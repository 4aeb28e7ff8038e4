package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/pageza/foodwise/backend/config"
	"github.com/pageza/foodwise/backend/internal/database"
	"github.com/pageza/foodwise/backend/internal/observability"
	"github.com/pageza/foodwise/backend/internal/server"
	"github.com/pageza/foodwise/backend/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}
	if err := observability.ConfigureLogging(cfg.Logging, os.Stdout); err != nil {
		logrus.Fatalf("Failed to configure logging: %v", err)
	}
	gin.SetMode(config.GetEnvironment().GinMode())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps, cleanup, err := buildDependencies(ctx, cfg)
	if err != nil {
		logrus.Fatalf("Failed to initialize dependencies: %v", err)
	}
	defer cleanup()

	srv := server.New(cfg, deps)
	if err := srv.Start(ctx); err != nil {
		logrus.Fatalf("Server error: %v", err)
	}
	logrus.Info("Server stopped")
}

// buildDependencies creates every long-lived client once; the returned
// cleanup closes whatever was opened
func buildDependencies(ctx context.Context, cfg *config.Config) (server.Dependencies, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	fail := func(err error) (server.Dependencies, func(), error) {
		cleanup()
		return server.Dependencies{}, func() {}, err
	}

	var s3 *config.S3Config
	if config.IsS3URI(cfg.UserData.Path) {
		var err error
		if s3, err = config.NewS3Config(ctx, cfg.UserData.S3Region); err != nil {
			return fail(err)
		}
	}
	profiles, err := service.NewProfileStore(ctx, cfg.UserData.Path, s3)
	if err != nil {
		return fail(err)
	}

	db, err := database.New(ctx, cfg.Database)
	if err != nil {
		return fail(err)
	}
	if sqlDB, err := db.DB(); err == nil {
		closers = append(closers, func() { _ = sqlDB.Close() })
	}

	rdb, err := database.NewRedisClient(ctx, cfg.Redis.URL)
	if err != nil {
		// Redis only backs the cache and the limiter, both optional
		logrus.WithError(err).Warn("continuing without Redis")
	}
	if rdb != nil {
		closers = append(closers, func() { _ = rdb.Close() })
	}

	timeout := cfg.Server.UpstreamTimeout
	chat, err := service.NewChatModel(ctx, cfg.OpenAI, timeout)
	if err != nil {
		return fail(err)
	}
	embedder, err := service.NewEmbedder(ctx, cfg.OpenAI, timeout)
	if err != nil {
		return fail(err)
	}
	embeddings := service.NewEmbeddingService(embedder, cfg.OpenAI.EmbeddingDeployment, rdb, cfg.OpenAI.EmbeddingCacheTTL)

	store := database.NewVectorStore(db, cfg.Vector.Collection, cfg.Vector.Probes)
	recipes := service.NewRecipeService(store)

	deps := server.Dependencies{
		DB:          db,
		Redis:       rdb,
		Profiles:    profiles,
		Recipes:     recipes,
		Recommender: service.NewRecommender(embeddings, recipes, chat, cfg.OpenAI.MaxTokens),
		Analyzer:    service.NewFoodAnalyzer(chat, cfg.OpenAI.MaxTokens),
	}
	return deps, cleanup, nil
}
