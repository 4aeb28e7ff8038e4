package main

import (
	"context"
	"flag"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/pageza/foodwise/backend/config"
	"github.com/pageza/foodwise/backend/internal/database"
	"github.com/pageza/foodwise/backend/internal/models"
	"github.com/pageza/foodwise/backend/internal/observability"
	"github.com/pageza/foodwise/backend/internal/service"
)

func main() {
	source := flag.String("file", "data/recipes.json", "Recipe JSON file, local path or s3://bucket/key")
	batch := flag.Int("batch", service.DefaultSeedBatch, "Recipes embedded and inserted per batch")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}
	if err := observability.ConfigureLogging(cfg.Logging, os.Stdout); err != nil {
		logrus.Fatalf("Failed to configure logging: %v", err)
	}

	ctx := context.Background()

	records, err := readRecipeFile(ctx, *source, cfg.UserData.S3Region)
	if err != nil {
		logrus.Fatalf("Failed to read recipes: %v", err)
	}

	db, err := database.New(ctx, cfg.Database)
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}

	embedder, err := service.NewEmbedder(ctx, cfg.OpenAI, cfg.Server.UpstreamTimeout)
	if err != nil {
		logrus.Fatalf("Failed to create embedding service: %v", err)
	}
	embeddings := service.NewEmbeddingService(embedder, cfg.OpenAI.EmbeddingDeployment, nil, 0)

	store := database.NewVectorStore(db, cfg.Vector.Collection, cfg.Vector.Probes)
	written, err := service.SeedRecipes(ctx, records, embeddings, store, *batch)
	if err != nil {
		logrus.Fatalf("Seeding stopped after %d recipes: %v", written, err)
	}

	logrus.Infof("Successfully seeded %d recipes", written)
}

func readRecipeFile(ctx context.Context, source, region string) ([]models.RecipeRecord, error) {
	var (
		rc  io.ReadCloser
		err error
	)
	if config.IsS3URI(source) {
		s3, s3Err := config.NewS3Config(ctx, region)
		if s3Err != nil {
			return nil, s3Err
		}
		rc, err = s3.OpenObject(ctx, source)
	} else {
		rc, err = os.Open(source)
	}
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	return service.ReadRecipes(rc)
}
