package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/pageza/foodwise/backend/config"
	"github.com/pageza/foodwise/backend/internal/observability"
	"github.com/pageza/foodwise/backend/internal/service"
)

// Runs the food analyzer on a local photo for one user of the dataset
func main() {
	imagePath := flag.String("image", "", "Path to the food photo")
	userID := flag.Int64("user", 0, "User id from the user dataset")
	flag.Parse()

	if *imagePath == "" || *userID <= 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}
	if err := observability.ConfigureLogging(cfg.Logging, os.Stderr); err != nil {
		logrus.Fatalf("Failed to configure logging: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.UpstreamTimeout)
	defer cancel()

	var s3 *config.S3Config
	if config.IsS3URI(cfg.UserData.Path) {
		if s3, err = config.NewS3Config(ctx, cfg.UserData.S3Region); err != nil {
			logrus.Fatalf("Failed to create S3 client: %v", err)
		}
	}
	profiles, err := service.NewProfileStore(ctx, cfg.UserData.Path, s3)
	if err != nil {
		logrus.Fatalf("Failed to load user dataset: %v", err)
	}
	profile, err := profiles.GetProfile(*userID)
	if err != nil {
		logrus.Fatalf("User %d: %v", *userID, err)
	}

	imageURL, err := service.LocalImageDataURL(*imagePath)
	if err != nil {
		logrus.Fatalf("Failed to read image: %v", err)
	}

	chat, err := service.NewChatModel(ctx, cfg.OpenAI, cfg.Server.UpstreamTimeout)
	if err != nil {
		logrus.Fatalf("Failed to create chat model: %v", err)
	}

	answer, err := service.NewFoodAnalyzer(chat, cfg.OpenAI.MaxTokens).Analyze(ctx, imageURL, profile.CannotEat)
	if err != nil {
		logrus.Fatalf("Analysis failed: %v", err)
	}
	fmt.Println(answer)
}
