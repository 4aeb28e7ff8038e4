package service

import (
	"context"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/pageza/foodwise/backend/internal/database"
	"github.com/pageza/foodwise/backend/internal/models"
)

// ChatModel is the part of an eino chat model the services call. Both the
// Azure OpenAI model and test doubles satisfy it.
type ChatModel interface {
	Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error)
}

// VectorStore is the recipe collection backing hybrid search and exact lookups
type VectorStore interface {
	Load(ctx context.Context) error
	HybridSearch(ctx context.Context, req database.HybridRequest) ([]models.HybridSearchHit, error)
	FindByName(ctx context.Context, name string, limit int) ([]models.RecipeInfo, error)
}

// IProfileStore defines the interface for user profile lookups
type IProfileStore interface {
	GetProfile(userID int64) (models.UserProfile, error)
	Len() int
}

// IRecipeService defines the interface for recipe operations
type IRecipeService interface {
	HybridSearch(ctx context.Context, ingredientEmbedding, reviewEmbedding []float32) (map[int]models.HybridSearchHit, error)
	FindByName(ctx context.Context, name string, limit int) ([]models.RecipeInfo, error)
}

// IRecommender defines the interface for personalized recipe recommendations
type IRecommender interface {
	Recommend(ctx context.Context, profile models.UserProfile) (string, error)
}

// IFoodAnalyzer defines the interface for dietary analysis of food photos
type IFoodAnalyzer interface {
	Analyze(ctx context.Context, imageDataURL string, cannotEat []string) (string, error)
}
