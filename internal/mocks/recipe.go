package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pageza/foodwise/backend/internal/database"
	"github.com/pageza/foodwise/backend/internal/models"
)

// MockVectorStore is a mock implementation of the recipe vector store
type MockVectorStore struct {
	mock.Mock
}

// Load mocks the Load method
func (m *MockVectorStore) Load(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// HybridSearch mocks the HybridSearch method
func (m *MockVectorStore) HybridSearch(ctx context.Context, req database.HybridRequest) ([]models.HybridSearchHit, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.HybridSearchHit), args.Error(1)
}

// FindByName mocks the FindByName method
func (m *MockVectorStore) FindByName(ctx context.Context, name string, limit int) ([]models.RecipeInfo, error) {
	args := m.Called(ctx, name, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.RecipeInfo), args.Error(1)
}

// MockRecommender is a mock implementation of the recommendation orchestrator
type MockRecommender struct {
	mock.Mock
}

// Recommend mocks the Recommend method
func (m *MockRecommender) Recommend(ctx context.Context, profile models.UserProfile) (string, error) {
	args := m.Called(ctx, profile)
	return args.String(0), args.Error(1)
}

// MockFoodAnalyzer is a mock implementation of the image analyzer
type MockFoodAnalyzer struct {
	mock.Mock
}

// Analyze mocks the Analyze method
func (m *MockFoodAnalyzer) Analyze(ctx context.Context, imageDataURL string, cannotEat []string) (string, error) {
	args := m.Called(ctx, imageDataURL, cannotEat)
	return args.String(0), args.Error(1)
}

// MockRecipeService is a mock implementation of the recipe service
type MockRecipeService struct {
	mock.Mock
}

// HybridSearch mocks the HybridSearch method
func (m *MockRecipeService) HybridSearch(ctx context.Context, ingredientEmbedding, reviewEmbedding []float32) (map[int]models.HybridSearchHit, error) {
	args := m.Called(ctx, ingredientEmbedding, reviewEmbedding)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int]models.HybridSearchHit), args.Error(1)
}

// FindByName mocks the FindByName method
func (m *MockRecipeService) FindByName(ctx context.Context, name string, limit int) ([]models.RecipeInfo, error) {
	args := m.Called(ctx, name, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.RecipeInfo), args.Error(1)
}

// MockRecipeWriter is a mock implementation of the seed writer
type MockRecipeWriter struct {
	mock.Mock
}

// InsertRecipes mocks the InsertRecipes method
func (m *MockRecipeWriter) InsertRecipes(ctx context.Context, records []models.RecipeRecord) error {
	args := m.Called(ctx, records)
	return args.Error(0)
}
