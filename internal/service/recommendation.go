package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/pageza/foodwise/backend/internal/models"
)

const recommenderSystemPrompt = "You are a helpful assistant."

// Embedder turns texts into vectors, one per input and in input order
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Recommender suggests recipes from the collection that fit a user's profile
type Recommender struct {
	embedder  Embedder
	recipes   IRecipeService
	chat      ChatModel
	maxTokens int
}

// Ensure Recommender implements IRecommender
var _ IRecommender = (*Recommender)(nil)

// NewRecommender creates a new Recommender instance
func NewRecommender(embedder Embedder, recipes IRecipeService, chat ChatModel, maxTokens int) *Recommender {
	return &Recommender{
		embedder:  embedder,
		recipes:   recipes,
		chat:      chat,
		maxTokens: maxTokens,
	}
}

// Recommend searches recipes matching the user's food preferences and asks
// the model to keep only those compatible with cannot_eat. The model's reply
// is returned as-is.
func (r *Recommender) Recommend(ctx context.Context, profile models.UserProfile) (string, error) {
	queries := []string{
		IngredientQuery(profile.FoodPreference),
		ReviewQuery(profile.FoodPreference),
	}

	vectors, err := r.embedder.Embed(ctx, queries)
	if err != nil {
		return "", fmt.Errorf("failed to embed preference queries: %w", err)
	}
	if len(vectors) != len(queries) {
		return "", fmt.Errorf("expected %d query embeddings, got %d", len(queries), len(vectors))
	}

	hits, err := r.recipes.HybridSearch(ctx, vectors[0], vectors[1])
	if err != nil {
		return "", fmt.Errorf("hybrid search failed: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"component": "recommender",
		"user_id":   profile.UserID,
		"hits":      len(hits),
	}).Debug("candidate recipes found")

	messages := conversation(recommenderSystemPrompt,
		textPart("I have a list of food recipe: "+renderHits(hits)),
		textPart("And this is a list of food that I cannot eat:"+formatFoodList(profile.CannotEat)),
		textPart("From the food recipe list, give me a the name of food that I can eat only! your answer must only contain the food name without ingredients and any additional words"),
		textPart("Example of good result = [egg balado, spicy grilled beef]"),
	)

	reply, err := generateText(ctx, r.chat, messages, r.maxTokens)
	if err != nil {
		return "", fmt.Errorf("recommendation model call failed: %w", err)
	}
	return reply, nil
}
