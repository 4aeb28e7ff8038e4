package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pageza/foodwise/backend/internal/database"
	"github.com/pageza/foodwise/backend/internal/models"
	"github.com/pageza/foodwise/backend/internal/observability"
)

// Hybrid search shape: each field contributes its own top-k and the weighted
// reranker keeps the best HybridSearchLimit overall.
const (
	HybridSearchLimit = 10

	ingredientsWeight     = 0.4
	nameWeight            = 0.2
	syntheticReviewWeight = 0.4
)

// RecipeService reads the recipe collection
type RecipeService struct {
	store VectorStore
}

// Ensure RecipeService implements IRecipeService
var _ IRecipeService = (*RecipeService)(nil)

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(store VectorStore) *RecipeService {
	return &RecipeService{store: store}
}

// HybridSearch matches the ingredient embedding against recipe ingredients and
// the review embedding against recipe names and synthetic reviews. Hits are
// keyed by 1-based rank.
func (s *RecipeService) HybridSearch(ctx context.Context, ingredientEmbedding, reviewEmbedding []float32) (hits map[int]models.HybridSearchHit, err error) {
	defer observability.ObserveUpstream(observability.UpstreamVectorStore, time.Now(), &err)

	if err := s.store.Load(ctx); err != nil {
		return nil, err
	}

	ranked, err := s.store.HybridSearch(ctx, database.HybridRequest{
		Requests: []database.AnnRequest{
			{Field: "ingredients_embedding", Vector: ingredientEmbedding, Limit: HybridSearchLimit},
			{Field: "name_embedding", Vector: reviewEmbedding, Limit: HybridSearchLimit},
			{Field: "synthetic_review_embedding", Vector: reviewEmbedding, Limit: HybridSearchLimit},
		},
		Weights: []float64{ingredientsWeight, nameWeight, syntheticReviewWeight},
		Limit:   HybridSearchLimit,
	})
	if err != nil {
		return nil, err
	}

	return flattenHits(ranked), nil
}

// flattenHits keys an ordered hit list by position, 1..N with N capped at
// HybridSearchLimit.
func flattenHits(ranked []models.HybridSearchHit) map[int]models.HybridSearchHit {
	if len(ranked) > HybridSearchLimit {
		ranked = ranked[:HybridSearchLimit]
	}

	hits := make(map[int]models.HybridSearchHit, len(ranked))
	for i, hit := range ranked {
		hit.Rank = i + 1
		hits[hit.Rank] = hit
	}
	return hits
}

// FindByName returns up to limit recipes whose name matches exactly
func (s *RecipeService) FindByName(ctx context.Context, name string, limit int) (recipes []models.RecipeInfo, err error) {
	defer observability.ObserveUpstream(observability.UpstreamVectorStore, time.Now(), &err)

	if err := s.store.Load(ctx); err != nil {
		return nil, err
	}

	recipes, err = s.store.FindByName(ctx, name, limit)
	if err != nil {
		return nil, err
	}
	if recipes == nil {
		recipes = []models.RecipeInfo{}
	}
	return recipes, nil
}

// renderHits lists hits in rank order for the recommendation prompt, as a
// rank-keyed mapping: {1: {'recipe_name': ..., 'ingredients': ..., 'review': ...}}
func renderHits(hits map[int]models.HybridSearchHit) string {
	var b strings.Builder
	b.WriteByte('{')
	for rank := 1; rank <= len(hits); rank++ {
		hit := hits[rank]
		if rank > 1 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%d: {'recipe_name': %s, 'ingredients': %s, 'review': %s}",
			rank, quoteLiteral(hit.RecipeName), quoteLiteral(hit.Ingredients), quoteLiteral(hit.Review))
	}
	b.WriteByte('}')
	return b.String()
}
