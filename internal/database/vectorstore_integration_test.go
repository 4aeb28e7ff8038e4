package database_test

import (
	"context"
	"testing"

	pgvector "github.com/pgvector/pgvector-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodwise/backend/internal/database"
	"github.com/pageza/foodwise/backend/internal/models"
	"github.com/pageza/foodwise/backend/internal/testhelpers"
)

func TestFindByName(t *testing.T) {
	db := testhelpers.SetupSQLiteCollection(t, "recipes")
	testhelpers.InsertRecipeRow(t, db, "recipes", 1, "egg balado", "egg, chili", "boil, fry", "spicy and rich")
	testhelpers.InsertRecipeRow(t, db, "recipes", 2, "beef rendang", "beef, coconut", "simmer", "tender")

	store := database.NewVectorStore(db, "recipes", 10)
	ctx := context.Background()

	t.Run("exact match", func(t *testing.T) {
		recipes, err := store.FindByName(ctx, "egg balado", 3)
		require.NoError(t, err)
		require.Len(t, recipes, 1)
		assert.Equal(t, models.RecipeInfo{
			Name:            "egg balado",
			Ingredients:     "egg, chili",
			Steps:           "boil, fry",
			SyntheticReview: "spicy and rich",
		}, recipes[0])
	})

	t.Run("no partial match", func(t *testing.T) {
		recipes, err := store.FindByName(ctx, "egg", 3)
		require.NoError(t, err)
		assert.Empty(t, recipes)
	})

	t.Run("limit applies to duplicates", func(t *testing.T) {
		testhelpers.InsertRecipeRow(t, db, "recipes", 3, "beef rendang", "beef", "slow cook", "classic")
		recipes, err := store.FindByName(ctx, "beef rendang", 1)
		require.NoError(t, err)
		require.Len(t, recipes, 1)
		assert.Equal(t, "simmer", recipes[0].Steps)
	})
}

func TestLoad_NonPostgresIsNoop(t *testing.T) {
	db := testhelpers.SetupSQLiteCollection(t, "recipes")
	store := database.NewVectorStore(db, "recipes", 10)

	assert.NoError(t, store.Load(context.Background()))
	assert.NoError(t, store.Load(context.Background()))
}

func recipeRecord(id int64, name string, v []float32) models.RecipeRecord {
	return models.RecipeRecord{
		ID:                       id,
		Name:                     name,
		NameEmbedding:            pgvector.NewVector(v),
		Ingredients:              name + " ingredients",
		IngredientsEmbedding:     pgvector.NewVector(v),
		SyntheticReview:          name + " review",
		SyntheticReviewEmbedding: pgvector.NewVector(v),
	}
}

func TestHybridSearch_Postgres(t *testing.T) {
	db := testhelpers.SetupVectorDatabase(t)
	store := database.NewVectorStore(db, testhelpers.TestCollection, 10)
	ctx := context.Background()

	require.NoError(t, store.Load(ctx))

	empty, err := store.HybridSearch(ctx, hybridRequest([]float32{1, 0, 0}))
	require.NoError(t, err)
	assert.Empty(t, empty)

	err = store.InsertRecipes(ctx, []models.RecipeRecord{
		recipeRecord(1, "egg balado", []float32{1, 0, 0}),
		recipeRecord(2, "beef rendang", []float32{0, 1, 0}),
		recipeRecord(3, "fried rice", []float32{0, 0, 1}),
	})
	require.NoError(t, err)

	hits, err := store.HybridSearch(ctx, hybridRequest([]float32{1, 0, 0}))
	require.NoError(t, err)
	require.Len(t, hits, 3)

	assert.Equal(t, 1, hits[0].Rank)
	assert.Equal(t, "egg balado", hits[0].RecipeName)
	assert.Equal(t, "egg balado ingredients", hits[0].Ingredients)
	assert.Equal(t, "egg balado review", hits[0].Review)
	// orthogonal recipes tie and fall back to id order
	assert.Equal(t, "beef rendang", hits[1].RecipeName)
	assert.Equal(t, "fried rice", hits[2].RecipeName)
	assert.Equal(t, 3, hits[2].Rank)

	recipes, err := store.FindByName(ctx, "fried rice", 3)
	require.NoError(t, err)
	require.Len(t, recipes, 1)
	assert.Equal(t, "fried rice review", recipes[0].SyntheticReview)
}

func TestHybridSearch_PostgresWeightedFusion(t *testing.T) {
	db := testhelpers.SetupVectorDatabase(t)
	store := database.NewVectorStore(db, testhelpers.TestCollection, 10)
	ctx := context.Background()

	x, y, z := []float32{1, 0, 0}, []float32{0, 1, 0}, []float32{0, 0, 1}
	record := func(id int64, name string, nameVec, ingredientsVec, reviewVec []float32) models.RecipeRecord {
		return models.RecipeRecord{
			ID:                       id,
			Name:                     name,
			NameEmbedding:            pgvector.NewVector(nameVec),
			IngredientsEmbedding:     pgvector.NewVector(ingredientsVec),
			SyntheticReviewEmbedding: pgvector.NewVector(reviewVec),
		}
	}

	// ingredients and review are queried with x, name with y. A matching
	// field scores 1, an orthogonal one 0.5.
	err := store.InsertRecipes(ctx, []models.RecipeRecord{
		record(1, "name only", y, z, z),              // 0.2 + 0.2 + 0.2 = 0.6
		record(2, "ingredients and review", z, x, x), // 0.1 + 0.4 + 0.4 = 0.9
		record(3, "ingredients and name", y, x, z),   // 0.2 + 0.4 + 0.2 = 0.8
		record(4, "review only", z, z, x),            // 0.1 + 0.2 + 0.4 = 0.7
	})
	require.NoError(t, err)

	hits, err := store.HybridSearch(ctx, database.HybridRequest{
		Requests: []database.AnnRequest{
			{Field: "ingredients_embedding", Vector: x, Limit: 10},
			{Field: "name_embedding", Vector: y, Limit: 10},
			{Field: "synthetic_review_embedding", Vector: x, Limit: 10},
		},
		Weights: []float64{0.4, 0.2, 0.4},
		Limit:   10,
	})
	require.NoError(t, err)

	names := make([]string, len(hits))
	for i, hit := range hits {
		names[i] = hit.RecipeName
		assert.Equal(t, i+1, hit.Rank)
	}
	assert.Equal(t, []string{"ingredients and review", "ingredients and name", "review only", "name only"}, names)
}

func hybridRequest(v []float32) database.HybridRequest {
	return database.HybridRequest{
		Requests: []database.AnnRequest{
			{Field: "ingredients_embedding", Vector: v, Limit: 10},
			{Field: "name_embedding", Vector: v, Limit: 10},
			{Field: "synthetic_review_embedding", Vector: v, Limit: 10},
		},
		Weights: []float64{0.4, 0.2, 0.4},
		Limit:   10,
	}
}
