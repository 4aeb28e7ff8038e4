package database

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testHybridRequest() HybridRequest {
	return HybridRequest{
		Requests: []AnnRequest{
			{Field: "ingredients_embedding", Vector: []float32{1, 0, 0}, Limit: 10},
			{Field: "name_embedding", Vector: []float32{0, 1, 0}, Limit: 10},
			{Field: "synthetic_review_embedding", Vector: []float32{0, 0, 1}, Limit: 10},
		},
		Weights: []float64{0.4, 0.2, 0.4},
		Limit:   10,
	}
}

func TestBuildHybridQuery(t *testing.T) {
	store := &VectorStore{table: "food_recipe_collection", probes: 10}

	query, args, err := store.buildHybridQuery(testHybridRequest())
	require.NoError(t, err)

	for _, cte := range []string{"hits_0 AS (", "hits_1 AS (", "hits_2 AS ("} {
		assert.Contains(t, query, cte)
	}
	assert.Contains(t, query, "ingredients_embedding <=> CAST(@vec0 AS vector)")
	assert.Contains(t, query, "name_embedding <=> CAST(@vec1 AS vector)")
	assert.Contains(t, query, "synthetic_review_embedding <=> CAST(@vec2 AS vector)")
	assert.Equal(t, 2, strings.Count(query, " UNION ALL "))
	assert.Contains(t, query, "ORDER BY fused.score DESC, r.id")
	assert.Contains(t, query, "JOIN food_recipe_collection r")

	assert.Equal(t, 10, args["limit"])
	assert.Equal(t, 0.4, args["weight0"])
	assert.Equal(t, 0.2, args["weight1"])
	assert.Equal(t, 0.4, args["weight2"])
	assert.Equal(t, 10, args["limit1"])
	assert.Contains(t, args, "vec2")
}

func TestBuildHybridQuery_Invalid(t *testing.T) {
	store := &VectorStore{table: "food_recipe_collection", probes: 10}

	tests := []struct {
		name   string
		mutate func(*HybridRequest)
		errMsg string
	}{
		{
			name:   "no sub-queries",
			mutate: func(r *HybridRequest) { r.Requests = nil; r.Weights = nil },
			errMsg: "at least one sub-query",
		},
		{
			name:   "weight count mismatch",
			mutate: func(r *HybridRequest) { r.Weights = r.Weights[:2] },
			errMsg: "got 2 weights for 3 sub-queries",
		},
		{
			name:   "unknown field",
			mutate: func(r *HybridRequest) { r.Requests[1].Field = "name; DROP TABLE x" },
			errMsg: "unknown vector field",
		},
		{
			name:   "zero limit",
			mutate: func(r *HybridRequest) { r.Limit = 0 },
			errMsg: "limit must be positive",
		},
		{
			name:   "zero sub-query limit",
			mutate: func(r *HybridRequest) { r.Requests[0].Limit = 0 },
			errMsg: "needs a positive limit",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testHybridRequest()
			tt.mutate(&req)
			_, _, err := store.buildHybridQuery(req)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
