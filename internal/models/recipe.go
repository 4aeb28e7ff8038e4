package models

import (
	pgvector "github.com/pgvector/pgvector-go"
)

// RecipeRecord is a row of the recipe collection. The three embeddings are
// searched by the hybrid recommendation query.
type RecipeRecord struct {
	ID                       int64           `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Name                     string          `gorm:"size:500;not null;index" json:"name"`
	NameEmbedding            pgvector.Vector `gorm:"type:vector" json:"-"`
	Steps                    string          `gorm:"size:5000" json:"steps"`
	Description              string          `gorm:"size:3000" json:"description"`
	Ingredients              string          `gorm:"size:3000" json:"ingredients"`
	IngredientsEmbedding     pgvector.Vector `gorm:"type:vector" json:"-"`
	SyntheticReview          string          `gorm:"size:3000" json:"synthetic_review"`
	SyntheticReviewEmbedding pgvector.Vector `gorm:"type:vector" json:"-"`
}

// RecipeInfo is the projection returned by exact-name lookups
type RecipeInfo struct {
	Name            string `json:"name"`
	Ingredients     string `json:"ingredients"`
	Steps           string `json:"steps"`
	SyntheticReview string `json:"synthetic_review"`
}

// HybridSearchHit is one ranked result of the hybrid recommendation search
type HybridSearchHit struct {
	Rank        int    `json:"-"`
	RecipeName  string `json:"recipe_name"`
	Ingredients string `json:"ingredients"`
	Review      string `json:"review"`
}
