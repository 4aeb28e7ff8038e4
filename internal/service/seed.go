package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	pgvector "github.com/pgvector/pgvector-go"
	"github.com/sirupsen/logrus"

	"github.com/pageza/foodwise/backend/internal/models"
)

// DefaultSeedBatch is the number of recipes embedded and inserted together
const DefaultSeedBatch = 100

// RecipeWriter stores embedded recipes
type RecipeWriter interface {
	InsertRecipes(ctx context.Context, records []models.RecipeRecord) error
}

// ReadRecipes decodes a JSON array of recipes. Entries without an id get
// their 1-based position in the file.
func ReadRecipes(r io.Reader) ([]models.RecipeRecord, error) {
	var records []models.RecipeRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to decode recipe file: %w", err)
	}

	seen := make(map[int64]int, len(records))
	for i := range records {
		if records[i].Name == "" {
			return nil, fmt.Errorf("recipe %d has no name", i)
		}
		if records[i].ID == 0 {
			records[i].ID = int64(i + 1)
		}
		if prev, dup := seen[records[i].ID]; dup {
			return nil, fmt.Errorf("recipe %d reuses id %d of recipe %d", i, records[i].ID, prev)
		}
		seen[records[i].ID] = i
	}
	return records, nil
}

// SeedRecipes embeds name, ingredients and synthetic review of every record
// and writes them in batches. It returns the number of records written.
func SeedRecipes(ctx context.Context, records []models.RecipeRecord, embedder Embedder, writer RecipeWriter, batch int) (int, error) {
	if batch <= 0 {
		batch = DefaultSeedBatch
	}

	written := 0
	for start := 0; start < len(records); start += batch {
		end := start + batch
		if end > len(records) {
			end = len(records)
		}
		chunk := records[start:end]

		if err := embedRecipes(ctx, embedder, chunk); err != nil {
			return written, fmt.Errorf("recipes %d-%d: %w", start+1, end, err)
		}
		if err := writer.InsertRecipes(ctx, chunk); err != nil {
			return written, fmt.Errorf("recipes %d-%d: %w", start+1, end, err)
		}
		written += len(chunk)

		logrus.WithFields(logrus.Fields{
			"component": "seed",
			"written":   written,
			"total":     len(records),
		}).Info("recipe batch inserted")
	}
	return written, nil
}

func embedRecipes(ctx context.Context, embedder Embedder, chunk []models.RecipeRecord) error {
	texts := make([]string, 0, 3*len(chunk))
	for _, r := range chunk {
		texts = append(texts, r.Name, r.Ingredients, r.SyntheticReview)
	}

	vectors, err := embedder.Embed(ctx, texts)
	if err != nil {
		return fmt.Errorf("failed to embed recipes: %w", err)
	}
	if len(vectors) != len(texts) {
		return errors.New("embedding count does not match recipe fields")
	}

	for i := range chunk {
		chunk[i].NameEmbedding = pgvector.NewVector(vectors[3*i])
		chunk[i].IngredientsEmbedding = pgvector.NewVector(vectors[3*i+1])
		chunk[i].SyntheticReviewEmbedding = pgvector.NewVector(vectors[3*i+2])
	}
	return nil
}
