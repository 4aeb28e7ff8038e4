package database

import (
	"context"
	"fmt"
	"strings"
	"sync"

	pgvector "github.com/pgvector/pgvector-go"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/pageza/foodwise/backend/internal/models"
)

// AnnRequest is one approximate nearest-neighbor sub-query of a hybrid search
type AnnRequest struct {
	Field  string
	Vector []float32
	Limit  int
}

// HybridRequest combines sub-queries with a weighted linear reranker. Weights
// pair with Requests by position.
type HybridRequest struct {
	Requests []AnnRequest
	Weights  []float64
	Limit    int
}

// VectorStore is the pgvector-backed recipe collection
type VectorStore struct {
	db     *gorm.DB
	table  string
	probes int

	mu     sync.Mutex
	loaded bool
}

// NewVectorStore wraps the collection named table; table must already be a
// validated identifier.
func NewVectorStore(db *gorm.DB, table string, probes int) *VectorStore {
	return &VectorStore{
		db:     db,
		table:  table,
		probes: probes,
	}
}

func (s *VectorStore) isPostgres() bool {
	return s.db.Dialector.Name() == "postgres"
}

// Load pulls the collection and its indexes into shared buffers. It succeeds
// once per process; a failed attempt is retried by the next caller.
func (s *VectorStore) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loaded {
		return nil
	}
	if !s.isPostgres() {
		s.loaded = true
		return nil
	}

	var blocks int64
	err := s.db.WithContext(ctx).Raw(`SELECT CAST(pg_prewarm(CAST(? AS regclass)) + COALESCE(
		(SELECT SUM(pg_prewarm(indexrelid)) FROM pg_index WHERE indrelid = CAST(? AS regclass)), 0) AS bigint)`,
		s.table, s.table).Scan(&blocks).Error
	if err != nil {
		return fmt.Errorf("failed to load collection %s: %w", s.table, err)
	}

	s.loaded = true
	logrus.WithFields(logrus.Fields{
		"component":  "vectorstore",
		"collection": s.table,
		"blocks":     blocks,
	}).Info("collection loaded")
	return nil
}

type hybridRow struct {
	Name            string
	Ingredients     string
	SyntheticReview string
	Score           float64
}

// HybridSearch runs every sub-query and the weighted rerank as one statement
// and returns the hits best first.
func (s *VectorStore) HybridSearch(ctx context.Context, req HybridRequest) ([]models.HybridSearchHit, error) {
	query, args, err := s.buildHybridQuery(req)
	if err != nil {
		return nil, err
	}

	var rows []hybridRow
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(fmt.Sprintf("SET LOCAL ivfflat.probes = %d", s.probes)).Error; err != nil {
			return fmt.Errorf("failed to set probes: %w", err)
		}
		return tx.Raw(query, args).Scan(&rows).Error
	})
	if err != nil {
		return nil, fmt.Errorf("hybrid search on %s failed: %w", s.table, err)
	}

	hits := make([]models.HybridSearchHit, len(rows))
	for i, row := range rows {
		hits[i] = models.HybridSearchHit{
			Rank:        i + 1,
			RecipeName:  row.Name,
			Ingredients: row.Ingredients,
			Review:      row.SyntheticReview,
		}
	}
	return hits, nil
}

// buildHybridQuery renders one CTE per sub-query. Cosine distance d is turned
// into the reranker score (1 + cos)/2 = 1 - d/2 before weighting.
func (s *VectorStore) buildHybridQuery(req HybridRequest) (string, map[string]interface{}, error) {
	if len(req.Requests) == 0 {
		return "", nil, fmt.Errorf("hybrid search needs at least one sub-query")
	}
	if len(req.Weights) != len(req.Requests) {
		return "", nil, fmt.Errorf("got %d weights for %d sub-queries", len(req.Weights), len(req.Requests))
	}
	if req.Limit <= 0 {
		return "", nil, fmt.Errorf("hybrid search limit must be positive")
	}

	args := map[string]interface{}{"limit": req.Limit}
	ctes := make([]string, 0, len(req.Requests))
	weighted := make([]string, 0, len(req.Requests))

	for i, sub := range req.Requests {
		if !isVectorField(sub.Field) {
			return "", nil, fmt.Errorf("unknown vector field %q", sub.Field)
		}
		if sub.Limit <= 0 {
			return "", nil, fmt.Errorf("sub-query on %s needs a positive limit", sub.Field)
		}

		ctes = append(ctes, fmt.Sprintf(`hits_%[1]d AS (
		SELECT id, 1 - (%[2]s <=> CAST(@vec%[1]d AS vector)) / 2 AS score
		FROM %[3]s
		ORDER BY %[2]s <=> CAST(@vec%[1]d AS vector)
		LIMIT @limit%[1]d
	)`, i, sub.Field, s.table))
		weighted = append(weighted, fmt.Sprintf("SELECT id, @weight%[1]d * score AS weighted FROM hits_%[1]d", i))

		args[fmt.Sprintf("vec%d", i)] = pgvector.NewVector(sub.Vector)
		args[fmt.Sprintf("limit%d", i)] = sub.Limit
		args[fmt.Sprintf("weight%d", i)] = req.Weights[i]
	}

	query := fmt.Sprintf(`WITH %s
	SELECT r.name, r.ingredients, r.synthetic_review, fused.score
	FROM (
		SELECT id, SUM(weighted) AS score
		FROM (%s) AS weighted_hits
		GROUP BY id
	) AS fused
	JOIN %s r ON r.id = fused.id
	ORDER BY fused.score DESC, r.id
	LIMIT @limit`,
		strings.Join(ctes, ",\n\t"),
		strings.Join(weighted, " UNION ALL "),
		s.table)

	return query, args, nil
}

func isVectorField(field string) bool {
	for _, f := range VectorFields {
		if f == field {
			return true
		}
	}
	return false
}

// FindByName returns up to limit records whose name equals name exactly
func (s *VectorStore) FindByName(ctx context.Context, name string, limit int) ([]models.RecipeInfo, error) {
	var recipes []models.RecipeInfo
	err := s.db.WithContext(ctx).
		Table(s.table).
		Select("name, ingredients, steps, synthetic_review").
		Where("name = ?", name).
		Order("id").
		Limit(limit).
		Find(&recipes).Error
	if err != nil {
		return nil, fmt.Errorf("query on %s failed: %w", s.table, err)
	}
	return recipes, nil
}

// InsertRecipes writes records into the collection in batches
func (s *VectorStore) InsertRecipes(ctx context.Context, records []models.RecipeRecord) error {
	if len(records) == 0 {
		return nil
	}
	if err := s.db.WithContext(ctx).Table(s.table).CreateInBatches(records, 100).Error; err != nil {
		return fmt.Errorf("failed to insert recipes into %s: %w", s.table, err)
	}
	return nil
}
