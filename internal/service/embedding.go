package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	openaiembedding "github.com/cloudwego/eino-ext/components/embedding/openai"
	"github.com/cloudwego/eino/components/embedding"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/pageza/foodwise/backend/config"
	"github.com/pageza/foodwise/backend/internal/observability"
)

// maxEmbeddingBatch bounds the inputs of a single embedding request
const maxEmbeddingBatch = 256

const embeddingCachePrefix = "embedding:"

// NewEmbedder creates the Azure OpenAI embedding deployment client
func NewEmbedder(ctx context.Context, cfg config.OpenAIConfig, timeout time.Duration) (*openaiembedding.Embedder, error) {
	emb, err := openaiembedding.NewEmbedder(ctx, &openaiembedding.EmbeddingConfig{
		APIKey:     cfg.APIKey,
		BaseURL:    cfg.Endpoint,
		ByAzure:    true,
		APIVersion: cfg.EmbeddingAPIVersion,
		Model:      cfg.EmbeddingDeployment,
		Timeout:    timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder: %w", err)
	}
	return emb, nil
}

// EmbeddingService turns text into vectors, optionally caching them in Redis
type EmbeddingService struct {
	embedder   embedding.Embedder
	deployment string
	cache      *redis.Client
	ttl        time.Duration
}

// NewEmbeddingService wraps embedder. The cache is skipped when cache is nil
// or ttl is not positive.
func NewEmbeddingService(embedder embedding.Embedder, deployment string, cache *redis.Client, ttl time.Duration) *EmbeddingService {
	if ttl <= 0 {
		cache = nil
	}
	return &EmbeddingService{
		embedder:   embedder,
		deployment: deployment,
		cache:      cache,
		ttl:        ttl,
	}
}

// Embed returns one vector per text, in input order
func (s *EmbeddingService) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	vectors := make([][]float32, len(texts))
	missing := s.readCache(ctx, texts, vectors)
	if len(missing) == 0 {
		return vectors, nil
	}

	pending := make([]string, len(missing))
	for i, idx := range missing {
		pending[i] = texts[idx]
	}

	for start := 0; start < len(pending); start += maxEmbeddingBatch {
		end := start + maxEmbeddingBatch
		if end > len(pending) {
			end = len(pending)
		}

		batch, err := s.embedBatch(ctx, pending[start:end])
		if err != nil {
			return nil, err
		}
		for i, vec := range batch {
			vectors[missing[start+i]] = vec
		}
	}

	s.writeCache(ctx, texts, missing, vectors)
	return vectors, nil
}

func (s *EmbeddingService) embedBatch(ctx context.Context, texts []string) (vectors [][]float32, err error) {
	defer observability.ObserveUpstream(observability.UpstreamEmbedding, time.Now(), &err)

	raw, err := s.embedder.EmbedStrings(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("failed to generate embeddings: %w", err)
	}
	if len(raw) != len(texts) {
		return nil, fmt.Errorf("embedding endpoint returned %d vectors for %d inputs", len(raw), len(texts))
	}

	vectors = make([][]float32, len(raw))
	for i, r := range raw {
		vec := make([]float32, len(r))
		for j, v := range r {
			vec[j] = float32(v)
		}
		vectors[i] = vec
	}
	return vectors, nil
}

func (s *EmbeddingService) cacheKey(text string) string {
	sum := sha256.Sum256([]byte(s.deployment + "\x00" + text))
	return embeddingCachePrefix + hex.EncodeToString(sum[:])
}

// readCache fills vectors from the cache and returns the indexes still
// missing. Cache failures count as misses.
func (s *EmbeddingService) readCache(ctx context.Context, texts []string, vectors [][]float32) []int {
	all := make([]int, len(texts))
	for i := range texts {
		all[i] = i
	}
	if s.cache == nil {
		return all
	}

	keys := make([]string, len(texts))
	for i, text := range texts {
		keys[i] = s.cacheKey(text)
	}

	values, err := s.cache.MGet(ctx, keys...).Result()
	if err != nil {
		logrus.WithError(err).WithField("component", "embedding").Warn("embedding cache read failed")
		return all
	}

	var missing []int
	for i, v := range values {
		str, ok := v.(string)
		if !ok {
			missing = append(missing, i)
			continue
		}
		var vec []float32
		if err := json.Unmarshal([]byte(str), &vec); err != nil {
			missing = append(missing, i)
			continue
		}
		vectors[i] = vec
	}

	observability.EmbeddingCacheTotal.WithLabelValues("hit").Add(float64(len(texts) - len(missing)))
	observability.EmbeddingCacheTotal.WithLabelValues("miss").Add(float64(len(missing)))
	return missing
}

func (s *EmbeddingService) writeCache(ctx context.Context, texts []string, indexes []int, vectors [][]float32) {
	if s.cache == nil {
		return
	}

	pipe := s.cache.Pipeline()
	for _, idx := range indexes {
		data, err := json.Marshal(vectors[idx])
		if err != nil {
			continue
		}
		pipe.Set(ctx, s.cacheKey(texts[idx]), data, s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		logrus.WithError(err).WithField("component", "embedding").Warn("embedding cache write failed")
	}
}
