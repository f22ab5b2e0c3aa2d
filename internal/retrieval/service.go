package retrieval

import (
	"context"
	"time"
)

type SearchResult struct {
	ID         string  `json:"id"`
	Content    string  `json:"content"`
	Document   string  `json:"document"`
	Page       int     `json:"page"`
	Similarity float64 `json:"similarity"`
}

type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

type VectorStore interface {
	SearchSimilar(ctx context.Context, vector []float32, limit int) ([]SearchResult, error)
}

type Service struct {
	embedder Embedder
	store    VectorStore
	topK     int
	logger   *QueryLogger
}

func NewService(e Embedder, s VectorStore, topK int, l *QueryLogger) *Service {
	if topK <= 0 {
		topK = 5
	}
	return &Service{embedder: e, store: s, topK: topK, logger: l}
}

// Search embeds the query and returns the nearest chunks in descending
// similarity order, as produced by the store.
func (s *Service) Search(ctx context.Context, query string) ([]SearchResult, error) {
	start := time.Now()

	vec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}

	results, err := s.store.SearchSimilar(ctx, vec, s.topK)
	if err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.Log(ctx, QueryLogEntry{
			Query:      query,
			NumResults: len(results),
			Duration:   time.Since(start),
		})
	}
	return results, nil
}
