// Package vector implements the document chunk store on Postgres + pgvector.
package vector

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pgvector/pgvector-go"

	"docchat/backend/internal/retrieval"
)

// Chunk is one retrieval unit: a bounded span of document text plus its
// embedding. The id is unique across the corpus and stable across
// re-ingestion, which makes StoreChunk an idempotent upsert.
type Chunk struct {
	ID        string
	Content   string
	Document  string
	Page      int
	Embedding []float32
}

type Store struct {
	db  *sql.DB
	dim int
}

// NewStore returns a store writing vectors of the given dimensionality. The
// dimension must match the vector column definition in the migrations.
func NewStore(db *sql.DB, dim int) *Store {
	return &Store{db: db, dim: dim}
}

// StoreChunk upserts a single chunk row keyed by id. Each write is an
// independent statement; no transaction spans multiple chunks.
func (s *Store) StoreChunk(ctx context.Context, chunk Chunk) error {
	if len(chunk.Embedding) != s.dim {
		return fmt.Errorf("embedding dimension mismatch for chunk %s: got %d, want %d",
			chunk.ID, len(chunk.Embedding), s.dim)
	}

	query := `INSERT INTO document_chunks (id, content, document, page, embedding)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			content = EXCLUDED.content,
			document = EXCLUDED.document,
			page = EXCLUDED.page,
			embedding = EXCLUDED.embedding`
	_, err := s.db.ExecContext(ctx, query,
		chunk.ID, chunk.Content, chunk.Document, chunk.Page, pgvector.NewVector(chunk.Embedding))
	return err
}

// SearchSimilar returns the limit nearest chunks by cosine distance, with
// similarity reported as 1 - distance, descending.
func (s *Store) SearchSimilar(ctx context.Context, vec []float32, limit int) ([]retrieval.SearchResult, error) {
	if len(vec) != s.dim {
		return nil, fmt.Errorf("query embedding dimension mismatch: got %d, want %d", len(vec), s.dim)
	}

	query := `SELECT id, content, document, page, 1 - (embedding <=> $1) AS similarity
		FROM document_chunks
		ORDER BY embedding <=> $1
		LIMIT $2`
	rows, err := s.db.QueryContext(ctx, query, pgvector.NewVector(vec), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []retrieval.SearchResult
	for rows.Next() {
		var r retrieval.SearchResult
		if err := rows.Scan(&r.ID, &r.Content, &r.Document, &r.Page, &r.Similarity); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}
