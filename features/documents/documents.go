package documents

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"docchat/backend/internal/pdf"
	"docchat/backend/internal/text"
	"docchat/backend/internal/vector"
)

const (
	StatusProcessed = "processed"
	StatusError     = "error"
)

// Document is one processed corpus file, recorded for the listing endpoint.
type Document struct {
	Name        string    `json:"name"`
	ChunkCount  int       `json:"chunks"`
	Status      string    `json:"status"`
	ProcessedAt time.Time `json:"processed_at"`
}

// ProcessResult is the per-document outcome of one ingestion run.
type ProcessResult struct {
	Name   string `json:"name"`
	Chunks int    `json:"chunks"`
	Status string `json:"status"`
}

type Parser interface {
	ExtractPages(path string) ([]pdf.Page, error)
}

type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

type ChunkStore interface {
	StoreChunk(ctx context.Context, chunk vector.Chunk) error
}

type Repository interface {
	Upsert(ctx context.Context, doc *Document) error
	List(ctx context.Context) ([]Document, error)
}

type Service struct {
	repo     Repository
	parser   Parser
	embedder Embedder
	store    ChunkStore

	chunkSize    int
	chunkOverlap int
	docDelay     time.Duration
}

func NewService(repo Repository, parser Parser, embedder Embedder, store ChunkStore, chunkSize, chunkOverlap int, docDelay time.Duration) *Service {
	return &Service{
		repo:         repo,
		parser:       parser,
		embedder:     embedder,
		store:        store,
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
		docDelay:     docDelay,
	}
}

// ProcessDirectory ingests every *.pdf in dir, strictly sequentially, with a
// fixed delay between documents as a crude rate limit. A failure inside one
// document is logged and reported as an error result; the batch continues.
func (s *Service) ProcessDirectory(ctx context.Context, dir string) ([]ProcessResult, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.pdf"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan corpus directory %s: %w", dir, err)
	}

	results := make([]ProcessResult, 0, len(paths))
	for i, path := range paths {
		if i > 0 && s.docDelay > 0 {
			time.Sleep(s.docDelay)
		}
		results = append(results, s.processOne(ctx, path))
	}
	return results, nil
}

func (s *Service) processOne(ctx context.Context, path string) ProcessResult {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	count, err := s.ingest(ctx, name, path)
	if err != nil {
		slog.ErrorContext(ctx, "document processing failed", "document", name, "error", err)
		s.record(ctx, &Document{Name: name, ChunkCount: 0, Status: StatusError})
		return ProcessResult{Name: name, Chunks: 0, Status: StatusError}
	}

	s.record(ctx, &Document{Name: name, ChunkCount: count, Status: StatusProcessed})
	slog.InfoContext(ctx, "document processed", "document", name, "chunks", count)
	return ProcessResult{Name: name, Chunks: count, Status: StatusProcessed}
}

// ingest parses, chunks, embeds, and upserts one document. Chunk ids are
// {document}-chunk-{index} with the index increasing across pages, so
// re-ingesting the same file overwrites the same rows.
func (s *Service) ingest(ctx context.Context, name, path string) (int, error) {
	pages, err := s.parser.ExtractPages(path)
	if err != nil {
		return 0, err
	}

	index := 0
	for _, page := range pages {
		for _, chunk := range text.Chunk(page.Text, s.chunkSize, s.chunkOverlap) {
			embedding, err := s.embedder.Embed(ctx, chunk)
			if err != nil {
				return 0, fmt.Errorf("embedding chunk %d: %w", index, err)
			}

			err = s.store.StoreChunk(ctx, vector.Chunk{
				ID:        fmt.Sprintf("%s-chunk-%d", name, index),
				Content:   chunk,
				Document:  name,
				Page:      page.Number,
				Embedding: embedding,
			})
			if err != nil {
				return 0, fmt.Errorf("storing chunk %d: %w", index, err)
			}
			index++
		}
	}
	return index, nil
}

func (s *Service) record(ctx context.Context, doc *Document) {
	if err := s.repo.Upsert(ctx, doc); err != nil {
		slog.WarnContext(ctx, "failed to record document status", "document", doc.Name, "error", err)
	}
}

func (s *Service) List(ctx context.Context) ([]Document, error) {
	return s.repo.List(ctx)
}
