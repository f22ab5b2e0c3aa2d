package chat

import (
	"context"
	"fmt"
	"strings"

	"docchat/backend/internal/adapter/gemini"
	"docchat/backend/internal/retrieval"
)

// Message is one conversation turn as carried in request bodies. Nothing is
// persisted server-side; the frontend replays the history on every request.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Answer is the full completion text plus the chunks used as context.
type Answer struct {
	Response string                   `json:"response"`
	Sources  []retrieval.SearchResult `json:"sources"`
}

type Retriever interface {
	Search(ctx context.Context, query string) ([]retrieval.SearchResult, error)
}

type Generator interface {
	Generate(ctx context.Context, system string, history []gemini.Turn, prompt string) (string, error)
}

type Service struct {
	retriever Retriever
	generator Generator
}

func NewService(retriever Retriever, generator Generator) *Service {
	return &Service{retriever: retriever, generator: generator}
}

// Ask runs the single synchronous chat path: embed the question, fetch the
// nearest chunks, build one prompt, and request one completion.
func (s *Service) Ask(ctx context.Context, message string, history []Message) (*Answer, error) {
	sources, err := s.retriever.Search(ctx, message)
	if err != nil {
		return nil, fmt.Errorf("retrieval failed: %w", err)
	}

	turns := make([]gemini.Turn, 0, len(history))
	for _, m := range history {
		turns = append(turns, gemini.Turn{Role: m.Role, Content: m.Content})
	}

	response, err := s.generator.Generate(ctx, buildSystemPrompt(sources), turns, message)
	if err != nil {
		return nil, fmt.Errorf("completion failed: %w", err)
	}

	if sources == nil {
		sources = []retrieval.SearchResult{}
	}
	return &Answer{Response: response, Sources: sources}, nil
}

func buildSystemPrompt(sources []retrieval.SearchResult) string {
	var b strings.Builder
	b.WriteString("You are a helpful assistant answering questions about a document corpus. ")
	b.WriteString("Answer using only the context below and cite the source document and page. ")
	b.WriteString("If the context does not contain the answer, say so.\n\nContext:\n")

	if len(sources) == 0 {
		b.WriteString("(no relevant documents found)\n")
		return b.String()
	}

	for _, src := range sources {
		fmt.Fprintf(&b, "[Source: %s, page %d]\n%s\n\n", src.Document, src.Page, src.Content)
	}
	return b.String()
}
