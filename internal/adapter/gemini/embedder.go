package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

type Embedder struct {
	client *genai.Client
	model  string
	dim    int
}

func NewEmbedder(ctx context.Context, apiKey, model string, dim int) (*Embedder, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key not configured")
	}
	if dim <= 0 {
		return nil, fmt.Errorf("embedding dimension must be positive, got %d", dim)
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	return &Embedder{client: client, model: model, dim: dim}, nil
}

func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	slog.DebugContext(ctx, "embedding content", "model", e.model, "length", len(text))
	em := e.client.EmbeddingModel(e.model)
	res, err := em.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		slog.ErrorContext(ctx, "embedding failed", "error", err)
		return nil, err
	}
	if res.Embedding == nil || len(res.Embedding.Values) == 0 {
		return nil, fmt.Errorf("empty embedding received")
	}
	return fitDimension(res.Embedding.Values, e.dim)
}

// fitDimension reduces a model embedding to the configured dimension.
// Gemini embedding models are MRL-trained, so keeping the leading dimensions
// and renormalizing preserves cosine ranking. A vector that is already the
// right size passes through untouched; a shorter one is an error.
func fitDimension(values []float32, dim int) ([]float32, error) {
	if len(values) < dim {
		return nil, fmt.Errorf("model returned %d dimensions, need %d", len(values), dim)
	}
	if len(values) == dim {
		return values, nil
	}

	truncated := make([]float32, dim)
	copy(truncated, values[:dim])

	var sum float64
	for _, v := range truncated {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		return truncated, nil
	}
	norm := float32(math.Sqrt(sum))
	for i := range truncated {
		truncated[i] /= norm
	}
	return truncated, nil
}

func (e *Embedder) Close() error {
	return e.client.Close()
}
