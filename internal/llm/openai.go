package llm

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/perigon/coding-guidelines-rag/internal/rag"
)

const (
	embeddingModel = openai.SmallEmbedding3
	// EmbeddingDim must match the provisioned index dimensionality.
	EmbeddingDim = 1536
)

// OpenAIEmbedder embeds text with the same model at index and query time.
type OpenAIEmbedder struct {
	client *openai.Client
}

func NewOpenAIEmbedder(apiKey string) *OpenAIEmbedder {
	return &OpenAIEmbedder{client: openai.NewClient(apiKey)}
}

func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

func (e *OpenAIEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("no texts to embed")
	}

	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequestStrings{
		Input: texts,
		Model: embeddingModel,
	})
	if err != nil {
		return nil, fmt.Errorf("openai embeddings error: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("embeddings count mismatch: got %d for %d inputs", len(resp.Data), len(texts))
	}

	// Data order matches input order, but the API also carries an index per
	// item; honor it.
	out := make([][]float32, len(texts))
	for _, d := range resp.Data {
		if d.Index < 0 || d.Index >= len(out) {
			return nil, fmt.Errorf("embedding index %d out of range", d.Index)
		}
		if len(d.Embedding) != EmbeddingDim {
			return nil, fmt.Errorf("unexpected embedding size %d (expected %d)", len(d.Embedding), EmbeddingDim)
		}
		out[d.Index] = d.Embedding
	}
	return out, nil
}

var _ rag.Embedder = (*OpenAIEmbedder)(nil)
