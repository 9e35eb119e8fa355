package rag

import "context"

// Embedder produces fixed-dimension vectors for text. The same model must be
// used at index time and query time or similarity scores are meaningless.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// Generator turns an assembled system prompt plus a user prompt into a
// free-text model reply.
type Generator interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// VectorRecord pairs one chunk with its embedding for upsert.
type VectorRecord struct {
	ID       string
	Values   []float32
	Content  string
	Metadata ChunkMetadata
}

// VectorIndex is the nearest-neighbor store shared by both pipelines.
type VectorIndex interface {
	Upsert(ctx context.Context, records []VectorRecord) error
	Query(ctx context.Context, vector []float32, topK int) ([]RetrievedDocument, error)
	Stats(ctx context.Context) (*IndexStats, error)
	Clear(ctx context.Context) error
}
