package vectorizer

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/perigon/coding-guidelines-rag/internal/rag"
)

type fakeEmbedder struct {
	batchErr   error
	failFor    string // single-embed failure trigger, matched on content
	batchCalls [][]string
	embedCalls []string
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	f.embedCalls = append(f.embedCalls, text)
	if f.failFor != "" && strings.Contains(text, f.failFor) {
		return nil, errors.New("bad input")
	}
	return []float32{0.1, 0.2}, nil
}

func (f *fakeEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	f.batchCalls = append(f.batchCalls, texts)
	if f.batchErr != nil {
		return nil, f.batchErr
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{0.1, 0.2}
	}
	return out, nil
}

type fakeIndex struct {
	upserted []rag.VectorRecord
}

func (f *fakeIndex) Upsert(ctx context.Context, records []rag.VectorRecord) error {
	f.upserted = append(f.upserted, records...)
	return nil
}

func (f *fakeIndex) Query(ctx context.Context, vector []float32, topK int) ([]rag.RetrievedDocument, error) {
	return nil, nil
}

func (f *fakeIndex) Stats(ctx context.Context) (*rag.IndexStats, error) { return nil, nil }
func (f *fakeIndex) Clear(ctx context.Context) error                    { return nil }

func chunk(id, content string) rag.DocumentChunk {
	return rag.DocumentChunk{
		ID:       id,
		Content:  content,
		Metadata: rag.ChunkMetadata{Category: "docs", Filename: id, Type: rag.TypeGeneralDocs},
	}
}

func validContent(marker string) string {
	return marker + ": " + strings.Repeat("documentation content ", 5)
}

func TestProcess_HappyPathSingleBatch(t *testing.T) {
	emb := &fakeEmbedder{}
	idx := &fakeIndex{}
	b := NewBatcher(emb, idx)

	chunks := []rag.DocumentChunk{
		chunk("a", validContent("a")),
		chunk("b", validContent("b")),
	}

	stats, err := b.Process(context.Background(), chunks)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Embedded)
	assert.Equal(t, 0, stats.Failed)
	require.Len(t, emb.batchCalls, 1)
	require.Len(t, idx.upserted, 2)
	assert.Equal(t, "a", idx.upserted[0].ID)
	assert.Equal(t, "b", idx.upserted[1].ID)
}

func TestProcess_BatchFailureFallsBackPerChunk(t *testing.T) {
	emb := &fakeEmbedder{
		batchErr: errors.New("one input poisoned the batch"),
		failFor:  "poison",
	}
	idx := &fakeIndex{}
	b := NewBatcher(emb, idx)

	chunks := []rag.DocumentChunk{
		chunk("good-1", validContent("good-1")),
		chunk("bad", validContent("poison")),
		chunk("good-2", validContent("good-2")),
	}

	stats, err := b.Process(context.Background(), chunks)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Embedded)
	assert.Equal(t, 1, stats.Failed)
	require.Len(t, idx.upserted, 2)
	assert.Equal(t, "good-1", idx.upserted[0].ID)
	assert.Equal(t, "good-2", idx.upserted[1].ID)
	// Every chunk in the failing batch got an individual attempt.
	assert.Len(t, emb.embedCalls, 3)
}

func TestProcess_TruncatesOversizedChunkBeforeBatchCall(t *testing.T) {
	emb := &fakeEmbedder{}
	idx := &fakeIndex{}
	b := NewBatcher(emb, idx)

	// ~9000 estimated tokens, well over the 7000 budget.
	oversized := chunk("big", strings.Repeat("y", 36000))

	stats, err := b.Process(context.Background(), []rag.DocumentChunk{oversized})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Embedded)

	require.Len(t, emb.batchCalls, 1)
	require.Len(t, emb.batchCalls[0], 1)
	assert.Equal(t, rag.MaxChunkChars, len(emb.batchCalls[0][0]))
	assert.LessOrEqual(t, rag.EstimateTokens(emb.batchCalls[0][0]), rag.MaxChunkTokens)
}

func TestProcess_TruncationKeepsValidUTF8(t *testing.T) {
	emb := &fakeEmbedder{}
	idx := &fakeIndex{}
	b := NewBatcher(emb, idx)

	// Multi-byte runes arranged so a byte-offset cut would land mid-rune.
	oversized := chunk("cjk", "a"+strings.Repeat("世", 12000))

	stats, err := b.Process(context.Background(), []rag.DocumentChunk{oversized})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Embedded)

	require.Len(t, emb.batchCalls, 1)
	sent := emb.batchCalls[0][0]
	assert.True(t, utf8.ValidString(sent))
	assert.LessOrEqual(t, len(sent), rag.MaxChunkChars)
}

func TestProcess_DropsChunksUnderFloor(t *testing.T) {
	emb := &fakeEmbedder{}
	idx := &fakeIndex{}
	b := NewBatcher(emb, idx)

	chunks := []rag.DocumentChunk{
		chunk("tiny", "too short"),
		chunk("ok", validContent("ok")),
	}

	stats, err := b.Process(context.Background(), chunks)
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Dropped)
	assert.Equal(t, 1, stats.Embedded)
	require.Len(t, idx.upserted, 1)
	assert.Equal(t, "ok", idx.upserted[0].ID)
}

func TestProcess_EmptyInput(t *testing.T) {
	b := NewBatcher(&fakeEmbedder{}, &fakeIndex{})
	stats, err := b.Process(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, stats.Embedded)
}
