package vectorizer

import (
	"context"
	"log"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/perigon/coding-guidelines-rag/internal/rag"
)

const batchSize = 25

// BatchStats summarizes one embedding run.
type BatchStats struct {
	Embedded int
	Failed   int
	Dropped  int
}

// Batcher embeds chunks in fixed-size batches and writes them to the index,
// tolerating partial failure. Batches run strictly serially; the token
// buckets between calls ARE the rate-limit strategy, so no parallel fan-out.
type Batcher struct {
	embedder rag.Embedder
	index    rag.VectorIndex

	batchLimiter *rate.Limiter
	chunkLimiter *rate.Limiter
}

func NewBatcher(embedder rag.Embedder, index rag.VectorIndex) *Batcher {
	return &Batcher{
		embedder:     embedder,
		index:        index,
		batchLimiter: rate.NewLimiter(rate.Every(time.Second), 1),
		chunkLimiter: rate.NewLimiter(rate.Every(200*time.Millisecond), 1),
	}
}

// Process embeds and upserts every chunk. A failing batch is retried at
// per-chunk granularity; chunks that still fail are logged and permanently
// dropped from this run, never retried with backoff.
func (b *Batcher) Process(ctx context.Context, chunks []rag.DocumentChunk) (BatchStats, error) {
	var stats BatchStats

	chunks, dropped := sanitize(chunks)
	stats.Dropped = dropped

	for start := 0; start < len(chunks); start += batchSize {
		end := start + batchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[start:end]

		if err := b.batchLimiter.Wait(ctx); err != nil {
			return stats, err
		}

		if err := b.processBatch(ctx, batch); err != nil {
			// One oversized or malformed input poisons the whole batch;
			// retry its chunks one by one so the rest still land.
			log.Printf("batch %d-%d failed (%v), falling back to individual embedding", start, end-1, err)
			embedded, failed, err := b.processIndividually(ctx, batch)
			if err != nil {
				return stats, err
			}
			stats.Embedded += embedded
			stats.Failed += failed
			continue
		}
		stats.Embedded += len(batch)
	}

	return stats, nil
}

func (b *Batcher) processBatch(ctx context.Context, batch []rag.DocumentChunk) error {
	texts := make([]string, len(batch))
	for i, c := range batch {
		texts[i] = c.Content
	}

	vecs, err := b.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return err
	}

	records := make([]rag.VectorRecord, len(batch))
	for i, c := range batch {
		records[i] = rag.VectorRecord{
			ID:       c.ID,
			Values:   vecs[i],
			Content:  c.Content,
			Metadata: c.Metadata,
		}
	}
	return b.index.Upsert(ctx, records)
}

// processIndividually is the fallback path: per-chunk embed+upsert, failures
// logged and skipped. Only a cancelled context aborts the run.
func (b *Batcher) processIndividually(ctx context.Context, batch []rag.DocumentChunk) (embedded, failed int, err error) {
	for _, c := range batch {
		if err := b.chunkLimiter.Wait(ctx); err != nil {
			return embedded, failed, err
		}

		vec, err := b.embedder.Embed(ctx, c.Content)
		if err != nil {
			log.Printf("chunk %s: embedding failed, dropped from this run: %v", c.ID, err)
			failed++
			continue
		}
		err = b.index.Upsert(ctx, []rag.VectorRecord{{
			ID:       c.ID,
			Values:   vec,
			Content:  c.Content,
			Metadata: c.Metadata,
		}})
		if err != nil {
			log.Printf("chunk %s: upsert failed, dropped from this run: %v", c.ID, err)
			failed++
			continue
		}
		embedded++
	}
	return embedded, failed, nil
}

// sanitize re-checks every chunk before any API call: belt and suspenders
// against the splitter under-estimating. Over-budget chunks are truncated in
// place; chunks under the floor are dropped.
func sanitize(chunks []rag.DocumentChunk) ([]rag.DocumentChunk, int) {
	out := make([]rag.DocumentChunk, 0, len(chunks))
	dropped := 0
	for _, c := range chunks {
		if len(strings.TrimSpace(c.Content)) < rag.MinChunkChars {
			log.Printf("chunk %s: under %d chars, dropped", c.ID, rag.MinChunkChars)
			dropped++
			continue
		}
		if rag.EstimateTokens(c.Content) > rag.MaxChunkTokens {
			log.Printf("chunk %s: over token budget (%d), truncating", c.ID, rag.EstimateTokens(c.Content))
			c.Content = rag.TruncateToChars(c.Content, rag.MaxChunkChars)
		}
		out = append(out, c)
	}
	return out, dropped
}
