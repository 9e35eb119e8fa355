package main

import (
	"context"
	"log"

	"github.com/perigon/coding-guidelines-rag/internal/config"
	"github.com/perigon/coding-guidelines-rag/internal/index"
	"github.com/perigon/coding-guidelines-rag/internal/llm"
	"github.com/perigon/coding-guidelines-rag/internal/vectorizer"
)

// docsRoot is fixed relative to the working directory; the vectorizer takes
// no flags.
const docsRoot = "docs"

func main() {
	ctx := context.Background()

	cfg := config.Load()

	pineconeIndex, err := index.NewPineconeIndex(ctx, cfg.PineconeAPIKey)
	if err != nil {
		log.Fatalf("failed to init Pinecone index: %v", err)
	}
	embedder := llm.NewOpenAIEmbedder(cfg.OpenAIAPIKey)

	// Re-vectorization is destructive: clear everything, then rewrite. A
	// crash mid-run leaves a partial index; rerun to recover.
	log.Printf("clearing index %s", index.IndexName)
	if err := pineconeIndex.Clear(ctx); err != nil {
		log.Fatalf("failed to clear index: %v", err)
	}

	walker := vectorizer.NewWalker(docsRoot)
	chunks, walkStats, err := walker.Walk()
	if err != nil {
		log.Fatalf("failed to walk %s: %v", docsRoot, err)
	}
	log.Printf("walked %s: %d files processed, %d skipped, %d chunks",
		docsRoot, walkStats.FilesProcessed, walkStats.FilesSkipped, walkStats.Chunks)

	batcher := vectorizer.NewBatcher(embedder, pineconeIndex)
	batchStats, err := batcher.Process(ctx, chunks)
	if err != nil {
		log.Fatalf("vectorization aborted: %v", err)
	}

	log.Printf("vectorization complete: %d embedded, %d failed, %d dropped",
		batchStats.Embedded, batchStats.Failed, batchStats.Dropped)
}
