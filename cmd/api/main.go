package main

import (
	"context"
	"log"
	"net/http"

	"github.com/perigon/coding-guidelines-rag/internal/config"
	apphttp "github.com/perigon/coding-guidelines-rag/internal/http"
	"github.com/perigon/coding-guidelines-rag/internal/index"
	"github.com/perigon/coding-guidelines-rag/internal/llm"
	"github.com/perigon/coding-guidelines-rag/internal/rag"
)

func main() {
	ctx := context.Background()

	cfg := config.Load()

	pineconeIndex, err := index.NewPineconeIndex(ctx, cfg.PineconeAPIKey)
	if err != nil {
		log.Fatalf("failed to init Pinecone index: %v", err)
	}

	embedder := llm.NewOpenAIEmbedder(cfg.OpenAIAPIKey)
	generator := llm.NewAnthropicGenerator(cfg.AnthropicAPIKey)

	ragService := rag.NewService(embedder, generator, pineconeIndex)

	h := apphttp.NewHandler(ragService)
	router := apphttp.NewRouter(h)

	handler := corsMiddleware(apphttp.WithRequestLog(router))

	addr := ":" + cfg.Port
	log.Printf("API listening on %s", addr)
	log.Fatal(http.ListenAndServe(addr, handler))
}

// The API is consumed from arbitrary origins (editor plugins, local dev
// servers), so CORS is fully permissive.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
