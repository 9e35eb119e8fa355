package rag

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
)

const (
	// DefaultSearchResults caps direct /api/search queries.
	DefaultSearchResults = 8
	// DefaultGenerateResults caps the context fetched for generation.
	DefaultGenerateResults = 12
)

// Service wires retrieval and generation over the shared vector index.
// Clients come in via the constructor so the service is testable with fakes.
type Service struct {
	embedder  Embedder
	generator Generator
	index     VectorIndex
}

func NewService(embedder Embedder, generator Generator, index VectorIndex) *Service {
	return &Service{
		embedder:  embedder,
		generator: generator,
		index:     index,
	}
}

// Search embeds the query and returns the top maxResults matches, best
// first. Retrieval never fails the caller: any embedding or index error is
// logged and degraded to an empty result list.
func (s *Service) Search(ctx context.Context, query string, maxResults int) []RetrievedDocument {
	if maxResults <= 0 {
		maxResults = DefaultSearchResults
	}

	vec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		log.Printf("search: embedding query failed: %v", err)
		return []RetrievedDocument{}
	}

	docs, err := s.index.Query(ctx, vec, maxResults)
	if err != nil {
		log.Printf("search: index query failed: %v", err)
		return []RetrievedDocument{}
	}

	// The index returns sorted matches already; sort defensively anyway.
	sort.SliceStable(docs, func(i, j int) bool { return docs[i].Score > docs[j].Score })

	return docs
}

// Generate runs the full serving pipeline for one request: retrieve context,
// assemble prompts, call the model, parse the reply. Zero retrieved context
// still attempts a degraded generation; only the generation call itself is
// allowed to fail the request.
func (s *Service) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return nil, errors.New("prompt is required")
	}

	maxResults := req.MaxResults
	if maxResults <= 0 {
		maxResults = DefaultGenerateResults
	}

	docs := s.Search(ctx, prompt, maxResults)
	if len(docs) == 0 {
		log.Printf("generate: no context retrieved, generating without documentation")
	}

	systemPrompt := AssemblePrompt(docs)
	userPrompt := BuildUserPrompt(prompt, req.Context)

	reply, err := s.generator.Generate(ctx, systemPrompt, userPrompt)
	if err != nil {
		log.Printf("generate: model call failed: %v", err)
		return nil, fmt.Errorf("code generation failed: %w", err)
	}

	return FormatResponse(reply, docs), nil
}

// Health reports index stats for the health endpoint; a stats failure means
// unhealthy, never an error.
func (s *Service) Health(ctx context.Context) (bool, *IndexStats) {
	stats, err := s.index.Stats(ctx)
	if err != nil {
		log.Printf("health: index stats failed: %v", err)
		return false, nil
	}
	return true, stats
}
