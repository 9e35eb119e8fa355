package rag

// DocumentType classifies a doc file by where it sits in the docs tree.
// Typed to avoid loose strings across both pipelines.
type DocumentType string

const (
	TypeComponent       DocumentType = "component"
	TypeDesignSystem    DocumentType = "design-system"
	TypeCodingPatterns  DocumentType = "coding-patterns"
	TypeAppArchitecture DocumentType = "app-architecture"
	TypeServices        DocumentType = "services"
	TypeQueryHooks      DocumentType = "query-hooks"
	TypeTypes           DocumentType = "types"
	TypeGeneralDocs     DocumentType = "general-docs"
	TypeReadme          DocumentType = "readme"
)

// ChunkMetadata travels with every vector into the index and back out
// with every search match.
type ChunkMetadata struct {
	Source      string       `json:"source"`
	Filename    string       `json:"filename"`
	Category    string       `json:"category"`
	Subcategory string       `json:"subcategory,omitempty"`
	Section     string       `json:"section"`
	Type        DocumentType `json:"type"`
	Path        string       `json:"path"`
}

// DocumentChunk is the unit of embedding: one bounded slice of one doc file.
type DocumentChunk struct {
	ID       string        `json:"id"`
	Content  string        `json:"content"`
	Metadata ChunkMetadata `json:"metadata"`
}

// RetrievedDocument is one similarity-search match, ordered by score.
type RetrievedDocument struct {
	Content  string        `json:"content"`
	Metadata ChunkMetadata `json:"metadata"`
	Score    float32       `json:"score"`
}

// GenerateRequest is the /api/generate payload.
type GenerateRequest struct {
	Prompt     string `json:"prompt"`
	Context    string `json:"context,omitempty"`
	MaxResults int    `json:"maxResults,omitempty"`
}

// GenerateResponse carries the parsed model reply back to the caller.
type GenerateResponse struct {
	Code        string   `json:"code"`
	Explanation string   `json:"explanation"`
	Components  []string `json:"components"`
	ContextUsed []string `json:"context_used"`
}

// SearchResponse wraps /api/search results.
type SearchResponse struct {
	Results []RetrievedDocument `json:"results"`
}

// IndexStats is what the vector index reports for /health.
type IndexStats struct {
	TotalVectorCount uint32  `json:"totalVectorCount"`
	Dimension        uint32  `json:"dimension"`
	IndexFullness    float32 `json:"indexFullness"`
}
