// Package index wraps the hosted Pinecone index behind the rag.VectorIndex
// interface. The index is pre-provisioned externally (1536 dims, cosine);
// this package never creates or migrates it.
package index

import (
	"context"
	"fmt"

	"github.com/pinecone-io/go-pinecone/v3/pinecone"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/perigon/coding-guidelines-rag/internal/rag"
)

const (
	// IndexName is the single shared collection both pipelines use.
	IndexName = "perigon-coding-guidelines"
	// maxMetadataContentChars bounds the chunk text copied into vector
	// metadata, below Pinecone's per-record metadata ceiling.
	maxMetadataContentChars = 40000
)

// PineconeIndex implements rag.VectorIndex over one named Pinecone index.
type PineconeIndex struct {
	conn *pinecone.IndexConnection
}

// NewPineconeIndex resolves the index host and opens a connection to it.
func NewPineconeIndex(ctx context.Context, apiKey string) (*PineconeIndex, error) {
	pc, err := pinecone.NewClient(pinecone.NewClientParams{ApiKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("create pinecone client: %w", err)
	}

	idx, err := pc.DescribeIndex(ctx, IndexName)
	if err != nil {
		return nil, fmt.Errorf("describe index %q: %w", IndexName, err)
	}

	conn, err := pc.Index(pinecone.NewIndexConnParams{Host: idx.Host})
	if err != nil {
		return nil, fmt.Errorf("connect to index %q: %w", IndexName, err)
	}

	return &PineconeIndex{conn: conn}, nil
}

func (p *PineconeIndex) Upsert(ctx context.Context, records []rag.VectorRecord) error {
	if len(records) == 0 {
		return nil
	}

	vectors := make([]*pinecone.Vector, 0, len(records))
	for _, r := range records {
		md, err := metadataStruct(r)
		if err != nil {
			return fmt.Errorf("build metadata for %s: %w", r.ID, err)
		}
		values := r.Values
		vectors = append(vectors, &pinecone.Vector{
			Id:       r.ID,
			Values:   &values,
			Metadata: md,
		})
	}

	if _, err := p.conn.UpsertVectors(ctx, vectors); err != nil {
		return fmt.Errorf("upsert %d vectors: %w", len(vectors), err)
	}
	return nil
}

func (p *PineconeIndex) Query(ctx context.Context, vector []float32, topK int) ([]rag.RetrievedDocument, error) {
	if topK <= 0 {
		topK = rag.DefaultSearchResults
	}

	res, err := p.conn.QueryByVectorValues(ctx, &pinecone.QueryByVectorValuesRequest{
		Vector:          vector,
		TopK:            uint32(topK),
		IncludeValues:   false,
		IncludeMetadata: true,
	})
	if err != nil {
		return nil, fmt.Errorf("query index: %w", err)
	}

	docs := make([]rag.RetrievedDocument, 0, len(res.Matches))
	for _, m := range res.Matches {
		if m.Vector == nil {
			continue
		}
		content, meta := metadataFromStruct(m.Vector.Metadata)
		docs = append(docs, rag.RetrievedDocument{
			Content:  content,
			Metadata: meta,
			Score:    m.Score,
		})
	}
	return docs, nil
}

func (p *PineconeIndex) Stats(ctx context.Context) (*rag.IndexStats, error) {
	stats, err := p.conn.DescribeIndexStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("describe index stats: %w", err)
	}
	var dimension uint32
	if stats.Dimension != nil {
		dimension = *stats.Dimension
	}
	return &rag.IndexStats{
		TotalVectorCount: stats.TotalVectorCount,
		Dimension:        dimension,
		IndexFullness:    stats.IndexFullness,
	}, nil
}

// Clear wipes the whole index. Re-vectorization is destructive: the caller
// clears first, then rewrites everything.
func (p *PineconeIndex) Clear(ctx context.Context) error {
	if err := p.conn.DeleteAllVectorsInNamespace(ctx); err != nil {
		return fmt.Errorf("clear index: %w", err)
	}
	return nil
}

func metadataStruct(r rag.VectorRecord) (*pinecone.Metadata, error) {
	content := r.Content
	if len(content) > maxMetadataContentChars {
		content = content[:maxMetadataContentChars]
	}
	return structpb.NewStruct(map[string]interface{}{
		"content":     content,
		"source":      r.Metadata.Source,
		"filename":    r.Metadata.Filename,
		"category":    r.Metadata.Category,
		"subcategory": r.Metadata.Subcategory,
		"section":     r.Metadata.Section,
		"type":        string(r.Metadata.Type),
		"path":        r.Metadata.Path,
	})
}

func metadataFromStruct(md *pinecone.Metadata) (string, rag.ChunkMetadata) {
	if md == nil {
		return "", rag.ChunkMetadata{Type: rag.TypeGeneralDocs}
	}

	fields := md.AsMap()
	str := func(key string) string {
		if v, ok := fields[key].(string); ok {
			return v
		}
		return ""
	}

	docType := rag.DocumentType(str("type"))
	if docType == "" {
		docType = rag.TypeGeneralDocs
	}

	return str("content"), rag.ChunkMetadata{
		Source:      str("source"),
		Filename:    str("filename"),
		Category:    str("category"),
		Subcategory: str("subcategory"),
		Section:     str("section"),
		Type:        docType,
		Path:        str("path"),
	}
}

var _ rag.VectorIndex = (*PineconeIndex)(nil)
