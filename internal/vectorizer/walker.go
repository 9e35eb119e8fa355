// Package vectorizer holds the offline pipeline: walk the docs tree, split
// files into chunks, embed them in batches and write them to the index.
package vectorizer

import (
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/perigon/coding-guidelines-rag/internal/rag"
)

// minFileChars is the floor under which a file carries no useful retrieval
// signal and is skipped outright.
const minFileChars = 50

// WalkStats summarizes one traversal for the run's closing log line.
type WalkStats struct {
	FilesProcessed int
	FilesSkipped   int
	Chunks         int
}

// Walker enumerates a documentation root and splits every accepted file.
type Walker struct {
	root string
}

func NewWalker(root string) *Walker {
	return &Walker{root: root}
}

// Walk visits every regular file under the root in walk order, selecting
// markdown and README-named files, and returns the chunks of every file that
// survives the filters. A read error on one file never aborts the run; it is
// logged and counted as skipped.
func (w *Walker) Walk() ([]rag.DocumentChunk, WalkStats, error) {
	var chunks []rag.DocumentChunk
	var stats WalkStats

	err := filepath.WalkDir(w.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			log.Printf("walk: cannot access %s: %v", path, err)
			stats.FilesSkipped++
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if !acceptFile(d.Name()) {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			log.Printf("walk: cannot read %s: %v", path, err)
			stats.FilesSkipped++
			return nil
		}

		content := string(data)
		if len(strings.TrimSpace(content)) < minFileChars {
			log.Printf("walk: skipping %s: too short", path)
			stats.FilesSkipped++
			return nil
		}

		relPath, err := filepath.Rel(w.root, path)
		if err != nil {
			log.Printf("walk: cannot relativize %s: %v", path, err)
			stats.FilesSkipped++
			return nil
		}
		relPath = filepath.ToSlash(relPath)

		absPath, err := filepath.Abs(path)
		if err != nil {
			absPath = path
		}

		fileChunks := rag.SplitDocument(content, rag.ChunkMetadata{
			Source:      absPath,
			Filename:    rag.Filename(relPath),
			Category:    rag.Category(relPath),
			Subcategory: rag.Subcategory(relPath),
			Type:        rag.GetDocumentType(relPath),
			Path:        relPath,
		})

		chunks = append(chunks, fileChunks...)
		stats.FilesProcessed++
		stats.Chunks += len(fileChunks)
		log.Printf("walk: %s -> %d chunks (type=%s)", relPath, len(fileChunks), rag.GetDocumentType(relPath))
		return nil
	})
	if err != nil {
		return nil, stats, err
	}

	return chunks, stats, nil
}

// acceptFile selects markdown and README-named files, skipping everything
// else in the tree (images, code samples, etc).
func acceptFile(name string) bool {
	lower := strings.ToLower(name)
	return strings.HasSuffix(lower, ".md") || strings.HasPrefix(lower, "readme")
}
