package vectorizer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/perigon/coding-guidelines-rag/internal/rag"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestWalk(t *testing.T) {
	root := t.TempDir()

	button := "# Button\n\n" + strings.Repeat("The Button component renders a clickable action. ", 3)
	writeFile(t, root, "components/Button.md", button)
	writeFile(t, root, "README.md", strings.Repeat("Project overview. ", 5))
	writeFile(t, root, "short.md", "tiny")
	writeFile(t, root, "assets/logo.png", "not markdown at all, skipped by extension")

	chunks, stats, err := NewWalker(root).Walk()
	require.NoError(t, err)

	assert.Equal(t, 2, stats.FilesProcessed)
	assert.Equal(t, 1, stats.FilesSkipped) // short.md; the png never qualifies
	assert.Equal(t, len(chunks), stats.Chunks)
	require.NotEmpty(t, chunks)

	byFile := make(map[string]rag.DocumentChunk)
	for _, c := range chunks {
		byFile[c.Metadata.Filename] = c
	}

	btn, ok := byFile["Button"]
	require.True(t, ok)
	assert.Equal(t, "components", btn.Metadata.Category)
	assert.Equal(t, rag.TypeComponent, btn.Metadata.Type)
	assert.Equal(t, "components/Button.md", btn.Metadata.Path)
	assert.True(t, filepath.IsAbs(btn.Metadata.Source))

	readme, ok := byFile["README"]
	require.True(t, ok)
	assert.Equal(t, rag.TypeReadme, readme.Metadata.Type)
	assert.Equal(t, "general", readme.Metadata.Category)
}

func TestWalk_MissingRoot(t *testing.T) {
	chunks, stats, err := NewWalker(filepath.Join(t.TempDir(), "nope")).Walk()

	// An unreadable root is reported through the per-entry callback; the
	// walk itself still completes.
	require.NoError(t, err)
	assert.Empty(t, chunks)
	assert.Equal(t, 1, stats.FilesSkipped)
}

func TestAcceptFile(t *testing.T) {
	assert.True(t, acceptFile("Button.md"))
	assert.True(t, acceptFile("README"))
	assert.True(t, acceptFile("readme.txt"))
	assert.False(t, acceptFile("logo.png"))
	assert.False(t, acceptFile("example.tsx"))
}
