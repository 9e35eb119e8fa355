package rag

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetDocumentType(t *testing.T) {
	tests := []struct {
		path string
		want DocumentType
	}{
		{"components/Button.md", TypeComponent},
		{"design-system/tokens.md", TypeDesignSystem},
		{"coding-patterns/data-fetching.md", TypeCodingPatterns},
		{"architecture/overview.md", TypeAppArchitecture},
		{"services/news-api.md", TypeServices},
		{"query-hooks/useArticles.md", TypeQueryHooks},
		{"types/article.md", TypeTypes},
		{"misc/notes.md", TypeGeneralDocs},
		{"changelog.md", TypeGeneralDocs},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, GetDocumentType(tt.path), "path %s", tt.path)
	}
}

func TestGetDocumentType_ReadmeWinsEverywhere(t *testing.T) {
	assert.Equal(t, TypeReadme, GetDocumentType("README.md"))
	assert.Equal(t, TypeReadme, GetDocumentType("components/README.md"))
	assert.Equal(t, TypeReadme, GetDocumentType("design-system/readme.txt.md"))
	assert.Equal(t, TypeReadme, GetDocumentType("services/ReadMe.md"))
}

func TestGetDocumentType_NearestSegmentWins(t *testing.T) {
	assert.Equal(t, TypeComponent, GetDocumentType("design-system/components/Button.md"))
	assert.Equal(t, TypeDesignSystem, GetDocumentType("components/design-system/colors.md"))
}

func TestGetDocumentType_Idempotent(t *testing.T) {
	path := "services/payments/stripe.md"
	first := GetDocumentType(path)
	for i := 0; i < 3; i++ {
		assert.Equal(t, first, GetDocumentType(path))
	}
}

func TestPathHelpers(t *testing.T) {
	assert.Equal(t, "components", Category("components/Button.md"))
	assert.Equal(t, "general", Category("intro.md"))

	assert.Equal(t, "", Subcategory("components/Button.md"))
	assert.Equal(t, "advanced", Subcategory("guides/advanced/tips.md"))
	assert.Equal(t, "advanced/edge", Subcategory("guides/advanced/edge/cases.md"))

	assert.Equal(t, "Button", Filename("components/Button.md"))
	assert.Equal(t, "README", Filename("README.md"))
}
