package rag

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	// MaxChunkTokens is the embedding model's per-input ceiling. Tokens are
	// estimated as ceil(chars/4), so this is enforced without a tokenizer.
	MaxChunkTokens = 7000
	// MaxChunkChars bounds the hard-truncation fallback for single sentences
	// that alone blow the token budget.
	MaxChunkChars = MaxChunkTokens * 3
	// MinChunkChars is the floor under which a split fragment carries no
	// useful retrieval signal and is dropped.
	MinChunkChars = 50

	// minSectionChars is the flush threshold for a header section; shorter
	// sections are boundary noise, except the trailing one which always
	// emits.
	minSectionChars = 100

	sectionFullDocument = "full-document"
)

var (
	headerRe    = regexp.MustCompile(`(?m)^(#{1,6})[ \t]+(.+)$`)
	paragraphRe = regexp.MustCompile(`\n[ \t]*\n`)
	sentenceRe  = regexp.MustCompile(`[.!?]+(?:\s+|$)`)
	slugRe      = regexp.MustCompile(`[^a-z0-9]+`)
)

// EstimateTokens approximates the embedding tokenizer at four chars per
// token, rounding up.
func EstimateTokens(s string) int {
	return (len(s) + 3) / 4
}

// SplitDocument turns one document's raw text into chunks that respect
// header boundaries where the document has them and never exceed the token
// budget. meta carries the path-derived fields; section and id are filled in
// per chunk.
func SplitDocument(content string, meta ChunkMetadata) []DocumentChunk {
	var chunks []DocumentChunk
	counter := 0

	// Subcategory is part of the id so two same-named files in sibling
	// subdirectories never collide on upsert.
	idPrefix := meta.Category + "-" + meta.Filename
	if meta.Subcategory != "" {
		idPrefix = meta.Category + "-" + Slugify(meta.Subcategory) + "-" + meta.Filename
	}

	emit := func(text, section string) {
		chunks = append(chunks, DocumentChunk{
			ID:      fmt.Sprintf("%s-%s-%d", idPrefix, section, counter),
			Content: text,
			Metadata: ChunkMetadata{
				Source:      meta.Source,
				Filename:    meta.Filename,
				Category:    meta.Category,
				Subcategory: meta.Subcategory,
				Section:     section,
				Type:        meta.Type,
				Path:        meta.Path,
			},
		})
		counter++
	}

	headers := headerRe.FindAllStringSubmatchIndex(content, -1)
	if len(headers) == 0 {
		// No header structure at all: token-bounded split of the whole doc.
		for _, part := range splitByTokenBudget(content) {
			emit(part, sectionFullDocument)
		}
		return chunks
	}

	// Text before the first header has no title of its own; keep it only
	// when substantial.
	if pre := strings.TrimSpace(content[:headers[0][0]]); len(pre) > minSectionChars {
		for _, part := range splitByTokenBudget(pre) {
			emit(part, sectionFullDocument)
		}
	}

	for i, m := range headers {
		title := content[m[4]:m[5]]
		end := len(content)
		if i+1 < len(headers) {
			end = headers[i+1][0]
		}
		// The section keeps its header markup so a retrieved chunk still
		// reads as a titled excerpt.
		section := strings.TrimSpace(content[m[0]:end])

		last := i+1 == len(headers)
		if !last && len(section) <= minSectionChars {
			continue
		}
		for _, part := range splitByTokenBudget(section) {
			emit(part, Slugify(title))
		}
	}

	return chunks
}

// splitByTokenBudget emits text as-is when it fits the budget, otherwise
// greedily packs paragraphs, falling back to sentences and finally to hard
// truncation. Fragments produced by splitting are dropped under
// MinChunkChars.
func splitByTokenBudget(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if EstimateTokens(text) <= MaxChunkTokens {
		return []string{text}
	}

	var out []string
	var buf strings.Builder
	flush := func() {
		s := strings.TrimSpace(buf.String())
		buf.Reset()
		if len(s) >= MinChunkChars {
			out = append(out, s)
		}
	}

	for _, p := range paragraphRe.Split(text, -1) {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if EstimateTokens(p) > MaxChunkTokens {
			// A single paragraph over budget (giant tables, minified code
			// blocks) gets the sentence-level treatment.
			flush()
			out = append(out, splitBySentences(p)...)
			continue
		}
		// Estimate the joined text, not the operands: two ceil-rounded
		// estimates plus the joiner could sneak past the budget.
		if buf.Len() > 0 && EstimateTokens(buf.String()+"\n\n"+p) > MaxChunkTokens {
			flush()
		}
		if buf.Len() > 0 {
			buf.WriteString("\n\n")
		}
		buf.WriteString(p)
	}
	flush()

	return out
}

func splitBySentences(paragraph string) []string {
	var out []string
	var buf strings.Builder
	flush := func() {
		s := strings.TrimSpace(buf.String())
		buf.Reset()
		if len(s) >= MinChunkChars {
			out = append(out, s)
		}
	}

	for _, s := range splitSentences(paragraph) {
		if EstimateTokens(s) > MaxChunkTokens {
			// One sentence alone over budget: truncate rather than recurse.
			flush()
			out = append(out, TruncateToChars(s, MaxChunkChars)+"...")
			continue
		}
		if buf.Len() > 0 && EstimateTokens(buf.String()+" "+s) > MaxChunkTokens {
			flush()
		}
		if buf.Len() > 0 {
			buf.WriteString(" ")
		}
		buf.WriteString(s)
	}
	flush()

	return out
}

// splitSentences cuts after terminal punctuation, keeping the punctuation
// with its sentence.
func splitSentences(text string) []string {
	var sentences []string
	start := 0
	for _, loc := range sentenceRe.FindAllStringIndex(text, -1) {
		s := strings.TrimSpace(text[start:loc[1]])
		if s != "" {
			sentences = append(sentences, s)
		}
		start = loc[1]
	}
	if tail := strings.TrimSpace(text[start:]); tail != "" {
		sentences = append(sentences, tail)
	}
	return sentences
}

// TruncateToChars cuts s to at most max bytes without splitting a rune.
func TruncateToChars(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}

// Slugify normalizes a header title into an id-safe section slug.
func Slugify(title string) string {
	slug := strings.Trim(slugRe.ReplaceAllString(strings.ToLower(title), "-"), "-")
	if slug == "" {
		return "section"
	}
	return slug
}
