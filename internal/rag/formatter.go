package rag

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Best-effort text parsing: the model reply has no guaranteed format, so the
// formatter extracts what it can and degrades to treating the whole reply as
// code when no fenced block is present.
var (
	codeBlockRe = regexp.MustCompile("(?s)```(?:tsx|ts|jsx|js)?[ \t]*\n(.*?)```")
	importRe    = regexp.MustCompile(`import\s*\{([^}]+)\}\s*from\s*['"]@/perigon/components['"]`)
)

// FormatResponse parses the raw model reply against the documents that
// informed it into the response DTO.
func FormatResponse(reply string, docs []RetrievedDocument) *GenerateResponse {
	code := reply
	explanation := ""

	if m := codeBlockRe.FindStringSubmatch(reply); m != nil {
		// Only the first fenced block becomes code; the reply with every
		// fenced block stripped is the explanation.
		code = strings.TrimSpace(m[1])
		explanation = strings.TrimSpace(codeBlockRe.ReplaceAllString(reply, ""))
	}

	return &GenerateResponse{
		Code:        code,
		Explanation: explanation,
		Components:  extractComponents(code, docs),
		ContextUsed: describeContext(docs),
	}
}

// extractComponents collects every referenced UI component name: filenames of
// component-typed docs plus anything imported from '@/perigon/components' in
// the generated code or the retrieved contents.
func extractComponents(code string, docs []RetrievedDocument) []string {
	seen := make(map[string]bool)

	add := func(name string) {
		name = strings.TrimSpace(name)
		if name != "" && !seen[name] {
			seen[name] = true
		}
	}

	scanImports := func(text string) {
		for _, m := range importRe.FindAllStringSubmatch(text, -1) {
			for _, name := range strings.Split(m[1], ",") {
				add(name)
			}
		}
	}

	for _, d := range docs {
		if d.Metadata.Type == TypeComponent {
			add(d.Metadata.Filename)
		}
		scanImports(d.Content)
	}
	scanImports(code)

	components := make([]string, 0, len(seen))
	for name := range seen {
		components = append(components, name)
	}
	sort.Strings(components)
	return components
}

// describeContext renders one human-readable line per retrieved document.
func describeContext(docs []RetrievedDocument) []string {
	lines := make([]string, 0, len(docs))
	for _, d := range docs {
		lines = append(lines, fmt.Sprintf("%s: %s - %s", d.Metadata.Type, d.Metadata.Filename, d.Metadata.Section))
	}
	return lines
}
