package rag

import (
	"fmt"
	"strings"

	wl "github.com/abadojack/whatlanggo"
)

// Section order is fixed so the model always sees context blocks in the same
// shape: architecture first, concrete component docs in the middle,
// miscellany last.
var promptSections = []struct {
	docType DocumentType
	label   string
}{
	{TypeAppArchitecture, "APPLICATION ARCHITECTURE"},
	{TypeCodingPatterns, "CODING PATTERNS"},
	{TypeComponent, "COMPONENT DOCUMENTATION"},
	{TypeDesignSystem, "DESIGN SYSTEM"},
	{TypeServices, "SERVICES"},
	{TypeQueryHooks, "QUERY HOOKS"},
	{TypeTypes, "TYPE DEFINITIONS"},
	{TypeReadme, "README FILES"},
	{TypeGeneralDocs, "GENERAL DOCUMENTATION"},
}

const groupSeparator = "\n\n---\n\n"

const promptHeader = `You are an expert React/TypeScript engineer generating code for the Perigon application. Follow the documentation excerpts below exactly; they are the source of truth for this codebase.

RULES:
- Generate React function components in TypeScript with explicit prop interfaces.
- Import UI primitives only from '@/perigon/components', e.g. import { Button, Card } from '@/perigon/components'.
- Import query hooks from '@/perigon/hooks' and services from '@/perigon/services'.
- Never invent components, props, hooks or tokens that are not documented below.
- Use design tokens instead of raw values for all typography, color and spacing.

TYPOGRAPHY TOKENS:
| Token          | Usage            |
| text-display   | Page titles      |
| text-heading   | Section headings |
| text-body      | Body copy        |
| text-caption   | Helper text      |

COLOR TOKENS:
| Token            | Usage                    |
| color-primary    | Primary actions          |
| color-surface    | Card/panel backgrounds   |
| color-border     | Dividers and outlines    |
| color-danger     | Destructive actions      |
| color-muted      | Secondary text           |

SPACING TOKENS:
| Token     | Value  |
| space-xs  | 4px    |
| space-sm  | 8px    |
| space-md  | 16px   |
| space-lg  | 24px   |
| space-xl  | 40px   |

After the code block, add a short explanation of what the component does and how it uses the documented patterns.`

// AssemblePrompt builds the system prompt: the fixed instructional template
// followed by the retrieved documents grouped by type. Pure templating; an
// empty group contributes nothing.
func AssemblePrompt(docs []RetrievedDocument) string {
	groups := make(map[DocumentType][]string)
	for _, d := range docs {
		groups[d.Metadata.Type] = append(groups[d.Metadata.Type], d.Content)
	}

	var b strings.Builder
	b.WriteString(promptHeader)

	for _, sec := range promptSections {
		contents, ok := groups[sec.docType]
		if !ok {
			continue
		}
		b.WriteString("\n\n## ")
		b.WriteString(sec.label)
		b.WriteString("\n\n")
		b.WriteString(strings.Join(contents, groupSeparator))
	}

	return b.String()
}

// BuildUserPrompt merges the request's prompt and optional extra context into
// the user message. Non-English prompts get a reply-language hint; generated
// code stays TypeScript either way.
func BuildUserPrompt(prompt, extraContext string) string {
	var b strings.Builder
	b.WriteString("Generate the following:\n")
	b.WriteString(strings.TrimSpace(prompt))

	if c := strings.TrimSpace(extraContext); c != "" {
		b.WriteString("\n\nAdditional context from the caller:\n")
		b.WriteString(c)
	}

	if lang := detectLanguage(prompt); lang != "" {
		fmt.Fprintf(&b, "\n\nWrite the explanation in %s. Keep the code and identifiers in English.", lang)
	}

	return b.String()
}

// detectLanguage returns a display name for the prompt's language, or ""
// for English/undetermined.
func detectLanguage(s string) string {
	info := wl.Detect(s)
	if !info.IsReliable() || info.Lang == wl.Eng {
		return ""
	}
	switch info.Lang {
	case wl.Por:
		return "Portuguese"
	case wl.Spa:
		return "Spanish"
	case wl.Fra:
		return "French"
	case wl.Deu:
		return "German"
	default:
		return wl.LangToString(info.Lang)
	}
}
