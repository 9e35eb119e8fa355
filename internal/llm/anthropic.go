package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/perigon/coding-guidelines-rag/internal/rag"
)

const (
	generationModel     = anthropic.ModelClaudeSonnet4_0
	generationMaxTokens = 4096
)

// AnthropicGenerator produces the code+explanation reply from the assembled
// prompts.
type AnthropicGenerator struct {
	client anthropic.Client
}

func NewAnthropicGenerator(apiKey string) *AnthropicGenerator {
	return &AnthropicGenerator{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
	}
}

func (g *AnthropicGenerator) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	msg, err := g.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     generationModel,
		MaxTokens: generationMaxTokens,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic messages error: %w", err)
	}

	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}

	reply := strings.TrimSpace(b.String())
	if reply == "" {
		return "", fmt.Errorf("model returned empty reply")
	}
	return reply, nil
}

var _ rag.Generator = (*AnthropicGenerator)(nil)
