// Package suggest proposes a category for a transaction description.
//
// The model is constrained to the caller-supplied category list; anything
// outside it falls back to the default category.
package suggest

import (
	"context"
	"fmt"
	"strings"

	"fintrack/internal/core"

	openai "github.com/sashabaranov/go-openai"
)

// completer is the slice of the OpenAI client the suggester needs.
type completer interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

type Suggester struct {
	client completer
	model  string
}

// New builds a suggester backed by the OpenAI API.
func New(apiKey, model string) *Suggester {
	return &Suggester{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

// newWithClient is used by tests to inject a fake completer.
func newWithClient(client completer, model string) *Suggester {
	return &Suggester{client: client, model: model}
}

// Suggest returns one category from categories that best matches the
// description. Unknown model answers degrade to core.DefaultCategory.
func (s *Suggester) Suggest(ctx context.Context, description string, categories []string) (string, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return "", core.ErrEmptyDescription
	}
	if len(categories) == 0 {
		return core.DefaultCategory, nil
	}

	prompt := fmt.Sprintf(
		"Assign the personal-finance transaction %q to exactly one of these categories: %s. "+
			"Answer with the category name only.",
		description, strings.Join(categories, ", "))

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     s.model,
		MaxTokens: 16,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return core.DefaultCategory, nil
	}

	answer := strings.TrimSpace(strings.Trim(resp.Choices[0].Message.Content, `".`))
	for _, c := range categories {
		if strings.EqualFold(c, answer) {
			return c, nil
		}
	}
	return core.DefaultCategory, nil
}
