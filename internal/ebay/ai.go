package ebay

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// Refiner polishes the templated title with a language model. The
// deterministic pipeline stays authoritative: any error here is logged by
// the caller and the fallback title is kept.
type Refiner struct {
	client *openai.Client
}

func NewRefiner(apiKey string) *Refiner {
	if apiKey == "" {
		return nil
	}
	return &Refiner{client: openai.NewClient(apiKey)}
}

func (r *Refiner) Title(ctx context.Context, title, brand string) (string, error) {
	prompt := fmt.Sprintf(
		"Rewrite this eBay listing title to be clear and keyword-rich, 80 characters max, no quotes, do not mention the brand %q: %s",
		brand, title,
	)
	resp, err := r.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: openai.GPT4oMini,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty completion")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
