package oracle

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// newOpenAICaller uses the official SDK. An empty baseURL keeps the SDK
// default; a custom one must include the API version path, e.g.
// http://localhost:8080/v1/.
func newOpenAICaller(apiKey, model, baseURL string) CallFunc {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	client := openai.NewClient(opts...)

	return func(ctx context.Context, prompt string) (string, error) {
		completion, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
			Model: openai.ChatModel(model),
			Messages: []openai.ChatCompletionMessageParamUnion{
				openai.UserMessage(prompt),
			},
		})
		if err != nil {
			return "", fmt.Errorf("openai request: %w", err)
		}

		if len(completion.Choices) == 0 {
			return "", errors.New("openai returned no choices")
		}

		return completion.Choices[0].Message.Content, nil
	}
}
