package oracle

import (
	"context"
	"fmt"
)

type ollamaChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaChatRequest struct {
	Model    string              `json:"model"`
	Messages []ollamaChatMessage `json:"messages"`
	Stream   bool                `json:"stream"`
	Format   string              `json:"format,omitempty"`
}

type ollamaChatResponse struct {
	Message ollamaChatMessage `json:"message"`
	Done    bool              `json:"done"`
	Error   string            `json:"error"`
}

// newOllamaCaller asks a local Ollama server in JSON mode, so the reply is a
// bare object without prose around it.
func newOllamaCaller(model, baseURL string) CallFunc {
	url := joinURL(baseURL, "/api/chat")

	return func(ctx context.Context, prompt string) (string, error) {
		request := ollamaChatRequest{
			Model:    model,
			Messages: []ollamaChatMessage{{Role: "user", Content: prompt}},
			Format:   "json",
		}

		var result ollamaChatResponse
		if err := postJSON(ctx, ProviderOllama, url, nil, request, &result); err != nil {
			return "", err
		}
		if result.Error != "" {
			return "", fmt.Errorf("ollama error: %s", result.Error)
		}

		return result.Message.Content, nil
	}
}
