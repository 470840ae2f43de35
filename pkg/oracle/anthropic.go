package oracle

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

const (
	anthropicVersion   = "2023-06-01"
	anthropicMaxTokens = 2048
)

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// newAnthropicCaller calls the Messages API and concatenates the text blocks
// of the reply.
func newAnthropicCaller(apiKey, model, baseURL string) CallFunc {
	url := joinURL(baseURL, "/v1/messages")
	headers := map[string]string{
		"x-api-key":         apiKey,
		"anthropic-version": anthropicVersion,
	}

	return func(ctx context.Context, prompt string) (string, error) {
		request := anthropicRequest{
			Model:     model,
			MaxTokens: anthropicMaxTokens,
			Messages:  []anthropicMessage{{Role: "user", Content: prompt}},
		}

		var result anthropicResponse
		if err := postJSON(ctx, ProviderAnthropic, url, headers, request, &result); err != nil {
			return "", err
		}
		if result.Error != nil {
			return "", fmt.Errorf("anthropic error: %s", result.Error.Message)
		}

		var text strings.Builder
		for _, block := range result.Content {
			if block.Type == "text" {
				text.WriteString(block.Text)
			}
		}
		if text.Len() == 0 {
			return "", errors.New("anthropic returned no content")
		}

		return text.String(), nil
	}
}
