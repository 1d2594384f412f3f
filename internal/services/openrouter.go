package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
)

const openRouterEndpoint = "https://openrouter.ai/api/v1/chat/completions"

// openRouterService is the alternate GenerationService speaking the
// OpenRouter chat-completions API.
type openRouterService struct {
	client *resty.Client
	apiKey string
	model  string
}

func NewOpenRouterService(apiKey, model string) GenerationService {
	return &openRouterService{
		client: resty.New(),
		apiKey: apiKey,
		model:  model,
	}
}

// GenerateText implements GenerationService.
func (s *openRouterService) GenerateText(ctx context.Context, prompt string, temperature float32) (string, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+s.apiKey).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]interface{}{
			"model":       s.model,
			"temperature": temperature,
			"messages": []map[string]string{
				{"role": "user", "content": prompt},
			},
		}).
		Post(openRouterEndpoint)
	if err != nil {
		return "", fmt.Errorf("failed to call openrouter: %w", err)
	}

	// 429 gets the rate_limit marker so the failure classifier can see it.
	if resp.StatusCode() == http.StatusTooManyRequests {
		return "", fmt.Errorf("openrouter rate_limit exceeded (status %d)", resp.StatusCode())
	}
	if resp.IsError() {
		return "", fmt.Errorf("openrouter returned status %d: %s", resp.StatusCode(), resp.String())
	}

	text := gjson.Get(resp.String(), "choices.0.message.content").String()
	if text == "" {
		return "", fmt.Errorf("no text content in openrouter response")
	}

	return text, nil
}
