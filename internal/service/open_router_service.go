package service

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/fadilmartias/careerhub/internal/config"
	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

type OpenRouterService struct {
	client  *resty.Client
	model   string
	cfg     *config.LLMConfig
	breaker *circuitBreaker
}

func NewOpenRouterService() (*OpenRouterService, error) {
	orConfig := config.LoadOpenRouterConfig()
	if orConfig.APIKey == "" {
		return nil, fmt.Errorf("OPENROUTER_API_KEY not set")
	}
	llmConfig := config.LoadLLMConfig()

	client := resty.New().
		SetBaseURL(strings.TrimRight(orConfig.BaseURL, "/")).
		SetAuthToken(orConfig.APIKey).
		SetHeader("Content-Type", "application/json").
		SetTimeout(llmConfig.RequestTimeout)
	if orConfig.Referer != "" {
		client.SetHeader("HTTP-Referer", orConfig.Referer)
	}
	if orConfig.Title != "" {
		client.SetHeader("X-Title", orConfig.Title)
	}

	return newOpenRouterService(client, orConfig.Model, llmConfig), nil
}

func newOpenRouterService(client *resty.Client, model string, cfg *config.LLMConfig) *OpenRouterService {
	return &OpenRouterService{
		client:  client,
		model:   model,
		cfg:     cfg,
		breaker: newCircuitBreaker(cfg.CircuitBreakerAt, time.Minute),
	}
}

func (s *OpenRouterService) Name() string {
	return ProviderOpenRouter
}

// statusError keeps the upstream status code for error mapping.
type statusError struct {
	status  int
	message string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("openrouter returned %d: %s", e.status, e.message)
}

func (s *OpenRouterService) Complete(ctx context.Context, p Prompt) (out Completion, err error) {
	if strings.TrimSpace(p.User) == "" {
		return Completion{}, fmt.Errorf("prompt cannot be empty")
	}
	if err := s.breaker.Allow(); err != nil {
		return Completion{}, err
	}

	start := time.Now()
	defer func() { observeLLM(ProviderOpenRouter, start, err) }()

	messages := make([]map[string]string, 0, 2)
	if p.System != "" {
		messages = append(messages, map[string]string{"role": "system", "content": p.System})
	}
	messages = append(messages, map[string]string{"role": "user", "content": p.User})

	payload := map[string]any{
		"model":           s.model,
		"messages":        messages,
		"temperature":     0.1,
		"max_tokens":      maxTokens(p, s.cfg),
		"response_format": map[string]string{"type": "json_object"},
	}

	var body string
	status := 0
	err = retry(ctx, s.cfg, ProviderOpenRouter, "chat", func() error {
		resp, callErr := s.client.R().
			SetContext(ctx).
			SetBody(payload).
			Post("/chat/completions")
		if callErr != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(callErr)
			}
			return callErr
		}

		status = resp.StatusCode()
		if status >= http.StatusBadRequest {
			sErr := &statusError{status: status, message: gjson.Get(resp.String(), "error.message").String()}
			if status == http.StatusTooManyRequests || !retryableStatus(status) {
				return backoff.Permanent(sErr)
			}
			return sErr
		}
		body = resp.String()
		return nil
	})
	s.breaker.Record(err)
	if err != nil {
		zap.L().Error("openrouter request failed", zap.String("model", s.model), zap.Int("status", status), zap.Error(err))
		return Completion{}, upstreamError(ProviderOpenRouter, status, err)
	}

	text := gjson.Get(body, "choices.0.message.content").String()
	if strings.TrimSpace(text) == "" {
		return Completion{}, upstreamError(ProviderOpenRouter, status, fmt.Errorf("no response from LLM"))
	}

	model := gjson.Get(body, "model").String()
	if model == "" {
		model = s.model
	}
	return Completion{Text: text, Model: model, Provider: ProviderOpenRouter}, nil
}
