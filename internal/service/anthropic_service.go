package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/fadilmartias/careerhub/internal/config"
	"go.uber.org/zap"
)

// AnthropicService relies on the SDK's own retry loop.
type AnthropicService struct {
	client  anthropic.Client
	model   string
	cfg     *config.LLMConfig
	breaker *circuitBreaker
}

func NewAnthropicService() (*AnthropicService, error) {
	aConfig := config.LoadAnthropicConfig()
	if aConfig.APIKey == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY not set")
	}
	llmConfig := config.LoadLLMConfig()

	client := anthropic.NewClient(
		option.WithAPIKey(aConfig.APIKey),
		option.WithMaxRetries(llmConfig.MaxRetries),
		option.WithRequestTimeout(llmConfig.RequestTimeout),
	)

	return &AnthropicService{
		client:  client,
		model:   aConfig.Model,
		cfg:     llmConfig,
		breaker: newCircuitBreaker(llmConfig.CircuitBreakerAt, time.Minute),
	}, nil
}

func (s *AnthropicService) Name() string {
	return ProviderAnthropic
}

func (s *AnthropicService) Complete(ctx context.Context, p Prompt) (out Completion, err error) {
	if strings.TrimSpace(p.User) == "" {
		return Completion{}, fmt.Errorf("prompt cannot be empty")
	}
	if err := s.breaker.Allow(); err != nil {
		return Completion{}, err
	}

	start := time.Now()
	defer func() { observeLLM(ProviderAnthropic, start, err) }()

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(s.model),
		MaxTokens:   int64(maxTokens(p, s.cfg)),
		Temperature: anthropic.Float(0.1),
		Messages: []anthropic.MessageParam{{
			Content: []anthropic.ContentBlockParamUnion{{
				OfText: &anthropic.TextBlockParam{Text: p.User},
			}},
			Role: anthropic.MessageParamRoleUser,
		}},
	}
	if p.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: p.System}}
	}

	msg, err := s.client.Messages.New(ctx, params)
	s.breaker.Record(err)
	if err != nil {
		status := 0
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			status = apiErr.StatusCode
		}
		zap.L().Error("anthropic request failed", zap.String("model", s.model), zap.Int("status", status), zap.Error(err))
		return Completion{}, upstreamError(ProviderAnthropic, status, err)
	}

	var text strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if strings.TrimSpace(text.String()) == "" {
		return Completion{}, upstreamError(ProviderAnthropic, 0, fmt.Errorf("no text content in response"))
	}

	return Completion{Text: text.String(), Model: string(msg.Model), Provider: ProviderAnthropic}, nil
}
