package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/fadilmartias/careerhub/internal/config"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

const maxEmbeddingChars = 10000

type GeminiService struct {
	Client         *genai.Client
	Model          string
	EmbeddingModel string
	cfg            *config.LLMConfig
	breaker        *circuitBreaker
}

func NewGeminiService(ctx context.Context) (*GeminiService, error) {
	geminiConfig := config.LoadGeminiConfig()
	apiKey := geminiConfig.APIKey
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY not set")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	llmConfig := config.LoadLLMConfig()
	return &GeminiService{
		Client:         client,
		Model:          geminiConfig.Model,
		EmbeddingModel: geminiConfig.EmbeddingModel,
		cfg:            llmConfig,
		breaker:        newCircuitBreaker(llmConfig.CircuitBreakerAt, time.Minute),
	}, nil
}

func (s *GeminiService) Name() string {
	return ProviderGemini
}

func (s *GeminiService) Complete(ctx context.Context, p Prompt) (out Completion, err error) {
	if strings.TrimSpace(p.User) == "" {
		return Completion{}, fmt.Errorf("prompt cannot be empty")
	}
	if err := s.breaker.Allow(); err != nil {
		return Completion{}, err
	}

	start := time.Now()
	defer func() { observeLLM(ProviderGemini, start, err) }()

	timeoutCtx, cancel := context.WithTimeout(ctx, s.cfg.RequestTimeout)
	defer cancel()

	genConfig := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(float32(0.1)),
		MaxOutputTokens:  int32(maxTokens(p, s.cfg)),
		ResponseMIMEType: "application/json",
	}
	if p.System != "" {
		genConfig.SystemInstruction = genai.NewContentFromText(p.System, genai.RoleUser)
	}

	var result *genai.GenerateContentResponse
	err = retry(timeoutCtx, s.cfg, ProviderGemini, "generate", func() error {
		res, callErr := s.Client.Models.GenerateContent(timeoutCtx, s.Model, genai.Text(p.User), genConfig)
		if callErr != nil {
			if !isRetryableGeminiError(callErr) {
				return backoff.Permanent(callErr)
			}
			return callErr
		}
		if vErr := validateGenerateResponse(res); vErr != nil {
			return backoff.Permanent(fmt.Errorf("invalid response: %w", vErr))
		}
		result = res
		return nil
	})
	s.breaker.Record(err)
	if err != nil {
		zap.L().Error("gemini generate content failed", zap.String("model", s.Model), zap.Error(err))
		return Completion{}, upstreamError(ProviderGemini, geminiStatus(err), err)
	}

	return Completion{Text: result.Text(), Model: s.Model, Provider: ProviderGemini}, nil
}

func (s *GeminiService) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	trimmedText := strings.TrimSpace(text)
	if trimmedText == "" {
		return nil, fmt.Errorf("text for embedding cannot be empty")
	}

	if len(trimmedText) > maxEmbeddingChars {
		zap.L().Debug("truncating embedding input", zap.Int("length", len(trimmedText)))
		trimmedText = strings.ToValidUTF8(trimmedText[:maxEmbeddingChars], "")
	}

	if err := s.breaker.Allow(); err != nil {
		return nil, err
	}
	timeoutCtx, cancel := context.WithTimeout(ctx, s.cfg.RequestTimeout)
	defer cancel()

	content := []*genai.Content{genai.NewContentFromText(trimmedText, genai.RoleUser)}

	var embeddings []float32
	err := retry(timeoutCtx, s.cfg, ProviderGemini, "embed", func() error {
		result, callErr := s.Client.Models.EmbedContent(timeoutCtx, s.EmbeddingModel, content, nil)
		if callErr != nil {
			if !isRetryableGeminiError(callErr) {
				return backoff.Permanent(callErr)
			}
			return callErr
		}
		values, vErr := validateEmbeddingResponse(result)
		if vErr != nil {
			return backoff.Permanent(fmt.Errorf("invalid embedding response: %w", vErr))
		}
		embeddings = values
		return nil
	})
	s.breaker.Record(err)
	if err != nil {
		return nil, upstreamError(ProviderGemini, geminiStatus(err), err)
	}
	return embeddings, nil
}

func geminiStatus(err error) int {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) {
		return apiErrPtr.Code
	}
	return 0
}

func isRetryableGeminiError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if code := geminiStatus(err); code != 0 {
		return retryableStatus(code)
	}

	errMsg := err.Error()
	return strings.Contains(errMsg, "connection refused") ||
		strings.Contains(errMsg, "connection reset") ||
		strings.Contains(errMsg, "timeout") ||
		strings.Contains(errMsg, "temporary failure") ||
		strings.Contains(errMsg, "EOF")
}

func validateGenerateResponse(resp *genai.GenerateContentResponse) error {
	if resp == nil {
		return fmt.Errorf("response is nil")
	}
	if len(resp.Candidates) == 0 {
		return fmt.Errorf("no candidates in response")
	}
	if resp.Candidates[0].Content == nil {
		return fmt.Errorf("candidate content is nil")
	}
	if len(resp.Candidates[0].Content.Parts) == 0 {
		return fmt.Errorf("no parts in content")
	}
	return nil
}

func validateEmbeddingResponse(resp *genai.EmbedContentResponse) ([]float32, error) {
	if resp == nil {
		return nil, fmt.Errorf("response is nil")
	}
	if len(resp.Embeddings) == 0 {
		return nil, fmt.Errorf("no embeddings returned")
	}

	embeddings := resp.Embeddings[0].Values
	if len(embeddings) == 0 {
		return nil, fmt.Errorf("embedding vector is empty")
	}

	for i, val := range embeddings {
		if math.IsNaN(float64(val)) || math.IsInf(float64(val), 0) {
			return nil, fmt.Errorf("invalid embedding value at index %d: %v", i, val)
		}
	}
	return embeddings, nil
}

func (s *GeminiService) GetCircuitBreakerStatus() (consecutiveErrors int, isOpen bool) {
	return s.breaker.Status()
}
