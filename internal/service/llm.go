package service

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/fadilmartias/careerhub/internal/apperror"
	"github.com/fadilmartias/careerhub/internal/config"
	"github.com/fadilmartias/careerhub/internal/observability"
	"go.uber.org/zap"
)

const (
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
	ProviderAnthropic  = "anthropic"
)

type Prompt struct {
	System    string
	User      string
	MaxTokens int
}

type Completion struct {
	Text     string
	Model    string
	Provider string
}

// LLMService is a hosted chat model that answers a single prompt.
type LLMService interface {
	Complete(ctx context.Context, p Prompt) (Completion, error)
	Name() string
}

// EmbeddingService turns text into a vector for similarity search.
type EmbeddingService interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

// NewLLMService builds the provider selected by LLM_PROVIDER.
func NewLLMService(ctx context.Context) (LLMService, error) {
	cfg := config.LoadLLMConfig()
	switch cfg.Provider {
	case "", ProviderGemini:
		return NewGeminiService(ctx)
	case ProviderOpenRouter:
		return NewOpenRouterService()
	case ProviderAnthropic:
		return NewAnthropicService()
	default:
		return nil, fmt.Errorf("unknown LLM_PROVIDER %q", cfg.Provider)
	}
}

// upstreamError converts a provider failure into the domain error the API
// answers with.
func upstreamError(provider string, status int, err error) error {
	if _, ok := apperror.As(err); ok {
		return err
	}
	if status == http.StatusTooManyRequests {
		return apperror.RateLimit(provider+" is rate limiting requests, try again later", err)
	}
	return apperror.Unavailable("language model is unavailable", err)
}

func retryableStatus(status int) bool {
	switch status {
	case http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusBadGateway,
		http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

func newBackOff(ctx context.Context, cfg *config.LLMConfig) backoff.BackOffContext {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = cfg.RetryBaseDelay
	b.MaxInterval = cfg.RetryMaxDelay
	b.MaxElapsedTime = cfg.RequestTimeout
	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(cfg.MaxRetries)), ctx)
}

// retry runs op with exponential backoff. op marks errors that must not be
// retried with backoff.Permanent.
func retry(ctx context.Context, cfg *config.LLMConfig, provider, op string, fn func() error) error {
	return backoff.RetryNotify(fn, newBackOff(ctx, cfg), func(err error, next time.Duration) {
		zap.L().Warn("retrying upstream call",
			zap.String("provider", provider),
			zap.String("op", op),
			zap.Duration("next", next),
			zap.Error(err),
		)
	})
}

// circuitBreaker opens after a run of consecutive failures and closes on the
// next success or after cooldown.
type circuitBreaker struct {
	mu        sync.Mutex
	failures  int
	threshold int
	openedAt  time.Time
	cooldown  time.Duration
	now       func() time.Time
}

func newCircuitBreaker(threshold int, cooldown time.Duration) *circuitBreaker {
	return &circuitBreaker{threshold: threshold, cooldown: cooldown, now: time.Now}
}

func (b *circuitBreaker) Allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.threshold <= 0 || b.failures < b.threshold {
		return nil
	}
	if b.now().Sub(b.openedAt) >= b.cooldown {
		// half-open: let one call through
		b.failures = b.threshold - 1
		return nil
	}
	return apperror.Unavailable(
		fmt.Sprintf("language model temporarily disabled after %d consecutive errors", b.failures), nil)
}

func (b *circuitBreaker) Record(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err == nil {
		b.failures = 0
		return
	}
	b.failures++
	if b.failures == b.threshold {
		b.openedAt = b.now()
	}
}

func (b *circuitBreaker) Status() (failures int, open bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.failures, b.threshold > 0 && b.failures >= b.threshold
}

func observeLLM(provider string, start time.Time, err error) {
	outcome := "ok"
	switch {
	case err == nil:
	case apperror.Is(err, apperror.ErrTypeRateLimit):
		outcome = "rate_limited"
	default:
		outcome = "error"
	}
	observability.LLMRequestsTotal.WithLabelValues(provider, outcome).Inc()
	observability.LLMRequestDuration.WithLabelValues(provider).Observe(time.Since(start).Seconds())
}

func maxTokens(p Prompt, cfg *config.LLMConfig) int {
	if p.MaxTokens > 0 {
		return p.MaxTokens
	}
	return cfg.MaxOutputTokens
}
