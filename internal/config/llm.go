package config

import (
	"log"
	"strings"
	"sync"
	"time"

	"github.com/caarlos0/env/v10"
)

type LLMConfig struct {
	// Provider is one of gemini, openrouter or anthropic.
	Provider         string        `env:"LLM_PROVIDER" envDefault:"gemini"`
	MaxPromptTokens  int           `env:"LLM_MAX_PROMPT_TOKENS" envDefault:"6000"`
	MaxOutputTokens  int           `env:"LLM_MAX_OUTPUT_TOKENS" envDefault:"2048"`
	RequestTimeout   time.Duration `env:"LLM_REQUEST_TIMEOUT" envDefault:"90s"`
	MaxRetries       int           `env:"LLM_MAX_RETRIES" envDefault:"3"`
	RetryBaseDelay   time.Duration `env:"LLM_RETRY_BASE_DELAY" envDefault:"1s"`
	RetryMaxDelay    time.Duration `env:"LLM_RETRY_MAX_DELAY" envDefault:"20s"`
	CircuitBreakerAt int           `env:"LLM_CIRCUIT_BREAKER_AT" envDefault:"5"`
	ResultCacheTTL   time.Duration `env:"LLM_RESULT_CACHE_TTL" envDefault:"24h"`
}

var (
	llmConfig *LLMConfig
	llmOnce   sync.Once
)

func LoadLLMConfig() *LLMConfig {
	llmOnce.Do(func() {
		llmConfig = &LLMConfig{}
		if err := env.Parse(llmConfig); err != nil {
			log.Printf("Warning: invalid llm config: %v", err)
		}
		llmConfig.Provider = strings.ToLower(strings.TrimSpace(llmConfig.Provider))
	})
	return llmConfig
}
