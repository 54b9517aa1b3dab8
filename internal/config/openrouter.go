package config

import (
	"log"
	"sync"

	"github.com/caarlos0/env/v10"
)

type OpenRouterConfig struct {
	APIKey  string `env:"OPENROUTER_API_KEY"`
	BaseURL string `env:"OPENROUTER_BASE_URL" envDefault:"https://openrouter.ai/api/v1"`
	Model   string `env:"OPENROUTER_MODEL" envDefault:"openai/gpt-4o-mini"`
	Referer string `env:"OPENROUTER_REFERER"`
	Title   string `env:"OPENROUTER_TITLE" envDefault:"careerhub"`
}

var (
	openRouterConfig *OpenRouterConfig
	openRouterOnce   sync.Once
)

func LoadOpenRouterConfig() *OpenRouterConfig {
	openRouterOnce.Do(func() {
		openRouterConfig = &OpenRouterConfig{}
		if err := env.Parse(openRouterConfig); err != nil {
			log.Printf("Warning: invalid openrouter config: %v", err)
		}
	})
	return openRouterConfig
}
