package config

import (
	"log"
	"sync"

	"github.com/caarlos0/env/v10"
)

type AnthropicConfig struct {
	APIKey string `env:"ANTHROPIC_API_KEY"`
	Model  string `env:"ANTHROPIC_MODEL" envDefault:"claude-3-7-sonnet-latest"`
}

var (
	anthropicConfig *AnthropicConfig
	anthropicOnce   sync.Once
)

func LoadAnthropicConfig() *AnthropicConfig {
	anthropicOnce.Do(func() {
		anthropicConfig = &AnthropicConfig{}
		if err := env.Parse(anthropicConfig); err != nil {
			log.Printf("Warning: invalid anthropic config: %v", err)
		}
	})
	return anthropicConfig
}
