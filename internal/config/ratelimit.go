package config

import (
	"log"
	"sync"
	"time"

	"github.com/caarlos0/env/v10"
)

type RateLimitConfig struct {
	GlobalMax    int           `env:"RATE_LIMIT_GLOBAL_MAX" envDefault:"100"`
	GlobalWindow time.Duration `env:"RATE_LIMIT_GLOBAL_WINDOW" envDefault:"1m"`
	CVMax        int           `env:"RATE_LIMIT_CV_MAX" envDefault:"5"`
	CVWindow     time.Duration `env:"RATE_LIMIT_CV_WINDOW" envDefault:"1m"`
	FormMax      int           `env:"RATE_LIMIT_FORM_MAX" envDefault:"5"`
	FormWindow   time.Duration `env:"RATE_LIMIT_FORM_WINDOW" envDefault:"10m"`
	PDFMax       int           `env:"RATE_LIMIT_PDF_MAX" envDefault:"10"`
	PDFWindow    time.Duration `env:"RATE_LIMIT_PDF_WINDOW" envDefault:"1m"`
}

var (
	rateLimitConfig *RateLimitConfig
	rateLimitOnce   sync.Once
)

func LoadRateLimitConfig() *RateLimitConfig {
	rateLimitOnce.Do(func() {
		rateLimitConfig = &RateLimitConfig{}
		if err := env.Parse(rateLimitConfig); err != nil {
			log.Printf("Warning: invalid rate limit config: %v", err)
		}
	})
	return rateLimitConfig
}
