package config

import (
	"log"
	"sync"
	"time"

	"github.com/caarlos0/env/v10"
)

type ChromeConfig struct {
	ExecPath string        `env:"CHROME_PATH"`
	Timeout  time.Duration `env:"CHROME_TIMEOUT" envDefault:"60s"`
}

var (
	chromeConfig *ChromeConfig
	chromeOnce   sync.Once
)

func LoadChromeConfig() *ChromeConfig {
	chromeOnce.Do(func() {
		chromeConfig = &ChromeConfig{}
		if err := env.Parse(chromeConfig); err != nil {
			log.Printf("Warning: invalid chrome config: %v", err)
		}
	})
	return chromeConfig
}
