package config

import (
	"log"
	"sync"

	"github.com/caarlos0/env/v10"
)

type AppConfig struct {
	Name        string `env:"APP_NAME" envDefault:"careerhub"`
	Env         string `env:"APP_ENV"`
	Port        string `env:"APP_PORT" envDefault:":8080"`
	BaseURL     string `env:"APP_URL" envDefault:"http://localhost:8080"`
	CORSOrigins string `env:"CORS_ALLOW_ORIGINS" envDefault:"*"`
}

var (
	appConfig *AppConfig
	appOnce   sync.Once
)

func LoadAppConfig() *AppConfig {
	appOnce.Do(func() {
		appConfig = &AppConfig{}
		if err := env.Parse(appConfig); err != nil {
			log.Printf("Warning: invalid app config: %v", err)
		}
		if appConfig.Env == "" {
			appConfig.Env = "development"
			log.Printf("Warning: APP_ENV not set, defaulting to %s", appConfig.Env)
		}
	})
	return appConfig
}

func (c *AppConfig) IsProduction() bool {
	return c.Env == "production"
}
