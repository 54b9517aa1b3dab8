package config

import (
	"log"
	"sync"

	"github.com/caarlos0/env/v10"
)

// RedisConfig is optional. An empty URL keeps limiter state in process memory
// and disables the analysis cache and resume drafts.
type RedisConfig struct {
	URL string `env:"REDIS_URL"`
}

var (
	redisConfig *RedisConfig
	redisOnce   sync.Once
)

func LoadRedisConfig() *RedisConfig {
	redisOnce.Do(func() {
		redisConfig = &RedisConfig{}
		if err := env.Parse(redisConfig); err != nil {
			log.Printf("Warning: invalid redis config: %v", err)
		}
	})
	return redisConfig
}

func (c *RedisConfig) Enabled() bool {
	return c.URL != ""
}
