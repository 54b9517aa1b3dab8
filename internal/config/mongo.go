package config

import (
	"log"
	"sync"
	"time"

	"github.com/caarlos0/env/v10"
)

type MongoConfig struct {
	URI            string        `env:"MONGO_URI" envDefault:"mongodb://localhost:27017"`
	Database       string        `env:"MONGO_DATABASE" envDefault:"careerhub"`
	ConnectTimeout time.Duration `env:"MONGO_CONNECT_TIMEOUT" envDefault:"10s"`
}

var (
	mongoConfig *MongoConfig
	mongoOnce   sync.Once
)

func LoadMongoConfig() *MongoConfig {
	mongoOnce.Do(func() {
		mongoConfig = &MongoConfig{}
		if err := env.Parse(mongoConfig); err != nil {
			log.Printf("Warning: invalid mongo config: %v", err)
		}
	})
	return mongoConfig
}
