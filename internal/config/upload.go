package config

import (
	"log"
	"sync"

	"github.com/caarlos0/env/v10"
)

type UploadConfig struct {
	Dir        string `env:"UPLOAD_DIR" envDefault:"./uploads"`
	MaxCVMB    int64  `env:"UPLOAD_MAX_CV_MB" envDefault:"5"`
	MaxImageMB int64  `env:"UPLOAD_MAX_IMAGE_MB" envDefault:"2"`
}

var (
	uploadConfig *UploadConfig
	uploadOnce   sync.Once
)

func LoadUploadConfig() *UploadConfig {
	uploadOnce.Do(func() {
		uploadConfig = &UploadConfig{}
		if err := env.Parse(uploadConfig); err != nil {
			log.Printf("Warning: invalid upload config: %v", err)
		}
	})
	return uploadConfig
}
