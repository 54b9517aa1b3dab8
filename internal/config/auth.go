package config

import (
	"log"
	"strings"
	"sync"
	"time"

	"github.com/caarlos0/env/v10"
)

type AuthConfig struct {
	// VerifyURL is called with the caller's bearer token and must answer 200
	// with the identity as JSON (e.g. Supabase /auth/v1/user, Auth0 /userinfo).
	VerifyURL   string        `env:"AUTH_VERIFY_URL"`
	APIKey      string        `env:"AUTH_API_KEY"`
	IDPath      string        `env:"AUTH_ID_PATH" envDefault:"id"`
	EmailPath   string        `env:"AUTH_EMAIL_PATH" envDefault:"email"`
	NamePath    string        `env:"AUTH_NAME_PATH" envDefault:"user_metadata.full_name"`
	AdminEmails []string      `env:"ADMIN_EMAILS" envSeparator:","`
	CacheTTL    time.Duration `env:"AUTH_CACHE_TTL" envDefault:"60s"`
	Timeout     time.Duration `env:"AUTH_TIMEOUT" envDefault:"10s"`
}

var (
	authConfig *AuthConfig
	authOnce   sync.Once
)

func LoadAuthConfig() *AuthConfig {
	authOnce.Do(func() {
		authConfig = &AuthConfig{}
		if err := env.Parse(authConfig); err != nil {
			log.Printf("Warning: invalid auth config: %v", err)
		}
		if authConfig.VerifyURL == "" {
			log.Printf("Warning: AUTH_VERIFY_URL not set, authenticated routes will reject every request")
		}
	})
	return authConfig
}

func (c *AuthConfig) IsAdminEmail(email string) bool {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return false
	}
	for _, e := range c.AdminEmails {
		if strings.ToLower(strings.TrimSpace(e)) == email {
			return true
		}
	}
	return false
}
