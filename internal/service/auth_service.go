package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/fadilmartias/careerhub/internal/apperror"
	"github.com/fadilmartias/careerhub/internal/cache"
	"github.com/fadilmartias/careerhub/internal/config"
	"github.com/fadilmartias/careerhub/internal/model"
	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

const touchInterval = 5 * time.Minute

// Identity is what the hosted provider says about a bearer token.
type Identity struct {
	ExternalID string `json:"external_id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
}

type UserStore interface {
	FindByExternalID(ctx context.Context, externalID string) (*model.User, error)
	Create(ctx context.Context, u *model.User) error
	TouchProfile(ctx context.Context, u *model.User, seenAt time.Time) error
}

type AuthService struct {
	client *resty.Client
	cfg    *config.AuthConfig
	cache  cache.Cache
	users  UserStore
	now    func() time.Time
}

func NewAuthService(cfg *config.AuthConfig, c cache.Cache, users UserStore) *AuthService {
	client := resty.New().SetTimeout(cfg.Timeout)
	if cfg.APIKey != "" {
		client.SetHeader("apikey", cfg.APIKey)
	}
	if c == nil {
		c = cache.Noop{}
	}
	return &AuthService{client: client, cfg: cfg, cache: c, users: users, now: time.Now}
}

// Authenticate verifies the token and returns the matching local user,
// creating it on first sight.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*model.User, error) {
	identity, err := s.Verify(ctx, token)
	if err != nil {
		return nil, err
	}
	return s.resolveUser(ctx, identity)
}

func (s *AuthService) Verify(ctx context.Context, token string) (*Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, apperror.Unauthorized("missing bearer token", nil)
	}
	if s.cfg.VerifyURL == "" {
		return nil, apperror.Unavailable("authentication is not configured", nil)
	}

	key := "identity:" + tokenHash(token)
	if raw, err := s.cache.Get(ctx, key); err == nil {
		var id Identity
		if json.Unmarshal(raw, &id) == nil && id.ExternalID != "" {
			return &id, nil
		}
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetHeader("Accept", "application/json").
		Get(s.cfg.VerifyURL)
	if err != nil {
		zap.L().Warn("identity provider unreachable", zap.Error(err))
		return nil, apperror.Unavailable("identity provider is unavailable", err)
	}

	switch status := resp.StatusCode(); {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return nil, apperror.Unauthorized("invalid or expired token", nil)
	case status != http.StatusOK:
		zap.L().Warn("identity provider error", zap.Int("status", status))
		return nil, apperror.Unavailable("identity provider is unavailable",
			fmt.Errorf("verify returned status %d", status))
	}

	id := s.identityFrom(resp.String())
	if id.ExternalID == "" {
		return nil, apperror.Unauthorized("token does not identify a user", nil)
	}

	if raw, err := json.Marshal(id); err == nil {
		if err := s.cache.Set(ctx, key, raw, s.cfg.CacheTTL); err != nil && !errors.Is(err, cache.ErrDisabled) {
			zap.L().Warn("cache identity failed", zap.Error(err))
		}
	}
	return &id, nil
}

func (s *AuthService) identityFrom(body string) Identity {
	externalID := gjson.Get(body, s.cfg.IDPath).String()
	if externalID == "" {
		externalID = gjson.Get(body, "sub").String()
	}
	name := gjson.Get(body, s.cfg.NamePath).String()
	if name == "" {
		name = gjson.Get(body, "name").String()
	}
	return Identity{
		ExternalID: externalID,
		Email:      strings.ToLower(gjson.Get(body, s.cfg.EmailPath).String()),
		Name:       name,
	}
}

func (s *AuthService) resolveUser(ctx context.Context, id *Identity) (*model.User, error) {
	now := s.now().UTC()

	user, err := s.users.FindByExternalID(ctx, id.ExternalID)
	if err == nil {
		stale := user.LastSeenAt == nil || now.Sub(*user.LastSeenAt) > touchInterval
		if stale || user.Email != id.Email || (id.Name != "" && user.Name != id.Name) {
			user.Email = id.Email
			if id.Name != "" {
				user.Name = id.Name
			}
			if err := s.users.TouchProfile(ctx, user, now); err != nil {
				zap.L().Warn("update user profile failed", zap.String("user_id", user.ID.String()), zap.Error(err))
			}
		}
		return user, nil
	}
	if !apperror.Is(err, apperror.ErrTypeNotFound) {
		return nil, err
	}

	role := model.RoleUser
	if s.cfg.IsAdminEmail(id.Email) {
		role = model.RoleAdmin
	}
	user = &model.User{
		ExternalID: id.ExternalID,
		Email:      id.Email,
		Name:       id.Name,
		Role:       role,
		LastSeenAt: &now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// a concurrent first request may have created it
		if existing, findErr := s.users.FindByExternalID(ctx, id.ExternalID); findErr == nil {
			return existing, nil
		}
		return nil, err
	}
	zap.L().Info("user registered", zap.String("user_id", user.ID.String()), zap.String("role", role))
	return user, nil
}

func tokenHash(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
