package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/fadilmartias/careerhub/internal/apperror"
	"github.com/fadilmartias/careerhub/internal/cache"
	"github.com/fadilmartias/careerhub/internal/config"
	"github.com/fadilmartias/careerhub/internal/model"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memUserStore struct {
	byExternal map[string]*model.User
	touched    int
}

func newMemUserStore() *memUserStore {
	return &memUserStore{byExternal: map[string]*model.User{}}
}

func (m *memUserStore) FindByExternalID(_ context.Context, externalID string) (*model.User, error) {
	u, ok := m.byExternal[externalID]
	if !ok {
		return nil, apperror.NotFound("user not found", nil)
	}
	cp := *u
	return &cp, nil
}

func (m *memUserStore) Create(_ context.Context, u *model.User) error {
	u.ID = uuid.New()
	cp := *u
	m.byExternal[u.ExternalID] = &cp
	return nil
}

func (m *memUserStore) TouchProfile(_ context.Context, u *model.User, seenAt time.Time) error {
	m.touched++
	u.LastSeenAt = &seenAt
	cp := *u
	m.byExternal[u.ExternalID] = &cp
	return nil
}

func newIdentityServer(t *testing.T, calls *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		switch r.Header.Get("Authorization") {
		case "Bearer good":
			assert.Equal(t, "anon-key", r.Header.Get("apikey"))
			_, _ = w.Write([]byte(`{"id":"ext-1","email":"Boss@Example.com","user_metadata":{"full_name":"Boss"}}`))
		case "Bearer sub-only":
			_, _ = w.Write([]byte(`{"sub":"ext-2","email":"someone@example.com","name":"Someone"}`))
		case "Bearer broken":
			w.WriteHeader(http.StatusBadGateway)
		default:
			w.WriteHeader(http.StatusUnauthorized)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestAuth(t *testing.T, url string, users UserStore) *AuthService {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	cfg := &config.AuthConfig{
		VerifyURL:   url,
		APIKey:      "anon-key",
		IDPath:      "id",
		EmailPath:   "email",
		NamePath:    "user_metadata.full_name",
		AdminEmails: []string{"boss@example.com"},
		CacheTTL:    time.Minute,
		Timeout:     5 * time.Second,
	}
	return NewAuthService(cfg, cache.NewRedisCache(client, "test:"), users)
}

func TestAuthService_AuthenticateCreatesAdmin(t *testing.T) {
	var calls int32
	srv := newIdentityServer(t, &calls)
	users := newMemUserStore()
	s := newTestAuth(t, srv.URL, users)

	u, err := s.Authenticate(context.Background(), "good")
	require.NoError(t, err)
	assert.Equal(t, "ext-1", u.ExternalID)
	assert.Equal(t, "boss@example.com", u.Email)
	assert.Equal(t, "Boss", u.Name)
	assert.Equal(t, model.RoleAdmin, u.Role)

	again, err := s.Authenticate(context.Background(), "good")
	require.NoError(t, err)
	assert.Equal(t, u.ID, again.ID)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls), "second call served from cache")
	assert.Zero(t, users.touched)
}

func TestAuthService_FallbackSubject(t *testing.T) {
	var calls int32
	srv := newIdentityServer(t, &calls)
	s := newTestAuth(t, srv.URL, newMemUserStore())

	u, err := s.Authenticate(context.Background(), "sub-only")
	require.NoError(t, err)
	assert.Equal(t, "ext-2", u.ExternalID)
	assert.Equal(t, "Someone", u.Name)
	assert.Equal(t, model.RoleUser, u.Role)
}

func TestAuthService_Errors(t *testing.T) {
	var calls int32
	srv := newIdentityServer(t, &calls)
	s := newTestAuth(t, srv.URL, newMemUserStore())

	_, err := s.Authenticate(context.Background(), "expired")
	assert.Equal(t, http.StatusUnauthorized, apperror.HTTPStatus(err))

	_, err = s.Authenticate(context.Background(), "broken")
	assert.Equal(t, http.StatusServiceUnavailable, apperror.HTTPStatus(err))

	_, err = s.Authenticate(context.Background(), "")
	assert.Equal(t, http.StatusUnauthorized, apperror.HTTPStatus(err))

	unconfigured := newTestAuth(t, "", newMemUserStore())
	_, err = unconfigured.Authenticate(context.Background(), "good")
	assert.Equal(t, http.StatusServiceUnavailable, apperror.HTTPStatus(err))
}

func TestAuthService_TouchesStaleProfile(t *testing.T) {
	var calls int32
	srv := newIdentityServer(t, &calls)
	users := newMemUserStore()
	old := time.Now().Add(-time.Hour)
	users.byExternal["ext-1"] = &model.User{
		ID: uuid.New(), ExternalID: "ext-1", Email: "old@example.com", Role: model.RoleEditor, LastSeenAt: &old,
	}
	s := newTestAuth(t, srv.URL, users)

	u, err := s.Authenticate(context.Background(), "good")
	require.NoError(t, err)
	assert.Equal(t, model.RoleEditor, u.Role, "existing role is kept")
	assert.Equal(t, "boss@example.com", u.Email)
	assert.Equal(t, 1, users.touched)
}
