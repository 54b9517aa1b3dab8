package service

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/fadilmartias/careerhub/internal/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCircuitBreaker(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	b := newCircuitBreaker(2, time.Minute)
	b.now = func() time.Time { return now }

	require.NoError(t, b.Allow())
	b.Record(errors.New("boom"))
	require.NoError(t, b.Allow())
	b.Record(errors.New("boom"))

	err := b.Allow()
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.ErrTypeUnavailable))
	failures, open := b.Status()
	assert.Equal(t, 2, failures)
	assert.True(t, open)

	now = now.Add(2 * time.Minute)
	require.NoError(t, b.Allow(), "half-open after cooldown")
	b.Record(nil)
	failures, open = b.Status()
	assert.Zero(t, failures)
	assert.False(t, open)
}

func TestCircuitBreaker_Disabled(t *testing.T) {
	b := newCircuitBreaker(0, time.Minute)
	for i := 0; i < 10; i++ {
		b.Record(errors.New("boom"))
	}
	assert.NoError(t, b.Allow())
}

func TestUpstreamError(t *testing.T) {
	cause := errors.New("upstream said no")

	err := upstreamError(ProviderOpenRouter, http.StatusTooManyRequests, cause)
	assert.Equal(t, http.StatusTooManyRequests, apperror.HTTPStatus(err))
	assert.ErrorIs(t, err, cause)

	err = upstreamError(ProviderGemini, http.StatusBadGateway, cause)
	assert.Equal(t, http.StatusServiceUnavailable, apperror.HTTPStatus(err))

	domain := apperror.InvalidInput("bad", nil)
	assert.Same(t, domain, upstreamError(ProviderGemini, 0, domain))
}

func TestRetryableStatus(t *testing.T) {
	for _, s := range []int{429, 500, 502, 503, 504} {
		assert.True(t, retryableStatus(s), s)
	}
	for _, s := range []int{400, 401, 403, 404, 422} {
		assert.False(t, retryableStatus(s), s)
	}
}
