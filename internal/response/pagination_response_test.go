package response_test

import (
	"testing"

	"github.com/fadilmartias/careerhub/internal/response"
	"github.com/stretchr/testify/assert"
)

func TestNewPagination(t *testing.T) {
	p := response.NewPagination(2, 10, 25)
	assert.Equal(t, int64(3), p.TotalPages)
	assert.Equal(t, 11, p.From)
	assert.Equal(t, 20, p.To)
	assert.True(t, p.HasMore)

	last := response.NewPagination(3, 10, 25)
	assert.Equal(t, 21, last.From)
	assert.Equal(t, 25, last.To)
	assert.False(t, last.HasMore)
}

func TestNewPagination_Empty(t *testing.T) {
	p := response.NewPagination(1, 10, 0)
	assert.Equal(t, int64(0), p.TotalPages)
	assert.Equal(t, 0, p.From)
	assert.Equal(t, 0, p.To)
	assert.False(t, p.HasMore)

	beyond := response.NewPagination(5, 10, 12)
	assert.Equal(t, 0, beyond.From)
	assert.False(t, beyond.HasMore)
}
