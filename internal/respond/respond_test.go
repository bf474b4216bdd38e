package respond_test

import (
	"testing"

	"lokanta-backend/internal/respond"

	"github.com/stretchr/testify/assert"
)

func TestNewPagination(t *testing.T) {
	p := respond.NewPagination(2, 10, 35)

	assert.Equal(t, 2, p.Page)
	assert.Equal(t, 10, p.PageSize)
	assert.Equal(t, 4, p.PageCount)
	assert.Equal(t, int64(35), p.Total)
	assert.True(t, p.HasNextPage)
	assert.True(t, p.HasPrevPage)
}

func TestNewPagination_ClampsInvalidInput(t *testing.T) {
	p := respond.NewPagination(0, -5, -1)

	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 10, p.PageSize)
	assert.Equal(t, 1, p.PageCount)
	assert.Equal(t, int64(0), p.Total)
	assert.False(t, p.HasNextPage)
	assert.False(t, p.HasPrevPage)
}

func TestNewPagination_LastPage(t *testing.T) {
	p := respond.NewPagination(4, 10, 35)

	assert.False(t, p.HasNextPage)
	assert.True(t, p.HasPrevPage)
}

func TestNewPagination_ExactMultiple(t *testing.T) {
	p := respond.NewPagination(1, 10, 30)

	assert.Equal(t, 3, p.PageCount)
	assert.True(t, p.HasNextPage)
}
