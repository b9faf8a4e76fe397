package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joyas-pwa/joyas-api/internal/apperr"
)

func TestNewPage(t *testing.T) {
	p, err := NewPage(1, DefaultPageSize)
	require.NoError(t, err)
	assert.Equal(t, 0, p.Offset())

	p, err = NewPage(3, 100)
	require.NoError(t, err)
	assert.Equal(t, 200, p.Offset())

	p, err = NewPage(MaxPageNumber, MaxPageSize)
	require.NoError(t, err)
	assert.Positive(t, p.Offset())

	for _, c := range [][2]int{{0, 20}, {-1, 20}, {1, 0}, {1, 101}, {MaxPageNumber + 1, 20}, {100000000000000000, 100}} {
		_, err := NewPage(c[0], c[1])
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err), "%v", c)
	}
}

func TestPaginate(t *testing.T) {
	all := []int{1, 2, 3, 4, 5}

	got := paginate(all, Page{Number: 2, Size: 2})
	assert.Equal(t, []int{3, 4}, got.Items)
	assert.Equal(t, 5, got.Total)
	assert.Equal(t, 3, got.TotalPages())

	got = paginate(all, Page{Number: 3, Size: 2})
	assert.Equal(t, []int{5}, got.Items)

	got = paginate(all, Page{Number: 9, Size: 2})
	assert.Empty(t, got.Items)

	got = paginate(all, Page{Number: 100000000000000000, Size: 100})
	assert.Empty(t, got.Items)
	assert.Equal(t, 5, got.Total)

	got = paginate([]int(nil), Page{Number: 1, Size: 2})
	assert.NotNil(t, got.Items)
	assert.Equal(t, 0, got.TotalPages())
}
