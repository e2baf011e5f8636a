package store

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-docstore-repo/internal/paging"
)

var cols = map[string]string{"name": "_id", "order": "order", "createdAt": "createdAt"}

func TestResolveSortDefaultsAndTieBreak(t *testing.T) {
	got, err := ResolveSort(nil, PageDefaultSort, cols, "_id")
	require.NoError(t, err)
	assert.Equal(t, []Sort{{Column: "order"}, {Column: "_id"}}, got)

	got, err = ResolveSort([]paging.Order{{Field: "name", Desc: true}}, PageDefaultSort, cols, "_id")
	require.NoError(t, err)
	assert.Equal(t, []Sort{{Column: "_id", Desc: true}}, got)
}

func TestResolveSortRejectsUnknownField(t *testing.T) {
	_, err := ResolveSort([]paging.Order{{Field: "content; DROP"}}, nil, cols, "_id")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidSort))
}
