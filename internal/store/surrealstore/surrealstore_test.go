package surrealstore

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-docstore-repo/internal/paging"
	"go-docstore-repo/internal/store"
)

func TestSearchSQL(t *testing.T) {
	sorts, err := store.ResolveSort(nil, pagesTable.fallback, pagesTable.columns, "id")
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT meta::id(id) AS id, type, title, content, last_contributor, page_order, api, published, created_at, updated_at"+
			" FROM pages ORDER BY page_order ASC, id ASC LIMIT $limit START $start",
		pagesTable.searchSQL(sorts))
}

func TestSearchSQLUserOrder(t *testing.T) {
	sorts, err := store.ResolveSort([]paging.Order{{Field: "lastname"}, {Field: "createdAt", Desc: true}},
		usersTable.fallback, usersTable.columns, "id")
	require.NoError(t, err)
	assert.Contains(t, usersTable.searchSQL(sorts), " FROM users ORDER BY lastname ASC, created_at DESC, id ASC LIMIT")
}

func TestUnknownSortNeverReachesSQL(t *testing.T) {
	_, err := store.ResolveSort([]paging.Order{{Field: "password"}}, usersTable.fallback, usersTable.columns, "id")
	assert.True(t, errors.Is(err, store.ErrInvalidSort))
}

func TestCountSQL(t *testing.T) {
	assert.Equal(t, "SELECT count() AS total FROM users GROUP ALL", usersTable.countSQL())
}

func TestSelectFromRecord(t *testing.T) {
	assert.Equal(t,
		"SELECT meta::id(id) AS id, source, source_id, password, email, firstname, lastname, picture, created_at, updated_at, last_connection_at FROM $rid",
		usersTable.selectFrom("$rid"))
}

func TestIsAlreadyExists(t *testing.T) {
	assert.True(t, isAlreadyExists(errors.New("Database record `pages:p1` already exists")))
	assert.False(t, isAlreadyExists(errors.New("connection reset")))
	assert.False(t, isAlreadyExists(nil))
}
