package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	gocache "github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"go-docstore-repo/internal/core/auth"
	"go-docstore-repo/internal/core/metrics"
	"go-docstore-repo/internal/feature/page"
	"go-docstore-repo/internal/feature/user"
	"go-docstore-repo/internal/mapper"
	"go-docstore-repo/internal/repo"
	"go-docstore-repo/internal/store/memstore"
	resp "go-docstore-repo/internal/transport/http/response"
)

type fixture struct {
	api, admin http.Handler
	token      string
	users      *repo.UserRepo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	m := mapper.New()
	page.Register(m)
	user.Register(m)
	c := gocache.New(gocache.NoExpiration, 0)
	pages, err := repo.NewPageRepo(memstore.NewPageStore(c), repo.Deps{Mapper: m})
	require.NoError(t, err)
	users, err := repo.NewUserRepo(memstore.NewUserStore(c), repo.Deps{Mapper: m})
	require.NoError(t, err)

	mods := &Registry{}
	mods.Register(Pages{Repo: pages})
	mods.Register(Users{Repo: users})

	reg := prometheus.NewRegistry()
	o := Options{Log: zap.NewNop(), Metrics: metrics.NewHTTP(reg), Gatherer: reg}
	j := &auth.JWTer{Secret: []byte("test"), Issuer: "docstore", TTL: time.Hour}
	tok, err := j.Issue("admin-1", "admin")
	require.NoError(t, err)

	return &fixture{
		api:   NewAPIEngine(o, mods),
		admin: NewAdminEngine(o, j, mods),
		token: tok,
		users: users,
	}
}

type envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

func (f *fixture) call(t *testing.T, h http.Handler, method, path string, body any) envelope {
	t.Helper()
	var rd *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	if h == f.admin {
		req.Header.Set("Authorization", "Bearer "+f.token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func TestPageLifecycle(t *testing.T) {
	f := newFixture(t)

	env := f.call(t, f.admin, http.MethodPost, "/admin/v1/pages", gin.H{
		"name": "p1", "title": "T", "content": "C", "api": "petstore", "type": "markdown", "order": 2,
	})
	require.Equal(t, resp.CodeOK, env.Code, env.Msg)

	env = f.call(t, f.admin, http.MethodPut, "/admin/v1/pages/p1", gin.H{"title": "T2"})
	require.Equal(t, resp.CodeOK, env.Code, env.Msg)

	env = f.call(t, f.api, http.MethodGet, "/api/v1/pages/p1", nil)
	require.Equal(t, resp.CodeOK, env.Code)
	got := decode[map[string]any](t, env.Data)
	assert.Equal(t, "T2", got["title"])
	assert.Equal(t, "C", got["content"])
	assert.Equal(t, "MARKDOWN", got["type"])

	env = f.call(t, f.admin, http.MethodPatch, "/admin/v1/pages/p1", gin.H{"published": true, "order": 7})
	require.Equal(t, resp.CodeOK, env.Code, env.Msg)

	env = f.call(t, f.api, http.MethodGet, "/api/v1/apis/petstore/pages?published=true", nil)
	assert.Len(t, decode[[]map[string]any](t, env.Data), 1)

	env = f.call(t, f.api, http.MethodGet, "/api/v1/apis/petstore/pages/max-order", nil)
	assert.Equal(t, 7.0, decode[map[string]any](t, env.Data)["maxOrder"])

	env = f.call(t, f.admin, http.MethodDelete, "/admin/v1/pages/p1", nil)
	require.Equal(t, resp.CodeOK, env.Code)
	env = f.call(t, f.api, http.MethodGet, "/api/v1/pages/p1", nil)
	assert.Equal(t, resp.CodeNotFound, env.Code)
}

func TestPageErrorCodes(t *testing.T) {
	f := newFixture(t)

	env := f.call(t, f.admin, http.MethodPut, "/admin/v1/pages/ghost", gin.H{"title": "x"})
	assert.Equal(t, resp.CodeNotFound, env.Code)

	env = f.call(t, f.admin, http.MethodPost, "/admin/v1/pages", gin.H{"name": "p1", "type": "html"})
	assert.Equal(t, resp.CodeBadRequest, env.Code)

	env = f.call(t, f.admin, http.MethodPost, "/admin/v1/pages", gin.H{"name": "p1"})
	require.Equal(t, resp.CodeOK, env.Code)
	env = f.call(t, f.admin, http.MethodPost, "/admin/v1/pages", gin.H{"name": "p1"})
	assert.Equal(t, resp.CodeConflict, env.Code)

	env = f.call(t, f.admin, http.MethodGet, "/admin/v1/pages?sort=content", nil)
	assert.Equal(t, resp.CodeBadRequest, env.Code)
}

func TestPageSearch(t *testing.T) {
	f := newFixture(t)
	for i, name := range []string{"c", "a", "b"} {
		env := f.call(t, f.admin, http.MethodPost, "/admin/v1/pages", gin.H{"name": name, "order": 3 - i})
		require.Equal(t, resp.CodeOK, env.Code)
	}

	env := f.call(t, f.admin, http.MethodGet, "/admin/v1/pages?page=0&size=2&sort=-name", nil)
	require.Equal(t, resp.CodeOK, env.Code, env.Msg)
	type item struct {
		Name string `json:"name"`
	}
	res := decode[struct {
		Content       []item `json:"content"`
		PageElements  int    `json:"pageElements"`
		TotalElements int64  `json:"totalElements"`
	}](t, env.Data)
	assert.Equal(t, []item{{"c"}, {"b"}}, res.Content)
	assert.Equal(t, 2, res.PageElements)
	assert.EqualValues(t, 3, res.TotalElements)
}

func TestPageSearchFarPastTheEnd(t *testing.T) {
	f := newFixture(t)
	env := f.call(t, f.admin, http.MethodPost, "/admin/v1/pages", gin.H{"name": "p1"})
	require.Equal(t, resp.CodeOK, env.Code)

	for _, path := range []string{"/admin/v1/pages?page=461168601842738791&size=20", "/admin/v1/users?page=461168601842738791&size=20"} {
		env = f.call(t, f.admin, http.MethodGet, path, nil)
		require.Equal(t, resp.CodeOK, env.Code, env.Msg)
		res := decode[struct {
			Content      []json.RawMessage `json:"content"`
			PageElements int               `json:"pageElements"`
		}](t, env.Data)
		assert.Empty(t, res.Content, path)
		assert.Zero(t, res.PageElements, path)
	}
}

func TestUsersHidePasswordAndHashIt(t *testing.T) {
	f := newFixture(t)

	env := f.call(t, f.admin, http.MethodPost, "/admin/v1/users", gin.H{
		"source": "github", "sourceId": "42", "email": "a@example.com", "password": "hunter2",
	})
	require.Equal(t, resp.CodeOK, env.Code, env.Msg)
	created := decode[map[string]any](t, env.Data)
	assert.NotContains(t, created, "password")
	id, _ := created["id"].(string)
	require.NotEmpty(t, id)

	stored, err := f.users.FindByID(t.Context(), id)
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2", stored.Password)
	assert.NotEmpty(t, stored.Password)

	env = f.call(t, f.admin, http.MethodGet, "/admin/v1/users/by-source?source=github&sourceId=42", nil)
	require.Equal(t, resp.CodeOK, env.Code, env.Msg)
	assert.Equal(t, id, decode[UserView](t, env.Data).ID)

	env = f.call(t, f.admin, http.MethodGet, "/admin/v1/users/by-source?source=github", nil)
	assert.Equal(t, resp.CodeBadRequest, env.Code)

	env = f.call(t, f.admin, http.MethodPost, "/admin/v1/users/lookup", gin.H{"ids": []string{id, id, "nope"}})
	require.Equal(t, resp.CodeOK, env.Code, env.Msg)
	assert.Len(t, decode[[]UserView](t, env.Data), 1)

	env = f.call(t, f.admin, http.MethodGet, "/admin/v1/users/"+id, nil)
	require.Equal(t, resp.CodeOK, env.Code)
	assert.NotContains(t, decode[map[string]any](t, env.Data), "password")
}

func TestAdminRequiresToken(t *testing.T) {
	f := newFixture(t)
	req := httptest.NewRequest(http.MethodGet, "/admin/v1/pages", nil)
	w := httptest.NewRecorder()
	f.admin.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Equal(t, resp.CodeUnauthorized, env.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	f := newFixture(t)
	for _, path := range []string{"/health", "/metrics"} {
		w := httptest.NewRecorder()
		f.api.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}
