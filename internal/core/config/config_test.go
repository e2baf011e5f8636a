package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestLoadAppliesDefaults(t *testing.T) {
	c, err := Load(writeFile(t, "app:\n  name: pages\n"))
	require.NoError(t, err)
	assert.Equal(t, "pages", c.App.Name)
	assert.Equal(t, 8080, c.App.HTTP.Port)
	assert.Equal(t, "memory", c.Store.Driver)
	assert.Equal(t, "docstore", c.Mongo.Database)
	assert.Equal(t, 300, c.Cache.TTLSec)
	assert.EqualValues(t, 30e9, c.Cache.MissTTL())
	assert.Equal(t, "logs/app.log", c.Log.Rotate.Filename)
}

func TestLoadReadsSections(t *testing.T) {
	c, err := Load(writeFile(t, `
store:
  driver: Mongo
mongo:
  uri: mongodb://db:27017
  database: wiki
  timeoutSec: 3
cache:
  enable: true
  ttlSec: 60
  backend: redis
redis:
  addr: cache:6379
  db: 2
`))
	require.NoError(t, err)
	assert.Equal(t, "mongo", c.Store.Driver)
	assert.Equal(t, "mongodb://db:27017", c.Mongo.URI)
	assert.Equal(t, "wiki", c.Mongo.Database)
	assert.Equal(t, 3, c.Mongo.TimeoutSec)
	assert.True(t, c.Cache.Enable)
	assert.Equal(t, "redis", c.Cache.Backend)
	assert.EqualValues(t, 60e9, c.Cache.TTL())
	assert.Equal(t, "cache:6379", c.Redis.Addr)
	assert.Equal(t, 2, c.Redis.DB)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("APP_STORE_DRIVER", "surrealdb")
	c, err := Load(writeFile(t, "store:\n  driver: memory\n"))
	require.NoError(t, err)
	assert.Equal(t, "surrealdb", c.Store.Driver)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "store:\n  driver: cassandra\n"))
	assert.ErrorContains(t, err, "cassandra")
}
