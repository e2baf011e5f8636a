package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type HTTP struct {
	Host            string
	Port            int
	ReadTimeoutSec  int
	WriteTimeoutSec int
	IdleTimeoutSec  int
}

type AdminHTTP struct {
	Host string
	Port int
}

type App struct {
	Name  string
	Env   string
	HTTP  HTTP
	Admin AdminHTTP
}

type Rotate struct {
	Enable     bool
	Filename   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

type Log struct {
	Level  string
	JSON   bool
	Rotate Rotate
}

type JWT struct {
	Secret            string
	Issuer            string
	AccessTokenTTLMin int
}

// Store selects the persistence backend: mongo, surrealdb, postgres, mysql or memory.
// postgres and mysql use the DB section.
type Store struct {
	Driver string
}

type Mongo struct {
	URI        string
	Database   string
	TimeoutSec int
}

type Surreal struct {
	URL       string
	Namespace string
	Database  string
	Username  string
	Password  string
}

type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type DB struct {
	Driver             string
	DSN                string
	Username           string
	Password           string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeMin int
	AutoMigrate        bool
	LogLevel           string
}

type Cache struct {
	Enable  bool
	TTLSec  int
	// MissTTLSec caches "not found" lookups; 0 disables it.
	MissTTLSec int
	Backend    string
}

func (c Cache) TTL() time.Duration { return time.Duration(c.TTLSec) * time.Second }

func (c Cache) MissTTL() time.Duration { return time.Duration(c.MissTTLSec) * time.Second }

type Config struct {
	App     App
	Log     Log
	JWT     JWT
	Store   Store
	Mongo   Mongo
	Surreal Surreal
	DB      DB
	Redis   Redis `mapstructure:"redis"`
	Cache   Cache
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "docstore")
	v.SetDefault("app.env", "local")
	v.SetDefault("app.http.host", "0.0.0.0")
	v.SetDefault("app.http.port", 8080)
	v.SetDefault("app.http.readTimeoutSec", 5)
	v.SetDefault("app.http.writeTimeoutSec", 10)
	v.SetDefault("app.http.idleTimeoutSec", 60)
	v.SetDefault("app.admin.host", "0.0.0.0")
	v.SetDefault("app.admin.port", 8081)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.rotate.filename", "logs/app.log")
	v.SetDefault("log.rotate.maxSizeMB", 100)
	v.SetDefault("log.rotate.maxBackups", 7)
	v.SetDefault("log.rotate.maxAgeDays", 30)

	v.SetDefault("jwt.issuer", "docstore")
	v.SetDefault("jwt.accessTokenTTLMin", 60)

	v.SetDefault("store.driver", "memory")
	v.SetDefault("mongo.uri", "mongodb://localhost:27017")
	v.SetDefault("mongo.database", "docstore")
	v.SetDefault("mongo.timeoutSec", 10)
	v.SetDefault("surreal.url", "ws://localhost:8000/rpc")
	v.SetDefault("surreal.namespace", "docstore")
	v.SetDefault("surreal.database", "docstore")

	v.SetDefault("db.maxOpenConns", 20)
	v.SetDefault("db.maxIdleConns", 10)
	v.SetDefault("db.connMaxLifetimeMin", 30)
	v.SetDefault("db.logLevel", "warn")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("cache.ttlSec", 300)
	v.SetDefault("cache.missTTLSec", 30)
	v.SetDefault("cache.backend", "memory")
}

// Load reads the YAML file at path (CONFIG_PATH when empty). APP_* environment
// variables override file values, e.g. APP_STORE_DRIVER=mongo.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
		if path == "" {
			path = "./configs/config.local.yaml"
		}
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	c.Store.Driver = strings.ToLower(c.Store.Driver)
	switch c.Store.Driver {
	case "mongo", "surrealdb", "postgres", "mysql", "memory":
	default:
		return nil, fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}
	return &c, nil
}
