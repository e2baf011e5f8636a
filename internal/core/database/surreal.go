package database

import (
	"context"
	"fmt"
	"net/url"

	"github.com/surrealdb/surrealdb.go"
	"github.com/surrealdb/surrealdb.go/pkg/connection"
	"github.com/surrealdb/surrealdb.go/pkg/connection/gorillaws"
	"github.com/surrealdb/surrealdb.go/surrealcbor"
)

type SurrealOpts struct {
	URL       string
	Namespace string
	Database  string
	Username  string
	Password  string
}

// NewSurreal opens a websocket connection using the surrealcbor codec so
// time.Time values travel as native datetimes.
func NewSurreal(ctx context.Context, o SurrealOpts) (*surrealdb.DB, error) {
	u, err := url.Parse(o.URL)
	if err != nil {
		return nil, fmt.Errorf("surreal url: %w", err)
	}
	conf := connection.NewConfig(u)
	codec := surrealcbor.New()
	conf.Marshaler = codec
	conf.Unmarshaler = codec

	db, err := surrealdb.FromConnection(ctx, gorillaws.New(conf))
	if err != nil {
		return nil, fmt.Errorf("surreal connect: %w", err)
	}
	if o.Username != "" {
		if _, err := db.SignIn(ctx, map[string]any{"user": o.Username, "pass": o.Password}); err != nil {
			_ = db.Close(ctx)
			return nil, fmt.Errorf("surreal signin: %w", err)
		}
	}
	if err := db.Use(ctx, o.Namespace, o.Database); err != nil {
		_ = db.Close(ctx)
		return nil, fmt.Errorf("surreal use %s/%s: %w", o.Namespace, o.Database, err)
	}
	return db, nil
}
