package main

import (
	"context"
	"fmt"

	"github.com/dalemusser/hekto/internal/app/system/timeouts"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// connect opens the database named in g and returns a cleanup func.
func connect(ctx context.Context, g *Globals) (*mongo.Database, func(), error) {
	if err := wafflemongo.ValidateURI(g.MongoURI); err != nil {
		return nil, nil, fmt.Errorf("mongo uri: %w", err)
	}

	cctx, cancel := context.WithTimeout(ctx, timeouts.Medium())
	defer cancel()

	client, err := mongo.Connect(cctx, options.Client().ApplyURI(g.MongoURI).SetAppName("hektoctl"))
	if err != nil {
		return nil, nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(cctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("ping mongo: %w", err)
	}
	closeFn := func() { _ = client.Disconnect(context.Background()) }
	return client.Database(g.Database), closeFn, nil
}
