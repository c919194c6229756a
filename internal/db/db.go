package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// Pool wraps a pooled MongoDB client bound to one database.
type Pool struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewPool connects with at most size pooled connections and pings the primary.
func NewPool(ctx context.Context, uri, database string, size int) (*Pool, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1)).
		SetConnectTimeout(5 * time.Second)
	if size > 0 {
		opts.SetMaxPoolSize(uint64(size))
	}
	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("pool: connect: %w", err)
	}
	p := &Pool{client: client, db: client.Database(database)}
	if err := p.Ping(ctx); err != nil {
		p.Close(context.Background())
		return nil, fmt.Errorf("pool: ping: %w", err)
	}
	return p, nil
}

// Collection returns a handle on the named collection.
func (p *Pool) Collection(name string) *mongo.Collection {
	return p.db.Collection(name)
}

func (p *Pool) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return p.client.Ping(ctx, readpref.Primary())
}

// Close disconnects all pooled connections.
func (p *Pool) Close(ctx context.Context) error {
	return p.client.Disconnect(ctx)
}
