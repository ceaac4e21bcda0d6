// Package mongodb builds the shared MongoDB client.
package mongodb

import (
	"context"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/MrSnakeDoc/bookmarks/internal/connect"
	"github.com/MrSnakeDoc/bookmarks/internal/logger"
)

// ConnectOptions defines the MongoDB client and its startup retry behavior.
type ConnectOptions struct {
	URI         string // connection string, may carry credentials
	MaxPoolSize uint64 // 0 keeps the driver default
	Retry       connect.RetryOptions
}

// New connects to MongoDB and blocks until the primary answers a ping.
// The returned client is safe for concurrent use and must be disconnected on shutdown.
func New(ctx context.Context, opts ConnectOptions, log logger.Logger) (*mongo.Client, error) {
	clientOpts := options.Client().ApplyURI(opts.URI)
	if err := clientOpts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid mongodb uri: %w", err)
	}
	if opts.MaxPoolSize > 0 {
		clientOpts.SetMaxPoolSize(opts.MaxPoolSize)
	}

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to create mongodb client: %w", err)
	}

	ping := func(ctx context.Context) error { return client.Ping(ctx, readpref.Primary()) }
	addr := strings.Join(clientOpts.Hosts, ",")
	if err := connect.WithRetry(ctx, "mongodb", addr, opts.Retry, ping, log); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	return client, nil
}
