package app

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/MrSnakeDoc/bookmarks/internal/config"
	"github.com/MrSnakeDoc/bookmarks/internal/connect"
	"github.com/MrSnakeDoc/bookmarks/internal/logger"
	"github.com/MrSnakeDoc/bookmarks/internal/mongodb"
	"github.com/MrSnakeDoc/bookmarks/internal/redis"
	"github.com/MrSnakeDoc/bookmarks/internal/service"
	"github.com/MrSnakeDoc/bookmarks/internal/sources/homepage"
	mongostore "github.com/MrSnakeDoc/bookmarks/internal/store/mongo"
	redisstore "github.com/MrSnakeDoc/bookmarks/internal/store/redis"
)

// Backends are the connected stores and the components built on them.
// Shared by `serve` and `import`.
type Backends struct {
	logger logger.Logger

	mongoClient *mongo.Client
	redisClient *goredis.Client // nil when the cache is disabled

	Store    *mongostore.Repository
	Cache    *redisstore.Store // nil when the cache is disabled
	Service  *service.BookmarkService
	Importer *homepage.Importer
}

// Connect opens MongoDB (required) and Redis (when configured), creates indexes
// and builds the service. Callers must Close the result.
func Connect(ctx context.Context, cfg *config.Config, log logger.Logger) (*Backends, error) {
	b := &Backends{logger: log}

	log.Info("connecting to MongoDB",
		logger.String("database", cfg.MongoDatabase),
		logger.String("collection", cfg.MongoCollection))
	mongoClient, err := mongodb.New(ctx, mongodb.ConnectOptions{
		URI:         cfg.MongoURI,
		MaxPoolSize: cfg.MongoPoolSize,
		Retry: connect.RetryOptions{
			ConnectTimeout: cfg.MongoConnect,
			RetryInterval:  cfg.MongoRetryInterval,
			MaxWait:        cfg.MongoMaxWait,
			PingTimeout:    cfg.MongoPingTimeout,
			WarnThreshold:  cfg.MongoWarnThreshold,
		},
	}, log)
	if err != nil {
		return nil, err
	}
	b.mongoClient = mongoClient

	b.Store = mongostore.NewRepository(mongoClient.Database(cfg.MongoDatabase), cfg.MongoCollection)
	if err := b.Store.EnsureIndexes(ctx); err != nil {
		b.Close(context.Background())
		return nil, fmt.Errorf("ensure indexes: %w", err)
	}
	log.Info("MongoDB initialized successfully")

	var repo service.Repository = b.Store
	if cfg.CacheEnabled() {
		log.Infof("Connecting to Redis at %s", cfg.RedisAddr)
		redisClient, err := redis.New(ctx, redis.ConnectOptions{
			Addr:         cfg.RedisAddr,
			User:         cfg.RedisUser,
			Password:     cfg.RedisPassword,
			RedisDB:      cfg.RedisDB,
			DialTimeout:  cfg.RedisDT,
			ReadTimeout:  cfg.RedisRT,
			WriteTimeout: cfg.RedisWT,
			PoolSize:     cfg.RedisPoolSize,
			Retry: connect.RetryOptions{
				ConnectTimeout: cfg.RedisConnectTimeout,
				RetryInterval:  cfg.RedisRetryInterval,
				MaxWait:        cfg.RedisMaxWait,
				PingTimeout:    cfg.RedisPingTimeout,
				WarnThreshold:  cfg.RedisWarnThreshold,
			},
		}, log)
		if err != nil {
			b.Close(context.Background())
			return nil, err
		}
		b.redisClient = redisClient
		b.Cache = redisstore.NewStore(redisClient)
		repo = redisstore.NewCachedRepository(b.Store, b.Cache, cfg.CacheTTL, log)
		log.Info("Redis bookmark cache enabled", logger.Duration("ttl", cfg.CacheTTL))
	} else {
		log.Info("REDIS_ADDR not set, bookmark cache disabled")
	}

	b.Service = service.NewBookmarkService(repo)
	b.Importer = homepage.NewImporter(repo, b.Service, log)
	return b, nil
}

// Close releases Redis then MongoDB. Safe on a partially built value.
func (b *Backends) Close(ctx context.Context) {
	if b.redisClient != nil {
		if err := b.redisClient.Close(); err != nil {
			b.logger.Warnf("failed to close redis: %v", err)
		} else {
			b.logger.Info("✅ Redis closed cleanly")
		}
	}
	if b.mongoClient != nil {
		if err := b.mongoClient.Disconnect(ctx); err != nil {
			b.logger.Warnf("failed to disconnect mongodb: %v", err)
		} else {
			b.logger.Info("✅ MongoDB disconnected cleanly")
		}
	}
}
