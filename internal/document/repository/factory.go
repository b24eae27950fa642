package repository

import (
	"context"
	"fmt"

	"github.com/gogotex/docregistry/internal/config"
	"github.com/gogotex/docregistry/internal/database"
	"github.com/gogotex/docregistry/internal/storage"
	"github.com/gogotex/docregistry/pkg/logger"
	"github.com/redis/go-redis/v9"
)

const mongoConnectAttempts = 5

// New creates a Repository based on cfg.Storage.Backend.
//
// Supported backends:
//
//	"memory" - in-memory (ephemeral, default)
//	"sqlite" - SQLite database at SQLITE_PATH
//	"mongo"  - MongoDB collection
//	"redis"  - Redis hash + order list (uses rdb when non-nil)
//	"badger" - embedded Badger database
//	"minio"  - one JSON object per document in a MinIO bucket
//
// The returned cleanup func releases connections opened here.
func New(ctx context.Context, cfg *config.Config, rdb *redis.Client) (Repository, func(), error) {
	fields := map[string]interface{}{"storageBackend": cfg.Storage.Backend}
	noop := func() {}

	var (
		repo    Repository
		cleanup = noop
	)
	switch cfg.Storage.Backend {
	case "memory", "":
		repo = NewMemoryRepo()
		fields["storageBackend"] = "in-memory"
	case "sqlite":
		r, err := NewSqliteRepo(cfg.SQLite.Path)
		if err != nil {
			return nil, noop, fmt.Errorf("open sqlite %s: %w", cfg.SQLite.Path, err)
		}
		fields["path"] = cfg.SQLite.Path
		repo = r
		cleanup = func() { _ = r.Close() }
	case "mongo":
		client, err := database.ConnectMongoWithRetry(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout, mongoConnectAttempts)
		if err != nil {
			return nil, noop, err
		}
		fields["database"] = cfg.MongoDB.Database
		fields["collection"] = cfg.MongoDB.Collection
		repo = NewMongoRepo(client.Database(cfg.MongoDB.Database).Collection(cfg.MongoDB.Collection))
		cleanup = func() { _ = client.Disconnect(context.Background()) }
	case "redis":
		client := rdb
		if client == nil {
			c, err := database.ConnectRedis(ctx, cfg.Redis.Addr(), cfg.Redis.Password, cfg.Redis.DB)
			if err != nil {
				return nil, noop, err
			}
			client = c
			cleanup = func() { _ = c.Close() }
		}
		fields["addr"] = cfg.Redis.Addr()
		repo = NewRedisRepo(client, cfg.Redis.Prefix)
	case "badger":
		r, err := NewBadgerRepo(cfg.Badger.Dir, cfg.Badger.InMemory)
		if err != nil {
			return nil, noop, fmt.Errorf("open badger %s: %w", cfg.Badger.Dir, err)
		}
		fields["dir"] = cfg.Badger.Dir
		fields["inMemory"] = cfg.Badger.InMemory
		repo = r
		cleanup = func() { _ = r.Close() }
	case "minio":
		s, err := storage.NewMinIOStorage(ctx, &cfg.MinIO)
		if err != nil {
			return nil, noop, err
		}
		fields["bucket"] = cfg.MinIO.Bucket
		repo = NewObjectRepo(s, cfg.MinIO.Prefix)
	default:
		return nil, noop, fmt.Errorf("unknown storage backend: %q", cfg.Storage.Backend)
	}
	logger.WithFields(fields).Info("Use storage")
	return repo, cleanup, nil
}
