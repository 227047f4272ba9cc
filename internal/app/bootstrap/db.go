// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/dalemusser/civichub/internal/app/system/filestore"
	"github.com/dalemusser/civichub/internal/app/system/indexes"
	"github.com/dalemusser/waffle/config"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// ConnectDB connects MongoDB, the optional Redis cache and the file store.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	opts := options.Client().ApplyURI(appCfg.MongoURI)
	if appCfg.MongoMaxPoolSize > 0 {
		opts.SetMaxPoolSize(appCfg.MongoMaxPoolSize)
	}
	if appCfg.MongoMinPoolSize > 0 {
		opts.SetMinPoolSize(appCfg.MongoMinPoolSize)
	}

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return DBDeps{}, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return DBDeps{}, fmt.Errorf("mongo ping: %w", err)
	}
	logger.Info("connected to MongoDB", zap.String("database", appCfg.MongoDatabase))

	deps := DBDeps{
		CivicHubMongoClient:   client,
		CivicHubMongoDatabase: client.Database(appCfg.MongoDatabase),
	}

	if appCfg.RedisAddr != "" {
		deps.Redis = redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs:    []string{appCfg.RedisAddr},
			Password: appCfg.RedisPassword,
			DB:       appCfg.RedisDB,
		})
		// An unreachable cache is not fatal; the circuit breaker routes
		// around it.
		if err := deps.Redis.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unreachable at startup", zap.String("addr", appCfg.RedisAddr), zap.Error(err))
		} else {
			logger.Info("connected to Redis", zap.String("addr", appCfg.RedisAddr))
		}
	}

	files, err := buildResolver(ctx, appCfg)
	if err != nil {
		_ = client.Disconnect(ctx)
		return DBDeps{}, err
	}
	deps.Files = cacheResolver(files, deps.Redis, appCfg.FileURLTTL, logger)

	return deps, nil
}

// buildResolver returns the backing file store for appCfg.StorageType.
func buildResolver(ctx context.Context, appCfg AppConfig) (filestore.Resolver, error) {
	switch appCfg.StorageType {
	case "s3":
		s3, err := filestore.NewS3(ctx, filestore.S3Config{
			Region:          appCfg.StorageS3Region,
			Bucket:          appCfg.StorageS3Bucket,
			Prefix:          appCfg.StorageS3Prefix,
			Endpoint:        appCfg.StorageS3Endpoint,
			AccessKeyID:     appCfg.StorageS3AccessKey,
			SecretAccessKey: appCfg.StorageS3SecretKey,
			Expiry:          appCfg.StorageS3URLExpiry,
		})
		if err != nil {
			return nil, fmt.Errorf("s3 file store: %w", err)
		}
		return s3, nil
	default:
		return filestore.NewLocal(appCfg.StorageLocalURL), nil
	}
}

// fileURLMemoSize bounds the in-process URL cache.
const fileURLMemoSize = 4096

// cacheResolver keeps resolved URLs stable for ttl. The in-process memo is
// always present; Redis, when configured, shares URLs across instances and
// the memo covers for it while its breaker is open.
func cacheResolver(files filestore.Resolver, rdb redis.UniversalClient, ttl time.Duration, logger *zap.Logger) filestore.Resolver {
	files = filestore.NewMemo(files, fileURLMemoSize, ttl)
	if rdb != nil {
		files = filestore.NewCached(files, rdb, ttl, logger)
	}
	return files
}

// EnsureSchema creates the indexes every dashboard query relies on.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if err := indexes.EnsureAll(ctx, deps.CivicHubMongoDatabase); err != nil {
		logger.Error("ensure indexes failed", zap.Error(err))
		return err
	}
	logger.Info("indexes ensured")
	return nil
}
