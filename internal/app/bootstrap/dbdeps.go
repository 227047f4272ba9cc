// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/dalemusser/civichub/internal/app/system/filestore"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database/back-end dependencies for the app.
type DBDeps struct {
	CivicHubMongoClient   *mongo.Client
	CivicHubMongoDatabase *mongo.Database

	// Redis is nil when no redis_addr is configured.
	Redis redis.UniversalClient

	// Files resolves storage references to URLs, through the Redis cache
	// when one is configured.
	Files filestore.Resolver
}
