// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// collectionIndexes pairs a collection with the indexes its queries rely on.
type collectionIndexes struct {
	collection string
	models     []mongo.IndexModel
}

func idx(name string, unique bool, keys ...string) mongo.IndexModel {
	d := make(bson.D, 0, len(keys))
	for _, k := range keys {
		dir := 1
		if strings.HasPrefix(k, "-") {
			dir, k = -1, k[1:]
		}
		d = append(d, bson.E{Key: k, Value: dir})
	}
	opts := options.Index().SetName(name)
	if unique {
		opts.SetUnique(true)
	}
	return mongo.IndexModel{Keys: d, Options: opts}
}

// desired returns every index the dashboard queries use, by collection.
func desired() []collectionIndexes {
	return []collectionIndexes{
		{"group_memberships", []mongo.IndexModel{
			idx("uniq_user_group", true, "user_id", "group_id"),
			idx("idx_user_created", false, "user_id", "created_at", "_id"),
			idx("idx_group_role", false, "group_id", "role"),
		}},
		{"groups", []mongo.IndexModel{
			idx("idx_category_name", false, "category", "name"),
		}},
		{"users", []mongo.IndexModel{
			idx("uniq_user_id", true, "user_id"),
		}},
		{"join_requests", []mongo.IndexModel{
			idx("idx_group_status_created", false, "group_id", "status", "created_at"),
		}},
		{"governance_proposals", []mongo.IndexModel{
			idx("idx_group_status_created", false, "group_id", "status", "created_at"),
		}},
		{"events", []mongo.IndexModel{
			idx("idx_group_start", false, "group_id", "start_time"),
			idx("idx_group_created", false, "group_id", "-created_at"),
		}},
		{"polls", []mongo.IndexModel{
			idx("idx_group_created", false, "group_id", "-created_at"),
		}},
		{"channels", []mongo.IndexModel{
			idx("idx_group_manager_only", false, "group_id", "is_manager_only_post"),
		}},
		{"messages", []mongo.IndexModel{
			idx("idx_channel_created", false, "channel_id", "-created_at"),
		}},
		{"notifications", []mongo.IndexModel{
			idx("idx_user_read_created", false, "user_id", "is_read", "-created_at"),
		}},
	}
}

/*
EnsureAll is called at startup. Reconciliation is idempotent.
Problems are aggregated so every failing collection is reported and startup
can fail fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string
	for _, ci := range desired() {
		if err := ensureIndexSet(ctx, db.Collection(ci.collection), ci.models); err != nil {
			problems = append(problems, ci.collection+": "+err.Error())
		}
	}
	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Core helper: reconcile a set of desired indexes for one collection         */
/* -------------------------------------------------------------------------- */

type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique *bool  `bson:"unique,omitempty"`
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

func isUnique(b *bool) bool { return b != nil && *b }

func listExisting(ctx context.Context, coll *mongo.Collection) (map[string]existingIndex, error) {
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	existing := map[string]existingIndex{} // sig -> index
	for cur.Next(ctx) {
		var ix existingIndex
		if err := cur.Decode(&ix); err != nil {
			zap.L().Warn("failed to decode existing index",
				zap.String("collection", coll.Name()),
				zap.Error(err))
			continue
		}
		existing[keySig(ix.Key)] = ix
	}
	return existing, cur.Err()
}

// ensureIndexSet makes coll carry each model: existing indexes with the same
// keys and uniqueness are reused (renamed if needed), mismatches are dropped
// and recreated, and missing ones are created.
func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	existing, err := listExisting(ctx, coll)
	if err != nil {
		// Namespace does not exist yet: nothing to reconcile against.
		existing = map[string]existingIndex{}
	}

	var errs []string
	for _, m := range models {
		name := *m.Options.Name
		unique := isUnique(m.Options.Unique)
		sig := keySig(m.Keys.(bson.D))
		start := time.Now()

		ex, found := existing[sig]
		switch {
		case found && isUnique(ex.Unique) == unique && ex.Name == name:
			zap.L().Info("reusing existing index",
				zap.String("collection", coll.Name()),
				zap.String("name", ex.Name),
				zap.String("keys", sig))
			continue

		case found:
			zap.L().Info("replacing index",
				zap.String("collection", coll.Name()),
				zap.String("from", ex.Name),
				zap.String("to", name),
				zap.String("keys", sig),
				zap.Bool("unique", unique))
			if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
				errs = append(errs, fmt.Sprintf("%s(%s): drop failed: %v", coll.Name(), name, err))
				continue
			}
		}

		if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
			if unique && wafflemongo.IsDup(err) {
				errs = append(errs, fmt.Sprintf("%s(%s): cannot create unique index (duplicates present)", coll.Name(), name))
			} else {
				errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), name, err))
			}
			continue
		}
		zap.L().Info("index created",
			zap.String("collection", coll.Name()),
			zap.String("name", name),
			zap.String("keys", sig),
			zap.Bool("unique", unique),
			zap.String("took", time.Since(start).String()))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}
