// internal/app/store/channels/channelstore.go
package channelstore

import (
	"context"
	"time"

	"github.com/dalemusser/civichub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("channels")}
}

// ListManagerOnlyByGroup returns the group's announcement channels
// (is_manager_only_post = true) in creation order.
func (s *Store) ListManagerOnlyByGroup(ctx context.Context, groupID primitive.ObjectID) ([]models.Channel, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"group_id": groupID, "is_manager_only_post": true}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	channels := []models.Channel{}
	if err := cur.All(ctx, &channels); err != nil {
		return nil, err
	}
	return channels, nil
}

func (s *Store) Create(ctx context.Context, ch models.Channel) (models.Channel, error) {
	ch.ID = primitive.NewObjectID()
	if ch.CreatedAt.IsZero() {
		ch.CreatedAt = time.Now().UTC()
	}
	if _, err := s.c.InsertOne(ctx, ch); err != nil {
		return models.Channel{}, err
	}
	return ch, nil
}
