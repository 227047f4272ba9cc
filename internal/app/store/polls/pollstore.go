// internal/app/store/polls/pollstore.go
package pollstore

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
	return &Store{c: db.Collection("polls")}
}

// ListRecentByGroup returns the limit newest polls for a group.
func (s *Store) ListRecentByGroup(ctx context.Context, groupID primitive.ObjectID, limit int64) ([]models.Poll, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(limit)
	cur, err := s.c.Find(ctx, bson.M{"group_id": groupID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	polls := []models.Poll{}
	if err := cur.All(ctx, &polls); err != nil {
		return nil, err
	}
	return polls, nil
}

func (s *Store) Create(ctx context.Context, p models.Poll) (models.Poll, error) {
	p.ID = primitive.NewObjectID()
	if p.Options == nil {
		p.Options = []string{}
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	if _, err := s.c.InsertOne(ctx, p); err != nil {
		return models.Poll{}, err
	}
	return p, nil
}
