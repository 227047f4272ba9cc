// internal/app/store/joinrequests/joinrequeststore.go
package joinrequeststore

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
	return &Store{c: db.Collection("join_requests")}
}

// pendingFilter selects a group's pending requests. Listing and counting
// both go through it so the two never disagree.
func pendingFilter(groupID primitive.ObjectID) bson.M {
	return bson.M{"group_id": groupID, "status": models.JoinRequestPending}
}

// ListPendingByGroup returns the group's pending requests, oldest first.
// Served by idx_group_status_created.
func (s *Store) ListPendingByGroup(ctx context.Context, groupID primitive.ObjectID) ([]models.JoinRequest, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.c.Find(ctx, pendingFilter(groupID), opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	requests := []models.JoinRequest{}
	if err := cur.All(ctx, &requests); err != nil {
		return nil, err
	}
	return requests, nil
}

// CountPendingByGroup counts the group's pending requests without loading them.
func (s *Store) CountPendingByGroup(ctx context.Context, groupID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, pendingFilter(groupID))
}

func (s *Store) Create(ctx context.Context, jr models.JoinRequest) (models.JoinRequest, error) {
	jr.ID = primitive.NewObjectID()
	if jr.Status == "" {
		jr.Status = models.JoinRequestPending
	}
	if jr.CreatedAt.IsZero() {
		jr.CreatedAt = time.Now().UTC()
	}
	if _, err := s.c.InsertOne(ctx, jr); err != nil {
		return models.JoinRequest{}, err
	}
	return jr, nil
}
