// internal/app/store/memberships/membershipstore.go
package membershipstore

// Terminology: User Identifiers
//   - UserID / userID / user_id: the identity subject issued by the auth provider
//   - ID / _id: the Mongo ObjectID of the membership document itself

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/civichub/internal/app/policy/grouppolicy"
	"github.com/dalemusser/civichub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("group_memberships")}
}

var errBadRole = errors.New(`role must be "member", "manager" or "founder"`)

var ErrDuplicateMembership = errors.New("user is already a member of this group")

// Add creates a membership after enforcing role validity.
// The unique (user_id, group_id) index rejects duplicates.
func (s *Store) Add(ctx context.Context, groupID primitive.ObjectID, userID, role string) (models.GroupMembership, error) {
	if !grouppolicy.ValidRole(role) {
		return models.GroupMembership{}, errBadRole
	}
	m := models.GroupMembership{
		ID:        primitive.NewObjectID(),
		GroupID:   groupID,
		UserID:    userID,
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.c.InsertOne(ctx, m); err != nil {
		if wafflemongo.IsDup(err) {
			return models.GroupMembership{}, ErrDuplicateMembership
		}
		return models.GroupMembership{}, err
	}
	return m, nil
}

// ListByUser returns every membership held by userID, oldest first.
// The (created_at, _id) sort keeps the order stable across calls.
func (s *Store) ListByUser(ctx context.Context, userID string) ([]models.GroupMembership, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	memberships := []models.GroupMembership{}
	if err := cur.All(ctx, &memberships); err != nil {
		return nil, err
	}
	return memberships, nil
}

// CountByGroup returns the count of memberships for a group, optionally filtered by role.
// If role is empty, counts all memberships.
func (s *Store) CountByGroup(ctx context.Context, groupID primitive.ObjectID, role string) (int64, error) {
	filter := bson.M{"group_id": groupID}
	if role != "" {
		filter["role"] = role
	}
	return s.c.CountDocuments(ctx, filter)
}
