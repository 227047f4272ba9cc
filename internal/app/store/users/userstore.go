package userstore

import (
	"context"
	"errors"

	"github.com/dalemusser/civichub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

var ErrDuplicateProfile = errors.New("a profile already exists for this user")

// GetByUserID loads the profile for an identity subject.
// Returns mongo.ErrNoDocuments if the user never onboarded or was deleted.
func (s *Store) GetByUserID(ctx context.Context, userID string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"user_id": userID}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a profile. Interests is normalized to an empty list so the
// stored document always carries the field.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	u.ID = primitive.NewObjectID()
	if u.Interests == nil {
		u.Interests = []string{}
	}
	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateProfile
		}
		return models.User{}, err
	}
	return u, nil
}
