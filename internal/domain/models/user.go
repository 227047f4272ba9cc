// internal/domain/models/user.go
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// City is the home city a user picked during onboarding.
type City struct {
	Name    string  `bson:"name" json:"name"`
	Country string  `bson:"country" json:"country"`
	State   string  `bson:"state,omitempty" json:"state,omitempty"`
	Lat     float64 `bson:"lat" json:"lat"`
	Lon     float64 `bson:"lon" json:"lon"`
}

// User is the public profile attached to an identity.
//
// NOTE:
//   - UserID links to the auth provider's subject; one profile per subject.
//   - Group membership is not embedded on User.
//     Use the group_memberships collection to discover a user's groups.
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    string             `bson:"user_id" json:"user_id"`
	Name      string             `bson:"name" json:"name"`
	City      City               `bson:"city" json:"city"`
	Bio       string             `bson:"bio,omitempty" json:"bio,omitempty"`
	Interests []string           `bson:"interests" json:"interests"`
	ImageURL  string             `bson:"image_url,omitempty" json:"image_url,omitempty"`
	IsPublic  *bool              `bson:"is_public,omitempty" json:"is_public,omitempty"`
}
