// internal/domain/models/channel.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Channel is a group chat channel. Messages in a channel with
// IsManagerOnlyPost set are announcements.
type Channel struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	GroupID           primitive.ObjectID `bson:"group_id" json:"group_id"`
	Name              string             `bson:"name" json:"name"`
	IsManagerOnlyPost bool               `bson:"is_manager_only_post" json:"is_manager_only_post"`
	CreatedAt         time.Time          `bson:"created_at" json:"created_at"`
}
