// internal/domain/models/proposal.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Proposal statuses. Only "voting" counts as active.
const (
	ProposalVoting   = "voting"
	ProposalPassed   = "passed"
	ProposalRejected = "rejected"
	ProposalExpired  = "expired"
)

// GovernanceProposal is a group-scoped item that members vote on.
type GovernanceProposal struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	GroupID      primitive.ObjectID `bson:"group_id" json:"group_id"`
	Title        string             `bson:"title" json:"title"`
	Description  string             `bson:"description,omitempty" json:"description,omitempty"`
	Status       string             `bson:"status" json:"status"`
	CreatedBy    string             `bson:"created_by" json:"created_by"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	VotingEndsAt *time.Time         `bson:"voting_ends_at,omitempty" json:"voting_ends_at,omitempty"`
}
