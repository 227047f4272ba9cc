// internal/app/store/proposals/proposalstore.go
package proposalstore

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
	return &Store{c: db.Collection("governance_proposals")}
}

// ListVotingByGroup returns proposals still open for voting, oldest first.
func (s *Store) ListVotingByGroup(ctx context.Context, groupID primitive.ObjectID) ([]models.GovernanceProposal, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"group_id": groupID, "status": models.ProposalVoting}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	proposals := []models.GovernanceProposal{}
	if err := cur.All(ctx, &proposals); err != nil {
		return nil, err
	}
	return proposals, nil
}

// CountVotingByGroup counts proposals open for voting without loading them.
func (s *Store) CountVotingByGroup(ctx context.Context, groupID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"group_id": groupID, "status": models.ProposalVoting})
}

func (s *Store) Create(ctx context.Context, p models.GovernanceProposal) (models.GovernanceProposal, error) {
	p.ID = primitive.NewObjectID()
	if p.Status == "" {
		p.Status = models.ProposalVoting
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	if _, err := s.c.InsertOne(ctx, p); err != nil {
		return models.GovernanceProposal{}, err
	}
	return p, nil
}
