package civic

import (
	"context"
	"errors"
	"fmt"

	"github.com/dalemusser/civichub/internal/app/policy/grouppolicy"
	"github.com/dalemusser/civichub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
)

// Governance status values.
const (
	StatusActionNeeded = "Action Needed"
	StatusHealthy      = "Healthy"
)

// CommunityCard is one group on the user's dashboard.
type CommunityCard struct {
	models.Group
	CoverImageURL       *string `json:"coverImageUrl"`
	Role                string  `json:"role"`
	MemberCount         int64   `json:"memberCount"`
	GovernanceStatus    string  `json:"governanceStatus"`
	PendingJoinRequests int     `json:"pendingJoinRequests"`
}

// CommunitiesSnapshot returns a card per membership in membership order.
// Memberships whose group was deleted are left out.
func (e *Engine) CommunitiesSnapshot(ctx context.Context, userID string) ([]CommunityCard, error) {
	return forUser(e, ctx, userID, "communities_snapshot", e.communitiesFor)
}

func (e *Engine) communitiesFor(ctx context.Context, sc *scope) ([]CommunityCard, error) {
	cards, err := fanout(ctx, e.limit, sc.groups, func(ctx context.Context, gr GroupRole) (*CommunityCard, error) {
		return e.communityCard(ctx, gr, sc.urls)
	})
	if err != nil {
		return nil, err
	}

	out := make([]CommunityCard, 0, len(cards))
	for _, c := range cards {
		if c != nil {
			out = append(out, *c)
		}
	}
	return out, nil
}

// communityCard returns nil when the group no longer exists.
func (e *Engine) communityCard(ctx context.Context, gr GroupRole, urls *urlMemo) (*CommunityCard, error) {
	g, err := e.stores.Groups.GetByID(ctx, gr.GroupID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load group %s: %w", gr.GroupID.Hex(), err)
	}

	members, err := e.stores.Memberships.CountByGroup(ctx, g.ID, "")
	if err != nil {
		return nil, fmt.Errorf("count members: %w", err)
	}

	voting, err := e.stores.Proposals.CountVotingByGroup(ctx, g.ID)
	if err != nil {
		return nil, fmt.Errorf("count voting proposals: %w", err)
	}

	pending := 0
	if grouppolicy.IsElevated(gr.Role) {
		pending, err = e.pendingJoinRequestCount(ctx, g.ID)
		if err != nil {
			return nil, err
		}
	}

	return &CommunityCard{
		Group:               g,
		CoverImageURL:       urls.resolve(ctx, g.CoverImageID),
		Role:                gr.Role,
		MemberCount:         members,
		GovernanceStatus:    governanceStatus(voting),
		PendingJoinRequests: pending,
	}, nil
}

func governanceStatus(votingProposals int64) string {
	if votingProposals > 0 {
		return StatusActionNeeded
	}
	return StatusHealthy
}
