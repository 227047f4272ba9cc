package civic

import (
	"context"
	"errors"
	"fmt"

	"github.com/dalemusser/civichub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// RequesterProfile is the public slice of a join requester's profile.
type RequesterProfile struct {
	UserID    string      `json:"userId"`
	Name      string      `json:"name"`
	City      models.City `json:"city"`
	Bio       string      `json:"bio,omitempty"`
	Interests []string    `json:"interests"`
	ImageURL  string      `json:"imageUrl,omitempty"`
}

type JoinRequestAlert struct {
	models.JoinRequest
	GroupName *string           `json:"groupName"`
	Requester *RequesterProfile `json:"requester"`
}

type ProposalAlert struct {
	models.GovernanceProposal
	GroupName *string `json:"groupName"`
}

type GovernanceAlerts struct {
	PendingJoinRequests []JoinRequestAlert `json:"pendingJoinRequests"`
	ActiveProposals     []ProposalAlert    `json:"activeProposals"`
}

type groupAlerts struct {
	requests  []JoinRequestAlert
	proposals []ProposalAlert
}

// GovernanceAlerts lists pending join requests and voting proposals for the
// groups the user manages or founded.
//
// Lists follow membership order, then each group's created_at order. They
// are not re-sorted across groups.
func (e *Engine) GovernanceAlerts(ctx context.Context, userID string) (*GovernanceAlerts, error) {
	return forUser(e, ctx, userID, "governance_alerts", e.governanceAlertsFor)
}

func (e *Engine) governanceAlertsFor(ctx context.Context, sc *scope) (*GovernanceAlerts, error) {
	managed := elevatedOnly(sc.groups)

	perGroup, err := fanout(ctx, e.limit, managed, func(ctx context.Context, gr GroupRole) (groupAlerts, error) {
		return e.alertsForGroup(ctx, gr.GroupID)
	})
	if err != nil {
		return nil, err
	}

	out := &GovernanceAlerts{
		PendingJoinRequests: []JoinRequestAlert{},
		ActiveProposals:     []ProposalAlert{},
	}
	for _, ga := range perGroup {
		out.PendingJoinRequests = append(out.PendingJoinRequests, ga.requests...)
		out.ActiveProposals = append(out.ActiveProposals, ga.proposals...)
	}
	return out, nil
}

func (e *Engine) alertsForGroup(ctx context.Context, groupID primitive.ObjectID) (groupAlerts, error) {
	name, err := e.groupName(ctx, groupID)
	if err != nil {
		return groupAlerts{}, err
	}

	reqs, err := e.pendingJoinRequests(ctx, groupID)
	if err != nil {
		return groupAlerts{}, err
	}
	ga := groupAlerts{requests: make([]JoinRequestAlert, 0, len(reqs))}
	for _, jr := range reqs {
		requester, err := e.requester(ctx, jr.UserID)
		if err != nil {
			return groupAlerts{}, err
		}
		ga.requests = append(ga.requests, JoinRequestAlert{
			JoinRequest: jr,
			GroupName:   name,
			Requester:   requester,
		})
	}

	props, err := e.stores.Proposals.ListVotingByGroup(ctx, groupID)
	if err != nil {
		return groupAlerts{}, fmt.Errorf("list voting proposals: %w", err)
	}
	ga.proposals = make([]ProposalAlert, 0, len(props))
	for _, p := range props {
		ga.proposals = append(ga.proposals, ProposalAlert{GovernanceProposal: p, GroupName: name})
	}
	return ga, nil
}

// pendingJoinRequests lists a group's pending requests for the alert list.
// The snapshot count reads the same store filter via pendingJoinRequestCount.
func (e *Engine) pendingJoinRequests(ctx context.Context, groupID primitive.ObjectID) ([]models.JoinRequest, error) {
	reqs, err := e.stores.JoinRequests.ListPendingByGroup(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("list pending join requests: %w", err)
	}
	return reqs, nil
}

func (e *Engine) pendingJoinRequestCount(ctx context.Context, groupID primitive.ObjectID) (int, error) {
	n, err := e.stores.JoinRequests.CountPendingByGroup(ctx, groupID)
	if err != nil {
		return 0, fmt.Errorf("count pending join requests: %w", err)
	}
	return int(n), nil
}

func (e *Engine) requester(ctx context.Context, userID string) (*RequesterProfile, error) {
	u, err := e.stores.Users.GetByUserID(ctx, userID)
	if errors.Is(err, mongo.ErrNoDocuments) || (err == nil && u == nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load requester profile: %w", err)
	}
	interests := u.Interests
	if interests == nil {
		interests = []string{}
	}
	return &RequesterProfile{
		UserID:    u.UserID,
		Name:      u.Name,
		City:      u.City,
		Bio:       u.Bio,
		Interests: interests,
		ImageURL:  u.ImageURL,
	}, nil
}
