package civic

import (
	"context"
	"fmt"

	"github.com/dalemusser/civichub/internal/app/policy/grouppolicy"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"
)

// GroupRole is one entry of a user's membership index.
type GroupRole struct {
	GroupID primitive.ObjectID
	Role    string
}

// Memberships returns the user's (group, role) pairs, oldest membership first.
func (e *Engine) Memberships(ctx context.Context, userID string) ([]GroupRole, error) {
	if !authenticated(userID) {
		return nil, ErrNotAuthenticated
	}
	ms, err := e.stores.Memberships.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list memberships: %w", err)
	}
	out := make([]GroupRole, 0, len(ms))
	for _, m := range ms {
		out = append(out, GroupRole{GroupID: m.GroupID, Role: m.Role})
	}
	return out, nil
}

func elevatedOnly(groups []GroupRole) []GroupRole {
	out := make([]GroupRole, 0, len(groups))
	for _, g := range groups {
		if grouppolicy.IsElevated(g.Role) {
			out = append(out, g)
		}
	}
	return out
}

// fanout runs fn for every group with at most limit in flight. Results are
// returned in group order regardless of completion order. The first error
// cancels the remaining calls.
func fanout[T any](ctx context.Context, limit int, groups []GroupRole, fn func(context.Context, GroupRole) (T, error)) ([]T, error) {
	out := make([]T, len(groups))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, gr := range groups {
		g.Go(func() error {
			v, err := fn(gctx, gr)
			if err != nil {
				return err
			}
			out[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
