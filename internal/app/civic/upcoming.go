package civic

import (
	"context"
	"fmt"
	"sort"

	"github.com/dalemusser/civichub/internal/domain/models"
)

type UpcomingEvent struct {
	models.Event
	GroupName     *string `json:"groupName"`
	CoverImageURL *string `json:"coverImageUrl"`
	IsGoing       bool    `json:"isGoing"`
}

// UpcomingEvents returns every event in the user's groups that starts after
// the engine clock's now, soonest first. The list is not capped.
func (e *Engine) UpcomingEvents(ctx context.Context, userID string) ([]UpcomingEvent, error) {
	return forUser(e, ctx, userID, "upcoming_events", e.upcomingFor)
}

func (e *Engine) upcomingFor(ctx context.Context, sc *scope) ([]UpcomingEvent, error) {
	now := e.clock()

	perGroup, err := fanout(ctx, e.limit, sc.groups, func(ctx context.Context, gr GroupRole) ([]UpcomingEvent, error) {
		name, err := e.groupName(ctx, gr.GroupID)
		if err != nil {
			return nil, err
		}
		evts, err := e.stores.Events.ListUpcomingByGroup(ctx, gr.GroupID, now)
		if err != nil {
			return nil, fmt.Errorf("list upcoming events: %w", err)
		}
		out := make([]UpcomingEvent, 0, len(evts))
		for _, ev := range evts {
			// The store filters too; keep the bound exact here.
			if !ev.StartTime.After(now) {
				continue
			}
			out = append(out, UpcomingEvent{
				Event:         ev,
				GroupName:     name,
				CoverImageURL: sc.urls.resolve(ctx, ev.CoverImageID),
				IsGoing:       ev.IsAttending(sc.userID),
			})
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}

	all := []UpcomingEvent{}
	for _, evts := range perGroup {
		all = append(all, evts...)
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].StartTime.Before(all[j].StartTime)
	})
	return all, nil
}
