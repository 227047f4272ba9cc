package civic

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/dalemusser/civichub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/civichub/internal/domain/models"
)

// Feed item types.
const (
	FeedPoll         = "poll"
	FeedEventCreated = "event_created"
	FeedAnnouncement = "announcement"
)

// Per-group fetch caps and the final feed length.
const (
	feedPollsPerGroup      = 5
	feedEventsPerGroup     = 5
	feedMessagesPerChannel = 3
	feedLimit              = 20
)

// FeedItem is one entry of the activity stream. Data holds the poll, event
// or message document.
type FeedItem struct {
	Type        string    `json:"type"`
	Data        any       `json:"data"`
	Timestamp   time.Time `json:"timestamp"`
	GroupName   *string   `json:"groupName"`
	ChannelName string    `json:"channelName,omitempty"`
}

// ActivityStream returns the 20 most recent polls, events and announcements
// across the user's groups, newest first.
//
// Each group contributes at most 5 polls, 5 events and 3 messages per
// manager-only channel before the merge, so one busy group can still fill
// the final 20.
func (e *Engine) ActivityStream(ctx context.Context, userID string) ([]FeedItem, error) {
	return forUser(e, ctx, userID, "activity_stream", e.activityFor)
}

func (e *Engine) activityFor(ctx context.Context, sc *scope) ([]FeedItem, error) {
	perGroup, err := fanout(ctx, e.limit, sc.groups, func(ctx context.Context, gr GroupRole) ([]FeedItem, error) {
		return e.feedForGroup(ctx, gr)
	})
	if err != nil {
		return nil, err
	}
	return mergeFeed(perGroup, feedLimit), nil
}

func (e *Engine) feedForGroup(ctx context.Context, gr GroupRole) ([]FeedItem, error) {
	name, err := e.groupName(ctx, gr.GroupID)
	if err != nil {
		return nil, err
	}

	var items []FeedItem

	polls, err := e.stores.Polls.ListRecentByGroup(ctx, gr.GroupID, feedPollsPerGroup)
	if err != nil {
		return nil, fmt.Errorf("list recent polls: %w", err)
	}
	for _, p := range polls {
		items = append(items, FeedItem{Type: FeedPoll, Data: p, Timestamp: p.CreatedAt, GroupName: name})
	}

	evts, err := e.stores.Events.ListRecentByGroup(ctx, gr.GroupID, feedEventsPerGroup)
	if err != nil {
		return nil, fmt.Errorf("list recent events: %w", err)
	}
	for _, ev := range evts {
		items = append(items, FeedItem{Type: FeedEventCreated, Data: ev, Timestamp: ev.StartTime, GroupName: name})
	}

	chans, err := e.stores.Channels.ListManagerOnlyByGroup(ctx, gr.GroupID)
	if err != nil {
		return nil, fmt.Errorf("list announcement channels: %w", err)
	}
	for _, ch := range chans {
		msgs, err := e.stores.Messages.ListRecentByChannel(ctx, ch.ID, feedMessagesPerChannel)
		if err != nil {
			return nil, fmt.Errorf("list channel messages: %w", err)
		}
		for _, m := range msgs {
			items = append(items, FeedItem{
				Type:        FeedAnnouncement,
				Data:        sanitizedMessage(m),
				Timestamp:   m.CreatedAt,
				GroupName:   name,
				ChannelName: ch.Name,
			})
		}
	}
	return items, nil
}

func sanitizedMessage(m models.Message) models.Message {
	m.Body = htmlsanitize.Sanitize(m.Body)
	return m
}

// mergeFeed flattens per-group items, sorts newest first and keeps the top
// limit. Equal timestamps keep group order, then fetch order.
func mergeFeed(perGroup [][]FeedItem, limit int) []FeedItem {
	all := []FeedItem{}
	for _, items := range perGroup {
		all = append(all, items...)
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Timestamp.After(all[j].Timestamp)
	})
	if len(all) > limit {
		all = all[:limit]
	}
	return all
}
