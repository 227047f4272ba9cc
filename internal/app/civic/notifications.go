package civic

import (
	"context"
	"fmt"

	"github.com/dalemusser/civichub/internal/domain/models"
)

type NotificationSummary struct {
	MentionsCount     int `json:"mentionsCount"`
	PendingVotesCount int `json:"pendingVotesCount"`
	TotalUnread       int `json:"totalUnread"`
}

// NotificationSummary counts the user's unread notifications by type.
func (e *Engine) NotificationSummary(ctx context.Context, userID string) (_ *NotificationSummary, err error) {
	if !authenticated(userID) {
		return nil, nil
	}
	ctx, done := e.instrument(ctx, "notification_summary")
	defer func() { done(-1, err) }()

	return e.notificationsFor(ctx, userID)
}

// notificationsFor does not depend on memberships.
func (e *Engine) notificationsFor(ctx context.Context, userID string) (*NotificationSummary, error) {
	unread, err := e.stores.Notifications.ListUnreadByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list unread notifications: %w", err)
	}
	return summarize(unread), nil
}

func summarize(unread []models.Notification) *NotificationSummary {
	s := &NotificationSummary{TotalUnread: len(unread)}
	for _, n := range unread {
		switch n.Type {
		case models.NotificationMention:
			s.MentionsCount++
		case models.NotificationGovernanceAlert:
			s.PendingVotesCount++
		}
	}
	return s
}
