package civic

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Dashboard bundles all five entry points for a single round trip.
type Dashboard struct {
	Communities      []CommunityCard      `json:"communities"`
	GovernanceAlerts *GovernanceAlerts    `json:"governanceAlerts"`
	Activity         []FeedItem           `json:"activity"`
	UpcomingEvents   []UpcomingEvent      `json:"upcomingEvents"`
	Notifications    *NotificationSummary `json:"notifications"`
}

// Dashboard reads the membership index once and evaluates every part
// concurrently against that one group set. Cover URLs are resolved once per
// reference across parts.
func (e *Engine) Dashboard(ctx context.Context, userID string) (*Dashboard, error) {
	return forUser(e, ctx, userID, "dashboard", func(ctx context.Context, sc *scope) (*Dashboard, error) {
		var d Dashboard
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() (err error) {
			d.Communities, err = e.communitiesFor(gctx, sc)
			return err
		})
		g.Go(func() (err error) {
			d.GovernanceAlerts, err = e.governanceAlertsFor(gctx, sc)
			return err
		})
		g.Go(func() (err error) {
			d.Activity, err = e.activityFor(gctx, sc)
			return err
		})
		g.Go(func() (err error) {
			d.UpcomingEvents, err = e.upcomingFor(gctx, sc)
			return err
		})
		g.Go(func() (err error) {
			d.Notifications, err = e.notificationsFor(gctx, sc.userID)
			return err
		})
		if err := g.Wait(); err != nil {
			return nil, err
		}
		return &d, nil
	})
}
