// internal/app/features/dashboard/handler.go
package dashboard

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dalemusser/civichub/internal/app/civic"
	"github.com/dalemusser/civichub/internal/app/system/auth"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Source is the read model behind the dashboard endpoints.
// *civic.Engine satisfies it.
type Source interface {
	CommunitiesSnapshot(ctx context.Context, userID string) ([]civic.CommunityCard, error)
	GovernanceAlerts(ctx context.Context, userID string) (*civic.GovernanceAlerts, error)
	ActivityStream(ctx context.Context, userID string) ([]civic.FeedItem, error)
	UpcomingEvents(ctx context.Context, userID string) ([]civic.UpcomingEvent, error)
	NotificationSummary(ctx context.Context, userID string) (*civic.NotificationSummary, error)
	Dashboard(ctx context.Context, userID string) (*civic.Dashboard, error)
}

type Handler struct {
	Source Source
	Log    *zap.Logger
}

func NewHandler(src Source, logger *zap.Logger) *Handler {
	return &Handler{
		Source: src,
		Log:    logger,
	}
}

// serve adapts one entry point to JSON. Anonymous callers get 200 with a
// null body; the entry points already return nil for an empty identity.
func serve[T any](h *Handler, name string, fn func(context.Context, string) (T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := auth.UserID(r)

		v, err := fn(r.Context(), userID)
		if err != nil {
			ref := uuid.NewString()
			h.Log.Error("dashboard query failed",
				zap.String("query", name),
				zap.String("user", userID),
				zap.String("ref", ref),
				zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, map[string]string{
				"error": "something went wrong loading your dashboard",
				"ref":   ref,
			})
			return
		}
		writeJSON(w, http.StatusOK, v)
	}
}

func (h *Handler) ServeCommunities(w http.ResponseWriter, r *http.Request) {
	serve(h, "communities", h.Source.CommunitiesSnapshot)(w, r)
}

func (h *Handler) ServeGovernanceAlerts(w http.ResponseWriter, r *http.Request) {
	serve(h, "governance_alerts", h.Source.GovernanceAlerts)(w, r)
}

func (h *Handler) ServeActivity(w http.ResponseWriter, r *http.Request) {
	serve(h, "activity", h.Source.ActivityStream)(w, r)
}

func (h *Handler) ServeUpcomingEvents(w http.ResponseWriter, r *http.Request) {
	serve(h, "upcoming_events", h.Source.UpcomingEvents)(w, r)
}

func (h *Handler) ServeNotificationSummary(w http.ResponseWriter, r *http.Request) {
	serve(h, "notification_summary", h.Source.NotificationSummary)(w, r)
}

func (h *Handler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	serve(h, "dashboard", h.Source.Dashboard)(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
