// internal/app/features/dashboard/routes.go
package dashboard

import "github.com/go-chi/chi/v5"

// Routes wires the dashboard API under whatever mount point the top-level
// router chooses (normally "/api/dashboard").
//
// Routes are not gated on sign-in: anonymous callers receive null.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeDashboard)
	r.Get("/communities", h.ServeCommunities)
	r.Get("/governance-alerts", h.ServeGovernanceAlerts)
	r.Get("/activity", h.ServeActivity)
	r.Get("/upcoming-events", h.ServeUpcomingEvents)
	r.Get("/notifications/summary", h.ServeNotificationSummary)
	return r
}
