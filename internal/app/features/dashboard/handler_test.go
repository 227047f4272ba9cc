package dashboard_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/civichub/internal/app/civic"
	"github.com/dalemusser/civichub/internal/app/features/dashboard"
	"github.com/dalemusser/civichub/internal/app/system/filestore"
	"github.com/dalemusser/civichub/internal/domain/models"
	"github.com/dalemusser/civichub/internal/testutil"
	"go.uber.org/zap"
)

// failingSource errors on every entry point.
type failingSource struct{ err error }

func (f failingSource) CommunitiesSnapshot(context.Context, string) ([]civic.CommunityCard, error) {
	return nil, f.err
}
func (f failingSource) GovernanceAlerts(context.Context, string) (*civic.GovernanceAlerts, error) {
	return nil, f.err
}
func (f failingSource) ActivityStream(context.Context, string) ([]civic.FeedItem, error) {
	return nil, f.err
}
func (f failingSource) UpcomingEvents(context.Context, string) ([]civic.UpcomingEvent, error) {
	return nil, f.err
}
func (f failingSource) NotificationSummary(context.Context, string) (*civic.NotificationSummary, error) {
	return nil, f.err
}
func (f failingSource) Dashboard(context.Context, string) (*civic.Dashboard, error) {
	return nil, f.err
}

var paths = []string{
	"/",
	"/communities",
	"/governance-alerts",
	"/activity",
	"/upcoming-events",
	"/notifications/summary",
}

func TestRoutes_StoreFailureIs500WithGenericBody(t *testing.T) {
	h := dashboard.NewHandler(failingSource{err: errors.New("mongo: connection refused")}, zap.NewNop())
	router := dashboard.Routes(h)

	for _, p := range paths {
		req := testutil.WithUser(httptest.NewRequest("GET", p, nil), "u1")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusInternalServerError {
			t.Errorf("%s: status %d, want 500", p, rec.Code)
		}
		if strings.Contains(rec.Body.String(), "mongo") {
			t.Errorf("%s: internal error leaked to client: %s", p, rec.Body.String())
		}
	}
}

func newEngineHandler(t *testing.T) (*dashboard.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	engine := civic.New(db, filestore.NewLocal("/files"), civic.Options{Log: zap.NewNop()})
	return dashboard.NewHandler(engine, zap.NewNop()), testutil.NewFixtures(t, db)
}

func TestRoutes_AnonymousGetsNull(t *testing.T) {
	h, _ := newEngineHandler(t)
	router := dashboard.Routes(h)

	for _, p := range paths {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest("GET", p, nil))

		if rec.Code != http.StatusOK {
			t.Errorf("%s: status %d, want 200", p, rec.Code)
		}
		if got := strings.TrimSpace(rec.Body.String()); got != "null" {
			t.Errorf("%s: body %q, want null", p, got)
		}
		if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
			t.Errorf("%s: Content-Type %q", p, ct)
		}
	}
}

func TestRoutes_NoMemberships(t *testing.T) {
	h, _ := newEngineHandler(t)
	router := dashboard.Routes(h)

	want := map[string]string{
		"/communities":           `[]`,
		"/governance-alerts":     `{"pendingJoinRequests":[],"activeProposals":[]}`,
		"/activity":              `[]`,
		"/upcoming-events":       `[]`,
		"/notifications/summary": `{"mentionsCount":0,"pendingVotesCount":0,"totalUnread":0}`,
	}
	for p, body := range want {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, testutil.WithUser(httptest.NewRequest("GET", p, nil), "newcomer"))
		if got := strings.TrimSpace(rec.Body.String()); got != body {
			t.Errorf("%s: body %s, want %s", p, got, body)
		}
	}
}

func TestRoutes_ManagerScenario(t *testing.T) {
	h, fx := newEngineHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	now := time.Now()
	a := fx.CreateGroupWithCover(ctx, "Group A", "covers/a.png")
	b := fx.CreateGroup(ctx, "Group B")
	fx.CreateMembership(ctx, "U", a.ID, models.RoleManager)
	fx.CreateMembership(ctx, "U", b.ID, models.RoleMember)
	fx.CreateUser(ctx, "r1", "Requester One")
	fx.CreateJoinRequest(ctx, a.ID, "r1", models.JoinRequestPending, now.Add(-2*time.Hour))
	fx.CreateJoinRequest(ctx, a.ID, "r2", models.JoinRequestPending, now.Add(-time.Hour))
	fx.CreateProposal(ctx, a.ID, "Budget", models.ProposalVoting, now.Add(-time.Hour))
	fx.CreateEvent(ctx, b.ID, "Picnic", now.Add(24*time.Hour), now.Add(-time.Hour), "U")

	router := dashboard.Routes(h)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, testutil.WithUser(httptest.NewRequest("GET", "/", nil), "U"))
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}

	var got struct {
		Communities []struct {
			Name                string  `json:"name"`
			GovernanceStatus    string  `json:"governanceStatus"`
			PendingJoinRequests int     `json:"pendingJoinRequests"`
			CoverImageURL       *string `json:"coverImageUrl"`
		} `json:"communities"`
		GovernanceAlerts struct {
			PendingJoinRequests []struct {
				Requester *struct {
					Name string `json:"name"`
				} `json:"requester"`
			} `json:"pendingJoinRequests"`
			ActiveProposals []json.RawMessage `json:"activeProposals"`
		} `json:"governanceAlerts"`
		UpcomingEvents []struct {
			Title   string `json:"title"`
			IsGoing bool   `json:"isGoing"`
		} `json:"upcomingEvents"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if len(got.Communities) != 2 {
		t.Fatalf("communities: got %d, want 2", len(got.Communities))
	}
	if got.Communities[0].GovernanceStatus != civic.StatusActionNeeded || got.Communities[0].PendingJoinRequests != 2 {
		t.Errorf("group A card: %+v", got.Communities[0])
	}
	if got.Communities[0].CoverImageURL == nil || *got.Communities[0].CoverImageURL != "/files/covers/a.png" {
		t.Errorf("group A cover: %v", got.Communities[0].CoverImageURL)
	}
	if got.Communities[1].GovernanceStatus != civic.StatusHealthy || got.Communities[1].PendingJoinRequests != 0 {
		t.Errorf("group B card: %+v", got.Communities[1])
	}

	reqs := got.GovernanceAlerts.PendingJoinRequests
	if len(reqs) != 2 || len(got.GovernanceAlerts.ActiveProposals) != 1 {
		t.Fatalf("alerts: %d requests, %d proposals", len(reqs), len(got.GovernanceAlerts.ActiveProposals))
	}
	if reqs[0].Requester == nil || reqs[0].Requester.Name != "Requester One" {
		t.Errorf("first requester: %+v", reqs[0].Requester)
	}
	if reqs[1].Requester != nil {
		t.Errorf("missing profile should be null, got %+v", reqs[1].Requester)
	}

	if len(got.UpcomingEvents) != 1 || !got.UpcomingEvents[0].IsGoing {
		t.Errorf("upcoming: %+v", got.UpcomingEvents)
	}
}
