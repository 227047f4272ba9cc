package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	channelstore "github.com/dalemusser/civichub/internal/app/store/channels"
	eventstore "github.com/dalemusser/civichub/internal/app/store/events"
	groupstore "github.com/dalemusser/civichub/internal/app/store/groups"
	joinrequeststore "github.com/dalemusser/civichub/internal/app/store/joinrequests"
	membershipstore "github.com/dalemusser/civichub/internal/app/store/memberships"
	messagestore "github.com/dalemusser/civichub/internal/app/store/messages"
	notificationstore "github.com/dalemusser/civichub/internal/app/store/notifications"
	pollstore "github.com/dalemusser/civichub/internal/app/store/polls"
	proposalstore "github.com/dalemusser/civichub/internal/app/store/proposals"
	userstore "github.com/dalemusser/civichub/internal/app/store/users"
	"github.com/dalemusser/civichub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
// Every helper fails the test on error.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// Ms truncates t to the millisecond precision Mongo stores.
func Ms(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}

func (f *Fixtures) must(err error, what string) {
	f.t.Helper()
	if err != nil {
		f.t.Fatalf("fixture %s: %v", what, err)
	}
}

func (f *Fixtures) CreateGroup(ctx context.Context, name string) models.Group {
	f.t.Helper()
	g, err := groupstore.New(f.db).Create(ctx, models.Group{
		Name:      name,
		Category:  "neighborhood",
		CreatedBy: "fixture",
	})
	f.must(err, "group")
	return g
}

// CreateGroupWithCover creates a group whose cover image is stored under ref.
func (f *Fixtures) CreateGroupWithCover(ctx context.Context, name, ref string) models.Group {
	f.t.Helper()
	g, err := groupstore.New(f.db).Create(ctx, models.Group{
		Name:         name,
		Category:     "neighborhood",
		CoverImageID: ref,
		CreatedBy:    "fixture",
	})
	f.must(err, "group")
	return g
}

func (f *Fixtures) CreateMembership(ctx context.Context, userID string, groupID primitive.ObjectID, role string) models.GroupMembership {
	f.t.Helper()
	m, err := membershipstore.New(f.db).Add(ctx, groupID, userID, role)
	f.must(err, "membership")
	return m
}

func (f *Fixtures) CreateUser(ctx context.Context, userID, name string) models.User {
	f.t.Helper()
	u, err := userstore.New(f.db).Create(ctx, models.User{
		UserID: userID,
		Name:   name,
		City:   models.City{Name: "Springfield", Country: "US"},
	})
	f.must(err, "user")
	return u
}

func (f *Fixtures) CreateJoinRequest(ctx context.Context, groupID primitive.ObjectID, userID, status string, at time.Time) models.JoinRequest {
	f.t.Helper()
	jr, err := joinrequeststore.New(f.db).Create(ctx, models.JoinRequest{
		GroupID:   groupID,
		UserID:    userID,
		Status:    status,
		CreatedAt: Ms(at),
	})
	f.must(err, "join request")
	return jr
}

func (f *Fixtures) CreateProposal(ctx context.Context, groupID primitive.ObjectID, title, status string, at time.Time) models.GovernanceProposal {
	f.t.Helper()
	p, err := proposalstore.New(f.db).Create(ctx, models.GovernanceProposal{
		GroupID:   groupID,
		Title:     title,
		Status:    status,
		CreatedBy: "fixture",
		CreatedAt: Ms(at),
	})
	f.must(err, "proposal")
	return p
}

func (f *Fixtures) CreateEvent(ctx context.Context, groupID primitive.ObjectID, title string, start, created time.Time, attendees ...string) models.Event {
	f.t.Helper()
	e, err := eventstore.New(f.db).Create(ctx, models.Event{
		GroupID:   groupID,
		Title:     title,
		StartTime: Ms(start),
		Attendees: attendees,
		CreatedBy: "fixture",
		CreatedAt: Ms(created),
	})
	f.must(err, "event")
	return e
}

func (f *Fixtures) CreatePoll(ctx context.Context, groupID primitive.ObjectID, question string, at time.Time) models.Poll {
	f.t.Helper()
	p, err := pollstore.New(f.db).Create(ctx, models.Poll{
		GroupID:   groupID,
		Question:  question,
		Options:   []string{"yes", "no"},
		CreatedBy: "fixture",
		CreatedAt: Ms(at),
	})
	f.must(err, "poll")
	return p
}

func (f *Fixtures) CreateChannel(ctx context.Context, groupID primitive.ObjectID, name string, managerOnly bool) models.Channel {
	f.t.Helper()
	ch, err := channelstore.New(f.db).Create(ctx, models.Channel{
		GroupID:           groupID,
		Name:              name,
		IsManagerOnlyPost: managerOnly,
	})
	f.must(err, "channel")
	return ch
}

func (f *Fixtures) CreateMessage(ctx context.Context, channelID primitive.ObjectID, body string, at time.Time) models.Message {
	f.t.Helper()
	m, err := messagestore.New(f.db).Create(ctx, models.Message{
		ChannelID: channelID,
		AuthorID:  "fixture",
		Body:      body,
		CreatedAt: Ms(at),
	})
	f.must(err, "message")
	return m
}

func (f *Fixtures) CreateNotification(ctx context.Context, userID, typ string, read bool) models.Notification {
	f.t.Helper()
	n, err := notificationstore.New(f.db).Create(ctx, models.Notification{
		UserID: userID,
		Type:   typ,
		IsRead: read,
	})
	f.must(err, "notification")
	return n
}
