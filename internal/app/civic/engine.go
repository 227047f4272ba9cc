// Package civic composes the per-user dashboard read model.
//
// Every entry point takes only the caller's identity. An empty identity
// yields a nil result and no error; a user with no memberships gets empty,
// non-nil results. The engine never writes and holds no state between calls,
// so one Engine serves all requests concurrently.
package civic

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
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
	"github.com/dalemusser/civichub/internal/app/system/filestore"
	"github.com/dalemusser/civichub/internal/app/system/metrics"
	"github.com/dalemusser/civichub/internal/app/system/timeouts"
	"github.com/dalemusser/civichub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// ErrNotAuthenticated is returned by Memberships when no identity is supplied.
var ErrNotAuthenticated = errors.New("not authenticated")

// DefaultFanoutLimit bounds concurrent per-group fetches within one query.
const DefaultFanoutLimit = 8

var tracer = otel.Tracer("github.com/dalemusser/civichub/internal/app/civic")

type MembershipReader interface {
	ListByUser(ctx context.Context, userID string) ([]models.GroupMembership, error)
	CountByGroup(ctx context.Context, groupID primitive.ObjectID, role string) (int64, error)
}

// GroupReader returns mongo.ErrNoDocuments for a missing group.
type GroupReader interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (models.Group, error)
}

// UserReader returns mongo.ErrNoDocuments for a missing profile.
type UserReader interface {
	GetByUserID(ctx context.Context, userID string) (*models.User, error)
}

type JoinRequestReader interface {
	ListPendingByGroup(ctx context.Context, groupID primitive.ObjectID) ([]models.JoinRequest, error)
	CountPendingByGroup(ctx context.Context, groupID primitive.ObjectID) (int64, error)
}

type ProposalReader interface {
	ListVotingByGroup(ctx context.Context, groupID primitive.ObjectID) ([]models.GovernanceProposal, error)
	CountVotingByGroup(ctx context.Context, groupID primitive.ObjectID) (int64, error)
}

type EventReader interface {
	ListUpcomingByGroup(ctx context.Context, groupID primitive.ObjectID, now time.Time) ([]models.Event, error)
	ListRecentByGroup(ctx context.Context, groupID primitive.ObjectID, limit int64) ([]models.Event, error)
}

type PollReader interface {
	ListRecentByGroup(ctx context.Context, groupID primitive.ObjectID, limit int64) ([]models.Poll, error)
}

type ChannelReader interface {
	ListManagerOnlyByGroup(ctx context.Context, groupID primitive.ObjectID) ([]models.Channel, error)
}

type MessageReader interface {
	ListRecentByChannel(ctx context.Context, channelID primitive.ObjectID, limit int64) ([]models.Message, error)
}

type NotificationReader interface {
	ListUnreadByUser(ctx context.Context, userID string) ([]models.Notification, error)
}

// Stores is the set of collections the engine reads.
type Stores struct {
	Memberships   MembershipReader
	Groups        GroupReader
	Users         UserReader
	JoinRequests  JoinRequestReader
	Proposals     ProposalReader
	Events        EventReader
	Polls         PollReader
	Channels      ChannelReader
	Messages      MessageReader
	Notifications NotificationReader
}

// StoresFromDB wires the Mongo-backed stores.
func StoresFromDB(db *mongo.Database) Stores {
	return Stores{
		Memberships:   membershipstore.New(db),
		Groups:        groupstore.New(db),
		Users:         userstore.New(db),
		JoinRequests:  joinrequeststore.New(db),
		Proposals:     proposalstore.New(db),
		Events:        eventstore.New(db),
		Polls:         pollstore.New(db),
		Channels:      channelstore.New(db),
		Messages:      messagestore.New(db),
		Notifications: notificationstore.New(db),
	}
}

// Options tune an Engine. Zero values select defaults.
type Options struct {
	FanoutLimit int
	Clock       func() time.Time
	Metrics     *metrics.Metrics
	Log         *zap.Logger
}

type Engine struct {
	stores  Stores
	files   filestore.Resolver
	clock   func() time.Time
	limit   int
	metrics *metrics.Metrics
	log     *zap.Logger
}

// NewEngine builds an engine over the given stores. files may be nil, in
// which case every image URL is null.
func NewEngine(stores Stores, files filestore.Resolver, opts Options) *Engine {
	e := &Engine{
		stores:  stores,
		files:   files,
		clock:   opts.Clock,
		limit:   opts.FanoutLimit,
		metrics: opts.Metrics,
		log:     opts.Log,
	}
	if e.clock == nil {
		e.clock = time.Now
	}
	if e.limit <= 0 {
		e.limit = DefaultFanoutLimit
	}
	if e.log == nil {
		e.log = zap.NewNop()
	}
	return e
}

// New builds an engine reading from db.
func New(db *mongo.Database, files filestore.Resolver, opts Options) *Engine {
	return NewEngine(StoresFromDB(db), files, opts)
}

func authenticated(userID string) bool {
	return strings.TrimSpace(userID) != ""
}

// instrument opens a span and a deadline for one entry point. The returned
// func closes both and records metrics.
func (e *Engine) instrument(ctx context.Context, query string) (context.Context, func(groups int, err error)) {
	ctx, span := tracer.Start(ctx, "civic."+query)
	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Medium(), e.log, query)
	started := time.Now()
	return ctx, func(groups int, err error) {
		cancel()
		if groups >= 0 {
			span.SetAttributes(attribute.Int("civic.groups", groups))
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
		e.metrics.ObserveQuery(query, started, groups, err)
	}
}

// scope is what one request resolves once and hands to every entry point
// it evaluates: the caller, their memberships and a URL memo.
type scope struct {
	userID string
	groups []GroupRole
	urls   *urlMemo
}

func (e *Engine) newScope(ctx context.Context, userID string) (*scope, error) {
	groups, err := e.Memberships(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &scope{userID: userID, groups: groups, urls: e.newURLMemo()}, nil
}

// forUser runs a group-scoped body for one caller: identity check, span and
// deadline, one membership read.
func forUser[T any](e *Engine, ctx context.Context, userID, query string, body func(context.Context, *scope) (T, error)) (_ T, err error) {
	var zero T
	if !authenticated(userID) {
		return zero, nil
	}
	ctx, done := e.instrument(ctx, query)
	n := -1
	defer func() { done(n, err) }()

	sc, err := e.newScope(ctx, userID)
	if err != nil {
		return zero, err
	}
	n = len(sc.groups)
	return body(ctx, sc)
}

// groupName returns the group's name, or nil if the group no longer exists.
func (e *Engine) groupName(ctx context.Context, groupID primitive.ObjectID) (*string, error) {
	g, err := e.stores.Groups.GetByID(ctx, groupID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load group %s: %w", groupID.Hex(), err)
	}
	return &g.Name, nil
}

// urlMemo resolves each storage reference at most once per request.
// Concurrent lookups of the same reference share one call.
type urlMemo struct {
	e     *Engine
	mu    sync.Mutex
	urls  map[string]*string
	calls singleflight.Group
}

func (e *Engine) newURLMemo() *urlMemo {
	return &urlMemo{e: e, urls: map[string]*string{}}
}

func (m *urlMemo) resolve(ctx context.Context, ref string) *string {
	if ref == "" || m.e.files == nil {
		return nil
	}
	m.mu.Lock()
	u, ok := m.urls[ref]
	m.mu.Unlock()
	if ok {
		return u
	}

	v, _, _ := m.calls.Do(ref, func() (any, error) {
		m.mu.Lock()
		u, ok := m.urls[ref]
		m.mu.Unlock()
		if ok {
			return u, nil
		}
		u = m.e.resolveURL(ctx, ref)
		m.mu.Lock()
		m.urls[ref] = u
		m.mu.Unlock()
		return u, nil
	})
	return v.(*string)
}

// resolveURL turns a storage reference into a URL. Absence and resolver
// failures both yield nil; failures are logged.
func (e *Engine) resolveURL(ctx context.Context, ref string) *string {
	if ref == "" || e.files == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()

	u, err := e.files.ResolveURL(ctx, ref)
	if err != nil {
		if !errors.Is(err, filestore.ErrNotFound) {
			e.log.Warn("file url resolution failed", zap.String("ref", ref), zap.Error(err))
		}
		return nil
	}
	return &u
}
