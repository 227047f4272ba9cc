package civic_test

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dalemusser/civichub/internal/app/civic"
	"github.com/dalemusser/civichub/internal/app/system/filestore"
	"github.com/dalemusser/civichub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// world is an in-memory document set. Its readers follow the Mongo stores'
// filter and sort contracts.
type world struct {
	memberships   []models.GroupMembership
	groups        map[primitive.ObjectID]models.Group
	users         map[string]models.User
	joinRequests  []models.JoinRequest
	proposals     []models.GovernanceProposal
	events        []models.Event
	polls         []models.Poll
	channels      []models.Channel
	messages      []models.Message
	notifications []models.Notification

	failWith error // returned by every list call when set

	membershipReads  atomic.Int32 // ListByUser calls
	pendingListReads atomic.Int32 // ListPendingByGroup calls
}

func newWorld() *world {
	return &world{
		groups: map[primitive.ObjectID]models.Group{},
		users:  map[string]models.User{},
	}
}

func (w *world) stores() civic.Stores {
	return civic.Stores{
		Memberships:   memberReader{w},
		Groups:        groupReader{w},
		Users:         userReader{w},
		JoinRequests:  joinRequestReader{w},
		Proposals:     proposalReader{w},
		Events:        eventReader{w},
		Polls:         pollReader{w},
		Channels:      channelReader{w},
		Messages:      messageReader{w},
		Notifications: notificationReader{w},
	}
}

// Builders. Each returns the new document's ID.

func (w *world) addGroup(name string, created time.Time) primitive.ObjectID {
	id := primitive.NewObjectID()
	w.groups[id] = models.Group{ID: id, Name: name, Category: "civic", CreatedAt: created, UpdatedAt: created}
	return id
}

func (w *world) join(userID string, groupID primitive.ObjectID, role string, at time.Time) {
	w.memberships = append(w.memberships, models.GroupMembership{
		ID: primitive.NewObjectID(), GroupID: groupID, UserID: userID, Role: role, CreatedAt: at,
	})
}

func (w *world) addUser(userID, name string) {
	w.users[userID] = models.User{ID: primitive.NewObjectID(), UserID: userID, Name: name, Interests: []string{}}
}

func (w *world) addJoinRequest(groupID primitive.ObjectID, userID, status string, at time.Time) {
	w.joinRequests = append(w.joinRequests, models.JoinRequest{
		ID: primitive.NewObjectID(), GroupID: groupID, UserID: userID, Status: status, CreatedAt: at,
	})
}

func (w *world) addProposal(groupID primitive.ObjectID, title, status string, at time.Time) {
	w.proposals = append(w.proposals, models.GovernanceProposal{
		ID: primitive.NewObjectID(), GroupID: groupID, Title: title, Status: status, CreatedBy: "someone", CreatedAt: at,
	})
}

func (w *world) addEvent(groupID primitive.ObjectID, title string, start, created time.Time, attendees ...string) primitive.ObjectID {
	if attendees == nil {
		attendees = []string{}
	}
	id := primitive.NewObjectID()
	w.events = append(w.events, models.Event{
		ID: id, GroupID: groupID, Title: title, StartTime: start, CreatedAt: created, Attendees: attendees,
	})
	return id
}

func (w *world) addPoll(groupID primitive.ObjectID, question string, created time.Time) {
	w.polls = append(w.polls, models.Poll{
		ID: primitive.NewObjectID(), GroupID: groupID, Question: question, Options: []string{"yes", "no"}, CreatedAt: created,
	})
}

func (w *world) addChannel(groupID primitive.ObjectID, name string, managerOnly bool) primitive.ObjectID {
	id := primitive.NewObjectID()
	w.channels = append(w.channels, models.Channel{ID: id, GroupID: groupID, Name: name, IsManagerOnlyPost: managerOnly})
	return id
}

func (w *world) addMessage(channelID primitive.ObjectID, body string, created time.Time) {
	w.messages = append(w.messages, models.Message{
		ID: primitive.NewObjectID(), ChannelID: channelID, AuthorID: "author", Body: body, CreatedAt: created,
	})
}

func (w *world) addNotification(userID, typ string, read bool) {
	w.notifications = append(w.notifications, models.Notification{
		ID: primitive.NewObjectID(), UserID: userID, Type: typ, IsRead: read, CreatedAt: time.Now(),
	})
}

// Readers.

type memberReader struct{ w *world }

func (r memberReader) ListByUser(_ context.Context, userID string) ([]models.GroupMembership, error) {
	r.w.membershipReads.Add(1)
	if r.w.failWith != nil {
		return nil, r.w.failWith
	}
	out := []models.GroupMembership{}
	for _, m := range r.w.memberships {
		if m.UserID == userID {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r memberReader) CountByGroup(_ context.Context, groupID primitive.ObjectID, role string) (int64, error) {
	var n int64
	for _, m := range r.w.memberships {
		if m.GroupID == groupID && (role == "" || m.Role == role) {
			n++
		}
	}
	return n, nil
}

type groupReader struct{ w *world }

func (r groupReader) GetByID(_ context.Context, id primitive.ObjectID) (models.Group, error) {
	g, ok := r.w.groups[id]
	if !ok {
		return models.Group{}, mongo.ErrNoDocuments
	}
	return g, nil
}

type userReader struct{ w *world }

func (r userReader) GetByUserID(_ context.Context, userID string) (*models.User, error) {
	u, ok := r.w.users[userID]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return &u, nil
}

type joinRequestReader struct{ w *world }

func (r joinRequestReader) ListPendingByGroup(_ context.Context, groupID primitive.ObjectID) ([]models.JoinRequest, error) {
	r.w.pendingListReads.Add(1)
	return r.pending(groupID), nil
}

func (r joinRequestReader) CountPendingByGroup(_ context.Context, groupID primitive.ObjectID) (int64, error) {
	return int64(len(r.pending(groupID))), nil
}

func (r joinRequestReader) pending(groupID primitive.ObjectID) []models.JoinRequest {
	out := []models.JoinRequest{}
	for _, jr := range r.w.joinRequests {
		if jr.GroupID == groupID && jr.Status == models.JoinRequestPending {
			out = append(out, jr)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

type proposalReader struct{ w *world }

func (r proposalReader) ListVotingByGroup(_ context.Context, groupID primitive.ObjectID) ([]models.GovernanceProposal, error) {
	out := []models.GovernanceProposal{}
	for _, p := range r.w.proposals {
		if p.GroupID == groupID && p.Status == models.ProposalVoting {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r proposalReader) CountVotingByGroup(ctx context.Context, groupID primitive.ObjectID) (int64, error) {
	ps, _ := r.ListVotingByGroup(ctx, groupID)
	return int64(len(ps)), nil
}

type eventReader struct{ w *world }

func (r eventReader) ListUpcomingByGroup(_ context.Context, groupID primitive.ObjectID, now time.Time) ([]models.Event, error) {
	out := []models.Event{}
	for _, e := range r.w.events {
		if e.GroupID == groupID && e.StartTime.After(now) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (r eventReader) ListRecentByGroup(_ context.Context, groupID primitive.ObjectID, limit int64) ([]models.Event, error) {
	out := []models.Event{}
	for _, e := range r.w.events {
		if e.GroupID == groupID {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return head(out, limit), nil
}

type pollReader struct{ w *world }

func (r pollReader) ListRecentByGroup(_ context.Context, groupID primitive.ObjectID, limit int64) ([]models.Poll, error) {
	out := []models.Poll{}
	for _, p := range r.w.polls {
		if p.GroupID == groupID {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return head(out, limit), nil
}

type channelReader struct{ w *world }

func (r channelReader) ListManagerOnlyByGroup(_ context.Context, groupID primitive.ObjectID) ([]models.Channel, error) {
	out := []models.Channel{}
	for _, c := range r.w.channels {
		if c.GroupID == groupID && c.IsManagerOnlyPost {
			out = append(out, c)
		}
	}
	return out, nil
}

type messageReader struct{ w *world }

func (r messageReader) ListRecentByChannel(_ context.Context, channelID primitive.ObjectID, limit int64) ([]models.Message, error) {
	out := []models.Message{}
	for _, m := range r.w.messages {
		if m.ChannelID == channelID {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return head(out, limit), nil
}

type notificationReader struct{ w *world }

func (r notificationReader) ListUnreadByUser(_ context.Context, userID string) ([]models.Notification, error) {
	if r.w.failWith != nil {
		return nil, r.w.failWith
	}
	out := []models.Notification{}
	for _, n := range r.w.notifications {
		if n.UserID == userID && !n.IsRead {
			out = append(out, n)
		}
	}
	return out, nil
}

func head[T any](s []T, n int64) []T {
	if int64(len(s)) > n {
		return s[:n]
	}
	return s
}

// stubResolver maps refs to fixed URLs; unknown refs are not found.
type stubResolver struct {
	urls map[string]string
	err  error
}

func (s stubResolver) ResolveURL(_ context.Context, ref string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	if u, ok := s.urls[ref]; ok {
		return u, nil
	}
	return "", filestore.ErrNotFound
}

// countingResolver hands out a fresh URL on every call, like a presigner,
// and records how often each reference was resolved.
type countingResolver struct {
	mu    sync.Mutex
	calls map[string]int
}

func newCountingResolver() *countingResolver {
	return &countingResolver{calls: map[string]int{}}
}

func (c *countingResolver) ResolveURL(_ context.Context, ref string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls[ref]++
	return fmt.Sprintf("https://cdn.example/%s?sig=%d", ref, c.calls[ref]), nil
}

func (c *countingResolver) count(ref string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls[ref]
}
