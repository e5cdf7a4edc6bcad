package realtime

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/wayfarerhq/wayfarer/internal/auth"
	"github.com/wayfarerhq/wayfarer/internal/models"
	apperrors "github.com/wayfarerhq/wayfarer/pkg/errors"
)

// fakeDashboards is an in-memory stand-in for the mongo dashboard store.
type fakeDashboards struct {
	mu     sync.Mutex
	boards map[string]*models.Dashboard

	findErr   error
	upsertErr error
}

func newFakeDashboards() *fakeDashboards {
	return &fakeDashboards{boards: make(map[string]*models.Dashboard)}
}

func (f *fakeDashboards) put(id string, d models.Dashboard) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.boards[id] = &d
}

func (f *fakeDashboards) snapshot(id string) models.Dashboard {
	f.mu.Lock()
	defer f.mu.Unlock()
	return copyDashboard(f.boards[id])
}

func copyDashboard(d *models.Dashboard) models.Dashboard {
	cp := *d
	cp.Notes = append([]models.Note(nil), d.Notes...)
	cp.ActiveUsers = append([]models.ActiveUser(nil), d.ActiveUsers...)
	return cp
}

func (f *fakeDashboards) FindByID(_ context.Context, id string) (*models.Dashboard, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	d, ok := f.boards[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := copyDashboard(d)
	return &cp, nil
}

func (f *fakeDashboards) UpsertActiveUser(_ context.Context, dashboardID string, entry models.ActiveUser) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.upsertErr != nil {
		return f.upsertErr
	}
	d, ok := f.boards[dashboardID]
	if !ok {
		return apperrors.ErrNotFound
	}
	for i := range d.ActiveUsers {
		if d.ActiveUsers[i].UserID == entry.UserID {
			// Refresh in place; the original joined-at survives.
			d.ActiveUsers[i].Name = entry.Name
			d.ActiveUsers[i].Avatar = entry.Avatar
			d.ActiveUsers[i].LastActive = entry.LastActive
			d.ActiveUsers[i].EditingNote = entry.EditingNote
			d.ActiveUsers[i].Cursor = entry.Cursor
			return nil
		}
	}
	d.ActiveUsers = append(d.ActiveUsers, entry)
	return nil
}

func (f *fakeDashboards) RemoveActiveUser(_ context.Context, dashboardID, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.boards[dashboardID]
	if !ok {
		return nil
	}
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return apperrors.ErrNotFound.WithInternal(err)
	}
	kept := d.ActiveUsers[:0]
	for _, entry := range d.ActiveUsers {
		if entry.UserID != uid {
			kept = append(kept, entry)
		}
	}
	d.ActiveUsers = kept
	return nil
}

func (f *fakeDashboards) ListActiveUsers(_ context.Context, dashboardID string) ([]models.ActiveUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.boards[dashboardID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return append([]models.ActiveUser(nil), d.ActiveUsers...), nil
}

func (f *fakeDashboards) ReplaceNote(_ context.Context, dashboardID string, note models.Note) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.boards[dashboardID]
	if !ok {
		return apperrors.ErrNotFound
	}
	for i := range d.Notes {
		if d.Notes[i].ID == note.ID {
			d.Notes[i] = note
			d.LastModified = note.UpdatedAt
			return nil
		}
	}
	return apperrors.ErrNotFound
}

// fakeConversations is an in-memory stand-in for the conversation store.
type fakeConversations struct {
	mu    sync.Mutex
	convs map[string]*models.Conversation
	reads map[string]time.Time // conversationID+":"+userID -> marker
}

func newFakeConversations() *fakeConversations {
	return &fakeConversations{
		convs: make(map[string]*models.Conversation),
		reads: make(map[string]time.Time),
	}
}

func (f *fakeConversations) put(id string, conv models.Conversation) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.convs[id] = &conv
}

func (f *fakeConversations) messageCount(id string) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.convs[id].MessageCount
}

func (f *fakeConversations) readMarker(conversationID, userID string) (time.Time, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	at, ok := f.reads[conversationID+":"+userID]
	return at, ok
}

func (f *fakeConversations) FindByID(_ context.Context, id string) (*models.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	conv, ok := f.convs[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *conv
	cp.Participants = append([]models.Participant(nil), conv.Participants...)
	return &cp, nil
}

func (f *fakeConversations) MarkRead(_ context.Context, conversationID, userID string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads[conversationID+":"+userID] = at
	return nil
}

func (f *fakeConversations) RecordMessage(_ context.Context, conversationID string, messageID primitive.ObjectID, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	conv, ok := f.convs[conversationID]
	if !ok {
		return apperrors.ErrNotFound
	}
	conv.LastMessageID = &messageID
	conv.MessageCount++
	conv.UpdatedAt = at
	return nil
}

// fakeMessages records inserted messages.
type fakeMessages struct {
	mu       sync.Mutex
	inserted []models.Message
}

func (f *fakeMessages) Insert(_ context.Context, msg *models.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if msg.ID.IsZero() {
		msg.ID = primitive.NewObjectID()
	}
	f.inserted = append(f.inserted, *msg)
	return nil
}

func (f *fakeMessages) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.inserted)
}

// harness bundles a router wired against fakes plus helpers for building
// transport-less clients.
type harness struct {
	t             *testing.T
	hub           *Hub
	rooms         *Rooms
	router        *Router
	dashboards    *fakeDashboards
	conversations *fakeConversations
	messages      *fakeMessages
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	dashboards := newFakeDashboards()
	conversations := newFakeConversations()
	messages := &fakeMessages{}

	rooms := NewRooms(NewPresence(dashboards), conversations)
	router, err := NewRouter(RouterConfig{
		Rooms:         rooms,
		Dashboards:    dashboards,
		Conversations: conversations,
		Messages:      messages,
	})
	require.NoError(t, err)

	hub := NewHub(rooms, router)

	return &harness{
		t:             t,
		hub:           hub,
		rooms:         rooms,
		router:        router,
		dashboards:    dashboards,
		conversations: conversations,
		messages:      messages,
	}
}

// client creates an admitted, transport-less connection for the identity.
func (h *harness) client(identity auth.Identity) *Client {
	return newClient(h.hub, nil, identity)
}

func testIdentity(name string) auth.Identity {
	return auth.Identity{
		ID:     primitive.NewObjectID().Hex(),
		Name:   name,
		Avatar: name + ".png",
	}
}

// received drains every message currently queued for the client.
func received(c *Client) []Message {
	var out []Message
	for {
		select {
		case m, ok := <-c.send:
			if !ok {
				return out
			}
			out = append(out, m)
		default:
			return out
		}
	}
}

// eventsOf filters received messages down to their event names.
func eventsOf(msgs []Message) []string {
	out := make([]string, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, m.Event)
	}
	return out
}
