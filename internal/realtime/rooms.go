package realtime

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	apperrors "github.com/wayfarerhq/wayfarer/pkg/errors"
	"github.com/wayfarerhq/wayfarer/pkg/logger"
	"github.com/wayfarerhq/wayfarer/pkg/metrics"
)

// Rooms tracks which clients belong to which rooms. A client belongs to at
// most one room at a time: joining a new room implicitly leaves all others.
// A room with no members has no entry in the index.
type Rooms struct {
	mu         sync.RWMutex
	index      map[RoomRef]map[*Client]struct{}
	membership map[*Client]RoomRef

	presence      *Presence
	conversations ConversationStore
	now           func() time.Time
	log           *zap.Logger
}

// NewRooms constructs the membership manager.
func NewRooms(presence *Presence, conversations ConversationStore) *Rooms {
	return &Rooms{
		index:         make(map[RoomRef]map[*Client]struct{}),
		membership:    make(map[*Client]RoomRef),
		presence:      presence,
		conversations: conversations,
		now:           time.Now,
		log:           logger.WithModule("realtime.rooms"),
	}
}

// Join moves the client into the room, applying the room kind's side effects:
// dashboards gain a persisted presence entry and a user_joined broadcast,
// conversations have the client's read marker refreshed. The persistence
// write happens before the membership index is updated, so a failed join
// leaves no membership behind.
func (r *Rooms) Join(ctx context.Context, c *Client, room RoomRef) error {
	r.LeaveAll(ctx, c)

	switch room.Kind {
	case RoomKindDashboard:
		if _, err := r.presence.Upsert(ctx, room.ID, c.Identity()); err != nil {
			return err
		}
		r.add(c, room)
		// The broadcast carries the event time; the persisted entry's
		// joined_at is the roster's concern, not the notification's.
		r.broadcastExcept(room, c, Message{
			Event: EventUserJoined,
			Data: userJoinedPayload{
				UserID:    c.identity.ID,
				Name:      c.identity.Name,
				Avatar:    c.identity.Avatar,
				Timestamp: r.now().UTC(),
			},
		})
	case RoomKindConversation:
		if err := r.conversations.MarkRead(ctx, room.ID, c.identity.ID, r.now().UTC()); err != nil {
			return err
		}
		r.add(c, room)
	default:
		return apperrors.NewBadRequest("unknown room type")
	}

	return nil
}

// Leave removes the client from the room. Leaving a room the client is not
// in is silently accepted. For dashboards the presence entry is removed and
// the remaining members are notified.
func (r *Rooms) Leave(ctx context.Context, c *Client, room RoomRef) {
	if !r.remove(c, room) {
		return
	}

	if room.Kind == RoomKindDashboard {
		if err := r.presence.Remove(ctx, room.ID, c.identity.ID); err != nil {
			r.log.Warn("failed to remove presence entry",
				zap.String("dashboard_id", room.ID),
				zap.String("user_id", c.identity.ID),
				zap.Error(err))
		}
		r.Broadcast(room, Message{
			Event: EventUserLeft,
			Data: userLeftPayload{
				UserID:    c.identity.ID,
				Timestamp: r.now().UTC(),
			},
		})
	}
}

// LeaveAll removes the client from every room it occupies. Idempotent; used
// both by join (single-room invariant) and by disconnect reconciliation.
func (r *Rooms) LeaveAll(ctx context.Context, c *Client) {
	if room, ok := r.CurrentRoom(c); ok {
		r.Leave(ctx, c, room)
	}
}

// CurrentRoom reports the room the client currently occupies, if any.
func (r *Rooms) CurrentRoom(c *Client) (RoomRef, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	room, ok := r.membership[c]
	return room, ok
}

// Members returns a snapshot of the clients currently in the room.
func (r *Rooms) Members(room RoomRef) []*Client {
	r.mu.RLock()
	defer r.mu.RUnlock()

	clients := r.index[room]
	out := make([]*Client, 0, len(clients))
	for c := range clients {
		out = append(out, c)
	}
	return out
}

// Broadcast delivers the message to every member of the room.
func (r *Rooms) Broadcast(room RoomRef, msg Message) {
	r.fanout(room, nil, msg)
}

// broadcastExcept delivers the message to every member except the sender.
func (r *Rooms) broadcastExcept(room RoomRef, except *Client, msg Message) {
	r.fanout(room, except, msg)
}

func (r *Rooms) fanout(room RoomRef, except *Client, msg Message) {
	for _, member := range r.Members(room) {
		if member == except {
			continue
		}
		if member.enqueue(msg) {
			metrics.Broadcasts.WithLabelValues(msg.Event).Inc()
		}
	}
}

func (r *Rooms) add(c *Client, room RoomRef) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.index[room] == nil {
		r.index[room] = make(map[*Client]struct{})
	}
	r.index[room][c] = struct{}{}
	r.membership[c] = room
}

// remove deletes the client from the room's membership set, deleting the set
// itself once empty. Reports whether the client was a member.
func (r *Rooms) remove(c *Client, room RoomRef) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	clients, ok := r.index[room]
	if !ok {
		return false
	}
	if _, member := clients[c]; !member {
		return false
	}

	delete(clients, c)
	if len(clients) == 0 {
		delete(r.index, room)
	}
	if current, ok := r.membership[c]; ok && current == room {
		delete(r.membership, c)
	}
	return true
}
