package realtime

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/wayfarerhq/wayfarer/internal/models"
)

func seedDashboard(h *harness, id string, notes ...models.Note) {
	h.dashboards.put(id, models.Dashboard{Notes: notes})
}

func userIDs(entries []models.ActiveUser) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.UserID.Hex())
	}
	return out
}

func TestJoinLeavesPreviousRoom(t *testing.T) {
	h := newHarness(t)
	seedDashboard(h, "board-a")
	seedDashboard(h, "board-b")

	c := h.client(testIdentity("u1"))
	ctx := context.Background()

	roomA := RoomRef{Kind: RoomKindDashboard, ID: "board-a"}
	roomB := RoomRef{Kind: RoomKindDashboard, ID: "board-b"}

	require.NoError(t, h.rooms.Join(ctx, c, roomA))
	require.NoError(t, h.rooms.Join(ctx, c, roomB))

	require.Empty(t, h.rooms.Members(roomA))
	require.Len(t, h.rooms.Members(roomB), 1)

	current, ok := h.rooms.CurrentRoom(c)
	require.True(t, ok)
	require.Equal(t, roomB, current)

	// The implicit leave also removed the persisted presence entry.
	require.Empty(t, h.dashboards.snapshot("board-a").ActiveUsers)
	require.Len(t, h.dashboards.snapshot("board-b").ActiveUsers, 1)
}

func TestRejoinRefreshesPresenceWithoutDuplicating(t *testing.T) {
	h := newHarness(t)
	seedDashboard(h, "board-a")

	c := h.client(testIdentity("u1"))
	ctx := context.Background()
	room := RoomRef{Kind: RoomKindDashboard, ID: "board-a"}

	require.NoError(t, h.rooms.Join(ctx, c, room))
	first := h.dashboards.snapshot("board-a").ActiveUsers
	require.Len(t, first, 1)

	require.NoError(t, h.rooms.Join(ctx, c, room))
	second := h.dashboards.snapshot("board-a").ActiveUsers
	require.Len(t, second, 1)
	require.Equal(t, first[0].UserID, second[0].UserID)
}

func TestJoinBroadcastCarriesEventTime(t *testing.T) {
	h := newHarness(t)
	seedDashboard(h, "board-a")

	t0 := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	clock := t0
	now := func() time.Time { return clock }
	h.rooms.now = now
	h.rooms.presence.now = now

	c1 := h.client(testIdentity("u1"))
	c2 := h.client(testIdentity("u2"))
	ctx := context.Background()
	room := RoomRef{Kind: RoomKindDashboard, ID: "board-a"}

	require.NoError(t, h.rooms.Join(ctx, c1, room))
	require.NoError(t, h.rooms.Join(ctx, c2, room))
	received(c2)

	// c1 re-joins a minute later; c2 must see the re-join stamped with the
	// time it happened, not the original join time.
	clock = t0.Add(time.Minute)
	require.NoError(t, h.rooms.Join(ctx, c1, room))

	msgs := received(c2)
	require.Equal(t, []string{EventUserLeft, EventUserJoined}, eventsOf(msgs))

	joined, ok := msgs[1].Data.(userJoinedPayload)
	require.True(t, ok)
	require.Equal(t, c1.identity.ID, joined.UserID)
	require.Equal(t, t0.Add(time.Minute), joined.Timestamp)
}

func TestJoinDashboardBroadcastsToExistingMembers(t *testing.T) {
	h := newHarness(t)
	seedDashboard(h, "board-a")

	u1 := testIdentity("u1")
	u2 := testIdentity("u2")
	c1 := h.client(u1)
	c2 := h.client(u2)
	ctx := context.Background()
	room := RoomRef{Kind: RoomKindDashboard, ID: "board-a"}

	require.NoError(t, h.rooms.Join(ctx, c1, room))
	require.NoError(t, h.rooms.Join(ctx, c2, room))

	// c1 sees u2 arrive; c2 receives nothing (sender excluded).
	msgs := received(c1)
	require.Equal(t, []string{EventUserJoined}, eventsOf(msgs))
	payload, ok := msgs[0].Data.(userJoinedPayload)
	require.True(t, ok)
	require.Equal(t, u2.ID, payload.UserID)
	require.Equal(t, "u2", payload.Name)

	require.Empty(t, received(c2))

	users, err := h.rooms.presence.List(ctx, "board-a")
	require.NoError(t, err)
	require.Len(t, users, 2)
}

func TestDisconnectMatchesExplicitLeave(t *testing.T) {
	h := newHarness(t)
	seedDashboard(h, "board-a")

	u1 := testIdentity("u1")
	u2 := testIdentity("u2")
	ctx := context.Background()
	room := RoomRef{Kind: RoomKindDashboard, ID: "board-a"}

	// Explicit leave.
	c1 := h.client(u1)
	c2 := h.client(u2)
	require.NoError(t, h.rooms.Join(ctx, c1, room))
	require.NoError(t, h.rooms.Join(ctx, c2, room))
	received(c1)
	h.rooms.Leave(ctx, c1, room)
	afterLeave := h.dashboards.snapshot("board-a").ActiveUsers
	leaveMembers := len(h.rooms.Members(room))
	leaveEvents := eventsOf(received(c2))

	// Fresh room, abrupt disconnect instead.
	h2 := newHarness(t)
	seedDashboard(h2, "board-a")
	d1 := h2.client(u1)
	d2 := h2.client(u2)
	require.NoError(t, h2.rooms.Join(ctx, d1, room))
	require.NoError(t, h2.rooms.Join(ctx, d2, room))
	received(d1)
	d1.close()
	afterClose := h2.dashboards.snapshot("board-a").ActiveUsers
	closeMembers := len(h2.rooms.Members(room))
	closeEvents := eventsOf(received(d2))

	require.Equal(t, userIDs(afterLeave), userIDs(afterClose))
	require.Equal(t, leaveMembers, closeMembers)
	require.Equal(t, leaveEvents, closeEvents)
	require.Equal(t, []string{EventUserLeft}, closeEvents)
}

func TestDisconnectCleanupIsIdempotent(t *testing.T) {
	h := newHarness(t)
	seedDashboard(h, "board-a")

	c := h.client(testIdentity("u1"))
	ctx := context.Background()
	room := RoomRef{Kind: RoomKindDashboard, ID: "board-a"}
	require.NoError(t, h.rooms.Join(ctx, c, room))

	c.close()
	c.close() // second close must be a no-op

	require.Empty(t, h.rooms.Members(room))
	require.Empty(t, h.dashboards.snapshot("board-a").ActiveUsers)
}

func TestLeaveUnknownRoomIsSilentlyAccepted(t *testing.T) {
	h := newHarness(t)

	c := h.client(testIdentity("u1"))
	h.rooms.Leave(context.Background(), c, RoomRef{Kind: RoomKindDashboard, ID: "nowhere"})

	require.Empty(t, received(c))
}

func TestEmptyRoomLeavesNoIndexEntry(t *testing.T) {
	h := newHarness(t)
	seedDashboard(h, "board-a")

	c := h.client(testIdentity("u1"))
	ctx := context.Background()
	room := RoomRef{Kind: RoomKindDashboard, ID: "board-a"}

	require.NoError(t, h.rooms.Join(ctx, c, room))
	h.rooms.Leave(ctx, c, room)

	h.rooms.mu.RLock()
	defer h.rooms.mu.RUnlock()
	require.Empty(t, h.rooms.index)
	require.Empty(t, h.rooms.membership)
}

func TestJoinFailureLeavesNoMembership(t *testing.T) {
	h := newHarness(t)
	seedDashboard(h, "board-a")
	h.dashboards.upsertErr = errors.New("store down")

	c := h.client(testIdentity("u1"))
	room := RoomRef{Kind: RoomKindDashboard, ID: "board-a"}

	err := h.rooms.Join(context.Background(), c, room)
	require.Error(t, err)

	require.Empty(t, h.rooms.Members(room))
	_, ok := h.rooms.CurrentRoom(c)
	require.False(t, ok)
}

func TestJoinConversationMarksRead(t *testing.T) {
	h := newHarness(t)
	h.conversations.put("conv-1", models.Conversation{Type: models.ConversationTypeGroup})

	u := testIdentity("u1")
	c := h.client(u)
	room := RoomRef{Kind: RoomKindConversation, ID: "conv-1"}

	before := time.Now().Add(-time.Second)
	require.NoError(t, h.rooms.Join(context.Background(), c, room))

	marker, ok := h.conversations.readMarker("conv-1", u.ID)
	require.True(t, ok)
	require.True(t, marker.After(before))
}

func TestJoinRejectsUnknownRoomKind(t *testing.T) {
	h := newHarness(t)

	c := h.client(testIdentity("u1"))
	err := h.rooms.Join(context.Background(), c, RoomRef{Kind: "lobby", ID: "x"})
	require.Error(t, err)
}
