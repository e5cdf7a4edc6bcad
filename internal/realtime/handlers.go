package realtime

import (
	"context"
	"encoding/json"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/wayfarerhq/wayfarer/internal/models"
	apperrors "github.com/wayfarerhq/wayfarer/pkg/errors"
)

func (rt *Router) handleJoinRoom(ctx context.Context, c *Client, data json.RawMessage) error {
	var p joinRoomPayload
	if err := decode(data, &p); err != nil {
		return err
	}

	room := RoomRef{Kind: RoomKind(p.RoomType), ID: p.RoomID}
	if err := rt.rooms.Join(ctx, c, room); err != nil {
		return err
	}

	c.enqueue(Message{
		Event: EventRoomJoined,
		Data:  roomJoinedPayload{RoomID: p.RoomID, RoomType: p.RoomType},
	})
	return nil
}

func (rt *Router) handleLeaveRoom(ctx context.Context, c *Client, data json.RawMessage) error {
	var p joinRoomPayload
	if err := decode(data, &p); err != nil {
		return err
	}

	rt.rooms.Leave(ctx, c, RoomRef{Kind: RoomKind(p.RoomType), ID: p.RoomID})
	return nil
}

// handleEditing is a pure broadcast: no persistence, no presence mutation,
// no acknowledgment to the sender.
func (rt *Router) handleEditing(c *Client, data json.RawMessage, start bool) error {
	var p editingPayload
	if err := decode(data, &p); err != nil {
		return err
	}

	room := RoomRef{Kind: RoomKindDashboard, ID: p.RoomID}
	now := rt.now().UTC()

	if start {
		rt.rooms.broadcastExcept(room, c, Message{
			Event: EventUserEditing,
			Data: userEditingPayload{
				UserID:    c.identity.ID,
				UserName:  c.identity.Name,
				Avatar:    c.identity.Avatar,
				NoteID:    p.NoteID,
				Timestamp: now,
			},
		})
		return nil
	}

	rt.rooms.broadcastExcept(room, c, Message{
		Event: EventUserStoppedEdit,
		Data: userStoppedEditingPayload{
			UserID:    c.identity.ID,
			NoteID:    p.NoteID,
			Timestamp: now,
		},
	})
	return nil
}

// handleCursorMove is the highest-frequency event. It is neither persisted
// nor throttled; the client is expected to coalesce moves before sending.
func (rt *Router) handleCursorMove(c *Client, data json.RawMessage) error {
	var p cursorMovePayload
	if err := decode(data, &p); err != nil {
		return err
	}

	rt.rooms.broadcastExcept(RoomRef{Kind: RoomKindDashboard, ID: p.RoomID}, c, Message{
		Event: EventUserCursor,
		Data: userCursorPayload{
			UserID:    c.identity.ID,
			UserName:  c.identity.Name,
			Avatar:    c.identity.Avatar,
			X:         p.X,
			Y:         p.Y,
			NoteID:    p.NoteID,
			Timestamp: rt.now().UTC(),
		},
	})
	return nil
}

func (rt *Router) handleNoteUpdate(ctx context.Context, c *Client, data json.RawMessage) error {
	var p noteUpdatePayload
	if err := decode(data, &p); err != nil {
		return err
	}

	dashboard, err := rt.dashboards.FindByID(ctx, p.RoomID)
	if err != nil {
		return err
	}

	note := dashboard.FindNote(p.NoteID)
	if note == nil {
		// Unknown note ids are dropped without an error event; the dashboard
		// document is left untouched.
		rt.log.Debug("note update for unknown note dropped",
			zap.String("dashboard_id", p.RoomID),
			zap.String("note_id", p.NoteID))
		return nil
	}

	mergeNoteFields(note, p.Updates, rt.now().UTC())

	if err := rt.dashboards.ReplaceNote(ctx, p.RoomID, *note); err != nil {
		return err
	}

	// The sender reconciles optimistically; only the other members get the
	// merged note.
	rt.rooms.broadcastExcept(RoomRef{Kind: RoomKindDashboard, ID: p.RoomID}, c, Message{
		Event: EventNoteUpdated,
		Data: noteUpdatedPayload{
			NoteID:  note.ID,
			Updates: *note,
			UpdatedBy: updatedByPayload{
				UserID: c.identity.ID,
				Name:   c.identity.Name,
				Avatar: c.identity.Avatar,
			},
			Timestamp: note.UpdatedAt,
		},
	})
	return nil
}

func (rt *Router) handleSendMessage(ctx context.Context, c *Client, data json.RawMessage) error {
	var p sendMessagePayload
	if err := decode(data, &p); err != nil {
		return err
	}

	conv, err := rt.conversations.FindByID(ctx, p.ConversationID)
	if err != nil {
		return err
	}

	senderID, err := primitive.ObjectIDFromHex(c.identity.ID)
	if err != nil {
		return apperrors.ErrNotAuthorized.WithInternal(err)
	}

	// Membership is re-checked server-side; the subscription alone does not
	// authorize sending.
	if !conv.HasParticipant(senderID) {
		return apperrors.ErrNotAuthorized
	}

	msgType := p.MessageType
	if msgType == "" {
		msgType = models.MessageTypeText
	}

	var replyTo *primitive.ObjectID
	if p.ReplyTo != "" {
		rid, err := primitive.ObjectIDFromHex(p.ReplyTo)
		if err != nil {
			return apperrors.NewBadRequest("invalid replyTo id")
		}
		replyTo = &rid
	}

	msg := &models.Message{
		ConversationID: conv.ID,
		SenderID:       senderID,
		SenderName:     c.identity.Name,
		SenderAvatar:   c.identity.Avatar,
		Type:           msgType,
		Content:        p.Content,
		Attachments:    p.Attachments,
		ReplyTo:        replyTo,
		CreatedAt:      rt.now().UTC(),
	}

	if err := rt.messages.Insert(ctx, msg); err != nil {
		return err
	}
	if err := rt.conversations.RecordMessage(ctx, p.ConversationID, msg.ID, msg.CreatedAt); err != nil {
		return err
	}

	// Chat broadcasts include the sender: their client renders the message
	// from this event rather than a separate acknowledgment.
	rt.rooms.Broadcast(RoomRef{Kind: RoomKindConversation, ID: p.ConversationID}, Message{
		Event: EventNewMessage,
		Data:  msg,
	})
	return nil
}

func (rt *Router) handleTyping(c *Client, data json.RawMessage, start bool) error {
	var p typingPayload
	if err := decode(data, &p); err != nil {
		return err
	}

	room := RoomRef{Kind: RoomKindConversation, ID: p.ConversationID}
	now := rt.now().UTC()

	if start {
		rt.rooms.broadcastExcept(room, c, Message{
			Event: EventUserTyping,
			Data: userTypingPayload{
				UserID:    c.identity.ID,
				UserName:  c.identity.Name,
				Timestamp: now,
			},
		})
		return nil
	}

	rt.rooms.broadcastExcept(room, c, Message{
		Event: EventUserStoppedTyping,
		Data: userStoppedTypingPayload{
			UserID:    c.identity.ID,
			Timestamp: now,
		},
	})
	return nil
}
