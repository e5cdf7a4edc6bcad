package realtime

import (
	"time"

	"github.com/wayfarerhq/wayfarer/internal/models"
)

// Client -> server events.
const (
	EventJoinRoom     = "join_room"
	EventLeaveRoom    = "leave_room"
	EventStartEditing = "start_editing"
	EventStopEditing  = "stop_editing"
	EventCursorMove   = "cursor_move"
	EventNoteUpdate   = "note_update"
	EventSendMessage  = "send_message"
	EventTypingStart  = "typing_start"
	EventTypingStop   = "typing_stop"
)

// Server -> client events.
const (
	EventRoomJoined        = "room_joined"
	EventUserJoined        = "user_joined"
	EventUserLeft          = "user_left"
	EventUserEditing       = "user_editing"
	EventUserStoppedEdit   = "user_stopped_editing"
	EventUserCursor        = "user_cursor"
	EventNoteUpdated       = "note_updated"
	EventNewMessage        = "new_message"
	EventUserTyping        = "user_typing"
	EventUserStoppedTyping = "user_stopped_typing"
	EventError             = "error"
)

// RoomKind distinguishes the two broadcast scopes.
type RoomKind string

const (
	RoomKindDashboard    RoomKind = "dashboard"
	RoomKindConversation RoomKind = "conversation"
)

// RoomRef names one room: a trip dashboard or a chat conversation.
type RoomRef struct {
	Kind RoomKind
	ID   string
}

// Message is a JSON payload delivered to realtime clients.
type Message struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

// Inbound payloads.

type joinRoomPayload struct {
	RoomID   string `json:"roomId" validate:"required"`
	RoomType string `json:"roomType" validate:"required,oneof=dashboard conversation"`
}

type editingPayload struct {
	RoomID string `json:"roomId" validate:"required"`
	NoteID string `json:"noteId" validate:"required"`
}

type cursorMovePayload struct {
	RoomID string  `json:"roomId" validate:"required"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	NoteID string  `json:"noteId"`
}

type noteUpdatePayload struct {
	RoomID  string                 `json:"roomId" validate:"required"`
	NoteID  string                 `json:"noteId" validate:"required"`
	Updates map[string]interface{} `json:"updates" validate:"required"`
}

type sendMessagePayload struct {
	ConversationID string              `json:"conversationId" validate:"required"`
	Content        string              `json:"content" validate:"required"`
	MessageType    string              `json:"messageType" validate:"omitempty,oneof=text image voice file"`
	Attachments    []models.Attachment `json:"attachments"`
	ReplyTo        string              `json:"replyTo"`
}

type typingPayload struct {
	ConversationID string `json:"conversationId" validate:"required"`
}

// Outbound payloads.

type roomJoinedPayload struct {
	RoomID   string `json:"roomId"`
	RoomType string `json:"roomType"`
}

type userJoinedPayload struct {
	UserID    string    `json:"userId"`
	Name      string    `json:"name"`
	Avatar    string    `json:"avatar,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type userLeftPayload struct {
	UserID    string    `json:"userId"`
	Timestamp time.Time `json:"timestamp"`
}

type userEditingPayload struct {
	UserID    string    `json:"userId"`
	UserName  string    `json:"userName"`
	Avatar    string    `json:"avatar,omitempty"`
	NoteID    string    `json:"noteId"`
	Timestamp time.Time `json:"timestamp"`
}

type userStoppedEditingPayload struct {
	UserID    string    `json:"userId"`
	NoteID    string    `json:"noteId"`
	Timestamp time.Time `json:"timestamp"`
}

type userCursorPayload struct {
	UserID    string    `json:"userId"`
	UserName  string    `json:"userName"`
	Avatar    string    `json:"avatar,omitempty"`
	X         float64   `json:"x"`
	Y         float64   `json:"y"`
	NoteID    string    `json:"noteId,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type updatedByPayload struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
}

type noteUpdatedPayload struct {
	NoteID    string           `json:"noteId"`
	Updates   models.Note      `json:"updates"`
	UpdatedBy updatedByPayload `json:"updatedBy"`
	Timestamp time.Time        `json:"timestamp"`
}

type userTypingPayload struct {
	UserID    string    `json:"userId"`
	UserName  string    `json:"userName"`
	Timestamp time.Time `json:"timestamp"`
}

type userStoppedTypingPayload struct {
	UserID    string    `json:"userId"`
	Timestamp time.Time `json:"timestamp"`
}

type errorPayload struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}
