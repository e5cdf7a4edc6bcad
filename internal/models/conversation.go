package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Conversation kinds.
const (
	ConversationTypeGroup  = "group"
	ConversationTypeDirect = "direct"
)

// Participant links a user to a conversation together with their read marker.
// Joining the conversation room marks history as read by refreshing LastRead.
type Participant struct {
	UserID   primitive.ObjectID `bson:"user_id" json:"user_id"`
	JoinedAt time.Time          `bson:"joined_at" json:"joined_at"`
	LastRead *time.Time         `bson:"last_read,omitempty" json:"last_read,omitempty"`
}

// Conversation is a group or direct chat, optionally bound to a trip.
type Conversation struct {
	ID     primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Type   string              `bson:"type" json:"type"`
	Title  string              `bson:"title,omitempty" json:"title"`
	TripID *primitive.ObjectID `bson:"trip_id,omitempty" json:"trip_id,omitempty"`

	Participants []Participant `bson:"participants" json:"participants"`

	LastMessageID *primitive.ObjectID `bson:"last_message_id,omitempty" json:"last_message_id,omitempty"`
	MessageCount  int64               `bson:"message_count" json:"message_count"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// HasParticipant reports whether the user belongs to the conversation.
func (c *Conversation) HasParticipant(userID primitive.ObjectID) bool {
	for _, p := range c.Participants {
		if p.UserID == userID {
			return true
		}
	}
	return false
}
