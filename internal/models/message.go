package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message content kinds.
const (
	MessageTypeText  = "text"
	MessageTypeImage = "image"
	MessageTypeVoice = "voice"
	MessageTypeFile  = "file"
)

// Attachment references an uploaded file carried by a message.
type Attachment struct {
	URL      string `bson:"url" json:"url"`
	Name     string `bson:"name,omitempty" json:"name"`
	MimeType string `bson:"mime_type,omitempty" json:"mime_type"`
	Size     int64  `bson:"size,omitempty" json:"size"`
}

// Message is a single chat message within a conversation.
type Message struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ConversationID primitive.ObjectID `bson:"conversation_id" json:"conversation_id"`

	SenderID     primitive.ObjectID `bson:"sender_id" json:"sender_id"`
	SenderName   string             `bson:"sender_name" json:"sender_name"`
	SenderAvatar string             `bson:"sender_avatar,omitempty" json:"sender_avatar"`

	Type        string              `bson:"type" json:"type"`
	Content     string              `bson:"content" json:"content"`
	Attachments []Attachment        `bson:"attachments,omitempty" json:"attachments,omitempty"`
	ReplyTo     *primitive.ObjectID `bson:"reply_to,omitempty" json:"reply_to,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
