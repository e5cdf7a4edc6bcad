package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/wayfarerhq/wayfarer/internal/models"
	apperrors "github.com/wayfarerhq/wayfarer/pkg/errors"
)

// Messages persists chat messages.
type Messages struct {
	c *mongo.Collection
}

// NewMessages constructs the message store.
func NewMessages(db *mongo.Database) *Messages {
	return &Messages{c: db.Collection(messagesCollection)}
}

// Insert stores a new message, assigning an id and creation time when unset.
func (s *Messages) Insert(ctx context.Context, msg *models.Message) error {
	defer observe("messages.insert")()

	if msg.ID.IsZero() {
		msg.ID = primitive.NewObjectID()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}

	if _, err := s.c.InsertOne(ctx, msg); err != nil {
		return apperrors.WrapPersistence(err, "failed to save message")
	}
	return nil
}
