package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/wayfarerhq/wayfarer/internal/models"
	apperrors "github.com/wayfarerhq/wayfarer/pkg/errors"
)

// Conversations persists chat conversations and their read markers.
type Conversations struct {
	c *mongo.Collection
}

// NewConversations constructs the conversation store.
func NewConversations(db *mongo.Database) *Conversations {
	return &Conversations{c: db.Collection(conversationsCollection)}
}

// FindByID loads a conversation by hex identifier.
func (s *Conversations) FindByID(ctx context.Context, id string) (*models.Conversation, error) {
	defer observe("conversations.find")()

	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	var conv models.Conversation
	if err := s.c.FindOne(ctx, bson.M{"_id": oid}).Decode(&conv); err != nil {
		return nil, mapFindError(err)
	}
	return &conv, nil
}

// MarkRead refreshes the participant's last-read marker. A non-participant
// user matches no array element and the call is a silent no-op.
func (s *Conversations) MarkRead(ctx context.Context, conversationID, userID string, at time.Time) error {
	defer observe("conversations.mark_read")()

	oid, err := objectID(conversationID)
	if err != nil {
		return err
	}
	uid, err := objectID(userID)
	if err != nil {
		return err
	}

	_, err = s.c.UpdateOne(ctx,
		bson.M{"_id": oid, "participants.user_id": uid},
		bson.M{"$set": bson.M{"participants.$.last_read": at}},
	)
	if err != nil {
		return apperrors.WrapPersistence(err, "failed to update read marker")
	}
	return nil
}

// RecordMessage points the conversation at its newest message and increments
// the message counter.
func (s *Conversations) RecordMessage(ctx context.Context, conversationID string, messageID primitive.ObjectID, at time.Time) error {
	defer observe("conversations.record_message")()

	oid, err := objectID(conversationID)
	if err != nil {
		return err
	}

	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{
			"$set": bson.M{"last_message_id": messageID, "updated_at": at},
			"$inc": bson.M{"message_count": 1},
		},
	)
	if err != nil {
		return apperrors.WrapPersistence(err, "failed to record message")
	}
	if res.MatchedCount == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
