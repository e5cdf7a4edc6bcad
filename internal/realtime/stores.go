package realtime

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/wayfarerhq/wayfarer/internal/models"
)

// Store interfaces are declared on the consumer side so tests can substitute
// fakes; the mongo-backed implementations live in internal/store.

// DashboardStore persists dashboards, notes, and the presence list.
type DashboardStore interface {
	FindByID(ctx context.Context, id string) (*models.Dashboard, error)
	UpsertActiveUser(ctx context.Context, dashboardID string, entry models.ActiveUser) error
	RemoveActiveUser(ctx context.Context, dashboardID, userID string) error
	ListActiveUsers(ctx context.Context, dashboardID string) ([]models.ActiveUser, error)
	ReplaceNote(ctx context.Context, dashboardID string, note models.Note) error
}

// ConversationStore persists conversations and read markers.
type ConversationStore interface {
	FindByID(ctx context.Context, id string) (*models.Conversation, error)
	MarkRead(ctx context.Context, conversationID, userID string, at time.Time) error
	RecordMessage(ctx context.Context, conversationID string, messageID primitive.ObjectID, at time.Time) error
}

// MessageStore persists chat messages.
type MessageStore interface {
	Insert(ctx context.Context, msg *models.Message) error
}
