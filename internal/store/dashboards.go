package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/wayfarerhq/wayfarer/internal/models"
	apperrors "github.com/wayfarerhq/wayfarer/pkg/errors"
)

// Dashboards persists trip dashboards, their notes, and the authoritative
// active-user presence list.
type Dashboards struct {
	c *mongo.Collection
}

// NewDashboards constructs the dashboard store.
func NewDashboards(db *mongo.Database) *Dashboards {
	return &Dashboards{c: db.Collection(dashboardsCollection)}
}

// FindByID loads a dashboard by hex identifier.
func (s *Dashboards) FindByID(ctx context.Context, id string) (*models.Dashboard, error) {
	defer observe("dashboards.find")()

	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	var d models.Dashboard
	if err := s.c.FindOne(ctx, bson.M{"_id": oid}).Decode(&d); err != nil {
		return nil, mapFindError(err)
	}
	return &d, nil
}

// UpsertActiveUser inserts a presence entry for the user, or refreshes the
// existing one in place. The joined-at timestamp of an existing entry is
// preserved; only activity fields are overwritten.
func (s *Dashboards) UpsertActiveUser(ctx context.Context, dashboardID string, entry models.ActiveUser) error {
	defer observe("dashboards.upsert_active_user")()

	oid, err := objectID(dashboardID)
	if err != nil {
		return err
	}

	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": oid, "active_users.user_id": entry.UserID},
		bson.M{"$set": bson.M{
			"active_users.$.name":         entry.Name,
			"active_users.$.avatar":       entry.Avatar,
			"active_users.$.last_active":  entry.LastActive,
			"active_users.$.editing_note": entry.EditingNote,
			"active_users.$.cursor":       entry.Cursor,
		}},
	)
	if err != nil {
		return apperrors.WrapPersistence(err, "failed to refresh presence entry")
	}
	if res.MatchedCount > 0 {
		return nil
	}

	res, err = s.c.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$push": bson.M{"active_users": entry}},
	)
	if err != nil {
		return apperrors.WrapPersistence(err, "failed to add presence entry")
	}
	if res.MatchedCount == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// RemoveActiveUser deletes the user's presence entry. Removing an absent
// entry is a no-op.
func (s *Dashboards) RemoveActiveUser(ctx context.Context, dashboardID, userID string) error {
	defer observe("dashboards.remove_active_user")()

	oid, err := objectID(dashboardID)
	if err != nil {
		return err
	}
	uid, err := objectID(userID)
	if err != nil {
		return err
	}

	_, err = s.c.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$pull": bson.M{"active_users": bson.M{"user_id": uid}}},
	)
	if err != nil {
		return apperrors.WrapPersistence(err, "failed to remove presence entry")
	}
	return nil
}

// ListActiveUsers returns the persisted presence list for a dashboard.
func (s *Dashboards) ListActiveUsers(ctx context.Context, dashboardID string) ([]models.ActiveUser, error) {
	d, err := s.FindByID(ctx, dashboardID)
	if err != nil {
		return nil, err
	}
	return d.ActiveUsers, nil
}

// ReplaceNote persists an already-merged note and bumps the dashboard's
// last-modified timestamp. Returns NotFound when the note id is absent.
func (s *Dashboards) ReplaceNote(ctx context.Context, dashboardID string, note models.Note) error {
	defer observe("dashboards.replace_note")()

	oid, err := objectID(dashboardID)
	if err != nil {
		return err
	}

	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": oid, "notes.id": note.ID},
		bson.M{"$set": bson.M{
			"notes.$":       note,
			"last_modified": note.UpdatedAt,
		}},
	)
	if err != nil {
		return apperrors.WrapPersistence(err, "failed to update note")
	}
	if res.MatchedCount == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
