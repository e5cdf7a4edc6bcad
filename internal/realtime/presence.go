package realtime

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/wayfarerhq/wayfarer/internal/auth"
	"github.com/wayfarerhq/wayfarer/internal/models"
	apperrors "github.com/wayfarerhq/wayfarer/pkg/errors"
)

// Presence owns the active-participant list for dashboard rooms. Every
// mutation is written through to the document store synchronously so a page
// reload recovers the current participant list.
type Presence struct {
	dashboards DashboardStore
	now        func() time.Time
}

// NewPresence constructs the presence service.
func NewPresence(dashboards DashboardStore) *Presence {
	return &Presence{
		dashboards: dashboards,
		now:        time.Now,
	}
}

// Upsert inserts or refreshes the identity's presence entry on a dashboard.
// At most one entry exists per identity; re-joining updates it in place.
func (p *Presence) Upsert(ctx context.Context, dashboardID string, identity auth.Identity) (models.ActiveUser, error) {
	uid, err := primitive.ObjectIDFromHex(identity.ID)
	if err != nil {
		return models.ActiveUser{}, apperrors.ErrNotFound.WithInternal(err)
	}

	now := p.now().UTC()
	entry := models.ActiveUser{
		UserID:     uid,
		Name:       identity.Name,
		Avatar:     identity.Avatar,
		JoinedAt:   now,
		LastActive: now,
	}

	if err := p.dashboards.UpsertActiveUser(ctx, dashboardID, entry); err != nil {
		return models.ActiveUser{}, err
	}
	return entry, nil
}

// Remove deletes the identity's presence entry. Removing an entry that does
// not exist is a no-op.
func (p *Presence) Remove(ctx context.Context, dashboardID, userID string) error {
	return p.dashboards.RemoveActiveUser(ctx, dashboardID, userID)
}

// List returns the current persisted presence snapshot for a dashboard.
func (p *Presence) List(ctx context.Context, dashboardID string) ([]models.ActiveUser, error) {
	return p.dashboards.ListActiveUsers(ctx, dashboardID)
}
