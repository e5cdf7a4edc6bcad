package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/wayfarerhq/wayfarer/internal/models"
)

// Trips reads trip documents.
type Trips struct {
	c *mongo.Collection
}

// NewTrips constructs the trip store.
func NewTrips(db *mongo.Database) *Trips {
	return &Trips{c: db.Collection(tripsCollection)}
}

// FindByID loads a trip by hex identifier.
func (s *Trips) FindByID(ctx context.Context, id string) (*models.Trip, error) {
	defer observe("trips.find")()

	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	var t models.Trip
	if err := s.c.FindOne(ctx, bson.M{"_id": oid}).Decode(&t); err != nil {
		return nil, mapFindError(err)
	}
	return &t, nil
}
