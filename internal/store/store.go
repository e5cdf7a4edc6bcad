// Package store implements document persistence for the Wayfarer backend on
// top of MongoDB. Stores accept string identifiers at the boundary and map
// missing documents to the shared NotFound error.
package store

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	apperrors "github.com/wayfarerhq/wayfarer/pkg/errors"
	"github.com/wayfarerhq/wayfarer/pkg/metrics"
)

// Collection names.
const (
	usersCollection         = "users"
	tripsCollection         = "trips"
	dashboardsCollection    = "dashboards"
	conversationsCollection = "conversations"
	messagesCollection      = "messages"
)

// objectID parses a hex identifier, reporting NotFound for malformed input so
// callers treat a garbage id the same as a missing document.
func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, apperrors.ErrNotFound.WithInternal(err)
	}
	return oid, nil
}

// observe records the round-trip latency of a store operation. Use with
// defer: defer observe("dashboards.replace_note")().
func observe(operation string) func() {
	start := time.Now()
	return func() {
		metrics.StoreLatency.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	}
}

// mapFindError converts driver lookup failures into the shared taxonomy.
func mapFindError(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return apperrors.ErrNotFound
	}
	return apperrors.WrapPersistence(err, "")
}
