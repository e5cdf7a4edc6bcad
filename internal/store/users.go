package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/wayfarerhq/wayfarer/internal/models"
)

// Users reads user documents.
type Users struct {
	c *mongo.Collection
}

// NewUsers constructs the user store.
func NewUsers(db *mongo.Database) *Users {
	return &Users{c: db.Collection(usersCollection)}
}

// FindByID loads a user by hex identifier.
func (s *Users) FindByID(ctx context.Context, id string) (*models.User, error) {
	defer observe("users.find")()

	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": oid}).Decode(&u); err != nil {
		return nil, mapFindError(err)
	}
	return &u, nil
}
