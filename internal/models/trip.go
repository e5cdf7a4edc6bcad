package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Trip is the top-level planning document. Each trip owns one dashboard and
// may be referenced by group conversations.
type Trip struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Destination string             `bson:"destination" json:"destination"`
	Description string             `bson:"description,omitempty" json:"description"`

	OwnerID       primitive.ObjectID   `bson:"owner_id" json:"owner_id"`
	Collaborators []primitive.ObjectID `bson:"collaborators,omitempty" json:"collaborators"`

	StartDate *time.Time `bson:"start_date,omitempty" json:"start_date,omitempty"`
	EndDate   *time.Time `bson:"end_date,omitempty" json:"end_date,omitempty"`

	CoverImage string `bson:"cover_image,omitempty" json:"cover_image"`
	IsPublic   bool   `bson:"is_public" json:"is_public"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// HasMember reports whether the user owns or collaborates on the trip.
func (t *Trip) HasMember(userID primitive.ObjectID) bool {
	if t.OwnerID == userID {
		return true
	}
	for _, id := range t.Collaborators {
		if id == userID {
			return true
		}
	}
	return false
}
