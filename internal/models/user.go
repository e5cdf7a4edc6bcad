package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User describes an account in the travel-planning platform. The realtime
// layer reads users once at handshake time and treats the result as a
// read-only snapshot for the connection's lifetime.
type User struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username string             `bson:"username" json:"username"`
	Email    string             `bson:"email" json:"email"`
	Password string             `bson:"password" json:"-"`

	Name   string `bson:"name" json:"name"`
	Avatar string `bson:"avatar,omitempty" json:"avatar"`
	Bio    string `bson:"bio,omitempty" json:"bio"`

	IsActive bool `bson:"is_active" json:"is_active"`

	LastLoginAt *time.Time `bson:"last_login_at,omitempty" json:"last_login_at,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
