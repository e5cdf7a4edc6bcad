package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Note kinds supported on a trip dashboard.
const (
	NoteTypeText           = "text"
	NoteTypeImage          = "image"
	NoteTypeVoice          = "voice"
	NoteTypeWeather        = "weather"
	NoteTypeSchedule       = "schedule"
	NoteTypeBudget         = "budget"
	NoteTypeSustainability = "sustainability"
)

// Position locates a note on the dashboard canvas.
type Position struct {
	X float64 `bson:"x" json:"x"`
	Y float64 `bson:"y" json:"y"`
}

// Size describes a note's rendered dimensions.
type Size struct {
	Width  float64 `bson:"width" json:"width"`
	Height float64 `bson:"height" json:"height"`
}

// Note is a sticky note on a trip dashboard. The id is opaque and unique
// within its dashboard; typed variants carry extra fields in Data.
type Note struct {
	ID       string   `bson:"id" json:"id"`
	Type     string   `bson:"type" json:"type"`
	Content  string   `bson:"content,omitempty" json:"content"`
	Color    string   `bson:"color,omitempty" json:"color"`
	Position Position `bson:"position" json:"position"`
	Size     Size     `bson:"size" json:"size"`

	Data map[string]interface{} `bson:"data,omitempty" json:"data,omitempty"`

	CreatedBy primitive.ObjectID `bson:"created_by" json:"created_by"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

// ActiveUser is one presence record per identity per dashboard. At most one
// entry exists per user; re-joining refreshes the entry in place.
type ActiveUser struct {
	UserID   primitive.ObjectID `bson:"user_id" json:"user_id"`
	Name     string             `bson:"name" json:"name"`
	Avatar   string             `bson:"avatar,omitempty" json:"avatar"`
	JoinedAt time.Time          `bson:"joined_at" json:"joined_at"`

	LastActive  time.Time `bson:"last_active" json:"last_active"`
	EditingNote *string   `bson:"editing_note,omitempty" json:"editing_note,omitempty"`
	Cursor      *Position `bson:"cursor,omitempty" json:"cursor,omitempty"`
}

// Dashboard is the collaborative sticky-note board for a trip. The persisted
// active-user list is authoritative for presence and survives restarts.
type Dashboard struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TripID primitive.ObjectID `bson:"trip_id" json:"trip_id"`

	Notes       []Note       `bson:"notes" json:"notes"`
	ActiveUsers []ActiveUser `bson:"active_users" json:"active_users"`

	LastModified time.Time `bson:"last_modified" json:"last_modified"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
}

// FindNote returns the note with the given id, or nil if absent.
func (d *Dashboard) FindNote(noteID string) *Note {
	for i := range d.Notes {
		if d.Notes[i].ID == noteID {
			return &d.Notes[i]
		}
	}
	return nil
}
