package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const NotesCollection = "note"

// Note is a titled, dated reminder owned by its creator.
type Note struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	DueDate     time.Time          `bson:"date" json:"date"`
	Creator     string             `bson:"creator" json:"creator"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	Done        bool               `bson:"done" json:"done"`
}

// NoteUpdate carries the mutable fields of a note. Nil fields are left
// untouched.
type NoteUpdate struct {
	Title       *string
	Description *string
	DueDate     *time.Time
	Done        *bool
}

func (u NoteUpdate) IsEmpty() bool {
	return u.Title == nil && u.Description == nil && u.DueDate == nil && u.Done == nil
}
