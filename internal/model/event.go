package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Event attendees are member uids; the list holds no duplicates and never
// exceeds MaxAttendees.
type Event struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title        string             `bson:"title" json:"title"`
	Description  string             `bson:"description" json:"description"`
	Date         time.Time          `bson:"date" json:"date"`
	Location     string             `bson:"location" json:"location"`
	MaxAttendees int                `bson:"maxAttendees" json:"maxAttendees"`
	Attendees    []string           `bson:"attendees" json:"attendees"`
}
