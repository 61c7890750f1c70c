package models

import "time"

// DefaultGuestName is stored until a caller provides their name.
const DefaultGuestName = "Unknown"

// Guest represents a caller identified by phone number.
// At most one Guest exists per canonical 10-digit contact number.
type Guest struct {
	ID            string    `bson:"id" json:"id"`
	ContactNumber string    `bson:"contact_number" json:"contact_number"` // canonical 10-digit form
	Name          string    `bson:"name" json:"name"`
	CreatedAt     time.Time `bson:"created_at" json:"created_at"`
}
