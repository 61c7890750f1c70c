package models

import "time"

// Appointment status values. Cancelled records are kept, never deleted.
const (
	StatusBooked    = "booked"
	StatusCancelled = "cancelled"
)

// SlotTimeLayout is the canonical ISO form appointments are keyed by.
// Slot identity is exact string equality on this form.
const SlotTimeLayout = "2006-01-02T15:04:05"

// Appointment represents a reservation for a single time slot.
type Appointment struct {
	ID        string    `bson:"id" json:"id"`
	GuestID   string    `bson:"guest_id" json:"guest_id"`
	StartTime string    `bson:"start_time" json:"start_time"` // canonical ISO string, see SlotTimeLayout
	PartySize int       `bson:"party_size" json:"party_size"`
	Details   string    `bson:"details" json:"details"`
	Status    string    `bson:"status" json:"status"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// Slot is a bookable candidate offered to the caller.
type Slot struct {
	ISO     string `json:"iso"`
	Display string `json:"display"`
}
