package models

import "time"

// Stored reservation status values. Anything else, including an empty
// string, is legacy data and reads as pending.
const (
	StatusPending    = "pending"
	StatusBooked     = "booked"
	StatusCheckedOut = "checked-out"
)

// Epoch stands in for missing or unreadable dates.
var Epoch = time.Unix(0, 0).UTC()

// Reservation is one booking attempt as persisted. The shape is kept loose on
// purpose: the effective lifecycle state is derived from it on every read.
type Reservation struct {
	ID           string     `json:"id" bson:"id"`
	GuestName    string     `json:"guestName" bson:"guestName"`
	Email        string     `json:"email" bson:"email"`
	Phone        string     `json:"phone" bson:"phone"`
	RoomTypeID   string     `json:"roomTypeId" bson:"roomTypeId"`
	RoomTypeName string     `json:"roomTypeName" bson:"roomTypeName"`
	RoomNumber   int        `json:"roomNumber,omitempty" bson:"roomNumber,omitempty"` // 0 = not assigned
	CheckInDate  time.Time  `json:"checkInDate" bson:"checkInDate"`
	CheckOutDate time.Time  `json:"checkOutDate" bson:"checkOutDate"`
	AdultsCount  int        `json:"adultsCount" bson:"adultsCount"`
	KidsCount    int        `json:"kidsCount" bson:"kidsCount"`
	Status       string     `json:"status,omitempty" bson:"status,omitempty"`
	CheckedInAt  *time.Time `json:"checkedInAt,omitempty" bson:"checkedInAt,omitempty"`
	CheckedOutAt *time.Time `json:"checkedOutAt,omitempty" bson:"checkedOutAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt,omitempty" bson:"updatedAt,omitempty"`
}

// HasRoomNumber reports whether the reservation points at a specific slot.
func (r Reservation) HasRoomNumber() bool {
	return r.RoomNumber > 0
}

// Guests is adults plus kids.
func (r Reservation) Guests() int {
	return r.AdultsCount + r.KidsCount
}

// ReservationInput is the body accepted by the guest and admin forms.
// Dates are calendar dates (YYYY-MM-DD) or RFC3339 timestamps.
type ReservationInput struct {
	GuestName   string `json:"guestName"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	RoomTypeID  string `json:"roomTypeId"`
	RoomNumber  int    `json:"roomNumber,omitempty"`
	CheckIn     string `json:"checkInDate"`
	CheckOut    string `json:"checkOutDate"`
	AdultsCount int    `json:"adultsCount"`
	KidsCount   int    `json:"kidsCount"`
}

// ReservationEvent is published whenever a reservation changes.
type ReservationEvent struct {
	Type          string `json:"type"`
	Action        string `json:"action"`
	ReservationID string `json:"id"`
	At            int64  `json:"at"`
}
