package models

import "time"

// RoomType is a category of room sharing a price, e.g. "King Bed".
// Slots lists the physical room numbers that belong to it.
type RoomType struct {
	ID           string    `json:"id" bson:"id"`
	Name         string    `json:"name" bson:"name"`
	Price        float64   `json:"price" bson:"price"`
	MaxOccupancy int       `json:"maxOccupancy" bson:"maxOccupancy"`
	Description  string    `json:"description" bson:"description"`
	ImagePath    string    `json:"imagePath,omitempty" bson:"imagePath,omitempty"`
	ThumbPath    string    `json:"thumbPath,omitempty" bson:"thumbPath,omitempty"`
	Slots        []int     `json:"slots" bson:"slots"`
	UpdatedAt    time.Time `json:"updatedAt,omitempty" bson:"updatedAt,omitempty"`
}

// DefaultRoomTypes is the current hotel layout: 4 types with 5 numbered
// rooms each.
func DefaultRoomTypes() []RoomType {
	return []RoomType{
		{ID: "queen-bed", Name: "Queen Bed", Price: 129, MaxOccupancy: 2, Slots: []int{101, 102, 103, 104, 105},
			Description: "A quiet room with one queen bed."},
		{ID: "two-queen-beds", Name: "Two Queen Beds", Price: 159, MaxOccupancy: 4, Slots: []int{201, 202, 203, 204, 205},
			Description: "Two queen beds, room for the whole family."},
		{ID: "king-bed", Name: "King Bed", Price: 189, MaxOccupancy: 2, Slots: []int{301, 302, 303, 304, 305},
			Description: "One king bed and a work desk."},
		{ID: "kitchenette", Name: "Kitchenette", Price: 219, MaxOccupancy: 4, Slots: []int{401, 402, 403, 404, 405},
			Description: "Two beds and a small kitchen for longer stays."},
	}
}

// WithSlotLayout fills in Slots for room documents written before rooms
// were numbered. The layout is taken from the default catalog by name; a
// type that is not in it gets a single unnumbered slot.
func WithSlotLayout(rt RoomType) RoomType {
	if len(rt.Slots) > 0 {
		return rt
	}
	for _, def := range DefaultRoomTypes() {
		if def.Name == rt.Name {
			rt.Slots = append([]int(nil), def.Slots...)
			return rt
		}
	}
	rt.Slots = []int{0}
	return rt
}

// HasSlot reports whether number is one of the type's rooms.
func (rt RoomType) HasSlot(number int) bool {
	for _, n := range rt.Slots {
		if n == number {
			return true
		}
	}
	return false
}

// RoomUpdate is the admin edit body for a room type.
type RoomUpdate struct {
	Price       *float64 `json:"price,omitempty"`
	Description *string  `json:"description,omitempty"`
}
