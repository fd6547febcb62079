// Package occupancy folds reservation states into per-room answers: is room
// 203 occupied, booked, waiting on a pending request, or free right now.
package occupancy

import (
	"strconv"

	"goodnight/models"
)

// Slot is one physical room of a room type.
type Slot struct {
	TypeID   string  `json:"typeId"`
	TypeName string  `json:"typeName"`
	Number   int     `json:"number"` // 0 for the single slot of an unnumbered legacy type
	Price    float64 `json:"price"`
}

// Label is the room number as shown on the board.
func (s Slot) Label() string {
	if s.Number == 0 {
		return s.TypeName
	}
	return s.TypeName + " #" + strconv.Itoa(s.Number)
}

// Catalog is the fixed set of physical rooms, in display order.
type Catalog struct {
	Types []models.RoomType
	Slots []Slot

	byID   map[string]int
	byName map[string]int
}

// NewCatalog lays out the slots of the given room types. Types without a
// slot list get their layout from models.WithSlotLayout.
func NewCatalog(types []models.RoomType) Catalog {
	c := Catalog{
		byID:   make(map[string]int, len(types)),
		byName: make(map[string]int, len(types)),
	}
	for _, rt := range types {
		rt = models.WithSlotLayout(rt)
		idx := len(c.Types)
		c.Types = append(c.Types, rt)
		if rt.ID != "" {
			c.byID[rt.ID] = idx
		}
		if rt.Name != "" {
			c.byName[rt.Name] = idx
		}
		for _, n := range rt.Slots {
			c.Slots = append(c.Slots, Slot{TypeID: rt.ID, TypeName: rt.Name, Number: n, Price: rt.Price})
		}
	}
	return c
}

// Total is the number of physical rooms.
func (c Catalog) Total() int {
	return len(c.Slots)
}

// Type resolves a reservation's room type reference: by id first, then by
// name for documents that only kept the display name.
func (c Catalog) Type(id, name string) (models.RoomType, bool) {
	if idx, ok := c.byID[id]; ok && id != "" {
		return c.Types[idx], true
	}
	if idx, ok := c.byName[name]; ok && name != "" {
		return c.Types[idx], true
	}
	return models.RoomType{}, false
}

// SlotFor returns the slot a reservation belongs to. A reservation without
// a room number is placed in the first slot of its type. It reports false
// for an unknown type or a number that is not one of the type's rooms.
func (c Catalog) SlotFor(r models.Reservation) (Slot, bool) {
	rt, ok := c.Type(r.RoomTypeID, r.RoomTypeName)
	if !ok || len(rt.Slots) == 0 {
		return Slot{}, false
	}
	number := rt.Slots[0]
	if r.HasRoomNumber() {
		if !rt.HasSlot(r.RoomNumber) {
			return Slot{}, false
		}
		number = r.RoomNumber
	}
	return Slot{TypeID: rt.ID, TypeName: rt.Name, Number: number, Price: rt.Price}, true
}

type slotKey struct {
	typeID string
	number int
}

func keyOf(s Slot) slotKey {
	// name stands in for legacy types that never had an id
	id := s.TypeID
	if id == "" {
		id = "name:" + s.TypeName
	}
	return slotKey{typeID: id, number: s.Number}
}
