package occupancy

import (
	"math"
	"time"

	"goodnight/lifecycle"
	"goodnight/models"
)

// State is the aggregate answer for one slot.
type State int

const (
	Free State = iota
	Pending
	Booked
	Occupied
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Booked:
		return "booked"
	case Occupied:
		return "occupied"
	default:
		return "free"
	}
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ParseState maps a label back to a State.
func ParseState(label string) (State, bool) {
	for _, s := range []State{Free, Pending, Booked, Occupied} {
		if s.String() == label {
			return s, true
		}
	}
	return Free, false
}

// SlotView is the reduced state of a slot.
//
// Current is the reservation that decided the state: the in-house guest,
// else the soonest upcoming arrival, else the first pending request. Next
// is the soonest upcoming arrival regardless of state. Conflicts lists the
// ids of extra in-house reservations, which correct data never produces.
type SlotView struct {
	Slot
	State     State               `json:"state"`
	Current   *models.Reservation `json:"current,omitempty"`
	Next      *models.Reservation `json:"next,omitempty"`
	Conflicts []string            `json:"conflicts,omitempty"`
}

// SlotState reduces every reservation associated with slot.
func (c Catalog) SlotState(slot Slot, rs []models.Reservation, now time.Time) SlotView {
	key := keyOf(slot)
	var mine []models.Reservation
	for _, r := range rs {
		if s, ok := c.SlotFor(r); ok && keyOf(s) == key {
			mine = append(mine, r)
		}
	}
	return reduce(slot, mine, now)
}

func reduce(slot Slot, rs []models.Reservation, now time.Time) SlotView {
	v := SlotView{Slot: slot, State: Free}
	var inHouse, next, pending *models.Reservation
	for i := range rs {
		r := rs[i]
		switch lifecycle.Derive(r, now) {
		case lifecycle.InHouse:
			if inHouse == nil {
				inHouse = &r
			} else {
				v.Conflicts = append(v.Conflicts, r.ID)
			}
		case lifecycle.Upcoming:
			if next == nil || r.CheckInDate.Before(next.CheckInDate) {
				next = &r
			}
		case lifecycle.Pending:
			if pending == nil {
				pending = &r
			}
		}
	}
	v.Next = next
	switch {
	case inHouse != nil:
		v.State, v.Current = Occupied, inHouse
	case next != nil:
		v.State, v.Current = Booked, next
	case pending != nil:
		v.State, v.Current = Pending, pending
	}
	return v
}

// TypeGroup is the board section of one room type.
type TypeGroup struct {
	TypeID   string     `json:"typeId"`
	Name     string     `json:"name"`
	Price    float64    `json:"price"`
	Slots    []SlotView `json:"slots"`
	Occupied int        `json:"occupied"`
	Booked   int        `json:"booked"`
	Pending  int        `json:"pending"`
	Free     int        `json:"free"`
	Percent  int        `json:"percent"` // occupied share of the type's rooms
}

// BoardView is the whole room board.
type BoardView struct {
	Groups   []TypeGroup `json:"groups"`
	Total    int         `json:"total"`
	Occupied int         `json:"occupied"`
	Booked   int         `json:"booked"`
	Pending  int         `json:"pending"`
	Free     int         `json:"free"`
	// Unplaced holds active reservations that match no slot in the catalog.
	Unplaced []string `json:"unplaced,omitempty"`
}

// Board computes every slot of the catalog in one pass over rs.
func (c Catalog) Board(rs []models.Reservation, now time.Time) BoardView {
	buckets := make(map[slotKey][]models.Reservation)
	var b BoardView
	for _, r := range rs {
		s, ok := c.SlotFor(r)
		if !ok {
			if lifecycle.Derive(r, now) != lifecycle.CheckedOut {
				b.Unplaced = append(b.Unplaced, r.ID)
			}
			continue
		}
		k := keyOf(s)
		buckets[k] = append(buckets[k], r)
	}

	for _, rt := range c.Types {
		g := TypeGroup{TypeID: rt.ID, Name: rt.Name, Price: rt.Price}
		for _, n := range rt.Slots {
			slot := Slot{TypeID: rt.ID, TypeName: rt.Name, Number: n, Price: rt.Price}
			v := reduce(slot, buckets[keyOf(slot)], now)
			g.Slots = append(g.Slots, v)
			switch v.State {
			case Occupied:
				g.Occupied++
			case Booked:
				g.Booked++
			case Pending:
				g.Pending++
			default:
				g.Free++
			}
		}
		if len(g.Slots) > 0 {
			g.Percent = int(math.Round(float64(g.Occupied) / float64(len(g.Slots)) * 100))
		}
		b.Groups = append(b.Groups, g)
		b.Total += len(g.Slots)
		b.Occupied += g.Occupied
		b.Booked += g.Booked
		b.Pending += g.Pending
		b.Free += g.Free
	}
	return b
}

// Slots flattens the board, optionally keeping only the given states.
func (b BoardView) Slots(states ...State) []SlotView {
	var out []SlotView
	for _, g := range b.Groups {
		for _, s := range g.Slots {
			if len(states) == 0 || containsState(states, s.State) {
				out = append(out, s)
			}
		}
	}
	return out
}

// Violations returns slots with more than one in-house reservation.
func (b BoardView) Violations() []SlotView {
	var out []SlotView
	for _, s := range b.Slots() {
		if len(s.Conflicts) > 0 {
			out = append(out, s)
		}
	}
	return out
}

// Vacant is the number of rooms nobody is in right now.
func (b BoardView) Vacant() int {
	return b.Total - b.Occupied
}

func containsState(states []State, s State) bool {
	for _, x := range states {
		if x == s {
			return true
		}
	}
	return false
}
