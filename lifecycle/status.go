// Package lifecycle derives the display state of a reservation from its
// stored fields. Every view that lists or counts reservations goes through
// Derive; nothing else in the service interprets the raw status string.
package lifecycle

import (
	"time"

	"goodnight/models"
)

// Status is the effective, display-facing state of a reservation.
type Status int

const (
	Pending Status = iota
	Upcoming
	InHouse
	CheckedOut
)

// All lists every status in lifecycle order.
var All = []Status{Pending, Upcoming, InHouse, CheckedOut}

func (s Status) String() string {
	switch s {
	case Upcoming:
		return "upcoming"
	case InHouse:
		return "in-house"
	case CheckedOut:
		return "checked-out"
	default:
		return "pending"
	}
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ParseStatus maps a label back to a Status. Unknown labels report false.
func ParseStatus(label string) (Status, bool) {
	for _, s := range All {
		if s.String() == label {
			return s, true
		}
	}
	return Pending, false
}

// Derive maps a stored reservation to exactly one Status as of now.
// Day comparisons are made in now's location.
//
// A booked reservation stays Upcoming until an admin records the check-in,
// even once its check-in date has arrived. An explicit checked-out flag, or
// a check-out date before today, wins over a recorded check-in.
func Derive(r models.Reservation, now time.Time) Status {
	switch r.Status {
	case models.StatusCheckedOut:
		return CheckedOut
	case models.StatusBooked:
		loc := now.Location()
		if Day(r.CheckOutDate, loc).Before(Day(now, loc)) {
			return CheckedOut
		}
		if r.CheckedInAt != nil {
			return InHouse
		}
		return Upcoming
	default:
		return Pending
	}
}

// Day truncates t to midnight in loc. A zero time is read as the epoch.
func Day(t time.Time, loc *time.Location) time.Time {
	if t.IsZero() {
		t = models.Epoch
	}
	if loc == nil {
		loc = time.Local
	}
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// SameDay reports whether a and b fall on the same calendar day in loc.
func SameDay(a, b time.Time, loc *time.Location) bool {
	return Day(a, loc).Equal(Day(b, loc))
}

// Nights is the number of calendar days between check-in and check-out,
// read in check-in's location, and never below one. Clock times are
// ignored so a stay across a DST change keeps its night count.
func Nights(checkIn, checkOut time.Time) int {
	loc := checkIn.Location()
	in, out := Day(checkIn, loc), Day(checkOut, loc)
	n := int(civil(out).Sub(civil(in)) / (24 * time.Hour))
	if n < 1 {
		return 1
	}
	return n
}

// civil places a calendar date at UTC midnight, where every day is 24h.
func civil(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Counts holds how many reservations are in each Status.
type Counts struct {
	Pending    int `json:"pending"`
	Upcoming   int `json:"upcoming"`
	InHouse    int `json:"inHouse"`
	CheckedOut int `json:"checkedOut"`
}

// Total sums all buckets.
func (c Counts) Total() int {
	return c.Pending + c.Upcoming + c.InHouse + c.CheckedOut
}

// Of returns the bucket for s.
func (c Counts) Of(s Status) int {
	switch s {
	case Upcoming:
		return c.Upcoming
	case InHouse:
		return c.InHouse
	case CheckedOut:
		return c.CheckedOut
	default:
		return c.Pending
	}
}

// Tally derives every reservation and counts the results.
func Tally(rs []models.Reservation, now time.Time) Counts {
	var c Counts
	for _, r := range rs {
		switch Derive(r, now) {
		case Pending:
			c.Pending++
		case Upcoming:
			c.Upcoming++
		case InHouse:
			c.InHouse++
		case CheckedOut:
			c.CheckedOut++
		}
	}
	return c
}
