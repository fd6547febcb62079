package lifecycle

import (
	"errors"
	"fmt"
	"time"

	"goodnight/models"
)

// ErrTransition is returned when an admin action does not apply to the
// reservation's current state.
var ErrTransition = errors.New("action not allowed in current state")

// Action is an admin operation that moves a reservation along its lifecycle.
type Action string

const (
	Confirm  Action = "confirm"
	CheckIn  Action = "checkin"
	CheckOut Action = "checkout"
)

// Check validates that action can be applied to r as of now.
func Check(action Action, r models.Reservation, now time.Time) error {
	st := Derive(r, now)
	ok := false
	switch action {
	case Confirm:
		ok = st == Pending
	case CheckIn:
		ok = st == Upcoming
	case CheckOut:
		// a stay that ended without an admin check-out can still be closed
		ok = st == InHouse || (st == CheckedOut && r.Status == models.StatusBooked)
	}
	if !ok {
		return fmt.Errorf("%s reservation %s is %s: %w", action, r.ID, st, ErrTransition)
	}
	return nil
}

// Fields returns the document fields an action sets.
func Fields(action Action, now time.Time) map[string]any {
	switch action {
	case Confirm:
		return map[string]any{"status": models.StatusBooked, "updatedAt": now}
	case CheckIn:
		return map[string]any{"checkedInAt": now, "updatedAt": now}
	case CheckOut:
		return map[string]any{"status": models.StatusCheckedOut, "checkedOutAt": now, "updatedAt": now}
	}
	return nil
}

// Apply is Fields applied to an in-memory copy of r.
func Apply(action Action, r models.Reservation, now time.Time) models.Reservation {
	switch action {
	case Confirm:
		r.Status = models.StatusBooked
	case CheckIn:
		t := now
		r.CheckedInAt = &t
	case CheckOut:
		t := now
		r.Status = models.StatusCheckedOut
		r.CheckedOutAt = &t
	}
	r.UpdatedAt = now
	return r
}
