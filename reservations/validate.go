package reservations

import (
	"net/mail"
	"sort"
	"strings"
	"time"

	"goodnight/lifecycle"
	"goodnight/models"
	"goodnight/occupancy"
)

// ValidationError lists the rejected input fields and why.
type ValidationError struct {
	Fields map[string]string `json:"fields"`
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + e.Fields[k]
	}
	return "invalid reservation: " + strings.Join(parts, "; ")
}

// draft is validated input, ready to be stored.
type draft struct {
	in       models.ReservationInput
	roomType models.RoomType
	checkIn  time.Time
	checkOut time.Time
}

// validate checks a booking form against the room catalog. Dates are
// read in loc.
func validate(in models.ReservationInput, catalog occupancy.Catalog, loc *time.Location) (draft, error) {
	bad := map[string]string{}
	in.GuestName = strings.TrimSpace(in.GuestName)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)

	if in.GuestName == "" {
		bad["guestName"] = "required"
	}
	if in.Email == "" {
		bad["email"] = "required"
	} else if _, err := mail.ParseAddress(in.Email); err != nil {
		bad["email"] = "not a valid address"
	}

	d := draft{in: in}
	var ok bool
	if d.checkIn, ok = models.ParseDate(in.CheckIn, loc); !ok {
		bad["checkInDate"] = "expected YYYY-MM-DD"
	}
	if d.checkOut, ok = models.ParseDate(in.CheckOut, loc); !ok {
		bad["checkOutDate"] = "expected YYYY-MM-DD"
	}
	if _, inBad := bad["checkInDate"]; !inBad {
		if _, outBad := bad["checkOutDate"]; !outBad &&
			lifecycle.Day(d.checkOut, loc).Before(lifecycle.Day(d.checkIn, loc)) {
			bad["checkOutDate"] = "before check-in"
		}
	}

	if in.AdultsCount < 1 {
		bad["adultsCount"] = "at least one adult"
	}
	if in.KidsCount < 0 {
		bad["kidsCount"] = "must not be negative"
	}

	rt, found := catalog.Type(in.RoomTypeID, "")
	switch {
	case in.RoomTypeID == "":
		bad["roomTypeId"] = "required"
	case !found:
		bad["roomTypeId"] = "unknown room type"
	default:
		d.roomType = rt
		if rt.MaxOccupancy > 0 && in.AdultsCount+in.KidsCount > rt.MaxOccupancy {
			bad["guests"] = "exceeds room capacity"
		}
		if in.RoomNumber < 0 || in.RoomNumber > 0 && !rt.HasSlot(in.RoomNumber) {
			bad["roomNumber"] = "not a room of this type"
		}
	}

	if len(bad) > 0 {
		return draft{}, &ValidationError{Fields: bad}
	}
	return d, nil
}

// reservation builds a new document from the draft.
func (d draft) reservation(id, status string, now time.Time) models.Reservation {
	return models.Reservation{
		ID:           id,
		GuestName:    d.in.GuestName,
		Email:        d.in.Email,
		Phone:        d.in.Phone,
		RoomTypeID:   d.roomType.ID,
		RoomTypeName: d.roomType.Name,
		RoomNumber:   d.in.RoomNumber,
		CheckInDate:  d.checkIn,
		CheckOutDate: d.checkOut,
		AdultsCount:  d.in.AdultsCount,
		KidsCount:    d.in.KidsCount,
		Status:       status,
		CreatedAt:    now,
	}
}

// fields is the $set of an admin edit. Editing a reservation books it;
// a checked-out stay that is reopened this way loses its admission and
// departure stamps.
func (d draft) fields(now time.Time, reopen bool) map[string]any {
	f := map[string]any{
		"guestName":    d.in.GuestName,
		"email":        d.in.Email,
		"phone":        d.in.Phone,
		"roomTypeId":   d.roomType.ID,
		"roomTypeName": d.roomType.Name,
		"roomNumber":   d.in.RoomNumber,
		"checkInDate":  d.checkIn,
		"checkOutDate": d.checkOut,
		"adultsCount":  d.in.AdultsCount,
		"kidsCount":    d.in.KidsCount,
		"status":       models.StatusBooked,
		"updatedAt":    now,
	}
	if reopen {
		f["checkedInAt"] = nil
		f["checkedOutAt"] = nil
	}
	return f
}
