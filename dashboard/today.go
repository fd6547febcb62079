package dashboard

import (
	"time"

	"goodnight/lifecycle"
	"goodnight/models"
)

// Default front desk times shown before an arrival or departure is recorded.
const (
	DefaultCheckInTime  = "14:00"
	DefaultCheckOutTime = "11:00"
)

// TodayEntry is one row of the arrivals or departures list.
type TodayEntry struct {
	ID          string           `json:"id"`
	GuestName   string           `json:"guestName"`
	RoomName    string           `json:"roomName"`
	RoomNumber  int              `json:"roomNumber,omitempty"`
	AdultsCount int              `json:"adultsCount"`
	KidsCount   int              `json:"kidsCount"`
	Status      lifecycle.Status `json:"status"`
	Done        bool             `json:"done"`
	Time        string           `json:"time"`
}

// TodayView lists the day's check-ins and check-outs.
type TodayView struct {
	Date      string       `json:"date"`
	CheckIns  []TodayEntry `json:"checkIns"`
	CheckOuts []TodayEntry `json:"checkOuts"`
}

// Today picks the arrivals still to be checked in today and the departures
// due or already done today.
func Today(rs []models.Reservation, now time.Time) TodayView {
	loc := now.Location()
	v := TodayView{
		Date:      now.Format("2006-01-02"),
		CheckIns:  []TodayEntry{},
		CheckOuts: []TodayEntry{},
	}
	for _, r := range rs {
		st := lifecycle.Derive(r, now)
		switch st {
		case lifecycle.Upcoming:
			if lifecycle.SameDay(r.CheckInDate, now, loc) {
				v.CheckIns = append(v.CheckIns, entry(r, st, false, DefaultCheckInTime))
			}
		case lifecycle.InHouse:
			if lifecycle.SameDay(r.CheckOutDate, now, loc) {
				v.CheckOuts = append(v.CheckOuts, entry(r, st, false, DefaultCheckOutTime))
			}
		case lifecycle.CheckedOut:
			if r.CheckedOutAt != nil && lifecycle.SameDay(*r.CheckedOutAt, now, loc) {
				v.CheckOuts = append(v.CheckOuts, entry(r, st, true, r.CheckedOutAt.In(loc).Format("15:04")))
			}
		}
	}
	return v
}

func entry(r models.Reservation, st lifecycle.Status, done bool, clock string) TodayEntry {
	return TodayEntry{
		ID:          r.ID,
		GuestName:   r.GuestName,
		RoomName:    r.RoomTypeName,
		RoomNumber:  r.RoomNumber,
		AdultsCount: r.AdultsCount,
		KidsCount:   r.KidsCount,
		Status:      st,
		Done:        done,
		Time:        clock,
	}
}
