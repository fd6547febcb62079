// Package dashboard builds the admin panels from a snapshot of reservations.
// Every function here takes now explicitly and reads status only through
// lifecycle.Derive and occupancy.Board.
package dashboard

import (
	"math"
	"time"

	"goodnight/lifecycle"
	"goodnight/models"
	"goodnight/occupancy"
)

// StatsView backs the four stat cards.
type StatsView struct {
	TotalReservations int              `json:"totalReservations"`
	Counts            lifecycle.Counts `json:"counts"`
	OccupiedRooms     int              `json:"occupiedRooms"`
	TotalRooms        int              `json:"totalRooms"`
	VacantRooms       int              `json:"vacantRooms"`
	RevenueThisMonth  float64          `json:"revenueThisMonth"`
	RevenueLastMonth  float64          `json:"revenueLastMonth"`
	// RevenueDelta is the month over month change in percent, nil when
	// last month had no revenue.
	RevenueDelta      *float64 `json:"revenueDelta"`
	BookingsThisMonth int      `json:"bookingsThisMonth"`
}

// Stats summarises rs as of now. Revenue is attributed to the month the
// reservation was created and counts every stay past the pending stage.
func Stats(rs []models.Reservation, catalog occupancy.Catalog, now time.Time) StatsView {
	board := catalog.Board(rs, now)
	v := StatsView{
		TotalReservations: len(rs),
		Counts:            lifecycle.Tally(rs, now),
		OccupiedRooms:     board.Occupied,
		TotalRooms:        board.Total,
		VacantRooms:       board.Vacant(),
	}

	thisMonth := monthStart(now)
	lastMonth := thisMonth.AddDate(0, -1, 0)
	for _, r := range rs {
		created := r.CreatedAt.In(now.Location())
		if !created.Before(thisMonth) {
			v.BookingsThisMonth++
		}
		if lifecycle.Derive(r, now) == lifecycle.Pending {
			continue
		}
		amount, ok := StayValue(r, catalog)
		if !ok {
			continue
		}
		switch {
		case !created.Before(thisMonth):
			v.RevenueThisMonth += amount
		case !created.Before(lastMonth):
			v.RevenueLastMonth += amount
		}
	}
	v.RevenueThisMonth = roundCents(v.RevenueThisMonth)
	v.RevenueLastMonth = roundCents(v.RevenueLastMonth)
	if v.RevenueLastMonth > 0 {
		d := math.Round((v.RevenueThisMonth-v.RevenueLastMonth)/v.RevenueLastMonth*1000) / 10
		v.RevenueDelta = &d
	}
	return v
}

// StayValue is the pre-tax price of a reservation: nightly rate times nights.
// It reports false when the room type is not in the catalog.
func StayValue(r models.Reservation, catalog occupancy.Catalog) (float64, bool) {
	rt, ok := catalog.Type(r.RoomTypeID, r.RoomTypeName)
	if !ok {
		return 0, false
	}
	return rt.Price * float64(lifecycle.Nights(r.CheckInDate, r.CheckOutDate)), true
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
