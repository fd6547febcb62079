package dashboard

import (
	"sort"
	"time"

	"goodnight/lifecycle"
	"goodnight/models"
)

// Row is a reservation as listed in the admin table.
type Row struct {
	models.Reservation
	EffectiveStatus lifecycle.Status `json:"effectiveStatus"`
	Nights          int              `json:"nights"`
}

// RowOf derives the effective status of one reservation.
func RowOf(r models.Reservation, now time.Time) Row {
	return Row{
		Reservation:     r,
		EffectiveStatus: lifecycle.Derive(r, now),
		Nights:          lifecycle.Nights(r.CheckInDate, r.CheckOutDate),
	}
}

// Rows derives the effective status of every reservation, keeping order.
func Rows(rs []models.Reservation, now time.Time) []Row {
	out := make([]Row, 0, len(rs))
	for _, r := range rs {
		out = append(out, RowOf(r, now))
	}
	return out
}

// Recent returns at most limit rows, newest first. A limit of 0 or less
// returns every row.
func Recent(rs []models.Reservation, now time.Time, limit int) []Row {
	sorted := make([]models.Reservation, len(rs))
	copy(sorted, rs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	if limit > 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return Rows(sorted, now)
}

// Filter keeps rows in one of the given states.
func Filter(rows []Row, states ...lifecycle.Status) []Row {
	if len(states) == 0 {
		return rows
	}
	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		for _, s := range states {
			if r.EffectiveStatus == s {
				out = append(out, r)
				break
			}
		}
	}
	return out
}
