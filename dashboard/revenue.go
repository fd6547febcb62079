package dashboard

import (
	"sort"
	"time"

	"goodnight/lifecycle"
	"goodnight/models"
	"goodnight/occupancy"
)

// RevenueView is the monthly revenue chart for one year.
type RevenueView struct {
	Year        int         `json:"year"`
	Years       []int       `json:"years"` // years with data, newest first
	Monthly     [12]float64 `json:"monthly"`
	Nights      [12]int     `json:"nights"`
	Total       float64     `json:"total"`
	TotalNights int         `json:"totalNights"`
	// ThisMonth is set only when Year is the current year.
	ThisMonth *float64 `json:"thisMonth,omitempty"`
}

// Revenue buckets confirmed stays by check-in month. A year of 0 selects
// the current year when it has data, else the newest year with data.
func Revenue(rs []models.Reservation, catalog occupancy.Catalog, now time.Time, year int) RevenueView {
	loc := now.Location()
	revenue := map[int]*[12]float64{}
	nights := map[int]*[12]int{}
	for _, r := range rs {
		if lifecycle.Derive(r, now) == lifecycle.Pending {
			continue
		}
		amount, ok := StayValue(r, catalog)
		if !ok {
			continue
		}
		in := r.CheckInDate.In(loc)
		y, m := in.Year(), int(in.Month())-1
		if revenue[y] == nil {
			revenue[y] = &[12]float64{}
			nights[y] = &[12]int{}
		}
		revenue[y][m] += amount
		nights[y][m] += lifecycle.Nights(r.CheckInDate, r.CheckOutDate)
	}

	v := RevenueView{Years: make([]int, 0, len(revenue))}
	for y := range revenue {
		v.Years = append(v.Years, y)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(v.Years)))

	v.Year = year
	if v.Year == 0 {
		v.Year = now.Year()
		if _, ok := revenue[v.Year]; !ok && len(v.Years) > 0 {
			v.Year = v.Years[0]
		}
	}
	if m, ok := revenue[v.Year]; ok {
		for i := range m {
			v.Monthly[i] = roundCents(m[i])
			v.Total += m[i]
			v.Nights[i] = nights[v.Year][i]
			v.TotalNights += nights[v.Year][i]
		}
		v.Total = roundCents(v.Total)
	}
	if v.Year == now.Year() {
		cur := v.Monthly[now.Month()-1]
		v.ThisMonth = &cur
	}
	return v
}
