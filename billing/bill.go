// Package billing prices a stay and renders its receipt.
package billing

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"goodnight/lifecycle"
	"goodnight/models"
)

// HST is the Ontario harmonized sales tax applied to room charges.
const HST = 0.13

// Bill is the priced summary of one reservation.
type Bill struct {
	ReservationID string    `json:"reservationId"`
	Guest         string    `json:"guest"`
	Email         string    `json:"email"`
	RoomName      string    `json:"roomName"`
	RoomNumber    string    `json:"roomNumber"`
	CheckIn       time.Time `json:"checkIn"`
	CheckOut      time.Time `json:"checkOut"`
	Nights        int       `json:"nights"`
	Rate          float64   `json:"rate"`
	Subtotal      float64   `json:"subtotal"`
	TaxRate       float64   `json:"taxRate"`
	Tax           float64   `json:"tax"`
	Total         float64   `json:"total"`
}

// Compute prices r at the nightly rate of rt. A negative tax rate is
// treated as zero.
func Compute(r models.Reservation, rt models.RoomType, taxRate float64) Bill {
	if taxRate < 0 {
		taxRate = 0
	}
	nights := lifecycle.Nights(r.CheckInDate, r.CheckOutDate)
	subtotal := cents(rt.Price * float64(nights))
	tax := cents(subtotal * taxRate)

	b := Bill{
		ReservationID: r.ID,
		Guest:         r.GuestName,
		Email:         r.Email,
		RoomName:      rt.Name,
		RoomNumber:    "N/A",
		CheckIn:       r.CheckInDate,
		CheckOut:      r.CheckOutDate,
		Nights:        nights,
		Rate:          rt.Price,
		Subtotal:      subtotal,
		TaxRate:       taxRate,
		Tax:           tax,
		Total:         cents(subtotal + tax),
	}
	if b.RoomName == "" {
		b.RoomName = r.RoomTypeName
	}
	if r.HasRoomNumber() {
		b.RoomNumber = strconv.Itoa(r.RoomNumber)
	}
	return b
}

// TemplateParams are the fields the receipt email template expects.
func (b Bill) TemplateParams() map[string]any {
	return map[string]any{
		"guest":       b.Guest,
		"room_name":   b.RoomName,
		"room_number": b.RoomNumber,
		"check_in":    b.CheckIn.Format(dateLayout),
		"check_out":   b.CheckOut.Format(dateLayout),
		"nights":      b.Nights,
		"rate":        Money(b.Rate),
		"subtotal":    Money(b.Subtotal),
		"hst":         Money(b.Tax),
		"total":       Money(b.Total),
		"to_email":    b.Email,
	}
}

const dateLayout = "Mon Jan 02 2006"

// Money formats an amount as dollars and cents.
func Money(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

func cents(v float64) float64 {
	return math.Round(v*100) / 100
}
