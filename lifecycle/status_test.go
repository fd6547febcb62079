package lifecycle

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goodnight/models"
)

var toronto = time.FixedZone("EST", -5*60*60)

// 15 Oct 2026, mid-afternoon hotel time.
var now = time.Date(2026, time.October, 15, 15, 30, 0, 0, toronto)

func days(n int) time.Time {
	return now.AddDate(0, 0, n)
}

func ptr(t time.Time) *time.Time { return &t }

func booked(in, out int) models.Reservation {
	return models.Reservation{
		ID:           "r1",
		Status:       models.StatusBooked,
		CheckInDate:  days(in),
		CheckOutDate: days(out),
	}
}

func TestDeriveBookedScenario(t *testing.T) {
	r := booked(-2, 2)
	assert.Equal(t, Upcoming, Derive(r, now), "arrival date passed but nobody checked the guest in")

	r.CheckedInAt = ptr(now)
	assert.Equal(t, InHouse, Derive(r, now))

	r.CheckOutDate = days(-1)
	assert.Equal(t, CheckedOut, Derive(r, now), "past check-out wins over check-in")

	r.CheckedInAt = nil
	assert.Equal(t, CheckedOut, Derive(r, now))
}

func TestDeriveExplicitCheckedOut(t *testing.T) {
	r := models.Reservation{
		Status:       models.StatusCheckedOut,
		CheckInDate:  days(5),
		CheckOutDate: days(9),
	}
	assert.Equal(t, CheckedOut, Derive(r, now))

	r.CheckedInAt = ptr(now)
	assert.Equal(t, CheckedOut, Derive(r, now))
}

func TestDeriveCheckOutDayIgnoresTimeOfDay(t *testing.T) {
	r := booked(-3, 0)
	r.CheckOutDate = time.Date(2026, time.October, 15, 0, 1, 0, 0, toronto)
	r.CheckedInAt = ptr(days(-3))

	late := time.Date(2026, time.October, 15, 23, 59, 0, 0, toronto)
	assert.Equal(t, InHouse, Derive(r, late), "leaving today is still in-house")

	nextMorning := time.Date(2026, time.October, 16, 0, 0, 0, 0, toronto)
	assert.Equal(t, CheckedOut, Derive(r, nextMorning))
}

func TestDeriveUsesLocationOfNow(t *testing.T) {
	// 02:00 UTC on the 15th is still the evening of the 14th in Toronto.
	r := booked(-3, 0)
	r.CheckOutDate = time.Date(2026, time.October, 15, 2, 0, 0, 0, time.UTC)

	eveningOf14 := time.Date(2026, time.October, 14, 22, 0, 0, 0, toronto)
	assert.Equal(t, Upcoming, Derive(r, eveningOf14))

	morningOf15 := time.Date(2026, time.October, 15, 10, 0, 0, 0, toronto)
	assert.Equal(t, CheckedOut, Derive(r, morningOf15))

	morningOf15UTC := morningOf15.UTC()
	assert.Equal(t, Upcoming, Derive(r, morningOf15UTC), "same instant, UTC calendar")
}

func TestDeriveUnknownStatusIsPending(t *testing.T) {
	for _, s := range []string{"", models.StatusPending, "cancelled", "Booked", "confirmed"} {
		r := booked(-2, 2)
		r.Status = s
		r.CheckedInAt = ptr(now)
		assert.Equal(t, Pending, Derive(r, now), "status %q", s)
	}
}

func TestDeriveMissingDatesReadAsEpoch(t *testing.T) {
	r := models.Reservation{Status: models.StatusBooked}
	assert.Equal(t, CheckedOut, Derive(r, now))

	r.CheckOutDate = models.Epoch
	r.CheckedInAt = ptr(now)
	assert.Equal(t, CheckedOut, Derive(r, now))

	assert.Equal(t, Pending, Derive(models.Reservation{}, now))
}

func TestCheckOutBeforeCheckInIsTolerated(t *testing.T) {
	r := booked(3, 1)
	assert.Equal(t, Upcoming, Derive(r, now))
	assert.Equal(t, 1, Nights(r.CheckInDate, r.CheckOutDate))
}

func TestNights(t *testing.T) {
	in := time.Date(2026, time.March, 1, 14, 0, 0, 0, time.UTC)
	assert.Equal(t, 1, Nights(in, in))
	assert.Equal(t, 1, Nights(in, in.Add(-48*time.Hour)))
	assert.Equal(t, 2, Nights(in, in.Add(48*time.Hour)))
	assert.Equal(t, 2, Nights(in, in.Add(49*time.Hour)), "clock time past check-in does not add a night")
	assert.Equal(t, 2, Nights(in, time.Date(2026, time.March, 3, 11, 0, 0, 0, time.UTC)))
	assert.Equal(t, 1, Nights(in, in.Add(time.Minute)))
}

func TestNightsAcrossDaylightSaving(t *testing.T) {
	loc, err := time.LoadLocation("America/Toronto")
	require.NoError(t, err)
	date := func(m time.Month, d int) time.Time { return time.Date(2026, m, d, 0, 0, 0, 0, loc) }

	// 25h fall-back night and 23h spring-forward night
	assert.Equal(t, 1, Nights(date(time.November, 1), date(time.November, 2)))
	assert.Equal(t, 1, Nights(date(time.March, 8), date(time.March, 9)))
	assert.Equal(t, 3, Nights(date(time.October, 31), date(time.November, 3)))

	// stored as UTC instants, as the database returns them
	assert.Equal(t, 1, Nights(date(time.November, 1).UTC(), date(time.November, 2).UTC()))
}

func TestStatusLabels(t *testing.T) {
	assert.Equal(t, "pending", Pending.String())
	assert.Equal(t, "upcoming", Upcoming.String())
	assert.Equal(t, "in-house", InHouse.String())
	assert.Equal(t, "checked-out", CheckedOut.String())

	for _, s := range All {
		got, ok := ParseStatus(s.String())
		require.True(t, ok)
		assert.Equal(t, s, got)
	}
	_, ok := ParseStatus("occupied")
	assert.False(t, ok)
}

func TestTally(t *testing.T) {
	inHouse := booked(-1, 2)
	inHouse.CheckedInAt = ptr(days(-1))
	rs := []models.Reservation{
		{Status: models.StatusPending},
		{},
		booked(1, 3),
		inHouse,
		booked(-5, -2),
		{Status: models.StatusCheckedOut},
	}
	c := Tally(rs, now)
	assert.Equal(t, Counts{Pending: 2, Upcoming: 1, InHouse: 1, CheckedOut: 2}, c)
	assert.Equal(t, len(rs), c.Total())
	assert.Equal(t, 2, c.Of(CheckedOut))
}

func TestCheckTransitions(t *testing.T) {
	pending := models.Reservation{ID: "p", Status: models.StatusPending}
	require.NoError(t, Check(Confirm, pending, now))
	assert.ErrorIs(t, Check(CheckIn, pending, now), ErrTransition)
	assert.ErrorIs(t, Check(CheckOut, pending, now), ErrTransition)

	upcoming := booked(0, 2)
	assert.ErrorIs(t, Check(Confirm, upcoming, now), ErrTransition)
	require.NoError(t, Check(CheckIn, upcoming, now))
	assert.ErrorIs(t, Check(CheckOut, upcoming, now), ErrTransition)

	inHouse := Apply(CheckIn, upcoming, now)
	assert.Equal(t, InHouse, Derive(inHouse, now))
	require.NoError(t, Check(CheckOut, inHouse, now))
	assert.ErrorIs(t, Check(CheckIn, inHouse, now), ErrTransition)

	out := Apply(CheckOut, inHouse, now)
	assert.Equal(t, CheckedOut, Derive(out, now))
	require.NotNil(t, out.CheckedOutAt)
	assert.ErrorIs(t, Check(CheckOut, out, now), ErrTransition)

	overstayed := booked(-4, -1)
	require.NoError(t, Check(CheckOut, overstayed, now), "auto-derived check-out can be closed")
}

func TestFieldsMatchApply(t *testing.T) {
	f := Fields(CheckOut, now)
	assert.Equal(t, models.StatusCheckedOut, f["status"])
	assert.Equal(t, now, f["checkedOutAt"])

	f = Fields(CheckIn, now)
	_, setsStatus := f["status"]
	assert.False(t, setsStatus)
	assert.Nil(t, Fields(Action("refund"), now))
}
