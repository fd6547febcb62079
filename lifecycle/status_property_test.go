package lifecycle

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"goodnight/models"
)

func reservation(status string, inOffset, outOffset int, checkedIn bool) models.Reservation {
	r := models.Reservation{
		Status:       status,
		CheckInDate:  days(inOffset),
		CheckOutDate: days(outOffset),
	}
	if checkedIn {
		r.CheckedInAt = ptr(days(inOffset))
	}
	return r
}

func statusGen() gopter.Gen {
	return gen.OneConstOf(models.StatusPending, models.StatusBooked, models.StatusCheckedOut, "", "cancelled", "BOOKED")
}

func TestDeriveProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 300
	properties := gopter.NewProperties(parameters)

	properties.Property("checked-out flag always wins", prop.ForAll(
		func(in, out int, checkedIn bool) bool {
			return Derive(reservation(models.StatusCheckedOut, in, out, checkedIn), now) == CheckedOut
		},
		gen.IntRange(-60, 60), gen.IntRange(-60, 60), gen.Bool(),
	))

	properties.Property("booked with check-out before today is checked-out", prop.ForAll(
		func(in, out int, checkedIn bool) bool {
			return Derive(reservation(models.StatusBooked, in, out, checkedIn), now) == CheckedOut
		},
		gen.IntRange(-60, 60), gen.IntRange(-60, -1), gen.Bool(),
	))

	properties.Property("booked and checked in, not yet past check-out, is in-house", prop.ForAll(
		func(in, out int) bool {
			return Derive(reservation(models.StatusBooked, in, out, true), now) == InHouse
		},
		gen.IntRange(-60, 60), gen.IntRange(0, 60),
	))

	properties.Property("booked without check-in is upcoming even after arrival day", prop.ForAll(
		func(in, out int) bool {
			return Derive(reservation(models.StatusBooked, in, out, false), now) == Upcoming
		},
		gen.IntRange(-60, 0), gen.IntRange(0, 60),
	))

	properties.Property("any other status is pending", prop.ForAll(
		func(status string, in, out int, checkedIn bool) bool {
			if status == models.StatusBooked || status == models.StatusCheckedOut {
				return true
			}
			return Derive(reservation(status, in, out, checkedIn), now) == Pending
		},
		gen.AnyString(), gen.IntRange(-60, 60), gen.IntRange(-60, 60), gen.Bool(),
	))

	properties.Property("derive is deterministic", prop.ForAll(
		func(status string, in, out int, checkedIn bool, hour int) bool {
			at := now.Add(time.Duration(hour) * time.Hour)
			r := reservation(status, in, out, checkedIn)
			return Derive(r, at) == Derive(r, at)
		},
		statusGen(), gen.IntRange(-60, 60), gen.IntRange(-60, 60), gen.Bool(), gen.IntRange(-48, 48),
	))

	properties.Property("tally buckets add up", prop.ForAll(
		func(statuses []string) bool {
			rs := make([]models.Reservation, len(statuses))
			for i, s := range statuses {
				rs[i] = reservation(s, -i, i-3, i%2 == 0)
			}
			return Tally(rs, now).Total() == len(rs)
		},
		gen.SliceOf(statusGen()),
	))

	properties.TestingRun(t)
}
