package occupancy

import (
	"fmt"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goodnight/models"
)

var now = time.Date(2026, time.October, 15, 12, 0, 0, 0, time.UTC)

func day(n int) time.Time { return now.AddDate(0, 0, n) }

func ptr(t time.Time) *time.Time { return &t }

func res(id, typeID string, number int, status string, in, out int, checkedIn bool) models.Reservation {
	r := models.Reservation{
		ID:           id,
		RoomTypeID:   typeID,
		RoomNumber:   number,
		Status:       status,
		CheckInDate:  day(in),
		CheckOutDate: day(out),
	}
	if checkedIn {
		r.CheckedInAt = ptr(day(in))
	}
	return r
}

func catalog() Catalog {
	return NewCatalog(models.DefaultRoomTypes())
}

func slot(c Catalog, typeID string, number int) Slot {
	for _, s := range c.Slots {
		if s.TypeID == typeID && s.Number == number {
			return s
		}
	}
	panic(fmt.Sprintf("no slot %s/%d", typeID, number))
}

func TestDefaultCatalog(t *testing.T) {
	c := catalog()
	assert.Equal(t, 20, c.Total())
	assert.Len(t, c.Types, 4)
	assert.Equal(t, Slot{TypeID: "queen-bed", TypeName: "Queen Bed", Number: 101, Price: 129}, c.Slots[0])
	assert.Equal(t, "King Bed #303", slot(c, "king-bed", 303).Label())
}

func TestSlotForMatching(t *testing.T) {
	c := catalog()

	s, ok := c.SlotFor(res("a", "king-bed", 303, models.StatusBooked, 0, 2, false))
	require.True(t, ok)
	assert.Equal(t, 303, s.Number)

	s, ok = c.SlotFor(res("b", "king-bed", 0, models.StatusBooked, 0, 2, false))
	require.True(t, ok)
	assert.Equal(t, 301, s.Number, "unnumbered reservations go to the first room of the type")

	_, ok = c.SlotFor(res("c", "king-bed", 999, models.StatusBooked, 0, 2, false))
	assert.False(t, ok)

	_, ok = c.SlotFor(res("d", "penthouse", 1, models.StatusBooked, 0, 2, false))
	assert.False(t, ok)

	legacy := models.Reservation{RoomTypeID: "firestore-doc-id", RoomTypeName: "Kitchenette"}
	s, ok = c.SlotFor(legacy)
	require.True(t, ok)
	assert.Equal(t, 401, s.Number)
}

func TestSlotStatePrecedence(t *testing.T) {
	c := catalog()
	s := slot(c, "queen-bed", 102)

	v := c.SlotState(s, nil, now)
	assert.Equal(t, Free, v.State)
	assert.Nil(t, v.Current)

	pending := res("p", "queen-bed", 102, models.StatusPending, 3, 5, false)
	v = c.SlotState(s, []models.Reservation{pending}, now)
	assert.Equal(t, Pending, v.State)
	assert.Equal(t, "p", v.Current.ID)

	later := res("later", "queen-bed", 102, models.StatusBooked, 9, 11, false)
	sooner := res("sooner", "queen-bed", 102, models.StatusBooked, 2, 4, false)
	v = c.SlotState(s, []models.Reservation{pending, later, sooner}, now)
	assert.Equal(t, Booked, v.State)
	assert.Equal(t, "sooner", v.Current.ID)
	assert.Equal(t, "sooner", v.Next.ID)

	guest := res("guest", "queen-bed", 102, models.StatusBooked, -1, 1, true)
	v = c.SlotState(s, []models.Reservation{pending, later, guest, sooner}, now)
	assert.Equal(t, Occupied, v.State)
	assert.Equal(t, "guest", v.Current.ID)
	assert.Equal(t, "sooner", v.Next.ID)
	assert.Empty(t, v.Conflicts)
}

func TestArrivalWithoutCheckInDoesNotOccupy(t *testing.T) {
	c := catalog()
	s := slot(c, "queen-bed", 101)
	arrived := res("a", "queen-bed", 101, models.StatusBooked, -2, 2, false)

	v := c.SlotState(s, []models.Reservation{arrived}, now)
	assert.Equal(t, Booked, v.State)
}

func TestCheckedOutDoesNotHoldSlot(t *testing.T) {
	c := catalog()
	s := slot(c, "two-queen-beds", 204)
	rs := []models.Reservation{
		res("gone", "two-queen-beds", 204, models.StatusCheckedOut, -3, 2, true),
		res("ended", "two-queen-beds", 204, models.StatusBooked, -5, -1, true),
	}
	v := c.SlotState(s, rs, now)
	assert.Equal(t, Free, v.State)
}

func TestTieOnCheckInKeepsInputOrder(t *testing.T) {
	c := catalog()
	s := slot(c, "king-bed", 302)
	rs := []models.Reservation{
		res("first", "king-bed", 302, models.StatusBooked, 4, 6, false),
		res("second", "king-bed", 302, models.StatusBooked, 4, 6, false),
	}
	v := c.SlotState(s, rs, now)
	assert.Equal(t, "first", v.Current.ID)
}

func TestDoubleInHouseIsReported(t *testing.T) {
	c := catalog()
	rs := []models.Reservation{
		res("one", "kitchenette", 402, models.StatusBooked, -1, 3, true),
		res("two", "kitchenette", 402, models.StatusBooked, -2, 1, true),
		res("three", "kitchenette", 402, models.StatusBooked, 0, 1, true),
	}
	b := c.Board(rs, now)
	assert.Equal(t, 1, b.Occupied)

	bad := b.Violations()
	require.Len(t, bad, 1)
	assert.Equal(t, 402, bad[0].Number)
	assert.Equal(t, "one", bad[0].Current.ID)
	assert.Equal(t, []string{"two", "three"}, bad[0].Conflicts)
}

func TestBoardTotalsAndUnplaced(t *testing.T) {
	c := catalog()
	rs := []models.Reservation{
		res("in", "queen-bed", 101, models.StatusBooked, -1, 2, true),
		res("up", "queen-bed", 103, models.StatusBooked, 1, 2, false),
		res("req", "king-bed", 0, "", 1, 2, false),
		res("lost", "penthouse", 1, models.StatusBooked, 1, 2, false),
		res("lost-old", "penthouse", 1, models.StatusCheckedOut, -9, -7, false),
	}
	b := c.Board(rs, now)

	assert.Equal(t, 20, b.Total)
	assert.Equal(t, 1, b.Occupied)
	assert.Equal(t, 1, b.Booked)
	assert.Equal(t, 1, b.Pending)
	assert.Equal(t, 17, b.Free)
	assert.Equal(t, 19, b.Vacant())
	assert.Equal(t, []string{"lost"}, b.Unplaced)

	require.Len(t, b.Groups, 4)
	queen := b.Groups[0]
	assert.Equal(t, 1, queen.Occupied)
	assert.Equal(t, 20, queen.Percent)
	assert.Equal(t, Pending, b.Groups[2].Slots[0].State, "king-bed request falls back to 301")

	assert.Len(t, b.Slots(Occupied, Booked), 2)
	assert.Len(t, b.Slots(), 20)
}

func TestLegacyTypeWithoutSlots(t *testing.T) {
	c := NewCatalog([]models.RoomType{{ID: "suite", Name: "Honeymoon Suite", Price: 300}})
	require.Equal(t, 1, c.Total())
	assert.Equal(t, "Honeymoon Suite", c.Slots[0].Label())

	b := c.Board([]models.Reservation{res("x", "suite", 0, models.StatusBooked, -1, 1, true)}, now)
	assert.Equal(t, 1, b.Occupied)
}

func TestBoardAgreesWithSlotState(t *testing.T) {
	c := catalog()
	rs := []models.Reservation{
		res("1", "queen-bed", 0, models.StatusBooked, -1, 2, true),
		res("2", "queen-bed", 101, models.StatusPending, 1, 2, false),
		res("3", "king-bed", 305, models.StatusBooked, 3, 5, false),
		res("4", "kitchenette", 401, models.StatusBooked, -8, -3, true),
	}
	b := c.Board(rs, now)
	for _, got := range b.Slots() {
		want := c.SlotState(got.Slot, rs, now)
		assert.Equal(t, want.State, got.State, got.Label())
	}
}

func TestAddingInHouseOnlyChangesThatSlot(t *testing.T) {
	c := catalog()
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	statuses := gen.OneConstOf(models.StatusPending, models.StatusBooked, models.StatusCheckedOut, "")

	properties.Property("in-house arrival occupies its slot and nothing else", prop.ForAll(
		func(slotIdxs []int, sts []string, offsets []int, target int) bool {
			var rs []models.Reservation
			for i := 0; i < len(slotIdxs) && i < len(sts) && i < len(offsets); i++ {
				s := c.Slots[slotIdxs[i]]
				rs = append(rs, res(fmt.Sprint(i), s.TypeID, s.Number, sts[i], offsets[i], offsets[i]+2, i%3 == 0))
			}
			before := c.Board(rs, now)
			ts := c.Slots[target]
			prev := c.SlotState(ts, rs, now)
			if prev.State != Free && prev.State != Pending {
				return true
			}

			after := c.Board(append(rs, res("new", ts.TypeID, ts.Number, models.StatusBooked, -1, 1, true)), now)
			b, a := before.Slots(), after.Slots()
			for i := range b {
				if b[i].Slot == ts {
					if a[i].State != Occupied {
						return false
					}
				} else if a[i].State != b[i].State {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, 19)),
		gen.SliceOf(statuses),
		gen.SliceOf(gen.IntRange(-6, 6)),
		gen.IntRange(0, 19),
	))

	properties.TestingRun(t)
}
