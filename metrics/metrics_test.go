package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"goodnight/lifecycle"
	"goodnight/occupancy"
)

func TestObserveCounts(t *testing.T) {
	ObserveCounts(lifecycle.Counts{Pending: 3, Upcoming: 2, InHouse: 4, CheckedOut: 9})
	assert.Equal(t, 3.0, testutil.ToFloat64(Reservations.WithLabelValues("pending")))
	assert.Equal(t, 4.0, testutil.ToFloat64(Reservations.WithLabelValues("in-house")))
	assert.Equal(t, 9.0, testutil.ToFloat64(Reservations.WithLabelValues("checked-out")))
}

func TestObserveBoard(t *testing.T) {
	b := occupancy.BoardView{
		Total: 20, Occupied: 5, Booked: 4, Pending: 1, Free: 10,
		Groups: []occupancy.TypeGroup{{Slots: []occupancy.SlotView{{Conflicts: []string{"x"}}}}},
	}
	ObserveBoard(b)
	assert.Equal(t, 5.0, testutil.ToFloat64(Rooms.WithLabelValues("occupied")))
	assert.Equal(t, 10.0, testutil.ToFloat64(Rooms.WithLabelValues("free")))
	assert.Equal(t, 1.0, testutil.ToFloat64(BoardViolations))
}

func TestObserveRequestAndHandler(t *testing.T) {
	before := testutil.ToFloat64(HTTPRequests.WithLabelValues("GET", "200"))
	ObserveRequest("GET", 200, 3*time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(HTTPRequests.WithLabelValues("GET", "200")))

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "goodnight_http_requests_total")
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, "ok", Outcome(nil))
	assert.Equal(t, "error", Outcome(errors.New("x")))
}
