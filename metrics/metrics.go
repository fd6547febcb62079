package metrics

import (
	"net/http"
	"strconv"
	"time"

	"goodnight/lifecycle"
	"goodnight/occupancy"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	Reservations = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "goodnight_reservations",
		Help: "Reservations by effective status at the last dashboard read",
	}, []string{"status"})

	Rooms = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "goodnight_rooms",
		Help: "Rooms by board state at the last board read",
	}, []string{"state"})

	BoardViolations = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "goodnight_board_violations",
		Help: "Rooms with more than one in-house reservation",
	})

	Transitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "goodnight_reservation_actions_total",
		Help: "Admin lifecycle actions by outcome",
	}, []string{"action", "outcome"})

	MailsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "goodnight_mails_total",
		Help: "Outgoing mails by template and outcome",
	}, []string{"template", "outcome"})

	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "goodnight_http_requests_total",
		Help: "HTTP requests by method and status code",
	}, []string{"method", "code"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "goodnight_http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method"})
)

// ObserveCounts records a status tally.
func ObserveCounts(c lifecycle.Counts) {
	for _, s := range lifecycle.All {
		Reservations.WithLabelValues(s.String()).Set(float64(c.Of(s)))
	}
}

// ObserveBoard records slot states and integrity violations.
func ObserveBoard(b occupancy.BoardView) {
	Rooms.WithLabelValues(occupancy.Occupied.String()).Set(float64(b.Occupied))
	Rooms.WithLabelValues(occupancy.Booked.String()).Set(float64(b.Booked))
	Rooms.WithLabelValues(occupancy.Pending.String()).Set(float64(b.Pending))
	Rooms.WithLabelValues(occupancy.Free.String()).Set(float64(b.Free))
	BoardViolations.Set(float64(len(b.Violations())))
}

// Outcome labels an error as ok or error.
func Outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// ObserveRequest records one served request.
func ObserveRequest(method string, code int, d time.Duration) {
	HTTPRequests.WithLabelValues(method, strconv.Itoa(code)).Inc()
	HTTPDuration.WithLabelValues(method).Observe(d.Seconds())
}

func Handler() http.Handler {
	return promhttp.Handler()
}
