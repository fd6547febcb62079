// Package admin serves the dashboard panels. Every panel is recomputed from
// the full reservation list on each request.
package admin

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"goodnight/dashboard"
	"goodnight/lifecycle"
	"goodnight/metrics"
	"goodnight/models"
	"goodnight/occupancy"
	"goodnight/utils"

	"github.com/julienschmidt/httprouter"
)

// Reservations lists every stored reservation.
type Reservations interface {
	List(ctx context.Context) ([]models.Reservation, error)
}

// Rooms lists the room catalog.
type Rooms interface {
	RoomTypes(ctx context.Context) ([]models.RoomType, error)
}

type Handlers struct {
	Reservations Reservations
	Rooms        Rooms
	Now          func() time.Time
}

// load fetches what every panel needs. It writes the error response itself.
func (h *Handlers) load(w http.ResponseWriter, r *http.Request) ([]models.Reservation, occupancy.Catalog, time.Time, bool) {
	ctx := r.Context()
	rs, err := h.Reservations.List(ctx)
	if err != nil {
		log.Printf("[Admin] list reservations: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to load reservations")
		return nil, occupancy.Catalog{}, time.Time{}, false
	}
	types, err := h.Rooms.RoomTypes(ctx)
	if err != nil {
		log.Printf("[Admin] list rooms: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to load rooms")
		return nil, occupancy.Catalog{}, time.Time{}, false
	}
	now := time.Now()
	if h.Now != nil {
		now = h.Now()
	}
	return rs, occupancy.NewCatalog(types), now, true
}

// Board returns the room board. ?state=occupied,free narrows the flat slot
// list returned alongside the groups.
func (h *Handlers) Board(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	rs, catalog, now, ok := h.load(w, r)
	if !ok {
		return
	}

	var states []occupancy.State
	if raw := r.URL.Query().Get("state"); raw != "" {
		for _, label := range strings.Split(raw, ",") {
			st, ok := occupancy.ParseState(strings.TrimSpace(label))
			if !ok {
				utils.RespondWithError(w, http.StatusBadRequest, "Unknown state "+label)
				return
			}
			states = append(states, st)
		}
	}

	board := catalog.Board(rs, now)
	violations := board.Violations()
	for _, v := range violations {
		log.Printf("[Board] %s has more than one guest in house: %s plus %v", v.Label(), v.Current.ID, v.Conflicts)
	}
	metrics.ObserveBoard(board)

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"board":      board,
		"slots":      board.Slots(states...),
		"vacant":     board.Vacant(),
		"violations": violations,
		"asOf":       now,
	})
}

func (h *Handlers) Stats(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	rs, catalog, now, ok := h.load(w, r)
	if !ok {
		return
	}
	stats := dashboard.Stats(rs, catalog, now)
	metrics.ObserveCounts(stats.Counts)
	utils.RespondWithJSON(w, http.StatusOK, stats)
}

func (h *Handlers) Today(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	rs, _, now, ok := h.load(w, r)
	if !ok {
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dashboard.Today(rs, now))
}

// Revenue returns the monthly chart for ?year=, defaulting to the current
// year when it has data.
func (h *Handlers) Revenue(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	rs, catalog, now, ok := h.load(w, r)
	if !ok {
		return
	}
	year := utils.QueryInt(r, "year", 0)
	if year < 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid year")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dashboard.Revenue(rs, catalog, now, year))
}

// Recent is the reservation table, newest first.
func (h *Handlers) Recent(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	rs, _, now, ok := h.load(w, r)
	if !ok {
		return
	}
	rows := dashboard.Recent(rs, now, utils.ParseLimit(r, 10, 500))
	metrics.ObserveCounts(lifecycle.Tally(rs, now))
	utils.RespondWithJSON(w, http.StatusOK, rows)
}
