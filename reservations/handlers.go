package reservations

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"goodnight/billing"
	"goodnight/dashboard"
	"goodnight/lifecycle"
	"goodnight/mailer"
	"goodnight/metrics"
	"goodnight/models"
	"goodnight/occupancy"
	"goodnight/utils"

	"github.com/julienschmidt/httprouter"
)

// RoomSource lists the room catalog.
type RoomSource interface {
	RoomTypes(ctx context.Context) ([]models.RoomType, error)
}

// Publisher announces reservation changes.
type Publisher interface {
	Emit(ctx context.Context, ev models.ReservationEvent)
}

type Handlers struct {
	Store     Store
	Rooms     RoomSource
	Events    Publisher
	Mailer    mailer.Sender
	Signer    billing.Signer
	TaxRate   float64
	HotelName string
	Now       func() time.Time
}

func (h *Handlers) now() time.Time {
	if h.Now == nil {
		return time.Now()
	}
	return h.Now()
}

func (h *Handlers) catalog(ctx context.Context) (occupancy.Catalog, error) {
	types, err := h.Rooms.RoomTypes(ctx)
	if err != nil {
		return occupancy.Catalog{}, err
	}
	return occupancy.NewCatalog(types), nil
}

func (h *Handlers) emit(ctx context.Context, action, id string) {
	if h.Events != nil {
		h.Events.Emit(ctx, models.ReservationEvent{Type: "reservations", Action: action, ReservationID: id})
	}
}

// respondStoreError maps store errors to a response.
func respondStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrNotFound) {
		utils.RespondWithError(w, http.StatusNotFound, "Reservation not found")
		return
	}
	log.Printf("[Reservations] %v", err)
	utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
}

func respondInvalid(w http.ResponseWriter, err error) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		utils.RespondWithJSON(w, http.StatusBadRequest, utils.M{"error": "Invalid reservation", "fields": ve.Fields})
		return
	}
	utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON")
}

// create validates a booking form and stores it with the given status.
func (h *Handlers) create(w http.ResponseWriter, r *http.Request, status string, allowRoomNumber bool) {
	var in models.ReservationInput
	if err := utils.DecodeJSON(r, &in); err != nil {
		respondInvalid(w, err)
		return
	}
	if !allowRoomNumber {
		in.RoomNumber = 0
	}

	ctx := r.Context()
	catalog, err := h.catalog(ctx)
	if err != nil {
		log.Printf("[Reservations] load rooms: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}
	now := h.now()
	d, err := validate(in, catalog, now.Location())
	if err != nil {
		respondInvalid(w, err)
		return
	}

	res := d.reservation(utils.GenerateID(), status, now)
	if err := h.Store.Insert(ctx, res); err != nil {
		respondStoreError(w, err)
		return
	}
	log.Printf("[Reservations] created %s (%s) for %s", res.ID, status, res.RoomTypeName)
	h.emit(ctx, "create", res.ID)
	utils.RespondWithJSON(w, http.StatusCreated, dashboard.RowOf(res, now))
}

// Create is the public booking form. Requests wait for admin confirmation.
func (h *Handlers) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h.create(w, r, models.StatusPending, false)
}

// AdminCreate books a reservation directly.
func (h *Handlers) AdminCreate(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h.create(w, r, models.StatusBooked, true)
}

// List returns every reservation with its effective status, newest first,
// optionally filtered by ?status=.
func (h *Handlers) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var filter []lifecycle.Status
	if label := r.URL.Query().Get("status"); label != "" {
		st, ok := lifecycle.ParseStatus(label)
		if !ok {
			utils.RespondWithError(w, http.StatusBadRequest, "Unknown status "+label)
			return
		}
		filter = append(filter, st)
	}

	rs, err := h.Store.List(r.Context())
	if err != nil {
		respondStoreError(w, err)
		return
	}
	rows := dashboard.Filter(dashboard.Rows(rs, h.now()), filter...)
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"reservations": rows, "count": len(rows)})
}

func (h *Handlers) Get(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	res, err := h.Store.Get(r.Context(), ps.ByName("id"))
	if err != nil {
		respondStoreError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dashboard.RowOf(res, h.now()))
}

// Update replaces the form fields of a reservation and marks it booked.
func (h *Handlers) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	var in models.ReservationInput
	if err := utils.DecodeJSON(r, &in); err != nil {
		respondInvalid(w, err)
		return
	}

	ctx := r.Context()
	catalog, err := h.catalog(ctx)
	if err != nil {
		log.Printf("[Reservations] load rooms: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}
	now := h.now()
	d, err := validate(in, catalog, now.Location())
	if err != nil {
		respondInvalid(w, err)
		return
	}
	current, err := h.Store.Get(ctx, id)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	reopen := current.Status == models.StatusCheckedOut
	if err := h.Store.Update(ctx, id, d.fields(now, reopen)); err != nil {
		respondStoreError(w, err)
		return
	}
	h.emit(ctx, "update", id)

	res, err := h.Store.Get(ctx, id)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dashboard.RowOf(res, now))
}

// Transition returns the handler for one lifecycle action. An action that
// does not apply to the reservation's current state answers 409.
func (h *Handlers) Transition(action lifecycle.Action) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		id := ps.ByName("id")
		ctx := r.Context()
		res, err := h.Store.Get(ctx, id)
		if err != nil {
			respondStoreError(w, err)
			return
		}

		now := h.now()
		if err := lifecycle.Check(action, res, now); err != nil {
			metrics.Transitions.WithLabelValues(string(action), "rejected").Inc()
			utils.RespondWithJSON(w, http.StatusConflict, utils.M{
				"error":  err.Error(),
				"status": lifecycle.Derive(res, now),
			})
			return
		}
		if err := h.Store.Update(ctx, id, lifecycle.Fields(action, now)); err != nil {
			metrics.Transitions.WithLabelValues(string(action), "error").Inc()
			respondStoreError(w, err)
			return
		}
		metrics.Transitions.WithLabelValues(string(action), "ok").Inc()
		log.Printf("[Reservations] %s %s", action, id)
		h.emit(ctx, string(action), id)

		res = lifecycle.Apply(action, res, now)
		utils.RespondWithJSON(w, http.StatusOK, dashboard.RowOf(res, now))
	}
}

func (h *Handlers) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	if err := h.Store.Delete(r.Context(), id); err != nil {
		respondStoreError(w, err)
		return
	}
	log.Printf("[Reservations] deleted %s", id)
	h.emit(r.Context(), "delete", id)
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"deleted": id})
}

// bill loads a reservation and prices it.
func (h *Handlers) bill(ctx context.Context, id string) (billing.Bill, error) {
	res, err := h.Store.Get(ctx, id)
	if err != nil {
		return billing.Bill{}, err
	}
	catalog, err := h.catalog(ctx)
	if err != nil {
		return billing.Bill{}, err
	}
	rt, ok := catalog.Type(res.RoomTypeID, res.RoomTypeName)
	if !ok {
		return billing.Bill{}, fmt.Errorf("reservation %s: %w", id, errUnknownRoom)
	}
	return billing.Compute(res, rt, h.TaxRate), nil
}

var errUnknownRoom = errors.New("room type no longer exists")

func (h *Handlers) respondBillError(w http.ResponseWriter, err error) {
	if errors.Is(err, errUnknownRoom) {
		utils.RespondWithError(w, http.StatusUnprocessableEntity, "Room type no longer exists")
		return
	}
	respondStoreError(w, err)
}

func (h *Handlers) Bill(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	b, err := h.bill(r.Context(), ps.ByName("id"))
	if err != nil {
		h.respondBillError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, b)
}

// SendBill emails the bill to the guest.
func (h *Handlers) SendBill(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	b, err := h.bill(r.Context(), ps.ByName("id"))
	if err != nil {
		h.respondBillError(w, err)
		return
	}
	if b.Email == "" {
		utils.RespondWithError(w, http.StatusUnprocessableEntity, "Reservation has no email address")
		return
	}

	err = h.Mailer.Send(r.Context(), mailer.Message{
		To:       b.Email,
		Subject:  fmt.Sprintf("Your receipt from %s", h.HotelName),
		Body:     billText(b),
		Template: mailer.TemplateBill,
		Params:   b.TemplateParams(),
	})
	metrics.MailsSent.WithLabelValues(mailer.TemplateBill, metrics.Outcome(err)).Inc()
	if err != nil {
		log.Printf("[Reservations] send bill %s: %v", b.ReservationID, err)
		utils.RespondWithError(w, http.StatusBadGateway, "Send failed")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"sent": true, "to": b.Email, "total": b.Total})
}

func billText(b billing.Bill) string {
	return fmt.Sprintf("Guest: %s\nRoom: %s (%s)\nStay: %s to %s, %d night(s) at %s\nSubtotal: %s\nHST: %s\nTotal: %s\n",
		b.Guest, b.RoomName, b.RoomNumber,
		b.CheckIn.Format("Mon Jan 02 2006"), b.CheckOut.Format("Mon Jan 02 2006"), b.Nights, billing.Money(b.Rate),
		billing.Money(b.Subtotal), billing.Money(b.Tax), billing.Money(b.Total))
}

// Receipt renders the bill as a PDF.
func (h *Handlers) Receipt(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	b, err := h.bill(r.Context(), ps.ByName("id"))
	if err != nil {
		h.respondBillError(w, err)
		return
	}
	pdf, err := billing.ReceiptPDF(b, h.Signer, h.HotelName, h.now())
	if err != nil {
		log.Printf("[Reservations] receipt %s: %v", b.ReservationID, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate PDF")
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=receipt-"+utils.SanitizeFilename(b.ReservationID)+".pdf")
	w.WriteHeader(http.StatusOK)
	w.Write(pdf)
}

// VerifyReceipt checks the code printed on a receipt.
func (h *Handlers) VerifyReceipt(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var body struct {
		Code string `json:"code"`
	}
	if err := utils.DecodeJSON(r, &body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	code, err := h.Signer.Verify(body.Code)
	if err != nil {
		utils.RespondWithJSON(w, http.StatusBadRequest, utils.M{"valid": false, "error": err.Error()})
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"valid":         true,
		"reservationId": code.ReservationID,
		"total":         code.Total,
		"issuedAt":      code.IssuedAt,
	})
}

// Export downloads every reservation as a spreadsheet.
func (h *Handlers) Export(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := r.Context()
	rs, err := h.Store.List(ctx)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	catalog, err := h.catalog(ctx)
	if err != nil {
		log.Printf("[Reservations] load rooms: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}

	now := h.now()
	f, err := Workbook(dashboard.Rows(rs, now), catalog)
	if err != nil {
		log.Printf("[Reservations] export: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Export failed")
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename=reservations-"+now.Format("2006-01-02")+".xlsx")
	if err := f.Write(w); err != nil {
		log.Printf("[Reservations] write export: %v", err)
	}
}
