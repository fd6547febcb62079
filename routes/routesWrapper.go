package routes

import (
	"goodnight/admin"
	"goodnight/auth"
	"goodnight/contact"
	"goodnight/gallery"
	"goodnight/live"
	"goodnight/ratelim"
	"goodnight/reservations"
	"goodnight/rooms"

	"github.com/julienschmidt/httprouter"
)

// Handlers bundles everything the router serves.
type Handlers struct {
	Auth         *auth.Handlers
	Reservations *reservations.Handlers
	Admin        *admin.Handlers
	Rooms        *rooms.Handlers
	Gallery      *gallery.Handlers
	Contact      *contact.Handlers
	Hub          *live.Hub
	UploadDir    string
}

func RoutesWrapper(router *httprouter.Router, h Handlers, rateLimiter *ratelim.RateLimiter) {
	AddUtilityRoutes(router)
	AddStaticRoutes(router, h.UploadDir)
	AddAuthRoutes(router, h.Auth, rateLimiter)
	AddReservationRoutes(router, h.Reservations, rateLimiter)
	AddAdminRoutes(router, h.Admin)
	AddRoomRoutes(router, h.Rooms)
	AddGalleryRoutes(router, h.Gallery)
	AddContactRoutes(router, h.Contact, rateLimiter)
	AddLiveRoutes(router, h.Hub)
}
