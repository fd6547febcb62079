package routes

import (
	"fmt"
	"net/http"

	"goodnight/admin"
	"goodnight/auth"
	"goodnight/contact"
	"goodnight/gallery"
	"goodnight/lifecycle"
	"goodnight/live"
	"goodnight/metrics"
	"goodnight/middleware"
	"goodnight/ratelim"
	"goodnight/reservations"
	"goodnight/rooms"

	"github.com/julienschmidt/httprouter"
)

func Index(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	fmt.Fprint(w, "200")
}

func AddStaticRoutes(router *httprouter.Router, uploadDir string) {
	router.ServeFiles("/static/uploads/*filepath", http.Dir(uploadDir))
}

func AddUtilityRoutes(router *httprouter.Router) {
	router.GET("/health", Index)
	router.Handler(http.MethodGet, "/metrics", metrics.Handler())
}

func AddAuthRoutes(router *httprouter.Router, h *auth.Handlers, rl *ratelim.RateLimiter) {
	router.POST("/api/auth/login", rl.Limit(h.Login))
	router.GET("/api/auth/me", middleware.RequireAdmin(h.Me))
}

func AddReservationRoutes(router *httprouter.Router, h *reservations.Handlers, rl *ratelim.RateLimiter) {
	router.POST("/api/reservations", rl.Limit(h.Create))
	router.POST("/api/receipts/verify", rl.Limit(h.VerifyReceipt))

	router.GET("/api/admin/reservations", middleware.RequireAdmin(h.List))
	router.POST("/api/admin/reservations", middleware.RequireAdmin(h.AdminCreate))
	router.GET("/api/admin/reservations/:id", middleware.RequireAdmin(h.Get))
	router.PUT("/api/admin/reservations/:id", middleware.RequireAdmin(h.Update))
	router.DELETE("/api/admin/reservations/:id", middleware.RequireAdmin(h.Delete))
	router.POST("/api/admin/reservations/:id/confirm", middleware.RequireAdmin(h.Transition(lifecycle.Confirm)))
	router.POST("/api/admin/reservations/:id/checkin", middleware.RequireAdmin(h.Transition(lifecycle.CheckIn)))
	router.POST("/api/admin/reservations/:id/checkout", middleware.RequireAdmin(h.Transition(lifecycle.CheckOut)))
	router.GET("/api/admin/reservations/:id/bill", middleware.RequireAdmin(h.Bill))
	router.POST("/api/admin/reservations/:id/bill/send", middleware.RequireAdmin(h.SendBill))
	router.GET("/api/admin/reservations/:id/receipt.pdf", middleware.RequireAdmin(h.Receipt))
	router.GET("/api/admin/export/reservations.xlsx", middleware.RequireAdmin(h.Export))
}

func AddAdminRoutes(router *httprouter.Router, h *admin.Handlers) {
	router.GET("/api/admin/board", middleware.RequireAdmin(h.Board))
	router.GET("/api/admin/stats", middleware.RequireAdmin(h.Stats))
	router.GET("/api/admin/today", middleware.RequireAdmin(h.Today))
	router.GET("/api/admin/revenue", middleware.RequireAdmin(h.Revenue))
	router.GET("/api/admin/recent", middleware.RequireAdmin(h.Recent))
}

func AddRoomRoutes(router *httprouter.Router, h *rooms.Handlers) {
	router.GET("/api/rooms", h.List)
	router.GET("/api/rooms/:id", h.Get)
	router.PUT("/api/admin/rooms/:id", middleware.RequireAdmin(h.Update))
}

func AddGalleryRoutes(router *httprouter.Router, h *gallery.Handlers) {
	router.GET("/api/gallery", h.List)
	router.POST("/api/admin/gallery", middleware.RequireAdmin(h.Upload))
	router.DELETE("/api/admin/gallery/:id", middleware.RequireAdmin(h.Delete))
}

func AddContactRoutes(router *httprouter.Router, h *contact.Handlers, rl *ratelim.RateLimiter) {
	router.POST("/api/contact", rl.Limit(h.Submit))
	router.GET("/api/admin/contacts", middleware.RequireAdmin(h.List))
}

// AddLiveRoutes serves the room board websocket. Browsers pass the admin
// token as ?token=.
func AddLiveRoutes(router *httprouter.Router, hub *live.Hub) {
	router.GET("/ws/board", middleware.RequireAdmin(hub.HandleWS))
}
