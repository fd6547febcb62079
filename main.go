package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"goodnight/admin"
	"goodnight/auth"
	"goodnight/billing"
	"goodnight/config"
	"goodnight/contact"
	"goodnight/db"
	"goodnight/gallery"
	"goodnight/globals"
	"goodnight/live"
	"goodnight/mailer"
	"goodnight/metrics"
	"goodnight/mq"
	"goodnight/ratelim"
	"goodnight/rdx"
	"goodnight/reservations"
	"goodnight/rooms"
	"goodnight/routes"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"
)

const publicUploads = "/static/uploads"

// securityHeaders applies a set of recommended HTTP security headers.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "frame-ancestors 'none'")
		w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		w.Header().Set("Referrer-Policy", "no-referrer")
		w.Header().Set("Permissions-Policy", "geolocation=(), microphone=(), camera=()")
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.code = code
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Unwrap() http.ResponseWriter {
	return s.ResponseWriter
}

// Hijack hands the connection to the websocket upgrader.
func (s *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := s.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response does not support hijacking")
	}
	s.code = http.StatusSwitchingProtocols
	return hj.Hijack()
}

// loggingMiddleware logs each request and records it in the HTTP metrics.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
		next.ServeHTTP(rec, r)
		duration := time.Since(start)
		metrics.ObserveRequest(r.Method, rec.code, duration)
		log.Printf("%s %s from %s – %d %v", r.Method, r.URL.Path, r.RemoteAddr, rec.code, duration)
	})
}

// selectMailer prefers EmailJS, then SMTP, then logging only.
func selectMailer(c config.MailConfig) mailer.Sender {
	switch {
	case c.EmailJS.ServiceID != "" && c.EmailJS.PublicKey != "":
		log.Println("[Mailer] using EmailJS")
		return &mailer.EmailJS{
			ServiceID:  c.EmailJS.ServiceID,
			PublicKey:  c.EmailJS.PublicKey,
			PrivateKey: c.EmailJS.PrivateKey,
			Templates:  c.Templates(),
		}
	case c.SMTP.Host != "":
		log.Printf("[Mailer] using SMTP %s:%s", c.SMTP.Host, c.SMTP.Port)
		return &mailer.SMTP{
			Host:     c.SMTP.Host,
			Port:     c.SMTP.Port,
			Username: c.SMTP.Username,
			Password: c.SMTP.Password,
			From:     c.SMTP.From,
		}
	default:
		log.Println("[Mailer] no transport configured; mails are logged only")
		return mailer.LogSender{}
	}
}

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_FILE"), "path to YAML config")
	flag.Parse()
	if *configPath == "" {
		*configPath = "config.yaml"
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("❌ config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("❌ invalid config:\n%v", err)
	}
	loc, _ := cfg.Location()
	globals.Location = loc
	globals.JwtSecret = []byte(cfg.Auth.JWTSecret)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := db.Connect(ctx, cfg.Mongo.URI, cfg.Mongo.Database); err != nil {
		log.Fatalf("❌ %v", err)
	}
	if err := rdx.Connect(ctx, cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB); err != nil {
		log.Fatalf("❌ %v", err)
	}

	roomStore := rooms.NewMongoStore(db.RoomsCollection)
	if err := roomStore.Seed(ctx); err != nil {
		log.Printf("[Rooms] %v", err)
	}
	users := auth.NewMongoUsers(db.UserCollection)
	if err := auth.SeedAdmin(ctx, users, cfg.Auth.AdminEmail, cfg.Auth.AdminPassword); err != nil {
		log.Printf("[Auth] %v", err)
	}

	hub := live.NewHub(cfg.Server.AllowedOrigins)
	emitter := mq.NewEmitter(rdx.Conn, hub.Broadcast)
	go emitter.Run(ctx)

	rateLimiter := ratelim.NewRateLimiter(30, 10)
	go rateLimiter.Cleanup(ctx.Done())

	send := selectMailer(cfg.Mail)
	reservationStore := reservations.NewMongoStore(db.ReservationsCollection)
	handlers := routes.Handlers{
		Auth: &auth.Handlers{Users: users},
		Reservations: &reservations.Handlers{
			Store:     reservationStore,
			Rooms:     roomStore,
			Events:    emitter,
			Mailer:    send,
			Signer:    billing.NewSigner(cfg.Hotel.ReceiptSecret),
			TaxRate:   cfg.Hotel.TaxRate,
			HotelName: cfg.Hotel.Name,
			Now:       globals.Now,
		},
		Admin: &admin.Handlers{Reservations: reservationStore, Rooms: roomStore, Now: globals.Now},
		Rooms: &rooms.Handlers{Store: roomStore, UploadDir: cfg.Uploads.Dir, PublicPrefix: publicUploads, Now: globals.Now},
		Gallery: &gallery.Handlers{
			Store: gallery.NewMongoStore(db.GalleryCollection), UploadDir: cfg.Uploads.Dir, PublicPrefix: publicUploads, Now: globals.Now,
		},
		Contact: &contact.Handlers{
			Store: contact.NewMongoStore(db.ContactsCollection), Mailer: send,
			HotelEmail: cfg.Hotel.Email, HotelName: cfg.Hotel.Name, Now: globals.Now,
		},
		Hub:       hub,
		UploadDir: cfg.Uploads.Dir,
	}

	router := httprouter.New()
	routes.RoutesWrapper(router, handlers, rateLimiter)

	// apply middleware: CORS → security headers → logging → router
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(router)

	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           loggingMiddleware(securityHeaders(corsHandler)),
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
	}
	server.RegisterOnShutdown(func() {
		log.Println("🛑 Closing board connections...")
		hub.Close()
	})

	go func() {
		log.Printf("🚀 %s listening on %s (hotel time %s)", cfg.Hotel.Name, server.Addr, loc)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ ListenAndServe error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("🛑 Shutdown signal received; shutting down gracefully...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("❌ Graceful shutdown failed: %v", err)
	}
	rdx.Close()
	db.Disconnect(shutdownCtx)
	log.Println("✅ Server stopped cleanly")
}
