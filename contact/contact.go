// Package contact accepts messages from the public contact form and
// forwards them to the front desk.
package contact

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"goodnight/mailer"
	"goodnight/metrics"
	"goodnight/models"
	"goodnight/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const maxMessage = 5000

type Store interface {
	Insert(ctx context.Context, m models.ContactMessage) error
	List(ctx context.Context, limit int) ([]models.ContactMessage, error)
}

type MongoStore struct {
	coll *mongo.Collection
}

func NewMongoStore(coll *mongo.Collection) *MongoStore {
	return &MongoStore{coll: coll}
}

func (s *MongoStore) Insert(ctx context.Context, m models.ContactMessage) error {
	if _, err := s.coll.InsertOne(ctx, m); err != nil {
		return fmt.Errorf("insert contact message: %w", err)
	}
	return nil
}

func (s *MongoStore) List(ctx context.Context, limit int) ([]models.ContactMessage, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(int64(limit))
	cur, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list contact messages: %w", err)
	}
	out := []models.ContactMessage{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("list contact messages: %w", err)
	}
	return out, nil
}

type Handlers struct {
	Store      Store
	Mailer     mailer.Sender
	HotelEmail string
	HotelName  string
	Now        func() time.Time
}

// Submit stores a contact message and mails it to the hotel. A mail
// failure is logged; the message is kept either way.
func (h *Handlers) Submit(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var in struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Message string `json:"message"`
	}
	if err := utils.DecodeJSON(r, &in); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Message = strings.TrimSpace(in.Message)

	bad := map[string]string{}
	if in.Name == "" {
		bad["name"] = "required"
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		bad["email"] = "not a valid address"
	}
	switch {
	case in.Message == "":
		bad["message"] = "required"
	case len(in.Message) > maxMessage:
		bad["message"] = "too long"
	}
	if len(bad) > 0 {
		utils.RespondWithJSON(w, http.StatusBadRequest, utils.M{"error": "Invalid message", "fields": bad})
		return
	}

	now := time.Now()
	if h.Now != nil {
		now = h.Now()
	}
	msg := models.ContactMessage{ID: utils.GenerateID(), Name: in.Name, Email: in.Email, Message: in.Message, CreatedAt: now}
	if err := h.Store.Insert(r.Context(), msg); err != nil {
		log.Printf("[Contact] %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}

	err := h.Mailer.Send(r.Context(), mailer.Message{
		To:       h.HotelEmail,
		Subject:  fmt.Sprintf("[%s] Message from %s", h.HotelName, msg.Name),
		Body:     fmt.Sprintf("From: %s <%s>\n\n%s\n", msg.Name, msg.Email, msg.Message),
		Template: mailer.TemplateContact,
		Params: map[string]any{
			"from_name":  msg.Name,
			"from_email": msg.Email,
			"message":    msg.Message,
		},
	})
	metrics.MailsSent.WithLabelValues(mailer.TemplateContact, metrics.Outcome(err)).Inc()
	if err != nil {
		log.Printf("[Contact] forward %s: %v", msg.ID, err)
	}
	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"id": msg.ID, "forwarded": err == nil})
}

// List shows the latest messages to admins.
func (h *Handlers) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	msgs, err := h.Store.List(r.Context(), utils.ParseLimit(r, 50, 500))
	if err != nil {
		log.Printf("[Contact] %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, msgs)
}
