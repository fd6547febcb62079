// Package auth signs admins in. Guests never hold an account.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"goodnight/globals"
	"goodnight/middleware"
	"goodnight/models"
	"goodnight/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = 12 * time.Hour

var ErrNoUser = errors.New("user not found")

type Users interface {
	FindByEmail(ctx context.Context, email string) (models.User, error)
	Insert(ctx context.Context, u models.User) error
	TouchLogin(ctx context.Context, userID string, at time.Time) error
}

type MongoUsers struct {
	coll *mongo.Collection
}

func NewMongoUsers(coll *mongo.Collection) *MongoUsers {
	return &MongoUsers{coll: coll}
}

func (s *MongoUsers) FindByEmail(ctx context.Context, email string) (models.User, error) {
	var u models.User
	err := s.coll.FindOne(ctx, bson.M{"email": email}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return u, ErrNoUser
	}
	return u, err
}

func (s *MongoUsers) Insert(ctx context.Context, u models.User) error {
	_, err := s.coll.InsertOne(ctx, u)
	return err
}

func (s *MongoUsers) TouchLogin(ctx context.Context, userID string, at time.Time) error {
	_, err := s.coll.UpdateOne(ctx, bson.M{"userid": userID}, bson.M{"$set": bson.M{"last_login": at}})
	return err
}

// SeedAdmin creates the configured admin account if it does not exist yet.
// An existing account keeps its password.
func SeedAdmin(ctx context.Context, users Users, email, password string) error {
	email = utils.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil
	}
	_, err := users.FindByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrNoUser) {
		return fmt.Errorf("look up admin: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	u := models.User{
		UserID:       utils.GenerateID(),
		Email:        email,
		PasswordHash: string(hash),
		Role:         []string{middleware.RoleAdmin},
		CreatedAt:    time.Now(),
	}
	if err := users.Insert(ctx, u); err != nil {
		return fmt.Errorf("insert admin: %w", err)
	}
	log.Printf("[Auth] created admin account %s", email)
	return nil
}

type Handlers struct {
	Users Users
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := utils.DecodeJSON(r, &input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	input.Email = utils.NormalizeEmail(input.Email)
	if input.Email == "" || input.Password == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	ctx := r.Context()
	stored, err := h.Users.FindByEmail(ctx, input.Email)
	if err != nil {
		if !errors.Is(err, ErrNoUser) {
			log.Printf("[Auth] %v", err)
		}
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte(input.Password)); err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	if !stored.IsAdmin() {
		utils.RespondWithError(w, http.StatusForbidden, "Admin access required")
		return
	}

	token, err := middleware.IssueToken(stored.UserID, stored.Email, stored.Role, tokenTTL)
	if err != nil {
		log.Printf("[Auth] sign token: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}
	if err := h.Users.TouchLogin(ctx, stored.UserID, time.Now()); err != nil {
		log.Printf("[Auth] last login for %s: %v", stored.UserID, err)
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"token":     token,
		"userid":    stored.UserID,
		"email":     stored.Email,
		"expiresIn": int(tokenTTL.Seconds()),
	})
}

// Me echoes the identity carried by the caller's token.
func (h *Handlers) Me(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	roles, _ := r.Context().Value(globals.RoleKey).([]string)
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"userid": utils.GetUserIDFromRequest(r),
		"role":   roles,
	})
}
