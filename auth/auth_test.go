package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"goodnight/globals"
	"goodnight/middleware"
	"goodnight/models"
)

type memUsers struct {
	byEmail map[string]models.User
	touched []string
}

func newMemUsers() *memUsers { return &memUsers{byEmail: map[string]models.User{}} }

func (m *memUsers) FindByEmail(_ context.Context, email string) (models.User, error) {
	u, ok := m.byEmail[email]
	if !ok {
		return u, ErrNoUser
	}
	return u, nil
}

func (m *memUsers) Insert(_ context.Context, u models.User) error {
	m.byEmail[u.Email] = u
	return nil
}

func (m *memUsers) TouchLogin(_ context.Context, id string, _ time.Time) error {
	m.touched = append(m.touched, id)
	return nil
}

func setup(t *testing.T) (*httprouter.Router, *memUsers) {
	globals.JwtSecret = []byte("test-secret")
	users := newMemUsers()
	require.NoError(t, SeedAdmin(context.Background(), users, " Admin@Example.com ", "hunter22"))

	h := &Handlers{Users: users}
	r := httprouter.New()
	r.POST("/auth/login", h.Login)
	r.GET("/auth/me", middleware.Authenticate(h.Me))
	return r, users
}

func login(r http.Handler, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body)))
	return rec
}

func TestSeedAdminIsIdempotent(t *testing.T) {
	_, users := setup(t)
	first := users.byEmail["admin@example.com"]
	require.NotEmpty(t, first.UserID)
	assert.True(t, first.IsAdmin())

	require.NoError(t, SeedAdmin(context.Background(), users, "admin@example.com", "other"))
	assert.Equal(t, first, users.byEmail["admin@example.com"])

	require.NoError(t, SeedAdmin(context.Background(), users, "", ""))
	assert.Len(t, users.byEmail, 1)
}

func TestLoginAndMe(t *testing.T) {
	r, users := setup(t)
	rec := login(r, `{"email":"ADMIN@example.com","password":"hunter22"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var got struct {
		Token  string `json:"token"`
		UserID string `json:"userid"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.NotEmpty(t, got.Token)
	assert.Equal(t, []string{got.UserID}, users.touched)

	claims, err := middleware.ValidateJWT(got.Token)
	require.NoError(t, err)
	assert.True(t, claims.IsAdmin())

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+got.Token)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var me map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &me))
	assert.Equal(t, got.UserID, me["userid"])
	assert.Equal(t, []any{"admin"}, me["role"])
}

func TestLoginRejects(t *testing.T) {
	r, users := setup(t)
	hash, err := bcrypt.GenerateFromPassword([]byte("pw"), bcrypt.MinCost)
	require.NoError(t, err)
	users.byEmail["clerk@example.com"] = models.User{UserID: "u-2", Email: "clerk@example.com", PasswordHash: string(hash)}

	assert.Equal(t, http.StatusUnauthorized, login(r, `{"email":"admin@example.com","password":"wrong"}`).Code)
	assert.Equal(t, http.StatusUnauthorized, login(r, `{"email":"nobody@example.com","password":"x"}`).Code)
	assert.Equal(t, http.StatusBadRequest, login(r, `{"email":"admin@example.com"}`).Code)
	assert.Equal(t, http.StatusBadRequest, login(r, `{`).Code)
	assert.Equal(t, http.StatusForbidden, login(r, `{"email":"clerk@example.com","password":"pw"}`).Code)
	assert.Empty(t, users.touched)
}

func TestMeRequiresToken(t *testing.T) {
	r, _ := setup(t)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/auth/me", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
