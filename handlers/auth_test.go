package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/techbridge/movies/backend/middleware"
	"github.com/techbridge/movies/backend/models"
	"github.com/techbridge/movies/backend/token"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

func newAuthHandler(users *fakeUserStore) *AuthHandler {
	return &AuthHandler{
		Users:      users,
		Issuer:     token.NewIssuer("test-secret"),
		AdminEmail: "admin@techbridges.com",
		AdminPass:  "admin123",
	}
}

func seedUser(t *testing.T, users *fakeUserStore, email, password, role string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	u := &models.User{Email: email, Password: string(hash), Role: role, CreatedAt: time.Now()}
	id, err := users.CreateUser(context.Background(), u)
	require.NoError(t, err)
	u.ID = id
	return u
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.TokenCookie {
			return c
		}
	}
	t.Fatal("no session cookie set")
	return nil
}

func TestRegister(t *testing.T) {
	users := newFakeUserStore()
	h := newAuthHandler(users)

	body := `{"email":"new@example.com","password":"hunter2"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Register(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp authResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "new@example.com", resp.User.Email)
	assert.Equal(t, models.RoleUser, resp.User.Role)
	require.NotEmpty(t, resp.Token)

	// The token must resolve back to the created user.
	userID, err := h.Issuer.Verify(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, userID)

	// The same token is set as an httpOnly cookie.
	c := sessionCookie(t, rec)
	assert.Equal(t, resp.Token, c.Value)
	assert.True(t, c.HttpOnly)

	// The password is stored hashed, never verbatim.
	id, err := primitive.ObjectIDFromHex(resp.User.ID)
	require.NoError(t, err)
	stored := users.users[id]
	require.NotNil(t, stored)
	assert.NotEqual(t, "hunter2", stored.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("hunter2")))
}

func TestRegisterMissingFields(t *testing.T) {
	h := newAuthHandler(newFakeUserStore())

	for _, body := range []string{`{}`, `{"email":"a@b.c"}`, `{"password":"x"}`} {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(body))
		rec := httptest.NewRecorder()
		h.Register(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body %s", body)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	users := newFakeUserStore()
	seedUser(t, users, "taken@example.com", "pw", models.RoleUser)
	h := newAuthHandler(users)

	body := `{"email":"taken@example.com","password":"other"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Register(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "Email already in use")
}

func TestLogin(t *testing.T) {
	users := newFakeUserStore()
	admin := seedUser(t, users, "admin@techbridges.com", "admin123", models.RoleAdmin)
	h := newAuthHandler(users)

	t.Run("valid credentials", func(t *testing.T) {
		body := `{"email":"admin@techbridges.com","password":"admin123"}`
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
		rec := httptest.NewRecorder()
		h.Login(rec, req)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var resp authResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, admin.ID.Hex(), resp.User.ID)
		assert.Equal(t, models.RoleAdmin, resp.User.Role)
		assert.NotEmpty(t, sessionCookie(t, rec).Value)
	})

	t.Run("unknown email", func(t *testing.T) {
		body := `{"email":"nobody@example.com","password":"admin123"}`
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
		rec := httptest.NewRecorder()
		h.Login(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "Email not found")
	})

	t.Run("wrong password", func(t *testing.T) {
		body := `{"email":"admin@techbridges.com","password":"nope"}`
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
		rec := httptest.NewRecorder()
		h.Login(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "Incorrect password")
	})

	t.Run("missing fields", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"email":"a@b.c"}`))
		rec := httptest.NewRecorder()
		h.Login(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestLogoutClearsCookie(t *testing.T) {
	h := newAuthHandler(newFakeUserStore())

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	rec := httptest.NewRecorder()
	h.Logout(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())

	c := sessionCookie(t, rec)
	assert.Empty(t, c.Value)
	assert.True(t, c.Expires.Before(time.Now()))
}

func TestMe(t *testing.T) {
	users := newFakeUserStore()
	user := seedUser(t, users, "viewer@example.com", "pw", models.RoleUser)
	h := newAuthHandler(users)

	t.Run("returns the user without the password", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
		req = req.WithContext(middleware.WithUser(req.Context(), user))
		rec := httptest.NewRecorder()
		h.Me(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var got map[string]interface{}
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		assert.Equal(t, "viewer@example.com", got["email"])
		assert.NotContains(t, got, "password")
	})

	t.Run("404 when the account was deleted", func(t *testing.T) {
		delete(users.users, user.ID)
		req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
		req = req.WithContext(middleware.WithUser(req.Context(), user))
		rec := httptest.NewRecorder()
		h.Me(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestVerifyToken(t *testing.T) {
	h := newAuthHandler(newFakeUserStore())

	req := httptest.NewRequest(http.MethodPost, "/api/auth/verify-token", nil)
	rec := httptest.NewRecorder()
	h.VerifyToken(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"valid":true}`, rec.Body.String())
}

func TestInitUsers(t *testing.T) {
	users := newFakeUserStore()
	h := newAuthHandler(users)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/init-users", nil)
	rec := httptest.NewRecorder()
	h.InitUsers(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	admin, err := users.UserByEmail(context.Background(), "admin@techbridges.com")
	require.NoError(t, err)
	require.NotNil(t, admin)
	assert.Equal(t, models.RoleAdmin, admin.Role)

	// Second run refuses to seed again.
	rec = httptest.NewRecorder()
	h.InitUsers(rec, httptest.NewRequest(http.MethodPost, "/api/auth/init-users", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
