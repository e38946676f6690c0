package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/techbridge/movies/backend/middleware"
	"github.com/techbridge/movies/backend/models"
	"github.com/techbridge/movies/backend/token"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// UserStore is the slice of the credential store the auth endpoints need.
type UserStore interface {
	UserByEmail(ctx context.Context, email string) (*models.User, error)
	UserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) (primitive.ObjectID, error)
}

type AuthHandler struct {
	Users  UserStore
	Issuer *token.Issuer
	// Seed credentials for the one-time admin bootstrap endpoint.
	AdminEmail string
	AdminPass  string
	// CookieSecure switches the session cookie to Secure + SameSite=None
	// for cross-site deployments.
	CookieSecure bool
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userPayload struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type authResponse struct {
	Token string      `json:"token"`
	User  userPayload `json:"user"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"message":"Invalid JSON body"}`, http.StatusBadRequest)
		return
	}
	if req.Email == "" || req.Password == "" {
		http.Error(w, `{"message":"Email and password are required"}`, http.StatusBadRequest)
		return
	}
	existing, err := h.Users.UserByEmail(r.Context(), req.Email)
	if err != nil {
		http.Error(w, `{"message":"Server error. Please try again later."}`, http.StatusInternalServerError)
		return
	}
	if existing != nil {
		http.Error(w, `{"message":"Email already in use"}`, http.StatusConflict)
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		http.Error(w, `{"message":"Server error. Please try again later."}`, http.StatusInternalServerError)
		return
	}
	user := &models.User{
		Email:     req.Email,
		Password:  string(hash),
		Role:      models.RoleUser,
		CreatedAt: time.Now(),
	}
	id, err := h.Users.CreateUser(r.Context(), user)
	if err != nil {
		http.Error(w, `{"message":"Server error. Please try again later."}`, http.StatusInternalServerError)
		return
	}
	user.ID = id
	h.respondWithToken(w, user, http.StatusCreated)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"message":"Invalid JSON body"}`, http.StatusBadRequest)
		return
	}
	if req.Email == "" || req.Password == "" {
		http.Error(w, `{"message":"Email and password are required"}`, http.StatusBadRequest)
		return
	}
	user, err := h.Users.UserByEmail(r.Context(), req.Email)
	if err != nil {
		http.Error(w, `{"message":"Server error. Please try again later."}`, http.StatusInternalServerError)
		return
	}
	if user == nil {
		http.Error(w, `{"message":"Email not found"}`, http.StatusUnauthorized)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		http.Error(w, `{"message":"Incorrect password"}`, http.StatusUnauthorized)
		return
	}
	h.respondWithToken(w, user, http.StatusOK)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   h.CookieSecure,
		SameSite: h.cookieSameSite(),
		Expires:  time.Unix(0, 0),
	})
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"success": true})
}

// Me returns the authenticated user's record, password omitted.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	current, ok := middleware.CurrentUser(r.Context())
	if !ok {
		http.Error(w, `{"message":"Authentication required"}`, http.StatusUnauthorized)
		return
	}
	user, err := h.Users.UserByID(r.Context(), current.ID)
	if err != nil {
		http.Error(w, `{"message":"Server error. Please try again later."}`, http.StatusInternalServerError)
		return
	}
	if user == nil {
		http.Error(w, `{"message":"User not found"}`, http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user)
}

func (h *AuthHandler) VerifyToken(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"valid": true})
}

// InitUsers seeds the admin account from config. It refuses to run twice.
func (h *AuthHandler) InitUsers(w http.ResponseWriter, r *http.Request) {
	existing, err := h.Users.UserByEmail(r.Context(), h.AdminEmail)
	if err != nil {
		http.Error(w, `{"message":"Failed to create demo users"}`, http.StatusInternalServerError)
		return
	}
	if existing != nil {
		http.Error(w, `{"message":"Demo users already exist"}`, http.StatusBadRequest)
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(h.AdminPass), bcrypt.DefaultCost)
	if err != nil {
		http.Error(w, `{"message":"Failed to create demo users"}`, http.StatusInternalServerError)
		return
	}
	admin := &models.User{
		Email:     h.AdminEmail,
		Password:  string(hash),
		Role:      models.RoleAdmin,
		CreatedAt: time.Now(),
	}
	if _, err := h.Users.CreateUser(r.Context(), admin); err != nil {
		http.Error(w, `{"message":"Failed to create demo users"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{"message": "Demo users created successfully"})
}

func (h *AuthHandler) respondWithToken(w http.ResponseWriter, user *models.User, status int) {
	tok, err := h.Issuer.Issue(user.ID.Hex())
	if err != nil {
		http.Error(w, `{"message":"Server error. Please try again later."}`, http.StatusInternalServerError)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    tok,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.CookieSecure,
		SameSite: h.cookieSameSite(),
		MaxAge:   int(token.TTL.Seconds()),
	})
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(authResponse{
		Token: tok,
		User:  userPayload{ID: user.ID.Hex(), Email: user.Email, Role: user.Role},
	})
}

// SameSite=None is required for the cross-site cookie flow in production;
// None is only honored by browsers together with Secure.
func (h *AuthHandler) cookieSameSite() http.SameSite {
	if h.CookieSecure {
		return http.SameSiteNoneMode
	}
	return http.SameSiteLaxMode
}
