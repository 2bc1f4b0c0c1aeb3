package handlers

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/sessions"
	"go.uber.org/zap"

	"github.com/tiangong-ops/opshub/pkg/apperrors"
	"github.com/tiangong-ops/opshub/pkg/models"
	"github.com/tiangong-ops/opshub/pkg/repositories"
)

// SessionName is the portal login session cookie.
const SessionName = "opshub-session"

// Session value keys.
const (
	SessionKeyUserID   = "user_id"
	SessionKeyUsername = "username"
)

// LoginRequest is the login form payload.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the authenticated user on success.
type LoginResponse struct {
	Success bool         `json:"success"`
	User    *models.User `json:"user,omitempty"`
	Error   string       `json:"error,omitempty"`
}

// AuthHandler authenticates operators against the users table and
// manages cookie sessions.
type AuthHandler struct {
	users  repositories.UserRepository
	store  *sessions.CookieStore
	logger *zap.Logger
}

// NewAuthHandler creates an auth handler. The secret signs session
// cookies; it is hashed to a consistent 32-byte key.
func NewAuthHandler(users repositories.UserRepository, secret string, logger *zap.Logger) *AuthHandler {
	key := sha256.Sum256([]byte(secret))

	store := sessions.NewCookieStore(key[:])
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   8 * 3600, // one working day
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	return &AuthHandler{users: users, store: store, logger: logger}
}

// RegisterRoutes registers the auth handler's routes on the given mux.
func (h *AuthHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/login", h.Login)
	mux.HandleFunc("POST /api/logout", h.Logout)
}

// Login handles POST /api/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := WriteError(w, http.StatusBadRequest, "invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	user, err := h.users.GetByUsername(r.Context(), req.Username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			if err := WriteJSON(w, http.StatusUnauthorized, LoginResponse{Success: false, Error: "authentication failed"}); err != nil {
				h.logger.Error("Failed to write response", zap.Error(err))
			}
			return
		}
		h.logger.Error("Failed to look up user", zap.String("username", req.Username), zap.Error(err))
		if err := WriteError(w, statusFor(err), err.Error()); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if subtle.ConstantTimeCompare([]byte(user.Password), []byte(req.Password)) != 1 {
		if err := WriteJSON(w, http.StatusUnauthorized, LoginResponse{Success: false, Error: "authentication failed"}); err != nil {
			h.logger.Error("Failed to write response", zap.Error(err))
		}
		return
	}

	session, err := h.store.Get(r, SessionName)
	if err != nil {
		// A stale or tampered cookie decodes to an error but still yields
		// a fresh session; continue with it.
		h.logger.Debug("Recreating session", zap.Error(err))
	}
	session.Values[SessionKeyUserID] = user.ID
	session.Values[SessionKeyUsername] = user.Username
	if err := session.Save(r, w); err != nil {
		h.logger.Error("Failed to save session", zap.Error(err))
		if err := WriteError(w, http.StatusInternalServerError, "failed to establish session"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	h.logger.Info("Operator logged in", zap.String("username", user.Username))
	if err := WriteJSON(w, http.StatusOK, LoginResponse{Success: true, User: user}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Logout handles POST /api/logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	session, _ := h.store.Get(r, SessionName)
	session.Options.MaxAge = -1
	if err := session.Save(r, w); err != nil {
		h.logger.Error("Failed to clear session", zap.Error(err))
	}

	if err := WriteJSON(w, http.StatusOK, Result{Success: true}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
