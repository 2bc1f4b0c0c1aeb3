package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/tiangong-ops/opshub/pkg/apperrors"
	"github.com/tiangong-ops/opshub/pkg/models"
)

func newAuthMux(users *mockUserRepository) *http.ServeMux {
	h := NewAuthHandler(users, "test-session-secret", zap.NewNop())
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)
	return mux
}

func TestAuthHandler_Login_Success(t *testing.T) {
	users := &mockUserRepository{
		user: &models.User{ID: 1, Username: "admin", Password: "admin123", RealName: "Administrator", RoleID: 1},
	}
	mux := newAuthMux(users)

	req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(`{"username":"admin","password":"admin123"}`))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	var resp LoginResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Success {
		t.Error("expected success=true")
	}
	if resp.User == nil || resp.User.Username != "admin" {
		t.Errorf("unexpected user in response: %+v", resp.User)
	}

	cookies := rec.Result().Cookies()
	var found bool
	for _, c := range cookies {
		if c.Name == SessionName {
			found = true
			if !c.HttpOnly {
				t.Error("session cookie must be HttpOnly")
			}
		}
	}
	if !found {
		t.Error("expected session cookie to be set")
	}

	if strings.Contains(rec.Body.String(), "admin123") {
		t.Error("password leaked into login response")
	}
}

func TestAuthHandler_Login_WrongPassword(t *testing.T) {
	users := &mockUserRepository{
		user: &models.User{ID: 1, Username: "admin", Password: "admin123"},
	}
	mux := newAuthMux(users)

	req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(`{"username":"admin","password":"wrong"}`))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Error("no session cookie should be set on failed login")
	}
}

func TestAuthHandler_Login_UnknownUser(t *testing.T) {
	mux := newAuthMux(&mockUserRepository{})

	req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(`{"username":"ghost","password":"x"}`))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
}

func TestAuthHandler_Login_StoreUnavailable(t *testing.T) {
	users := &mockUserRepository{
		err: fmt.Errorf("failed to get user: %w: dial refused", apperrors.ErrStoreUnavailable),
	}
	mux := newAuthMux(users)

	req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(`{"username":"admin","password":"admin123"}`))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	// A store outage is not an authentication verdict.
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status %d, got %d", http.StatusServiceUnavailable, rec.Code)
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	mux := newAuthMux(&mockUserRepository{})

	req := httptest.NewRequest(http.MethodPost, "/api/logout", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	for _, c := range rec.Result().Cookies() {
		if c.Name == SessionName && c.MaxAge >= 0 {
			t.Error("logout should expire the session cookie")
		}
	}
}
