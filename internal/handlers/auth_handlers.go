// File: internal/handlers/auth_handlers.go
package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/iyunix/go-chatnest/internal/domain"
	"github.com/iyunix/go-chatnest/internal/dtos"
	"github.com/iyunix/go-chatnest/internal/middleware"
)

// Authenticator registers users and issues session tokens.
type Authenticator interface {
	Register(ctx context.Context, email, password string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*domain.User, string, error)
}

// AuthHandler holds the dependencies for authentication handlers.
type AuthHandler struct {
	auth         Authenticator
	logger       Logger
	tokenTTL     time.Duration
	secureCookie bool
}

// NewAuthHandler creates a new AuthHandler. secureCookie should be true
// whenever the site is served over TLS.
func NewAuthHandler(auth Authenticator, logger Logger, tokenTTL time.Duration, secureCookie bool) *AuthHandler {
	return &AuthHandler{auth: auth, logger: logger, tokenTTL: tokenTTL, secureCookie: secureCookie}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dtos.RegisterRequestDTO
	if err := decodeAndValidate(w, r, &req); err != nil {
		respondError(w, r, h.logger, "register", err)
		return
	}

	user, err := h.auth.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		respondError(w, r, h.logger, "register", err)
		return
	}

	writeJSON(w, http.StatusCreated, dtos.ToUserResponseDTO(user))
}

// Login handles POST /api/auth/login. The token is returned in the body for
// API clients and set as a cookie for the browser.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dtos.LoginRequestDTO
	if err := decodeAndValidate(w, r, &req); err != nil {
		respondError(w, r, h.logger, "login", err)
		return
	}

	user, token, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondError(w, r, h.logger, "login", err)
		return
	}

	middleware.SetAuthCookie(w, token, h.tokenTTL, h.secureCookie)
	writeJSON(w, http.StatusOK, dtos.LoginResponseDTO{Token: token, User: dtos.ToUserResponseDTO(user)})
}

// Logout handles POST /api/auth/logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	middleware.ClearAuthCookie(w)
	w.WriteHeader(http.StatusNoContent)
}
