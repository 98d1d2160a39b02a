package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/aryan0dhankhar/wattbill/internal/domain"
	"github.com/aryan0dhankhar/wattbill/internal/service"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService *service.AuthService
	logger      *slog.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService, logger *slog.Logger) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// Signup handles POST /api/signup
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req service.SignupInput
	if err := decodeJSON(w, r, &req); err != nil {
		h.logger.Warn("failed to decode signup request",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	err := h.authService.Signup(r.Context(), req)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, MessageResponse{Message: "Signup successful"})
	case errors.Is(err, domain.ErrMissingFields):
		writeError(w, http.StatusBadRequest, "Missing fields")
	case errors.Is(err, domain.ErrEmailExists):
		writeError(w, http.StatusConflict, "Email exists")
	default:
		h.logger.Error("signup failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "Signup failed")
	}
}

// Login handles POST /api/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req service.LoginInput
	if err := decodeJSON(w, r, &req); err != nil {
		h.logger.Warn("failed to decode login request",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	result, err := h.authService.Login(r.Context(), req)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, result)
	case errors.Is(err, domain.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
	default:
		h.logger.Error("login failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "Login failed")
	}
}
