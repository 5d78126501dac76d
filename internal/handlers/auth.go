package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/hanwool/handoff-api/internal/auth"
	"github.com/hanwool/handoff-api/internal/metrics"
	"github.com/hanwool/handoff-api/internal/middleware"
	"github.com/hanwool/handoff-api/internal/models"
)

// ==========================
// Auth Handler
// ==========================
type AuthHandler struct {
	Auth *auth.Service
}

var validate = validator.New()

// ==========================
// Signup: POST /user/signup
// ==========================
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var input struct {
		AccountID   string `json:"accountId" validate:"required,min=4,max=30"`
		Password    string `json:"password" validate:"required,min=8,max=72"`
		Name        string `json:"name" validate:"required,max=100"`
		PhoneNumber string `json:"phoneNumber" validate:"max=20"`
		Affiliation string `json:"affiliation" validate:"required,max=100"`
		Role        string `json:"role" validate:"required,oneof=doctor nurse"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(input); err != nil {
		JSONError(w, "validation failed", http.StatusBadRequest)
		return
	}

	err := h.Auth.Register(r.Context(), input.AccountID, input.Password, models.Profile{
		Name:        input.Name,
		PhoneNumber: input.PhoneNumber,
		Affiliation: input.Affiliation,
		Role:        input.Role,
	})
	if errors.Is(err, auth.ErrConflict) {
		JSONError(w, "account id already taken", http.StatusConflict)
		return
	}
	if err != nil {
		slog.Error("signup failed", "error", err)
		JSONError(w, MsgInternal, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"message": "registered"})
}

// ==========================
// Login: POST /user/login
// ==========================
// 404 when the account does not exist, 409 when the password is wrong. The
// distinction is part of the response contract.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input struct {
		AccountID string `json:"accountId"`
		Password  string `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	token, err := h.Auth.Login(r.Context(), input.AccountID, input.Password)
	switch {
	case errors.Is(err, auth.ErrNotFound):
		metrics.RecordLogin("not_found")
		JSONError(w, "account not found", http.StatusNotFound)
		return
	case errors.Is(err, auth.ErrInvalidCredentials):
		metrics.RecordLogin("wrong_password")
		JSONError(w, "wrong password", http.StatusConflict)
		return
	case err != nil:
		slog.Error("login failed", "error", err)
		JSONError(w, MsgInternal, http.StatusInternalServerError)
		return
	}

	metrics.RecordLogin("success")
	writeJSON(w, http.StatusCreated, map[string]string{"accessToken": token})
}

// ==========================
// Logout: POST /user/logout
// ==========================
// Logout parses the Authorization header itself instead of sitting behind
// the auth guard, since the operation consumes the raw token.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := middleware.BearerToken(r)
	if token == "" {
		JSONError(w, "missing bearer token", http.StatusUnauthorized)
		return
	}

	if err := h.Auth.Logout(r.Context(), token); err != nil {
		status, msg := authErrorStatus(err)
		if status == http.StatusInternalServerError {
			slog.Error("logout failed", "error", err)
		}
		JSONError(w, msg, status)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
