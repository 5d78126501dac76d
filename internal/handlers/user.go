package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hanwool/handoff-api/internal/middleware"
	"github.com/hanwool/handoff-api/internal/models"
	"github.com/hanwool/handoff-api/internal/repo"
	"golang.org/x/crypto/bcrypt"
)

// ==========================
// User Handler
// ==========================
// All routes here sit behind the auth guard; the current user comes from the
// request context.
type UserHandler struct {
	Users *repo.UserRepo
}

// profileResponse is the public view of a user. The password hash and the
// stored token must never appear here.
type profileResponse struct {
	AccountID   string `json:"accountId"`
	Name        string `json:"name"`
	PhoneNumber string `json:"phoneNumber"`
	Affiliation string `json:"affiliation"`
	Role        string `json:"role"`
}

// ==========================
// Info: GET /user/info
// ==========================
func (h *UserHandler) Info(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		JSONError(w, "missing bearer token", http.StatusUnauthorized)
		return
	}

	writeJSON(w, http.StatusOK, profileResponse{
		AccountID:   user.AccountID,
		Name:        user.Name,
		PhoneNumber: user.PhoneNumber,
		Affiliation: user.Affiliation,
		Role:        user.Role,
	})
}

// ==========================
// Update: PATCH /user
// ==========================
// Empty fields are left unchanged. A new password is re-hashed before it
// reaches the store.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		JSONError(w, "missing bearer token", http.StatusUnauthorized)
		return
	}

	var input struct {
		Password    string `json:"password" validate:"omitempty,min=8,max=72"`
		Name        string `json:"name" validate:"max=100"`
		PhoneNumber string `json:"phoneNumber" validate:"max=20"`
		Affiliation string `json:"affiliation" validate:"max=100"`
		Role        string `json:"role" validate:"omitempty,oneof=doctor nurse"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(input); err != nil {
		JSONError(w, "validation failed", http.StatusBadRequest)
		return
	}

	var passwordHash string
	if input.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			slog.Error("hash password", "error", err)
			JSONError(w, MsgInternal, http.StatusInternalServerError)
			return
		}
		passwordHash = string(hash)
	}

	err := h.Users.UpdateProfile(r.Context(), user.ID, models.Profile{
		Name:        input.Name,
		PhoneNumber: input.PhoneNumber,
		Affiliation: input.Affiliation,
		Role:        input.Role,
	}, passwordHash)
	if errors.Is(err, repo.ErrNotFound) {
		JSONError(w, "account not found", http.StatusNotFound)
		return
	}
	if err != nil {
		slog.Error("update profile failed", "error", err)
		JSONError(w, MsgInternal, http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ==========================
// Delete: DELETE /user
// ==========================
// Deleting the row drops the stored token with it; the presented token stays
// cryptographically valid until expiry but resolves to 404 afterwards.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		JSONError(w, "missing bearer token", http.StatusUnauthorized)
		return
	}

	err := h.Users.Delete(r.Context(), user.ID)
	if errors.Is(err, repo.ErrNotFound) {
		JSONError(w, "account not found", http.StatusNotFound)
		return
	}
	if err != nil {
		slog.Error("delete account failed", "error", err)
		JSONError(w, MsgInternal, http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
