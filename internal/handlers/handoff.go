package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/hanwool/handoff-api/internal/middleware"
	"github.com/hanwool/handoff-api/internal/models"
	"github.com/hanwool/handoff-api/internal/repo"
)

// ==========================
// Handoff Handler
// ==========================
// Handoff notes are scoped to the caller's ward (affiliation). The guard
// resolves the caller; every repo call carries the caller's ward so notes of
// other wards are indistinguishable from absent ones.
type HandoffHandler struct {
	Repo *repo.HandoffRepo
}

// ==========================
// List: GET /handoffs
// ==========================
func (h *HandoffHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		JSONError(w, "missing bearer token", http.StatusUnauthorized)
		return
	}

	limit := 50
	offset := 0
	if l := r.URL.Query().Get("limit"); l != "" {
		if val, err := strconv.Atoi(l); err == nil && val > 0 {
			limit = val
		}
	}
	if o := r.URL.Query().Get("offset"); o != "" {
		if val, err := strconv.Atoi(o); err == nil && val >= 0 {
			offset = val
		}
	}

	handoffs, err := h.Repo.ListByWard(r.Context(), user.Affiliation, limit, offset)
	if err != nil {
		slog.Error("list handoffs failed", "error", err)
		JSONError(w, MsgInternal, http.StatusInternalServerError)
		return
	}
	total, err := h.Repo.CountByWard(r.Context(), user.Affiliation)
	if err != nil {
		slog.Error("count handoffs failed", "error", err)
		JSONError(w, MsgInternal, http.StatusInternalServerError)
		return
	}
	if handoffs == nil {
		handoffs = []models.Handoff{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"items":  handoffs,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

// ==========================
// Create: POST /handoffs
// ==========================
func (h *HandoffHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		JSONError(w, "missing bearer token", http.StatusUnauthorized)
		return
	}

	var input struct {
		PatientName string `json:"patientName" validate:"required,max=100"`
		Room        string `json:"room" validate:"max=20"`
		Diagnosis   string `json:"diagnosis" validate:"max=200"`
		Content     string `json:"content" validate:"required,max=2000"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(input); err != nil {
		JSONError(w, "validation failed", http.StatusBadRequest)
		return
	}

	handoff, err := h.Repo.Create(r.Context(), &models.Handoff{
		PatientName: input.PatientName,
		Room:        input.Room,
		Diagnosis:   input.Diagnosis,
		Content:     input.Content,
		Ward:        user.Affiliation,
		AuthorID:    user.ID,
	})
	if err != nil {
		slog.Error("create handoff failed", "error", err)
		JSONError(w, MsgInternal, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, handoff)
}

// ==========================
// Update: PATCH /handoffs/{id}
// ==========================
func (h *HandoffHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		JSONError(w, "missing bearer token", http.StatusUnauthorized)
		return
	}

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		JSONError(w, "invalid handoff id", http.StatusBadRequest)
		return
	}

	var input struct {
		PatientName string `json:"patientName" validate:"max=100"`
		Room        string `json:"room" validate:"max=20"`
		Diagnosis   string `json:"diagnosis" validate:"max=200"`
		Content     string `json:"content" validate:"max=2000"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(input); err != nil {
		JSONError(w, "validation failed", http.StatusBadRequest)
		return
	}

	err = h.Repo.Update(r.Context(), id, user.Affiliation, models.Handoff{
		PatientName: input.PatientName,
		Room:        input.Room,
		Diagnosis:   input.Diagnosis,
		Content:     input.Content,
	})
	if errors.Is(err, repo.ErrNotFound) {
		JSONError(w, "handoff not found", http.StatusNotFound)
		return
	}
	if err != nil {
		slog.Error("update handoff failed", "error", err)
		JSONError(w, MsgInternal, http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ==========================
// Delete: DELETE /handoffs/{id}
// ==========================
func (h *HandoffHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		JSONError(w, "missing bearer token", http.StatusUnauthorized)
		return
	}

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		JSONError(w, "invalid handoff id", http.StatusBadRequest)
		return
	}

	err = h.Repo.Delete(r.Context(), id, user.Affiliation)
	if errors.Is(err, repo.ErrNotFound) {
		JSONError(w, "handoff not found", http.StatusNotFound)
		return
	}
	if err != nil {
		slog.Error("delete handoff failed", "error", err)
		JSONError(w, MsgInternal, http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
