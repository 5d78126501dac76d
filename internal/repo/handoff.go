package repo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/hanwool/handoff-api/internal/models"
)

// ==========================
// HandoffRepo
// ==========================
type HandoffRepo struct {
	DB *sql.DB
}

func NewHandoffRepo(db *sql.DB) *HandoffRepo {
	return &HandoffRepo{DB: db}
}

const handoffColumns = `id, patient_name, room, diagnosis, content, ward, author_id, created_at, updated_at`

// ==========================
// Create Handoff
// ==========================
func (r *HandoffRepo) Create(ctx context.Context, h *models.Handoff) (*models.Handoff, error) {
	query := `
		INSERT INTO handoffs (patient_name, room, diagnosis, content, ward, author_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + handoffColumns

	out := &models.Handoff{}
	err := r.DB.QueryRowContext(ctx, query,
		h.PatientName, h.Room, h.Diagnosis, h.Content, h.Ward, h.AuthorID).
		Scan(&out.ID, &out.PatientName, &out.Room, &out.Diagnosis, &out.Content,
			&out.Ward, &out.AuthorID, &out.CreatedAt, &out.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ==========================
// List By Ward
// ==========================
// ListByWard returns the ward's handoffs, newest first.
func (r *HandoffRepo) ListByWard(ctx context.Context, ward string, limit, offset int) ([]models.Handoff, error) {
	query := `
		SELECT ` + handoffColumns + `
		FROM handoffs
		WHERE ward = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.DB.QueryContext(ctx, query, ward, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var handoffs []models.Handoff
	for rows.Next() {
		var h models.Handoff
		if err := rows.Scan(&h.ID, &h.PatientName, &h.Room, &h.Diagnosis, &h.Content,
			&h.Ward, &h.AuthorID, &h.CreatedAt, &h.UpdatedAt); err != nil {
			return nil, err
		}
		handoffs = append(handoffs, h)
	}
	return handoffs, rows.Err()
}

// ==========================
// Count By Ward
// ==========================
func (r *HandoffRepo) CountByWard(ctx context.Context, ward string) (int, error) {
	var total int
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM handoffs WHERE ward = $1`, ward).Scan(&total)
	return total, err
}

// ==========================
// Get By ID (ward scoped)
// ==========================
// GetByID only sees rows in the given ward; notes of another ward look the
// same as absent ones.
func (r *HandoffRepo) GetByID(ctx context.Context, id int, ward string) (*models.Handoff, error) {
	query := `SELECT ` + handoffColumns + ` FROM handoffs WHERE id = $1 AND ward = $2`
	h := &models.Handoff{}
	err := r.DB.QueryRowContext(ctx, query, id, ward).
		Scan(&h.ID, &h.PatientName, &h.Room, &h.Diagnosis, &h.Content,
			&h.Ward, &h.AuthorID, &h.CreatedAt, &h.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return h, nil
}

// ==========================
// Update Handoff (ward scoped)
// ==========================
// Update patches the given fields; empty fields keep their current value.
func (r *HandoffRepo) Update(ctx context.Context, id int, ward string, h models.Handoff) error {
	query := `
		UPDATE handoffs
		SET patient_name = COALESCE(NULLIF($1, ''), patient_name),
		    room         = COALESCE(NULLIF($2, ''), room),
		    diagnosis    = COALESCE(NULLIF($3, ''), diagnosis),
		    content      = COALESCE(NULLIF($4, ''), content),
		    updated_at   = NOW()
		WHERE id = $5 AND ward = $6
	`
	result, err := r.DB.ExecContext(ctx, query,
		h.PatientName, h.Room, h.Diagnosis, h.Content, id, ward)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// ==========================
// Delete Handoff (ward scoped)
// ==========================
func (r *HandoffRepo) Delete(ctx context.Context, id int, ward string) error {
	result, err := r.DB.ExecContext(ctx,
		`DELETE FROM handoffs WHERE id = $1 AND ward = $2`, id, ward)
	if err != nil {
		return err
	}
	return requireRow(result)
}
