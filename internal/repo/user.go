package repo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/hanwool/handoff-api/internal/models"
	"github.com/lib/pq"
)

// ==========================
// UserRepo (credential store)
// ==========================
type UserRepo struct {
	DB *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{DB: db}
}

const userColumns = `id, account_id, name, phone_number, affiliation, role, password_hash, token`

func scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	var token sql.NullString
	err := row.Scan(
		&user.ID,
		&user.AccountID,
		&user.Name,
		&user.PhoneNumber,
		&user.Affiliation,
		&user.Role,
		&user.PasswordHash,
		&token,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	user.Token = token.String
	return user, nil
}

// ==========================
// Create User
// ==========================
// Create inserts a new user. Uniqueness of account_id is enforced by the
// database; a unique_violation maps to ErrDuplicateHandle so callers do not
// need a racy pre-check.
func (r *UserRepo) Create(ctx context.Context, accountID, passwordHash string, p models.Profile) (*models.User, error) {
	query := `
		INSERT INTO users (account_id, password_hash, name, phone_number, affiliation, role)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + userColumns

	user, err := scanUser(r.DB.QueryRowContext(ctx, query,
		accountID, passwordHash, p.Name, p.PhoneNumber, p.Affiliation, p.Role))
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return nil, ErrDuplicateHandle
		}
		return nil, err
	}
	return user, nil
}

// ==========================
// Get By Account ID
// ==========================
func (r *UserRepo) GetByAccountID(ctx context.Context, accountID string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE account_id = $1`
	return scanUser(r.DB.QueryRowContext(ctx, query, accountID))
}

// ==========================
// Get By ID
// ==========================
func (r *UserRepo) GetByID(ctx context.Context, id int) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.DB.QueryRowContext(ctx, query, id))
}

// ==========================
// Update Profile
// ==========================
// UpdateProfile patches profile fields and, when passwordHash is non-empty,
// the credential hash. Empty fields keep their current value.
func (r *UserRepo) UpdateProfile(ctx context.Context, id int, p models.Profile, passwordHash string) error {
	query := `
		UPDATE users
		SET name          = COALESCE(NULLIF($1, ''), name),
		    phone_number  = COALESCE(NULLIF($2, ''), phone_number),
		    affiliation   = COALESCE(NULLIF($3, ''), affiliation),
		    role          = COALESCE(NULLIF($4, ''), role),
		    password_hash = COALESCE(NULLIF($5, ''), password_hash)
		WHERE id = $6
	`
	result, err := r.DB.ExecContext(ctx, query,
		p.Name, p.PhoneNumber, p.Affiliation, p.Role, passwordHash, id)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// ==========================
// Set Token
// ==========================
// SetToken stores the most recently issued bearer token. An empty token
// clears the column (logout).
func (r *UserRepo) SetToken(ctx context.Context, id int, token string) error {
	result, err := r.DB.ExecContext(ctx,
		`UPDATE users SET token = NULLIF($1, '') WHERE id = $2`, token, id)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// ==========================
// Delete User
// ==========================
// Delete removes the row, which also discards the stored token reference.
func (r *UserRepo) Delete(ctx context.Context, id int) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// requireRow converts "zero rows affected" into ErrNotFound so concurrent
// deletion surfaces the same way as a bad id.
func requireRow(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
