// Package auth implements registration, login, logout and per-request token
// authorization on top of the user repository. It is the single place that
// touches passwords and bearer tokens; handlers only see *models.User and
// the error taxonomy in errors.go.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/hanwool/handoff-api/internal/models"
	"github.com/hanwool/handoff-api/internal/repo"
	"golang.org/x/crypto/bcrypt"
)

// DefaultTokenTTL is the bearer token lifetime when the config does not
// override it.
const DefaultTokenTTL = time.Hour

// Claims is the signed token payload: the account handle plus issued-at and
// expiry registered claims.
type Claims struct {
	AccountID string `json:"accountId"`
	jwt.RegisteredClaims
}

type Service struct {
	Users    *repo.UserRepo
	Secret   []byte
	TokenTTL time.Duration

	// now is swapped in tests to control issued-at and expiry checks.
	now func() time.Time
}

func New(users *repo.UserRepo, secret []byte, tokenTTL time.Duration) *Service {
	if tokenTTL <= 0 {
		tokenTTL = DefaultTokenTTL
	}
	return &Service{
		Users:    users,
		Secret:   secret,
		TokenTTL: tokenTTL,
		now:      time.Now,
	}
}

// ==========================
// Register
// ==========================
// Register hashes the password with bcrypt (cost 10) and creates the user.
// Returns ErrConflict when the account id is taken. Nothing sensitive is
// returned to the caller.
func (s *Service) Register(ctx context.Context, accountID, password string, p models.Profile) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	_, err = s.Users.Create(ctx, accountID, string(hash), p)
	if errors.Is(err, repo.ErrDuplicateHandle) {
		return ErrConflict
	}
	return err
}

// ==========================
// Login
// ==========================
// Login verifies the password and issues a signed token expiring TokenTTL
// from now. The token is persisted as the account's single active session,
// overwriting whatever was stored before. On any failure no store write
// happens.
func (s *Service) Login(ctx context.Context, accountID, password string) (string, error) {
	user, err := s.Users.GetByAccountID(ctx, accountID)
	if errors.Is(err, repo.ErrNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}

	// bcrypt comparison is constant-time for the hash itself.
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	issuedAt := s.now()
	claims := Claims{
		AccountID: user.AccountID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.TokenTTL)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	if err := s.Users.SetToken(ctx, user.ID, signed); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}
	return signed, nil
}

// ==========================
// Authorize
// ==========================
// Authorize verifies signature and expiry of the presented token and
// resolves the account it names. The stored token is deliberately not
// compared against the presented one: logout and account deletion only clear
// the store's pointer, so an already-issued token keeps working until its
// expiry. See the logout tests, which pin this down.
func (s *Service) Authorize(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, ErrUnauthorized
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(t *jwt.Token) (interface{}, error) { return s.Secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid || claims.AccountID == "" {
		return nil, ErrUnauthorized
	}

	user, err := s.Users.GetByAccountID(ctx, claims.AccountID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// ==========================
// Logout
// ==========================
// Logout verifies the token like Authorize and clears the stored session
// pointer. A second logout with the same token still succeeds as long as the
// token has not expired, since verification never consults the stored value.
func (s *Service) Logout(ctx context.Context, token string) error {
	user, err := s.Authorize(ctx, token)
	if err != nil {
		return err
	}
	if err := s.Users.SetToken(ctx, user.ID, ""); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}
