package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/hanwool/handoff-api/internal/auth"
	"github.com/hanwool/handoff-api/internal/repo"
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
)

var userCols = []string{"id", "account_id", "name", "phone_number", "affiliation", "role", "password_hash", "token"}

func newAuthHandler(t *testing.T) (*AuthHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	svc := auth.New(repo.NewUserRepo(db), []byte("test-secret"), time.Hour)
	return &AuthHandler{Auth: svc}, mock
}

func postJSON(t *testing.T, handler http.HandlerFunc, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest("POST", path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	handler(rr, req)
	return rr
}

func decodeMessage(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var out map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out["message"]
}

func TestSignup(t *testing.T) {
	h, mock := newAuthHandler(t)

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("hana.kim", sqlmock.AnyArg(), "Hana Kim", "010-1234-5678", "ICU", "nurse").
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow(1, "hana.kim", "Hana Kim", "010-1234-5678", "ICU", "nurse", "$2a$10$x", nil))

	rr := postJSON(t, h.Signup, "/user/signup", map[string]string{
		"accountId":   "hana.kim",
		"password":    "password123",
		"name":        "Hana Kim",
		"phoneNumber": "010-1234-5678",
		"affiliation": "ICU",
		"role":        "nurse",
	})

	if rr.Code != http.StatusCreated {
		t.Fatalf("Signup status: got %d, want 201 (body %s)", rr.Code, rr.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestSignup_DuplicateHandle(t *testing.T) {
	h, mock := newAuthHandler(t)

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("hana.kim", sqlmock.AnyArg(), "Hana Kim", "", "ICU", "nurse").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "users_account_id_key"})

	rr := postJSON(t, h.Signup, "/user/signup", map[string]string{
		"accountId":   "hana.kim",
		"password":    "password123",
		"name":        "Hana Kim",
		"affiliation": "ICU",
		"role":        "nurse",
	})

	if rr.Code != http.StatusConflict {
		t.Fatalf("Signup status: got %d, want 409", rr.Code)
	}
	if msg := decodeMessage(t, rr); msg != "account id already taken" {
		t.Errorf("unexpected message: %q", msg)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestSignup_Validation(t *testing.T) {
	h, _ := newAuthHandler(t)

	// Password too short and role unknown; nothing must reach the store.
	rr := postJSON(t, h.Signup, "/user/signup", map[string]string{
		"accountId":   "hana.kim",
		"password":    "short",
		"name":        "Hana Kim",
		"affiliation": "ICU",
		"role":        "janitor",
	})

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("Signup status: got %d, want 400", rr.Code)
	}
}

func TestLogin(t *testing.T) {
	h, mock := newAuthHandler(t)

	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	mock.ExpectQuery(`SELECT id, account_id`).
		WithArgs("hana.kim").
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow(1, "hana.kim", "Hana Kim", "", "ICU", "nurse", string(hash), nil))
	mock.ExpectExec(`UPDATE users SET token = NULLIF`).
		WithArgs(sqlmock.AnyArg(), 1).
		WillReturnResult(sqlmock.NewResult(0, 1))

	rr := postJSON(t, h.Login, "/user/login", map[string]string{
		"accountId": "hana.kim",
		"password":  "password123",
	})

	if rr.Code != http.StatusCreated {
		t.Fatalf("Login status: got %d, want 201 (body %s)", rr.Code, rr.Body.String())
	}
	var out map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out["accessToken"] == "" {
		t.Error("login response missing accessToken")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestLogin_UnknownAccount(t *testing.T) {
	h, mock := newAuthHandler(t)

	mock.ExpectQuery(`SELECT id, account_id`).
		WithArgs("nobody").
		WillReturnRows(sqlmock.NewRows(userCols))

	rr := postJSON(t, h.Login, "/user/login", map[string]string{
		"accountId": "nobody",
		"password":  "password123",
	})

	if rr.Code != http.StatusNotFound {
		t.Fatalf("Login status: got %d, want 404", rr.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	h, mock := newAuthHandler(t)

	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	mock.ExpectQuery(`SELECT id, account_id`).
		WithArgs("hana.kim").
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow(1, "hana.kim", "Hana Kim", "", "ICU", "nurse", string(hash), nil))

	rr := postJSON(t, h.Login, "/user/login", map[string]string{
		"accountId": "hana.kim",
		"password":  "wrong-password",
	})

	if rr.Code != http.StatusConflict {
		t.Fatalf("Login status: got %d, want 409", rr.Code)
	}
	if msg := decodeMessage(t, rr); msg != "wrong password" {
		t.Errorf("unexpected message: %q", msg)
	}
	// Only the lookup ran; a wrong password writes nothing.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestLogin_BadJSON(t *testing.T) {
	h, _ := newAuthHandler(t)

	req := httptest.NewRequest("POST", "/user/login", bytes.NewReader([]byte("not json")))
	rr := httptest.NewRecorder()
	h.Login(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("Login status: got %d, want 400", rr.Code)
	}
}

func TestLogout(t *testing.T) {
	h, mock := newAuthHandler(t)

	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	mock.ExpectQuery(`SELECT id, account_id`).
		WithArgs("hana.kim").
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow(1, "hana.kim", "Hana Kim", "", "ICU", "nurse", string(hash), nil))
	mock.ExpectExec(`UPDATE users SET token = NULLIF`).
		WithArgs(sqlmock.AnyArg(), 1).
		WillReturnResult(sqlmock.NewResult(0, 1))

	token, err := h.Auth.Login(httptest.NewRequest("GET", "/", nil).Context(), "hana.kim", "password123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	mock.ExpectQuery(`SELECT id, account_id`).
		WithArgs("hana.kim").
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow(1, "hana.kim", "Hana Kim", "", "ICU", "nurse", string(hash), token))
	mock.ExpectExec(`UPDATE users SET token = NULLIF`).
		WithArgs("", 1).
		WillReturnResult(sqlmock.NewResult(0, 1))

	req := httptest.NewRequest("POST", "/user/logout", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	h.Logout(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("Logout status: got %d, want 204 (body %s)", rr.Code, rr.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestLogout_MissingToken(t *testing.T) {
	h, _ := newAuthHandler(t)

	req := httptest.NewRequest("POST", "/user/logout", nil)
	rr := httptest.NewRecorder()
	h.Logout(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("Logout status: got %d, want 401", rr.Code)
	}
}

// A well-formed token whose account no longer exists: 404, never a silent
// success.
func TestLogout_AccountGone(t *testing.T) {
	h, mock := newAuthHandler(t)

	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	mock.ExpectQuery(`SELECT id, account_id`).
		WithArgs("hana.kim").
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow(1, "hana.kim", "Hana Kim", "", "ICU", "nurse", string(hash), nil))
	mock.ExpectExec(`UPDATE users SET token = NULLIF`).
		WithArgs(sqlmock.AnyArg(), 1).
		WillReturnResult(sqlmock.NewResult(0, 1))

	token, err := h.Auth.Login(httptest.NewRequest("GET", "/", nil).Context(), "hana.kim", "password123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	mock.ExpectQuery(`SELECT id, account_id`).
		WithArgs("hana.kim").
		WillReturnRows(sqlmock.NewRows(userCols))

	req := httptest.NewRequest("POST", "/user/logout", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	h.Logout(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("Logout status: got %d, want 404", rr.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}
