package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/hanwool/handoff-api/internal/config"
	"golang.org/x/crypto/bcrypt"
)

var userCols = []string{"id", "account_id", "name", "phone_number", "affiliation", "role", "password_hash", "token"}
var handoffCols = []string{"id", "patient_name", "room", "diagnosis", "content", "ward", "author_id", "created_at", "updated_at"}

func testConfig() config.Config {
	return config.Config{
		JWTSecret: "integration-secret",
		TokenTTL:  time.Hour,
	}
}

// Full round trip over the real router: signup, login, then list the ward's
// handoffs with the issued token.
func TestAPI_SignupLoginListHandoffs(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	now := time.Now()

	// Signup inserts the user.
	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("hana.kim", sqlmock.AnyArg(), "Hana Kim", "010-1234-5678", "ICU", "nurse").
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow(1, "hana.kim", "Hana Kim", "010-1234-5678", "ICU", "nurse", string(hash), nil))

	// Login looks the user up and stores the issued token.
	mock.ExpectQuery(`SELECT id, account_id`).
		WithArgs("hana.kim").
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow(1, "hana.kim", "Hana Kim", "010-1234-5678", "ICU", "nurse", string(hash), nil))
	mock.ExpectExec(`UPDATE users SET token = NULLIF`).
		WithArgs(sqlmock.AnyArg(), 1).
		WillReturnResult(sqlmock.NewResult(0, 1))

	// GET /handoffs: the guard resolves the account, then the ward list.
	mock.ExpectQuery(`SELECT id, account_id`).
		WithArgs("hana.kim").
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow(1, "hana.kim", "Hana Kim", "010-1234-5678", "ICU", "nurse", string(hash), "tok"))
	mock.ExpectQuery(`SELECT id, patient_name`).
		WithArgs("ICU", 50, 0).
		WillReturnRows(sqlmock.NewRows(handoffCols).
			AddRow(1, "J. Park", "301", "pneumonia", "stable overnight", "ICU", 1, now, now))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM handoffs`).
		WithArgs("ICU").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	srv := httptest.NewServer(newRouter(db, testConfig()))
	defer srv.Close()

	// 1) Signup
	signupBody, _ := json.Marshal(map[string]string{
		"accountId":   "hana.kim",
		"password":    "password123",
		"name":        "Hana Kim",
		"phoneNumber": "010-1234-5678",
		"affiliation": "ICU",
		"role":        "nurse",
	})
	signupResp, err := http.Post(srv.URL+"/user/signup", "application/json", bytes.NewReader(signupBody))
	if err != nil {
		t.Fatalf("signup request: %v", err)
	}
	signupResp.Body.Close()
	if signupResp.StatusCode != http.StatusCreated {
		t.Fatalf("signup status: got %d, want 201", signupResp.StatusCode)
	}

	// 2) Login
	loginBody, _ := json.Marshal(map[string]string{
		"accountId": "hana.kim",
		"password":  "password123",
	})
	loginResp, err := http.Post(srv.URL+"/user/login", "application/json", bytes.NewReader(loginBody))
	if err != nil {
		t.Fatalf("login request: %v", err)
	}
	defer loginResp.Body.Close()
	if loginResp.StatusCode != http.StatusCreated {
		t.Fatalf("login status: got %d, want 201", loginResp.StatusCode)
	}
	var loginOut struct {
		AccessToken string `json:"accessToken"`
	}
	if err := json.NewDecoder(loginResp.Body).Decode(&loginOut); err != nil || loginOut.AccessToken == "" {
		t.Fatalf("login response: err=%v token=%q", err, loginOut.AccessToken)
	}

	// 3) List handoffs with the bearer token
	req, _ := http.NewRequest("GET", srv.URL+"/handoffs", nil)
	req.Header.Set("Authorization", "Bearer "+loginOut.AccessToken)
	listResp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("handoffs request: %v", err)
	}
	defer listResp.Body.Close()
	if listResp.StatusCode != http.StatusOK {
		t.Fatalf("GET /handoffs status: got %d, want 200", listResp.StatusCode)
	}
	var listOut struct {
		Items []struct {
			PatientName string `json:"patientName"`
			Ward        string `json:"ward"`
		} `json:"items"`
		Total int `json:"total"`
	}
	if err := json.NewDecoder(listResp.Body).Decode(&listOut); err != nil {
		t.Fatalf("decode handoffs: %v", err)
	}
	if listOut.Total != 1 || len(listOut.Items) != 1 || listOut.Items[0].PatientName != "J. Park" {
		t.Errorf("unexpected handoffs: %+v", listOut)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestAPI_ProtectedRoutesRejectMissingToken(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	srv := httptest.NewServer(newRouter(db, testConfig()))
	defer srv.Close()

	for _, route := range []struct {
		method, path string
	}{
		{"GET", "/user/info"},
		{"PATCH", "/user"},
		{"DELETE", "/user"},
		{"POST", "/user/logout"},
		{"GET", "/handoffs"},
		{"POST", "/handoffs"},
	} {
		req, _ := http.NewRequest(route.method, srv.URL+route.path, nil)
		resp, err := srv.Client().Do(req)
		if err != nil {
			t.Fatalf("%s %s: %v", route.method, route.path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("%s %s: got %d, want 401", route.method, route.path, resp.StatusCode)
		}
	}
}

func TestAPI_Health(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	srv := httptest.NewServer(newRouter(db, testConfig()))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("health request: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("GET /health status: got %d, want 200", resp.StatusCode)
	}
}

func TestAPI_Ready(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectPing()

	srv := httptest.NewServer(newRouter(db, testConfig()))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/ready")
	if err != nil {
		t.Fatalf("ready request: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("GET /ready status: got %d, want 200", resp.StatusCode)
	}
}
