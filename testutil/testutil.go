// Copyright (c) 2025 Jockie-stack.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"

	"github.com/Jockie-stack/CVL-app/auth"
	"github.com/Jockie-stack/CVL-app/cliparse"
	"github.com/Jockie-stack/CVL-app/db"
	"github.com/Jockie-stack/CVL-app/models"
)

// TestAdminPassword is the plaintext matching the test config's bcrypt hash.
const TestAdminPassword = "conseil-vie-lyceenne"

// TestDeviceID is a valid device identifier header value.
const TestDeviceID = "test-device-0001"

// Hashed once per test binary; cost 12 matches production.
var testAdminHash = func() string {
	h, err := bcrypt.GenerateFromPassword([]byte(TestAdminPassword), 12)
	if err != nil {
		panic(err)
	}
	return string(h)
}()

// SetupTestDB creates a fresh in-memory SQLite database with the full
// schema. MaxOpenConns(1) keeps the pool on the single shared connection
// the :memory: database lives on.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	conn.SetMaxOpenConns(1)

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:              8090,
		DatabaseURL:       ":memory:",
		DatabaseType:      "sqlite",
		SessionSecret:     "test-session-secret",
		SessionCookie:     "cvl_session",
		SessionTTL:        8 * time.Hour,
		AdminPasswordHash: testAdminHash,
		CooldownSeconds:   60,
		Environment:       "test",
	}
}

// CreateTestPoll inserts a poll and returns its ID
func CreateTestPoll(t *testing.T, conn *sql.DB, question string, options []string, active bool) string {
	t.Helper()

	pollID := uuid.NewString()
	encoded, err := models.EncodeOptions(options)
	if err != nil {
		t.Fatalf("Failed to encode options: %v", err)
	}

	_, err = conn.Exec(`
		INSERT INTO poll (id, question, options, active, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, pollID, question, encoded, active, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test poll: %v", err)
	}

	return pollID
}

// CreateTestIdea inserts an idea for the given device hash with an
// explicit creation time (cooldown tests backdate it).
func CreateTestIdea(t *testing.T, conn *sql.DB, deviceHash string, createdAt time.Time) string {
	t.Helper()

	ideaID := uuid.NewString()
	_, err := conn.Exec(`
		INSERT INTO idea (id, text, category, urgency, status, device_hash, created_at)
		VALUES ($1, 'Test idea', $2, $3, $4, $5, $6)
	`, ideaID, models.CategoryOther, models.UrgencyMedium, models.IdeaStatusNew, deviceHash, createdAt)
	if err != nil {
		t.Fatalf("Failed to create test idea: %v", err)
	}

	return ideaID
}

// CreateTestSubscription inserts a push subscription for the endpoint
func CreateTestSubscription(t *testing.T, conn *sql.DB, endpoint string) {
	t.Helper()

	payload := `{"endpoint":"` + endpoint + `","keys":{"p256dh":"test-p256dh","auth":"test-auth"}}`
	now := time.Now()
	_, err := conn.Exec(`
		INSERT INTO push_subscription (endpoint, payload, device_hash, user_agent, created_at, updated_at)
		VALUES ($1, $2, $3, 'test-agent', $4, $4)
	`, endpoint, payload, auth.HashDeviceID(TestDeviceID), now)
	if err != nil {
		t.Fatalf("Failed to create test subscription: %v", err)
	}
}

// AdminCookie mints a valid admin session cookie for the test config
func AdminCookie(t *testing.T, cfg cliparse.Config) *http.Cookie {
	t.Helper()

	token, _, err := auth.NewSessionToken(cfg.SessionSecret, cfg.SessionTTL, time.Now())
	if err != nil {
		t.Fatalf("Failed to mint session token: %v", err)
	}
	return &http.Cookie{Name: cfg.SessionCookie, Value: token}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// DeviceRequest creates a request carrying the standard test device header
func DeviceRequest(method, path string, body interface{}) *http.Request {
	return MakeRequest(method, path, body, map[string]string{"X-Device-Id": TestDeviceID})
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
