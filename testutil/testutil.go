// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielhkuo/campus-vote/auth"
	"github.com/danielhkuo/campus-vote/cliparse"
	"github.com/danielhkuo/campus-vote/db"
	"github.com/danielhkuo/campus-vote/models"
)

// TestJWTSecret signs every token minted by the fixtures
const TestJWTSecret = "test-jwt-secret"

// TestAdminEmail registers with the admin role under GetTestConfig
const TestAdminEmail = "admin@vote.test"

// SetupTestDB creates a fresh SQLite database file with the full schema
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "campus-vote.db")
	conn, err := db.Open(cliparse.DatabaseSQLite, path)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if err := db.CreateSchema(conn); err != nil {
		conn.Close()
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration. The tally cache is
// disabled so assertions always see committed counters.
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:          3318,
		DatabaseURL:   "file::memory:",
		DatabaseType:  cliparse.DatabaseSQLite,
		JWTSecret:     TestJWTSecret,
		TokenTTL:      time.Hour,
		AdminEmails:   []string{TestAdminEmail},
		TallyCacheTTL: 0,
	}
}

// CreateTestVoter inserts a voter with the given role and returns its ID and a signed token
func CreateTestVoter(t *testing.T, db *sql.DB, name, role string) (voterID, token string) {
	t.Helper()

	voterID = auth.GenerateID()
	email := voterID + "@vote.test"
	// Fixed hash; fixtures never log in with a password
	_, err := db.Exec(`
		INSERT INTO voter (id, name, email, password_hash, role, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, voterID, name, email, "$2a$10$fixturefixturefixturefixturefixturefixturefixturefixtu", role, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test voter: %v", err)
	}

	token, err = auth.IssueToken(auth.Identity{VoterID: voterID, Role: role}, TestJWTSecret, time.Hour, time.Now())
	if err != nil {
		t.Fatalf("Failed to issue test token: %v", err)
	}
	return voterID, token
}

// CreateTestAdmin is CreateTestVoter with the admin role
func CreateTestAdmin(t *testing.T, db *sql.DB) (adminID, token string) {
	t.Helper()
	return CreateTestVoter(t, db, "Test Admin", models.RoleAdmin)
}

// CreateTestElection inserts an election with no candidates and returns its ID
func CreateTestElection(t *testing.T, db *sql.DB, title string, isOpen bool) string {
	t.Helper()

	electionID := auth.GenerateID()
	_, err := db.Exec(`
		INSERT INTO election (id, title, description, category, is_open, created_at)
		VALUES ($1, $2, 'A test election', 'Student Union', $3, $4)
	`, electionID, title, isOpen, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test election: %v", err)
	}

	return electionID
}

// AddTestCandidate appends a candidate to an election roster and returns its ID
func AddTestCandidate(t *testing.T, db *sql.DB, electionID, name string) string {
	t.Helper()

	var seq int
	if err := db.QueryRow(`SELECT COUNT(*) FROM candidate WHERE election_id = $1`, electionID).Scan(&seq); err != nil {
		t.Fatalf("Failed to count candidates: %v", err)
	}

	candidateID := auth.GenerateID()
	_, err := db.Exec(`
		INSERT INTO candidate (id, election_id, name, position, photo, votes, seq)
		VALUES ($1, $2, $3, 'President', $4, 0, $5)
	`, candidateID, electionID, name, models.DefaultCandidatePhoto, seq)
	if err != nil {
		t.Fatalf("Failed to create test candidate: %v", err)
	}

	return candidateID
}

// SetTestVotes overwrites a candidate counter without writing vote records
func SetTestVotes(t *testing.T, db *sql.DB, candidateID string, votes int) {
	t.Helper()

	if _, err := db.Exec(`UPDATE candidate SET votes = $1 WHERE id = $2`, votes, candidateID); err != nil {
		t.Fatalf("Failed to set test votes: %v", err)
	}
}

// CountVoteRecords returns the number of vote records for an election
func CountVoteRecords(t *testing.T, db *sql.DB, electionID string) int {
	t.Helper()

	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM vote_record WHERE election_id = $1`, electionID).Scan(&n); err != nil {
		t.Fatalf("Failed to count vote records: %v", err)
	}
	return n
}

// CandidateVotes returns the stored counter of a candidate
func CandidateVotes(t *testing.T, db *sql.DB, candidateID string) int {
	t.Helper()

	var n int
	if err := db.QueryRow(`SELECT votes FROM candidate WHERE id = $1`, candidateID).Scan(&n); err != nil {
		t.Fatalf("Failed to read candidate votes: %v", err)
	}
	return n
}

// Bearer returns request headers carrying token
func Bearer(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
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

// AssertErrorCode decodes an error body and checks its code
func AssertErrorCode(t *testing.T, w *httptest.ResponseRecorder, code string) {
	t.Helper()
	var resp models.ErrorResponse
	AssertJSON(t, w, &resp)
	if resp.Code != code {
		t.Errorf("Expected error code %q, got %q (message %q)", code, resp.Code, resp.Message)
	}
}
