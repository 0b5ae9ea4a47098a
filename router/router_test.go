// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/campus-vote/models"
	"github.com/danielhkuo/campus-vote/testutil"
)

func TestHealthEndpoint(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	mux := NewRouter(db, testutil.GetTestConfig())

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if w.Body.String() != "OK" {
		t.Errorf("Expected body 'OK', got '%s'", w.Body.String())
	}
}

func TestRootEndpoint(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	mux := NewRouter(db, testutil.GetTestConfig())

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if w.Body.String() != "campus-vote API v1" {
		t.Errorf("Unexpected banner %q", w.Body.String())
	}

	req = httptest.NewRequest("GET", "/no-such-page", nil)
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown path, got %d", w.Code)
	}
}

func TestRouteExistence(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	mux := NewRouter(db, testutil.GetTestConfig())

	// Anonymous requests; each route should answer with something other than 404/405
	routes := []struct {
		method string
		path   string
	}{
		{"POST", "/api/auth/register"},
		{"POST", "/api/auth/login"},
		{"GET", "/api/auth/me"},
		{"GET", "/api/elections"},
		{"POST", "/api/elections"},
		{"PUT", "/api/elections/some-id"},
		{"DELETE", "/api/elections/some-id"},
		{"POST", "/api/vote"},
		{"GET", "/api/elections/some-id/vote-status"},
		{"GET", "/api/elections/some-id/audit"},
		{"GET", "/api/admin/stats"},
	}

	for _, route := range routes {
		t.Run(route.method+" "+route.path, func(t *testing.T) {
			req := testutil.MakeRequest(route.method, route.path, map[string]string{}, nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			if w.Code == http.StatusNotFound || w.Code == http.StatusMethodNotAllowed {
				t.Errorf("Route %s %s not registered (status %d)", route.method, route.path, w.Code)
			}
		})
	}
}

func TestMethodNotAllowed(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	mux := NewRouter(db, testutil.GetTestConfig())

	testCases := []struct {
		method string
		path   string
	}{
		{"GET", "/api/vote"},
		{"DELETE", "/api/auth/login"},
		{"PATCH", "/api/elections/some-id"},
		{"POST", "/api/elections/some-id/results"},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			if w.Code != http.StatusMethodNotAllowed {
				t.Errorf("Expected 405, got %d", w.Code)
			}
		})
	}
}

// TestVotingFlow drives the whole API the way the frontend does
func TestVotingFlow(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	mux := NewRouter(db, testutil.GetTestConfig())

	do := func(method, path string, body interface{}, token string) *httptest.ResponseRecorder {
		var headers map[string]string
		if token != "" {
			headers = testutil.Bearer(token)
		}
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, testutil.MakeRequest(method, path, body, headers))
		return w
	}

	// Admin registers through the configured admin email
	w := do("POST", "/api/auth/register", models.RegisterRequest{
		Name: "Registrar", Email: testutil.TestAdminEmail, Password: "admin-pass",
	}, "")
	testutil.AssertStatus(t, w, http.StatusCreated)
	var admin models.AuthResponse
	testutil.AssertJSON(t, w, &admin)
	if admin.User.Role != models.RoleAdmin {
		t.Fatalf("Expected admin role, got %q", admin.User.Role)
	}

	// A student registers and logs in
	w = do("POST", "/api/auth/register", models.RegisterRequest{
		Name: "Ada", Email: "ada@vote.test", Password: "student-pass",
	}, "")
	testutil.AssertStatus(t, w, http.StatusCreated)

	w = do("POST", "/api/auth/login", models.LoginRequest{Email: "ada@vote.test", Password: "student-pass"}, "")
	testutil.AssertStatus(t, w, http.StatusOK)
	var student models.AuthResponse
	testutil.AssertJSON(t, w, &student)

	w = do("GET", "/api/auth/me", nil, student.Token)
	testutil.AssertStatus(t, w, http.StatusOK)

	// Students cannot create elections
	create := models.CreateElectionRequest{
		Title:       "Student Union President",
		Description: "Annual election",
		Category:    "Student Union",
		Candidates: []models.CandidateInput{
			{Name: "Alice", Position: "President"},
			{Name: "Bob", Position: "President"},
		},
	}
	w = do("POST", "/api/elections", create, student.Token)
	testutil.AssertStatus(t, w, http.StatusForbidden)

	w = do("POST", "/api/elections", create, admin.Token)
	testutil.AssertStatus(t, w, http.StatusCreated)
	var election models.Election
	testutil.AssertJSON(t, w, &election)

	// Vote once, then again
	vote := models.SubmitVoteRequest{ElectionID: election.ID, CandidateID: election.Candidates[1].ID}
	w = do("POST", "/api/vote", vote, student.Token)
	testutil.AssertStatus(t, w, http.StatusCreated)

	w = do("POST", "/api/vote", vote, student.Token)
	testutil.AssertStatus(t, w, http.StatusConflict)
	testutil.AssertErrorCode(t, w, "already_voted")

	w = do("GET", "/api/elections/"+election.ID+"/vote-status", nil, student.Token)
	testutil.AssertStatus(t, w, http.StatusOK)
	var status models.VoteStatusResponse
	testutil.AssertJSON(t, w, &status)
	if !status.HasVoted {
		t.Error("Expected vote-status hasVoted=true")
	}

	// Public results
	w = do("GET", "/api/elections/"+election.ID+"/results", nil, "")
	testutil.AssertStatus(t, w, http.StatusOK)
	var tally models.Tally
	testutil.AssertJSON(t, w, &tally)
	if tally.TotalVotes != 1 || tally.Results[0].Candidate.Name != "Bob" || tally.Results[0].Percentage != 100 {
		t.Errorf("Unexpected tally: %+v", tally)
	}

	// Close the election; a second student can no longer vote
	closed := false
	w = do("PUT", "/api/elections/"+election.ID, models.UpdateElectionRequest{IsOpen: &closed}, admin.Token)
	testutil.AssertStatus(t, w, http.StatusOK)

	w = do("POST", "/api/auth/register", models.RegisterRequest{
		Name: "Bea", Email: "bea@vote.test", Password: "student-pass",
	}, "")
	testutil.AssertStatus(t, w, http.StatusCreated)
	var late models.AuthResponse
	testutil.AssertJSON(t, w, &late)

	w = do("POST", "/api/vote", vote, late.Token)
	testutil.AssertStatus(t, w, http.StatusConflict)
	testutil.AssertErrorCode(t, w, "election_closed")

	w = do("GET", "/api/elections/"+election.ID+"/audit", nil, admin.Token)
	testutil.AssertStatus(t, w, http.StatusOK)
	var audit models.TallyAudit
	testutil.AssertJSON(t, w, &audit)
	if !audit.Consistent || audit.RecordCount != 1 {
		t.Errorf("Unexpected audit: %+v", audit)
	}

	// Deleting the election takes its votes with it
	w = do("DELETE", "/api/elections/"+election.ID, nil, admin.Token)
	testutil.AssertStatus(t, w, http.StatusOK)
	if n := testutil.CountVoteRecords(t, db, election.ID); n != 0 {
		t.Errorf("Expected vote records removed, got %d", n)
	}

	w = do("GET", "/api/admin/stats", nil, admin.Token)
	testutil.AssertStatus(t, w, http.StatusOK)
	var stats models.DirectoryStats
	testutil.AssertJSON(t, w, &stats)
	if stats.Elections != 0 || stats.Voters != 3 || stats.TotalVotes != 0 {
		t.Errorf("Unexpected stats: %+v", stats)
	}
}
