// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"testing"

	"github.com/danielhkuo/campus-vote/models"
	"github.com/danielhkuo/campus-vote/testutil"
)

func TestGetResultsHandler(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	votes, dir := services(db)
	handler := NewResultsHandler(votes, dir)

	electionID := testutil.CreateTestElection(t, db, "Student President", true)
	alice := testutil.AddTestCandidate(t, db, electionID, "Alice")
	bob := testutil.AddTestCandidate(t, db, electionID, "Bob")
	carol := testutil.AddTestCandidate(t, db, electionID, "Carol")

	// bob 3, alice 1, carol 0
	for _, pick := range []string{bob, alice, bob, bob} {
		voterID, _ := testutil.CreateTestVoter(t, db, "Voter", models.RoleVoter)
		if _, err := votes.SubmitVote(t.Context(), voterID, electionID, pick); err != nil {
			t.Fatalf("SubmitVote failed: %v", err)
		}
	}

	req := testutil.MakeRequest("GET", "/api/elections/"+electionID+"/results", nil, nil)
	w := serve(handler.GetResults, req, electionID)
	testutil.AssertStatus(t, w, http.StatusOK)

	var tally models.Tally
	testutil.AssertJSON(t, w, &tally)
	if tally.TotalVotes != 4 || len(tally.Results) != 3 {
		t.Fatalf("Unexpected tally: %+v", tally)
	}

	want := []struct {
		id   string
		pct  float64
		rank int
	}{{bob, 75.0, 1}, {alice, 25.0, 2}, {carol, 0, 3}}
	for i, e := range want {
		got := tally.Results[i]
		if got.Candidate.ID != e.id || got.Percentage != e.pct || got.Rank != e.rank {
			t.Errorf("Entry %d: expected %s %.1f%% rank %d, got %s %.1f%% rank %d",
				i, e.id, e.pct, e.rank, got.Candidate.ID, got.Percentage, got.Rank)
		}
	}

	req = testutil.MakeRequest("GET", "/api/elections/nope/results", nil, nil)
	w = serve(handler.GetResults, req, "nope")
	testutil.AssertStatus(t, w, http.StatusNotFound)
}

func TestGetAuditHandler(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	votes, dir := services(db)
	handler := NewResultsHandler(votes, dir)

	_, adminToken := testutil.CreateTestAdmin(t, db)
	voterID, voterToken := testutil.CreateTestVoter(t, db, "Ada", models.RoleVoter)
	electionID := testutil.CreateTestElection(t, db, "Student President", true)
	alice := testutil.AddTestCandidate(t, db, electionID, "Alice")

	if _, err := votes.SubmitVote(t.Context(), voterID, electionID, alice); err != nil {
		t.Fatalf("SubmitVote failed: %v", err)
	}

	testCases := []struct {
		name       string
		headers    map[string]string
		id         string
		wantStatus int
	}{
		{"admin", testutil.Bearer(adminToken), electionID, http.StatusOK},
		{"voter", testutil.Bearer(voterToken), electionID, http.StatusForbidden},
		{"anonymous", nil, electionID, http.StatusUnauthorized},
		{"missing election", testutil.Bearer(adminToken), "nope", http.StatusNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := testutil.MakeRequest("GET", "/api/elections/"+tc.id+"/audit", nil, tc.headers)
			w := serve(handler.GetAudit, req, tc.id)

			testutil.AssertStatus(t, w, tc.wantStatus)
			if tc.wantStatus != http.StatusOK {
				return
			}
			var audit models.TallyAudit
			testutil.AssertJSON(t, w, &audit)
			if !audit.Consistent || audit.TallyTotal != 1 || audit.RecordCount != 1 {
				t.Errorf("Unexpected audit: %+v", audit)
			}
		})
	}
}

func TestGetStatsHandler(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	votes, dir := services(db)
	handler := NewResultsHandler(votes, dir)

	_, adminToken := testutil.CreateTestAdmin(t, db)
	_, voterToken := testutil.CreateTestVoter(t, db, "Ada", models.RoleVoter)
	testutil.CreateTestElection(t, db, "Open", true)
	testutil.CreateTestElection(t, db, "Closed", false)

	req := testutil.MakeRequest("GET", "/api/admin/stats", nil, testutil.Bearer(voterToken))
	w := serve(handler.GetStats, req, "")
	testutil.AssertStatus(t, w, http.StatusForbidden)

	req = testutil.MakeRequest("GET", "/api/admin/stats", nil, testutil.Bearer(adminToken))
	w = serve(handler.GetStats, req, "")
	testutil.AssertStatus(t, w, http.StatusOK)

	var stats models.DirectoryStats
	testutil.AssertJSON(t, w, &stats)
	want := models.DirectoryStats{Elections: 2, OpenElections: 1, Voters: 2, TotalVotes: 0}
	if stats != want {
		t.Errorf("Expected %+v, got %+v", want, stats)
	}
}
