// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/danielhkuo/campus-vote/models"
	"github.com/danielhkuo/campus-vote/testutil"
)

func TestCacheTally_SkipsAfterInvalidate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	l := New(db, time.Minute)
	ctx := context.Background()

	electionID := testutil.CreateTestElection(t, db, "Student President", true)
	alice := testutil.AddTestCandidate(t, db, electionID, "Alice")
	testutil.SetTestVotes(t, db, alice, 3)

	stale := models.Tally{
		ElectionID: electionID,
		Title:      "Student President",
		IsOpen:     true,
		TotalVotes: 1,
		Results:    []models.TallyEntry{{Candidate: models.Candidate{ID: alice, Name: "Alice", Votes: 1}, Votes: 1, Percentage: 100, Rank: 1}},
	}

	// A read that started before a vote landed must not be cached
	gen := l.generation(electionID)
	l.Invalidate(electionID)
	l.cacheTally(electionID, gen, stale)

	got, err := l.Tally(ctx, electionID)
	if err != nil {
		t.Fatalf("Tally failed: %v", err)
	}
	if got.TotalVotes != 3 {
		t.Errorf("Expected 3 votes from the database, got %d", got.TotalVotes)
	}
}

func TestCacheTally_StoresWhenUnchanged(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	l := New(db, time.Minute)
	ctx := context.Background()

	electionID := testutil.CreateTestElection(t, db, "Student President", true)
	alice := testutil.AddTestCandidate(t, db, electionID, "Alice")
	testutil.SetTestVotes(t, db, alice, 3)

	cached := models.Tally{
		ElectionID: electionID,
		Title:      "Student President",
		IsOpen:     true,
		TotalVotes: 7,
		Results:    []models.TallyEntry{{Candidate: models.Candidate{ID: alice, Name: "Alice", Votes: 7}, Votes: 7, Percentage: 100, Rank: 1}},
	}
	l.cacheTally(electionID, l.generation(electionID), cached)

	got, err := l.Tally(ctx, electionID)
	if err != nil {
		t.Fatalf("Tally failed: %v", err)
	}
	if got.TotalVotes != 7 {
		t.Errorf("Expected cached 7 votes, got %d", got.TotalVotes)
	}
}

func TestCacheTally_Disabled(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	l := New(db, 0)
	electionID := testutil.CreateTestElection(t, db, "Student President", true)

	// No cache: both calls are no-ops
	l.Invalidate(electionID)
	l.cacheTally(electionID, 0, models.Tally{ElectionID: electionID})

	if g := l.generation(electionID); g != 0 {
		t.Errorf("Expected generation 0 without a cache, got %d", g)
	}
}
