// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/danielhkuo/campus-vote/auth"
	"github.com/danielhkuo/campus-vote/db"
	"github.com/danielhkuo/campus-vote/models"
)

// tallyCacheSize bounds how many elections keep a cached tally
const tallyCacheSize = 256

// Ledger records votes and derives tallies from candidate counters.
type Ledger struct {
	db    *sql.DB
	cache *expirable.LRU[string, models.Tally]
	now   func() time.Time

	// gens counts invalidations per election; a tally read that spans one is not cached
	mu   sync.Mutex
	gens map[string]uint64
}

// New returns a Ledger over conn. A positive cacheTTL enables the tally cache.
func New(conn *sql.DB, cacheTTL time.Duration) *Ledger {
	l := &Ledger{db: conn, now: time.Now, gens: make(map[string]uint64)}
	if cacheTTL > 0 {
		l.cache = expirable.NewLRU[string, models.Tally](tallyCacheSize, nil, cacheTTL)
	}
	return l
}

// SubmitVote records that voterID voted in electionID and counts one vote for
// candidateID. The vote record insert and the counter increment commit together.
//
// Errors: models.ErrUnauthorized for an unknown voter, models.ErrAlreadyVoted when
// a record for (voter, election) exists, models.ErrNotFound when the election does
// not exist or does not contain the candidate, models.ErrElectionClosed when the
// election is not open.
func (l *Ledger) SubmitVote(ctx context.Context, voterID, electionID, candidateID string) (models.VoteRecord, error) {
	if voterID == "" {
		return models.VoteRecord{}, models.ErrUnauthorized
	}
	if electionID == "" || candidateID == "" {
		return models.VoteRecord{}, fmt.Errorf("%w: electionId and candidateId are required", models.ErrValidation)
	}

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return models.VoteRecord{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var voterExists bool
	err = tx.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM voter WHERE id = $1)
	`, voterID).Scan(&voterExists)
	if err != nil {
		return models.VoteRecord{}, fmt.Errorf("failed to verify voter: %w", err)
	}
	if !voterExists {
		return models.VoteRecord{}, models.ErrUnauthorized
	}

	// Fast path only; the unique constraint below is what enforces one vote
	var alreadyVoted bool
	err = tx.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM vote_record
			WHERE voter_id = $1 AND election_id = $2
		)
	`, voterID, electionID).Scan(&alreadyVoted)
	if err != nil {
		return models.VoteRecord{}, fmt.Errorf("failed to check existing vote: %w", err)
	}
	if alreadyVoted {
		return models.VoteRecord{}, models.ErrAlreadyVoted
	}

	var isOpen bool
	err = tx.QueryRowContext(ctx, `
		SELECT is_open FROM election WHERE id = $1
	`, electionID).Scan(&isOpen)
	if err == sql.ErrNoRows {
		return models.VoteRecord{}, fmt.Errorf("%w: election %s", models.ErrNotFound, electionID)
	}
	if err != nil {
		return models.VoteRecord{}, fmt.Errorf("failed to query election: %w", err)
	}
	if !isOpen {
		return models.VoteRecord{}, models.ErrElectionClosed
	}

	record := models.VoteRecord{
		ID:         auth.GenerateID(),
		VoterID:    voterID,
		ElectionID: electionID,
		CreatedAt:  l.now().UTC(),
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO vote_record (id, voter_id, election_id, created_at)
		VALUES ($1, $2, $3, $4)
	`, record.ID, record.VoterID, record.ElectionID, record.CreatedAt)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return models.VoteRecord{}, models.ErrAlreadyVoted
		}
		return models.VoteRecord{}, fmt.Errorf("failed to insert vote record: %w", err)
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE candidate
		SET votes = votes + 1
		WHERE id = $1 AND election_id = $2
	`, candidateID, electionID)
	if err != nil {
		return models.VoteRecord{}, fmt.Errorf("failed to increment candidate votes: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return models.VoteRecord{}, fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return models.VoteRecord{}, fmt.Errorf("%w: candidate %s in election %s", models.ErrNotFound, candidateID, electionID)
	}

	if err := tx.Commit(); err != nil {
		if db.IsUniqueViolation(err) {
			return models.VoteRecord{}, models.ErrAlreadyVoted
		}
		return models.VoteRecord{}, fmt.Errorf("failed to commit vote: %w", err)
	}

	l.Invalidate(electionID)
	slog.Info("vote recorded", "election_id", electionID, "vote_id", record.ID)

	return record, nil
}

// HasVoted reports whether a vote record exists for (voterID, electionID)
func (l *Ledger) HasVoted(ctx context.Context, voterID, electionID string) (bool, error) {
	var exists bool
	err := l.db.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM vote_record
			WHERE voter_id = $1 AND election_id = $2
		)
	`, voterID, electionID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check vote record: %w", err)
	}
	return exists, nil
}

// VotedElections returns the IDs of every election voterID has a record for
func (l *Ledger) VotedElections(ctx context.Context, voterID string) (map[string]bool, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT election_id FROM vote_record WHERE voter_id = $1
	`, voterID)
	if err != nil {
		return nil, fmt.Errorf("failed to query vote records: %w", err)
	}
	defer rows.Close()

	voted := make(map[string]bool)
	for rows.Next() {
		var electionID string
		if err := rows.Scan(&electionID); err != nil {
			return nil, fmt.Errorf("failed to scan vote record: %w", err)
		}
		voted[electionID] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate vote records: %w", err)
	}
	return voted, nil
}

// Tally returns the ranked results of an election
func (l *Ledger) Tally(ctx context.Context, electionID string) (models.Tally, error) {
	if l.cache != nil {
		if t, ok := l.cache.Get(electionID); ok {
			return copyTally(t), nil
		}
	}

	gen := l.generation(electionID)

	t := models.Tally{ElectionID: electionID}
	err := l.db.QueryRowContext(ctx, `
		SELECT title, is_open FROM election WHERE id = $1
	`, electionID).Scan(&t.Title, &t.IsOpen)
	if err == sql.ErrNoRows {
		return models.Tally{}, fmt.Errorf("%w: election %s", models.ErrNotFound, electionID)
	}
	if err != nil {
		return models.Tally{}, fmt.Errorf("failed to query election: %w", err)
	}

	candidates, err := l.candidates(ctx, electionID)
	if err != nil {
		return models.Tally{}, err
	}

	t.Results = ComputeTally(candidates)
	for _, c := range candidates {
		t.TotalVotes += c.Votes
	}

	l.cacheTally(electionID, gen, t)
	return t, nil
}

// Audit compares the candidate counters of an election with its vote records.
// Both figures come from one statement so they share a snapshot.
func (l *Ledger) Audit(ctx context.Context, electionID string) (models.TallyAudit, error) {
	var exists bool
	err := l.db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM election WHERE id = $1)
	`, electionID).Scan(&exists)
	if err != nil {
		return models.TallyAudit{}, fmt.Errorf("failed to query election: %w", err)
	}
	if !exists {
		return models.TallyAudit{}, fmt.Errorf("%w: election %s", models.ErrNotFound, electionID)
	}

	audit := models.TallyAudit{ElectionID: electionID}
	err = l.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COALESCE(SUM(votes), 0) FROM candidate WHERE election_id = $1),
			(SELECT COUNT(*) FROM vote_record WHERE election_id = $1)
	`, electionID).Scan(&audit.TallyTotal, &audit.RecordCount)
	if err != nil {
		return models.TallyAudit{}, fmt.Errorf("failed to audit election: %w", err)
	}
	audit.Consistent = audit.TallyTotal == audit.RecordCount

	if !audit.Consistent {
		slog.Warn("tally out of balance",
			"election_id", electionID,
			"tally_total", audit.TallyTotal,
			"record_count", audit.RecordCount,
		)
	}
	return audit, nil
}

// Invalidate drops the cached tally of an election
func (l *Ledger) Invalidate(electionID string) {
	if l.cache == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.gens[electionID]++
	l.cache.Remove(electionID)
}

func (l *Ledger) generation(electionID string) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.gens[electionID]
}

// cacheTally stores t unless the election was invalidated since gen was read
func (l *Ledger) cacheTally(electionID string, gen uint64, t models.Tally) {
	if l.cache == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.gens[electionID] != gen {
		return
	}
	l.cache.Add(electionID, copyTally(t))
}

func (l *Ledger) candidates(ctx context.Context, electionID string) ([]models.Candidate, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT id, election_id, name, position, photo, votes
		FROM candidate
		WHERE election_id = $1
		ORDER BY seq
	`, electionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query candidates: %w", err)
	}
	defer rows.Close()

	candidates := []models.Candidate{}
	for rows.Next() {
		var c models.Candidate
		if err := rows.Scan(&c.ID, &c.ElectionID, &c.Name, &c.Position, &c.Photo, &c.Votes); err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate candidates: %w", err)
	}
	return candidates, nil
}

func copyTally(t models.Tally) models.Tally {
	out := t
	out.Results = make([]models.TallyEntry, len(t.Results))
	copy(out.Results, t.Results)
	return out
}
