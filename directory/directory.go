// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package directory

import (
	"context"
	"database/sql"
	"fmt"
	"html"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/danielhkuo/campus-vote/auth"
	"github.com/danielhkuo/campus-vote/models"
)

// VoteIndex is the part of the vote ledger the directory reads and notifies
type VoteIndex interface {
	HasVoted(ctx context.Context, voterID, electionID string) (bool, error)
	VotedElections(ctx context.Context, voterID string) (map[string]bool, error)
	Invalidate(electionID string)
}

// Directory owns elections and their candidate rosters.
type Directory struct {
	db     *sql.DB
	votes  VoteIndex
	policy *bluemonday.Policy
	now    func() time.Time
}

func New(conn *sql.DB, votes VoteIndex) *Directory {
	return &Directory{
		db:     conn,
		votes:  votes,
		policy: bluemonday.StrictPolicy(),
		now:    time.Now,
	}
}

// CreateElection stores a new election. It is open unless req.IsOpen says otherwise.
func (d *Directory) CreateElection(ctx context.Context, caller auth.Identity, req models.CreateElectionRequest) (models.Election, error) {
	if err := caller.RequireAdmin(); err != nil {
		return models.Election{}, err
	}

	e := models.Election{
		ID:          auth.GenerateID(),
		Title:       d.clean(req.Title),
		Description: d.clean(req.Description),
		Category:    d.clean(req.Category),
		Department:  d.cleanOptional(req.Department),
		Faculty:     d.cleanOptional(req.Faculty),
		IsOpen:      true,
		CreatedAt:   d.now().UTC(),
	}
	if req.IsOpen != nil {
		e.IsOpen = *req.IsOpen
	}
	if err := validateElection(e); err != nil {
		return models.Election{}, err
	}

	candidates, err := d.cleanCandidates(req.Candidates)
	if err != nil {
		return models.Election{}, err
	}

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Election{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO election (id, title, description, category, department, faculty, is_open, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, e.ID, e.Title, e.Description, e.Category, e.Department, e.Faculty, e.IsOpen, e.CreatedAt)
	if err != nil {
		return models.Election{}, fmt.Errorf("failed to insert election: %w", err)
	}

	e.Candidates = make([]models.Candidate, 0, len(candidates))
	for i, c := range candidates {
		c.ID = auth.GenerateID()
		c.ElectionID = e.ID
		if err := insertCandidate(ctx, tx, c, i); err != nil {
			return models.Election{}, err
		}
		e.Candidates = append(e.Candidates, c)
	}

	if err := tx.Commit(); err != nil {
		return models.Election{}, fmt.Errorf("failed to commit election: %w", err)
	}

	slog.Info("election created", "election_id", e.ID, "candidates", len(e.Candidates), "admin_id", caller.VoterID)
	return e, nil
}

// UpdateElection merges the present fields of req into the election.
// A present candidate list replaces the roster: entries whose id matches an
// existing candidate keep that candidate and its votes, other entries become
// new candidates, and candidates left out are removed.
func (d *Directory) UpdateElection(ctx context.Context, caller auth.Identity, id string, req models.UpdateElectionRequest) (models.Election, error) {
	if err := caller.RequireAdmin(); err != nil {
		return models.Election{}, err
	}

	var roster []models.Candidate
	if req.Candidates != nil {
		var err error
		if roster, err = d.cleanCandidates(*req.Candidates); err != nil {
			return models.Election{}, err
		}
	}

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Election{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var e models.Election
	err = tx.QueryRowContext(ctx, `
		SELECT id, title, description, category, department, faculty, is_open, created_at
		FROM election
		WHERE id = $1
	`, id).Scan(&e.ID, &e.Title, &e.Description, &e.Category, &e.Department, &e.Faculty, &e.IsOpen, &e.CreatedAt)
	if err == sql.ErrNoRows {
		return models.Election{}, fmt.Errorf("%w: election %s", models.ErrNotFound, id)
	}
	if err != nil {
		return models.Election{}, fmt.Errorf("failed to query election: %w", err)
	}

	if req.Title != nil {
		e.Title = d.clean(*req.Title)
	}
	if req.Description != nil {
		e.Description = d.clean(*req.Description)
	}
	if req.Category != nil {
		e.Category = d.clean(*req.Category)
	}
	if req.Department != nil {
		e.Department = d.cleanOptional(req.Department)
	}
	if req.Faculty != nil {
		e.Faculty = d.cleanOptional(req.Faculty)
	}
	if req.IsOpen != nil {
		e.IsOpen = *req.IsOpen
	}
	if err := validateElection(e); err != nil {
		return models.Election{}, err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE election
		SET title = $1, description = $2, category = $3, department = $4, faculty = $5, is_open = $6
		WHERE id = $7
	`, e.Title, e.Description, e.Category, e.Department, e.Faculty, e.IsOpen, id)
	if err != nil {
		return models.Election{}, fmt.Errorf("failed to update election: %w", err)
	}

	if req.Candidates != nil {
		if err := replaceRoster(ctx, tx, id, roster); err != nil {
			return models.Election{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return models.Election{}, fmt.Errorf("failed to commit election update: %w", err)
	}
	d.votes.Invalidate(id)

	slog.Info("election updated", "election_id", id, "roster_replaced", req.Candidates != nil, "admin_id", caller.VoterID)
	return d.GetElection(ctx, id, "")
}

// DeleteElection removes an election with its candidates and vote records
func (d *Directory) DeleteElection(ctx context.Context, caller auth.Identity, id string) error {
	if err := caller.RequireAdmin(); err != nil {
		return err
	}

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `DELETE FROM vote_record WHERE election_id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete vote records: %w", err)
	}
	records, err := res.RowsAffected()
	if err != nil {
		slog.Warn("failed to count removed vote records", "election_id", id, "error", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM candidate WHERE election_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete candidates: %w", err)
	}

	res, err = tx.ExecContext(ctx, `DELETE FROM election WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete election: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: election %s", models.ErrNotFound, id)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit election delete: %w", err)
	}
	d.votes.Invalidate(id)

	slog.Info("election deleted", "election_id", id, "vote_records_removed", records, "admin_id", caller.VoterID)
	return nil
}

// ListElections returns every election, newest first. When viewerID is set
// each election carries hasVoted for that viewer.
func (d *Directory) ListElections(ctx context.Context, viewerID string) ([]models.Election, error) {
	elections, err := d.queryElections(ctx, "")
	if err != nil {
		return nil, err
	}

	rosters, err := d.queryCandidates(ctx, "")
	if err != nil {
		return nil, err
	}
	for i := range elections {
		if r, ok := rosters[elections[i].ID]; ok {
			elections[i].Candidates = r
		}
	}

	if viewerID != "" {
		voted, err := d.votes.VotedElections(ctx, viewerID)
		if err != nil {
			return nil, err
		}
		for i := range elections {
			hasVoted := voted[elections[i].ID]
			elections[i].HasVoted = &hasVoted
		}
	}

	return elections, nil
}

// GetElection returns one election, annotated with hasVoted when viewerID is set
func (d *Directory) GetElection(ctx context.Context, id, viewerID string) (models.Election, error) {
	elections, err := d.queryElections(ctx, id)
	if err != nil {
		return models.Election{}, err
	}
	if len(elections) == 0 {
		return models.Election{}, fmt.Errorf("%w: election %s", models.ErrNotFound, id)
	}
	e := elections[0]

	rosters, err := d.queryCandidates(ctx, id)
	if err != nil {
		return models.Election{}, err
	}
	if r, ok := rosters[id]; ok {
		e.Candidates = r
	}

	if viewerID != "" {
		hasVoted, err := d.votes.HasVoted(ctx, viewerID, id)
		if err != nil {
			return models.Election{}, err
		}
		e.HasVoted = &hasVoted
	}

	return e, nil
}

// Stats returns dashboard totals. Admin only.
func (d *Directory) Stats(ctx context.Context, caller auth.Identity) (models.DirectoryStats, error) {
	if err := caller.RequireAdmin(); err != nil {
		return models.DirectoryStats{}, err
	}

	var s models.DirectoryStats
	err := d.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM election),
			(SELECT COUNT(*) FROM election WHERE is_open = TRUE),
			(SELECT COUNT(*) FROM voter),
			(SELECT COALESCE(SUM(votes), 0) FROM candidate)
	`).Scan(&s.Elections, &s.OpenElections, &s.Voters, &s.TotalVotes)
	if err != nil {
		return models.DirectoryStats{}, fmt.Errorf("failed to query stats: %w", err)
	}
	return s, nil
}

// queryElections loads one election by id, or all of them when id is empty
func (d *Directory) queryElections(ctx context.Context, id string) ([]models.Election, error) {
	query := `
		SELECT id, title, description, category, department, faculty, is_open, created_at
		FROM election
		ORDER BY created_at DESC, id`
	args := []any{}
	if id != "" {
		query = `
		SELECT id, title, description, category, department, faculty, is_open, created_at
		FROM election
		WHERE id = $1`
		args = append(args, id)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query elections: %w", err)
	}
	defer rows.Close()

	elections := []models.Election{}
	for rows.Next() {
		var e models.Election
		if err := rows.Scan(&e.ID, &e.Title, &e.Description, &e.Category,
			&e.Department, &e.Faculty, &e.IsOpen, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan election: %w", err)
		}
		e.Candidates = []models.Candidate{}
		elections = append(elections, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate elections: %w", err)
	}
	return elections, nil
}

// queryCandidates groups rosters by election, in roster order
func (d *Directory) queryCandidates(ctx context.Context, electionID string) (map[string][]models.Candidate, error) {
	query := `
		SELECT id, election_id, name, position, photo, votes
		FROM candidate
		ORDER BY election_id, seq`
	args := []any{}
	if electionID != "" {
		query = `
		SELECT id, election_id, name, position, photo, votes
		FROM candidate
		WHERE election_id = $1
		ORDER BY seq`
		args = append(args, electionID)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query candidates: %w", err)
	}
	defer rows.Close()

	rosters := make(map[string][]models.Candidate)
	for rows.Next() {
		var c models.Candidate
		if err := rows.Scan(&c.ID, &c.ElectionID, &c.Name, &c.Position, &c.Photo, &c.Votes); err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		rosters[c.ElectionID] = append(rosters[c.ElectionID], c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate candidates: %w", err)
	}
	return rosters, nil
}

func replaceRoster(ctx context.Context, tx *sql.Tx, electionID string, roster []models.Candidate) error {
	existing, err := rosterIDs(ctx, tx, electionID)
	if err != nil {
		return err
	}

	kept := make(map[string]bool, len(roster))
	for seq, c := range roster {
		c.ElectionID = electionID
		if c.ID != "" && existing[c.ID] && !kept[c.ID] {
			_, err := tx.ExecContext(ctx, `
				UPDATE candidate
				SET name = $1, position = $2, photo = $3, seq = $4
				WHERE id = $5 AND election_id = $6
			`, c.Name, c.Position, c.Photo, seq, c.ID, electionID)
			if err != nil {
				return fmt.Errorf("failed to update candidate: %w", err)
			}
			kept[c.ID] = true
			continue
		}

		c.ID = auth.GenerateID()
		if err := insertCandidate(ctx, tx, c, seq); err != nil {
			return err
		}
	}

	for id := range existing {
		if kept[id] {
			continue
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM candidate WHERE id = $1`, id); err != nil {
			return fmt.Errorf("failed to remove candidate: %w", err)
		}
	}
	return nil
}

func rosterIDs(ctx context.Context, tx *sql.Tx, electionID string) (map[string]bool, error) {
	rows, err := tx.QueryContext(ctx, `SELECT id FROM candidate WHERE election_id = $1`, electionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query roster: %w", err)
	}
	defer rows.Close()

	ids := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan roster: %w", err)
		}
		ids[id] = true
	}
	return ids, rows.Err()
}

func insertCandidate(ctx context.Context, tx *sql.Tx, c models.Candidate, seq int) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO candidate (id, election_id, name, position, photo, votes, seq)
		VALUES ($1, $2, $3, $4, $5, 0, $6)
	`, c.ID, c.ElectionID, c.Name, c.Position, c.Photo, seq)
	if err != nil {
		return fmt.Errorf("failed to insert candidate: %w", err)
	}
	return nil
}

func validateElection(e models.Election) error {
	switch {
	case e.Title == "":
		return fmt.Errorf("%w: title is required", models.ErrValidation)
	case e.Description == "":
		return fmt.Errorf("%w: description is required", models.ErrValidation)
	case e.Category == "":
		return fmt.Errorf("%w: category is required", models.ErrValidation)
	}
	return nil
}

// cleanCandidates sanitises and validates roster input. Votes always start at 0.
func (d *Directory) cleanCandidates(in []models.CandidateInput) ([]models.Candidate, error) {
	out := make([]models.Candidate, 0, len(in))
	for i, c := range in {
		cand := models.Candidate{
			ID:       strings.TrimSpace(c.ID),
			Name:     d.clean(c.Name),
			Position: d.clean(c.Position),
			Photo:    strings.TrimSpace(c.Photo),
		}
		if cand.Name == "" {
			return nil, fmt.Errorf("%w: candidate %d: name is required", models.ErrValidation, i+1)
		}
		if cand.Position == "" {
			return nil, fmt.Errorf("%w: candidate %d: position is required", models.ErrValidation, i+1)
		}
		if cand.Photo == "" {
			cand.Photo = models.DefaultCandidatePhoto
		} else if !isHTTPURL(cand.Photo) {
			return nil, fmt.Errorf("%w: candidate %d: photo must be an http(s) URL", models.ErrValidation, i+1)
		}
		out = append(out, cand)
	}
	return out, nil
}

// maxCleanPasses bounds the unescape/sanitise loop for nested entity encodings
const maxCleanPasses = 8

// clean strips markup from admin supplied text and returns plain text.
// Entity encoded markup is decoded and stripped too, until the value is stable.
func (d *Directory) clean(s string) string {
	v := s
	for i := 0; i < maxCleanPasses; i++ {
		next := html.UnescapeString(d.policy.Sanitize(html.UnescapeString(v)))
		if next == v {
			return strings.TrimSpace(v)
		}
		v = next
	}
	// Still changing: keep the escaped form so nothing can render as markup
	return strings.TrimSpace(d.policy.Sanitize(html.UnescapeString(v)))
}

func (d *Directory) cleanOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := d.clean(*s)
	if v == "" {
		return nil
	}
	return &v
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
