// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package ledger records votes and computes tallies.

# One Vote Per Voter Per Election

SubmitVote runs in a single transaction:

 1. reject unknown voters (models.ErrUnauthorized)
 2. fast path: an existing vote record means models.ErrAlreadyVoted
 3. the election must exist (models.ErrNotFound) and be open
    (models.ErrElectionClosed)
 4. insert the vote record; the UNIQUE (voter_id, election_id) constraint
    turns a racing duplicate into models.ErrAlreadyVoted
 5. increment the candidate counter WHERE id = candidate AND
    election_id = election; no row means models.ErrNotFound

The record and the increment commit together or not at all, so the sum of the
counters of an election always equals its number of vote records. Audit
reports both figures.

Vote records never store the chosen candidate.

# Tallies

Tally reads the roster and ranks it with ComputeTally:

	tally, err := l.Tally(ctx, electionID)

Tallies may be cached for a short TTL. Every accepted vote invalidates the
cached tally of its election, and the directory calls Invalidate after each
mutation.
*/
package ledger
