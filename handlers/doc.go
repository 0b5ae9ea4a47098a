// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Campus Vote API.

# Handler Types

  - AccountHandler: registration, login and the current profile
  - ElectionHandler: election directory reads and admin mutations
  - VotingHandler: vote submission and per-voter vote status
  - ResultsHandler: live tallies, tally audits and admin stats

AccountHandler talks to the database directly. The others delegate to the
ledger and directory packages:

	votes := ledger.New(db, cfg.TallyCacheTTL)
	dir := directory.New(db, votes)
	votingHandler := handlers.NewVotingHandler(votes, dir)

# Identity

Handlers read the caller from middleware.IdentityFrom. The voter id of a
vote is always the token subject; request bodies cannot name a voter.

# Errors

Domain errors are written with middleware.WriteError, so a duplicate vote is

	409 {"error": "Conflict", "message": "already voted in this election", "code": "already_voted"}
*/
package handlers
