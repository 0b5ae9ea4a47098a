// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package directory manages elections and their candidate rosters.

Mutations take the caller identity and check the admin role before any
storage access:

	e, err := dir.CreateElection(ctx, caller, req)   // ErrForbidden for voters
	e, err := dir.UpdateElection(ctx, caller, id, req)
	err := dir.DeleteElection(ctx, caller, id)

Titles, descriptions and candidate labels are stripped of markup with a
bluemonday strict policy. Candidate photos must be http(s) URLs.

Deleting an election also deletes its candidates and vote records in the
same transaction.

Listings annotate hasVoted through the VoteIndex, which the ledger
implements.
*/
package directory
