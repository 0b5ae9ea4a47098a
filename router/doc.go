// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Campus Vote API.

	mux := router.NewRouter(db, cfg)

NewRouter builds the ledger and election directory over db and wires them
into the handlers.

# Endpoints

Health:

	GET /health
	GET /

Accounts:

	POST /api/auth/register - Create account, returns token
	POST /api/auth/login    - Exchange credentials for token
	GET  /api/auth/me       - Current profile (bearer)

Elections (reads public, writes admin):

	GET    /api/elections      - List, hasVoted set for identified callers
	POST   /api/elections      - Create
	GET    /api/elections/{id} - Get one
	PUT    /api/elections/{id} - Partial update, roster replacement
	DELETE /api/elections/{id} - Delete with candidates and vote records

Voting (bearer):

	POST /api/vote                      - Cast one vote
	GET  /api/elections/{id}/vote-status - Whether the caller has voted

Results:

	GET /api/elections/{id}/results - Live tally (public)
	GET /api/elections/{id}/audit   - Counter vs record check (admin)
	GET /api/admin/stats            - Dashboard totals (admin)
*/
package router
