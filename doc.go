// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Campus Vote API server.

Campus Vote runs student elections: admins publish elections with candidate
rosters, registered voters cast exactly one vote per election, and anyone can
read the live tally.

# Starting the Server

Settings come from CLI flags, then environment variables, then a .env file:

	DATABASE_URL=campus-vote.db JWT_SECRET=change-me go run .

Or with flags:

	go run . -p 3318 -d "postgres://..." -jwt-secret change-me

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite file path or PostgreSQL connection string
  - JWT_SECRET (-jwt-secret): HMAC key for identity tokens

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite or postgres (default: inferred from the URL)
  - TOKEN_TTL (-token-ttl): token lifetime (default: 720h)
  - ADMIN_EMAILS (-admin-emails): comma separated emails that register as admins
  - TALLY_CACHE_TTL (-tally-cache-ttl): tally cache lifetime, 0 disables (default: 2s)

# Architecture

  - ledger: vote acceptance, one vote per voter per election, tallies
  - directory: election and roster management
  - handlers: HTTP request handlers
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, bearer identity, JSON helpers
  - models: Request/response types and error kinds
  - auth: IDs, passwords and tokens
  - db: Connection setup, schema and driver error classification
  - cliparse: Configuration parsing
*/
package main
