// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: PostgreSQL URL or SQLite file path (required)
  - DatabaseType: "sqlite" or "postgres" (inferred from the URL when unset)
  - JWTSecret: Secret for signing identity tokens (required)
  - TokenTTL: Identity token lifetime (default: 720h)
  - AdminEmails: Emails that register with the admin role
  - TallyCacheTTL: Lifetime of cached tallies (default: 2s, 0 disables)

# CLI Flags

	-p                Server port
	-d                Database URL
	-t                Database type
	-jwt-secret       Token signing secret
	-token-ttl        Token lifetime
	-admin-emails     Comma separated admin emails
	-tally-cache-ttl  Tally cache lifetime

# Environment Variables

Flags fall back to environment variables:

	PORT            → -p
	DATABASE_URL    → -d
	DATABASE_TYPE   → -t
	JWT_SECRET      → -jwt-secret
	TOKEN_TTL       → -token-ttl
	ADMIN_EMAILS    → -admin-emails
	TALLY_CACHE_TTL → -tally-cache-ttl

CLI flags take precedence over environment variables. main loads a .env file
into the environment before parsing, so the same names work there.

# Validation

ParseFlags returns an error if required values are missing or malformed:

  - DATABASE_URL must be provided
  - JWT_SECRET must be provided
  - durations must parse with time.ParseDuration
*/
package cliparse
