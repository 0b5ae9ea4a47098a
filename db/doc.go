// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database connections, schema creation and driver errors.

# Connections

Open accepts the configured type and URL:

	conn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)

PostgreSQL uses github.com/lib/pq. SQLite uses modernc.org/sqlite with foreign
keys on, a busy timeout, and a single open connection.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.
The same statements run on both databases.

# Tables

  - voter: Registered identities and roles
  - election: Election metadata and open/closed gate
  - candidate: Roster entries with vote counters
  - vote_record: One row per voter per election

# Relationships

	election 1──* candidate
	election 1──* vote_record
	voter    1──* vote_record

vote_record carries UNIQUE (voter_id, election_id). That constraint is what
guarantees one vote per voter per election; application checks are only a
fast path.

# Errors

IsUniqueViolation recognises unique and primary key violations from both
drivers (*pq.Error code 23505, *sqlite.Error extended codes 2067 and 1555).
*/
package db
