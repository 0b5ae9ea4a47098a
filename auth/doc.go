// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides identity tokens, password hashing and ID generation.

# Identity

An Identity is the verified (voter ID, role) pair the rest of the server
trusts. Admin-only operations call RequireAdmin before touching storage:

	if err := caller.RequireAdmin(); err != nil {
		return err // models.ErrUnauthorized or models.ErrForbidden
	}

# Tokens

Tokens are HS256 JWTs with the voter ID in sub and the role in a role claim:

	token, err := auth.IssueToken(id, secret, ttl, time.Now())
	id, err := auth.ParseToken(token, secret)

ParseToken rejects other signing methods, expired tokens, and unknown roles
with ErrInvalidToken.

# Passwords

Passwords are hashed with bcrypt at the default cost:

	hash, err := auth.HashPassword(password)
	err := auth.CheckPassword(hash, password) // ErrInvalidCredentials on mismatch

# ID Generation

Random UUIDs for database records:

	id := auth.GenerateID()
*/
package auth
