// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Logs request start (method, path, remote) and completion (duration_ms).

# Identity

WithIdentity verifies an optional "Authorization: Bearer <jwt>" header and
stores the caller on the request context:

	mux.HandleFunc("POST /api/vote", middleware.WithLogging(
		middleware.WithIdentity(cfg.JWTSecret, votingHandler.SubmitVote)))

	caller := middleware.IdentityFrom(r.Context())

Anonymous requests get the zero identity. Handlers decide whether that is
acceptable.

# CORS Middleware

Enable cross-origin requests for frontend access:

	server := http.Server{
		Handler: middleware.CORS(mux),
	}

# JSON Helpers

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")
	middleware.WriteError(w, err) // status from models sentinel errors

Error bodies carry error (status text), message and code:

	{"error": "Conflict", "message": "already voted in this election", "code": "already_voted"}
*/
package middleware
