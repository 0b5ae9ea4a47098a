// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/danielhkuo/campus-vote/cliparse"
	"github.com/danielhkuo/campus-vote/directory"
	"github.com/danielhkuo/campus-vote/handlers"
	"github.com/danielhkuo/campus-vote/ledger"
	"github.com/danielhkuo/campus-vote/middleware"
)

func NewRouter(db *sql.DB, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	votes := ledger.New(db, cfg.TallyCacheTTL)
	dir := directory.New(db, votes)

	// Initialize handlers
	accountHandler := handlers.NewAccountHandler(db, cfg)
	electionHandler := handlers.NewElectionHandler(dir)
	votingHandler := handlers.NewVotingHandler(votes, dir)
	resultsHandler := handlers.NewResultsHandler(votes, dir)

	// api wraps a handler with logging and optional bearer identity
	api := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(middleware.WithIdentity(cfg.JWTSecret, h))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Accounts
	mux.HandleFunc("POST /api/auth/register", middleware.WithLogging(accountHandler.Register))
	mux.HandleFunc("POST /api/auth/login", middleware.WithLogging(accountHandler.Login))
	mux.HandleFunc("GET /api/auth/me", api(accountHandler.Me))

	// Election directory (reads public, mutations admin)
	mux.HandleFunc("GET /api/elections", api(electionHandler.ListElections))
	mux.HandleFunc("POST /api/elections", api(electionHandler.CreateElection))
	mux.HandleFunc("GET /api/elections/{id}", api(electionHandler.GetElection))
	mux.HandleFunc("PUT /api/elections/{id}", api(electionHandler.UpdateElection))
	mux.HandleFunc("DELETE /api/elections/{id}", api(electionHandler.DeleteElection))

	// Voting
	mux.HandleFunc("POST /api/vote", api(votingHandler.SubmitVote))
	mux.HandleFunc("GET /api/elections/{id}/vote-status", api(votingHandler.GetVoteStatus))

	// Results
	mux.HandleFunc("GET /api/elections/{id}/results", api(resultsHandler.GetResults))
	mux.HandleFunc("GET /api/elections/{id}/audit", api(resultsHandler.GetAudit))
	mux.HandleFunc("GET /api/admin/stats", api(resultsHandler.GetStats))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("campus-vote API v1"))
	})

	return mux
}
