// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/campus-vote/directory"
	"github.com/danielhkuo/campus-vote/ledger"
	"github.com/danielhkuo/campus-vote/middleware"
	"github.com/danielhkuo/campus-vote/models"
)

type VotingHandler struct {
	votes *ledger.Ledger
	dir   *directory.Directory
}

func NewVotingHandler(votes *ledger.Ledger, dir *directory.Directory) *VotingHandler {
	return &VotingHandler{votes: votes, dir: dir}
}

// SubmitVote handles POST /api/vote
func (h *VotingHandler) SubmitVote(w http.ResponseWriter, r *http.Request) {
	// The voter always comes from the token, never the body
	caller := middleware.IdentityFrom(r.Context())
	if caller.IsZero() {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req models.SubmitVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	record, err := h.votes.SubmitVote(r.Context(), caller.VoterID, req.ElectionID, req.CandidateID)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.SubmitVoteResponse{
		Success: true,
		Message: "Vote recorded successfully",
		VoteID:  record.ID,
	})
}

// GetVoteStatus handles GET /api/elections/{id}/vote-status
func (h *VotingHandler) GetVoteStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "election id is required")
		return
	}
	caller := middleware.IdentityFrom(r.Context())
	if caller.IsZero() {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	election, err := h.dir.GetElection(r.Context(), id, caller.VoterID)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.VoteStatusResponse{
		ElectionID: election.ID,
		HasVoted:   election.HasVoted != nil && *election.HasVoted,
	})
}
