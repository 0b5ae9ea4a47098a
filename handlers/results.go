// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/campus-vote/directory"
	"github.com/danielhkuo/campus-vote/ledger"
	"github.com/danielhkuo/campus-vote/middleware"
)

type ResultsHandler struct {
	votes *ledger.Ledger
	dir   *directory.Directory
}

func NewResultsHandler(votes *ledger.Ledger, dir *directory.Directory) *ResultsHandler {
	return &ResultsHandler{votes: votes, dir: dir}
}

// GetResults handles GET /api/elections/{id}/results
// Results are public and live; open elections report running totals.
func (h *ResultsHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "election id is required")
		return
	}

	tally, err := h.votes.Tally(r.Context(), id)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, tally)
}

// GetAudit handles GET /api/elections/{id}/audit
func (h *ResultsHandler) GetAudit(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "election id is required")
		return
	}
	if err := middleware.IdentityFrom(r.Context()).RequireAdmin(); err != nil {
		middleware.WriteError(w, err)
		return
	}

	audit, err := h.votes.Audit(r.Context(), id)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, audit)
}

// GetStats handles GET /api/admin/stats
func (h *ResultsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.dir.Stats(r.Context(), middleware.IdentityFrom(r.Context()))
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, stats)
}
