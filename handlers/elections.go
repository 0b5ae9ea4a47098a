// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/campus-vote/directory"
	"github.com/danielhkuo/campus-vote/middleware"
	"github.com/danielhkuo/campus-vote/models"
)

type ElectionHandler struct {
	dir *directory.Directory
}

func NewElectionHandler(dir *directory.Directory) *ElectionHandler {
	return &ElectionHandler{dir: dir}
}

// ListElections handles GET /api/elections
func (h *ElectionHandler) ListElections(w http.ResponseWriter, r *http.Request) {
	caller := middleware.IdentityFrom(r.Context())

	elections, err := h.dir.ListElections(r.Context(), caller.VoterID)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, elections)
}

// GetElection handles GET /api/elections/{id}
func (h *ElectionHandler) GetElection(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "election id is required")
		return
	}
	caller := middleware.IdentityFrom(r.Context())

	election, err := h.dir.GetElection(r.Context(), id, caller.VoterID)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, election)
}

// CreateElection handles POST /api/elections
func (h *ElectionHandler) CreateElection(w http.ResponseWriter, r *http.Request) {
	caller := middleware.IdentityFrom(r.Context())
	if err := caller.RequireAdmin(); err != nil {
		middleware.WriteError(w, err)
		return
	}

	var req models.CreateElectionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	election, err := h.dir.CreateElection(r.Context(), caller, req)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, election)
}

// UpdateElection handles PUT /api/elections/{id}
func (h *ElectionHandler) UpdateElection(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "election id is required")
		return
	}
	caller := middleware.IdentityFrom(r.Context())
	if err := caller.RequireAdmin(); err != nil {
		middleware.WriteError(w, err)
		return
	}

	var req models.UpdateElectionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	election, err := h.dir.UpdateElection(r.Context(), caller, id, req)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, election)
}

// DeleteElection handles DELETE /api/elections/{id}
func (h *ElectionHandler) DeleteElection(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "election id is required")
		return
	}
	caller := middleware.IdentityFrom(r.Context())

	if err := h.dir.DeleteElection(r.Context(), caller, id); err != nil {
		middleware.WriteError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.DeleteElectionResponse{
		Success: true,
		Message: "Election deleted successfully",
	})
}
