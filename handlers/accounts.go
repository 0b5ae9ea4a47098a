// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/danielhkuo/campus-vote/auth"
	"github.com/danielhkuo/campus-vote/cliparse"
	"github.com/danielhkuo/campus-vote/db"
	"github.com/danielhkuo/campus-vote/middleware"
	"github.com/danielhkuo/campus-vote/models"
)

const minPasswordLength = 6

type AccountHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewAccountHandler(db *sql.DB, cfg cliparse.Config) *AccountHandler {
	return &AccountHandler{db: db, cfg: cfg}
}

// Register handles POST /api/auth/register
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	name := strings.TrimSpace(req.Name)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if name == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name is required")
		return
	}
	if !validEmail(email) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "a valid email is required")
		return
	}
	if len(req.Password) < minPasswordLength {
		middleware.ErrorResponse(w, http.StatusBadRequest, "password must be at least 6 characters")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		slog.Error("failed to hash password", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to register")
		return
	}

	voter := models.Voter{
		ID:        auth.GenerateID(),
		Name:      name,
		Email:     email,
		Role:      models.RoleVoter,
		CreatedAt: time.Now().UTC(),
	}
	if h.cfg.IsAdminEmail(email) {
		voter.Role = models.RoleAdmin
	}

	_, err = h.db.ExecContext(r.Context(), `
		INSERT INTO voter (id, name, email, password_hash, role, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, voter.ID, voter.Name, voter.Email, hash, voter.Role, voter.CreatedAt)
	if err != nil {
		if db.IsUniqueViolation(err) {
			middleware.ErrorResponse(w, http.StatusConflict, "Email already registered")
			return
		}
		slog.Error("failed to insert voter", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to register")
		return
	}

	token, err := h.issue(voter)
	if err != nil {
		slog.Error("failed to issue token", "error", err, "voter_id", voter.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to register")
		return
	}

	slog.Info("voter registered", "voter_id", voter.ID, "role", voter.Role)

	middleware.JSONResponse(w, http.StatusCreated, models.AuthResponse{
		Token: token,
		User:  voter,
	})
}

// Login handles POST /api/auth/login
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "email and password are required")
		return
	}

	var voter models.Voter
	var hash string
	err := h.db.QueryRowContext(r.Context(), `
		SELECT id, name, email, role, created_at, password_hash
		FROM voter
		WHERE email = $1
	`, email).Scan(&voter.ID, &voter.Name, &voter.Email, &voter.Role, &voter.CreatedAt, &hash)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	if err != nil {
		slog.Error("failed to query voter", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if err := auth.CheckPassword(hash, req.Password); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	token, err := h.issue(voter)
	if err != nil {
		slog.Error("failed to issue token", "error", err, "voter_id", voter.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to log in")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.AuthResponse{
		Token: token,
		User:  voter,
	})
}

// Me handles GET /api/auth/me
func (h *AccountHandler) Me(w http.ResponseWriter, r *http.Request) {
	caller := middleware.IdentityFrom(r.Context())
	if caller.IsZero() {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var voter models.Voter
	err := h.db.QueryRowContext(r.Context(), `
		SELECT id, name, email, role, created_at
		FROM voter
		WHERE id = $1
	`, caller.VoterID).Scan(&voter.ID, &voter.Name, &voter.Email, &voter.Role, &voter.CreatedAt)
	if err == sql.ErrNoRows {
		// Token outlived its account
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Account not found")
		return
	}
	if err != nil {
		slog.Error("failed to query voter", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, voter)
}

func (h *AccountHandler) issue(v models.Voter) (string, error) {
	return auth.IssueToken(auth.Identity{VoterID: v.ID, Role: v.Role}, h.cfg.JWTSecret, h.cfg.TokenTTL, time.Now())
}

// validEmail accepts a bare address with a dotted domain
func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return false
	}
	at := strings.LastIndex(email, "@")
	return at > 0 && strings.Contains(email[at+1:], ".")
}
