// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/danielhkuo/campus-vote/models"
)

var (
	ErrInvalidToken       = errors.New("invalid token")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Identity is a verified (voter, role) pair taken from a token
type Identity struct {
	VoterID string
	Role    string
}

// IsZero reports whether no identity was presented
func (i Identity) IsZero() bool {
	return i.VoterID == ""
}

// IsAdmin reports whether the identity carries the admin role
func (i Identity) IsAdmin() bool {
	return !i.IsZero() && i.Role == models.RoleAdmin
}

// RequireAdmin returns ErrUnauthorized for a missing identity and ErrForbidden for non-admins
func (i Identity) RequireAdmin() error {
	if i.IsZero() {
		return models.ErrUnauthorized
	}
	if i.Role != models.RoleAdmin {
		return models.ErrForbidden
	}
	return nil
}

// Claims is the token payload: sub is the voter ID
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// GenerateID creates a random UUID string for database records
func GenerateID() string {
	return uuid.NewString()
}

// HashPassword hashes a password with bcrypt at the default cost
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword compares a bcrypt hash with a candidate password
func CheckPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// IssueToken signs an HS256 token for the identity, valid for ttl
func IssueToken(id Identity, secret string, ttl time.Duration, now time.Time) (string, error) {
	claims := Claims{
		Role: id.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.VoterID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return token, nil
}

// ParseToken verifies signature and expiry and returns the identity it asserts
func ParseToken(tokenString, secret string) (Identity, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return Identity{}, ErrInvalidToken
	}

	if claims.Subject == "" {
		return Identity{}, ErrInvalidToken
	}
	if claims.Role != models.RoleVoter && claims.Role != models.RoleAdmin {
		return Identity{}, ErrInvalidToken
	}

	return Identity{VoterID: claims.Subject, Role: claims.Role}, nil
}
