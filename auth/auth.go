// Copyright (c) 2025 Jockie-stack.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidPassword = errors.New("invalid password")
	ErrInvalidToken    = errors.New("invalid session token")
)

// Device identifier bounds. The client-supplied ID is an opaque,
// self-chosen string; anything outside these bounds is rejected before
// reaching any handler.
const (
	MinDeviceIDLen = 8
	MaxDeviceIDLen = 200
)

// HashDeviceID derives the pseudonymous device hash from a client-supplied
// identifier. One-way, deterministic, no salt: the same header value must
// resolve to the same hash across processes so cooldowns and vote dedup
// survive restarts.
func HashDeviceID(rawID string) string {
	sum := sha256.Sum256([]byte(rawID))
	return hex.EncodeToString(sum[:])
}

// ValidDeviceID checks the length bounds on a raw device identifier.
func ValidDeviceID(rawID string) bool {
	return len(rawID) >= MinDeviceIDLen && len(rawID) <= MaxDeviceIDLen
}

// CheckPassword compares a candidate password against the stored bcrypt
// hash. Returns ErrInvalidPassword on mismatch.
func CheckPassword(storedHash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(password)); err != nil {
		return ErrInvalidPassword
	}
	return nil
}

// SessionClaims is the payload of an admin session token.
type SessionClaims struct {
	Admin bool `json:"admin"`
	jwt.RegisteredClaims
}

// NewSessionToken mints a signed HS256 token asserting the admin
// capability, valid for ttl from now.
func NewSessionToken(secret string, ttl time.Duration, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(ttl)
	claims := SessionClaims{
		Admin: true,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "cvl-app",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ParseSessionToken verifies signature and expiry and returns the claims.
// An expired or tampered token yields ErrInvalidToken; capability checks
// (claims.Admin) are the caller's job.
func ParseSessionToken(secret, tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
