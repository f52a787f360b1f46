package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

func TestHashDeviceID(t *testing.T) {
	// Deterministic across calls
	first := HashDeviceID("abc12345")
	second := HashDeviceID("abc12345")
	if first != second {
		t.Errorf("Hash not deterministic: %s != %s", first, second)
	}

	// SHA-256 hex digest
	if len(first) != 64 {
		t.Errorf("Expected 64 hex chars, got %d", len(first))
	}
	if strings.ToLower(first) != first {
		t.Error("Expected lowercase hex digest")
	}

	// Distinct inputs diverge
	if HashDeviceID("abc12345") == HashDeviceID("abc12346") {
		t.Error("Different device IDs produced the same hash")
	}
}

func TestValidDeviceID(t *testing.T) {
	tests := []struct {
		name  string
		rawID string
		valid bool
	}{
		{"empty", "", false},
		{"too short", "abc1234", false},
		{"minimum length", "abc12345", true},
		{"typical UUID", "550e8400-e29b-41d4-a716-446655440000", true},
		{"maximum length", strings.Repeat("x", 200), true},
		{"too long", strings.Repeat("x", 201), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidDeviceID(tt.rawID); got != tt.valid {
				t.Errorf("ValidDeviceID(%q) = %v, want %v", tt.rawID, got, tt.valid)
			}
		})
	}
}

func TestCheckPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("right"), 12)
	if err != nil {
		t.Fatalf("Failed to generate hash: %v", err)
	}

	if err := CheckPassword(string(hash), "right"); err != nil {
		t.Errorf("Expected correct password to verify, got %v", err)
	}

	if err := CheckPassword(string(hash), "wrong"); err != ErrInvalidPassword {
		t.Errorf("Expected ErrInvalidPassword, got %v", err)
	}

	if err := CheckPassword("not-a-bcrypt-hash", "right"); err != ErrInvalidPassword {
		t.Errorf("Expected ErrInvalidPassword for malformed hash, got %v", err)
	}
}

func TestSessionTokenRoundTrip(t *testing.T) {
	now := time.Now()
	token, expiresAt, err := NewSessionToken("secret", 8*time.Hour, now)
	if err != nil {
		t.Fatalf("Failed to mint token: %v", err)
	}

	if want := now.Add(8 * time.Hour); !expiresAt.Equal(want) {
		t.Errorf("Expected expiry %v, got %v", want, expiresAt)
	}

	claims, err := ParseSessionToken("secret", token)
	if err != nil {
		t.Fatalf("Failed to parse token: %v", err)
	}
	if !claims.Admin {
		t.Error("Expected admin claim to be set")
	}
	if claims.Issuer != "cvl-app" {
		t.Errorf("Unexpected issuer %q", claims.Issuer)
	}
}

func TestParseSessionTokenRejections(t *testing.T) {
	token, _, err := NewSessionToken("secret", time.Hour, time.Now())
	if err != nil {
		t.Fatalf("Failed to mint token: %v", err)
	}

	t.Run("wrong secret", func(t *testing.T) {
		if _, err := ParseSessionToken("other-secret", token); err != ErrInvalidToken {
			t.Errorf("Expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("garbage token", func(t *testing.T) {
		if _, err := ParseSessionToken("secret", "not.a.jwt"); err != ErrInvalidToken {
			t.Errorf("Expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("expired token", func(t *testing.T) {
		expired, _, err := NewSessionToken("secret", time.Hour, time.Now().Add(-2*time.Hour))
		if err != nil {
			t.Fatalf("Failed to mint token: %v", err)
		}
		if _, err := ParseSessionToken("secret", expired); err != ErrInvalidToken {
			t.Errorf("Expected ErrInvalidToken for expired token, got %v", err)
		}
	})

	t.Run("wrong signing method", func(t *testing.T) {
		// alg: none tokens must never validate
		unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, SessionClaims{Admin: true})
		raw, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
		if err != nil {
			t.Fatalf("Failed to build unsigned token: %v", err)
		}
		if _, err := ParseSessionToken("secret", raw); err != ErrInvalidToken {
			t.Errorf("Expected ErrInvalidToken for alg=none, got %v", err)
		}
	})
}
