package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signed(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("server-secret"))
	if err != nil {
		t.Fatal(err)
	}
	return token
}

func TestParseClaims(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	token := signed(t, jwt.MapClaims{
		"id":    "u1",
		"email": "a@b.c",
		"role":  "artist",
		"exp":   exp.Unix(),
	})

	c, err := ParseClaims(token)
	if err != nil {
		t.Fatalf("ParseClaims() error = %v", err)
	}
	if c.Subject != "u1" {
		t.Errorf("Subject = %q, want u1 (from id)", c.Subject)
	}
	if c.Email != "a@b.c" || c.Role != "artist" {
		t.Errorf("claims = %+v", c)
	}
	if !c.ExpiresAt.Equal(exp) {
		t.Errorf("ExpiresAt = %v, want %v", c.ExpiresAt, exp)
	}
	if c.Expired() {
		t.Error("Expired() = true for a future expiry")
	}
}

func TestParseClaimsPrefersSubject(t *testing.T) {
	c, err := ParseClaims(signed(t, jwt.MapClaims{"sub": "s1", "id": "u1"}))
	if err != nil {
		t.Fatalf("ParseClaims() error = %v", err)
	}
	if c.Subject != "s1" {
		t.Errorf("Subject = %q, want s1", c.Subject)
	}
	if c.Expired() {
		t.Error("Expired() = true without exp")
	}
}

func TestParseClaimsExpired(t *testing.T) {
	c, err := ParseClaims(signed(t, jwt.MapClaims{"exp": time.Now().Add(-time.Minute).Unix()}))
	if err != nil {
		t.Fatalf("ParseClaims() error = %v", err)
	}
	if !c.Expired() {
		t.Error("Expired() = false for a past expiry")
	}
}

func TestParseClaimsMalformed(t *testing.T) {
	if _, err := ParseClaims("not-a-token"); err == nil {
		t.Error("ParseClaims() error = nil for malformed token")
	}
}
