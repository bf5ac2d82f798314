package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/ruchidavda1/todoapp/internal/common"
)

func fixedClock(t0 time.Time) (func() time.Time, func(d time.Duration)) {
	now := t0
	return func() time.Time { return now }, func(d time.Duration) { now = now.Add(d) }
}

func TestIssueAndVerify_Success(t *testing.T) {
	t.Parallel()

	svc := NewTokenService([]byte("super-secret"), time.Hour)

	tok, err := svc.Issue("user-123")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	got, err := svc.Verify(tok)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if got != "user-123" {
		t.Fatalf("userID mismatch: got %q want %q", got, "user-123")
	}
}

func TestVerify_ExpiryBoundary(t *testing.T) {
	t.Parallel()

	t0 := time.Unix(1_700_000_000, 0)
	clock, advance := fixedClock(t0)
	svc := NewTokenService([]byte("secret"), time.Hour).WithClock(clock)

	tok, err := svc.Issue("u1")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	advance(time.Hour - time.Second)
	if _, err := svc.Verify(tok); err != nil {
		t.Fatalf("expected token valid just before expiry, got %v", err)
	}

	advance(time.Second)
	_, err = svc.Verify(tok)
	if !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken at expiry, got %v", err)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := NewTokenService([]byte("right-secret"), time.Hour).Issue("u2")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	_, err = NewTokenService([]byte("wrong-secret"), time.Hour).Verify(tok)
	if !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for invalid signature, got %v", err)
	}
}

func TestVerify_TamperedPayload(t *testing.T) {
	t.Parallel()

	svc := NewTokenService([]byte("k"), time.Hour)
	tok, err := svc.Issue("u3")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	parts := strings.Split(tok, ".")
	other, _ := NewTokenService([]byte("k"), time.Hour).Issue("someone-else")
	parts[1] = strings.Split(other, ".")[1]

	if _, err := svc.Verify(strings.Join(parts, ".")); !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for tampered token, got %v", err)
	}
}

func TestVerify_MalformedString(t *testing.T) {
	t.Parallel()

	svc := NewTokenService([]byte("k"), time.Hour)
	for _, s := range []string{"", "not.a.jwt", "abc"} {
		if _, err := svc.Verify(s); !errors.Is(err, common.ErrInvalidToken) {
			t.Fatalf("Verify(%q): expected ErrInvalidToken, got %v", s, err)
		}
	}
}

func TestVerify_RejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()

	secret := []byte("k")
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
		UserID:           "u4",
	}).SignedString(secret)
	if err != nil {
		t.Fatalf("SignedString error: %v", err)
	}

	if _, err := NewTokenService(secret, time.Hour).Verify(tok); !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for HS512 token, got %v", err)
	}
}

func TestVerify_MissingClaims(t *testing.T) {
	t.Parallel()

	secret := []byte("k")
	svc := NewTokenService(secret, time.Hour)

	noExp, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{UserID: "u5"}).SignedString(secret)
	if _, err := svc.Verify(noExp); !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken without exp, got %v", err)
	}

	noUser, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString(secret)
	if _, err := svc.Verify(noUser); !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken without userId, got %v", err)
	}
}

func TestIssue_EmptyUser(t *testing.T) {
	t.Parallel()

	if _, err := NewTokenService([]byte("k"), time.Hour).Issue(""); err == nil {
		t.Fatalf("expected error for empty user id")
	}
}
