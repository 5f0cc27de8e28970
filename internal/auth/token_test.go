package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestIssueAndVerify_Success(t *testing.T) {
	t.Parallel()

	svc := NewTokenService([]byte("super-secret"), 7*24*time.Hour)
	userID := uuid.New()

	tok, err := svc.Issue(userID)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	got, err := svc.Verify(tok)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if got != userID {
		t.Fatalf("subject mismatch: got %s want %s", got, userID)
	}
}

func TestVerify_WithinLifetime(t *testing.T) {
	t.Parallel()

	issuedAt := time.Now()
	svc := NewTokenService([]byte("secret"), 7*24*time.Hour)
	svc.now = func() time.Time { return issuedAt }

	tok, err := svc.Issue(uuid.New())
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	// Six days in the token still verifies.
	svc.now = func() time.Time { return issuedAt.Add(6 * 24 * time.Hour) }
	if _, err := svc.Verify(tok); err != nil {
		t.Fatalf("Verify at +6d error: %v", err)
	}

	// Eight days in it is expired.
	svc.now = func() time.Time { return issuedAt.Add(8 * 24 * time.Hour) }
	if _, err := svc.Verify(tok); err != ErrTokenExpired {
		t.Fatalf("expected ErrTokenExpired at +8d, got %v", err)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := NewTokenService([]byte("right-secret"), time.Hour).Issue(uuid.New())
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	_, err = NewTokenService([]byte("wrong-secret"), time.Hour).Verify(tok)
	if err != ErrTokenSignatureInvalid {
		t.Fatalf("expected ErrTokenSignatureInvalid, got %v", err)
	}
}

func TestVerify_Malformed(t *testing.T) {
	t.Parallel()

	svc := NewTokenService([]byte("k"), time.Hour)
	if _, err := svc.Verify("not.a.jwt"); err != ErrTokenMalformed {
		t.Fatalf("expected ErrTokenMalformed, got %v", err)
	}
}
