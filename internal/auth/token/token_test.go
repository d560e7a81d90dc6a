package token

import (
	"errors"
	"testing"
	"time"
)

func TestIssueAndVerify_RoundTrip(t *testing.T) {
	t.Parallel()

	svc := NewService([]byte("super-secret"))

	tok, err := svc.Issue("a@x.com")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	claims, err := svc.Verify(tok)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if claims.Email != "a@x.com" {
		t.Fatalf("email mismatch: got %q want %q", claims.Email, "a@x.com")
	}
}

func TestVerify_Expired(t *testing.T) {
	t.Parallel()

	issuedAt := time.Now()
	svc := NewService([]byte("secret")).WithClock(func() time.Time {
		return issuedAt
	})

	tok, err := svc.Issue("a@x.com")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	// Advance the clock one second past the one-hour validity.
	svc.WithClock(func() time.Time {
		return issuedAt.Add(TTL + time.Second)
	})

	_, err = svc.Verify(tok)
	if !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestVerify_JustBeforeExpiry(t *testing.T) {
	t.Parallel()

	issuedAt := time.Now()
	svc := NewService([]byte("secret")).WithClock(func() time.Time {
		return issuedAt
	})

	tok, err := svc.Issue("a@x.com")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	svc.WithClock(func() time.Time {
		return issuedAt.Add(TTL - time.Second)
	})

	if _, err := svc.Verify(tok); err != nil {
		t.Fatalf("expected valid token just before expiry, got %v", err)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := NewService([]byte("right-secret")).Issue("a@x.com")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	_, err = NewService([]byte("wrong-secret")).Verify(tok)
	if !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestVerify_Malformed(t *testing.T) {
	t.Parallel()

	svc := NewService([]byte("k"))

	for _, tok := range []string{"", "not.a.jwt", "garbage"} {
		if _, err := svc.Verify(tok); !errors.Is(err, ErrTokenInvalid) {
			t.Fatalf("token %q: expected ErrTokenInvalid, got %v", tok, err)
		}
	}
}
