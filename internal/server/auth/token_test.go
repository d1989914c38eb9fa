package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/streamly/authd/internal/common"
)

func newTestIssuer() *TokenIssuer {
	return NewTokenIssuer("super-secret", 7*24*time.Hour, 10*time.Minute)
}

func TestIssueSession_VerifyRoundTrip(t *testing.T) {
	t.Parallel()

	i := newTestIssuer()
	tok, err := i.IssueSession("user-123")
	if err != nil {
		t.Fatalf("IssueSession error: %v", err)
	}

	claims, err := i.Verify(tok)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if claims.UserID != "user-123" {
		t.Fatalf("userID mismatch: got %q want %q", claims.UserID, "user-123")
	}
	if claims.MFARequired {
		t.Fatalf("session token must not carry the MFA-pending discriminator")
	}
}

func TestIssueMfaChallenge_CarriesDiscriminator(t *testing.T) {
	t.Parallel()

	i := newTestIssuer()
	tok, err := i.IssueMfaChallenge("user-456")
	if err != nil {
		t.Fatalf("IssueMfaChallenge error: %v", err)
	}

	claims, err := i.Verify(tok)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if claims.UserID != "user-456" {
		t.Fatalf("userID mismatch: got %q", claims.UserID)
	}
	if !claims.MFARequired {
		t.Fatalf("challenge token must carry the MFA-pending discriminator")
	}
}

func TestVerify_Expired(t *testing.T) {
	t.Parallel()

	i := newTestIssuer()
	tok, err := i.IssueMfaChallenge("u1")
	if err != nil {
		t.Fatalf("IssueMfaChallenge error: %v", err)
	}

	// move the verifier's clock past the challenge expiry
	i.now = func() time.Time { return time.Now().Add(11 * time.Minute) }

	_, err = i.Verify(tok)
	if !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected common.ErrInvalidToken for expired token, got %v", err)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := newTestIssuer().IssueSession("u2")
	if err != nil {
		t.Fatalf("IssueSession error: %v", err)
	}

	other := NewTokenIssuer("different-secret", time.Hour, time.Minute)
	_, err = other.Verify(tok)
	if !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected common.ErrInvalidToken for wrong secret, got %v", err)
	}
}

func TestVerify_MalformedString(t *testing.T) {
	t.Parallel()

	_, err := newTestIssuer().Verify("not.a.jwt")
	if !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected common.ErrInvalidToken for malformed token, got %v", err)
	}
}

func TestVerify_FailuresAreIndistinguishable(t *testing.T) {
	t.Parallel()

	i := newTestIssuer()

	expired, err := i.IssueSession("u3")
	if err != nil {
		t.Fatalf("IssueSession error: %v", err)
	}
	foreign, err := NewTokenIssuer("other", time.Hour, time.Minute).IssueSession("u3")
	if err != nil {
		t.Fatalf("IssueSession error: %v", err)
	}

	i.now = func() time.Time { return time.Now().Add(8 * 24 * time.Hour) }

	_, errExpired := i.Verify(expired)
	_, errForeign := i.Verify(foreign)
	_, errGarbage := i.Verify("garbage")

	for _, err := range []error{errExpired, errForeign, errGarbage} {
		if !errors.Is(err, common.ErrInvalidToken) {
			t.Fatalf("expected common.ErrInvalidToken, got %v", err)
		}
	}
	if errExpired.Error() != errForeign.Error() || errForeign.Error() != errGarbage.Error() {
		t.Fatalf("verification failures must not be distinguishable by message")
	}
}
