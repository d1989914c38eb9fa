package auth

import (
	"strings"
	"testing"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("secret1")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if hash == "secret1" {
		t.Fatalf("hash must not equal the raw password")
	}
	if !strings.HasPrefix(hash, "$2") {
		t.Fatalf("expected a bcrypt hash, got %q", hash)
	}

	if !CheckPassword("secret1", hash) {
		t.Fatalf("CheckPassword must accept the original password")
	}
}

func TestCheckPassword_WrongPassword(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("secret1")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}

	if CheckPassword("secret2", hash) {
		t.Fatalf("CheckPassword must reject a different password")
	}
}

func TestCheckPassword_MalformedHash(t *testing.T) {
	t.Parallel()

	if CheckPassword("secret1", "not-a-bcrypt-hash") {
		t.Fatalf("CheckPassword must reject a malformed hash")
	}
}

func TestHashPassword_UniqueSalts(t *testing.T) {
	t.Parallel()

	h1, err := HashPassword("secret1")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	h2, err := HashPassword("secret1")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if h1 == h2 {
		t.Fatalf("two hashes of the same password must differ (random salt)")
	}
}
