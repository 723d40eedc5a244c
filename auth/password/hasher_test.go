package password

import (
	"strings"
	"testing"
)

func TestBcryptHashAndVerify(t *testing.T) {
	h := NewBcryptHasher(WithCost(4)) // minimum cost keeps the test fast

	hash, err := h.Hash("pw123")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if hash == "pw123" {
		t.Fatal("hash must not equal the plaintext")
	}
	if err := h.Verify("pw123", hash); err != nil {
		t.Errorf("Verify with correct password failed: %v", err)
	}
	if err := h.Verify("wrong", hash); err != ErrMismatch {
		t.Errorf("Verify with wrong password = %v, want ErrMismatch", err)
	}
}

func TestBcryptHashRejectsBlank(t *testing.T) {
	h := NewBcryptHasher(WithCost(4))
	if _, err := h.Hash(""); err == nil {
		t.Fatal("expected error for blank password, got nil")
	}
}

func TestBcryptHashRejectsOverlong(t *testing.T) {
	h := NewBcryptHasher(WithCost(4))
	if _, err := h.Hash(strings.Repeat("a", 73)); err == nil {
		t.Fatal("expected error for password over 72 bytes, got nil")
	}
}

func TestGenerateRecoveryCode(t *testing.T) {
	a, err := GenerateRecoveryCode(16)
	if err != nil {
		t.Fatalf("GenerateRecoveryCode failed: %v", err)
	}
	if len(a) != 32 { // hex doubles the byte length
		t.Errorf("code length = %d, want 32", len(a))
	}
	b, err := GenerateRecoveryCode(16)
	if err != nil {
		t.Fatalf("GenerateRecoveryCode failed: %v", err)
	}
	if a == b {
		t.Error("two generated codes must not collide")
	}
}
