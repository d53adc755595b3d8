package password

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerify(t *testing.T) {
	Cost = bcrypt.MinCost
	t.Cleanup(func() { Cost = DefaultCost })

	hash, err := Hash("s3cret-pass")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if hash == "s3cret-pass" {
		t.Fatal("hash equals plaintext")
	}
	if !Verify("s3cret-pass", hash) {
		t.Error("Verify rejected the right password")
	}
	if Verify("wrong-pass1", hash) {
		t.Error("Verify accepted a wrong password")
	}
}

func TestHashToken(t *testing.T) {
	a := HashToken("token-a")
	if a != HashToken("token-a") {
		t.Error("HashToken is not deterministic")
	}
	if a == HashToken("token-b") {
		t.Error("different tokens share a hash")
	}
	if len(a) != 64 {
		t.Errorf("len = %d, want 64 hex chars", len(a))
	}
}

func TestValidatePassword(t *testing.T) {
	tests := map[string]bool{
		"short1":      false,
		"lettersonly": false,
		"12345678":    false,
		"passw0rd":    true,
	}
	for pw, want := range tests {
		if got := ValidatePassword(pw); got != want {
			t.Errorf("ValidatePassword(%q) = %v, want %v", pw, got, want)
		}
	}
}
