package utils

import "testing"

func TestHashPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret-pw")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if hash == "s3cret-pw" {
		t.Fatalf("expected hash to differ from plain password")
	}
	if !CheckPassword("s3cret-pw", hash) {
		t.Fatalf("expected matching password to verify")
	}
	if CheckPassword("wrong-pw", hash) {
		t.Fatalf("expected mismatching password to fail")
	}
}

func TestCheckPasswordRejectsGarbageHash(t *testing.T) {
	if CheckPassword("anything", "not-a-bcrypt-hash") {
		t.Fatalf("expected garbage hash to fail verification")
	}
}
