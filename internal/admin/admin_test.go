package admin

import "testing"

func TestHashAndVerifyToken(t *testing.T) {
	hashed, err := HashToken("s3cret")
	if err != nil {
		t.Fatalf("HashToken: %v", err)
	}
	if hashed == "s3cret" {
		t.Fatal("token stored in plain text")
	}
	if !VerifyAdminToken(hashed, "s3cret") {
		t.Error("expected matching token to verify")
	}
	if VerifyAdminToken(hashed, "wrong") {
		t.Error("expected wrong token to fail")
	}
}

func TestHashTokenRejectsEmpty(t *testing.T) {
	if _, err := HashToken(""); err == nil {
		t.Error("expected error for empty token")
	}
}
