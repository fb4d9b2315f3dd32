package auth

import (
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	tokens := Tokens{Secret: []byte("test-secret"), TTL: time.Hour}

	token, err := tokens.Issue("42")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if token == "" {
		t.Fatal("empty token")
	}

	claims, err := tokens.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.UserID != "42" {
		t.Fatalf("user id = %q, want 42", claims.UserID)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	token, err := Tokens{Secret: []byte("one"), TTL: time.Hour}.Issue("42")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := (Tokens{Secret: []byte("two")}).Verify(token); err == nil {
		t.Fatal("expected verification failure with wrong secret")
	}
}

func TestIssueRequiresSecret(t *testing.T) {
	if _, err := (Tokens{}).Issue("42"); err == nil {
		t.Fatal("expected error without secret")
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter2")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "hunter2" {
		t.Fatal("password stored in plaintext")
	}
	if !CheckPassword(hash, "hunter2") {
		t.Fatal("correct password rejected")
	}
	if CheckPassword(hash, "hunter3") {
		t.Fatal("wrong password accepted")
	}
}
