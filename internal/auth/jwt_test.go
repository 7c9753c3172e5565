package auth

import (
	"testing"
	"time"
)

func TestIssueParseRoundTrip(t *testing.T) {
	iss := NewIssuer("test-key", "qrattend", 24*time.Hour)

	token, exp, err := iss.Issue(42, "a@test.edu", "student", "A Student")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if until := time.Until(exp); until < 23*time.Hour || until > 25*time.Hour {
		t.Errorf("expiry %v not ~24h out", exp)
	}

	claims, err := iss.Parse(token)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if claims.UserID != 42 || claims.Email != "a@test.edu" || claims.Role != "student" || claims.FullName != "A Student" {
		t.Errorf("claims = %+v", claims)
	}
}

func TestParseRejections(t *testing.T) {
	iss := NewIssuer("test-key", "qrattend", time.Hour)
	token, _, err := iss.Issue(1, "a@test.edu", "student", "A")
	if err != nil {
		t.Fatal(err)
	}

	expiredIssuer := NewIssuer("test-key", "qrattend", time.Hour)
	expiredIssuer.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, _, err := expiredIssuer.Issue(1, "a@test.edu", "student", "A")
	if err != nil {
		t.Fatal(err)
	}

	otherIssuer := NewIssuer("test-key", "someone-else", time.Hour)
	foreign, _, err := otherIssuer.Issue(1, "a@test.edu", "student", "A")
	if err != nil {
		t.Fatal(err)
	}

	// Flip the final signature character to something it is not.
	tampered := token[:len(token)-1] + "A"
	if tampered == token {
		tampered = token[:len(token)-1] + "B"
	}

	tests := []struct {
		name   string
		parser *Issuer
		token  string
	}{
		{"garbage", iss, "not.a.token"},
		{"empty", iss, ""},
		{"wrong key", NewIssuer("other-key", "qrattend", time.Hour), token},
		{"expired", iss, expired},
		{"issuer mismatch", iss, foreign},
		{"tampered", iss, tampered},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.parser.Parse(tt.token); err == nil {
				t.Error("Parse() accepted an invalid token")
			}
		})
	}
}

func TestPasswordHashing(t *testing.T) {
	digest, err := HashPassword("secret1")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if digest == "secret1" {
		t.Fatal("digest equals plaintext")
	}
	if !CheckPassword("secret1", digest) {
		t.Error("correct password rejected")
	}
	if CheckPassword("wrong", digest) {
		t.Error("wrong password accepted")
	}

	// Two hashes of the same password differ (random salt).
	other, err := HashPassword("secret1")
	if err != nil {
		t.Fatal(err)
	}
	if other == digest {
		t.Error("bcrypt digests should be salted")
	}
}
