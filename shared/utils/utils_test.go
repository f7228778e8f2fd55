package utils

import (
	"errors"
	"strings"
	"testing"
)

func TestNewAccountID(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		id := NewAccountID()
		if !ValidateAccountID(id) {
			t.Fatalf("generated id %q does not validate", id)
		}
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}

func TestValidateAccountID(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"acc-abcdefghij", true},
		{"acc-AbC0123xyz", true},
		{"usr-abcdefghij", false},
		{"acc-short", false},
		{"acc-abcdefghi!", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			if got := ValidateAccountID(tt.id); got != tt.want {
				t.Errorf("ValidateAccountID(%q) = %v, want %v", tt.id, got, tt.want)
			}
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  Ana@X.com\n"); got != "Ana@X.com" {
		t.Errorf("NormalizeEmail() = %q", got)
	}
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("p1")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "p1" {
		t.Fatal("hash must not equal the plain password")
	}
	if !CheckPassword("p1", hash) {
		t.Error("expected matching password to check")
	}
	if CheckPassword("p2", hash) {
		t.Error("expected wrong password to fail")
	}
	if CheckPassword("p1", "not-a-hash") {
		t.Error("expected malformed hash to fail")
	}

	if _, err := HashPassword(strings.Repeat("x", 73)); !errors.Is(err, ErrPasswordTooLong) {
		t.Errorf("expected ErrPasswordTooLong, got %v", err)
	}
}
