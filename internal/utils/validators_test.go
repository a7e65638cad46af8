package utils

import "testing"

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"user@example.com", true},
		{"first.last+tag@sub.domain.org", true},
		{"user@localhost", false},
		{"not-an-email", false},
		{"@example.com", false},
		{"user@", false},
		{"", false},
	}
	for _, tc := range tests {
		if got := IsValidEmail(tc.email); got != tc.want {
			t.Errorf("IsValidEmail(%q) = %v, want %v", tc.email, got, tc.want)
		}
	}
}

func TestIsValidPhone(t *testing.T) {
	tests := []struct {
		phone string
		want  bool
	}{
		{"9876543210", true},
		{"+919876543210", true},
		{"12345678", true},
		{"1234567", false},
		{"1234567890123456", false},
		{"98765-43210", false},
		{"+", false},
		{"", false},
	}
	for _, tc := range tests {
		if got := IsValidPhone(tc.phone); got != tc.want {
			t.Errorf("IsValidPhone(%q) = %v, want %v", tc.phone, got, tc.want)
		}
	}
}

func TestIsDigits(t *testing.T) {
	tests := []struct {
		s    string
		n    int
		want bool
	}{
		{"123456", 6, true},
		{"000000", 6, true},
		{"12345", 6, false},
		{"1234567", 6, false},
		{"12345a", 6, false},
		{"", 0, true},
	}
	for _, tc := range tests {
		if got := IsDigits(tc.s, tc.n); got != tc.want {
			t.Errorf("IsDigits(%q, %d) = %v, want %v", tc.s, tc.n, got, tc.want)
		}
	}
}
