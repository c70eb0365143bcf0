package utils

import "testing"

func TestNormalizePhone(t *testing.T) {
	cases := map[string]string{
		"":                  "",
		"  ":                "",
		"090-1234-5678":     "09012345678",
		"+1 (555) 010-0000": "+15550100000",
		"1+2":               "12",
	}
	for in, want := range cases {
		if got := NormalizePhone(in); got != want {
			t.Errorf("NormalizePhone(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestIsValidEmail(t *testing.T) {
	valid := []string{"a@b.co", " Jane@Example.com ", "first.last+tag@mail.example.org"}
	invalid := []string{"", "plain", "@b.co", "a@b", "a@.co", "a@b.", "a b@c.de", "a@b@c.de"}

	for _, e := range valid {
		if !IsValidEmail(e) {
			t.Errorf("expected %q to be valid", e)
		}
	}
	for _, e := range invalid {
		if IsValidEmail(e) {
			t.Errorf("expected %q to be invalid", e)
		}
	}
}

func TestIsValidPhone(t *testing.T) {
	if !IsValidPhone("+49 30 1234567") {
		t.Error("expected german number to be valid")
	}
	if IsValidPhone("123") || IsValidPhone("1234567890123456") {
		t.Error("expected too short and too long numbers to be invalid")
	}
}
