package utils

import (
	"strings"
	"unicode"
)

// NormalizeString trims surrounding whitespace, including full-width spaces.
func NormalizeString(s string) string {
	return strings.TrimFunc(s, unicode.IsSpace)
}

// NormalizeEmail lowercases and trims an e-mail address.
func NormalizeEmail(email string) string {
	return strings.ToLower(NormalizeString(email))
}

// NormalizePhone keeps digits and a leading '+'. Separators such as
// "090-1234-5678" or "(555) 010 0000" are dropped.
func NormalizePhone(phone string) string {
	cleaned := NormalizeString(phone)
	if cleaned == "" {
		return ""
	}

	var result strings.Builder
	for i, r := range cleaned {
		if i == 0 && r == '+' {
			result.WriteRune(r)
		} else if unicode.IsDigit(r) {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// IsValidEmail accepts local@domain.tld with no whitespace anywhere.
func IsValidEmail(email string) bool {
	normalized := NormalizeEmail(email)
	if normalized == "" || strings.IndexFunc(normalized, unicode.IsSpace) >= 0 {
		return false
	}

	local, domain, ok := strings.Cut(normalized, "@")
	if !ok || local == "" || strings.Contains(domain, "@") {
		return false
	}
	dot := strings.LastIndex(domain, ".")
	return dot > 0 && dot < len(domain)-1
}

// IsValidPhone reports whether the normalized number has a plausible length.
func IsValidPhone(phone string) bool {
	normalized := NormalizePhone(phone)
	digits := strings.TrimPrefix(normalized, "+")
	return len(digits) >= 7 && len(digits) <= 15
}
