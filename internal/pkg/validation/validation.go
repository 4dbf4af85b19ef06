package validation

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

const MaxInvitationCodeLength = 128

// IsValidInvitationCode accepts any non-empty UTF-8 code up to
// MaxInvitationCodeLength characters without control characters. Codes are
// escaped wherever they travel in a URL or cookie.
func IsValidInvitationCode(code string) bool {
	if code == "" || !utf8.ValidString(code) || utf8.RuneCountInString(code) > MaxInvitationCodeLength {
		return false
	}
	return strings.IndexFunc(code, unicode.IsControl) < 0
}

// ParseID accepts a positive base-10 integer id.
func ParseID(raw string) (uint, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	n, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}

// SplitMembers parses the admin form's comma-separated guest list.
func SplitMembers(s string) []string {
	return NormalizeMembers(strings.Split(s, ","))
}

// NormalizeMembers trims names and drops empty ones, keeping order.
func NormalizeMembers(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, n)
		}
	}
	return out
}

// HasDuplicates reports whether any name appears twice (case-sensitive).
func HasDuplicates(names []string) bool {
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		if _, ok := seen[n]; ok {
			return true
		}
		seen[n] = struct{}{}
	}
	return false
}
