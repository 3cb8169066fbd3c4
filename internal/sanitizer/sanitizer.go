// Package sanitizer normalizes untrusted user input before validation and
// storage.
package sanitizer

import "strings"

// NormalizeEmail lowercases and trims an email address so that lookups and
// the unique index treat addresses case-insensitively. The address is
// otherwise kept verbatim; dots in the local part are significant per RFC
// 5321, so distinct addresses are never conflated.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// TrimName trims surrounding whitespace from a person name component.
func TrimName(name string) string {
	return strings.TrimSpace(name)
}

// SplitDisplayName splits a federated display name into first and last name.
// The first token becomes the first name and the remaining tokens the last
// name; the provided defaults fill in missing parts.
func SplitDisplayName(name, defaultFirst, defaultLast string) (first, last string) {
	fields := strings.Fields(name)

	first = defaultFirst
	if len(fields) > 0 {
		first = fields[0]
	}

	last = defaultLast
	if len(fields) > 1 {
		last = strings.Join(fields[1:], " ")
	}

	return first, last
}
