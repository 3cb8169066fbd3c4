package validator

import (
	"net/mail"
	"slices"
	"strings"
	"unicode"
)

// Required fails when the trimmed value is empty.
func Required(field, value string) Rule {
	return Rule{
		Check: func() bool { return strings.TrimSpace(value) != "" },
		Error: ValidationError{Field: field, Message: "is required"},
	}
}

// ValidEmail checks the address parses and has a dotted domain, which is the
// practical bar for web signup forms.
func ValidEmail(field, value string) Rule {
	return Rule{
		Check: func() bool {
			if strings.TrimSpace(value) == "" {
				return false
			}

			addr, err := mail.ParseAddress(value)
			if err != nil {
				return false
			}

			parts := strings.Split(addr.Address, "@")
			if len(parts) != 2 || parts[0] == "" {
				return false
			}

			domain := parts[1]
			return strings.Contains(domain, ".") &&
				!strings.HasPrefix(domain, ".") &&
				!strings.HasSuffix(domain, ".")
		},
		Error: ValidationError{Field: field, Message: "must be a valid email address"},
	}
}

// StrongPassword enforces the account password policy: at least 8
// characters with a lowercase letter, an uppercase letter, a digit and a
// special character.
func StrongPassword(field, value string) Rule {
	return Rule{
		Check: func() bool {
			if len(value) < 8 {
				return false
			}

			var lower, upper, digit, special bool
			for _, r := range value {
				switch {
				case unicode.IsLower(r):
					lower = true
				case unicode.IsUpper(r):
					upper = true
				case unicode.IsDigit(r):
					digit = true
				default:
					special = true
				}
			}
			return lower && upper && digit && special
		},
		Error: ValidationError{
			Field:   field,
			Message: "must be at least 8 characters long and contain an uppercase letter, a lowercase letter, a number, and a special character",
		},
	}
}

// Match fails when the two values differ. Used for password confirmation.
func Match(field, value, other string) Rule {
	return Rule{
		Check: func() bool { return value == other },
		Error: ValidationError{Field: field, Message: "does not match"},
	}
}

// OneOf fails unless the value is one of the allowed choices.
func OneOf(field, value string, allowed ...string) Rule {
	return Rule{
		Check: func() bool { return slices.Contains(allowed, value) },
		Error: ValidationError{
			Field:   field,
			Message: "must be one of: " + strings.Join(allowed, ", "),
		},
	}
}
