package sanitizer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/olachris/backend/internal/sanitizer"
)

func TestNormalizeEmail(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercases", "Alice@Example.COM", "alice@example.com"},
		{"trims whitespace", "  bob@example.com  ", "bob@example.com"},
		{"keeps local part dots verbatim", "a.b@example.com", "a.b@example.com"},
		{"distinct dotted addresses stay distinct", "ab..c@example.com", "ab..c@example.com"},
		{"leaves invalid shape alone", "not-an-email", "not-an-email"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, sanitizer.NormalizeEmail(tt.input))
		})
	}
}

func TestSplitDisplayName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     string
		wantFirst string
		wantLast  string
	}{
		{"two tokens", "Jane Doe", "Jane", "Doe"},
		{"many tokens join as last name", "Jean Claude Van Damme", "Jean", "Claude Van Damme"},
		{"single token keeps default last", "Prince", "Prince", "Google"},
		{"empty name uses both defaults", "", "User", "Google"},
		{"whitespace only uses defaults", "   ", "User", "Google"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			first, last := sanitizer.SplitDisplayName(tt.input, "User", "Google")
			assert.Equal(t, tt.wantFirst, first)
			assert.Equal(t, tt.wantLast, last)
		})
	}
}
