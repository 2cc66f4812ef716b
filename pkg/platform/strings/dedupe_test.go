package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupeAndTrimLower(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{
			name:     "nil slice",
			input:    nil,
			expected: nil,
		},
		{
			name:     "empty slice",
			input:    []string{},
			expected: []string{},
		},
		{
			name:     "lowercases and trims",
			input:    []string{"  @SSO. ", "@Admin."},
			expected: []string{"@sso.", "@admin."},
		},
		{
			name:     "case-insensitive dedupe preserving order",
			input:    []string{"@organizer.", "@sso.", "@ORGANIZER."},
			expected: []string{"@organizer.", "@sso."},
		},
		{
			name:     "drops blanks",
			input:    []string{"", "   ", "@sso."},
			expected: []string{"@sso."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DedupeAndTrimLower(tt.input))
		})
	}
}

func TestSplitList(t *testing.T) {
	assert.Nil(t, SplitList(""))
	assert.Nil(t, SplitList("   "))
	assert.Equal(t, []string{"@sso.", "@staff."}, SplitList("@SSO., @staff.,,@sso."))
}

func TestHasAnyPrefix(t *testing.T) {
	prefixes := []string{"@sso.", "@admin."}
	assert.True(t, HasAnyPrefix("@sso.com", prefixes))
	assert.True(t, HasAnyPrefix("@admin.example.org", prefixes))
	assert.False(t, HasAnyPrefix("@gmail.com", prefixes))
	assert.False(t, HasAnyPrefix("@gmail.com", nil))
	assert.False(t, HasAnyPrefix("anything", []string{""}), "empty prefix never matches")
}
