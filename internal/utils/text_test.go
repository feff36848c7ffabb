package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		expected  string
		wantDirty bool
	}{
		{"plain text", "fun room", "fun room", false},
		{"trims whitespace", "  fun room\n", "fun room", false},
		{"drops NUL bytes", "fun\x00 room", "fun room", true},
		{"drops invalid utf8", "fun\xff room", "fun room", true},
		{"keeps multibyte", "방탈출 성공", "방탈출 성공", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cleaned, dirty := CleanText(tt.input)
			assert.Equal(t, tt.expected, cleaned)
			assert.Equal(t, tt.wantDirty, dirty)
		})
	}
}
