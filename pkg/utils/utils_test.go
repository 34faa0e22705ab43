package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractBranchFromRef(t *testing.T) {
	tests := []struct {
		ref      string
		expected string
	}{
		{"refs/heads/main", "main"},
		{"refs/heads/feature/login", "feature/login"},
		{"refs/tags/v1.2.3", "refs/tags/v1.2.3"},
		{"refs/pull/42/merge", "refs/pull/42/merge"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractBranchFromRef(tt.ref))
		})
	}
}

func TestSplitRepository(t *testing.T) {
	owner, name := SplitRepository("octo-org/octo-repo")
	assert.Equal(t, "octo-org", owner)
	assert.Equal(t, "octo-repo", name)

	owner, name = SplitRepository("standalone")
	assert.Equal(t, "", owner)
	assert.Equal(t, "standalone", name)

	owner, name = SplitRepository("")
	assert.Equal(t, "", owner)
	assert.Equal(t, "", name)
}

func TestRedactToken(t *testing.T) {
	assert.Equal(t, "", RedactToken("", 4, 4))
	assert.Equal(t, "******", RedactToken("abcdef", 3, 3))
	assert.Equal(t, "abcd...wxyz", RedactToken("abcdefghijklmnopqrstuvwxyz", 4, 4))
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "short", TruncateString("short", 10))
	assert.Equal(t, "exactly10!", TruncateString("exactly10!", 10))

	long := strings.Repeat("a", 20)
	truncated := TruncateString(long, 10)
	assert.Len(t, truncated, 10)
	assert.True(t, strings.HasSuffix(truncated, "..."))
}
