package utils

import (
	"strings"
)

// ExtractBranchFromRef extracts the branch name from a GitHub ref
// e.g., "refs/heads/main" -> "main"
func ExtractBranchFromRef(ref string) string {
	if strings.HasPrefix(ref, "refs/heads/") {
		return strings.TrimPrefix(ref, "refs/heads/")
	}
	return ref
}

// SplitRepository splits an "owner/name" repository into its two parts.
// A value without a slash is returned as the name with an empty owner.
func SplitRepository(repository string) (owner, name string) {
	if idx := strings.LastIndexByte(repository, '/'); idx >= 0 {
		return repository[:idx], repository[idx+1:]
	}
	return "", repository
}

// RedactToken redacts a token string for safe logging, preserving only the first and last N characters
func RedactToken(token string, firstN, lastN int) string {
	if token == "" {
		return ""
	}

	tokenLen := len(token)

	// If token is shorter than firstN + lastN, just mask it all
	if tokenLen <= firstN+lastN {
		return strings.Repeat("*", tokenLen)
	}

	return token[:firstN] + "..." + token[tokenLen-lastN:]
}

// TruncateString truncates a string to the specified length and adds an ellipsis if truncated
func TruncateString(s string, maxLength int) string {
	if len(s) <= maxLength {
		return s
	}

	return s[:maxLength-3] + "..."
}
