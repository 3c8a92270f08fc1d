package errors

import (
	"strings"
	"unicode"
)

// MaxVertices bounds the vertex count accepted from untrusted input
// (graph files, HTTP requests). The search itself has no such limit.
const MaxVertices = 1 << 16

// ValidateVertexCount rejects negative or oversized vertex counts.
func ValidateVertexCount(n int) error {
	if n < 0 {
		return New(ErrCodeInvalidInput, "vertex count must not be negative: %d", n)
	}
	if n > MaxVertices {
		return New(ErrCodeInvalidInput, "vertex count too large (max %d): %d", MaxVertices, n)
	}
	return nil
}

// ValidateEdgeEndpoints checks that u and v index a graph with n vertices.
func ValidateEdgeEndpoints(u, v, n int) error {
	if u < 0 || u >= n || v < 0 || v >= n {
		return New(ErrCodeInvalidEdge, "edge %d-%d outside vertex range [0,%d)", u, v, n)
	}
	return nil
}

// ValidatePath validates a graph file path supplied by a user.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidInput, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidInput, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "path contains invalid characters")
		}
	}
	return nil
}

// ValidateGraph6 performs a cheap character-range check on a graph6 string.
// Full structural validation happens in the decoder.
func ValidateGraph6(s string) error {
	s = strings.TrimPrefix(s, ">>graph6<<")
	if s == "" {
		return New(ErrCodeInvalidFormat, "graph6 string cannot be empty")
	}
	for i := 0; i < len(s); i++ {
		if s[i] < 63 || s[i] > 126 {
			return New(ErrCodeInvalidFormat, "graph6 byte %d out of range: %q", i, s[i])
		}
	}
	return nil
}
