package util

// SafeTruncate safely truncates a string to maxLen bytes without panicking.
// Returns the original string if it's shorter than maxLen, otherwise returns
// the first maxLen bytes. This is used when logging token values, where only
// a prefix may be shown.
//
// If maxLen is negative, it's treated as 0 and returns an empty string.
//
// Example:
//
//	SafeTruncate("very-long-token-abc123", 8) // Returns: "very-lon"
//	SafeTruncate("short", 10)                  // Returns: "short"
//	SafeTruncate("test", -1)                   // Returns: ""
func SafeTruncate(s string, maxLen int) string {
	if maxLen < 0 {
		return ""
	}
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen]
}

// TokenPrefix returns a log-safe prefix of a token followed by an ellipsis.
// Tokens of 8 bytes or fewer are fully masked.
func TokenPrefix(token string) string {
	const prefixLen = 8
	if len(token) <= prefixLen {
		return "***"
	}
	return SafeTruncate(token, prefixLen) + "..."
}
