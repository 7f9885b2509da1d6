package utils

// Truncate returns the first maxLen characters of s followed by "...", or s
// unchanged when it already fits.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}

	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}
