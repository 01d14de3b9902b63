package validators

import "strings"

// SanitizeString trims surrounding whitespace and caps the result at maxRunes
// characters. Truncation counts runes so multi-byte player names and message
// text never get cut mid-character.
func SanitizeString(input string, maxRunes int) string {
	trimmed := strings.TrimSpace(input)
	if maxRunes <= 0 {
		return trimmed
	}
	runes := []rune(trimmed)
	if len(runes) <= maxRunes {
		return trimmed
	}
	return string(runes[:maxRunes])
}
