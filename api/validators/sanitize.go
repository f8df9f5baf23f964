package validators

import (
	"strings"
	"unicode"
)

// SanitizeString trims input, folds runs of whitespace and control characters
// into single spaces, and truncates to maxLen runes so names like "Jalapeño"
// are never cut mid-character. maxLen <= 0 disables truncation.
func SanitizeString(input string, maxLen int) string {
	return truncateRunes(strings.Join(strings.FieldsFunc(input, isSeparator), " "), maxLen)
}

// SanitizeCode normalises scanner and keyboard input for SKUs and barcodes.
// Scanners append CR, LF, tab or GS suffixes, so every space and control
// character is removed rather than folded.
func SanitizeCode(input string, maxLen int) string {
	cleaned := strings.Map(func(r rune) rune {
		if isSeparator(r) {
			return -1
		}
		return r
	}, input)
	return truncateRunes(cleaned, maxLen)
}

func isSeparator(r rune) bool {
	return unicode.IsSpace(r) || unicode.IsControl(r)
}

func truncateRunes(value string, maxLen int) string {
	if maxLen <= 0 {
		return value
	}
	runes := []rune(value)
	if len(runes) <= maxLen {
		return value
	}
	return string(runes[:maxLen])
}
