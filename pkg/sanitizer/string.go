package sanitizer

import (
	"strings"
	"unicode"
)

func TrimAndNormalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	var result strings.Builder
	var lastWasSpace bool
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				result.WriteRune(' ')
				lastWasSpace = true
			}
		} else {
			result.WriteRune(r)
			lastWasSpace = false
		}
	}
	return result.String()
}

func NormalizeName(name string) string {
	return TrimAndNormalize(name)
}

func NormalizeNote(note string) string {
	return TrimAndNormalize(note)
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func NormalizeURL(rawURL string) string {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return ""
	}
	// Scheme match must be case-insensitive; hosts shout sometimes.
	lower := strings.ToLower(rawURL)
	switch {
	case strings.HasPrefix(lower, "http://"):
		rawURL = rawURL[len("http://"):]
	case strings.HasPrefix(lower, "https://"):
		rawURL = rawURL[len("https://"):]
	}

	parts := strings.SplitN(rawURL, "/", 2)
	host := strings.ToLower(parts[0])
	var path string
	if len(parts) > 1 {
		path = "/" + parts[1]
	}
	return strings.TrimSuffix("https://"+host+path, "/")
}
