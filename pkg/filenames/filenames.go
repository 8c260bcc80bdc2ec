package filenames

import "strings"

// MaxLength caps sanitized names to avoid filename limits on some filesystems.
const MaxLength = 100

// Sanitize turns an arbitrary entry title into a safe filename component.
// Spaces become underscores, characters illegal on common filesystems are
// dropped, and the result is capped at MaxLength runes. An empty title
// yields "untitled".
func Sanitize(title string) string {
	if title == "" {
		return "untitled"
	}
	s := strings.ReplaceAll(title, " ", "_")
	s = strings.Map(func(r rune) rune {
		switch r {
		case '<', '>', ':', '"', '/', '\\', '|', '?', '*':
			return -1
		}
		return r
	}, s)
	runes := []rune(s)
	if len(runes) > MaxLength {
		return string(runes[:MaxLength])
	}
	return s
}
