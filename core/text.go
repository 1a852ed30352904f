package core

import "strings"

// Normalize lowercases text and removes every character that is not an
// ASCII letter, digit or space. Removed characters are dropped rather than
// replaced, so "e-mail" becomes "email".
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == ' ' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// SessionText builds the normalized text that represents a session:
// title, description and hashtags joined by single spaces.
func SessionText(s Session) string {
	return Normalize(s.Title + " " + s.Description + " " + strings.Join(s.Hashtags, " "))
}

// InterestText builds the normalized text that represents a candidate's interests.
func InterestText(c Candidate) string {
	return Normalize(strings.Join(c.DesiredSkills, " "))
}
