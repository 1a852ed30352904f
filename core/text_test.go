package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "lowercases letters", input: "Hiking Trip", want: "hiking trip"},
		{name: "drops punctuation without separator", input: "e-mail, C++ & Go!", want: "email c  go"},
		{name: "keeps digits", input: "Web3 101", want: "web3 101"},
		{name: "drops hash signs", input: "#outdoors #nature", want: "outdoors nature"},
		{name: "drops non-ascii letters", input: "Café Ünïcode", want: "caf ncode"},
		{name: "drops tabs and newlines", input: "a\tb\nc", want: "abc"},
		{name: "keeps runs of spaces", input: "a  b", want: "a  b"},
		{name: "only symbols", input: "!@#$%^&*()", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"Hiking Trip",
		"Weekend hike!! #Outdoors",
		"ÀÉÎÕÜ ß ǅ İstanbul",
		"tax-law & accounting (CPA)",
		"   leading and trailing   ",
		"K", // Kelvin sign lowercases to ASCII 'k'
	}

	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}

func TestNormalize_Alphabet(t *testing.T) {
	inputs := []string{
		"Hello, World!",
		"ÀÉÎÕÜ ß ǅ İstanbul",
		"Kİß",
		"日本語 text 123",
	}

	for _, in := range inputs {
		out := Normalize(in)
		for _, r := range out {
			ok := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == ' '
			assert.True(t, ok, "unexpected rune %q in %q", r, out)
		}
		assert.Equal(t, strings.ToLower(out), out)
	}
}

func TestSessionText(t *testing.T) {
	t.Run("joins title description and hashtags", func(t *testing.T) {
		s := Session{
			Title:       "Hiking Trip",
			Description: "Weekend hike",
			Hashtags:    []string{"outdoors", "nature"},
		}
		assert.Equal(t, "hiking trip weekend hike outdoors nature", SessionText(s))
	})

	t.Run("empty session keeps separators", func(t *testing.T) {
		assert.Equal(t, "  ", SessionText(Session{}))
	})

	t.Run("hashtag symbols are stripped", func(t *testing.T) {
		s := Session{Title: "Go", Hashtags: []string{"#golang", "#backend"}}
		assert.Equal(t, "go  golang backend", SessionText(s))
	})
}

func TestInterestText(t *testing.T) {
	assert.Equal(t, "hiking camping", InterestText(Candidate{ID: "u1", DesiredSkills: []string{"Hiking", "Camping"}}))
	assert.Equal(t, "accounting tax law", InterestText(Candidate{ID: "u2", DesiredSkills: []string{"accounting", "tax law"}}))
	assert.Equal(t, "", InterestText(Candidate{ID: "u3"}))
}
