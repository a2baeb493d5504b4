package intent

import (
	"strings"
	"unicode"
)

// utterance carries one input in raw and normalized forms. norm keeps
// every word so phrase rules can match; tokens are its fields.
type utterance struct {
	raw    string
	norm   string
	tokens []string
	set    map[string]bool
}

// parse lowercases the text, folds apostrophes ("what's" becomes
// "whats"), and maps remaining punctuation to spaces.
func parse(text string) utterance {
	raw := strings.TrimSpace(text)
	lower := strings.ReplaceAll(strings.ToLower(raw), "'", "")

	var b strings.Builder
	b.Grow(len(lower))
	for _, r := range lower {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}

	tokens := strings.Fields(b.String())
	set := make(map[string]bool, len(tokens))
	for _, t := range tokens {
		set[t] = true
	}
	return utterance{
		raw:    raw,
		norm:   strings.Join(tokens, " "),
		tokens: tokens,
		set:    set,
	}
}

// has reports whether any of the words appears as a token.
func (u utterance) has(words ...string) bool {
	for _, w := range words {
		if u.set[w] {
			return true
		}
	}
	return false
}

// hasPhrase reports whether any of the phrases appears as a contiguous
// word sequence.
func (u utterance) hasPhrase(phrases ...string) bool {
	padded := " " + u.norm + " "
	for _, p := range phrases {
		if strings.Contains(padded, " "+p+" ") {
			return true
		}
	}
	return false
}
