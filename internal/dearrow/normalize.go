package dearrow

import (
	"strings"
	"unicode"
)

// Normalizer produces a replacement title when no curated title is
// available. Implementations return ok=false to leave the entry
// untouched.
type Normalizer interface {
	Rewrite(title string) (string, bool)
}

// Declickbait is the default fallback: a pure, deterministic
// three-stage rewrite. The stages run strictly in order, each feeding
// the next: shout-casing repair, then ?!-run collapsing, then
// exclamation softening.
type Declickbait struct{}

func (Declickbait) Rewrite(title string) (string, bool) {
	title = repairShoutCase(title)
	title = collapsePunctRuns(title)
	title = strings.ReplaceAll(title, "!", ".")

	return title, true
}

// Disabled leaves every title untouched.
type Disabled struct{}

func (Disabled) Rewrite(string) (string, bool) {
	return "", false
}

// repairShoutCase rewrites fully-shouted words to title case. A word
// qualifies when its letter-only content is longer than one letter and
// entirely uppercase; everything else passes through unchanged.
// Inter-word spacing collapses to single spaces.
func repairShoutCase(title string) string {
	words := strings.Fields(title)
	for i, word := range words {
		if isShouted(word) {
			words[i] = capitalizeToken(word)
		}
	}

	return strings.Join(words, " ")
}

func isShouted(word string) bool {
	letters := 0

	for _, r := range word {
		if !unicode.IsLetter(r) {
			continue
		}

		if !unicode.IsUpper(r) {
			return false
		}

		letters++
	}

	return letters > 1
}

// capitalizeToken uppercases the first letter of the token and
// lowercases the rest, leaving attached punctuation in place. The rule
// is applied to the whole token; there is no per-subword logic.
func capitalizeToken(word string) string {
	var b strings.Builder
	b.Grow(len(word))

	seenLetter := false

	for _, r := range word {
		switch {
		case !unicode.IsLetter(r):
			b.WriteRune(r)
		case !seenLetter:
			b.WriteRune(unicode.ToUpper(r))

			seenLetter = true
		default:
			b.WriteRune(unicode.ToLower(r))
		}
	}

	return b.String()
}

// collapsePunctRuns drops any ? or ! whose immediately preceding kept
// character is also a ? or !, collapsing each maximal run down to its
// first character regardless of mixing.
func collapsePunctRuns(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	var prev rune

	kept := false

	for _, r := range s {
		if kept && isShoutPunct(r) && isShoutPunct(prev) {
			continue
		}

		b.WriteRune(r)

		prev = r
		kept = true
	}

	return b.String()
}

func isShoutPunct(r rune) bool {
	return r == '?' || r == '!'
}
