// Package dearrow replaces clickbait titles on video feed entries.
//
// For every newly observed entry whose link matches the configured
// pattern, the package looks up a community-curated title in a
// DeArrow-compatible branding API and falls back to a deterministic
// declickbait rewrite of the original title when no curated title
// exists. Lookups are k-anonymous: the API only ever sees a short
// hash prefix of the video id, and the exact id is matched client-side.
package dearrow

import (
	"fmt"
	"regexp"
)

// DefaultLinkPattern matches the canonical youtube.com watch-URL form.
// Alternate front-ends for the same platform can be supported by
// overriding the pattern in configuration.
const DefaultLinkPattern = `^https?://(www\.)?youtube\.com/watch`

// LinkMatcher decides whether an entry link is eligible for title
// processing. Matching is case-sensitive and anchored exactly as the
// configured pattern dictates; no normalization is applied to the link.
type LinkMatcher struct {
	pattern *regexp.Regexp
}

// NewLinkMatcher compiles the given pattern. An empty pattern selects
// the default watch-URL form.
func NewLinkMatcher(pattern string) (*LinkMatcher, error) {
	if pattern == "" {
		pattern = DefaultLinkPattern
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("compile link pattern: %w", err)
	}

	return &LinkMatcher{pattern: re}, nil
}

// Eligible reports whether the link should be processed.
func (m *LinkMatcher) Eligible(link string) bool {
	return m.pattern.MatchString(link)
}
