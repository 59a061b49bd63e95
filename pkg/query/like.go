// Package query matches text against SQL LIKE-style patterns limited to a
// single leading and/or trailing '%'.
package query

import "strings"

// Wildcard is the only special character in a pattern.
const Wildcard = "%"

type mode int

const (
	modeAll mode = iota
	modeContains
	modeSuffix
	modePrefix
	modeEqual
)

// Pattern is a compiled wildcard pattern.
//
// Every '%' is removed to obtain the core text; the position of '%' at the
// ends of the original pattern selects how the core is compared. A '%' in the
// middle is dropped and cannot be escaped. Matching is case-sensitive.
type Pattern struct {
	raw  string
	core string
	mode mode
}

// Compile parses pattern. It never fails.
func Compile(pattern string) Pattern {
	p := Pattern{raw: pattern, core: strings.ReplaceAll(pattern, Wildcard, "")}

	leading := strings.HasPrefix(pattern, Wildcard)
	trailing := strings.HasSuffix(pattern, Wildcard)

	switch {
	case p.core == "":
		p.mode = modeAll
	case leading && trailing:
		p.mode = modeContains
	case leading:
		p.mode = modeSuffix
	case trailing:
		p.mode = modePrefix
	default:
		p.mode = modeEqual
	}
	return p
}

// String returns the pattern as given to Compile.
func (p Pattern) String() string {
	return p.raw
}

// Core returns the pattern with every wildcard removed.
func (p Pattern) Core() string {
	return p.core
}

// MatchesAll reports whether the pattern accepts every input.
func (p Pattern) MatchesAll() bool {
	return p.mode == modeAll
}

// Match reports whether s satisfies the pattern.
func (p Pattern) Match(s string) bool {
	switch p.mode {
	case modeAll:
		return true
	case modeContains:
		return strings.Contains(s, p.core)
	case modeSuffix:
		return strings.HasSuffix(s, p.core)
	case modePrefix:
		return strings.HasPrefix(s, p.core)
	default:
		return s == p.core
	}
}

// Filter returns the candidates whose selected field matches pattern, in their
// original order. An empty core returns candidates unfiltered.
func Filter[T any](pattern string, candidates []T, selector func(T) string) []T {
	p := Compile(pattern)
	if p.MatchesAll() {
		return candidates
	}

	out := make([]T, 0, len(candidates))
	for _, c := range candidates {
		if p.Match(selector(c)) {
			out = append(out, c)
		}
	}
	return out
}

// MatchAny is Filter over several fields: a candidate is kept when at least
// one selected field matches.
func MatchAny[T any](pattern string, candidates []T, selectors ...func(T) string) []T {
	p := Compile(pattern)
	if p.MatchesAll() {
		return candidates
	}

	out := make([]T, 0, len(candidates))
	for _, c := range candidates {
		for _, sel := range selectors {
			if p.Match(sel(c)) {
				out = append(out, c)
				break
			}
		}
	}
	return out
}
