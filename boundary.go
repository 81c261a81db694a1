package segment

import (
	"unicode"
	"unicode/utf8"
)

// Span marks a half-open byte range [Start, End) that a cut must not enter.
// Protected regions and well-formed time-range markers are both expressed as
// spans during boundary search.
type Span struct {
	Start int
	End   int
}

// contains reports whether p lies strictly inside the span. Positions at
// the exterior edges are legal cut points.
func (sp Span) contains(p int) bool {
	return sp.Start < p && p < sp.End
}

// FindSafeCut returns the best cut position at or before candidate, looking
// back at most radius bytes. Positions inside a forbidden span are never
// returned. Among reachable positions the nearest of the highest class wins:
//
//  1. end of a sentence: after ., ! or ? followed by whitespace, or after a
//     newline
//  2. exterior end of a forbidden span, such as a completed time-range marker
//  3. a word start following whitespace
//
// When no such position exists the candidate itself is returned, or, if the
// candidate sits inside a forbidden span, the span's nearest exterior edge.
// Results are aligned to rune boundaries. forbidden must be sorted by Start
// and non-overlapping.
func FindSafeCut(text string, candidate, radius int, forbidden []Span) int {
	if candidate < 0 {
		candidate = 0
	}
	if candidate > len(text) {
		candidate = len(text)
	}
	candidate = alignRuneStart(text, candidate)
	if radius < 0 {
		radius = 0
	}
	low := candidate - radius
	if low < 0 {
		low = 0
	}

	spanEnd, wordStart := -1, -1
	for p := candidate; p >= low; {
		if !insideAnySpan(forbidden, p) {
			if isSentenceEnd(text, p) {
				return p
			}
			if spanEnd < 0 && isSpanEnd(forbidden, p) {
				spanEnd = p
			}
			if wordStart < 0 && isWordStart(text, p) {
				wordStart = p
			}
		}
		if p == 0 {
			break
		}
		p = prevRuneStart(text, p)
	}
	if spanEnd >= 0 {
		return spanEnd
	}
	if wordStart >= 0 {
		return wordStart
	}
	if sp, ok := spanAround(forbidden, candidate); ok {
		return nearestEdge(sp, candidate)
	}
	return candidate
}

// isSentenceEnd reports whether p follows terminal punctuation that precedes
// whitespace or end of text. A position right after a newline also qualifies.
func isSentenceEnd(text string, p int) bool {
	if p <= 0 || p > len(text) {
		return false
	}
	prev, _ := utf8.DecodeLastRuneInString(text[:p])
	if prev == '\n' {
		return true
	}
	if prev != '.' && prev != '!' && prev != '?' {
		return false
	}
	if p == len(text) {
		return true
	}
	next, _ := utf8.DecodeRuneInString(text[p:])
	return unicode.IsSpace(next)
}

// isWordStart reports whether p begins a word: whitespace before, none after.
func isWordStart(text string, p int) bool {
	if p <= 0 || p >= len(text) {
		return false
	}
	prev, _ := utf8.DecodeLastRuneInString(text[:p])
	if !unicode.IsSpace(prev) {
		return false
	}
	next, _ := utf8.DecodeRuneInString(text[p:])
	return !unicode.IsSpace(next)
}

// insideAnySpan reports whether p lies strictly inside any span. spans must
// be sorted by Start.
func insideAnySpan(spans []Span, p int) bool {
	for _, sp := range spans {
		if sp.Start >= p {
			return false
		}
		if sp.contains(p) {
			return true
		}
	}
	return false
}

// isSpanEnd reports whether p is the exterior end of some span.
func isSpanEnd(spans []Span, p int) bool {
	for _, sp := range spans {
		if sp.Start > p {
			return false
		}
		if sp.End == p {
			return true
		}
	}
	return false
}

// spanAround returns the span strictly containing p, if any.
func spanAround(spans []Span, p int) (Span, bool) {
	for _, sp := range spans {
		if sp.Start >= p {
			break
		}
		if sp.contains(p) {
			return sp, true
		}
	}
	return Span{}, false
}

// nearestEdge picks the exterior edge of sp closest to p, preferring the
// earlier edge on a tie.
func nearestEdge(sp Span, p int) int {
	if p-sp.Start <= sp.End-p {
		return sp.Start
	}
	return sp.End
}

// alignRuneStart moves p down to the nearest rune boundary.
func alignRuneStart(text string, p int) int {
	for p > 0 && p < len(text) && !utf8.RuneStart(text[p]) {
		p--
	}
	return p
}

// prevRuneStart returns the largest rune boundary strictly before p.
func prevRuneStart(text string, p int) int {
	p--
	for p > 0 && !utf8.RuneStart(text[p]) {
		p--
	}
	return p
}

// nextRuneStart returns the smallest rune boundary strictly after p.
func nextRuneStart(text string, p int) int {
	if p >= len(text) {
		return len(text)
	}
	p++
	for p < len(text) && !utf8.RuneStart(text[p]) {
		p++
	}
	return p
}
