package segment

import (
	"regexp"
	"sort"
	"strings"

	"golang.org/x/net/html"
)

// RegionKind classifies a protected region.
type RegionKind string

// KindTable marks tabular content. Tables lose their meaning when split,
// so the segmenter keeps them whole.
const KindTable RegionKind = "table"

// Region is a protected byte range of the input document. Chunk boundaries
// never fall inside one.
type Region struct {
	Span
	Kind RegionKind
}

// Matcher finds protected regions of one kind in a document.
type Matcher interface {
	// Name identifies the matcher in diagnostics.
	Name() string

	// Find returns the matcher's regions, non-overlapping and ordered
	// by start.
	Find(text string) []Region
}

// Compile-time interface checks.
var (
	_ Matcher = (*patternMatcher)(nil)
	_ Matcher = htmlTableMatcher{}
)

// Table patterns. The markdown pattern requires a separator row after the
// header; the pipe pattern catches header-less grids of three or more rows.
var (
	markdownTableRe = regexp.MustCompile(`\|[^\n]*\|[ \t]*\n\|[ \t\-|:]+\|[ \t]*\n(?:\|[^\n]*\|[ \t]*\n?)+`)
	pipeRowsRe      = regexp.MustCompile(`\|[^\n]*\|[ \t]*\n\|[^\n]*\|[ \t]*\n(?:\|[^\n]*\|[ \t]*\n?)+`)
)

// patternMatcher protects every match of a regular expression.
type patternMatcher struct {
	name string
	re   *regexp.Regexp
	kind RegionKind
}

// NewPatternMatcher builds a matcher from a compiled regular expression.
// Every match becomes a protected region of the given kind.
func NewPatternMatcher(name string, re *regexp.Regexp, kind RegionKind) Matcher {
	return &patternMatcher{name: name, re: re, kind: kind}
}

func (m *patternMatcher) Name() string { return m.name }

func (m *patternMatcher) Find(text string) []Region {
	locs := m.re.FindAllStringIndex(text, -1)
	regions := make([]Region, 0, len(locs))
	for _, loc := range locs {
		regions = append(regions, Region{Span: Span{Start: loc[0], End: loc[1]}, Kind: m.kind})
	}
	return regions
}

// MarkdownTableMatcher protects GitHub-style pipe tables: a header row, a
// separator row, and one or more body rows.
func MarkdownTableMatcher() Matcher {
	return NewPatternMatcher("markdown-table", markdownTableRe, KindTable)
}

// PipeRowsMatcher protects runs of three or more consecutive pipe rows,
// catching tables that lack a separator row.
func PipeRowsMatcher() Matcher {
	return NewPatternMatcher("pipe-rows", pipeRowsRe, KindTable)
}

// htmlTableMatcher protects complete <table> elements. It streams the raw
// token output of the HTML tokenizer so byte offsets stay exact.
type htmlTableMatcher struct{}

// HTMLTableMatcher protects complete <table>...</table> elements. Nested
// tables fold into the outermost one; an unclosed table is not protected.
func HTMLTableMatcher() Matcher { return htmlTableMatcher{} }

func (htmlTableMatcher) Name() string { return "html-table" }

func (htmlTableMatcher) Find(text string) []Region {
	var regions []Region
	z := html.NewTokenizer(strings.NewReader(text))
	offset, depth, start := 0, 0, 0
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			return regions
		}
		rawLen := len(z.Raw())
		switch tt {
		case html.StartTagToken:
			if name, _ := z.TagName(); string(name) == "table" {
				if depth == 0 {
					start = offset
				}
				depth++
			}
		case html.EndTagToken:
			if name, _ := z.TagName(); string(name) == "table" && depth > 0 {
				depth--
				if depth == 0 {
					regions = append(regions, Region{
						Span: Span{Start: start, End: offset + rawLen},
						Kind: KindTable,
					})
				}
			}
		}
		offset += rawLen
	}
}

// Detector runs a set of matchers over a document and resolves their claims
// into one ordered, non-overlapping region list.
type Detector struct {
	matchers []Matcher
}

// DefaultMatchers returns the built-in table matchers in priority order:
// markdown tables, bare pipe grids, HTML tables.
func DefaultMatchers() []Matcher {
	return []Matcher{MarkdownTableMatcher(), PipeRowsMatcher(), HTMLTableMatcher()}
}

// NewDetector builds a detector over the given matchers. Without arguments
// it uses DefaultMatchers.
func NewDetector(matchers ...Matcher) *Detector {
	if len(matchers) == 0 {
		matchers = DefaultMatchers()
	}
	return &Detector{matchers: matchers}
}

// Detect returns the protected regions of text, sorted by start and
// non-overlapping. When matchers claim overlapping ranges the
// earliest-starting region wins; at the same start the matcher registered
// first wins, then the longer match.
func (d *Detector) Detect(text string) []Region {
	type claim struct {
		region  Region
		matcher int
	}
	var claims []claim
	for i, m := range d.matchers {
		for _, r := range m.Find(text) {
			if r.Start < 0 || r.End > len(text) || r.Start >= r.End {
				continue
			}
			claims = append(claims, claim{region: r, matcher: i})
		}
	}
	sort.Slice(claims, func(i, j int) bool {
		a, b := claims[i], claims[j]
		if a.region.Start != b.region.Start {
			return a.region.Start < b.region.Start
		}
		if a.matcher != b.matcher {
			return a.matcher < b.matcher
		}
		return a.region.End > b.region.End
	})
	var regions []Region
	lastEnd := 0
	for _, c := range claims {
		if c.region.Start < lastEnd {
			continue
		}
		regions = append(regions, c.region)
		lastEnd = c.region.End
	}
	return regions
}

// spansOf projects regions onto bare spans for boundary search.
func spansOf(regions []Region) []Span {
	if len(regions) == 0 {
		return nil
	}
	spans := make([]Span, len(regions))
	for i, r := range regions {
		spans[i] = r.Span
	}
	return spans
}
