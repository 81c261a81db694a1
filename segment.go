// Package segment splits long-form text into bounded-size chunks for
// embedding pipelines. Tabular regions are kept whole with surrounding
// context attached, consecutive plain-text chunks share a configurable
// overlap, and transcript time-range markers survive chunking intact.
//
// The package performs no I/O and is safe for concurrent use: a Segmenter
// is immutable after New.
package segment

import (
	"fmt"
	"strings"
)

// Segmentation defaults. They suit embedding pipelines on 8k-context
// models: chunks stay comfortably under typical input limits while the
// overlap preserves retrieval context across cuts.
const (
	// DefaultMaxSize is the chunk size budget in units.
	DefaultMaxSize = 1000

	// DefaultOverlapSize is how many units consecutive plain chunks share.
	DefaultOverlapSize = 200

	// DefaultContextWindowSize is how many units of surrounding text travel
	// with a protected region on each side.
	DefaultContextWindowSize = 200
)

// WarnFunc receives non-fatal diagnostics, such as a protected region
// exceeding the size budget. A nil WarnFunc drops them.
type WarnFunc func(msg string)

// Segmenter splits documents into chunks under a size budget, keeping
// protected regions whole and duplicating overlap across plain cuts. A
// Segmenter is immutable after construction and safe for concurrent use.
type Segmenter struct {
	maxSize           int
	overlapSize       int
	contextWindowSize int
	unitCost          float64
	measurer          Measurer
	detector          *Detector
	warn              WarnFunc
}

// Option configures a Segmenter. Options apply in order, so later options
// override earlier ones; place WithProfile first when combining it with
// explicit overrides.
type Option func(*Segmenter)

// WithMaxSize sets the chunk size budget in units.
func WithMaxSize(n int) Option {
	return func(s *Segmenter) { s.maxSize = n }
}

// WithOverlapSize sets how many units consecutive plain chunks share.
// Negative values are treated as zero.
func WithOverlapSize(n int) Option {
	return func(s *Segmenter) { s.overlapSize = n }
}

// WithContextWindowSize sets how many units of surrounding text travel with
// a protected region on each side. Negative values are treated as zero.
func WithContextWindowSize(n int) Option {
	return func(s *Segmenter) { s.contextWindowSize = n }
}

// WithMeasurer sets the size measurer.
func WithMeasurer(m Measurer) Option {
	return func(s *Segmenter) { s.measurer = m }
}

// WithMatchers sets the protected-region matchers used by Segment.
func WithMatchers(matchers ...Matcher) Option {
	return func(s *Segmenter) { s.detector = NewDetector(matchers...) }
}

// WithUnitCost sets the projected cost of one unit, filled into each
// chunk's Cost field. Zero disables cost reporting.
func WithUnitCost(cost float64) Option {
	return func(s *Segmenter) { s.unitCost = cost }
}

// WithWarnFunc sets the callback for non-fatal diagnostics.
func WithWarnFunc(warn WarnFunc) Option {
	return func(s *Segmenter) { s.warn = warn }
}

// New builds a Segmenter. Without options it uses the package defaults,
// exact measurement with DefaultEncoding when the tokenizer data is
// available, and the built-in table matchers.
func New(opts ...Option) (*Segmenter, error) {
	s := &Segmenter{
		maxSize:           DefaultMaxSize,
		overlapSize:       DefaultOverlapSize,
		contextWindowSize: DefaultContextWindowSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.maxSize <= 0 {
		return nil, fmt.Errorf("max size %d: %w", s.maxSize, ErrInvalidSize)
	}
	if s.overlapSize < 0 {
		s.overlapSize = 0
	}
	if s.contextWindowSize < 0 {
		s.contextWindowSize = 0
	}
	if s.unitCost < 0 {
		s.unitCost = 0
	}
	if s.overlapSize >= s.maxSize {
		return nil, fmt.Errorf("overlap %d with max size %d: %w",
			s.overlapSize, s.maxSize, ErrInvalidOverlap)
	}
	if s.measurer == nil {
		s.measurer = NewMeasurer(DefaultEncoding)
	}
	if s.detector == nil {
		s.detector = NewDetector()
	}
	return s, nil
}

// Segment splits a document into chunks. Protected regions are detected
// first; each is emitted as a single chunk wrapped in its context windows,
// and the plain text between them is cut at safe boundaries with overlap.
// Output is deterministic for identical input and configuration.
func (s *Segmenter) Segment(text string) []Chunk {
	regions := s.detector.Detect(text)
	return s.scan(text, regions, spansOf(regions), false)
}

// SegmentTranscript splits an annotated transcript into chunks. Region
// detection is skipped; instead, well-formed time-range markers such as
// "[12.1s-18.9s]" are kept whole across cuts, and every chunk records the
// time ranges it covers.
func (s *Segmenter) SegmentTranscript(text string) []Chunk {
	return s.scan(text, nil, markerSpans(text), true)
}

// scan walks text left to right. Each region becomes one chunk wrapped in
// its context windows; the plain stretches between regions go through
// accumulation with overlap. forbidden lists the spans a cut must not
// enter: region spans for documents, marker spans for transcripts.
func (s *Segmenter) scan(text string, regions []Region, forbidden []Span, transcript bool) []Chunk {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	em := &emitter{s: s, transcript: transcript}
	cursor := 0
	for i, r := range regions {
		windowChars := s.windowChars(text[r.Start:r.End])

		// Leading window: never re-counts emitted text and never reaches
		// into a prior region.
		start := r.Start - windowChars
		if start < cursor {
			start = cursor
		}
		start = snapWindowStart(text, start, r.Start)

		s.emitPlain(em, text, cursor, start, forbidden)

		// Trailing window: clamped at the next region so adjacent regions
		// never share context text.
		limit := len(text)
		if i+1 < len(regions) && regions[i+1].Start < limit {
			limit = regions[i+1].Start
		}
		end := r.End + windowChars
		if end > limit {
			end = limit
		}
		if end > r.End {
			end = FindSafeCut(text, end, end-r.End, nil)
			if end < r.End {
				end = r.End
			}
		}

		em.emit(text[start:end], true)
		cursor = end
	}
	s.emitPlain(em, text, cursor, len(text), forbidden)
	return em.chunks
}

// emitPlain emits the plain stretch [from, to) as chunks under the size
// budget, duplicating up to overlapSize units across consecutive cuts. A
// forbidden span wider than the budget is never cut: its chunk goes out
// oversized, like a protected region.
func (s *Segmenter) emitPlain(em *emitter, text string, from, to int, forbidden []Span) {
	for from < to {
		if s.measurer.Measure(text[from:to]) <= s.maxSize {
			em.emit(text[from:to], false)
			return
		}
		candidate := s.largestFit(text, from, to)
		cut := FindSafeCut(text, candidate, (candidate-from)/2, forbidden)
		if cut <= from || cut > to {
			cut = candidate
			// A collapse with the candidate inside a span means the span
			// alone exceeds the budget. Advance to its end so the span
			// stays whole.
			if sp, ok := spanAround(forbidden, candidate); ok && sp.End <= to {
				cut = sp.End
			}
		}
		em.emit(text[from:cut], false)
		next := s.overlapStart(text, from, cut, forbidden)
		if next <= from {
			next = cut
		}
		from = next
	}
}

// largestFit returns the largest rune-aligned end in (from, to] whose
// prefix text[from:end] fits the size budget. At least one rune is always
// included so the scan advances.
func (s *Segmenter) largestFit(text string, from, to int) int {
	lo := nextRuneStart(text, from)
	if lo >= to {
		return to
	}
	if s.measurer.Measure(text[from:lo]) > s.maxSize {
		return lo
	}
	hi := to
	// Invariant: text[from:lo] fits, text[from:hi] does not.
	for {
		mid := alignRuneStart(text, lo+(hi-lo)/2)
		if mid <= lo {
			return lo
		}
		if s.measurer.Measure(text[from:mid]) <= s.maxSize {
			lo = mid
		} else {
			hi = mid
		}
	}
}

// suffixFit returns the smallest rune-aligned start in [from, cut] whose
// suffix text[start:cut] fits the overlap budget.
func (s *Segmenter) suffixFit(text string, from, cut int) int {
	if s.measurer.Measure(text[from:cut]) <= s.overlapSize {
		return from
	}
	lo, hi := from, cut
	// Invariant: text[lo:cut] exceeds the budget, text[hi:cut] fits.
	for {
		mid := alignRuneStart(text, lo+(hi-lo)/2)
		if mid <= lo {
			return hi
		}
		if s.measurer.Measure(text[mid:cut]) <= s.overlapSize {
			hi = mid
		} else {
			lo = mid
		}
	}
}

// overlapStart returns where the next chunk begins so the tail of the
// previous chunk is duplicated, up to overlapSize units. The start never
// lands inside a forbidden span: moving it back to the span start keeps a
// marker whole inside the overlap.
func (s *Segmenter) overlapStart(text string, from, cut int, forbidden []Span) int {
	if s.overlapSize <= 0 {
		return cut
	}
	p := s.suffixFit(text, from, cut)
	if sp, ok := spanAround(forbidden, p); ok {
		p = sp.Start
	}
	if p <= from {
		return cut
	}
	return p
}

// windowChars converts the per-side context window budget to characters,
// shrinking it when the region alone crowds out the size budget. An
// oversized region gets no window at all.
func (s *Segmenter) windowChars(region string) int {
	side := s.contextWindowSize
	if side <= 0 {
		return 0
	}
	if room := (s.maxSize - s.measurer.Measure(region)) / 2; room < side {
		side = room
	}
	if side <= 0 {
		return 0
	}
	cpu := s.measurer.CharsPerUnit()
	if cpu < 1 {
		cpu = 1
	}
	return side * cpu
}

// snapWindowStart advances pos to the next word start so a context window
// never opens mid-word. ceiling bounds the advance; a window from position
// zero is already clean.
func snapWindowStart(text string, pos, ceiling int) int {
	if pos < 0 {
		pos = 0
	}
	if pos >= ceiling {
		return ceiling
	}
	pos = alignRuneStart(text, pos)
	if pos == 0 {
		return 0
	}
	for pos < ceiling && !isWordStart(text, pos) {
		pos = nextRuneStart(text, pos)
	}
	if pos > ceiling {
		pos = ceiling
	}
	return pos
}

func (s *Segmenter) warnf(format string, args ...any) {
	if s.warn != nil {
		s.warn(fmt.Sprintf(format, args...))
	}
}

// emitter accumulates output chunks and numbers them.
type emitter struct {
	s          *Segmenter
	transcript bool
	chunks     []Chunk
}

// emit appends a chunk for text unless it is whitespace-only. Oversized
// chunks are reported through the warn callback and emitted anyway.
func (e *emitter) emit(text string, hasRegion bool) {
	if strings.TrimSpace(text) == "" {
		return
	}
	c := buildChunk(text, len(e.chunks), hasRegion, e.transcript, e.s.measurer, e.s.unitCost)
	if c.Size > e.s.maxSize {
		e.s.warnf("chunk %d exceeds max size (%d > %d units); protected content kept whole",
			c.SequenceIndex, c.Size, e.s.maxSize)
	}
	e.chunks = append(e.chunks, c)
}
