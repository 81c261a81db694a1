package segment

// Export internal functions for testing.

// MarkerSpans exports markerSpans for testing.
var MarkerSpans = markerSpans

// SpansOf exports spansOf for testing.
var SpansOf = spansOf

// BuildChunk exports buildChunk for testing.
var BuildChunk = buildChunk

// SnapWindowStart exports snapWindowStart for testing.
var SnapWindowStart = snapWindowStart

// LargestFit exports largestFit for testing.
func (s *Segmenter) LargestFit(text string, from, to int) int {
	return s.largestFit(text, from, to)
}

// SuffixFit exports suffixFit for testing.
func (s *Segmenter) SuffixFit(text string, from, cut int) int {
	return s.suffixFit(text, from, cut)
}

// OverlapStart exports overlapStart for testing.
func (s *Segmenter) OverlapStart(text string, from, cut int, forbidden []Span) int {
	return s.overlapStart(text, from, cut, forbidden)
}

// WindowChars exports windowChars for testing.
func (s *Segmenter) WindowChars(region string) int {
	return s.windowChars(region)
}

// ConfigForTest exposes the effective settings for testing.
func (s *Segmenter) ConfigForTest() (maxSize, overlap, window int, unitCost float64) {
	return s.maxSize, s.overlapSize, s.contextWindowSize, s.unitCost
}

// MeasurerForTest exposes the configured measurer for testing.
func (s *Segmenter) MeasurerForTest() Measurer {
	return s.measurer
}
