package segment

import (
	"regexp"
	"strconv"
)

// markerRe matches a well-formed time-range marker like "[12.1s-18.9s]".
// Both bounds require digits before any decimal point, so truncated forms
// such as "[12.s-15.2s]" do not match.
var markerRe = regexp.MustCompile(`\[(\d+(?:\.\d+)?)s-(\d+(?:\.\d+)?)s\]`)

// TimeRange is a start/end pair in seconds, taken from one time-range
// marker or aggregated across a chunk.
type TimeRange struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Duration returns the covered time in seconds.
func (r TimeRange) Duration() float64 {
	return r.End - r.Start
}

// String formats the range the way markers spell it, e.g. "12.1s-18.9s".
func (r TimeRange) String() string {
	return formatSeconds(r.Start) + "-" + formatSeconds(r.End)
}

func formatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "s"
}

// ExtractTimestamps returns the time ranges of all well-formed markers in
// text, in order of appearance. Malformed markers, including inverted
// ranges, are skipped. Extraction never fails: text without markers yields
// an empty result.
func ExtractTimestamps(text string) []TimeRange {
	var ranges []TimeRange
	for _, m := range markerRe.FindAllStringSubmatch(text, -1) {
		start, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		end, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			continue
		}
		if start > end {
			continue
		}
		ranges = append(ranges, TimeRange{Start: start, End: end})
	}
	return ranges
}

// AggregateRange collapses ranges into the single range spanning the
// earliest start to the latest end. ok is false when ranges is empty.
func AggregateRange(ranges []TimeRange) (TimeRange, bool) {
	if len(ranges) == 0 {
		return TimeRange{}, false
	}
	agg := ranges[0]
	for _, r := range ranges[1:] {
		if r.Start < agg.Start {
			agg.Start = r.Start
		}
		if r.End > agg.End {
			agg.End = r.End
		}
	}
	return agg, true
}

// markerSpans returns the byte spans of well-formed markers in text, sorted
// by start. These spans are atomic during boundary search: a cut never
// lands inside one.
func markerSpans(text string) []Span {
	var spans []Span
	for _, m := range markerRe.FindAllStringSubmatchIndex(text, -1) {
		start, err := strconv.ParseFloat(text[m[2]:m[3]], 64)
		if err != nil {
			continue
		}
		end, err := strconv.ParseFloat(text[m[4]:m[5]], 64)
		if err != nil {
			continue
		}
		if start > end {
			continue
		}
		spans = append(spans, Span{Start: m[0], End: m[1]})
	}
	return spans
}
