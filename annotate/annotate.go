// Package annotate renders speech-to-text segments as timestamped transcript text.
package annotate

import (
	"fmt"
	"strconv"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// Segment is one spoken span: its time bounds in seconds and the text
// spoken within them.
type Segment struct {
	Start float64
	End   float64
	Text  string
}

// FromAudioResponse converts the segments of a verbose transcription
// response. Returns nil when the response carries none.
func FromAudioResponse(resp openai.AudioResponse) []Segment {
	if len(resp.Segments) == 0 {
		return nil
	}

	segments := make([]Segment, 0, len(resp.Segments))
	for _, seg := range resp.Segments {
		segments = append(segments, Segment{
			Start: seg.Start,
			End:   seg.End,
			Text:  seg.Text,
		})
	}

	return segments
}

// Render produces annotated transcript text: each segment becomes a
// "[<start>s-<end>s]" time-range marker followed by its text, all joined
// with single spaces. Segmenting the output in transcript mode recovers
// every marker intact.
//
// Segments that are empty after trimming are skipped, as are segments with
// negative or inverted bounds, which cannot form a well-formed marker.
// Returns ErrNoSegments when nothing remains to render.
func Render(segments []Segment) (string, error) {
	parts := make([]string, 0, len(segments))
	for _, seg := range segments {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}
		if seg.Start < 0 || seg.End < seg.Start {
			continue
		}
		parts = append(parts, fmt.Sprintf("[%ss-%ss] %s", seconds(seg.Start), seconds(seg.End), text))
	}

	if len(parts) == 0 {
		return "", ErrNoSegments
	}

	return strings.Join(parts, " "), nil
}

// RenderResponse renders a verbose transcription response in one step.
func RenderResponse(resp openai.AudioResponse) (string, error) {
	return Render(FromAudioResponse(resp))
}

// seconds formats a time bound without trailing zeros, e.g. "5.2" or "12".
func seconds(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
