package segment

import (
	"fmt"
	"strings"
)

// Chunk is one emitted segment of a document, ready for an embedding
// pipeline. Text is copied out of the source document so chunks do not pin
// it in memory.
type Chunk struct {
	// Text is the chunk content, verbatim from the document.
	Text string `json:"text"`

	// Size is the measured size in budget units.
	Size int `json:"size"`

	// HasProtectedRegion reports that the chunk carries a region kept whole,
	// such as a table.
	HasProtectedRegion bool `json:"has_protected_region"`

	// TimestampRanges lists the time ranges of the markers inside the chunk,
	// in order of appearance. Only transcript segmentation fills it.
	TimestampRanges []TimeRange `json:"timestamp_ranges,omitempty"`

	// SequenceIndex is the chunk's zero-based position in the output.
	SequenceIndex int `json:"sequence_index"`

	// Cost is the projected embedding cost. Zero unless a unit cost was
	// configured.
	Cost float64 `json:"cost,omitempty"`
}

// Range returns the aggregate time range covered by the chunk's markers.
// ok is false for chunks without markers.
func (c Chunk) Range() (TimeRange, bool) {
	return AggregateRange(c.TimestampRanges)
}

// String returns a short human-readable summary, e.g.
// "chunk 3: 512 units [table]".
func (c Chunk) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "chunk %d: %d units", c.SequenceIndex, c.Size)
	if c.HasProtectedRegion {
		b.WriteString(" [table]")
	}
	if r, ok := c.Range(); ok {
		b.WriteString(" ")
		b.WriteString(r.String())
	}
	return b.String()
}

// buildChunk assembles the output record for one span of text. transcript
// controls whether timestamp markers are extracted.
func buildChunk(text string, index int, hasRegion, transcript bool, m Measurer, unitCost float64) Chunk {
	c := Chunk{
		Text:               strings.Clone(text),
		Size:               m.Measure(text),
		HasProtectedRegion: hasRegion,
		SequenceIndex:      index,
	}
	if transcript {
		c.TimestampRanges = ExtractTimestamps(text)
	}
	if unitCost > 0 {
		c.Cost = float64(c.Size) * unitCost
	}
	return c
}
