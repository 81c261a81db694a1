package segment_test

// Notes:
// - ApproxMeasurer is pure arithmetic and fully covered; TokenMeasurer
//   depends on tiktoken BPE data, so its test skips when loading fails
// - NewMeasurer's fallback is exercised with an invalid encoding name,
//   which degrades without touching the tokenizer at all
// - Cost comparisons use a small epsilon: unit prices are not exact binary

import (
	"errors"
	"math"
	"strings"
	"testing"

	segment "github.com/alnah/go-segment"
)

// ---------------------------------------------------------------------------
// ApproxMeasurer - character arithmetic
// ---------------------------------------------------------------------------

func TestApproxMeasurer_Measure(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		ratio int
		text  string
		want  int
	}{
		{name: "ratio one counts runes", ratio: 1, text: "hello", want: 5},
		{name: "default ratio divides by four", ratio: 0, text: strings.Repeat("a", 100), want: 25},
		{name: "division rounds down", ratio: 4, text: "abcdefg", want: 1},
		{name: "short text rounds to zero", ratio: 4, text: "abc", want: 0},
		{name: "empty text", ratio: 1, text: "", want: 0},
		{name: "multi-byte runes count once", ratio: 1, text: "héllo wörld", want: 11},
		{name: "negative ratio treated as default", ratio: -2, text: strings.Repeat("x", 40), want: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m := segment.ApproxMeasurer{Ratio: tt.ratio}
			if got := m.Measure(tt.text); got != tt.want {
				t.Errorf("Measure(%q) = %d, want %d", tt.text, got, tt.want)
			}
		})
	}
}

func TestApproxMeasurer_CharsPerUnit(t *testing.T) {
	t.Parallel()

	if got := (segment.ApproxMeasurer{Ratio: 2}).CharsPerUnit(); got != 2 {
		t.Errorf("CharsPerUnit() = %d, want 2", got)
	}
	if got := (segment.ApproxMeasurer{}).CharsPerUnit(); got != segment.DefaultCharsPerUnit {
		t.Errorf("CharsPerUnit() = %d, want default %d", got, segment.DefaultCharsPerUnit)
	}
}

// ---------------------------------------------------------------------------
// ValidateEncoding - allowlist checks
// ---------------------------------------------------------------------------

func TestValidateEncoding(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		encoding string
		wantErr  bool
	}{
		{name: "empty means default", encoding: "", wantErr: false},
		{name: "cl100k_base", encoding: "cl100k_base", wantErr: false},
		{name: "o200k_base", encoding: "o200k_base", wantErr: false},
		{name: "p50k_base", encoding: "p50k_base", wantErr: false},
		{name: "r50k_base", encoding: "r50k_base", wantErr: false},
		{name: "uppercase accepted", encoding: "CL100K_BASE", wantErr: false},
		{name: "unknown encoding", encoding: "gpt2-bpe", wantErr: true},
		{name: "whitespace name", encoding: "  ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := segment.ValidateEncoding(tt.encoding)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateEncoding(%q) error = %v, wantErr %v", tt.encoding, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, segment.ErrUnknownEncoding) {
				t.Errorf("ValidateEncoding(%q) error = %v, want ErrUnknownEncoding", tt.encoding, err)
			}
		})
	}
}

func TestEncodings(t *testing.T) {
	t.Parallel()

	want := []string{"cl100k_base", "o200k_base", "p50k_base", "r50k_base"}
	got := segment.Encodings()
	if len(got) != len(want) {
		t.Fatalf("Encodings() returned %d names, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Encodings()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

// ---------------------------------------------------------------------------
// NewTokenMeasurer / NewMeasurer - construction and fallback
// ---------------------------------------------------------------------------

func TestNewTokenMeasurer_UnknownEncoding(t *testing.T) {
	t.Parallel()

	_, err := segment.NewTokenMeasurer("gpt2-bpe")
	if !errors.Is(err, segment.ErrUnknownEncoding) {
		t.Errorf("NewTokenMeasurer() error = %v, want ErrUnknownEncoding", err)
	}
}

func TestTokenMeasurer_Measure(t *testing.T) {
	t.Parallel()

	m, err := segment.NewTokenMeasurer("")
	if err != nil {
		t.Skipf("tokenizer data unavailable: %v", err)
	}
	if got := m.Encoding(); got != segment.DefaultEncoding {
		t.Errorf("Encoding() = %q, want %q", got, segment.DefaultEncoding)
	}
	if got := m.CharsPerUnit(); got != segment.DefaultCharsPerUnit {
		t.Errorf("CharsPerUnit() = %d, want %d", got, segment.DefaultCharsPerUnit)
	}
	if got := m.Measure("hello world"); got < 1 {
		t.Errorf("Measure(%q) = %d, want at least 1", "hello world", got)
	}
	if got := m.Measure(""); got != 0 {
		t.Errorf("Measure(%q) = %d, want 0", "", got)
	}
}

func TestNewMeasurer_FallsBackToApprox(t *testing.T) {
	t.Parallel()

	m := segment.NewMeasurer("gpt2-bpe")
	if _, ok := m.(segment.ApproxMeasurer); !ok {
		t.Errorf("NewMeasurer() = %T, want ApproxMeasurer fallback", m)
	}
}

// ---------------------------------------------------------------------------
// EstimateCost - reporting arithmetic
// ---------------------------------------------------------------------------

func TestEstimateCost(t *testing.T) {
	t.Parallel()

	unit := segment.ApproxMeasurer{Ratio: 1}

	tests := []struct {
		name     string
		text     string
		unitCost float64
		want     float64
	}{
		{name: "priced text", text: strings.Repeat("a", 100), unitCost: 0.00002, want: 0.002},
		{name: "zero cost disables", text: "whatever", unitCost: 0, want: 0},
		{name: "negative cost disables", text: "whatever", unitCost: -1, want: 0},
		{name: "empty text is free", text: "", unitCost: 0.00002, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := segment.EstimateCost(unit, tt.text, tt.unitCost)
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("EstimateCost() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSegmenterEstimate(t *testing.T) {
	t.Parallel()

	t.Run("priced", func(t *testing.T) {
		t.Parallel()
		s, err := segment.New(
			segment.WithMeasurer(segment.ApproxMeasurer{Ratio: 1}),
			segment.WithUnitCost(0.01),
		)
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		units, cost := s.Estimate(strings.Repeat("a", 50))
		if units != 50 {
			t.Errorf("Estimate() units = %d, want 50", units)
		}
		if math.Abs(cost-0.5) > 1e-12 {
			t.Errorf("Estimate() cost = %v, want 0.5", cost)
		}
	})

	t.Run("unpriced", func(t *testing.T) {
		t.Parallel()
		s, err := segment.New(segment.WithMeasurer(segment.ApproxMeasurer{Ratio: 1}))
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		units, cost := s.Estimate("four")
		if units != 4 {
			t.Errorf("Estimate() units = %d, want 4", units)
		}
		if cost != 0 {
			t.Errorf("Estimate() cost = %v, want 0 without a unit cost", cost)
		}
	})
}
