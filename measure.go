package segment

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"
)

// Measurement defaults.
const (
	// DefaultEncoding is the tiktoken encoding used when none is specified.
	// cl100k_base matches the OpenAI embedding models this library targets.
	DefaultEncoding = "cl100k_base"

	// DefaultCharsPerUnit is the character-to-unit ratio of the approximate
	// measurer. Four characters per token is the usual English average.
	DefaultCharsPerUnit = 4
)

// validEncodings contains the tiktoken encodings supported for exact
// measurement. tiktoken-go knows more; these cover the OpenAI model
// families this library targets.
var validEncodings = map[string]bool{
	"cl100k_base": true, // GPT-4, GPT-3.5, text-embedding-3-*
	"o200k_base":  true, // GPT-4o family
	"p50k_base":   true, // Codex and GPT-3 edit models
	"r50k_base":   true, // GPT-3 davinci and earlier
}

// Encodings returns the supported encoding names in stable order.
func Encodings() []string {
	return []string{"cl100k_base", "o200k_base", "p50k_base", "r50k_base"}
}

// ValidateEncoding checks that name is a supported tiktoken encoding.
// An empty name is valid and means DefaultEncoding.
func ValidateEncoding(name string) error {
	if name == "" {
		return nil
	}
	if !validEncodings[strings.ToLower(name)] {
		return fmt.Errorf("unknown encoding %q (supported: %s): %w",
			name, strings.Join(Encodings(), ", "), ErrUnknownEncoding)
	}
	return nil
}

// Measurer reports how much of the size budget a piece of text consumes.
// Measurements must be deterministic: the same text always yields the same
// size within one run.
type Measurer interface {
	// Measure returns the size of text in budget units.
	Measure(text string) int

	// CharsPerUnit returns the approximate character width of one unit,
	// used to convert unit budgets into byte distances. At least 1.
	CharsPerUnit() int
}

// Compile-time interface checks.
var (
	_ Measurer = (*TokenMeasurer)(nil)
	_ Measurer = ApproxMeasurer{}
)

// TokenMeasurer measures text in tokenizer tokens via tiktoken.
type TokenMeasurer struct {
	encoding string
	tke      *tiktoken.Tiktoken
}

// NewTokenMeasurer builds an exact measurer for the given encoding. An empty
// encoding selects DefaultEncoding. Loading the encoding fails when the BPE
// data is unavailable; callers that want silent degradation should use
// NewMeasurer instead.
func NewTokenMeasurer(encoding string) (*TokenMeasurer, error) {
	if encoding == "" {
		encoding = DefaultEncoding
	}
	if err := ValidateEncoding(encoding); err != nil {
		return nil, err
	}
	tke, err := tiktoken.GetEncoding(strings.ToLower(encoding))
	if err != nil {
		return nil, fmt.Errorf("load encoding %q: %w", encoding, err)
	}
	return &TokenMeasurer{encoding: strings.ToLower(encoding), tke: tke}, nil
}

// Measure returns the exact token count of text.
func (m *TokenMeasurer) Measure(text string) int {
	return len(m.tke.Encode(text, nil, nil))
}

// CharsPerUnit returns the average character width of one token.
func (m *TokenMeasurer) CharsPerUnit() int { return DefaultCharsPerUnit }

// Encoding returns the tiktoken encoding name in use.
func (m *TokenMeasurer) Encoding() string { return m.encoding }

// ApproxMeasurer measures text by character count, Ratio characters per
// unit. It needs no tokenizer data and serves as the fallback when exact
// measurement is unavailable, and as the primary measurer for local models
// without a public tokenizer.
type ApproxMeasurer struct {
	// Ratio is the number of characters counted as one unit. Zero or
	// negative values mean DefaultCharsPerUnit.
	Ratio int
}

// Measure returns the character count of text divided by the ratio,
// rounded down.
func (m ApproxMeasurer) Measure(text string) int {
	return utf8.RuneCountInString(text) / m.ratio()
}

// CharsPerUnit returns the configured ratio.
func (m ApproxMeasurer) CharsPerUnit() int { return m.ratio() }

func (m ApproxMeasurer) ratio() int {
	if m.Ratio < 1 {
		return DefaultCharsPerUnit
	}
	return m.Ratio
}

// NewApproxMeasurer builds an approximate measurer counting ratio characters
// per unit. Values below 1 mean DefaultCharsPerUnit.
func NewApproxMeasurer(ratio int) ApproxMeasurer {
	return ApproxMeasurer{Ratio: ratio}
}

// NewMeasurer returns the best available measurer for encoding: exact when
// the tokenizer loads, approximate otherwise. The degradation is silent so
// segmentation keeps working without tokenizer data; callers can
// type-assert to tell the variants apart.
func NewMeasurer(encoding string) Measurer {
	if m, err := NewTokenMeasurer(encoding); err == nil {
		return m
	}
	return ApproxMeasurer{}
}

// EstimateCost returns the projected cost of embedding text at unitCost per
// unit. Reporting only: segmentation decisions never depend on it.
func EstimateCost(m Measurer, text string, unitCost float64) float64 {
	if unitCost <= 0 {
		return 0
	}
	return float64(m.Measure(text)) * unitCost
}

// Estimate measures text with the segmenter's measurer and projects its cost
// at the configured unit cost, without segmenting. Cost is 0 when no unit
// cost is configured.
func (s *Segmenter) Estimate(text string) (units int, cost float64) {
	units = s.measurer.Measure(text)
	if s.unitCost > 0 {
		cost = float64(units) * s.unitCost
	}
	return units, cost
}
