package segment

import "fmt"

// Profile name constants.
// Use these instead of string literals for compile-time safety.
const (
	Embedding  = "embedding"
	Transcript = "transcript"
	Local      = "local"
)

// ---------------------------------------------------------------------------
// Profile type - represents a validated segmentation preset
// ---------------------------------------------------------------------------

// Profile represents a validated segmentation preset.
// Zero value is invalid and applies nothing.
// Use ParseProfile to create from user input, or the pre-parsed constants.
type Profile struct {
	name string
}

// Pre-parsed profile constants for use in code.
// These avoid parsing overhead and provide compile-time safety.
var (
	EmbeddingProfile  = Profile{name: Embedding}
	TranscriptProfile = Profile{name: Transcript}
	LocalProfile      = Profile{name: Local}
)

// ParseProfile validates and parses a profile name string.
// Returns ErrUnknownProfile if the name is not recognized.
func ParseProfile(s string) (Profile, error) {
	if s == "" {
		return Profile{}, fmt.Errorf("profile name cannot be empty: %w", ErrUnknownProfile)
	}
	if _, ok := profiles[s]; !ok {
		return Profile{}, fmt.Errorf("unknown profile %q: %w", s, ErrUnknownProfile)
	}
	return Profile{name: s}, nil
}

// MustParseProfile parses a profile name, panicking if invalid.
// Use only for compile-time constants and tests.
func MustParseProfile(s string) Profile {
	p, err := ParseProfile(s)
	if err != nil {
		panic(err)
	}
	return p
}

// String returns the profile name string.
// Returns empty string for zero value.
func (p Profile) String() string {
	return p.name
}

// IsZero returns true if this is the zero value (no profile set).
// WithProfile ignores the zero value, leaving the defaults in place.
func (p Profile) IsZero() bool {
	return p.name == ""
}

// profileOrder defines the canonical order for Profiles().
// This order is used for CLI help and error messages.
var profileOrder = []string{
	Embedding,
	Transcript,
	Local,
}

// profileSettings carries the preset values a profile applies.
type profileSettings struct {
	maxSize           int
	overlapSize       int
	contextWindowSize int
	encoding          string // empty means approximate measurement
	unitCost          float64
}

// profiles maps profile names to their settings.
//
// embedding: OpenAI embedding batches; exact counting, priced per unit.
// transcript: spoken text for retrieval; smaller chunks, no tables expected.
// local: local models with larger windows and no public tokenizer.
var profiles = map[string]profileSettings{
	Embedding: {
		maxSize:           1000,
		overlapSize:       200,
		contextWindowSize: 200,
		encoding:          DefaultEncoding,
		unitCost:          0.00002,
	},
	Transcript: {
		maxSize:           800,
		overlapSize:       160,
		contextWindowSize: 0,
		encoding:          DefaultEncoding,
		unitCost:          0.00002,
	},
	Local: {
		maxSize:           2048,
		overlapSize:       410,
		contextWindowSize: 200,
	},
}

// Profiles returns the list of available profile names.
// The order is stable (embedding, transcript, local).
func Profiles() []string {
	result := make([]string, len(profileOrder))
	copy(result, profileOrder)
	return result
}

// WithProfile applies a preset's budget, overlap, context window, measurer
// and unit cost. The zero Profile applies nothing. Later options override
// profile values, so place WithProfile first when combining.
func WithProfile(p Profile) Option {
	return func(s *Segmenter) {
		cfg, ok := profiles[p.name]
		if !ok {
			return
		}
		s.maxSize = cfg.maxSize
		s.overlapSize = cfg.overlapSize
		s.contextWindowSize = cfg.contextWindowSize
		s.unitCost = cfg.unitCost
		if cfg.encoding != "" {
			s.measurer = NewMeasurer(cfg.encoding)
		} else {
			s.measurer = ApproxMeasurer{}
		}
	}
}
