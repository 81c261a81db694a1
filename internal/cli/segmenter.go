package cli

import (
	"strings"

	"github.com/spf13/cobra"

	segment "github.com/alnah/go-segment"
	"github.com/alnah/go-segment/internal/config"
)

// Concurrency bounds for batch segmentation. Segmentation is CPU-bound, so
// values beyond a small multiple of typical core counts only add scheduling
// overhead.
const (
	defaultConcurrency = 4
	maxConcurrency     = 16
)

// segmenterFlags collects the flag values shared by the split, inspect and
// estimate commands. Each command registers the subset it supports;
// unregistered flags keep their zero values and never report as changed.
type segmenterFlags struct {
	transcript bool
	profile    string
	maxSize    int
	overlap    int
	window     int
	encoding   string
	approx     bool
	unitCost   float64
}

// addMeasureFlags registers the measurement and pricing flags common to all
// segmentation commands.
func addMeasureFlags(cmd *cobra.Command, f *segmenterFlags) {
	cmd.Flags().StringVarP(&f.profile, "profile", "p", "",
		"Preset for sizing and measurement: "+strings.Join(segment.Profiles(), ", "))
	cmd.Flags().StringVar(&f.encoding, "encoding", "",
		"Tokenizer encoding for exact measurement: "+strings.Join(segment.Encodings(), ", "))
	cmd.Flags().BoolVar(&f.approx, "approx", false,
		"Measure by character count instead of tokens")
	cmd.Flags().Float64Var(&f.unitCost, "unit-cost", 0,
		"Projected cost per unit for cost reporting")
	cmd.MarkFlagsMutuallyExclusive("approx", "encoding")
}

// addSizingFlags registers the chunk geometry flags used by split and inspect.
func addSizingFlags(cmd *cobra.Command, f *segmenterFlags) {
	cmd.Flags().BoolVarP(&f.transcript, "transcript", "t", false,
		"Treat inputs as transcripts with [<start>s-<end>s] markers")
	cmd.Flags().IntVar(&f.maxSize, "max-size", segment.DefaultMaxSize,
		"Chunk size budget in units")
	cmd.Flags().IntVar(&f.overlap, "overlap", segment.DefaultOverlapSize,
		"Units shared between consecutive chunks")
	cmd.Flags().IntVar(&f.window, "context-window", segment.DefaultContextWindowSize,
		"Units of surrounding context carried into protected-region chunks")
}

// newSegmenter builds a Segmenter from flags, falling back to config file
// values for the profile and encoding. changed reports whether a flag was
// set on the command line, so explicit flags override profile presets while
// untouched ones inherit them.
func newSegmenter(f segmenterFlags, changed func(string) bool, cfg config.Config, warn segment.WarnFunc) (*segment.Segmenter, error) {
	profileName := f.profile
	if profileName == "" {
		profileName = cfg.Profile
	}

	encoding := f.encoding
	if encoding == "" && !f.approx {
		encoding = cfg.Encoding
	}

	var opts []segment.Option

	if profileName != "" {
		p, err := segment.ParseProfile(profileName)
		if err != nil {
			return nil, err
		}
		opts = append(opts, segment.WithProfile(p))
	}

	if changed("max-size") {
		opts = append(opts, segment.WithMaxSize(f.maxSize))
	}
	if changed("overlap") {
		opts = append(opts, segment.WithOverlapSize(f.overlap))
	}
	if changed("context-window") {
		opts = append(opts, segment.WithContextWindowSize(f.window))
	}
	if changed("unit-cost") {
		opts = append(opts, segment.WithUnitCost(f.unitCost))
	}

	switch {
	case f.approx:
		opts = append(opts, segment.WithMeasurer(segment.NewApproxMeasurer(0)))
	case encoding != "":
		// An explicit encoding must measure exactly; fail instead of
		// silently falling back to approximation.
		m, err := segment.NewTokenMeasurer(encoding)
		if err != nil {
			return nil, err
		}
		opts = append(opts, segment.WithMeasurer(m))
	}

	if warn != nil {
		opts = append(opts, segment.WithWarnFunc(warn))
	}

	return segment.New(opts...)
}

// clampConcurrency bounds n to [1, maxConcurrency].
func clampConcurrency(n int) int {
	if n < 1 {
		return 1
	}
	if n > maxConcurrency {
		return maxConcurrency
	}
	return n
}
