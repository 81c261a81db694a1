package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	segment "github.com/alnah/go-segment"
	"github.com/alnah/go-segment/internal/format"
)

// InspectCmd creates the inspect command.
func InspectCmd(env *Env) *cobra.Command {
	var flags segmenterFlags

	cmd := &cobra.Command{
		Use:   "inspect [file]",
		Short: "Preview how a file would be segmented",
		Long: `Show how a file would be segmented without writing anything.

The report lists detected protected regions (timestamp markers with
--transcript), chunk counts and size statistics, and for transcripts the
covered time range. Use it to tune --max-size, --overlap and
--context-window before a real run.`,
		Example: `  segment inspect notes.md
  segment inspect --profile local report.md
  segment inspect -t meeting.txt`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(env, inspectOptions{
				inputPath: args[0],
				flags:     flags,
				changed:   cmd.Flags().Changed,
			})
		},
	}

	addSizingFlags(cmd, &flags)
	addMeasureFlags(cmd, &flags)

	return cmd
}

// inspectOptions holds validated options for the inspect command.
type inspectOptions struct {
	inputPath string
	flags     segmenterFlags
	changed   func(string) bool
}

// runInspect executes the inspect command.
func runInspect(env *Env, opts inspectOptions) error {
	// === VALIDATION (fail-fast) ===

	// 1. Input file exists
	info, err := os.Stat(opts.inputPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%s: %w", opts.inputPath, ErrFileNotFound)
		}
		return fmt.Errorf("cannot access input file: %w", err)
	}

	// 2. Config file supplies defaults
	cfg, err := env.ConfigLoader.Load()
	if err != nil {
		fmt.Fprintf(env.Stderr, "Warning: failed to load config: %v\n", err)
	}

	// 3. Segmenter; oversized-chunk warnings feed the report instead of stderr
	oversized := 0
	s, err := newSegmenter(opts.flags, opts.changed, cfg, func(string) {
		oversized++
	})
	if err != nil {
		return err
	}

	// === READ INPUT ===

	// #nosec G304 -- user-provided input path
	data, err := os.ReadFile(opts.inputPath)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", opts.inputPath, err)
	}
	text := string(data)
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("%s: %w", opts.inputPath, ErrEmptyInput)
	}

	// === REPORT ===

	fmt.Fprintf(env.Stdout, "%s: %s\n", opts.inputPath, format.Size(info.Size()))

	// Transcript mode protects markers, not regions.
	if opts.flags.transcript {
		fmt.Fprintf(env.Stdout, "Timestamp markers: %d\n", len(segment.ExtractTimestamps(text)))
	} else {
		regions := segment.NewDetector().Detect(text)
		fmt.Fprintf(env.Stdout, "Protected regions: %d\n", len(regions))
		for i, r := range regions {
			fmt.Fprintf(env.Stdout, "  %d. %s at [%d:%d), %s\n",
				i+1, r.Kind, r.Start, r.End, format.Size(int64(r.End-r.Start)))
		}
	}

	var chunks []segment.Chunk
	if opts.flags.transcript {
		chunks = s.SegmentTranscript(text)
	} else {
		chunks = s.Segment(text)
	}

	fmt.Fprintf(env.Stdout, "Chunks: %d\n", len(chunks))
	if len(chunks) == 0 {
		return nil
	}

	minSize, maxSize, total := chunkStats(chunks)
	fmt.Fprintf(env.Stdout, "  sizes: min %s, max %s, avg %s, total %s\n",
		format.Units(minSize), format.Units(maxSize),
		format.Units(total/len(chunks)), format.Units(total))
	if oversized > 0 {
		fmt.Fprintf(env.Stdout, "  over budget: %s (protected content kept whole)\n",
			format.Count(oversized, "chunk"))
	}
	if cost := totalChunkCost(chunks); cost > 0 {
		fmt.Fprintf(env.Stdout, "  projected cost: %s\n", format.Cost(cost))
	}
	if opts.flags.transcript {
		if r, ok := coveredRange(chunks); ok {
			fmt.Fprintf(env.Stdout, "  covers: %s-%s\n", formatSeconds(r.Start), formatSeconds(r.End))
		}
	}

	return nil
}

// chunkStats returns the minimum, maximum and total chunk size.
// chunks must be non-empty.
func chunkStats(chunks []segment.Chunk) (minSize, maxSize, total int) {
	minSize = chunks[0].Size
	for _, c := range chunks {
		if c.Size < minSize {
			minSize = c.Size
		}
		if c.Size > maxSize {
			maxSize = c.Size
		}
		total += c.Size
	}
	return minSize, maxSize, total
}

// totalChunkCost sums the projected cost of every chunk.
func totalChunkCost(chunks []segment.Chunk) float64 {
	var total float64
	for _, c := range chunks {
		total += c.Cost
	}
	return total
}
