package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	segment "github.com/alnah/go-segment"
	"github.com/alnah/go-segment/internal/config"
	"github.com/alnah/go-segment/internal/format"
)

// SplitCmd creates the split command.
func SplitCmd(env *Env) *cobra.Command {
	var (
		flags       segmenterFlags
		output      string
		concurrency int
	)

	cmd := &cobra.Command{
		Use:   "split [files...]",
		Short: "Segment files into embedding-ready chunks",
		Long: `Segment one or more text files into chunks sized for embedding.

Each input file produces a .chunks.jsonl file with one JSON chunk per
line. Tables and other protected regions are never split across chunks,
and consecutive chunks share overlapping text so retrieval keeps context.

With --transcript, inputs are treated as timestamped transcripts:
[<start>s-<end>s] markers are kept intact and each chunk records the
time range it covers.`,
		Example: `  segment split notes.md
  segment split --profile local --output ./chunks doc1.md doc2.md
  segment split -t --profile transcript meeting.txt
  segment split --max-size 512 --overlap 64 --encoding cl100k_base report.md`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := parseSplitOptions(args, output, concurrency, flags, cmd.Flags().Changed)
			if err != nil {
				return err
			}
			return runSplit(cmd, env, opts)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "",
		"Output directory for chunk files (default: output-dir config or current dir)")
	cmd.Flags().IntVar(&concurrency, "concurrency", defaultConcurrency,
		"Maximum files segmented in parallel")
	addSizingFlags(cmd, &flags)
	addMeasureFlags(cmd, &flags)

	return cmd
}

// splitOptions holds validated options for the split command.
type splitOptions struct {
	inputPaths  []string
	output      string
	concurrency int
	flags       segmenterFlags
	changed     func(string) bool
}

// parseSplitOptions validates raw flag values into a splitOptions.
func parseSplitOptions(args []string, output string, concurrency int, flags segmenterFlags, changed func(string) bool) (splitOptions, error) {
	// Distinct inputs can still collide on their derived output name,
	// e.g. a/notes.md and b/notes.md. Catch that before any work happens.
	seen := make(map[string]string, len(args))
	for _, p := range args {
		name := deriveChunksPath(p)
		if prev, ok := seen[name]; ok {
			return splitOptions{}, fmt.Errorf("inputs %s and %s both write %s: %w", prev, p, name, ErrOutputExists)
		}
		seen[name] = p
	}

	return splitOptions{
		inputPaths:  args,
		output:      output,
		concurrency: clampConcurrency(concurrency),
		flags:       flags,
		changed:     changed,
	}, nil
}

// runSplit executes the split command.
func runSplit(cmd *cobra.Command, env *Env, opts splitOptions) error {
	ctx := cmd.Context()
	start := env.Now()

	// === VALIDATION (fail-fast) ===

	// 1. Input files exist
	for _, p := range opts.inputPaths {
		if _, err := os.Stat(p); err != nil {
			if os.IsNotExist(err) {
				return fmt.Errorf("%s: %w", p, ErrFileNotFound)
			}
			return fmt.Errorf("cannot access input file: %w", err)
		}
	}

	// 2. Config file supplies defaults for anything not flagged
	cfg, err := env.ConfigLoader.Load()
	if err != nil {
		fmt.Fprintf(env.Stderr, "Warning: failed to load config: %v\n", err)
	}

	// 3. Output directory: flag, then config, then current directory
	outputDir := config.ExpandPath(opts.output)
	if outputDir == "" {
		outputDir = cfg.OutputDir
	}
	if outputDir != "" {
		if err := config.EnsureOutputDir(outputDir); err != nil {
			return err
		}
	}

	// 4. Segmenter from flags, config and profile presets
	s, err := newSegmenter(opts.flags, opts.changed, cfg, func(msg string) {
		fmt.Fprintf(env.Stderr, "Warning: %s\n", msg)
	})
	if err != nil {
		return err
	}

	// === READ INPUTS ===

	texts := make([]string, len(opts.inputPaths))
	for i, p := range opts.inputPaths {
		// #nosec G304 -- user-provided input path
		data, err := os.ReadFile(p)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", p, err)
		}
		if strings.TrimSpace(string(data)) == "" {
			return fmt.Errorf("%s: %w", p, ErrEmptyInput)
		}
		texts[i] = string(data)
	}

	// === SEGMENT ===

	var results [][]segment.Chunk
	if opts.flags.transcript {
		// Marker-aware segmentation runs sequentially; transcripts are
		// short compared to document corpora.
		results = make([][]segment.Chunk, len(texts))
		for i, text := range texts {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = s.SegmentTranscript(text)
		}
	} else {
		results, err = s.SegmentAll(ctx, texts, opts.concurrency)
		if err != nil {
			return err
		}
	}

	// === WRITE OUTPUT ===

	totalChunks := 0
	for i, p := range opts.inputPaths {
		chunks := results[i]
		outPath := config.ResolveOutputPath("", outputDir, deriveChunksPath(p))

		content, err := chunksJSONL(chunks)
		if err != nil {
			return err
		}
		if err := writeFileAtomic(outPath, content); err != nil {
			return err
		}

		totalChunks += len(chunks)
		printSplitSummary(env.Stderr, outPath, chunks, opts.flags.transcript)
	}

	fmt.Fprintf(env.Stderr, "Done: %s, %s in %s\n",
		format.Count(len(opts.inputPaths), "file"),
		format.Count(totalChunks, "chunk"),
		format.DurationHuman(env.Now().Sub(start)))

	return nil
}

// printSplitSummary writes one line of per-file statistics to w.
func printSplitSummary(w io.Writer, outPath string, chunks []segment.Chunk, transcript bool) {
	totalUnits := 0
	totalCost := 0.0
	protected := 0
	for _, c := range chunks {
		totalUnits += c.Size
		totalCost += c.Cost
		if c.HasProtectedRegion {
			protected++
		}
	}

	fmt.Fprintf(w, "  %s: %s, %s", outPath, format.Count(len(chunks), "chunk"), format.Units(totalUnits))
	if protected > 0 {
		fmt.Fprintf(w, ", %s protected", format.Count(protected, "chunk"))
	}
	if totalCost > 0 {
		fmt.Fprintf(w, ", %s", format.Cost(totalCost))
	}
	if transcript {
		if r, ok := coveredRange(chunks); ok {
			fmt.Fprintf(w, ", covers %s-%s", formatSeconds(r.Start), formatSeconds(r.End))
		}
	}
	fmt.Fprintln(w)
}

// coveredRange aggregates the time ranges of every chunk.
func coveredRange(chunks []segment.Chunk) (segment.TimeRange, bool) {
	var all []segment.TimeRange
	for _, c := range chunks {
		all = append(all, c.TimestampRanges...)
	}
	return segment.AggregateRange(all)
}

// formatSeconds renders a timestamp in seconds as a clock duration.
func formatSeconds(sec float64) string {
	return format.Duration(time.Duration(sec * float64(time.Second)))
}
