package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/alnah/go-segment/internal/format"
)

// EstimateCmd creates the estimate command.
func EstimateCmd(env *Env) *cobra.Command {
	var flags segmenterFlags

	cmd := &cobra.Command{
		Use:   "estimate [files...]",
		Short: "Estimate the size and cost of embedding files",
		Long: `Measure files in units and project their embedding cost.

Measurement follows the same profile, encoding and pricing settings as
the split command, so estimates match what segmentation would produce.`,
		Example: `  segment estimate notes.md
  segment estimate --unit-cost 0.00002 doc1.md doc2.md
  segment estimate --profile local --approx big-corpus.md`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEstimate(env, estimateOptions{
				inputPaths: args,
				flags:      flags,
				changed:    cmd.Flags().Changed,
			})
		},
	}

	addMeasureFlags(cmd, &flags)

	return cmd
}

// estimateOptions holds validated options for the estimate command.
type estimateOptions struct {
	inputPaths []string
	flags      segmenterFlags
	changed    func(string) bool
}

// runEstimate executes the estimate command.
func runEstimate(env *Env, opts estimateOptions) error {
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

	// 2. Config file supplies defaults
	cfg, err := env.ConfigLoader.Load()
	if err != nil {
		fmt.Fprintf(env.Stderr, "Warning: failed to load config: %v\n", err)
	}

	// 3. Measurer and pricing resolve exactly as they do for split
	s, err := newSegmenter(opts.flags, opts.changed, cfg, nil)
	if err != nil {
		return err
	}

	// === MEASURE ===

	totalUnits := 0
	totalCost := 0.0
	for _, p := range opts.inputPaths {
		// #nosec G304 -- user-provided input path
		data, err := os.ReadFile(p)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", p, err)
		}

		units, cost := s.Estimate(string(data))
		totalUnits += units
		totalCost += cost

		fmt.Fprintf(env.Stdout, "%s: %s", p, format.Units(units))
		if cost > 0 {
			fmt.Fprintf(env.Stdout, ", %s", format.Cost(cost))
		}
		fmt.Fprintln(env.Stdout)
	}

	if len(opts.inputPaths) > 1 {
		fmt.Fprintf(env.Stdout, "total: %s", format.Units(totalUnits))
		if totalCost > 0 {
			fmt.Fprintf(env.Stdout, ", %s", format.Cost(totalCost))
		}
		fmt.Fprintln(env.Stdout)
	}

	return nil
}
