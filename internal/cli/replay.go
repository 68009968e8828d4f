package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/legendsbarber/seqfold/internal/harness"
	"github.com/legendsbarber/seqfold/internal/store"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Batch    string // optional - one batch only
	Scenario string // optional - one scenario only
}

// ReplayRunResult holds the replay result for a single run.
type ReplayRunResult struct {
	RunID    string   `json:"run_id"`
	Scenario string   `json:"scenario,omitempty"`
	Match    bool     `json:"match"`
	Diffs    []string `json:"diffs,omitempty"`
}

// ReplayResult holds the overall replay result.
type ReplayResult struct {
	Runs     []ReplayRunResult `json:"runs"`
	Total    int               `json:"total"`
	AllMatch bool              `json:"all_match"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Re-evaluate recorded runs and verify determinism",
		Long: `Re-evaluate every recorded run and compare the outcome and each
callback call with what was recorded.

Exit codes:
  0 - All runs reproduced exactly
  1 - One or more runs differ
  2 - Command error (database not found, etc.)

Examples:
  seqfold replay --db runs.db
  seqfold replay --db runs.db --scenario reduce_sum_seed_zero
  seqfold replay --db runs.db --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(cmd.Context(), opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Batch, "batch", "", "replay one batch only")
	cmd.Flags().StringVar(&opts.Scenario, "scenario", "", "replay one scenario only")

	return cmd
}

func runReplay(ctx context.Context, opts *ReplayOptions, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	st, err := opts.openStore(true)
	if err != nil {
		return err
	}
	defer st.Close()

	runs, err := st.ListRuns(ctx, store.ListFilter{Batch: opts.Batch, Scenario: opts.Scenario})
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list runs", err)
	}

	f := opts.formatter(cmd)
	result := ReplayResult{Runs: make([]ReplayRunResult, 0, len(runs)), Total: len(runs), AllMatch: true}
	if len(runs) == 0 {
		return f.Success(result, "No runs found in database.")
	}

	h := harness.New(
		harness.WithRegistry(opts.Registry),
		harness.WithLogger(opts.log("replay")),
	)
	for _, run := range runs {
		rr, err := h.Replay(ctx, st, run)
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("failed to replay run %s", run.ID), err)
		}
		result.Runs = append(result.Runs, ReplayRunResult{
			RunID:    rr.RunID,
			Scenario: rr.Scenario,
			Match:    rr.Match,
			Diffs:    rr.Diffs,
		})
		if !rr.Match {
			result.AllMatch = false
		}
	}

	if f.JSON() {
		if !result.AllMatch {
			if err := f.Error("E_REPLAY_MISMATCH", "replay differs from recorded runs", result); err != nil {
				return err
			}
		} else if err := f.Success(result, ""); err != nil {
			return err
		}
	} else {
		outputReplayText(cmd, result)
	}

	if !result.AllMatch {
		return NewExitError(ExitFailure, "replay differs from recorded runs")
	}
	return nil
}

// outputReplayText prints one line per run and the diffs of mismatches.
func outputReplayText(cmd *cobra.Command, result ReplayResult) {
	w := cmd.OutOrStdout()
	matched := 0
	for _, r := range result.Runs {
		label := r.RunID
		if r.Scenario != "" {
			label = fmt.Sprintf("%s (%s)", r.RunID, r.Scenario)
		}
		fmt.Fprintf(w, "%s %s\n", mark(r.Match), label)
		for _, d := range r.Diffs {
			fmt.Fprintf(w, "  %s\n", d)
		}
		if r.Match {
			matched++
		}
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Replay Summary: %d matched, %d differed, %d total\n", matched, result.Total-matched, result.Total)
}
