package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/legendsbarber/seqfold/internal/store"
)

// RunsOptions holds flags for the runs list command.
type RunsOptions struct {
	*RootOptions
	Batch    string
	Scenario string
	Limit    int
}

// RunOutput is the JSON form of a recorded run.
type RunOutput struct {
	ID           string       `json:"id"`
	Seq          int64        `json:"seq"`
	Batch        string       `json:"batch"`
	Scenario     string       `json:"scenario,omitempty"`
	Op           string       `json:"op"`
	Sequence     string       `json:"sequence"`
	Callback     string       `json:"callback"`
	Seed         *string      `json:"seed,omitempty"`
	Result       string       `json:"result,omitempty"`
	ErrorKind    string       `json:"error_kind,omitempty"`
	ErrorMessage string       `json:"error_message,omitempty"`
	Calls        []CallOutput `json:"calls,omitempty"`
}

// CallOutput is the JSON form of a recorded callback call.
type CallOutput struct {
	Seq   int64  `json:"seq"`
	Index int    `json:"index"`
	Acc   string `json:"acc,omitempty"`
	Cur   string `json:"cur"`
	Out   string `json:"out,omitempty"`
}

func runOutput(run store.Run, calls []store.Call) RunOutput {
	out := RunOutput{
		ID:           run.ID,
		Seq:          run.Seq,
		Batch:        run.Batch,
		Scenario:     run.Scenario,
		Op:           run.Op,
		Sequence:     run.Sequence,
		Callback:     run.Callback,
		Result:       run.Result,
		ErrorKind:    run.ErrorKind,
		ErrorMessage: run.ErrorMessage,
	}
	if run.HasSeed {
		seed := run.Seed
		out.Seed = &seed
	}
	for _, c := range calls {
		out.Calls = append(out.Calls, CallOutput{Seq: c.Seq, Index: c.Index, Acc: c.Acc, Cur: c.Cur, Out: c.Out})
	}
	return out
}

// NewRunsCommand creates the runs command and its subcommands.
func NewRunsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect the recorded run log",
		Long: `List, show and delete runs recorded with --db.

A run's id is the hash of its op, sequence, callback and seed. Recording
the same inputs again keeps the first run, so a second scenario with
identical inputs is not stored and --scenario finds only the first one.

Examples:
  seqfold runs list --db runs.db
  seqfold runs show <run-id> --db runs.db
  seqfold runs delete <run-id> --db runs.db`,
	}

	cmd.AddCommand(newRunsListCommand(rootOpts))
	cmd.AddCommand(newRunsShowCommand(rootOpts))
	cmd.AddCommand(newRunsDeleteCommand(rootOpts))
	return cmd
}

func newRunsListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRunsList(cmd.Context(), opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Batch, "batch", "", "only runs of this batch")
	cmd.Flags().StringVar(&opts.Scenario, "scenario", "", "only runs of this scenario")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "maximum number of runs (0 for all)")
	return cmd
}

func runRunsList(ctx context.Context, opts *RunsOptions, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.Limit < 0 {
		return NewExitError(ExitCommandError, fmt.Sprintf("--limit must be >= 0, got %d", opts.Limit))
	}
	st, err := opts.openStore(true)
	if err != nil {
		return err
	}
	defer st.Close()

	runs, err := st.ListRuns(ctx, store.ListFilter{Batch: opts.Batch, Scenario: opts.Scenario, Limit: opts.Limit})
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list runs", err)
	}

	f := opts.formatter(cmd)
	if f.JSON() {
		out := make([]RunOutput, 0, len(runs))
		for _, run := range runs {
			out = append(out, runOutput(run, nil))
		}
		return f.Success(out, "")
	}
	if len(runs) == 0 {
		return f.Success(nil, "No runs found in database.")
	}
	renderRuns(cmd.OutOrStdout(), runs)
	return nil
}

// renderRuns prints one table row per run with its outcome.
func renderRuns(w io.Writer, runs []store.Run) {
	t := newTable(w)
	t.AppendHeader(table.Row{"seq", "id", "scenario", "op", "outcome"})
	for _, run := range runs {
		outcome := run.Result
		if run.Failed() {
			outcome = run.ErrorKind
		}
		t.AppendRow(table.Row{run.Seq, run.ID, run.Scenario, run.Op, outcome})
	}
	t.AppendFooter(table.Row{"", "", "", "total", len(runs)})
	t.Render()
}

func newRunsShowCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show a recorded run and its calls",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRunsShow(cmd.Context(), opts, args[0], cmd)
		},
	}
}

func runRunsShow(ctx context.Context, opts *RootOptions, id string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	st, err := opts.openStore(true)
	if err != nil {
		return err
	}
	defer st.Close()

	run, err := st.ReadRun(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return NewExitError(ExitCommandError, fmt.Sprintf("run not found: %s", id))
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read run", err)
	}
	calls, err := st.ReadCalls(ctx, id)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read calls", err)
	}

	f := opts.formatter(cmd)
	if f.JSON() {
		return f.Success(runOutput(run, calls), "")
	}

	w := cmd.OutOrStdout()
	out := runOutput(run, calls)
	fmt.Fprintf(w, "Run:      %s (seq %d)\n", out.ID, out.Seq)
	fmt.Fprintf(w, "Batch:    %s\n", out.Batch)
	if out.Scenario != "" {
		fmt.Fprintf(w, "Scenario: %s\n", out.Scenario)
	}
	fmt.Fprintf(w, "Op:       %s\n", out.Op)
	fmt.Fprintf(w, "Sequence: %s\n", out.Sequence)
	fmt.Fprintf(w, "Callback: %s\n", out.Callback)
	if out.Seed != nil {
		fmt.Fprintf(w, "Seed:     %s\n", *out.Seed)
	} else {
		fmt.Fprintln(w, "Seed:     (none)")
	}
	if run.Failed() {
		fmt.Fprintf(w, "Error:    %s: %s\n", out.ErrorKind, out.ErrorMessage)
	} else {
		fmt.Fprintf(w, "Result:   %s\n", out.Result)
	}

	if len(calls) == 0 {
		fmt.Fprintln(w, "Calls:    (none)")
		return nil
	}
	t := newTable(w)
	t.AppendHeader(table.Row{"seq", "index", "acc", "cur", "out"})
	for _, c := range calls {
		t.AppendRow(table.Row{c.Seq, c.Index, c.Acc, c.Cur, c.Out})
	}
	t.Render()
	return nil
}

func newRunsDeleteCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <run-id>",
		Short: "Delete a recorded run and its calls",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			st, err := opts.openStore(true)
			if err != nil {
				return err
			}
			defer st.Close()

			deleted, err := st.DeleteRun(ctx, args[0])
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to delete run", err)
			}
			if !deleted {
				return NewExitError(ExitCommandError, fmt.Sprintf("run not found: %s", args[0]))
			}
			opts.log("runs").WithField("run", args[0]).Info("run deleted")
			return opts.formatter(cmd).Success(map[string]string{"deleted": args[0]}, fmt.Sprintf("%s Deleted %s", passMark(), args[0]))
		},
	}
}
