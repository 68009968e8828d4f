package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/legendsbarber/seqfold/internal/eval"
	"github.com/legendsbarber/seqfold/internal/harness"
	"github.com/legendsbarber/seqfold/internal/seq"
	"github.com/legendsbarber/seqfold/internal/value"
)

// FoldOptions holds flags for the reduce and map commands.
type FoldOptions struct {
	*RootOptions
	Trace bool // print every callback call
}

// FoldOutput is the JSON payload of reduce and map.
// Result is plain JSON, where holes and undefined read as null; Canonical
// keeps them apart.
type FoldOutput struct {
	Op        string `json:"op"`
	RunID     string `json:"run_id"`
	Result    any    `json:"result"`
	Canonical string `json:"canonical,omitempty"`
	Calls     int    `json:"calls"`
	Trace     []any  `json:"trace,omitempty"`
	Batch     string `json:"batch,omitempty"`
}

// NewReduceCommand creates the reduce command.
func NewReduceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FoldOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "reduce <sequence> <callback> [seed]",
		Short: "Fold a sequence left to right",
		Long: `Fold a sequence with a callback called as callback(acc, cur, index, seq).

<sequence> is an inline YAML sequence; write holes as !hole ~.
<callback> is a builtin name (see "seqfold builtins") or any YAML value;
only functions are callable, so "123" fails with NotCallable.
[seed] is optional: an omitted seed differs from "~" (null) and
"!undefined", both of which are real seeds. Put a negative seed after
"--" so it is not read as a flag.

Exit codes:
  0 - Success
  1 - Evaluation failed (NotCallable, EmptyReduceNoSeed, callback error)
  2 - Command error (unparsable arguments, etc.)

Examples:
  seqfold reduce '[1, 2, 3]' add 0
  seqfold reduce '[5, 10, 15]' sub
  seqfold reduce '[5, 10]' sub -- -5
  seqfold reduce '[1, !hole ~, 3, !hole ~, 5]' add --trace
  seqfold reduce '[]' add`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFold(cmd.Context(), opts, eval.OpReduce, args, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Trace, "trace", false, "print every callback call")
	return cmd
}

// NewMapCommand creates the map command.
func NewMapCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FoldOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "map <sequence> <callback>",
		Short: "Transform every present element",
		Long: `Transform a sequence with a callback called as callback(cur, index, seq).
Holes stay holes and the callback never sees them.

Examples:
  seqfold map '[1, !hole ~, 3]' double
  seqfold map '[a, b]' index --format json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFold(cmd.Context(), opts, eval.OpMap, args, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Trace, "trace", false, "print every callback call")
	return cmd
}

func runFold(ctx context.Context, opts *FoldOptions, op eval.Op, args []string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}

	c, err := parseCase(opts.RootOptions, op, args)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid arguments", err)
	}

	st, err := opts.openStore(false)
	if err != nil {
		return err
	}
	var recorder *harness.Recorder
	if st != nil {
		defer st.Close()
		recorder = harness.NewRecorder(st, eval.UUIDv7Generator{})
	}

	h := harness.New(
		harness.WithRegistry(opts.Registry),
		harness.WithLogger(opts.log("eval")),
	)
	result, err := h.Evaluate(c)
	if err != nil {
		return WrapExitError(ExitCommandError, "evaluation setup failed", err)
	}

	out := FoldOutput{Op: string(op), RunID: result.RunID, Calls: len(result.Trace)}
	if recorder != nil {
		if _, err := recorder.Record(ctx, "", c, result); err != nil {
			return WrapExitError(ExitCommandError, "failed to record run", err)
		}
		out.Batch = recorder.Batch()
	}
	if opts.Trace {
		for _, call := range result.Trace {
			out.Trace = append(out.Trace, value.ToAny(call.Object()))
		}
	}

	f := opts.formatter(cmd)
	if result.Err != nil {
		if err := f.Error(result.ErrorKind, result.Err.Error(), out); err != nil {
			return err
		}
		if opts.Trace && !f.JSON() {
			renderCalls(cmd.OutOrStdout(), result.Trace)
		}
		return WrapExitError(ExitFailure, result.ErrorKind, result.Err)
	}

	text, err := value.CanonicalString(result.Value)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to encode result", err)
	}
	out.Result = value.ToAny(result.Value)
	out.Canonical = text
	if opts.Trace && !f.JSON() {
		renderCalls(cmd.OutOrStdout(), result.Trace)
	}
	return f.Success(out, text)
}

// parseCase builds the inputs from command-line arguments.
func parseCase(opts *RootOptions, op eval.Op, args []string) (*harness.Case, error) {
	resolve := opts.Registry.Resolver()

	v, err := value.ParseYAML(args[0], resolve)
	if err != nil {
		return nil, fmt.Errorf("sequence: %w", err)
	}
	arr, ok := v.(*value.Array)
	if !ok {
		return nil, fmt.Errorf("sequence: expected a YAML sequence like '[1, 2, 3]', got %s", value.TypeName(v))
	}

	callback, err := parseCallback(opts, args[1])
	if err != nil {
		return nil, fmt.Errorf("callback: %w", err)
	}

	c := &harness.Case{
		Op:       op,
		Sequence: arr,
		Callback: callback,
		Seed:     seq.None[value.Value](),
	}
	if len(args) > 2 {
		seed, err := value.ParseYAML(args[2], resolve)
		if err != nil {
			return nil, fmt.Errorf("seed: %w", err)
		}
		c.Seed = seq.Some(seed)
	}
	return c, nil
}

// parseCallback resolves a builtin name, or parses any other argument as a
// YAML value (which is then not callable unless it is !fn).
func parseCallback(opts *RootOptions, arg string) (value.Value, error) {
	if fn, ok := opts.Registry.Func(strings.TrimSpace(arg)); ok {
		return fn, nil
	}
	return value.ParseYAML(arg, opts.Registry.Resolver())
}
