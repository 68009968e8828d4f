package cli

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

// BuiltinOutput describes one registered callable.
type BuiltinOutput struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
	Doc  string `json:"doc"`
}

// NewBuiltinsCommand creates the builtins command.
func NewBuiltinsCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "builtins",
		Short: "List the callables usable as callbacks",
		Long: `List the named callables. Scenario files refer to them as !fn name;
reduce and map accept the bare name.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			all := opts.Registry.All()
			f := opts.formatter(cmd)
			if f.JSON() {
				out := make([]BuiltinOutput, 0, len(all))
				for _, b := range all {
					out = append(out, BuiltinOutput{Name: b.Name(), Kind: string(b.Kind), Doc: b.Doc})
				}
				return f.Success(out, "")
			}

			t := newTable(cmd.OutOrStdout())
			t.AppendHeader(table.Row{"name", "kind", "doc"})
			for _, b := range all {
				t.AppendRow(table.Row{b.Name(), b.Kind, b.Doc})
			}
			t.Render()
			return nil
		},
	}
}
