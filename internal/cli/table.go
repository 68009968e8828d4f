package cli

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/legendsbarber/seqfold/internal/eval"
	"github.com/legendsbarber/seqfold/internal/value"
)

// newTable returns a table writing to w in the rounded style.
func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	return t
}

// renderCalls prints a call trace. Acc is blank for map calls and out is
// blank for the call that failed.
func renderCalls(w io.Writer, calls []eval.Call) {
	t := newTable(w)
	t.AppendHeader(table.Row{"seq", "index", "acc", "cur", "out"})
	for _, c := range calls {
		t.AppendRow(table.Row{c.Seq, c.Index, cell(c.Acc), cell(c.Cur), cell(c.Out)})
	}
	t.Render()
}

// cell renders a value as canonical JSON, or blank when absent.
func cell(v value.Value) string {
	if v == nil {
		return ""
	}
	s, err := value.CanonicalString(v)
	if err != nil {
		return v.String()
	}
	return s
}
