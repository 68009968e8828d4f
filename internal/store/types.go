package store

// Run is one recorded reduce or map invocation. Value fields hold canonical
// JSON text.
type Run struct {
	ID       string
	Batch    string
	Scenario string
	Op       string
	Callback string
	Sequence string

	// HasSeed distinguishes an omitted seed from any supplied one.
	HasSeed bool
	Seed    string

	// Exactly one of Result and ErrorKind is set. ErrorKind is
	// "NotCallable", "EmptyReduceNoSeed" or "CallbackError".
	Result       string
	ErrorKind    string
	ErrorMessage string

	Seq int64
}

// Failed reports whether the run ended with an error.
func (r Run) Failed() bool {
	return r.ErrorKind != ""
}

// Call is one callback call within a run.
type Call struct {
	ID    string
	RunID string
	Seq   int64
	Index int

	// Acc is empty for map runs.
	Acc string
	Cur string

	// Out is empty when the call failed.
	Out string
}

// ListFilter narrows ListRuns. Zero values match everything.
type ListFilter struct {
	Batch    string
	Scenario string
	Limit    int
}
