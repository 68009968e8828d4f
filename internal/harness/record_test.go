package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/legendsbarber/seqfold/internal/builtin"
	"github.com/legendsbarber/seqfold/internal/store"
	"github.com/legendsbarber/seqfold/internal/testutil"
)

func openStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

const sparseScenario = `
name: recorded
op: reduce
sequence: [1, !hole ~, 3, !hole ~, 5]
callback: !fn add
expect:
  result: 9`

func TestRecorder_WritesRunAndCalls(t *testing.T) {
	ctx := t.Context()
	st := openStore(t)
	rec := NewRecorder(st, testutil.NewFixedTokenGenerator("batch-1"))
	h := New(WithRecorder(rec))

	result, err := h.Run(ctx, mustParse(t, sparseScenario))
	require.NoError(t, err)
	require.True(t, result.Pass, result.Errors)

	run, err := st.ReadRun(ctx, result.RunID)
	require.NoError(t, err)
	assert.Equal(t, "batch-1", run.Batch)
	assert.Equal(t, "recorded", run.Scenario)
	assert.Equal(t, "reduce", run.Op)
	assert.Equal(t, `{"$fn":"add"}`, run.Callback)
	assert.Equal(t, `{"$sparse":{"at":{"0":1,"2":3,"4":5},"length":5}}`, run.Sequence)
	assert.False(t, run.HasSeed)
	assert.Equal(t, "", run.Seed)
	assert.Equal(t, "9", run.Result)
	assert.False(t, run.Failed())
	assert.Equal(t, int64(1), run.Seq)

	calls, err := st.ReadCalls(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, calls, 2)
	assert.Equal(t, 2, calls[0].Index)
	assert.Equal(t, "1", calls[0].Acc)
	assert.Equal(t, "3", calls[0].Cur)
	assert.Equal(t, "4", calls[0].Out)
	assert.Equal(t, 4, calls[1].Index)
}

func TestRecorder_Idempotent(t *testing.T) {
	ctx := t.Context()
	st := openStore(t)
	h := New(WithRecorder(NewRecorder(st, testutil.NewFixedTokenGenerator(""))))

	s := mustParse(t, sparseScenario)
	_, err := h.Run(ctx, s)
	require.NoError(t, err)
	_, err = h.Run(ctx, s)
	require.NoError(t, err)

	n, err := st.CountRuns(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestRecorder_Errors(t *testing.T) {
	ctx := t.Context()
	st := openStore(t)
	h := New(WithRecorder(NewRecorder(st, testutil.NewFixedTokenGenerator("b"))))

	result, err := h.Run(ctx, mustParse(t, `
name: recorded_error
op: reduce
sequence: [1, x]
callback: !fn sub
seed: ~
expect:
  error:
    kind: CallbackError`))
	require.NoError(t, err)
	require.True(t, result.Pass, result.Errors)

	run, err := st.ReadRun(ctx, result.RunID)
	require.NoError(t, err)
	assert.True(t, run.HasSeed)
	assert.Equal(t, "null", run.Seed)
	assert.True(t, run.Failed())
	assert.Equal(t, "CallbackError", run.ErrorKind)
	assert.Contains(t, run.ErrorMessage, "callback failed at index 1")
	assert.Equal(t, "", run.Result)

	calls, err := st.ReadCalls(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, calls, 2)
	assert.Equal(t, "-1", calls[0].Out)
	assert.Equal(t, "", calls[1].Out)
}

func TestReplay(t *testing.T) {
	ctx := t.Context()
	st := openStore(t)
	h := New(WithRecorder(NewRecorder(st, testutil.NewFixedTokenGenerator("b"))))

	result, err := h.Run(ctx, mustParse(t, sparseScenario))
	require.NoError(t, err)
	run, err := st.ReadRun(ctx, result.RunID)
	require.NoError(t, err)

	rr, err := New().Replay(ctx, st, run)
	require.NoError(t, err)
	assert.True(t, rr.Match, rr.Diffs)
	assert.Empty(t, rr.Diffs)
	assert.Equal(t, "recorded", rr.Scenario)

	_, err = st.DB().ExecContext(ctx, `UPDATE runs SET result = '10' WHERE id = ?`, run.ID)
	require.NoError(t, err)
	_, err = st.DB().ExecContext(ctx, `UPDATE calls SET out = '5' WHERE run_id = ? AND idx = 2`, run.ID)
	require.NoError(t, err)

	run, err = st.ReadRun(ctx, run.ID)
	require.NoError(t, err)
	rr, err = New().Replay(ctx, st, run)
	require.NoError(t, err)
	assert.False(t, rr.Match)
	require.Len(t, rr.Diffs, 2)
	assert.Equal(t, "result: recorded 10, replayed 9", rr.Diffs[0])
	assert.Contains(t, rr.Diffs[1], "call 0:")
}

func TestReplay_UnknownCallable(t *testing.T) {
	ctx := t.Context()
	st := openStore(t)
	h := New(WithRecorder(NewRecorder(st, testutil.NewFixedTokenGenerator("b"))))

	result, err := h.Run(ctx, mustParse(t, sparseScenario))
	require.NoError(t, err)
	run, err := st.ReadRun(ctx, result.RunID)
	require.NoError(t, err)

	_, err = New(WithRegistry(builtin.NewRegistry())).Replay(ctx, st, run)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown function "add"`)
}
