// Package harness provides a conformance testing framework for reduce and
// map.
//
// A scenario is a YAML file naming one call and what it must produce:
//
//	name: sparse_without_seed
//	description: holes are skipped and the first present element seeds acc
//	op: reduce
//	sequence: [!hole ~, !hole ~, 4, !hole ~, 6]
//	callback: !fn add
//	expect:
//	  result: 10
//	  calls: 1
//	assertions:
//	  - type: call_indices
//	    indices: [4]
//	properties: [left_fold, no_seed_equivalence]
//
// Scenario files are decoded strictly (unknown keys are errors), then
// checked twice: required fields in Go, and the structural rules against an
// embedded CUE schema. Every problem is reported, not only the first.
//
// Runs are deterministic: call stamps come from a logical clock that is
// reset before every evaluation, so a scenario's trace is byte-stable and
// can be compared against a golden file (see RunWithGolden).
//
// A Recorder persists runs to the store, keyed by the content address of
// their inputs; Replay re-evaluates a recorded run and reports every
// difference from the record.
package harness
