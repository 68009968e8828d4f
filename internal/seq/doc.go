// Package seq provides left folds and maps over ordered, possibly sparse
// sequences.
//
// A Sequence has a fixed length and every slot is either present or a hole.
// Holes are distinct from present zero values and are invisible to the
// callbacks of Reduce, Fold and Map.
//
// The fold contract follows the ECMAScript Array.prototype.reduce algorithm:
//   - With a seed, folding starts at index 0 with the seed as accumulator.
//   - Without a seed, the first present slot becomes the accumulator and
//     folding resumes right after it.
//   - Without a seed and without any present slot the call fails with
//     EmptyReduceNoSeed.
//   - A nil callback fails with NotCallable before anything else happens.
//
// Whether a seed was supplied is carried by Option, never inferred from the
// seed's value, so a zero or nil seed is still a seed.
//
// Everything runs synchronously on the caller's goroutine. The package does
// no logging and keeps no state between calls.
package seq
