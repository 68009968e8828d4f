// Package value provides the dynamic values that scenario files, the CLI and
// the run log pass to the sequence reducer.
//
// Value is a sealed interface. Only Undefined, Null, Bool, Int, Str, *Array,
// Object and *Func implement it. Every String method follows ECMAScript
// ToString, which is the rendering used in NotCallable messages.
//
// Key design constraints:
//   - NO float types anywhere - numbers are int64
//   - *Array keeps holes (it wraps seq.Sequence[Value])
//   - Canonical JSON (RFC 8785) is the only serialization used for
//     content-addressed identity and golden traces
package value
