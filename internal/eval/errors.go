package eval

import "github.com/legendsbarber/seqfold/internal/seq"

// KindCallback classifies any error raised by the callback itself.
const KindCallback = "CallbackError"

// ErrorKind classifies an evaluation error: NotCallable,
// EmptyReduceNoSeed, or CallbackError for everything else. It returns ""
// for a nil error.
func ErrorKind(err error) string {
	if err == nil {
		return ""
	}
	if k, ok := seq.KindOf(err); ok {
		return string(k)
	}
	return KindCallback
}
