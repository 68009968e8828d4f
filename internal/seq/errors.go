package seq

import (
	"errors"
	"fmt"
)

// Kind identifies the category of a TypeError.
type Kind string

const (
	// KindNotCallable indicates the callback argument cannot be invoked.
	KindNotCallable Kind = "NotCallable"

	// KindEmptyReduce indicates a fold without seed over a sequence with no
	// present slot.
	KindEmptyReduce Kind = "EmptyReduceNoSeed"
)

// EmptyReduceMessage is the message carried by every EmptyReduceNoSeed error.
const EmptyReduceMessage = "Reduce of empty array with no initial value"

// Sentinels for errors.Is. They match any TypeError of the same kind.
var (
	ErrNotCallable       = &TypeError{Kind: KindNotCallable}
	ErrEmptyReduceNoSeed = &TypeError{Kind: KindEmptyReduce}
)

// TypeError is returned for contract violations of Reduce, Fold and Map.
// Both kinds are terminal for the call.
type TypeError struct {
	Kind    Kind
	Message string
}

// Error returns the message exactly as the contract defines it.
func (e *TypeError) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return e.Message
}

// Is matches sentinels by kind. A target with a message also has to match
// the message.
func (e *TypeError) Is(target error) bool {
	t, ok := target.(*TypeError)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.Message == "" || t.Message == e.Message
}

// NotCallable builds the error for a callback value that cannot be invoked.
// The message is the rendering of v (see Describe) followed by
// " is not a function".
func NotCallable(v any) *TypeError {
	return &TypeError{
		Kind:    KindNotCallable,
		Message: Describe(v) + " is not a function",
	}
}

// EmptyReduceNoSeed builds the error for a seedless fold with nothing to fold.
func EmptyReduceNoSeed() *TypeError {
	return &TypeError{Kind: KindEmptyReduce, Message: EmptyReduceMessage}
}

// IsNotCallable returns true if err is, or wraps, a NotCallable error.
func IsNotCallable(err error) bool {
	return errors.Is(err, ErrNotCallable)
}

// IsEmptyReduce returns true if err is, or wraps, an EmptyReduceNoSeed error.
func IsEmptyReduce(err error) bool {
	return errors.Is(err, ErrEmptyReduceNoSeed)
}

// KindOf extracts the TypeError kind from err.
func KindOf(err error) (Kind, bool) {
	var te *TypeError
	if errors.As(err, &te) {
		return te.Kind, true
	}
	return "", false
}

// CallbackError wraps an error returned by a caller-supplied callback passed
// to one of the Try variants. Index is the slot being visited.
type CallbackError struct {
	Index int
	Err   error
}

func (e *CallbackError) Error() string {
	return fmt.Sprintf("callback failed at index %d: %v", e.Index, e.Err)
}

func (e *CallbackError) Unwrap() error {
	return e.Err
}
