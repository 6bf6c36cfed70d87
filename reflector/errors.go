package reflector

import (
	"errors"
	"fmt"

	"github.com/chazu/smalireflect/host"
	"github.com/chazu/smalireflect/journal"
)

// Failure sentinels, shared with package host.
var (
	ErrClassNotFound   = host.ErrClassNotFound
	ErrNoSuchMethod    = host.ErrNoSuchMethod
	ErrAccessDenied    = host.ErrAccessDenied
	ErrInstantiation   = host.ErrInstantiation
	ErrIllegalArgument = host.ErrIllegalArgument
	ErrNullReceiver    = host.ErrNullReceiver
)

// InvocationTargetError wraps a failure raised by the invoked callable.
type InvocationTargetError = host.InvocationTargetError

// internalError is a panic inside the bridge itself rather than inside the
// invoked callable.
type internalError struct {
	cause error
	stack []byte
}

func (e *internalError) Error() string {
	return fmt.Sprintf("internal error: %v", e.cause)
}

func (e *internalError) Unwrap() error {
	return e.cause
}

// Classify maps a dispatch error to its journal category.
func Classify(err error) journal.Category {
	var (
		target   *InvocationTargetError
		internal *internalError
	)
	switch {
	case errors.As(err, &internal):
		return journal.Internal
	case errors.As(err, &target):
		return journal.TargetException
	case errors.Is(err, ErrClassNotFound):
		return journal.ClassNotFound
	case errors.Is(err, ErrNoSuchMethod):
		return journal.NoSuchMethod
	case errors.Is(err, ErrAccessDenied):
		return journal.AccessDenied
	case errors.Is(err, ErrInstantiation):
		return journal.Instantiation
	case errors.Is(err, ErrIllegalArgument):
		return journal.IllegalArgument
	case errors.Is(err, ErrNullReceiver):
		return journal.NullReceiver
	}
	return journal.Internal
}

// stackOf returns the stack captured with err, if any.
func stackOf(err error) []byte {
	var (
		target   *InvocationTargetError
		internal *internalError
	)
	switch {
	case errors.As(err, &internal):
		return internal.stack
	case errors.As(err, &target):
		return target.Stack
	}
	return nil
}
