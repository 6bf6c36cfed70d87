package host

import (
	"errors"
	"fmt"
)

// Resolution and invocation failures. Callers compare with errors.Is.
var (
	ErrClassNotFound   = errors.New("class not found")
	ErrNoSuchMethod    = errors.New("no such method")
	ErrAccessDenied    = errors.New("access denied")
	ErrInstantiation   = errors.New("class is not instantiable")
	ErrIllegalArgument = errors.New("illegal argument")
	ErrNullReceiver    = errors.New("null receiver")
)

// InvocationTargetError wraps a failure raised by the invoked callable
// itself, either an error result or a recovered panic.
type InvocationTargetError struct {
	Member string
	Cause  error
	// Stack is set when the callable panicked.
	Stack []byte
}

func (e *InvocationTargetError) Error() string {
	return fmt.Sprintf("%s threw %v", e.Member, e.Cause)
}

func (e *InvocationTargetError) Unwrap() error {
	return e.Cause
}

// panicError turns a recovered panic value into an error.
func panicError(r any) error {
	if err, ok := r.(error); ok {
		return err
	}
	return fmt.Errorf("panic: %v", r)
}
