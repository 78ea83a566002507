package ir

import (
	"fmt"

	"github.com/pkg/errors"
)

// DecodeError wraps a front-end collaborator failure (malformed Wasm,
// unsupported feature, truncated input) with the function index that was
// being expanded when it occurred, per spec.md §7.
type DecodeError struct {
	Func Func
	Name string
	err  error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s (%q): %v", e.Func, e.Name, e.err)
}

// Unwrap allows errors.Is/errors.As to see through to the underlying
// collaborator error.
func (e *DecodeError) Unwrap() error { return e.err }

// NewDecodeError attaches function context to a front-end failure.
func NewDecodeError(f Func, name string, cause error) *DecodeError {
	return &DecodeError{Func: f, Name: name, err: errors.WithStack(cause)}
}

// EncodeError wraps a back-end collaborator failure: the IR violates a
// constraint the encoder cannot represent (an unresolved Placeholder, an
// edge arity/type mismatch the core itself failed to catch, etc).
type EncodeError struct {
	Func Func
	Name string
	err  error
}

// Error implements the error interface.
func (e *EncodeError) Error() string {
	return fmt.Sprintf("encode %s (%q): %v", e.Func, e.Name, e.err)
}

// Unwrap allows errors.Is/errors.As to see through to the cause.
func (e *EncodeError) Unwrap() error { return e.err }

// NewEncodeError attaches function context to a back-end failure.
func NewEncodeError(f Func, name string, cause error) *EncodeError {
	return &EncodeError{Func: f, Name: name, err: errors.WithStack(cause)}
}

// InvariantViolation marks a programmer error (visiting uses of a None
// value, an Alias cycle, a handle used against the wrong pool): these are
// fatal assertions, never recoverable errors, per spec.md §7. Core code
// reports them by panicking with a value of this type so a recovering
// caller (e.g. a test harness) can still distinguish them from arbitrary
// panics.
type InvariantViolation struct {
	Message string
}

// Error implements the error interface so InvariantViolation can be
// inspected with errors.As after a recover().
func (v *InvariantViolation) Error() string {
	return "ir: invariant violation: " + v.Message
}

// PanicInvariant panics with an *InvariantViolation built from format/args.
func PanicInvariant(format string, args ...any) {
	panic(&InvariantViolation{Message: fmt.Sprintf(format, args...)})
}
