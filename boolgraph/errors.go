package boolgraph

import (
	"fmt"

	"github.com/pkg/errors"
)

// ValidationError reports a structural problem in an input fault tree:
// wrong arity, a malformed inhibit-gate shape, an unparsable formula. It
// is raised by upstream builders, never by the preprocessor itself.
type ValidationError struct {
	msg   string
	cause error
}

func (e *ValidationError) Error() string { return e.msg }
func (e *ValidationError) Unwrap() error { return e.cause }

// ValidationErrorf builds a ValidationError with a formatted message and
// a captured stack trace.
func ValidationErrorf(format string, args ...interface{}) *ValidationError {
	return &ValidationError{msg: fmt.Sprintf(format, args...), cause: errors.New(fmt.Sprintf(format, args...))}
}

// LogicError reports a programmer error: a vote number set on a
// non-ATLEAST gate, an attempt to assign a node's state twice, a graph
// invariant violated by a caller. LogicError is never expected to be
// recovered from.
type LogicError struct {
	msg   string
	cause error
}

func (e *LogicError) Error() string { return e.msg }
func (e *LogicError) Unwrap() error { return e.cause }

// LogicErrorf builds a LogicError with a formatted message and a captured
// stack trace, via errors.WithStack, so a panic carrying it prints the
// call chain that produced the broken invariant.
func LogicErrorf(format string, args ...interface{}) *LogicError {
	return &LogicError{msg: fmt.Sprintf(format, args...), cause: errors.WithStack(errors.New(fmt.Sprintf(format, args...)))}
}

// InvalidArgument reports a numeric-domain error: a vote number below 2,
// a negative index, an out-of-range arity.
type InvalidArgument struct {
	msg   string
	cause error
}

func (e *InvalidArgument) Error() string { return e.msg }
func (e *InvalidArgument) Unwrap() error { return e.cause }

// InvalidArgumentf builds an InvalidArgument with a formatted message.
func InvalidArgumentf(format string, args ...interface{}) *InvalidArgument {
	return &InvalidArgument{msg: fmt.Sprintf(format, args...), cause: errors.New(fmt.Sprintf(format, args...))}
}
