// Package serrors is a unified errors package for script execution so that
// failures from instruction handlers, routine dispatch and argument
// construction can be formatted and handled in a uniform way.
package serrors

import "fmt"

type (
	// Kind is an enum to describe where the error originates from.
	Kind int
	// Error captures all errors raised while executing a compiled script.
	// Program, Offset and Mnemonic identify the failing instruction when
	// the error surfaced from a running machine; they are left zero for
	// construction-time errors.
	Error struct {
		Kind     Kind
		Program  string
		Offset   uint32
		Mnemonic string
		Err      error
	}
)

const (
	// UnimplementedOpcode is raised when a decoded instruction has no
	// registered handler.
	UnimplementedOpcode Kind = iota
	// InvalidOperand is raised when a handler pops a variable of an
	// unexpected type.
	InvalidOperand
	// InvalidArgument is raised when an engine argument is constructed
	// with a kind/type mismatch, or a routine receives a malformed
	// argument list.
	InvalidArgument
	// TooManyArguments is raised when an ACTION instruction requests more
	// arguments than the routine declares.
	TooManyArguments
	// RoutineOutOfRange is raised when a routine id is outside the
	// dispatch table.
	RoutineOutOfRange
)

func (kind Kind) String() string {
	switch kind {
	case UnimplementedOpcode:
		return "unimplemented opcode"
	case InvalidOperand:
		return "invalid operand"
	case InvalidArgument:
		return "invalid argument"
	case TooManyArguments:
		return "too many arguments"
	case RoutineOutOfRange:
		return "routine out of range"
	default:
		return "unknown"
	}
}

// New creates an Error without instruction context.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Err: fmt.Errorf(format, args...)}
}

// At returns a copy of err annotated with the failing instruction. A non
// script error is wrapped as an InvalidOperand so that routine
// implementations can return plain errors.
func At(err error, program string, offset uint32, mnemonic string) *Error {
	serr, ok := err.(*Error)
	if !ok {
		serr = &Error{Kind: InvalidOperand, Err: err}
	}
	annotated := *serr
	annotated.Program = program
	annotated.Offset = offset
	annotated.Mnemonic = mnemonic
	return &annotated
}

func (err *Error) Error() string {
	if err.Program != "" || err.Mnemonic != "" {
		return fmt.Sprintf("script %q:%04x %v: %v: %v", err.Program, err.Offset, err.Mnemonic, err.Kind, err.Err)
	}
	return fmt.Sprintf("%v: %v", err.Kind, err.Err)
}

func (err *Error) Unwrap() error { return err.Err }
