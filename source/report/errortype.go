package report

import (
	"fmt"

	"github.com/pkg/errors"
)

// The categories of failure the language engine can report.
type Kind int

const (
	UNDEFINED_KIND Kind = iota // So that a zeroed Error is visibly broken.
	Syntax
	Arithmetic
	Runtime
	Validation
	TypeConversion
)

var kindDescriptions = map[Kind]string{
	UNDEFINED_KIND: "Undefined error",
	Syntax:         "Syntax error",
	Arithmetic:     "Arithmetic error",
	Runtime:        "Runtime error",
	Validation:     "Validation error",
	TypeConversion: "Type conversion error",
}

func (k Kind) String() string {
	if s, ok := kindDescriptions[k]; ok {
		return s
	}
	return fmt.Sprintf("Error kind %d", int(k))
}

// The 'error' type. Once made it is never mutated: functions which add information return a
// fresh Error with the original as its cause.
type Error struct {
	Kind    Kind
	ErrorId string
	Message string
	Args    []any
	Cause   error
}

func (e *Error) Error() string {
	return e.Kind.String() + ": " + e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Makes an error from the catalogue in errorfile.go. An identifier which isn't in the catalogue
// is itself reported as a runtime error, so that a typo can't make an error vanish.
func CreateErr(errorId string, cause error, args ...any) *Error {
	creator, ok := ErrorCreatorMap[errorId]
	if !ok {
		return &Error{Kind: Runtime, ErrorId: "report/id", Message: "unknown error identifier " + emph(errorId), Args: []any{errorId}, Cause: cause}
	}
	return &Error{Kind: creator.Kind, ErrorId: errorId, Message: creator.Message(args...), Args: args, Cause: cause}
}

// Returns a new error of the same kind and identity whose message is prefixed with some context,
// e.g. the index of a list element. The original error becomes the cause.
func Annotate(e *Error, context string) *Error {
	return &Error{Kind: e.Kind, ErrorId: e.ErrorId, Message: context + ": " + e.Message, Args: e.Args, Cause: e}
}

// Supplies the long-form explanation of an error for the hub's 'why' command.
func Explain(e *Error) string {
	if e == nil {
		return "There was no error."
	}
	creator, ok := ErrorCreatorMap[e.ErrorId]
	if !ok || creator.Explanation == nil {
		return "No further explanation is available for this error."
	}
	return creator.Explanation(e.Args...)
}

// Converts whatever was recovered from a panic into an error with a stack trace attached.
func FaultCause(r any) error {
	if e, ok := r.(error); ok {
		return errors.WithStack(e)
	}
	return errors.Errorf("%v", r)
}
