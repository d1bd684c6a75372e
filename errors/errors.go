package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Phase indicates which operation produced the error
type Phase string

const (
	PhaseCreate    Phase = "create"    // list construction
	PhaseDefine    Phase = "define"    // slot definition and index allocation
	PhaseAssign    Phase = "assign"    // value and type updates
	PhaseLookup    Phase = "lookup"    // index or name resolution
	PhaseName      Phase = "name"      // symbol table maintenance
	PhaseDelete    Phase = "delete"    // slot removal
	PhaseDuplicate Phase = "duplicate" // list copy
	PhaseAlloc     Phase = "alloc"     // pool accounting
	PhaseRegistry  Phase = "registry"  // type reference registry
	PhaseConfig    Phase = "config"    // configuration loading
	PhaseCommand   Phase = "command"   // shell command parsing
)

// Kind categorizes the error
type Kind string

const (
	KindUndefined     Kind = "undefined"
	KindInvalidIndex  Kind = "invalid_index"
	KindAlreadyExists Kind = "already_exists"
	KindNoMemory      Kind = "no_memory"
	KindListFull      Kind = "list_full"
	KindReleased      Kind = "released"
	KindNotFound      Kind = "not_found"
	KindInvalidInput  Kind = "invalid_input"
)

// Negative result codes. A successful operation returns a non-negative
// index, so every failure maps onto one of these.
const (
	CodeUndefined     = -1
	CodeInvalidIndex  = -2
	CodeAlreadyExists = -3
	CodeNoMemory      = -4
	CodeListFull      = -5
)

var kindCodes = map[Kind]int{
	KindUndefined:     CodeUndefined,
	KindInvalidIndex:  CodeInvalidIndex,
	KindAlreadyExists: CodeAlreadyExists,
	KindNoMemory:      CodeNoMemory,
	KindListFull:      CodeListFull,
	KindReleased:      CodeNoMemory,
}

// Error is the structured error type used throughout the module
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Detail string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	if e.Phase != "" {
		b.WriteByte('[')
		b.WriteString(string(e.Phase))
		b.WriteString("] ")
	}
	b.WriteString(string(e.Kind))

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error. A target without a phase
// matches on kind alone, which is how the package-level sentinels work.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Phase == "" {
		return e.Kind == t.Kind
	}
	return e.Phase == t.Phase && e.Kind == t.Kind
}

// Code returns the negative result code for this error's kind.
func (e *Error) Code() int {
	if c, ok := kindCodes[e.Kind]; ok {
		return c
	}
	return CodeUndefined
}

// Sentinel returns a phase-less error that matches every error of the kind.
func Sentinel(kind Kind) *Error {
	return &Error{Kind: kind}
}

// Code maps err to its negative result code; nil maps to 0.
// Errors outside this package report CodeUndefined.
func Code(err error) int {
	if err == nil {
		return 0
	}
	var e *Error
	if stderrors.As(err, &e) {
		return e.Code()
	}
	return CodeUndefined
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}

// Is forwards to the standard library so callers need only this package.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As forwards to the standard library.
func As(err error, target any) bool {
	return stderrors.As(err, target)
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// Undefined creates an error for a missing list or property name
func Undefined(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUndefined,
		Detail: what,
	}
}

// InvalidIndex creates an error for an index that does not address a usable slot
func InvalidIndex(phase Phase, index, limit int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidIndex,
		Detail: fmt.Sprintf("index %d not valid (limit %d)", index, limit),
		Value:  index,
	}
}

// AlreadyExists creates an error for an explicit index that is occupied
func AlreadyExists(phase Phase, index int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindAlreadyExists,
		Detail: fmt.Sprintf("property %d already defined", index),
		Value:  index,
	}
}

// NoMemory wraps a pool allocation failure
func NoMemory(phase Phase, size int, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNoMemory,
		Detail: fmt.Sprintf("failed to allocate %d bytes", size),
		Cause:  cause,
		Value:  size,
	}
}

// ListFull creates an error for a list that reached its maximum size
func ListFull(phase Phase, max int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindListFull,
		Detail: fmt.Sprintf("list holds maximum of %d properties", max),
		Value:  max,
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
