// Package errs defines the result codes returned by the resource core.
//
// Every fallible operation in the engine returns an *Error carrying a Code.
// Callers match on the code with errors.Is against the sentinels below:
//
//	if errors.Is(err, errs.ErrNotFound) { ... }
//
// Codes are never turned into panics here. Debug traps are layered on top by
// the callers (see package debug).
package errs

import (
	"fmt"
	"strings"
)

// Code categorizes a failure.
type Code string

const (
	CodeNullPointer     Code = "null_pointer"
	CodeInvalidArgument Code = "invalid_argument"
	CodeNotFound        Code = "not_found"
	CodeAlreadyExists   Code = "already_exists"
	CodeBadHandle       Code = "bad_handle"
	CodeOutOfMemory     Code = "out_of_memory"
	CodeAccessDenied    Code = "access_denied"
	CodeUnexpected      Code = "unexpected"
)

// Sentinels for errors.Is matching. Only the Code is compared.
var (
	ErrNullPointer     = &Error{Code: CodeNullPointer}
	ErrInvalidArgument = &Error{Code: CodeInvalidArgument}
	ErrNotFound        = &Error{Code: CodeNotFound}
	ErrAlreadyExists   = &Error{Code: CodeAlreadyExists}
	ErrBadHandle       = &Error{Code: CodeBadHandle}
	ErrOutOfMemory     = &Error{Code: CodeOutOfMemory}
	ErrAccessDenied    = &Error{Code: CodeAccessDenied}
	ErrUnexpected      = &Error{Code: CodeUnexpected}
)

// Error is the structured error returned by the core.
type Error struct {
	Cause   error
	Code    Code
	Op      string // operation, e.g. "sprite.Add"
	Subject string // offending name or handle
	Detail  string
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder

	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	b.WriteString(string(e.Code))

	if e.Subject != "" {
		b.WriteString(" [")
		b.WriteString(e.Subject)
		b.WriteByte(']')
	}

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

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target carries the same Code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// Builder provides structured error construction.
type Builder struct {
	err Error
}

// New starts an error for the given operation and code.
func New(op string, code Code) *Builder {
	return &Builder{err: Error{Op: op, Code: code}}
}

// Subject sets the offending name or handle.
func (b *Builder) Subject(s any) *Builder {
	b.err.Subject = fmt.Sprint(s)
	return b
}

// Cause sets the underlying error.
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message.
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error.
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for the common paths.

// NotFound reports a missing name.
func NotFound(op string, name string) *Error {
	return &Error{Op: op, Code: CodeNotFound, Subject: name}
}

// BadHandle reports a handle that failed validation.
func BadHandle(op string, handle any) *Error {
	return &Error{Op: op, Code: CodeBadHandle, Subject: fmt.Sprint(handle)}
}

// NullPointer reports a nil object where one is required.
func NullPointer(op string, what string) *Error {
	return &Error{Op: op, Code: CodeNullPointer, Subject: what}
}

// AlreadyExists reports a duplicate name or re-initialization.
func AlreadyExists(op string, name string) *Error {
	return &Error{Op: op, Code: CodeAlreadyExists, Subject: name}
}

// InvalidArgument reports a malformed argument.
func InvalidArgument(op string, detail string, args ...any) *Error {
	return New(op, CodeInvalidArgument).Detail(detail, args...).Build()
}

// CodeOf returns the Code carried by err, or CodeUnexpected for foreign errors.
// A nil error has an empty code.
func CodeOf(err error) Code {
	if err == nil {
		return ""
	}
	var e *Error
	for err != nil {
		if x, ok := err.(*Error); ok {
			e = x
			break
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = u.Unwrap()
	}
	if e == nil {
		return CodeUnexpected
	}
	return e.Code
}
