// Package plyerr defines the error-kind taxonomy shared by every layer of
// the PLY codec (buffered I/O, encoding primitives, header parsing, the
// read/write drivers). A bare wrapped string cannot let a caller branch on
// "was this a malformed header or a truncated file", so each failure carries
// a Kind alongside its message and optional cause.
package plyerr

import (
	"errors"
	"fmt"
)

// Kind enumerates the named error kinds of spec §7.
type Kind int

const (
	UnknownType Kind = iota
	UnsupportedVersion
	UnknownKeyword
	// BadLineTerminator is a sub-kind of UnknownKeyword (spec §8 scenario 7):
	// Is/As against UnknownKeyword also matches it.
	BadLineTerminator
	OrphanProperty
	BadInteger
	BadFloat
	EOF
	IOError
	SchemaError
	SchemaLocked
	InvalidState
	TooManyValues
	Underrun
	Aborted
)

var names = map[Kind]string{
	UnknownType:         "UnknownType",
	UnsupportedVersion:  "UnsupportedVersion",
	UnknownKeyword:      "UnknownKeyword",
	BadLineTerminator:   "BadLineTerminator",
	OrphanProperty:      "OrphanProperty",
	BadInteger:          "BadInteger",
	BadFloat:            "BadFloat",
	EOF:                 "Eof",
	IOError:             "IOError",
	SchemaError:         "SchemaError",
	SchemaLocked:        "SchemaLocked",
	InvalidState:        "InvalidState",
	TooManyValues:       "TooManyValues",
	Underrun:            "Underrun",
	Aborted:             "Aborted",
}

func (k Kind) String() string {
	if s, ok := names[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Error is the concrete error type produced by every goply layer.
type Error struct {
	Kind  Kind
	Msg   string
	Cause error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Cause }

// New builds an Error with no wrapped cause.
func New(k Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: k, Msg: fmt.Sprintf(format, args...)}
}

// Wrap builds an Error around a lower-level cause.
func Wrap(k Kind, cause error, format string, args ...interface{}) *Error {
	return &Error{Kind: k, Msg: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether err carries kind k, treating BadLineTerminator as a
// sub-kind of UnknownKeyword per spec §8 scenario 7.
func Is(err error, k Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	if e.Kind == k {
		return true
	}
	return k == UnknownKeyword && e.Kind == BadLineTerminator
}
