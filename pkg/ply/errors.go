package ply

import "github.com/jtang613/goply/internal/plyerr"

// ErrorKind is one of the named error kinds of spec §7, plus the
// BadLineTerminator sub-kind of UnknownKeyword.
type ErrorKind = plyerr.Kind

const (
	ErrUnknownType        = plyerr.UnknownType
	ErrUnsupportedVersion = plyerr.UnsupportedVersion
	ErrUnknownKeyword     = plyerr.UnknownKeyword
	ErrBadLineTerminator  = plyerr.BadLineTerminator
	ErrOrphanProperty     = plyerr.OrphanProperty
	ErrBadInteger         = plyerr.BadInteger
	ErrBadFloat           = plyerr.BadFloat
	ErrEOF                = plyerr.EOF
	ErrIOError            = plyerr.IOError
	ErrSchemaError        = plyerr.SchemaError
	ErrSchemaLocked       = plyerr.SchemaLocked
	ErrInvalidState       = plyerr.InvalidState
	ErrTooManyValues      = plyerr.TooManyValues
	ErrUnderrun           = plyerr.Underrun
	ErrAborted            = plyerr.Aborted
)

// Error is the concrete error type returned by every goply operation.
type Error = plyerr.Error

// IsKind reports whether err carries the named kind (BadLineTerminator
// counts as a match for UnknownKeyword, per spec §8 scenario 7).
func IsKind(err error, k ErrorKind) bool {
	return plyerr.Is(err, k)
}

// ErrorHook is invoked on failure with a human-readable message, as spec §7
// describes. The default hook prints to os.Stderr.
type ErrorHook func(msg string)
