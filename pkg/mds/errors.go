package mds

import (
	"errors"
	"fmt"
)

// Decode errors. All of them reach the caller wrapped in a *ParseError.
var (
	// ErrParse is matched by every *ParseError through errors.Is.
	ErrParse = errors.New("error parsing mds file")

	// ErrOutOfBounds indicates a record or string extends past the end of the buffer.
	ErrOutOfBounds = errors.New("read out of bounds")

	// ErrBadSignature indicates the file does not start with "MEDIA DESCRIPTOR".
	ErrBadSignature = errors.New("invalid MDS signature")

	// ErrUnterminated indicates a filename string has no terminator before the end of the buffer.
	ErrUnterminated = errors.New("unterminated string")

	// ErrUnknownMediaType indicates a media type code outside the known table.
	ErrUnknownMediaType = errors.New("unknown media type")

	// ErrUnknownSubchannel indicates a subchannel flag other than 0x00 or 0x08.
	ErrUnknownSubchannel = errors.New("unknown subchannel flag")

	// ErrUnknownNameEncoding indicates a filename encoding flag other than 8 or 16 bit.
	ErrUnknownNameEncoding = errors.New("unknown filename encoding")
)

// Conversion precondition errors, returned by the Disc accessors.
var (
	ErrNoSessions             = errors.New("there are no sessions in this mds")
	ErrTooManySessions        = errors.New("multi session conversion is not supported")
	ErrNoDataTracks           = errors.New("there are no data tracks in this mdf")
	ErrMultiTrackNotSupported = errors.New("multi track conversion not supported, use cue/bin instead")
	ErrSessionOutOfRange      = errors.New("session index out of range")
)

// ParseError describes where decoding failed. A ParseError is never
// returned together with a partially built model.
type ParseError struct {
	Offset int64  // Absolute offset of the failing field or record
	Field  string // What was being decoded
	Err    error  // Underlying cause
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s at 0x%X: %v", ErrParse, e.Field, e.Offset, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is reports every ParseError as ErrParse
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

func parseError(offset int64, field string, err error) error {
	var pe *ParseError
	if errors.As(err, &pe) {
		return err
	}
	return &ParseError{Offset: offset, Field: field, Err: err}
}
