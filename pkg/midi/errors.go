package midi

import (
	"errors"
	"fmt"
)

var (
	// ErrBadMagic reports a chunk type other than "MThd" or "MTrk".
	ErrBadMagic = errors.New("midi: bad chunk type")
	// ErrBadHeaderLength reports a header chunk length other than 6.
	ErrBadHeaderLength = errors.New("midi: bad header length")
	// ErrBadFormat reports a file format outside 0, 1 and 2.
	ErrBadFormat = errors.New("midi: bad format")
	// ErrBadSMPTEFPS reports an SMPTE division with an unknown frame rate.
	ErrBadSMPTEFPS = errors.New("midi: bad smpte frame rate")

	ErrVLQTooLong             = errors.New("midi: variable length quantity too long")
	ErrInvalidByte            = errors.New("midi: invalid data byte")
	ErrUnexpectedContinuation = errors.New("midi: expected sysex continuation")
	ErrNoRunningStatus        = errors.New("midi: no running status")
	ErrTrackOverrun           = errors.New("midi: read past end of track")
)

// DecodeError describes a malformed event at an exact stream offset.
// Track is -1 when the error is not tied to a track.
type DecodeError struct {
	Err    error
	Track  int
	Offset int64
	Byte   byte
}

func (e *DecodeError) Error() string {
	if e.Err == ErrTrackOverrun {
		return fmt.Sprintf("%s %d at %#x", e.Err, e.Track, e.Offset)
	}
	if e.Track < 0 {
		return fmt.Sprintf("%s (byte 0x%02X at %#x)", e.Err, e.Byte, e.Offset)
	}
	return fmt.Sprintf("%s (byte 0x%02X in track %d at %#x)", e.Err, e.Byte, e.Track, e.Offset)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
