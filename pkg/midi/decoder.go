package midi

import (
	"io"

	"go.uber.org/zap"
)

const (
	statusSysex  = 0xF0
	statusEscape = 0xF7
	statusMeta   = 0xFF
)

// Decoder reads a Standard MIDI File from the current position of r and
// reports its contents to a Handler.
type Decoder struct {
	r      io.ReadSeeker
	offset int64
	mapErr func(error) error
}

func NewDecoder(r io.ReadSeeker) *Decoder {
	return &Decoder{r: r}
}

// Read decodes the midi file at the current position of r into h.
func Read(r io.ReadSeeker, h Handler) error {
	return NewDecoder(r).Decode(h)
}

// Decode reads the header chunk and every declared track chunk, invoking
// h for each of them. Decoding stops at the first error.
func (d *Decoder) Decode(h Handler) error {
	d.mapErr = func(err error) error { return err }
	if m, ok := h.(ErrorMapper); ok {
		d.mapErr = m.MapError
	}

	offset, err := d.r.Seek(0, io.SeekCurrent)
	if err != nil {
		return d.mapErr(err)
	}
	d.offset = offset

	hdr, err := d.readHeader()
	if err != nil {
		return d.mapErr(err)
	}

	decoderLog.Debug("header",
		zap.Stringer("format", hdr.format),
		zap.Uint16("tracks", hdr.tracks),
		zap.Stringer("division", hdr.division))

	if err := h.Header(hdr.format, hdr.tracks, hdr.division); err != nil {
		return err
	}

	for i := 0; i < int(hdr.tracks); i++ {
		end, err := d.readTrackHeader()
		if err != nil {
			return d.mapErr(err)
		}

		decoderLog.Debug("track", zap.Int("track", i), zap.Int64("start", d.offset), zap.Int64("end", end))

		if err := h.Track(); err != nil {
			return err
		}

		t := &trackReader{Decoder: d, h: h, index: i, end: end}
		if err := t.parse(); err != nil {
			return err
		}
	}

	return nil
}

// trackReader holds the event state of a single track. Running status and
// sysex continuation never cross a track boundary.
type trackReader struct {
	*Decoder
	h     Handler
	index int
	end   int64

	lastStatus        byte
	sysexContinuation bool
}

func (t *trackReader) parse() error {
	for {
		if t.offset == t.end {
			return nil
		}
		if t.offset > t.end {
			return t.mapErr(&DecodeError{Err: ErrTrackOverrun, Track: t.index, Offset: t.offset})
		}
		if err := t.parseEvent(); err != nil {
			return err
		}
	}
}

// parseEvent decodes one event. Errors raised while decoding pass through
// mapErr; handler errors are returned as is.
func (t *trackReader) parseEvent() error {
	delta, err := t.readVLQ(t.index)
	if err != nil {
		return t.mapErr(err)
	}

	statusOffset := t.offset
	status, err := t.readByte()
	if err != nil {
		return t.mapErr(err)
	}

	running := true
	if isVoiceStatus(status) {
		t.lastStatus = status
		running = false
	}

	switch {
	case t.sysexContinuation:
		if status != statusEscape {
			return t.mapErr(&DecodeError{Err: ErrUnexpectedContinuation, Track: t.index, Offset: statusOffset, Byte: status})
		}
		t.lastStatus = 0

		data, start, err := t.readPayload(t.index)
		if err != nil {
			return t.mapErr(err)
		}
		if sysexTerminated(data) {
			t.sysexContinuation = false
		}
		if err := validate7Bit(t.index, start, sysexBody(data)); err != nil {
			return t.mapErr(err)
		}
		return t.h.SysexEvent(delta, data)

	case status == statusSysex:
		t.lastStatus = 0

		data, start, err := t.readPayload(t.index)
		if err != nil {
			return t.mapErr(err)
		}
		t.sysexContinuation = !sysexTerminated(data)
		if err := validate7Bit(t.index, start, sysexBody(data)); err != nil {
			return t.mapErr(err)
		}
		return t.h.SysexEvent(delta, data)

	case status == statusEscape:
		t.lastStatus = 0

		data, _, err := t.readPayload(t.index)
		if err != nil {
			return t.mapErr(err)
		}
		return t.h.EscapedEvent(delta, data)

	case status == statusMeta:
		t.lastStatus = 0

		idOffset := t.offset
		id, err := t.readByte()
		if err != nil {
			return t.mapErr(err)
		}
		if err := validate7Bit(t.index, idOffset, []byte{id}); err != nil {
			return t.mapErr(err)
		}
		data, _, err := t.readPayload(t.index)
		if err != nil {
			return t.mapErr(err)
		}
		return t.h.MetaEvent(delta, id, data)

	case t.lastStatus != 0:
		return t.parseMidiEvent(delta, status, statusOffset, running)
	}

	return t.mapErr(&DecodeError{Err: ErrNoRunningStatus, Track: t.index, Offset: statusOffset, Byte: status})
}

// parseMidiEvent reads the data bytes of a channel message. Under running
// status the byte already consumed as status is the first data byte.
func (t *trackReader) parseMidiEvent(delta uint32, status byte, statusOffset int64, running bool) error {
	var msg [3]byte
	n := midiEventLen(t.lastStatus)
	msg[0] = t.lastStatus

	next, dataOffset := 1, statusOffset+1
	if running {
		msg[1] = status
		next, dataOffset = 2, statusOffset
	}

	if err := t.read(msg[next:n]); err != nil {
		return t.mapErr(err)
	}
	if err := validate7Bit(t.index, dataOffset, msg[1:n]); err != nil {
		return t.mapErr(err)
	}
	return t.h.MidiEvent(delta, msg[:n])
}
