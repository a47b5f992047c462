package midi

import (
	"fmt"
	"io"
	"math"

	"go.uber.org/zap"
)

// Writer encodes a Standard MIDI File to a seekable stream. Tracks are
// written one at a time: Track returns a TrackWriter that must be finished
// before the next track is started or the Writer is finished.
//
// Passing events that violate the format (bad status bytes, wrong message
// lengths, high bits in data bytes, events inside an open sysex) is a
// programming error and panics. Errors returned are transport failures.
type Writer struct {
	w      io.WriteSeeker
	offset int64

	trackCountOffset int64
	trackCount       uint16
	track            *TrackWriter
	finished         bool

	buf []byte
}

// NewWriter writes the header chunk at the current position of w. The
// track count is written as 0 and patched by Finish.
func NewWriter(w io.WriteSeeker, format Format, division Division) (*Writer, error) {
	if format > Sequential {
		panic(fmt.Sprintf("midi: bad format %d", format))
	}

	offset, err := w.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, err
	}

	wr := &Writer{w: w, offset: offset, trackCountOffset: offset + 10}
	if err := wr.write(encodeHeader(format, division)); err != nil {
		return nil, err
	}

	writerLog.Debug("header", zap.Stringer("format", format), zap.Stringer("division", division))

	return wr, nil
}

func (w *Writer) write(p []byte) error {
	n, err := w.w.Write(p)
	w.offset += int64(n)
	return err
}

// patch overwrites the bytes at offset and returns to the end of the
// written data.
func (w *Writer) patch(offset int64, p []byte) error {
	if _, err := w.w.Seek(offset, io.SeekStart); err != nil {
		return err
	}
	if _, err := w.w.Write(p); err != nil {
		return err
	}
	_, err := w.w.Seek(w.offset, io.SeekStart)
	return err
}

// Track starts a new track chunk.
func (w *Writer) Track() (*TrackWriter, error) {
	if w.finished {
		panic("midi: track started on finished writer")
	}
	if w.track != nil {
		panic("midi: track started before previous track was finished")
	}
	if w.trackCount == math.MaxUint16 {
		panic("midi: too many tracks")
	}

	lengthOffset := w.offset + 4
	if err := w.write(append(trackChunkID[:], 0, 0, 0, 0)); err != nil {
		return nil, err
	}

	w.track = &TrackWriter{w: w, index: int(w.trackCount), lengthOffset: lengthOffset}
	w.trackCount++
	return w.track, nil
}

// Finish writes the final track count into the header.
func (w *Writer) Finish() error {
	if w.track != nil {
		panic("midi: writer finished before its last track")
	}
	w.finished = true

	if w.trackCount == 0 {
		return nil
	}

	writerLog.Debug("finish", zap.Uint16("tracks", w.trackCount), zap.Int64("offset", w.offset))
	return w.patch(w.trackCountOffset, appendUint16(nil, w.trackCount))
}

// TrackWriter encodes the events of one track. It compresses consecutive
// channel messages sharing a status byte with running status.
type TrackWriter struct {
	w            *Writer
	index        int
	lengthOffset int64

	lastStatus        byte
	sysexContinuation bool
}

func (t *TrackWriter) checkOpen() {
	if t.w.track != t {
		panic("midi: use of finished track")
	}
}

func (t *TrackWriter) checkNoSysex(kind string) {
	if t.sysexContinuation {
		panic("midi: " + kind + " inside an unterminated sysex")
	}
}

// InSysex reports whether the last sysex packet left the message open, in
// which case the next event must be a 0xF7 continuation packet.
func (t *TrackWriter) InSysex() bool {
	return t.sysexContinuation
}

// event writes delta, prefix and, when withLength is set, the VLQ length
// of data, followed by data.
func (t *TrackWriter) event(delta uint32, prefix []byte, withLength bool, data []byte) error {
	buf := AppendVLQ(t.w.buf[:0], delta)
	buf = append(buf, prefix...)
	if withLength {
		if uint64(len(data)) > MaxVLQ {
			panic(fmt.Sprintf("midi: payload of %d bytes too long", len(data)))
		}
		buf = AppendVLQ(buf, uint32(len(data)))
	}
	t.w.buf = buf

	if err := t.w.write(buf); err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}
	return t.w.write(data)
}

// MidiEvent writes a channel message. data holds the status byte followed
// by one or two data bytes. The status byte is omitted when it equals the
// status of the previous message.
func (t *TrackWriter) MidiEvent(delta uint32, data []byte) error {
	t.checkOpen()
	t.checkNoSysex("channel message")
	if len(data) == 0 || !isVoiceStatus(data[0]) {
		panic(fmt.Sprintf("midi: bad channel message % X", data))
	}
	if len(data) != midiEventLen(data[0]) {
		panic(fmt.Sprintf("midi: channel message % X has wrong length", data))
	}
	must7Bit(data[1:])

	if data[0] == t.lastStatus {
		return t.event(delta, nil, false, data[1:])
	}
	t.lastStatus = data[0]
	return t.event(delta, nil, false, data)
}

// MetaEvent writes a meta event with the given type id.
func (t *TrackWriter) MetaEvent(delta uint32, id byte, data []byte) error {
	t.checkOpen()
	t.checkNoSysex("meta event")
	if id&0x80 != 0 {
		panic(fmt.Sprintf("midi: bad meta event id 0x%02X", id))
	}

	t.lastStatus = 0
	return t.event(delta, []byte{statusMeta, id}, true, data)
}

// EscapedEvent writes data verbatim behind a 0xF7 prefix.
func (t *TrackWriter) EscapedEvent(delta uint32, data []byte) error {
	t.checkOpen()
	t.checkNoSysex("escaped event")

	t.lastStatus = 0
	return t.event(delta, []byte{statusEscape}, true, data)
}

// SysexEvent writes a sysex packet. data[0] is 0xF0 to start a message or
// 0xF7 to continue an open one; the rest is the packet payload. A payload
// that does not end in 0xF7 leaves the message open.
func (t *TrackWriter) SysexEvent(delta uint32, data []byte) error {
	t.checkOpen()
	if len(data) == 0 {
		panic("midi: empty sysex packet")
	}

	switch status := data[0]; status {
	case statusSysex:
		t.checkNoSysex("sysex start")
	case statusEscape:
		if !t.sysexContinuation {
			panic("midi: sysex continuation without an open sysex")
		}
	default:
		panic(fmt.Sprintf("midi: bad sysex prefix 0x%02X", status))
	}

	payload := data[1:]
	must7Bit(sysexBody(payload))

	t.sysexContinuation = !sysexTerminated(payload)
	t.lastStatus = 0
	return t.event(delta, data[:1], true, payload)
}

// Finish patches the track chunk length.
func (t *TrackWriter) Finish() error {
	t.checkOpen()
	t.w.track = nil

	length := t.w.offset - (t.lengthOffset + 4)
	if length > math.MaxUint32 {
		panic(fmt.Sprintf("midi: track of %d bytes too long", length))
	}

	writerLog.Debug("track finished", zap.Int("track", t.index), zap.Int64("length", length))

	if length == 0 {
		return nil
	}
	return t.w.patch(t.lengthOffset, appendUint32(nil, uint32(length)))
}
