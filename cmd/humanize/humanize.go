package main

import (
	"io"
	"math/rand"

	"github.com/Garik-/humanize/pkg/midi"
	"github.com/Garik-/humanize/pkg/velocity"
	"go.uber.org/zap"
)

// humanizer copies every decoded event to a midi.Writer, replacing known
// note velocities with random velocities from the database.
type humanizer struct {
	out   io.WriteSeeker
	w     *midi.Writer
	track *midi.TrackWriter

	db       velocity.Database
	rng      *rand.Rand
	min, max int

	log     *zap.Logger
	changed int
}

func newHumanizer(out io.WriteSeeker, db velocity.Database, rng *rand.Rand, min, max int) *humanizer {
	return &humanizer{out: out, db: db, rng: rng, min: min, max: max, log: humanizeLog}
}

func (h *humanizer) Header(format midi.Format, tracks uint16, division midi.Division) error {
	w, err := midi.NewWriter(h.out, format, division)
	if err != nil {
		return err
	}
	h.w = w
	h.log.Debug("header", zap.Uint16("tracks", tracks), zap.Stringer("division", division))
	return nil
}

func (h *humanizer) Track() error {
	if err := h.finishTrack(); err != nil {
		return err
	}

	track, err := h.w.Track()
	if err != nil {
		return err
	}
	h.track = track
	return nil
}

func (h *humanizer) MidiEvent(delta uint32, data []byte) error {
	msgType, ok := velocity.MessageType(data[0])
	if !ok || data[2] == 0 {
		return h.track.MidiEvent(delta, data)
	}

	v, ok := h.db.Pick(h.rng, data[1], msgType, h.min, h.max)
	if !ok {
		return h.track.MidiEvent(delta, data)
	}

	h.log.Debug("velocity",
		zap.Uint8("note", data[1]),
		zap.Uint8("type", msgType),
		zap.Uint8("from", data[2]),
		zap.Uint8("to", v))

	h.changed++
	return h.track.MidiEvent(delta, []byte{data[0], data[1], v})
}

func (h *humanizer) MetaEvent(delta uint32, id byte, data []byte) error {
	return h.track.MetaEvent(delta, id, data)
}

func (h *humanizer) EscapedEvent(delta uint32, data []byte) error {
	return h.track.EscapedEvent(delta, data)
}

// SysexEvent restores the packet prefix the decoder strips: 0xF0 starts a
// message, 0xF7 continues an open one.
func (h *humanizer) SysexEvent(delta uint32, data []byte) error {
	prefix := byte(0xF0)
	if h.track.InSysex() {
		prefix = 0xF7
	}
	return h.track.SysexEvent(delta, append([]byte{prefix}, data...))
}

func (h *humanizer) finishTrack() error {
	if h.track == nil {
		return nil
	}
	track := h.track
	h.track = nil
	return track.Finish()
}

// Finish completes the last track and the file header.
func (h *humanizer) Finish() error {
	if err := h.finishTrack(); err != nil {
		return err
	}
	return h.w.Finish()
}

// humanize decodes in and writes the humanized copy to out.
func humanize(in io.ReadSeeker, out io.WriteSeeker, db velocity.Database, rng *rand.Rand, min, max int) (int, error) {
	h := newHumanizer(out, db, rng, min, max)
	if err := midi.Read(in, h); err != nil {
		return 0, err
	}
	if err := h.Finish(); err != nil {
		return 0, err
	}
	return h.changed, nil
}
