package main

import (
	"fmt"
	"io"

	"github.com/Garik-/humanize/pkg/midi"
)

// dumper prints one line per decoded callback.
type dumper struct {
	w     io.Writer
	track int
	tick  uint64
	err   error
}

func (d *dumper) printf(format string, args ...interface{}) error {
	if d.err != nil {
		return d.err
	}
	_, d.err = fmt.Fprintf(d.w, format, args...)
	return d.err
}

func (d *dumper) Header(format midi.Format, tracks uint16, division midi.Division) error {
	return d.printf("header format=%s tracks=%d division=%s\n", format, tracks, division)
}

func (d *dumper) Track() error {
	d.track++
	d.tick = 0
	return d.printf("track %d\n", d.track-1)
}

func (d *dumper) event(delta uint32, kind string, format string, args ...interface{}) error {
	d.tick += uint64(delta)
	return d.printf("  %8d %-7s "+format+"\n", append([]interface{}{d.tick, kind}, args...)...)
}

func (d *dumper) MidiEvent(delta uint32, data []byte) error {
	return d.event(delta, "midi", "ch=%d % X", data[0]&0x0F+1, data)
}

func (d *dumper) MetaEvent(delta uint32, id byte, data []byte) error {
	return d.event(delta, "meta", "id=0x%02X len=%d % X", id, len(data), data)
}

func (d *dumper) EscapedEvent(delta uint32, data []byte) error {
	return d.event(delta, "escaped", "len=%d % X", len(data), data)
}

func (d *dumper) SysexEvent(delta uint32, data []byte) error {
	return d.event(delta, "sysex", "len=%d % X", len(data), data)
}
