package velocity

import "github.com/Garik-/humanize/pkg/midi"

// Note is a velocity carrying channel message.
type Note struct {
	MsgType  uint8
	Note     uint8
	Velocity uint8
}

// Collector is a midi.Handler that keeps the notes of every track.
type Collector struct {
	midi.NopHandler

	Division midi.Division
	Tracks   [][]Note
}

func (c *Collector) Header(_ midi.Format, tracks uint16, division midi.Division) error {
	c.Division = division
	c.Tracks = make([][]Note, 0, tracks)
	return nil
}

func (c *Collector) Track() error {
	c.Tracks = append(c.Tracks, nil)
	return nil
}

func (c *Collector) MidiEvent(_ uint32, data []byte) error {
	msgType, ok := MessageType(data[0])
	if !ok {
		return nil
	}

	i := len(c.Tracks) - 1
	c.Tracks[i] = append(c.Tracks[i], Note{MsgType: msgType, Note: data[1], Velocity: data[2]})
	return nil
}
