package midi

import (
	"encoding/binary"
	"fmt"
)

const headerLen = 6

var (
	headerChunkID = [4]byte{0x4D, 0x54, 0x68, 0x64}
	trackChunkID  = [4]byte{0x4D, 0x54, 0x72, 0x6B}
)

type header struct {
	format   Format
	tracks   uint16
	division Division
}

func (d *Decoder) readHeader() (header, error) {
	var raw struct {
		ID       [4]byte
		Length   uint32
		Format   uint16
		Tracks   uint16
		Division uint16
	}
	if err := binary.Read(d.r, binary.BigEndian, &raw); err != nil {
		return header{}, err
	}
	d.offset += int64(binary.Size(raw))

	if raw.ID != headerChunkID {
		return header{}, fmt.Errorf("%w: expected %q, got %q", ErrBadMagic, headerChunkID[:], raw.ID[:])
	}

	if raw.Length != headerLen {
		return header{}, fmt.Errorf("%w: expected %d, got %d", ErrBadHeaderLength, headerLen, raw.Length)
	}

	if Format(raw.Format) > Sequential {
		return header{}, fmt.Errorf("%w: %d", ErrBadFormat, raw.Format)
	}

	division, err := decodeDivision(raw.Division)
	if err != nil {
		return header{}, err
	}

	return header{format: Format(raw.Format), tracks: raw.Tracks, division: division}, nil
}

// readTrackHeader consumes a track chunk header and returns the offset of
// the track's end.
func (d *Decoder) readTrackHeader() (int64, error) {
	id, size, err := d.IDnSize()
	if err != nil {
		return 0, err
	}
	if id != trackChunkID {
		return 0, fmt.Errorf("%w: expected %q, got %q", ErrBadMagic, trackChunkID[:], id[:])
	}
	return d.offset + int64(size), nil
}

func decodeDivision(v uint16) (Division, error) {
	if int16(v) >= 0 {
		return PPQN(v), nil
	}

	fps := uint8(-int8(v >> 8))
	if !validSMPTEFPS(fps) {
		return Division{}, fmt.Errorf("%w: %#02x", ErrBadSMPTEFPS, byte(v>>8))
	}
	return SMPTE(fps, uint8(v)), nil
}

func encodeDivision(d Division) uint16 {
	if !d.IsSMPTE() {
		if d.Ticks&0x8000 != 0 {
			panic(fmt.Sprintf("midi: ppqn division %d out of range", d.Ticks))
		}
		return d.Ticks
	}

	if !validSMPTEFPS(d.FPS) {
		panic(fmt.Sprintf("midi: bad smpte frame rate %d", d.FPS))
	}
	return uint16(int16(-int8(d.FPS))<<8) + uint16(d.TicksPerFrame)
}

func encodeHeader(format Format, division Division) []byte {
	buf := make([]byte, 0, 8+headerLen)
	buf = append(buf, headerChunkID[:]...)
	buf = appendUint32(buf, headerLen)
	buf = appendUint16(buf, uint16(format))
	buf = appendUint16(buf, 0) // track count, patched by Writer.Finish
	buf = appendUint16(buf, encodeDivision(division))
	return buf
}

func appendUint16(b []byte, v uint16) []byte {
	return append(b, byte(v>>8), byte(v))
}

func appendUint32(b []byte, v uint32) []byte {
	return append(b, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
}
