package midi

import (
	"encoding/binary"
	"io"
)

// read fills p and advances offset.
func (d *Decoder) read(p []byte) error {
	n, err := io.ReadFull(d.r, p)
	d.offset += int64(n)
	return err
}

func (d *Decoder) readByte() (byte, error) {
	var b [1]byte
	err := d.read(b[:])
	return b[0], err
}

// readVLQ returns the variable length value at the exact parser location.
func (d *Decoder) readVLQ(track int) (uint32, error) {
	var val uint32
	for n := 1; ; n++ {
		b, err := d.readByte()
		if err != nil {
			return 0, err
		}
		val = val<<7 | uint32(b&0x7F)
		if b&0x80 == 0 {
			return val, nil
		}
		if n == maxVLQLen {
			return 0, &DecodeError{Err: ErrVLQTooLong, Track: track, Offset: d.offset - 1, Byte: b}
		}
	}
}

// readPayload reads a VLQ length followed by that many bytes. It returns
// the payload and the stream offset of its first byte.
func (d *Decoder) readPayload(track int) ([]byte, int64, error) {
	n, err := d.readVLQ(track)
	if err != nil {
		return nil, 0, err
	}
	start := d.offset
	data := make([]byte, n)
	if err := d.read(data); err != nil {
		return nil, 0, err
	}
	return data, start, nil
}

// IDnSize reads a chunk header: the 4 byte chunk type and its length.
func (d *Decoder) IDnSize() ([4]byte, uint32, error) {
	var chunk struct {
		ID   [4]byte
		Size uint32
	}
	if err := binary.Read(d.r, binary.BigEndian, &chunk); err != nil {
		return chunk.ID, 0, err
	}
	d.offset += 8 // [4]byte ID + uint32 size

	return chunk.ID, chunk.Size, nil
}
