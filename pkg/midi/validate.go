package midi

import "fmt"

// validate7Bit reports the first byte of data with its high bit set.
// offset is the stream offset of data[0].
func validate7Bit(track int, offset int64, data []byte) error {
	for i, b := range data {
		if b&0x80 != 0 {
			return &DecodeError{Err: ErrInvalidByte, Track: track, Offset: offset + int64(i), Byte: b}
		}
	}
	return nil
}

func must7Bit(data []byte) {
	for i, b := range data {
		if b&0x80 != 0 {
			panic(fmt.Sprintf("midi: data byte 0x%02X with high bit set at index %d", b, i))
		}
	}
}

func sysexTerminated(data []byte) bool {
	return len(data) > 0 && data[len(data)-1] == 0xF7
}

// sysexBody strips the terminating 0xF7, the only byte of a sysex packet
// allowed to have its high bit set.
func sysexBody(data []byte) []byte {
	if sysexTerminated(data) {
		return data[:len(data)-1]
	}
	return data
}
