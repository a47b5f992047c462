package midi

import (
	"fmt"
	"io"
)

// MaxVLQ is the largest value a variable length quantity can carry.
const MaxVLQ = 0x0FFFFFFF

const maxVLQLen = 4

// DecodeVLQ decodes the variable length quantity at the start of buf and
// returns it with the number of bytes consumed.
func DecodeVLQ(buf []byte) (x uint32, n int, err error) {
	for _, b := range buf {
		x = x<<7 | uint32(b&0x7F)
		n++
		if b&0x80 == 0 {
			return x, n, nil
		}
		if n == maxVLQLen {
			return 0, n, &DecodeError{Err: ErrVLQTooLong, Track: -1, Offset: int64(n - 1), Byte: b}
		}
	}
	return 0, n, io.ErrUnexpectedEOF
}

// AppendVLQ appends the encoding of v to dst. v must not exceed MaxVLQ.
func AppendVLQ(dst []byte, v uint32) []byte {
	if v > MaxVLQ {
		panic(fmt.Sprintf("midi: vlq value %#x out of range", v))
	}

	switch {
	case v > 0x1FFFFF:
		return append(dst, vlqGroup(v, 3), vlqGroup(v, 2), vlqGroup(v, 1), vlqGroup(v, 0))
	case v > 0x3FFF:
		return append(dst, vlqGroup(v, 2), vlqGroup(v, 1), vlqGroup(v, 0))
	case v > 0x7F:
		return append(dst, vlqGroup(v, 1), vlqGroup(v, 0))
	}
	return append(dst, vlqGroup(v, 0))
}

// vlqGroup returns the n-th 7-bit group of v, continuation bit set on all
// but the least significant group.
func vlqGroup(v uint32, n uint) byte {
	b := byte(v>>(7*n)) & 0x7F
	if n > 0 {
		b |= 0x80
	}
	return b
}
