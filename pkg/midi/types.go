package midi

import "fmt"

// Format is the SMF file type stored in the header chunk.
type Format uint16

const (
	// Single is a type 0 file: one multi-channel track.
	Single Format = iota
	// Multiple is a type 1 file: simultaneous tracks.
	Multiple
	// Sequential is a type 2 file: independent single-track patterns.
	Sequential
)

func (f Format) String() string {
	switch f {
	case Single:
		return "single"
	case Multiple:
		return "multiple"
	case Sequential:
		return "sequential"
	}
	return fmt.Sprintf("Format(%d)", uint16(f))
}

// Division is the meaning of delta-times: either ticks per quarter note or
// SMPTE frames per second with ticks per frame.
type Division struct {
	Ticks         uint16
	FPS           uint8
	TicksPerFrame uint8
}

func PPQN(ticks uint16) Division {
	return Division{Ticks: ticks}
}

func SMPTE(fps, tpf uint8) Division {
	return Division{FPS: fps, TicksPerFrame: tpf}
}

func (d Division) IsSMPTE() bool {
	return d.FPS != 0
}

func (d Division) String() string {
	if d.IsSMPTE() {
		return fmt.Sprintf("smpte %d fps, %d ticks per frame", d.FPS, d.TicksPerFrame)
	}
	return fmt.Sprintf("%d ticks per quarter note", d.Ticks)
}

func validSMPTEFPS(fps uint8) bool {
	switch fps {
	case 24, 25, 29, 30:
		return true
	}
	return false
}

// midiEventLen returns the length of a channel message including its status.
func midiEventLen(status byte) int {
	switch status & 0xF0 {
	case 0xC0, 0xD0:
		return 2
	}
	return 3
}

func isVoiceStatus(b byte) bool {
	return 0x80 <= b && b < 0xF0
}
