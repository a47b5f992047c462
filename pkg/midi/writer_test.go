package midi

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

func TestWriterScenario(t *testing.T) {
	data := encode(t, Multiple, PPQN(96), func(w *Writer) {
		tw, err := w.Track()
		require.NoError(t, err)
		require.NoError(t, tw.MidiEvent(0, []byte{0x90, 0x3C, 0x64}))
		require.NoError(t, tw.MidiEvent(96, []byte{0x80, 0x3C, 0x00}))
		require.NoError(t, tw.MetaEvent(0, 0x2F, nil))
		require.NoError(t, tw.Finish())
	})

	assert.Equal(t, []byte{
		'M', 'T', 'h', 'd', 0x00, 0x00, 0x00, 0x06,
		0x00, 0x01, 0x00, 0x01, 0x00, 0x60,
		'M', 'T', 'r', 'k', 0x00, 0x00, 0x00, 0x0C,
		0x00, 0x90, 0x3C, 0x64,
		0x60, 0x80, 0x3C, 0x00,
		0x00, 0xFF, 0x2F, 0x00,
	}, data)

	r := decode(t, data)
	assert.Equal(t, Multiple, r.format)
	assert.Equal(t, uint16(1), r.tracks)
	assert.Equal(t, PPQN(96), r.division)
	assert.Equal(t, []event{
		{kind: "track"},
		{kind: "midi", delta: 0, data: []byte{0x90, 0x3C, 0x64}},
		{kind: "midi", delta: 96, data: []byte{0x80, 0x3C, 0x00}},
		{kind: "meta", delta: 0, id: 0x2F, data: []byte{}},
	}, r.events)
}

func TestWriterRunningStatus(t *testing.T) {
	write := func(second byte) []byte {
		return encode(t, Single, PPQN(480), func(w *Writer) {
			tw, err := w.Track()
			require.NoError(t, err)
			require.NoError(t, tw.MidiEvent(0, []byte{0x90, 0x3C, 0x64}))
			require.NoError(t, tw.MidiEvent(0, []byte{second, 0x3E, 0x64}))
			require.NoError(t, tw.MidiEvent(0, []byte{second, 0x40, 0x64}))
			require.NoError(t, tw.Finish())
		})
	}

	same := write(0x90)
	differ := write(0x91)
	assert.Equal(t, len(differ)-1, len(same))
	assert.Equal(t, []byte{0x00, 0x90, 0x3C, 0x64, 0x00, 0x3E, 0x64, 0x00, 0x40, 0x64}, same[eventsOffset:])

	r := decode(t, same)
	require.Len(t, r.events, 4)
	assert.Equal(t, []byte{0x90, 0x3E, 0x64}, r.events[2].data)
	assert.Equal(t, []byte{0x90, 0x40, 0x64}, r.events[3].data)
}

func TestWriterRunningStatusBrokenByMeta(t *testing.T) {
	data := encode(t, Single, PPQN(480), func(w *Writer) {
		tw, err := w.Track()
		require.NoError(t, err)
		require.NoError(t, tw.MidiEvent(0, []byte{0xC0, 0x01}))
		require.NoError(t, tw.MetaEvent(0, 0x01, []byte("x")))
		require.NoError(t, tw.MidiEvent(0, []byte{0xC0, 0x02}))
		require.NoError(t, tw.Finish())
	})

	assert.Equal(t, []byte{
		0x00, 0xC0, 0x01,
		0x00, 0xFF, 0x01, 0x01, 'x',
		0x00, 0xC0, 0x02,
	}, data[eventsOffset:])
}

func TestWriterSysexContinuation(t *testing.T) {
	data := encode(t, Single, PPQN(480), func(w *Writer) {
		tw, err := w.Track()
		require.NoError(t, err)

		require.NoError(t, tw.SysexEvent(0, []byte{0xF0, 0x43, 0x12}))
		assert.True(t, tw.InSysex())
		require.NoError(t, tw.SysexEvent(200, []byte{0xF7, 0x00, 0x01, 0xF7}))
		assert.False(t, tw.InSysex())
		require.NoError(t, tw.EscapedEvent(0, []byte{0xFA}))
		require.NoError(t, tw.SysexEvent(0, []byte{0xF0, 0x7E, 0xF7}))
		assert.False(t, tw.InSysex())
		require.NoError(t, tw.Finish())
	})

	assert.Equal(t, []byte{
		0x00, 0xF0, 0x02, 0x43, 0x12,
		0x81, 0x48, 0xF7, 0x03, 0x00, 0x01, 0xF7,
		0x00, 0xF7, 0x01, 0xFA,
		0x00, 0xF0, 0x02, 0x7E, 0xF7,
	}, data[eventsOffset:])

	r := decode(t, data)
	assert.Equal(t, []event{
		{kind: "track"},
		{kind: "sysex", delta: 0, data: []byte{0x43, 0x12}},
		{kind: "sysex", delta: 200, data: []byte{0x00, 0x01, 0xF7}},
		{kind: "escaped", delta: 0, data: []byte{0xFA}},
		{kind: "sysex", delta: 0, data: []byte{0x7E, 0xF7}},
	}, r.events)
}

func TestWriterRoundTrip(t *testing.T) {
	tracks := [][]event{
		{
			{kind: "meta", delta: 0, id: 0x03, data: []byte("piano")},
			{kind: "meta", delta: 0, id: 0x51, data: []byte{0x07, 0xA1, 0x20}},
			{kind: "midi", delta: 0, data: []byte{0xB0, 0x07, 0x64}},
			{kind: "midi", delta: 0, data: []byte{0xB0, 0x0A, 0x40}},
			{kind: "midi", delta: 0x0FFFFFFF, data: []byte{0xE0, 0x00, 0x40}},
			{kind: "midi", delta: 0x4000, data: []byte{0xD0, 0x7F}},
			{kind: "sysex", delta: 1, data: []byte{0xF0, 0x01}},
			{kind: "sysex", delta: 1, data: []byte{0xF7, 0xF7}},
			{kind: "midi", delta: 0, data: []byte{0xD0, 0x00}},
			{kind: "escaped", delta: 0, data: []byte{0xF2, 0x10, 0x20}},
			{kind: "meta", delta: 0, id: 0x2F, data: []byte{}},
		},
		{},
		{
			{kind: "midi", delta: 12, data: []byte{0xA5, 0x30, 0x31}},
			{kind: "meta", delta: 0, id: 0x2F, data: []byte{}},
		},
	}

	data := encode(t, Sequential, SMPTE(30, 80), func(w *Writer) {
		for _, events := range tracks {
			tw, err := w.Track()
			require.NoError(t, err)
			for _, e := range events {
				switch e.kind {
				case "midi":
					err = tw.MidiEvent(e.delta, e.data)
				case "meta":
					err = tw.MetaEvent(e.delta, e.id, e.data)
				case "escaped":
					err = tw.EscapedEvent(e.delta, e.data)
				case "sysex":
					err = tw.SysexEvent(e.delta, e.data)
				}
				require.NoError(t, err)
			}
			require.NoError(t, tw.Finish())
		}
	})

	r := decode(t, data)
	assert.Equal(t, Sequential, r.format)
	assert.Equal(t, uint16(len(tracks)), r.tracks)
	assert.Equal(t, SMPTE(30, 80), r.division)

	var want []event
	for _, events := range tracks {
		want = append(want, event{kind: "track"})
		for _, e := range events {
			if e.kind == "sysex" {
				e.data = e.data[1:] // the reader reports the payload only
			}
			want = append(want, e)
		}
	}
	assert.Equal(t, want, r.events)
}

func TestWriterEmptyTrack(t *testing.T) {
	data := encode(t, Multiple, PPQN(96), func(w *Writer) {
		for i := 0; i < 3; i++ {
			tw, err := w.Track()
			require.NoError(t, err)
			require.NoError(t, tw.Finish())
		}
	})

	assert.Equal(t, []byte{0x00, 0x03}, data[10:12])
	assert.Len(t, data, 14+3*8)

	r := decode(t, data)
	assert.Equal(t, []event{{kind: "track"}, {kind: "track"}, {kind: "track"}}, r.events)
}

func TestWriterNoTracks(t *testing.T) {
	data := encode(t, Single, PPQN(96), func(w *Writer) {})
	assert.Equal(t, []byte{0x00, 0x00}, data[10:12])
	assert.Len(t, data, 14)
}

func TestWriterAtOffset(t *testing.T) {
	EnableDebugLogging(zaptest.NewLogger(t))
	defer EnableDebugLogging(zap.NewNop())

	f := createTmpFile(t)
	defer removeTmpFile(f)

	_, err := f.Write([]byte("junk"))
	require.NoError(t, err)

	w, err := NewWriter(f, Multiple, PPQN(480))
	require.NoError(t, err)
	for i := 0; i < 2; i++ {
		tw, err := w.Track()
		require.NoError(t, err)
		require.NoError(t, tw.MidiEvent(0, []byte{0x90, byte(60 + i), 0x40}))
		require.NoError(t, tw.Finish())
	}
	require.NoError(t, w.Finish())

	pos, err := f.Seek(0, io.SeekCurrent)
	require.NoError(t, err)
	assert.Equal(t, int64(4+14+2*(8+4)), pos)

	_, err = f.Seek(4, io.SeekStart)
	require.NoError(t, err)

	r := new(recorder)
	require.NoError(t, Read(f, r))
	assert.Equal(t, uint16(2), r.tracks)
	assert.Equal(t, []event{
		{kind: "track"},
		{kind: "midi", data: []byte{0x90, 60, 0x40}},
		{kind: "track"},
		{kind: "midi", data: []byte{0x90, 61, 0x40}},
	}, r.events)
}

func TestWriterContract(t *testing.T) {
	f := createTmpFile(t)
	defer removeTmpFile(f)

	w, err := NewWriter(f, Single, PPQN(96))
	require.NoError(t, err)
	tw, err := w.Track()
	require.NoError(t, err)

	assert.Panics(t, func() { w.Track() })
	assert.Panics(t, func() { w.Finish() })
	assert.Panics(t, func() { tw.MidiEvent(0, []byte{0x3C, 0x64}) })
	assert.Panics(t, func() { tw.MidiEvent(0, []byte{0xF0, 0x64}) })
	assert.Panics(t, func() { tw.MidiEvent(0, []byte{0x90, 0x3C}) })
	assert.Panics(t, func() { tw.MidiEvent(0, []byte{0xC0, 0x3C, 0x00}) })
	assert.Panics(t, func() { tw.MidiEvent(0, []byte{0x90, 0x3C, 0x80}) })
	assert.Panics(t, func() { tw.MetaEvent(0, 0x80, nil) })
	assert.Panics(t, func() { tw.SysexEvent(0, []byte{0xF7, 0x01}) })
	assert.Panics(t, func() { tw.SysexEvent(0, []byte{0x90, 0x01}) })
	assert.Panics(t, func() { tw.SysexEvent(0, []byte{0xF0, 0x80, 0xF7}) })
	assert.Panics(t, func() { tw.MidiEvent(MaxVLQ+1, []byte{0x90, 0x3C, 0x00}) })

	require.NoError(t, tw.SysexEvent(0, []byte{0xF0, 0x01}))
	assert.Panics(t, func() { tw.MidiEvent(0, []byte{0x90, 0x3C, 0x64}) })
	assert.Panics(t, func() { tw.MetaEvent(0, 0x2F, nil) })
	assert.Panics(t, func() { tw.EscapedEvent(0, []byte{0x01}) })
	assert.Panics(t, func() { tw.SysexEvent(0, []byte{0xF0, 0x01}) })
	require.NoError(t, tw.SysexEvent(0, []byte{0xF7, 0xF7}))

	require.NoError(t, tw.Finish())
	assert.Panics(t, func() { tw.MetaEvent(0, 0x2F, nil) })
	assert.Panics(t, func() { tw.Finish() })

	require.NoError(t, w.Finish())
	assert.Panics(t, func() { w.Track() })
}
