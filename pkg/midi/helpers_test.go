package midi

import (
	"bytes"
	"io"
	"io/ioutil"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

type event struct {
	kind  string
	delta uint32
	id    byte
	data  []byte
}

// recorder keeps every callback it receives.
type recorder struct {
	format   Format
	tracks   uint16
	division Division
	events   []event
}

func (r *recorder) Header(format Format, tracks uint16, division Division) error {
	r.format, r.tracks, r.division = format, tracks, division
	return nil
}

func (r *recorder) Track() error {
	r.events = append(r.events, event{kind: "track"})
	return nil
}

func (r *recorder) MidiEvent(delta uint32, data []byte) error {
	r.events = append(r.events, event{kind: "midi", delta: delta, data: append([]byte(nil), data...)})
	return nil
}

func (r *recorder) MetaEvent(delta uint32, id byte, data []byte) error {
	r.events = append(r.events, event{kind: "meta", delta: delta, id: id, data: data})
	return nil
}

func (r *recorder) EscapedEvent(delta uint32, data []byte) error {
	r.events = append(r.events, event{kind: "escaped", delta: delta, data: data})
	return nil
}

func (r *recorder) SysexEvent(delta uint32, data []byte) error {
	r.events = append(r.events, event{kind: "sysex", delta: delta, data: data})
	return nil
}

func createTmpFile(t *testing.T) *os.File {
	f, err := ioutil.TempFile("", "midi")
	require.NoError(t, err)
	return f
}

func removeTmpFile(f *os.File) {
	f.Close()
	os.Remove(f.Name())
}

func readAll(t *testing.T, f *os.File) []byte {
	_, err := f.Seek(0, io.SeekStart)
	require.NoError(t, err)
	b, err := ioutil.ReadAll(f)
	require.NoError(t, err)
	return b
}

// encode runs fn against a Writer backed by a temporary file and returns
// the bytes written.
func encode(t *testing.T, format Format, division Division, fn func(w *Writer)) []byte {
	f := createTmpFile(t)
	defer removeTmpFile(f)

	w, err := NewWriter(f, format, division)
	require.NoError(t, err)
	fn(w)
	require.NoError(t, w.Finish())

	return readAll(t, f)
}

func decode(t *testing.T, data []byte) *recorder {
	r := new(recorder)
	require.NoError(t, Read(bytes.NewReader(data), r))
	return r
}

// smf builds a file with a PPQN(96) header declaring one track per body.
func smf(tracks ...[]byte) []byte {
	buf := encodeHeader(Multiple, PPQN(96))
	buf[11] = byte(len(tracks))
	for _, body := range tracks {
		buf = append(buf, trackChunkID[:]...)
		buf = appendUint32(buf, uint32(len(body)))
		buf = append(buf, body...)
	}
	return buf
}

// eventsOffset is the stream offset of the first event of the first track
// in a file built by smf.
const eventsOffset = 14 + 8

func bytesReader(data []byte) *bytes.Reader {
	return bytes.NewReader(data)
}
