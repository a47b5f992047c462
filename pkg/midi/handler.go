package midi

// Handler receives the decoded contents of a midi file in stream order.
// Header is called once, then Track once per track chunk followed by the
// track's events. Returning a non-nil error aborts decoding and the error
// is returned from Decode unchanged.
//
// The data slice passed to MidiEvent is only valid for the duration of the
// call. Payloads passed to the other event methods are freshly allocated and
// may be retained.
type Handler interface {
	Header(format Format, tracks uint16, division Division) error
	Track() error
	MidiEvent(delta uint32, data []byte) error
	MetaEvent(delta uint32, id byte, data []byte) error
	EscapedEvent(delta uint32, data []byte) error
	SysexEvent(delta uint32, data []byte) error
}

// ErrorMapper is implemented by handlers that convert errors raised by the
// decoder itself (transport failures and malformed data) into their own
// error representation.
type ErrorMapper interface {
	MapError(err error) error
}

// NopHandler ignores every callback. Embed it to implement only the
// callbacks of interest.
type NopHandler struct{}

func (NopHandler) Header(Format, uint16, Division) error { return nil }
func (NopHandler) Track() error                           { return nil }
func (NopHandler) MidiEvent(uint32, []byte) error         { return nil }
func (NopHandler) MetaEvent(uint32, byte, []byte) error   { return nil }
func (NopHandler) EscapedEvent(uint32, []byte) error      { return nil }
func (NopHandler) SysexEvent(uint32, []byte) error        { return nil }
