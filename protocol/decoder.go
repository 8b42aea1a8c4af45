package protocol

import (
	"encoding/xml"
	"errors"
	"io"
	"strings"
)

// rootElement wraps the stream so that bare sibling fragments form one
// document.
const rootElement = "root"

type EventKind int

const (
	StartElement EventKind = iota
	CharData
	EndElement
)

// Event is one element boundary or run of character data.
type Event struct {
	Kind  EventKind
	Name  string
	Attrs map[string]string
	Text  string
}

// Start is a shorthand for a start element event.
func Start(name string, attrs map[string]string) Event {
	return Event{Kind: StartElement, Name: name, Attrs: attrs}
}

// Chars is a shorthand for a character data event.
func Chars(text string) Event {
	return Event{Kind: CharData, Text: text}
}

// End is a shorthand for an end element event.
func End(name string) Event {
	return Event{Kind: EndElement, Name: name}
}

// trackingReader remembers the error of the underlying reader, which the xml
// decoder otherwise reports as a syntax error.
type trackingReader struct {
	r   io.Reader
	err error
}

func (t *trackingReader) Read(p []byte) (int, error) {
	n, err := t.r.Read(p)
	if err != nil {
		t.err = err
	}
	return n, err
}

// Decoder turns the byte stream of the game server into events. It reads
// from the underlying reader only when the bytes buffered so far contain no
// complete token, so an element split across reads is resumed with the next
// read instead of failing.
type Decoder struct {
	src   *trackingReader
	xml   *xml.Decoder
	depth int
}

func NewDecoder(r io.Reader) *Decoder {
	src := &trackingReader{r: r}
	return &Decoder{
		src: src,
		xml: xml.NewDecoder(io.MultiReader(strings.NewReader("<"+rootElement+">"), src)),
	}
}

// Next returns the next event. It returns ErrStreamClosed when the stream
// ends, the transport error if reading fails and a *ProtocolError for
// malformed XML.
func (d *Decoder) Next() (Event, error) {
	for {
		tok, err := d.xml.Token()
		if err != nil {
			return Event{}, d.translate(err)
		}

		switch tok := tok.(type) {
		case xml.StartElement:
			d.depth++
			if d.depth == 1 {
				continue
			}
			attrs := make(map[string]string, len(tok.Attr))
			for _, attr := range tok.Attr {
				attrs[attr.Name.Local] = attr.Value
			}
			return Start(tok.Name.Local, attrs), nil
		case xml.EndElement:
			d.depth--
			return End(tok.Name.Local), nil
		case xml.CharData:
			if d.depth <= 1 {
				continue
			}
			return Chars(string(tok)), nil
		}
	}
}

func (d *Decoder) translate(err error) error {
	switch {
	case d.src.err == nil:
		return violation("", "malformed XML", err)
	case errors.Is(d.src.err, io.EOF):
		return ErrStreamClosed
	default:
		return d.src.err
	}
}
