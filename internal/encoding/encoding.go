// Package encoding decodes record strings that are not valid UTF-8. rp66
// strings are nominally ASCII, but producers routinely write Latin-1 or
// other 8-bit code pages.
package encoding

import (
	"fmt"
	"strings"
	"unicode/utf8"

	xenc "golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
)

// UnknownEncodingError is returned for an encoding name neither the IANA
// nor the WHATWG index knows.
type UnknownEncodingError struct {
	Name string
}

func (e *UnknownEncodingError) Error() string {
	return fmt.Sprintf("unknown encoding %q\nHint: Use an IANA name such as latin1, cp1252 or koi8-r", e.Name)
}

// Decoder tries an ordered list of fallback encodings.
type Decoder struct {
	names     []string
	encodings []xenc.Encoding
}

// New resolves names into a decoder. An empty list yields a decoder that
// never decodes anything.
func New(names []string) (*Decoder, error) {
	d := &Decoder{}
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		enc, err := lookup(name)
		if err != nil {
			return nil, err
		}
		d.names = append(d.names, name)
		d.encodings = append(d.encodings, enc)
	}
	return d, nil
}

func lookup(name string) (xenc.Encoding, error) {
	if enc, err := ianaindex.IANA.Encoding(name); err == nil && enc != nil {
		return enc, nil
	}
	if enc, err := htmlindex.Get(name); err == nil {
		return enc, nil
	}
	return nil, &UnknownEncodingError{Name: name}
}

// Names returns the configured encoding names in trial order.
func (d *Decoder) Names() []string {
	out := make([]string, len(d.names))
	copy(out, d.names)
	return out
}

// Decode returns s unchanged when it is valid UTF-8. Otherwise it returns
// the first successful decoding, and the encoding used. When nothing
// decodes, s is returned as is with ok false.
func (d *Decoder) Decode(s string) (out, used string, ok bool) {
	if utf8.ValidString(s) {
		return s, "", true
	}
	for i, enc := range d.encodings {
		decoded, err := enc.NewDecoder().String(s)
		if err != nil || !utf8.ValidString(decoded) {
			continue
		}
		return decoded, d.names[i], true
	}
	return s, "", false
}
