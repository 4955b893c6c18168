// Package codec selects the text encoding used for script string pools.
//
// Codecs are looked up by WHATWG label first ("shift_jis", "gbk", "big5",
// "utf-8", ...) and by IANA name second, both through golang.org/x/text.
package codec

import (
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/japanese"

	"github.com/wippyai/tactics-script/errors"
)

// DefaultName is the encoding the game ships its scripts in.
const DefaultName = "shift_jis"

// Codec converts between pool bytes and Go strings.
type Codec struct {
	enc  encoding.Encoding
	name string
}

// New wraps an x/text encoding under the given name.
func New(name string, enc encoding.Encoding) *Codec {
	return &Codec{name: name, enc: enc}
}

// Default returns the Shift-JIS codec.
func Default() *Codec {
	return New(DefaultName, japanese.ShiftJIS)
}

// Lookup resolves an encoding name.
func Lookup(name string) (*Codec, error) {
	key := strings.TrimSpace(name)
	if key == "" {
		return nil, errors.UnsupportedCodec(name, nil)
	}

	enc, err := htmlindex.Get(key)
	if err == nil {
		return New(key, enc), nil
	}

	enc, ierr := ianaindex.IANA.Encoding(key)
	if ierr == nil && enc != nil {
		return New(key, enc), nil
	}
	if ierr == nil {
		// Known IANA name without an implementation.
		ierr = err
	}
	return nil, errors.UnsupportedCodec(name, ierr)
}

// Name returns the name the codec was looked up by.
func (c *Codec) Name() string {
	return c.name
}

// Decode converts encoded bytes to a string. Byte sequences the encoding
// cannot map are replaced with U+FFFD.
func (c *Codec) Decode(b []byte) (string, error) {
	if len(b) == 0 {
		return "", nil
	}
	out, err := c.enc.NewDecoder().Bytes(b)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// Encode converts a string to encoded bytes. Runes the encoding cannot
// represent are an error.
func (c *Codec) Encode(s string) ([]byte, error) {
	if s == "" {
		return nil, nil
	}
	return c.enc.NewEncoder().Bytes([]byte(s))
}
