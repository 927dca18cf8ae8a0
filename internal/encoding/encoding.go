// Package encoding maps "=encoding" declarations onto byte codecs. Output
// written to the filesystem is encoded per the source's declaration; sources
// without one use the raw pass-through codec.
package encoding

import (
	"fmt"
	"strings"

	xenc "golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
)

// Codec converts between UTF-8 text and one declared byte encoding.
type Codec struct {
	name string
	enc  xenc.Encoding
}

// Raw passes bytes through unchanged. It is the codec for sources that
// declare no encoding.
var Raw = Codec{name: "raw"}

// aliases maps the encoding names POD authors actually write onto their IANA
// registry names.
var aliases = map[string]string{
	"utf8":    "utf-8",
	"latin1":  "iso-8859-1",
	"latin-1": "iso-8859-1",
}

// Lookup resolves a declared encoding name to a Codec. Empty and "raw"
// resolve to Raw; anything else must be ianaindex-resolvable.
func Lookup(name string) (Codec, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	if normalized == "" || normalized == "raw" {
		return Raw, nil
	}
	if alias, ok := aliases[normalized]; ok {
		normalized = alias
	}
	enc, err := ianaindex.IANA.Encoding(normalized)
	if err != nil || enc == nil {
		return Codec{}, fmt.Errorf("unsupported encoding %q", name)
	}
	return Codec{name: normalized, enc: enc}, nil
}

// Name returns the resolved encoding name.
func (c Codec) Name() string { return c.name }

// IsRaw reports whether the codec is the pass-through.
func (c Codec) IsRaw() bool { return c.enc == nil }

// Encode converts UTF-8 text into the codec's byte representation. Runes the
// target cannot represent get the encoding's substitute character rather
// than failing the whole artifact.
func (c Codec) Encode(text string) ([]byte, error) {
	if c.enc == nil {
		return []byte(text), nil
	}
	out, err := xenc.ReplaceUnsupported(c.enc.NewEncoder()).Bytes([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("encode as %s: %w", c.name, err)
	}
	return out, nil
}

// Decode converts bytes in the codec's encoding into UTF-8 text.
func (c Codec) Decode(data []byte) (string, error) {
	if c.enc == nil {
		return string(data), nil
	}
	out, err := c.enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("decode from %s: %w", c.name, err)
	}
	return string(out), nil
}
