// Package bitplane pulls a single bit-plane out of a byte sequence and
// decodes it as 8-bit aligned text.
//
// The same decoder serves both image channel bytes and raw WAV sample bytes.
// Only the source bytes and the post-processing policy differ.
package bitplane

import (
	"bytes"
	"strings"
	"unicode"

	"github.com/icza/bitio"
	"golang.org/x/text/encoding/charmap"
)

// Selector picks the bit taken from every source byte
type Selector int

const (
	// LSB selects bit 0
	LSB Selector = iota
	// MSB selects bit 7
	MSB
)

// String returns the plane name
func (s Selector) String() string {
	if s == MSB {
		return "MSB"
	}
	return "LSB"
}

func (s Selector) shift() uint {
	if s == MSB {
		return 7
	}
	return 0
}

// Policy controls what happens to decoded characters
type Policy struct {
	// Printable drops every non-printable character and trims surrounding whitespace
	Printable bool
}

var (
	// ImagePolicy is applied to text decoded from pixel channels
	ImagePolicy = Policy{Printable: true}
	// AudioPolicy is applied to text decoded from WAV sample bytes
	AudioPolicy = Policy{Printable: false}
)

// Text is the decoded result of one bit-plane
type Text struct {
	Value   string `json:"value"`
	Bits    int    `json:"bits"`    // bits collected from the source
	Bytes   int    `json:"bytes"`   // complete bytes formed from those bits
	Dropped int    `json:"dropped"` // characters removed by the printable filter
}

// Empty reports whether nothing survived decoding
func (t Text) Empty() bool {
	return t.Value == ""
}

// Or returns the decoded value, or placeholder when it is empty
func (t Text) Or(placeholder string) string {
	if t.Empty() {
		return placeholder
	}
	return t.Value
}

// Bits selects one bit from each source byte, in order, stopping after maxBits.
// A maxBits of zero or less consumes the whole source.
func Bits(source []byte, sel Selector, maxBits int) []byte {
	n := len(source)
	if maxBits > 0 && maxBits < n {
		n = maxBits
	}

	shift := sel.shift()
	bits := make([]byte, n)
	for i := 0; i < n; i++ {
		bits[i] = (source[i] >> shift) & 1
	}
	return bits
}

// Pack groups bits into bytes, most significant bit first.
// A trailing group shorter than 8 bits is dropped.
func Pack(bits []byte) []byte {
	whole := len(bits) / 8 * 8

	var buf bytes.Buffer
	buf.Grow(whole / 8)

	w := bitio.NewWriter(&buf)
	for _, bit := range bits[:whole] {
		// bytes.Buffer writes cannot fail
		_ = w.WriteBool(bit&1 == 1)
	}
	_ = w.Close()

	return buf.Bytes()
}

// Decode extracts the selected bit-plane from source and decodes it as text.
// Each complete byte maps to the ISO-8859-1 character with the same code.
func Decode(source []byte, sel Selector, maxBits int, policy Policy) Text {
	bits := Bits(source, sel, maxBits)
	raw := Pack(bits)

	text := Text{
		Bits:  len(bits),
		Bytes: len(raw),
	}

	var sb strings.Builder
	sb.Grow(len(raw))
	for _, b := range raw {
		r := charmap.ISO8859_1.DecodeByte(b)
		if policy.Printable && !unicode.IsPrint(r) {
			text.Dropped++
			continue
		}
		sb.WriteRune(r)
	}

	text.Value = sb.String()
	if policy.Printable {
		text.Value = strings.TrimSpace(text.Value)
	}
	return text
}
