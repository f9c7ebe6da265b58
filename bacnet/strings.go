// Copyright 2025 Edgeo SCADA
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package bacnet

import (
	"fmt"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
)

// CharacterSet is the encoding selector octet of a CharacterString
type CharacterSet uint8

const (
	CharacterSetUTF8      CharacterSet = 0
	CharacterSetDBCS      CharacterSet = 1
	CharacterSetJISX0208  CharacterSet = 2
	CharacterSetUCS4      CharacterSet = 3
	CharacterSetUCS2      CharacterSet = 4
	CharacterSetISO8859_1 CharacterSet = 5
)

func (c CharacterSet) String() string {
	switch c {
	case CharacterSetUTF8:
		return "utf-8"
	case CharacterSetDBCS:
		return "dbcs"
	case CharacterSetJISX0208:
		return "jis-x-0208"
	case CharacterSetUCS4:
		return "ucs-4"
	case CharacterSetUCS2:
		return "ucs-2"
	case CharacterSetISO8859_1:
		return "iso-8859-1"
	default:
		return fmt.Sprintf("charset(%d)", uint8(c))
	}
}

// ParseCharacterSet parses the names printed by String
func ParseCharacterSet(s string) (CharacterSet, bool) {
	for c := CharacterSetUTF8; c <= CharacterSetISO8859_1; c++ {
		if c.String() == s {
			return c, true
		}
	}
	return 0, false
}

func (c CharacterSet) encoding() (encoding.Encoding, error) {
	switch c {
	case CharacterSetUTF8:
		return unicode.UTF8, nil
	case CharacterSetUCS2:
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM), nil
	case CharacterSetUCS4:
		return utf32.UTF32(utf32.BigEndian, utf32.IgnoreBOM), nil
	case CharacterSetISO8859_1:
		return charmap.ISO8859_1, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedCharacterSet, c)
	}
}

// CharacterString is a BACnet CharacterString: the encoding selector and
// the encoded octets.
type CharacterString struct {
	Encoding CharacterSet
	Value    []byte
}

// NewCharacterString converts s into the given character set
func NewCharacterString(s string, cs CharacterSet) (CharacterString, error) {
	enc, err := cs.encoding()
	if err != nil {
		return CharacterString{}, err
	}
	value, err := enc.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return CharacterString{}, fmt.Errorf("%w: %q is not representable in %s: %v", ErrValueOutOfRange, s, cs, err)
	}
	return CharacterString{Encoding: cs, Value: value}, nil
}

// Text converts the string to UTF-8
func (c CharacterString) Text() (string, error) {
	enc, err := c.Encoding.encoding()
	if err != nil {
		return "", err
	}
	text, err := enc.NewDecoder().Bytes(c.Value)
	if err != nil {
		return "", fmt.Errorf("bacnet: decoding %s string: %w", c.Encoding, err)
	}
	return string(text), nil
}

func (c CharacterString) String() string {
	if text, err := c.Text(); err == nil {
		return text
	}
	return fmt.Sprintf("%s:%x", c.Encoding, c.Value)
}

// Octet string

// EncodeOctetString copies value into buf
func EncodeOctetString(buf []byte, value []byte) int {
	if buf == nil {
		return len(value)
	}
	if len(buf) < len(value) {
		return 0
	}
	return copy(buf, value)
}

// EncodeApplicationOctetString encodes an application-tagged OctetString
func EncodeApplicationOctetString(buf []byte, value []byte) int {
	return encodeTagged(buf, uint8(TagOctetString), false, len(value), func(b []byte) int { return EncodeOctetString(b, value) })
}

// EncodeContextOctetString encodes a context-tagged OctetString
func EncodeContextOctetString(buf []byte, tagNumber uint8, value []byte) int {
	return encodeTagged(buf, tagNumber, true, len(value), func(b []byte) int { return EncodeOctetString(b, value) })
}

// DecodeOctetStringValue decodes OctetString content into a new slice
func DecodeOctetStringValue(buf []byte, lenValue uint32) ([]byte, int, error) {
	if err := checkContent(buf, lenValue); err != nil {
		return nil, 0, err
	}
	value := make([]byte, lenValue)
	copy(value, buf)
	return value, int(lenValue), nil
}

// DecodeApplicationOctetString decodes an application-tagged OctetString
func DecodeApplicationOctetString(buf []byte) ([]byte, int, error) {
	return decodeApplication(buf, TagOctetString, DecodeOctetStringValue)
}

// DecodeContextOctetString decodes a context-tagged OctetString
func DecodeContextOctetString(buf []byte, tagNumber uint8) ([]byte, int, error) {
	return decodeContext(buf, tagNumber, DecodeOctetStringValue)
}

// Character string

// EncodeCharacterString encodes the selector octet followed by the value
func EncodeCharacterString(buf []byte, value CharacterString) int {
	n := 1 + len(value.Value)
	if buf == nil {
		return n
	}
	if len(buf) < n {
		return 0
	}
	buf[0] = byte(value.Encoding)
	copy(buf[1:], value.Value)
	return n
}

// EncodeCharacterStringSafe encodes a character string only if it fits in
// maxLen octets, and returns 0 otherwise.
func EncodeCharacterStringSafe(buf []byte, maxLen int, cs CharacterSet, value []byte) int {
	if 1+len(value) > maxLen {
		return 0
	}
	return EncodeCharacterString(buf, CharacterString{Encoding: cs, Value: value})
}

// EncodeApplicationCharacterString encodes an application-tagged CharacterString
func EncodeApplicationCharacterString(buf []byte, value CharacterString) int {
	return encodeTagged(buf, uint8(TagCharacterString), false, 1+len(value.Value), func(b []byte) int { return EncodeCharacterString(b, value) })
}

// EncodeContextCharacterString encodes a context-tagged CharacterString
func EncodeContextCharacterString(buf []byte, tagNumber uint8, value CharacterString) int {
	return encodeTagged(buf, tagNumber, true, 1+len(value.Value), func(b []byte) int { return EncodeCharacterString(b, value) })
}

// DecodeCharacterStringValue decodes CharacterString content. The
// selector octet is mandatory; a selector alone is an empty string.
func DecodeCharacterStringValue(buf []byte, lenValue uint32) (CharacterString, int, error) {
	if lenValue == 0 {
		return CharacterString{}, 0, NewDecodeError(0, "character string without encoding octet", ErrMalformedTag)
	}
	if err := checkContent(buf, lenValue); err != nil {
		return CharacterString{}, 0, err
	}
	value := make([]byte, lenValue-1)
	copy(value, buf[1:lenValue])
	return CharacterString{Encoding: CharacterSet(buf[0]), Value: value}, int(lenValue), nil
}

// DecodeApplicationCharacterString decodes an application-tagged CharacterString
func DecodeApplicationCharacterString(buf []byte) (CharacterString, int, error) {
	return decodeApplication(buf, TagCharacterString, DecodeCharacterStringValue)
}

// DecodeContextCharacterString decodes a context-tagged CharacterString
func DecodeContextCharacterString(buf []byte, tagNumber uint8) (CharacterString, int, error) {
	return decodeContext(buf, tagNumber, DecodeCharacterStringValue)
}
