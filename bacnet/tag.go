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
	"encoding/binary"
)

// Tag header layout (clause 20.2.1)
const (
	// MaxTagNumber is the largest encodable tag number.
	MaxTagNumber = 254
	// ReservedTagNumber may not appear as an extended tag number.
	ReservedTagNumber = 255

	extendedTagNumber = 0x0F
	contextSpecificBit = 0x08

	lvtMaxInline = 4
	lvtExtended  = 5
	lvtOpening   = 6
	lvtClosing   = 7

	extendedLength8Max = 253
	extendedLength16   = 254
	extendedLength32   = 255
)

// Tag is a decoded tag header.
type Tag struct {
	Number uint8
	Class  TagClass
	// LenValueType is the content length, or for an application-tagged
	// boolean the value itself. Zero for opening and closing tags.
	LenValueType uint32
	Opening      bool
	Closing      bool
}

// IsContextSpecific reports whether the tag is context-specific.
func (t Tag) IsContextSpecific() bool {
	return t.Class == TagClassContext
}

// IsOpening reports whether the tag opens constructed data.
func (t Tag) IsOpening() bool {
	return t.Opening
}

// IsClosing reports whether the tag closes constructed data.
func (t Tag) IsClosing() bool {
	return t.Closing
}

// IsExtendedNumber reports whether the tag number needs the extra octet.
func (t Tag) IsExtendedNumber() bool {
	return t.Number >= extendedTagNumber
}

// Matches reports whether the tag has the given class and number.
func (t Tag) Matches(class TagClass, number uint8) bool {
	return t.Class == class && t.Number == number
}

// ContentLength is the number of content octets following the header.
func (t Tag) ContentLength() uint32 {
	if t.Opening || t.Closing {
		return 0
	}
	if t.Class == TagClassApplication && t.Number == uint8(TagBoolean) {
		return 0
	}
	return t.LenValueType
}

// Application reports whether the tag is the application tag for typ.
func (t Tag) Application(typ ApplicationTag) bool {
	return !t.Opening && !t.Closing && t.Matches(TagClassApplication, uint8(typ))
}

// EncodeTag encodes a tag header using the shortest form for tagNumber and
// lenValueType and returns its length. It returns 0 without writing when
// tagNumber is reserved or buf is too small.
func EncodeTag(buf []byte, tagNumber uint8, contextSpecific bool, lenValueType uint32) int {
	if tagNumber == ReservedTagNumber {
		return 0
	}

	n := 1
	if tagNumber >= extendedTagNumber {
		n++
	}
	// Extended length per ASHRAE 135 clause 20.2.1.3.1: one octet up to
	// 253, marker 254 plus 2 octets up to 65535, else marker 255 plus 4.
	switch {
	case lenValueType <= lvtMaxInline:
	case lenValueType <= extendedLength8Max:
		n++
	case lenValueType <= 0xFFFF:
		n += 3
	default:
		n += 5
	}

	if buf == nil {
		return n
	}
	if len(buf) < n {
		return 0
	}

	var first byte
	if contextSpecific {
		first = contextSpecificBit
	}

	i := 1
	if tagNumber < extendedTagNumber {
		first |= tagNumber << 4
	} else {
		first |= extendedTagNumber << 4
		buf[i] = tagNumber
		i++
	}

	if lenValueType <= lvtMaxInline {
		first |= byte(lenValueType)
	} else {
		first |= lvtExtended
		switch {
		case lenValueType <= extendedLength8Max:
			buf[i] = byte(lenValueType)
		case lenValueType <= 0xFFFF:
			buf[i] = extendedLength16
			binary.BigEndian.PutUint16(buf[i+1:], uint16(lenValueType))
		default:
			buf[i] = extendedLength32
			binary.BigEndian.PutUint32(buf[i+1:], lenValueType)
		}
	}

	buf[0] = first
	return n
}

// EncodeOpeningTag encodes an opening tag for constructed data
func EncodeOpeningTag(buf []byte, tagNumber uint8) int {
	return encodeConstructedTag(buf, tagNumber, lvtOpening)
}

// EncodeClosingTag encodes a closing tag for constructed data
func EncodeClosingTag(buf []byte, tagNumber uint8) int {
	return encodeConstructedTag(buf, tagNumber, lvtClosing)
}

func encodeConstructedTag(buf []byte, tagNumber uint8, lvt byte) int {
	if tagNumber == ReservedTagNumber {
		return 0
	}
	n := 1
	if tagNumber >= extendedTagNumber {
		n = 2
	}
	if buf == nil {
		return n
	}
	if len(buf) < n {
		return 0
	}
	if n == 1 {
		buf[0] = tagNumber<<4 | contextSpecificBit | lvt
	} else {
		buf[0] = extendedTagNumber<<4 | contextSpecificBit | lvt
		buf[1] = tagNumber
	}
	return n
}

// encodeTagFor writes the header for a primitive of contentLen octets and
// returns the header length, or 0 when the whole encoding does not fit.
func encodeTagFor(buf []byte, tagNumber uint8, contextSpecific bool, contentLen int) int {
	h := EncodeTag(nil, tagNumber, contextSpecific, uint32(contentLen))
	if h == 0 {
		return 0
	}
	if buf == nil {
		return h
	}
	if len(buf) < h+contentLen {
		return 0
	}
	return EncodeTag(buf, tagNumber, contextSpecific, uint32(contentLen))
}

// DecodeTagNumber decodes the class bit and tag number of the header at
// buf[0], including the extended tag number octet.
func DecodeTagNumber(buf []byte) (uint8, int, error) {
	if len(buf) < 1 {
		return 0, 0, NewDecodeError(0, "cannot read tag", ErrBufferOverrun)
	}
	number := buf[0] >> 4
	if number != extendedTagNumber {
		return number, 1, nil
	}
	if len(buf) < 2 {
		return 0, 0, NewDecodeError(1, "truncated extended tag number", ErrBufferOverrun)
	}
	if buf[1] == ReservedTagNumber {
		return 0, 0, NewDecodeError(1, "reserved tag number 255", ErrMalformedTag)
	}
	return buf[1], 2, nil
}

// decodeTagHeader decodes the header without checking that the content
// it announces is present.
func decodeTagHeader(buf []byte) (Tag, int, error) {
	number, n, err := DecodeTagNumber(buf)
	if err != nil {
		return Tag{}, 0, err
	}

	tag := Tag{
		Number: number,
		Class:  TagClass((buf[0] & contextSpecificBit) >> 3),
	}
	lvt := buf[0] & 0x07

	switch lvt {
	case lvtOpening, lvtClosing:
		if tag.Class != TagClassContext {
			return Tag{}, 0, NewDecodeError(0, "application tag with constructed marker", ErrMalformedTag)
		}
		tag.Opening = lvt == lvtOpening
		tag.Closing = lvt == lvtClosing
		return tag, n, nil

	case lvtExtended:
		if len(buf) < n+1 {
			return Tag{}, 0, NewDecodeError(n, "truncated extended length", ErrBufferOverrun)
		}
		switch marker := buf[n]; marker {
		case extendedLength16:
			if len(buf) < n+3 {
				return Tag{}, 0, NewDecodeError(n, "truncated 16-bit extended length", ErrBufferOverrun)
			}
			tag.LenValueType = uint32(binary.BigEndian.Uint16(buf[n+1:]))
			n += 3
		case extendedLength32:
			if len(buf) < n+5 {
				return Tag{}, 0, NewDecodeError(n, "truncated 32-bit extended length", ErrBufferOverrun)
			}
			tag.LenValueType = binary.BigEndian.Uint32(buf[n+1:])
			n += 5
		default:
			tag.LenValueType = uint32(marker)
			n++
		}

	default:
		tag.LenValueType = uint32(lvt)
	}

	return tag, n, nil
}

// DecodeTag decodes the tag header at buf[0]. It fails with
// ErrBufferOverrun when the header or the content it declares extends
// past len(buf), and with ErrMalformedTag for reserved encodings.
func DecodeTag(buf []byte) (Tag, int, error) {
	tag, n, err := decodeTagHeader(buf)
	if err != nil {
		return Tag{}, 0, err
	}
	if uint64(n)+uint64(tag.ContentLength()) > uint64(len(buf)) {
		return Tag{}, 0, NewDecodeError(n, "content length exceeds buffer", ErrBufferOverrun)
	}
	return tag, n, nil
}

// decodeExpectedTag decodes a primitive tag and checks its class and number.
func decodeExpectedTag(buf []byte, class TagClass, number uint8) (Tag, int, error) {
	tag, n, err := DecodeTag(buf)
	if err != nil {
		return Tag{}, 0, err
	}
	if tag.Opening || tag.Closing || !tag.Matches(class, number) {
		return Tag{}, 0, &TagMismatchError{
			ExpectedClass:  class,
			ExpectedNumber: number,
			ActualClass:    tag.Class,
			ActualNumber:   tag.Number,
		}
	}
	return tag, n, nil
}

// IsOpeningTag reports whether buf starts with an opening tag.
func IsOpeningTag(buf []byte) bool {
	tag, _, err := decodeTagHeader(buf)
	return err == nil && tag.Opening
}

// IsClosingTag reports whether buf starts with a closing tag.
func IsClosingTag(buf []byte) bool {
	tag, _, err := decodeTagHeader(buf)
	return err == nil && tag.Closing
}

// IsContextSpecific reports whether buf starts with a context-specific tag.
func IsContextSpecific(buf []byte) bool {
	return len(buf) > 0 && buf[0]&contextSpecificBit != 0
}

// IsOpeningTagNumber reports whether buf starts with opening tag n.
func IsOpeningTagNumber(buf []byte, tagNumber uint8) bool {
	tag, _, err := decodeTagHeader(buf)
	return err == nil && tag.Opening && tag.Number == tagNumber
}

// IsClosingTagNumber reports whether buf starts with closing tag n.
func IsClosingTagNumber(buf []byte, tagNumber uint8) bool {
	tag, _, err := decodeTagHeader(buf)
	return err == nil && tag.Closing && tag.Number == tagNumber
}

// IsContextTag reports whether buf starts with a primitive context tag
// with the given number.
func IsContextTag(buf []byte, tagNumber uint8) bool {
	_, ok := IsContextTagWithLength(buf, tagNumber)
	return ok
}

// IsContextTagWithLength is IsContextTag that also returns the header length.
func IsContextTagWithLength(buf []byte, tagNumber uint8) (int, bool) {
	tag, n, err := decodeTagHeader(buf)
	if err != nil || tag.Opening || tag.Closing || !tag.Matches(TagClassContext, tagNumber) {
		return 0, false
	}
	return n, true
}

// ExpectOpeningTag consumes opening tag n.
func ExpectOpeningTag(buf []byte, tagNumber uint8) (int, error) {
	return expectConstructedTag(buf, tagNumber, true)
}

// ExpectClosingTag consumes closing tag n.
func ExpectClosingTag(buf []byte, tagNumber uint8) (int, error) {
	return expectConstructedTag(buf, tagNumber, false)
}

func expectConstructedTag(buf []byte, tagNumber uint8, opening bool) (int, error) {
	tag, n, err := decodeTagHeader(buf)
	if err != nil {
		return 0, err
	}
	matched := tag.Opening
	if !opening {
		matched = tag.Closing
	}
	if !matched || tag.Number != tagNumber {
		return 0, &TagMismatchError{
			ExpectedClass:  TagClassContext,
			ExpectedNumber: tagNumber,
			ActualClass:    tag.Class,
			ActualNumber:   tag.Number,
		}
	}
	return n, nil
}
