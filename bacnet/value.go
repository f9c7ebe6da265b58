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
	"math"
)

// Enumerated marks an unsigned value carried with the Enumerated tag
type Enumerated uint32

// DecodeApplicationValue decodes any application-tagged primitive. The
// dynamic type of the value is:
//
//	Null             nil
//	Boolean          bool
//	Unsigned         uint64
//	Signed           int32
//	Real             float32
//	Double           float64
//	OctetString      []byte
//	CharacterString  CharacterString
//	BitString        BitString
//	Enumerated       Enumerated
//	Date             Date
//	Time             Time
//	ObjectIdentifier ObjectIdentifier
func DecodeApplicationValue(buf []byte) (any, int, error) {
	tag, n, err := DecodeTag(buf)
	if err != nil {
		return nil, 0, err
	}
	if tag.Opening || tag.Closing || tag.Class != TagClassApplication {
		return nil, 0, NewDecodeError(0, fmt.Sprintf("%s tag %d is not an application value", tag.Class, tag.Number), ErrUnexpectedTag)
	}
	content := buf[n : n+int(tag.ContentLength())]
	v, err := DecodeApplicationContent(tag, content)
	if err != nil {
		return nil, 0, shiftOffset(err, n)
	}
	return v, n + len(content), nil
}

// DecodeApplicationContent decodes the content of an application tag
// already located by DecodeTag or Walk.
func DecodeApplicationContent(tag Tag, content []byte) (any, error) {
	var (
		v   any
		err error
	)
	lv := tag.LenValueType

	switch ApplicationTag(tag.Number) {
	case TagNull:
		_, _, err = decodeNullValue(content, lv)
	case TagBoolean:
		v = lv != 0
	case TagUnsignedInt:
		v, _, err = DecodeUnsignedValue(content, lv)
	case TagSignedInt:
		v, _, err = DecodeSignedValue(content, lv)
	case TagReal:
		v, _, err = DecodeRealValue(content, lv)
	case TagDouble:
		v, _, err = DecodeDoubleValue(content, lv)
	case TagOctetString:
		v, _, err = DecodeOctetStringValue(content, lv)
	case TagCharacterString:
		v, _, err = DecodeCharacterStringValue(content, lv)
	case TagBitString:
		v, _, err = DecodeBitStringValue(content, lv)
	case TagEnumerated:
		var e uint32
		e, _, err = DecodeEnumeratedValue(content, lv)
		v = Enumerated(e)
	case TagDate:
		v, _, err = DecodeDateValue(content, lv)
	case TagTime:
		v, _, err = DecodeTimeValue(content, lv)
	case TagObjectID:
		v, _, err = DecodeObjectIdentifierValue(content, lv)
	default:
		return nil, NewDecodeError(0, fmt.Sprintf("reserved application tag %d", tag.Number), ErrMalformedTag)
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

// EncodeApplicationValue encodes a Go value as an application-tagged
// primitive. It accepts the types returned by DecodeApplicationValue plus
// the other Go integer widths and string (encoded as UTF-8). Non-negative
// int values encode as Unsigned, negative ones as Signed.
func EncodeApplicationValue(buf []byte, value any) (int, error) {
	var n int

	switch v := value.(type) {
	case nil:
		n = EncodeApplicationNull(buf)
	case bool:
		n = EncodeApplicationBoolean(buf, v)
	case uint:
		n = EncodeApplicationUnsigned(buf, uint64(v))
	case uint8:
		n = EncodeApplicationUnsigned(buf, uint64(v))
	case uint16:
		n = EncodeApplicationUnsigned(buf, uint64(v))
	case uint32:
		n = EncodeApplicationUnsigned(buf, uint64(v))
	case uint64:
		n = EncodeApplicationUnsigned(buf, v)
	case int:
		if v >= 0 {
			n = EncodeApplicationUnsigned(buf, uint64(v))
			break
		}
		if v < math.MinInt32 {
			return 0, fmt.Errorf("%w: %d does not fit a signed integer", ErrValueOutOfRange, v)
		}
		n = EncodeApplicationSigned(buf, int32(v))
	case int8:
		n = EncodeApplicationSigned(buf, int32(v))
	case int16:
		n = EncodeApplicationSigned(buf, int32(v))
	case int32:
		n = EncodeApplicationSigned(buf, v)
	case int64:
		if v < math.MinInt32 || v > math.MaxInt32 {
			return 0, fmt.Errorf("%w: %d does not fit a signed integer", ErrValueOutOfRange, v)
		}
		n = EncodeApplicationSigned(buf, int32(v))
	case float32:
		n = EncodeApplicationReal(buf, v)
	case float64:
		n = EncodeApplicationDouble(buf, v)
	case []byte:
		n = EncodeApplicationOctetString(buf, v)
	case string:
		n = EncodeApplicationCharacterString(buf, CharacterString{Encoding: CharacterSetUTF8, Value: []byte(v)})
	case CharacterString:
		n = EncodeApplicationCharacterString(buf, v)
	case BitString:
		if !v.Valid() {
			return 0, fmt.Errorf("%w: bit string length %d with %d octets", ErrValueOutOfRange, v.Length, len(v.Bytes))
		}
		n = EncodeApplicationBitString(buf, v)
	case Enumerated:
		n = EncodeApplicationEnumerated(buf, uint32(v))
	case Date:
		n = EncodeApplicationDate(buf, v)
	case Time:
		n = EncodeApplicationTime(buf, v)
	case ObjectIdentifier:
		n = EncodeApplicationObjectIdentifier(buf, v)
	default:
		return 0, fmt.Errorf("%w: %T", ErrUnsupportedValue, value)
	}

	if n == 0 {
		return 0, fmt.Errorf("%w: %T needs more than %d octets", ErrBufferOverrun, value, len(buf))
	}
	return n, nil
}

// WalkFunc is called by Walk for every tag at offset in the walked buffer.
// Depth counts the enclosing opening tags; an opening tag and its closing
// tag share a depth. Content aliases the walked buffer and is empty for
// opening and closing tags.
type WalkFunc func(offset, depth int, tag Tag, content []byte) error

// Walk visits every tag in buf in order. It stops at the first error
// returned by fn. A closing tag that does not match the innermost opening
// tag is ErrUnexpectedTag; an opening tag left open at the end of buf is
// ErrBufferOverrun.
func Walk(buf []byte, fn WalkFunc) error {
	var open []uint8
	off := 0

	for off < len(buf) {
		tag, n, err := DecodeTag(buf[off:])
		if err != nil {
			return shiftOffset(err, off)
		}

		switch {
		case tag.Opening:
			if err := fn(off, len(open), tag, nil); err != nil {
				return err
			}
			open = append(open, tag.Number)
			off += n
			continue

		case tag.Closing:
			if len(open) == 0 {
				return NewDecodeError(off, fmt.Sprintf("closing tag %d without opening tag", tag.Number), ErrUnexpectedTag)
			}
			if open[len(open)-1] != tag.Number {
				return &TagMismatchError{
					Offset:         off,
					ExpectedClass:  TagClassContext,
					ExpectedNumber: open[len(open)-1],
					ActualClass:    tag.Class,
					ActualNumber:   tag.Number,
				}
			}
			open = open[:len(open)-1]
			if err := fn(off, len(open), tag, nil); err != nil {
				return err
			}
			off += n
			continue
		}

		end := off + n + int(tag.ContentLength())
		if err := fn(off, len(open), tag, buf[off+n:end]); err != nil {
			return err
		}
		off = end
	}

	if len(open) > 0 {
		return NewDecodeError(off, fmt.Sprintf("opening tag %d not closed", open[len(open)-1]), ErrBufferOverrun)
	}
	return nil
}
