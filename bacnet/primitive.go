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
	"fmt"
	"math"
)

// valueDecoder decodes lenValue content octets at the start of buf.
type valueDecoder[T any] func(buf []byte, lenValue uint32) (T, int, error)

// encodeTagged writes a tag header followed by contentLen octets produced
// by put. It returns 0 when the encoding does not fit in buf.
func encodeTagged(buf []byte, tagNumber uint8, contextSpecific bool, contentLen int, put func([]byte) int) int {
	h := encodeTagFor(buf, tagNumber, contextSpecific, contentLen)
	if h == 0 {
		return 0
	}
	if buf != nil {
		put(buf[h:])
	}
	return h + contentLen
}

// decodeTagged decodes a primitive with the given tag and hands its
// content to decode.
func decodeTagged[T any](buf []byte, class TagClass, tagNumber uint8, decode valueDecoder[T]) (T, int, error) {
	var zero T
	tag, n, err := decodeExpectedTag(buf, class, tagNumber)
	if err != nil {
		return zero, 0, err
	}
	v, m, err := decode(buf[n:], tag.LenValueType)
	if err != nil {
		return zero, 0, shiftOffset(err, n)
	}
	return v, n + m, nil
}

func decodeApplication[T any](buf []byte, typ ApplicationTag, decode valueDecoder[T]) (T, int, error) {
	return decodeTagged(buf, TagClassApplication, uint8(typ), decode)
}

func decodeContext[T any](buf []byte, tagNumber uint8, decode valueDecoder[T]) (T, int, error) {
	return decodeTagged(buf, TagClassContext, tagNumber, decode)
}

// shiftOffset rebases the offset of a decode error by n octets.
func shiftOffset(err error, n int) error {
	switch e := err.(type) {
	case *DecodeError:
		return &DecodeError{Offset: e.Offset + n, Message: e.Message, Err: e.Err}
	case *TagMismatchError:
		shifted := *e
		shifted.Offset += n
		return &shifted
	default:
		return err
	}
}

// checkContent verifies that lenValue content octets are available.
func checkContent(buf []byte, lenValue uint32) error {
	if uint64(lenValue) > uint64(len(buf)) {
		return NewDecodeError(0, fmt.Sprintf("content length %d exceeds %d octets", lenValue, len(buf)), ErrBufferOverrun)
	}
	return nil
}

// checkFixedContent verifies that the content is exactly size octets long.
func checkFixedContent(buf []byte, lenValue uint32, size int, what string) error {
	if lenValue != uint32(size) {
		return NewDecodeError(0, fmt.Sprintf("%s length %d, want %d", what, lenValue, size), ErrMalformedTag)
	}
	return checkContent(buf, lenValue)
}

// Null

// EncodeApplicationNull encodes an application-tagged null
func EncodeApplicationNull(buf []byte) int {
	return EncodeTag(buf, uint8(TagNull), false, 0)
}

// EncodeContextNull encodes a context-tagged null
func EncodeContextNull(buf []byte, tagNumber uint8) int {
	return EncodeTag(buf, tagNumber, true, 0)
}

func decodeNullValue(_ []byte, lenValue uint32) (struct{}, int, error) {
	if lenValue != 0 {
		return struct{}{}, 0, NewDecodeError(0, fmt.Sprintf("null with length %d", lenValue), ErrMalformedTag)
	}
	return struct{}{}, 0, nil
}

// DecodeApplicationNull decodes an application-tagged null
func DecodeApplicationNull(buf []byte) (int, error) {
	_, n, err := decodeApplication(buf, TagNull, decodeNullValue)
	return n, err
}

// DecodeContextNull decodes a context-tagged null
func DecodeContextNull(buf []byte, tagNumber uint8) (int, error) {
	_, n, err := decodeContext(buf, tagNumber, decodeNullValue)
	return n, err
}

// Boolean

// EncodeBoolean encodes the single content octet of a context-tagged boolean
func EncodeBoolean(buf []byte, value bool) int {
	if buf == nil {
		return 1
	}
	if len(buf) < 1 {
		return 0
	}
	buf[0] = 0
	if value {
		buf[0] = 1
	}
	return 1
}

// EncodeApplicationBoolean encodes an application-tagged boolean. The value
// lives in the tag's length field, so there is no content octet.
func EncodeApplicationBoolean(buf []byte, value bool) int {
	var v uint32
	if value {
		v = 1
	}
	return EncodeTag(buf, uint8(TagBoolean), false, v)
}

// EncodeContextBoolean encodes a context-tagged boolean
func EncodeContextBoolean(buf []byte, tagNumber uint8, value bool) int {
	return encodeTagged(buf, tagNumber, true, 1, func(b []byte) int { return EncodeBoolean(b, value) })
}

// DecodeBooleanValue decodes the content octet of a context-tagged boolean
func DecodeBooleanValue(buf []byte, lenValue uint32) (bool, int, error) {
	if err := checkFixedContent(buf, lenValue, 1, "boolean"); err != nil {
		return false, 0, err
	}
	return buf[0] != 0, 1, nil
}

// DecodeApplicationBoolean decodes an application-tagged boolean. Any
// nonzero length field reads as true.
func DecodeApplicationBoolean(buf []byte) (bool, int, error) {
	tag, n, err := decodeExpectedTag(buf, TagClassApplication, uint8(TagBoolean))
	if err != nil {
		return false, 0, err
	}
	return tag.LenValueType != 0, n, nil
}

// DecodeContextBoolean decodes a context-tagged boolean
func DecodeContextBoolean(buf []byte, tagNumber uint8) (bool, int, error) {
	return decodeContext(buf, tagNumber, DecodeBooleanValue)
}

// Real

// EncodeReal encodes a REAL as 4 octets of IEEE-754 single precision
func EncodeReal(buf []byte, value float32) int {
	if buf == nil {
		return 4
	}
	if len(buf) < 4 {
		return 0
	}
	binary.BigEndian.PutUint32(buf, math.Float32bits(value))
	return 4
}

// EncodeApplicationReal encodes an application-tagged REAL
func EncodeApplicationReal(buf []byte, value float32) int {
	return encodeTagged(buf, uint8(TagReal), false, 4, func(b []byte) int { return EncodeReal(b, value) })
}

// EncodeContextReal encodes a context-tagged REAL
func EncodeContextReal(buf []byte, tagNumber uint8, value float32) int {
	return encodeTagged(buf, tagNumber, true, 4, func(b []byte) int { return EncodeReal(b, value) })
}

// DecodeRealValue decodes REAL content
func DecodeRealValue(buf []byte, lenValue uint32) (float32, int, error) {
	if err := checkFixedContent(buf, lenValue, 4, "real"); err != nil {
		return 0, 0, err
	}
	return math.Float32frombits(binary.BigEndian.Uint32(buf)), 4, nil
}

// DecodeApplicationReal decodes an application-tagged REAL
func DecodeApplicationReal(buf []byte) (float32, int, error) {
	return decodeApplication(buf, TagReal, DecodeRealValue)
}

// DecodeContextReal decodes a context-tagged REAL
func DecodeContextReal(buf []byte, tagNumber uint8) (float32, int, error) {
	return decodeContext(buf, tagNumber, DecodeRealValue)
}

// Double

// EncodeDouble encodes a Double as 8 octets of IEEE-754 double precision
func EncodeDouble(buf []byte, value float64) int {
	if buf == nil {
		return 8
	}
	if len(buf) < 8 {
		return 0
	}
	binary.BigEndian.PutUint64(buf, math.Float64bits(value))
	return 8
}

// EncodeApplicationDouble encodes an application-tagged Double
func EncodeApplicationDouble(buf []byte, value float64) int {
	return encodeTagged(buf, uint8(TagDouble), false, 8, func(b []byte) int { return EncodeDouble(b, value) })
}

// EncodeContextDouble encodes a context-tagged Double
func EncodeContextDouble(buf []byte, tagNumber uint8, value float64) int {
	return encodeTagged(buf, tagNumber, true, 8, func(b []byte) int { return EncodeDouble(b, value) })
}

// DecodeDoubleValue decodes Double content
func DecodeDoubleValue(buf []byte, lenValue uint32) (float64, int, error) {
	if err := checkFixedContent(buf, lenValue, 8, "double"); err != nil {
		return 0, 0, err
	}
	return math.Float64frombits(binary.BigEndian.Uint64(buf)), 8, nil
}

// DecodeApplicationDouble decodes an application-tagged Double
func DecodeApplicationDouble(buf []byte) (float64, int, error) {
	return decodeApplication(buf, TagDouble, DecodeDoubleValue)
}

// DecodeContextDouble decodes a context-tagged Double
func DecodeContextDouble(buf []byte, tagNumber uint8) (float64, int, error) {
	return decodeContext(buf, tagNumber, DecodeDoubleValue)
}

// Object identifier

// EncodeObjectIdentifier encodes an object identifier as 4 octets
func EncodeObjectIdentifier(buf []byte, oid ObjectIdentifier) int {
	if buf == nil {
		return 4
	}
	if len(buf) < 4 {
		return 0
	}
	binary.BigEndian.PutUint32(buf, oid.Uint32())
	return 4
}

// EncodeApplicationObjectIdentifier encodes an application-tagged object identifier
func EncodeApplicationObjectIdentifier(buf []byte, oid ObjectIdentifier) int {
	return encodeTagged(buf, uint8(TagObjectID), false, 4, func(b []byte) int { return EncodeObjectIdentifier(b, oid) })
}

// EncodeContextObjectIdentifier encodes a context-tagged object identifier
func EncodeContextObjectIdentifier(buf []byte, tagNumber uint8, oid ObjectIdentifier) int {
	return encodeTagged(buf, tagNumber, true, 4, func(b []byte) int { return EncodeObjectIdentifier(b, oid) })
}

// DecodeObjectIdentifierValue decodes object identifier content, which
// must be exactly 4 octets.
func DecodeObjectIdentifierValue(buf []byte, lenValue uint32) (ObjectIdentifier, int, error) {
	if err := checkFixedContent(buf, lenValue, 4, "object identifier"); err != nil {
		return ObjectIdentifier{}, 0, err
	}
	return ObjectIdentifierFromUint32(binary.BigEndian.Uint32(buf)), 4, nil
}

// DecodeApplicationObjectIdentifier decodes an application-tagged object identifier
func DecodeApplicationObjectIdentifier(buf []byte) (ObjectIdentifier, int, error) {
	return decodeApplication(buf, TagObjectID, DecodeObjectIdentifierValue)
}

// DecodeContextObjectIdentifier decodes a context-tagged object identifier
func DecodeContextObjectIdentifier(buf []byte, tagNumber uint8) (ObjectIdentifier, int, error) {
	return decodeContext(buf, tagNumber, DecodeObjectIdentifierValue)
}
