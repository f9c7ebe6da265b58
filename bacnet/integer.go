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
)

// UnsignedLength returns the minimal number of octets for value
func UnsignedLength(value uint64) int {
	n := 1
	for value > 0xFF {
		value >>= 8
		n++
	}
	return n
}

// SignedLength returns the minimal number of two's complement octets for value
func SignedLength(value int32) int {
	switch {
	case value >= -128 && value < 128:
		return 1
	case value >= -32768 && value < 32768:
		return 2
	case value >= -8388608 && value < 8388608:
		return 3
	default:
		return 4
	}
}

func putUint(buf []byte, value uint64, n int) {
	for i := n - 1; i >= 0; i-- {
		buf[i] = byte(value)
		value >>= 8
	}
}

// Unsigned

// EncodeUnsigned encodes an Unsigned Integer in the fewest octets
func EncodeUnsigned(buf []byte, value uint64) int {
	n := UnsignedLength(value)
	if buf == nil {
		return n
	}
	if len(buf) < n {
		return 0
	}
	putUint(buf, value, n)
	return n
}

// EncodeApplicationUnsigned encodes an application-tagged Unsigned Integer
func EncodeApplicationUnsigned(buf []byte, value uint64) int {
	return encodeTagged(buf, uint8(TagUnsignedInt), false, UnsignedLength(value), func(b []byte) int { return EncodeUnsigned(b, value) })
}

// EncodeContextUnsigned encodes a context-tagged Unsigned Integer
func EncodeContextUnsigned(buf []byte, tagNumber uint8, value uint64) int {
	return encodeTagged(buf, tagNumber, true, UnsignedLength(value), func(b []byte) int { return EncodeUnsigned(b, value) })
}

// decodeUint reads a big-endian unsigned of lenValue octets, at most maxLen.
func decodeUint(buf []byte, lenValue uint32, maxLen int, what string) (uint64, int, error) {
	if lenValue > uint32(maxLen) {
		return 0, 0, NewDecodeError(0, fmt.Sprintf("%s length %d exceeds %d octets", what, lenValue, maxLen), ErrValueOutOfRange)
	}
	if err := checkContent(buf, lenValue); err != nil {
		return 0, 0, err
	}
	var v uint64
	for _, b := range buf[:lenValue] {
		v = v<<8 | uint64(b)
	}
	return v, int(lenValue), nil
}

// DecodeUnsignedValue decodes Unsigned Integer content of 0 to 8 octets.
// Zero-length content reads as 0.
func DecodeUnsignedValue(buf []byte, lenValue uint32) (uint64, int, error) {
	return decodeUint(buf, lenValue, 8, "unsigned")
}

// DecodeApplicationUnsigned decodes an application-tagged Unsigned Integer
func DecodeApplicationUnsigned(buf []byte) (uint64, int, error) {
	return decodeApplication(buf, TagUnsignedInt, DecodeUnsignedValue)
}

// DecodeContextUnsigned decodes a context-tagged Unsigned Integer
func DecodeContextUnsigned(buf []byte, tagNumber uint8) (uint64, int, error) {
	return decodeContext(buf, tagNumber, DecodeUnsignedValue)
}

// Signed

// EncodeSigned encodes a Signed Integer in the fewest two's complement octets
func EncodeSigned(buf []byte, value int32) int {
	n := SignedLength(value)
	if buf == nil {
		return n
	}
	if len(buf) < n {
		return 0
	}
	putUint(buf, uint64(uint32(value)), n)
	return n
}

// EncodeApplicationSigned encodes an application-tagged Signed Integer
func EncodeApplicationSigned(buf []byte, value int32) int {
	return encodeTagged(buf, uint8(TagSignedInt), false, SignedLength(value), func(b []byte) int { return EncodeSigned(b, value) })
}

// EncodeContextSigned encodes a context-tagged Signed Integer
func EncodeContextSigned(buf []byte, tagNumber uint8, value int32) int {
	return encodeTagged(buf, tagNumber, true, SignedLength(value), func(b []byte) int { return EncodeSigned(b, value) })
}

// DecodeSignedValue decodes Signed Integer content of 0 to 4 octets,
// sign-extending from the first octet.
func DecodeSignedValue(buf []byte, lenValue uint32) (int32, int, error) {
	u, n, err := decodeUint(buf, lenValue, 4, "signed")
	if err != nil || n == 0 {
		return 0, n, err
	}
	shift := 64 - 8*uint(n)
	return int32(int64(u<<shift) >> shift), n, nil
}

// DecodeApplicationSigned decodes an application-tagged Signed Integer
func DecodeApplicationSigned(buf []byte) (int32, int, error) {
	return decodeApplication(buf, TagSignedInt, DecodeSignedValue)
}

// DecodeContextSigned decodes a context-tagged Signed Integer
func DecodeContextSigned(buf []byte, tagNumber uint8) (int32, int, error) {
	return decodeContext(buf, tagNumber, DecodeSignedValue)
}

// Enumerated

// EncodeEnumerated encodes an Enumerated value in the fewest octets
func EncodeEnumerated(buf []byte, value uint32) int {
	return EncodeUnsigned(buf, uint64(value))
}

// EncodeApplicationEnumerated encodes an application-tagged Enumerated
func EncodeApplicationEnumerated(buf []byte, value uint32) int {
	return encodeTagged(buf, uint8(TagEnumerated), false, UnsignedLength(uint64(value)), func(b []byte) int { return EncodeEnumerated(b, value) })
}

// EncodeContextEnumerated encodes a context-tagged Enumerated
func EncodeContextEnumerated(buf []byte, tagNumber uint8, value uint32) int {
	return encodeTagged(buf, tagNumber, true, UnsignedLength(uint64(value)), func(b []byte) int { return EncodeEnumerated(b, value) })
}

// DecodeEnumeratedValue decodes Enumerated content of 0 to 4 octets
func DecodeEnumeratedValue(buf []byte, lenValue uint32) (uint32, int, error) {
	u, n, err := decodeUint(buf, lenValue, 4, "enumerated")
	return uint32(u), n, err
}

// DecodeApplicationEnumerated decodes an application-tagged Enumerated
func DecodeApplicationEnumerated(buf []byte) (uint32, int, error) {
	return decodeApplication(buf, TagEnumerated, DecodeEnumeratedValue)
}

// DecodeContextEnumerated decodes a context-tagged Enumerated
func DecodeContextEnumerated(buf []byte, tagNumber uint8) (uint32, int, error) {
	return decodeContext(buf, tagNumber, DecodeEnumeratedValue)
}
