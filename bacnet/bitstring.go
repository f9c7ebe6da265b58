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
	"strings"
)

// BitString is a BACnet BIT STRING of Length bits. Bit 0 is the most
// significant bit of Bytes[0].
type BitString struct {
	Length int
	Bytes  []byte
}

// NewBitString returns a cleared bit string of n bits. Negative n yields
// an empty string.
func NewBitString(n int) BitString {
	if n < 0 {
		n = 0
	}
	return BitString{Length: n, Bytes: make([]byte, (n+7)/8)}
}

// Valid reports whether Length is non-negative and covered by Bytes
func (b BitString) Valid() bool {
	return b.Length >= 0 && (b.Length+7)/8 <= len(b.Bytes)
}

// ParseBitString parses a string of '0' and '1' characters, bit 0 first
func ParseBitString(s string) (BitString, error) {
	bs := NewBitString(len(s))
	for i, c := range s {
		switch c {
		case '0':
		case '1':
			bs.SetBit(i, true)
		default:
			return BitString{}, fmt.Errorf("invalid bit %q at position %d", c, i)
		}
	}
	return bs, nil
}

// Bit reports whether bit i is set. Bits beyond Length read as false.
func (b BitString) Bit(i int) bool {
	if i < 0 || i >= b.Length || i/8 >= len(b.Bytes) {
		return false
	}
	return b.Bytes[i/8]&(0x80>>(i%8)) != 0
}

// SetBit sets or clears bit i, growing the string when needed.
func (b *BitString) SetBit(i int, v bool) {
	if i < 0 {
		return
	}
	if i >= b.Length {
		b.Length = i + 1
	}
	for len(b.Bytes) < (b.Length+7)/8 {
		b.Bytes = append(b.Bytes, 0)
	}
	if v {
		b.Bytes[i/8] |= 0x80 >> (i % 8)
	} else {
		b.Bytes[i/8] &^= 0x80 >> (i % 8)
	}
}

// UnusedBits is the number of padding bits in the last octet.
func (b BitString) UnusedBits() uint8 {
	return uint8((8 - b.Length%8) % 8)
}

func (b BitString) String() string {
	var sb strings.Builder
	for i := 0; i < b.Length; i++ {
		if b.Bit(i) {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

func (b BitString) contentLength() int {
	return 1 + (b.Length+7)/8
}

// EncodeBitString encodes the unused-bits octet followed by the data
// octets. Padding bits are written as zero. An invalid value encodes
// nothing and returns 0.
func EncodeBitString(buf []byte, value BitString) int {
	if !value.Valid() {
		return 0
	}
	n := value.contentLength()
	if buf == nil {
		return n
	}
	if len(buf) < n {
		return 0
	}
	buf[0] = value.UnusedBits()
	copy(buf[1:n], value.Bytes)
	if unused := value.UnusedBits(); unused > 0 {
		buf[n-1] &= 0xFF << unused
	}
	return n
}

// EncodeApplicationBitString encodes an application-tagged BitString
func EncodeApplicationBitString(buf []byte, value BitString) int {
	if !value.Valid() {
		return 0
	}
	return encodeTagged(buf, uint8(TagBitString), false, value.contentLength(), func(b []byte) int { return EncodeBitString(b, value) })
}

// EncodeContextBitString encodes a context-tagged BitString
func EncodeContextBitString(buf []byte, tagNumber uint8, value BitString) int {
	if !value.Valid() {
		return 0
	}
	return encodeTagged(buf, tagNumber, true, value.contentLength(), func(b []byte) int { return EncodeBitString(b, value) })
}

// DecodeBitStringValue decodes BitString content. Zero-length content is
// an empty bit string.
func DecodeBitStringValue(buf []byte, lenValue uint32) (BitString, int, error) {
	if err := checkContent(buf, lenValue); err != nil {
		return BitString{}, 0, err
	}
	if lenValue == 0 {
		return BitString{}, 0, nil
	}

	unused := buf[0]
	if unused > 7 {
		return BitString{}, 0, NewDecodeError(0, fmt.Sprintf("%d unused bits", unused), ErrMalformedTag)
	}
	if lenValue == 1 && unused != 0 {
		return BitString{}, 0, NewDecodeError(0, "unused bits without data octets", ErrMalformedTag)
	}

	data := make([]byte, lenValue-1)
	copy(data, buf[1:lenValue])
	return BitString{
		Length: 8*len(data) - int(unused),
		Bytes:  data,
	}, int(lenValue), nil
}

// DecodeApplicationBitString decodes an application-tagged BitString
func DecodeApplicationBitString(buf []byte) (BitString, int, error) {
	return decodeApplication(buf, TagBitString, DecodeBitStringValue)
}

// DecodeContextBitString decodes a context-tagged BitString
func DecodeContextBitString(buf []byte, tagNumber uint8) (BitString, int, error) {
	return decodeContext(buf, tagNumber, DecodeBitStringValue)
}
