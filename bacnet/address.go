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

// EncodeAddress encodes a BACnetAddress: the network number as an
// application-tagged Unsigned followed by the MAC as an application-tagged
// OctetString. It returns 0 when the MAC is longer than MaxMACLength or
// the encoding does not fit.
func EncodeAddress(buf []byte, addr Address) int {
	if len(addr.Addr) > MaxMACLength {
		return 0
	}
	n := EncodeApplicationUnsigned(nil, uint64(addr.Net))
	n += EncodeApplicationOctetString(nil, addr.Addr)
	if buf == nil {
		return n
	}
	if len(buf) < n {
		return 0
	}
	off := EncodeApplicationUnsigned(buf, uint64(addr.Net))
	off += EncodeApplicationOctetString(buf[off:], addr.Addr)
	return off
}

// EncodeContextAddress encodes a BACnetAddress enclosed in opening and
// closing tag tagNumber.
func EncodeContextAddress(buf []byte, tagNumber uint8, addr Address) int {
	inner := EncodeAddress(nil, addr)
	open := EncodeOpeningTag(nil, tagNumber)
	if inner == 0 || open == 0 {
		return 0
	}
	n := 2*open + inner
	if buf == nil {
		return n
	}
	if len(buf) < n {
		return 0
	}
	off := EncodeOpeningTag(buf, tagNumber)
	off += EncodeAddress(buf[off:], addr)
	off += EncodeClosingTag(buf[off:], tagNumber)
	return off
}

// DecodeAddress decodes a BACnetAddress. A network number above 65535 or
// a MAC longer than MaxMACLength is ErrValueOutOfRange.
func DecodeAddress(buf []byte) (Address, int, error) {
	net, n, err := DecodeApplicationUnsigned(buf)
	if err != nil {
		return Address{}, 0, err
	}
	if net > 0xFFFF {
		return Address{}, 0, NewDecodeError(0, fmt.Sprintf("network number %d", net), ErrValueOutOfRange)
	}

	tag, h, err := decodeExpectedTag(buf[n:], TagClassApplication, uint8(TagOctetString))
	if err != nil {
		return Address{}, 0, shiftOffset(err, n)
	}
	if tag.LenValueType > MaxMACLength {
		return Address{}, 0, NewDecodeError(n, fmt.Sprintf("MAC length %d", tag.LenValueType), ErrValueOutOfRange)
	}
	mac, m, err := DecodeOctetStringValue(buf[n+h:], tag.LenValueType)
	if err != nil {
		return Address{}, 0, shiftOffset(err, n+h)
	}

	return Address{Net: uint16(net), Addr: mac}, n + h + m, nil
}

// DecodeContextAddress decodes a BACnetAddress enclosed in opening and
// closing tag tagNumber.
func DecodeContextAddress(buf []byte, tagNumber uint8) (Address, int, error) {
	n, err := ExpectOpeningTag(buf, tagNumber)
	if err != nil {
		return Address{}, 0, err
	}
	addr, m, err := DecodeAddress(buf[n:])
	if err != nil {
		return Address{}, 0, shiftOffset(err, n)
	}
	n += m
	c, err := ExpectClosingTag(buf[n:], tagNumber)
	if err != nil {
		return Address{}, 0, shiftOffset(err, n)
	}
	return addr, n + c, nil
}
