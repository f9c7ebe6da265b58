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
)

// BVLCHeaderLength is the size of a BACnet/IP BVLC header
const BVLCHeaderLength = 4

// BVLC Header (BACnet Virtual Link Control)
type BVLCHeader struct {
	Type     BVLCType
	Function BVLCFunction
	Length   uint16
}

// EncodeBVLC encodes a BVLC header for an NPDU of npduLength octets
func EncodeBVLC(buf []byte, function BVLCFunction, npduLength int) int {
	if buf == nil {
		return BVLCHeaderLength
	}
	if len(buf) < BVLCHeaderLength {
		return 0
	}
	buf[0] = byte(BVLCTypeBACnetIP)
	buf[1] = byte(function)
	binary.BigEndian.PutUint16(buf[2:], uint16(BVLCHeaderLength+npduLength))
	return BVLCHeaderLength
}

// DecodeBVLC decodes a BVLC header. The declared length must cover the
// header and fit in data.
func DecodeBVLC(data []byte) (*BVLCHeader, int, error) {
	if len(data) < BVLCHeaderLength {
		return nil, 0, NewDecodeError(0, "truncated BVLC header", ErrInvalidBVLC)
	}
	h := &BVLCHeader{
		Type:     BVLCType(data[0]),
		Function: BVLCFunction(data[1]),
		Length:   binary.BigEndian.Uint16(data[2:4]),
	}
	if h.Type != BVLCTypeBACnetIP {
		return nil, 0, NewDecodeError(0, fmt.Sprintf("unsupported BVLC type %02x", data[0]), ErrInvalidBVLC)
	}
	if int(h.Length) < BVLCHeaderLength || int(h.Length) > len(data) {
		return nil, 0, NewDecodeError(2, fmt.Sprintf("BVLC length %d does not match %d octets", h.Length, len(data)), ErrInvalidBVLC)
	}

	n := BVLCHeaderLength
	// Forwarded-NPDU carries the original source B/IP address (6 octets)
	if h.Function == BVLCForwardedNPDU {
		if int(h.Length) < n+6 {
			return nil, 0, NewDecodeError(n, "truncated forwarded-NPDU address", ErrInvalidBVLC)
		}
		n += 6
	}
	return h, n, nil
}

// NetworkMessageType identifies a network layer message
type NetworkMessageType uint8

// NPDU (Network Protocol Data Unit)
type NPDU struct {
	Version      uint8
	Control      NPDUControl
	DestNet      uint16
	DestAddr     []byte
	DestHopCount uint8
	SrcNet       uint16
	SrcAddr      []byte
	MessageType  NetworkMessageType
	VendorID     uint16
	Data         []byte
}

// IsNetworkMessage reports whether the NPDU carries a network layer
// message instead of an APDU.
func (n *NPDU) IsNetworkMessage() bool {
	return n.Control&NPDUControlNetworkLayerMessage != 0
}

// EncodeNPDU encodes an NPDU header for unicast without routing
func EncodeNPDU(buf []byte, expectingReply bool, priority NPDUControl) int {
	if buf == nil {
		return 2
	}
	if len(buf) < 2 {
		return 0
	}
	control := priority
	if expectingReply {
		control |= NPDUControlExpectingReply
	}
	buf[0] = 0x01 // Version
	buf[1] = byte(control)
	return 2
}

// EncodeNPDUWithDest encodes an NPDU header with destination address
func EncodeNPDUWithDest(buf []byte, dest Address, hopCount uint8, expectingReply bool, priority NPDUControl) int {
	n := 6 + len(dest.Addr)
	if buf == nil {
		return n
	}
	if len(buf) < n || len(dest.Addr) > 0xFF {
		return 0
	}

	control := priority | NPDUControlDestSpecifier
	if expectingReply {
		control |= NPDUControlExpectingReply
	}

	buf[0] = 0x01 // Version
	buf[1] = byte(control)
	binary.BigEndian.PutUint16(buf[2:], dest.Net)
	buf[4] = byte(len(dest.Addr))
	copy(buf[5:], dest.Addr)
	buf[n-1] = hopCount
	return n
}

// DecodeNPDU decodes an NPDU header and returns the number of header octets.
// Data aliases the remainder of data.
func DecodeNPDU(data []byte) (*NPDU, int, error) {
	if len(data) < 2 {
		return nil, 0, NewDecodeError(0, "truncated NPDU header", ErrInvalidNPDU)
	}

	npdu := &NPDU{
		Version: data[0],
		Control: NPDUControl(data[1]),
	}

	if npdu.Version != 0x01 {
		return nil, 0, NewDecodeError(0, fmt.Sprintf("unsupported version %d", npdu.Version), ErrInvalidNPDU)
	}

	offset := 2

	// Destination specifier
	if npdu.Control&NPDUControlDestSpecifier != 0 {
		addr, n, err := decodeNPDUAddress(data, offset)
		if err != nil {
			return nil, 0, err
		}
		npdu.DestNet, npdu.DestAddr = addr.Net, addr.Addr
		offset = n
	}

	// Source specifier
	if npdu.Control&NPDUControlSourceSpecifier != 0 {
		addr, n, err := decodeNPDUAddress(data, offset)
		if err != nil {
			return nil, 0, err
		}
		npdu.SrcNet, npdu.SrcAddr = addr.Net, addr.Addr
		offset = n
	}

	if npdu.Control&NPDUControlDestSpecifier != 0 {
		if len(data) < offset+1 {
			return nil, 0, NewDecodeError(offset, "missing hop count", ErrInvalidNPDU)
		}
		npdu.DestHopCount = data[offset]
		offset++
	}

	// Network layer message
	if npdu.IsNetworkMessage() {
		if len(data) < offset+1 {
			return nil, 0, NewDecodeError(offset, "missing network message type", ErrInvalidNPDU)
		}
		npdu.MessageType = NetworkMessageType(data[offset])
		offset++

		// Vendor-specific message types have vendor ID
		if npdu.MessageType >= 0x80 {
			if len(data) < offset+2 {
				return nil, 0, NewDecodeError(offset, "missing vendor id", ErrInvalidNPDU)
			}
			npdu.VendorID = binary.BigEndian.Uint16(data[offset:])
			offset += 2
		}
	}

	npdu.Data = data[offset:]
	return npdu, offset, nil
}

func decodeNPDUAddress(data []byte, offset int) (Address, int, error) {
	if len(data) < offset+3 {
		return Address{}, 0, NewDecodeError(offset, "truncated network address", ErrInvalidNPDU)
	}
	net := binary.BigEndian.Uint16(data[offset:])
	addrLen := int(data[offset+2])
	offset += 3
	if addrLen > MaxMACLength {
		return Address{}, 0, NewDecodeError(offset-1, fmt.Sprintf("address length %d", addrLen), ErrInvalidNPDU)
	}
	if len(data) < offset+addrLen {
		return Address{}, 0, NewDecodeError(offset, "truncated MAC address", ErrInvalidNPDU)
	}
	addr := make([]byte, addrLen)
	copy(addr, data[offset:offset+addrLen])
	return Address{Net: net, Addr: addr}, offset + addrLen, nil
}

// APDU Types
type APDU struct {
	Type         PDUType
	Segmented    bool
	MoreFollows  bool
	SegmentedAck bool
	MaxSegments  uint8
	MaxAPDU      uint8
	InvokeID     uint8
	SequenceNum  uint8
	WindowSize   uint8
	Service      uint8
	Data         []byte
}

// EncodeMaxSegsMaxAPDU packs the max-segments-accepted and
// max-APDU-length-accepted fields of a confirmed request.
func EncodeMaxSegsMaxAPDU(maxSegs int, maxAPDU int) uint8 {
	var octet uint8

	switch {
	case maxSegs < 2:
		octet = 0
	case maxSegs < 4:
		octet = 0x10
	case maxSegs < 8:
		octet = 0x20
	case maxSegs < 16:
		octet = 0x30
	case maxSegs < 32:
		octet = 0x40
	case maxSegs < 64:
		octet = 0x50
	case maxSegs == 64:
		octet = 0x60
	default:
		octet = 0x70
	}

	switch {
	case maxAPDU <= 50:
	case maxAPDU <= 128:
		octet |= 0x01
	case maxAPDU <= 206:
		octet |= 0x02
	case maxAPDU <= 480:
		octet |= 0x03
	case maxAPDU <= 1024:
		octet |= 0x04
	default:
		octet |= 0x05
	}

	return octet
}

// DecodeMaxSegs returns the number of segments accepted. 0 means
// unspecified and 65 means more than 64.
func DecodeMaxSegs(octet uint8) int {
	switch (octet >> 4) & 0x07 {
	case 1:
		return 2
	case 2:
		return 4
	case 3:
		return 8
	case 4:
		return 16
	case 5:
		return 32
	case 6:
		return 64
	case 7:
		return 65
	default:
		return 0
	}
}

// DecodeMaxAPDU returns the maximum APDU length accepted, or 0 for a
// reserved value.
func DecodeMaxAPDU(octet uint8) int {
	switch octet & 0x0F {
	case 0:
		return 50
	case 1:
		return 128
	case 2:
		return 206
	case 3:
		return 480
	case 4:
		return 1024
	case 5:
		return 1476
	default:
		return 0
	}
}

// EncodeConfirmedRequestHeader encodes the fixed part of an unsegmented
// confirmed service request APDU.
func EncodeConfirmedRequestHeader(buf []byte, invokeID uint8, service ConfirmedServiceChoice, maxSegs, maxAPDU int) int {
	if buf == nil {
		return 4
	}
	if len(buf) < 4 {
		return 0
	}
	buf[0] = byte(PDUTypeConfirmedRequest)
	buf[1] = EncodeMaxSegsMaxAPDU(maxSegs, maxAPDU)
	buf[2] = invokeID
	buf[3] = byte(service)
	return 4
}

// EncodeUnconfirmedRequestHeader encodes the fixed part of an unconfirmed
// service request APDU.
func EncodeUnconfirmedRequestHeader(buf []byte, service UnconfirmedServiceChoice) int {
	if buf == nil {
		return 2
	}
	if len(buf) < 2 {
		return 0
	}
	buf[0] = byte(PDUTypeUnconfirmedRequest)
	buf[1] = byte(service)
	return 2
}

// EncodeSimpleAck encodes a complete SimpleACK APDU
func EncodeSimpleAck(buf []byte, invokeID uint8, service ConfirmedServiceChoice) int {
	if buf == nil {
		return 3
	}
	if len(buf) < 3 {
		return 0
	}
	buf[0] = byte(PDUTypeSimpleAck)
	buf[1] = invokeID
	buf[2] = byte(service)
	return 3
}

// EncodeComplexAckHeader encodes the fixed part of an unsegmented ComplexACK
func EncodeComplexAckHeader(buf []byte, invokeID uint8, service ConfirmedServiceChoice) int {
	if buf == nil {
		return 3
	}
	if len(buf) < 3 {
		return 0
	}
	buf[0] = byte(PDUTypeComplexAck)
	buf[1] = invokeID
	buf[2] = byte(service)
	return 3
}

// DecodeAPDU decodes an APDU header. Data aliases the service parameters.
func DecodeAPDU(data []byte) (*APDU, error) {
	if len(data) < 1 {
		return nil, NewDecodeError(0, "empty APDU", ErrInvalidAPDU)
	}

	switch t := PDUType(data[0] & 0xF0); t {
	case PDUTypeConfirmedRequest:
		return decodeConfirmedRequest(data)
	case PDUTypeUnconfirmedRequest:
		return decodeUnconfirmedRequest(data)
	case PDUTypeSimpleAck:
		return decodeInvokeAPDU(t, data)
	case PDUTypeComplexAck:
		return decodeComplexAck(data)
	case PDUTypeError:
		return decodeInvokeAPDU(t, data)
	case PDUTypeReject, PDUTypeAbort:
		// Reject and abort reasons are carried in the service field
		apdu, err := decodeInvokeAPDU(t, data)
		if err != nil {
			return nil, err
		}
		apdu.Data = nil
		return apdu, nil
	default:
		return nil, NewDecodeError(0, fmt.Sprintf("unknown PDU type %02x", byte(t)), ErrInvalidAPDU)
	}
}

func decodeConfirmedRequest(data []byte) (*APDU, error) {
	if len(data) < 4 {
		return nil, NewDecodeError(len(data), "truncated confirmed request", ErrInvalidAPDU)
	}

	apdu := &APDU{
		Type:        PDUTypeConfirmedRequest,
		Segmented:   data[0]&0x08 != 0,
		MoreFollows: data[0]&0x04 != 0,
		MaxSegments: (data[1] >> 4) & 0x07,
		MaxAPDU:     data[1] & 0x0F,
		InvokeID:    data[2],
		Service:     data[3],
		Data:        data[4:],
	}

	if apdu.Segmented {
		if len(data) < 6 {
			return nil, NewDecodeError(len(data), "truncated segmentation header", ErrInvalidAPDU)
		}
		apdu.SequenceNum = data[3]
		apdu.WindowSize = data[4]
		apdu.Service = data[5]
		apdu.Data = data[6:]
	}

	return apdu, nil
}

func decodeUnconfirmedRequest(data []byte) (*APDU, error) {
	if len(data) < 2 {
		return nil, NewDecodeError(len(data), "truncated unconfirmed request", ErrInvalidAPDU)
	}

	return &APDU{
		Type:    PDUTypeUnconfirmedRequest,
		Service: data[1],
		Data:    data[2:],
	}, nil
}

func decodeComplexAck(data []byte) (*APDU, error) {
	if len(data) < 3 {
		return nil, NewDecodeError(len(data), "truncated complex ack", ErrInvalidAPDU)
	}

	apdu := &APDU{
		Type:        PDUTypeComplexAck,
		Segmented:   data[0]&0x08 != 0,
		MoreFollows: data[0]&0x04 != 0,
		InvokeID:    data[1],
		Service:     data[2],
		Data:        data[3:],
	}

	if apdu.Segmented {
		if len(data) < 5 {
			return nil, NewDecodeError(len(data), "truncated segmentation header", ErrInvalidAPDU)
		}
		apdu.SequenceNum = data[2]
		apdu.WindowSize = data[3]
		apdu.Service = data[4]
		apdu.Data = data[5:]
	}

	return apdu, nil
}

func decodeInvokeAPDU(t PDUType, data []byte) (*APDU, error) {
	if len(data) < 3 {
		return nil, NewDecodeError(len(data), fmt.Sprintf("truncated %s", t), ErrInvalidAPDU)
	}

	return &APDU{
		Type:     t,
		InvokeID: data[1],
		Service:  data[2],
		Data:     data[3:],
	}, nil
}
