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

// Package bacnet implements the BACnet application-layer tag encoding:
// the tag header codec, the primitive value codecs built on it, bounded
// decoders for untrusted input and a helper for encoding array properties.
//
// Encoders write into a caller-supplied buffer and return the number of
// bytes written. A nil buffer probes the length without writing. Decoders
// never read past len(buf); re-slice the buffer to bound a field.
package bacnet

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultPort is the standard BACnet/IP UDP port
const DefaultPort = 47808

// MaxAPDULength is the maximum APDU length for BACnet/IP
const MaxAPDULength = 1476

// BVLC Types (BACnet Virtual Link Control)
type BVLCType uint8

const (
	BVLCTypeBACnetIP BVLCType = 0x81
)

// BVLC Functions
type BVLCFunction uint8

const (
	BVLCResult                            BVLCFunction = 0x00
	BVLCWriteBroadcastDistributionTable   BVLCFunction = 0x01
	BVLCReadBroadcastDistributionTable    BVLCFunction = 0x02
	BVLCReadBroadcastDistributionTableAck BVLCFunction = 0x03
	BVLCForwardedNPDU                     BVLCFunction = 0x04
	BVLCRegisterForeignDevice             BVLCFunction = 0x05
	BVLCReadForeignDeviceTable            BVLCFunction = 0x06
	BVLCReadForeignDeviceTableAck         BVLCFunction = 0x07
	BVLCDeleteForeignDeviceTableEntry     BVLCFunction = 0x08
	BVLCDistributeBroadcastToNetwork      BVLCFunction = 0x09
	BVLCOriginalUnicastNPDU               BVLCFunction = 0x0A
	BVLCOriginalBroadcastNPDU             BVLCFunction = 0x0B
	BVLCSecureBVLL                        BVLCFunction = 0x0C
)

// NPDU Network Layer Protocol Control Information
type NPDUControl uint8

const (
	NPDUControlNetworkLayerMessage NPDUControl = 0x80
	NPDUControlDestSpecifier       NPDUControl = 0x20
	NPDUControlSourceSpecifier     NPDUControl = 0x08
	NPDUControlExpectingReply      NPDUControl = 0x04
	NPDUControlPriorityNormal      NPDUControl = 0x00
	NPDUControlPriorityUrgent      NPDUControl = 0x01
	NPDUControlPriorityCritical    NPDUControl = 0x02
	NPDUControlPriorityLifeSafety  NPDUControl = 0x03
)

// PDU Types (Application Layer)
type PDUType uint8

const (
	PDUTypeConfirmedRequest   PDUType = 0x00
	PDUTypeUnconfirmedRequest PDUType = 0x10
	PDUTypeSimpleAck          PDUType = 0x20
	PDUTypeComplexAck         PDUType = 0x30
	PDUTypeSegmentAck         PDUType = 0x40
	PDUTypeError              PDUType = 0x50
	PDUTypeReject             PDUType = 0x60
	PDUTypeAbort              PDUType = 0x70
)

func (p PDUType) String() string {
	switch p {
	case PDUTypeConfirmedRequest:
		return "confirmed-request"
	case PDUTypeUnconfirmedRequest:
		return "unconfirmed-request"
	case PDUTypeSimpleAck:
		return "simple-ack"
	case PDUTypeComplexAck:
		return "complex-ack"
	case PDUTypeSegmentAck:
		return "segment-ack"
	case PDUTypeError:
		return "error"
	case PDUTypeReject:
		return "reject"
	case PDUTypeAbort:
		return "abort"
	default:
		return fmt.Sprintf("pdu-type(0x%02x)", uint8(p))
	}
}

// Confirmed Service Choices
type ConfirmedServiceChoice uint8

const (
	ServiceAcknowledgeAlarm           ConfirmedServiceChoice = 0
	ServiceConfirmedCOVNotification   ConfirmedServiceChoice = 1
	ServiceConfirmedEventNotification ConfirmedServiceChoice = 2
	ServiceGetAlarmSummary            ConfirmedServiceChoice = 3
	ServiceGetEnrollmentSummary       ConfirmedServiceChoice = 4
	ServiceSubscribeCOV               ConfirmedServiceChoice = 5
	ServiceAtomicReadFile             ConfirmedServiceChoice = 6
	ServiceAtomicWriteFile            ConfirmedServiceChoice = 7
	ServiceAddListElement             ConfirmedServiceChoice = 8
	ServiceRemoveListElement          ConfirmedServiceChoice = 9
	ServiceCreateObject               ConfirmedServiceChoice = 10
	ServiceDeleteObject               ConfirmedServiceChoice = 11
	ServiceReadProperty               ConfirmedServiceChoice = 12
	ServiceReadPropertyConditional    ConfirmedServiceChoice = 13
	ServiceReadPropertyMultiple       ConfirmedServiceChoice = 14
	ServiceWriteProperty              ConfirmedServiceChoice = 15
	ServiceWritePropertyMultiple      ConfirmedServiceChoice = 16
	ServiceDeviceCommunicationControl ConfirmedServiceChoice = 17
	ServiceConfirmedPrivateTransfer   ConfirmedServiceChoice = 18
	ServiceConfirmedTextMessage       ConfirmedServiceChoice = 19
	ServiceReinitializeDevice         ConfirmedServiceChoice = 20
	ServiceVTOpen                     ConfirmedServiceChoice = 21
	ServiceVTClose                    ConfirmedServiceChoice = 22
	ServiceVTData                     ConfirmedServiceChoice = 23
	ServiceAuthenticate               ConfirmedServiceChoice = 24
	ServiceRequestKey                 ConfirmedServiceChoice = 25
	ServiceReadRange                  ConfirmedServiceChoice = 26
	ServiceLifeSafetyOperation        ConfirmedServiceChoice = 27
	ServiceSubscribeCOVProperty       ConfirmedServiceChoice = 28
	ServiceGetEventInformation        ConfirmedServiceChoice = 29
)

func (s ConfirmedServiceChoice) String() string {
	names := map[ConfirmedServiceChoice]string{
		ServiceAcknowledgeAlarm:           "AcknowledgeAlarm",
		ServiceConfirmedCOVNotification:   "ConfirmedCOVNotification",
		ServiceConfirmedEventNotification: "ConfirmedEventNotification",
		ServiceGetAlarmSummary:            "GetAlarmSummary",
		ServiceGetEnrollmentSummary:       "GetEnrollmentSummary",
		ServiceSubscribeCOV:               "SubscribeCOV",
		ServiceAtomicReadFile:             "AtomicReadFile",
		ServiceAtomicWriteFile:            "AtomicWriteFile",
		ServiceAddListElement:             "AddListElement",
		ServiceRemoveListElement:          "RemoveListElement",
		ServiceCreateObject:               "CreateObject",
		ServiceDeleteObject:               "DeleteObject",
		ServiceReadProperty:               "ReadProperty",
		ServiceReadPropertyConditional:    "ReadPropertyConditional",
		ServiceReadPropertyMultiple:       "ReadPropertyMultiple",
		ServiceWriteProperty:              "WriteProperty",
		ServiceWritePropertyMultiple:      "WritePropertyMultiple",
		ServiceDeviceCommunicationControl: "DeviceCommunicationControl",
		ServiceConfirmedPrivateTransfer:   "ConfirmedPrivateTransfer",
		ServiceConfirmedTextMessage:       "ConfirmedTextMessage",
		ServiceReinitializeDevice:         "ReinitializeDevice",
		ServiceVTOpen:                     "VTOpen",
		ServiceVTClose:                    "VTClose",
		ServiceVTData:                     "VTData",
		ServiceAuthenticate:               "Authenticate",
		ServiceRequestKey:                 "RequestKey",
		ServiceReadRange:                  "ReadRange",
		ServiceLifeSafetyOperation:        "LifeSafetyOperation",
		ServiceSubscribeCOVProperty:       "SubscribeCOVProperty",
		ServiceGetEventInformation:        "GetEventInformation",
	}
	if name, ok := names[s]; ok {
		return name
	}
	return fmt.Sprintf("Unknown(%d)", s)
}


// Unconfirmed Service Choices
type UnconfirmedServiceChoice uint8

const (
	ServiceIAm                          UnconfirmedServiceChoice = 0
	ServiceIHave                        UnconfirmedServiceChoice = 1
	ServiceUnconfirmedCOVNotification   UnconfirmedServiceChoice = 2
	ServiceUnconfirmedEventNotification UnconfirmedServiceChoice = 3
	ServiceUnconfirmedPrivateTransfer   UnconfirmedServiceChoice = 4
	ServiceUnconfirmedTextMessage       UnconfirmedServiceChoice = 5
	ServiceTimeSynchronization          UnconfirmedServiceChoice = 6
	ServiceWhoHas                       UnconfirmedServiceChoice = 7
	ServiceWhoIs                        UnconfirmedServiceChoice = 8
	ServiceUTCTimeSynchronization       UnconfirmedServiceChoice = 9
	ServiceWriteGroup                   UnconfirmedServiceChoice = 10
)

func (s UnconfirmedServiceChoice) String() string {
	names := map[UnconfirmedServiceChoice]string{
		ServiceIAm:                          "I-Am",
		ServiceIHave:                        "I-Have",
		ServiceUnconfirmedCOVNotification:   "UnconfirmedCOVNotification",
		ServiceUnconfirmedEventNotification: "UnconfirmedEventNotification",
		ServiceUnconfirmedPrivateTransfer:   "UnconfirmedPrivateTransfer",
		ServiceUnconfirmedTextMessage:       "UnconfirmedTextMessage",
		ServiceTimeSynchronization:          "TimeSynchronization",
		ServiceWhoHas:                       "Who-Has",
		ServiceWhoIs:                        "Who-Is",
		ServiceUTCTimeSynchronization:       "UTCTimeSynchronization",
		ServiceWriteGroup:                   "WriteGroup",
	}
	if name, ok := names[s]; ok {
		return name
	}
	return fmt.Sprintf("Unknown(%d)", s)
}

// ObjectType represents BACnet object types
type ObjectType uint16

const (
	ObjectTypeAnalogInput           ObjectType = 0
	ObjectTypeAnalogOutput          ObjectType = 1
	ObjectTypeAnalogValue           ObjectType = 2
	ObjectTypeBinaryInput           ObjectType = 3
	ObjectTypeBinaryOutput          ObjectType = 4
	ObjectTypeBinaryValue           ObjectType = 5
	ObjectTypeCalendar              ObjectType = 6
	ObjectTypeCommand               ObjectType = 7
	ObjectTypeDevice                ObjectType = 8
	ObjectTypeEventEnrollment       ObjectType = 9
	ObjectTypeFile                  ObjectType = 10
	ObjectTypeGroup                 ObjectType = 11
	ObjectTypeLoop                  ObjectType = 12
	ObjectTypeMultiStateInput       ObjectType = 13
	ObjectTypeMultiStateOutput      ObjectType = 14
	ObjectTypeNotificationClass     ObjectType = 15
	ObjectTypeProgram               ObjectType = 16
	ObjectTypeSchedule              ObjectType = 17
	ObjectTypeAveraging             ObjectType = 18
	ObjectTypeMultiStateValue       ObjectType = 19
	ObjectTypeTrendLog              ObjectType = 20
	ObjectTypeLifeSafetyPoint       ObjectType = 21
	ObjectTypeLifeSafetyZone        ObjectType = 22
	ObjectTypeAccumulator           ObjectType = 23
	ObjectTypePulseConverter        ObjectType = 24
	ObjectTypeEventLog              ObjectType = 25
	ObjectTypeGlobalGroup           ObjectType = 26
	ObjectTypeTrendLogMultiple      ObjectType = 27
	ObjectTypeLoadControl           ObjectType = 28
	ObjectTypeStructuredView        ObjectType = 29
	ObjectTypeAccessDoor            ObjectType = 30
	ObjectTypeTimer                 ObjectType = 31
	ObjectTypeAccessCredential      ObjectType = 32
	ObjectTypeAccessPoint           ObjectType = 33
	ObjectTypeAccessRights          ObjectType = 34
	ObjectTypeAccessUser            ObjectType = 35
	ObjectTypeAccessZone            ObjectType = 36
	ObjectTypeCredentialDataInput   ObjectType = 37
	ObjectTypeNetworkSecurity       ObjectType = 38
	ObjectTypeBitStringValue        ObjectType = 39
	ObjectTypeCharacterStringValue  ObjectType = 40
	ObjectTypeDatePatternValue      ObjectType = 41
	ObjectTypeDateValue             ObjectType = 42
	ObjectTypeDateTimePatternValue  ObjectType = 43
	ObjectTypeDateTimeValue         ObjectType = 44
	ObjectTypeIntegerValue          ObjectType = 45
	ObjectTypeLargeAnalogValue      ObjectType = 46
	ObjectTypeOctetStringValue      ObjectType = 47
	ObjectTypePositiveIntegerValue  ObjectType = 48
	ObjectTypeTimePatternValue      ObjectType = 49
	ObjectTypeTimeValue             ObjectType = 50
	ObjectTypeNotificationForwarder ObjectType = 51
	ObjectTypeAlertEnrollment       ObjectType = 52
	ObjectTypeChannel               ObjectType = 53
	ObjectTypeLightingOutput        ObjectType = 54
	ObjectTypeBinaryLightingOutput  ObjectType = 55
	ObjectTypeNetworkPort           ObjectType = 56
	ObjectTypeElevatorGroup         ObjectType = 57
	ObjectTypeEscalator             ObjectType = 58
	ObjectTypeLift                  ObjectType = 59
)

func (o ObjectType) String() string {
	names := map[ObjectType]string{
		ObjectTypeAnalogInput:           "analog-input",
		ObjectTypeAnalogOutput:          "analog-output",
		ObjectTypeAnalogValue:           "analog-value",
		ObjectTypeBinaryInput:           "binary-input",
		ObjectTypeBinaryOutput:          "binary-output",
		ObjectTypeBinaryValue:           "binary-value",
		ObjectTypeCalendar:              "calendar",
		ObjectTypeCommand:               "command",
		ObjectTypeDevice:                "device",
		ObjectTypeEventEnrollment:       "event-enrollment",
		ObjectTypeFile:                  "file",
		ObjectTypeGroup:                 "group",
		ObjectTypeLoop:                  "loop",
		ObjectTypeMultiStateInput:       "multi-state-input",
		ObjectTypeMultiStateOutput:      "multi-state-output",
		ObjectTypeNotificationClass:     "notification-class",
		ObjectTypeProgram:               "program",
		ObjectTypeSchedule:              "schedule",
		ObjectTypeAveraging:             "averaging",
		ObjectTypeMultiStateValue:       "multi-state-value",
		ObjectTypeTrendLog:              "trend-log",
		ObjectTypeLifeSafetyPoint:       "life-safety-point",
		ObjectTypeLifeSafetyZone:        "life-safety-zone",
		ObjectTypeAccumulator:           "accumulator",
		ObjectTypePulseConverter:        "pulse-converter",
		ObjectTypeEventLog:              "event-log",
		ObjectTypeGlobalGroup:           "global-group",
		ObjectTypeTrendLogMultiple:      "trend-log-multiple",
		ObjectTypeLoadControl:           "load-control",
		ObjectTypeStructuredView:        "structured-view",
		ObjectTypeAccessDoor:            "access-door",
		ObjectTypeTimer:                 "timer",
		ObjectTypeAccessCredential:      "access-credential",
		ObjectTypeAccessPoint:           "access-point",
		ObjectTypeAccessRights:          "access-rights",
		ObjectTypeAccessUser:            "access-user",
		ObjectTypeAccessZone:            "access-zone",
		ObjectTypeCredentialDataInput:   "credential-data-input",
		ObjectTypeNetworkSecurity:       "network-security",
		ObjectTypeBitStringValue:        "bitstring-value",
		ObjectTypeCharacterStringValue:  "characterstring-value",
		ObjectTypeDatePatternValue:      "date-pattern-value",
		ObjectTypeDateValue:             "date-value",
		ObjectTypeDateTimePatternValue:  "datetime-pattern-value",
		ObjectTypeDateTimeValue:         "datetime-value",
		ObjectTypeIntegerValue:          "integer-value",
		ObjectTypeLargeAnalogValue:      "large-analog-value",
		ObjectTypeOctetStringValue:      "octetstring-value",
		ObjectTypePositiveIntegerValue:  "positive-integer-value",
		ObjectTypeTimePatternValue:      "time-pattern-value",
		ObjectTypeTimeValue:             "time-value",
		ObjectTypeNotificationForwarder: "notification-forwarder",
		ObjectTypeAlertEnrollment:       "alert-enrollment",
		ObjectTypeChannel:               "channel",
		ObjectTypeLightingOutput:        "lighting-output",
		ObjectTypeBinaryLightingOutput:  "binary-lighting-output",
		ObjectTypeNetworkPort:           "network-port",
		ObjectTypeElevatorGroup:         "elevator-group",
		ObjectTypeEscalator:             "escalator",
		ObjectTypeLift:                  "lift",
	}
	if name, ok := names[o]; ok {
		return name
	}
	return fmt.Sprintf("vendor-specific(%d)", o)
}

var objectTypeAbbreviations = map[string]ObjectType{
	"ai":  ObjectTypeAnalogInput,
	"ao":  ObjectTypeAnalogOutput,
	"av":  ObjectTypeAnalogValue,
	"bi":  ObjectTypeBinaryInput,
	"bo":  ObjectTypeBinaryOutput,
	"bv":  ObjectTypeBinaryValue,
	"dev": ObjectTypeDevice,
	"msi": ObjectTypeMultiStateInput,
	"mso": ObjectTypeMultiStateOutput,
	"msv": ObjectTypeMultiStateValue,
	"sch": ObjectTypeSchedule,
	"tl":  ObjectTypeTrendLog,
	"cal": ObjectTypeCalendar,
	"nc":  ObjectTypeNotificationClass,
	"prg": ObjectTypeProgram,
}

// ParseObjectType parses a string to ObjectType. It accepts the hyphenated
// names printed by String, the common abbreviations and plain numbers.
func ParseObjectType(s string) (ObjectType, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if t, ok := objectTypeAbbreviations[s]; ok {
		return t, true
	}
	if n, err := strconv.ParseUint(s, 10, 16); err == nil && n <= MaxObjectType {
		return ObjectType(n), true
	}
	for t := ObjectTypeAnalogInput; t <= ObjectTypeLift; t++ {
		if t.String() == s {
			return t, true
		}
	}
	return 0, false
}

const (
	// MaxObjectType is the largest value of the 10-bit object type field.
	MaxObjectType = 0x3FF
	// MaxInstance is the largest value of the 22-bit instance field.
	MaxInstance = 0x3FFFFF
)

// ObjectIdentifier represents a BACnet object identifier (type + instance)
type ObjectIdentifier struct {
	Type     ObjectType
	Instance uint32
}

// NewObjectIdentifier creates a new ObjectIdentifier
func NewObjectIdentifier(objectType ObjectType, instance uint32) ObjectIdentifier {
	return ObjectIdentifier{
		Type:     objectType,
		Instance: instance,
	}
}

// Valid reports whether both fields fit their bit widths. Encoding an
// invalid identifier masks the excess bits away.
func (o ObjectIdentifier) Valid() bool {
	return o.Type <= MaxObjectType && o.Instance <= MaxInstance
}

// Uint32 packs the identifier: type in bits 31-22, instance in bits 21-0.
func (o ObjectIdentifier) Uint32() uint32 {
	return (uint32(o.Type)&MaxObjectType)<<22 | (o.Instance & MaxInstance)
}

// ObjectIdentifierFromUint32 unpacks a 32-bit object identifier.
func ObjectIdentifierFromUint32(value uint32) ObjectIdentifier {
	return ObjectIdentifier{
		Type:     ObjectType((value >> 22) & MaxObjectType),
		Instance: value & MaxInstance,
	}
}

func (o ObjectIdentifier) String() string {
	return fmt.Sprintf("%s:%d", o.Type.String(), o.Instance)
}

// ParseObjectIdentifier parses "type:instance", e.g. "analog-input:1" or "ai:1".
func ParseObjectIdentifier(s string) (ObjectIdentifier, error) {
	typ, inst, ok := strings.Cut(s, ":")
	if !ok {
		return ObjectIdentifier{}, fmt.Errorf("invalid object identifier %q: want type:instance", s)
	}
	objectType, ok := ParseObjectType(typ)
	if !ok {
		return ObjectIdentifier{}, fmt.Errorf("invalid object type %q", typ)
	}
	instance, err := strconv.ParseUint(inst, 10, 32)
	if err != nil || instance > MaxInstance {
		return ObjectIdentifier{}, fmt.Errorf("invalid object instance %q", inst)
	}
	return NewObjectIdentifier(objectType, uint32(instance)), nil
}

// MaxMACLength is the longest MAC address carried in a BACnetAddress
// (BACnet/IPv6: 16 address octets + 2 port octets).
const MaxMACLength = 18

// Address represents a BACnet address. Net 0 is the local network; an
// empty Addr is a broadcast.
type Address struct {
	Net  uint16
	Addr []byte
}

// IsBroadcast reports whether the address carries no MAC.
func (a Address) IsBroadcast() bool {
	return len(a.Addr) == 0
}

func (a Address) String() string {
	if a.IsBroadcast() {
		return fmt.Sprintf("%d:*", a.Net)
	}
	return fmt.Sprintf("%d:%x", a.Net, a.Addr)
}

// TagClass distinguishes application tags from context-specific tags.
type TagClass uint8

const (
	TagClassApplication TagClass = 0
	TagClassContext     TagClass = 1
)

func (c TagClass) String() string {
	if c == TagClassContext {
		return "context"
	}
	return "application"
}

// ApplicationTag is the tag number of an application-tagged primitive.
type ApplicationTag uint8

const (
	TagNull            ApplicationTag = 0
	TagBoolean         ApplicationTag = 1
	TagUnsignedInt     ApplicationTag = 2
	TagSignedInt       ApplicationTag = 3
	TagReal            ApplicationTag = 4
	TagDouble          ApplicationTag = 5
	TagOctetString     ApplicationTag = 6
	TagCharacterString ApplicationTag = 7
	TagBitString       ApplicationTag = 8
	TagEnumerated      ApplicationTag = 9
	TagDate            ApplicationTag = 10
	TagTime            ApplicationTag = 11
	TagObjectID        ApplicationTag = 12
)

func (t ApplicationTag) String() string {
	names := [...]string{
		TagNull:            "null",
		TagBoolean:         "boolean",
		TagUnsignedInt:     "unsigned",
		TagSignedInt:       "signed",
		TagReal:            "real",
		TagDouble:          "double",
		TagOctetString:     "octet-string",
		TagCharacterString: "character-string",
		TagBitString:       "bit-string",
		TagEnumerated:      "enumerated",
		TagDate:            "date",
		TagTime:            "time",
		TagObjectID:        "object-identifier",
	}
	if int(t) < len(names) {
		return names[t]
	}
	return fmt.Sprintf("reserved(%d)", uint8(t))
}
