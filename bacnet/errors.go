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
	"errors"
	"fmt"
)

// Sentinel errors
var (
	ErrMalformedTag            = errors.New("bacnet: malformed tag")
	ErrBufferOverrun           = errors.New("bacnet: buffer overrun")
	ErrUnexpectedTag           = errors.New("bacnet: unexpected tag")
	ErrValueOutOfRange         = errors.New("bacnet: value out of range")
	ErrUnsupportedCharacterSet = errors.New("bacnet: unsupported character set")
	ErrUnsupportedValue        = errors.New("bacnet: unsupported value type")
	ErrInvalidBVLC             = errors.New("bacnet: invalid BVLC header")
	ErrInvalidNPDU             = errors.New("bacnet: invalid NPDU")
	ErrInvalidAPDU             = errors.New("bacnet: invalid APDU")
)

// ErrInvalidArrayIndex is returned by array element encoders for an index
// they do not hold. It compares equal (errors.Is) to any BACnetError with
// the same class and code.
var ErrInvalidArrayIndex = NewBACnetError(ErrorClassProperty, ErrorCodeInvalidArrayIndex)

// DecodeError provides detailed information about a decoding failure.
type DecodeError struct {
	Offset  int    // Byte offset where the error occurred
	Message string // Human-readable error description
	Err     error  // Underlying error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("bacnet: decode error at offset %d: %s: %v", e.Offset, e.Message, e.Err)
	}
	return fmt.Sprintf("bacnet: decode error at offset %d: %s", e.Offset, e.Message)
}

// Unwrap returns the underlying error.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// NewDecodeError creates a new DecodeError
func NewDecodeError(offset int, message string, err error) *DecodeError {
	return &DecodeError{
		Offset:  offset,
		Message: message,
		Err:     err,
	}
}

// TagMismatchError reports a tag whose class or number differs from the
// one required at that position.
type TagMismatchError struct {
	Offset         int
	ExpectedClass  TagClass
	ExpectedNumber uint8
	ActualClass    TagClass
	ActualNumber   uint8
}

func (e *TagMismatchError) Error() string {
	return fmt.Sprintf("bacnet: unexpected tag at offset %d: expected %s tag %d, got %s tag %d",
		e.Offset, e.ExpectedClass, e.ExpectedNumber, e.ActualClass, e.ActualNumber)
}

// Is allows TagMismatchError to match ErrUnexpectedTag with errors.Is.
func (e *TagMismatchError) Is(target error) bool {
	return target == ErrUnexpectedTag
}

// ErrorClass represents BACnet error classes
type ErrorClass uint8

const (
	ErrorClassDevice        ErrorClass = 0
	ErrorClassObject        ErrorClass = 1
	ErrorClassProperty      ErrorClass = 2
	ErrorClassResources     ErrorClass = 3
	ErrorClassSecurity      ErrorClass = 4
	ErrorClassServices      ErrorClass = 5
	ErrorClassVT            ErrorClass = 6
	ErrorClassCommunication ErrorClass = 7
)

func (e ErrorClass) String() string {
	names := map[ErrorClass]string{
		ErrorClassDevice:        "device",
		ErrorClassObject:        "object",
		ErrorClassProperty:      "property",
		ErrorClassResources:     "resources",
		ErrorClassSecurity:      "security",
		ErrorClassServices:      "services",
		ErrorClassVT:            "vt",
		ErrorClassCommunication: "communication",
	}
	if name, ok := names[e]; ok {
		return name
	}
	return fmt.Sprintf("error-class(%d)", e)
}

// ErrorCode represents BACnet error codes
type ErrorCode uint8

const (
	ErrorCodeOther                    ErrorCode = 0
	ErrorCodeInconsistentParameters   ErrorCode = 7
	ErrorCodeInvalidDataType          ErrorCode = 9
	ErrorCodeCharacterSetNotSupported ErrorCode = 41
	ErrorCodeInvalidArrayIndex        ErrorCode = 42
	ErrorCodeDatatypeNotSupported     ErrorCode = 47
	ErrorCodePropertyIsNotAnArray     ErrorCode = 50
	ErrorCodeValueOutOfRange          ErrorCode = 37
	ErrorCodeInvalidTag               ErrorCode = 57
	ErrorCodeValueTooLong             ErrorCode = 72
)

func (e ErrorCode) String() string {
	names := map[ErrorCode]string{
		ErrorCodeOther:                    "other",
		ErrorCodeInconsistentParameters:   "inconsistent-parameters",
		ErrorCodeInvalidDataType:          "invalid-data-type",
		ErrorCodeCharacterSetNotSupported: "character-set-not-supported",
		ErrorCodeInvalidArrayIndex:        "invalid-array-index",
		ErrorCodeDatatypeNotSupported:     "datatype-not-supported",
		ErrorCodePropertyIsNotAnArray:     "property-is-not-an-array",
		ErrorCodeValueOutOfRange:          "value-out-of-range",
		ErrorCodeInvalidTag:               "invalid-tag",
		ErrorCodeValueTooLong:             "value-too-long",
	}
	if name, ok := names[e]; ok {
		return name
	}
	return fmt.Sprintf("error-code(%d)", e)
}

// BACnetError represents a BACnet protocol error
type BACnetError struct {
	Class ErrorClass
	Code  ErrorCode
}

func (e *BACnetError) Error() string {
	return fmt.Sprintf("bacnet error: class=%s, code=%s", e.Class, e.Code)
}

func (e *BACnetError) Is(target error) bool {
	t, ok := target.(*BACnetError)
	if !ok {
		return false
	}
	return e.Class == t.Class && e.Code == t.Code
}

// NewBACnetError creates a new BACnet error
func NewBACnetError(class ErrorClass, code ErrorCode) *BACnetError {
	return &BACnetError{
		Class: class,
		Code:  code,
	}
}

// RejectReason represents BACnet reject reasons
type RejectReason uint8

const (
	RejectReasonOther                    RejectReason = 0
	RejectReasonBufferOverflow           RejectReason = 1
	RejectReasonInconsistentParameters   RejectReason = 2
	RejectReasonInvalidParameterDataType RejectReason = 3
	RejectReasonInvalidTag               RejectReason = 4
	RejectReasonMissingRequiredParameter RejectReason = 5
	RejectReasonParameterOutOfRange      RejectReason = 6
	RejectReasonTooManyArguments         RejectReason = 7
	RejectReasonUndefinedEnumeration     RejectReason = 8
	RejectReasonUnrecognizedService      RejectReason = 9
)

func (r RejectReason) String() string {
	names := map[RejectReason]string{
		RejectReasonOther:                    "other",
		RejectReasonBufferOverflow:           "buffer-overflow",
		RejectReasonInconsistentParameters:   "inconsistent-parameters",
		RejectReasonInvalidParameterDataType: "invalid-parameter-data-type",
		RejectReasonInvalidTag:               "invalid-tag",
		RejectReasonMissingRequiredParameter: "missing-required-parameter",
		RejectReasonParameterOutOfRange:      "parameter-out-of-range",
		RejectReasonTooManyArguments:         "too-many-arguments",
		RejectReasonUndefinedEnumeration:     "undefined-enumeration",
		RejectReasonUnrecognizedService:      "unrecognized-service",
	}
	if name, ok := names[r]; ok {
		return name
	}
	return fmt.Sprintf("reject-reason(%d)", r)
}

// RejectReasonFor maps a decode failure onto the reject reason a server
// sends back for the offending request.
func RejectReasonFor(err error) RejectReason {
	switch {
	case errors.Is(err, ErrUnexpectedTag), errors.Is(err, ErrMalformedTag):
		return RejectReasonInvalidTag
	case errors.Is(err, ErrBufferOverrun):
		return RejectReasonMissingRequiredParameter
	case errors.Is(err, ErrValueOutOfRange):
		return RejectReasonParameterOutOfRange
	case errors.Is(err, ErrUnsupportedCharacterSet), errors.Is(err, ErrUnsupportedValue):
		return RejectReasonInvalidParameterDataType
	default:
		return RejectReasonOther
	}
}

// AbortReason represents BACnet abort reasons
type AbortReason uint8

const (
	AbortReasonOther                    AbortReason = 0
	AbortReasonBufferOverflow           AbortReason = 1
	AbortReasonInvalidApduInThisState   AbortReason = 2
	AbortReasonSegmentationNotSupported AbortReason = 4
	AbortReasonOutOfResources           AbortReason = 9
	AbortReasonApduTooLong              AbortReason = 11
)

func (a AbortReason) String() string {
	names := map[AbortReason]string{
		AbortReasonOther:                    "other",
		AbortReasonBufferOverflow:           "buffer-overflow",
		AbortReasonInvalidApduInThisState:   "invalid-apdu-in-this-state",
		AbortReasonSegmentationNotSupported: "segmentation-not-supported",
		AbortReasonOutOfResources:           "out-of-resources",
		AbortReasonApduTooLong:              "apdu-too-long",
	}
	if name, ok := names[a]; ok {
		return name
	}
	return fmt.Sprintf("abort-reason(%d)", a)
}

// AbortReasonFor maps an encode failure onto an abort reason. A reply that
// does not fit the response buffer aborts with segmentation-not-supported,
// since this codec never segments.
func AbortReasonFor(err error) AbortReason {
	switch {
	case errors.Is(err, ErrBufferOverrun):
		return AbortReasonSegmentationNotSupported
	case errors.Is(err, ErrValueOutOfRange):
		return AbortReasonApduTooLong
	default:
		return AbortReasonOther
	}
}

// IsDecodeError reports whether err came from a bounded decoder.
func IsDecodeError(err error) bool {
	var de *DecodeError
	var tm *TagMismatchError
	return errors.As(err, &de) || errors.As(err, &tm)
}
