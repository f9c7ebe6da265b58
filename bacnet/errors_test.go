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

package bacnet_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/edgeo-scada/bacnet/bacnet"
)

func TestDecodeError(t *testing.T) {
	err := bacnet.NewDecodeError(3, "real length 2, want 4", bacnet.ErrMalformedTag)
	assert.Equal(t, "bacnet: decode error at offset 3: real length 2, want 4: bacnet: malformed tag", err.Error())
	assert.ErrorIs(t, err, bacnet.ErrMalformedTag)
	assert.True(t, bacnet.IsDecodeError(fmt.Errorf("reading property: %w", err)))

	bare := bacnet.NewDecodeError(0, "empty", nil)
	assert.Equal(t, "bacnet: decode error at offset 0: empty", bare.Error())

	assert.False(t, bacnet.IsDecodeError(bacnet.ErrMalformedTag))
}

func TestTagMismatchError(t *testing.T) {
	err := &bacnet.TagMismatchError{
		Offset:         4,
		ExpectedClass:  bacnet.TagClassContext,
		ExpectedNumber: 1,
		ActualClass:    bacnet.TagClassApplication,
		ActualNumber:   9,
	}
	assert.Equal(t, "bacnet: unexpected tag at offset 4: expected context tag 1, got application tag 9", err.Error())
	assert.ErrorIs(t, err, bacnet.ErrUnexpectedTag)
	assert.False(t, errors.Is(err, bacnet.ErrMalformedTag))
	assert.True(t, bacnet.IsDecodeError(err))
}

func TestBACnetError(t *testing.T) {
	err := bacnet.NewBACnetError(bacnet.ErrorClassProperty, bacnet.ErrorCodeInvalidArrayIndex)
	assert.Equal(t, "bacnet error: class=property, code=invalid-array-index", err.Error())
	assert.ErrorIs(t, err, bacnet.ErrInvalidArrayIndex)
	assert.False(t, errors.Is(err, bacnet.NewBACnetError(bacnet.ErrorClassObject, bacnet.ErrorCodeInvalidArrayIndex)))

	assert.Equal(t, "error-class(99)", bacnet.ErrorClass(99).String())
	assert.Equal(t, "error-code(200)", bacnet.ErrorCode(200).String())
}

func TestRejectReasonFor(t *testing.T) {
	tests := []struct {
		err  error
		want bacnet.RejectReason
	}{
		{bacnet.NewDecodeError(0, "x", bacnet.ErrMalformedTag), bacnet.RejectReasonInvalidTag},
		{&bacnet.TagMismatchError{}, bacnet.RejectReasonInvalidTag},
		{bacnet.NewDecodeError(0, "x", bacnet.ErrBufferOverrun), bacnet.RejectReasonMissingRequiredParameter},
		{bacnet.NewDecodeError(0, "x", bacnet.ErrValueOutOfRange), bacnet.RejectReasonParameterOutOfRange},
		{fmt.Errorf("%w: dbcs", bacnet.ErrUnsupportedCharacterSet), bacnet.RejectReasonInvalidParameterDataType},
		{errors.New("boom"), bacnet.RejectReasonOther},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, bacnet.RejectReasonFor(tt.err), tt.err.Error())
	}
	assert.Equal(t, "invalid-tag", bacnet.RejectReasonInvalidTag.String())
}

func TestAbortReasonFor(t *testing.T) {
	assert.Equal(t, bacnet.AbortReasonSegmentationNotSupported, bacnet.AbortReasonFor(fmt.Errorf("%w: array", bacnet.ErrBufferOverrun)))
	assert.Equal(t, bacnet.AbortReasonApduTooLong, bacnet.AbortReasonFor(bacnet.ErrValueOutOfRange))
	assert.Equal(t, bacnet.AbortReasonOther, bacnet.AbortReasonFor(bacnet.ErrMalformedTag))
	assert.Equal(t, "segmentation-not-supported", bacnet.AbortReasonSegmentationNotSupported.String())
}
