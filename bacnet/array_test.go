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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgeo-scada/bacnet/bacnet"
)

// unsignedArray serves the values 1..size as application Unsigned
// elements and records the calls it receives.
type unsignedArray struct {
	size  uint32
	fail  uint32
	calls []uint32
}

var errElement = errors.New("element unavailable")

func (a *unsignedArray) EncodeElement(objectInstance uint32, index uint32, buf []byte) (int, error) {
	a.calls = append(a.calls, index)
	switch {
	case index == a.fail && index != 0:
		return 0, errElement
	case index == 0:
		return bacnet.EncodeArraySize(buf, a.size), nil
	case index <= a.size:
		return bacnet.EncodeApplicationUnsigned(buf, uint64(index)), nil
	default:
		return 0, bacnet.ErrInvalidArrayIndex
	}
}

func newArray(size uint32) (*bacnet.ArrayEncoder, *unsignedArray) {
	elements := &unsignedArray{size: size}
	return &bacnet.ArrayEncoder{
		ObjectInstance: 1,
		Size:           size,
		TagNumber:      3,
		Elements:       elements,
	}, elements
}

func TestArrayEncoder_All(t *testing.T) {
	enc, _ := newArray(3)
	want := []byte{0x3E, 0x21, 0x01, 0x21, 0x02, 0x21, 0x03, 0x3F}

	n, err := enc.Encode(bacnet.ArrayAll, nil)
	require.NoError(t, err)
	assert.Equal(t, len(want), n)

	buf := make([]byte, 16)
	n, err = enc.Encode(bacnet.ArrayAll, buf)
	require.NoError(t, err)
	assert.Equal(t, want, buf[:n])
}

func TestArrayEncoder_Empty(t *testing.T) {
	enc, elements := newArray(0)

	buf := make([]byte, 4)
	n, err := enc.Encode(bacnet.ArrayAll, buf)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x3E, 0x3F}, buf[:n])
	assert.Empty(t, elements.calls)
}

func TestArrayEncoder_SingleElement(t *testing.T) {
	enc, _ := newArray(3)
	buf := make([]byte, 4)

	n, err := enc.Encode(2, buf)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x21, 0x02}, buf[:n])

	n, err = enc.Encode(0, buf)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x21, 0x03}, buf[:n])

	_, err = enc.Encode(4, buf)
	assert.ErrorIs(t, err, bacnet.ErrInvalidArrayIndex)
	assert.ErrorIs(t, err, bacnet.NewBACnetError(bacnet.ErrorClassProperty, bacnet.ErrorCodeInvalidArrayIndex))
}

func TestArrayEncoder_Overrun(t *testing.T) {
	enc, elements := newArray(3)

	// room for the opening tag and two elements only
	buf := make([]byte, 6)
	_, err := enc.Encode(bacnet.ArrayAll, buf)
	assert.ErrorIs(t, err, bacnet.ErrBufferOverrun)
	assert.Equal(t, bacnet.AbortReasonSegmentationNotSupported, bacnet.AbortReasonFor(err))

	// elements written before the overrun stay in place
	assert.Equal(t, []byte{0x3E, 0x21, 0x01, 0x21, 0x02, 0x00}, buf)
	// each element is measured before it is written
	assert.Equal(t, []uint32{1, 1, 2, 2, 3}, elements.calls)

	// no room for the closing tag
	buf = make([]byte, 7)
	_, err = enc.Encode(bacnet.ArrayAll, buf)
	assert.ErrorIs(t, err, bacnet.ErrBufferOverrun)

	_, err = enc.Encode(bacnet.ArrayAll, []byte{})
	assert.ErrorIs(t, err, bacnet.ErrBufferOverrun)
}

func TestArrayEncoder_ElementError(t *testing.T) {
	enc, elements := newArray(3)
	elements.fail = 2

	buf := make([]byte, 16)
	_, err := enc.Encode(bacnet.ArrayAll, buf)
	assert.ErrorIs(t, err, errElement)
	assert.Equal(t, []uint32{1, 1, 2}, elements.calls)
	assert.Equal(t, []byte{0x3E, 0x21, 0x01}, buf[:3])
}

func TestArrayEncoder_SizeOutOfRange(t *testing.T) {
	enc, elements := newArray(bacnet.ArrayAll)

	n, err := enc.Encode(bacnet.ArrayAll, nil)
	assert.ErrorIs(t, err, bacnet.ErrValueOutOfRange)
	assert.Equal(t, 0, n)

	buf := make([]byte, 8)
	_, err = enc.Encode(bacnet.ArrayAll, buf)
	assert.ErrorIs(t, err, bacnet.ErrValueOutOfRange)
	assert.Empty(t, elements.calls)
	assert.Equal(t, make([]byte, 8), buf)
}

func TestArrayEncoder_ReservedTag(t *testing.T) {
	enc, _ := newArray(1)
	enc.TagNumber = bacnet.ReservedTagNumber

	_, err := enc.Encode(bacnet.ArrayAll, make([]byte, 8))
	assert.ErrorIs(t, err, bacnet.ErrMalformedTag)
}

func TestArrayElementEncoderFunc(t *testing.T) {
	names := []string{"north", "south"}
	enc := &bacnet.ArrayEncoder{
		ObjectInstance: 7,
		Size:           uint32(len(names)),
		TagNumber:      0,
		Elements: bacnet.ArrayElementEncoderFunc(func(objectInstance uint32, index uint32, buf []byte) (int, error) {
			assert.Equal(t, uint32(7), objectInstance)
			if index == 0 || index > uint32(len(names)) {
				return 0, bacnet.ErrInvalidArrayIndex
			}
			cs, err := bacnet.NewCharacterString(names[index-1], bacnet.CharacterSetUTF8)
			if err != nil {
				return 0, err
			}
			return bacnet.EncodeApplicationCharacterString(buf, cs), nil
		}),
	}

	n, err := enc.Encode(bacnet.ArrayAll, nil)
	require.NoError(t, err)

	buf := make([]byte, n)
	m, err := enc.Encode(bacnet.ArrayAll, buf)
	require.NoError(t, err)
	assert.Equal(t, n, m)

	var texts []string
	err = bacnet.Walk(buf, func(_, depth int, tag bacnet.Tag, content []byte) error {
		if tag.Application(bacnet.TagCharacterString) {
			assert.Equal(t, 1, depth)
			v, err := bacnet.DecodeApplicationContent(tag, content)
			require.NoError(t, err)
			texts = append(texts, v.(bacnet.CharacterString).String())
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, names, texts)
}
