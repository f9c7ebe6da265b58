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
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgeo-scada/bacnet/bacnet"
)

func TestEncodeUnsigned_MinimalLength(t *testing.T) {
	tests := []struct {
		value uint64
		want  int
	}{
		{0, 1},
		{1, 1},
		{255, 1},
		{256, 2},
		{65535, 2},
		{65536, 3},
		{16777215, 3},
		{16777216, 4},
		{4294967295, 4},
		{4294967296, 5},
		{math.MaxUint64, 8},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, bacnet.EncodeUnsigned(nil, tt.value), "value %d", tt.value)

		buf := make([]byte, 8)
		n := bacnet.EncodeUnsigned(buf, tt.value)
		require.Equal(t, tt.want, n)

		got, m, err := bacnet.DecodeUnsignedValue(buf, uint32(n))
		require.NoError(t, err)
		assert.Equal(t, n, m)
		assert.Equal(t, tt.value, got)
	}
}

func TestContextUnsigned_Scenario(t *testing.T) {
	buf := make([]byte, 8)
	n := bacnet.EncodeContextUnsigned(buf, 2, 1000)
	require.Equal(t, 3, n)
	assert.Equal(t, []byte{0x2A, 0x03, 0xE8}, buf[:n])

	value, m, err := bacnet.DecodeContextUnsigned(buf[:n], 2)
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), value)
	assert.Equal(t, 3, m)

	tag, _, err := bacnet.DecodeTag(buf[:n])
	require.NoError(t, err)
	assert.Equal(t, uint8(2), tag.Number)
	assert.True(t, tag.IsContextSpecific())
}

func TestDecodeUnsigned_Errors(t *testing.T) {
	_, _, err := bacnet.DecodeContextUnsigned([]byte{0x2A, 0x03, 0xE8}, 3)
	assert.ErrorIs(t, err, bacnet.ErrUnexpectedTag)

	_, _, err = bacnet.DecodeContextUnsigned([]byte{0x22, 0x03, 0xE8}, 2)
	assert.ErrorIs(t, err, bacnet.ErrUnexpectedTag)

	_, _, err = bacnet.DecodeApplicationUnsigned([]byte{0x22, 0x03})
	assert.ErrorIs(t, err, bacnet.ErrBufferOverrun)

	_, _, err = bacnet.DecodeUnsignedValue(make([]byte, 9), 9)
	assert.ErrorIs(t, err, bacnet.ErrValueOutOfRange)

	_, _, err = bacnet.DecodeUnsignedValue([]byte{0x01}, 2)
	assert.ErrorIs(t, err, bacnet.ErrBufferOverrun)

	value, n, err := bacnet.DecodeUnsignedValue(nil, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), value)
	assert.Equal(t, 0, n)
}

func TestApplicationUnsigned_NonMinimalInput(t *testing.T) {
	value, n, err := bacnet.DecodeApplicationUnsigned([]byte{0x24, 0x00, 0x00, 0x00, 0x05})
	require.NoError(t, err)
	assert.Equal(t, uint64(5), value)
	assert.Equal(t, 5, n)
}

func TestEncodeSigned(t *testing.T) {
	tests := []struct {
		value int32
		want  []byte
	}{
		{0, []byte{0x00}},
		{-1, []byte{0xFF}},
		{127, []byte{0x7F}},
		{-128, []byte{0x80}},
		{128, []byte{0x00, 0x80}},
		{-129, []byte{0xFF, 0x7F}},
		{32767, []byte{0x7F, 0xFF}},
		{-32769, []byte{0xFF, 0x7F, 0xFF}},
		{8388608, []byte{0x00, 0x80, 0x00, 0x00}},
		{math.MinInt32, []byte{0x80, 0x00, 0x00, 0x00}},
		{math.MaxInt32, []byte{0x7F, 0xFF, 0xFF, 0xFF}},
	}

	for _, tt := range tests {
		buf := make([]byte, 4)
		n := bacnet.EncodeSigned(buf, tt.value)
		assert.Equal(t, tt.want, buf[:n], "value %d", tt.value)
		assert.Equal(t, n, bacnet.EncodeSigned(nil, tt.value))

		got, m, err := bacnet.DecodeSignedValue(buf[:n], uint32(n))
		require.NoError(t, err)
		assert.Equal(t, n, m)
		assert.Equal(t, tt.value, got)
	}
}

func TestSigned_TaggedRoundTrip(t *testing.T) {
	values := []int32{0, -1, 100, -100, 40000, -40000, math.MinInt32, math.MaxInt32}

	for _, v := range values {
		buf := make([]byte, 8)
		n := bacnet.EncodeApplicationSigned(buf, v)
		got, m, err := bacnet.DecodeApplicationSigned(buf[:n])
		require.NoError(t, err)
		assert.Equal(t, v, got)
		assert.Equal(t, n, m)

		n = bacnet.EncodeContextSigned(buf, 7, v)
		got, m, err = bacnet.DecodeContextSigned(buf[:n], 7)
		require.NoError(t, err)
		assert.Equal(t, v, got)
		assert.Equal(t, n, m)
	}

	_, _, err := bacnet.DecodeSignedValue(make([]byte, 5), 5)
	assert.ErrorIs(t, err, bacnet.ErrValueOutOfRange)
}

func TestEnumerated(t *testing.T) {
	buf := make([]byte, 8)
	n := bacnet.EncodeApplicationEnumerated(buf, 85)
	assert.Equal(t, []byte{0x91, 0x55}, buf[:n])

	value, m, err := bacnet.DecodeApplicationEnumerated(buf[:n])
	require.NoError(t, err)
	assert.Equal(t, uint32(85), value)
	assert.Equal(t, 2, m)

	n = bacnet.EncodeContextEnumerated(buf, 1, math.MaxUint32)
	assert.Equal(t, []byte{0x1C, 0xFF, 0xFF, 0xFF, 0xFF}, buf[:n])

	value, _, err = bacnet.DecodeContextEnumerated(buf[:n], 1)
	require.NoError(t, err)
	assert.Equal(t, uint32(math.MaxUint32), value)

	_, _, err = bacnet.DecodeEnumeratedValue(make([]byte, 5), 5)
	assert.ErrorIs(t, err, bacnet.ErrValueOutOfRange)

	_, _, err = bacnet.DecodeApplicationEnumerated([]byte{0x21, 0x55})
	assert.ErrorIs(t, err, bacnet.ErrUnexpectedTag)
}

func TestEncodeUnsigned_ShortBuffer(t *testing.T) {
	buf := []byte{0xAA, 0xAA}
	assert.Equal(t, 0, bacnet.EncodeApplicationUnsigned(buf, 1000))
	assert.Equal(t, []byte{0xAA, 0xAA}, buf)
	assert.Equal(t, 3, bacnet.EncodeApplicationUnsigned(nil, 1000))
	assert.Equal(t, 0, bacnet.EncodeContextUnsigned(nil, bacnet.ReservedTagNumber, 1))
}
