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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgeo-scada/bacnet/bacnet"
)

func TestBitString_Encode(t *testing.T) {
	bs, err := bacnet.ParseBitString("101")
	require.NoError(t, err)
	assert.Equal(t, uint8(5), bs.UnusedBits())

	buf := make([]byte, 8)
	n := bacnet.EncodeApplicationBitString(buf, bs)
	assert.Equal(t, []byte{0x82, 0x05, 0xA0}, buf[:n])

	v, m, err := bacnet.DecodeApplicationBitString(buf[:n])
	require.NoError(t, err)
	assert.Equal(t, 3, m)
	assert.Equal(t, 3, v.Length)
	assert.Equal(t, "101", v.String())
	assert.True(t, v.Bit(0))
	assert.False(t, v.Bit(1))
	assert.True(t, v.Bit(2))
	assert.False(t, v.Bit(3))
}

func TestBitString_Empty(t *testing.T) {
	buf := make([]byte, 4)
	n := bacnet.EncodeApplicationBitString(buf, bacnet.BitString{})
	assert.Equal(t, []byte{0x81, 0x00}, buf[:n])

	v, _, err := bacnet.DecodeApplicationBitString(buf[:n])
	require.NoError(t, err)
	assert.Equal(t, 0, v.Length)

	v, m, err := bacnet.DecodeApplicationBitString([]byte{0x80})
	require.NoError(t, err)
	assert.Equal(t, 1, m)
	assert.Equal(t, 0, v.Length)
}

func TestBitString_Malformed(t *testing.T) {
	_, _, err := bacnet.DecodeApplicationBitString([]byte{0x82, 0x08, 0xFF})
	assert.ErrorIs(t, err, bacnet.ErrMalformedTag)

	_, _, err = bacnet.DecodeApplicationBitString([]byte{0x81, 0x03})
	assert.ErrorIs(t, err, bacnet.ErrMalformedTag)

	_, _, err = bacnet.DecodeApplicationBitString([]byte{0x83, 0x00, 0xFF})
	assert.ErrorIs(t, err, bacnet.ErrBufferOverrun)
}

func TestBitString_PaddingMasked(t *testing.T) {
	bs := bacnet.BitString{Length: 4, Bytes: []byte{0xFF}}

	buf := make([]byte, 4)
	n := bacnet.EncodeContextBitString(buf, 1, bs)
	assert.Equal(t, []byte{0x1A, 0x04, 0xF0}, buf[:n])

	v, _, err := bacnet.DecodeContextBitString(buf[:n], 1)
	require.NoError(t, err)
	assert.Equal(t, "1111", v.String())
}

func TestBitString_SetBit(t *testing.T) {
	var bs bacnet.BitString
	bs.SetBit(9, true)
	assert.Equal(t, 10, bs.Length)
	assert.Len(t, bs.Bytes, 2)
	assert.Equal(t, "0000000001", bs.String())

	bs.SetBit(9, false)
	assert.False(t, bs.Bit(9))
	assert.False(t, bs.Bit(42))

	_, err := bacnet.ParseBitString("10x")
	assert.Error(t, err)
}

func TestBitString_InvalidLength(t *testing.T) {
	buf := make([]byte, 8)
	tests := []bacnet.BitString{
		{Length: -3},
		{Length: 9, Bytes: []byte{0xFF}},
	}

	for _, bs := range tests {
		assert.False(t, bs.Valid())
		assert.Equal(t, 0, bacnet.EncodeBitString(nil, bs))
		assert.Equal(t, 0, bacnet.EncodeApplicationBitString(nil, bs))
		assert.Equal(t, 0, bacnet.EncodeApplicationBitString(buf, bs))
		assert.Equal(t, 0, bacnet.EncodeContextBitString(buf, 2, bs))

		_, err := bacnet.EncodeApplicationValue(buf, bs)
		assert.ErrorIs(t, err, bacnet.ErrValueOutOfRange)
	}
	assert.Equal(t, make([]byte, 8), buf)

	empty := bacnet.NewBitString(-3)
	assert.Equal(t, 0, empty.Length)
	assert.True(t, empty.Valid())

	empty.SetBit(-1, true)
	assert.Equal(t, 0, empty.Length)
}
