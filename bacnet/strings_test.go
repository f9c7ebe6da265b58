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
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgeo-scada/bacnet/bacnet"
)

func TestOctetString(t *testing.T) {
	buf := make([]byte, 8)

	n := bacnet.EncodeApplicationOctetString(buf, []byte{0xAB, 0xCD})
	assert.Equal(t, []byte{0x62, 0xAB, 0xCD}, buf[:n])

	v, m, err := bacnet.DecodeApplicationOctetString(buf[:n])
	require.NoError(t, err)
	assert.Equal(t, []byte{0xAB, 0xCD}, v)
	assert.Equal(t, 3, m)

	// decoded value does not alias the input
	buf[1] = 0x00
	assert.Equal(t, []byte{0xAB, 0xCD}, v)

	n = bacnet.EncodeApplicationOctetString(buf, nil)
	assert.Equal(t, []byte{0x60}, buf[:n])
	v, m, err = bacnet.DecodeApplicationOctetString(buf[:n])
	require.NoError(t, err)
	assert.Empty(t, v)
	assert.Equal(t, 1, m)

	n = bacnet.EncodeContextOctetString(buf, 1, []byte{0x01})
	assert.Equal(t, []byte{0x19, 0x01}, buf[:n])
	v, _, err = bacnet.DecodeContextOctetString(buf[:n], 1)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01}, v)
}

func TestCharacterString_UTF8(t *testing.T) {
	cs, err := bacnet.NewCharacterString("abc", bacnet.CharacterSetUTF8)
	require.NoError(t, err)

	buf := make([]byte, 8)
	n := bacnet.EncodeApplicationCharacterString(buf, cs)
	assert.Equal(t, []byte{0x74, 0x00, 0x61, 0x62, 0x63}, buf[:n])

	v, m, err := bacnet.DecodeApplicationCharacterString(buf[:n])
	require.NoError(t, err)
	assert.Equal(t, 5, m)
	assert.Equal(t, bacnet.CharacterSetUTF8, v.Encoding)
	assert.Equal(t, "abc", v.String())

	n = bacnet.EncodeContextCharacterString(buf, 2, cs)
	v, _, err = bacnet.DecodeContextCharacterString(buf[:n], 2)
	require.NoError(t, err)
	assert.Equal(t, "abc", v.String())
}

func TestCharacterString_Empty(t *testing.T) {
	_, _, err := bacnet.DecodeApplicationCharacterString([]byte{0x70})
	assert.ErrorIs(t, err, bacnet.ErrMalformedTag)

	v, m, err := bacnet.DecodeApplicationCharacterString([]byte{0x71, 0x00})
	require.NoError(t, err)
	assert.Equal(t, 2, m)
	assert.Equal(t, "", v.String())

	buf := make([]byte, 4)
	n := bacnet.EncodeApplicationCharacterString(buf, bacnet.CharacterString{})
	assert.Equal(t, []byte{0x71, 0x00}, buf[:n])
}

func TestCharacterString_CharacterSets(t *testing.T) {
	tests := []struct {
		name string
		text string
		cs   bacnet.CharacterSet
		want []byte
	}{
		{"iso-8859-1", "é", bacnet.CharacterSetISO8859_1, []byte{0xE9}},
		{"ucs-2", "Aé", bacnet.CharacterSetUCS2, []byte{0x00, 0x41, 0x00, 0xE9}},
		{"ucs-4", "A", bacnet.CharacterSetUCS4, []byte{0x00, 0x00, 0x00, 0x41}},
		{"utf-8", "é", bacnet.CharacterSetUTF8, []byte{0xC3, 0xA9}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cs, err := bacnet.NewCharacterString(tt.text, tt.cs)
			require.NoError(t, err)
			assert.Equal(t, tt.want, cs.Value)

			buf := make([]byte, 16)
			n := bacnet.EncodeApplicationCharacterString(buf, cs)
			assert.Equal(t, byte(tt.cs), buf[1])

			v, _, err := bacnet.DecodeApplicationCharacterString(buf[:n])
			require.NoError(t, err)
			text, err := v.Text()
			require.NoError(t, err)
			assert.Equal(t, tt.text, text)
		})
	}
}

func TestCharacterString_Unsupported(t *testing.T) {
	_, err := bacnet.NewCharacterString("x", bacnet.CharacterSetDBCS)
	assert.ErrorIs(t, err, bacnet.ErrUnsupportedCharacterSet)

	_, err = bacnet.NewCharacterString("€", bacnet.CharacterSetISO8859_1)
	assert.ErrorIs(t, err, bacnet.ErrValueOutOfRange)

	// decoding keeps the octets of a set it cannot convert
	v, _, err := bacnet.DecodeApplicationCharacterString([]byte{0x73, 0x02, 0x30, 0x42})
	require.NoError(t, err)
	assert.Equal(t, bacnet.CharacterSetJISX0208, v.Encoding)
	assert.Equal(t, []byte{0x30, 0x42}, v.Value)
	_, err = v.Text()
	assert.ErrorIs(t, err, bacnet.ErrUnsupportedCharacterSet)
	assert.Equal(t, "jis-x-0208:3042", v.String())
}

func TestParseCharacterSet(t *testing.T) {
	for cs := bacnet.CharacterSetUTF8; cs <= bacnet.CharacterSetISO8859_1; cs++ {
		got, ok := bacnet.ParseCharacterSet(cs.String())
		assert.True(t, ok)
		assert.Equal(t, cs, got)
	}
	_, ok := bacnet.ParseCharacterSet("ebcdic")
	assert.False(t, ok)
}

func TestEncodeCharacterStringSafe(t *testing.T) {
	buf := make([]byte, 8)
	assert.Equal(t, 4, bacnet.EncodeCharacterStringSafe(buf, 4, bacnet.CharacterSetUTF8, []byte("abc")))
	assert.Equal(t, []byte{0x00, 'a', 'b', 'c'}, buf[:4])

	clear(buf)
	assert.Equal(t, 0, bacnet.EncodeCharacterStringSafe(buf, 3, bacnet.CharacterSetUTF8, []byte("abc")))
	assert.Equal(t, make([]byte, 8), buf)
}

func TestCharacterString_ExtendedLength(t *testing.T) {
	cs := bacnet.CharacterString{Encoding: bacnet.CharacterSetUTF8, Value: bytes.Repeat([]byte("x"), 300)}

	n := bacnet.EncodeApplicationCharacterString(nil, cs)
	require.Equal(t, 4+301, n)

	buf := make([]byte, n)
	require.Equal(t, n, bacnet.EncodeApplicationCharacterString(buf, cs))
	assert.Equal(t, []byte{0x75, 0xFE, 0x01, 0x2D, 0x00}, buf[:5])

	v, m, err := bacnet.DecodeApplicationCharacterString(buf)
	require.NoError(t, err)
	assert.Equal(t, n, m)
	assert.Equal(t, cs.Value, v.Value)

	_, _, err = bacnet.DecodeApplicationCharacterString(buf[:n-1])
	assert.ErrorIs(t, err, bacnet.ErrBufferOverrun)
}
