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

var testMAC = []byte{0xC0, 0xA8, 0x01, 0x0A, 0xBA, 0xC0}

func TestAddress(t *testing.T) {
	addr := bacnet.Address{Net: 5, Addr: testMAC}

	buf := make([]byte, 16)
	n := bacnet.EncodeAddress(buf, addr)
	want := append([]byte{0x21, 0x05, 0x65, 0x06}, testMAC...)
	assert.Equal(t, want, buf[:n])
	assert.Equal(t, n, bacnet.EncodeAddress(nil, addr))

	v, m, err := bacnet.DecodeAddress(buf[:n])
	require.NoError(t, err)
	assert.Equal(t, addr, v)
	assert.Equal(t, n, m)
	assert.Equal(t, "5:c0a8010abac0", v.String())
}

func TestAddress_Context(t *testing.T) {
	addr := bacnet.Address{Net: 5, Addr: testMAC}

	buf := make([]byte, 16)
	n := bacnet.EncodeContextAddress(buf, 1, addr)
	require.Equal(t, 12, n)
	assert.Equal(t, byte(0x1E), buf[0])
	assert.Equal(t, byte(0x1F), buf[n-1])

	v, m, err := bacnet.DecodeContextAddress(buf[:n], 1)
	require.NoError(t, err)
	assert.Equal(t, addr, v)
	assert.Equal(t, n, m)

	_, _, err = bacnet.DecodeContextAddress(buf[:n], 2)
	assert.ErrorIs(t, err, bacnet.ErrUnexpectedTag)

	_, _, err = bacnet.DecodeContextAddress(buf[:n-1], 1)
	assert.ErrorIs(t, err, bacnet.ErrBufferOverrun)

	assert.Equal(t, 0, bacnet.EncodeContextAddress(buf[:11], 1, addr))
}

func TestAddress_Broadcast(t *testing.T) {
	addr := bacnet.Address{Net: 0xFFFF}
	assert.True(t, addr.IsBroadcast())

	buf := make([]byte, 8)
	n := bacnet.EncodeAddress(buf, addr)
	assert.Equal(t, []byte{0x22, 0xFF, 0xFF, 0x60}, buf[:n])

	v, _, err := bacnet.DecodeAddress(buf[:n])
	require.NoError(t, err)
	assert.True(t, v.IsBroadcast())
	assert.Equal(t, uint16(0xFFFF), v.Net)
	assert.Equal(t, "65535:*", v.String())
}

func TestAddress_OutOfRange(t *testing.T) {
	// network number 65536
	_, _, err := bacnet.DecodeAddress([]byte{0x23, 0x01, 0x00, 0x00, 0x60})
	assert.ErrorIs(t, err, bacnet.ErrValueOutOfRange)

	long := make([]byte, bacnet.MaxMACLength+1)
	assert.Equal(t, 0, bacnet.EncodeAddress(nil, bacnet.Address{Net: 1, Addr: long}))

	data := []byte{0x21, 0x01, 0x65, byte(len(long))}
	data = append(data, long...)
	_, _, err = bacnet.DecodeAddress(data)
	assert.ErrorIs(t, err, bacnet.ErrValueOutOfRange)

	_, _, err = bacnet.DecodeAddress([]byte{0x21, 0x01, 0x21, 0x01})
	assert.ErrorIs(t, err, bacnet.ErrUnexpectedTag)
}
