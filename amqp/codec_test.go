// Copyright 2025 The packetd Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package amqp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncoderBitPacking(t *testing.T) {
	e := newEncoder()
	defer e.Release()

	e.WriteBit(true)
	e.WriteBit(false)
	e.WriteBit(true)
	e.WriteOctet(0xFF) // flushes the pending bit octet

	b := e.Bytes()
	require.Len(t, b, 2)
	assert.Equal(t, byte(0b00000101), b[0])
	assert.Equal(t, byte(0xFF), b[1])
}

func TestEncoderBitPackingOverflowsToNextOctet(t *testing.T) {
	e := newEncoder()
	defer e.Release()

	for i := 0; i < 9; i++ {
		e.WriteBit(true)
	}
	b := e.Bytes()
	require.Len(t, b, 2)
	assert.Equal(t, byte(0xFF), b[0])
	assert.Equal(t, byte(0x01), b[1])
}

func TestDecoderBitPackingRoundTrip(t *testing.T) {
	e := newEncoder()
	e.WriteBit(true)
	e.WriteBit(false)
	e.WriteBit(false)
	e.WriteBit(true)
	e.WriteShort(42)
	b := append([]byte(nil), e.Bytes()...)
	e.Release()

	d := newDecoder(b)
	v1, err := d.ReadBit()
	require.NoError(t, err)
	v2, err := d.ReadBit()
	require.NoError(t, err)
	v3, err := d.ReadBit()
	require.NoError(t, err)
	v4, err := d.ReadBit()
	require.NoError(t, err)
	short, err := d.ReadShort()
	require.NoError(t, err)

	assert.True(t, v1)
	assert.False(t, v2)
	assert.False(t, v3)
	assert.True(t, v4)
	assert.Equal(t, uint16(42), short)
}

func TestDecoderShortBufferErrors(t *testing.T) {
	d := newDecoder([]byte{0x01})
	_, err := d.ReadShort()
	assert.ErrorIs(t, err, ErrShortBuffer)
}

func TestShortStrTooLong(t *testing.T) {
	e := newEncoder()
	defer e.Release()
	long := make([]byte, 256)
	err := e.WriteShortStr(string(long))
	assert.ErrorIs(t, err, ErrShortStrTooLong)
}
