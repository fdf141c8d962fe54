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

func TestEncodeDecodeMethodFrameRoundTrip(t *testing.T) {
	method := &Method{
		Channel:  1,
		ClassID:  ClassConnection,
		MethodID: 10,
		Args: &ConnectionStart{
			VersionMajor:     0,
			VersionMinor:     9,
			ServerProperties: FieldTable{"product": "broker"},
			Mechanisms:       "PLAIN",
			Locales:          "en_US",
		},
	}

	b, err := EncodeFrame(method)
	require.NoError(t, err)
	assert.Equal(t, byte(FrameMethod), b[0])
	assert.Equal(t, byte(0xCE), b[len(b)-1])

	fd := &FrameDecoder{}
	frames, err := fd.Feed(b)
	require.NoError(t, err)
	require.Len(t, frames, 1)

	got, ok := frames[0].(*Method)
	require.True(t, ok)
	assert.Equal(t, uint16(1), got.Channel)
	start, ok := got.Args.(*ConnectionStart)
	require.True(t, ok)
	assert.Equal(t, "PLAIN", start.Mechanisms)
	assert.Equal(t, "broker", start.ServerProperties["product"])
}

func TestFrameDecoderStreamingIsChunkBoundaryInvariant(t *testing.T) {
	method := &Method{
		Channel:  0,
		ClassID:  ClassConnection,
		MethodID: 51,
		Args:     &ConnectionCloseOk{},
	}
	b, err := EncodeFrame(method)
	require.NoError(t, err)

	// Feeding the whole stream at once, one byte at a time, and split
	// arbitrarily must all yield the same frame sequence.
	whole := &FrameDecoder{}
	wholeFrames, err := whole.Feed(b)
	require.NoError(t, err)
	require.Len(t, wholeFrames, 1)

	byteAtATime := &FrameDecoder{}
	var collected []Frame
	for _, c := range b {
		frames, err := byteAtATime.Feed([]byte{c})
		require.NoError(t, err)
		collected = append(collected, frames...)
	}
	require.Len(t, collected, 1)

	split := &FrameDecoder{}
	mid := len(b) / 3
	f1, err := split.Feed(b[:mid])
	require.NoError(t, err)
	assert.Empty(t, f1)
	f2, err := split.Feed(b[mid:])
	require.NoError(t, err)
	require.Len(t, f2, 1)
}

func TestFrameDecoderBadFraming(t *testing.T) {
	b, err := EncodeFrame(&Heartbeat{})
	require.NoError(t, err)
	b[len(b)-1] = 0x00 // corrupt the end marker

	fd := &FrameDecoder{}
	_, err = fd.Feed(b)
	assert.ErrorIs(t, err, ErrBadFraming)
}

func TestFrameDecoderSurfacesProtocolVersionReject(t *testing.T) {
	reject := []byte{'A', 'M', 'Q', 'P', 0, 0, 9, 1}
	fd := &FrameDecoder{}
	frames, err := fd.Feed(reject)
	require.NoError(t, err)
	require.Len(t, frames, 1)
	_, ok := frames[0].(*ProtocolHeader)
	assert.True(t, ok)
}
