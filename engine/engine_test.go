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

package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/packetd/amqpcore/amqp"
)

func feedMethod(t *testing.T, e *Engine, channel uint16, args amqp.MethodArgs) {
	t.Helper()
	b, err := amqp.EncodeFrame(&amqp.Method{Channel: channel, ClassID: args.ClassID(), MethodID: args.MethodID(), Args: args})
	require.NoError(t, err)
	require.NoError(t, e.OnBytes(b))
}

func TestHandshakeHappyPath(t *testing.T) {
	transport := &fakeTransport{}
	e := New(transport, Options{Credentials: GuestCredentials()})

	require.NoError(t, e.OnTransportConnected())
	require.Equal(t, 1, transport.sentCount()) // protocol header

	feedMethod(t, e, 0, &amqp.ConnectionStart{
		VersionMajor:     amqp.ProtocolVersionMajor,
		VersionMinor:     amqp.ProtocolVersionMinor,
		ServerProperties: amqp.FieldTable{"product": "broker"},
		Mechanisms:       "PLAIN",
		Locales:          "en_US",
	})
	assert.Equal(t, 2, transport.sentCount()) // StartOk

	feedMethod(t, e, 0, &amqp.ConnectionTune{ChannelMax: 2047, FrameMax: 131072, Heartbeat: 60})
	assert.Equal(t, 4, transport.sentCount()) // TuneOk + Open

	feedMethod(t, e, 0, &amqp.ConnectionOpenOk{})
	assert.True(t, e.IsOpen())
	assert.Equal(t, uint16(2047), e.state.ChannelMax)
	assert.Equal(t, uint32(131072), e.state.FrameMax)
}

func TestHandshakeVersionMismatch(t *testing.T) {
	transport := &fakeTransport{}
	e := New(transport, Options{Credentials: GuestCredentials()})
	require.NoError(t, e.OnTransportConnected())

	// A server that cannot speak our protocol version replies with its own
	// protocol header instead of Connection.Start.
	err := e.OnBytes([]byte{'A', 'M', 'Q', 'P', 0, 0, 9, 1})
	assert.ErrorIs(t, err, ErrProtocolVersionMismatch)
	assert.Equal(t, StateClosed, e.state.Lifecycle)
}

func TestHandshakeUnsupportedMechanism(t *testing.T) {
	transport := &fakeTransport{}
	e := New(transport, Options{Credentials: GuestCredentials()})
	require.NoError(t, e.OnTransportConnected())

	err := e.OnBytes(must(t, &amqp.Method{
		Channel: 0, ClassID: amqp.ClassConnection, MethodID: 10,
		Args: &amqp.ConnectionStart{
			VersionMajor: amqp.ProtocolVersionMajor,
			VersionMinor: amqp.ProtocolVersionMinor,
			Mechanisms:   "EXTERNAL",
		},
	}))
	assert.ErrorIs(t, err, ErrLoginError)
}

func must(t *testing.T, m *amqp.Method) []byte {
	t.Helper()
	b, err := amqp.EncodeFrame(m)
	require.NoError(t, err)
	return b
}

func TestContentFragmentation(t *testing.T) {
	// frame_max=4096 leaves 4088 bytes of payload per ContentBody frame
	// (7-byte envelope header + 1-byte end marker overhead); a 10000-byte
	// body splits into 4088 + 4088 + 1824.
	body := make([]byte, 10000)
	frames, err := fragmentBody(1, body, 4096)
	require.NoError(t, err)
	require.Len(t, frames, 3)
	assert.Len(t, frames[0].Fragment, 4088)
	assert.Len(t, frames[1].Fragment, 4088)
	assert.Len(t, frames[2].Fragment, 1824)
}

func TestContentFragmentationFrameTooSmall(t *testing.T) {
	_, err := fragmentBody(1, []byte("x"), 8)
	assert.ErrorIs(t, err, amqp.ErrFrameTooSmall)
}

func TestChannelExhaustion(t *testing.T) {
	transport := &fakeTransport{}
	e := New(transport, Options{Credentials: GuestCredentials()})
	e.state.Lifecycle = StateOpen
	e.state.ChannelMax = 2

	var opened []uint16
	require.NoError(t, e.OpenChannel(func(ch uint16, err error) { opened = append(opened, ch) }))
	require.NoError(t, e.OpenChannel(func(ch uint16, err error) { opened = append(opened, ch) }))

	err := e.OpenChannel(func(ch uint16, err error) {})
	assert.ErrorIs(t, err, ErrNoFreeChannels)
	assert.Len(t, e.channels, 2)
}

func TestRemoteClose(t *testing.T) {
	transport := &fakeTransport{}
	e := New(transport, Options{Credentials: GuestCredentials()})
	e.state.Lifecycle = StateOpen

	var reason any
	e.AddOnCloseCallback(true, func(args ...any) {
		if len(args) > 0 {
			reason = args[0]
		}
	})

	feedMethod(t, e, 0, &amqp.ConnectionClose{ReplyCode: 320, ReplyText: "CONNECTION_FORCED"})
	assert.Equal(t, StateClosing, e.state.Lifecycle)
	require.NotNil(t, e.state.CloseReason)
	assert.Equal(t, uint16(320), e.state.CloseReason.Code)

	// The engine must have replied with Connection.Close-Ok.
	last := transport.last()
	require.NotNil(t, last)

	e.OnTransportClosed()
	assert.Equal(t, StateClosed, e.state.Lifecycle)
	closeReason, ok := reason.(*CloseReason)
	require.True(t, ok)
	assert.Equal(t, uint16(320), closeReason.Code)
}

func TestLocalCloseDrainsChannelsBeforeConnectionClose(t *testing.T) {
	transport := &fakeTransport{}
	e := New(transport, Options{Credentials: GuestCredentials()})
	e.state.Lifecycle = StateOpen

	var opened []uint16
	require.NoError(t, e.OpenChannel(func(ch uint16, err error) { opened = append(opened, ch) }))
	require.NoError(t, e.OpenChannel(func(ch uint16, err error) { opened = append(opened, ch) }))
	require.Len(t, e.channels, 2)

	require.NoError(t, e.Close(200, "goodbye"))
	assert.Equal(t, StateClosing, e.state.Lifecycle)

	// Close sent one Channel.Close per open channel; no Connection.Close yet,
	// since both channels are still in the map.
	decodeLastMethod := func() *amqp.Method {
		fd := &amqp.FrameDecoder{}
		frames, err := fd.Feed(transport.last())
		require.NoError(t, err)
		require.Len(t, frames, 1)
		m, ok := frames[0].(*amqp.Method)
		require.True(t, ok)
		return m
	}
	last := decodeLastMethod()
	_, isChannelClose := last.Args.(*amqp.ChannelClose)
	assert.True(t, isChannelClose)

	// First channel's Close-Ok drains one entry; Connection.Close must still
	// wait on the second.
	feedMethod(t, e, 1, &amqp.ChannelCloseOk{})
	require.Len(t, e.channels, 1)
	last = decodeLastMethod()
	_, isChannelCloseOk := last.Args.(*amqp.ChannelCloseOk)
	assert.False(t, isChannelCloseOk, "engine must not have replied to the remote; ChannelCloseOk drains silently")
	_, stillChannelClose := last.Args.(*amqp.ChannelClose)
	assert.True(t, stillChannelClose)

	// Draining the last channel must now emit Connection.Close.
	feedMethod(t, e, 2, &amqp.ChannelCloseOk{})
	require.Empty(t, e.channels)
	last = decodeLastMethod()
	closeArgs, ok := last.Args.(*amqp.ConnectionClose)
	require.True(t, ok, "expected Connection.Close once the last channel drained")
	assert.Equal(t, uint16(200), closeArgs.ReplyCode)
	assert.Equal(t, "goodbye", closeArgs.ReplyText)
}

func TestLocalCloseWithNoOpenChannelsEmitsConnectionCloseImmediately(t *testing.T) {
	transport := &fakeTransport{}
	e := New(transport, Options{Credentials: GuestCredentials()})
	e.state.Lifecycle = StateOpen

	require.NoError(t, e.Close(200, "goodbye"))

	fd := &amqp.FrameDecoder{}
	frames, err := fd.Feed(transport.last())
	require.NoError(t, err)
	require.Len(t, frames, 1)
	m, ok := frames[0].(*amqp.Method)
	require.True(t, ok)
	_, ok = m.Args.(*amqp.ConnectionClose)
	assert.True(t, ok)
}

func TestContentDeliveryZeroBodySize(t *testing.T) {
	transport := &fakeTransport{}
	e := New(transport, Options{Credentials: GuestCredentials()})
	e.state.Lifecycle = StateOpen

	require.NoError(t, e.OpenChannel(func(ch uint16, err error) {}))

	var gotHeader *amqp.ContentHeader
	var gotBody []byte
	delivered := false
	e.registry.Add(1, SymbolKey("on_content"), func(args ...any) {
		delivered = true
		gotHeader = args[0].(*amqp.ContentHeader)
		gotBody = args[1].([]byte)
	}, false)

	b, err := amqp.EncodeFrame(&amqp.ContentHeader{Channel: 1, ClassID: amqp.ClassBasic, BodySize: 0})
	require.NoError(t, err)
	require.NoError(t, e.OnBytes(b))

	require.True(t, delivered, "on_content must fire immediately for BodySize==0, with no ContentBody frame to follow")
	require.NotNil(t, gotHeader)
	assert.Equal(t, uint64(0), gotHeader.BodySize)
	assert.Empty(t, gotBody)
}

func TestFragmentBodyDefaultFrameMax(t *testing.T) {
	// With no frame_max negotiated (0), fragmentBody must fall back to the
	// connection-level default of 131072 instead of emitting one unbounded
	// frame.
	body := make([]byte, 131072+500)
	frames, err := fragmentBody(1, body, 0)
	require.NoError(t, err)
	require.Len(t, frames, 2)
	assert.Len(t, frames[0].Fragment, defaultFrameMax-fragmentFrameOverhead)
	assert.Len(t, frames[1].Fragment, 500+fragmentFrameOverhead)
}

func TestCombineNegotiation(t *testing.T) {
	assert.Equal(t, uint32(10), combine(0, 10))
	assert.Equal(t, uint32(10), combine(10, 0))
	assert.Equal(t, uint32(5), combine(5, 10))
	assert.Equal(t, uint32(5), combine(10, 5))
	assert.Equal(t, uint32(0), combine(0, 0))
}
