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
	"github.com/pkg/errors"

	"github.com/packetd/amqpcore/amqp"
)

// LifecycleState is the monotone-except-for-reset connection state flag.
type LifecycleState int

const (
	StateInit LifecycleState = iota
	StateProtocolHeaderSent
	StateAwaitingStart
	StateAwaitingTune
	StateAwaitingOpenOk
	StateOpen
	StateClosing
	StateClosed
)

func (s LifecycleState) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateProtocolHeaderSent:
		return "protocol-header-sent"
	case StateAwaitingStart:
		return "awaiting-start"
	case StateAwaitingTune:
		return "awaiting-tune"
	case StateAwaitingOpenOk:
		return "awaiting-open-ok"
	case StateOpen:
		return "open"
	case StateClosing:
		return "closing"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// defaultChannelMax is used whenever the broker or the client leaves
// channel_max unset (0 means "no preference" during negotiation).
const defaultChannelMax = 32767

// minFrameMax is the floor frame_max is silently clamped up to, per the
// AMQP 0-9-1 spec.
const minFrameMax = 4096

// CloseReason carries the code/text pair attached to a connection or
// channel close, whichever side initiated it.
type CloseReason struct {
	Code uint16
	Text string
}

// ConnectionState is the negotiated-limits-and-lifecycle record for a
// single connection. It is rebuilt from scratch on every reconnection.
type ConnectionState struct {
	ChannelMax  uint16
	FrameMax    uint32
	Heartbeat   uint16
	Lifecycle   LifecycleState
	ServerProps amqp.FieldTable
	KnownHosts  []string
	CloseReason *CloseReason
}

func newConnectionState() *ConnectionState {
	return &ConnectionState{Lifecycle: StateInit}
}

// combine implements the AMQP negotiation rule: 0 means "no preference";
// if either side is 0 the other's value wins, otherwise the smaller of the
// two wins.
func combine(client, server uint32) uint32 {
	if client == 0 {
		return server
	}
	if server == 0 {
		return client
	}
	if client < server {
		return client
	}
	return server
}

func combine16(client, server uint16) uint16 {
	return uint16(combine(uint32(client), uint32(server)))
}

var (
	// ErrProtocolVersionMismatch is fatal: the server replied to our
	// protocol header with its own, meaning it doesn't speak the version
	// we offered.
	ErrProtocolVersionMismatch = errors.New("engine: server rejected protocol version")

	// ErrLoginError is returned when no credential mechanism offered by
	// Credentials.ResponseFor matches one the server announced.
	ErrLoginError = errors.New("engine: no supported SASL mechanism")

	// ErrUnexpectedFrame signals a frame arriving in a state that forbids
	// it, e.g. a non-channel-0 method before the connection is Open, or a
	// second ContentHeader before a pending body completes.
	ErrUnexpectedFrame = errors.New("engine: unexpected frame for current state")

	// ErrNoFreeChannels is returned by channel allocation once every
	// number up to channel_max is in use.
	ErrNoFreeChannels = errors.New("engine: no free channel numbers")

	// ErrConnectionClosed is returned by OpenChannel when the connection is
	// not in StateOpen (before the handshake completes, or once closing or
	// closed).
	ErrConnectionClosed = errors.New("engine: connection is closed")
)
