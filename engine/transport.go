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

import "time"

// Transport is the sans-I/O boundary: the engine calls out through this
// interface to move bytes and schedule timers, and never blocks or performs
// I/O itself. A concrete implementation (e.g. a net.Conn-backed transport)
// drives the engine's OnBytes/OnTransportConnected/OnTransportClosed/
// OnTimerTick entry points from the other side.
type Transport interface {
	// EmitBytes hands wire bytes to the transport for writing. The call
	// must not block; a slow transport should buffer internally.
	EmitBytes(b []byte) error

	// Disconnect asks the transport to close the underlying connection.
	// The engine considers the connection gone once OnTransportClosed is
	// subsequently invoked by the transport.
	Disconnect() error

	// ScheduleTimer arranges for fn to be invoked no sooner than d from
	// now. It returns a cancel function. The engine does not call it:
	// heartbeat ticks reach the engine through OnTimerTick, which the
	// transport drives itself.
	ScheduleTimer(d time.Duration, fn func()) (cancel func())
}
