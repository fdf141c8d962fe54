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

// maxIdleIntervals is the number of consecutive timer ticks with no bytes
// read from the transport that are tolerated before the connection is
// declared dead. Two full intervals gives the peer a grace period beyond
// the negotiated heartbeat for jitter and a single dropped heartbeat frame.
const maxIdleIntervals = 2

// heartbeatMonitor counts consecutive idle timer ticks on both the read
// and write side. OnTimerTick is driven once per negotiated heartbeat
// interval by the transport; OnBytesRead/OnBytesSent reset the respective
// counter whenever real traffic (including a Heartbeat frame) is observed.
type heartbeatMonitor struct {
	enabled     bool
	idleReads   int
	idleWrites  int
	sawReadByte bool
	sawWriteByte bool
}

func newHeartbeatMonitor(intervalSec uint16) *heartbeatMonitor {
	return &heartbeatMonitor{enabled: intervalSec > 0}
}

func (h *heartbeatMonitor) OnBytesRead() {
	h.sawReadByte = true
}

func (h *heartbeatMonitor) OnBytesSent() {
	h.sawWriteByte = true
}

// Tick advances one heartbeat interval. sendHeartbeat reports whether the
// caller should emit a Heartbeat frame (no outbound traffic was observed
// this interval); dead reports whether maxIdleIntervals consecutive
// intervals produced no inbound traffic, meaning the connection should be
// force-closed.
func (h *heartbeatMonitor) Tick() (sendHeartbeat bool, dead bool) {
	if !h.enabled {
		return false, false
	}

	if h.sawReadByte {
		h.idleReads = 0
	} else {
		h.idleReads++
	}
	if h.sawWriteByte {
		h.idleWrites = 0
	} else {
		h.idleWrites++
		sendHeartbeat = true
	}
	h.sawReadByte = false
	h.sawWriteByte = false

	dead = h.idleReads >= maxIdleIntervals
	return sendHeartbeat, dead
}
