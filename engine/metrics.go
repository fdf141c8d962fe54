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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/packetd/amqpcore/common"
)

var (
	framesSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: common.App,
			Name:      "frames_sent_total",
			Help:      "frames emitted to the transport, by frame type",
		},
		[]string{"type"},
	)

	framesReceivedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: common.App,
			Name:      "frames_received_total",
			Help:      "frames decoded from the transport, by frame type",
		},
		[]string{"type"},
	)

	channelsOpen = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: common.App,
			Name:      "channels_open",
			Help:      "channels currently open on the connection",
		},
	)

	heartbeatTimeoutsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: common.App,
			Name:      "heartbeat_timeouts_total",
			Help:      "connections closed after consecutive missed heartbeats",
		},
	)

	rpcDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: common.App,
			Name:      "rpc_duration_seconds",
			Help:      "time from an RPC method send to its matching reply",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method"},
	)
)
