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

func TestMethodRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		args MethodArgs
	}{
		{
			name: "connection.start",
			args: &ConnectionStart{
				VersionMajor:     0,
				VersionMinor:     9,
				ServerProperties: FieldTable{"product": "broker"},
				Mechanisms:       "PLAIN AMQPLAIN",
				Locales:          "en_US",
			},
		},
		{
			name: "connection.tune",
			args: &ConnectionTune{ChannelMax: 2047, FrameMax: 131072, Heartbeat: 60},
		},
		{
			name: "connection.close-ok",
			args: &ConnectionCloseOk{},
		},
		{
			name: "channel.close-ok",
			args: &ChannelCloseOk{},
		},
		{
			name: "basic.deliver",
			args: &BasicDeliver{
				ConsumerTag: "ctag-2",
				DeliveryTag: 7,
				Redelivered: false,
				Exchange:    "amq.direct",
				RoutingKey:  "rk",
			},
		},
		{
			name: "basic.get-ok",
			args: &BasicGetOk{
				DeliveryTag:  9,
				Redelivered:  true,
				Exchange:     "amq.direct",
				RoutingKey:   "rk",
				MessageCount: 3,
			},
		},
		{
			name: "basic.nack",
			args: &BasicNack{DeliveryTag: 11, Multiple: true, Requeue: false},
		},
		{
			name: "connection.start-ok",
			args: &ConnectionStartOk{
				ClientProperties: FieldTable{"product": "amqpcore"},
				Mechanism:        "PLAIN",
				Response:         []byte{0, 'g', 'u', 'e', 's', 't', 0, 'g', 'u', 'e', 's', 't'},
				Locale:           "en_US",
			},
		},
		{
			name: "queue.declare",
			args: &QueueDeclare{Queue: "orders", Durable: true, Arguments: FieldTable{"x-ttl": int32(1000)}},
		},
		{
			name: "queue.declare-ok",
			args: &QueueDeclareOk{Queue: "orders", MessageCount: 5, ConsumerCount: 1},
		},
		{
			name: "basic.publish",
			args: &BasicPublish{Exchange: "amq.topic", RoutingKey: "orders.created", Mandatory: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload, err := Encode(tt.args)
			require.NoError(t, err)

			decoded, err := DecodeMethodArgs(tt.args.ClassID(), tt.args.MethodID(), payload)
			require.NoError(t, err)
			assert.Equal(t, tt.args, decoded)
		})
	}
}

func TestDecodeMethodArgsUnknownMethod(t *testing.T) {
	_, err := DecodeMethodArgs(9999, 1, nil)
	assert.ErrorIs(t, err, ErrUnknownMethod)
}

func TestClassMethodName(t *testing.T) {
	assert.Equal(t, "basic.publish", ClassMethodName(ClassBasic, 40))
	assert.Equal(t, "9999.1", ClassMethodName(9999, 1))
}

func TestNeedsContent(t *testing.T) {
	assert.True(t, NeedsContent(ClassBasic, 40)) // publish
	assert.True(t, NeedsContent(ClassBasic, 60)) // deliver
	assert.False(t, NeedsContent(ClassQueue, 10))
}
