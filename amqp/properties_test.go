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
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPropertiesRoundTripSubset(t *testing.T) {
	p := Properties{
		ContentType:   "application/json",
		CorrelationID: "corr-1",
		ReplyTo:       "amq.rabbitmq.reply-to",
		MessageID:     "msg-1",
	}

	b, err := EncodeProperties(p)
	require.NoError(t, err)

	got, err := DecodeProperties(b)
	require.NoError(t, err)
	assert.Equal(t, p.ContentType, got.ContentType)
	assert.Equal(t, p.CorrelationID, got.CorrelationID)
	assert.Equal(t, p.ReplyTo, got.ReplyTo)
	assert.Equal(t, p.MessageID, got.MessageID)
	assert.Empty(t, got.ContentEncoding)
	assert.Nil(t, got.Headers)
}

func TestPropertiesRoundTripAllFields(t *testing.T) {
	ts := time.Unix(1700000000, 0).UTC()
	p := Properties{
		ContentType:     "application/json",
		ContentEncoding: "gzip",
		Headers:         FieldTable{"trace-id": "abc123"},
		DeliveryMode:    2,
		Priority:        5,
		CorrelationID:   "corr-1",
		ReplyTo:         "reply-queue",
		Expiration:      "60000",
		MessageID:       "msg-1",
		Timestamp:       ts,
		Type:            "order.created",
		UserID:          "guest",
		AppID:           "amqpcore",
		ClusterID:       "cluster-1",
	}

	b, err := EncodeProperties(p)
	require.NoError(t, err)

	got, err := DecodeProperties(b)
	require.NoError(t, err)
	assert.Equal(t, p.ContentType, got.ContentType)
	assert.Equal(t, p.ContentEncoding, got.ContentEncoding)
	assert.Equal(t, p.Headers["trace-id"], got.Headers["trace-id"])
	assert.Equal(t, p.DeliveryMode, got.DeliveryMode)
	assert.Equal(t, p.Priority, got.Priority)
	assert.Equal(t, p.CorrelationID, got.CorrelationID)
	assert.Equal(t, p.ReplyTo, got.ReplyTo)
	assert.Equal(t, p.Expiration, got.Expiration)
	assert.Equal(t, p.MessageID, got.MessageID)
	assert.True(t, p.Timestamp.Equal(got.Timestamp))
	assert.Equal(t, p.Type, got.Type)
	assert.Equal(t, p.UserID, got.UserID)
	assert.Equal(t, p.AppID, got.AppID)
	assert.Equal(t, p.ClusterID, got.ClusterID)
}

func TestPropertiesEmpty(t *testing.T) {
	b, err := EncodeProperties(Properties{})
	require.NoError(t, err)

	got, err := DecodeProperties(b)
	require.NoError(t, err)
	assert.Equal(t, Properties{}, got)
}
