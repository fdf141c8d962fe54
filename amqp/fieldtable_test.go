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

func TestFieldTableRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		table FieldTable
	}{
		{
			name: "minimum required tags",
			table: FieldTable{
				"str":   "hello",
				"int":   int32(-12345),
				"dec":   Decimal{Scale: 2, Value: 12345},
				"ts":    time.Unix(1700000000, 0).UTC(),
				"table": FieldTable{"nested": int32(1)},
				"arr":   []any{int32(1), "two", true},
			},
		},
		{
			name:  "empty table",
			table: FieldTable{},
		},
		{
			name: "signed negative long survives round trip",
			table: FieldTable{
				"neg": int32(-1),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded, err := EncodeTable(tt.table)
			require.NoError(t, err)

			decoded, n, err := DecodeTable(encoded)
			require.NoError(t, err)
			assert.Equal(t, len(encoded), n)
			assert.Equal(t, len(tt.table), len(decoded))

			for k, v := range tt.table {
				assert.Equal(t, v, decoded[k], "key %q", k)
			}
		})
	}
}

func TestFieldTableSignedLongTag(t *testing.T) {
	// AMQP 0-9-1 defines the 'I' tag as a signed 32-bit integer. A naive
	// unsigned encoding (as pika's table.py does) would misround-trip a
	// negative value; this asserts the signed behavior this implementation
	// follows instead.
	encoded, err := EncodeTable(FieldTable{"v": int32(-1)})
	require.NoError(t, err)

	decoded, _, err := DecodeTable(encoded)
	require.NoError(t, err)
	assert.Equal(t, int32(-1), decoded["v"])
}

func TestDecodeTableShortBuffer(t *testing.T) {
	_, _, err := DecodeTable([]byte{0x00, 0x00})
	assert.ErrorIs(t, err, ErrShortBuffer)
}
