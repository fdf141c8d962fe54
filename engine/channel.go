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
	"github.com/packetd/amqpcore/amqp"
)

// ChannelState is a channel's own sub-state, independent of the
// connection's lifecycle.
type ChannelState int

const (
	ChannelOpening ChannelState = iota
	ChannelOpen
	ChannelClosing
	ChannelClosed
)

// pendingContent tracks an in-flight content-header + body reassembly.
// At most one may be outstanding per channel; a second ContentHeader
// arriving before BytesAccumulated reaches BodySize is ErrUnexpectedFrame.
type pendingContent struct {
	header           *amqp.ContentHeader
	bytesAccumulated uint64
	body             []byte
}

// Channel is a single multiplexed AMQP channel. It holds only a numeric
// back-reference to its owning connection, never a pointer to it, so
// ownership stays one-directional: Connection -> Channel.
type Channel struct {
	Number uint16
	State  ChannelState

	pending *pendingContent
}

func newChannel(number uint16) *Channel {
	return &Channel{Number: number, State: ChannelOpening}
}

// onContentHeader begins reassembly of a new content body. A zero BodySize
// has no ContentBody frame to follow it, so it is delivered immediately:
// the returned header/body are non-nil exactly when the message is already
// complete. Returns ErrUnexpectedFrame if a reassembly is already in
// progress.
func (c *Channel) onContentHeader(h *amqp.ContentHeader) (*amqp.ContentHeader, []byte, error) {
	if c.pending != nil {
		return nil, nil, ErrUnexpectedFrame
	}
	if h.BodySize == 0 {
		return h, []byte{}, nil
	}
	c.pending = &pendingContent{
		header: h,
		body:   make([]byte, 0, h.BodySize),
	}
	return nil, nil, nil
}

// onContentBody appends a body fragment. When the accumulated size reaches
// the header's declared body_size, it returns the completed header and
// body and clears the pending reassembly; otherwise both return values are
// nil/zero and reassembly continues on the next fragment.
func (c *Channel) onContentBody(frag []byte) (*amqp.ContentHeader, []byte, error) {
	if c.pending == nil {
		return nil, nil, ErrUnexpectedFrame
	}
	c.pending.body = append(c.pending.body, frag...)
	c.pending.bytesAccumulated += uint64(len(frag))

	if c.pending.bytesAccumulated < c.pending.header.BodySize {
		return nil, nil, nil
	}

	h := c.pending.header
	body := c.pending.body
	c.pending = nil
	return h, body, nil
}

// fragmentFrameOverhead is the per ContentBody frame envelope cost: 7-byte
// header plus 1-byte end marker.
const fragmentFrameOverhead = frameHeaderLen + frameEndLen

const (
	frameHeaderLen = 7
	frameEndLen    = 1
)

// defaultFrameMax is used by fragmentBody when no frame_max was negotiated
// (frameMax == 0), matching the connection-level default pika/the AMQP
// 0-9-1 spec fall back to rather than emitting one unbounded frame.
const defaultFrameMax = 131072

// fragmentBody splits body into ContentBody frames no larger than
// frameMax - fragmentFrameOverhead bytes each. Returns ErrFrameTooSmall if
// frameMax leaves no room for even one byte of payload.
func fragmentBody(channel uint16, body []byte, frameMax uint32) ([]*amqp.ContentBody, error) {
	if frameMax == 0 {
		frameMax = defaultFrameMax
	}
	if frameMax <= fragmentFrameOverhead {
		return nil, amqp.ErrFrameTooSmall
	}

	maxChunk := int(frameMax) - fragmentFrameOverhead
	if len(body) == 0 {
		return nil, nil
	}

	var frames []*amqp.ContentBody
	for off := 0; off < len(body); off += maxChunk {
		end := off + maxChunk
		if end > len(body) {
			end = len(body)
		}
		frames = append(frames, &amqp.ContentBody{Channel: channel, Fragment: body[off:end]})
	}
	return frames, nil
}
