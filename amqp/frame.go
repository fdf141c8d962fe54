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
	"bytes"
	"encoding/binary"

	"github.com/valyala/bytebufferpool"
)

// Frame type tags, as they appear in the first octet of every non
// protocol-header frame on the wire.
const (
	FrameMethod        = 0x01
	FrameContentHeader = 0x02
	FrameContentBody   = 0x03
	FrameHeartbeat     = 0x08
)

const (
	frameHeaderLen = 7 // type(1) + channel(2) + payload length(4)
	frameEndLen    = 1
	frameEndOctet  = 0xCE
)

// ProtocolVersionMajor/Minor/Revision are the AMQP 0-9-1 protocol header
// constants this engine speaks: "AMQP" 0 0 9 1.
const (
	ProtocolVersionMajor    = 0
	ProtocolVersionMinor    = 9
	ProtocolVersionRevision = 1
)

// Frame is the closed sum of the five frame kinds the wire codec knows how
// to produce and consume.
type Frame interface {
	frameTag() byte
}

// ProtocolHeader is emitted exactly once, by the client, as the first bytes
// on a fresh transport; it is also how a version-mismatching server signals
// rejection, in which case it arrives as the very first frame read back.
type ProtocolHeader struct {
	Major    uint8
	Minor    uint8
	Revision uint8
}

func (ProtocolHeader) frameTag() byte { return 0 }

// Method carries a decoded method argument set addressed to a channel.
type Method struct {
	Channel  uint16
	ClassID  uint16
	MethodID uint16
	Args     MethodArgs
}

func (Method) frameTag() byte { return FrameMethod }

// ContentHeader precedes the body of a content-bearing method
// (Basic.Publish/Return/Deliver/Get-Ok).
type ContentHeader struct {
	Channel    uint16
	ClassID    uint16
	BodySize   uint64
	Properties Properties
}

func (ContentHeader) frameTag() byte { return FrameContentHeader }

// ContentBody is one fragment of a message body; a body may arrive spread
// across several of these when it exceeds the negotiated frame-max.
type ContentBody struct {
	Channel  uint16
	Fragment []byte
}

func (ContentBody) frameTag() byte { return FrameContentBody }

// Heartbeat is always on channel 0 and carries no payload.
type Heartbeat struct{}

func (Heartbeat) frameTag() byte { return FrameHeartbeat }

// EncodeProtocolHeader returns the fixed 8-byte preamble: "AMQP" 0
// major minor revision.
func EncodeProtocolHeader() []byte {
	return []byte{'A', 'M', 'Q', 'P', 0, ProtocolVersionMajor, ProtocolVersionMinor, ProtocolVersionRevision}
}

// EncodeFrame serializes a single Frame to its wire bytes. ProtocolHeader
// must only ever be encoded once, as the very first bytes on a transport;
// callers should use EncodeProtocolHeader directly for that case.
func EncodeFrame(f Frame) ([]byte, error) {
	switch v := f.(type) {
	case *Method:
		return encodeEnvelope(FrameMethod, v.Channel, func(e *encoder) error {
			e.WriteShort(v.ClassID)
			e.WriteShort(v.MethodID)
			body, err := Encode(v.Args)
			if err != nil {
				return err
			}
			e.buf.Write(body)
			return nil
		})
	case *ContentHeader:
		return encodeEnvelope(FrameContentHeader, v.Channel, func(e *encoder) error {
			e.WriteShort(v.ClassID)
			e.WriteShort(0) // weight, always 0
			e.WriteLongLong(v.BodySize)
			props, err := EncodeProperties(v.Properties)
			if err != nil {
				return err
			}
			e.buf.Write(props)
			return nil
		})
	case *ContentBody:
		return encodeEnvelope(FrameContentBody, v.Channel, func(e *encoder) error {
			e.buf.Write(v.Fragment)
			return nil
		})
	case *Heartbeat:
		return encodeEnvelope(FrameHeartbeat, 0, func(e *encoder) error { return nil })
	default:
		return nil, newError("cannot encode frame of type %T", f)
	}
}

func encodeEnvelope(frameType byte, channel uint16, writePayload func(e *encoder) error) ([]byte, error) {
	e := newEncoder()
	defer e.Release()
	if err := writePayload(e); err != nil {
		return nil, err
	}
	payload := e.Bytes()

	out := bytebufferpool.Get()
	defer bytebufferpool.Put(out)
	out.WriteByte(frameType)
	var chb [2]byte
	binary.BigEndian.PutUint16(chb[:], channel)
	out.Write(chb[:])
	var lb [4]byte
	binary.BigEndian.PutUint32(lb[:], uint32(len(payload)))
	out.Write(lb[:])
	out.Write(payload)
	out.WriteByte(frameEndOctet)

	result := make([]byte, out.Len())
	copy(result, out.Bytes())
	return result, nil
}

// decodeFrameBody decodes the frame body (everything between the 7-byte
// header and the trailing 0xCE) given its type tag and channel.
func decodeFrameBody(frameType byte, channel uint16, body []byte) (Frame, error) {
	switch frameType {
	case FrameMethod:
		d := newDecoder(body)
		classID, err := d.ReadShort()
		if err != nil {
			return nil, err
		}
		methodID, err := d.ReadShort()
		if err != nil {
			return nil, err
		}
		args, err := DecodeMethodArgs(classID, methodID, d.Remaining())
		if err != nil {
			return nil, err
		}
		return &Method{Channel: channel, ClassID: classID, MethodID: methodID, Args: args}, nil
	case FrameContentHeader:
		d := newDecoder(body)
		classID, err := d.ReadShort()
		if err != nil {
			return nil, err
		}
		if _, err = d.ReadShort(); err != nil { // weight, ignored
			return nil, err
		}
		bodySize, err := d.ReadLongLong()
		if err != nil {
			return nil, err
		}
		props, err := DecodeProperties(d.Remaining())
		if err != nil {
			return nil, err
		}
		return &ContentHeader{Channel: channel, ClassID: classID, BodySize: bodySize, Properties: props}, nil
	case FrameContentBody:
		frag := make([]byte, len(body))
		copy(frag, body)
		return &ContentBody{Channel: channel, Fragment: frag}, nil
	case FrameHeartbeat:
		return &Heartbeat{}, nil
	default:
		return nil, newError("unknown frame type 0x%02x", frameType)
	}
}

// FrameDecoder incrementally parses a byte stream into Frames. It is safe
// to feed it arbitrary chunk boundaries: feeding the same total stream as
// any sequence of chunks yields the same frame sequence, and no frame is
// released until its end marker has been verified.
type FrameDecoder struct {
	carry []byte
}

// Feed appends chunk to the internal carry-over buffer and returns every
// complete frame that can now be extracted. A server that rejects the
// protocol version replies with its own 8-byte protocol header, starting
// "AMQP", instead of a normal frame; once all 8 bytes have arrived that
// case is surfaced as a ProtocolHeader frame so the
// connection state machine can detect the mismatch.
func (fd *FrameDecoder) Feed(chunk []byte) ([]Frame, error) {
	if len(chunk) > 0 {
		fd.carry = append(fd.carry, chunk...)
	}

	var frames []Frame
	for {
		if bytes.HasPrefix(fd.carry, []byte("AMQP")) {
			if len(fd.carry) < 8 {
				return frames, nil
			}
			frames = append(frames, &ProtocolHeader{
				Major:    fd.carry[5],
				Minor:    fd.carry[6],
				Revision: fd.carry[7],
			})
			fd.carry = fd.carry[8:]
			continue
		}

		if len(fd.carry) < frameHeaderLen {
			return frames, nil
		}

		frameType := fd.carry[0]
		channel := binary.BigEndian.Uint16(fd.carry[1:3])
		length := binary.BigEndian.Uint32(fd.carry[3:7])

		total := frameHeaderLen + int(length) + frameEndLen
		if len(fd.carry) < total {
			return frames, nil
		}

		if fd.carry[total-1] != frameEndOctet {
			return frames, ErrBadFraming
		}

		body := fd.carry[frameHeaderLen : total-frameEndLen]
		frame, err := decodeFrameBody(frameType, channel, body)
		if err != nil {
			return frames, err
		}
		frames = append(frames, frame)
		fd.carry = fd.carry[total:]
	}
}
