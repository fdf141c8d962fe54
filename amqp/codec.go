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
	"encoding/binary"
	"math"

	"github.com/valyala/bytebufferpool"
)

// encoder accumulates a method/header payload, packing consecutive bit
// fields LSB-first into a single octet and flushing it as soon as a
// non-bit field is written, per the AMQP 0-9-1 bit-packing rule.
type encoder struct {
	buf     *bytebufferpool.ByteBuffer
	bitByte byte
	bitPos  uint
	inBits  bool
}

func newEncoder() *encoder {
	return &encoder{buf: bytebufferpool.Get()}
}

func (e *encoder) flushBits() {
	if e.inBits {
		e.buf.WriteByte(e.bitByte)
		e.bitByte = 0
		e.bitPos = 0
		e.inBits = false
	}
}

func (e *encoder) WriteBit(v bool) {
	if e.bitPos == 8 {
		e.flushBits()
	}
	if v {
		e.bitByte |= 1 << e.bitPos
	}
	e.bitPos++
	e.inBits = true
}

func (e *encoder) WriteOctet(v uint8) {
	e.flushBits()
	e.buf.WriteByte(v)
}

func (e *encoder) WriteShort(v uint16) {
	e.flushBits()
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	e.buf.Write(b[:])
}

func (e *encoder) WriteLong(v uint32) {
	e.flushBits()
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	e.buf.Write(b[:])
}

func (e *encoder) WriteLongLong(v uint64) {
	e.flushBits()
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	e.buf.Write(b[:])
}

func (e *encoder) WriteShortStr(s string) error {
	e.flushBits()
	if len(s) > math.MaxUint8 {
		return ErrShortStrTooLong
	}
	e.buf.WriteByte(byte(len(s)))
	e.buf.WriteString(s)
	return nil
}

func (e *encoder) WriteLongStr(b []byte) {
	e.flushBits()
	e.WriteLong(uint32(len(b)))
	e.buf.Write(b)
}

func (e *encoder) WriteTable(t FieldTable) error {
	e.flushBits()
	encoded, err := EncodeTable(t)
	if err != nil {
		return err
	}
	e.buf.Write(encoded)
	return nil
}

func (e *encoder) WriteTimestamp(sec int64) {
	e.WriteLongLong(uint64(sec))
}

// Bytes flushes any pending bit octet and returns the accumulated payload.
// The returned slice is only valid until the encoder is released.
func (e *encoder) Bytes() []byte {
	e.flushBits()
	return e.buf.Bytes()
}

func (e *encoder) Release() {
	bytebufferpool.Put(e.buf)
}

// decoder reads sequential AMQP primitive values out of a byte slice,
// mirroring the bit-packing rule of encoder on the read side.
type decoder struct {
	b       []byte
	pos     int
	bitByte byte
	bitPos  uint
	inBits  bool
}

func newDecoder(b []byte) *decoder {
	return &decoder{b: b}
}

func (d *decoder) resetBits() {
	d.inBits = false
	d.bitPos = 0
}

func (d *decoder) ReadBit() (bool, error) {
	if !d.inBits || d.bitPos == 8 {
		if d.pos >= len(d.b) {
			return false, ErrShortBuffer
		}
		d.bitByte = d.b[d.pos]
		d.pos++
		d.bitPos = 0
		d.inBits = true
	}
	v := d.bitByte&(1<<d.bitPos) != 0
	d.bitPos++
	return v, nil
}

func (d *decoder) ReadOctet() (uint8, error) {
	d.resetBits()
	if d.pos >= len(d.b) {
		return 0, ErrShortBuffer
	}
	v := d.b[d.pos]
	d.pos++
	return v, nil
}

func (d *decoder) ReadShort() (uint16, error) {
	d.resetBits()
	if d.pos+2 > len(d.b) {
		return 0, ErrShortBuffer
	}
	v := binary.BigEndian.Uint16(d.b[d.pos:])
	d.pos += 2
	return v, nil
}

func (d *decoder) ReadLong() (uint32, error) {
	d.resetBits()
	if d.pos+4 > len(d.b) {
		return 0, ErrShortBuffer
	}
	v := binary.BigEndian.Uint32(d.b[d.pos:])
	d.pos += 4
	return v, nil
}

func (d *decoder) ReadLongLong() (uint64, error) {
	d.resetBits()
	if d.pos+8 > len(d.b) {
		return 0, ErrShortBuffer
	}
	v := binary.BigEndian.Uint64(d.b[d.pos:])
	d.pos += 8
	return v, nil
}

func (d *decoder) ReadShortStr() (string, error) {
	d.resetBits()
	if d.pos >= len(d.b) {
		return "", ErrShortBuffer
	}
	n := int(d.b[d.pos])
	d.pos++
	if d.pos+n > len(d.b) {
		return "", ErrShortBuffer
	}
	s := string(d.b[d.pos : d.pos+n])
	d.pos += n
	return s, nil
}

func (d *decoder) ReadLongStr() ([]byte, error) {
	d.resetBits()
	n, err := d.ReadLong()
	if err != nil {
		return nil, err
	}
	if d.pos+int(n) > len(d.b) {
		return nil, ErrShortBuffer
	}
	v := d.b[d.pos : d.pos+int(n)]
	d.pos += int(n)
	return v, nil
}

func (d *decoder) ReadTable() (FieldTable, error) {
	d.resetBits()
	t, n, err := DecodeTable(d.b[d.pos:])
	if err != nil {
		return nil, err
	}
	d.pos += n
	return t, nil
}

func (d *decoder) ReadTimestamp() (int64, error) {
	v, err := d.ReadLongLong()
	return int64(v), err
}

// Remaining returns the unconsumed tail of the payload, e.g. a method's
// argument bytes after its class-id/method-id, or a content header's
// properties block after its fixed fields.
func (d *decoder) Remaining() []byte {
	return d.b[d.pos:]
}
