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
	"time"
)

// FieldTable is the Go representation of an AMQP 0-9-1 field-table: a map of
// short-string keys to typed values. Supported value types are bool, int8,
// int16, int32, int64, float32, float64, string, []byte, Decimal, time.Time,
// FieldTable (nested) and []any (field-array).
type FieldTable map[string]any

// Decimal is the AMQP decimal-value type: Value * 10^-Scale.
type Decimal struct {
	Scale uint8
	Value int32
}

const (
	tagBoolean    = 't'
	tagShortShort = 'b'
	tagShort      = 'U'
	tagLong       = 'I'
	tagLongLong   = 'L'
	tagFloat      = 'f'
	tagDouble     = 'd'
	tagDecimal    = 'D'
	tagShortStr   = 's'
	tagLongStr    = 'S'
	tagFieldArray = 'A'
	tagTimestamp  = 'T'
	tagFieldTable = 'F'
	tagVoid       = 'V'
)

// EncodeTable serializes a FieldTable to its wire form: a 4-byte length
// prefix followed by a sequence of (short-string key, tagged value) pairs.
func EncodeTable(t FieldTable) ([]byte, error) {
	body, err := encodeTableBody(t)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 4+len(body))
	binary.BigEndian.PutUint32(out, uint32(len(body)))
	copy(out[4:], body)
	return out, nil
}

func encodeTableBody(t FieldTable) ([]byte, error) {
	e := newEncoder()
	defer e.Release()
	for k, v := range t {
		if err := e.WriteShortStr(k); err != nil {
			return nil, err
		}
		if err := encodeValue(e, v); err != nil {
			return nil, err
		}
	}
	out := make([]byte, len(e.Bytes()))
	copy(out, e.Bytes())
	return out, nil
}

func encodeValue(e *encoder, v any) error {
	switch val := v.(type) {
	case bool:
		e.WriteOctet(tagBoolean)
		if val {
			e.WriteOctet(1)
		} else {
			e.WriteOctet(0)
		}
	case int8:
		e.WriteOctet(tagShortShort)
		e.WriteOctet(uint8(val))
	case int16:
		e.WriteOctet(tagShort)
		e.WriteShort(uint16(val))
	case int32:
		e.WriteOctet(tagLong)
		e.WriteLong(uint32(val))
	case int:
		e.WriteOctet(tagLong)
		e.WriteLong(uint32(int32(val)))
	case int64:
		e.WriteOctet(tagLongLong)
		e.WriteLongLong(uint64(val))
	case float32:
		e.WriteOctet(tagFloat)
		e.WriteLong(math.Float32bits(val))
	case float64:
		e.WriteOctet(tagDouble)
		e.WriteLongLong(math.Float64bits(val))
	case Decimal:
		e.WriteOctet(tagDecimal)
		e.WriteOctet(val.Scale)
		e.WriteLong(uint32(val.Value))
	case string:
		e.WriteOctet(tagLongStr)
		e.WriteLongStr([]byte(val))
	case []byte:
		e.WriteOctet(tagLongStr)
		e.WriteLongStr(val)
	case time.Time:
		e.WriteOctet(tagTimestamp)
		e.WriteTimestamp(val.Unix())
	case FieldTable:
		e.WriteOctet(tagFieldTable)
		body, err := encodeTableBody(val)
		if err != nil {
			return err
		}
		e.WriteLong(uint32(len(body)))
		e.buf.Write(body)
	case []any:
		e.WriteOctet(tagFieldArray)
		arr := newEncoder()
		defer arr.Release()
		for _, item := range val {
			if err := encodeValue(arr, item); err != nil {
				return err
			}
		}
		e.WriteLongStr(arr.Bytes())
	case nil:
		e.WriteOctet(tagVoid)
	default:
		return newError("unsupported field-table value type %T", v)
	}
	return nil
}

// DecodeTable parses a wire-form field-table (including its 4-byte length
// prefix) from the head of b, returning the decoded table and the number of
// bytes consumed.
func DecodeTable(b []byte) (FieldTable, int, error) {
	d := newDecoder(b)
	length, err := d.ReadLong()
	if err != nil {
		return nil, 0, err
	}
	end := 4 + int(length)
	if end > len(b) {
		return nil, 0, ErrShortBuffer
	}
	t, err := decodeTableBody(b[4:end])
	if err != nil {
		return nil, 0, err
	}
	return t, end, nil
}

func decodeTableBody(b []byte) (FieldTable, error) {
	d := newDecoder(b)
	t := FieldTable{}
	for d.pos < len(d.b) {
		key, err := d.ReadShortStr()
		if err != nil {
			return nil, err
		}
		v, err := decodeValue(d)
		if err != nil {
			return nil, err
		}
		t[key] = v
	}
	return t, nil
}

func decodeValue(d *decoder) (any, error) {
	tag, err := d.ReadOctet()
	if err != nil {
		return nil, err
	}
	switch tag {
	case tagBoolean:
		v, err := d.ReadOctet()
		return v != 0, err
	case tagShortShort:
		v, err := d.ReadOctet()
		return int8(v), err
	case tagShort:
		v, err := d.ReadShort()
		return int16(v), err
	case tagLong:
		// AMQP 0-9-1 defines this as a signed 32-bit integer. Note that
		// pika's table.py packs it with struct format '>cI' (unsigned);
		// this implementation follows the spec and treats it as signed.
		v, err := d.ReadLong()
		return int32(v), err
	case tagLongLong:
		v, err := d.ReadLongLong()
		return int64(v), err
	case tagFloat:
		v, err := d.ReadLong()
		return math.Float32frombits(v), err
	case tagDouble:
		v, err := d.ReadLongLong()
		return math.Float64frombits(v), err
	case tagDecimal:
		scale, err := d.ReadOctet()
		if err != nil {
			return nil, err
		}
		value, err := d.ReadLong()
		if err != nil {
			return nil, err
		}
		return Decimal{Scale: scale, Value: int32(value)}, nil
	case tagShortStr:
		v, err := d.ReadShortStr()
		return v, err
	case tagLongStr:
		v, err := d.ReadLongStr()
		b := make([]byte, len(v))
		copy(b, v)
		return string(b), err
	case tagFieldArray:
		raw, err := d.ReadLongStr()
		if err != nil {
			return nil, err
		}
		return decodeArray(raw)
	case tagTimestamp:
		v, err := d.ReadTimestamp()
		return time.Unix(v, 0).UTC(), err
	case tagFieldTable:
		length, err := d.ReadLong()
		if err != nil {
			return nil, err
		}
		if d.pos+int(length) > len(d.b) {
			return nil, ErrShortBuffer
		}
		body := d.b[d.pos : d.pos+int(length)]
		d.pos += int(length)
		return decodeTableBody(body)
	case tagVoid:
		return nil, nil
	default:
		return nil, ErrBadTag
	}
}

func decodeArray(b []byte) ([]any, error) {
	d := newDecoder(b)
	var out []any
	for d.pos < len(d.b) {
		v, err := decodeValue(d)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
