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

import "time"

// Properties is the basic content-properties block that precedes a
// message body: a bit flag word selects which of the 14 fields are
// present, each field present is then encoded back to back in order.
type Properties struct {
	ContentType     string
	ContentEncoding string
	Headers         FieldTable
	DeliveryMode    uint8
	Priority        uint8
	CorrelationID   string
	ReplyTo         string
	Expiration      string
	MessageID       string
	Timestamp       time.Time
	Type            string
	UserID          string
	AppID           string
	ClusterID string // reserved, deprecated by the spec but still on the wire
}

const (
	flagContentType     = 1 << 15
	flagContentEncoding = 1 << 14
	flagHeaders         = 1 << 13
	flagDeliveryMode    = 1 << 12
	flagPriority        = 1 << 11
	flagCorrelationID   = 1 << 10
	flagReplyTo         = 1 << 9
	flagExpiration      = 1 << 8
	flagMessageID       = 1 << 7
	flagTimestamp       = 1 << 6
	flagType            = 1 << 5
	flagUserID          = 1 << 4
	flagAppID           = 1 << 3
	flagClusterID       = 1 << 2
)

// EncodeProperties serializes p into the body of a ContentHeader frame,
// i.e. the flag word followed by each present field, without the leading
// class-id/weight/body-size header fields (those are written by frame.go).
func EncodeProperties(p Properties) ([]byte, error) {
	e := newEncoder()
	defer e.Release()

	var flags uint16
	if p.ContentType != "" {
		flags |= flagContentType
	}
	if p.ContentEncoding != "" {
		flags |= flagContentEncoding
	}
	if p.Headers != nil {
		flags |= flagHeaders
	}
	if p.DeliveryMode != 0 {
		flags |= flagDeliveryMode
	}
	if p.Priority != 0 {
		flags |= flagPriority
	}
	if p.CorrelationID != "" {
		flags |= flagCorrelationID
	}
	if p.ReplyTo != "" {
		flags |= flagReplyTo
	}
	if p.Expiration != "" {
		flags |= flagExpiration
	}
	if p.MessageID != "" {
		flags |= flagMessageID
	}
	if !p.Timestamp.IsZero() {
		flags |= flagTimestamp
	}
	if p.Type != "" {
		flags |= flagType
	}
	if p.UserID != "" {
		flags |= flagUserID
	}
	if p.AppID != "" {
		flags |= flagAppID
	}
	if p.ClusterID != "" {
		flags |= flagClusterID
	}
	e.WriteShort(flags)

	var err error
	writeShortStr := func(s string) {
		if err == nil {
			err = e.WriteShortStr(s)
		}
	}
	if flags&flagContentType != 0 {
		writeShortStr(p.ContentType)
	}
	if flags&flagContentEncoding != 0 {
		writeShortStr(p.ContentEncoding)
	}
	if flags&flagHeaders != 0 {
		if werr := e.WriteTable(p.Headers); werr != nil && err == nil {
			err = werr
		}
	}
	if flags&flagDeliveryMode != 0 {
		e.WriteOctet(p.DeliveryMode)
	}
	if flags&flagPriority != 0 {
		e.WriteOctet(p.Priority)
	}
	if flags&flagCorrelationID != 0 {
		writeShortStr(p.CorrelationID)
	}
	if flags&flagReplyTo != 0 {
		writeShortStr(p.ReplyTo)
	}
	if flags&flagExpiration != 0 {
		writeShortStr(p.Expiration)
	}
	if flags&flagMessageID != 0 {
		writeShortStr(p.MessageID)
	}
	if flags&flagTimestamp != 0 {
		e.WriteTimestamp(p.Timestamp.Unix())
	}
	if flags&flagType != 0 {
		writeShortStr(p.Type)
	}
	if flags&flagUserID != 0 {
		writeShortStr(p.UserID)
	}
	if flags&flagAppID != 0 {
		writeShortStr(p.AppID)
	}
	if flags&flagClusterID != 0 {
		writeShortStr(p.ClusterID)
	}
	if err != nil {
		return nil, err
	}

	out := make([]byte, len(e.Bytes()))
	copy(out, e.Bytes())
	return out, nil
}

// DecodeProperties parses a ContentHeader's properties block from b.
func DecodeProperties(b []byte) (Properties, error) {
	d := newDecoder(b)
	var p Properties

	flags, err := d.ReadShort()
	if err != nil {
		return p, err
	}
	if flags&flagContentType != 0 {
		if p.ContentType, err = d.ReadShortStr(); err != nil {
			return p, err
		}
	}
	if flags&flagContentEncoding != 0 {
		if p.ContentEncoding, err = d.ReadShortStr(); err != nil {
			return p, err
		}
	}
	if flags&flagHeaders != 0 {
		if p.Headers, err = d.ReadTable(); err != nil {
			return p, err
		}
	}
	if flags&flagDeliveryMode != 0 {
		if p.DeliveryMode, err = d.ReadOctet(); err != nil {
			return p, err
		}
	}
	if flags&flagPriority != 0 {
		if p.Priority, err = d.ReadOctet(); err != nil {
			return p, err
		}
	}
	if flags&flagCorrelationID != 0 {
		if p.CorrelationID, err = d.ReadShortStr(); err != nil {
			return p, err
		}
	}
	if flags&flagReplyTo != 0 {
		if p.ReplyTo, err = d.ReadShortStr(); err != nil {
			return p, err
		}
	}
	if flags&flagExpiration != 0 {
		if p.Expiration, err = d.ReadShortStr(); err != nil {
			return p, err
		}
	}
	if flags&flagMessageID != 0 {
		if p.MessageID, err = d.ReadShortStr(); err != nil {
			return p, err
		}
	}
	if flags&flagTimestamp != 0 {
		sec, terr := d.ReadTimestamp()
		if terr != nil {
			return p, terr
		}
		p.Timestamp = time.Unix(sec, 0).UTC()
	}
	if flags&flagType != 0 {
		if p.Type, err = d.ReadShortStr(); err != nil {
			return p, err
		}
	}
	if flags&flagUserID != 0 {
		if p.UserID, err = d.ReadShortStr(); err != nil {
			return p, err
		}
	}
	if flags&flagAppID != 0 {
		if p.AppID, err = d.ReadShortStr(); err != nil {
			return p, err
		}
	}
	if flags&flagClusterID != 0 {
		if p.ClusterID, err = d.ReadShortStr(); err != nil {
			return p, err
		}
	}
	return p, nil
}
