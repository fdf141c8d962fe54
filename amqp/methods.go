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

// MethodArgs is the closed sum of every AMQP 0-9-1 method's argument set.
// Each concrete type below implements it and carries the fields of exactly
// one (class_id, method_id) pair.
type MethodArgs interface {
	ClassID() uint16
	MethodID() uint16
}

// Encode serializes any registered MethodArgs to its wire payload (the
// bytes that follow the class-id/method-id header inside a Method frame).
func Encode(args MethodArgs) ([]byte, error) {
	e := newEncoder()
	defer e.Release()
	var err error
	switch m := args.(type) {
	case *ConnectionStart:
		err = m.encode(e)
	case *ConnectionStartOk:
		err = m.encode(e)
	case *ConnectionSecure:
		err = m.encode(e)
	case *ConnectionSecureOk:
		err = m.encode(e)
	case *ConnectionTune:
		err = m.encode(e)
	case *ConnectionTuneOk:
		err = m.encode(e)
	case *ConnectionOpen:
		err = m.encode(e)
	case *ConnectionOpenOk:
		err = m.encode(e)
	case *ConnectionClose:
		err = m.encode(e)
	case *ConnectionCloseOk:
	case *ChannelOpen:
		err = m.encode(e)
	case *ChannelOpenOk:
		err = m.encode(e)
	case *ChannelFlow:
		err = m.encode(e)
	case *ChannelFlowOk:
		err = m.encode(e)
	case *ChannelClose:
		err = m.encode(e)
	case *ChannelCloseOk:
	case *ExchangeDeclare:
		err = m.encode(e)
	case *ExchangeDeclareOk:
	case *ExchangeDelete:
		err = m.encode(e)
	case *ExchangeDeleteOk:
	case *QueueDeclare:
		err = m.encode(e)
	case *QueueDeclareOk:
		err = m.encode(e)
	case *QueueBind:
		err = m.encode(e)
	case *QueueBindOk:
	case *QueueUnbind:
		err = m.encode(e)
	case *QueueUnbindOk:
	case *QueuePurge:
		err = m.encode(e)
	case *QueuePurgeOk:
		err = m.encode(e)
	case *QueueDelete:
		err = m.encode(e)
	case *QueueDeleteOk:
		err = m.encode(e)
	case *BasicQos:
		err = m.encode(e)
	case *BasicQosOk:
	case *BasicConsume:
		err = m.encode(e)
	case *BasicConsumeOk:
		err = m.encode(e)
	case *BasicCancel:
		err = m.encode(e)
	case *BasicCancelOk:
		err = m.encode(e)
	case *BasicPublish:
		err = m.encode(e)
	case *BasicReturn:
		err = m.encode(e)
	case *BasicDeliver:
		err = m.encode(e)
	case *BasicGet:
		err = m.encode(e)
	case *BasicGetOk:
		err = m.encode(e)
	case *BasicGetEmpty:
		err = m.encode(e)
	case *BasicAck:
		err = m.encode(e)
	case *BasicReject:
		err = m.encode(e)
	case *BasicNack:
		err = m.encode(e)
	case *BasicRecover:
		err = m.encode(e)
	case *BasicRecoverOk:
	case *TxSelect:
	case *TxSelectOk:
	case *TxCommit:
	case *TxCommitOk:
	case *TxRollback:
	case *TxRollbackOk:
	case *ConfirmSelect:
		err = m.encode(e)
	case *ConfirmSelectOk:
	default:
		return nil, newError("no encoder registered for method class=%d method=%d", args.ClassID(), args.MethodID())
	}
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(e.Bytes()))
	copy(out, e.Bytes())
	return out, nil
}

func init() {
	registerMethod(ClassConnection, 10, func(d *decoder) (MethodArgs, error) { m := &ConnectionStart{}; return m, m.decode(d) })
	registerMethod(ClassConnection, 11, func(d *decoder) (MethodArgs, error) { m := &ConnectionStartOk{}; return m, m.decode(d) })
	registerMethod(ClassConnection, 20, func(d *decoder) (MethodArgs, error) { m := &ConnectionSecure{}; return m, m.decode(d) })
	registerMethod(ClassConnection, 21, func(d *decoder) (MethodArgs, error) { m := &ConnectionSecureOk{}; return m, m.decode(d) })
	registerMethod(ClassConnection, 30, func(d *decoder) (MethodArgs, error) { m := &ConnectionTune{}; return m, m.decode(d) })
	registerMethod(ClassConnection, 31, func(d *decoder) (MethodArgs, error) { m := &ConnectionTuneOk{}; return m, m.decode(d) })
	registerMethod(ClassConnection, 40, func(d *decoder) (MethodArgs, error) { m := &ConnectionOpen{}; return m, m.decode(d) })
	registerMethod(ClassConnection, 41, func(d *decoder) (MethodArgs, error) { m := &ConnectionOpenOk{}; return m, m.decode(d) })
	registerMethod(ClassConnection, 50, func(d *decoder) (MethodArgs, error) { m := &ConnectionClose{}; return m, m.decode(d) })
	registerMethod(ClassConnection, 51, func(d *decoder) (MethodArgs, error) { return &ConnectionCloseOk{}, nil })

	registerMethod(ClassChannel, 10, func(d *decoder) (MethodArgs, error) { return &ChannelOpen{}, nil })
	registerMethod(ClassChannel, 11, func(d *decoder) (MethodArgs, error) { m := &ChannelOpenOk{}; return m, m.decode(d) })
	registerMethod(ClassChannel, 20, func(d *decoder) (MethodArgs, error) { m := &ChannelFlow{}; return m, m.decode(d) })
	registerMethod(ClassChannel, 21, func(d *decoder) (MethodArgs, error) { m := &ChannelFlowOk{}; return m, m.decode(d) })
	registerMethod(ClassChannel, 40, func(d *decoder) (MethodArgs, error) { m := &ChannelClose{}; return m, m.decode(d) })
	registerMethod(ClassChannel, 41, func(d *decoder) (MethodArgs, error) { return &ChannelCloseOk{}, nil })

	registerMethod(ClassExchange, 10, func(d *decoder) (MethodArgs, error) { m := &ExchangeDeclare{}; return m, m.decode(d) })
	registerMethod(ClassExchange, 11, func(d *decoder) (MethodArgs, error) { return &ExchangeDeclareOk{}, nil })
	registerMethod(ClassExchange, 20, func(d *decoder) (MethodArgs, error) { m := &ExchangeDelete{}; return m, m.decode(d) })
	registerMethod(ClassExchange, 21, func(d *decoder) (MethodArgs, error) { return &ExchangeDeleteOk{}, nil })

	registerMethod(ClassQueue, 10, func(d *decoder) (MethodArgs, error) { m := &QueueDeclare{}; return m, m.decode(d) })
	registerMethod(ClassQueue, 11, func(d *decoder) (MethodArgs, error) { m := &QueueDeclareOk{}; return m, m.decode(d) })
	registerMethod(ClassQueue, 20, func(d *decoder) (MethodArgs, error) { m := &QueueBind{}; return m, m.decode(d) })
	registerMethod(ClassQueue, 21, func(d *decoder) (MethodArgs, error) { return &QueueBindOk{}, nil })
	registerMethod(ClassQueue, 30, func(d *decoder) (MethodArgs, error) { m := &QueuePurge{}; return m, m.decode(d) })
	registerMethod(ClassQueue, 31, func(d *decoder) (MethodArgs, error) { m := &QueuePurgeOk{}; return m, m.decode(d) })
	registerMethod(ClassQueue, 40, func(d *decoder) (MethodArgs, error) { m := &QueueDelete{}; return m, m.decode(d) })
	registerMethod(ClassQueue, 41, func(d *decoder) (MethodArgs, error) { m := &QueueDeleteOk{}; return m, m.decode(d) })
	registerMethod(ClassQueue, 50, func(d *decoder) (MethodArgs, error) { m := &QueueUnbind{}; return m, m.decode(d) })
	registerMethod(ClassQueue, 51, func(d *decoder) (MethodArgs, error) { return &QueueUnbindOk{}, nil })

	registerMethod(ClassBasic, 10, func(d *decoder) (MethodArgs, error) { m := &BasicQos{}; return m, m.decode(d) })
	registerMethod(ClassBasic, 11, func(d *decoder) (MethodArgs, error) { return &BasicQosOk{}, nil })
	registerMethod(ClassBasic, 20, func(d *decoder) (MethodArgs, error) { m := &BasicConsume{}; return m, m.decode(d) })
	registerMethod(ClassBasic, 21, func(d *decoder) (MethodArgs, error) { m := &BasicConsumeOk{}; return m, m.decode(d) })
	registerMethod(ClassBasic, 30, func(d *decoder) (MethodArgs, error) { m := &BasicCancel{}; return m, m.decode(d) })
	registerMethod(ClassBasic, 31, func(d *decoder) (MethodArgs, error) { m := &BasicCancelOk{}; return m, m.decode(d) })
	registerMethod(ClassBasic, 40, func(d *decoder) (MethodArgs, error) { m := &BasicPublish{}; return m, m.decode(d) })
	registerMethod(ClassBasic, 50, func(d *decoder) (MethodArgs, error) { m := &BasicReturn{}; return m, m.decode(d) })
	registerMethod(ClassBasic, 60, func(d *decoder) (MethodArgs, error) { m := &BasicDeliver{}; return m, m.decode(d) })
	registerMethod(ClassBasic, 70, func(d *decoder) (MethodArgs, error) { m := &BasicGet{}; return m, m.decode(d) })
	registerMethod(ClassBasic, 71, func(d *decoder) (MethodArgs, error) { m := &BasicGetOk{}; return m, m.decode(d) })
	registerMethod(ClassBasic, 72, func(d *decoder) (MethodArgs, error) { m := &BasicGetEmpty{}; return m, m.decode(d) })
	registerMethod(ClassBasic, 80, func(d *decoder) (MethodArgs, error) { m := &BasicAck{}; return m, m.decode(d) })
	registerMethod(ClassBasic, 90, func(d *decoder) (MethodArgs, error) { m := &BasicReject{}; return m, m.decode(d) })
	registerMethod(ClassBasic, 100, func(d *decoder) (MethodArgs, error) { m := &BasicRecover{}; return m, m.decode(d) })
	registerMethod(ClassBasic, 101, func(d *decoder) (MethodArgs, error) { return &BasicRecoverOk{}, nil })
	registerMethod(ClassBasic, 120, func(d *decoder) (MethodArgs, error) { m := &BasicNack{}; return m, m.decode(d) })

	registerMethod(ClassTx, 10, func(d *decoder) (MethodArgs, error) { return &TxSelect{}, nil })
	registerMethod(ClassTx, 11, func(d *decoder) (MethodArgs, error) { return &TxSelectOk{}, nil })
	registerMethod(ClassTx, 20, func(d *decoder) (MethodArgs, error) { return &TxCommit{}, nil })
	registerMethod(ClassTx, 21, func(d *decoder) (MethodArgs, error) { return &TxCommitOk{}, nil })
	registerMethod(ClassTx, 30, func(d *decoder) (MethodArgs, error) { return &TxRollback{}, nil })
	registerMethod(ClassTx, 31, func(d *decoder) (MethodArgs, error) { return &TxRollbackOk{}, nil })

	registerMethod(ClassConfirm, 10, func(d *decoder) (MethodArgs, error) { m := &ConfirmSelect{}; return m, m.decode(d) })
	registerMethod(ClassConfirm, 11, func(d *decoder) (MethodArgs, error) { return &ConfirmSelectOk{}, nil })
}

// ---- Connection class (10) ----

type ConnectionStart struct {
	VersionMajor     uint8
	VersionMinor     uint8
	ServerProperties FieldTable
	Mechanisms       string
	Locales          string
}

func (*ConnectionStart) ClassID() uint16  { return ClassConnection }
func (*ConnectionStart) MethodID() uint16 { return 10 }
func (m *ConnectionStart) encode(e *encoder) error {
	e.WriteOctet(m.VersionMajor)
	e.WriteOctet(m.VersionMinor)
	if err := e.WriteTable(m.ServerProperties); err != nil {
		return err
	}
	e.WriteLongStr([]byte(m.Mechanisms))
	e.WriteLongStr([]byte(m.Locales))
	return nil
}
func (m *ConnectionStart) decode(d *decoder) error {
	var err error
	if m.VersionMajor, err = d.ReadOctet(); err != nil {
		return err
	}
	if m.VersionMinor, err = d.ReadOctet(); err != nil {
		return err
	}
	if m.ServerProperties, err = d.ReadTable(); err != nil {
		return err
	}
	longstr, err := d.ReadLongStr()
	if err != nil {
		return err
	}
	m.Mechanisms = string(longstr)
	longstr, err = d.ReadLongStr()
	if err != nil {
		return err
	}
	m.Locales = string(longstr)
	return nil
}

type ConnectionStartOk struct {
	ClientProperties FieldTable
	Mechanism        string
	Response         []byte
	Locale           string
}

func (*ConnectionStartOk) ClassID() uint16  { return ClassConnection }
func (*ConnectionStartOk) MethodID() uint16 { return 11 }
func (m *ConnectionStartOk) encode(e *encoder) error {
	if err := e.WriteTable(m.ClientProperties); err != nil {
		return err
	}
	if err := e.WriteShortStr(m.Mechanism); err != nil {
		return err
	}
	e.WriteLongStr(m.Response)
	return e.WriteShortStr(m.Locale)
}

type ConnectionSecure struct{ Challenge []byte }

func (*ConnectionSecure) ClassID() uint16  { return ClassConnection }
func (*ConnectionSecure) MethodID() uint16 { return 20 }
func (m *ConnectionSecure) encode(e *encoder) error {
	e.WriteLongStr(m.Challenge)
	return nil
}
func (m *ConnectionSecure) decode(d *decoder) error {
	v, err := d.ReadLongStr()
	m.Challenge = append([]byte(nil), v...)
	return err
}

type ConnectionSecureOk struct{ Response []byte }

func (*ConnectionSecureOk) ClassID() uint16  { return ClassConnection }
func (*ConnectionSecureOk) MethodID() uint16 { return 21 }
func (m *ConnectionSecureOk) encode(e *encoder) error {
	e.WriteLongStr(m.Response)
	return nil
}

type ConnectionTune struct {
	ChannelMax uint16
	FrameMax   uint32
	Heartbeat  uint16
}

func (*ConnectionTune) ClassID() uint16  { return ClassConnection }
func (*ConnectionTune) MethodID() uint16 { return 30 }
func (m *ConnectionTune) encode(e *encoder) error {
	e.WriteShort(m.ChannelMax)
	e.WriteLong(m.FrameMax)
	e.WriteShort(m.Heartbeat)
	return nil
}
func (m *ConnectionTune) decode(d *decoder) error {
	var err error
	if m.ChannelMax, err = d.ReadShort(); err != nil {
		return err
	}
	if m.FrameMax, err = d.ReadLong(); err != nil {
		return err
	}
	m.Heartbeat, err = d.ReadShort()
	return err
}

type ConnectionTuneOk struct {
	ChannelMax uint16
	FrameMax   uint32
	Heartbeat  uint16
}

func (*ConnectionTuneOk) ClassID() uint16  { return ClassConnection }
func (*ConnectionTuneOk) MethodID() uint16 { return 31 }
func (m *ConnectionTuneOk) encode(e *encoder) error {
	e.WriteShort(m.ChannelMax)
	e.WriteLong(m.FrameMax)
	e.WriteShort(m.Heartbeat)
	return nil
}

type ConnectionOpen struct {
	VirtualHost string
	Reserved1   string
	Reserved2   bool
}

func (*ConnectionOpen) ClassID() uint16  { return ClassConnection }
func (*ConnectionOpen) MethodID() uint16 { return 40 }
func (m *ConnectionOpen) encode(e *encoder) error {
	if err := e.WriteShortStr(m.VirtualHost); err != nil {
		return err
	}
	if err := e.WriteShortStr(m.Reserved1); err != nil {
		return err
	}
	e.WriteBit(m.Reserved2)
	return nil
}

type ConnectionOpenOk struct{ Reserved1 string }

func (*ConnectionOpenOk) ClassID() uint16  { return ClassConnection }
func (*ConnectionOpenOk) MethodID() uint16 { return 41 }
func (m *ConnectionOpenOk) encode(e *encoder) error {
	return e.WriteShortStr(m.Reserved1)
}
func (m *ConnectionOpenOk) decode(d *decoder) error {
	var err error
	m.Reserved1, err = d.ReadShortStr()
	return err
}

type ConnectionClose struct {
	ReplyCode uint16
	ReplyText string
	ClassID_  uint16
	MethodID_ uint16
}

func (*ConnectionClose) ClassID() uint16  { return ClassConnection }
func (*ConnectionClose) MethodID() uint16 { return 50 }
func (m *ConnectionClose) encode(e *encoder) error {
	e.WriteShort(m.ReplyCode)
	if err := e.WriteShortStr(m.ReplyText); err != nil {
		return err
	}
	e.WriteShort(m.ClassID_)
	e.WriteShort(m.MethodID_)
	return nil
}
func (m *ConnectionClose) decode(d *decoder) error {
	var err error
	if m.ReplyCode, err = d.ReadShort(); err != nil {
		return err
	}
	if m.ReplyText, err = d.ReadShortStr(); err != nil {
		return err
	}
	if m.ClassID_, err = d.ReadShort(); err != nil {
		return err
	}
	m.MethodID_, err = d.ReadShort()
	return err
}

type ConnectionCloseOk struct{}

func (*ConnectionCloseOk) ClassID() uint16  { return ClassConnection }
func (*ConnectionCloseOk) MethodID() uint16 { return 51 }

// ---- Channel class (20) ----

type ChannelOpen struct{}

func (*ChannelOpen) ClassID() uint16  { return ClassChannel }
func (*ChannelOpen) MethodID() uint16 { return 10 }
func (m *ChannelOpen) encode(e *encoder) error {
	return e.WriteShortStr("")
}

type ChannelOpenOk struct{ Reserved1 []byte }

func (*ChannelOpenOk) ClassID() uint16  { return ClassChannel }
func (*ChannelOpenOk) MethodID() uint16 { return 11 }
func (m *ChannelOpenOk) encode(e *encoder) error {
	e.WriteLongStr(m.Reserved1)
	return nil
}
func (m *ChannelOpenOk) decode(d *decoder) error {
	v, err := d.ReadLongStr()
	m.Reserved1 = append([]byte(nil), v...)
	return err
}

type ChannelFlow struct{ Active bool }

func (*ChannelFlow) ClassID() uint16  { return ClassChannel }
func (*ChannelFlow) MethodID() uint16 { return 20 }
func (m *ChannelFlow) encode(e *encoder) error {
	e.WriteBit(m.Active)
	return nil
}
func (m *ChannelFlow) decode(d *decoder) error {
	v, err := d.ReadBit()
	m.Active = v
	return err
}

type ChannelFlowOk struct{ Active bool }

func (*ChannelFlowOk) ClassID() uint16  { return ClassChannel }
func (*ChannelFlowOk) MethodID() uint16 { return 21 }
func (m *ChannelFlowOk) encode(e *encoder) error {
	e.WriteBit(m.Active)
	return nil
}
func (m *ChannelFlowOk) decode(d *decoder) error {
	v, err := d.ReadBit()
	m.Active = v
	return err
}

type ChannelClose struct {
	ReplyCode uint16
	ReplyText string
	ClassID_  uint16
	MethodID_ uint16
}

func (*ChannelClose) ClassID() uint16  { return ClassChannel }
func (*ChannelClose) MethodID() uint16 { return 40 }
func (m *ChannelClose) encode(e *encoder) error {
	e.WriteShort(m.ReplyCode)
	if err := e.WriteShortStr(m.ReplyText); err != nil {
		return err
	}
	e.WriteShort(m.ClassID_)
	e.WriteShort(m.MethodID_)
	return nil
}
func (m *ChannelClose) decode(d *decoder) error {
	var err error
	if m.ReplyCode, err = d.ReadShort(); err != nil {
		return err
	}
	if m.ReplyText, err = d.ReadShortStr(); err != nil {
		return err
	}
	if m.ClassID_, err = d.ReadShort(); err != nil {
		return err
	}
	m.MethodID_, err = d.ReadShort()
	return err
}

type ChannelCloseOk struct{}

func (*ChannelCloseOk) ClassID() uint16  { return ClassChannel }
func (*ChannelCloseOk) MethodID() uint16 { return 41 }

// ---- Exchange class (40) ----

type ExchangeDeclare struct {
	Exchange   string
	Type       string
	Passive    bool
	Durable    bool
	AutoDelete bool
	Internal   bool
	NoWait     bool
	Arguments  FieldTable
}

func (*ExchangeDeclare) ClassID() uint16  { return ClassExchange }
func (*ExchangeDeclare) MethodID() uint16 { return 10 }
func (m *ExchangeDeclare) encode(e *encoder) error {
	e.WriteShort(0)
	if err := e.WriteShortStr(m.Exchange); err != nil {
		return err
	}
	if err := e.WriteShortStr(m.Type); err != nil {
		return err
	}
	e.WriteBit(m.Passive)
	e.WriteBit(m.Durable)
	e.WriteBit(m.AutoDelete)
	e.WriteBit(m.Internal)
	e.WriteBit(m.NoWait)
	return e.WriteTable(m.Arguments)
}

type ExchangeDeclareOk struct{}

func (*ExchangeDeclareOk) ClassID() uint16  { return ClassExchange }
func (*ExchangeDeclareOk) MethodID() uint16 { return 11 }

type ExchangeDelete struct {
	Exchange string
	IfUnused bool
	NoWait   bool
}

func (*ExchangeDelete) ClassID() uint16  { return ClassExchange }
func (*ExchangeDelete) MethodID() uint16 { return 20 }
func (m *ExchangeDelete) encode(e *encoder) error {
	e.WriteShort(0)
	if err := e.WriteShortStr(m.Exchange); err != nil {
		return err
	}
	e.WriteBit(m.IfUnused)
	e.WriteBit(m.NoWait)
	return nil
}

type ExchangeDeleteOk struct{}

func (*ExchangeDeleteOk) ClassID() uint16  { return ClassExchange }
func (*ExchangeDeleteOk) MethodID() uint16 { return 21 }

// ---- Queue class (50) ----

type QueueDeclare struct {
	Queue      string
	Passive    bool
	Durable    bool
	Exclusive  bool
	AutoDelete bool
	NoWait     bool
	Arguments  FieldTable
}

func (*QueueDeclare) ClassID() uint16  { return ClassQueue }
func (*QueueDeclare) MethodID() uint16 { return 10 }
func (m *QueueDeclare) encode(e *encoder) error {
	e.WriteShort(0)
	if err := e.WriteShortStr(m.Queue); err != nil {
		return err
	}
	e.WriteBit(m.Passive)
	e.WriteBit(m.Durable)
	e.WriteBit(m.Exclusive)
	e.WriteBit(m.AutoDelete)
	e.WriteBit(m.NoWait)
	return e.WriteTable(m.Arguments)
}

type QueueDeclareOk struct {
	Queue         string
	MessageCount  uint32
	ConsumerCount uint32
}

func (*QueueDeclareOk) ClassID() uint16  { return ClassQueue }
func (*QueueDeclareOk) MethodID() uint16 { return 11 }
func (m *QueueDeclareOk) encode(e *encoder) error {
	if err := e.WriteShortStr(m.Queue); err != nil {
		return err
	}
	e.WriteLong(m.MessageCount)
	e.WriteLong(m.ConsumerCount)
	return nil
}
func (m *QueueDeclareOk) decode(d *decoder) error {
	var err error
	if m.Queue, err = d.ReadShortStr(); err != nil {
		return err
	}
	if m.MessageCount, err = d.ReadLong(); err != nil {
		return err
	}
	m.ConsumerCount, err = d.ReadLong()
	return err
}

type QueueBind struct {
	Queue      string
	Exchange   string
	RoutingKey string
	NoWait     bool
	Arguments  FieldTable
}

func (*QueueBind) ClassID() uint16  { return ClassQueue }
func (*QueueBind) MethodID() uint16 { return 20 }
func (m *QueueBind) encode(e *encoder) error {
	e.WriteShort(0)
	if err := e.WriteShortStr(m.Queue); err != nil {
		return err
	}
	if err := e.WriteShortStr(m.Exchange); err != nil {
		return err
	}
	if err := e.WriteShortStr(m.RoutingKey); err != nil {
		return err
	}
	e.WriteBit(m.NoWait)
	return e.WriteTable(m.Arguments)
}

type QueueBindOk struct{}

func (*QueueBindOk) ClassID() uint16  { return ClassQueue }
func (*QueueBindOk) MethodID() uint16 { return 21 }

type QueueUnbind struct {
	Queue      string
	Exchange   string
	RoutingKey string
	Arguments  FieldTable
}

func (*QueueUnbind) ClassID() uint16  { return ClassQueue }
func (*QueueUnbind) MethodID() uint16 { return 50 }
func (m *QueueUnbind) encode(e *encoder) error {
	e.WriteShort(0)
	if err := e.WriteShortStr(m.Queue); err != nil {
		return err
	}
	if err := e.WriteShortStr(m.Exchange); err != nil {
		return err
	}
	if err := e.WriteShortStr(m.RoutingKey); err != nil {
		return err
	}
	return e.WriteTable(m.Arguments)
}

type QueueUnbindOk struct{}

func (*QueueUnbindOk) ClassID() uint16  { return ClassQueue }
func (*QueueUnbindOk) MethodID() uint16 { return 51 }

type QueuePurge struct {
	Queue  string
	NoWait bool
}

func (*QueuePurge) ClassID() uint16  { return ClassQueue }
func (*QueuePurge) MethodID() uint16 { return 30 }
func (m *QueuePurge) encode(e *encoder) error {
	e.WriteShort(0)
	if err := e.WriteShortStr(m.Queue); err != nil {
		return err
	}
	e.WriteBit(m.NoWait)
	return nil
}

type QueuePurgeOk struct{ MessageCount uint32 }

func (*QueuePurgeOk) ClassID() uint16  { return ClassQueue }
func (*QueuePurgeOk) MethodID() uint16 { return 31 }
func (m *QueuePurgeOk) encode(e *encoder) error {
	e.WriteLong(m.MessageCount)
	return nil
}
func (m *QueuePurgeOk) decode(d *decoder) error {
	var err error
	m.MessageCount, err = d.ReadLong()
	return err
}

type QueueDelete struct {
	Queue    string
	IfUnused bool
	IfEmpty  bool
	NoWait   bool
}

func (*QueueDelete) ClassID() uint16  { return ClassQueue }
func (*QueueDelete) MethodID() uint16 { return 40 }
func (m *QueueDelete) encode(e *encoder) error {
	e.WriteShort(0)
	if err := e.WriteShortStr(m.Queue); err != nil {
		return err
	}
	e.WriteBit(m.IfUnused)
	e.WriteBit(m.IfEmpty)
	e.WriteBit(m.NoWait)
	return nil
}

type QueueDeleteOk struct{ MessageCount uint32 }

func (*QueueDeleteOk) ClassID() uint16  { return ClassQueue }
func (*QueueDeleteOk) MethodID() uint16 { return 41 }
func (m *QueueDeleteOk) encode(e *encoder) error {
	e.WriteLong(m.MessageCount)
	return nil
}
func (m *QueueDeleteOk) decode(d *decoder) error {
	var err error
	m.MessageCount, err = d.ReadLong()
	return err
}

// ---- Basic class (60) ----

type BasicQos struct {
	PrefetchSize  uint32
	PrefetchCount uint16
	Global        bool
}

func (*BasicQos) ClassID() uint16  { return ClassBasic }
func (*BasicQos) MethodID() uint16 { return 10 }
func (m *BasicQos) encode(e *encoder) error {
	e.WriteLong(m.PrefetchSize)
	e.WriteShort(m.PrefetchCount)
	e.WriteBit(m.Global)
	return nil
}

type BasicQosOk struct{}

func (*BasicQosOk) ClassID() uint16  { return ClassBasic }
func (*BasicQosOk) MethodID() uint16 { return 11 }

type BasicConsume struct {
	Queue       string
	ConsumerTag string
	NoLocal     bool
	NoAck       bool
	Exclusive   bool
	NoWait      bool
	Arguments   FieldTable
}

func (*BasicConsume) ClassID() uint16  { return ClassBasic }
func (*BasicConsume) MethodID() uint16 { return 20 }
func (m *BasicConsume) encode(e *encoder) error {
	e.WriteShort(0)
	if err := e.WriteShortStr(m.Queue); err != nil {
		return err
	}
	if err := e.WriteShortStr(m.ConsumerTag); err != nil {
		return err
	}
	e.WriteBit(m.NoLocal)
	e.WriteBit(m.NoAck)
	e.WriteBit(m.Exclusive)
	e.WriteBit(m.NoWait)
	return e.WriteTable(m.Arguments)
}

type BasicConsumeOk struct{ ConsumerTag string }

func (*BasicConsumeOk) ClassID() uint16  { return ClassBasic }
func (*BasicConsumeOk) MethodID() uint16 { return 21 }
func (m *BasicConsumeOk) encode(e *encoder) error {
	return e.WriteShortStr(m.ConsumerTag)
}
func (m *BasicConsumeOk) decode(d *decoder) error {
	var err error
	m.ConsumerTag, err = d.ReadShortStr()
	return err
}

type BasicCancel struct {
	ConsumerTag string
	NoWait      bool
}

func (*BasicCancel) ClassID() uint16  { return ClassBasic }
func (*BasicCancel) MethodID() uint16 { return 30 }
func (m *BasicCancel) encode(e *encoder) error {
	if err := e.WriteShortStr(m.ConsumerTag); err != nil {
		return err
	}
	e.WriteBit(m.NoWait)
	return nil
}
func (m *BasicCancel) decode(d *decoder) error {
	var err error
	if m.ConsumerTag, err = d.ReadShortStr(); err != nil {
		return err
	}
	v, err := d.ReadBit()
	m.NoWait = v
	return err
}

type BasicCancelOk struct{ ConsumerTag string }

func (*BasicCancelOk) ClassID() uint16  { return ClassBasic }
func (*BasicCancelOk) MethodID() uint16 { return 31 }
func (m *BasicCancelOk) encode(e *encoder) error {
	return e.WriteShortStr(m.ConsumerTag)
}
func (m *BasicCancelOk) decode(d *decoder) error {
	var err error
	m.ConsumerTag, err = d.ReadShortStr()
	return err
}

// BasicPublish carries no body: the body bytes travel as separate
// ContentHeader/ContentBody frames assembled by the channel multiplexer.
type BasicPublish struct {
	Exchange   string
	RoutingKey string
	Mandatory  bool
	Immediate  bool
}

func (*BasicPublish) ClassID() uint16  { return ClassBasic }
func (*BasicPublish) MethodID() uint16 { return 40 }
func (m *BasicPublish) encode(e *encoder) error {
	e.WriteShort(0)
	if err := e.WriteShortStr(m.Exchange); err != nil {
		return err
	}
	if err := e.WriteShortStr(m.RoutingKey); err != nil {
		return err
	}
	e.WriteBit(m.Mandatory)
	e.WriteBit(m.Immediate)
	return nil
}
func (m *BasicPublish) decode(d *decoder) error {
	if _, err := d.ReadShort(); err != nil {
		return err
	}
	var err error
	if m.Exchange, err = d.ReadShortStr(); err != nil {
		return err
	}
	if m.RoutingKey, err = d.ReadShortStr(); err != nil {
		return err
	}
	if m.Mandatory, err = d.ReadBit(); err != nil {
		return err
	}
	m.Immediate, err = d.ReadBit()
	return err
}

type BasicReturn struct {
	ReplyCode  uint16
	ReplyText  string
	Exchange   string
	RoutingKey string
}

func (*BasicReturn) ClassID() uint16  { return ClassBasic }
func (*BasicReturn) MethodID() uint16 { return 50 }
func (m *BasicReturn) encode(e *encoder) error {
	e.WriteShort(m.ReplyCode)
	if err := e.WriteShortStr(m.ReplyText); err != nil {
		return err
	}
	if err := e.WriteShortStr(m.Exchange); err != nil {
		return err
	}
	return e.WriteShortStr(m.RoutingKey)
}
func (m *BasicReturn) decode(d *decoder) error {
	var err error
	if m.ReplyCode, err = d.ReadShort(); err != nil {
		return err
	}
	if m.ReplyText, err = d.ReadShortStr(); err != nil {
		return err
	}
	if m.Exchange, err = d.ReadShortStr(); err != nil {
		return err
	}
	m.RoutingKey, err = d.ReadShortStr()
	return err
}

type BasicDeliver struct {
	ConsumerTag string
	DeliveryTag uint64
	Redelivered bool
	Exchange    string
	RoutingKey  string
}

func (*BasicDeliver) ClassID() uint16  { return ClassBasic }
func (*BasicDeliver) MethodID() uint16 { return 60 }
func (m *BasicDeliver) encode(e *encoder) error {
	if err := e.WriteShortStr(m.ConsumerTag); err != nil {
		return err
	}
	e.WriteLongLong(m.DeliveryTag)
	e.WriteBit(m.Redelivered)
	if err := e.WriteShortStr(m.Exchange); err != nil {
		return err
	}
	return e.WriteShortStr(m.RoutingKey)
}
func (m *BasicDeliver) decode(d *decoder) error {
	var err error
	if m.ConsumerTag, err = d.ReadShortStr(); err != nil {
		return err
	}
	if m.DeliveryTag, err = d.ReadLongLong(); err != nil {
		return err
	}
	if m.Redelivered, err = d.ReadBit(); err != nil {
		return err
	}
	if m.Exchange, err = d.ReadShortStr(); err != nil {
		return err
	}
	m.RoutingKey, err = d.ReadShortStr()
	return err
}

type BasicGet struct {
	Queue  string
	NoAck  bool
}

func (*BasicGet) ClassID() uint16  { return ClassBasic }
func (*BasicGet) MethodID() uint16 { return 70 }
func (m *BasicGet) encode(e *encoder) error {
	e.WriteShort(0)
	if err := e.WriteShortStr(m.Queue); err != nil {
		return err
	}
	e.WriteBit(m.NoAck)
	return nil
}

type BasicGetOk struct {
	DeliveryTag  uint64
	Redelivered  bool
	Exchange     string
	RoutingKey   string
	MessageCount uint32
}

func (*BasicGetOk) ClassID() uint16  { return ClassBasic }
func (*BasicGetOk) MethodID() uint16 { return 71 }
func (m *BasicGetOk) encode(e *encoder) error {
	e.WriteLongLong(m.DeliveryTag)
	e.WriteBit(m.Redelivered)
	if err := e.WriteShortStr(m.Exchange); err != nil {
		return err
	}
	if err := e.WriteShortStr(m.RoutingKey); err != nil {
		return err
	}
	e.WriteLong(m.MessageCount)
	return nil
}
func (m *BasicGetOk) decode(d *decoder) error {
	var err error
	if m.DeliveryTag, err = d.ReadLongLong(); err != nil {
		return err
	}
	if m.Redelivered, err = d.ReadBit(); err != nil {
		return err
	}
	if m.Exchange, err = d.ReadShortStr(); err != nil {
		return err
	}
	if m.RoutingKey, err = d.ReadShortStr(); err != nil {
		return err
	}
	m.MessageCount, err = d.ReadLong()
	return err
}

type BasicGetEmpty struct{ Reserved1 string }

func (*BasicGetEmpty) ClassID() uint16  { return ClassBasic }
func (*BasicGetEmpty) MethodID() uint16 { return 72 }
func (m *BasicGetEmpty) encode(e *encoder) error {
	return e.WriteShortStr(m.Reserved1)
}
func (m *BasicGetEmpty) decode(d *decoder) error {
	var err error
	m.Reserved1, err = d.ReadShortStr()
	return err
}

type BasicAck struct {
	DeliveryTag uint64
	Multiple    bool
}

func (*BasicAck) ClassID() uint16  { return ClassBasic }
func (*BasicAck) MethodID() uint16 { return 80 }
func (m *BasicAck) encode(e *encoder) error {
	e.WriteLongLong(m.DeliveryTag)
	e.WriteBit(m.Multiple)
	return nil
}
func (m *BasicAck) decode(d *decoder) error {
	var err error
	if m.DeliveryTag, err = d.ReadLongLong(); err != nil {
		return err
	}
	m.Multiple, err = d.ReadBit()
	return err
}

type BasicReject struct {
	DeliveryTag uint64
	Requeue     bool
}

func (*BasicReject) ClassID() uint16  { return ClassBasic }
func (*BasicReject) MethodID() uint16 { return 90 }
func (m *BasicReject) encode(e *encoder) error {
	e.WriteLongLong(m.DeliveryTag)
	e.WriteBit(m.Requeue)
	return nil
}
func (m *BasicReject) decode(d *decoder) error {
	var err error
	if m.DeliveryTag, err = d.ReadLongLong(); err != nil {
		return err
	}
	m.Requeue, err = d.ReadBit()
	return err
}

type BasicRecover struct{ Requeue bool }

func (*BasicRecover) ClassID() uint16  { return ClassBasic }
func (*BasicRecover) MethodID() uint16 { return 100 }
func (m *BasicRecover) encode(e *encoder) error {
	e.WriteBit(m.Requeue)
	return nil
}
func (m *BasicRecover) decode(d *decoder) error {
	v, err := d.ReadBit()
	m.Requeue = v
	return err
}

type BasicRecoverOk struct{}

func (*BasicRecoverOk) ClassID() uint16  { return ClassBasic }
func (*BasicRecoverOk) MethodID() uint16 { return 101 }

type BasicNack struct {
	DeliveryTag uint64
	Multiple    bool
	Requeue     bool
}

func (*BasicNack) ClassID() uint16  { return ClassBasic }
func (*BasicNack) MethodID() uint16 { return 120 }
func (m *BasicNack) encode(e *encoder) error {
	e.WriteLongLong(m.DeliveryTag)
	e.WriteBit(m.Multiple)
	e.WriteBit(m.Requeue)
	return nil
}
func (m *BasicNack) decode(d *decoder) error {
	var err error
	if m.DeliveryTag, err = d.ReadLongLong(); err != nil {
		return err
	}
	if m.Multiple, err = d.ReadBit(); err != nil {
		return err
	}
	m.Requeue, err = d.ReadBit()
	return err
}

// ---- Tx class (90) ----

type TxSelect struct{}

func (*TxSelect) ClassID() uint16  { return ClassTx }
func (*TxSelect) MethodID() uint16 { return 10 }

type TxSelectOk struct{}

func (*TxSelectOk) ClassID() uint16  { return ClassTx }
func (*TxSelectOk) MethodID() uint16 { return 11 }

type TxCommit struct{}

func (*TxCommit) ClassID() uint16  { return ClassTx }
func (*TxCommit) MethodID() uint16 { return 20 }

type TxCommitOk struct{}

func (*TxCommitOk) ClassID() uint16  { return ClassTx }
func (*TxCommitOk) MethodID() uint16 { return 21 }

type TxRollback struct{}

func (*TxRollback) ClassID() uint16  { return ClassTx }
func (*TxRollback) MethodID() uint16 { return 30 }

type TxRollbackOk struct{}

func (*TxRollbackOk) ClassID() uint16  { return ClassTx }
func (*TxRollbackOk) MethodID() uint16 { return 31 }

// ---- Confirm class (85) ----

type ConfirmSelect struct{ NoWait bool }

func (*ConfirmSelect) ClassID() uint16  { return ClassConfirm }
func (*ConfirmSelect) MethodID() uint16 { return 10 }
func (m *ConfirmSelect) encode(e *encoder) error {
	e.WriteBit(m.NoWait)
	return nil
}
func (m *ConfirmSelect) decode(d *decoder) error {
	v, err := d.ReadBit()
	m.NoWait = v
	return err
}

type ConfirmSelectOk struct{}

func (*ConfirmSelectOk) ClassID() uint16  { return ClassConfirm }
func (*ConfirmSelectOk) MethodID() uint16 { return 11 }
