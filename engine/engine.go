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

// Package engine implements the sans-I/O AMQP 0-9-1 protocol engine: the
// connection state machine, channel multiplexer, callback registry and
// heartbeat monitor that together drive a broker connection without ever
// performing I/O themselves. All entry points are synchronous; waiting is
// always expressed by registering a callback through the Registry.
package engine

import (
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/packetd/amqpcore/amqp"
	"github.com/packetd/amqpcore/logger"
)

// Options configures a new Engine. Zero values for ChannelMax/FrameMax/
// Heartbeat mean "no preference" and are resolved against the server's
// offer via combine().
type Options struct {
	VirtualHost string
	ChannelMax  uint16
	FrameMax    uint32
	Heartbeat   uint16
	Credentials Credentials
}

// Engine drives a single AMQP connection. All exported methods must be
// externally serialized by the caller (see package transport for a
// reference mutex-based driver); the engine itself holds no lock.
type Engine struct {
	opts           Options
	transport      Transport
	state          *ConnectionState
	registry       *Registry
	decoder        amqp.FrameDecoder
	channels       map[uint16]*Channel
	heartbeat      *heartbeatMonitor
	connectionName string

	// localClose is set while a user-initiated Close is draining open
	// channels; once the last one's Close-Ok/Close arrives, dispatch sends
	// Connection.Close using the reason recorded here.
	localClose *CloseReason
}

// New constructs an Engine bound to transport. The engine performs no I/O
// until OnTransportConnected is called. Each instance gets a unique
// connection_name client property so broker-side connection listings (and
// logs on both ends) can tell concurrent engines apart.
func New(transport Transport, opts Options) *Engine {
	if opts.Credentials == nil {
		opts.Credentials = GuestCredentials()
	}
	return &Engine{
		opts:           opts,
		transport:      transport,
		state:          newConnectionState(),
		registry:       NewRegistry(),
		channels:       make(map[uint16]*Channel),
		connectionName: uuid.NewString(),
	}
}

// IsOpen mirrors pika's three-flag is_open check: true only once Tune/Open
// has completed and neither a local nor remote close is in progress.
func (e *Engine) IsOpen() bool {
	return e.state.Lifecycle == StateOpen
}

// OnTransportConnected must be called once the transport has established
// the underlying connection. It emits the fixed protocol header, the only
// frame the engine ever sends before the server's Connection.Start.
func (e *Engine) OnTransportConnected() error {
	if e.state.Lifecycle != StateInit {
		return nil
	}
	if err := e.transport.EmitBytes(amqp.EncodeProtocolHeader()); err != nil {
		return errors.Wrap(err, "engine: emit protocol header")
	}
	e.state.Lifecycle = StateProtocolHeaderSent
	return nil
}

// OnTransportClosed must be called once the transport confirms the
// underlying connection has gone away, whether the engine asked for that
// or the peer/network did.
func (e *Engine) OnTransportClosed() {
	if e.state.Lifecycle == StateClosed {
		return
	}
	e.state.Lifecycle = StateClosed
	e.registry.Process(0, SymbolKey("on_close"), e.state.CloseReason)
}

// OnBytes feeds a chunk of transport-received bytes into the frame decoder
// and dispatches every complete frame it yields.
func (e *Engine) OnBytes(chunk []byte) error {
	if e.heartbeat != nil {
		e.heartbeat.OnBytesRead()
	}
	frames, err := e.decoder.Feed(chunk)
	for _, f := range frames {
		if derr := e.dispatch(f); derr != nil {
			return derr
		}
	}
	return err
}

// OnTimerTick must be invoked once per negotiated heartbeat interval. It
// emits a Heartbeat frame if no outbound traffic occurred during the
// interval, and force-closes the connection if no inbound traffic has
// arrived for maxIdleIntervals consecutive intervals.
func (e *Engine) OnTimerTick() error {
	if e.heartbeat == nil {
		return nil
	}
	sendHB, dead := e.heartbeat.Tick()
	if dead {
		heartbeatTimeoutsTotal.Inc()
		e.state.CloseReason = &CloseReason{Code: 0, Text: "heartbeat timeout"}
		e.state.Lifecycle = StateClosing
		return e.transport.Disconnect()
	}
	if sendHB {
		return e.emitFrame(&amqp.Heartbeat{})
	}
	return nil
}

func (e *Engine) dispatch(f amqp.Frame) error {
	switch v := f.(type) {
	case *amqp.ProtocolHeader:
		framesReceivedTotal.WithLabelValues("protocol-header").Inc()
		e.state.Lifecycle = StateClosed
		e.state.CloseReason = &CloseReason{Text: "protocol version mismatch"}
		return ErrProtocolVersionMismatch
	case *amqp.Method:
		framesReceivedTotal.WithLabelValues("method").Inc()
		return e.dispatchMethod(v)
	case *amqp.ContentHeader:
		framesReceivedTotal.WithLabelValues("content-header").Inc()
		return e.dispatchContentHeader(v)
	case *amqp.ContentBody:
		framesReceivedTotal.WithLabelValues("content-body").Inc()
		return e.dispatchContentBody(v)
	case *amqp.Heartbeat:
		framesReceivedTotal.WithLabelValues("heartbeat").Inc()
		return nil
	default:
		return nil
	}
}

func (e *Engine) dispatchMethod(m *amqp.Method) error {
	if m.Channel == 0 {
		return e.dispatchConnectionMethod(m)
	}
	// Closing still accepts channel frames so a local Close can drain the
	// open channels' Close/Close-Ok replies.
	if e.state.Lifecycle != StateOpen && e.state.Lifecycle != StateClosing {
		return ErrUnexpectedFrame
	}
	ch, ok := e.channels[m.Channel]
	if !ok {
		return ErrUnexpectedFrame
	}
	return e.dispatchChannelMethod(ch, m)
}

func (e *Engine) dispatchConnectionMethod(m *amqp.Method) error {
	switch args := m.Args.(type) {
	case *amqp.ConnectionStart:
		return e.onConnectionStart(args)
	case *amqp.ConnectionTune:
		return e.onConnectionTune(args)
	case *amqp.ConnectionOpenOk:
		return e.onConnectionOpenOk(args)
	case *amqp.ConnectionClose:
		return e.onConnectionClose(args)
	case *amqp.ConnectionCloseOk:
		return e.onConnectionCloseOk()
	default:
		e.registry.Process(0, MethodKey(m.ClassID, m.MethodID), m.Args)
		return nil
	}
}

func (e *Engine) onConnectionStart(args *amqp.ConnectionStart) error {
	if args.VersionMajor != amqp.ProtocolVersionMajor || args.VersionMinor != amqp.ProtocolVersionMinor {
		e.state.Lifecycle = StateClosed
		return ErrProtocolVersionMismatch
	}
	e.state.ServerProps = args.ServerProperties
	e.state.Lifecycle = StateAwaitingTune

	mechanism, response, ok := e.opts.Credentials.ResponseFor(args)
	if !ok {
		e.state.Lifecycle = StateClosed
		return ErrLoginError
	}

	startOk := &amqp.ConnectionStartOk{
		ClientProperties: amqp.FieldTable{
			"product":         "amqpcore",
			"platform":        "Go",
			"connection_name": e.connectionName,
		},
		Mechanism: mechanism,
		Response:  response,
		Locale:    "en_US",
	}
	if err := e.sendMethod(0, startOk); err != nil {
		return err
	}
	e.opts.Credentials.EraseCredentials()
	return nil
}

func (e *Engine) onConnectionTune(args *amqp.ConnectionTune) error {
	e.state.ChannelMax = combine16(e.opts.ChannelMax, args.ChannelMax)
	e.state.FrameMax = combine(e.opts.FrameMax, args.FrameMax)
	if e.state.FrameMax != 0 && e.state.FrameMax < minFrameMax {
		e.state.FrameMax = minFrameMax
	}
	e.state.Heartbeat = combine16(e.opts.Heartbeat, args.Heartbeat)
	if e.state.ChannelMax == 0 {
		e.state.ChannelMax = defaultChannelMax
	}
	e.heartbeat = newHeartbeatMonitor(e.state.Heartbeat)

	tuneOk := &amqp.ConnectionTuneOk{
		ChannelMax: e.state.ChannelMax,
		FrameMax:   e.state.FrameMax,
		Heartbeat:  e.state.Heartbeat,
	}
	if err := e.sendMethod(0, tuneOk); err != nil {
		return err
	}

	e.state.Lifecycle = StateAwaitingOpenOk
	open := &amqp.ConnectionOpen{VirtualHost: e.opts.VirtualHost}
	return e.sendMethod(0, open)
}

func (e *Engine) onConnectionOpenOk(args *amqp.ConnectionOpenOk) error {
	e.state.KnownHosts = splitKnownHosts(args.Reserved1)
	e.state.Lifecycle = StateOpen
	logger.Infof("engine: connection open, channel_max=%d frame_max=%d heartbeat=%d",
		e.state.ChannelMax, e.state.FrameMax, e.state.Heartbeat)
	e.registry.Process(0, SymbolKey("on_open"))
	return nil
}

func splitKnownHosts(s string) []string {
	if s == "" {
		return nil
	}
	var hosts []string
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == ',' {
			if i > start {
				hosts = append(hosts, s[start:i])
			}
			start = i + 1
		}
	}
	return hosts
}

func (e *Engine) onConnectionClose(args *amqp.ConnectionClose) error {
	e.state.CloseReason = &CloseReason{Code: args.ReplyCode, Text: args.ReplyText}
	e.state.Lifecycle = StateClosing
	logger.Warnf("engine: broker closed connection: code=%d text=%q", args.ReplyCode, args.ReplyText)
	for _, ch := range e.channels {
		ch.State = ChannelClosed
	}
	return e.sendMethod(0, &amqp.ConnectionCloseOk{})
}

func (e *Engine) onConnectionCloseOk() error {
	e.state.Lifecycle = StateClosed
	e.registry.Process(0, SymbolKey("on_close"), e.state.CloseReason)
	return e.transport.Disconnect()
}

func (e *Engine) dispatchChannelMethod(ch *Channel, m *amqp.Method) error {
	switch args := m.Args.(type) {
	case *amqp.ChannelOpenOk:
		ch.State = ChannelOpen
	case *amqp.ChannelClose:
		ch.State = ChannelClosed
		channelsOpen.Dec()
		_ = e.sendMethod(ch.Number, &amqp.ChannelCloseOk{})
		e.registry.Process(ch.Number, SymbolKey("on_close"), args)
		e.registry.DropChannel(ch.Number)
		delete(e.channels, ch.Number)
		return e.maybeFinishLocalClose()
	case *amqp.ChannelCloseOk:
		ch.State = ChannelClosed
		channelsOpen.Dec()
		delete(e.channels, ch.Number)
		e.registry.DropChannel(ch.Number)
		e.registry.Process(ch.Number, MethodKey(m.ClassID, m.MethodID), m.Args)
		return e.maybeFinishLocalClose()
	}
	e.registry.Process(ch.Number, MethodKey(m.ClassID, m.MethodID), m.Args)
	return nil
}

// maybeFinishLocalClose emits Connection.Close once a user-initiated Close
// has drained the last open channel, completing the "Open | user close |
// iterate channels → Channel.Close; when last channel gone, emit
// Connection.Close" shutdown sequence.
func (e *Engine) maybeFinishLocalClose() error {
	if e.localClose == nil || len(e.channels) != 0 {
		return nil
	}
	reason := e.localClose
	e.localClose = nil
	return e.sendMethod(0, &amqp.ConnectionClose{ReplyCode: reason.Code, ReplyText: reason.Text})
}

func (e *Engine) dispatchContentHeader(h *amqp.ContentHeader) error {
	ch, ok := e.channels[h.Channel]
	if !ok {
		return ErrUnexpectedFrame
	}
	header, body, err := ch.onContentHeader(h)
	if err != nil {
		return err
	}
	if header == nil {
		return nil
	}
	e.registry.Process(ch.Number, SymbolKey("on_content"), header, body)
	return nil
}

func (e *Engine) dispatchContentBody(b *amqp.ContentBody) error {
	ch, ok := e.channels[b.Channel]
	if !ok {
		return ErrUnexpectedFrame
	}
	header, body, err := ch.onContentBody(b.Fragment)
	if err != nil {
		return err
	}
	if header == nil {
		return nil
	}
	e.registry.Process(ch.Number, SymbolKey("on_content"), header, body)
	return nil
}

// OpenChannel allocates the next free channel number and sends
// Channel.Open. The reply is delivered asynchronously through onOpened,
// which is registered one-shot against the ChannelOpenOk key.
func (e *Engine) OpenChannel(onOpened func(channel uint16, err error)) error {
	if e.state.Lifecycle != StateOpen {
		return ErrConnectionClosed
	}
	number, err := e.allocateChannel()
	if err != nil {
		return err
	}
	ch := newChannel(number)
	e.channels[number] = ch
	channelsOpen.Inc()

	e.registry.Add(number, MethodKey(amqp.ClassChannel, 11), func(args ...any) {
		onOpened(number, nil)
	}, true)

	return e.sendMethod(number, &amqp.ChannelOpen{})
}

func (e *Engine) allocateChannel() (uint16, error) {
	limit := e.state.ChannelMax
	if limit == 0 {
		limit = defaultChannelMax
	}
	var highest uint16
	for n := range e.channels {
		if n > highest {
			highest = n
		}
	}
	next := highest + 1
	if next == 0 || next > limit {
		return 0, ErrNoFreeChannels
	}
	return next, nil
}

// SendMethod encodes args and emits it as a single Method frame on channel.
// It sends no ContentHeader or ContentBody frames, even for a
// content-bearing method; PublishContent sends a Basic.Publish together
// with its fragmented content.
func (e *Engine) SendMethod(channel uint16, args amqp.MethodArgs) error {
	return e.sendMethod(channel, args)
}

func (e *Engine) sendMethod(channel uint16, args amqp.MethodArgs) error {
	frame := &amqp.Method{Channel: channel, ClassID: args.ClassID(), MethodID: args.MethodID(), Args: args}
	return e.emitFrame(frame)
}

// PublishContent emits a Basic.Publish method followed by a ContentHeader
// and as many ContentBody fragments as the negotiated frame_max requires.
// A caller that leaves props.CorrelationID empty gets one generated so the
// message can still be matched against an eventual reply or ack.
func (e *Engine) PublishContent(channel uint16, publish *amqp.BasicPublish, props amqp.Properties, body []byte) error {
	if props.CorrelationID == "" {
		props.CorrelationID = uuid.NewString()
	}
	if err := e.sendMethod(channel, publish); err != nil {
		return err
	}
	header := &amqp.ContentHeader{Channel: channel, ClassID: amqp.ClassBasic, BodySize: uint64(len(body)), Properties: props}
	if err := e.emitFrame(header); err != nil {
		return err
	}
	fragments, err := fragmentBody(channel, body, e.state.FrameMax)
	if err != nil {
		return err
	}
	for _, f := range fragments {
		if err := e.emitFrame(f); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) emitFrame(f amqp.Frame) error {
	b, err := amqp.EncodeFrame(f)
	if err != nil {
		return errors.Wrap(err, "engine: encode frame")
	}
	if err := e.transport.EmitBytes(b); err != nil {
		return errors.Wrap(err, "engine: emit frame")
	}
	if e.heartbeat != nil {
		e.heartbeat.OnBytesSent()
	}
	framesSentTotal.WithLabelValues(frameLabel(f)).Inc()
	return nil
}

func frameLabel(f amqp.Frame) string {
	switch f.(type) {
	case *amqp.Method:
		return "method"
	case *amqp.ContentHeader:
		return "content-header"
	case *amqp.ContentBody:
		return "content-body"
	case *amqp.Heartbeat:
		return "heartbeat"
	default:
		return "unknown"
	}
}

// RPC sends args on channel and invokes onReply the first time any frame
// matching one of replyKeys arrives on that channel, then cancels the
// registration under the other keys — mirroring pika's rpc(), where a
// single callback is registered under every acceptable reply and whichever
// fires first deregisters its siblings.
func (e *Engine) RPC(channel uint16, args amqp.MethodArgs, replyKeys []Key, onReply func(args ...any)) error {
	start := time.Now()
	methodName := amqp.ClassMethodName(args.ClassID(), args.MethodID())

	var wrapped Callback
	wrapped = func(a ...any) {
		for _, k := range replyKeys {
			e.registry.Remove(channel, k, wrapped)
		}
		rpcDurationSeconds.WithLabelValues(methodName).Observe(time.Since(start).Seconds())
		onReply(a...)
	}
	for _, k := range replyKeys {
		e.registry.Add(channel, k, wrapped, true)
	}
	return e.sendMethod(channel, args)
}

// AddOnOpenCallback registers cb to fire once the connection reaches
// StateOpen. The on_open callbacks are processed only when Connection.Open-Ok
// arrives; a callback added after that does not fire.
func (e *Engine) AddOnOpenCallback(oneShot bool, cb func(args ...any)) {
	e.registry.Add(0, SymbolKey("on_open"), cb, oneShot)
}

// AddOnCloseCallback registers cb to fire once the connection reaches
// StateClosed, with the CloseReason (possibly nil) as its sole argument.
func (e *Engine) AddOnCloseCallback(oneShot bool, cb func(args ...any)) {
	e.registry.Add(0, SymbolKey("on_close"), cb, oneShot)
}

// Close begins an orderly shutdown: every open channel is asked to close,
// and once the last one acknowledges, Connection.Close is sent. Errors
// collected from channels that failed to close cleanly are aggregated with
// go-multierror rather than discarding all but the first.
func (e *Engine) Close(code uint16, text string) error {
	if e.state.Lifecycle != StateOpen {
		return nil
	}
	e.state.Lifecycle = StateClosing
	e.state.CloseReason = &CloseReason{Code: code, Text: text}
	e.localClose = e.state.CloseReason

	var merr *multierror.Error
	for _, ch := range e.channels {
		if err := e.sendMethod(ch.Number, &amqp.ChannelClose{ReplyCode: code, ReplyText: text}); err != nil {
			merr = multierror.Append(merr, errors.Wrapf(err, "channel %d", ch.Number))
		}
	}
	// If no channels were open to begin with, there is nothing for
	// maybeFinishLocalClose's drain check to ever observe, so this call
	// emits Connection.Close right away; otherwise it does nothing yet.
	if err := e.maybeFinishLocalClose(); err != nil {
		merr = multierror.Append(merr, err)
	}
	return merr.ErrorOrNil()
}
