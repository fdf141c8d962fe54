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

// Package transport provides a reference engine.Transport implementation
// over a plain net.Conn, plus the read loop and timer that drive the
// engine's entry points. It is the one piece of the system that actually
// performs I/O; the engine package never does.
package transport

import (
	"net"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"

	"github.com/packetd/amqpcore/common"
	"github.com/packetd/amqpcore/engine"
	"github.com/packetd/amqpcore/logger"
)

// Config describes how to dial and authenticate against a broker.
type Config struct {
	Host        string        `config:"host"`
	Port        int           `config:"port"`
	VHost       string        `config:"vhost"`
	Username    string        `config:"username"`
	Password    string        `config:"password"`
	Heartbeat   uint16        `config:"heartbeat"`
	FrameMax    uint32        `config:"frame_max"`
	ChannelMax  uint16        `config:"channel_max"`
	DialTimeout time.Duration `config:"dial_timeout"`
}

// TCPTransport drives an engine.Engine over a net.Conn. Every call into
// the engine (OnBytes, OnTimerTick, ...) is serialized by mu, satisfying
// the engine's single-writer contract when the read loop and timer fire
// from different goroutines. closed tracks connection teardown separately,
// as an atomic flag rather than under mu: the engine calls Disconnect
// synchronously from inside OnBytes/OnTimerTick (e.g. once Connection.
// Close-Ok arrives, or on a heartbeat timeout), so Disconnect must never
// try to take mu itself — that call is already running under it, and
// sync.Mutex is not reentrant.
type TCPTransport struct {
	mu     sync.Mutex
	conn   net.Conn
	eng    *engine.Engine
	closed atomic.Bool
}

// Dial connects to cfg.Host:cfg.Port (cfg.DialTimeout bounds the TCP
// connect), constructs an engine.Engine bound to the new transport, emits
// the protocol header and starts the read loop. It returns without waiting
// for the handshake; the connection is open once the engine's on_open
// callbacks fire.
func Dial(cfg Config) (*TCPTransport, *engine.Engine, error) {
	port := cfg.Port
	if port == 0 {
		port = 5672
	}
	addr := net.JoinHostPort(cfg.Host, strconv.Itoa(port))
	timeout := cfg.DialTimeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return nil, nil, errors.Wrap(err, "transport: dial")
	}

	t := &TCPTransport{conn: conn}
	eng := engine.New(t, engine.Options{
		VirtualHost: cfg.VHost,
		ChannelMax:  cfg.ChannelMax,
		FrameMax:    cfg.FrameMax,
		Heartbeat:   cfg.Heartbeat,
		Credentials: engine.NewPlainCredentials(cfg.Username, cfg.Password),
	})
	t.eng = eng

	if err := eng.OnTransportConnected(); err != nil {
		_ = conn.Close()
		return nil, nil, err
	}

	go t.readLoop()
	if cfg.Heartbeat > 0 {
		go t.heartbeatLoop(time.Duration(cfg.Heartbeat) * time.Second)
	}

	return t, eng, nil
}

func (t *TCPTransport) readLoop() {
	buf := make([]byte, common.ReadWriteBlockSize)
	for {
		n, err := t.conn.Read(buf)
		if n > 0 {
			t.mu.Lock()
			derr := t.eng.OnBytes(buf[:n])
			t.mu.Unlock()
			if derr != nil {
				logger.Errorf("transport: engine rejected bytes: %v", derr)
				_ = t.Disconnect()
				t.mu.Lock()
				t.eng.OnTransportClosed()
				t.mu.Unlock()
				return
			}
		}
		if err != nil {
			// Also reached after Disconnect closed conn; OnTransportClosed
			// is a no-op once the engine is already closed.
			t.closed.Store(true)
			t.mu.Lock()
			t.eng.OnTransportClosed()
			t.mu.Unlock()
			return
		}
	}
}

func (t *TCPTransport) heartbeatLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for range ticker.C {
		if t.closed.Load() {
			return
		}
		t.mu.Lock()
		err := t.eng.OnTimerTick()
		t.mu.Unlock()
		if err != nil {
			logger.Errorf("transport: heartbeat tick failed: %v", err)
			return
		}
	}
}

// EmitBytes implements engine.Transport.
func (t *TCPTransport) EmitBytes(b []byte) error {
	_, err := t.conn.Write(b)
	return err
}

// Disconnect implements engine.Transport. It takes no lock: the engine may
// call this synchronously from within OnBytes or OnTimerTick, which already
// hold mu, so Disconnect only ever touches the lock-free closed flag and the
// underlying conn.
func (t *TCPTransport) Disconnect() error {
	if t.closed.Swap(true) {
		return nil
	}
	return t.conn.Close()
}

// ScheduleTimer implements engine.Transport using time.AfterFunc. Returned
// cancel stops the pending fire, matching the contract that Transport
// never blocks the caller.
func (t *TCPTransport) ScheduleTimer(d time.Duration, fn func()) (cancel func()) {
	timer := time.AfterFunc(d, fn)
	return func() { timer.Stop() }
}
